package oxml

import "testing"

const sampleXML = `<?xml version="1.0"?>
<w:p xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" w14:paraId="00AB12CD" xmlns:w14="http://schemas.microsoft.com/office/word/2010/wordml">
  <w:pPr><w:jc w:val="center"/></w:pPr>
  <w:r><w:t>hello</w:t></w:r>
  <w:r><w:t> world</w:t></w:r>
</w:p>`

func TestChildAndChildren(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleXML))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	root := doc.Root()

	pPr := Child(root, "w", "pPr")
	if pPr == nil {
		t.Fatal("expected to find w:pPr")
	}
	jc := Child(pPr, "w", "jc")
	if jc == nil {
		t.Fatal("expected to find w:jc")
	}
	v, ok := Attr(jc, "w", "val")
	if !ok || v != "center" {
		t.Errorf("jc val = %q, ok=%v, want center/true", v, ok)
	}

	runs := Children(root, "w", "r")
	if len(runs) != 2 {
		t.Fatalf("expected 2 w:r children, got %d", len(runs))
	}
}

func TestIs(t *testing.T) {
	doc, _ := ParseDocument([]byte(sampleXML))
	root := doc.Root()
	if !Is(root, "w", "p") {
		t.Error("expected root to be w:p")
	}
	if Is(root, "w", "tbl") {
		t.Error("root should not match w:tbl")
	}
	if Is(nil, "w", "p") {
		t.Error("Is(nil, ...) should be false")
	}
}

func TestAttrInt(t *testing.T) {
	doc, _ := ParseDocument([]byte(`<w:sz xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" w:val="24"/>`))
	el := doc.Root()
	v, ok := AttrInt(el, "w", "val")
	if !ok || v != 24 {
		t.Errorf("AttrInt = %d, ok=%v, want 24/true", v, ok)
	}
	if _, ok := AttrInt(el, "w", "missing"); ok {
		t.Error("AttrInt should fail for a missing attribute")
	}
}

func TestAttrBool(t *testing.T) {
	cases := []struct {
		xml  string
		want bool
		ok   bool
	}{
		{`<w:b xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`, false, false},
		{`<w:b xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" w:val="1"/>`, true, true},
		{`<w:b xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" w:val="0"/>`, false, true},
		{`<w:b xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" w:val="false"/>`, false, true},
	}
	for _, c := range cases {
		doc, err := ParseDocument([]byte(c.xml))
		if err != nil {
			t.Fatalf("ParseDocument(%q): %v", c.xml, err)
		}
		got, ok := AttrBool(doc.Root(), "w", "val")
		if ok != c.ok || got != c.want {
			t.Errorf("AttrBool(%q) = %v/%v, want %v/%v", c.xml, got, ok, c.want, c.ok)
		}
	}
}

func TestElementID(t *testing.T) {
	doc, _ := ParseDocument([]byte(sampleXML))
	root := doc.Root()
	if got := ElementID(root, "fallback"); got != "00AB12CD" {
		t.Errorf("ElementID = %q, want the w14:paraId value", got)
	}

	doc2, _ := ParseDocument([]byte(`<w:p xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`))
	if got := ElementID(doc2.Root(), "fallback#1"); got != "fallback#1" {
		t.Errorf("ElementID without paraId = %q, want the fallback", got)
	}
}

func TestTextContent(t *testing.T) {
	doc, _ := ParseDocument([]byte(sampleXML))
	root := doc.Root()
	runs := Children(root, "w", "r")
	got := TextContent(runs[0]) + TextContent(runs[1])
	if got != "hello world" {
		t.Errorf("TextContent concatenation = %q, want %q", got, "hello world")
	}
}

func TestQnAndTryQn(t *testing.T) {
	got := Qn("w:p")
	want := "{http://schemas.openxmlformats.org/wordprocessingml/2006/main}p"
	if got != want {
		t.Errorf("Qn(w:p) = %q, want %q", got, want)
	}
	if got := Qn("noprefix"); got != "noprefix" {
		t.Errorf("Qn with no prefix = %q, want unchanged", got)
	}
	if _, err := TryQn("bogus:tag"); err == nil {
		t.Error("TryQn should error on an unknown namespace prefix")
	}
}

func TestLocalName(t *testing.T) {
	if got := LocalName("w:pPr"); got != "pPr" {
		t.Errorf("LocalName(w:pPr) = %q, want pPr", got)
	}
	if got := LocalName("noprefix"); got != "noprefix" {
		t.Errorf("LocalName with no prefix = %q, want unchanged", got)
	}
}
