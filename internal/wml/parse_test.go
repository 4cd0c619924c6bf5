package wml

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/vortex/docpipe/internal/opc"
)

// buildDocxZip assembles a minimal but real DOCX container in memory so
// Parse can be exercised end-to-end without a fixture file on disk,
// mirroring the teacher opc tests' buildTestZip helper.
func buildDocxZip(t *testing.T, members map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range members {
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %q: %v", name, err)
		}
		if _, err := fw.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %q: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

const testContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="xml" ContentType="application/xml"/>
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Override PartName="/word/document.xml"
            ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/word/styles.xml"
            ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

const testPackageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const testDocumentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

const testStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:styleId="Normal" w:default="1">
    <w:name w:val="Normal"/>
  </w:style>
</w:styles>`

func mustParse(t *testing.T, documentXML string) *DocumentModel {
	t.Helper()
	data := buildDocxZip(t, map[string]string{
		"[Content_Types].xml":           testContentTypes,
		"_rels/.rels":                   testPackageRels,
		"word/document.xml":             documentXML,
		"word/_rels/document.xml.rels":  testDocumentRels,
		"word/styles.xml":               testStyles,
	})
	pkg, err := opc.OpenBytes(data)
	if err != nil {
		t.Fatalf("opc.OpenBytes: %v", err)
	}
	model, diags, err := Parse(pkg)
	if err != nil {
		t.Fatalf("Parse: %v (diagnostics: %v)", err, diags.Entries())
	}
	return model
}

// Scenario A (spec.md §8.2): a single paragraph "Hello, world." in Normal
// style parses into one Body block whose run text round-trips exactly.
func TestParse_MinimalParagraph(t *testing.T) {
	model := mustParse(t, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Hello, world.</w:t></w:r></w:p>
    <w:sectPr>
      <w:pgSz w:w="11906" w:h="16838"/>
      <w:pgMar w:top="1440" w:bottom="1440" w:left="1440" w:right="1440"/>
    </w:sectPr>
  </w:body>
</w:document>`)

	if len(model.Body.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(model.Body.Blocks))
	}
	p, ok := model.Body.Blocks[0].(*Paragraph)
	if !ok {
		t.Fatalf("expected *Paragraph, got %T", model.Body.Blocks[0])
	}
	if len(p.Content) != 1 {
		t.Fatalf("expected 1 run, got %d", len(p.Content))
	}
	run, ok := p.Content[0].(*Run)
	if !ok {
		t.Fatalf("expected *Run, got %T", p.Content[0])
	}
	if got := run.Text(); got != "Hello, world." {
		t.Errorf("run text = %q, want %q", got, "Hello, world.")
	}
	if p.Props.StyleID != "Normal" {
		t.Errorf("paragraph style = %q, want Normal (doc default)", p.Props.StyleID)
	}

	if len(model.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(model.Sections))
	}
	sec := model.Sections[0]
	// A4: 11906 twips -> 595.3pt, 16838 twips -> 841.9pt.
	if sec.PageWidthPt < 595 || sec.PageWidthPt > 596 {
		t.Errorf("page width = %v, want ~595.3pt", sec.PageWidthPt)
	}
	if sec.PageHeightPt < 841 || sec.PageHeightPt > 842 {
		t.Errorf("page height = %v, want ~841.9pt", sec.PageHeightPt)
	}
}

// Multiple runs with distinct character properties stay distinct Run
// nodes rather than merging, since each carries its own RunProperties.
func TestParse_MultipleRunsPreserveFormatting(t *testing.T) {
	model := mustParse(t, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:r><w:t xml:space="preserve">plain </w:t></w:r>
      <w:r><w:rPr><w:b/></w:rPr><w:t>bold</w:t></w:r>
    </w:p>
  </w:body>
</w:document>`)

	p := model.Body.Blocks[0].(*Paragraph)
	if len(p.Content) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(p.Content))
	}
	r1 := p.Content[0].(*Run)
	r2 := p.Content[1].(*Run)
	if r1.Text() != "plain " {
		t.Errorf("first run text = %q, want %q", r1.Text(), "plain ")
	}
	if r2.Text() != "bold" || !r2.Props.Bold {
		t.Errorf("second run = %q/bold=%v, want %q/bold=true", r2.Text(), r2.Props.Bold, "bold")
	}
}

// A malformed main document part is a fatal error (§4.2 failure semantics).
func TestParse_MalformedDocumentXMLIsFatal(t *testing.T) {
	data := buildDocxZip(t, map[string]string{
		"[Content_Types].xml":          testContentTypes,
		"_rels/.rels":                  testPackageRels,
		"word/document.xml":            "<w:document><unclosed",
		"word/_rels/document.xml.rels": testDocumentRels,
	})
	pkg, err := opc.OpenBytes(data)
	if err != nil {
		t.Fatalf("opc.OpenBytes: %v", err)
	}
	if _, _, err := Parse(pkg); err == nil {
		t.Fatal("expected a fatal error parsing malformed document.xml")
	}
}

// A missing styles part degrades to an empty style table rather than
// failing the whole parse (§4.2: headers/footers/notes/styles degrade).
func TestParse_MissingStylesPartDegrades(t *testing.T) {
	data := buildDocxZip(t, map[string]string{
		"[Content_Types].xml": testContentTypes,
		"_rels/.rels":         testPackageRels,
		"word/document.xml": `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body><w:p><w:r><w:t>no styles here</w:t></w:r></w:p></w:body>
</w:document>`,
		// no word/_rels/document.xml.rels, no word/styles.xml
	})
	pkg, err := opc.OpenBytes(data)
	if err != nil {
		t.Fatalf("opc.OpenBytes: %v", err)
	}
	model, _, err := Parse(pkg)
	if err != nil {
		t.Fatalf("Parse should degrade rather than fail: %v", err)
	}
	if model.Styles == nil {
		t.Fatal("expected a non-nil (empty) style table")
	}
	if len(model.Styles.ByID) != 0 {
		t.Errorf("expected no styles, got %d", len(model.Styles.ByID))
	}
}
