package pdf

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
)

func TestDocumentAllocReservesDistinctNumbers(t *testing.T) {
	d := NewDocument()
	r1 := d.Alloc()
	r2 := d.Alloc()
	if r1 == r2 {
		t.Fatalf("Alloc returned the same reference twice: %v", r1)
	}
	if r1 != 1 || r2 != 2 {
		t.Fatalf("got refs %v, %v; want 1, 2 (object 0 reserved)", r1, r2)
	}
}

func TestDocumentSetCompletesForwardReference(t *testing.T) {
	d := NewDocument()
	r := d.Alloc()
	d.Set(r, Dict{"Type": Name("Pages")})
	out := d.WriteTo(r, 0)
	if !strings.Contains(string(out), "1 0 obj\n<< /Type /Pages >>\nendobj") {
		t.Fatalf("forward reference not completed, got:\n%s", out)
	}
}

func TestWriteToProducesWellFormedHeaderXrefTrailer(t *testing.T) {
	d := NewDocument()
	catalog := d.Add(Dict{"Type": Name("Catalog")})
	out := d.WriteTo(catalog, 0)
	s := string(out)

	if !strings.HasPrefix(s, "%PDF-1.7\n") {
		t.Fatalf("missing PDF header, got: %q", s[:20])
	}
	if !strings.Contains(s, "\nxref\n0 2\n") {
		t.Fatalf("expected a 2-entry xref section, got:\n%s", s)
	}
	if !strings.Contains(s, "0000000000 65535 f \n") {
		t.Fatalf("missing free-list head entry, got:\n%s", s)
	}
	if !strings.Contains(s, "trailer\n") || !strings.Contains(s, "/Root 1 0 R") {
		t.Fatalf("missing or malformed trailer, got:\n%s", s)
	}
	if !strings.HasSuffix(strings.TrimRight(s, "\n"), "%%EOF") {
		t.Fatalf("expected trailing %%%%EOF, got: %q", s[len(s)-20:])
	}
	if strings.Contains(s, "/Info") {
		t.Fatalf("did not expect an /Info entry when info ref is 0, got:\n%s", s)
	}
}

func TestWriteToIncludesInfoWhenNonZero(t *testing.T) {
	d := NewDocument()
	catalog := d.Add(Dict{"Type": Name("Catalog")})
	info := d.Add(Dict{"Title": String("Report")})
	out := d.WriteTo(catalog, info)
	if !bytes.Contains(out, []byte("/Info 2 0 R")) {
		t.Fatalf("expected /Info to reference the info dict, got:\n%s", out)
	}
}

func TestXrefOffsetsPointAtCorrectObjects(t *testing.T) {
	d := NewDocument()
	d.Add(Dict{"A": Int(1)})
	d.Add(Dict{"B": Int(2)})
	out := d.WriteTo(1, 0)
	s := string(out)

	xrefIdx := strings.Index(s, "\nxref\n")
	if xrefIdx < 0 {
		t.Fatal("no xref section found")
	}
	lines := strings.Split(s[xrefIdx+len("\nxref\n"):], "\n")
	// lines[0] is "0 3", lines[1] is the free entry, lines[2]/[3] are object entries.
	if lines[0] != "0 3" {
		t.Fatalf("expected subsection header 0 3, got %q", lines[0])
	}
	for i, want := range []string{"1 0 obj", "2 0 obj"} {
		off, err := strconv.Atoi(strings.Fields(lines[2+i])[0])
		if err != nil || off >= len(s) || !strings.HasPrefix(s[off:], want) {
			t.Fatalf("xref entry %q does not point at %q", lines[2+i], want)
		}
	}
}
