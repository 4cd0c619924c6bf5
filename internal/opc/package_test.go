package opc

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/vortex/docpipe/internal/docerr"
)

// buildTestZip creates a minimal in-memory ZIP from a map of member names
// to contents, the same way the teacher's opc tests build malformed
// packages to probe the reader's degrade paths.
func buildTestZip(t *testing.T, members map[string]string) []byte {
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

const minimalContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="xml" ContentType="application/xml"/>
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Override PartName="/word/document.xml"
            ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/word/styles.xml"
            ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

const minimalDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body><w:p><w:r><w:t>Hello</w:t></w:r></w:p></w:body>
</w:document>`

const packageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

func minimalPackageBytes(t *testing.T) []byte {
	t.Helper()
	return buildTestZip(t, map[string]string{
		"[Content_Types].xml":            minimalContentTypes,
		"_rels/.rels":                    packageRels,
		"word/document.xml":              minimalDocumentXML,
		"word/_rels/document.xml.rels":   documentRels,
		"word/styles.xml":                `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`,
	})
}

func TestOpenBytes_MinimalPackage(t *testing.T) {
	pkg, err := OpenBytes(minimalPackageBytes(t))
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}

	docPart, ok := pkg.RelatedPart(RelTypeOfficeDocument)
	if !ok {
		t.Fatal("RelatedPart(RelTypeOfficeDocument) not found")
	}
	if docPart.Name != "/word/document.xml" {
		t.Errorf("doc part name = %q, want /word/document.xml", docPart.Name)
	}

	blob, err := pkg.ReadPart("/word/document.xml")
	if err != nil {
		t.Fatalf("ReadPart: %v", err)
	}
	if !bytes.Contains(blob, []byte("Hello")) {
		t.Error("expected document.xml bytes to contain the run text")
	}

	stylesPart, ok := pkg.RelatedPartFrom(docPart.Name, RelTypeStyles)
	if !ok {
		t.Fatal("RelatedPartFrom(document.xml, RelTypeStyles) not found")
	}
	if stylesPart.Name != "/word/styles.xml" {
		t.Errorf("styles part = %q, want /word/styles.xml", stylesPart.Name)
	}
}

func TestOpenBytes_MissingDocumentXML(t *testing.T) {
	data := buildTestZip(t, map[string]string{
		"[Content_Types].xml": minimalContentTypes,
		"_rels/.rels":         `<?xml version="1.0"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`,
	})

	_, err := OpenBytes(data)
	if err == nil {
		t.Fatal("expected an error when word/document.xml is absent")
	}
	var missing *docerr.MissingPartError
	if !errors.As(err, &missing) {
		t.Errorf("expected a MissingPartError, got %T: %v", err, err)
	}
}

func TestOpenBytes_NotAZip(t *testing.T) {
	_, err := OpenBytes([]byte("this is definitely not a zip file"))
	if err == nil {
		t.Fatal("expected an error opening non-ZIP bytes")
	}
	var invalid *docerr.InvalidPackageError
	if !errors.As(err, &invalid) {
		t.Errorf("expected an InvalidPackageError, got %T: %v", err, err)
	}
}

func TestOpenBytes_MissingContentTypes(t *testing.T) {
	data := buildTestZip(t, map[string]string{
		"_rels/.rels":        packageRels,
		"word/document.xml":  minimalDocumentXML,
	})
	_, err := OpenBytes(data)
	if err == nil {
		t.Fatal("expected an error when [Content_Types].xml is absent")
	}
	var invalid *docerr.InvalidPackageError
	if !errors.As(err, &invalid) {
		t.Errorf("expected an InvalidPackageError, got %T: %v", err, err)
	}
}

// A relationship pointing at a ZIP member that doesn't physically exist
// degrades to "skip that part" rather than failing the whole open (§4.1:
// a malformed individual .rels entry shouldn't abort the package).
func TestOpenBytes_DanglingRelationshipIsSkipped(t *testing.T) {
	relsWithDangling := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="word/footer1.xml"/>
</Relationships>`
	data := buildTestZip(t, map[string]string{
		"[Content_Types].xml": minimalContentTypes,
		"_rels/.rels":         relsWithDangling,
		"word/document.xml":   minimalDocumentXML,
		// word/footer1.xml intentionally absent.
	})

	pkg, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes should tolerate a dangling relationship, got: %v", err)
	}
	if _, ok := pkg.Part("/word/footer1.xml"); ok {
		t.Error("dangling relationship target should not appear as a part")
	}
	if _, ok := pkg.RelatedPart(RelTypeOfficeDocument); !ok {
		t.Error("the valid document relationship should still resolve")
	}
}

func TestOpenBytes_BackslashTargetsNormalize(t *testing.T) {
	docRelsBackslash := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="..\word\styles.xml"/>
</Relationships>`
	data := buildTestZip(t, map[string]string{
		"[Content_Types].xml":           minimalContentTypes,
		"_rels/.rels":                   packageRels,
		"word/document.xml":             minimalDocumentXML,
		"word/_rels/document.xml.rels":  docRelsBackslash,
		"word/styles.xml":               `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`,
	})
	pkg, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	target, relType, mode, err := pkg.ResolveRel("/word/document.xml", "rId1")
	if err != nil {
		t.Fatalf("ResolveRel: %v", err)
	}
	if target != "/word/styles.xml" {
		t.Errorf("target = %q, want /word/styles.xml", target)
	}
	if relType != RelTypeStyles {
		t.Errorf("relType = %q, want %q", relType, RelTypeStyles)
	}
	if mode != TargetModeInternal {
		t.Errorf("mode = %v, want Internal", mode)
	}
}
