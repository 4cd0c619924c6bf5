// Package oxml provides namespace-aware helpers over beevik/etree for
// reading Office Open XML (WordprocessingML, DrawingML, OPC relationship
// and content-type) documents.
//
// Adapted from the teacher's oxml.ns — generalized from a two-way
// prefix<->Clark-notation tag builder (needed for an editing library that
// constructs elements) down to the read-only lookups the parser actually
// exercises: Qn/TryQn to match parsed elements against known tags, plus the
// namespace table itself.
package oxml

import (
	"fmt"
	"strings"
)

// Nsmap maps namespace prefixes to their URIs, covering every namespace
// the parser dispatch table (internal/wml) matches against.
var Nsmap = map[string]string{
	"a":   "http://schemas.openxmlformats.org/drawingml/2006/main",
	"c":   "http://schemas.openxmlformats.org/drawingml/2006/chart",
	"cp":  "http://schemas.openxmlformats.org/package/2006/metadata/core-properties",
	"dc":  "http://purl.org/dc/elements/1.1/",
	"dcterms": "http://purl.org/dc/terms/",
	"mc":  "http://schemas.openxmlformats.org/markup-compatibility/2006",
	"pic": "http://schemas.openxmlformats.org/drawingml/2006/picture",
	"r":   "http://schemas.openxmlformats.org/officeDocument/2006/relationships",
	"v":   "urn:schemas-microsoft-com:vml",
	"w":   "http://schemas.openxmlformats.org/wordprocessingml/2006/main",
	"w14": "http://schemas.microsoft.com/office/word/2010/wordml",
	"wp":  "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing",
	"wps": "http://schemas.microsoft.com/office/word/2010/wordprocessingShape",
	"xml": "http://www.w3.org/XML/1998/namespace",
	"xsi": "http://www.w3.org/2001/XMLSchema-instance",

	// OPC package-level XML (not WordprocessingML, but parsed with the
	// same etree-based helpers).
	"ct":  "http://schemas.openxmlformats.org/package/2006/content-types",
	"pr":  "http://schemas.openxmlformats.org/package/2006/relationships",
}

// Pfxmap is the reverse mapping of URI to prefix.
var Pfxmap map[string]string

func init() {
	Pfxmap = make(map[string]string, len(Nsmap))
	for pfx, uri := range Nsmap {
		Pfxmap[uri] = pfx
	}
}

// TryQn converts a prefixed tag ("w:p") to Clark notation
// ("{http://schemas.openxmlformats.org/wordprocessingml/2006/main}p").
// A tag with no prefix is returned unchanged.
func TryQn(tag string) (string, error) {
	prefix, local, ok := strings.Cut(tag, ":")
	if !ok {
		return tag, nil
	}
	uri, exists := Nsmap[prefix]
	if !exists {
		return "", fmt.Errorf("oxml: unknown namespace prefix %q in tag %q", prefix, tag)
	}
	return "{" + uri + "}" + local, nil
}

// Qn is TryQn for compile-time-known tags; it panics on an unknown prefix.
func Qn(tag string) string {
	s, err := TryQn(tag)
	if err != nil {
		panic(err)
	}
	return s
}

// LocalName strips the namespace prefix from a tag known to carry one of
// Nsmap's prefixes ("w:pPr" -> "pPr"). Tags without a colon are returned
// unchanged.
func LocalName(tag string) string {
	if i := strings.IndexByte(tag, ':'); i >= 0 {
		return tag[i+1:]
	}
	return tag
}
