package oxml

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Children returns the immediate child elements of el whose namespace
// prefix and local name match (space, tag). Matching is by the literal
// prefix etree captured from the source document (el.Space), the same
// technique the teacher uses throughout go-docx/pkg/docx (e.g.
// `child.Space == "w" && child.Tag == "p"`): production WordprocessingML
// always uses the canonical prefixes, so comparing the written prefix is
// simpler and just as correct as resolving to a URI.
func Children(el *etree.Element, space, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if c.Space == space && c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// Child returns the first matching child, or nil.
func Child(el *etree.Element, space, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Space == space && c.Tag == tag {
			return c
		}
	}
	return nil
}

// Is reports whether el is a (space, tag) element.
func Is(el *etree.Element, space, tag string) bool {
	return el != nil && el.Space == space && el.Tag == tag
}

// Attr returns the value of an attribute matched by namespace prefix and
// local name (e.g. Attr(el, "w", "val") for w:val), and whether it was
// present.
func Attr(el *etree.Element, space, key string) (string, bool) {
	for _, a := range el.Attr {
		if a.Space == space && a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the attribute value or fallback if absent.
func AttrOr(el *etree.Element, space, key, fallback string) string {
	if v, ok := Attr(el, space, key); ok {
		return v
	}
	return fallback
}

// AttrInt parses an integer attribute, returning ok=false if absent or
// unparseable.
func AttrInt(el *etree.Element, space, key string) (int, bool) {
	v, ok := Attr(el, space, key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

// AttrBool parses an xsd:boolean-ish attribute. A present attribute with
// an empty value, "true", "1", or "on" is true; "false" or "0" is false.
// Absent returns (false, false), so a valueless toggle element such as
// "w:b" with no w:val is left to the caller to read as true.
func AttrBool(el *etree.Element, space, key string) (bool, bool) {
	v, ok := Attr(el, space, key)
	if !ok {
		return false, false
	}
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "" || v == "true" || v == "1" || v == "on", true
}

// TextContent concatenates all w:t descendant text, honoring xml:space
// semantics: a w:t with xml:space="preserve" keeps leading/trailing
// whitespace, otherwise OOXML still stores literal text (Word itself does
// the trimming at authoring time) so we always take the literal content.
func TextContent(el *etree.Element) string {
	var b strings.Builder
	for _, c := range el.ChildElements() {
		if Is(c, "w", "t") {
			b.WriteString(c.Text())
		}
	}
	return b.String()
}

// ElementID returns a best-effort identifier for diagnostics: Word's
// w14:paraId if present, else a synthesized tag#index placeholder supplied
// by the caller via fallback.
func ElementID(el *etree.Element, fallback string) string {
	if v, ok := Attr(el, "w14", "paraId"); ok {
		return v
	}
	return fallback
}

// ParseDocument wraps etree document parsing with a uniform error message.
func ParseDocument(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	return doc, nil
}
