package opc

import (
	"fmt"

	"github.com/vortex/docpipe/internal/oxml"
)

// ContentTypes resolves the content type of any part, per
// [Content_Types].xml: a part can have an explicit <Override PartName=.../>
// entry, or fall back to a <Default Extension=.../> by its file extension.
type ContentTypes struct {
	defaults  map[string]string  // extension (no dot) -> content type
	overrides map[PackURI]string // partname -> content type
}

// ParseContentTypes parses a [Content_Types].xml blob.
func ParseContentTypes(blob []byte) (*ContentTypes, error) {
	doc, err := oxml.ParseDocument(blob)
	if err != nil {
		return nil, fmt.Errorf("opc: parsing [Content_Types].xml: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("opc: [Content_Types].xml has no root element")
	}

	ct := &ContentTypes{
		defaults:  make(map[string]string),
		overrides: make(map[PackURI]string),
	}
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "Default":
			ext, _ := oxml.Attr(child, "", "Extension")
			typ, _ := oxml.Attr(child, "", "ContentType")
			if ext != "" {
				ct.defaults[ext] = typ
			}
		case "Override":
			pn, _ := oxml.Attr(child, "", "PartName")
			typ, _ := oxml.Attr(child, "", "ContentType")
			if pn != "" {
				ct.overrides[PackURI(pn)] = typ
			}
		}
	}
	return ct, nil
}

// ContentType returns the content type of partname, checking overrides
// before extension defaults.
func (ct *ContentTypes) ContentType(partname PackURI) (string, error) {
	if t, ok := ct.overrides[partname]; ok {
		return t, nil
	}
	if t, ok := ct.defaults[partname.Ext()]; ok {
		return t, nil
	}
	return "", fmt.Errorf("opc: no content type declared for %q", partname)
}
