package opc

import (
	"fmt"

	"github.com/vortex/docpipe/internal/oxml"
)

// TargetMode distinguishes a relationship whose target lives inside the
// package from one pointing at an external resource (e.g. a hyperlink URL).
type TargetMode int

const (
	TargetModeInternal TargetMode = iota
	TargetModeExternal
)

// Relationship types the parser recognizes (§6.1).
const (
	RelTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	RelTypeNumbering      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	RelTypeFootnotes      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footnotes"
	RelTypeEndnotes       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/endnotes"
	RelTypeHeader         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	RelTypeFooter         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	RelTypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelTypeHyperlink      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	RelTypeSettings       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
	RelTypeFontTable      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/fontTable"
	RelTypeCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	RelTypeExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	RelTypeComments       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments"
	RelTypeTheme          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	RelTypeWebSettings    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/webSettings"
)

// Relationship is one resolved edge of the package's relationship graph.
type Relationship struct {
	RID        string
	RelType    string
	TargetMode TargetMode
	// TargetPartname is the resolved internal target; empty for external
	// relationships or dangling ones (target missing from the ZIP).
	TargetPartname PackURI
	// TargetRef is the original, unresolved reference text — kept for
	// external relationships (hyperlink URLs) and for diagnostics on
	// dangling ones.
	TargetRef string
}

// IsExternal reports whether the relationship points outside the package.
func (r Relationship) IsExternal() bool { return r.TargetMode == TargetModeExternal }

// Relationships is the parsed .rels file for one source (a part, or the
// package root).
type Relationships struct {
	baseURI string
	byRID   map[string]Relationship
	order   []string // RIDs in document order, for deterministic iteration
}

// NewRelationships creates an empty Relationships rooted at baseURI.
func NewRelationships(baseURI string) *Relationships {
	return &Relationships{baseURI: baseURI, byRID: make(map[string]Relationship)}
}

// All returns every relationship, in the order they were parsed.
func (r *Relationships) All() []Relationship {
	out := make([]Relationship, 0, len(r.order))
	for _, rid := range r.order {
		out = append(out, r.byRID[rid])
	}
	return out
}

// ByRID looks up a relationship by its r:id value.
func (r *Relationships) ByRID(rid string) (Relationship, bool) {
	rel, ok := r.byRID[rid]
	return rel, ok
}

// ByType returns every relationship of the given type, in document order.
func (r *Relationships) ByType(relType string) []Relationship {
	var out []Relationship
	for _, rid := range r.order {
		if rel := r.byRID[rid]; rel.RelType == relType {
			out = append(out, rel)
		}
	}
	return out
}

func (r *Relationships) add(rel Relationship) {
	if _, exists := r.byRID[rel.RID]; !exists {
		r.order = append(r.order, rel.RID)
	}
	r.byRID[rel.RID] = rel
}

// serializedRelationship is the raw form of one <Relationship> element,
// before the target has been resolved against the ZIP's actual members.
type serializedRelationship struct {
	baseURI    string
	rid        string
	relType    string
	targetRef  string
	targetMode TargetMode
}

// ParseRelationships parses a .rels XML blob. baseURI is the directory of
// the part the .rels file belongs to (used to resolve relative targets).
func ParseRelationships(blob []byte, baseURI string) ([]serializedRelationship, error) {
	doc, err := oxml.ParseDocument(blob)
	if err != nil {
		return nil, fmt.Errorf("opc: parsing relationships: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("opc: relationships file has no root element")
	}
	var out []serializedRelationship
	for _, child := range root.ChildElements() {
		if child.Tag != "Relationship" {
			continue
		}
		rid, _ := oxml.Attr(child, "", "Id")
		relType, _ := oxml.Attr(child, "", "Type")
		target, _ := oxml.Attr(child, "", "Target")
		mode := TargetModeInternal
		if tm, _ := oxml.Attr(child, "", "TargetMode"); tm == "External" {
			mode = TargetModeExternal
		}
		out = append(out, serializedRelationship{
			baseURI:    baseURI,
			rid:        rid,
			relType:    relType,
			targetRef:  target,
			targetMode: mode,
		})
	}
	return out, nil
}

// resolve turns a serializedRelationship into a Relationship, given a
// predicate reporting whether a candidate internal target actually exists
// in the package (used to detect dangling relationships, §4.1).
func (sr serializedRelationship) resolve(exists func(PackURI) bool) Relationship {
	if sr.targetMode == TargetModeExternal {
		return Relationship{
			RID:        sr.rid,
			RelType:    sr.relType,
			TargetMode: TargetModeExternal,
			TargetRef:  sr.targetRef,
		}
	}
	pn := FromRelRef(sr.baseURI, sr.targetRef)
	if !exists(pn) {
		// Dangling: preserve TargetRef for diagnostics, leave TargetPartname
		// empty so callers can detect it.
		return Relationship{RID: sr.rid, RelType: sr.relType, TargetMode: TargetModeInternal, TargetRef: sr.targetRef}
	}
	return Relationship{RID: sr.rid, RelType: sr.relType, TargetMode: TargetModeInternal, TargetPartname: pn, TargetRef: sr.targetRef}
}
