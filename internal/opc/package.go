// Package opc implements the read-only half of spec.md §4.1: opening a
// DOCX ZIP container, resolving [Content_Types].xml and every .rels file,
// and exposing parts as owned byte buffers reachable by relationship
// traversal. Adapted from the teacher's opc.OpcPackage/PackageReader
// (go-docx/pkg/docx/opc/package.go, reader.go), which additionally support
// writing a package back out (an editing library's requirement); this
// core only ever reads, per spec.md §3.3 ("bytes read from the DOCX
// package are never modified").
package opc

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/vortex/docpipe/internal/docerr"
)

// Part is one member of the package together with its own relationships.
type Part struct {
	Name        PackURI
	ContentType string
	Blob        []byte
	Rels        *Relationships
}

// Package is an opened, fully-indexed OPC container. Immutable after
// Open/OpenFile/OpenBytes returns.
type Package struct {
	rels  *Relationships // package-level relationships (from _rels/.rels)
	parts map[PackURI]*Part
}

// Rels returns the package-level relationships.
func (p *Package) Rels() *Relationships { return p.rels }

// Part returns the named part, or (nil, false).
func (p *Package) Part(name PackURI) (*Part, bool) {
	part, ok := p.parts[name]
	return part, ok
}

// ReadPart returns the owned bytes of a part. Fails with MissingPartError
// if absent (§4.1 read_part).
func (p *Package) ReadPart(name PackURI) ([]byte, error) {
	part, ok := p.parts[name]
	if !ok {
		return nil, docerr.NewMissingPartError(nil, "opc: part %q not found", name)
	}
	return part.Blob, nil
}

// ResolveRel resolves a relationship id sourced from sourcePart (or
// PackageURI for package-level relationships) to its target partname,
// type, and mode (§4.1 resolve_rel).
func (p *Package) ResolveRel(sourcePart PackURI, relID string) (target PackURI, relType string, mode TargetMode, err error) {
	var rels *Relationships
	if sourcePart == PackageURI {
		rels = p.rels
	} else {
		part, ok := p.parts[sourcePart]
		if !ok {
			return "", "", 0, fmt.Errorf("opc: unknown source part %q", sourcePart)
		}
		rels = part.Rels
	}
	rel, ok := rels.ByRID(relID)
	if !ok {
		return "", "", 0, fmt.Errorf("opc: no relationship %q from %q", relID, sourcePart)
	}
	return rel.TargetPartname, rel.RelType, rel.TargetMode, nil
}

// ResolveRelationship is ResolveRel's full-detail counterpart: it returns
// the whole Relationship, including TargetRef (the original reference
// text, which is the only usable value for an external relationship such
// as a hyperlink URL, since those have no TargetPartname).
func (p *Package) ResolveRelationship(sourcePart PackURI, relID string) (Relationship, error) {
	var rels *Relationships
	if sourcePart == PackageURI {
		rels = p.rels
	} else {
		part, ok := p.parts[sourcePart]
		if !ok {
			return Relationship{}, fmt.Errorf("opc: unknown source part %q", sourcePart)
		}
		rels = part.Rels
	}
	rel, ok := rels.ByRID(relID)
	if !ok {
		return Relationship{}, fmt.Errorf("opc: no relationship %q from %q", relID, sourcePart)
	}
	return rel, nil
}

// IterParts returns every part whose content type matches filter
// (case-sensitive exact match), or every part when filter is "". Order is
// by partname for determinism (§8.1 property 10: ZIP invariance).
func (p *Package) IterParts(contentTypeFilter string) []*Part {
	names := make([]PackURI, 0, len(p.parts))
	for n := range p.parts {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	out := make([]*Part, 0, len(names))
	for _, n := range names {
		part := p.parts[n]
		if contentTypeFilter == "" || part.ContentType == contentTypeFilter {
			out = append(out, part)
		}
	}
	return out
}

// RelatedPart resolves a package-level relationship type to its target
// part, e.g. RelatedPart(RelTypeOfficeDocument) for word/document.xml.
func (p *Package) RelatedPart(relType string) (*Part, bool) {
	rels := p.rels.ByType(relType)
	if len(rels) == 0 || rels[0].TargetPartname == "" {
		return nil, false
	}
	return p.Part(rels[0].TargetPartname)
}

// RelatedPartFrom resolves a relationship type sourced from a specific
// part (rather than the package root) to its target part, e.g. resolving
// a document part's RelTypeStyles relationship to styles.xml.
func (p *Package) RelatedPartFrom(source PackURI, relType string) (*Part, bool) {
	part, ok := p.parts[source]
	if !ok || part.Rels == nil {
		return nil, false
	}
	rels := part.Rels.ByType(relType)
	if len(rels) == 0 || rels[0].TargetPartname == "" {
		return nil, false
	}
	return p.Part(rels[0].TargetPartname)
}

// --------------------------------------------------------------------------
// Open
// --------------------------------------------------------------------------

// Open reads an OPC package from an io.ReaderAt of known size (e.g. an
// os.File or a bytes.Reader).
func Open(r io.ReaderAt, size int64) (*Package, error) {
	phys, err := openPhysPkgReader(r, size)
	if err != nil {
		return nil, docerr.NewInvalidPackageError(err, "opc: %v", err)
	}
	return readPackage(phys)
}

// OpenFile opens a package from a filesystem path.
func OpenFile(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, docerr.NewInvalidPackageError(err, "opc: reading %q: %v", path, err)
	}
	return OpenBytes(data)
}

// OpenBytes opens a package from an in-memory buffer.
func OpenBytes(data []byte) (*Package, error) {
	return Open(bytes.NewReader(data), int64(len(data)))
}

func readPackage(phys *physPkgReader) (*Package, error) {
	ctBlob, err := phys.contentTypesXML()
	if err != nil {
		return nil, docerr.NewInvalidPackageError(err, "opc: missing [Content_Types].xml")
	}
	contentTypes, err := ParseContentTypes(ctBlob)
	if err != nil {
		return nil, docerr.NewInvalidPackageError(err, "opc: %v", err)
	}

	pkgSRels, err := readAndResolveRels(phys, PackageURI)
	if err != nil {
		return nil, docerr.NewInvalidPackageError(err, "opc: reading package relationships: %v", err)
	}

	parts := make(map[PackURI]*Part)
	if err := walkParts(phys, contentTypes, pkgSRels, parts); err != nil {
		return nil, err
	}

	pkgRels := NewRelationships("/")
	for _, r := range pkgSRels {
		pkgRels.add(r)
	}

	if _, ok := parts[PackURI("/word/document.xml")]; !ok {
		// Required even when reachable only by a non-standard relationship
		// type, since §4.1 calls out this specific part as mandatory.
		if len(pkgRels.ByType(RelTypeOfficeDocument)) == 0 {
			return nil, docerr.NewMissingPartError(nil, "opc: no officeDocument relationship / word/document.xml part")
		}
	}

	return &Package{rels: pkgRels, parts: parts}, nil
}

// walkParts discovers every part reachable from the package-level
// relationships via an iterative depth-first traversal, mirroring the
// teacher's opc.walkParts / OpcPackage.IterParts (explicit stack, to avoid
// unbounded recursion on deep relationship chains).
func walkParts(phys *physPkgReader, contentTypes *ContentTypes, rootRels []Relationship, parts map[PackURI]*Part) error {
	visited := make(map[PackURI]bool)
	stack := [][]Relationship{rootRels}

	for len(stack) > 0 {
		top := len(stack) - 1
		rels := stack[top]
		var advanced bool
		for len(rels) > 0 {
			rel := rels[0]
			rels = rels[1:]
			stack[top] = rels

			if rel.IsExternal() || rel.TargetPartname == "" {
				// External, or dangling (its target is absent from the ZIP,
				// so no TargetPartname was resolved); skipped without a
				// diagnostic.
				continue
			}
			pn := rel.TargetPartname
			if visited[pn] {
				continue
			}
			visited[pn] = true

			blob, err := phys.blobFor(pn)
			if err != nil {
				// Dangling relationship: .rels names a part absent from
				// the ZIP. Common from LibreOffice/Google Docs exports.
				// Degrade rather than fail the whole open (§4.1).
				continue
			}
			ct, err := contentTypes.ContentType(pn)
			if err != nil {
				// Present in the ZIP but missing from [Content_Types].xml:
				// Word opens such files anyway, so we keep the part with
				// an empty content type rather than dropping it.
				ct = ""
			}

			partSRels, err := readAndResolveRels(phys, pn)
			if err != nil {
				// A malformed individual .rels degrades to "no
				// relationships from this source" (§4.1).
				partSRels = nil
			}
			partRels := NewRelationships(pn.BaseURI())
			for _, r := range partSRels {
				partRels.add(r)
			}
			parts[pn] = &Part{Name: pn, ContentType: ct, Blob: blob, Rels: partRels}

			stack = append(stack, partSRels)
			advanced = true
			break
		}
		if !advanced {
			stack = stack[:top]
		}
	}
	return nil
}

// readAndResolveRels reads and resolves the .rels file for sourceURI
// against what's physically present in the ZIP.
func readAndResolveRels(phys *physPkgReader, sourceURI PackURI) ([]Relationship, error) {
	blob, err := phys.relsXMLFor(sourceURI)
	if err != nil {
		return nil, err
	}
	if blob == nil {
		return nil, nil
	}
	srels, err := ParseRelationships(blob, sourceURI.BaseURI())
	if err != nil {
		return nil, err
	}
	out := make([]Relationship, 0, len(srels))
	for _, sr := range srels {
		out = append(out, sr.resolve(phys.exists))
	}
	return out, nil
}
