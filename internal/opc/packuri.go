package opc

import (
	"path"
	"strings"
)

// PackURI is a part name within an OPC package: an absolute, forward-slash
// path such as "/word/document.xml". Package-level relationships (outside
// any part) use the sentinel root "/".
type PackURI string

// PackageURI is the pseudo-partname used as the source of package-level
// relationships (read from "_rels/.rels").
const PackageURI PackURI = "/"

// normalizeTarget turns a relationship target (possibly using backslashes,
// possibly relative) into canonical forward-slash form, per §4.1.
func normalizeTarget(target string) string {
	return strings.ReplaceAll(target, `\`, "/")
}

// FromRelRef resolves a relationship's TargetRef against the directory of
// the source part (baseURI), producing an absolute PackURI. Mirrors OPC's
// relative-reference resolution: a target starting with "/" is already
// absolute; otherwise it is relative to baseURI.
func FromRelRef(baseURI, targetRef string) PackURI {
	targetRef = normalizeTarget(targetRef)
	if strings.HasPrefix(targetRef, "/") {
		return PackURI(path.Clean(targetRef))
	}
	joined := path.Join(string(baseURI), targetRef)
	return PackURI(path.Clean("/" + strings.TrimPrefix(joined, "/")))
}

// BaseURI returns the directory containing this part, e.g.
// "/word/document.xml" -> "/word".
func (p PackURI) BaseURI() string {
	dir := path.Dir(string(p))
	if dir == "." {
		return "/"
	}
	return dir
}

// RelsURI returns the PackURI of this part's relationship file, e.g.
// "/word/document.xml" -> "/word/_rels/document.xml.rels". The package's
// own rels file is "/_rels/.rels".
func (p PackURI) RelsURI() PackURI {
	if p == PackageURI {
		return "/_rels/.rels"
	}
	dir := path.Dir(string(p))
	base := path.Base(string(p))
	if dir == "." || dir == "/" {
		return PackURI("/_rels/" + base + ".rels")
	}
	return PackURI(dir + "/_rels/" + base + ".rels")
}

// Ext returns the lowercase extension without the leading dot, e.g. "xml".
func (p PackURI) Ext() string {
	e := path.Ext(string(p))
	return strings.ToLower(strings.TrimPrefix(e, "."))
}

// ZipMemberName converts a PackURI to the member name used inside the ZIP
// archive (no leading slash).
func (p PackURI) ZipMemberName() string {
	return strings.TrimPrefix(string(p), "/")
}

// FromZipMemberName converts a ZIP member name to a canonical PackURI.
func FromZipMemberName(name string) PackURI {
	name = normalizeTarget(name)
	return PackURI("/" + strings.TrimPrefix(name, "/"))
}
