package opc

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrMemberNotFound is returned when a ZIP member referenced by a
// relationship does not exist in the archive.
var ErrMemberNotFound = errors.New("opc: zip member not found")

// physPkgReader reads the raw bytes of ZIP members, independent of any
// OPC-level interpretation (relationships, content types). Spec §4.1:
// PackageReader is "stdlib only" — built directly on archive/zip.
type physPkgReader struct {
	zr *zip.Reader
	// index maps a canonical PackURI to the zip.File for O(1) lookup; the
	// same normalization (forward slashes, leading slash) is applied to
	// both relationship targets and zip member names so the two worlds
	// compare equal (§4.1: "must handle both forward and backward slashes
	// in targets and normalize to forward-slash canonical form").
	index map[PackURI]*zip.File
}

func newPhysPkgReader(zr *zip.Reader) *physPkgReader {
	idx := make(map[PackURI]*zip.File, len(zr.File))
	for _, f := range zr.File {
		idx[FromZipMemberName(f.Name)] = f
	}
	return &physPkgReader{zr: zr, index: idx}
}

// openPhysPkgReader opens a ZIP archive from an io.ReaderAt of known size.
func openPhysPkgReader(r io.ReaderAt, size int64) (*physPkgReader, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opc: not a valid ZIP archive: %w", err)
	}
	return newPhysPkgReader(zr), nil
}

// blobFor returns the decompressed bytes of a part.
func (p *physPkgReader) blobFor(pn PackURI) ([]byte, error) {
	f, ok := p.index[pn]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMemberNotFound, pn)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opc: opening member %q: %w", pn, err)
	}
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, fmt.Errorf("opc: reading member %q: %w", pn, err)
	}
	return buf.Bytes(), nil
}

// exists reports whether a ZIP member is present for pn.
func (p *physPkgReader) exists(pn PackURI) bool {
	_, ok := p.index[pn]
	return ok
}

// contentTypesXML returns the bytes of [Content_Types].xml.
func (p *physPkgReader) contentTypesXML() ([]byte, error) {
	return p.blobFor(PackURI("/[Content_Types].xml"))
}

// relsXMLFor returns the .rels blob for sourceURI, or nil if absent (no
// relationships declared from that source — not an error).
func (p *physPkgReader) relsXMLFor(sourceURI PackURI) ([]byte, error) {
	blob, err := p.blobFor(sourceURI.RelsURI())
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return blob, nil
}
