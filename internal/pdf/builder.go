package pdf

import (
	"bytes"
	"fmt"
)

// Document accumulates indirect objects and serializes them, the
// cross-reference table, and the trailer as one contiguous byte stream
// (§4.6 "XRef and output" — a classic xref table, not a cross-reference
// stream; linearization is explicitly optional and not attempted).
type Document struct {
	objects map[int]Value
	next    int
}

// NewDocument returns an empty object table. Object number 0 is reserved
// by the PDF spec for the free-list head and is never allocated to a
// caller.
func NewDocument() *Document {
	return &Document{objects: make(map[int]Value), next: 1}
}

// Alloc reserves the next object number without assigning a value yet,
// used when two objects need to reference each other (e.g. a Page and its
// Parent Pages node) and one must be built before the other exists.
func (d *Document) Alloc() Ref {
	r := Ref(d.next)
	d.next++
	return r
}

// Add stores v under a freshly allocated object number and returns its
// reference.
func (d *Document) Add(v Value) Ref {
	r := d.Alloc()
	d.objects[int(r)] = v
	return r
}

// Set assigns v to a reference previously returned by Alloc, completing a
// forward reference.
func (d *Document) Set(r Ref, v Value) {
	d.objects[int(r)] = v
}

// docID is a fixed placeholder for the trailer's /ID entry. A real unique
// ID would hash document content and a timestamp; §8.1's determinism
// property explicitly carves out "creation date" and similar incidental
// fields as allowed to vary, and a byte-identical ID for a byte-identical
// layout is actually the stronger, more useful property here.
var docID = HexString(bytes.Repeat([]byte{0}, 16))

// WriteTo serializes the header, every allocated object, the
// cross-reference table, and the trailer into one byte stream. root is
// the Catalog's reference; info may be zero to omit the /Info entry.
func (d *Document) WriteTo(root Ref, info Ref) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xE2\xE3\xCF\xD3\n")

	offsets := make(map[int]int, len(d.objects))
	maxNum := 0
	for num := range d.objects {
		if num > maxNum {
			maxNum = num
		}
	}
	for num := 1; num <= maxNum; num++ {
		v, ok := d.objects[num]
		if !ok {
			continue
		}
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n", num)
		v.WritePDF(&buf)
		buf.WriteString("\nendobj\n")
	}

	xrefOffset := buf.Len()
	size := maxNum + 1
	fmt.Fprintf(&buf, "xref\n0 %d\n", size)
	buf.WriteString("0000000000 65535 f \n")
	for num := 1; num < size; num++ {
		off, ok := offsets[num]
		if !ok {
			buf.WriteString("0000000000 00000 f \n")
			continue
		}
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}

	trailer := Dict{
		"Size": Int(size),
		"Root": root,
		"ID":   Array{docID, docID},
	}
	if info != 0 {
		trailer["Info"] = info
	}
	buf.WriteString("trailer\n")
	trailer.WritePDF(&buf)
	fmt.Fprintf(&buf, "\nstartxref\n%d\n%%%%EOF", xrefOffset)

	return buf.Bytes()
}
