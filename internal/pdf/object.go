// Package pdf compiles a layout.UnifiedLayout into a PDF 1.7 byte stream
// (§4.6): object model, content streams, font/image embedding, and the
// cross-reference table and trailer that tie the object graph together.
// Nothing here has a teacher analogue (go-docx only ever writes
// WordprocessingML XML); the object model below follows the manual
// dictionary-string-building idiom the pack's own PDF writers use rather
// than a struct-tag-driven serializer.
package pdf

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Ref is an indirect reference to another object, always generation 0:
// nothing in this compiler ever rewrites an already-written object.
type Ref int

func (r Ref) WritePDF(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "%d 0 R", int(r))
}

// Name is a PDF name object ("/Type", "/Font", ...). The leading slash is
// added by WritePDF, not stored.
type Name string

func (n Name) WritePDF(buf *bytes.Buffer) {
	buf.WriteByte('/')
	for _, r := range string(n) {
		switch {
		case r <= ' ' || r > '~' || strings.ContainsRune("()<>[]{}/%#", r):
			fmt.Fprintf(buf, "#%02X", r)
		default:
			buf.WriteRune(r)
		}
	}
}

// Int is a PDF integer.
type Int int

func (i Int) WritePDF(buf *bytes.Buffer) { fmt.Fprintf(buf, "%d", int(i)) }

// Real is a PDF real number, trimmed to avoid trailing zeros PDF doesn't
// require and some readers mis-parse.
type Real float64

func (r Real) WritePDF(buf *bytes.Buffer) {
	s := fmt.Sprintf("%.4f", float64(r))
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" {
		s = "0"
	}
	buf.WriteString(s)
}

// Bool is a PDF boolean.
type Bool bool

func (b Bool) WritePDF(buf *bytes.Buffer) {
	if b {
		buf.WriteString("true")
	} else {
		buf.WriteString("false")
	}
}

// String is a PDF literal string, parenthesis/backslash/CR escaped per
// the PDF spec's string-object grammar.
type String string

func (s String) WritePDF(buf *bytes.Buffer) {
	buf.WriteByte('(')
	for _, b := range []byte(s) {
		switch b {
		case '(', ')', '\\':
			buf.WriteByte('\\')
			buf.WriteByte(b)
		case '\r':
			buf.WriteString(`\r`)
		default:
			buf.WriteByte(b)
		}
	}
	buf.WriteByte(')')
}

// HexString is a PDF hex string, <...>, used for CID text-showing strings
// and /ID trailer entries.
type HexString []byte

func (h HexString) WritePDF(buf *bytes.Buffer) {
	buf.WriteByte('<')
	fmt.Fprintf(buf, "%X", []byte(h))
	buf.WriteByte('>')
}

// Array is a PDF array.
type Array []Value

func (a Array) WritePDF(buf *bytes.Buffer) {
	buf.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			buf.WriteByte(' ')
		}
		v.WritePDF(buf)
	}
	buf.WriteByte(']')
}

// Dict is a PDF dictionary. Keys are written in sorted order so output is
// deterministic across runs (§8.1 determinism property), which a map
// range order on its own would not guarantee.
type Dict map[Name]Value

func (d Dict) WritePDF(buf *bytes.Buffer) {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	buf.WriteString("<<")
	for _, k := range keys {
		buf.WriteByte(' ')
		Name(k).WritePDF(buf)
		buf.WriteByte(' ')
		d[Name(k)].WritePDF(buf)
	}
	buf.WriteString(" >>")
}

// Value is anything that can appear as a PDF object body or dictionary
// entry.
type Value interface {
	WritePDF(buf *bytes.Buffer)
}

// Stream is a dictionary plus an associated byte stream; /Length is
// computed and injected at write time so callers never have to keep it in
// sync with Data by hand.
type Stream struct {
	Dict Dict
	Data []byte
}

func (s *Stream) WritePDF(buf *bytes.Buffer) {
	d := make(Dict, len(s.Dict)+1)
	for k, v := range s.Dict {
		d[k] = v
	}
	d["Length"] = Int(len(s.Data))
	d.WritePDF(buf)
	buf.WriteString("\nstream\n")
	buf.Write(s.Data)
	buf.WriteString("\nendstream")
}
