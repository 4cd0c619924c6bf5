package pdf

import (
	"bytes"
	"fmt"
)

// ContentBuilder accumulates the operators of one page's content stream
// (§4.6 "Text emission" / "Vector decorations"). Coordinates passed in are
// already in PDF space (bottom-left origin); the caller (page.go) performs
// the y_pdf = page_height - y_layout - block_height flip before calling
// in here, keeping this type a thin, page-geometry-agnostic operator
// writer.
type ContentBuilder struct {
	buf bytes.Buffer
}

func NewContentBuilder() *ContentBuilder { return &ContentBuilder{} }

func (c *ContentBuilder) Bytes() []byte { return c.buf.Bytes() }

func num(f float64) string {
	s := fmt.Sprintf("%.3f", f)
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	if s == "" || s == "-" {
		s = "0"
	}
	return s
}

// SaveState/RestoreState bracket a graphics-state change (color, clip,
// alpha) that must not leak past the block it decorates.
func (c *ContentBuilder) SaveState()    { fmt.Fprint(&c.buf, "q\n") }
func (c *ContentBuilder) RestoreState() { fmt.Fprint(&c.buf, "Q\n") }

// Translate/Clip support positioning nested content (a table cell's own
// blocks) relative to the cell's frame without recomputing every child
// coordinate in page space.
func (c *ContentBuilder) Translate(x, y float64) {
	fmt.Fprintf(&c.buf, "1 0 0 1 %s %s cm\n", num(x), num(y))
}

func (c *ContentBuilder) Rect(x, y, w, h float64) {
	fmt.Fprintf(&c.buf, "%s %s %s %s re\n", num(x), num(y), num(w), num(h))
}

func (c *ContentBuilder) MoveTo(x, y float64) { fmt.Fprintf(&c.buf, "%s %s m\n", num(x), num(y)) }
func (c *ContentBuilder) LineTo(x, y float64) { fmt.Fprintf(&c.buf, "%s %s l\n", num(x), num(y)) }

// CurveTo emits a cubic Bezier segment (two control points plus an
// endpoint), the primitive rounded-rectangle corners are built from
// (§4.6 "Rounded rectangles approximate arcs with 4 cubic Bezier
// segments").
func (c *ContentBuilder) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	fmt.Fprintf(&c.buf, "%s %s %s %s %s %s c\n", num(x1), num(y1), num(x2), num(y2), num(x3), num(y3))
}

func (c *ContentBuilder) ClosePath() { fmt.Fprint(&c.buf, "h\n") }
func (c *ContentBuilder) Stroke()    { fmt.Fprint(&c.buf, "S\n") }
func (c *ContentBuilder) Fill()      { fmt.Fprint(&c.buf, "f\n") }
func (c *ContentBuilder) FillStroke() { fmt.Fprint(&c.buf, "B\n") }

func (c *ContentBuilder) SetLineWidth(w float64) { fmt.Fprintf(&c.buf, "%s w\n", num(w)) }

func (c *ContentBuilder) SetFillColorRGB(r, g, b float64) {
	fmt.Fprintf(&c.buf, "%s %s %s rg\n", num(r), num(g), num(b))
}

func (c *ContentBuilder) SetStrokeColorRGB(r, g, b float64) {
	fmt.Fprintf(&c.buf, "%s %s %s RG\n", num(r), num(g), num(b))
}

// SetExtGState activates a named ExtGState resource (the alpha entries
// §4.6 requires for semi-transparent fills).
func (c *ContentBuilder) SetExtGState(name string) {
	fmt.Fprintf(&c.buf, "/%s gs\n", name)
}

func (c *ContentBuilder) BeginText() { fmt.Fprint(&c.buf, "BT\n") }
func (c *ContentBuilder) EndText()   { fmt.Fprint(&c.buf, "ET\n") }

func (c *ContentBuilder) SetFont(resourceName string, sizePt float64) {
	fmt.Fprintf(&c.buf, "/%s %s Tf\n", resourceName, num(sizePt))
}

func (c *ContentBuilder) MoveTextTo(x, y float64) {
	fmt.Fprintf(&c.buf, "%s %s Td\n", num(x), num(y))
}

func (c *ContentBuilder) SetFillColorRGBText(r, g, b float64) { c.SetFillColorRGB(r, g, b) }

// ShowTextSimple emits Tj for a single-byte-encoded (WinAnsi-compatible)
// string.
func (c *ContentBuilder) ShowTextSimple(s string) {
	String(s).WritePDF(&c.buf)
	fmt.Fprint(&c.buf, " Tj\n")
}

// ShowTextCID emits Tj for a two-byte CID-encoded string, one glyph index
// per showable character (§4.6 point 3: CID TrueType fonts are required
// for non-WinAnsi scripts).
func (c *ContentBuilder) ShowTextCID(glyphIDs []uint16) {
	raw := make([]byte, len(glyphIDs)*2)
	for i, g := range glyphIDs {
		raw[i*2] = byte(g >> 8)
		raw[i*2+1] = byte(g)
	}
	HexString(raw).WritePDF(&c.buf)
	fmt.Fprint(&c.buf, " Tj\n")
}

// DrawImage paints a named XObject image resource into the unit square,
// preceded by a cm matrix scaling it to (w, h) at (x, y) — the standard
// PDF image-placement idiom.
func (c *ContentBuilder) DrawImage(resourceName string, x, y, w, h float64) {
	c.SaveState()
	fmt.Fprintf(&c.buf, "%s 0 0 %s %s %s cm\n", num(w), num(h), num(x), num(y))
	fmt.Fprintf(&c.buf, "/%s Do\n", resourceName)
	c.RestoreState()
}
