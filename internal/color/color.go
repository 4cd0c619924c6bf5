// Package color models the small set of color representations that appear
// in WordprocessingML run/paragraph properties and flow through to PDF
// graphics state operators.
package color

import (
	"fmt"
	"strconv"
)

// RGB is a 24-bit color, matching w:color/@w:val and w:shd/@w:fill hex
// strings ("FF0000", case-insensitive, or the literal "auto").
type RGB struct {
	R, G, B uint8
	Auto    bool
}

// Black is the default run color.
var Black = RGB{}

// ParseHex parses a DOCX hex color string ("auto", "FF00FF", "ffffff").
func ParseHex(s string) (RGB, error) {
	if s == "" || s == "auto" {
		return RGB{Auto: true}, nil
	}
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("color: invalid hex length %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("color: invalid hex %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Floats returns the color as PDF-ready 0..1 component values.
func (c RGB) Floats() (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

// Highlight is the finite set of w:highlight color names.
type Highlight string

const (
	HighlightNone      Highlight = ""
	HighlightYellow    Highlight = "yellow"
	HighlightGreen     Highlight = "green"
	HighlightCyan      Highlight = "cyan"
	HighlightMagenta   Highlight = "magenta"
	HighlightBlue      Highlight = "blue"
	HighlightRed       Highlight = "red"
	HighlightDarkBlue  Highlight = "darkBlue"
	HighlightDarkCyan  Highlight = "darkCyan"
	HighlightDarkGreen Highlight = "darkGreen"
	HighlightDarkGray  Highlight = "darkGray"
	HighlightLightGray Highlight = "lightGray"
	HighlightBlack     Highlight = "black"
)

// RGB returns the approximate render color for a highlight name.
func (h Highlight) RGB() RGB {
	switch h {
	case HighlightYellow:
		return RGB{R: 255, G: 255, B: 0}
	case HighlightGreen:
		return RGB{G: 255}
	case HighlightCyan:
		return RGB{G: 255, B: 255}
	case HighlightMagenta:
		return RGB{R: 255, B: 255}
	case HighlightBlue:
		return RGB{B: 255}
	case HighlightRed:
		return RGB{R: 255}
	case HighlightDarkBlue:
		return RGB{B: 139}
	case HighlightDarkCyan:
		return RGB{G: 139, B: 139}
	case HighlightDarkGreen:
		return RGB{G: 100}
	case HighlightDarkGray:
		return RGB{R: 169, G: 169, B: 169}
	case HighlightLightGray:
		return RGB{R: 211, G: 211, B: 211}
	case HighlightBlack:
		return RGB{}
	default:
		return RGB{Auto: true}
	}
}
