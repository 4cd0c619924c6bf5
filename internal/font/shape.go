package font

import (
	"bytes"
	"fmt"

	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// ShapedGlyph is one positioned glyph out of a complex-script shaping run.
type ShapedGlyph struct {
	GlyphID  uint32
	XAdvance float64
	Cluster  int
}

// ShapedRun is the output of shaping one run of same-script, same-direction
// text: the positioned glyphs and their total advance in points.
type ShapedRun struct {
	Glyphs  []ShapedGlyph
	Advance float64
}

// ComplexShaper runs full OpenType shaping (ligatures, Arabic cursive
// joining, Indic glyph reordering, mark placement) for scripts where
// summing per-rune advances, as Face.AdvanceWidth does, produces visibly
// wrong results. The line breaker only reaches for this on runs whose
// Unicode script isn't Latin/Cyrillic/Greek.
type ComplexShaper struct {
	shaper shaping.HarfbuzzShaper
}

// NewComplexShaper returns a ready-to-use shaper. A single instance is
// reused across calls; HarfbuzzShaper carries no per-call state.
func NewComplexShaper() *ComplexShaper {
	return &ComplexShaper{}
}

// Shape runs the given font program over text at sizePt, producing glyph
// IDs and advances. rtl selects right-to-left runs (Arabic, Hebrew); script
// names the run's Unicode script tag (e.g. "Arab", "Hebr", "Deva") used to
// select the correct shaping rules.
func (c *ComplexShaper) Shape(fontData []byte, text []rune, sizePt float64, rtl bool, script string) (ShapedRun, error) {
	face, err := gofont.ParseTTF(bytes.NewReader(fontData))
	if err != nil {
		return ShapedRun{}, fmt.Errorf("font: shape: parse face: %w", err)
	}

	dir := di.DirectionLTR
	if rtl {
		dir = di.DirectionRTL
	}

	input := shaping.Input{
		Text:      text,
		RunStart:  0,
		RunEnd:    len(text),
		Direction: dir,
		Face:      gofont.NewFace(face),
		Size:      fixed.I(int(sizePt)),
		Script:    language.Script(script),
		Language:  language.NewLanguage("und"),
	}

	out := c.shaper.Shape(input)
	run := ShapedRun{Glyphs: make([]ShapedGlyph, len(out.Glyphs))}
	for i, g := range out.Glyphs {
		adv := float64(g.XAdvance) / 64
		run.Glyphs[i] = ShapedGlyph{GlyphID: uint32(g.GlyphID), XAdvance: adv, Cluster: int(g.ClusterIndex)}
		run.Advance += adv
	}
	return run, nil
}

// IsComplexScript reports whether script needs full OpenType shaping
// rather than per-rune advance summation. Latin, Cyrillic, and Greek text
// (the overwhelming majority of office documents) take the cheap path;
// everything else, including Arabic/Hebrew bidi scripts, Indic scripts
// with reordering and mark attachment, and Thai/Lao without spaces, goes
// through ComplexShaper.
func IsComplexScript(script string) bool {
	switch script {
	case "Latn", "Cyrl", "Grek", "":
		return false
	default:
		return true
	}
}
