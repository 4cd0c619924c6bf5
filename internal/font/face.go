package font

import (
	"fmt"

	goxfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Face wraps a parsed sfnt program with the Descriptor it was registered
// under. Metrics and per-glyph advances are the fast path the line breaker
// uses for Latin/Cyrillic/Greek text, where summing individual glyph
// advances is accurate; complex scripts route through ComplexShaper
// instead (shape.go).
type Face struct {
	Descriptor Descriptor
	data       []byte
	sf         *sfnt.Font
	buf        sfnt.Buffer
}

// LoadFace parses a font program (TTF/OTF bytes) and associates it with d.
func LoadFace(data []byte, d Descriptor) (*Face, error) {
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font: parse %q: %w", d.Family, err)
	}
	return &Face{Descriptor: d, data: data, sf: sf}, nil
}

// Data returns the raw font program bytes. The PDF compiler's font
// embedder writes them whole as the FontFile2 stream; no subsetting is
// done.
func (f *Face) Data() []byte { return f.data }

func ppemForSize(sizePt float64) fixed.Int26_6 {
	return fixed.I(int(sizePt + 0.5))
}

// GlyphIndex returns the font's internal glyph id for r, or 0 (the
// notdef glyph) if the font has no mapping for it. The PDF font embedder
// uses this as the CID for Identity-H encoded text and to key the /W
// widths and ToUnicode entries; no glyphs are pruned from FontFile2.
func (f *Face) GlyphIndex(r rune) uint16 {
	gi, err := f.sf.GlyphIndex(&f.buf, r)
	if err != nil {
		return 0
	}
	return uint16(gi)
}

// AdvanceWidth returns the horizontal advance, in points, of a single rune
// at the given point size. Runes with no glyph in the font (GlyphIndex
// returning 0) fall back to half an em, matching how word processors render
// unsupported characters as a visible box of roughly that width rather than
// collapsing the line.
func (f *Face) AdvanceWidth(r rune, sizePt float64) float64 {
	ppem := ppemForSize(sizePt)
	gi, err := f.sf.GlyphIndex(&f.buf, r)
	if err != nil || gi == 0 {
		return sizePt / 2
	}
	adv, err := f.sf.GlyphAdvance(&f.buf, gi, ppem, goxfont.HintingNone)
	if err != nil {
		return sizePt / 2
	}
	return float64(adv) / 64
}

// LineMetrics returns the ascent, descent (both positive, measured down
// from the baseline) and recommended line height in points at sizePt.
func (f *Face) LineMetrics(sizePt float64) (ascent, descent, height float64) {
	ppem := ppemForSize(sizePt)
	m, err := f.sf.Metrics(&f.buf, ppem, goxfont.HintingNone)
	if err != nil {
		// Degrade to the conventional 0.8/0.2 em split used when hhea/OS2
		// tables are missing or malformed.
		return sizePt * 0.8, sizePt * 0.2, sizePt * 1.2
	}
	return float64(m.Ascent) / 64, float64(m.Descent) / 64, float64(m.Height) / 64
}

// UnitsPerEm returns the font's design grid resolution, needed by the PDF
// font embedder to build the /FontFile's glyph-space-to-text-space matrix.
func (f *Face) UnitsPerEm() (int, error) {
	u, err := f.sf.UnitsPerEm()
	return int(u), err
}
