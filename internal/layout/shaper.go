package layout

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/vortex/docpipe/internal/font"
	"github.com/vortex/docpipe/internal/wml"
)

// assumedMaxPageCount bounds the digit-count estimate used to pre-measure
// PAGE/NUMPAGES fields before the real page count is known (§9): three
// digits covers any document up to 999 pages without needing a re-flow.
const assumedMaxPageCount = 999

// longestLikelyFieldText returns a run of digit characters as long as the
// longer of the cached DOCX field result and the assumed maximum page
// count, so a forward-referencing PAGE/NUMPAGES field is measured wide
// enough to hold its eventual substituted value (§9 "longest likely
// resolved value, floor(log10(N))+1 digits").
func longestLikelyFieldText(cached string) string {
	digits := len(strconv.Itoa(assumedMaxPageCount))
	if n := len(cached); n > digits {
		digits = n
	}
	return strings.Repeat("0", digits)
}

// atomKind classifies one token out of a paragraph's run sequence, the
// unit the line breaker accumulates onto lines (§4.3 "tokenize each
// paragraph's run sequence into atoms").
type atomKind int

const (
	atomWord atomKind = iota
	atomSpace
	atomTab
	atomBreak
	atomImage
	atomField
	atomSoftHyphen
	atomNoBreakHyphen
)

// atom is one measured token, already positioned at width 0 (the line
// breaker assigns x once it knows which line the atom lands on).
type atom struct {
	kind      atomKind
	text      string
	props     wml.RunProperties
	width     float64
	ascent    float64
	descent   float64
	breakType wml.BreakType
	image     ImageData
	field     FieldData
	noWrap    bool // not consumed when a line ends at it; carried to the next line
}

// Shaper measures runs of text against loaded fonts, using per-glyph
// advance summation for Latin/Cyrillic/Greek (the fast, accurate path)
// and full OpenType shaping for everything else.
type Shaper struct {
	fonts   *font.Cache
	complex *font.ComplexShaper
}

// NewShaper returns a Shaper backed by the given font cache.
func NewShaper(fonts *font.Cache) *Shaper {
	return &Shaper{fonts: fonts, complex: font.NewComplexShaper()}
}

// Tokenize flattens a paragraph's runs and hyperlinks into a measured
// atom sequence, resolving embedded drawings and field placeholders into
// their own atom kinds. Hyperlink content is flattened into its
// constituent runs; the link boundary is not kept, and the PDF output
// carries no link annotation.
func (s *Shaper) Tokenize(content []wml.ParaContent, media map[string]*wml.MediaItem) []atom {
	var atoms []atom
	for _, c := range content {
		switch v := c.(type) {
		case *wml.Run:
			atoms = append(atoms, s.tokenizeRun(v, media)...)
		case *wml.Hyperlink:
			for _, r := range v.Runs {
				atoms = append(atoms, s.tokenizeRun(r, media)...)
			}
		}
	}
	for i := range atoms {
		if atoms[i].kind == atomImage {
			continue
		}
		atoms[i].ascent, atoms[i].descent = s.lineMetrics(atoms[i].props)
	}
	return atoms
}

func (s *Shaper) lineMetrics(props wml.RunProperties) (ascent, descent float64) {
	face, err := s.fonts.Resolve(font.Descriptor{Family: props.FontFamily, Bold: props.Bold, Italic: props.Italic})
	if err != nil {
		return props.SizePt * 0.8, props.SizePt * 0.2
	}
	ascent, descent, _ = face.LineMetrics(props.SizePt)
	return
}

func (s *Shaper) tokenizeRun(r *wml.Run, media map[string]*wml.MediaItem) []atom {
	var atoms []atom
	for _, item := range r.Items {
		switch v := item.(type) {
		case wml.TextItem:
			atoms = append(atoms, s.tokenizeText(v.Text, r.Props)...)
		case wml.BreakItem:
			atoms = append(atoms, atom{kind: atomBreak, breakType: v.Type})
		case wml.TabItem:
			atoms = append(atoms, atom{kind: atomTab, props: r.Props})
		case wml.SoftHyphenItem:
			atoms = append(atoms, atom{kind: atomSoftHyphen, text: "-", props: r.Props,
				width: s.advance('-', r.Props)})
		case wml.NoBreakHyphenItem:
			atoms = append(atoms, atom{kind: atomNoBreakHyphen, text: "-", props: r.Props,
				width: s.advance('-', r.Props), noWrap: true})
		case wml.DrawingItem:
			atoms = append(atoms, s.tokenizeDrawing(v.Drawing, media))
		case wml.FieldItem:
			text := v.ResultText
			// PAGE always carries the physical page number and NUMPAGES the
			// final page count; both are forward references only known once
			// pagination finishes, even though DOCX cached a ResultText from
			// whatever page the document was last saved on (§9).
			pending := v.Kind == wml.FieldNumPages || v.Kind == wml.FieldPage
			widthText := text
			if pending {
				// Measure against the longest likely resolved value so the
				// line never needs to re-flow once the real page number or
				// count is substituted in (§9 field-width estimate).
				widthText = longestLikelyFieldText(text)
			}
			atoms = append(atoms, atom{kind: atomField, text: text, props: r.Props,
				width: s.measureText(widthText, r.Props),
				field: FieldData{Kind: v.Kind, Text: text, Pending: pending}})
		case wml.FootnoteRefItem, wml.EndnoteRefItem:
			// Reference markers produce no atom and are not drawn; the
			// paginator reads footnote ids from the run stream itself
			// (collectFootnoteRefs) to place the footnote bodies.
		}
	}
	return atoms
}

func (s *Shaper) tokenizeDrawing(d *wml.Drawing, media map[string]*wml.MediaItem) atom {
	img := ImageData{MediaKey: d.ImageRID, WidthPt: d.WidthPt, HeightPt: d.HeightPt}
	return atom{kind: atomImage, width: d.WidthPt, ascent: d.HeightPt, image: img}
}

// nbspRune is U+00A0, NO-BREAK SPACE: tokenizeText emits each one as its
// own space atom marked noWrap, which the line breaker never consumes at
// a line end.
const nbspRune = rune(0xA0)

// tokenizeText splits run text into word and whitespace atoms, each
// carrying its own measured width so the line breaker can accumulate them
// independently (a word that continues across two runs becomes two word
// atoms). A run of ordinary whitespace collapses to one breakable atom; a
// no-break space is always its own atom, marked noWrap.
func (s *Shaper) tokenizeText(text string, props wml.RunProperties) []atom {
	var atoms []atom
	runes := []rune(text)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == nbspRune:
			atoms = append(atoms, atom{kind: atomSpace, text: string(r), props: props,
				width: s.advance(r, props), noWrap: true})
			i++
		case unicode.IsSpace(r):
			j := i
			for j < len(runes) && unicode.IsSpace(runes[j]) && runes[j] != nbspRune {
				j++
			}
			word := string(runes[i:j])
			atoms = append(atoms, atom{kind: atomSpace, text: word, props: props,
				width: s.measureText(word, props)})
			i = j
		default:
			j := i
			for j < len(runes) && !unicode.IsSpace(runes[j]) {
				j++
			}
			word := string(runes[i:j])
			atoms = append(atoms, atom{kind: atomWord, text: word, props: props,
				width: s.measureText(word, props)})
			i = j
		}
	}
	return atoms
}

func (s *Shaper) advance(r rune, props wml.RunProperties) float64 {
	face, err := s.fonts.Resolve(font.Descriptor{Family: props.FontFamily, Bold: props.Bold, Italic: props.Italic})
	if err != nil {
		return props.SizePt / 2
	}
	return face.AdvanceWidth(r, props.SizePt)
}

// measureText returns a word's advance width, routing through full
// OpenType shaping for scripts where per-rune summation would misrender
// (ligatures, cursive joining, mark placement) and summing glyph advances
// directly otherwise.
func (s *Shaper) measureText(text string, props wml.RunProperties) float64 {
	runes := []rune(text)
	if len(runes) == 0 {
		return 0
	}
	script := detectScript(runes[0])
	if !font.IsComplexScript(script) {
		var w float64
		for _, r := range runes {
			w += s.advance(r, props)
		}
		return w
	}
	face, err := s.fonts.Resolve(font.Descriptor{Family: props.FontFamily, Bold: props.Bold, Italic: props.Italic})
	if err != nil {
		return props.SizePt / 2 * float64(len(runes))
	}
	shaped, err := s.complex.Shape(face.Data(), runes, props.SizePt, isRTLScript(script), script)
	if err != nil {
		var w float64
		for _, r := range runes {
			w += s.advance(r, props)
		}
		return w
	}
	return shaped.Advance
}

// detectScript classifies a rune's Unicode script using the stdlib's own
// script range tables, just enough to route the line breaker/shaper
// between the cheap per-glyph-advance path and full OpenType shaping —
// not a substitute for go-text/typesetting's own richer script/language
// detection, which isn't needed for this one routing decision.
func detectScript(r rune) string {
	switch {
	case unicode.Is(unicode.Arabic, r):
		return "Arab"
	case unicode.Is(unicode.Hebrew, r):
		return "Hebr"
	case unicode.Is(unicode.Devanagari, r):
		return "Deva"
	case unicode.Is(unicode.Thai, r):
		return "Thai"
	case unicode.Is(unicode.Han, r):
		return "Hani"
	case unicode.Is(unicode.Hiragana, r), unicode.Is(unicode.Katakana, r):
		return "Jpan"
	case unicode.Is(unicode.Hangul, r):
		return "Kore"
	case unicode.Is(unicode.Cyrillic, r):
		return "Cyrl"
	case unicode.Is(unicode.Greek, r):
		return "Grek"
	default:
		return "Latn"
	}
}

func isRTLScript(script string) bool {
	return script == "Arab" || script == "Hebr"
}
