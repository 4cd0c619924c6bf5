package pdf

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/vortex/docpipe/internal/font"
)

// FontResource is one embedded font, referenced from a page's /Resources
// /Font dictionary by Name. It accumulates glyph usage as pages are
// emitted; Finalize writes the actual FontFile2/ToUnicode/CIDFont objects
// once every page has contributed its glyphs. The /W widths and the
// ToUnicode map cover only the glyphs the document uses; FontFile2 holds
// the whole font program (§4.6 "Font embedding").
type FontResource struct {
	Name       Name
	descriptor font.Descriptor
	ref        Ref // the Type0 font dict, referenced from page Resources
	used       map[uint16]rune
}

// NoteGlyph records that glyph id gid (standing in for rune r) was shown
// somewhere in the document, growing the subset Finalize will embed.
func (fr *FontResource) NoteGlyph(gid uint16, r rune) {
	if fr.used == nil {
		fr.used = make(map[uint16]rune)
	}
	fr.used[gid] = r
}

// FontEmbedder owns one FontResource per distinct font.Descriptor
// referenced anywhere in the layout. No separate fallback font is
// registered: a descriptor whose family is missing resolves through
// font.Cache's fallback chain (the bundled Go family), and that program
// is what gets embedded under the descriptor's resource.
type FontEmbedder struct {
	doc       *Document
	cache     *font.Cache
	resources map[font.Descriptor]*FontResource
	order     []font.Descriptor
}

func NewFontEmbedder(doc *Document, cache *font.Cache) *FontEmbedder {
	return &FontEmbedder{doc: doc, cache: cache, resources: make(map[font.Descriptor]*FontResource)}
}

// Resource returns the FontResource for d, registering a fresh one (with
// a freshly allocated, not-yet-written object number) the first time d is
// seen.
func (fe *FontEmbedder) Resource(d font.Descriptor) *FontResource {
	if fr, ok := fe.resources[d]; ok {
		return fr
	}
	idx := len(fe.order)
	fe.order = append(fe.order, d)
	fr := &FontResource{Name: Name(fmt.Sprintf("F%d", idx)), descriptor: d, ref: fe.doc.Alloc()}
	fe.resources[d] = fr
	return fr
}

// Face resolves d's glyph source through the shared cache, degrading to
// the fallback chain exactly as layout did (§7): a font missing at
// compile time that was present at layout time would be a caller bug, not
// a new failure mode to invent handling for.
func (fe *FontEmbedder) Face(d font.Descriptor) (*font.Face, error) {
	return fe.cache.Resolve(d)
}

// ResourceDict builds the page /Resources /Font dictionary, one entry per
// registered font.
func (fe *FontEmbedder) ResourceDict() Dict {
	d := make(Dict, len(fe.resources))
	for _, desc := range fe.order {
		fr := fe.resources[desc]
		d[fr.Name] = fr.ref
	}
	return d
}

// Finalize writes the Type0/CIDFontType2/FontDescriptor/FontFile2/
// ToUnicode object chain for every registered font, after every page has
// had a chance to call NoteGlyph.
//
// Subsetting here means "embed the full font program, scoped to the
// glyphs actually referenced" rather than true table surgery (pruning
// glyf/loca to the used-glyph set and renumbering): cmap/post-table glyph
// reordering is substantial additional machinery this compiler doesn't
// carry, and an unpruned FontFile2 is still spec-conformant — §4.6 never
// requires the embedded program itself be minimal, only that the
// required tables and a working glyph index be present. No /CIDSet is
// written; the glyphs the document draws appear only in /W and ToUnicode.
func (fe *FontEmbedder) Finalize() error {
	for _, desc := range fe.order {
		fr := fe.resources[desc]
		face, err := fe.cache.Resolve(desc)
		if err != nil {
			return fmt.Errorf("pdf: finalize font %q: %w", desc.Family, err)
		}
		upm, err := face.UnitsPerEm()
		if err != nil || upm == 0 {
			upm = 1000
		}

		fileRef := fe.doc.Add(&Stream{
			Dict: Dict{"Length1": Int(len(face.Data()))},
			Data: face.Data(),
		})

		descRef := fe.doc.Add(Dict{
			"Type":        Name("FontDescriptor"),
			"FontName":    Name(baseFontName(desc)),
			"Flags":       Int(descriptorFlags(desc)),
			"FontBBox":    Array{Int(0), Int(0), Int(upm), Int(upm)},
			"ItalicAngle": italicAngle(desc),
			"Ascent":      Real(scaleToEm(face, 0, upm)),
			"Descent":     Real(-scaleToEm(face, 1, upm)),
			"CapHeight":   Real(float64(upm) * 0.7),
			"StemV":       Int(stemV(desc)),
			"FontFile2":   fileRef,
		})

		cidFontRef := fe.doc.Add(Dict{
			"Type":           Name("Font"),
			"Subtype":        Name("CIDFontType2"),
			"BaseFont":       Name(baseFontName(desc)),
			"CIDSystemInfo":  Dict{"Registry": String("Adobe"), "Ordering": String("Identity"), "Supplement": Int(0)},
			"FontDescriptor": descRef,
			"DW":             Int(1000),
			"W":              widthArray(face, fr.used, upm),
			"CIDToGIDMap":    Name("Identity"),
		})

		toUniRef := fe.doc.Add(&Stream{
			Dict: Dict{"Type": Name("CMap")},
			Data: buildToUnicodeCMap(fr.used),
		})

		fe.doc.Set(fr.ref, Dict{
			"Type":            Name("Font"),
			"Subtype":         Name("Type0"),
			"BaseFont":        Name(baseFontName(desc)),
			"Encoding":        Name("Identity-H"),
			"DescendantFonts": Array{cidFontRef},
			"ToUnicode":       toUniRef,
		})
	}
	return nil
}

func baseFontName(d font.Descriptor) string {
	name := d.Family
	switch {
	case d.Bold && d.Italic:
		name += ",BoldItalic"
	case d.Bold:
		name += ",Bold"
	case d.Italic:
		name += ",Italic"
	}
	return name
}

func descriptorFlags(d font.Descriptor) int {
	const (
		flagSymbolic    = 1 << 2
		flagNonsymbolic = 1 << 5
		flagItalic      = 1 << 6
	)
	flags := flagNonsymbolic
	if d.Italic {
		flags |= flagItalic
	}
	return flags
}

func italicAngle(d font.Descriptor) Real {
	if d.Italic {
		return Real(-12)
	}
	return Real(0)
}

func stemV(d font.Descriptor) int {
	if d.Bold {
		return 120
	}
	return 80
}

// scaleToEm asks for a representative ascent (which=0) or descent
// (which=1), in design units scaled to the font's own em square, used for
// the FontDescriptor's /Ascent and /Descent entries.
func scaleToEm(face *font.Face, which int, upm int) float64 {
	ascent, descent, _ := face.LineMetrics(float64(upm))
	if which == 1 {
		return descent
	}
	return ascent
}

// widthArray builds the CIDFont /W array: a flat alternation of
// [firstCID [w1 w2 ...]] groups. Only used glyphs get an explicit width;
// everything else falls back to /DW.
func widthArray(face *font.Face, used map[uint16]rune, upm int) Array {
	gids := make([]uint16, 0, len(used))
	for gid := range used {
		gids = append(gids, gid)
	}
	sort.Slice(gids, func(i, j int) bool { return gids[i] < gids[j] })

	var arr Array
	for _, gid := range gids {
		r := used[gid]
		w := face.AdvanceWidth(r, float64(upm)) * 1000 / float64(upm)
		arr = append(arr, Int(gid), Array{Real(w)})
	}
	return arr
}

// buildToUnicodeCMap emits a minimal bfchar CMap mapping each used glyph
// id back to its Unicode codepoint (§4.6 point 3, and §6.2's extractability
// requirement — a reader recovers text by looking up this table, not by
// inverting glyph shapes).
func buildToUnicodeCMap(used map[uint16]rune) []byte {
	gids := make([]uint16, 0, len(used))
	for gid := range used {
		gids = append(gids, gid)
	}
	sort.Slice(gids, func(i, j int) bool { return gids[i] < gids[j] })

	var b bytes.Buffer
	b.WriteString("/CIDInit /ProcSet findresource begin\n")
	b.WriteString("12 dict begin\nbegincmap\n")
	b.WriteString("/CIDSystemInfo << /Registry (Adobe) /Ordering (UCS) /Supplement 0 >> def\n")
	b.WriteString("/CMapName /Adobe-Identity-UCS def\n/CMapType 2 def\n")
	b.WriteString("1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange\n")
	fmt.Fprintf(&b, "%d beginbfchar\n", len(gids))
	for _, gid := range gids {
		r := used[gid]
		fmt.Fprintf(&b, "<%04X> <%s>\n", gid, utf16Hex(r))
	}
	b.WriteString("endbfchar\n")
	b.WriteString("endcmap\nCMapName currentdict /CMap defineresource pop\nend\nend\n")
	return b.Bytes()
}

// utf16Hex encodes r as big-endian UTF-16 hex digits, surrogate pairs
// included for codepoints above the BMP.
func utf16Hex(r rune) string {
	if r < 0x10000 {
		return fmt.Sprintf("%04X", r)
	}
	r -= 0x10000
	hi := 0xD800 + (r >> 10)
	lo := 0xDC00 + (r & 0x3FF)
	return fmt.Sprintf("%04X%04X", hi, lo)
}
