package jsonexport

import (
	"fmt"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/vortex/docpipe/internal/color"
	"github.com/vortex/docpipe/internal/layout"
	"github.com/vortex/docpipe/internal/rasterimage"
	"github.com/vortex/docpipe/internal/wml"
)

// Export renders u as the optimized UnifiedLayout JSON document (§6.3),
// pulling media dimensions from model's embedded parts and deduplicating
// every block's style into a single shared table.
func Export(u *layout.UnifiedLayout, model *wml.DocumentModel, source string) ([]byte, error) {
	e := &exporter{
		styleIndex: make(map[string]int),
		mediaIndex: make(map[string]int),
	}
	e.buildMediaTable(model.Media)

	doc := document{
		Version: "2.0",
		Format:  "optimized_pipeline",
		Metadata: metadataJSON{
			TotalPages: u.Metadata.TotalPages,
			Source:     source,
		},
		Media: e.media,
	}

	for _, pg := range u.Pages {
		doc.Pages = append(doc.Pages, e.exportPage(pg))
	}
	doc.Styles = e.styles

	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(doc)
}

type exporter struct {
	styles     []styleJSON
	styleIndex map[string]int
	media      []mediaJSON
	mediaIndex map[string]int
}

// buildMediaTable assigns a stable index to every media item, iterating in
// sorted key order so the same DocumentModel always produces the same
// media table regardless of map iteration order.
func (e *exporter) buildMediaTable(media map[string]*wml.MediaItem) {
	keys := make([]string, 0, len(media))
	for k := range media {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		item := media[k]
		width, height := 0, 0
		if m, err := rasterimage.SniffMetrics(item.Data); err == nil {
			width, height = m.WidthPx, m.HeightPx
		}
		e.mediaIndex[k] = len(e.media)
		e.media = append(e.media, mediaJSON{Path: k, RelID: k, Width: width, Height: height})
	}
}

func (e *exporter) exportPage(pg *layout.LayoutPage) pageJSON {
	p := pageJSON{
		N:       pg.Number,
		Size:    [2]float64{pg.WidthPt, pg.HeightPt},
		Margins: [4]float64{pg.MarginTopPt, pg.MarginBottomPt, pg.MarginLeftPt, pg.MarginRightPt},
		Headers: intsOrEmpty(pg.HeaderIndices),
		Footers: intsOrEmpty(pg.FooterIndices),
	}
	for _, blk := range pg.Blocks {
		p.Blocks = append(p.Blocks, e.exportBlock(blk))
	}
	return p
}

func intsOrEmpty(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}

func (e *exporter) exportBlock(blk *layout.LayoutBlock) blockJSON {
	b := blockJSON{
		Frame: [4]float64{blk.Frame.X, blk.Frame.Y, blk.Frame.W, blk.Frame.H},
		Type:  blockTypeName(blk.Type),
		Style: e.styleRef(blk),
		UID:   blk.UID,
		Seq:   blk.Seq,
	}
	b.Cont = e.blockContent(blk)
	return b
}

func blockTypeName(t layout.BlockType) string {
	switch t {
	case layout.BlockParagraph:
		return "paragraph"
	case layout.BlockTable:
		return "table"
	case layout.BlockImage:
		return "image"
	case layout.BlockTextBox:
		return "textbox"
	case layout.BlockHeader:
		return "header"
	case layout.BlockFooter:
		return "footer"
	case layout.BlockFootnotes:
		return "footnotes"
	case layout.BlockWatermark:
		return "watermark"
	case layout.BlockDecorator:
		return "decorator"
	default:
		return "unknown"
	}
}

// blockContent builds the type-specific "c" payload. Paragraph text is the
// concatenation of every text run across every line, good enough for an AI
// caller to re-derive wording without re-running shaping.
func (e *exporter) blockContent(blk *layout.LayoutBlock) interface{} {
	switch v := blk.Content.(type) {
	case *layout.ParagraphLayout:
		return paragraphContent{Text: paragraphText(v)}
	case *layout.TableLayout:
		return tableContent{Columns: v.ColumnWidthsPt, Rows: len(v.Rows)}
	case *layout.ImageData:
		return imageContent{
			Media:    e.mediaRef(v.MediaKey),
			WidthPt:  v.WidthPt,
			HeightPt: v.HeightPt,
		}
	case *layout.FootnotesContent:
		notes := make([]footnoteJSON, 0, len(v.Notes))
		for _, n := range v.Notes {
			notes = append(notes, footnoteJSON{ID: n.ID, Text: footnoteText(n)})
		}
		return footnotesContent{Notes: notes}
	default:
		return nil
	}
}

func (e *exporter) mediaRef(key string) int {
	if key == "" {
		return -1
	}
	if idx, ok := e.mediaIndex[key]; ok {
		return idx
	}
	return -1
}

func paragraphText(pl *layout.ParagraphLayout) string {
	var b strings.Builder
	for _, line := range pl.Lines {
		for _, item := range line.Items {
			switch item.Kind {
			case layout.KindTextRun:
				if d, ok := item.Data.(*layout.TextRunData); ok {
					b.WriteString(d.Text)
				}
			case layout.KindField:
				if d, ok := item.Data.(*layout.FieldData); ok {
					b.WriteString(d.Text)
				}
			}
		}
	}
	return b.String()
}

func footnoteText(note layout.FootnoteEntry) string {
	var b strings.Builder
	for i, blk := range note.Blocks {
		if pl, ok := blk.Content.(*layout.ParagraphLayout); ok {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(paragraphText(pl))
		}
	}
	return b.String()
}

// styleRef returns the deduplicated styles-table index for blk's effective
// style (§6.3 invariant: "identical style property sets collapse to a
// single entry"), registering a new entry the first time a given property
// set is seen. Blocks carrying neither a Style nor a Decoration share one
// common "no style" entry rather than each allocating their own empty one.
func (e *exporter) styleRef(blk *layout.LayoutBlock) int {
	sj := styleFromSummary(blk.Style)
	mergeDecoration(&sj, blk.Decoration)

	key := styleKey(sj)
	if idx, ok := e.styleIndex[key]; ok {
		return idx
	}
	idx := len(e.styles)
	e.styleIndex[key] = idx
	e.styles = append(e.styles, sj)
	return idx
}

func styleFromSummary(s *layout.StyleSummary) styleJSON {
	if s == nil {
		return styleJSON{}
	}
	return styleJSON{
		StyleName: s.StyleName,
		Font:      s.FontFamily,
		Size:      s.SizePt,
		Alignment: alignmentName(s.Alignment),
		Spacing:   [2]float64{s.SpacingBeforePt, s.SpacingAfterPt},
		Borders:   bordersFromModel(s.Borders),
		Shading:   shadingFromModel(s.Shading),
	}
}

// mergeDecoration folds a block's own Decoration (e.g. a table cell's
// per-cell borders/shading, which carries no paragraph-level StyleSummary
// at all) into sj when sj doesn't already have borders/shading from its
// paragraph style.
func mergeDecoration(sj *styleJSON, dec *layout.Decoration) {
	if dec == nil {
		return
	}
	if sj.Borders == nil {
		sj.Borders = bordersFromModel(dec.Borders)
	}
	if sj.Shading == nil {
		sj.Shading = shadingFromModel(dec.Shading)
	}
}

func alignmentName(a wml.Alignment) string {
	switch a {
	case wml.AlignCenter:
		return "center"
	case wml.AlignEnd:
		return "end"
	case wml.AlignBoth:
		return "justify"
	case wml.AlignDistribute:
		return "distribute"
	default:
		return "start"
	}
}

func bordersFromModel(b *wml.Borders) *bordersJSON {
	if b == nil {
		return nil
	}
	out := &bordersJSON{
		Top:    borderEdge(b.Top),
		Bottom: borderEdge(b.Bottom),
		Left:   borderEdge(b.Left),
		Right:  borderEdge(b.Right),
	}
	if out.Top == nil && out.Bottom == nil && out.Left == nil && out.Right == nil {
		return nil
	}
	return out
}

func borderEdge(spec *wml.BorderSpec) *borderEdgeJSON {
	if spec == nil || spec.Style == "" || spec.Style == "none" {
		return nil
	}
	return &borderEdgeJSON{
		Style: spec.Style,
		Width: spec.SizeWPt,
		Color: hexColor(spec.Color),
	}
}

func shadingFromModel(s *wml.Shading) *shadingJSON {
	if s == nil || s.Fill.Auto {
		return nil
	}
	return &shadingJSON{Fill: hexColor(s.Fill)}
}

func hexColor(c color.RGB) string {
	if c.Auto {
		return "auto"
	}
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// styleKey builds a canonical, comparable string for a styleJSON value so
// two blocks with the same effective style collapse to one table entry.
func styleKey(s styleJSON) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%g|%s|%g|%g|", s.StyleName, s.Font, s.Size, s.Alignment, s.Spacing[0], s.Spacing[1])
	if s.Borders != nil {
		fmt.Fprintf(&b, "%v|%v|%v|%v|", s.Borders.Top, s.Borders.Bottom, s.Borders.Left, s.Borders.Right)
	}
	if s.Shading != nil {
		fmt.Fprintf(&b, "%s", s.Shading.Fill)
	}
	return b.String()
}
