package pdf

import (
	"github.com/vortex/docpipe/internal/font"
	"github.com/vortex/docpipe/internal/layout"
	"github.com/vortex/docpipe/internal/wml"
)

// PageRenderer turns one layout.LayoutPage into a content stream,
// resolving fonts and images through the shared embedders so repeated
// glyphs/images across pages don't get embedded twice (§4.6 "Document
// object structure": "A shared Resources dictionary holds Font, XObject,
// and ExtGState entries").
type PageRenderer struct {
	fonts  *FontEmbedder
	images *ImageEmbedder
	media  map[string]*wml.MediaItem
}

func NewPageRenderer(fonts *FontEmbedder, images *ImageEmbedder, media map[string]*wml.MediaItem) *PageRenderer {
	return &PageRenderer{fonts: fonts, images: images, media: media}
}

// Render walks pg.Blocks in z-order (§5 ordering guarantees: "watermarks
// first, then body/headers/footers in the order the pipeline added them,
// then anchored overlays") and returns the finished content stream bytes.
func (pr *PageRenderer) Render(pg *layout.LayoutPage) []byte {
	cb := NewContentBuilder()
	pageH := pg.HeightPt
	for _, blk := range pg.Blocks {
		pr.renderBlock(cb, blk, pageH, 0, 0)
	}
	return cb.Bytes()
}

// renderBlock emits one block's decoration and content. originX/originY
// shift everything by a fixed page-space offset, used when a block is
// nested inside a table cell or footnote entry whose own Blocks are laid
// out relative to (0,0) rather than in absolute page coordinates.
func (pr *PageRenderer) renderBlock(cb *ContentBuilder, blk *layout.LayoutBlock, pageH, originX, originY float64) {
	frame := blk.Frame
	frame.X += originX
	frame.Y += originY

	pr.renderDecoration(cb, blk.Decoration, frame, pageH)

	switch blk.Type {
	case layout.BlockParagraph, layout.BlockHeader, layout.BlockFooter:
		if pl, ok := blk.Content.(*layout.ParagraphLayout); ok {
			pr.renderParagraph(cb, pl, frame, pageH)
		}
	case layout.BlockTable:
		if tl, ok := blk.Content.(*layout.TableLayout); ok {
			pr.renderTable(cb, tl, pageH, originX, originY)
		}
	case layout.BlockImage:
		if img, ok := blk.Content.(*layout.ImageData); ok {
			pr.renderImage(cb, img, frame, pageH)
		}
	case layout.BlockFootnotes:
		if fc, ok := blk.Content.(*layout.FootnotesContent); ok {
			pr.renderFootnotes(cb, fc, frame, pageH)
		}
	case layout.BlockWatermark, layout.BlockDecorator, layout.BlockTextBox:
		// No content payload is produced for these block types by the
		// current pagination pipeline; decoration (already emitted above)
		// is the whole of what they'd contribute.
	}
}

func (pr *PageRenderer) renderTable(cb *ContentBuilder, tl *layout.TableLayout, pageH, originX, originY float64) {
	for _, row := range tl.Rows {
		for _, cell := range row.Cells {
			cellFrame := cell.Frame
			cellFrame.X += originX
			cellFrame.Y += originY
			pr.renderDecoration(cb, cell.Decoration, cellFrame, pageH)
			for _, child := range cell.Blocks {
				pr.renderBlock(cb, child, pageH, cellFrame.X, cellFrame.Y)
			}
		}
	}
}

func (pr *PageRenderer) renderFootnotes(cb *ContentBuilder, fc *layout.FootnotesContent, frame layout.Frame, pageH float64) {
	y := frame.Y
	for _, note := range fc.Notes {
		for _, blk := range note.Blocks {
			pr.renderBlock(cb, blk, pageH, frame.X, y)
		}
	}
}

func (pr *PageRenderer) renderImage(cb *ContentBuilder, img *layout.ImageData, frame layout.Frame, pageH float64) {
	x, y := frame.X, pageH-frame.Y-frame.H
	if img.MediaKey == "" {
		pr.drawPlaceholder(cb, x, y, frame.W, frame.H)
		return
	}
	res := pr.images.Resource(img.MediaKey, pr.media)
	if res.IsPlaceholder() {
		pr.drawPlaceholder(cb, x, y, frame.W, frame.H)
		return
	}
	cb.DrawImage(string(res.Name), x, y, frame.W, frame.H)
}

func (pr *PageRenderer) drawPlaceholder(cb *ContentBuilder, x, y, w, h float64) {
	cb.SaveState()
	cb.SetFillColorRGB(0.6, 0.6, 0.6)
	cb.Rect(x, y, w, h)
	cb.Fill()
	cb.RestoreState()
}

// renderParagraph emits one paragraph's lines as text-showing operators,
// translating UnifiedLayout's top-left-origin coordinates to PDF's
// bottom-left origin per §4.6's coordinate-system rule.
func (pr *PageRenderer) renderParagraph(cb *ContentBuilder, pl *layout.ParagraphLayout, frame layout.Frame, pageH float64) {
	cb.BeginText()
	for _, line := range pl.Lines {
		baselinePDF := pageH - (frame.Y + line.BaselineY)
		pr.renderLine(cb, line, frame.X, baselinePDF)
	}
	cb.EndText()
}

// renderLine emits one Td/Tj pair per inline box rather than a single TJ
// run: the breaker already baked justification's stretched gaps into each
// box's absolute X, so a fresh Td per box reproduces the exact spacing
// without needing TJ's relative-adjustment array.
func (pr *PageRenderer) renderLine(cb *ContentBuilder, line layout.Line, originX, baselineY float64) {
	for _, item := range line.Items {
		x := originX + item.X
		switch item.Kind {
		case layout.KindTextRun:
			data, ok := item.Data.(*layout.TextRunData)
			if !ok {
				continue
			}
			pr.renderTextRun(cb, data, x, baselineY)
		case layout.KindField:
			data, ok := item.Data.(*layout.FieldData)
			if !ok {
				continue
			}
			pr.renderTextRun(cb, &layout.TextRunData{Text: data.Text}, x, baselineY)
		case layout.KindInlineImage:
			data, ok := item.Data.(*layout.ImageData)
			if !ok {
				continue
			}
			h := item.Ascent + item.Descent
			y := baselineY - item.Descent
			if data.MediaKey == "" {
				pr.drawPlaceholder(cb, x, y, item.Width, h)
				continue
			}
			res := pr.images.Resource(data.MediaKey, pr.media)
			if res.IsPlaceholder() {
				pr.drawPlaceholder(cb, x, y, item.Width, h)
				continue
			}
			cb.DrawImage(string(res.Name), x, y, item.Width, h)
		}
	}
}

// renderTextRun shapes data.Text through the font cache, emits the
// fill color and Tf/Td/Tj operators, and notes every glyph drawn against
// the font's FontResource so Finalize can build a correctly scoped
// subset and ToUnicode map.
func (pr *PageRenderer) renderTextRun(cb *ContentBuilder, data *layout.TextRunData, x, baselineY float64) {
	if data.Text == "" {
		return
	}
	desc := font.Descriptor{Family: data.Props.FontFamily, Bold: data.Props.Bold, Italic: data.Props.Italic}
	if desc.Family == "" {
		desc.Family = "Calibri"
	}
	fr := pr.fonts.Resource(desc)
	face, err := pr.fonts.Face(desc)
	if err != nil {
		return
	}

	sizePt := data.Props.SizePt
	if sizePt == 0 {
		sizePt = 12
	}

	r, g, b := data.Props.Color.Floats()
	if data.Props.Color.Auto {
		r, g, b = 0, 0, 0
	}

	runes := []rune(data.Text)
	glyphIDs := make([]uint16, 0, len(runes))
	if len(data.GlyphIDs) > 0 {
		// Glyph IDs supplied with the run are used as-is instead of being
		// re-resolved per rune. The layout shaper never sets them, so runs
		// it produces take the per-rune GlyphIndex path below.
		for i, gid32 := range data.GlyphIDs {
			gid := uint16(gid32)
			ru := rune(0)
			if i < len(runes) {
				ru = runes[i]
			}
			fr.NoteGlyph(gid, ru)
			glyphIDs = append(glyphIDs, gid)
		}
	} else {
		for _, ru := range runes {
			gid := face.GlyphIndex(ru)
			fr.NoteGlyph(gid, ru)
			glyphIDs = append(glyphIDs, gid)
		}
	}

	cb.SetFillColorRGB(r, g, b)
	cb.SetFont(string(fr.Name), sizePt)
	cb.MoveTextTo(x, baselineY)
	cb.ShowTextCID(glyphIDs)

	if data.Props.Underline != wml.UnderlineNone {
		pr.drawUnderline(cb, data, x, baselineY, sizePt)
	}
	if data.Props.Strike || data.Props.DoubleStrike {
		pr.drawStrikethrough(cb, data, x, baselineY, sizePt)
	}
}

func (pr *PageRenderer) drawUnderline(cb *ContentBuilder, data *layout.TextRunData, x, baselineY, sizePt float64) {
	width := textWidthEstimate(data, sizePt)
	underlineY := baselineY - sizePt*0.08
	cb.SaveState()
	cb.SetLineWidth(sizePt * 0.05)
	cb.MoveTo(x, underlineY)
	cb.LineTo(x+width, underlineY)
	cb.Stroke()
	if data.Props.Underline == wml.UnderlineDouble {
		cb.MoveTo(x, underlineY-sizePt*0.06)
		cb.LineTo(x+width, underlineY-sizePt*0.06)
		cb.Stroke()
	}
	cb.RestoreState()
}

func (pr *PageRenderer) drawStrikethrough(cb *ContentBuilder, data *layout.TextRunData, x, baselineY, sizePt float64) {
	width := textWidthEstimate(data, sizePt)
	strikeY := baselineY + sizePt*0.3
	cb.SaveState()
	cb.SetLineWidth(sizePt * 0.05)
	cb.MoveTo(x, strikeY)
	cb.LineTo(x+width, strikeY)
	cb.Stroke()
	cb.RestoreState()
}

func textWidthEstimate(data *layout.TextRunData, sizePt float64) float64 {
	return float64(len([]rune(data.Text))) * sizePt * 0.5
}

// renderDecoration paints a block's fill and border edges, if any, behind
// its content (§4.6 "Vector decorations").
func (pr *PageRenderer) renderDecoration(cb *ContentBuilder, dec *layout.Decoration, frame layout.Frame, pageH float64) {
	if dec == nil {
		return
	}
	x, y := frame.X, pageH-frame.Y-frame.H
	if dec.Shading != nil && !dec.Shading.Fill.Auto {
		r, g, b := dec.Shading.Fill.Floats()
		cb.SaveState()
		cb.SetFillColorRGB(r, g, b)
		cb.Rect(x, y, frame.W, frame.H)
		cb.Fill()
		cb.RestoreState()
	}
	if dec.Borders == nil {
		return
	}
	cb.SaveState()
	drawBorderEdge(cb, dec.Borders.Top, x, y+frame.H, x+frame.W, y+frame.H)
	drawBorderEdge(cb, dec.Borders.Bottom, x, y, x+frame.W, y)
	drawBorderEdge(cb, dec.Borders.Left, x, y, x, y+frame.H)
	drawBorderEdge(cb, dec.Borders.Right, x+frame.W, y, x+frame.W, y+frame.H)
	cb.RestoreState()
}

func drawBorderEdge(cb *ContentBuilder, spec *wml.BorderSpec, x1, y1, x2, y2 float64) {
	if spec == nil || spec.Style == "" || spec.Style == "none" {
		return
	}
	r, g, b := spec.Color.Floats()
	if spec.Color.Auto {
		r, g, b = 0, 0, 0
	}
	width := spec.SizeWPt
	if width == 0 {
		width = 0.75
	}
	cb.SetStrokeColorRGB(r, g, b)
	cb.SetLineWidth(width)
	cb.MoveTo(x1, y1)
	cb.LineTo(x2, y2)
	cb.Stroke()
}
