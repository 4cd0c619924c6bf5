package layout

import (
	"github.com/vortex/docpipe/internal/docerr"
	"github.com/vortex/docpipe/internal/wml"
)

// TableLayouter resolves a table's column widths, lays out every cell's
// content, and computes row heights (§4.4).
type TableLayouter struct {
	shaper *Shaper
	nums   *NumberingResolver
	diags  *docerr.Diagnostics
}

// NewTableLayouter returns a layouter sharing a document's shaper and
// numbering resolver so nested paragraphs inside cells number and measure
// consistently with top-level body content.
func NewTableLayouter(shaper *Shaper, nums *NumberingResolver, diags *docerr.Diagnostics) *TableLayouter {
	return &TableLayouter{shaper: shaper, nums: nums, diags: diags}
}

// vMergeSpan tracks a restart cell's row index and grid column while its
// continuation rows are still being walked, so its Frame height and
// RowSpan can be grown in place once the merge ends.
type vMergeSpan struct {
	rowIdx, cellIdx int
	rows            int
}

// Layout resolves column widths against availableWidth, lays out every
// cell's blocks at its resolved width, and computes each row's height.
func (tl *TableLayouter) Layout(t *wml.Table, availableWidth float64, media map[string]*wml.MediaItem) *TableLayout {
	widths := tl.resolveColumnWidths(t, availableWidth, media)
	out := &TableLayout{ColumnWidthsPt: widths}

	// vMerge restart cells, keyed by grid column, pending a row-span count
	// to fill in once every continuation row has been walked.
	pending := map[int]*vMergeSpan{}
	// Every restart span in order, including ones a later row has closed.
	var spans []*vMergeSpan

	y := 0.0
	for rowIdx, row := range t.Rows {
		rowLayout := RowLayout{Header: row.Props.TblHeader}
		col := 0
		maxContentHeight := 0.0

		for _, cell := range row.Cells {
			span := cell.GridSpan
			if span < 1 {
				span = 1
			}
			cellWidth := sumWidths(widths, col, span)

			if cell.VMerge == wml.VMergeContinue {
				if ps, ok := pending[col]; ok {
					ps.rows++
				}
				col += span
				continue
			}

			cl := CellLayout{
				GridCol:    col,
				GridSpan:   span,
				RowSpan:    1,
				Frame:      Frame{X: sumWidths(widths, 0, col), Y: y, W: cellWidth},
				Decoration: cellDecoration(cell),
			}
			cl.Blocks = tl.layoutCellBlocks(cell, cellWidth, media)
			cellHeight := blocksHeight(cl.Blocks)
			if cellHeight > maxContentHeight {
				maxContentHeight = cellHeight
			}

			rowLayout.Cells = append(rowLayout.Cells, cl)
			cellIdx := len(rowLayout.Cells) - 1
			if cell.VMerge == wml.VMergeRestart {
				ps := &vMergeSpan{rowIdx: rowIdx, cellIdx: cellIdx, rows: 1}
				pending[col] = ps
				spans = append(spans, ps)
			} else {
				delete(pending, col)
			}
			col += span
		}

		rowHeight := resolveRowHeight(row.Props, maxContentHeight)
		rowLayout.HeightPt = rowHeight
		for i := range rowLayout.Cells {
			rowLayout.Cells[i].Frame.H = rowHeight
		}
		out.Rows = append(out.Rows, rowLayout)
		y += rowHeight
	}

	// Fold accumulated vMerge row counts into each restart cell's Frame
	// height and RowSpan, so a continuation row contributes 0 visible
	// height but the owning cell's frame covers the whole merged region.
	for _, ps := range spans {
		if ps.rows <= 1 {
			continue
		}
		cell := &out.Rows[ps.rowIdx].Cells[ps.cellIdx]
		cell.RowSpan = ps.rows
		var span float64
		for i := ps.rowIdx; i < ps.rowIdx+ps.rows && i < len(out.Rows); i++ {
			span += out.Rows[i].HeightPt
		}
		cell.Frame.H = span
	}

	return out
}

// cellDecoration returns nil for a cell with neither explicit borders nor
// shading, mirroring paragraphDecoration's no-allocation common case.
func cellDecoration(cell *wml.Cell) *Decoration {
	if cell.Borders == nil && cell.Shading == nil {
		return nil
	}
	return &Decoration{Borders: cell.Borders, Shading: cell.Shading}
}

func sumWidths(widths []float64, start, count int) float64 {
	var sum float64
	for i := start; i < start+count && i < len(widths); i++ {
		sum += widths[i]
	}
	return sum
}

func (tl *TableLayouter) layoutCellBlocks(cell *wml.Cell, width float64, media map[string]*wml.MediaItem) []*LayoutBlock {
	var blocks []*LayoutBlock
	y := 0.0
	for i, b := range cell.Blocks {
		switch v := b.(type) {
		case *wml.Paragraph:
			atoms := tl.shaper.Tokenize(v.Content, media)
			applyNumbering(tl.nums, v, &atoms, tl.shaper)
			pl := BreakParagraph(atoms, v.Props, width)
			h := paragraphHeight(pl)
			blocks = append(blocks, &LayoutBlock{
				Frame:   Frame{X: 0, Y: y, W: width, H: h},
				Type:    BlockParagraph,
				Content: pl,
				Seq:     i,
				UID:     v.ID,
			})
			y += h
		case *wml.Table:
			nested := tl.Layout(v, width, media)
			h := tableHeight(nested)
			blocks = append(blocks, &LayoutBlock{
				Frame:   Frame{X: 0, Y: y, W: width, H: h},
				Type:    BlockTable,
				Content: nested,
				Seq:     i,
			})
			y += h
		}
	}
	return blocks
}

func blocksHeight(blocks []*LayoutBlock) float64 {
	var h float64
	for _, b := range blocks {
		if top := b.Frame.Y + b.Frame.H; top > h {
			h = top
		}
	}
	return h
}

func tableHeight(t *TableLayout) float64 {
	var h float64
	for _, r := range t.Rows {
		h += r.HeightPt
	}
	return h
}

func paragraphHeight(pl *ParagraphLayout) float64 {
	var h float64
	for _, l := range pl.Lines {
		h += l.Height
	}
	return h
}

func resolveRowHeight(props wml.RowProperties, contentHeight float64) float64 {
	switch props.HeightRule {
	case wml.HeightExact:
		return props.HeightPt
	case wml.HeightAtLeast:
		if contentHeight > props.HeightPt {
			return contentHeight
		}
		return props.HeightPt
	default:
		return contentHeight
	}
}

// resolveColumnWidths classifies each declared grid column auto/fixed/pct,
// checks whether the fixed+pct declarations already fit availableWidth,
// and otherwise measures each auto column's natural min/max width from its
// cells' content and distributes the remainder proportionally, clamped to
// each column's own min/max (§4.4 column-width algorithm).
func (tl *TableLayouter) resolveColumnWidths(t *wml.Table, availableWidth float64, media map[string]*wml.MediaItem) []float64 {
	n := len(t.Grid)
	if n == 0 {
		return nil
	}
	widths := make([]float64, n)

	var fixedTotal float64
	var pctTotal float64
	autoCols := 0
	for i, g := range t.Grid {
		switch g.Type {
		case wml.ColumnFixed:
			widths[i] = g.WidthPt
			fixedTotal += g.WidthPt
		case wml.ColumnPercent:
			w := availableWidth * g.WidthPct / 100
			widths[i] = w
			pctTotal += w
		default:
			autoCols++
		}
	}

	declaredTotal := fixedTotal + pctTotal
	if autoCols == 0 {
		if declaredTotal <= availableWidth || declaredTotal == 0 {
			return widths
		}
		// Declared widths overflow: scale every column down proportionally.
		scale := availableWidth / declaredTotal
		for i := range widths {
			widths[i] *= scale
		}
		return widths
	}

	minW, maxW := tl.measureAutoColumnBounds(t, media)
	remaining := availableWidth - declaredTotal
	if remaining < 0 {
		remaining = 0
	}

	var autoMinTotal, autoMaxTotal float64
	for i, g := range t.Grid {
		if g.Type == wml.ColumnAuto {
			autoMinTotal += minW[i]
			autoMaxTotal += maxW[i]
		}
	}

	for i, g := range t.Grid {
		if g.Type != wml.ColumnAuto {
			continue
		}
		var w float64
		switch {
		case autoMaxTotal <= remaining:
			w = maxW[i]
		case autoMaxTotal > autoMinTotal:
			frac := (remaining - autoMinTotal) / (autoMaxTotal - autoMinTotal)
			if frac < 0 {
				frac = 0
			}
			w = minW[i] + frac*(maxW[i]-minW[i])
		default:
			w = minW[i]
		}
		if w < minW[i] {
			w = minW[i]
		}
		widths[i] = w
	}
	return widths
}

// measureAutoColumnBounds measures, per auto-width grid column, the
// narrowest (longest unbreakable word) and widest (whole cell content on
// one line) width among every cell anchored at that column.
func (tl *TableLayouter) measureAutoColumnBounds(t *wml.Table, media map[string]*wml.MediaItem) (min, max []float64) {
	n := len(t.Grid)
	min = make([]float64, n)
	max = make([]float64, n)
	for _, row := range t.Rows {
		col := 0
		for _, cell := range row.Cells {
			span := cell.GridSpan
			if span < 1 {
				span = 1
			}
			if cell.VMerge != wml.VMergeContinue {
				cmin, cmax := tl.measureCellBounds(cell, media)
				if span == 1 && col < n {
					if cmin > min[col] {
						min[col] = cmin
					}
					if cmax > max[col] {
						max[col] = cmax
					}
				}
			}
			col += span
		}
	}
	for i := range min {
		if max[i] < min[i] {
			max[i] = min[i]
		}
	}
	return min, max
}

func (tl *TableLayouter) measureCellBounds(cell *wml.Cell, media map[string]*wml.MediaItem) (min, max float64) {
	for _, b := range cell.Blocks {
		p, ok := b.(*wml.Paragraph)
		if !ok {
			continue
		}
		atoms := tl.shaper.Tokenize(p.Content, media)
		var lineWidth float64
		var longestAtom float64
		for _, a := range atoms {
			lineWidth += a.width
			if a.width > longestAtom && a.kind != atomSpace {
				longestAtom = a.width
			}
		}
		if lineWidth > max {
			max = lineWidth
		}
		if longestAtom > min {
			min = longestAtom
		}
	}
	return min, max
}

// applyNumbering resolves a numbered paragraph's marker text as a leading
// field-like atom, prepended to the paragraph's content atoms.
func applyNumbering(nums *NumberingResolver, p *wml.Paragraph, atoms *[]atom, s *Shaper) {
	if p.NumRef == nil || nums == nil {
		return
	}
	marker := nums.Advance(p.NumRef.NumID, p.NumRef.ILvl)
	if marker == "" {
		return
	}
	markerAtom := atom{
		kind:  atomWord,
		text:  marker + " ",
		props: firstRunProps(p.Content),
	}
	markerAtom.width = s.measureText(markerAtom.text, markerAtom.props)
	markerAtom.ascent, markerAtom.descent = s.lineMetrics(markerAtom.props)
	*atoms = append([]atom{markerAtom}, *atoms...)
}

// firstRunProps returns the character properties of a paragraph's first
// run, Word's own convention for which rPr governs the numbering marker's
// appearance; falls back to a plain default for an empty paragraph.
func firstRunProps(content []wml.ParaContent) wml.RunProperties {
	for _, c := range content {
		switch v := c.(type) {
		case *wml.Run:
			return v.Props
		case *wml.Hyperlink:
			if len(v.Runs) > 0 {
				return v.Runs[0].Props
			}
		}
	}
	return wml.RunProperties{FontFamily: "Calibri", SizePt: 12}
}
