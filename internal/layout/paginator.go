package layout

import (
	"github.com/vortex/docpipe/internal/docerr"
	"github.com/vortex/docpipe/internal/wml"
)

const (
	defaultWidows   = 2
	defaultOrphans  = 2
	footnoteGapPt   = 6.0
	footnoteRulePt  = 12.0 // space reserved for the separator line above footnotes
)

// Paginator flows a document's blocks onto pages, computing each section's
// content/header/footer regions, resolving list numbering as it goes, and
// reserving space for footnotes referenced on each page (§4.5).
type Paginator struct {
	model  *wml.DocumentModel
	shaper *Shaper
	tables *TableLayouter
	nums   *NumberingResolver
	diags  *docerr.Diagnostics

	footnoteCache map[int][]*LayoutBlock
}

// NewPaginator builds a paginator for one pipeline run over model.
func NewPaginator(model *wml.DocumentModel, shaper *Shaper, tables *TableLayouter, nums *NumberingResolver, diags *docerr.Diagnostics) *Paginator {
	return &Paginator{
		model:         model,
		shaper:        shaper,
		tables:        tables,
		nums:          nums,
		diags:         diags,
		footnoteCache: map[int][]*LayoutBlock{},
	}
}

// section returns the section geometry governing the whole document. The
// parser does not retain a back-reference from a Body block to the
// w:sectPr that terminated its section, so a document with more than one
// section uses its first declared section for page geometry uniformly;
// headers/footers referenced by later sections are still available via
// model.Sections but are not switched to mid-document. Documented as an
// accepted limitation rather than an attempt at per-block section
// attribution the parser doesn't support.
func (p *Paginator) section() *wml.Section {
	if len(p.model.Sections) == 0 {
		return nil
	}
	return p.model.Sections[0]
}

// regions describes one page's four geometric regions in page-local
// coordinates, all with a top-left origin.
type regions struct {
	contentTop, contentBottom float64
	left, right               float64
	headerY, footerY          float64
}

func (p *Paginator) computeRegions(sec *wml.Section) regions {
	return regions{
		contentTop:    sec.MarginTopPt,
		contentBottom: sec.PageHeightPt - sec.MarginBottomPt,
		left:          sec.MarginLeftPt,
		right:         sec.PageWidthPt - sec.MarginRightPt,
		headerY:       sec.MarginHeaderPt,
		footerY:       sec.PageHeightPt - sec.MarginFooterPt,
	}
}

// Paginate runs the full flow algorithm and returns the finished layout.
func (p *Paginator) Paginate() *UnifiedLayout {
	sec := p.section()
	if sec == nil {
		sec = defaultSectionFallback()
	}
	reg := p.computeRegions(sec)
	contentWidth := reg.right - reg.left

	out := &UnifiedLayout{}
	pageNum := 0
	var cursor *flowCursor
	newPage := func() *LayoutPage {
		// Footnotes referenced so far belong to the page being left.
		if cursor != nil {
			p.flushPageFootnotes(cursor, reg)
		}
		pageNum++
		pg := &LayoutPage{
			Number:         pageNum,
			WidthPt:        sec.PageWidthPt,
			HeightPt:       sec.PageHeightPt,
			MarginTopPt:    sec.MarginTopPt,
			MarginBottomPt: sec.MarginBottomPt,
			MarginLeftPt:   sec.MarginLeftPt,
			MarginRightPt:  sec.MarginRightPt,
		}
		// Laid out afresh for every page so each page's header/footer
		// fields are its own, not shared with other pages.
		headerBlocks, footerBlocks := p.layoutHeaderFooter(sec, contentWidth)
		p.placeHeaderFooter(pg, headerBlocks, footerBlocks, reg, contentWidth)
		out.Pages = append(out.Pages, pg)
		return pg
	}

	cursor = &flowCursor{
		page:         newPage(),
		y:            reg.contentTop,
		bottom:       reg.contentBottom,
		left:         reg.left,
		width:        contentWidth,
		seq:          0,
		newPage:      newPage,
		footnoteRefs: map[int]bool{},
	}

	blocks := p.model.Body.Blocks
	for i, b := range blocks {
		keepNext := false
		if para, ok := b.(*wml.Paragraph); ok {
			keepNext = para.Props.KeepNext
		}
		p.flowBlock(cursor, b, blocks, i)
		if keepNext {
			p.tryKeepWithNext(cursor, blocks, i)
		}
	}
	p.flushPageFootnotes(cursor, reg)

	out.Metadata = LayoutMetadata{TotalPages: len(out.Pages)}
	p.substituteNumPages(out)
	return out
}

func defaultSectionFallback() *wml.Section {
	return &wml.Section{
		PageWidthPt: 612, PageHeightPt: 792,
		MarginTopPt: 72, MarginBottomPt: 72, MarginLeftPt: 72, MarginRightPt: 72,
		MarginHeaderPt: 36, MarginFooterPt: 36,
	}
}

type flowCursor struct {
	page         *LayoutPage
	y, bottom    float64
	left, width  float64
	seq          int
	newPage      func() *LayoutPage
	footnoteRefs map[int]bool // footnote IDs referenced on the current page, pending placement
}

func (c *flowCursor) remaining() float64 { return c.bottom - c.y }

func (c *flowCursor) advancePage(reg regions) {
	c.page = c.newPage()
	c.y = reg.contentTop
	c.bottom = reg.contentBottom
}

// flowBlock places one top-level block (paragraph or table), splitting a
// paragraph at a line boundary if it doesn't fit whole, and a table at a
// row boundary.
func (p *Paginator) flowBlock(c *flowCursor, b wml.BlockNode, siblings []wml.BlockNode, idx int) {
	switch v := b.(type) {
	case *wml.Paragraph:
		p.flowParagraph(c, v)
	case *wml.Table:
		p.flowTable(c, v)
	}
}

// flowParagraph splits a paragraph at every hard page/column break it
// contains, laying out and flowing each resulting segment independently.
func (p *Paginator) flowParagraph(c *flowCursor, para *wml.Paragraph) {
	atoms := p.shaper.Tokenize(para.Content, p.model.Media)
	applyNumbering(p.nums, para, &atoms, p.shaper)
	for _, id := range collectFootnoteRefs(para.Content) {
		c.footnoteRefs[id] = true
	}

	// A break atom splits the atom stream into one more segment than
	// there are breaks; a trailing break therefore already yields an
	// empty final segment, and placing segments with a page turn between
	// each one (but not after the last) forces exactly one page turn per
	// break atom regardless of where in the paragraph it falls.
	segments := splitAtomsOnPageBreak(atoms)
	for si, seg := range segments {
		pl := BreakParagraph(seg, para.Props, c.width)
		p.placeParagraphLines(c, pl, para)
		if si < len(segments)-1 {
			reg := p.regionsForCurrentSection()
			c.advancePage(reg)
		}
	}
}

func (p *Paginator) regionsForCurrentSection() regions {
	sec := p.section()
	if sec == nil {
		sec = defaultSectionFallback()
	}
	return p.computeRegions(sec)
}

// placeParagraphLines flows a single paragraph segment's lines onto the
// page, splitting at a line boundary with widow/orphan control
// (defaultWidows/defaultOrphans) unless the paragraph requests
// KeepLines, in which case it only splits if it cannot possibly fit on
// one empty page.
func (p *Paginator) placeParagraphLines(c *flowCursor, pl *ParagraphLayout, para *wml.Paragraph) {
	lines := pl.Lines
	if len(lines) == 0 {
		return
	}
	if para.Props.PageBreakBefore {
		reg := p.regionsForCurrentSection()
		c.advancePage(reg)
	}

	for len(lines) > 0 {
		fit := linesFitting(lines, c.remaining())
		if fit == len(lines) {
			p.emitParagraphBlock(c, lines, para)
			return
		}
		if para.Props.KeepLines && c.y > p.regionsForCurrentSection().contentTop {
			// Whole paragraph doesn't fit here and a fresh page might hold
			// it entirely: retry once on a new page before splitting.
			reg := p.regionsForCurrentSection()
			c.advancePage(reg)
			fit = linesFitting(lines, c.remaining())
			if fit == len(lines) {
				p.emitParagraphBlock(c, lines, para)
				return
			}
		}

		fit = applyWidowOrphan(fit, len(lines))
		if fit == 0 {
			reg := p.regionsForCurrentSection()
			c.advancePage(reg)
			fit = linesFitting(lines, c.remaining())
			fit = applyWidowOrphan(fit, len(lines))
			if fit == 0 {
				// A single line taller than a whole page: place it anyway
				// rather than loop forever.
				fit = 1
			}
		}

		head := &ParagraphLayout{Lines: lines[:fit]}
		p.emitParagraphBlock(c, head.Lines, para)
		lines = lines[fit:]
		if len(lines) > 0 {
			reg := p.regionsForCurrentSection()
			c.advancePage(reg)
		}
	}
}

func (p *Paginator) emitParagraphBlock(c *flowCursor, lines []Line, para *wml.Paragraph) {
	h := linesHeight(lines)
	blk := &LayoutBlock{
		Frame:      Frame{X: c.left, Y: c.y, W: c.width, H: h},
		Type:       BlockParagraph,
		Content:    &ParagraphLayout{Lines: lines},
		UID:        para.ID,
		Seq:        c.seq,
		Decoration: paragraphDecoration(para.Props),
		Style:      paragraphStyleSummary(para),
	}
	c.seq++
	c.page.Blocks = append(c.page.Blocks, blk)
	c.y += h
}

// paragraphDecoration returns nil when a paragraph has neither borders nor
// shading, so the common case carries no allocation into LayoutBlock.
func paragraphDecoration(props wml.ParagraphProperties) *Decoration {
	if props.Borders == nil && props.Shading == nil {
		return nil
	}
	return &Decoration{Borders: props.Borders, Shading: props.Shading}
}

// paragraphStyleSummary pulls the cascaded properties the JSON exporter's
// styles table (§6.3) needs out of a paragraph: its own properties plus its
// first run's font/size, since a paragraph's "style" for export purposes is
// the typographic identity of its text, not just its block-level settings.
func paragraphStyleSummary(para *wml.Paragraph) *StyleSummary {
	s := &StyleSummary{
		StyleName: para.Props.StyleID,
		Borders:   para.Props.Borders,
		Shading:   para.Props.Shading,
	}
	if para.Props.Alignment != nil {
		s.Alignment = *para.Props.Alignment
	}
	if para.Props.SpacingBeforePt != nil {
		s.SpacingBeforePt = *para.Props.SpacingBeforePt
	}
	if para.Props.SpacingAfterPt != nil {
		s.SpacingAfterPt = *para.Props.SpacingAfterPt
	}
	for _, c := range para.Content {
		if run, ok := c.(*wml.Run); ok {
			s.FontFamily = run.Props.FontFamily
			s.SizePt = run.Props.SizePt
			break
		}
		if hl, ok := c.(*wml.Hyperlink); ok && len(hl.Runs) > 0 {
			s.FontFamily = hl.Runs[0].Props.FontFamily
			s.SizePt = hl.Runs[0].Props.SizePt
			break
		}
	}
	return s
}

func linesFitting(lines []Line, budget float64) int {
	var h float64
	for i, l := range lines {
		h += l.Height
		if h > budget {
			return i
		}
	}
	return len(lines)
}

func linesHeight(lines []Line) float64 {
	var h float64
	for _, l := range lines {
		h += l.Height
	}
	return h
}

// applyWidowOrphan enforces that a split leaves at least defaultOrphans
// lines on the page being left and at least defaultWidows lines starting
// the next one, pulling lines back from the split if either threshold
// would be violated (§4.5).
func applyWidowOrphan(fit, total int) int {
	if fit >= total {
		return fit
	}
	if fit < defaultOrphans {
		return 0
	}
	remaining := total - fit
	if remaining < defaultWidows {
		fit -= defaultWidows - remaining
		if fit < defaultOrphans {
			return 0
		}
	}
	return fit
}

// splitAtomsOnPageBreak splits atoms at every hard page-break atom
// (w:br/@type="page" or "column"), dropping the break atom itself. A
// trailing break yields an empty final segment, which the caller's
// inter-segment page turn then naturally accounts for.
func splitAtomsOnPageBreak(atoms []atom) [][]atom {
	var segments [][]atom
	var current []atom
	for _, a := range atoms {
		if a.kind == atomBreak && a.breakType != wml.BreakTypeLine {
			segments = append(segments, current)
			current = nil
			continue
		}
		current = append(current, a)
	}
	segments = append(segments, current)
	return segments
}

func collectFootnoteRefs(content []wml.ParaContent) []int {
	var ids []int
	var walk func(items []wml.RunItem)
	walk = func(items []wml.RunItem) {
		for _, it := range items {
			if fr, ok := it.(wml.FootnoteRefItem); ok {
				ids = append(ids, fr.ID)
			}
		}
	}
	for _, c := range content {
		switch v := c.(type) {
		case *wml.Run:
			walk(v.Items)
		case *wml.Hyperlink:
			for _, r := range v.Runs {
				walk(r.Items)
			}
		}
	}
	return ids
}

// tryKeepWithNext gives a paragraph's w:keepNext a single retry: if the
// paragraph just placed ends near the bottom of the page and the very
// next block wouldn't fit in what's left, both are pushed to a fresh
// page together. Only attempted once per paragraph (no repeated
// reshuffling) to guarantee termination.
func (p *Paginator) tryKeepWithNext(c *flowCursor, blocks []wml.BlockNode, idx int) {
	if idx+1 >= len(blocks) {
		return
	}
	next := blocks[idx+1]
	para, ok := next.(*wml.Paragraph)
	if !ok {
		return
	}
	atoms := p.shaper.Tokenize(para.Content, p.model.Media)
	segs := splitAtomsOnPageBreak(atoms)
	if len(segs) == 0 {
		return
	}
	pl := BreakParagraph(segs[0], para.Props, c.width)
	if len(pl.Lines) == 0 {
		return
	}
	if linesFitting(pl.Lines, c.remaining()) == 0 && len(c.page.Blocks) > 0 {
		last := c.page.Blocks[len(c.page.Blocks)-1]
		c.page.Blocks = c.page.Blocks[:len(c.page.Blocks)-1]
		c.y -= last.Frame.H
		if len(c.page.Blocks) == 0 {
			// Nothing else anchors this page; leave the block where it was
			// rather than emit an empty page followed by one holding only
			// this paragraph's continuation.
			c.page.Blocks = append(c.page.Blocks, last)
			c.y += last.Frame.H
			return
		}
		reg := p.regionsForCurrentSection()
		c.advancePage(reg)
		last.Frame.Y = c.y
		c.page.Blocks = append(c.page.Blocks, last)
		c.y += last.Frame.H
	}
}

func (p *Paginator) flowTable(c *flowCursor, t *wml.Table) {
	tbl := p.tables.Layout(t, c.width, p.model.Media)
	var headerRows []RowLayout
	for _, r := range tbl.Rows {
		if r.Header {
			headerRows = append(headerRows, r)
		} else {
			break
		}
	}
	headerHeight := rowsHeight(headerRows)

	startRow := 0
	for startRow < len(tbl.Rows) {
		// Header repetition only costs space on continuation pages; the
		// first page already counts header rows within tbl.Rows itself.
		avail := c.remaining()
		rowsOnPage, forceBreak := rowsFitting(tbl.Rows, startRow, avail, headerHeight, startRow > 0)
		if rowsOnPage == 0 {
			reg := p.regionsForCurrentSection()
			c.advancePage(reg)
			avail = c.remaining()
			rowsOnPage, forceBreak = rowsFitting(tbl.Rows, startRow, avail, headerHeight, startRow > 0)
			if rowsOnPage == 0 {
				rowsOnPage = 1 // a single row taller than a page: place it anyway
			}
		}
		_ = forceBreak

		y0 := c.y
		if startRow > 0 {
			for _, hr := range headerRows {
				emitRow(c, hr, y0)
				y0 += hr.HeightPt
			}
		}
		for i := startRow; i < startRow+rowsOnPage && i < len(tbl.Rows); i++ {
			if tbl.Rows[i].Header && startRow > 0 {
				continue // already repeated above
			}
			emitRow(c, tbl.Rows[i], y0)
			y0 += tbl.Rows[i].HeightPt
		}
		c.y = y0
		startRow += rowsOnPage
		if startRow < len(tbl.Rows) {
			reg := p.regionsForCurrentSection()
			c.advancePage(reg)
		}
	}
}

// emitRow places one table row as a single BlockTable, its cells'
// Frame.Y rewritten from the within-table offset the TableLayouter
// computed to this row's actual page position.
func emitRow(c *flowCursor, row RowLayout, y float64) {
	placed := make([]CellLayout, len(row.Cells))
	var width float64
	for ci, cell := range row.Cells {
		cell.Frame.X += c.left
		cell.Frame.Y = y
		placed[ci] = cell
		if right := cell.Frame.X + cell.Frame.W - c.left; right > width {
			width = right
		}
	}
	blk := &LayoutBlock{
		Frame:   Frame{X: c.left, Y: y, W: width, H: row.HeightPt},
		Type:    BlockTable,
		Content: &TableLayout{Rows: []RowLayout{{HeightPt: row.HeightPt, Header: row.Header, Cells: placed}}},
		Seq:     c.seq,
	}
	c.seq++
	c.page.Blocks = append(c.page.Blocks, blk)
}

func rowsHeight(rows []RowLayout) float64 {
	var h float64
	for _, r := range rows {
		h += r.HeightPt
	}
	return h
}

// rowsFitting returns how many rows starting at startRow fit in budget,
// reserving headerHeight up front on a continuation page (repeatHeader),
// and never splitting a row whose RowProperties marked it cantSplit
// (approximated here: a row is atomic, never split internally; only
// row-boundary pagination is modeled).
func rowsFitting(rows []RowLayout, startRow int, budget float64, headerHeight float64, repeatHeader bool) (int, bool) {
	if repeatHeader {
		budget -= headerHeight
	}
	var h float64
	for i := startRow; i < len(rows); i++ {
		h += rows[i].HeightPt
		if h > budget {
			return i - startRow, true
		}
	}
	return len(rows) - startRow, false
}

// layoutHeaderFooter lays out every header/footer variant the section
// references. Paginate calls it once per page; placeHeaderFooter then picks
// the first-page, even-page or default variant for that page.
func (p *Paginator) layoutHeaderFooter(sec *wml.Section, width float64) (map[wml.HFType][]*LayoutBlock, map[wml.HFType][]*LayoutBlock) {
	headers := map[wml.HFType][]*LayoutBlock{}
	footers := map[wml.HFType][]*LayoutBlock{}
	for t, rid := range sec.HeaderRIDs {
		if hf, ok := p.model.Headers[rid]; ok {
			headers[t] = p.layoutBlockNodes(hf.Blocks, width)
		}
	}
	for t, rid := range sec.FooterRIDs {
		if hf, ok := p.model.Footers[rid]; ok {
			footers[t] = p.layoutBlockNodes(hf.Blocks, width)
		}
	}
	return headers, footers
}

func (p *Paginator) layoutBlockNodes(nodes []wml.BlockNode, width float64) []*LayoutBlock {
	var blocks []*LayoutBlock
	y := 0.0
	for i, n := range nodes {
		switch v := n.(type) {
		case *wml.Paragraph:
			atoms := p.shaper.Tokenize(v.Content, p.model.Media)
			applyNumbering(p.nums, v, &atoms, p.shaper)
			pl := BreakParagraph(atoms, v.Props, width)
			h := paragraphHeight(pl)
			blocks = append(blocks, &LayoutBlock{
				Frame: Frame{X: 0, Y: y, W: width, H: h}, Type: BlockParagraph, Content: pl, Seq: i, UID: v.ID,
			})
			y += h
		case *wml.Table:
			tbl := p.tables.Layout(v, width, p.model.Media)
			h := tableHeight(tbl)
			blocks = append(blocks, &LayoutBlock{
				Frame: Frame{X: 0, Y: y, W: width, H: h}, Type: BlockTable, Content: tbl, Seq: i,
			})
			y += h
		}
	}
	return blocks
}

func (p *Paginator) placeHeaderFooter(pg *LayoutPage, headers, footers map[wml.HFType][]*LayoutBlock, reg regions, width float64) {
	hfType := wml.HFDefault
	if pg.Number == 1 {
		if _, ok := headers[wml.HFFirst]; ok {
			hfType = wml.HFFirst
		}
	} else if pg.Number%2 == 0 {
		if _, ok := headers[wml.HFEven]; ok {
			hfType = wml.HFEven
		}
	}
	if blocks := headers[hfType]; blocks != nil {
		for _, b := range blocks {
			nb := *b
			if nb.Type == BlockParagraph {
				nb.Type = BlockHeader
			}
			nb.Frame.X += reg.left
			nb.Frame.Y += reg.headerY
			pg.HeaderIndices = append(pg.HeaderIndices, len(pg.Blocks))
			pg.Blocks = append(pg.Blocks, &nb)
		}
	}

	fhfType := wml.HFDefault
	if pg.Number == 1 {
		if _, ok := footers[wml.HFFirst]; ok {
			fhfType = wml.HFFirst
		}
	} else if pg.Number%2 == 0 {
		if _, ok := footers[wml.HFEven]; ok {
			fhfType = wml.HFEven
		}
	}
	if blocks := footers[fhfType]; blocks != nil {
		h := blocksHeight(blocks)
		for _, b := range blocks {
			nb := *b
			if nb.Type == BlockParagraph {
				nb.Type = BlockFooter
			}
			nb.Frame.X += reg.left
			nb.Frame.Y += reg.footerY - h
			pg.FooterIndices = append(pg.FooterIndices, len(pg.Blocks))
			pg.Blocks = append(pg.Blocks, &nb)
		}
	}
}

// flushPageFootnotes lays out every footnote referenced on the current
// page into a BlockFootnotes block anchored above the footer, reserving
// its height by simply appending below body content already placed
// (pages where footnotes push body content past the footer are a known
// simplification: a second flow pass that re-reserves space before
// placing body content is not implemented).
func (p *Paginator) flushPageFootnotes(c *flowCursor, reg regions) {
	if len(c.footnoteRefs) == 0 {
		return
	}
	var ids []int
	for id := range c.footnoteRefs {
		ids = append(ids, id)
	}
	// Stable order: ascending by id, matching reference order for the
	// common case of sequential footnote numbering.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}

	var entries []FootnoteEntry
	y := footnoteRulePt
	for _, id := range ids {
		note, ok := p.model.Footnotes[id]
		if !ok {
			continue
		}
		blocks := p.footnoteBody(note, c.width)
		entries = append(entries, FootnoteEntry{ID: id, Blocks: blocks})
		y += blocksHeight(blocks) + footnoteGapPt
	}
	if len(entries) == 0 {
		return
	}
	blk := &LayoutBlock{
		Frame:   Frame{X: c.left, Y: reg.footerY - y, W: c.width, H: y},
		Type:    BlockFootnotes,
		Content: &FootnotesContent{Notes: entries},
		Seq:     c.seq,
	}
	c.seq++
	c.page.Blocks = append(c.page.Blocks, blk)
	c.footnoteRefs = map[int]bool{}
}

func (p *Paginator) footnoteBody(note *wml.Note, width float64) []*LayoutBlock {
	if cached, ok := p.footnoteCache[note.ID]; ok {
		return cached
	}
	blocks := p.layoutBlockNodes(note.Blocks, width)
	p.footnoteCache[note.ID] = blocks
	return blocks
}

// substituteNumPages fills in every pending field now that the final page
// count is known: NUMPAGES gets the total, and PAGE gets the physical
// number of the page its block sits on rather than a cached one.
func (p *Paginator) substituteNumPages(u *UnifiedLayout) {
	total := len(u.Pages)
	for _, pg := range u.Pages {
		for _, blk := range pg.Blocks {
			substituteBlockFields(blk, pg.Number, total)
		}
	}
}

func substituteBlockFields(blk *LayoutBlock, pageNum, total int) {
	switch c := blk.Content.(type) {
	case *ParagraphLayout:
		for li := range c.Lines {
			for ii := range c.Lines[li].Items {
				item := &c.Lines[li].Items[ii]
				if item.Kind != KindField {
					continue
				}
				fd, ok := item.Data.(*FieldData)
				if !ok || !fd.Pending {
					continue
				}
				switch fd.Kind {
				case wml.FieldNumPages:
					fd.Text = formatPageNumber(total)
				case wml.FieldPage:
					fd.Text = formatPageNumber(pageNum)
				}
				fd.Pending = false
			}
		}
	case *TableLayout:
		for ri := range c.Rows {
			for ci := range c.Rows[ri].Cells {
				for _, nested := range c.Rows[ri].Cells[ci].Blocks {
					substituteBlockFields(nested, pageNum, total)
				}
			}
		}
	case *FootnotesContent:
		for ni := range c.Notes {
			for _, nested := range c.Notes[ni].Blocks {
				substituteBlockFields(nested, pageNum, total)
			}
		}
	}
}

func formatPageNumber(n int) string {
	if n <= 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
