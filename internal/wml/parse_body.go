package wml

import (
	"github.com/beevik/etree"

	"github.com/vortex/docpipe/internal/oxml"
	"github.com/vortex/docpipe/internal/units"
)

// parseBlocks parses the block-level children of a container element (w:body,
// w:tc, a header/footer root, a footnote/endnote, or a text box body) into
// BlockNodes. w:sdt (structured document tag / content control) wrappers are
// transparent: only their w:sdtContent is meaningful to a reader.
func (p *parser) parseBlocks(container *etree.Element) []BlockNode {
	var out []BlockNode
	for _, c := range container.ChildElements() {
		switch {
		case oxml.Is(c, "w", "p"):
			out = append(out, p.parseParagraph(c))
		case oxml.Is(c, "w", "tbl"):
			out = append(out, p.parseTable(c))
		case oxml.Is(c, "w", "sdt"):
			if content := oxml.Child(c, "w", "sdtContent"); content != nil {
				out = append(out, p.parseBlocks(content)...)
			}
		}
	}
	return out
}

// parseParagraph parses one w:p into a *Paragraph, resolving its style
// cascade and folding any complex field sequences it contains.
func (p *parser) parseParagraph(pEl *etree.Element) *Paragraph {
	pPr := oxml.Child(pEl, "w", "pPr")
	props, numRef := p.paragraphProps(pPr)
	baseRun := p.paragraphBaseRunProps(props.StyleID)

	// A paragraph mark can itself carry character properties (w:pPr/w:rPr)
	// that seed every run in the paragraph, layered above the style's.
	if pPr != nil {
		if markRPr := oxml.Child(pPr, "w", "rPr"); markRPr != nil {
			parseRunProperties(markRPr, &baseRun)
		}
	}

	runs := p.parseInlineContent(pEl, baseRun)
	runs = collapseFields(runs)

	content := make([]ParaContent, 0, len(runs))
	for _, r := range runs {
		if len(r.Items) == 1 {
			if hm, ok := r.Items[0].(hyperlinkMarker); ok {
				content = append(content, hm.hl)
				continue
			}
		}
		content = append(content, r)
	}

	return &Paragraph{
		ID:      oxml.ElementID(pEl, p.synthID("p")),
		Props:   props,
		Content: content,
		NumRef:  numRef,
	}
}

// parseInlineContent walks a paragraph's (or hyperlink's) direct children,
// producing a flat run sequence. w:hyperlink is handled by the caller
// separately since it groups runs into a distinct ParaContent rather than
// flattening; here it recurses and returns its runs too so a top-level
// hyperlink's own field spans can still be collapsed internally.
func (p *parser) parseInlineContent(container *etree.Element, base RunProperties) []*Run {
	var runs []*Run
	for _, c := range container.ChildElements() {
		switch {
		case oxml.Is(c, "w", "r"):
			runs = append(runs, p.parseRun(c, base))
		case oxml.Is(c, "w", "fldSimple"):
			runs = append(runs, p.parseFldSimple(c, base))
		case oxml.Is(c, "w", "hyperlink"):
			hlRuns := collapseFields(p.parseInlineContent(c, base))
			if len(hlRuns) == 0 {
				continue
			}
			hl := &Hyperlink{Runs: hlRuns}
			if rid, ok := oxml.Attr(c, "r", "id"); ok && rid != "" {
				if rel, err := p.pkg.ResolveRelationship(p.curPart, rid); err == nil {
					if rel.IsExternal() {
						hl.URL = rel.TargetRef
					} else {
						hl.URL = string(rel.TargetPartname)
					}
				}
			}
			if anchor, ok := oxml.Attr(c, "w", "anchor"); ok {
				hl.Anchor = anchor
			}
			// Splice the hyperlink in as a single synthetic run carrying no
			// items of its own so the caller's flat []*Run stream keeps a
			// 1:1 slot; the real content lives in the *Hyperlink wrapper
			// built by parseParagraph below. Hyperlinks at the top level of
			// a paragraph are promoted out of the run stream there.
			runs = append(runs, &Run{Props: base, Items: []RunItem{hyperlinkMarker{hl: hl}}})
		case oxml.Is(c, "w", "ins"):
			runs = append(runs, p.parseInlineContent(c, base)...)
		case oxml.Is(c, "w", "del"):
			// Deleted (tracked-change) content is omitted from the rendered
			// document; nothing to append.
		case oxml.Is(c, "w", "smartTag") || oxml.Is(c, "w", "sdt"):
			if sc := oxml.Child(c, "w", "sdtContent"); sc != nil {
				runs = append(runs, p.parseInlineContent(sc, base)...)
			} else {
				runs = append(runs, p.parseInlineContent(c, base)...)
			}
		}
	}
	return runs
}

// hyperlinkMarker is a transient RunItem used only to carry a *Hyperlink
// through parseInlineContent's flat []*Run stream; parseParagraph unwraps
// it into a proper ParaContent entry.
type hyperlinkMarker struct{ hl *Hyperlink }

func (hyperlinkMarker) runItem() {}

// parseTable parses one w:tbl into a *Table, including column grid,
// row/cell properties, and vertical-merge markers (§4.4).
func (p *parser) parseTable(tblEl *etree.Element) *Table {
	t := &Table{}
	if tblPr := oxml.Child(tblEl, "w", "tblPr"); tblPr != nil {
		t.Props = p.parseTableProperties(tblPr)
	}
	if grid := oxml.Child(tblEl, "w", "tblGrid"); grid != nil {
		for _, col := range oxml.Children(grid, "w", "gridCol") {
			cs := ColumnSpec{Type: ColumnAuto}
			if v, ok := oxml.AttrInt(col, "w", "w"); ok {
				cs.Type = ColumnFixed
				cs.WidthPt = units.Twips(v)
			}
			t.Grid = append(t.Grid, cs)
		}
	}
	for _, rowEl := range oxml.Children(tblEl, "w", "tr") {
		t.Rows = append(t.Rows, p.parseRow(rowEl))
	}
	return t
}

func (p *parser) parseTableProperties(tblPr *etree.Element) TableProperties {
	tp := TableProperties{}
	if styleEl := oxml.Child(tblPr, "w", "tblStyle"); styleEl != nil {
		tp.StyleID, _ = oxml.Attr(styleEl, "w", "val")
	}
	if jc := oxml.Child(tblPr, "w", "jc"); jc != nil {
		if v, ok := oxml.Attr(jc, "w", "val"); ok {
			switch v {
			case "center":
				tp.Alignment = TableAlignCenter
			case "end", "right":
				tp.Alignment = TableAlignEnd
			}
		}
	}
	if ind := oxml.Child(tblPr, "w", "tblInd"); ind != nil {
		if v, ok := oxml.AttrInt(ind, "w", "w"); ok {
			tp.IndentPt = units.Twips(v)
		}
	}
	if layout := oxml.Child(tblPr, "w", "tblLayout"); layout != nil {
		if v, ok := oxml.Attr(layout, "w", "type"); ok {
			tp.Autofit = v != "fixed"
		}
	} else {
		tp.Autofit = true
	}
	if borders := oxml.Child(tblPr, "w", "tblBorders"); borders != nil {
		tp.Borders = parseBorders(borders)
	}
	if shd := oxml.Child(tblPr, "w", "shd"); shd != nil {
		tp.Shading = parseShading(shd)
	}
	return tp
}

func (p *parser) parseRow(rowEl *etree.Element) *Row {
	row := &Row{}
	if trPr := oxml.Child(rowEl, "w", "trPr"); trPr != nil {
		if h := oxml.Child(trPr, "w", "trHeight"); h != nil {
			if v, ok := oxml.AttrInt(h, "w", "val"); ok {
				row.Props.HeightPt = units.Twips(v)
			}
			if v, ok := oxml.Attr(h, "w", "hRule"); ok {
				row.Props.HeightRule = parseHeightRule(v)
			}
		}
		if oxml.Child(trPr, "w", "cantSplit") != nil {
			row.Props.CantSplit = boolAttrDefaultTrue(oxml.Child(trPr, "w", "cantSplit"))
		}
		if oxml.Child(trPr, "w", "tblHeader") != nil {
			row.Props.TblHeader = boolAttrDefaultTrue(oxml.Child(trPr, "w", "tblHeader"))
		}
	}
	for _, cellEl := range oxml.Children(rowEl, "w", "tc") {
		row.Cells = append(row.Cells, p.parseCell(cellEl))
	}
	return row
}

func (p *parser) parseCell(cellEl *etree.Element) *Cell {
	cell := &Cell{GridSpan: 1, VAlign: VAlignTop}
	if tcPr := oxml.Child(cellEl, "w", "tcPr"); tcPr != nil {
		if w := oxml.Child(tcPr, "w", "tcW"); w != nil {
			if v, ok := oxml.AttrInt(w, "w", "w"); ok {
				cell.WidthPt = units.Twips(v)
			}
		}
		if span := oxml.Child(tcPr, "w", "gridSpan"); span != nil {
			if v, ok := oxml.AttrInt(span, "w", "val"); ok && v > 0 {
				cell.GridSpan = v
			}
		}
		if vm := oxml.Child(tcPr, "w", "vMerge"); vm != nil {
			v, ok := oxml.Attr(vm, "w", "val")
			if !ok || v == "continue" {
				cell.VMerge = VMergeContinue
			} else if v == "restart" {
				cell.VMerge = VMergeRestart
			}
		}
		if borders := oxml.Child(tcPr, "w", "tcBorders"); borders != nil {
			cell.Borders = parseBorders(borders)
		}
		if shd := oxml.Child(tcPr, "w", "shd"); shd != nil {
			cell.Shading = parseShading(shd)
		}
		if va := oxml.Child(tcPr, "w", "vAlign"); va != nil {
			if v, ok := oxml.Attr(va, "w", "val"); ok {
				switch v {
				case "center":
					cell.VAlign = VAlignCenter
				case "bottom":
					cell.VAlign = VAlignBottom
				}
			}
		}
	}
	cell.Blocks = p.parseBlocks(cellEl)
	return cell
}

