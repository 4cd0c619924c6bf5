package wml

import (
	"github.com/beevik/etree"

	"github.com/vortex/docpipe/internal/oxml"
)

// parseRun reads one w:r into a *Run, cascading base (doc defaults +
// paragraph style + paragraph-mark rPr, already resolved by the caller)
// underneath the run's own w:rStyle and direct w:rPr formatting. Field
// markers (w:fldChar, w:instrText) are emitted as transient RunItems for
// collapseFields to fold afterward.
func (p *parser) parseRun(rEl *etree.Element, base RunProperties) *Run {
	props := base
	if rPr := oxml.Child(rEl, "w", "rPr"); rPr != nil {
		if rStyle := oxml.Child(rPr, "w", "rStyle"); rStyle != nil {
			if v, ok := oxml.Attr(rStyle, "w", "val"); ok {
				if _, rp, ok := p.styles.Resolved(v); ok {
					props = overlayRunProperties(props, rp)
				}
			}
		}
		parseRunProperties(rPr, &props)
	}
	r := &Run{Props: props}
	for _, c := range rEl.ChildElements() {
		switch {
		case oxml.Is(c, "w", "t"):
			r.Items = append(r.Items, TextItem{Text: c.Text()})
		case oxml.Is(c, "w", "delText"):
			r.Items = append(r.Items, TextItem{Text: c.Text()})
		case oxml.Is(c, "w", "br"):
			bt := BreakTypeLine
			if v, ok := oxml.Attr(c, "w", "type"); ok {
				switch v {
				case "page":
					bt = BreakTypePage
				case "column":
					bt = BreakTypeColumn
				}
			}
			r.Items = append(r.Items, BreakItem{Type: bt})
		case oxml.Is(c, "w", "tab"):
			r.Items = append(r.Items, TabItem{})
		case oxml.Is(c, "w", "noBreakHyphen"):
			r.Items = append(r.Items, NoBreakHyphenItem{})
		case oxml.Is(c, "w", "softHyphen"):
			r.Items = append(r.Items, SoftHyphenItem{})
		case oxml.Is(c, "w", "drawing"):
			if d := p.parseDrawing(c); d != nil {
				r.Items = append(r.Items, DrawingItem{Drawing: d})
			}
		case oxml.Is(c, "w", "footnoteReference"):
			if v, ok := oxml.AttrInt(c, "w", "id"); ok {
				r.Items = append(r.Items, FootnoteRefItem{ID: v})
			}
		case oxml.Is(c, "w", "endnoteReference"):
			if v, ok := oxml.AttrInt(c, "w", "id"); ok {
				r.Items = append(r.Items, EndnoteRefItem{ID: v})
			}
		case oxml.Is(c, "w", "fldChar"):
			v, _ := oxml.Attr(c, "w", "fldCharType")
			switch v {
			case "begin":
				r.Items = append(r.Items, fldCharBeginMarker{})
			case "separate":
				r.Items = append(r.Items, fldCharSeparateMarker{})
			case "end":
				r.Items = append(r.Items, fldCharEndMarker{})
			}
		case oxml.Is(c, "w", "instrText"):
			r.Items = append(r.Items, instrTextMarker{text: c.Text()})
		case oxml.Is(c, "w", "delInstrText"):
			r.Items = append(r.Items, instrTextMarker{text: c.Text()})
		}
	}
	return r
}

// parseFldSimple reads a w:fldSimple: a self-contained field whose
// instruction is an attribute on the element itself and whose cached
// result is the nested run content, rather than the begin/separate/end
// state machine collapseFields resolves for complex fields.
func (p *parser) parseFldSimple(el *etree.Element, base RunProperties) *Run {
	instr, _ := oxml.Attr(el, "w", "instr")
	var result string
	for _, rEl := range oxml.Children(el, "w", "r") {
		result += p.parseRun(rEl, base).Text()
	}
	props := base
	if first := oxml.Child(el, "w", "r"); first != nil {
		if rPr := oxml.Child(first, "w", "rPr"); rPr != nil {
			parseRunProperties(rPr, &props)
		}
	}
	return &Run{Props: props, Items: []RunItem{FieldItem{
		Kind:       classifyFieldKind(instr),
		Instr:      instr,
		ResultText: result,
	}}}
}
