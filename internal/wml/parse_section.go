package wml

import (
	"github.com/beevik/etree"

	"github.com/vortex/docpipe/internal/oxml"
	"github.com/vortex/docpipe/internal/units"
)

// collectSections walks the body for every w:sectPr — one embedded in a
// paragraph's w:pPr marks the end of a section (the section applies to
// everything since the previous one), and the body's own trailing w:sectPr
// covers the final section (§4.2 sections).
func (p *parser) collectSections(bodyEl *etree.Element) []*Section {
	var out []*Section
	for _, c := range bodyEl.ChildElements() {
		if oxml.Is(c, "w", "p") {
			if pPr := oxml.Child(c, "w", "pPr"); pPr != nil {
				if sectPr := oxml.Child(pPr, "w", "sectPr"); sectPr != nil {
					out = append(out, p.parseSectPr(sectPr))
				}
			}
		}
		if oxml.Is(c, "w", "sectPr") {
			out = append(out, p.parseSectPr(c))
		}
	}
	if len(out) == 0 {
		// No explicit sectPr anywhere: synthesize a default US Letter
		// portrait section so the layout stage always has at least one.
		out = append(out, defaultSection())
	}
	return out
}

func defaultSection() *Section {
	return &Section{
		PageWidthPt:    units.Twips(12240),
		PageHeightPt:   units.Twips(15840),
		MarginTopPt:    units.Twips(1440),
		MarginBottomPt: units.Twips(1440),
		MarginLeftPt:   units.Twips(1440),
		MarginRightPt:  units.Twips(1440),
		MarginHeaderPt: units.Twips(720),
		MarginFooterPt: units.Twips(720),
		Columns:        1,
		HeaderRIDs:     map[HFType]string{},
		FooterRIDs:     map[HFType]string{},
	}
}

func (p *parser) parseSectPr(sectPr *etree.Element) *Section {
	s := defaultSection()
	if pgSz := oxml.Child(sectPr, "w", "pgSz"); pgSz != nil {
		if v, ok := oxml.AttrInt(pgSz, "w", "w"); ok {
			s.PageWidthPt = units.Twips(v)
		}
		if v, ok := oxml.AttrInt(pgSz, "w", "h"); ok {
			s.PageHeightPt = units.Twips(v)
		}
		if v, ok := oxml.Attr(pgSz, "w", "orient"); ok && v == "landscape" {
			s.Landscape = true
		}
	}
	if pgMar := oxml.Child(sectPr, "w", "pgMar"); pgMar != nil {
		if v, ok := oxml.AttrInt(pgMar, "w", "top"); ok {
			s.MarginTopPt = units.Twips(v)
		}
		if v, ok := oxml.AttrInt(pgMar, "w", "bottom"); ok {
			s.MarginBottomPt = units.Twips(v)
		}
		if v, ok := oxml.AttrInt(pgMar, "w", "left"); ok {
			s.MarginLeftPt = units.Twips(v)
		}
		if v, ok := oxml.AttrInt(pgMar, "w", "right"); ok {
			s.MarginRightPt = units.Twips(v)
		}
		if v, ok := oxml.AttrInt(pgMar, "w", "header"); ok {
			s.MarginHeaderPt = units.Twips(v)
		}
		if v, ok := oxml.AttrInt(pgMar, "w", "footer"); ok {
			s.MarginFooterPt = units.Twips(v)
		}
	}
	if cols := oxml.Child(sectPr, "w", "cols"); cols != nil {
		if v, ok := oxml.AttrInt(cols, "w", "num"); ok && v > 0 {
			s.Columns = v
		}
	}
	if t := oxml.Child(sectPr, "w", "type"); t != nil {
		if v, ok := oxml.Attr(t, "w", "val"); ok {
			switch v {
			case "continuous":
				s.StartType = SectionContinuous
			case "evenPage":
				s.StartType = SectionEvenPage
			case "oddPage":
				s.StartType = SectionOddPage
			default:
				s.StartType = SectionNextPage
			}
		}
	}
	if tp := oxml.Child(sectPr, "w", "titlePg"); tp != nil {
		s.TitlePage = boolAttrDefaultTrue(tp)
	}

	for _, ref := range oxml.Children(sectPr, "w", "headerReference") {
		hfType, rid := parseHFRef(ref)
		if rid != "" {
			s.HeaderRIDs[hfType] = rid
		}
	}
	for _, ref := range oxml.Children(sectPr, "w", "footerReference") {
		hfType, rid := parseHFRef(ref)
		if rid != "" {
			s.FooterRIDs[hfType] = rid
		}
	}
	return s
}

func parseHFRef(ref *etree.Element) (HFType, string) {
	hfType := HFDefault
	if v, ok := oxml.Attr(ref, "w", "type"); ok {
		switch v {
		case "first":
			hfType = HFFirst
		case "even":
			hfType = HFEven
		}
	}
	rid, _ := oxml.Attr(ref, "r", "id")
	return hfType, rid
}
