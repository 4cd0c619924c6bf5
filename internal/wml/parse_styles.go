package wml

import (
	"github.com/beevik/etree"

	"github.com/vortex/docpipe/internal/color"
	"github.com/vortex/docpipe/internal/docerr"
	"github.com/vortex/docpipe/internal/oxml"
)

// parseStyles parses a styles.xml part into a StyleTable. Grounded on the
// teacher's style lookups in go-docx/pkg/docx/styles.go, generalized from
// "find one named style on demand" to "parse the whole catalog up front and
// resolve basedOn chains once", since the layout stage needs every
// paragraph and run's fully cascaded properties, not just named lookups.
func parseStyles(blob []byte, diags *docerr.Diagnostics) *StyleTable {
	st := &StyleTable{ByID: make(map[string]*Style)}
	if len(blob) == 0 {
		return st
	}
	doc, err := oxml.ParseDocument(blob)
	if err != nil {
		diags.Warn(docerr.StageStyle, "", "styles.xml: %v", err)
		return st
	}
	root := doc.Root()
	if root == nil {
		return st
	}
	if defRPr := oxml.Child(root, "w", "docDefaults"); defRPr != nil {
		if rpd := oxml.Child(defRPr, "w", "rPrDefault"); rpd != nil {
			parseRunProperties(oxml.Child(rpd, "w", "rPr"), &st.DocDefaultsRun)
		}
		if ppd := oxml.Child(defRPr, "w", "pPrDefault"); ppd != nil {
			parseParagraphProperties(oxml.Child(ppd, "w", "pPr"), &st.DocDefaultsPara)
		}
	}
	for _, styleEl := range oxml.Children(root, "w", "style") {
		s := parseOneStyle(styleEl)
		if s.ID == "" {
			continue
		}
		st.ByID[s.ID] = s
		if s.Default {
			switch s.Type {
			case StyleParagraph:
				st.DefaultParagraphID = s.ID
			case StyleCharacter:
				st.DefaultCharacterID = s.ID
			}
		}
	}
	for _, s := range st.ByID {
		st.resolve(s, make(map[string]bool))
	}
	return st
}

func parseOneStyle(el *etree.Element) *Style {
	s := &Style{}
	if v, ok := oxml.Attr(el, "w", "styleId"); ok {
		s.ID = v
	}
	if v, ok := oxml.Attr(el, "w", "type"); ok {
		switch v {
		case "character":
			s.Type = StyleCharacter
		case "table":
			s.Type = StyleTypeTable
		case "numbering":
			s.Type = StyleTypeNumbering
		default:
			s.Type = StyleParagraph
		}
	}
	if v, ok := oxml.AttrBool(el, "w", "default"); ok {
		s.Default = v
	}
	if nameEl := oxml.Child(el, "w", "name"); nameEl != nil {
		if v, ok := oxml.Attr(nameEl, "w", "val"); ok {
			s.Name = UI2Internal(v)
		}
	}
	if basedOn := oxml.Child(el, "w", "basedOn"); basedOn != nil {
		if v, ok := oxml.Attr(basedOn, "w", "val"); ok {
			s.BasedOn = v
		}
	}
	if next := oxml.Child(el, "w", "next"); next != nil {
		if v, ok := oxml.Attr(next, "w", "val"); ok {
			s.Next = v
		}
	}
	if pPr := oxml.Child(el, "w", "pPr"); pPr != nil {
		pp := &ParagraphProperties{}
		parseParagraphProperties(pPr, pp)
		s.ParaProps = pp
	}
	if rPr := oxml.Child(el, "w", "rPr"); rPr != nil {
		rp := &RunProperties{}
		parseRunProperties(rPr, rp)
		s.RunProps = rp
	}
	return s
}

// resolve walks a style's basedOn chain depth-first, memoizing the result
// on the Style itself. visiting detects basedOn cycles (malformed input):
// on a cycle the chain is cut at the repeated style, matching the spec's
// policy of degrading rather than failing the whole parse (§4.2 style
// resolution edge cases).
func (st *StyleTable) resolve(s *Style, visiting map[string]bool) (ParagraphProperties, RunProperties) {
	if s.resolved {
		return s.resolvedPara, s.resolvedRun
	}
	if visiting[s.ID] {
		s.resolved = true
		s.inheritanceCut = true
		return s.resolvedPara, s.resolvedRun
	}
	visiting[s.ID] = true

	var basePara ParagraphProperties
	var baseRun RunProperties
	if s.Type == StyleParagraph {
		basePara = st.DocDefaultsPara
	}
	baseRun = st.DocDefaultsRun

	if s.BasedOn != "" {
		if parent, ok := st.ByID[s.BasedOn]; ok {
			p, r := st.resolve(parent, visiting)
			if s.Type == StyleParagraph {
				basePara = p
			}
			baseRun = r
		}
	}
	if s.ParaProps != nil {
		basePara = overlayParagraphProperties(basePara, *s.ParaProps)
	}
	if s.RunProps != nil {
		baseRun = overlayRunProperties(baseRun, *s.RunProps)
	}
	s.resolvedPara = basePara
	s.resolvedRun = baseRun
	s.resolved = true
	delete(visiting, s.ID)
	return basePara, baseRun
}

// Resolved returns a style's fully cascaded paragraph/run properties,
// resolving lazily if parseStyles's initial pass somehow missed it (e.g. a
// style discovered only via a forward basedOn reference).
func (st *StyleTable) Resolved(id string) (ParagraphProperties, RunProperties, bool) {
	s, ok := st.ByID[id]
	if !ok {
		return ParagraphProperties{}, RunProperties{}, false
	}
	if !s.resolved {
		st.resolve(s, make(map[string]bool))
	}
	return s.resolvedPara, s.resolvedRun, true
}

func overlayParagraphProperties(base, over ParagraphProperties) ParagraphProperties {
	if over.StyleID != "" {
		base.StyleID = over.StyleID
	}
	if over.Alignment != nil {
		base.Alignment = over.Alignment
	}
	if over.IndentLeftPt != nil {
		base.IndentLeftPt = over.IndentLeftPt
	}
	if over.IndentRightPt != nil {
		base.IndentRightPt = over.IndentRightPt
	}
	if over.IndentFirstPt != nil {
		base.IndentFirstPt = over.IndentFirstPt
	}
	if over.SpacingBeforePt != nil {
		base.SpacingBeforePt = over.SpacingBeforePt
	}
	if over.SpacingAfterPt != nil {
		base.SpacingAfterPt = over.SpacingAfterPt
	}
	if over.LinePt != nil {
		base.LinePt = over.LinePt
		base.LineRule = over.LineRule
	}
	if over.ContextualSpacing {
		base.ContextualSpacing = true
	}
	if len(over.Tabs) > 0 {
		base.Tabs = over.Tabs
	}
	if over.Borders != nil {
		base.Borders = over.Borders
	}
	if over.Shading != nil {
		base.Shading = over.Shading
	}
	if over.KeepNext {
		base.KeepNext = true
	}
	if over.KeepLines {
		base.KeepLines = true
	}
	if over.PageBreakBefore {
		base.PageBreakBefore = true
	}
	if over.WidowControl {
		base.WidowControl = true
	}
	if over.OutlineLevel != nil {
		base.OutlineLevel = over.OutlineLevel
	}
	return base
}

func overlayRunProperties(base, over RunProperties) RunProperties {
	if over.StyleID != "" {
		base.StyleID = over.StyleID
	}
	if over.FontFamily != "" {
		base.FontFamily = over.FontFamily
	}
	if over.SizePt != 0 {
		base.SizePt = over.SizePt
	}
	if over.Bold {
		base.Bold = true
	}
	if over.Italic {
		base.Italic = true
	}
	if over.Underline != UnderlineNone {
		base.Underline = over.Underline
	}
	if over.Strike {
		base.Strike = true
	}
	if over.DoubleStrike {
		base.DoubleStrike = true
	}
	if over.VertAlign != VertAlignBaseline {
		base.VertAlign = over.VertAlign
	}
	if over.Color != (color.RGB{}) {
		base.Color = over.Color
	}
	if over.Highlight != "" {
		base.Highlight = over.Highlight
	}
	if over.Lang != "" {
		base.Lang = over.Lang
	}
	return base
}
