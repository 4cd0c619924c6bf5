package wml

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/vortex/docpipe/internal/color"
	"github.com/vortex/docpipe/internal/oxml"
	"github.com/vortex/docpipe/internal/units"
)

// parseRunProperties reads a w:rPr element into a sparse RunProperties
// overlay: zero-valued fields mean "not specified here", so callers cascade
// doc-defaults -> style -> direct by overlaying in that order (mirrors the
// teacher's run-formatting reads in go-docx/pkg/docx/paragraph.go, which
// walk the same w:rPr children).
func parseRunProperties(rPr *etree.Element, into *RunProperties) {
	if rPr == nil {
		return
	}
	if rStyle := oxml.Child(rPr, "w", "rStyle"); rStyle != nil {
		if v, ok := oxml.Attr(rStyle, "w", "val"); ok {
			into.StyleID = v
		}
	}
	if rFonts := oxml.Child(rPr, "w", "rFonts"); rFonts != nil {
		for _, attr := range []string{"ascii", "hAnsi", "cs", "eastAsia"} {
			if v, ok := oxml.Attr(rFonts, "w", attr); ok && v != "" {
				into.FontFamily = v
				break
			}
		}
	}
	if sz := oxml.Child(rPr, "w", "sz"); sz != nil {
		if v, ok := oxml.AttrInt(sz, "w", "val"); ok {
			into.SizePt = units.HalfPoints(v)
		}
	}
	if b := oxml.Child(rPr, "w", "b"); b != nil {
		into.Bold = boolAttrDefaultTrue(b)
	}
	if i := oxml.Child(rPr, "w", "i"); i != nil {
		into.Italic = boolAttrDefaultTrue(i)
	}
	if u := oxml.Child(rPr, "w", "u"); u != nil {
		into.Underline = parseUnderline(u)
	}
	if strike := oxml.Child(rPr, "w", "strike"); strike != nil {
		into.Strike = boolAttrDefaultTrue(strike)
	}
	if dstrike := oxml.Child(rPr, "w", "dstrike"); dstrike != nil {
		into.DoubleStrike = boolAttrDefaultTrue(dstrike)
	}
	if va := oxml.Child(rPr, "w", "vertAlign"); va != nil {
		if v, ok := oxml.Attr(va, "w", "val"); ok {
			switch v {
			case "superscript":
				into.VertAlign = VertAlignSuperscript
			case "subscript":
				into.VertAlign = VertAlignSubscript
			default:
				into.VertAlign = VertAlignBaseline
			}
		}
	}
	if clr := oxml.Child(rPr, "w", "color"); clr != nil {
		if v, ok := oxml.Attr(clr, "w", "val"); ok {
			if rgb, err := color.ParseHex(v); err == nil {
				into.Color = rgb
			}
		}
	}
	if hl := oxml.Child(rPr, "w", "highlight"); hl != nil {
		if v, ok := oxml.Attr(hl, "w", "val"); ok {
			into.Highlight = color.Highlight(v)
		}
	}
	if lang := oxml.Child(rPr, "w", "lang"); lang != nil {
		if v, ok := oxml.Attr(lang, "w", "val"); ok {
			into.Lang = v
		}
	}
}

func boolAttrDefaultTrue(el *etree.Element) bool {
	v, ok := oxml.AttrBool(el, "w", "val")
	if !ok {
		return true
	}
	return v
}

func parseUnderline(u *etree.Element) UnderlineStyle {
	v, _ := oxml.Attr(u, "w", "val")
	switch v {
	case "", "none":
		return UnderlineNone
	case "double":
		return UnderlineDouble
	case "wave", "wavyDouble", "wavyHeavy":
		return UnderlineWavy
	default:
		return UnderlineSingle
	}
}

// parseParagraphProperties reads a w:pPr element into a sparse
// ParagraphProperties overlay, plus the paragraph's numbering reference if
// present (w:pPr/w:numPr survives direct formatting resolution unchanged,
// since numbering is resolved against the concrete NumId, not cascaded).
func parseParagraphProperties(pPr *etree.Element, into *ParagraphProperties) (numRef *NumPr) {
	if pPr == nil {
		return nil
	}
	if pStyle := oxml.Child(pPr, "w", "pStyle"); pStyle != nil {
		if v, ok := oxml.Attr(pStyle, "w", "val"); ok {
			into.StyleID = v
		}
	}
	if jc := oxml.Child(pPr, "w", "jc"); jc != nil {
		if v, ok := oxml.Attr(jc, "w", "val"); ok {
			a := parseAlignment(v)
			into.Alignment = &a
		}
	}
	if ind := oxml.Child(pPr, "w", "ind"); ind != nil {
		if v, ok := oxml.AttrInt(ind, "w", "left"); ok {
			p := units.Twips(v)
			into.IndentLeftPt = &p
		} else if v, ok := oxml.AttrInt(ind, "w", "start"); ok {
			p := units.Twips(v)
			into.IndentLeftPt = &p
		}
		if v, ok := oxml.AttrInt(ind, "w", "right"); ok {
			p := units.Twips(v)
			into.IndentRightPt = &p
		} else if v, ok := oxml.AttrInt(ind, "w", "end"); ok {
			p := units.Twips(v)
			into.IndentRightPt = &p
		}
		if v, ok := oxml.AttrInt(ind, "w", "firstLine"); ok {
			p := units.Twips(v)
			into.IndentFirstPt = &p
		} else if v, ok := oxml.AttrInt(ind, "w", "hanging"); ok {
			p := -units.Twips(v)
			into.IndentFirstPt = &p
		}
	}
	if sp := oxml.Child(pPr, "w", "spacing"); sp != nil {
		if v, ok := oxml.AttrInt(sp, "w", "before"); ok {
			p := units.Twips(v)
			into.SpacingBeforePt = &p
		}
		if v, ok := oxml.AttrInt(sp, "w", "after"); ok {
			p := units.Twips(v)
			into.SpacingAfterPt = &p
		}
		if v, ok := oxml.AttrInt(sp, "w", "line"); ok {
			rule := LineRuleAuto
			if rv, ok := oxml.Attr(sp, "w", "lineRule"); ok {
				switch rv {
				case "exact":
					rule = LineRuleExact
				case "atLeast":
					rule = LineRuleAtLeast
				}
			}
			into.LineRule = rule
			var p float64
			if rule == LineRuleAuto {
				p = float64(v) / 240.0 // 240ths-of-a-line when auto
			} else {
				p = units.Twips(v)
			}
			into.LinePt = &p
		}
		if v, ok := oxml.AttrBool(sp, "w", "contextualSpacing"); ok {
			into.ContextualSpacing = v
		}
	}
	if tabs := oxml.Child(pPr, "w", "tabs"); tabs != nil {
		into.Tabs = parseTabs(tabs)
	}
	if pbdr := oxml.Child(pPr, "w", "pBdr"); pbdr != nil {
		into.Borders = parseBorders(pbdr)
	}
	if shd := oxml.Child(pPr, "w", "shd"); shd != nil {
		into.Shading = parseShading(shd)
	}
	if _, ok := oxml.Attr(pPr, "w", "keepNext"); ok || oxml.Child(pPr, "w", "keepNext") != nil {
		into.KeepNext = boolAttrDefaultTrue(oxml.Child(pPr, "w", "keepNext"))
	}
	if oxml.Child(pPr, "w", "keepLines") != nil {
		into.KeepLines = boolAttrDefaultTrue(oxml.Child(pPr, "w", "keepLines"))
	}
	if oxml.Child(pPr, "w", "pageBreakBefore") != nil {
		into.PageBreakBefore = boolAttrDefaultTrue(oxml.Child(pPr, "w", "pageBreakBefore"))
	}
	if wc := oxml.Child(pPr, "w", "widowControl"); wc != nil {
		into.WidowControl = boolAttrDefaultTrue(wc)
	}
	if outline := oxml.Child(pPr, "w", "outlineLvl"); outline != nil {
		if v, ok := oxml.AttrInt(outline, "w", "val"); ok {
			into.OutlineLevel = &v
		}
	}
	if numPr := oxml.Child(pPr, "w", "numPr"); numPr != nil {
		ref := &NumPr{}
		if ilvl := oxml.Child(numPr, "w", "ilvl"); ilvl != nil {
			if v, ok := oxml.AttrInt(ilvl, "w", "val"); ok {
				ref.ILvl = v
			}
		}
		if numID := oxml.Child(numPr, "w", "numId"); numID != nil {
			if v, ok := oxml.AttrInt(numID, "w", "val"); ok {
				ref.NumID = v
			}
		}
		numRef = ref
	}
	return numRef
}

func parseAlignment(v string) Alignment {
	switch v {
	case "center":
		return AlignCenter
	case "end", "right":
		return AlignEnd
	case "both":
		return AlignBoth
	case "distribute":
		return AlignDistribute
	default:
		return AlignStart
	}
}

func parseTabs(tabsEl *etree.Element) []TabStop {
	var out []TabStop
	for _, t := range oxml.Children(tabsEl, "w", "tab") {
		var ts TabStop
		if v, ok := oxml.AttrInt(t, "w", "pos"); ok {
			ts.PositionPt = units.Twips(v)
		}
		if v, ok := oxml.Attr(t, "w", "val"); ok {
			switch v {
			case "center":
				ts.Alignment = TabCenter
			case "end", "right":
				ts.Alignment = TabEnd
			case "decimal":
				ts.Alignment = TabDecimal
			case "bar":
				ts.Alignment = TabBar
			default:
				ts.Alignment = TabStart
			}
		}
		if v, ok := oxml.Attr(t, "w", "leader"); ok {
			switch v {
			case "dot":
				ts.Leader = LeaderDot
			case "hyphen":
				ts.Leader = LeaderHyphen
			case "underscore":
				ts.Leader = LeaderUnderscore
			}
		}
		out = append(out, ts)
	}
	return out
}

func parseBorders(el *etree.Element) *Borders {
	b := &Borders{}
	b.Top = parseOneBorder(oxml.Child(el, "w", "top"))
	b.Bottom = parseOneBorder(oxml.Child(el, "w", "bottom"))
	b.Left = parseOneBorder(oxml.Child(el, "w", "left"))
	b.Right = parseOneBorder(oxml.Child(el, "w", "right"))
	b.InsideH = parseOneBorder(oxml.Child(el, "w", "insideH"))
	b.InsideV = parseOneBorder(oxml.Child(el, "w", "insideV"))
	if b.Top == nil && b.Bottom == nil && b.Left == nil && b.Right == nil && b.InsideH == nil && b.InsideV == nil {
		return nil
	}
	return b
}

func parseOneBorder(el *etree.Element) *BorderSpec {
	if el == nil {
		return nil
	}
	style, _ := oxml.Attr(el, "w", "val")
	if style == "" || style == "nil" {
		style = "none"
	}
	bs := &BorderSpec{Style: style}
	if v, ok := oxml.AttrInt(el, "w", "sz"); ok {
		bs.SizeWPt = float64(v) / 8.0 // eighths of a point
	}
	if v, ok := oxml.Attr(el, "w", "color"); ok {
		if rgb, err := color.ParseHex(v); err == nil {
			bs.Color = rgb
		}
	}
	if v, ok := oxml.AttrInt(el, "w", "space"); ok {
		bs.SpacePt = float64(v) // already points per OOXML for pBdr/space
	}
	return bs
}

func parseShading(el *etree.Element) *Shading {
	if el == nil {
		return nil
	}
	sh := &Shading{}
	if v, ok := oxml.Attr(el, "w", "fill"); ok {
		if rgb, err := color.ParseHex(v); err == nil {
			sh.Fill = rgb
		}
	}
	if v, ok := oxml.Attr(el, "w", "val"); ok {
		sh.Pattern = v
	}
	return sh
}

// parseHeightRule maps w:trHeight/@w:hRule.
func parseHeightRule(v string) HeightRule {
	switch v {
	case "exact":
		return HeightExact
	case "atLeast":
		return HeightAtLeast
	default:
		return HeightAuto
	}
}

// atoiOr parses an integer or returns fallback.
func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}
