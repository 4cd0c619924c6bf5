package wml

import (
	"github.com/beevik/etree"

	"github.com/vortex/docpipe/internal/docerr"
	"github.com/vortex/docpipe/internal/oxml"
	"github.com/vortex/docpipe/internal/units"
)

// parseNumbering parses numbering.xml into a NumberingTable. Grounded on
// the teacher's numbering_custom.go (go-docx/pkg/docx/oxml/numbering_custom.go),
// which walks the same w:abstractNum/w:num/w:lvl shape to build a writer's
// numbering part; here the same element walk feeds a read-only lookup
// table instead.
func parseNumbering(blob []byte, diags *docerr.Diagnostics) *NumberingTable {
	nt := &NumberingTable{
		Abstracts: make(map[int]*AbstractNum),
		Concrete:  make(map[int]*ConcreteNum),
	}
	if len(blob) == 0 {
		return nt
	}
	doc, err := oxml.ParseDocument(blob)
	if err != nil {
		diags.Warn(docerr.StageNumber, "", "numbering.xml: %v", err)
		return nt
	}
	root := doc.Root()
	if root == nil {
		return nt
	}
	for _, abEl := range oxml.Children(root, "w", "abstractNum") {
		id, ok := oxml.AttrInt(abEl, "w", "abstractNumId")
		if !ok {
			continue
		}
		an := &AbstractNum{ID: id, Levels: make(map[int]*NumLevel)}
		for _, lvlEl := range oxml.Children(abEl, "w", "lvl") {
			lvl := parseNumLevel(lvlEl)
			an.Levels[lvl.ILvl] = lvl
		}
		nt.Abstracts[id] = an
	}
	for _, numEl := range oxml.Children(root, "w", "num") {
		id, ok := oxml.AttrInt(numEl, "w", "numId")
		if !ok {
			continue
		}
		cn := &ConcreteNum{NumID: id, Overrides: make(map[int]*LevelOverride)}
		if abRef := oxml.Child(numEl, "w", "abstractNumId"); abRef != nil {
			if v, ok := oxml.AttrInt(abRef, "w", "val"); ok {
				cn.AbstractNumID = v
			}
		}
		for _, lvlOv := range oxml.Children(numEl, "w", "lvlOverride") {
			ilvl, ok := oxml.AttrInt(lvlOv, "w", "ilvl")
			if !ok {
				continue
			}
			ov := &LevelOverride{}
			if startOv := oxml.Child(lvlOv, "w", "startOverride"); startOv != nil {
				if v, ok := oxml.AttrInt(startOv, "w", "val"); ok {
					ov.StartOverride = &v
				}
			}
			if lvlEl := oxml.Child(lvlOv, "w", "lvl"); lvlEl != nil {
				ov.Level = parseNumLevel(lvlEl)
			}
			cn.Overrides[ilvl] = ov
		}
		nt.Concrete[id] = cn
	}
	return nt
}

func parseNumLevel(lvlEl *etree.Element) *NumLevel {
	lvl := &NumLevel{Format: NumDecimal, StartAt: 1}
	if v, ok := oxml.AttrInt(lvlEl, "w", "ilvl"); ok {
		lvl.ILvl = v
	}
	if startEl := oxml.Child(lvlEl, "w", "start"); startEl != nil {
		if v, ok := oxml.AttrInt(startEl, "w", "val"); ok {
			lvl.StartAt = v
		}
	}
	if fmtEl := oxml.Child(lvlEl, "w", "numFmt"); fmtEl != nil {
		if v, ok := oxml.Attr(fmtEl, "w", "val"); ok {
			lvl.Format = NumFormat(v)
		}
	}
	if txtEl := oxml.Child(lvlEl, "w", "lvlText"); txtEl != nil {
		if v, ok := oxml.Attr(txtEl, "w", "val"); ok {
			lvl.LvlText = v
		}
	}
	if restartEl := oxml.Child(lvlEl, "w", "lvlRestart"); restartEl != nil {
		if v, ok := oxml.AttrInt(restartEl, "w", "val"); ok {
			lvl.Restart = &v
		}
	}
	if pPr := oxml.Child(lvlEl, "w", "pPr"); pPr != nil {
		if ind := oxml.Child(pPr, "w", "ind"); ind != nil {
			if v, ok := oxml.AttrInt(ind, "w", "left"); ok {
				lvl.IndentPt = units.Twips(v)
			}
			if v, ok := oxml.AttrInt(ind, "w", "hanging"); ok {
				lvl.HangingPt = units.Twips(v)
			}
		}
	}
	if rPr := oxml.Child(lvlEl, "w", "rPr"); rPr != nil {
		if rFonts := oxml.Child(rPr, "w", "rFonts"); rFonts != nil {
			if v, ok := oxml.Attr(rFonts, "w", "ascii"); ok {
				lvl.MarkerFont = v
			}
		}
	}
	return lvl
}
