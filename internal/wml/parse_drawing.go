package wml

import (
	"github.com/beevik/etree"

	"github.com/vortex/docpipe/internal/oxml"
	"github.com/vortex/docpipe/internal/units"
)

// parseDrawing reads a w:drawing element's wp:inline or wp:anchor child
// into a Drawing. Image sizing is read straight from wp:extent (EMU); the
// embedded picture's relationship id comes from a:blip/@r:embed several
// levels down the DrawingML graphic frame, mirrored from the teacher's
// image-insertion path in go-docx/pkg/docx/drawing.go run in reverse (there
// it builds this same element tree to embed a picture; here it's read back
// out).
func (p *parser) parseDrawing(drawingEl *etree.Element) *Drawing {
	if inline := oxml.Child(drawingEl, "wp", "inline"); inline != nil {
		d := &Drawing{Kind: DrawingInline}
		p.parseDrawingBody(inline, d)
		return d
	}
	if anchor := oxml.Child(drawingEl, "wp", "anchor"); anchor != nil {
		d := &Drawing{Kind: DrawingAnchored}
		p.parseDrawingBody(anchor, d)
		if posH := oxml.Child(anchor, "wp", "positionH"); posH != nil {
			if off := oxml.Child(posH, "wp", "posOffset"); off != nil {
				d.PositionHPt = units.EMU(int64(atoiOr(off.Text(), 0)))
			}
		}
		if posV := oxml.Child(anchor, "wp", "positionV"); posV != nil {
			if off := oxml.Child(posV, "wp", "posOffset"); off != nil {
				d.PositionVPt = units.EMU(int64(atoiOr(off.Text(), 0)))
			}
		}
		if oxml.Child(anchor, "wp", "wrapNone") != nil {
			d.WrapNone = true
		}
		return d
	}
	return nil
}

func (p *parser) parseDrawingBody(container *etree.Element, d *Drawing) {
	if extent := oxml.Child(container, "wp", "extent"); extent != nil {
		if v, ok := oxml.AttrInt(extent, "", "cx"); ok {
			d.WidthPt = units.EMU(int64(v))
		}
		if v, ok := oxml.AttrInt(extent, "", "cy"); ok {
			d.HeightPt = units.EMU(int64(v))
		}
	}
	if rid := findBlipEmbed(container); rid != "" {
		d.ImageRID = p.resolveAndRegisterImage(rid)
	}
	if txbx := findTextBox(container); txbx != nil {
		d.TextBox = &TextBox{Blocks: p.parseBlocks(txbx)}
	}
}

// resolveAndRegisterImage resolves a blip's r:embed id (scoped to
// whichever part is currently being parsed) to its target part, registers
// the media item in the document-wide map keyed by partname (stable
// across every referencing part, unlike a bare relationship id), and
// returns that key for the Drawing to carry. A dangling or external
// reference degrades to an empty key rather than failing the parse.
func (p *parser) resolveAndRegisterImage(rid string) string {
	rel, err := p.pkg.ResolveRelationship(p.curPart, rid)
	if err != nil || rel.IsExternal() || rel.TargetPartname == "" {
		return ""
	}
	key := string(rel.TargetPartname)
	if _, ok := p.media[key]; ok {
		return key
	}
	part, ok := p.pkg.Part(rel.TargetPartname)
	if !ok {
		return ""
	}
	p.media[key] = &MediaItem{PartName: key, ContentType: part.ContentType, Data: part.Blob}
	return key
}

// findBlipEmbed descends graphic/graphicData/pic:pic/pic:blipFill/a:blip
// looking for the r:embed relationship id, walking the whole subtree since
// chart and SmartArt drawings nest the picture differently or omit it.
func findBlipEmbed(el *etree.Element) string {
	for _, c := range el.ChildElements() {
		if oxml.Is(c, "a", "blip") {
			if v, ok := oxml.Attr(c, "r", "embed"); ok {
				return v
			}
		}
		if v := findBlipEmbed(c); v != "" {
			return v
		}
	}
	return ""
}

// findTextBox locates a VML or DrawingML text box's w:txbxContent, several
// namespaces and a mc:AlternateContent choice deep.
func findTextBox(el *etree.Element) *etree.Element {
	for _, c := range el.ChildElements() {
		if oxml.Is(c, "wps", "txbx") || oxml.Is(c, "v", "textbox") {
			if txbxContent := oxml.Child(c, "w", "txbxContent"); txbxContent != nil {
				return txbxContent
			}
		}
		if tb := findTextBox(c); tb != nil {
			return tb
		}
	}
	return nil
}
