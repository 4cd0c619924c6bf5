package wml

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/vortex/docpipe/internal/docerr"
	"github.com/vortex/docpipe/internal/opc"
	"github.com/vortex/docpipe/internal/oxml"
)

// Parse reads an opened OPC package into a DocumentModel, following the
// relationship graph from word/document.xml the way the teacher's
// Document.Open (go-docx/pkg/docx/document.go) does, but building an
// immutable read tree instead of the teacher's mutable element-proxy
// object graph. Parse never returns a nil *docerr.Diagnostics even on
// fatal error, so callers can inspect whatever was collected before the
// failure.
func Parse(pkg *opc.Package) (*DocumentModel, *docerr.Diagnostics, error) {
	diags := &docerr.Diagnostics{}

	docPart, ok := pkg.RelatedPart(opc.RelTypeOfficeDocument)
	if !ok {
		docPart, ok = pkg.Part("/word/document.xml")
	}
	if !ok {
		return nil, diags, docerr.NewMissingPartError(nil, "wml: no main document part")
	}
	doc, err := oxml.ParseDocument(docPart.Blob)
	if err != nil {
		return nil, diags, docerr.NewMalformedXMLError(err, "wml: word/document.xml: %v", err)
	}
	root := doc.Root()
	if root == nil || !oxml.Is(root, "w", "document") {
		return nil, diags, docerr.NewMalformedXMLError(nil, "wml: word/document.xml has no w:document root")
	}

	p := &parser{pkg: pkg, docPartName: docPart.Name, curPart: docPart.Name, diags: diags, media: make(map[string]*MediaItem)}

	if stylesPart, ok := pkg.RelatedPartFrom(docPart.Name, opc.RelTypeStyles); ok {
		p.styles = parseStyles(stylesPart.Blob, diags)
	} else {
		p.styles = &StyleTable{ByID: make(map[string]*Style)}
	}
	if numPart, ok := pkg.RelatedPartFrom(docPart.Name, opc.RelTypeNumbering); ok {
		p.numbering = parseNumbering(numPart.Blob, diags)
	} else {
		p.numbering = &NumberingTable{Abstracts: map[int]*AbstractNum{}, Concrete: map[int]*ConcreteNum{}}
	}

	model := &DocumentModel{
		Styles:    p.styles,
		Numbering: p.numbering,
		Headers:   make(map[string]*HeaderFooter),
		Footers:   make(map[string]*HeaderFooter),
		Footnotes: make(map[int]*Note),
		Endnotes:  make(map[int]*Note),
		Comments:  make(map[int]*Comment),
	}

	bodyEl := oxml.Child(root, "w", "body")
	if bodyEl == nil {
		return nil, diags, docerr.NewMalformedXMLError(nil, "wml: w:document has no w:body")
	}
	model.Body = &Body{Blocks: p.parseBlocks(bodyEl)}
	model.Sections = p.collectSections(bodyEl)

	p.parseNotes(model, opc.RelTypeFootnotes, model.Footnotes)
	p.parseNotes(model, opc.RelTypeEndnotes, model.Endnotes)
	p.parseComments(model)
	p.parseHeaderFooterParts(model)
	p.parseCoreProps(model)
	model.Media = p.media

	return model, diags, nil
}

// parser carries shared lookup tables across the recursive descent so
// every sub-parser (paragraph, run, table) can resolve style and
// numbering references without threading them through every call signature
// individually. curPart tracks whichever part is currently being walked
// (the main document, a header/footer, a footnote/endnote part) since
// relationship ids are scoped to their source part's own .rels file.
type parser struct {
	pkg         *opc.Package
	docPartName opc.PackURI
	curPart     opc.PackURI
	styles      *StyleTable
	numbering   *NumberingTable
	diags       *docerr.Diagnostics
	nextID      int
	media       map[string]*MediaItem
}

func (p *parser) synthID(tag string) string {
	p.nextID++
	return fmt.Sprintf("%s#%d", tag, p.nextID)
}

// paragraphBaseRunProps resolves the run properties in effect before any
// per-run w:rStyle/direct rPr is applied: doc defaults overlaid with the
// paragraph's own style's run props (§4.2 style resolution — a paragraph
// style can carry character formatting that every run in it inherits).
func (p *parser) paragraphBaseRunProps(styleID string) RunProperties {
	base := p.styles.DocDefaultsRun
	if styleID == "" {
		styleID = p.styles.DefaultParagraphID
	}
	if styleID != "" {
		if _, rp, ok := p.styles.Resolved(styleID); ok {
			base = overlayRunProperties(base, rp)
		}
	}
	return base
}

func (p *parser) paragraphProps(pPr *etree.Element) (ParagraphProperties, *NumPr) {
	styleID := ""
	if pPr != nil {
		if pStyleEl := oxml.Child(pPr, "w", "pStyle"); pStyleEl != nil {
			styleID, _ = oxml.Attr(pStyleEl, "w", "val")
		}
	}
	if styleID == "" {
		styleID = p.styles.DefaultParagraphID
	}
	props := ParagraphProperties{}
	if styleID != "" {
		if pp, _, ok := p.styles.Resolved(styleID); ok {
			props = pp
		}
	}
	props.StyleID = styleID
	var numRef *NumPr
	if pPr != nil {
		numRef = parseParagraphProperties(pPr, &props)
	}
	return props, numRef
}
