package wml

import (
	"github.com/vortex/docpipe/internal/docerr"
	"github.com/vortex/docpipe/internal/oxml"
)

// parseHeaderFooterParts resolves every header/footer relationship id
// referenced by the document's sections and parses each target part once,
// keyed by relationship id (the same key Section.HeaderRIDs/FooterRIDs use,
// so the layout stage's lookup is a direct map access).
func (p *parser) parseHeaderFooterParts(model *DocumentModel) {
	for _, sec := range model.Sections {
		for hfType, rid := range sec.HeaderRIDs {
			p.parseOneHeaderFooter(rid, hfType, model.Headers)
		}
		for hfType, rid := range sec.FooterRIDs {
			p.parseOneHeaderFooter(rid, hfType, model.Footers)
		}
	}
}

func (p *parser) parseOneHeaderFooter(rid string, hfType HFType, dst map[string]*HeaderFooter) {
	if _, done := dst[rid]; done {
		return
	}
	rel, err := p.pkg.ResolveRelationship(p.docPartName, rid)
	if err != nil || rel.TargetPartname == "" {
		return
	}
	part, ok := p.pkg.Part(rel.TargetPartname)
	if !ok {
		return
	}
	doc, err := oxml.ParseDocument(part.Blob)
	if err != nil {
		p.diags.Warn(docerr.StageParse, "", "%s: %v", part.Name, err)
		return
	}
	root := doc.Root()
	if root == nil {
		return
	}
	prevPart := p.curPart
	p.curPart = part.Name
	dst[rid] = &HeaderFooter{Type: hfType, Blocks: p.parseBlocks(root)}
	p.curPart = prevPart
}
