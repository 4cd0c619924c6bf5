package wml

import (
	"github.com/vortex/docpipe/internal/docerr"
	"github.com/vortex/docpipe/internal/opc"
	"github.com/vortex/docpipe/internal/oxml"
)

// noteTags maps a footnotes/endnotes relationship type to the root
// element tag and per-note tag WordprocessingML uses for it.
var noteTags = map[string][2]string{
	opc.RelTypeFootnotes: {"footnotes", "footnote"},
	opc.RelTypeEndnotes:  {"endnotes", "endnote"},
}

// parseNotes parses footnotes.xml or endnotes.xml into dst, skipping the
// separator/continuationSeparator/continuationNotice pseudo-notes Word
// always emits (negative or reserved ids, §GLOSSARY).
func (p *parser) parseNotes(model *DocumentModel, relType string, dst map[int]*Note) {
	part, ok := p.pkg.RelatedPartFrom(p.docPartName, relType)
	if !ok {
		return
	}
	tags := noteTags[relType]
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
	defer func() { p.curPart = prevPart }()

	for _, el := range oxml.Children(root, "w", tags[1]) {
		id, ok := oxml.AttrInt(el, "w", "id")
		if !ok || id < 0 {
			continue
		}
		if t, ok := oxml.Attr(el, "w", "type"); ok && (t == "separator" || t == "continuationSeparator" || t == "continuationNotice") {
			continue
		}
		dst[id] = &Note{ID: id, Blocks: p.parseBlocks(el)}
	}
}

// parseComments parses comments.xml, if present, into model.Comments.
func (p *parser) parseComments(model *DocumentModel) {
	part, ok := p.pkg.RelatedPartFrom(p.docPartName, opc.RelTypeComments)
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
	defer func() { p.curPart = prevPart }()

	for _, el := range oxml.Children(root, "w", "comment") {
		id, ok := oxml.AttrInt(el, "w", "id")
		if !ok {
			continue
		}
		c := &Comment{ID: id, Blocks: p.parseBlocks(el)}
		c.Author, _ = oxml.Attr(el, "w", "author")
		c.Date, _ = oxml.Attr(el, "w", "date")
		model.Comments[id] = c
	}
}
