package wml

import (
	"github.com/vortex/docpipe/internal/opc"
	"github.com/vortex/docpipe/internal/oxml"
)

// parseCoreProps reads docProps/core.xml and docProps/app.xml into
// CoreProperties (§6.2 PDF Info dictionary source data). Both parts are
// optional; a DOCX missing either simply leaves those fields blank.
func (p *parser) parseCoreProps(model *DocumentModel) {
	if part, ok := p.pkg.RelatedPart(opc.RelTypeCoreProps); ok {
		if doc, err := oxml.ParseDocument(part.Blob); err == nil {
			if root := doc.Root(); root != nil {
				if v := oxml.Child(root, "dc", "title"); v != nil {
					model.CoreProps.Title = v.Text()
				}
				if v := oxml.Child(root, "dc", "creator"); v != nil {
					model.CoreProps.Creator = v.Text()
				}
				if v := oxml.Child(root, "dc", "subject"); v != nil {
					model.CoreProps.Subject = v.Text()
				}
				if v := oxml.Child(root, "dc", "description"); v != nil {
					model.CoreProps.Description = v.Text()
				}
				if v := oxml.Child(root, "cp", "keywords"); v != nil {
					model.CoreProps.Keywords = v.Text()
				}
			}
		}
	}
	if part, ok := p.pkg.RelatedPart(opc.RelTypeExtendedProps); ok {
		if doc, err := oxml.ParseDocument(part.Blob); err == nil {
			if root := doc.Root(); root != nil {
				if v := oxml.Child(root, "", "Application"); v != nil {
					model.CoreProps.Application = v.Text()
				}
			}
		}
	}
}
