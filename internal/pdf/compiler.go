package pdf

import (
	"github.com/vortex/docpipe/internal/docerr"
	"github.com/vortex/docpipe/internal/font"
	"github.com/vortex/docpipe/internal/layout"
	"github.com/vortex/docpipe/internal/wml"
)

// Compiler turns a UnifiedLayout into a PDF 1.7 byte stream (§4.6).
// Fonts and images are embedded once across the whole document and
// shared via one Resources dictionary, matching "Document object
// structure": Catalog -> Pages tree -> one Page per LayoutPage, all
// pointing at the same Resources object.
type Compiler struct {
	fonts *font.Cache
	diags *docerr.Diagnostics
}

func NewCompiler(fonts *font.Cache, diags *docerr.Diagnostics) *Compiler {
	return &Compiler{fonts: fonts, diags: diags}
}

// Compile renders every page of u against model's embedded media, embeds
// the fonts and images actually used, and returns the finished PDF bytes.
func (c *Compiler) Compile(u *layout.UnifiedLayout, model *wml.DocumentModel) ([]byte, error) {
	doc := NewDocument()
	fontEmbedder := NewFontEmbedder(doc, c.fonts)
	imageEmbedder := NewImageEmbedder(doc, c.diags)
	renderer := NewPageRenderer(fontEmbedder, imageEmbedder, model.Media)

	pagesRootRef := doc.Alloc()

	contentRefs := make([]Ref, len(u.Pages))
	for i, pg := range u.Pages {
		body := renderer.Render(pg)
		contentRefs[i] = doc.Add(&Stream{Dict: Dict{}, Data: body})
	}

	if err := fontEmbedder.Finalize(); err != nil {
		return nil, err
	}

	resourcesRef := doc.Add(Dict{
		"Font":    fontEmbedder.ResourceDict(),
		"XObject": imageEmbedder.ResourceDict(),
		"ProcSet": Array{Name("PDF"), Name("Text"), Name("ImageC"), Name("ImageB")},
	})

	pageRefs := make([]Value, len(u.Pages))
	for i, pg := range u.Pages {
		pageRefs[i] = doc.Add(Dict{
			"Type":      Name("Page"),
			"Parent":    pagesRootRef,
			"MediaBox":  Array{Int(0), Int(0), Real(pg.WidthPt), Real(pg.HeightPt)},
			"CropBox":   Array{Int(0), Int(0), Real(pg.WidthPt), Real(pg.HeightPt)},
			"Resources": resourcesRef,
			"Contents":  contentRefs[i],
		})
	}
	doc.Set(pagesRootRef, Dict{
		"Type":  Name("Pages"),
		"Kids":  Array(pageRefs),
		"Count": Int(len(pageRefs)),
	})

	catalogRef := doc.Add(Dict{"Type": Name("Catalog"), "Pages": pagesRootRef})
	infoRef := c.infoObject(doc, model.CoreProps)

	return doc.WriteTo(catalogRef, infoRef), nil
}

// infoObject populates the PDF /Info dictionary from DOCX core properties
// when present (§6.2: "Metadata dictionary populated from DOCX core
// properties... when present"), returning 0 (omit /Info entirely) if none
// of them are set.
func (c *Compiler) infoObject(doc *Document, props wml.CoreProperties) Ref {
	d := Dict{}
	if props.Title != "" {
		d["Title"] = String(props.Title)
	}
	if props.Creator != "" {
		d["Author"] = String(props.Creator)
	}
	if props.Subject != "" {
		d["Subject"] = String(props.Subject)
	}
	if props.Keywords != "" {
		d["Keywords"] = String(props.Keywords)
	}
	if props.Application != "" {
		d["Producer"] = String(props.Application)
	}
	if len(d) == 0 {
		return 0
	}
	return doc.Add(d)
}
