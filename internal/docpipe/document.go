// Package docpipe is the caller-facing entry point (§6.4): a Document
// handle over one parsed or freshly created package, wiring
// internal/opc's package reader through internal/wml's parser, the
// internal/layout pagination pipeline, and the internal/pdf /
// internal/jsonexport output stages behind a small, memoized API.
package docpipe

import (
	"fmt"
	"io"
	"sync"

	"github.com/vortex/docpipe/internal/config"
	"github.com/vortex/docpipe/internal/docerr"
	"github.com/vortex/docpipe/internal/font"
	"github.com/vortex/docpipe/internal/geometry"
	"github.com/vortex/docpipe/internal/jsonexport"
	"github.com/vortex/docpipe/internal/layout"
	"github.com/vortex/docpipe/internal/opc"
	"github.com/vortex/docpipe/internal/pdf"
	"github.com/vortex/docpipe/internal/wml"
)

// Document is the handle returned by Open/OpenBytes/CreateEmpty. It owns
// the parsed model, the font cache every layout and PDF run resolves
// glyphs against, and a memoized table of UnifiedLayouts keyed by the
// options they were computed with.
type Document struct {
	model  *wml.DocumentModel
	diags  *docerr.Diagnostics
	fonts  *font.Cache
	source string

	mu      sync.Mutex
	layouts map[PipelineOptions]*layout.UnifiedLayout
}

// Open parses the DOCX package at path.
func Open(path string) (*Document, error) {
	pkg, err := opc.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("docpipe: open %q: %w", path, err)
	}
	return newFromPackage(pkg, path)
}

// OpenBytes parses a DOCX package already loaded into memory.
func OpenBytes(data []byte) (*Document, error) {
	pkg, err := opc.OpenBytes(data)
	if err != nil {
		return nil, fmt.Errorf("docpipe: open bytes: %w", err)
	}
	return newFromPackage(pkg, "")
}

// OpenReader parses a DOCX package from an arbitrary io.ReaderAt (e.g. an
// in-memory upload or a seekable HTTP body), recording source as the
// name later surfaced in JSON export metadata.
func OpenReader(r io.ReaderAt, size int64, source string) (*Document, error) {
	pkg, err := opc.Open(r, size)
	if err != nil {
		return nil, fmt.Errorf("docpipe: open %q: %w", source, err)
	}
	return newFromPackage(pkg, source)
}

func newFromPackage(pkg *opc.Package, source string) (*Document, error) {
	model, diags, err := wml.Parse(pkg)
	if err != nil {
		return nil, fmt.Errorf("docpipe: parse %q: %w", source, err)
	}
	return &Document{
		model:   model,
		diags:   diags,
		fonts:   font.NewCache(),
		source:  source,
		layouts: make(map[PipelineOptions]*layout.UnifiedLayout),
	}, nil
}

// CreateEmpty builds a Document with no content: an empty body, one
// section sized from cfg's defaults, and no headers, footers, footnotes,
// endnotes, comments, or media. It's the "create_empty" half of §6.4's
// caller contract, for callers assembling a document from scratch rather
// than opening an existing one.
func CreateEmpty(cfg *config.Config) *Document {
	sec := &wml.Section{
		PageWidthPt:    cfg.DefaultPageSize.Width,
		PageHeightPt:   cfg.DefaultPageSize.Height,
		MarginTopPt:    cfg.DefaultMargins.Top,
		MarginBottomPt: cfg.DefaultMargins.Bottom,
		MarginLeftPt:   cfg.DefaultMargins.Left,
		MarginRightPt:  cfg.DefaultMargins.Right,
	}
	model := &wml.DocumentModel{
		Body:      &wml.Body{},
		Sections:  []*wml.Section{sec},
		Headers:   map[string]*wml.HeaderFooter{},
		Footers:   map[string]*wml.HeaderFooter{},
		Footnotes: map[int]*wml.Note{},
		Endnotes:  map[int]*wml.Note{},
		Comments:  map[int]*wml.Comment{},
		Media:     map[string]*wml.MediaItem{},
	}
	return &Document{
		model:   model,
		diags:   &docerr.Diagnostics{},
		fonts:   font.NewCache(),
		layouts: make(map[PipelineOptions]*layout.UnifiedLayout),
	}
}

// Model returns the parsed document tree. Callers inspect it but this
// package never mutates it once built (§3.3).
func (d *Document) Model() *wml.DocumentModel { return d.model }

// Diagnostics returns every warning/error recorded while parsing and
// laying out the document so far.
func (d *Document) Diagnostics() *docerr.Diagnostics { return d.diags }

// Fonts returns the font cache backing this document's layout and PDF
// compilation, so a caller can register embedded or fallback fonts
// before running the pipeline.
func (d *Document) Fonts() *font.Cache { return d.fonts }

// Pipeline runs (or returns the memoized result of) layout under the
// given options. Re-calling with an identical PipelineOptions value
// returns the cached UnifiedLayout rather than recomputing it (§6.4).
func (d *Document) Pipeline(opts PipelineOptions) *layout.UnifiedLayout {
	d.mu.Lock()
	defer d.mu.Unlock()
	if u, ok := d.layouts[opts]; ok {
		return u
	}

	model := d.effectiveModel(opts)
	u, _ := layout.Run(model, layout.Options{Fonts: d.fonts}, d.diags)
	u.Metadata.Source = d.source

	d.layouts[opts] = u
	return u
}

// effectiveModel applies opts' page-size/margins/header-footer overrides
// on top of the parsed model, without mutating it: a shallow copy of the
// model plus copies of its sections is enough since neither carries any
// field a caller-visible override needs to reach through a pointer.
func (d *Document) effectiveModel(opts PipelineOptions) *wml.DocumentModel {
	noPageSize := opts.PageSize == (geometry.Size{})
	noMargins := opts.Margins == (geometry.Margins{})
	if noPageSize && noMargins && opts.ApplyHeadersFooters {
		return d.model
	}
	m := *d.model
	m.Sections = make([]*wml.Section, len(d.model.Sections))
	for i, sec := range d.model.Sections {
		s := *sec
		if !noPageSize {
			s.PageWidthPt, s.PageHeightPt = opts.PageSize.Width, opts.PageSize.Height
		}
		if !noMargins {
			s.MarginTopPt, s.MarginBottomPt = opts.Margins.Top, opts.Margins.Bottom
			s.MarginLeftPt, s.MarginRightPt = opts.Margins.Left, opts.Margins.Right
		}
		m.Sections[i] = &s
	}
	if !opts.ApplyHeadersFooters {
		m.Headers = map[string]*wml.HeaderFooter{}
		m.Footers = map[string]*wml.HeaderFooter{}
	}
	return &m
}

// ToPDF runs the pipeline under opts and compiles the result to PDF
// bytes (§6.2).
func (d *Document) ToPDF(opts PipelineOptions) ([]byte, error) {
	u := d.Pipeline(opts)
	compiler := pdf.NewCompiler(d.fonts, d.diags)
	return compiler.Compile(u, d.model)
}

// ToJSON runs the pipeline under opts and renders the result as the
// optimized UnifiedLayout JSON document (§6.3).
func (d *Document) ToJSON(opts PipelineOptions) ([]byte, error) {
	u := d.Pipeline(opts)
	return jsonexport.Export(u, d.model, d.source)
}
