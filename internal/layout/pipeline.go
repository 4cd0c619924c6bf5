package layout

import (
	"github.com/vortex/docpipe/internal/docerr"
	"github.com/vortex/docpipe/internal/font"
	"github.com/vortex/docpipe/internal/wml"
)

// Options carries the layout pipeline's tunable knobs. Zero value is a
// sane default (no custom fonts registered beyond the fallback chain).
type Options struct {
	Fonts *font.Cache // if nil, a fresh empty cache is used (fallback chain only)
}

// Run builds a UnifiedLayout from a parsed DocumentModel: it shapes and
// breaks every paragraph, lays out every table, resolves numbering, and
// paginates the result. Diagnostics accumulates non-fatal degradations
// encountered along the way (§7); Run itself only returns an error for a
// condition that makes the whole document unlayoutable.
func Run(model *wml.DocumentModel, opts Options, diags *docerr.Diagnostics) (*UnifiedLayout, error) {
	fonts := opts.Fonts
	if fonts == nil {
		fonts = font.NewCache()
	}
	shaper := NewShaper(fonts)
	nums := NewNumberingResolver(model.Numbering)
	tables := NewTableLayouter(shaper, nums, diags)
	pag := NewPaginator(model, shaper, tables, nums, diags)

	layout := pag.Paginate()
	layout.Metadata.Source = "docpipe"
	return layout, nil
}
