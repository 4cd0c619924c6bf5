package docpipe

import "github.com/vortex/docpipe/internal/geometry"

// Target names the artifact a pipeline run is ultimately headed for. The
// layout computation itself is the same for every target today; it's
// threaded through because ToPDF and ToJSON both call Pipeline and a
// future target-specific layout decision (e.g. a lower-resolution image
// pass for a preview target) has somewhere to hook in without changing
// the caller contract.
type Target int

const (
	TargetPDF Target = iota
	TargetJSON
)

// PipelineOptions is the full knob set a caller can vary a pipeline run
// by (§6.4: "pipeline(page_size, margins, apply_headers_footers,
// target)"). A zero-value PageSize or Margins field means "use whatever
// the document's own section declares", not "force it to zero" — Open
// lets a document own its geometry by default, and only a caller that
// explicitly wants to override a DOCX's page setup fills these in.
//
// PipelineOptions is comparable and used directly as a map key for
// memoization: structural equality already is the option hash §6.4 asks
// for, so there is no separate hashing step to keep in sync with the
// field list.
type PipelineOptions struct {
	PageSize            geometry.Size
	Margins             geometry.Margins
	ApplyHeadersFooters bool
	Target              Target
}

// DefaultPipelineOptions renders a document using its own section
// geometry, with headers and footers applied.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{ApplyHeadersFooters: true}
}
