package docpipe

import (
	"testing"

	"github.com/vortex/docpipe/internal/config"
	"github.com/vortex/docpipe/internal/geometry"
	"github.com/vortex/docpipe/internal/wml"
)

func TestCreateEmptyUsesConfigDefaults(t *testing.T) {
	cfg := config.Load()
	doc := CreateEmpty(cfg)
	sec := doc.Model().Sections[0]
	if sec.PageWidthPt != cfg.DefaultPageSize.Width || sec.PageHeightPt != cfg.DefaultPageSize.Height {
		t.Errorf("section geometry = %vx%v, want %vx%v", sec.PageWidthPt, sec.PageHeightPt, cfg.DefaultPageSize.Width, cfg.DefaultPageSize.Height)
	}
	if sec.MarginTopPt != cfg.DefaultMargins.Top {
		t.Errorf("margin top = %v, want %v", sec.MarginTopPt, cfg.DefaultMargins.Top)
	}
}

func TestPipelineMemoizesByOptions(t *testing.T) {
	doc := CreateEmpty(config.Load())
	opts := DefaultPipelineOptions()

	u1 := doc.Pipeline(opts)
	u2 := doc.Pipeline(opts)
	if u1 != u2 {
		t.Error("expected a second Pipeline call with identical options to return the cached layout")
	}

	other := opts
	other.PageSize = geometry.Size{Width: 300, Height: 400}
	u3 := doc.Pipeline(other)
	if u3 == u1 {
		t.Error("expected different options to produce a distinct layout")
	}
	if len(u3.Pages) != 1 || u3.Pages[0].WidthPt != 300 || u3.Pages[0].HeightPt != 400 {
		t.Errorf("expected overridden page size to apply, got page %+v", u3.Pages[0])
	}
}

func TestPipelineOverridesApplyWithoutMutatingParsedModel(t *testing.T) {
	doc := CreateEmpty(config.Load())
	original := doc.Model().Sections[0].PageWidthPt

	opts := DefaultPipelineOptions()
	opts.PageSize = geometry.Size{Width: 999, Height: 999}
	doc.Pipeline(opts)

	if doc.Model().Sections[0].PageWidthPt != original {
		t.Errorf("Pipeline mutated the parsed model's section: got %v, want %v", doc.Model().Sections[0].PageWidthPt, original)
	}
}

func TestToJSONOnEmptyDocumentProducesValidOutput(t *testing.T) {
	doc := CreateEmpty(config.Load())
	out, err := doc.ToJSON(DefaultPipelineOptions())
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if len(out) == 0 {
		t.Error("expected non-empty JSON output")
	}
}

func TestToPDFOnEmptyDocumentNeedsNoRegisteredFont(t *testing.T) {
	doc := CreateEmpty(config.Load())
	out, err := doc.ToPDF(DefaultPipelineOptions())
	if err != nil {
		t.Fatalf("ToPDF: %v", err)
	}
	if len(out) == 0 {
		t.Error("expected non-empty PDF output")
	}
}

// TestToPDFWithRealTextUsesBundledFallbackFont exercises the path
// TestToPDFOnEmptyDocumentNeedsNoRegisteredFont can't: a document whose
// body actually has a run of text, with no font registered beyond the
// font.Cache's own bundled default (no RegisterSystemFont/LoadFallbackDir
// call). It must resolve and embed that text's font via the cache's
// built-in fallback rather than failing Finalize.
func TestToPDFWithRealTextUsesBundledFallbackFont(t *testing.T) {
	doc := CreateEmpty(config.Load())
	doc.Model().Body.Blocks = append(doc.Model().Body.Blocks, &wml.Paragraph{
		Content: []wml.ParaContent{
			&wml.Run{
				Props: wml.RunProperties{FontFamily: "Calibri", SizePt: 12},
				Items: []wml.RunItem{wml.TextItem{Text: "Hello, world"}},
			},
		},
	})
	out, err := doc.ToPDF(DefaultPipelineOptions())
	if err != nil {
		t.Fatalf("ToPDF with real text: %v (the font cache's bundled default should have resolved \"Calibri\")", err)
	}
	if len(out) == 0 {
		t.Error("expected non-empty PDF output")
	}
}

func TestApplyHeadersFootersFalseSuppressesHeaderFooterBlocks(t *testing.T) {
	doc := CreateEmpty(config.Load())
	opts := DefaultPipelineOptions()
	opts.ApplyHeadersFooters = false
	u := doc.Pipeline(opts)
	if len(u.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(u.Pages))
	}
	if len(u.Pages[0].HeaderIndices) != 0 || len(u.Pages[0].FooterIndices) != 0 {
		t.Error("expected no header/footer blocks when ApplyHeadersFooters is false")
	}
}
