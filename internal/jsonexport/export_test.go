package jsonexport

import (
	"encoding/json"
	"testing"

	"github.com/vortex/docpipe/internal/color"
	"github.com/vortex/docpipe/internal/layout"
	"github.com/vortex/docpipe/internal/wml"
)

func simpleUnifiedLayout() *layout.UnifiedLayout {
	para1 := &layout.LayoutBlock{
		Frame:   layout.Frame{X: 72, Y: 72, W: 400, H: 20},
		Type:    layout.BlockParagraph,
		Content: &layout.ParagraphLayout{Lines: []layout.Line{{Items: []layout.InlineBox{{Kind: layout.KindTextRun, Data: &layout.TextRunData{Text: "Hello"}}}}}},
		UID:     "p1",
		Seq:     0,
		Style:   &layout.StyleSummary{FontFamily: "Calibri", SizePt: 11},
	}
	para2 := &layout.LayoutBlock{
		Frame:   layout.Frame{X: 72, Y: 100, W: 400, H: 20},
		Type:    layout.BlockParagraph,
		Content: &layout.ParagraphLayout{Lines: []layout.Line{{Items: []layout.InlineBox{{Kind: layout.KindTextRun, Data: &layout.TextRunData{Text: "World"}}}}}},
		UID:     "p2",
		Seq:     1,
		Style:   &layout.StyleSummary{FontFamily: "Calibri", SizePt: 11},
	}
	img := &layout.LayoutBlock{
		Frame:   layout.Frame{X: 72, Y: 130, W: 100, H: 100},
		Type:    layout.BlockImage,
		Content: &layout.ImageData{MediaKey: "word/media/image1.png", WidthPt: 100, HeightPt: 100},
		UID:     "i1",
		Seq:     2,
	}
	pg := &layout.LayoutPage{
		Number: 1, WidthPt: 612, HeightPt: 792,
		MarginTopPt: 72, MarginBottomPt: 72, MarginLeftPt: 72, MarginRightPt: 72,
		Blocks: []*layout.LayoutBlock{para1, para2, img},
	}
	return &layout.UnifiedLayout{
		Pages:    []*layout.LayoutPage{pg},
		Metadata: layout.LayoutMetadata{TotalPages: 1, Source: "test.docx"},
	}
}

func simpleModel() *wml.DocumentModel {
	return &wml.DocumentModel{
		Media: map[string]*wml.MediaItem{
			"word/media/image1.png": {PartName: "word/media/image1.png", Data: pngBytes()},
		},
	}
}

// pngBytes returns a minimal valid 1x1 PNG so SniffMetrics succeeds.
func pngBytes() []byte {
	return []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
		0x00, 0x00, 0x00, 0x0D, 'I', 'H', 'D', 'R',
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00,
		0x1f, 0x15, 0xc4, 0x89,
	}
}

func TestExportProducesValidJSON(t *testing.T) {
	out, err := Export(simpleUnifiedLayout(), simpleModel(), "test.docx")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	var v map[string]interface{}
	if err := json.Unmarshal(out, &v); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if v["version"] != "2.0" {
		t.Errorf("version = %v, want 2.0", v["version"])
	}
	if v["format"] != "optimized_pipeline" {
		t.Errorf("format = %v, want optimized_pipeline", v["format"])
	}
}

func TestExportDeduplicatesIdenticalStyles(t *testing.T) {
	out, err := Export(simpleUnifiedLayout(), simpleModel(), "test.docx")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	var doc document
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(doc.Pages))
	}
	blocks := doc.Pages[0].Blocks
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	// para1 and para2 share the same style (same font/size, no borders/shading).
	if blocks[0].Style != blocks[1].Style {
		t.Errorf("expected paragraphs with identical styles to share one styles-table entry, got %d vs %d", blocks[0].Style, blocks[1].Style)
	}
	// The image block has no paragraph style at all, so it must not share
	// the paragraphs' entry.
	if blocks[2].Style == blocks[0].Style {
		t.Errorf("expected the image block's empty style to be a distinct entry from the paragraphs'")
	}
}

func TestExportReferencesMediaByIndexNotInline(t *testing.T) {
	out, err := Export(simpleUnifiedLayout(), simpleModel(), "test.docx")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	var doc document
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Media) != 1 {
		t.Fatalf("expected 1 media entry, got %d", len(doc.Media))
	}
	if doc.Media[0].Width != 1 || doc.Media[0].Height != 1 {
		t.Errorf("expected 1x1 media dimensions sniffed from PNG header, got %dx%d", doc.Media[0].Width, doc.Media[0].Height)
	}

	imgBlock := doc.Pages[0].Blocks[2]
	cont, ok := imgBlock.Cont.(map[string]interface{})
	if !ok {
		t.Fatalf("expected image content map, got %T", imgBlock.Cont)
	}
	if int(cont["media"].(float64)) != 0 {
		t.Errorf("expected image block to reference media index 0, got %v", cont["media"])
	}
}

func TestAlignmentNameMapsAllValues(t *testing.T) {
	cases := map[wml.Alignment]string{
		wml.AlignStart:       "start",
		wml.AlignCenter:      "center",
		wml.AlignEnd:         "end",
		wml.AlignBoth:        "justify",
		wml.AlignDistribute:  "distribute",
	}
	for in, want := range cases {
		if got := alignmentName(in); got != want {
			t.Errorf("alignmentName(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestBordersFromModelOmitsNoneStyleEdges(t *testing.T) {
	b := &wml.Borders{
		Top:    &wml.BorderSpec{Style: "none"},
		Bottom: &wml.BorderSpec{Style: "single", SizeWPt: 1, Color: color.RGB{R: 0, G: 0, B: 0}},
	}
	out := bordersFromModel(b)
	if out == nil {
		t.Fatal("expected a non-nil borders entry")
	}
	if out.Top != nil {
		t.Errorf("expected a \"none\" style top edge to be omitted, got %v", out.Top)
	}
	if out.Bottom == nil || out.Bottom.Color != "000000" {
		t.Errorf("expected bottom edge color 000000, got %v", out.Bottom)
	}
}

func TestHexColorRendersAutoLiterally(t *testing.T) {
	if got := hexColor(color.RGB{Auto: true}); got != "auto" {
		t.Errorf("hexColor(auto) = %q, want auto", got)
	}
	if got := hexColor(color.RGB{R: 255, G: 0, B: 0}); got != "FF0000" {
		t.Errorf("hexColor(red) = %q, want FF0000", got)
	}
}
