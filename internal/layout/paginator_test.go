package layout

import (
	"testing"

	"github.com/vortex/docpipe/internal/docerr"
	"github.com/vortex/docpipe/internal/font"
	"github.com/vortex/docpipe/internal/wml"
)

func minimalModel(paragraphs ...*wml.Paragraph) *wml.DocumentModel {
	blocks := make([]wml.BlockNode, len(paragraphs))
	for i, p := range paragraphs {
		blocks[i] = p
	}
	return &wml.DocumentModel{
		Body: &wml.Body{Blocks: blocks},
		Sections: []*wml.Section{{
			PageWidthPt: 612, PageHeightPt: 792,
			MarginTopPt: 72, MarginBottomPt: 72, MarginLeftPt: 72, MarginRightPt: 72,
			MarginHeaderPt: 36, MarginFooterPt: 36,
			HeaderRIDs: map[wml.HFType]string{}, FooterRIDs: map[wml.HFType]string{},
		}},
		Headers:   map[string]*wml.HeaderFooter{},
		Footers:   map[string]*wml.HeaderFooter{},
		Footnotes: map[int]*wml.Note{},
		Media:     map[string]*wml.MediaItem{},
	}
}

func simplePara(text string) *wml.Paragraph {
	return &wml.Paragraph{
		ID: "p1",
		Content: []wml.ParaContent{
			&wml.Run{Props: wml.RunProperties{FontFamily: "Calibri", SizePt: 12}, Items: []wml.RunItem{wml.TextItem{Text: text}}},
		},
	}
}

func newTestPaginator(model *wml.DocumentModel) *Paginator {
	shaper := NewShaper(font.NewCache())
	nums := NewNumberingResolver(model.Numbering)
	diags := &docerr.Diagnostics{}
	tables := NewTableLayouter(shaper, nums, diags)
	return NewPaginator(model, shaper, tables, nums, diags)
}

func TestPaginateSinglePageDocument(t *testing.T) {
	model := minimalModel(simplePara("hello world"))
	p := newTestPaginator(model)
	out := p.Paginate()
	if len(out.Pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(out.Pages))
	}
	if out.Metadata.TotalPages != 1 {
		t.Fatalf("TotalPages = %d, want 1", out.Metadata.TotalPages)
	}
	if len(out.Pages[0].Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(out.Pages[0].Blocks))
	}
}

func TestPaginateHardPageBreakStartsNewPage(t *testing.T) {
	para := simplePara("before")
	para.Content = append(para.Content, &wml.Run{
		Items: []wml.RunItem{wml.BreakItem{Type: wml.BreakTypePage}},
	})
	model := minimalModel(para, simplePara("after"))
	p := newTestPaginator(model)
	out := p.Paginate()
	if len(out.Pages) != 2 {
		t.Fatalf("got %d pages, want 2 (explicit page break)", len(out.Pages))
	}
}

func TestAllBlockFramesInsidePageRegion(t *testing.T) {
	model := minimalModel(simplePara("some content"))
	p := newTestPaginator(model)
	out := p.Paginate()
	for _, pg := range out.Pages {
		region := Frame{
			X: pg.MarginLeftPt, Y: pg.MarginTopPt,
			W: pg.WidthPt - pg.MarginLeftPt - pg.MarginRightPt,
			H: pg.HeightPt - pg.MarginTopPt - pg.MarginBottomPt,
		}
		for _, b := range pg.Blocks {
			if b.Type == BlockHeader || b.Type == BlockFooter {
				continue // headers/footers live in the header/footer margin area, not the body region
			}
			if !b.Frame.Inside(region) {
				t.Errorf("block %+v not inside content region %+v", b.Frame, region)
			}
		}
	}
}

func TestPendingNumPagesFieldResolvedAfterPagination(t *testing.T) {
	para := &wml.Paragraph{
		Content: []wml.ParaContent{
			&wml.Run{Props: wml.RunProperties{SizePt: 12}, Items: []wml.RunItem{
				wml.FieldItem{Kind: wml.FieldNumPages},
			}},
		},
	}
	model := minimalModel(para)
	p := newTestPaginator(model)
	out := p.Paginate()
	blk := out.Pages[0].Blocks[0]
	pl := blk.Content.(*ParagraphLayout)
	field := pl.Lines[0].Items[0].Data.(*FieldData)
	if field.Pending {
		t.Fatalf("NUMPAGES field should be resolved after pagination")
	}
	if field.Text != "1" {
		t.Fatalf("NUMPAGES text = %q, want \"1\"", field.Text)
	}
}

// TestPendingPageFieldResolvedPerPage covers the Scenario B requirement
// (spec.md:337, a footer reading "Page {PAGE} of {NUMPAGES}" must read
// "Page 1 of N" on page 1 and "Page N of N" on the last page): a PAGE field
// must resolve to each page's own physical number, not be left at its
// stale cached DOCX ResultText, and not all resolve to the same value.
func TestPendingPageFieldResolvedPerPage(t *testing.T) {
	// Three paragraphs, each a PAGE field whose cached DOCX result is
	// deliberately wrong ("99"); the first two end with a hard page break
	// (the same pattern TestPaginateHardPageBreakStartsNewPage uses) so
	// the model lays out onto exactly three pages.
	pageField := func(cachedResult string, withBreak bool) *wml.Paragraph {
		p := &wml.Paragraph{
			Content: []wml.ParaContent{
				&wml.Run{Props: wml.RunProperties{SizePt: 12}, Items: []wml.RunItem{
					wml.FieldItem{Kind: wml.FieldPage, ResultText: cachedResult},
				}},
			},
		}
		if withBreak {
			p.Content = append(p.Content, &wml.Run{
				Items: []wml.RunItem{wml.BreakItem{Type: wml.BreakTypePage}},
			})
		}
		return p
	}

	model := minimalModel(pageField("99", true), pageField("99", true), pageField("99", false))
	p := newTestPaginator(model)
	out := p.Paginate()
	if len(out.Pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(out.Pages))
	}

	for i, pg := range out.Pages {
		// The field paragraph is each page's last block: pages 2 and 3 open
		// with the empty remainder of the previous paragraph after its break.
		blk := pg.Blocks[len(pg.Blocks)-1]
		pl := blk.Content.(*ParagraphLayout)
		field := pl.Lines[0].Items[0].Data.(*FieldData)
		if field.Pending {
			t.Errorf("page %d: PAGE field should be resolved after pagination", i+1)
		}
		want := formatPageNumber(i + 1)
		if field.Text != want {
			t.Errorf("page %d: PAGE text = %q, want %q (not the stale cached %q)", i+1, field.Text, want, "99")
		}
	}
}
