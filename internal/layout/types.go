// Package layout turns a parsed WordprocessingML DocumentModel into a
// flat, page-positioned UnifiedLayout: it shapes and breaks paragraph
// text into lines, lays out tables with column-width/row-height/span
// resolution, resolves multilevel list numbering, and paginates the
// whole document into pages with header/footer/footnote regions (§4.3-4.5
// of the layout pipeline this package implements).
package layout

import (
	"github.com/vortex/docpipe/internal/wml"
)

// UnifiedLayout is the pipeline's single owned output: every page of the
// document with every block placed at an absolute frame.
type UnifiedLayout struct {
	Pages    []*LayoutPage
	Metadata LayoutMetadata
}

// LayoutMetadata carries document-wide facts a renderer needs without
// walking every page (e.g. the JSON exporter's metadata.total_pages).
type LayoutMetadata struct {
	TotalPages int
	Source     string
}

// LayoutPage is one page: its geometry plus every block placed on it, in
// z-order (watermarks, then body content in document order, then
// anchored overlays).
type LayoutPage struct {
	Number                                          int
	WidthPt, HeightPt                                float64
	MarginTopPt, MarginBottomPt, MarginLeftPt, MarginRightPt float64
	Blocks                                           []*LayoutBlock
	HeaderIndices                                    []int // indices into Blocks
	FooterIndices                                    []int
}

// Frame is an absolute, top-left-origin rectangle in points, matching the
// UnifiedLayout coordinate system the PDF compiler later flips to PDF's
// bottom-left origin.
type Frame struct {
	X, Y, W, H float64
}

// Inside reports whether f is fully contained in region (used by the
// page-containment invariant and by tests).
func (f Frame) Inside(region Frame) bool {
	return f.X >= region.X-1e-6 &&
		f.Y >= region.Y-1e-6 &&
		f.X+f.W <= region.X+region.W+1e-6 &&
		f.Y+f.H <= region.Y+region.H+1e-6
}

// BlockType discriminates LayoutBlock.Content's concrete type, the tagged
// union §9's design notes call for instead of a downcast-requiring
// interface hierarchy.
type BlockType int

const (
	BlockParagraph BlockType = iota
	BlockTable
	BlockImage
	BlockTextBox
	BlockHeader
	BlockFooter
	BlockFootnotes
	BlockWatermark
	BlockDecorator
)

// LayoutBlock is one placed, absolutely-framed unit of content.
type LayoutBlock struct {
	Frame      Frame
	Type       BlockType
	Content    interface{} // *ParagraphLayout, *TableLayout, *ImageData, *FootnotesContent
	StyleRef   int         // not set by the paginator (always 0); the JSON exporter builds its style table from Style
	UID        string      // source Paragraph.ID for paragraph blocks; empty for table and footnote blocks
	Seq        int         // document order, used to keep JSON/PDF emission order stable
	Decoration *Decoration // borders/shading to paint behind/around Content, nil if none
	Style      *StyleSummary // cascaded paragraph/run properties, nil if not applicable (e.g. image blocks)
}

// Decoration carries the border and shading properties a block's source
// paragraph/cell/table had, threaded through from the WML model so the
// PDF compiler can emit the vector graphics operators §4.6 describes
// without re-deriving them from the document tree.
type Decoration struct {
	Borders *wml.Borders
	Shading *wml.Shading
}

// StyleSummary carries the cascaded property set a block's source
// paragraph had, threaded through so the JSON exporter can build its
// deduplicated styles table (§6.3) without re-walking the document tree
// or re-resolving style cascades itself.
type StyleSummary struct {
	StyleName       string
	FontFamily      string
	SizePt          float64
	Alignment       wml.Alignment
	SpacingBeforePt float64
	SpacingAfterPt  float64
	Borders         *wml.Borders
	Shading         *wml.Shading
}

// ParagraphLayout is a paragraph's content pre-positioned into lines.
type ParagraphLayout struct {
	Lines []Line
}

// Line is one laid-out line of a paragraph.
type Line struct {
	BaselineY      float64 // relative to the paragraph's top
	Height         float64
	OffsetX        float64 // indentation
	AvailableWidth float64
	Items          []InlineBox
}

// InlineBoxKind discriminates InlineBox.Data's concrete type.
type InlineBoxKind int

const (
	KindTextRun InlineBoxKind = iota
	KindField
	KindInlineImage
	KindInlineTextBox
)

// InlineBox is one positioned atom within a Line.
type InlineBox struct {
	X, Width, Ascent, Descent float64
	Kind                      InlineBoxKind
	Data                      interface{} // *TextRunData, *FieldData, *ImageData, *ParagraphLayout (nested textbox)
}

// TextRunData is the payload of a KindTextRun InlineBox.
type TextRunData struct {
	Text     string
	Props    wml.RunProperties
	GlyphIDs []uint32 // used as-is by the PDF compiler when set; the layout shaper never sets it
}

// FieldData is the payload of a KindField InlineBox. Text starts as the
// DOCX cached result. Every PAGE and NUMPAGES field is a forward reference
// and is marked Pending; the paginator replaces its Text with the page's
// own number or the total page count once every page exists
// (§9 "Field codes with forward references").
type FieldData struct {
	Kind    wml.FieldKind
	Text    string
	Pending bool // true while Text still awaits the page number or page count
}

// ImageData is the payload of a KindInlineImage InlineBox, and of a
// top-level BlockImage LayoutBlock's Content.
type ImageData struct {
	MediaKey string // DocumentModel.Media key, "" if the image couldn't be resolved
	WidthPt  float64
	HeightPt float64
}

// TableLayout is the Content of a BlockTable LayoutBlock.
type TableLayout struct {
	ColumnWidthsPt []float64
	Rows           []RowLayout
}

// RowLayout is one laid-out table row.
type RowLayout struct {
	HeightPt float64
	Header   bool // w:tblHeader, repeats on continuation pages
	Cells    []CellLayout
}

// CellLayout is one laid-out table cell. Merged-away continuation cells
// (vertical_merge = continue) are omitted from Cells entirely; the owning
// restart cell's Frame spans the full merged height.
type CellLayout struct {
	Frame      Frame
	GridCol    int // first spanned grid column
	GridSpan   int
	RowSpan    int // number of rows this cell's vertical merge covers
	Blocks     []*LayoutBlock
	Decoration *Decoration
}

// FootnotesContent is the Content of a BlockFootnotes LayoutBlock: the
// footnote bodies referenced by content on this page, in reference order.
type FootnotesContent struct {
	Notes []FootnoteEntry
}

// FootnoteEntry is one footnote placed in a page's footnote region.
type FootnoteEntry struct {
	ID     int
	Blocks []*LayoutBlock
}
