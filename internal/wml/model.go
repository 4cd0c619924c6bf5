// Package wml parses WordprocessingML parts (document.xml, styles.xml,
// numbering.xml, footnotes/endnotes.xml, header/footer parts, and core/app
// properties) into the typed, immutable DocumentModel described by
// spec.md §3. It is built on internal/opc (package/relationship
// resolution) and internal/oxml (namespace-aware etree helpers), and is
// the direct descendant of the teacher's go-docx/pkg/docx + oxml packages
// — generalized from an element-proxy *editing* API (Document.AddRun,
// Paragraph.InsertParagraphBefore, ...) to a one-shot *read* into plain
// value/pointer structs, since this core never mutates or re-serializes a
// DOCX (§3.3).
package wml

import "github.com/vortex/docpipe/internal/color"

// DocumentModel is the parsed tree for one DOCX package (§3.1). Built once
// per input and discarded after the pipeline finishes; never mutated.
type DocumentModel struct {
	Body       *Body
	Sections   []*Section // one per w:sectPr, in document order; last is Body's trailing sectPr
	Headers    map[string]*HeaderFooter // keyed by relationship id
	Footers    map[string]*HeaderFooter
	Styles     *StyleTable
	Numbering  *NumberingTable
	Footnotes  map[int]*Note
	Endnotes   map[int]*Note
	Comments   map[int]*Comment
	Media      map[string]*MediaItem // keyed by resolved target part name
	CoreProps  CoreProperties
}

// Body is the sequence of block-level content at the document's top level.
type Body struct {
	Blocks []BlockNode
}

// BlockNode is implemented by *Paragraph and *Table — the two block-level
// content types that can appear in a Body, TableCell, HeaderFooter, or Note.
type BlockNode interface{ blockNode() }

// --------------------------------------------------------------------------
// Paragraph / Run
// --------------------------------------------------------------------------

// Paragraph is one <w:p>: an ordered sequence of inline content (runs,
// hyperlinks) plus resolved paragraph properties.
type Paragraph struct {
	ID       string // w14:paraId if present, else a synthesized id
	Props    ParagraphProperties
	Content  []ParaContent
	NumRef   *NumPr // resolved w:numPr, nil if this paragraph is not numbered
}

func (*Paragraph) blockNode() {}

// ParaContent is implemented by *Run and *Hyperlink.
type ParaContent interface{ paraContent() }

// Run is a maximal contiguous sequence of inline items sharing one set of
// character properties (§3.1). A single w:r can itself contain multiple
// RunItems (text interspersed with breaks/tabs/drawings); they all share
// Run.Props.
type Run struct {
	Props RunProperties
	Items []RunItem
}

func (*Run) paraContent() {}

// Text concatenates every TextItem in the run, ignoring zero-width
// controls, non-text items contribute nothing (used by §8.1 property 1,
// round-trip text).
func (r *Run) Text() string {
	var out []byte
	for _, it := range r.Items {
		if t, ok := it.(TextItem); ok {
			out = append(out, t.Text...)
		}
	}
	return string(out)
}

// RunItem is implemented by TextItem, BreakItem, TabItem, DrawingItem,
// FieldItem, FootnoteRefItem, NoBreakHyphenItem.
type RunItem interface{ runItem() }

// TextItem is literal text from a w:t (or w:delText/w:instrText rendered
// as text, though instrText is normally consumed by field parsing).
type TextItem struct{ Text string }

func (TextItem) runItem() {}

// BreakType distinguishes the three w:br/@w:type values.
type BreakType int

const (
	BreakTypeLine BreakType = iota
	BreakTypePage
	BreakTypeColumn
)

// BreakItem is a w:br.
type BreakItem struct{ Type BreakType }

func (BreakItem) runItem() {}

// TabItem is a w:tab.
type TabItem struct{}

func (TabItem) runItem() {}

// NoBreakHyphenItem is a w:noBreakHyphen: renders as "-". The line breaker
// never consumes it at a line end, but a line can still end right before
// or after it.
type NoBreakHyphenItem struct{}

func (NoBreakHyphenItem) runItem() {}

// SoftHyphenItem is a w:softHyphen: invisible unless it becomes a line
// break point, in which case it renders as "-".
type SoftHyphenItem struct{}

func (SoftHyphenItem) runItem() {}

// DrawingItem is an inline or anchored image/textbox (§4.2 Drawings).
type DrawingItem struct{ Drawing *Drawing }

func (DrawingItem) runItem() {}

// FieldKind is the recognized subset of field instructions (§4.2 Fields).
type FieldKind string

const (
	FieldPage     FieldKind = "PAGE"
	FieldNumPages FieldKind = "NUMPAGES"
	FieldDate     FieldKind = "DATE"
	FieldTime     FieldKind = "TIME"
	FieldRef      FieldKind = "REF"
	FieldTOC      FieldKind = "TOC"
	FieldUnknown  FieldKind = ""
)

// FieldItem represents either a w:fldSimple or the resolved result of a
// w:fldChar begin/separate/end run sequence. ResultText is whatever
// literal text Word cached between "separate" and "end" (used as a
// fallback when a field kind isn't one the pipeline resolves itself, e.g.
// REF/TOC).
type FieldItem struct {
	Kind       FieldKind
	Instr      string // the raw field instruction text, e.g. "PAGE \* MERGEFORMAT"
	ResultText string
}

func (FieldItem) runItem() {}

// FootnoteRefItem / EndnoteRefItem mark where a footnote/endnote is
// referenced in running text (distinct from the note's own definition,
// stored in DocumentModel.Footnotes/Endnotes).
type FootnoteRefItem struct{ ID int }
type EndnoteRefItem struct{ ID int }

func (FootnoteRefItem) runItem() {}
func (EndnoteRefItem) runItem()  {}

// Hyperlink wraps a sequence of runs that share a link target — either an
// external URL (via a relationship id resolved by the caller) or an
// internal bookmark anchor.
type Hyperlink struct {
	Runs   []*Run
	URL    string // resolved target, "" if Anchor is set instead
	Anchor string
}

func (*Hyperlink) paraContent() {}

// --------------------------------------------------------------------------
// Paragraph / run properties
// --------------------------------------------------------------------------

// Alignment mirrors w:jc's value set.
type Alignment int

const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
	AlignBoth // "justify"
	AlignDistribute
)

// LineRule mirrors w:spacing/@w:lineRule.
type LineRule int

const (
	LineRuleAuto LineRule = iota
	LineRuleExact
	LineRuleAtLeast
)

// TabAlignment mirrors w:tab/@w:val.
type TabAlignment int

const (
	TabStart TabAlignment = iota
	TabCenter
	TabEnd
	TabDecimal
	TabBar
)

// TabLeader mirrors w:tab/@w:leader.
type TabLeader int

const (
	LeaderNone TabLeader = iota
	LeaderDot
	LeaderHyphen
	LeaderUnderscore
)

// TabStop is one resolved paragraph tab stop, in points.
type TabStop struct {
	PositionPt float64
	Alignment  TabAlignment
	Leader     TabLeader
}

// BorderSpec is one edge of a paragraph/cell/table border.
type BorderSpec struct {
	Style    string // "single", "double", "dashed", "none", ...
	SizeWPt  float64 // line weight in points (eighths-of-a-point on the wire)
	Color    color.RGB
	SpacePt  float64
}

// Borders bundles the four edges plus the two interior ones that only
// apply inside tables.
type Borders struct {
	Top, Bottom, Left, Right *BorderSpec
	InsideH, InsideV         *BorderSpec
}

// Shading is a solid or patterned background fill.
type Shading struct {
	Fill    color.RGB
	Pattern string
}

// NumPr is a paragraph's reference into the numbering table.
type NumPr struct {
	NumID int
	ILvl  int
}

// ParagraphProperties is the fully cascaded (doc-defaults -> style ->
// direct) property set effective for one paragraph (§4.2 style
// resolution).
type ParagraphProperties struct {
	StyleID         string
	Alignment       *Alignment
	IndentLeftPt    *float64
	IndentRightPt   *float64
	IndentFirstPt   *float64 // positive = first-line indent, negative encodes hanging
	SpacingBeforePt *float64
	SpacingAfterPt  *float64
	LinePt          *float64
	LineRule        LineRule
	ContextualSpacing bool
	Tabs            []TabStop
	Borders         *Borders
	Shading         *Shading
	KeepNext        bool
	KeepLines       bool
	PageBreakBefore bool
	WidowControl    bool
	OutlineLevel    *int
}

// UnderlineStyle mirrors the w:u/@w:val value set, collapsed to "on"/"off"
// plus the wavy/double variants the PDF compiler renders distinctly.
type UnderlineStyle int

const (
	UnderlineNone UnderlineStyle = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineWavy
)

// VertAlign mirrors w:vertAlign (baseline/superscript/subscript).
type VertAlign int

const (
	VertAlignBaseline VertAlign = iota
	VertAlignSuperscript
	VertAlignSubscript
)

// RunProperties is the fully cascaded character property set (§4.2).
type RunProperties struct {
	StyleID      string
	FontFamily   string
	SizePt       float64
	Bold         bool
	Italic       bool
	Underline    UnderlineStyle
	Strike       bool
	DoubleStrike bool
	VertAlign    VertAlign
	Color        color.RGB
	Highlight    color.Highlight
	Lang         string
}

// --------------------------------------------------------------------------
// Table / row / cell
// --------------------------------------------------------------------------

// ColumnWidthType classifies a declared w:tblGrid column width.
type ColumnWidthType int

const (
	ColumnAuto ColumnWidthType = iota
	ColumnFixed
	ColumnPercent
)

// ColumnSpec is one declared grid column (§4.4 column-width algorithm).
type ColumnSpec struct {
	Type     ColumnWidthType
	WidthPt  float64 // meaningful when Type == ColumnFixed
	WidthPct float64 // meaningful when Type == ColumnPercent, 0..100
}

// TableAlignment mirrors w:jc on a w:tblPr.
type TableAlignment int

const (
	TableAlignStart TableAlignment = iota
	TableAlignCenter
	TableAlignEnd
)

// TableProperties is a table's resolved table-level property set.
type TableProperties struct {
	StyleID   string
	Alignment TableAlignment
	Autofit   bool
	IndentPt  float64
	Borders   *Borders
	Shading   *Shading
}

// Table is one <w:tbl> (§3.1).
type Table struct {
	Grid  []ColumnSpec
	Rows  []*Row
	Props TableProperties
}

func (*Table) blockNode() {}

// HeightRule mirrors w:trHeight/@w:hRule.
type HeightRule int

const (
	HeightAuto HeightRule = iota
	HeightAtLeast
	HeightExact
)

// RowProperties is a row's resolved property set.
type RowProperties struct {
	HeightPt   float64
	HeightRule HeightRule
	CantSplit  bool
	TblHeader  bool // repeats at the top of each page the table continues on
}

// Row is one <w:tr>.
type Row struct {
	Cells []*Cell
	Props RowProperties
}

// VMerge mirrors w:vMerge/@w:val.
type VMerge int

const (
	VMergeNone VMerge = iota
	VMergeRestart
	VMergeContinue
)

// VAlign mirrors w:vAlign on a cell.
type VAlign int

const (
	VAlignTop VAlign = iota
	VAlignCenter
	VAlignBottom
)

// Cell is one <w:tc> (§3.1).
type Cell struct {
	Blocks    []BlockNode
	GridSpan  int // >= 1
	VMerge    VMerge
	Borders   *Borders
	Shading   *Shading
	VAlign    VAlign
	WidthPt   float64 // declared w:tcW, before layout's column-width pass
}

// --------------------------------------------------------------------------
// Sections / headers / footers
// --------------------------------------------------------------------------

// SectionStart mirrors w:sectPr/w:type/@w:val.
type SectionStart int

const (
	SectionNextPage SectionStart = iota
	SectionContinuous
	SectionEvenPage
	SectionOddPage
)

// HFType distinguishes the three header/footer reference kinds.
type HFType int

const (
	HFDefault HFType = iota
	HFFirst
	HFEven
)

// Section is one <w:sectPr>: page geometry plus header/footer references,
// keyed by relationship id into DocumentModel.Headers/Footers.
type Section struct {
	PageWidthPt, PageHeightPt float64
	MarginTopPt, MarginBottomPt, MarginLeftPt, MarginRightPt float64
	MarginHeaderPt, MarginFooterPt                           float64
	Columns                                                  int
	Landscape                                                bool
	StartType                                                SectionStart
	HeaderRIDs                                                map[HFType]string
	FooterRIDs                                                map[HFType]string
	TitlePage                                                 bool // first-page header/footer differs
}

// HeaderFooter is the parsed content of one header/footer part.
type HeaderFooter struct {
	Type   HFType
	Blocks []BlockNode
}

// --------------------------------------------------------------------------
// Notes / comments
// --------------------------------------------------------------------------

// Note is one footnote or endnote definition.
type Note struct {
	ID     int
	Blocks []BlockNode
}

// Comment is one w:comment definition.
type Comment struct {
	ID     int
	Author string
	Date   string
	Blocks []BlockNode
}

// --------------------------------------------------------------------------
// Drawings / media
// --------------------------------------------------------------------------

// DrawingKind distinguishes inline placement from floating (anchored)
// placement (§4.2).
type DrawingKind int

const (
	DrawingInline DrawingKind = iota
	DrawingAnchored
)

// Drawing is a parsed wp:inline or wp:anchor.
type Drawing struct {
	Kind        DrawingKind
	WidthPt     float64
	HeightPt    float64
	ImageRID    string // relationship id of the embedded image part, "" for non-picture drawings (chart/SmartArt)
	PositionHPt float64 // anchored only: horizontal offset from its relative-to origin
	PositionVPt float64 // anchored only
	WrapNone    bool    // true if text wrap is "none" (through/behind) -- best-effort per spec Open Questions
	TextBox     *TextBox
}

// TextBox is the block content of a VML/DrawingML text box embedded in a
// drawing (mc:AlternateContent / v:textbox / wps:txbx).
type TextBox struct {
	Blocks []BlockNode
}

// MediaItem is one embedded binary (image) part. DocumentModel.Media keys
// these by resolved target part name rather than relationship id, since
// each part that embeds media (document.xml, any header/footer/footnote
// part) has its own independent r:id namespace.
type MediaItem struct {
	PartName    string
	ContentType string
	Data        []byte
}

// CoreProperties holds Dublin Core + extended metadata used to populate
// the PDF Info dictionary (§6.2).
type CoreProperties struct {
	Title       string
	Creator     string
	Subject     string
	Keywords    string
	Description string
	Application string
}

// --------------------------------------------------------------------------
// Styles
// --------------------------------------------------------------------------

// StyleType mirrors w:style/@w:type.
type StyleType int

const (
	StyleParagraph StyleType = iota
	StyleCharacter
	StyleTypeTable
	StyleTypeNumbering
)

// Style is one <w:style>, both in its raw (as-authored, sparse) and
// resolved (fully cascaded) forms. Resolve populates the latter.
type Style struct {
	ID      string
	Name    string
	Type    StyleType
	BasedOn string
	Next    string
	Default bool

	// Direct (as-authored) properties, sparse — nil fields inherit.
	ParaProps *ParagraphProperties
	RunProps  *RunProperties

	// Populated by StyleTable.resolve; cached so repeated lookups are
	// idempotent (§8.1 property 5).
	resolved        bool
	resolvedPara    ParagraphProperties
	resolvedRun     RunProperties
	inheritanceCut  bool // true if a basedOn cycle was detected and broken
}

// StyleTable is the document's full style catalog plus doc defaults.
type StyleTable struct {
	ByID              map[string]*Style
	DefaultParagraphID string
	DefaultCharacterID string
	DocDefaultsPara   ParagraphProperties
	DocDefaultsRun    RunProperties
}

// --------------------------------------------------------------------------
// Numbering
// --------------------------------------------------------------------------

// NumFormat mirrors w:numFmt/@w:val (the subset spec.md calls out, plus
// "none" for unnumbered placeholders).
type NumFormat string

const (
	NumDecimal         NumFormat = "decimal"
	NumUpperRoman      NumFormat = "upperRoman"
	NumLowerRoman      NumFormat = "lowerRoman"
	NumUpperLetter     NumFormat = "upperLetter"
	NumLowerLetter     NumFormat = "lowerLetter"
	NumBullet          NumFormat = "bullet"
	NumNone            NumFormat = "none"
)

// NumLevel is one level of an abstract numbering definition.
type NumLevel struct {
	ILvl       int
	Format     NumFormat
	StartAt    int
	LvlText    string // e.g. "%1.%2."
	IndentPt   float64
	HangingPt  float64
	MarkerFont string
	Restart    *int // w:lvlRestart: level at which this level's counter resets; nil = only resets on its own or a lower ilvl advancing
}

// AbstractNum is a reusable list definition (§GLOSSARY).
type AbstractNum struct {
	ID     int
	Levels map[int]*NumLevel
}

// LevelOverride is a per-concrete-num level customization (w:lvlOverride).
type LevelOverride struct {
	StartOverride *int
	Level         *NumLevel // non-nil if the whole level is replaced (w:lvl child)
}

// ConcreteNum is a w:num instance referencing an AbstractNum, with optional
// per-level overrides.
type ConcreteNum struct {
	NumID         int
	AbstractNumID int
	Overrides     map[int]*LevelOverride
}

// NumberingTable is the document's numbering.xml contents.
type NumberingTable struct {
	Abstracts map[int]*AbstractNum
	Concrete  map[int]*ConcreteNum
}

// EffectiveLevel resolves a (numId, ilvl) pair to the NumLevel in effect,
// applying any level override.
func (nt *NumberingTable) EffectiveLevel(numID, ilvl int) *NumLevel {
	cn, ok := nt.Concrete[numID]
	if !ok {
		return nil
	}
	an, ok := nt.Abstracts[cn.AbstractNumID]
	if !ok {
		return nil
	}
	lvl := an.Levels[ilvl]
	if ov, ok := cn.Overrides[ilvl]; ok {
		if ov.Level != nil {
			lvl = ov.Level
		} else if ov.StartOverride != nil && lvl != nil {
			cp := *lvl
			cp.StartAt = *ov.StartOverride
			lvl = &cp
		}
	}
	return lvl
}
