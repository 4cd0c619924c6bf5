// Package jsonexport renders a layout.UnifiedLayout as the optimized
// UnifiedLayout JSON document (§6.3): a compact, short-keyed schema meant
// for an AI caller to round-trip cheaply against, not a mirror of the
// internal Go types. Marshaling goes through json-iterator/go
// (github.com/json-iterator/go), the same faster encoding/json substitute
// YaoApp-gou wires its own config/schema JSON through.
package jsonexport

// document is the root of the exported JSON (§6.3's schema).
type document struct {
	Version  string       `json:"version"`
	Format   string       `json:"format"`
	Metadata metadataJSON `json:"metadata"`
	Styles   []styleJSON  `json:"styles"`
	Media    []mediaJSON  `json:"media"`
	Pages    []pageJSON   `json:"pages"`
}

type metadataJSON struct {
	TotalPages int    `json:"total_pages"`
	Source     string `json:"source"`
}

// styleJSON is one deduplicated entry in the styles table. Every block
// that shares the same property set (via styleKey) points at the same
// index.
type styleJSON struct {
	StyleName string       `json:"style_name,omitempty"`
	Font      string       `json:"font,omitempty"`
	Size      float64      `json:"size,omitempty"`
	Alignment string       `json:"alignment,omitempty"`
	Spacing   [2]float64   `json:"spacing,omitempty"`
	Borders   *bordersJSON `json:"borders,omitempty"`
	Shading   *shadingJSON `json:"shading,omitempty"`
}

type borderEdgeJSON struct {
	Style string  `json:"style"`
	Width float64 `json:"width"`
	Color string  `json:"color"`
}

type bordersJSON struct {
	Top    *borderEdgeJSON `json:"top,omitempty"`
	Bottom *borderEdgeJSON `json:"bottom,omitempty"`
	Left   *borderEdgeJSON `json:"left,omitempty"`
	Right  *borderEdgeJSON `json:"right,omitempty"`
}

type shadingJSON struct {
	Fill string `json:"fill"`
}

// mediaJSON is one entry in the media table, referenced by index from a
// block's image content rather than inlined (§6.3 invariant: "media
// entries are referenced by index, never inlined").
type mediaJSON struct {
	Path   string `json:"path"`
	RelID  string `json:"rel_id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type pageJSON struct {
	N       int         `json:"n"`
	Size    [2]float64  `json:"size"`
	Margins [4]float64  `json:"margins"`
	Blocks  []blockJSON `json:"blocks"`
	Headers []int       `json:"h"`
	Footers []int       `json:"f"`
}

type blockJSON struct {
	Frame [4]float64  `json:"f"`
	Type  string      `json:"t"`
	Style int         `json:"s"`
	Cont  interface{} `json:"c,omitempty"`
	UID   string      `json:"uid,omitempty"`
	Seq   int         `json:"seq"`
}

// paragraphContent is the "c" payload of a paragraph/header/footer block.
type paragraphContent struct {
	Text string `json:"text"`
}

// tableContent is the "c" payload of a table block.
type tableContent struct {
	Columns []float64 `json:"cols"`
	Rows    int       `json:"rows"`
}

// imageContent is the "c" payload of an image block.
type imageContent struct {
	Media    int     `json:"media"` // index into document.Media, -1 if unresolved
	WidthPt  float64 `json:"w"`
	HeightPt float64 `json:"h"`
}

// footnotesContent is the "c" payload of a footnotes block.
type footnotesContent struct {
	Notes []footnoteJSON `json:"notes"`
}

type footnoteJSON struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}
