// Package font loads embeddable TrueType/OpenType font programs and
// exposes the metrics the layout stage needs for line breaking (§4.3 text
// shaping) and the glyph data the PDF compiler needs for embedding and
// subsetting (§6.2 font embedding).
package font

// Descriptor identifies a font the way WordprocessingML run properties
// name one: a family name plus the bold/italic style bits. It's the cache
// key the loader and the PDF font embedder both index by.
type Descriptor struct {
	Family string
	Bold   bool
	Italic bool
}

// fallbackChain is tried, in order, when a Descriptor's family isn't
// registered. "Go" (bootstrapDefaultFont's family name) comes first since
// every Cache has it from construction onward, making it the chain's actual
// always-available member; the rest are system/PDF base-14 names a caller's
// RegisterSystemFont/LoadFallbackDir may (or may not) have populated.
var fallbackChain = []string{"Go", "Helvetica", "Arial", "Liberation Sans", "DejaVu Sans"}
