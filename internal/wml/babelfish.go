package wml

// BabelFish translates style names between their UI form ("Heading 1") and
// their internal styles.xml form ("heading 1"), exactly as Word does for a
// handful of built-in styles. Ported verbatim from the teacher's
// oxml.BabelFish (go-docx/pkg/docx/oxml/babelfish.go) — it is a static
// table, equally correct for a reader as for a writer.
var babelFishAliases = [][2]string{
	{"Caption", "caption"},
	{"Footer", "footer"},
	{"Header", "header"},
	{"Heading 1", "heading 1"},
	{"Heading 2", "heading 2"},
	{"Heading 3", "heading 3"},
	{"Heading 4", "heading 4"},
	{"Heading 5", "heading 5"},
	{"Heading 6", "heading 6"},
	{"Heading 7", "heading 7"},
	{"Heading 8", "heading 8"},
	{"Heading 9", "heading 9"},
}

var (
	ui2internalMap = buildUI2InternalMap()
	internal2uiMap = buildInternal2UIMap()
)

func buildUI2InternalMap() map[string]string {
	m := make(map[string]string, len(babelFishAliases))
	for _, a := range babelFishAliases {
		m[a[0]] = a[1]
	}
	return m
}

func buildInternal2UIMap() map[string]string {
	m := make(map[string]string, len(babelFishAliases))
	for _, a := range babelFishAliases {
		m[a[1]] = a[0]
	}
	return m
}

// UI2Internal converts a UI style name to its internal/styles.xml form.
func UI2Internal(name string) string {
	if v, ok := ui2internalMap[name]; ok {
		return v
	}
	return name
}

// Internal2UI converts an internal styles.xml name to its UI form.
func Internal2UI(name string) string {
	if v, ok := internal2uiMap[name]; ok {
		return v
	}
	return name
}
