package wml

import (
	"os"
	"testing"

	"gopkg.in/yaml.v3"
)

// styleFixture is one entry of testdata/style_fixtures.yaml: the expected
// resolved paragraph/run properties for a style in the fixture package below.
type styleFixture struct {
	Name          string  `yaml:"name"`
	StyleID       string  `yaml:"style_id"`
	WantAlignment string  `yaml:"want_alignment"`
	WantBold      bool    `yaml:"want_bold"`
	WantSizePt    float64 `yaml:"want_size_pt"`
}

type styleFixtureFile struct {
	Cases []styleFixture `yaml:"cases"`
}

const goldenStylesXML = `<?xml version="1.0"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:docDefaults>
    <w:rPrDefault><w:rPr><w:sz w:val="22"/></w:rPr></w:rPrDefault>
  </w:docDefaults>
  <w:style w:type="paragraph" w:styleId="Normal" w:default="1">
    <w:name w:val="Normal"/>
    <w:pPr><w:jc w:val="left"/></w:pPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Heading1">
    <w:name w:val="heading 1"/>
    <w:basedOn w:val="Normal"/>
    <w:pPr><w:jc w:val="center"/></w:pPr>
    <w:rPr><w:b/><w:sz w:val="32"/></w:rPr>
  </w:style>
</w:styles>`

var alignmentByName = map[string]Alignment{
	"start":      AlignStart,
	"center":     AlignCenter,
	"end":        AlignEnd,
	"both":       AlignBoth,
	"distribute": AlignDistribute,
}

// TestParseStyles_GoldenCascade loads the style-id -> expected-resolution
// table from testdata/style_fixtures.yaml and checks it against the same
// based-on cascade exercised by TestParseStyles_BasedOnChain, so new cascade
// cases can be added to the fixture without touching this file.
func TestParseStyles_GoldenCascade(t *testing.T) {
	blob, err := os.ReadFile("testdata/style_fixtures.yaml")
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	var fixture styleFixtureFile
	if err := yaml.Unmarshal(blob, &fixture); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	if len(fixture.Cases) == 0 {
		t.Fatal("expected at least one fixture case")
	}

	st := mustParseStyles(t, goldenStylesXML)

	for _, c := range fixture.Cases {
		t.Run(c.Name, func(t *testing.T) {
			pp, rp, ok := st.Resolved(c.StyleID)
			if !ok {
				t.Fatalf("style %q not found", c.StyleID)
			}
			wantAlign, known := alignmentByName[c.WantAlignment]
			if !known {
				t.Fatalf("fixture has unknown alignment name %q", c.WantAlignment)
			}
			if pp.Alignment == nil || *pp.Alignment != wantAlign {
				t.Errorf("%s: alignment = %v, want %v", c.StyleID, pp.Alignment, wantAlign)
			}
			if rp.Bold != c.WantBold {
				t.Errorf("%s: bold = %v, want %v", c.StyleID, rp.Bold, c.WantBold)
			}
			if rp.SizePt != c.WantSizePt {
				t.Errorf("%s: size = %v, want %v", c.StyleID, rp.SizePt, c.WantSizePt)
			}
		})
	}
}
