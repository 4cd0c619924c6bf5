package wml

import (
	"testing"

	"github.com/vortex/docpipe/internal/docerr"
)

func mustParseNumbering(t *testing.T, xml string) *NumberingTable {
	t.Helper()
	return parseNumbering([]byte(xml), &docerr.Diagnostics{})
}

func TestParseNumbering_AbstractAndConcrete(t *testing.T) {
	xml := `<?xml version="1.0"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:abstractNum w:abstractNumId="0">
    <w:lvl w:ilvl="0">
      <w:start w:val="1"/>
      <w:numFmt w:val="decimal"/>
      <w:lvlText w:val="%1."/>
      <w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr>
    </w:lvl>
    <w:lvl w:ilvl="1">
      <w:start w:val="1"/>
      <w:numFmt w:val="lowerLetter"/>
      <w:lvlText w:val="%1.%2."/>
    </w:lvl>
  </w:abstractNum>
  <w:num w:numId="1">
    <w:abstractNumId w:val="0"/>
  </w:num>
</w:numbering>`
	nt := mustParseNumbering(t, xml)

	an, ok := nt.Abstracts[0]
	if !ok {
		t.Fatal("abstractNum 0 not found")
	}
	lvl0 := an.Levels[0]
	if lvl0 == nil {
		t.Fatal("level 0 not found")
	}
	if lvl0.Format != NumDecimal {
		t.Errorf("level 0 format = %v, want decimal", lvl0.Format)
	}
	if lvl0.LvlText != "%1." {
		t.Errorf("level 0 lvlText = %q, want %%1.", lvl0.LvlText)
	}
	if lvl0.IndentPt != 36 { // 720 twips -> 36pt
		t.Errorf("level 0 indent = %v, want 36pt", lvl0.IndentPt)
	}
	if lvl0.HangingPt != 18 { // 360 twips -> 18pt
		t.Errorf("level 0 hanging = %v, want 18pt", lvl0.HangingPt)
	}

	cn, ok := nt.Concrete[1]
	if !ok {
		t.Fatal("num 1 not found")
	}
	if cn.AbstractNumID != 0 {
		t.Errorf("AbstractNumID = %d, want 0", cn.AbstractNumID)
	}

	eff := nt.EffectiveLevel(1, 1)
	if eff == nil || eff.Format != NumLowerLetter {
		t.Fatalf("EffectiveLevel(1,1) = %+v, want lowerLetter", eff)
	}
}

func TestParseNumbering_LevelOverrideStartOnly(t *testing.T) {
	xml := `<?xml version="1.0"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:abstractNum w:abstractNumId="0">
    <w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="decimal"/><w:lvlText w:val="%1."/></w:lvl>
  </w:abstractNum>
  <w:num w:numId="5">
    <w:abstractNumId w:val="0"/>
    <w:lvlOverride w:ilvl="0"><w:startOverride w:val="10"/></w:lvlOverride>
  </w:num>
</w:numbering>`
	nt := mustParseNumbering(t, xml)

	eff := nt.EffectiveLevel(5, 0)
	if eff == nil {
		t.Fatal("EffectiveLevel(5,0) is nil")
	}
	if eff.StartAt != 10 {
		t.Errorf("StartAt = %d, want 10 (from startOverride)", eff.StartAt)
	}
	if eff.Format != NumDecimal {
		t.Errorf("Format = %v, want decimal (unaffected by start-only override)", eff.Format)
	}
}

func TestParseNumbering_UnknownNumIDResolvesToNil(t *testing.T) {
	nt := mustParseNumbering(t, `<?xml version="1.0"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`)
	if eff := nt.EffectiveLevel(999, 0); eff != nil {
		t.Errorf("expected nil for an unknown numId, got %+v", eff)
	}
}

func TestParseNumbering_EmptyBlob(t *testing.T) {
	nt := mustParseNumbering(t, "")
	if len(nt.Abstracts) != 0 || len(nt.Concrete) != 0 {
		t.Error("expected empty tables from an empty blob")
	}
}
