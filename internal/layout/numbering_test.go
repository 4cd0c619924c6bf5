package layout

import (
	"testing"

	"github.com/vortex/docpipe/internal/wml"
)

func simpleTable() *wml.NumberingTable {
	return &wml.NumberingTable{
		Abstracts: map[int]*wml.AbstractNum{
			1: {
				ID: 1,
				Levels: map[int]*wml.NumLevel{
					0: {ILvl: 0, Format: wml.NumDecimal, StartAt: 1, LvlText: "%1."},
					1: {ILvl: 1, Format: wml.NumLowerLetter, StartAt: 1, LvlText: "%1.%2."},
				},
			},
		},
		Concrete: map[int]*wml.ConcreteNum{
			100: {NumID: 100, AbstractNumID: 1},
		},
	}
}

func TestNumberingAdvanceIncrement(t *testing.T) {
	nr := NewNumberingResolver(simpleTable())
	if got := nr.Advance(100, 0); got != "1." {
		t.Fatalf("first advance = %q, want 1.", got)
	}
	if got := nr.Advance(100, 0); got != "2." {
		t.Fatalf("second advance = %q, want 2.", got)
	}
}

func TestNumberingResetsDeeperLevel(t *testing.T) {
	nr := NewNumberingResolver(simpleTable())
	nr.Advance(100, 0)
	if got := nr.Advance(100, 1); got != "1.a." {
		t.Fatalf("nested advance = %q, want 1.a.", got)
	}
	nr.Advance(100, 1)
	if got := nr.Advance(100, 0); got != "2." {
		t.Fatalf("level-0 advance = %q, want 2.", got)
	}
	if got := nr.Advance(100, 1); got != "2.a." {
		t.Fatalf("level-1 should restart after level-0 advanced, got %q, want 2.a.", got)
	}
}

func TestNumberingUnknownNumIDReturnsEmpty(t *testing.T) {
	nr := NewNumberingResolver(simpleTable())
	if got := nr.Advance(999, 0); got != "" {
		t.Fatalf("unknown numId advance = %q, want empty", got)
	}
}

func TestToRoman(t *testing.T) {
	cases := map[int]string{1: "I", 4: "IV", 9: "IX", 14: "XIV", 40: "XL", 1994: "MCMXCIV"}
	for n, want := range cases {
		if got := toRoman(n, true); got != want {
			t.Errorf("toRoman(%d) = %q, want %q", n, got, want)
		}
	}
	if got := toRoman(4, false); got != "iv" {
		t.Errorf("toRoman(4, lower) = %q, want iv", got)
	}
}

func TestToAlpha(t *testing.T) {
	cases := map[int]string{1: "A", 26: "Z", 27: "AA", 28: "AB", 52: "AZ"}
	for n, want := range cases {
		if got := toAlpha(n, true); got != want {
			t.Errorf("toAlpha(%d) = %q, want %q", n, got, want)
		}
	}
}
