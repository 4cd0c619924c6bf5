package color

import "testing"

func TestParseHex(t *testing.T) {
	cases := []struct {
		in   string
		want RGB
	}{
		{"", RGB{Auto: true}},
		{"auto", RGB{Auto: true}},
		{"FF0000", RGB{R: 255}},
		{"00ff00", RGB{G: 255}},
		{"0000FF", RGB{B: 255}},
		{"ffffff", RGB{R: 255, G: 255, B: 255}},
	}
	for _, c := range cases {
		got, err := ParseHex(c.in)
		if err != nil {
			t.Errorf("ParseHex(%q) error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseHex(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestParseHex_InvalidLength(t *testing.T) {
	if _, err := ParseHex("FFF"); err == nil {
		t.Error("expected an error for a 3-digit hex string")
	}
}

func TestParseHex_InvalidDigits(t *testing.T) {
	if _, err := ParseHex("ZZZZZZ"); err == nil {
		t.Error("expected an error for non-hex digits")
	}
}

func TestRGB_Floats(t *testing.T) {
	r, g, b := RGB{R: 255, G: 0, B: 128}.Floats()
	if r != 1.0 {
		t.Errorf("r = %v, want 1.0", r)
	}
	if g != 0.0 {
		t.Errorf("g = %v, want 0.0", g)
	}
	want := 128.0 / 255.0
	if b != want {
		t.Errorf("b = %v, want %v", b, want)
	}
}

func TestHighlight_RGB(t *testing.T) {
	if got := HighlightYellow.RGB(); got != (RGB{R: 255, G: 255, B: 0}) {
		t.Errorf("HighlightYellow.RGB() = %+v, want yellow", got)
	}
	if got := HighlightNone.RGB(); !got.Auto {
		t.Errorf("HighlightNone.RGB() = %+v, want Auto", got)
	}
	if got := Highlight("nonsense").RGB(); !got.Auto {
		t.Errorf("unknown highlight should fall back to Auto, got %+v", got)
	}
}
