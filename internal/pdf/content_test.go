package pdf

import (
	"strings"
	"testing"
)

func TestContentBuilderGraphicsOperators(t *testing.T) {
	cb := NewContentBuilder()
	cb.SaveState()
	cb.SetFillColorRGB(1, 0, 0.5)
	cb.Rect(10, 20, 100, 50)
	cb.Fill()
	cb.RestoreState()

	got := string(cb.Bytes())
	want := "q\n1 0 0.5 rg\n10 20 100 50 re\nf\nQ\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestContentBuilderTextOperators(t *testing.T) {
	cb := NewContentBuilder()
	cb.BeginText()
	cb.SetFont("F0", 12)
	cb.MoveTextTo(72, 700)
	cb.ShowTextCID([]uint16{0x0041, 0x0042})
	cb.EndText()

	got := string(cb.Bytes())
	want := "BT\n/F0 12 Tf\n72 700 Td\n<00410042> Tj\nET\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestContentBuilderDrawImageBracketsGraphicsState(t *testing.T) {
	cb := NewContentBuilder()
	cb.DrawImage("Im0", 10, 20, 30, 40)
	got := string(cb.Bytes())
	if !strings.HasPrefix(got, "q\n") || !strings.HasSuffix(got, "Q\n") {
		t.Fatalf("expected DrawImage to bracket q/Q, got %q", got)
	}
	if !strings.Contains(got, "30 0 0 40 10 20 cm\n") {
		t.Fatalf("expected scale/translate matrix, got %q", got)
	}
	if !strings.Contains(got, "/Im0 Do\n") {
		t.Fatalf("expected Do operator, got %q", got)
	}
}

func TestNumTrimsTrailingZeros(t *testing.T) {
	cases := map[float64]string{
		10:    "10",
		10.5:  "10.5",
		0:     "0",
		-3.25: "-3.25",
	}
	for in, want := range cases {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestCurveToEmitsCOperator(t *testing.T) {
	cb := NewContentBuilder()
	cb.CurveTo(1, 2, 3, 4, 5, 6)
	got := string(cb.Bytes())
	if got != "1 2 3 4 5 6 c\n" {
		t.Fatalf("got %q", got)
	}
}
