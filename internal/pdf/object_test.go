package pdf

import (
	"bytes"
	"strings"
	"testing"
)

func render(v Value) string {
	var buf bytes.Buffer
	v.WritePDF(&buf)
	return buf.String()
}

func TestNameEscapesSpecialChars(t *testing.T) {
	got := render(Name("F 1"))
	if got != "/F#201" {
		t.Fatalf("got %q, want /F#201", got)
	}
}

func TestRealTrimsTrailingZeros(t *testing.T) {
	cases := map[float64]string{
		72.0:    "72",
		72.5:    "72.5",
		0:       "0",
		-12.25:  "-12.25",
		100.001: "100.001",
	}
	for in, want := range cases {
		if got := render(Real(in)); got != want {
			t.Errorf("Real(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestStringEscapesParensAndBackslash(t *testing.T) {
	got := render(String(`a(b)c\d`))
	want := `(a\(b\)c\\d)`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestHexStringUppercase(t *testing.T) {
	got := render(HexString([]byte{0x0a, 0xbc}))
	if got != "<0ABC>" {
		t.Fatalf("got %q, want <0ABC>", got)
	}
}

func TestDictKeysAreSortedForDeterminism(t *testing.T) {
	d := Dict{"Zebra": Int(1), "Apple": Int(2), "Mango": Int(3)}
	got := render(d)
	iA := strings.Index(got, "/Apple")
	iM := strings.Index(got, "/Mango")
	iZ := strings.Index(got, "/Zebra")
	if !(iA < iM && iM < iZ) {
		t.Fatalf("keys not sorted: %q", got)
	}
}

func TestArrayJoinsWithSpaces(t *testing.T) {
	got := render(Array{Int(1), Int(2), Int(3)})
	if got != "[1 2 3]" {
		t.Fatalf("got %q, want [1 2 3]", got)
	}
}

func TestStreamInjectsLength(t *testing.T) {
	s := &Stream{Dict: Dict{"Type": Name("Test")}, Data: []byte("hello")}
	got := render(s)
	if !strings.Contains(got, "/Length 5") {
		t.Fatalf("expected /Length 5 in %q", got)
	}
	if !strings.Contains(got, "stream\nhello\nendstream") {
		t.Fatalf("expected stream body in %q", got)
	}
}

func TestRefWritesIndirectReferenceSyntax(t *testing.T) {
	got := render(Ref(7))
	if got != "7 0 R" {
		t.Fatalf("got %q, want 7 0 R", got)
	}
}
