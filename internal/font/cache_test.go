package font

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestCacheResolveFallsBackToBundledDefault(t *testing.T) {
	c := NewCache()
	f, err := c.Resolve(Descriptor{Family: "Nonexistent"})
	if err != nil {
		t.Fatalf("Resolve: %v, want the bundled Go Sans fallback instead of an error", err)
	}
	if f.Descriptor.Family != defaultFallbackFamily {
		t.Errorf("got family %q, want the bundled %q fallback", f.Descriptor.Family, defaultFallbackFamily)
	}
}

func TestCacheResolveExactMatchBeatsBundledDefault(t *testing.T) {
	c := NewCache()
	if err := c.Register(goregular.TTF, Descriptor{Family: "Calibri"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	f, err := c.Resolve(Descriptor{Family: "Calibri"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.Descriptor.Family != "Calibri" {
		t.Errorf("got family %q, want Calibri (an exact match should win over the bundled default)", f.Descriptor.Family)
	}
}

func TestCacheResolveFallsBackToFamily(t *testing.T) {
	c := NewCache()
	c.byFamily["Calibri"] = &Face{Descriptor: Descriptor{Family: "Calibri"}}
	f, err := c.Resolve(Descriptor{Family: "Calibri", Bold: true})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.Descriptor.Family != "Calibri" {
		t.Errorf("got family %q, want Calibri", f.Descriptor.Family)
	}
}

func TestIsComplexScript(t *testing.T) {
	cases := map[string]bool{
		"Latn": false,
		"":     false,
		"Arab": true,
		"Hebr": true,
		"Deva": true,
	}
	for script, want := range cases {
		if got := IsComplexScript(script); got != want {
			t.Errorf("IsComplexScript(%q) = %v, want %v", script, got, want)
		}
	}
}
