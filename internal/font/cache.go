package font

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// defaultFallbackFamily names the face bootstrapDefaultFont registers: the
// Go Sans family bundled with golang.org/x/image, a Unicode-capable
// sans-serif covering Latin, Cyrillic, and Greek well beyond Latin-1.
const defaultFallbackFamily = "Go"

// Cache loads and memoizes Faces by Descriptor. Document-embedded fonts
// (from a DOCX package's /word/fonts/ parts, when present) are registered
// directly; everything else resolves through RegisterSystemFont or falls
// back to the built-in substitute chain so a missing font never aborts
// layout (§7 degrade policy).
type Cache struct {
	mu    sync.Mutex
	faces map[Descriptor]*Face
	// byFamily holds one already-loaded Face per family name regardless of
	// style, used when an exact bold/italic match isn't registered: the
	// layout stage still needs *a* face to measure with.
	byFamily map[string]*Face
}

// NewCache returns a font cache pre-seeded with the bundled Go Sans family
// (see bootstrapDefaultFont), so Resolve always has a Unicode-capable
// sans-serif to fall back to even before any document-embedded or system
// font is registered (§7 degrade policy; spec.md's default-chain
// requirement).
func NewCache() *Cache {
	c := &Cache{
		faces:    make(map[Descriptor]*Face),
		byFamily: make(map[string]*Face),
	}
	c.bootstrapDefaultFont()
	return c
}

// bootstrapDefaultFont registers all four Go Sans styles under
// defaultFallbackFamily. The bundled font program is a fixed binary shipped
// with golang.org/x/image; a parse failure here means that module itself
// is broken, not a recoverable runtime condition, so it panics rather than
// leaving the cache silently without its one guaranteed fallback.
func (c *Cache) bootstrapDefaultFont() {
	variants := []struct {
		data         []byte
		bold, italic bool
	}{
		{goregular.TTF, false, false},
		{gobold.TTF, true, false},
		{goitalic.TTF, false, true},
		{gobolditalic.TTF, true, true},
	}
	for _, v := range variants {
		d := Descriptor{Family: defaultFallbackFamily, Bold: v.bold, Italic: v.italic}
		if err := c.Register(v.data, d); err != nil {
			panic(fmt.Sprintf("font: bootstrap default font %+v: %v", d, err))
		}
	}
}

// Register adds a font program under the given descriptor, replacing any
// face previously registered for it.
func (c *Cache) Register(data []byte, d Descriptor) error {
	f, err := LoadFace(data, d)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faces[d] = f
	if _, ok := c.byFamily[d.Family]; !ok {
		c.byFamily[d.Family] = f
	}
	return nil
}

// Resolve returns the best available Face for d: an exact match, then the
// same family in any style, then each entry of the built-in fallback
// chain, in order. It only returns an error when nothing in the fallback
// chain is registered either, meaning the cache has no usable font at all.
func (c *Cache) Resolve(d Descriptor) (*Face, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.faces[d]; ok {
		return f, nil
	}
	if f, ok := c.byFamily[d.Family]; ok {
		return f, nil
	}
	for _, fallback := range fallbackChain {
		if f, ok := c.byFamily[fallback]; ok {
			return f, nil
		}
	}
	return nil, fmt.Errorf("font: no face registered for %q and no fallback available", d.Family)
}

// RegisterSystemFont loads a single TrueType/OpenType file from disk and
// registers it under a Descriptor derived from its filename, since system
// font collections rarely carry anything richer to key off without a full
// name-table walk.
func (c *Cache) RegisterSystemFont(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("font: read %q: %w", path, err)
	}
	return c.Register(data, descriptorFromFilename(path))
}

// LoadFallbackDir registers every .ttf/.otf/.ttc file found directly in dir
// (non-recursive) as a fallback font. One unreadable or unparsable file
// doesn't stop the rest: a partially populated fallback chain is better
// than failing startup outright (§7 degrade policy).
func (c *Cache) LoadFallbackDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("font: read fallback dir %q: %w", dir, err)
	}
	var errs error
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".ttf", ".otf", ".ttc":
		default:
			continue
		}
		if err := c.RegisterSystemFont(filepath.Join(dir, ent.Name())); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// descriptorFromFilename guesses a font's family/bold/italic from common
// naming conventions ("Arial-BoldItalic.ttf", "DejaVuSans Bold.ttf").
func descriptorFromFilename(path string) Descriptor {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	lower := strings.ToLower(base)
	bold := strings.Contains(lower, "bold")
	italic := strings.Contains(lower, "italic") || strings.Contains(lower, "oblique")

	family := base
	for _, suffix := range []string{
		"-BoldItalic", "-BoldOblique", " Bold Italic", " BoldItalic",
		"-Bold", "-Italic", "-Oblique", " Bold", " Italic", " Oblique",
	} {
		if strings.HasSuffix(family, suffix) {
			family = strings.TrimSuffix(family, suffix)
		}
	}
	return Descriptor{Family: strings.TrimSpace(family), Bold: bold, Italic: italic}
}

// Families reports every family name currently registered, in no
// particular order.
func (c *Cache) Families() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.byFamily))
	for name := range c.byFamily {
		names = append(names, name)
	}
	return names
}
