package layout

import (
	"testing"

	"github.com/vortex/docpipe/internal/font"
	"github.com/vortex/docpipe/internal/wml"
)

func wordAtom(text string, width float64) atom {
	return atom{kind: atomWord, text: text, width: width, ascent: 10, descent: 2}
}

func spaceAtom(width float64) atom {
	return atom{kind: atomSpace, text: " ", width: width, ascent: 10, descent: 2}
}

func TestBreakParagraphGreedyFit(t *testing.T) {
	// "aa bb cc" with each word 10pt wide and spaces 5pt wide, available
	// width 25pt: "aa bb" fits (10+5+10=25), "cc" wraps to its own line.
	atoms := []atom{
		wordAtom("aa", 10), spaceAtom(5), wordAtom("bb", 10), spaceAtom(5), wordAtom("cc", 10),
	}
	pl := BreakParagraph(atoms, wml.ParagraphProperties{}, 25)
	if len(pl.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(pl.Lines))
	}
	if len(pl.Lines[0].Items) != 3 {
		t.Fatalf("line 0 has %d items, want 3 (aa, space, bb)", len(pl.Lines[0].Items))
	}
	if len(pl.Lines[1].Items) != 1 {
		t.Fatalf("line 1 has %d items, want 1 (cc)", len(pl.Lines[1].Items))
	}
}

func TestBreakParagraphOverwideAtomGetsOwnLine(t *testing.T) {
	atoms := []atom{wordAtom("averylongunbreakableword", 500)}
	pl := BreakParagraph(atoms, wml.ParagraphProperties{}, 100)
	if len(pl.Lines) != 1 {
		t.Fatalf("got %d lines, want 1 (overflow allowed, no infinite loop)", len(pl.Lines))
	}
}

func TestJustifyLastLineNotJustified(t *testing.T) {
	align := wml.AlignBoth
	atoms := []atom{
		wordAtom("aa", 10), spaceAtom(5), wordAtom("bb", 10), spaceAtom(5), wordAtom("cc", 10),
	}
	pl := BreakParagraph(atoms, wml.ParagraphProperties{Alignment: &align}, 25)
	// Line 0 (non-terminal, "aa bb") already fills the 25pt width exactly,
	// so justification has no slack to add to it; line 1 (the paragraph's
	// last line) must not be stretched since it's a single atom with
	// nothing to justify.
	if len(pl.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(pl.Lines))
	}
	last := pl.Lines[1]
	if len(last.Items) != 1 || last.Items[0].X != 0 {
		t.Fatalf("last line should be untouched single item at x=0, got %+v", last.Items)
	}
}

func TestJustifyDistributesSlackAcrossGaps(t *testing.T) {
	align := wml.AlignBoth
	atoms := []atom{
		wordAtom("aa", 10), spaceAtom(5), wordAtom("bb", 10), spaceAtom(5), wordAtom("cc", 10),
		atomBreakItem(), wordAtom("dd", 10), // force a second line so the first is non-terminal
	}
	pl := BreakParagraph(atoms, wml.ParagraphProperties{Alignment: &align}, 50)
	if len(pl.Lines) < 2 {
		t.Fatalf("expected a forced second line, got %d", len(pl.Lines))
	}
	line0 := pl.Lines[0]
	// Natural width is 10+5+10+5+10=40, available 50: 10pt slack over two
	// gaps, 5pt each. The second "bb" (index 2) should start at
	// 10 + (5+5) = 20, not its natural 15.
	if len(line0.Items) < 3 {
		t.Fatalf("line 0 has %d items, want at least 3", len(line0.Items))
	}
	if got := line0.Items[2].X; got <= 15 {
		t.Errorf("justified second word x = %v, want > 15 (stretched gap)", got)
	}
}

func atomBreakItem() atom {
	return atom{kind: atomBreak, breakType: wml.BreakTypeLine}
}

const testNbspRune = rune(0xA0)

func TestNbspNeverBreaks(t *testing.T) {
	s := NewShaper(font.NewCache())
	text := string([]rune{'a', testNbspRune, 'b'})
	atoms := s.tokenizeText(text, wml.RunProperties{SizePt: 12})
	foundNbsp := false
	for _, a := range atoms {
		if a.kind == atomSpace && a.text == string(testNbspRune) {
			foundNbsp = true
			if !a.noWrap {
				t.Errorf("nbsp atom must be noWrap")
			}
		}
	}
	if !foundNbsp {
		t.Fatalf("expected a standalone nbsp atom, got %+v", atoms)
	}
}

func TestOrdinaryWhitespaceIsBreakable(t *testing.T) {
	s := NewShaper(font.NewCache())
	text := string([]rune{'a', ' ', 'b'})
	atoms := s.tokenizeText(text, wml.RunProperties{SizePt: 12})
	for _, a := range atoms {
		if a.kind == atomSpace && a.noWrap {
			t.Errorf("ordinary space must not be noWrap")
		}
	}
}
