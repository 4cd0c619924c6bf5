package layout

import (
	"github.com/vortex/docpipe/internal/wml"
)

const defaultTabWidthPt = 36.0 // 0.5in, Word's own default tab stop

// BreakParagraph runs the greedy first-fit line-breaking algorithm over a
// paragraph's measured atom sequence (§4.3); see breakIntoLines for where
// lines end. Justification is applied to every non-terminal line of a
// justified, multi-line paragraph after breaking.
func BreakParagraph(atoms []atom, props wml.ParagraphProperties, availableWidth float64) *ParagraphLayout {
	lines := breakIntoLines(atoms, props, availableWidth)
	pl := &ParagraphLayout{Lines: make([]Line, 0, len(lines))}

	baselineY := 0.0
	for i, lineAtoms := range lines {
		line := positionLine(lineAtoms, props, availableWidth)
		isLast := i == len(lines)-1
		if props.Alignment != nil && *props.Alignment == wml.AlignBoth && !isLast && len(lines) > 1 {
			justifyLine(&line, availableWidth)
		} else {
			alignLine(&line, props, availableWidth)
		}
		lineHeight := line.Height
		baselineAscent := lineAscent(lineAtoms)
		line.BaselineY = baselineY + baselineAscent
		baselineY += lineHeight
		pl.Lines = append(pl.Lines, line)
	}
	return pl
}

// breakIntoLines groups atoms into per-line slices without yet computing
// x positions. A line ends before the first atom that would overflow it,
// whatever that atom's kind: an overflowing breakable space is consumed,
// and any other atom, a no-break space or hyphen included, starts the
// next line. Atoms are not grouped into words, so a line can also end
// between the atoms of a word split across runs. A soft hyphen atom's
// width counts toward the line wherever it falls; positionLine draws it
// only where it ends a line.
func breakIntoLines(atoms []atom, props wml.ParagraphProperties, availableWidth float64) [][]atom {
	var lines [][]atom
	var current []atom
	var currentWidth float64

	flush := func() {
		if len(current) > 0 {
			lines = append(lines, current)
		}
		current = nil
		currentWidth = 0
	}

	for i := 0; i < len(atoms); i++ {
		a := atoms[i]
		if a.kind == atomBreak {
			if a.breakType == wml.BreakTypeLine {
				flush()
				continue
			}
			// Page/column breaks are handled by the paginator, which reads
			// them back out of the original run stream; here they just end
			// the current line like a hard line break so layout doesn't
			// run two logical lines together.
			flush()
			continue
		}

		w := a.width
		if a.kind == atomTab {
			w = nextTabStop(currentWidth, props.Tabs, defaultTabWidthPt) - currentWidth
		}

		if len(current) > 0 && currentWidth+w > availableWidth {
			flush()
			if a.kind == atomSpace && !a.noWrap {
				// The space itself is the break point: it's consumed, not
				// carried over to start the next line.
				continue
			}
		}
		current = append(current, a)
		currentWidth += w

		// A single atom wider than the available width becomes its own
		// line and is allowed to overflow (§4.3 edge cases) — never loop
		// waiting for it to fit.
		if currentWidth > availableWidth && len(current) == 1 {
			flush()
		}
	}
	flush()
	if len(lines) == 0 {
		lines = [][]atom{{}}
	}
	return lines
}

func nextTabStop(x float64, tabs []wml.TabStop, defaultWidth float64) float64 {
	for _, t := range tabs {
		if t.PositionPt > x {
			return t.PositionPt
		}
	}
	n := int(x/defaultWidth) + 1
	return float64(n) * defaultWidth
}

// positionLine assigns x offsets (before justification/alignment shift) to
// every atom in order, whitespace included (a soft hyphen only when it
// ends the line), and sets the line's height.
func positionLine(atoms []atom, props wml.ParagraphProperties, availableWidth float64) Line {
	line := Line{AvailableWidth: availableWidth}
	x := 0.0
	for i, a := range atoms {
		if a.kind == atomBreak {
			continue
		}
		if a.kind == atomSoftHyphen && i < len(atoms)-1 {
			continue
		}
		box := InlineBox{X: x, Width: a.width, Ascent: a.ascent, Descent: a.descent}
		switch a.kind {
		case atomImage:
			box.Kind = KindInlineImage
			box.Data = &a.image
		case atomField:
			box.Kind = KindField
			box.Data = &a.field
		default:
			box.Kind = KindTextRun
			box.Data = &TextRunData{Text: a.text, Props: a.props}
		}
		line.Items = append(line.Items, box)
		x += a.width
	}
	line.Height = lineHeight(atoms)
	return line
}

func lineAscent(atoms []atom) float64 {
	var max float64
	for _, a := range atoms {
		if a.ascent > max {
			max = a.ascent
		}
	}
	return max
}

func lineHeight(atoms []atom) float64 {
	var ascent, descent float64
	for _, a := range atoms {
		if a.ascent > ascent {
			ascent = a.ascent
		}
		if a.descent > descent {
			descent = a.descent
		}
	}
	if ascent == 0 && descent == 0 {
		return 0
	}
	return ascent + descent
}

// alignLine shifts every item's x by a fixed offset for center/end
// alignment; start alignment is a no-op since positionLine already lays
// items out from x=0.
func alignLine(line *Line, props wml.ParagraphProperties, availableWidth float64) {
	if props.Alignment == nil {
		return
	}
	natural := lineNaturalWidth(*line)
	var shift float64
	switch *props.Alignment {
	case wml.AlignCenter:
		shift = (availableWidth - natural) / 2
	case wml.AlignEnd:
		shift = availableWidth - natural
	default:
		return
	}
	if shift <= 0 {
		return
	}
	for i := range line.Items {
		line.Items[i].X += shift
	}
}

func lineNaturalWidth(line Line) float64 {
	if len(line.Items) == 0 {
		return 0
	}
	last := line.Items[len(line.Items)-1]
	return last.X + last.Width
}

// justifyLine distributes availableWidth-natural_width across inter-word
// gaps, weighted 1.0 per gap, excluding leading/trailing whitespace
// (§4.3, §8.1 property 3). Single-atom lines have no gap to stretch and
// are left as-is, matching "single-line paragraphs are not justified"
// degrading gracefully to "no gap available" for a one-atom final line.
func justifyLine(line *Line, availableWidth float64) {
	if len(line.Items) < 2 {
		return
	}
	natural := lineNaturalWidth(*line)
	slack := availableWidth - natural
	if slack <= 0 {
		return
	}

	// Count interior whitespace gaps: a KindTextRun item whose Data.Text
	// is entirely whitespace, excluding the first and last item.
	var gaps []int
	for i := 1; i < len(line.Items)-1; i++ {
		if trd, ok := line.Items[i].Data.(*TextRunData); ok && isAllSpace(trd.Text) {
			gaps = append(gaps, i)
		}
	}
	if len(gaps) == 0 {
		return
	}
	perGap := slack / float64(len(gaps))
	var shift float64
	for i := range line.Items {
		line.Items[i].X += shift
		for _, g := range gaps {
			if g == i {
				shift += perGap
				break
			}
		}
	}
}

func isAllSpace(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != ' ' && r != '\t' && r != nbspRune {
			return false
		}
	}
	return true
}
