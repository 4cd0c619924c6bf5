package layout

import (
	"strconv"
	"strings"

	"github.com/vortex/docpipe/internal/wml"
)

// NumberingResolver is the finite state machine §9's design notes call
// for: counters keyed by (numId, level) are the state, each numbered
// paragraph is an event, and the transition rule is "increment the
// paragraph's level, reset every deeper level to its configured start".
// State lives for one pipeline run and is never exposed across documents.
type NumberingResolver struct {
	table    *wml.NumberingTable
	counters map[numKey]int
	started  map[numKey]bool
}

type numKey struct {
	numID int
	ilvl  int
}

// NewNumberingResolver returns a resolver over a document's numbering
// table, with all counters unstarted.
func NewNumberingResolver(table *wml.NumberingTable) *NumberingResolver {
	return &NumberingResolver{
		table:    table,
		counters: make(map[numKey]int),
		started:  make(map[numKey]bool),
	}
}

// Advance resolves a paragraph's (numId, ilvl) to its marker text,
// mutating the counter state: the counter at ilvl increments (or starts at
// the level's StartAt on first use), and every deeper level's counter
// resets so it restarts at its own StartAt next time it's reached.
func (nr *NumberingResolver) Advance(numID, ilvl int) string {
	if nr.table == nil {
		return ""
	}
	lvl := nr.table.EffectiveLevel(numID, ilvl)
	if lvl == nil {
		return ""
	}

	key := numKey{numID, ilvl}
	if nr.started[key] {
		nr.counters[key]++
	} else {
		nr.counters[key] = lvl.StartAt
		nr.started[key] = true
	}

	nr.resetDeeperLevels(numID, ilvl)

	return nr.renderLevelText(numID, ilvl, lvl)
}

// resetDeeperLevels clears every counter at a level greater than ilvl so
// it restarts at its own StartAt the next time a paragraph reaches it,
// per spec.md §4.2's "all counters at level > L reset to their configured
// start-at".
func (nr *NumberingResolver) resetDeeperLevels(numID, ilvl int) {
	for key := range nr.started {
		if key.numID == numID && key.ilvl > ilvl {
			delete(nr.started, key)
			delete(nr.counters, key)
		}
	}
}

// renderLevelText substitutes %1, %2, ... placeholders in lvl.LvlText
// with the current counter value (or its configured StartAt if a
// shallower level was never reached) at each referenced level, formatted
// per that level's own NumFormat.
func (nr *NumberingResolver) renderLevelText(numID, ilvl int, lvl *wml.NumLevel) string {
	var b strings.Builder
	text := lvl.LvlText
	for i := 0; i < len(text); i++ {
		if text[i] == '%' && i+1 < len(text) && text[i+1] >= '1' && text[i+1] <= '9' {
			level := int(text[i+1] - '1')
			b.WriteString(nr.formatLevelValue(numID, level))
			i++
			continue
		}
		b.WriteByte(text[i])
	}
	return b.String()
}

func (nr *NumberingResolver) formatLevelValue(numID, level int) string {
	key := numKey{numID, level}
	n, ok := nr.counters[key]
	if !ok {
		if lvl := nr.table.EffectiveLevel(numID, level); lvl != nil {
			n = lvl.StartAt
		} else {
			n = 1
		}
	}
	lvl := nr.table.EffectiveLevel(numID, level)
	format := wml.NumDecimal
	if lvl != nil {
		format = lvl.Format
	}
	return formatCounter(n, format)
}

func formatCounter(n int, format wml.NumFormat) string {
	switch format {
	case wml.NumUpperRoman:
		return toRoman(n, true)
	case wml.NumLowerRoman:
		return toRoman(n, false)
	case wml.NumUpperLetter:
		return toAlpha(n, true)
	case wml.NumLowerLetter:
		return toAlpha(n, false)
	case wml.NumBullet:
		return "•"
	case wml.NumNone:
		return ""
	default:
		return strconv.Itoa(n)
	}
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func toRoman(n int, upper bool) string {
	if n <= 0 {
		n = 1
	}
	var b strings.Builder
	for _, rt := range romanTable {
		for n >= rt.value {
			b.WriteString(rt.symbol)
			n -= rt.value
		}
	}
	s := b.String()
	if !upper {
		s = strings.ToLower(s)
	}
	return s
}

// toAlpha renders n (1-based) as a bijective base-26 letter sequence:
// 1="A", 26="Z", 27="AA", matching Word's upperLetter/lowerLetter formats.
func toAlpha(n int, upper bool) string {
	if n <= 0 {
		n = 1
	}
	var letters []byte
	for n > 0 {
		n--
		letters = append([]byte{byte('A' + n%26)}, letters...)
		n /= 26
	}
	s := string(letters)
	if !upper {
		s = strings.ToLower(s)
	}
	return s
}
