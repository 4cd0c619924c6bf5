package wml

import "strings"

// The complex-field run sequence (w:fldChar type="begin"/"separate"/"end"
// interspersed with w:instrText and cached result runs) cannot be resolved
// while parsing a single w:r in isolation — the instruction text and the
// cached result are often split across several runs with different
// character properties. Parsing emits these transient marker RunItems
// while scanning each run, then collapseFields folds a whole span back
// into one FieldItem per paragraph-content pass (§4.2 Fields).
type fldCharBeginMarker struct{}
type fldCharSeparateMarker struct{}
type fldCharEndMarker struct{}
type instrTextMarker struct{ text string }

func (fldCharBeginMarker) runItem()    {}
func (fldCharSeparateMarker) runItem() {}
func (fldCharEndMarker) runItem()      {}
func (instrTextMarker) runItem()       {}

// classifyFieldKind maps a field instruction's leading keyword to the
// subset of fields the pipeline resolves itself; anything else keeps its
// cached ResultText as the rendered value (§4.2: "unsupported field codes
// fall back to their last cached result").
func classifyFieldKind(instr string) FieldKind {
	fields := strings.Fields(strings.TrimSpace(instr))
	if len(fields) == 0 {
		return FieldUnknown
	}
	switch strings.ToUpper(fields[0]) {
	case "PAGE":
		return FieldPage
	case "NUMPAGES":
		return FieldNumPages
	case "DATE":
		return FieldDate
	case "TIME":
		return FieldTime
	case "REF":
		return FieldRef
	case "TOC":
		return FieldTOC
	default:
		return FieldUnknown
	}
}

// collapseFields scans a sequence of runs belonging to one paragraph (or
// hyperlink) and replaces every complete begin/separate/end span with a
// single synthesized *Run carrying one FieldItem. Runs outside any field
// span pass through unchanged. A begin marker with no matching end still
// collapses into one FieldItem holding whatever instruction and cached
// result text was collected; items before the marker are kept, and
// nothing after it is emitted.
func collapseFields(runs []*Run) []*Run {
	out := make([]*Run, 0, len(runs))
	i := 0
	for i < len(runs) {
		r := runs[i]
		beginIdx := -1
		for idx, it := range r.Items {
			if _, ok := it.(fldCharBeginMarker); ok {
				beginIdx = idx
				break
			}
		}
		if beginIdx < 0 {
			out = append(out, r)
			i++
			continue
		}
		if beginIdx > 0 {
			out = append(out, &Run{Props: r.Props, Items: append([]RunItem{}, r.Items[:beginIdx]...)})
		}

		fieldProps := r.Props
		var instr, result strings.Builder
		phase := 0 // 0 = collecting instruction text, 1 = collecting cached result
		endRunIdx := -1
		endItemIdx := -1

		consume := func(items []RunItem) bool {
			for idx, it := range items {
				switch v := it.(type) {
				case fldCharSeparateMarker:
					phase = 1
				case fldCharEndMarker:
					endItemIdx = idx
					return true
				case instrTextMarker:
					instr.WriteString(v.text)
				case TextItem:
					if phase == 1 {
						result.WriteString(v.Text)
					}
				}
			}
			return false
		}

		if consume(r.Items[beginIdx+1:]) {
			endRunIdx = i
			// endItemIdx was computed against the sliced subslice; recompute
			// against the full run's Items for the remainder split below.
			endItemIdx += beginIdx + 1
		} else {
			j := i + 1
			for j < len(runs) {
				if consume(runs[j].Items) {
					endRunIdx = j
					break
				}
				j++
			}
		}

		kind := classifyFieldKind(instr.String())
		out = append(out, &Run{Props: fieldProps, Items: []RunItem{FieldItem{
			Kind:       kind,
			Instr:      strings.TrimSpace(instr.String()),
			ResultText: result.String(),
		}}})

		if endRunIdx < 0 {
			// Unterminated field: nothing more to emit, stop scanning this
			// sequence (malformed input, §7 degrades rather than aborts).
			return out
		}
		if endItemIdx >= 0 && endItemIdx+1 < len(runs[endRunIdx].Items) {
			out = append(out, &Run{Props: runs[endRunIdx].Props, Items: append([]RunItem{}, runs[endRunIdx].Items[endItemIdx+1:]...)})
		}
		i = endRunIdx + 1
	}
	return out
}
