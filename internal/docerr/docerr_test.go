package docerr

import (
	"errors"
	"testing"
)

func TestTypedErrorsUnwrap(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	err := NewInvalidPackageError(cause, "opening %s", "doc.docx")

	var ipe *InvalidPackageError
	if !errors.As(err, &ipe) {
		t.Fatal("errors.As should find the InvalidPackageError")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should traverse Unwrap to the cause")
	}
	if err.Error() != "opening doc.docx" {
		t.Errorf("Error() = %q, want %q", err.Error(), "opening doc.docx")
	}
}

func TestInvariantViolationErrorCarriesElementID(t *testing.T) {
	err := NewInvariantViolationError("paragraph must have a style", "p42")
	if err.SourceElementID != "p42" {
		t.Errorf("SourceElementID = %q, want p42", err.SourceElementID)
	}
	if err.Invariant != "paragraph must have a style" {
		t.Errorf("Invariant = %q, want the passed invariant text", err.Invariant)
	}
}

func TestDiagnosticsAddAndHasFatal(t *testing.T) {
	var d Diagnostics
	if d.HasFatal() {
		t.Error("empty Diagnostics should not report fatal")
	}

	d.Warn(StageParse, "r7", "unsupported field type %q", "MACROBUTTON")
	if d.HasFatal() {
		t.Error("a warning-only entry should not count as fatal")
	}

	d.Add(SeverityError, StageLayout, "", "table exceeds page width")
	if !d.HasFatal() {
		t.Error("an added error-severity entry should make HasFatal true")
	}

	entries := d.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ElementID != "r7" || entries[0].Stage != StageParse {
		t.Errorf("entries[0] = %+v, want ElementID=r7 Stage=parse", entries[0])
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Severity: SeverityWarning, Stage: StageStyle, ElementID: "s1", Message: "basedOn cycle cut"}
	want := "[warning] style (s1): basedOn cycle cut"
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	noID := Diagnostic{Severity: SeverityError, Stage: StagePDF, Message: "missing glyph"}
	want2 := "[error] pdf: missing glyph"
	if got := noID.String(); got != want2 {
		t.Errorf("String() = %q, want %q", got, want2)
	}
}

func TestDiagnosticsMerge(t *testing.T) {
	var d Diagnostics
	d.Warn(StageParse, "", "first")

	var other Diagnostics
	other.Warn(StageLayout, "", "second")
	d.Merge(&other)

	if len(d.Entries()) != 2 {
		t.Fatalf("expected 2 entries after merge, got %d", len(d.Entries()))
	}

	// Merging a nil pointer must be a no-op, not a panic, since callers
	// sometimes pass a stage's Diagnostics before it's been populated.
	d.Merge(nil)
	if len(d.Entries()) != 2 {
		t.Errorf("Merge(nil) should not change the entry count, got %d", len(d.Entries()))
	}
}

func TestCombineFatal(t *testing.T) {
	e1 := errors.New("bad rels")
	e2 := errors.New("bad content types")
	combined := CombineFatal(e1, e2)
	if !errors.Is(combined, e1) || !errors.Is(combined, e2) {
		t.Error("CombineFatal should fold both errors into one that errors.Is can find")
	}
	if CombineFatal() != nil {
		t.Error("CombineFatal with no errors should return nil")
	}
}
