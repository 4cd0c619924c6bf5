// Package docerr implements the core's error taxonomy (spec.md §7): typed
// fatal errors for the caller, plus a Diagnostics list that degraded-parse,
// layout-constraint, and render failures accumulate into instead of
// aborting. The typed errors mirror the teacher's DocxError family
// (go-docx/pkg/docx/errors.go) generalized from an editing library's
// error set to the core pipeline's.
package docerr

import (
	"fmt"

	"go.uber.org/multierr"
)

// CoreError is the base of every fatal error kind the core returns.
// It implements Unwrap so errors.Is/errors.As traverse the chain.
type CoreError struct {
	msg   string
	cause error
}

func (e *CoreError) Error() string { return e.msg }
func (e *CoreError) Unwrap() error { return e.cause }

func newCoreError(cause error, format string, args ...any) *CoreError {
	return &CoreError{msg: fmt.Sprintf(format, args...), cause: cause}
}

// InvalidPackageError: the input is not a readable ZIP/OPC container.
type InvalidPackageError struct{ CoreError }

func NewInvalidPackageError(cause error, format string, args ...any) *InvalidPackageError {
	return &InvalidPackageError{*newCoreError(cause, format, args...)}
}

// MissingPartError: a required OPC part is absent (e.g. word/document.xml).
type MissingPartError struct{ CoreError }

func NewMissingPartError(cause error, format string, args ...any) *MissingPartError {
	return &MissingPartError{*newCoreError(cause, format, args...)}
}

// MalformedXMLError: the main document part failed to parse as XML.
type MalformedXMLError struct{ CoreError }

func NewMalformedXMLError(cause error, format string, args ...any) *MalformedXMLError {
	return &MalformedXMLError{*newCoreError(cause, format, args...)}
}

// InvariantViolationError: a programmer error — an invariant the core
// promises (§3.2) was violated by code reaching the compiler stage.
type InvariantViolationError struct {
	CoreError
	SourceElementID string
	Invariant       string
}

func NewInvariantViolationError(invariant, sourceElementID string) *InvariantViolationError {
	return &InvariantViolationError{
		CoreError:       *newCoreError(nil, "docpipe: invariant violated: %s (element %s)", invariant, sourceElementID),
		SourceElementID: sourceElementID,
		Invariant:       invariant,
	}
}

// Severity classifies a Diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Stage identifies which pipeline stage raised a Diagnostic.
type Stage string

const (
	StagePackage  Stage = "package"
	StageParse    Stage = "parse"
	StageStyle    Stage = "style"
	StageNumber   Stage = "numbering"
	StageLayout   Stage = "layout"
	StagePaginate Stage = "paginate"
	StagePDF      Stage = "pdf"
)

// Diagnostic is one non-fatal degradation recorded while producing output.
// The core never silently drops content without emitting one of these.
type Diagnostic struct {
	Severity  Severity
	Stage     Stage
	ElementID string // source element id, when known; "" otherwise
	Message   string
}

func (d Diagnostic) String() string {
	if d.ElementID != "" {
		return fmt.Sprintf("[%s] %s (%s): %s", d.Severity, d.Stage, d.ElementID, d.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Stage, d.Message)
}

// Diagnostics accumulates Diagnostic entries across a single pipeline run.
// Not safe for concurrent use by multiple goroutines without external
// synchronization; callers that parallelize within a stage (§5) must merge
// per-goroutine Diagnostics lists afterward.
type Diagnostics struct {
	entries []Diagnostic
}

// Add records one diagnostic.
func (d *Diagnostics) Add(severity Severity, stage Stage, elementID, format string, args ...any) {
	d.entries = append(d.entries, Diagnostic{
		Severity:  severity,
		Stage:     stage,
		ElementID: elementID,
		Message:   fmt.Sprintf(format, args...),
	})
}

// Warn is shorthand for Add(SeverityWarning, ...).
func (d *Diagnostics) Warn(stage Stage, elementID, format string, args ...any) {
	d.Add(SeverityWarning, stage, elementID, format, args...)
}

// Entries returns all recorded diagnostics in the order they were added.
func (d *Diagnostics) Entries() []Diagnostic { return d.entries }

// HasFatal reports whether any entry has SeverityError.
func (d *Diagnostics) HasFatal() bool {
	for _, e := range d.entries {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Merge appends another Diagnostics' entries onto d, preserving order.
// Used to fold per-goroutine diagnostics collected during any internal
// parallelism (§5) back into the document-level list.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}
	d.entries = append(d.entries, other.entries...)
}

// CombineFatal folds a set of independently-encountered fatal errors (e.g.
// several malformed .rels files discovered while walking the relationship
// graph in parallel) into a single error via multierr, preserving each
// one's message and Unwrap chain.
func CombineFatal(errs ...error) error {
	return multierr.Combine(errs...)
}
