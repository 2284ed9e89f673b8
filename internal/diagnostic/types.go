package diagnostic

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"gusket/internal/common"
)

// Diagnostic codes.
const (
	// CodeUnsupportedShape rejects enum, union, tuple-like and unit records.
	CodeUnsupportedShape = "UnsupportedShape"
	// CodeUnsupportedDirective rejects unknown keywords and malformed
	// visibility expressions.
	CodeUnsupportedDirective = "UnsupportedDirective"
	// CodeNameConflict rejects a generated method name that is already a
	// field or another generated method of the record.
	CodeNameConflict = "NameConflict"
	// CodeStaleOutput reports a generated file that no longer matches.
	CodeStaleOutput = "StaleOutput"
	// CodeNothingDerived warns about a //gusket type that yields no methods.
	CodeNothingDerived = "NothingDerived"
)

// Diagnostics holds all diagnostic information from a run.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Pos is where the offending construct starts.
	Pos token.Position
	// Record names the type being processed (if any).
	Record string
	// Field names the field being processed (if any).
	Field string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Errorf creates an error diagnostic at pos.
func Errorf(code string, pos token.Position, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Severity: DiagnosticError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	}
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return d.String()
}

// WithRecord fills in the record and field names when they are not set yet.
func (d *Diagnostic) WithRecord(record, field string) *Diagnostic {
	if d.Record == "" {
		d.Record = record
	}

	if d.Field == "" {
		d.Field = field
	}

	return d
}

// As extracts a Diagnostic from err.
func As(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d, true
	}

	return nil, false
}

// Add adds a diagnostic to the bucket matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case DiagnosticError:
		d.Errors = append(d.Errors, diag)
	case DiagnosticWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message string, pos token.Position) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: DiagnosticWarning,
		Code:     code,
		Message:  message,
		Pos:      pos,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Pos.IsValid() {
		prefix = append(prefix, d.Pos.String())
	}

	switch {
	case d.Record != "" && d.Field != "":
		prefix = append(prefix, d.Record+"."+d.Field)
	case d.Record != "":
		prefix = append(prefix, d.Record)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, " or ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
