package parser

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes a diagnostic.
type ErrorKind int

const (
	ErrorSyntax ErrorKind = iota
	ErrorUndefinedSymbol
	ErrorDuplicateSymbol
	ErrorInvalidDirective
	ErrorInvalidInstruction
	ErrorInvalidOperand
	ErrorOutOfRange
	ErrorSection
)

// Error is a single assembly-time diagnostic with source position.
type Error struct {
	Pos     Position
	Message string
	Kind    ErrorKind
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: error: %s", e.Pos, e.Message)
}

// NewError creates a positioned diagnostic error.
func NewError(pos Position, kind ErrorKind, message string) *Error {
	return &Error{Pos: pos, Message: message, Kind: kind}
}

// Warning is a non-fatal diagnostic.
type Warning struct {
	Pos     Position
	Message string
}

func (w *Warning) String() string {
	return fmt.Sprintf("%s: warning: %s", w.Pos, w.Message)
}

// ErrorList accumulates errors and warnings across a whole assembly run.
// Every failure path in the first-pass parser and second-pass encoder
// records into an ErrorList and substitutes a safe default rather than
// aborting, so one run surfaces as many real problems as possible.
type ErrorList struct {
	Errors   []*Error
	Warnings []*Warning
}

// AddError records a positioned error.
func (el *ErrorList) AddError(pos Position, kind ErrorKind, message string) {
	el.Errors = append(el.Errors, NewError(pos, kind, message))
}

// AddWarning records a positioned warning.
func (el *ErrorList) AddWarning(pos Position, message string) {
	el.Warnings = append(el.Warnings, &Warning{Pos: pos, Message: message})
}

// HasErrors reports whether any error (not warning) has been recorded.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}
	var sb strings.Builder
	for _, err := range el.Errors {
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}

// PrintWarnings renders all accumulated warnings, one per line.
func (el *ErrorList) PrintWarnings() string {
	if len(el.Warnings) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, warn := range el.Warnings {
		sb.WriteString(warn.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Summary renders the final one-line outcome of an assembly run.
func (el *ErrorList) Summary() string {
	switch {
	case el.HasErrors():
		return fmt.Sprintf("assembly failed with %d error(s), %d warning(s)", len(el.Errors), len(el.Warnings))
	case len(el.Warnings) > 0:
		return fmt.Sprintf("assembly completed with %d warning(s)", len(el.Warnings))
	default:
		return "assembly completed successfully"
	}
}
