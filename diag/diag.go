// Package diag defines the diagnostic record type shared by every
// build-time and run-time stage of the toolkit, along with a
// plain-text table renderer for reporting a batch of them at once.
//
// The record type generalizes the private-struct-plus-constructor-
// function-plus-Unwrap idiom of tqerrors.go (one error type, several
// constructor functions, a technical message and a human one) from a
// single game-message error into a stable, taxonomy-coded diagnostic
// that can carry build-time or run-time payload data and render either
// as a single line or as part of a Report table.
package diag

import "fmt"

// Severity classifies how serious a Diagnostic is.
type Severity int

const (
	// Info is purely informational; it does not affect build or parse
	// success.
	Info Severity = iota
	// Warning indicates something suspicious that did not prevent the
	// build or parse from completing.
	Warning
	// Error indicates the build or parse failed as a direct result of
	// this diagnostic.
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Code is a stable diagnostic identifier, independent of its message
// text, so hosts can match on it without string-matching.
type Code string

// Build-time diagnostic codes, raised while compiling a Grammar into a
// tokenizer DFA and LALR(1) table.
const (
	CodeDfaTooLarge            Code = "DfaTooLarge"
	CodeIndistinguishableSymbols Code = "IndistinguishableSymbols"
	CodeRegexMatchesNothing     Code = "RegexMatchesNothing"
	CodeDuplicateSpecialName    Code = "DuplicateSpecialName"
	CodeNonterminalHasNoProductions Code = "NonterminalHasNoProductions"
	CodeOperatorDefinedTwice    Code = "OperatorDefinedTwice"
	CodeLrConflict              Code = "LrConflict"
	CodeSymbolRenamedTwice       Code = "SymbolRenamedTwice"
	CodeRegexParseFailure        Code = "RegexParseFailure"
)

// Run-time diagnostic codes, raised while tokenizing or parsing input
// against an already-built artifact.
const (
	CodeUnrecognizedInput            Code = "UnrecognizedInput"
	CodeUnexpectedToken              Code = "UnexpectedToken"
	CodeUnexpectedEndOfInputInGroup  Code = "UnexpectedEndOfInputInGroup"
	CodeCancelled                    Code = "Cancelled"
	CodeGrammarNotForParsing         Code = "GrammarNotForParsing"
	CodeGrammarVersionTooNew         Code = "GrammarVersionTooNew"
	CodeGrammarVersionTooOld         Code = "GrammarVersionTooOld"
)

// Location pinpoints where a Diagnostic originated: a source position
// for build-time diagnostics, or a stream offset for run-time ones.
// A zero Location (Line == 0) means "no specific location".
type Location struct {
	Line   int
	Col    int
	Offset int
	Source string // grammar source name, rule name, or stream name
}

func (l Location) String() string {
	if l.Line == 0 {
		if l.Source != "" {
			return l.Source
		}
		return ""
	}
	if l.Source != "" {
		return fmt.Sprintf("%s:%d:%d", l.Source, l.Line, l.Col)
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

// Diagnostic is a single build-time or run-time finding: what went
// wrong (Code), how bad it is (Severity), where it happened
// (Location), an operator-facing Message, and an arbitrary Payload
// carrying the code-specific structured detail (e.g. the two
// conflicting LR actions for CodeLrConflict).
type diagnostic struct {
	code     Code
	severity Severity
	loc      Location
	message  string
	payload  interface{}
	wrapped  error
}

// Diagnostic is the exported read-only view of a diagnostic record.
type Diagnostic = *diagnostic

// New constructs a Diagnostic with the given code, severity and
// message.
func New(code Code, sev Severity, loc Location, message string) Diagnostic {
	return &diagnostic{code: code, severity: sev, loc: loc, message: message}
}

// Newf is like New but builds Message with fmt.Sprintf.
func Newf(code Code, sev Severity, loc Location, format string, a ...interface{}) Diagnostic {
	return New(code, sev, loc, fmt.Sprintf(format, a...))
}

// WithPayload returns a copy of d carrying the given structured
// payload, for callers that want the code-specific detail (e.g. the
// set of expected symbols for CodeUnexpectedToken) without parsing it
// back out of Message.
func (d *diagnostic) WithPayload(payload interface{}) Diagnostic {
	cp := *d
	cp.payload = payload
	return &cp
}

// Wrap returns a copy of d that unwraps to err.
func (d *diagnostic) Wrap(err error) Diagnostic {
	cp := *d
	cp.wrapped = err
	return &cp
}

func (d *diagnostic) Code() Code           { return d.code }
func (d *diagnostic) Severity() Severity   { return d.severity }
func (d *diagnostic) Location() Location   { return d.loc }
func (d *diagnostic) Payload() interface{} { return d.payload }

// Error satisfies the error interface so a Diagnostic can be returned
// or wrapped anywhere a plain error is expected.
func (d *diagnostic) Error() string {
	loc := d.loc.String()
	if loc == "" {
		return fmt.Sprintf("%s: %s", d.code, d.message)
	}
	return fmt.Sprintf("%s: %s: %s", loc, d.code, d.message)
}

// Unwrap gives the error that this Diagnostic wraps, if any.
func (d *diagnostic) Unwrap() error {
	return d.wrapped
}

// IsSeverity reports whether err is a Diagnostic of at least the given
// severity.
func IsSeverity(err error, min Severity) bool {
	d, ok := err.(Diagnostic)
	return ok && d.severity >= min
}

// AsDiagnostic extracts a Diagnostic from err, following Unwrap as
// needed, the same way errors.As would.
func AsDiagnostic(err error) (Diagnostic, bool) {
	for err != nil {
		if d, ok := err.(Diagnostic); ok {
			return d, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
