// Package diag formats pipeline errors with source context, in the style
// of the teacher's internal/errors package: a message, the offending
// source line, and a caret pointing at the exact column.
package diag

import (
	"fmt"
	"strings"

	"github.com/cwbudde/exprjit/internal/token"
)

// Error represents a single lex or parse failure with enough context to
// render a caret diagnostic.
type Error struct {
	Message string
	Source  string // the cleaned (whitespace-stripped) buffer
	Pos     token.Position
}

// NewError constructs an Error.
func NewError(pos token.Position, message, source string) *Error {
	return &Error{Message: message, Source: source, Pos: pos}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Format(false)
}

// Format renders the diagnostic. If color is true, ANSI escapes highlight
// the caret.
func (e *Error) Format(color bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "error at column %d\n", e.Pos.Column)

	if e.Source != "" {
		sb.WriteString(e.Source)
		sb.WriteByte('\n')
		if e.Pos.Column >= 1 {
			sb.WriteString(strings.Repeat(" ", e.Pos.Column-1))
		}
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteByte('\n')
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

// FormatValue renders a float the way the "repl" CLI subcommand prints
// y-values: fixed precision, with negative zero normalized to positive
// zero — the behavior original_source/'s tools.hpp numeric formatting
// helpers provide for the GUI's on-screen readouts, supplemented here
// since it is not otherwise specified. The "sample" subcommand emits
// raw JSON numbers instead, since its consumer is a program, not a
// human eye.
func FormatValue(v float64) string {
	if v == 0 {
		v = 0 // normalizes -0 to 0
	}
	s := fmt.Sprintf("%.10f", v)
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}
