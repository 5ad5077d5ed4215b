// Package errors formats lowering-time diagnostics with source context and
// a caret pointing at the offending position, the same presentation the
// teacher's compiler-error package uses for DWScript diagnostics.
package errors

import (
	"fmt"
	"strings"

	"github.com/loomlang/loom/internal/lexer"
)

// SyntaxError is a single lowering failure: malformed loom source is a
// programmer error at lowering time, not a runtime concern (SPEC_FULL.md
// §7), so the lowerer raises one of these instead of a typed runtime error.
type SyntaxError struct {
	Message string
	Source  string
	Pos     lexer.Position
}

// New creates a SyntaxError for the given position and message, formatted
// against source for caret rendering.
func New(pos lexer.Position, source, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Source: source, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return e.Format()
}

// Format renders the error with a line/column header, the offending source
// line, and a caret under the exact column.
func (e *SyntaxError) Format() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "lowering error at %d:%d\n", e.Pos.Line, e.Pos.Column)

	if line := e.sourceLine(e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
		sb.WriteString("^\n")
	}

	sb.WriteString(e.Message)
	return sb.String()
}

func (e *SyntaxError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}
