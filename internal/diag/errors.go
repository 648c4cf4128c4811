// Package diag formats frontend and pipeline errors with source context,
// line/column information, and a caret pointing at the offending position.
package diag

import (
	"fmt"
	"strings"

	"github.com/jsobf/jsobf/ast"
)

// Error represents a single diagnostic with position and source context.
type Error struct {
	Message string
	Source  string
	File    string
	Pos     ast.Position
}

// New creates a new diagnostic error.
func New(pos ast.Position, message, source, file string) *Error {
	return &Error{Pos: pos, Message: message, Source: source, File: file}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Format(false)
}

// Format renders the error with a single line of source context. When color
// is true, ANSI codes highlight the caret and the message.
func (e *Error) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(fmt.Sprintf("%s:%d:%d: ", e.File, e.Pos.Line, e.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("%d:%d: ", e.Pos.Line, e.Pos.Column))
	}
	sb.WriteString(e.Message)
	sb.WriteString("\n")

	if line := e.sourceLine(e.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (e *Error) sourceLine(lineNum int) string {
	if e.Source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatAll renders a batch of diagnostics, numbering them when there is
// more than one.
func FormatAll(errs []*Error, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d error(s):\n\n", len(errs)))
	for i, err := range errs {
		sb.WriteString(fmt.Sprintf("[%d/%d] ", i+1, len(errs)))
		sb.WriteString(err.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
