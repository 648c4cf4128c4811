package diag

import (
	"fmt"
	"strings"

	"github.com/jsobf/jsobf/ast"
)

// Frame is a single entry in a PassTrace: the pass that was running and the
// node it was positioned at when a fatal error occurred.
type Frame struct {
	Pass     string
	NodeKind string
	Pos      ast.Position
}

// String formats a frame as "pass @ NodeKind [line: N, column: M]".
func (f Frame) String() string {
	return fmt.Sprintf("%s @ %s [line: %d, column: %d]", f.Pass, f.NodeKind, f.Pos.Line, f.Pos.Column)
}

// PassTrace records, oldest-first, which pass was active at each level of
// the pipeline driver's call into the pass list when a fatal error surfaced
// (spec.md §7.2: fatal errors are annotated with the offending pass's
// class name). Unlike a language runtime's call stack, a PassTrace has at
// most one frame per top-level pass invocation plus its Before/After
// subpasses, since passes never call each other directly.
type PassTrace []Frame

// String renders the trace most-recent frame first, mirroring the
// teacher's StackTrace.String() convention.
func (pt PassTrace) String() string {
	if len(pt) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := len(pt) - 1; i >= 0; i-- {
		sb.WriteString(pt[i].String())
		if i > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Top returns the most recently pushed frame, or nil if the trace is empty.
func (pt PassTrace) Top() *Frame {
	if len(pt) == 0 {
		return nil
	}
	return &pt[len(pt)-1]
}

// NewFrame builds a Frame identifying the pass and node an error occurred
// at.
func NewFrame(pass string, node ast.Node) Frame {
	kind := "unknown"
	if node != nil {
		kind = fmt.Sprintf("%T", node)
		if idx := strings.LastIndex(kind, "."); idx >= 0 {
			kind = kind[idx+1:]
		}
	}
	pos := ast.Position{}
	if node != nil {
		pos = node.Pos()
	}
	return Frame{Pass: pass, NodeKind: kind, Pos: pos}
}
