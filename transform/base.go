// Package transform provides the pass lifecycle every obfuscation pass
// builds on (spec.md §4.C): before-subpasses, the main match/transform walk,
// after-subpasses, and the shared identifier-generation facility.
package transform

import (
	"github.com/jsobf/jsobf/ast"
	"github.com/jsobf/jsobf/traverse"
)

// Pass is the contract every concrete transform (CFF, Dispatcher, Flatten,
// RGF, or a future pass) implements.
type Pass interface {
	// Name identifies the pass for diagnostics (spec.md §7.2: fatal errors
	// are annotated with the offending pass's class name).
	Name() string

	// Match reports whether node is a rewrite candidate.
	Match(node ast.Node, ancestors []ast.Node) bool

	// Transform rewrites node in place. It may return a non-nil exit
	// callback to run once the (possibly replaced) subtree has finished
	// being walked.
	Transform(node ast.Node, ancestors []ast.Node) traverse.ExitCallback

	// Base returns the pass's embedded lifecycle state (Before/After
	// subpasses, identifier generator).
	Base() *Base
}

// Base implements the common pass lifecycle described in spec.md §4.C:
//  1. run every Before subpass (recursively, to completion) over the tree;
//  2. walk the tree once, invoking the embedding Pass's Match/Transform;
//  3. run every After subpass.
//
// Concrete passes embed Base and set Before/After to the subpasses they
// need (CFF's own ExpressionObfuscation as a Before subpass is the
// motivating example in spec.md §5).
type Base struct {
	Before []Pass
	After  []Pass

	// Gen is this pass's independent identifier generator/uniqueness
	// tracker (spec.md §4.C: "a pass may obtain an independent generator
	// with its own counter").
	Gen *Generator
}

// Apply runs the full before/walk/after lifecycle for pass over tree.
func Apply(pass Pass, tree ast.Node) {
	for _, before := range pass.Base().Before {
		Apply(before, tree)
	}

	traverse.Walk(tree, nil, func(node ast.Node, ancestors []ast.Node) any {
		if !pass.Match(node, ancestors) {
			return nil
		}
		return pass.Transform(node, ancestors)
	})

	for _, after := range pass.Base().After {
		Apply(after, tree)
	}
}

