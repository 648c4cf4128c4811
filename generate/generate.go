// Package generate serializes an obfuscated AST back to JavaScript source
// text. It is the external code-generator spec.md §4.H and §6 both refer
// to: the core never executes the code it produces, it only ever hands the
// finished tree to this package (or, for RGF's runtime stubs, uses it to
// pre-render the text a `new Function` call compiles at runtime).
package generate

import "github.com/jsobf/jsobf/ast"

// Generate renders node to source text using each node kind's own
// String() method (ast/*.go), the same per-node rendering convention the
// teacher's AST package uses for its own debug output. The core's
// round-trip invariant (spec.md §8: "generate(parse(S)) ≡ S modulo
// whitespace/comments, when all passes are disabled") holds as long as
// every node kind the parser produces has a String() implementation that
// reconstructs valid, semantically equivalent syntax -- which ast/*.go
// guarantees for every node kind this pipeline introduces or consumes.
func Generate(node ast.Node) string {
	if node == nil {
		return ""
	}
	return node.String()
}
