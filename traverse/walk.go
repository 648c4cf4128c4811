// Package traverse implements the depth-first pre/post traversal framework
// every pass is built on top of (spec.md §4.B). It knows nothing about
// obfuscation semantics; it only knows how to find a node's children and
// how to let a visitor observe and rewrite the tree.
package traverse

import "github.com/jsobf/jsobf/ast"

// Exit is the sentinel a Visitor returns to immediately abort traversal of
// the entire subtree (spec.md: visitor return value `"EXIT"`).
var Exit = &struct{ exitSentinel bool }{true}

// ExitCallback is invoked when walk leaves a node in post-order, having
// returned it from the pre-order visit.
type ExitCallback func()

// Visitor is invoked once per node in pre-order, with the node and its
// ancestor chain (closest ancestor first). It returns one of:
//   - Exit, to abort the entire traversal immediately;
//   - a non-nil ExitCallback, to be invoked when this node's subtree has
//     finished being walked (post-order);
//   - nil, to continue descending normally.
type Visitor func(node ast.Node, ancestors []ast.Node) any

// Walk performs a pre-order depth-first descent over node, invoking visitor
// at every node reached (including node itself). ancestors is the existing
// ancestor chain above node, closest first; Walk prepends node's own
// ancestors as it descends. It returns false if the visitor requested an
// early exit (via Exit) anywhere in the subtree.
//
// Children are discovered from the fixed per-kind table in children.go, not
// by reflection, so a node kind the table doesn't know about simply has no
// children as far as traversal is concerned -- new node kinds must be added
// to childrenOf explicitly, the same contract the teacher's generated
// visitor enforces for its own AST (cmd/gen-visitor/main.go's knownNodeTypes
// table serves the identical purpose there).
//
// Mutations performed by an exit callback are only picked up if the caller
// explicitly re-walks the replacement node; the primary descent captures
// child references at pre-order entry and does not re-read a parent's field
// after visiting it once.
func Walk(node ast.Node, ancestors []ast.Node, visitor Visitor) bool {
	if node == nil {
		return true
	}

	result := visitor(node, ancestors)
	if result == Exit {
		return false
	}

	childAncestors := append([]ast.Node{node}, ancestors...)
	children := childrenOf(node)
	for _, child := range children {
		if !Walk(child, childAncestors, visitor) {
			return false
		}
	}

	if cb, ok := result.(ExitCallback); ok && cb != nil {
		cb()
	} else if cb, ok := result.(func()); ok && cb != nil {
		cb()
	}
	return true
}
