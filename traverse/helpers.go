package traverse

import "github.com/jsobf/jsobf/ast"

// GetVarContext returns the nearest enclosing var context for node, given
// its ancestor chain (closest first, as Visitor receives it); node itself is
// returned when it is a var context (so the Program node yields itself). It
// returns nil only if neither node nor any ancestor is a var context.
func GetVarContext(node ast.Node, ancestors []ast.Node) ast.Node {
	if ast.IsVarContext(node) {
		return node
	}
	for _, a := range ancestors {
		if ast.IsVarContext(a) {
			return a
		}
	}
	return nil
}

// Parent returns the immediate parent of a node from its ancestor chain, or
// nil at the root.
func Parent(ancestors []ast.Node) ast.Node {
	if len(ancestors) == 0 {
		return nil
	}
	return ancestors[0]
}

// Find performs a Walk that stops at the first node for which pred returns
// true, returning that node and its ancestor chain. ok is false if no node
// matched.
func Find(root ast.Node, pred func(ast.Node, []ast.Node) bool) (found ast.Node, foundAncestors []ast.Node, ok bool) {
	Walk(root, nil, func(n ast.Node, ancestors []ast.Node) any {
		if pred(n, ancestors) {
			found, foundAncestors, ok = n, ancestors, true
			return Exit
		}
		return nil
	})
	return
}

// Contains reports whether pred matches any node in root's subtree
// (root included).
func Contains(root ast.Node, pred func(ast.Node, []ast.Node) bool) bool {
	_, _, ok := Find(root, pred)
	return ok
}
