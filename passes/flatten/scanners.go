package flatten

import "github.com/jsobf/jsobf/ast"

// containsForbiddenConstruct reports whether any statement directly owned by
// this function's scope is a TryStatement or a let/const VariableDeclaration
// (spec.md §4.G's abort list, minus this/super/arguments/MetaProperty, which
// referencesOwnContext covers separately). It never descends into a nested
// function or arrow's own body: a try or let/const there is that inner
// scope's own business, not a property of the candidate being flattened.
func containsForbiddenConstruct(stmts []ast.Statement) bool {
	for _, s := range stmts {
		if stmtForbidden(s) {
			return true
		}
	}
	return false
}

func stmtForbidden(s ast.Statement) bool {
	switch v := s.(type) {
	case nil:
		return false
	case *ast.TryStatement:
		return true
	case *ast.VariableDeclaration:
		return v.Kind == "let" || v.Kind == "const"
	case *ast.BlockStatement:
		return containsForbiddenConstruct(v.Body)
	case *ast.IfStatement:
		return stmtForbidden(v.Consequent) || stmtForbidden(v.Alternate)
	case *ast.LabeledStatement:
		return stmtForbidden(v.Body)
	case *ast.WhileStatement:
		return stmtForbidden(v.Body)
	case *ast.DoWhileStatement:
		return stmtForbidden(v.Body)
	case *ast.ForStatement:
		if decl, ok := v.Init.(*ast.VariableDeclaration); ok && (decl.Kind == "let" || decl.Kind == "const") {
			return true
		}
		return stmtForbidden(v.Body)
	case *ast.SwitchStatement:
		for _, c := range v.Cases {
			for _, cs := range c.Consequent {
				if stmtForbidden(cs) {
					return true
				}
			}
		}
		return false
	default:
		// ExpressionStatement, Return/Throw/Break/Continue/Empty/Goto, and
		// any FunctionDeclaration (a separate function's own scope) carry
		// no try/let/const of the candidate's own scope.
		return false
	}
}

// referencesOwnContext reports whether n contains a `this`, `super`,
// `arguments` or `new.target` reference that binds to the candidate's own
// function context. It descends into nested arrow bodies (arrows inherit
// the enclosing this/arguments/super binding) but not into nested regular
// function/method bodies, which get their own fresh bindings. Grounded on
// the identically-shaped scanner in passes/dispatcher/dispatcher.go.
func referencesOwnContext(n ast.Node) bool {
	switch v := n.(type) {
	case nil:
		return false
	case *ast.ThisExpression, *ast.Super, *ast.MetaProperty:
		return true
	case *ast.Identifier:
		return v.Name == "arguments"
	case *ast.BlockStatement:
		return anyStmt(v.Body, referencesOwnContext)
	case *ast.ExpressionStatement:
		return referencesOwnContext(v.Expr)
	case *ast.VariableDeclaration:
		for _, d := range v.Declarations {
			if d.Init != nil && referencesOwnContext(d.Init) {
				return true
			}
		}
		return false
	case *ast.ReturnStatement:
		return referencesOwnContext(v.Argument)
	case *ast.ThrowStatement:
		return referencesOwnContext(v.Argument)
	case *ast.IfStatement:
		return referencesOwnContext(v.Test) || referencesOwnContext(v.Consequent) || referencesOwnContext(v.Alternate)
	case *ast.LabeledStatement:
		return referencesOwnContext(v.Body)
	case *ast.WhileStatement:
		return referencesOwnContext(v.Test) || referencesOwnContext(v.Body)
	case *ast.DoWhileStatement:
		return referencesOwnContext(v.Test) || referencesOwnContext(v.Body)
	case *ast.ForStatement:
		return referencesOwnContext(v.Init) || referencesOwnContext(v.Test) || referencesOwnContext(v.Update) || referencesOwnContext(v.Body)
	case *ast.SwitchStatement:
		if referencesOwnContext(v.Discriminant) {
			return true
		}
		for _, c := range v.Cases {
			if referencesOwnContext(c.Test) || anyStmt(c.Consequent, referencesOwnContext) {
				return true
			}
		}
		return false
	case *ast.TryStatement:
		if referencesOwnContext(v.Block) {
			return true
		}
		if v.Handler != nil && referencesOwnContext(v.Handler.Body) {
			return true
		}
		return referencesOwnContext(v.Finalizer)
	case *ast.BinaryExpression:
		return referencesOwnContext(v.Left) || referencesOwnContext(v.Right)
	case *ast.LogicalExpression:
		return referencesOwnContext(v.Left) || referencesOwnContext(v.Right)
	case *ast.UnaryExpression:
		return referencesOwnContext(v.Argument)
	case *ast.AssignmentExpression:
		return referencesOwnContext(v.Target) || referencesOwnContext(v.Value)
	case *ast.ConditionalExpression:
		return referencesOwnContext(v.Test) || referencesOwnContext(v.Consequent) || referencesOwnContext(v.Alternate)
	case *ast.SequenceExpression:
		for _, e := range v.Expressions {
			if referencesOwnContext(e) {
				return true
			}
		}
		return false
	case *ast.CallExpression:
		if referencesOwnContext(v.Callee) {
			return true
		}
		for _, a := range v.Arguments {
			if referencesOwnContext(a) {
				return true
			}
		}
		return false
	case *ast.NewExpression:
		if referencesOwnContext(v.Callee) {
			return true
		}
		for _, a := range v.Arguments {
			if referencesOwnContext(a) {
				return true
			}
		}
		return false
	case *ast.MemberExpression:
		return referencesOwnContext(v.Object) || (v.Computed && referencesOwnContext(v.Property))
	case *ast.ArrayExpression:
		for _, e := range v.Elements {
			if referencesOwnContext(e) {
				return true
			}
		}
		return false
	case *ast.ObjectExpression:
		for _, p := range v.Properties {
			if referencesOwnContext(p.Value) {
				return true
			}
		}
		return false
	case *ast.ArrowFunctionExpression:
		return referencesOwnContext(v.Body)
	default:
		return false
	}
}

func anyStmt(stmts []ast.Statement, pred func(ast.Node) bool) bool {
	for _, s := range stmts {
		if pred(s) {
			return true
		}
	}
	return false
}
