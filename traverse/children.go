package traverse

import "github.com/jsobf/jsobf/ast"

// childrenOf returns the direct child nodes of n in source order. This is
// hand-maintained; cmd/genwalk (adapted from the teacher's cmd/gen-visitor)
// emits a starting listing by reflecting over ast/*.go, and several cases
// here differ from that listing on purpose (e.g. MemberExpression.Property
// only when Computed, GotoStatement childless) -- see that command's doc
// comment.
func childrenOf(n ast.Node) []ast.Node {
	switch v := n.(type) {
	case *ast.Program:
		return stmtChildren(v.Body)
	case *ast.BlockStatement:
		return stmtChildren(v.Body)
	case *ast.ExpressionStatement:
		return []ast.Node{v.Expr}
	case *ast.VariableDeclaration:
		out := make([]ast.Node, 0, len(v.Declarations))
		for _, d := range v.Declarations {
			out = append(out, d)
		}
		return out
	case *ast.VariableDeclarator:
		out := []ast.Node{v.ID}
		if v.Init != nil {
			out = append(out, v.Init)
		}
		return out
	case *ast.ReturnStatement:
		return optional(v.Argument)
	case *ast.IfStatement:
		out := []ast.Node{v.Test, v.Consequent}
		if v.Alternate != nil {
			out = append(out, v.Alternate)
		}
		return out
	case *ast.LabeledStatement:
		return []ast.Node{v.Label, v.Body}
	case *ast.BreakStatement:
		return optionalIdent(v.Label)
	case *ast.ContinueStatement:
		return optionalIdent(v.Label)
	case *ast.ThrowStatement:
		return []ast.Node{v.Argument}
	case *ast.TryStatement:
		out := []ast.Node{v.Block}
		if v.Handler != nil {
			out = append(out, v.Handler)
		}
		if v.Finalizer != nil {
			out = append(out, v.Finalizer)
		}
		return out
	case *ast.CatchClause:
		out := []ast.Node{}
		if v.Param != nil {
			out = append(out, v.Param)
		}
		out = append(out, v.Body)
		return out
	case *ast.WhileStatement:
		return []ast.Node{v.Test, v.Body}
	case *ast.DoWhileStatement:
		return []ast.Node{v.Body, v.Test}
	case *ast.ForStatement:
		out := []ast.Node{}
		if v.Init != nil {
			out = append(out, v.Init)
		}
		if v.Test != nil {
			out = append(out, v.Test)
		}
		if v.Update != nil {
			out = append(out, v.Update)
		}
		out = append(out, v.Body)
		return out
	case *ast.SwitchStatement:
		out := []ast.Node{v.Discriminant}
		for _, c := range v.Cases {
			out = append(out, c)
		}
		return out
	case *ast.SwitchCase:
		out := optional(v.Test)
		return append(out, stmtChildren(v.Consequent)...)
	case *ast.GotoStatement, *ast.EmptyStatement, *ast.Identifier, *ast.Literal,
		*ast.ThisExpression, *ast.Super:
		return nil
	case *ast.MetaProperty:
		return []ast.Node{v.Meta, v.Property}
	case *ast.BinaryExpression:
		return []ast.Node{v.Left, v.Right}
	case *ast.LogicalExpression:
		return []ast.Node{v.Left, v.Right}
	case *ast.UnaryExpression:
		return []ast.Node{v.Argument}
	case *ast.AssignmentExpression:
		return []ast.Node{v.Target, v.Value}
	case *ast.ConditionalExpression:
		return []ast.Node{v.Test, v.Consequent, v.Alternate}
	case *ast.SequenceExpression:
		return exprChildren(v.Expressions)
	case *ast.CallExpression:
		out := []ast.Node{v.Callee}
		return append(out, exprChildren(v.Arguments)...)
	case *ast.NewExpression:
		out := []ast.Node{v.Callee}
		return append(out, exprChildren(v.Arguments)...)
	case *ast.MemberExpression:
		out := []ast.Node{v.Object}
		if v.Computed {
			out = append(out, v.Property)
		}
		return out
	case *ast.ArrayExpression:
		return exprChildren(v.Elements)
	case *ast.ObjectExpression:
		out := make([]ast.Node, len(v.Properties))
		for i, p := range v.Properties {
			out[i] = p
		}
		return out
	case *ast.Property:
		out := []ast.Node{}
		if v.Computed {
			out = append(out, v.Key)
		}
		out = append(out, v.Value)
		return out
	case *ast.SpreadElement:
		return []ast.Node{v.Argument}
	case *ast.RestElement:
		return []ast.Node{v.Argument}
	case *ast.ArrayPattern:
		out := []ast.Node{}
		for _, e := range v.Elements {
			if e != nil {
				out = append(out, e)
			}
		}
		return out
	case *ast.ObjectPattern:
		out := make([]ast.Node, len(v.Properties))
		for i, p := range v.Properties {
			out[i] = p
		}
		return out
	case *ast.FunctionDeclaration:
		return funcChildren(v.ID, v.Params, v.Body)
	case *ast.FunctionExpression:
		return funcChildren(v.ID, v.Params, v.Body)
	case *ast.ArrowFunctionExpression:
		out := patternChildren(v.Params)
		return append(out, v.Body)
	case *ast.ClassDeclaration:
		out := []ast.Node{v.ID}
		if v.SuperClass != nil {
			out = append(out, v.SuperClass)
		}
		return append(out, v.Body)
	case *ast.ClassExpression:
		out := []ast.Node{}
		if v.ID != nil {
			out = append(out, v.ID)
		}
		if v.SuperClass != nil {
			out = append(out, v.SuperClass)
		}
		return append(out, v.Body)
	case *ast.ClassBody:
		out := make([]ast.Node, len(v.Body))
		for i, m := range v.Body {
			out[i] = m
		}
		return out
	case *ast.MethodDefinition:
		out := []ast.Node{}
		if v.Computed {
			out = append(out, v.Key)
		}
		return append(out, v.Value)
	default:
		return nil
	}
}

func stmtChildren(stmts []ast.Statement) []ast.Node {
	out := make([]ast.Node, len(stmts))
	for i, s := range stmts {
		out[i] = s
	}
	return out
}

func exprChildren(exprs []ast.Expression) []ast.Node {
	out := make([]ast.Node, 0, len(exprs))
	for _, e := range exprs {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

func patternChildren(pats []ast.Pattern) []ast.Node {
	out := make([]ast.Node, len(pats))
	for i, p := range pats {
		out[i] = p
	}
	return out
}

func funcChildren(id *ast.Identifier, params []ast.Pattern, body *ast.BlockStatement) []ast.Node {
	out := []ast.Node{}
	if id != nil {
		out = append(out, id)
	}
	out = append(out, patternChildren(params)...)
	out = append(out, body)
	return out
}

func optional(e ast.Expression) []ast.Node {
	if e == nil {
		return nil
	}
	return []ast.Node{e}
}

func optionalIdent(i *ast.Identifier) []ast.Node {
	if i == nil {
		return nil
	}
	return []ast.Node{i}
}
