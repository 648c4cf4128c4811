package dispatcher

import "github.com/jsobf/jsobf/ast"

// callRewriter replaces every remaining reference to a collected
// candidate's name, throughout the rest of C's body (including nested
// closures, which still see the removed binding), per spec.md §4.F's
// call-site rewriting rules. It stops rewriting a given name inside any
// nested function/arrow subtree that itself redeclares it (shadowing).
type callRewriter struct {
	candidates map[string]*candidate
	shared     *sharedNames
}

// sub narrows the rewriter for descent into a nested function body: any
// candidate name the nested function's own declarations shadow is dropped,
// so rewriting never crosses a shadow boundary.
func (r *callRewriter) sub(body ast.Node) *callRewriter {
	if len(r.candidates) == 0 {
		return r
	}
	usage := ast.ClassifyIdentifiers(body)
	reduced := make(map[string]*candidate, len(r.candidates))
	shrunk := false
	for name, c := range r.candidates {
		if usage.Defined[name] {
			shrunk = true
			continue
		}
		reduced[name] = c
	}
	if !shrunk {
		return r
	}
	return &callRewriter{candidates: reduced, shared: r.shared}
}

func (r *callRewriter) rewriteStmts(stmts []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, len(stmts))
	for i, s := range stmts {
		out[i] = r.rewriteStmt(s)
	}
	return out
}

func (r *callRewriter) rewriteStmt(s ast.Statement) ast.Statement {
	switch v := s.(type) {
	case nil:
		return nil
	case *ast.ExpressionStatement:
		return &ast.ExpressionStatement{BaseNode: v.BaseNode, Expr: r.rewriteExpr(v.Expr)}
	case *ast.VariableDeclaration:
		decls := make([]*ast.VariableDeclarator, len(v.Declarations))
		for i, d := range v.Declarations {
			decls[i] = d
			if d.Init != nil {
				decls[i] = &ast.VariableDeclarator{BaseNode: d.BaseNode, ID: d.ID, Init: r.rewriteExpr(d.Init)}
			}
		}
		return &ast.VariableDeclaration{BaseNode: v.BaseNode, Kind: v.Kind, Declarations: decls}
	case *ast.ReturnStatement:
		if v.Argument == nil {
			return v
		}
		return &ast.ReturnStatement{BaseNode: v.BaseNode, Argument: r.rewriteExpr(v.Argument)}
	case *ast.ThrowStatement:
		return &ast.ThrowStatement{BaseNode: v.BaseNode, Argument: r.rewriteExpr(v.Argument)}
	case *ast.IfStatement:
		var alt ast.Statement
		if v.Alternate != nil {
			alt = r.rewriteStmt(v.Alternate)
		}
		return &ast.IfStatement{BaseNode: v.BaseNode, Test: r.rewriteExpr(v.Test), Consequent: r.rewriteStmt(v.Consequent), Alternate: alt}
	case *ast.BlockStatement:
		return ast.Block(r.rewriteStmts(v.Body)...)
	case *ast.LabeledStatement:
		return &ast.LabeledStatement{BaseNode: v.BaseNode, Label: v.Label, Body: r.rewriteStmt(v.Body)}
	case *ast.WhileStatement:
		return &ast.WhileStatement{BaseNode: v.BaseNode, Test: r.rewriteExpr(v.Test), Body: r.rewriteStmt(v.Body)}
	case *ast.DoWhileStatement:
		return &ast.DoWhileStatement{BaseNode: v.BaseNode, Body: r.rewriteStmt(v.Body), Test: r.rewriteExpr(v.Test)}
	case *ast.ForStatement:
		return &ast.ForStatement{BaseNode: v.BaseNode, Init: r.rewriteForInit(v.Init), Test: r.rewriteExprOrNil(v.Test), Update: r.rewriteExprOrNil(v.Update), Body: r.rewriteStmt(v.Body)}
	case *ast.SwitchStatement:
		cases := make([]*ast.SwitchCase, len(v.Cases))
		for i, c := range v.Cases {
			cases[i] = &ast.SwitchCase{BaseNode: c.BaseNode, Test: r.rewriteExprOrNil(c.Test), Consequent: r.rewriteStmts(c.Consequent)}
		}
		return &ast.SwitchStatement{BaseNode: v.BaseNode, Discriminant: r.rewriteExpr(v.Discriminant), Cases: cases}
	case *ast.TryStatement:
		out := &ast.TryStatement{BaseNode: v.BaseNode}
		if v.Block != nil {
			out.Block = ast.Block(r.rewriteStmts(v.Block.Body)...)
		}
		if v.Handler != nil {
			h := &ast.CatchClause{BaseNode: v.Handler.BaseNode, Param: v.Handler.Param}
			if v.Handler.Body != nil {
				h.Body = ast.Block(r.rewriteStmts(v.Handler.Body.Body)...)
			}
			out.Handler = h
		}
		if v.Finalizer != nil {
			out.Finalizer = ast.Block(r.rewriteStmts(v.Finalizer.Body)...)
		}
		return out
	case *ast.FunctionDeclaration:
		sub := r.sub(v.Body)
		return &ast.FunctionDeclaration{BaseNode: v.BaseNode, ID: v.ID, Params: v.Params, Body: ast.Block(sub.rewriteStmts(v.Body.Body)...), Generator: v.Generator, Async: v.Async}
	default:
		return s
	}
}

func (r *callRewriter) rewriteForInit(n ast.Node) ast.Node {
	switch v := n.(type) {
	case nil:
		return nil
	case *ast.VariableDeclaration:
		return r.rewriteStmt(v)
	case ast.Expression:
		return r.rewriteExpr(v)
	default:
		return n
	}
}

func (r *callRewriter) rewriteExprOrNil(e ast.Expression) ast.Expression {
	if e == nil {
		return nil
	}
	return r.rewriteExpr(e)
}

func (r *callRewriter) rewriteExprList(list []ast.Expression) []ast.Expression {
	out := make([]ast.Expression, len(list))
	for i, e := range list {
		out[i] = r.rewriteExprOrNil(e)
	}
	return out
}

func (r *callRewriter) rewriteExpr(e ast.Expression) ast.Expression {
	switch v := e.(type) {
	case nil:
		return nil
	case *ast.Identifier:
		if c, ok := r.candidates[v.Name]; ok {
			return r.shared.getRef(c)
		}
		return v
	case *ast.CallExpression:
		if id, ok := v.Callee.(*ast.Identifier); ok {
			if c, ok2 := r.candidates[id.Name]; ok2 {
				return r.shared.buildCall(c, r.rewriteExprList(v.Arguments))
			}
		}
		return &ast.CallExpression{BaseNode: v.BaseNode, Callee: r.rewriteExpr(v.Callee), Arguments: r.rewriteExprList(v.Arguments)}
	case *ast.NewExpression:
		return &ast.NewExpression{BaseNode: v.BaseNode, Callee: r.rewriteExpr(v.Callee), Arguments: r.rewriteExprList(v.Arguments)}
	case *ast.MemberExpression:
		prop := v.Property
		if v.Computed {
			prop = r.rewriteExpr(v.Property)
		}
		return &ast.MemberExpression{BaseNode: v.BaseNode, Object: r.rewriteExpr(v.Object), Property: prop, Computed: v.Computed}
	case *ast.BinaryExpression:
		return &ast.BinaryExpression{BaseNode: v.BaseNode, Operator: v.Operator, Left: r.rewriteExpr(v.Left), Right: r.rewriteExpr(v.Right)}
	case *ast.LogicalExpression:
		return &ast.LogicalExpression{BaseNode: v.BaseNode, Operator: v.Operator, Left: r.rewriteExpr(v.Left), Right: r.rewriteExpr(v.Right)}
	case *ast.UnaryExpression:
		return &ast.UnaryExpression{BaseNode: v.BaseNode, Operator: v.Operator, Argument: r.rewriteExpr(v.Argument), Prefix: v.Prefix}
	case *ast.AssignmentExpression:
		return &ast.AssignmentExpression{BaseNode: v.BaseNode, Operator: v.Operator, Target: r.rewriteTarget(v.Target), Value: r.rewriteExpr(v.Value)}
	case *ast.ConditionalExpression:
		return &ast.ConditionalExpression{BaseNode: v.BaseNode, Test: r.rewriteExpr(v.Test), Consequent: r.rewriteExpr(v.Consequent), Alternate: r.rewriteExpr(v.Alternate)}
	case *ast.SequenceExpression:
		return &ast.SequenceExpression{BaseNode: v.BaseNode, Expressions: r.rewriteExprList(v.Expressions)}
	case *ast.ArrayExpression:
		return &ast.ArrayExpression{BaseNode: v.BaseNode, Elements: r.rewriteExprList(v.Elements)}
	case *ast.ObjectExpression:
		props := make([]*ast.Property, len(v.Properties))
		for i, p := range v.Properties {
			props[i] = p
			key := p.Key
			if p.Computed {
				key = r.rewriteExpr(p.Key)
			}
			props[i] = &ast.Property{BaseNode: p.BaseNode, Key: key, Computed: p.Computed, Shorthand: p.Shorthand, Kind: p.Kind, Value: r.rewriteExpr(p.Value)}
		}
		return &ast.ObjectExpression{BaseNode: v.BaseNode, Properties: props}
	case *ast.SpreadElement:
		return &ast.SpreadElement{BaseNode: v.BaseNode, Argument: r.rewriteExpr(v.Argument)}
	case *ast.FunctionExpression:
		sub := r.sub(v.Body)
		return &ast.FunctionExpression{BaseNode: v.BaseNode, ID: v.ID, Params: v.Params, Body: ast.Block(sub.rewriteStmts(v.Body.Body)...), Generator: v.Generator, Async: v.Async}
	case *ast.ArrowFunctionExpression:
		sub := r.sub(v.Body)
		if block, ok := v.Body.(*ast.BlockStatement); ok {
			return &ast.ArrowFunctionExpression{BaseNode: v.BaseNode, Params: v.Params, Body: ast.Block(sub.rewriteStmts(block.Body)...), Async: v.Async}
		}
		if expr, ok := v.Body.(ast.Expression); ok {
			return &ast.ArrowFunctionExpression{BaseNode: v.BaseNode, Params: v.Params, Body: sub.rewriteExpr(expr), Async: v.Async}
		}
		return v
	default:
		return e
	}
}

// rewriteTarget rewrites an assignment target. A bare Identifier target is
// never a candidate's own name (spec.md §4.F condition (e) disqualifies any
// candidate that is reassigned), so only a MemberExpression target (e.g.
// `candidateFn.prop = x`, reading the candidate as an object) needs
// recursion into its Object.
func (r *callRewriter) rewriteTarget(t ast.Node) ast.Node {
	if me, ok := t.(*ast.MemberExpression); ok {
		prop := me.Property
		if me.Computed {
			prop = r.rewriteExpr(me.Property)
		}
		return &ast.MemberExpression{BaseNode: me.BaseNode, Object: r.rewriteExpr(me.Object), Property: prop, Computed: me.Computed}
	}
	return t
}
