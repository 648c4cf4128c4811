package rgf

import "github.com/jsobf/jsobf/ast"

// refRewriter replaces every reference to an extracted candidate's name,
// throughout the rest of the context's body, with the indirection spec.md
// §4.H describes: a single expression that resolves to a forwarding
// wrapper when R[i] currently holds a string-compiled stub, or to R[i]
// itself otherwise. The same expression serves calls and passive reads
// alike, since both forms are plain Identifier occurrences once the
// extracted FunctionDeclaration itself has been removed from the tree.
type refRewriter struct {
	extracted    map[string]*extractedFn
	refArrayName string
}

// refExpr builds `(typeof R[i] === "function" && R[i][sig]) ? (function(){
// return R[i](R, ...arguments); }) : R[i]`.
func (r *refRewriter) refExpr(ef *extractedFn) ast.Expression {
	indexed := ast.Member(ast.Ident(r.refArrayName), ast.NumberLiteral(int64(ef.index)), true)
	isStub := &ast.LogicalExpression{
		Operator: "&&",
		Left:     ast.Bin("===", &ast.UnaryExpression{Operator: "typeof", Argument: indexed, Prefix: true}, ast.StringLiteralNode("function")),
		Right:    ast.Member(indexed, ast.StringLiteralNode(ef.signature), true),
	}
	wrapper := &ast.FunctionExpression{Body: ast.Block(&ast.ReturnStatement{
		Argument: ast.Call(indexed, ast.Ident(r.refArrayName), &ast.SpreadElement{Argument: ast.Ident("arguments")}),
	})}
	return ast.Cond(isStub, wrapper, indexed)
}

// sub narrows the rewriter for descent into a nested function body: any
// extracted name the nested function's own declarations shadow is dropped.
func (r *refRewriter) sub(body ast.Node) *refRewriter {
	if len(r.extracted) == 0 {
		return r
	}
	usage := ast.ClassifyIdentifiers(body)
	reduced := make(map[string]*extractedFn, len(r.extracted))
	shrunk := false
	for name, ef := range r.extracted {
		if usage.Defined[name] {
			shrunk = true
			continue
		}
		reduced[name] = ef
	}
	if !shrunk {
		return r
	}
	return &refRewriter{extracted: reduced, refArrayName: r.refArrayName}
}

func (r *refRewriter) rewriteStmts(stmts []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, len(stmts))
	for i, s := range stmts {
		out[i] = r.rewriteStmt(s)
	}
	return out
}

func (r *refRewriter) rewriteStmt(s ast.Statement) ast.Statement {
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

func (r *refRewriter) rewriteForInit(n ast.Node) ast.Node {
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

func (r *refRewriter) rewriteExprOrNil(e ast.Expression) ast.Expression {
	if e == nil {
		return nil
	}
	return r.rewriteExpr(e)
}

func (r *refRewriter) rewriteExprList(list []ast.Expression) []ast.Expression {
	out := make([]ast.Expression, len(list))
	for i, e := range list {
		out[i] = r.rewriteExprOrNil(e)
	}
	return out
}

func (r *refRewriter) rewriteExpr(e ast.Expression) ast.Expression {
	switch v := e.(type) {
	case nil:
		return nil
	case *ast.Identifier:
		if ef, ok := r.extracted[v.Name]; ok {
			return r.refExpr(ef)
		}
		return v
	case *ast.CallExpression:
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
// never an extracted candidate's own name in practice (the candidate is a
// FunctionDeclaration, and reassigning its name does not disqualify it the
// way Dispatcher's condition (e) does, but rewriting the assignment target
// itself to the conditional indirection would make the assignment
// meaningless); only a MemberExpression target needs recursion into its
// Object.
func (r *refRewriter) rewriteTarget(t ast.Node) ast.Node {
	if me, ok := t.(*ast.MemberExpression); ok {
		prop := me.Property
		if me.Computed {
			prop = r.rewriteExpr(me.Property)
		}
		return &ast.MemberExpression{BaseNode: me.BaseNode, Object: r.rewriteExpr(me.Object), Property: prop, Computed: me.Computed}
	}
	return t
}
