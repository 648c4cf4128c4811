package flatten

import (
	"github.com/jsobf/jsobf/ast"
	"github.com/jsobf/jsobf/transform"
)

// sharedNames holds every fresh identifier Flatten synthesizes once per
// extracted candidate: the top-level function's name, the shared `result`
// binding, the flag property that records whether a return happened, the
// property holding the return value, one property per output variable, and
// an always-unset property used only to guard decoy branches.
type sharedNames struct {
	flatFnName string
	resultName string
	propName   string
	returnKey  string
	decoyProp  string
	outKeys    map[string]string // output variable name -> result.prop field name
}

func newSharedNames(gen *transform.Generator, outputNames []string, baseName string) *sharedNames {
	s := &sharedNames{
		flatFnName: "__p_" + gen.Next() + "_flat_" + baseName,
		resultName: gen.Next(),
		propName:   gen.Next(),
		returnKey:  gen.Next(),
		decoyProp:  gen.Next(),
		outKeys:    make(map[string]string, len(outputNames)),
	}
	for _, name := range outputNames {
		s.outKeys[name] = gen.Next()
	}
	return s
}

// returnRewriter replaces every ReturnStatement reachable within the
// candidate's own scope with an assignment into `result.prop`, per
// spec.md §4.G. It never descends into a nested function or arrow's own
// body -- a return there belongs to that function, not this one.
type returnRewriter struct {
	names       *sharedNames
	outputNames []string
}

func (r *returnRewriter) rewriteStmts(stmts []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, len(stmts))
	for i, s := range stmts {
		out[i] = r.rewriteStmt(s)
	}
	return out
}

func (r *returnRewriter) rewriteStmt(s ast.Statement) ast.Statement {
	switch v := s.(type) {
	case nil:
		return nil
	case *ast.ReturnStatement:
		return ast.ExprStmt(ast.Assign(
			ast.Member(ast.Ident(r.names.resultName), ast.Ident(r.names.propName), false),
			"=",
			r.resultObject(v.Argument),
		))
	case *ast.BlockStatement:
		return ast.Block(r.rewriteStmts(v.Body)...)
	case *ast.IfStatement:
		var alt ast.Statement
		if v.Alternate != nil {
			alt = r.rewriteStmt(v.Alternate)
		}
		return &ast.IfStatement{BaseNode: v.BaseNode, Test: v.Test, Consequent: r.rewriteStmt(v.Consequent), Alternate: alt}
	case *ast.LabeledStatement:
		return &ast.LabeledStatement{BaseNode: v.BaseNode, Label: v.Label, Body: r.rewriteStmt(v.Body)}
	case *ast.WhileStatement:
		return &ast.WhileStatement{BaseNode: v.BaseNode, Test: v.Test, Body: r.rewriteStmt(v.Body)}
	case *ast.DoWhileStatement:
		return &ast.DoWhileStatement{BaseNode: v.BaseNode, Body: r.rewriteStmt(v.Body), Test: v.Test}
	case *ast.ForStatement:
		return &ast.ForStatement{BaseNode: v.BaseNode, Init: v.Init, Test: v.Test, Update: v.Update, Body: r.rewriteStmt(v.Body)}
	case *ast.SwitchStatement:
		cases := make([]*ast.SwitchCase, len(v.Cases))
		for i, c := range v.Cases {
			cases[i] = &ast.SwitchCase{BaseNode: c.BaseNode, Test: c.Test, Consequent: r.rewriteStmts(c.Consequent)}
		}
		return &ast.SwitchStatement{BaseNode: v.BaseNode, Discriminant: v.Discriminant, Cases: cases}
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
	default:
		// ExpressionStatement, VariableDeclaration, Break/Continue/Empty/
		// Goto, and any nested FunctionDeclaration carry no return of this
		// candidate's own scope; moved into flat_X verbatim.
		return s
	}
}

// resultObject builds `{ returnKey: argument, outKey_i: modified_i, ... }`.
// A bare `return;` carries `undefined` as its returnKey value.
func (r *returnRewriter) resultObject(argument ast.Expression) *ast.ObjectExpression {
	if argument == nil {
		argument = ast.Ident("undefined")
	}
	props := make([]*ast.Property, 0, 1+len(r.outputNames))
	props = append(props, &ast.Property{Key: ast.Ident(r.names.returnKey), Value: argument, Kind: "init"})
	for _, name := range r.outputNames {
		props = append(props, &ast.Property{Key: ast.Ident(r.names.outKeys[name]), Value: ast.Ident(name), Kind: "init"})
	}
	return &ast.ObjectExpression{Properties: props}
}
