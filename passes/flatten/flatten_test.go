package flatten

import (
	"strings"
	"testing"

	"github.com/jsobf/jsobf/ast"
	"github.com/jsobf/jsobf/pipeline"
	"github.com/jsobf/jsobf/transform"
)

func newTestEnv() *pipeline.Env {
	opts := pipeline.DefaultOptions()
	opts.ControlFlowFlattening = false
	opts.Dispatcher = false
	opts.Flatten = true
	opts.RGF = false
	return pipeline.NewEnv(opts, 11, 12)
}

func findTopLevelFlatDecl(body []ast.Statement, substr string) *ast.VariableDeclaration {
	for _, s := range body {
		decl, ok := s.(*ast.VariableDeclaration)
		if !ok {
			continue
		}
		for _, d := range decl.Declarations {
			if id, ok := d.ID.(*ast.Identifier); ok && strings.Contains(id.Name, substr) {
				return decl
			}
		}
	}
	return nil
}

func containsReturnOf(stmts []ast.Statement, name string) bool {
	for _, s := range stmts {
		ret, ok := s.(*ast.ReturnStatement)
		if !ok {
			continue
		}
		if id, ok := ret.Argument.(*ast.Identifier); ok && id.Name == name {
			return true
		}
	}
	return false
}

// TestFlattenExtractsClosureCapturingFunction exercises spec.md §8 scenario
// 3: `function outer(){ var x=10; function inner(){return x;} return
// inner(); }` with Flatten only.
func TestFlattenExtractsClosureCapturingFunction(t *testing.T) {
	inner := &ast.FunctionDeclaration{
		ID:   ast.Ident("inner"),
		Body: ast.Block(&ast.ReturnStatement{Argument: ast.Ident("x")}),
	}
	outer := &ast.FunctionDeclaration{
		ID: ast.Ident("outer"),
		Body: ast.Block(
			ast.VarDecl("var", "x", ast.NumberLiteral(10)),
			inner,
			&ast.ReturnStatement{Argument: ast.Call(ast.Ident("inner"))},
		),
	}
	root := &ast.Program{Body: []ast.Statement{outer}}

	pass := New(newTestEnv())
	transform.Apply(pass, root)

	flatDecl := findTopLevelFlatDecl(root.Body, "_flat_inner")
	if flatDecl == nil {
		t.Fatalf("expected a top-level var declaration named *_flat_inner in %#v", root.Body)
	}
	fnVal, ok := flatDecl.Declarations[0].Init.(*ast.FunctionExpression)
	if !ok {
		t.Fatalf("expected the flat declaration's initializer to be a function expression")
	}
	if len(fnVal.Params) != 3 {
		t.Fatalf("expected flat_inner to take 3 params (inputArray, paramArray, result), got %d", len(fnVal.Params))
	}
	if _, ok := containsReturnStmtReferencingResult(fnVal.Body.Body); !ok {
		t.Fatalf("expected flat_inner's body to assign into a result object on return")
	}

	if containsReturnOf(inner.Body.Body, "x") {
		t.Fatalf("expected inner's own body to no longer directly `return x`, got %#v", inner.Body.Body)
	}
}

func containsReturnStmtReferencingResult(stmts []ast.Statement) (ast.Statement, bool) {
	for _, s := range stmts {
		es, ok := s.(*ast.ExpressionStatement)
		if !ok {
			continue
		}
		assign, ok := es.Expr.(*ast.AssignmentExpression)
		if !ok {
			continue
		}
		if _, ok := assign.Target.(*ast.MemberExpression); ok {
			return s, true
		}
	}
	return nil, false
}

// TestFlattenSkipsThisReferencingFunction covers spec.md §8 scenario 6: a
// function containing `this` must be left untouched by Flatten.
func TestFlattenSkipsThisReferencingFunction(t *testing.T) {
	m := &ast.FunctionDeclaration{
		ID: ast.Ident("m"),
		Body: ast.Block(&ast.ReturnStatement{
			Argument: &ast.MemberExpression{Object: &ast.ThisExpression{}, Property: ast.Ident("x")},
		}),
	}
	root := &ast.Program{Body: []ast.Statement{m}}

	pass := New(newTestEnv())
	transform.Apply(pass, root)

	ret, ok := m.Body.Body[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("expected m's body to still be a single return statement, got %#v", m.Body.Body)
	}
	member, ok := ret.Argument.(*ast.MemberExpression)
	if !ok {
		t.Fatalf("expected m to still return a member expression")
	}
	if _, ok := member.Object.(*ast.ThisExpression); !ok {
		t.Fatalf("expected m's return to still read off `this`")
	}
	if len(root.Body) != 1 {
		t.Fatalf("expected no top-level flat_ function to have been introduced, got %#v", root.Body)
	}
}

// TestFlattenSkipsTryContainingFunction covers the `try` abort condition.
func TestFlattenSkipsTryContainingFunction(t *testing.T) {
	f := &ast.FunctionDeclaration{
		ID: ast.Ident("f"),
		Body: ast.Block(&ast.TryStatement{
			Block: ast.Block(&ast.ReturnStatement{Argument: ast.NumberLiteral(1)}),
			Handler: &ast.CatchClause{
				Param: ast.Ident("e"),
				Body:  ast.Block(),
			},
		}),
	}
	root := &ast.Program{Body: []ast.Statement{f}}

	pass := New(newTestEnv())
	transform.Apply(pass, root)

	if len(root.Body) != 1 {
		t.Fatalf("expected f containing a try to be left untouched, got %#v", root.Body)
	}
	if _, ok := f.Body.Body[0].(*ast.TryStatement); !ok {
		t.Fatalf("expected f's body to still be the original try statement")
	}
}

// TestFlattenSkipsUnresolvableFreeVariable covers the `definedAbove`
// requirement: a function referencing a name no ancestor var context
// declares must not be flattened (there is nowhere to destructure the
// input array's value from).
func TestFlattenSkipsUnresolvableFreeVariable(t *testing.T) {
	f := &ast.FunctionDeclaration{
		ID:   ast.Ident("f"),
		Body: ast.Block(&ast.ReturnStatement{Argument: ast.Ident("totallyUndeclared")}),
	}
	root := &ast.Program{Body: []ast.Statement{f}}

	pass := New(newTestEnv())
	transform.Apply(pass, root)

	if len(root.Body) != 1 {
		t.Fatalf("expected f to be left untouched since `totallyUndeclared` resolves nowhere, got %#v", root.Body)
	}
}
