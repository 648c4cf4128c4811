package dispatcher

import (
	"testing"

	"github.com/jsobf/jsobf/ast"
	"github.com/jsobf/jsobf/pipeline"
	"github.com/jsobf/jsobf/transform"
)

func newTestEnv() *pipeline.Env {
	opts := pipeline.DefaultOptions()
	opts.ControlFlowFlattening = false
	opts.Flatten = false
	opts.Dispatcher = true
	return pipeline.NewEnv(opts, 5, 6)
}

func containsFunctionDeclNamed(stmts []ast.Statement, name string) bool {
	for _, s := range stmts {
		if fn, ok := s.(*ast.FunctionDeclaration); ok && fn.ID != nil && fn.ID.Name == name {
			return true
		}
	}
	return false
}

// TestDispatcherRewritesNamedFunction exercises spec.md §8 scenario 2:
// `function g(){ function h(x){return x*2;} return h(3)+h(4); }`.
func TestDispatcherRewritesNamedFunction(t *testing.T) {
	h := &ast.FunctionDeclaration{
		ID:     ast.Ident("h"),
		Params: []ast.Pattern{ast.Ident("x")},
		Body:   ast.Block(&ast.ReturnStatement{Argument: ast.Bin("*", ast.Ident("x"), ast.NumberLiteral(2))}),
	}
	call3 := ast.Call(ast.Ident("h"), ast.NumberLiteral(3))
	call4 := ast.Call(ast.Ident("h"), ast.NumberLiteral(4))
	g := &ast.FunctionDeclaration{
		ID:   ast.Ident("g"),
		Body: ast.Block(h, &ast.ReturnStatement{Argument: ast.Bin("+", call3, call4)}),
	}
	root := &ast.Program{Body: []ast.Statement{g}}

	pass := New(newTestEnv())
	transform.Apply(pass, root)

	if containsFunctionDeclNamed(g.Body.Body, "h") {
		t.Fatalf("expected `function h` declaration to be removed, body: %#v", g.Body.Body)
	}

	foundTable := false
	for _, s := range g.Body.Body {
		decl, ok := s.(*ast.VariableDeclaration)
		if !ok {
			continue
		}
		for _, d := range decl.Declarations {
			if obj, ok := d.Init.(*ast.ObjectExpression); ok {
				for _, p := range obj.Properties {
					if fnExpr, ok := p.Value.(*ast.FunctionExpression); ok && len(fnExpr.Params) == 3 {
						foundTable = true
					}
				}
			}
		}
	}
	if !foundTable {
		t.Fatalf("expected a dispatch table object with a 3-param FunctionExpression entry")
	}
}

// TestDispatcherSkipsAsyncFunctions covers the "no-op inside AwaitExpression"
// boundary indirectly: since async functions are excluded from candidacy
// (condition (b)), and `await` can only appear inside an async function
// body, no candidate body can ever contain one.
func TestDispatcherSkipsAsyncFunctions(t *testing.T) {
	h := &ast.FunctionDeclaration{
		ID:    ast.Ident("h"),
		Async: true,
		Body:  ast.Block(&ast.ReturnStatement{Argument: ast.NumberLiteral(1)}),
	}
	g := &ast.FunctionDeclaration{
		ID:   ast.Ident("g"),
		Body: ast.Block(h, &ast.ReturnStatement{Argument: ast.Call(ast.Ident("h"))}),
	}
	root := &ast.Program{Body: []ast.Statement{g}}

	pass := New(newTestEnv())
	transform.Apply(pass, root)

	if !containsFunctionDeclNamed(g.Body.Body, "h") {
		t.Fatalf("expected async function h to be left untouched")
	}
}

// TestDispatcherSkipsThisReferencingFunction covers condition (d).
func TestDispatcherSkipsThisReferencingFunction(t *testing.T) {
	h := &ast.FunctionDeclaration{
		ID:   ast.Ident("h"),
		Body: ast.Block(&ast.ReturnStatement{Argument: &ast.MemberExpression{Object: &ast.ThisExpression{}, Property: ast.Ident("x")}}),
	}
	g := &ast.FunctionDeclaration{
		ID:   ast.Ident("g"),
		Body: ast.Block(h, &ast.ReturnStatement{Argument: ast.Call(ast.Ident("h"))}),
	}
	root := &ast.Program{Body: []ast.Statement{g}}

	pass := New(newTestEnv())
	transform.Apply(pass, root)

	if !containsFunctionDeclNamed(g.Body.Body, "h") {
		t.Fatalf("expected `this`-referencing function h to be left untouched")
	}
}

// TestDispatcherSkipsReassignedName covers condition (e): duplicates and
// reassignment disqualify.
func TestDispatcherSkipsReassignedName(t *testing.T) {
	h := &ast.FunctionDeclaration{
		ID:   ast.Ident("h"),
		Body: ast.Block(&ast.ReturnStatement{Argument: ast.NumberLiteral(1)}),
	}
	reassign := ast.ExprStmt(ast.Assign(ast.Ident("h"), "=", ast.Ident("undefined")))
	g := &ast.FunctionDeclaration{
		ID:   ast.Ident("g"),
		Body: ast.Block(h, reassign, &ast.ReturnStatement{Argument: ast.NumberLiteral(1)}),
	}
	root := &ast.Program{Body: []ast.Statement{g}}

	pass := New(newTestEnv())
	transform.Apply(pass, root)

	if !containsFunctionDeclNamed(g.Body.Body, "h") {
		t.Fatalf("expected reassigned function h to be left untouched")
	}
}
