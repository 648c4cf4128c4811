package rgf

import (
	"testing"

	"github.com/jsobf/jsobf/ast"
	"github.com/jsobf/jsobf/pipeline"
	"github.com/jsobf/jsobf/transform"
)

func newTestEnv(rgfMode any) *pipeline.Env {
	opts := pipeline.DefaultOptions()
	opts.ControlFlowFlattening = false
	opts.Dispatcher = false
	opts.Flatten = false
	opts.RGF = rgfMode
	return pipeline.NewEnv(opts, 21, 22)
}

func findRefArrayDecl(stmts []ast.Statement) (*ast.VariableDeclaration, *ast.ArrayExpression) {
	for _, s := range stmts {
		decl, ok := s.(*ast.VariableDeclaration)
		if !ok || len(decl.Declarations) != 1 {
			continue
		}
		if arr, ok := decl.Declarations[0].Init.(*ast.ArrayExpression); ok {
			return decl, arr
		}
	}
	return nil, nil
}

func containsFunctionDeclNamed(stmts []ast.Statement, name string) bool {
	for _, s := range stmts {
		if fn, ok := s.(*ast.FunctionDeclaration); ok && fn.ID != nil && fn.ID.Name == name {
			return true
		}
	}
	return false
}

// TestRGFExtractsZeroReferenceFunction exercises spec.md §8 scenario 4:
// `var z=0; function p(){ z++; return z; } p(); p();` with RGF mode "all".
func TestRGFExtractsZeroReferenceFunction(t *testing.T) {
	p := &ast.FunctionDeclaration{
		ID: ast.Ident("p"),
		Body: ast.Block(
			ast.ExprStmt(&ast.UnaryExpression{Operator: "++", Argument: ast.Ident("z"), Prefix: false}),
			&ast.ReturnStatement{Argument: ast.Ident("z")},
		),
	}
	root := &ast.Program{Body: []ast.Statement{
		ast.VarDecl("var", "z", ast.NumberLiteral(0)),
		p,
		ast.ExprStmt(ast.Call(ast.Ident("p"))),
		ast.ExprStmt(ast.Call(ast.Ident("p"))),
	}}

	pass := New(newTestEnv(pipeline.RGFAll))
	transform.Apply(pass, root)

	if containsFunctionDeclNamed(root.Body, "p") {
		t.Fatalf("expected `function p` declaration to be removed, body: %#v", root.Body)
	}

	refDecl, refArray := findRefArrayDecl(root.Body)
	if refDecl == nil {
		t.Fatalf("expected a top-level reference-array declaration, got %#v", root.Body)
	}
	if len(refArray.Elements) != 1 {
		t.Fatalf("expected exactly one extracted function in the reference array, got %d", len(refArray.Elements))
	}

	iifeCall, ok := refArray.Elements[0].(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected the reference-array element to be an IIFE call")
	}
	iifeFn, ok := iifeCall.Callee.(*ast.FunctionExpression)
	if !ok {
		t.Fatalf("expected the IIFE callee to be a function expression")
	}
	foundNewFunction := false
	for _, s := range iifeFn.Body.Body {
		decl, ok := s.(*ast.VariableDeclaration)
		if !ok {
			continue
		}
		if ne, ok := decl.Declarations[0].Init.(*ast.NewExpression); ok {
			if id, ok := ne.Callee.(*ast.Identifier); ok && id.Name == "Function" {
				foundNewFunction = true
			}
		}
	}
	if !foundNewFunction {
		t.Fatalf("expected the installer IIFE to contain `new Function(...)`, got %#v", iifeFn.Body.Body)
	}

	foundCall := false
	for _, s := range root.Body {
		es, ok := s.(*ast.ExpressionStatement)
		if !ok {
			continue
		}
		if call, ok := es.Expr.(*ast.CallExpression); ok {
			if _, ok := call.Callee.(*ast.ConditionalExpression); ok {
				foundCall = true
			}
		}
	}
	if !foundCall {
		t.Fatalf("expected p()'s call sites to be rewritten through the conditional indirection, got %#v", root.Body)
	}
}

// TestRGFNoOpsOnArrowFunction covers spec.md §8's boundary: "RGF must
// no-op on arrow functions" -- an arrow is never even offered as a var
// context to collect candidates from.
func TestRGFNoOpsOnArrowFunction(t *testing.T) {
	inner := &ast.FunctionDeclaration{
		ID:   ast.Ident("inner"),
		Body: ast.Block(&ast.ReturnStatement{Argument: ast.NumberLiteral(1)}),
	}
	arrow := &ast.ArrowFunctionExpression{
		Params: []ast.Pattern{},
		Body:   ast.Block(inner, ast.ExprStmt(ast.Call(ast.Ident("inner")))),
	}
	holder := ast.VarDecl("var", "f", arrow)
	root := &ast.Program{Body: []ast.Statement{holder}}

	pass := New(newTestEnv(pipeline.RGFAll))
	transform.Apply(pass, root)

	block := arrow.Body.(*ast.BlockStatement)
	if !containsFunctionDeclNamed(block.Body, "inner") {
		t.Fatalf("expected arrow body to be left untouched, got %#v", block.Body)
	}
}

// TestRGFSkipsLockedCountermeasuresFunction covers the
// `lock.countermeasures` exclusion (spec.md §6).
func TestRGFSkipsLockedCountermeasuresFunction(t *testing.T) {
	guard := &ast.FunctionDeclaration{
		ID:   ast.Ident("guard"),
		Body: ast.Block(&ast.ReturnStatement{Argument: ast.NumberLiteral(1)}),
	}
	root := &ast.Program{Body: []ast.Statement{guard, ast.ExprStmt(ast.Call(ast.Ident("guard")))}}

	env := newTestEnv(pipeline.RGFAll)
	env.Options.LockCountermeasures = "guard"
	pass := New(env)
	transform.Apply(pass, root)

	if !containsFunctionDeclNamed(root.Body, "guard") {
		t.Fatalf("expected locked countermeasures function to be left untouched, got %#v", root.Body)
	}
}

// TestRGFTrueEnablesProgramOnly covers spec.md §6: bare `true` enables RGF
// at Program only, not at nested function-like contexts.
func TestRGFTrueEnablesProgramOnly(t *testing.T) {
	inner := &ast.FunctionDeclaration{
		ID:   ast.Ident("inner"),
		Body: ast.Block(&ast.ReturnStatement{Argument: ast.NumberLiteral(1)}),
	}
	outer := &ast.FunctionDeclaration{
		ID:   ast.Ident("outer"),
		Body: ast.Block(inner, &ast.ReturnStatement{Argument: ast.Call(ast.Ident("inner"))}),
	}
	root := &ast.Program{Body: []ast.Statement{outer}}

	pass := New(newTestEnv(true))
	transform.Apply(pass, root)

	if !containsFunctionDeclNamed(outer.Body.Body, "inner") {
		t.Fatalf("expected `outer`'s nested function to be left untouched when rgf=true, got %#v", outer.Body.Body)
	}
}
