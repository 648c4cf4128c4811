package cff

import (
	"testing"

	"github.com/jsobf/jsobf/ast"
	"github.com/jsobf/jsobf/pipeline"
	"github.com/jsobf/jsobf/transform"
)

func newTestEnv() *pipeline.Env {
	opts := pipeline.DefaultOptions()
	opts.ControlFlowFlattening = true
	return pipeline.NewEnv(opts, 1, 2)
}

// program wraps a function declaration in a Program so ancestor chains look
// like a real parse tree when CFF's eligibility check walks it.
func program(fn *ast.FunctionDeclaration) *ast.Program {
	return &ast.Program{Body: []ast.Statement{fn}}
}

func simpleFunction(body ...ast.Statement) *ast.FunctionDeclaration {
	return &ast.FunctionDeclaration{
		ID:     ast.Ident("f"),
		Params: nil,
		Body:   ast.Block(body...),
	}
}

func TestCFFSkipsShortBlocks(t *testing.T) {
	fn := simpleFunction(
		ast.ExprStmt(ast.Assign(ast.Ident("a"), "=", ast.NumberLiteral(1))),
		&ast.ReturnStatement{Argument: ast.Ident("a")},
	)
	root := program(fn)
	pass := New(newTestEnv())
	transform.Apply(pass, root)

	if len(fn.Body.Body) != 2 {
		t.Fatalf("expected untouched 2-statement body, got %d statements", len(fn.Body.Body))
	}
}

func TestCFFSkipsLexicalBindings(t *testing.T) {
	fn := simpleFunction(
		&ast.VariableDeclaration{Kind: "let", Declarations: []*ast.VariableDeclarator{{ID: ast.Ident("a"), Init: ast.NumberLiteral(1)}}},
		ast.ExprStmt(ast.Assign(ast.Ident("a"), "=", ast.NumberLiteral(2))),
		&ast.ReturnStatement{Argument: ast.Ident("a")},
	)
	root := program(fn)
	pass := New(newTestEnv())
	transform.Apply(pass, root)

	if len(fn.Body.Body) != 3 {
		t.Fatalf("expected untouched 3-statement body (let binding present), got %d", len(fn.Body.Body))
	}
}

func TestCFFRewritesEligibleBlock(t *testing.T) {
	fn := simpleFunction(
		&ast.VariableDeclaration{Kind: "var", Declarations: []*ast.VariableDeclarator{{ID: ast.Ident("a"), Init: ast.NumberLiteral(1)}}},
		&ast.VariableDeclaration{Kind: "var", Declarations: []*ast.VariableDeclarator{{ID: ast.Ident("b"), Init: ast.NumberLiteral(2)}}},
		&ast.VariableDeclaration{Kind: "var", Declarations: []*ast.VariableDeclarator{{ID: ast.Ident("c"), Init: ast.NumberLiteral(3)}}},
		&ast.ReturnStatement{Argument: ast.Bin("+", ast.Bin("+", ast.Ident("a"), ast.Ident("b")), ast.Ident("c"))},
	)
	root := program(fn)
	pass := New(newTestEnv())
	transform.Apply(pass, root)

	body := fn.Body.Body
	if len(body) != 2 {
		t.Fatalf("expected rewritten body = [state decl, while], got %d statements", len(body))
	}

	decl, ok := body[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected first statement to be the state variable declaration, got %T", body[0])
	}
	if len(decl.Declarations) < 2 || len(decl.Declarations) > 4 {
		t.Fatalf("expected k in [2,5) state variables, got %d", len(decl.Declarations))
	}

	while, ok := body[1].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("expected second statement to be a while loop, got %T", body[1])
	}

	block, ok := while.Body.(*ast.BlockStatement)
	if !ok || len(block.Body) != 1 {
		t.Fatalf("expected while body to be a single-statement block, got %#v", while.Body)
	}
	labeled, ok := block.Body[0].(*ast.LabeledStatement)
	if !ok {
		t.Fatalf("expected while body to hold a labeled switch, got %T", block.Body[0])
	}
	sw, ok := labeled.Body.(*ast.SwitchStatement)
	if !ok {
		t.Fatalf("expected labeled statement to wrap a switch statement, got %T", labeled.Body)
	}
	if len(sw.Cases) < 1 || len(sw.Cases) > 4 {
		t.Fatalf("expected between 1 and 4 chunks for a 4-statement block, got %d", len(sw.Cases))
	}

	seen := map[int64]bool{}
	for _, c := range sw.Cases {
		lit, ok := c.Test.(*ast.Literal)
		if !ok || !lit.IsNumber() {
			t.Fatalf("expected every case test to be a numeric literal, got %#v", c.Test)
		}
		n, _ := lit.Int64()
		if seen[n] {
			t.Fatalf("duplicate case total %d", n)
		}
		seen[n] = true
	}
}

func TestCFFHoistsFunctionDeclarations(t *testing.T) {
	helper := &ast.FunctionDeclaration{ID: ast.Ident("helper"), Body: ast.Block(&ast.ReturnStatement{Argument: ast.NumberLiteral(1)})}
	fn := simpleFunction(
		helper,
		&ast.VariableDeclaration{Kind: "var", Declarations: []*ast.VariableDeclarator{{ID: ast.Ident("a"), Init: ast.NumberLiteral(1)}}},
		&ast.VariableDeclaration{Kind: "var", Declarations: []*ast.VariableDeclarator{{ID: ast.Ident("b"), Init: ast.NumberLiteral(2)}}},
		&ast.ReturnStatement{Argument: ast.Ident("a")},
	)
	root := program(fn)
	pass := New(newTestEnv())
	transform.Apply(pass, root)

	if len(fn.Body.Body) == 0 {
		t.Fatalf("expected a non-empty rewritten body")
	}
	if fn.Body.Body[0] != ast.Statement(helper) {
		t.Fatalf("expected hoisted function declaration to be re-prepended first, got %T", fn.Body.Body[0])
	}
}

func TestCFFAbortsOnIneligibleGrandparent(t *testing.T) {
	// fn.Body has a single statement (the if), so it is itself ineligible
	// (needs >= 3 statements) and traversal descends naturally into the
	// if-branch block instead of it being consumed by an outer rewrite --
	// exercising the "grandparent is If/For/While" exclusion directly.
	inner := ast.Block(
		ast.ExprStmt(ast.Assign(ast.Ident("a"), "=", ast.NumberLiteral(1))),
		ast.ExprStmt(ast.Assign(ast.Ident("a"), "+=", ast.NumberLiteral(1))),
		ast.ExprStmt(ast.Assign(ast.Ident("a"), "+=", ast.NumberLiteral(1))),
	)
	ifStmt := &ast.IfStatement{Test: ast.Ident("cond"), Consequent: inner}
	fn := simpleFunction(ifStmt)
	root := program(fn)
	pass := New(newTestEnv())
	transform.Apply(pass, root)

	if len(inner.Body) != 3 {
		t.Fatalf("expected the if-branch block to be left untouched by CFF, got %d statements", len(inner.Body))
	}
}
