package traverse

import (
	"testing"

	"github.com/jsobf/jsobf/ast"
)

func TestWalkVisitsEveryNode(t *testing.T) {
	prog := &ast.Program{Body: []ast.Statement{
		ast.VarDecl("var", "a", ast.NumberLiteral(1)),
		ast.ExprStmt(ast.Bin("+", ast.Ident("a"), ast.NumberLiteral(2))),
	}}

	var idents []string
	Walk(prog, nil, func(n ast.Node, ancestors []ast.Node) any {
		if id, ok := n.(*ast.Identifier); ok {
			idents = append(idents, id.Name)
		}
		return nil
	})

	if len(idents) != 2 || idents[0] != "a" || idents[1] != "a" {
		t.Fatalf("expected two references to 'a', got %v", idents)
	}
}

func TestWalkExitAbortsSubtree(t *testing.T) {
	prog := &ast.Program{Body: []ast.Statement{
		ast.ExprStmt(ast.Ident("first")),
		ast.ExprStmt(ast.Ident("second")),
	}}

	var visited []string
	Walk(prog, nil, func(n ast.Node, ancestors []ast.Node) any {
		if id, ok := n.(*ast.Identifier); ok {
			visited = append(visited, id.Name)
			if id.Name == "first" {
				return Exit
			}
		}
		return nil
	})

	if len(visited) != 1 || visited[0] != "first" {
		t.Fatalf("expected traversal to stop after 'first', got %v", visited)
	}
}

func TestWalkExitCallbackRunsPostOrder(t *testing.T) {
	block := ast.Block(ast.ExprStmt(ast.Ident("inner")))
	var order []string
	Walk(block, nil, func(n ast.Node, ancestors []ast.Node) any {
		if _, ok := n.(*ast.BlockStatement); ok {
			order = append(order, "pre:block")
			return func() { order = append(order, "post:block") }
		}
		if id, ok := n.(*ast.Identifier); ok {
			order = append(order, "visit:"+id.Name)
		}
		return nil
	})

	want := []string{"pre:block", "visit:inner", "post:block"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestGetVarContext(t *testing.T) {
	fn := &ast.FunctionDeclaration{
		ID:     ast.Ident("f"),
		Params: nil,
		Body:   ast.Block(ast.ExprStmt(ast.Ident("x"))),
	}
	prog := &ast.Program{Body: []ast.Statement{fn}}

	var gotCtx ast.Node
	Walk(prog, nil, func(n ast.Node, ancestors []ast.Node) any {
		if id, ok := n.(*ast.Identifier); ok && id.Name == "x" {
			gotCtx = GetVarContext(n, ancestors)
		}
		return nil
	})

	if gotCtx != fn {
		t.Fatalf("GetVarContext returned %v, want the enclosing FunctionDeclaration", gotCtx)
	}
}
