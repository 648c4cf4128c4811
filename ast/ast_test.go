package ast

import "testing"

func TestProgramString(t *testing.T) {
	prog := &Program{Body: []Statement{}}
	if prog.String() != "" {
		t.Errorf("empty program String() = %q, want empty string", prog.String())
	}

	prog = &Program{Body: []Statement{ExprStmt(NumberLiteral(42))}}
	want := "42;\n"
	if prog.String() != want {
		t.Errorf("program String() = %q, want %q", prog.String(), want)
	}
}

func TestIdentifierString(t *testing.T) {
	id := Ident("myVar")
	if id.String() != "myVar" {
		t.Errorf("String() = %q, want %q", id.String(), "myVar")
	}
}

func TestLiteralKinds(t *testing.T) {
	tests := []struct {
		lit  *Literal
		want string
	}{
		{NumberLiteral(42), "42"},
		{StringLiteralNode("hi"), `"hi"`},
		{BoolLiteral(true), "true"},
		{BoolLiteral(false), "false"},
		{NullLiteral(), "null"},
	}
	for _, tt := range tests {
		if got := tt.lit.String(); got != tt.want {
			t.Errorf("Literal.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestAnnotationsRoundTrip(t *testing.T) {
	id := Ident("x")
	if HasAnnotation(id, AnnotationHidden) {
		t.Fatalf("fresh node should carry no annotations")
	}
	Annotate(id, AnnotationHidden, true)
	if !HasAnnotation(id, AnnotationHidden) {
		t.Fatalf("expected annotation to be set")
	}
	v, ok := GetAnnotation(id, AnnotationHidden)
	if !ok || v != true {
		t.Fatalf("GetAnnotation() = %v, %v, want true, true", v, ok)
	}
	RemoveAnnotation(id, AnnotationHidden)
	if HasAnnotation(id, AnnotationHidden) {
		t.Fatalf("expected annotation to be removed")
	}
}

func TestIsBlockAndGetBlockBody(t *testing.T) {
	prog := &Program{Body: []Statement{ExprStmt(Ident("a"))}}
	block := &BlockStatement{Body: []Statement{ExprStmt(Ident("b"))}}
	ifStmt := &IfStatement{Test: BoolLiteral(true), Consequent: block}

	if !IsBlock(prog) || !IsBlock(block) {
		t.Fatalf("expected Program and BlockStatement to be blocks")
	}
	if IsBlock(ifStmt) {
		t.Fatalf("IfStatement must not be a block")
	}
	if len(GetBlockBody(block)) != 1 {
		t.Fatalf("GetBlockBody returned wrong length")
	}
}

func TestCloneIsDeepCopy(t *testing.T) {
	original := Block(VarDecl("var", "a", NumberLiteral(1)))
	clone := Clone(original).(*BlockStatement)

	decl := clone.Body[0].(*VariableDeclaration)
	decl.Declarations[0].ID.(*Identifier).Name = "renamed"

	origDecl := original.Body[0].(*VariableDeclaration)
	if origDecl.Declarations[0].ID.(*Identifier).Name != "a" {
		t.Fatalf("mutating the clone mutated the original: identity was aliased")
	}
}

func TestClassifyIdentifiers(t *testing.T) {
	// function f(a) { var b = a + c; d = 1; return b; }
	fn := &FunctionDeclaration{
		ID:     Ident("f"),
		Params: []Pattern{Ident("a")},
		Body: Block(
			VarDecl("var", "b", Bin("+", Ident("a"), Ident("c"))),
			ExprStmt(Assign(Ident("d"), "=", NumberLiteral(1))),
			&ReturnStatement{Argument: Ident("b")},
		),
	}
	u := ClassifyIdentifiers(fn)
	if !u.Defined["f"] || !u.Defined["a"] || !u.Defined["b"] {
		t.Fatalf("expected f, a, b defined, got %+v", u.Defined)
	}
	if !u.Referenced["a"] || !u.Referenced["c"] || !u.Referenced["b"] {
		t.Fatalf("expected a, c, b referenced, got %+v", u.Referenced)
	}
	if !u.Modified["d"] {
		t.Fatalf("expected d modified, got %+v", u.Modified)
	}
}
