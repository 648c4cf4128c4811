package frontend

import (
	"testing"

	"github.com/jsobf/jsobf/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, errs := Parse(src)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	return prog
}

func TestParseVariableDeclarations(t *testing.T) {
	prog := mustParse(t, `var x = 1; let y = "hi"; const z = [1, 2, 3];`)
	if len(prog.Body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(prog.Body))
	}
	decl, ok := prog.Body[0].(*ast.VariableDeclaration)
	if !ok || decl.Kind != "var" {
		t.Fatalf("expected var declaration, got %#v", prog.Body[0])
	}
	if decl.Declarations[0].ID.(*ast.Identifier).Name != "x" {
		t.Fatalf("expected declarator named x, got %#v", decl.Declarations[0].ID)
	}
	lit, ok := decl.Declarations[0].Init.(*ast.Literal)
	if !ok || lit.Kind != ast.LiteralNumber {
		t.Fatalf("expected numeric literal init, got %#v", decl.Declarations[0].Init)
	}
}

func TestParseFunctionDeclarationAndCall(t *testing.T) {
	prog := mustParse(t, `
		function add(a, b) {
			return a + b;
		}
		add(1, 2);
	`)
	if len(prog.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Body))
	}
	fn, ok := prog.Body[0].(*ast.FunctionDeclaration)
	if !ok || fn.ID.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected function declaration: %#v", prog.Body[0])
	}
	ret, ok := fn.Body.Body[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("expected return statement, got %#v", fn.Body.Body[0])
	}
	bin, ok := ret.Argument.(*ast.BinaryExpression)
	if !ok || bin.Operator != "+" {
		t.Fatalf("expected a + b, got %#v", ret.Argument)
	}

	stmt, ok := prog.Body[1].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected expression statement, got %#v", prog.Body[1])
	}
	call, ok := stmt.Expr.(*ast.CallExpression)
	if !ok || len(call.Arguments) != 2 {
		t.Fatalf("expected call with 2 arguments, got %#v", stmt.Expr)
	}
}

func TestParseIfForWhile(t *testing.T) {
	prog := mustParse(t, `
		if (x > 0) {
			y = 1;
		} else {
			y = 2;
		}
		for (var i = 0; i < 10; i++) {
			z += i;
		}
		while (true) {
			break;
		}
	`)
	if len(prog.Body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(prog.Body))
	}
	ifStmt, ok := prog.Body[0].(*ast.IfStatement)
	if !ok || ifStmt.Alternate == nil {
		t.Fatalf("expected if/else, got %#v", prog.Body[0])
	}
	forStmt, ok := prog.Body[1].(*ast.ForStatement)
	if !ok {
		t.Fatalf("expected for statement, got %#v", prog.Body[1])
	}
	if _, ok := forStmt.Init.(*ast.VariableDeclaration); !ok {
		t.Fatalf("expected for-init to be a var declaration, got %#v", forStmt.Init)
	}
	if _, ok := prog.Body[2].(*ast.WhileStatement); !ok {
		t.Fatalf("expected while statement, got %#v", prog.Body[2])
	}
}

func TestParseTryCatchFinally(t *testing.T) {
	prog := mustParse(t, `
		try {
			risky();
		} catch (e) {
			handle(e);
		} finally {
			cleanup();
		}
	`)
	try, ok := prog.Body[0].(*ast.TryStatement)
	if !ok {
		t.Fatalf("expected try statement, got %#v", prog.Body[0])
	}
	if try.Handler == nil || try.Handler.Param.Name != "e" {
		t.Fatalf("expected catch(e), got %#v", try.Handler)
	}
	if try.Finalizer == nil {
		t.Fatalf("expected a finally block")
	}
}

func TestParseSwitch(t *testing.T) {
	prog := mustParse(t, `
		switch (x) {
			case 1:
				y = 1;
				break;
			default:
				y = 0;
		}
	`)
	sw, ok := prog.Body[0].(*ast.SwitchStatement)
	if !ok || len(sw.Cases) != 2 {
		t.Fatalf("expected switch with 2 cases, got %#v", prog.Body[0])
	}
	if sw.Cases[1].Test != nil {
		t.Fatalf("expected default case to have a nil test")
	}
}

func TestParseArrowFunctions(t *testing.T) {
	prog := mustParse(t, `
		var f = (a, b) => a + b;
		var g = x => { return x * 2; };
		var h = () => 42;
	`)
	for i, name := range []string{"f", "g", "h"} {
		decl := prog.Body[i].(*ast.VariableDeclaration)
		if decl.Declarations[0].ID.(*ast.Identifier).Name != name {
			t.Fatalf("expected declarator %q, got %#v", name, decl.Declarations[0].ID)
		}
		if _, ok := decl.Declarations[0].Init.(*ast.ArrowFunctionExpression); !ok {
			t.Fatalf("expected arrow function init for %q, got %#v", name, decl.Declarations[0].Init)
		}
	}
}

func TestParseDoesNotConfuseParenExpressionWithArrow(t *testing.T) {
	prog := mustParse(t, `var x = (a, b);`)
	decl := prog.Body[0].(*ast.VariableDeclaration)
	seq, ok := decl.Declarations[0].Init.(*ast.SequenceExpression)
	if !ok || len(seq.Expressions) != 2 {
		t.Fatalf("expected a sequence expression, got %#v", decl.Declarations[0].Init)
	}
}

func TestParseObjectAndArrayLiterals(t *testing.T) {
	prog := mustParse(t, `
		var obj = { a: 1, b: function() { return 2; }, c };
		var arr = [1, 2, ...obj.rest];
	`)
	objDecl := prog.Body[0].(*ast.VariableDeclaration)
	obj := objDecl.Declarations[0].Init.(*ast.ObjectExpression)
	if len(obj.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(obj.Properties))
	}
	if !obj.Properties[2].Shorthand {
		t.Fatalf("expected shorthand property `c`, got %#v", obj.Properties[2])
	}

	arrDecl := prog.Body[1].(*ast.VariableDeclaration)
	arr := arrDecl.Declarations[0].Init.(*ast.ArrayExpression)
	if len(arr.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(arr.Elements))
	}
	if _, ok := arr.Elements[2].(*ast.SpreadElement); !ok {
		t.Fatalf("expected spread element, got %#v", arr.Elements[2])
	}
}

func TestParseClassWithMethods(t *testing.T) {
	prog := mustParse(t, `
		class Animal {
			constructor(name) {
				this.name = name;
			}
			speak() {
				return this.name;
			}
			static create(name) {
				return new Animal(name);
			}
		}
	`)
	cls, ok := prog.Body[0].(*ast.ClassDeclaration)
	if !ok || cls.ID.Name != "Animal" {
		t.Fatalf("expected class Animal, got %#v", prog.Body[0])
	}
	if len(cls.Body.Body) != 3 {
		t.Fatalf("expected 3 members, got %d", len(cls.Body.Body))
	}
	if cls.Body.Body[0].Kind != "constructor" {
		t.Fatalf("expected first member to be the constructor, got %q", cls.Body.Body[0].Kind)
	}
	if !cls.Body.Body[2].Static {
		t.Fatalf("expected `create` to be static")
	}
}

func TestParseNewExpressionWithMemberCallee(t *testing.T) {
	prog := mustParse(t, `var x = new foo.Bar(1, 2).baz;`)
	decl := prog.Body[0].(*ast.VariableDeclaration)
	member, ok := decl.Declarations[0].Init.(*ast.MemberExpression)
	if !ok {
		t.Fatalf("expected member expression, got %#v", decl.Declarations[0].Init)
	}
	newExpr, ok := member.Object.(*ast.NewExpression)
	if !ok || len(newExpr.Arguments) != 2 {
		t.Fatalf("expected `new foo.Bar(1, 2)` callee, got %#v", member.Object)
	}
}

func TestParseLabeledBreakContinue(t *testing.T) {
	prog := mustParse(t, `
		outer: for (;;) {
			continue outer;
		}
	`)
	labeled, ok := prog.Body[0].(*ast.LabeledStatement)
	if !ok || labeled.Label.Name != "outer" {
		t.Fatalf("expected labeled statement `outer`, got %#v", prog.Body[0])
	}
	forStmt := labeled.Body.(*ast.ForStatement)
	cont := forStmt.Body.(*ast.BlockStatement).Body[0].(*ast.ContinueStatement)
	if cont.Label == nil || cont.Label.Name != "outer" {
		t.Fatalf("expected `continue outer`, got %#v", cont)
	}
}

func TestParseReportsSyntaxErrors(t *testing.T) {
	_, errs := Parse(`var x = ;`)
	if len(errs) == 0 {
		t.Fatalf("expected a syntax error for `var x = ;`")
	}
}
