package obfuscator

import (
	"strings"
	"testing"

	"github.com/jsobf/jsobf/ast"
	"github.com/jsobf/jsobf/pipeline"
	"github.com/jsobf/jsobf/traverse"
	"github.com/jsobf/jsobf/transform"
)

// panickingPass is a minimal transform.Pass whose Transform always panics,
// used to exercise Apply's recover-and-wrap behavior.
type panickingPass struct {
	base transform.Base
}

func (p *panickingPass) Name() string          { return "panicking-pass" }
func (p *panickingPass) Base() *transform.Base { return &p.base }
func (p *panickingPass) Match(ast.Node, []ast.Node) bool { return true }
func (p *panickingPass) Transform(ast.Node, []ast.Node) traverse.ExitCallback {
	panic("boom")
}

// TestApplyDisablesPassesConfiguredFalse sets all four pass options to
// `false` and confirms the candidate function is left untouched.
func TestApplyDisablesPassesConfiguredFalse(t *testing.T) {
	fn := &ast.FunctionDeclaration{
		ID:   ast.Ident("untouched"),
		Body: ast.Block(&ast.ReturnStatement{Argument: ast.NumberLiteral(1)}),
	}
	root := &ast.Program{Body: []ast.Statement{fn, ast.ExprStmt(ast.Call(ast.Ident("untouched")))}}

	opts := pipeline.DefaultOptions()
	opts.ControlFlowFlattening = false
	opts.Dispatcher = false
	opts.Flatten = false
	opts.RGF = false

	o := New(opts, 1, 2)
	if err := o.Apply(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, s := range root.Body {
		if fn, ok := s.(*ast.FunctionDeclaration); ok && fn.ID.Name == "untouched" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected `untouched` to survive with every pass disabled, got %#v", root.Body)
	}
}

// TestApplyRunsDispatcherWhenEnabled is a smoke test confirming Apply
// actually drives a pass through when its option is left at the default.
// Dispatcher only rewrites FunctionDeclarations directly owned by a
// function-like context, never Program itself (spec.md §4.F), so the
// candidates here are nested inside an outer function `g`, matching
// spec.md §8 scenario 2's shape.
func TestApplyRunsDispatcherWhenEnabled(t *testing.T) {
	a := &ast.FunctionDeclaration{ID: ast.Ident("a"), Body: ast.Block(&ast.ReturnStatement{Argument: ast.NumberLiteral(1)})}
	b := &ast.FunctionDeclaration{ID: ast.Ident("b"), Body: ast.Block(&ast.ReturnStatement{Argument: ast.NumberLiteral(2)})}
	g := &ast.FunctionDeclaration{
		ID: ast.Ident("g"),
		Body: ast.Block(
			a, b,
			&ast.ReturnStatement{Argument: ast.Bin("+", ast.Call(ast.Ident("a")), ast.Call(ast.Ident("b")))},
		),
	}
	root := &ast.Program{Body: []ast.Statement{g}}

	opts := pipeline.DefaultOptions()
	opts.ControlFlowFlattening = false
	opts.Flatten = false
	opts.RGF = false

	o := New(opts, 7, 9)
	if err := o.Apply(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, s := range g.Body.Body {
		if fn, ok := s.(*ast.FunctionDeclaration); ok && (fn.ID.Name == "a" || fn.ID.Name == "b") {
			t.Fatalf("expected dispatcher to remove nested function declarations, found %q", fn.ID.Name)
		}
	}
}

// TestApplyRecoversPanicAsError confirms a panicking pass surfaces as a
// returned error annotated with the pass name, rather than crashing the
// caller, per spec.md §7.2.
func TestApplyRecoversPanicAsError(t *testing.T) {
	root := &ast.Program{}
	o := New(pipeline.DefaultOptions(), 3, 4)
	o.order = []transform.Pass{&panickingPass{}}

	err := o.Apply(root)
	if err == nil {
		t.Fatalf("expected an error from a panicking pass")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected the panic message to surface, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "panicking-pass") {
		t.Fatalf("expected the offending pass name in the error, got %q", err.Error())
	}
}
