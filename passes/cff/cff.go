// Package cff implements Control Flow Flattening (spec.md §4.E), the
// dominant pass of the pipeline: it replaces a block's statement list with
// a state-machine dispatcher so the source order of statements no longer
// matches their execution order.
package cff

import (
	"github.com/jsobf/jsobf/ast"
	"github.com/jsobf/jsobf/pipeline"
	"github.com/jsobf/jsobf/traverse"
	"github.com/jsobf/jsobf/transform"
)

// Pass is the Control Flow Flattening transform.Pass.
type Pass struct {
	base transform.Base
	env  *pipeline.Env
}

// New constructs the CFF pass against the shared pipeline environment.
func New(env *pipeline.Env) *Pass {
	return &Pass{env: env}
}

func (p *Pass) Name() string         { return "control-flow-flattening" }
func (p *Pass) Base() *transform.Base { return &p.base }

// Match implements the eligibility rule from spec.md §4.E.
func (p *Pass) Match(node ast.Node, ancestors []ast.Node) bool {
	if !ast.IsBlock(node) {
		return false
	}
	body := ast.GetBlockBody(node)
	if len(body) < 3 {
		return false
	}
	if nestedInControlStructure(ancestors) {
		return false
	}
	if containsLexicallyBoundVariables(body) {
		return false
	}
	if !p.env.Decider.DecideBool(p.env.Options.ControlFlowFlattening, node) {
		return false
	}
	return true
}

// nestedInControlStructure implements "its grandparent or great-grandparent
// is not one of {IfStatement, ForStatement, WhileStatement}": a block whose
// immediate container is a loop/if body (reached directly, or through a
// LabeledStatement wrapper) is never flattened on its own -- it is only
// ever rewritten as part of an outer block's structure handling.
func nestedInControlStructure(ancestors []ast.Node) bool {
	limit := 3
	if len(ancestors) < limit {
		limit = len(ancestors)
	}
	for i := 0; i < limit; i++ {
		switch ancestors[i].(type) {
		case *ast.IfStatement, *ast.ForStatement, *ast.WhileStatement, *ast.DoWhileStatement:
			return true
		}
	}
	return false
}

// containsLexicallyBoundVariables scans stmts (and any nested block it can
// fall into without crossing a function boundary) for a `let`/`const`
// VariableDeclaration. Hoisting chunk bodies into switch cases would change
// the scoping of a lexical binding, so CFF must abort when it finds one.
func containsLexicallyBoundVariables(stmts []ast.Statement) bool {
	for _, s := range stmts {
		if scanLexical(s) {
			return true
		}
	}
	return false
}

func scanLexical(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.VariableDeclaration:
		return v.Kind == "let" || v.Kind == "const"
	case *ast.BlockStatement:
		return containsLexicallyBoundVariables(v.Body)
	case *ast.IfStatement:
		return scanLexical(v.Consequent) || scanLexical(v.Alternate)
	case *ast.LabeledStatement:
		return scanLexical(v.Body)
	case *ast.WhileStatement:
		return scanLexical(v.Body)
	case *ast.DoWhileStatement:
		return scanLexical(v.Body)
	case *ast.ForStatement:
		if decl, ok := v.Init.(*ast.VariableDeclaration); ok && (decl.Kind == "let" || decl.Kind == "const") {
			return true
		}
		return scanLexical(v.Body)
	case *ast.SwitchStatement:
		for _, c := range v.Cases {
			if containsLexicallyBoundVariables(c.Consequent) {
				return true
			}
		}
	case *ast.TryStatement:
		if v.Block != nil && containsLexicallyBoundVariables(v.Block.Body) {
			return true
		}
		if v.Handler != nil && v.Handler.Body != nil && containsLexicallyBoundVariables(v.Handler.Body.Body) {
			return true
		}
		if v.Finalizer != nil && containsLexicallyBoundVariables(v.Finalizer.Body) {
			return true
		}
	}
	return false
}

// Transform implements the Hoisting analysis, Chunking, Structure handling,
// State encoding, Transition encoding and Assembly steps of spec.md §4.E.
func (p *Pass) Transform(node ast.Node, ancestors []ast.Node) traverse.ExitCallback {
	body := ast.GetBlockBody(node)

	hoisted, rest, ok := hoistFunctionDeclarations(body)
	if !ok {
		// A hoisted function's name is redefined/reassigned somewhere in the
		// block: CFF aborts for this block entirely (spec.md §4.E).
		return nil
	}

	ck := newChunker(p.env)
	ck.run(rest)

	assembled := assemble(ck)

	newBody := make([]ast.Statement, 0, len(hoisted)+len(assembled))
	for _, fn := range hoisted {
		newBody = append(newBody, fn)
	}
	newBody = append(newBody, assembled...)

	ast.SetBlockBody(node, newBody)
	ast.Annotate(node, ast.AnnotationControlFlowFlattening, true)
	if p.env.Options.DebugComments {
		ast.Annotate(node, ast.AnnotationTransform, p.Name())
	}
	return nil
}

// hoistFunctionDeclarations removes top-level FunctionDeclarations from
// body for re-prepending after rewriting, per spec.md §4.E's hoisting
// analysis. ok is false if any hoisted function's name is re-defined or
// re-assigned anywhere in body, which aborts CFF for the whole block.
func hoistFunctionDeclarations(body []ast.Statement) (hoisted []*ast.FunctionDeclaration, rest []ast.Statement, ok bool) {
	names := map[string]bool{}
	for _, s := range body {
		if fn, isFn := s.(*ast.FunctionDeclaration); isFn && fn.ID != nil {
			if names[fn.ID.Name] {
				return nil, nil, false
			}
			hoisted = append(hoisted, fn)
			names[fn.ID.Name] = true
		} else {
			rest = append(rest, s)
		}
	}
	if len(hoisted) == 0 {
		return nil, rest, true
	}
	usage := ast.ClassifyIdentifiers(&ast.BlockStatement{Body: body})
	restUsage := ast.ClassifyIdentifiers(&ast.BlockStatement{Body: rest})
	for name := range names {
		if usage.Modified[name] || restUsage.Defined[name] {
			return nil, nil, false
		}
	}
	return hoisted, rest, true
}
