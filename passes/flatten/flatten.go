// Package flatten implements the Flatten pass (spec.md §4.G): a candidate
// function's body is moved wholesale into a fresh top-level function that
// receives its free variables and parameters through two destructured
// arrays, and communicates its return value and any variables it modifies
// back through a shared result object, so the original function's own body
// is reduced to a single opaque call plus a handful of decoy branches.
package flatten

import (
	"sort"

	"github.com/jsobf/jsobf/ast"
	"github.com/jsobf/jsobf/pipeline"
	"github.com/jsobf/jsobf/traverse"
	"github.com/jsobf/jsobf/transform"
)

// Pass is the Flatten transform.Pass.
type Pass struct {
	base transform.Base
	env  *pipeline.Env
}

// New constructs the Flatten pass against the shared pipeline environment.
func New(env *pipeline.Env) *Pass {
	return &Pass{env: env}
}

func (p *Pass) Name() string          { return "flatten" }
func (p *Pass) Base() *transform.Base { return &p.base }

// Match implements spec.md §4.G's full candidacy test: pure-identifier
// params, not generator/method/accessor, no try/arguments/this/super/
// MetaProperty/let-const in the body, and every free variable resolvable in
// an ancestor var context -- followed by the pass's own enable decision.
func (p *Pass) Match(node ast.Node, ancestors []ast.Node) bool {
	decl, isDecl := node.(*ast.FunctionDeclaration)
	expr, isExpr := node.(*ast.FunctionExpression)
	if !isDecl && !isExpr {
		return false
	}
	if (isDecl && decl.Generator) || (isExpr && expr.Generator) {
		return false
	}
	if !ast.HasPureIdentifierParams(node) {
		return false
	}
	if isExpr && len(ancestors) > 0 {
		if _, isMethod := ancestors[0].(*ast.MethodDefinition); isMethod {
			return false // method or accessor value
		}
	}

	body, isBlock, ok := ast.FunctionBody(node)
	if !ok || !isBlock {
		return false
	}
	block := body.(*ast.BlockStatement)

	if containsForbiddenConstruct(block.Body) {
		return false
	}
	if referencesOwnContext(block) {
		return false
	}

	input, _ := computeInputOutput(node)
	for name := range input {
		if !definedAbove(ancestors, name) && !p.env.Options.GlobalVariables[name] {
			return false
		}
	}

	return p.env.Decider.DecideBool(p.env.Options.Flatten, node)
}

// Transform defers the actual extraction to a post-order exit callback, so
// that any eligible function nested inside node's own body is flattened
// first. Walk computes node's children from its (still original) body
// before this callback runs, so a nested candidate is visited and
// transformed during that descent; by the time this callback fires, node's
// body already reflects any nested extraction, and moving it wholesale into
// flat_X carries that nested rewrite along with it. Without this deferral,
// a function containing an eligible nested function would always consume it
// whole before the nested function got its own independent top-level
// extraction, since pre-order visits the outer node first.
func (p *Pass) Transform(node ast.Node, ancestors []ast.Node) traverse.ExitCallback {
	return func() { p.apply(node, ancestors) }
}

// apply implements spec.md §4.G's extraction: the candidate's body is
// rewritten into flat_X, a top-level function is introduced to hold it, and
// the candidate's new body becomes the call/read-back/decoy shell.
func (p *Pass) apply(node ast.Node, ancestors []ast.Node) {
	root, ok := programRoot(ancestors)
	if !ok {
		return
	}

	body, _, ok := ast.FunctionBody(node)
	if !ok {
		return
	}
	block := body.(*ast.BlockStatement)

	input, output := computeInputOutput(node)
	inputNames := sortedNames(input)
	outputNames := sortedNames(output)

	params, _ := ast.FunctionParams(node)
	paramNames := make([]string, len(params))
	for i, param := range params {
		paramNames[i] = param.(*ast.Identifier).Name
	}

	async := ast.IsAsync(node)

	gen := p.env.NewGenerator()
	names := newSharedNames(gen, outputNames, candidateBaseName(node))

	rr := &returnRewriter{names: names, outputNames: outputNames}
	flatBody := rr.rewriteStmts(stripUseStrict(block.Body))

	flatFnValue := &ast.FunctionExpression{
		Params: []ast.Pattern{
			&ast.ArrayPattern{Elements: identPatterns(inputNames)},
			&ast.ArrayPattern{Elements: identPatterns(paramNames)},
			ast.Ident(names.resultName),
		},
		Body:  ast.Block(flatBody...),
		Async: async,
	}
	root.Body = append(root.Body, ast.VarDecl("var", names.flatFnName, flatFnValue))

	newBody := buildShellBody(p.env, names, inputNames, paramNames, outputNames, names.flatFnName, async)
	ast.SetBlockBody(block, newBody)
	if p.env.Options.DebugComments {
		ast.Annotate(block, ast.AnnotationTransform, p.Name())
	}
}

// programRoot returns the Program at the far end of the ancestor chain --
// the traversal always prepends the root last, so it is the one place a
// pass can append a genuinely top-level declaration from any nesting depth.
func programRoot(ancestors []ast.Node) (*ast.Program, bool) {
	if len(ancestors) == 0 {
		return nil, false
	}
	p, ok := ancestors[len(ancestors)-1].(*ast.Program)
	return p, ok
}

func sortedNames(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func identPatterns(names []string) []ast.Pattern {
	out := make([]ast.Pattern, len(names))
	for i, n := range names {
		out[i] = ast.Ident(n)
	}
	return out
}

// candidateBaseName names the extracted top-level function after the
// candidate it came from, for the same readability-while-still-obfuscated
// reason the teacher's own generated names are never fully opaque.
func candidateBaseName(node ast.Node) string {
	switch v := node.(type) {
	case *ast.FunctionDeclaration:
		if v.ID != nil {
			return v.ID.Name
		}
	case *ast.FunctionExpression:
		if v.ID != nil {
			return v.ID.Name
		}
	}
	return "anon"
}

// stripUseStrict drops a leading `"use strict"` directive, per spec.md
// §4.G: a directive prologue is represented the same as any other
// expression statement wrapping a string literal.
func stripUseStrict(stmts []ast.Statement) []ast.Statement {
	if len(stmts) == 0 {
		return stmts
	}
	es, ok := stmts[0].(*ast.ExpressionStatement)
	if !ok {
		return stmts
	}
	lit, ok := es.Expr.(*ast.Literal)
	if !ok || lit.Kind != ast.LiteralString {
		return stmts
	}
	if s, _ := lit.Value.(string); s != "use strict" {
		return stmts
	}
	return stmts[1:]
}
