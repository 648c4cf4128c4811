// Package rgf implements the RGF (Runtime-Generated Functions) pass
// (spec.md §4.H): a var context's safely-isolable named inner functions are
// pulled out of the tree entirely, recompiled in a self-contained nested
// program, and re-installed at runtime via `new Function(...)` behind a
// shared reference array, so neither their source text nor their call
// graph survives intact in the emitted program.
package rgf

import (
	"sort"

	"github.com/jsobf/jsobf/ast"
	"github.com/jsobf/jsobf/pipeline"
	"github.com/jsobf/jsobf/traverse"
	"github.com/jsobf/jsobf/transform"
)

type Pass struct {
	base transform.Base
	env  *pipeline.Env
}

func New(env *pipeline.Env) *Pass { return &Pass{env: env} }
func (p *Pass) Name() string          { return "rgf" }
func (p *Pass) Base() *transform.Base { return &p.base }

// Match fires on every var context eligible under the current `rgf` option
// (spec.md §6: `"all"` enables every context, bare `true` enables `Program`
// only, anything else goes through the probability resolver). Arrow
// functions are excluded even though they are var contexts, per spec.md
// §8's boundary ("RGF must no-op on arrow functions") -- an arrow's inner
// declarations would still bind `this`/`arguments` from outside, which the
// synthetic nested program RGF builds cannot reproduce.
func (p *Pass) Match(node ast.Node, ancestors []ast.Node) bool {
	if _, isArrow := node.(*ast.ArrowFunctionExpression); isArrow {
		return false
	}
	if !ast.IsVarContext(node) {
		return false
	}
	return p.contextEligible(node)
}

func (p *Pass) contextEligible(node ast.Node) bool {
	mode := p.env.Options.RGF
	if s, ok := mode.(string); ok && s == pipeline.RGFAll {
		return true
	}
	if b, ok := mode.(bool); ok {
		if !b {
			return false
		}
		_, isProgram := node.(*ast.Program)
		return isProgram
	}
	return p.env.Decider.DecideBool(mode, node)
}

// Transform implements the body of spec.md §4.H: candidate collection,
// fixed-point zero-reference resolution, reference-array installation and
// call/read-site rewriting.
func (p *Pass) Transform(node ast.Node, ancestors []ast.Node) traverse.ExitCallback {
	target, ok := contextBody(node)
	if !ok {
		return nil
	}
	body := ast.GetBlockBody(target)

	candidates := collectCandidates(body, p.env.Options.LockCountermeasures)
	if len(candidates) == 0 {
		return nil
	}

	resolved := resolveZeroReference(candidates)
	if len(resolved) == 0 {
		return nil
	}

	gen := p.env.NewGenerator()
	refArrayName := gen.Next()

	rest := make([]ast.Statement, 0, len(body))
	extracted := make(map[string]*extractedFn, len(resolved))
	for idx, name := range resolved {
		c := candidates[name]
		extracted[name] = &extractedFn{
			index:     idx,
			signature: gen.Next(),
			decl:      c.decl,
		}
	}
	for _, s := range body {
		if fn, ok := s.(*ast.FunctionDeclaration); ok {
			if _, isExtracted := extracted[fn.ID.Name]; isExtracted {
				continue // dropped: installed into R at runtime instead
			}
		}
		rest = append(rest, s)
	}

	elements := make([]ast.Expression, len(resolved))
	for _, ef := range extracted {
		elements[ef.index] = buildInstaller(p.env, refArrayName, ef)
	}
	refArrayDecl := ast.VarDecl("var", refArrayName, &ast.ArrayExpression{Elements: elements})

	rewriter := &refRewriter{extracted: extracted, refArrayName: refArrayName}
	rewritten := rewriter.rewriteStmts(rest)

	newBody := make([]ast.Statement, 0, len(rewritten)+1)
	newBody = append(newBody, refArrayDecl)
	newBody = append(newBody, rewritten...)
	ast.SetBlockBody(target, newBody)
	if p.env.Options.DebugComments {
		ast.Annotate(target, ast.AnnotationTransform, p.Name())
	}

	return nil
}

// contextBody returns the block-like node whose statement list this pass
// rewrites: node itself for Program, or node's own body for a function-like
// context. ast.GetBlockBody/SetBlockBody both accept either kind directly.
func contextBody(node ast.Node) (ast.Node, bool) {
	if _, ok := node.(*ast.Program); ok {
		return node, true
	}
	body, isBlock, ok := ast.FunctionBody(node)
	if !ok || !isBlock {
		return nil, false
	}
	return body, true
}

type candidate struct {
	decl *ast.FunctionDeclaration
	refs map[string]bool // names of OTHER candidates this one's body references
}

// collectCandidates implements spec.md §4.H's (a)-(c): not a method (never
// true for a FunctionDeclaration statement in this AST), not the configured
// countermeasures function, and `isBound=false` (no `this`/`super`
// reference anywhere in the body, including inherited through a nested
// arrow, the same context-reference scan Dispatcher and Flatten both use).
func collectCandidates(stmts []ast.Statement, lockName string) map[string]*candidate {
	names := map[string]bool{}
	decls := map[string]*ast.FunctionDeclaration{}
	for _, s := range stmts {
		fn, ok := s.(*ast.FunctionDeclaration)
		if !ok || fn.ID == nil || fn.Generator {
			continue
		}
		if fn.ID.Name == lockName {
			continue
		}
		if referencesOwnContext(fn.Body) {
			continue
		}
		names[fn.ID.Name] = true
		decls[fn.ID.Name] = fn
	}

	out := make(map[string]*candidate, len(decls))
	for name, fn := range decls {
		usage := ast.ClassifyIdentifiers(fn)
		refs := map[string]bool{}
		for ref := range usage.Referenced {
			if ref != name && names[ref] {
				refs[ref] = true
			}
		}
		out[name] = &candidate{decl: fn, refs: refs}
	}
	return out
}

// resolveZeroReference implements spec.md §4.H's fixed-point name
// resolution: a candidate whose reference set is empty is resolved and its
// name erased from every other candidate's reference set, repeated until no
// progress is made, capped at 2*|candidates| rounds as a termination bound.
// The returned order is the order candidates were resolved in, which also
// fixes the reference array's index assignment.
func resolveZeroReference(candidates map[string]*candidate) []string {
	names := make([]string, 0, len(candidates))
	for name := range candidates {
		names = append(names, name)
	}
	sort.Strings(names)

	resolved := make([]string, 0, len(names))
	done := map[string]bool{}

	maxRounds := 2 * len(candidates)
	for round := 0; round < maxRounds; round++ {
		progress := false
		for _, name := range names {
			if done[name] {
				continue
			}
			if len(candidates[name].refs) > 0 {
				continue
			}
			done[name] = true
			resolved = append(resolved, name)
			progress = true
			for other, c := range candidates {
				if other == name {
					continue
				}
				delete(c.refs, name)
			}
		}
		if !progress {
			break
		}
	}
	return resolved
}

// referencesOwnContext mirrors dispatcher.referencesOwnContext: it reports
// whether n contains a `this`/`super` reference that would bind to n's own
// function context, descending into nested arrows (which inherit the
// binding) but not into nested regular functions (which get their own).
func referencesOwnContext(n ast.Node) bool {
	switch v := n.(type) {
	case nil:
		return false
	case *ast.ThisExpression, *ast.Super:
		return true
	case *ast.BlockStatement:
		return anyStmt(v.Body, referencesOwnContext)
	case *ast.ExpressionStatement:
		return referencesOwnContext(v.Expr)
	case *ast.VariableDeclaration:
		for _, d := range v.Declarations {
			if d.Init != nil && referencesOwnContext(d.Init) {
				return true
			}
		}
		return false
	case *ast.ReturnStatement:
		return referencesOwnContext(v.Argument)
	case *ast.ThrowStatement:
		return referencesOwnContext(v.Argument)
	case *ast.IfStatement:
		return referencesOwnContext(v.Test) || referencesOwnContext(v.Consequent) || referencesOwnContext(v.Alternate)
	case *ast.LabeledStatement:
		return referencesOwnContext(v.Body)
	case *ast.WhileStatement:
		return referencesOwnContext(v.Test) || referencesOwnContext(v.Body)
	case *ast.DoWhileStatement:
		return referencesOwnContext(v.Test) || referencesOwnContext(v.Body)
	case *ast.ForStatement:
		return referencesOwnContext(v.Init) || referencesOwnContext(v.Test) || referencesOwnContext(v.Update) || referencesOwnContext(v.Body)
	case *ast.SwitchStatement:
		if referencesOwnContext(v.Discriminant) {
			return true
		}
		for _, c := range v.Cases {
			if referencesOwnContext(c.Test) || anyStmt(c.Consequent, referencesOwnContext) {
				return true
			}
		}
		return false
	case *ast.TryStatement:
		if referencesOwnContext(v.Block) {
			return true
		}
		if v.Handler != nil && referencesOwnContext(v.Handler.Body) {
			return true
		}
		return referencesOwnContext(v.Finalizer)
	case *ast.BinaryExpression:
		return referencesOwnContext(v.Left) || referencesOwnContext(v.Right)
	case *ast.LogicalExpression:
		return referencesOwnContext(v.Left) || referencesOwnContext(v.Right)
	case *ast.UnaryExpression:
		return referencesOwnContext(v.Argument)
	case *ast.AssignmentExpression:
		return referencesOwnContext(v.Target) || referencesOwnContext(v.Value)
	case *ast.ConditionalExpression:
		return referencesOwnContext(v.Test) || referencesOwnContext(v.Consequent) || referencesOwnContext(v.Alternate)
	case *ast.SequenceExpression:
		for _, e := range v.Expressions {
			if referencesOwnContext(e) {
				return true
			}
		}
		return false
	case *ast.CallExpression:
		if referencesOwnContext(v.Callee) {
			return true
		}
		for _, a := range v.Arguments {
			if referencesOwnContext(a) {
				return true
			}
		}
		return false
	case *ast.NewExpression:
		if referencesOwnContext(v.Callee) {
			return true
		}
		for _, a := range v.Arguments {
			if referencesOwnContext(a) {
				return true
			}
		}
		return false
	case *ast.MemberExpression:
		return referencesOwnContext(v.Object) || (v.Computed && referencesOwnContext(v.Property))
	case *ast.ArrayExpression:
		for _, e := range v.Elements {
			if referencesOwnContext(e) {
				return true
			}
		}
		return false
	case *ast.ObjectExpression:
		for _, pr := range v.Properties {
			if referencesOwnContext(pr.Value) {
				return true
			}
		}
		return false
	case *ast.ArrowFunctionExpression:
		return referencesOwnContext(v.Body)
	default:
		return false
	}
}

func anyStmt(stmts []ast.Statement, pred func(ast.Node) bool) bool {
	for _, s := range stmts {
		if pred(s) {
			return true
		}
	}
	return false
}
