// Package dispatcher implements the Dispatcher pass (spec.md §4.F): named
// top-level functions of a var context are pulled into a single opaque
// lookup table and replaced by calls through a shared `dispatcher(x, y, z)`
// trampoline, so a reader can no longer match a call site to a function
// definition by name.
package dispatcher

import (
	"github.com/jsobf/jsobf/ast"
	"github.com/jsobf/jsobf/pipeline"
	"github.com/jsobf/jsobf/traverse"
	"github.com/jsobf/jsobf/transform"
)

// Pass is the Dispatcher transform.Pass.
type Pass struct {
	base transform.Base
	env  *pipeline.Env
}

// New constructs the Dispatcher pass against the shared pipeline environment.
func New(env *pipeline.Env) *Pass {
	return &Pass{env: env}
}

func (p *Pass) Name() string          { return "dispatcher" }
func (p *Pass) Base() *transform.Base { return &p.base }

// Match implements "for each var-context C that is function-like (not an
// arrow)" from spec.md §4.F. Program is excluded too, since it is a var
// context but not function-like.
func (p *Pass) Match(node ast.Node, ancestors []ast.Node) bool {
	if _, isArrow := node.(*ast.ArrowFunctionExpression); isArrow {
		return false
	}
	if !ast.IsFunctionLike(node) {
		return false
	}
	return p.env.Decider.DecideBool(p.env.Options.Dispatcher, node)
}

// Transform implements the full candidate-collection, table-construction,
// embedded-function-rewriting and call-site-rewriting algorithm of
// spec.md §4.F.
func (p *Pass) Transform(node ast.Node, ancestors []ast.Node) traverse.ExitCallback {
	bodyNode, isBlock, ok := ast.FunctionBody(node)
	if !ok || !isBlock {
		return nil
	}
	block, ok := bodyNode.(*ast.BlockStatement)
	if !ok {
		return nil
	}

	candidates := collectCandidates(block)
	if len(candidates) == 0 {
		return nil
	}

	gen := p.env.NewGenerator()
	shared := newSharedNames(p.env, gen)

	rest := make([]ast.Statement, 0, len(block.Body))
	byName := make(map[string]*candidate, len(candidates))
	var order []string // source order, so table-key generation stays deterministic for a seeded run
	for _, s := range block.Body {
		fn, isFn := s.(*ast.FunctionDeclaration)
		if isFn {
			if c, taken := candidates[fn.ID.Name]; taken && c.decl == fn {
				byName[fn.ID.Name] = c
				order = append(order, fn.ID.Name)
				continue
			}
		}
		rest = append(rest, s)
	}

	table := make([]*ast.Property, 0, len(order))
	for _, name := range order {
		c := byName[name]
		c.key = gen.Next()
		table = append(table, &ast.Property{
			Key:   ast.StringLiteralNode(c.key),
			Value: rewriteEmbedded(c.decl, shared),
			Kind:  "init",
		})
	}

	preamble := buildPreamble(shared, table)

	rewriter := &callRewriter{candidates: byName, shared: shared}
	rewritten := rewriter.rewriteStmts(rest)

	newBody := make([]ast.Statement, 0, len(preamble)+len(rewritten))
	newBody = append(newBody, preamble...)
	newBody = append(newBody, rewritten...)

	ast.SetBlockBody(block, newBody)
	if p.env.Options.DebugComments {
		ast.Annotate(block, ast.AnnotationTransform, p.Name())
	}
	return nil
}

// candidate tracks one dispatch-table entry through collection, table
// construction and call-site rewriting.
type candidate struct {
	decl *ast.FunctionDeclaration
	key  string
}

// collectCandidates implements spec.md §4.F's five eligibility conditions
// (a)-(e) over the FunctionDeclarations directly owned by block.Body.
// Duplicates disqualify: a name declared more than once at this level never
// enters the map at all.
func collectCandidates(block *ast.BlockStatement) map[string]*candidate {
	counts := map[string]int{}
	decls := map[string]*ast.FunctionDeclaration{}
	for _, s := range block.Body {
		fn, ok := s.(*ast.FunctionDeclaration)
		if !ok || fn.ID == nil {
			continue
		}
		counts[fn.ID.Name]++
		decls[fn.ID.Name] = fn
	}

	usage := ast.ClassifyIdentifiers(block)

	out := map[string]*candidate{}
	for name, fn := range decls {
		if counts[name] != 1 {
			continue // duplicate declaration disqualifies
		}
		if fn.Generator || fn.Async {
			continue
		}
		if ast.HasAnnotation(fn, ast.AnnotationRequiresEval) {
			continue
		}
		// Methods are never FunctionDeclaration nodes in this AST (class
		// methods are FunctionExpression values of a MethodDefinition), so
		// condition (b)'s "not a method" is satisfied by node kind alone.
		if fn.Body == nil {
			continue
		}
		if referencesOwnContext(fn.Body) {
			continue
		}
		if usage.Modified[name] {
			continue
		}
		out[name] = &candidate{decl: fn}
	}
	return out
}

// referencesOwnContext reports whether n contains a `this`, `super` or
// `arguments` reference that would bind to n's own function context. It
// descends into nested arrow function bodies (arrows inherit the enclosing
// this/arguments binding) but not into nested regular function/method
// bodies, which get their own fresh bindings.
func referencesOwnContext(n ast.Node) bool {
	switch v := n.(type) {
	case nil:
		return false
	case *ast.ThisExpression, *ast.Super:
		return true
	case *ast.Identifier:
		return v.Name == "arguments"
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
		for _, p := range v.Properties {
			if referencesOwnContext(p.Value) {
				return true
			}
		}
		return false
	case *ast.ArrowFunctionExpression:
		return referencesOwnContext(v.Body)
	default:
		// FunctionDeclaration/FunctionExpression (regular functions) and
		// every leaf node (Literal, Identifier other than "arguments", ...)
		// bind their own this/arguments/super or carry no reference at all.
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
