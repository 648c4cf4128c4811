package rgf

import (
	"github.com/jsobf/jsobf/ast"
	"github.com/jsobf/jsobf/generate"
	"github.com/jsobf/jsobf/pipeline"
)

// extractedFn tracks one candidate through resolution, reference-array
// installation and call-site rewriting.
type extractedFn struct {
	index     int
	signature string
	decl      *ast.FunctionDeclaration
}

// buildInstaller implements spec.md §4.H's per-function extraction: a
// synthetic Program holding the renamed function plus a forwarding return
// is serialized to source text and handed to a runtime `new Function`
// call, tagged with the signature property so later references can tell a
// compiled stub apart from an ordinary value.
//
// spec.md §4.H instantiates a nested pipeline over the synthetic program
// ("current options minus RGF... with R added to globalVariables") and
// runs every pass of priority greater than RGF over it; in this 4-pass
// ordering RGF is the highest-priority pass, so that run always has zero
// passes to apply (documented rather than left implicit). The isolation
// spec.md §4.I demands -- "the nested pipeline does not share the outer
// RNG state or uniqueness set" -- is still honored: env.NewChild draws an
// independent child Env so the synthetic program's own generated names
// (here, just the renamed function and the installer's local var) never
// consume from the outer run's name pool; they are deduplicated only
// against the child's own generated names.
func buildInstaller(env *pipeline.Env, refArrayName string, ef *extractedFn) ast.Expression {
	child := env.NewChild(refArrayName)
	gen := child.NewGenerator()
	renamedName := gen.Next()
	fnVar := gen.Next()

	renamed := &ast.FunctionDeclaration{
		ID:        ast.Ident(renamedName),
		Params:    ef.decl.Params,
		Body:      ef.decl.Body,
		Generator: ef.decl.Generator,
		Async:     ef.decl.Async,
	}

	sliceArgs := ast.Call(
		ast.Member(ast.Member(ast.Member(ast.Ident("Array"), ast.Ident("prototype"), false), ast.Ident("slice"), false), ast.Ident("call"), false),
		ast.Ident("arguments"), ast.NumberLiteral(1),
	)
	forwardCall := ast.Call(
		ast.Member(ast.Ident(renamedName), ast.Ident("call"), false),
		ast.Ident("undefined"), &ast.SpreadElement{Argument: sliceArgs},
	)

	synthetic := &ast.Program{Body: []ast.Statement{
		renamed,
		&ast.ReturnStatement{Argument: forwardCall},
	}}

	source := generate.Generate(synthetic)

	newFn := ast.NewExpr(ast.Ident("Function"), ast.StringLiteralNode(refArrayName), ast.StringLiteralNode(source))

	tagAssign := ast.ExprStmt(ast.Assign(
		ast.Member(ast.Ident(fnVar), ast.StringLiteralNode(ef.signature), true), "=", ast.BoolLiteral(true),
	))

	iife := &ast.FunctionExpression{Body: ast.Block(
		ast.VarDecl("var", fnVar, newFn),
		tagAssign,
		&ast.ReturnStatement{Argument: ast.Ident(fnVar)},
	)}
	return ast.Call(iife)
}
