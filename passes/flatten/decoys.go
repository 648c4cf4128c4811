package flatten

import (
	"github.com/jsobf/jsobf/ast"
	"github.com/jsobf/jsobf/pipeline"
	"github.com/jsobf/jsobf/transform"
)

// decoyTemplate builds one candidate decoy statement's inner body. It runs
// only inside a guard that is always false at runtime (result.decoyProp is
// never assigned), so none of these ever execute; they exist purely to
// confuse a reader tracing the shell's control flow.
type decoyTemplate func(gen *transform.Generator, names *sharedNames) ast.Statement

var decoyTemplates = []decoyTemplate{
	func(gen *transform.Generator, names *sharedNames) ast.Statement {
		return &ast.ThrowStatement{Argument: ast.NewExpr(ast.Ident("Error"), ast.StringLiteralNode("state error"))}
	},
	func(gen *transform.Generator, names *sharedNames) ast.Statement {
		t := gen.Next()
		return ast.Block(ast.VarDecl("var", t, ast.NumberLiteral(0)), ast.ExprStmt(&ast.UnaryExpression{Operator: "++", Argument: ast.Ident(t), Prefix: true}))
	},
	func(gen *transform.Generator, names *sharedNames) ast.Statement {
		return &ast.ReturnStatement{Argument: ast.Member(ast.Ident(names.resultName), ast.Ident(names.decoyProp), false)}
	},
	func(gen *transform.Generator, names *sharedNames) ast.Statement {
		return ast.ExprStmt(ast.Assign(ast.Member(ast.Ident(names.resultName), ast.Ident(names.decoyProp), false), "=", ast.BoolLiteral(true)))
	},
	func(gen *transform.Generator, names *sharedNames) ast.Statement {
		u := gen.Next()
		return ast.VarDecl("var", u, ast.Member(ast.ArrayLit(), ast.NumberLiteral(0), true))
	},
	func(gen *transform.Generator, names *sharedNames) ast.Statement {
		return &ast.WhileStatement{Test: ast.BoolLiteral(false), Body: ast.Block()}
	},
	func(gen *transform.Generator, names *sharedNames) ast.Statement {
		iife := &ast.FunctionExpression{Body: ast.Block(&ast.ReturnStatement{Argument: ast.NumberLiteral(0)})}
		return ast.ExprStmt(ast.Call(iife))
	},
	func(gen *transform.Generator, names *sharedNames) ast.Statement {
		w := gen.Next()
		test := ast.Bin("===", &ast.UnaryExpression{Operator: "typeof", Argument: ast.Member(ast.Ident(names.resultName), ast.Ident(names.decoyProp), false), Prefix: true}, ast.StringLiteralNode("undefined"))
		return &ast.IfStatement{Test: test, Consequent: ast.Block(ast.VarDecl("var", w, ast.NumberLiteral(1)))}
	},
}

// buildDecoys implements spec.md §4.G's decoy set: each of the 8 templates
// survives independently with 25% probability, and the survivors are
// shuffled before being spliced into the shell body.
func buildDecoys(env *pipeline.Env, gen *transform.Generator, names *sharedNames) []ast.Statement {
	var selected []ast.Statement
	for _, tpl := range decoyTemplates {
		if !env.Decider.DecideBool(0.25, nil) {
			continue
		}
		guard := ast.Member(ast.Ident(names.resultName), ast.Ident(names.decoyProp), false)
		selected = append(selected, &ast.IfStatement{Test: guard, Consequent: ast.Block(tpl(gen, names))})
	}
	for i := len(selected) - 1; i > 0; i-- {
		j := env.RNG.IntN(i + 1)
		selected[i], selected[j] = selected[j], selected[i]
	}
	return selected
}
