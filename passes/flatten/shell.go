package flatten

import (
	"github.com/jsobf/jsobf/ast"
	"github.com/jsobf/jsobf/pipeline"
)

// buildShellBody assembles the candidate's new body, per spec.md §4.G: the
// result object, the call into flat_X, the reverse-order output read-back,
// the shuffled decoy set and the real return guarded by the flag property.
func buildShellBody(env *pipeline.Env, names *sharedNames, inputNames, paramNames, outputNames []string, flatFnName string, async bool) []ast.Statement {
	out := make([]ast.Statement, 0, 4+len(outputNames))

	out = append(out, ast.VarDecl("var", names.resultName, &ast.ObjectExpression{}))

	call := ast.Expression(ast.Call(ast.Ident(flatFnName),
		ast.ArrayLit(identExprs(inputNames)...),
		ast.ArrayLit(identExprs(paramNames)...),
		ast.Ident(names.resultName),
	))
	if async {
		call = ast.Await(call)
	}
	out = append(out, ast.ExprStmt(call))

	for i := len(outputNames) - 1; i >= 0; i-- {
		name := outputNames[i]
		out = append(out, ast.ExprStmt(ast.Assign(
			ast.Ident(name), "=",
			ast.Member(ast.Member(ast.Ident(names.resultName), ast.Ident(names.propName), false), ast.Ident(names.outKeys[name]), false),
		)))
	}

	gen := env.NewGenerator()
	out = append(out, buildDecoys(env, gen, names)...)

	out = append(out, &ast.IfStatement{
		Test: ast.Member(ast.Ident(names.resultName), ast.Ident(names.propName), false),
		Consequent: ast.Block(&ast.ReturnStatement{
			Argument: ast.Member(ast.Member(ast.Ident(names.resultName), ast.Ident(names.propName), false), ast.Ident(names.returnKey), false),
		}),
	})

	return out
}

func identExprs(names []string) []ast.Expression {
	out := make([]ast.Expression, len(names))
	for i, n := range names {
		out[i] = ast.Ident(n)
	}
	return out
}
