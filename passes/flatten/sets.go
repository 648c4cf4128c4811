package flatten

import "github.com/jsobf/jsobf/ast"

// computeInputOutput implements spec.md §4.G's `input`/`output` formulas.
// The spec states `output = modified`, but a modified name also present in
// Defined is a purely local variable of the candidate itself -- its
// declaration moves into flat_X along with the rest of the body, so it no
// longer exists in the candidate's own shell to be assigned back into.
// Both sets are therefore restricted to free variables (not Defined),
// exactly like `input`'s own `− defined` term.
func computeInputOutput(node ast.Node) (input, output map[string]bool) {
	usage := ast.ClassifyIdentifiers(node)
	input = map[string]bool{}
	output = map[string]bool{}
	for n := range usage.Referenced {
		if !usage.Defined[n] {
			input[n] = true
		}
	}
	for n := range usage.Modified {
		if !usage.Defined[n] {
			input[n] = true
			output[n] = true
		}
	}
	return input, output
}

// definedAbove reports whether name is directly declared by some ancestor
// var context (spec.md §4.G's `definedAbove` requirement on every `input`
// name). Ancestors are checked closest-first; the search stops at the first
// var context that declares the name.
func definedAbove(ancestors []ast.Node, name string) bool {
	for _, anc := range ancestors {
		if !ast.IsVarContext(anc) {
			continue
		}
		if directlyDeclaredNames(anc)[name] {
			return true
		}
	}
	return false
}

// directlyDeclaredNames collects every name a var context declares itself:
// its own params (and, for a FunctionDeclaration, its own name), plus every
// var/let/const/function/catch-param declared anywhere in its body that is
// not inside a nested function or arrow's own body.
func directlyDeclaredNames(ctx ast.Node) map[string]bool {
	out := map[string]bool{}
	switch v := ctx.(type) {
	case *ast.Program:
		collectDeclared(v.Body, out)
	case *ast.FunctionDeclaration:
		if v.ID != nil {
			out[v.ID.Name] = true
		}
		for _, p := range v.Params {
			collectPatternNames(p, out)
		}
		if v.Body != nil {
			collectDeclared(v.Body.Body, out)
		}
	case *ast.FunctionExpression:
		for _, p := range v.Params {
			collectPatternNames(p, out)
		}
		if v.Body != nil {
			collectDeclared(v.Body.Body, out)
		}
	case *ast.ArrowFunctionExpression:
		for _, p := range v.Params {
			collectPatternNames(p, out)
		}
		if block, ok := v.Body.(*ast.BlockStatement); ok {
			collectDeclared(block.Body, out)
		}
	}
	return out
}

func collectDeclared(stmts []ast.Statement, out map[string]bool) {
	for _, s := range stmts {
		collectDeclaredStmt(s, out)
	}
}

func collectDeclaredStmt(s ast.Statement, out map[string]bool) {
	switch v := s.(type) {
	case nil:
	case *ast.VariableDeclaration:
		for _, d := range v.Declarations {
			collectPatternNames(d.ID, out)
		}
	case *ast.FunctionDeclaration:
		if v.ID != nil {
			out[v.ID.Name] = true
		}
	case *ast.BlockStatement:
		collectDeclared(v.Body, out)
	case *ast.IfStatement:
		collectDeclaredStmt(v.Consequent, out)
		collectDeclaredStmt(v.Alternate, out)
	case *ast.LabeledStatement:
		collectDeclaredStmt(v.Body, out)
	case *ast.WhileStatement:
		collectDeclaredStmt(v.Body, out)
	case *ast.DoWhileStatement:
		collectDeclaredStmt(v.Body, out)
	case *ast.ForStatement:
		if decl, ok := v.Init.(*ast.VariableDeclaration); ok {
			for _, d := range decl.Declarations {
				collectPatternNames(d.ID, out)
			}
		}
		collectDeclaredStmt(v.Body, out)
	case *ast.SwitchStatement:
		for _, c := range v.Cases {
			for _, cs := range c.Consequent {
				collectDeclaredStmt(cs, out)
			}
		}
	case *ast.TryStatement:
		if v.Block != nil {
			collectDeclared(v.Block.Body, out)
		}
		if v.Handler != nil {
			if v.Handler.Param != nil {
				out[v.Handler.Param.Name] = true
			}
			if v.Handler.Body != nil {
				collectDeclared(v.Handler.Body.Body, out)
			}
		}
		if v.Finalizer != nil {
			collectDeclared(v.Finalizer.Body, out)
		}
	}
}

func collectPatternNames(p ast.Pattern, out map[string]bool) {
	switch v := p.(type) {
	case *ast.Identifier:
		out[v.Name] = true
	case *ast.ArrayPattern:
		for _, e := range v.Elements {
			if e != nil {
				collectPatternNames(e, out)
			}
		}
	case *ast.ObjectPattern:
		for _, prop := range v.Properties {
			if id, ok := prop.Value.(ast.Pattern); ok {
				collectPatternNames(id, out)
			}
		}
	case *ast.RestElement:
		collectPatternNames(v.Argument, out)
	}
}
