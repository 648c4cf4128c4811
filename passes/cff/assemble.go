package cff

import (
	"math/rand/v2"

	"github.com/jsobf/jsobf/ast"
)

// assemble runs state encoding, transition encoding and final assembly
// (spec.md §4.E's last three steps) over a chunked block, returning the
// single while-with-one-labeled-switch statement list to install as the
// block's new body (after re-prepending hoisted functions).
func assemble(ck *chunker) []ast.Statement {
	n := len(ck.chunks)
	totals := drawDistinct(n, 1, 15*n, ck.rng)

	totalByLabel := make(map[string]int, n+1)
	for i, c := range ck.chunks {
		totalByLabel[c.label] = totals[i]
	}
	totalByLabel[endLabel] = 0

	k := 2 + ck.rng.IntN(3)
	stateVars := make([]string, k)
	gen := ck.env.NewGenerator()
	for i := range stateVars {
		stateVars[i] = gen.Next()
	}

	vecByLabel := make(map[string][]int, n+1)
	for _, c := range ck.chunks {
		vecByLabel[c.label] = randVector(totalByLabel[c.label], k, ck.rng)
	}
	vecByLabel[endLabel] = randVector(0, k, ck.rng)

	switchLabel := ck.ph()

	cases := make([]*ast.SwitchCase, n)
	for i, c := range ck.chunks {
		obfuscated := obfuscateLiterals(c.stmts, vecByLabel[c.label], stateVars, ck.rng)
		encoded := encodeTransitions(obfuscated, vecByLabel[c.label], vecByLabel, stateVars, switchLabel, ck.rng)
		cases[i] = &ast.SwitchCase{
			Test:       ast.NumberLiteral(int64(totalByLabel[c.label])),
			Consequent: encoded,
		}
	}
	shuffle(cases, ck.rng)

	discriminant := buildDiscriminant(stateVars)

	initDecls := make([]*ast.VariableDeclarator, k)
	entryVec := vecByLabel[ck.chunks[0].label]
	for i, name := range stateVars {
		initDecls[i] = &ast.VariableDeclarator{ID: ast.Ident(name), Init: ast.NumberLiteral(int64(entryVec[i]))}
	}

	// The label decorates the switch, not the while: a transition's `break
	// switchLabel;` must exit only the dispatch switch so the while's next
	// iteration re-evaluates the discriminant and runs the next chunk. A
	// while-labeled break would instead terminate the whole flattening loop
	// on the very first transition, skipping every chunk after it.
	loop := &ast.WhileStatement{
		Test: ast.Bin("!=", discriminant, ast.NumberLiteral(0)),
		Body: ast.Block(ast.Labeled(switchLabel, &ast.SwitchStatement{Discriminant: discriminant, Cases: cases})),
	}

	return []ast.Statement{
		&ast.VariableDeclaration{Kind: "var", Declarations: initDecls},
		loop,
	}
}

func buildDiscriminant(stateVars []string) ast.Expression {
	var sum ast.Expression = ast.Ident(stateVars[0])
	for _, name := range stateVars[1:] {
		sum = ast.Bin("+", sum, ast.Ident(name))
	}
	return sum
}

func shuffle(cases []*ast.SwitchCase, rng *rand.Rand) {
	for i := len(cases) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cases[i], cases[j] = cases[j], cases[i]
	}
}

// encodeTransitions rewrites every GotoStatement reachable from stmts
// (whether a bare trailing statement or a leaf of the structural if-chains
// built during chunking) into its dispatcher transition, per spec.md §4.E's
// Transition encoding step. sourceVec is the chunk's own state snapshot,
// shared by every goto this chunk contains since nothing mutates the state
// variables before the chunk's terminal structure runs.
func encodeTransitions(stmts []ast.Statement, sourceVec []int, vecByLabel map[string][]int, stateVars []string, switchLabel string, rng *rand.Rand) []ast.Statement {
	out := make([]ast.Statement, len(stmts))
	for i, s := range stmts {
		out[i] = transformGoto(s, sourceVec, vecByLabel, stateVars, switchLabel, rng)
	}
	return out
}

func transformGoto(s ast.Statement, sourceVec []int, vecByLabel map[string][]int, stateVars []string, switchLabel string, rng *rand.Rand) ast.Statement {
	switch v := s.(type) {
	case *ast.GotoStatement:
		targetVec := vecByLabel[v.Label]
		transition := buildTransition(sourceVec, targetVec, stateVars, rng)
		return ast.Block(ast.ExprStmt(transition), &ast.BreakStatement{Label: ast.Ident(switchLabel)})
	case *ast.IfStatement:
		return &ast.IfStatement{
			BaseNode:   v.BaseNode,
			Test:       v.Test,
			Consequent: transformGoto(v.Consequent, sourceVec, vecByLabel, stateVars, switchLabel, rng),
			Alternate:  transformGoto(v.Alternate, sourceVec, vecByLabel, stateVars, switchLabel, rng),
		}
	default:
		return s
	}
}

// buildTransition builds the sequence expression that moves every state
// variable from its value at sourceVec to targetVec. Each component
// independently picks between a plain `+=` restoring its delta, or a
// `*= 2` followed by a self-referential correction that lands on the exact
// target regardless of the variable's prior runtime value.
func buildTransition(sourceVec, targetVec []int, stateVars []string, rng *rand.Rand) ast.Expression {
	exprs := make([]ast.Expression, 0, len(stateVars)*2)
	for i, name := range stateVars {
		delta := targetVec[i] - sourceVec[i]
		if rng.IntN(2) == 0 {
			exprs = append(exprs, ast.Assign(ast.Ident(name), "+=", ast.NumberLiteral(int64(delta))))
		} else {
			exprs = append(exprs, ast.Assign(ast.Ident(name), "*=", ast.NumberLiteral(2)))
			correction := ast.Bin("-", ast.Ident(name), ast.NumberLiteral(int64(targetVec[i])))
			exprs = append(exprs, ast.Assign(ast.Ident(name), "-=", correction))
		}
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	return ast.Seq(exprs...)
}
