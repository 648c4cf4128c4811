package cff

import (
	"math/rand/v2"

	"github.com/jsobf/jsobf/ast"
)

// literalState threads the decaying-probability literal rewrite through a
// single chunk's statements, per spec.md §4.E: "Numeric literals inside the
// chunk may, with decaying probability, be rewritten using the same state
// variables... with correctness computed from the chunk's known static
// state snapshot." vec is that snapshot: the chunk's assigned state vector,
// known exactly at compile time since nothing mutates the state variables
// until the chunk's terminal transition.
type literalState struct {
	vec       []int
	stateVars []string
	rng       *rand.Rand
	prob      float64
}

const initialLiteralProb = 0.3

func obfuscateLiterals(stmts []ast.Statement, vec []int, stateVars []string, rng *rand.Rand) []ast.Statement {
	st := &literalState{vec: vec, stateVars: stateVars, rng: rng, prob: initialLiteralProb}
	out := make([]ast.Statement, len(stmts))
	for i, s := range stmts {
		out[i] = st.rewriteStmt(s)
	}
	return out
}

func (st *literalState) rewriteStmt(s ast.Statement) ast.Statement {
	switch v := s.(type) {
	case *ast.ExpressionStatement:
		return &ast.ExpressionStatement{BaseNode: v.BaseNode, Expr: st.rewriteExpr(v.Expr)}
	case *ast.VariableDeclaration:
		decls := make([]*ast.VariableDeclarator, len(v.Declarations))
		for i, d := range v.Declarations {
			decls[i] = d
			if d.Init != nil {
				decls[i] = &ast.VariableDeclarator{BaseNode: d.BaseNode, ID: d.ID, Init: st.rewriteExpr(d.Init)}
			}
		}
		return &ast.VariableDeclaration{BaseNode: v.BaseNode, Kind: v.Kind, Declarations: decls}
	case *ast.ReturnStatement:
		if v.Argument == nil {
			return v
		}
		return &ast.ReturnStatement{BaseNode: v.BaseNode, Argument: st.rewriteExpr(v.Argument)}
	case *ast.ThrowStatement:
		return &ast.ThrowStatement{BaseNode: v.BaseNode, Argument: st.rewriteExpr(v.Argument)}
	case *ast.IfStatement:
		// Only the Test is rewritten; Consequent/Alternate (synthetic Gotos,
		// a nested else-if chain, or an ordinary if's own branches) are kept
		// as they are.
		return &ast.IfStatement{BaseNode: v.BaseNode, Test: st.rewriteExpr(v.Test), Consequent: v.Consequent, Alternate: v.Alternate}
	default:
		return s
	}
}

func (st *literalState) rewriteExpr(e ast.Expression) ast.Expression {
	switch v := e.(type) {
	case *ast.Literal:
		if v.Kind != ast.LiteralNumber {
			return e
		}
		n, ok := v.Int64()
		if !ok {
			return e
		}
		if st.rng.Float64() >= st.prob {
			return e
		}
		rewritten := st.rewriteLiteral(n)
		st.prob *= 0.5
		return rewritten
	case *ast.BinaryExpression:
		return &ast.BinaryExpression{BaseNode: v.BaseNode, Operator: v.Operator, Left: st.rewriteExpr(v.Left), Right: st.rewriteExpr(v.Right)}
	case *ast.LogicalExpression:
		return &ast.LogicalExpression{BaseNode: v.BaseNode, Operator: v.Operator, Left: st.rewriteExpr(v.Left), Right: st.rewriteExpr(v.Right)}
	case *ast.UnaryExpression:
		return &ast.UnaryExpression{BaseNode: v.BaseNode, Operator: v.Operator, Argument: st.rewriteExpr(v.Argument), Prefix: v.Prefix}
	case *ast.AssignmentExpression:
		return &ast.AssignmentExpression{BaseNode: v.BaseNode, Operator: v.Operator, Target: v.Target, Value: st.rewriteExpr(v.Value)}
	case *ast.ConditionalExpression:
		return &ast.ConditionalExpression{BaseNode: v.BaseNode, Test: st.rewriteExpr(v.Test), Consequent: st.rewriteExpr(v.Consequent), Alternate: st.rewriteExpr(v.Alternate)}
	case *ast.SequenceExpression:
		exprs := make([]ast.Expression, len(v.Expressions))
		for i, x := range v.Expressions {
			exprs[i] = st.rewriteExpr(x)
		}
		return &ast.SequenceExpression{BaseNode: v.BaseNode, Expressions: exprs}
	case *ast.CallExpression:
		args := make([]ast.Expression, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = st.rewriteExpr(a)
		}
		return &ast.CallExpression{BaseNode: v.BaseNode, Callee: v.Callee, Arguments: args}
	case *ast.NewExpression:
		args := make([]ast.Expression, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = st.rewriteExpr(a)
		}
		return &ast.NewExpression{BaseNode: v.BaseNode, Callee: v.Callee, Arguments: args}
	case *ast.ArrayExpression:
		elems := make([]ast.Expression, len(v.Elements))
		for i, el := range v.Elements {
			if el != nil {
				elems[i] = st.rewriteExpr(el)
			}
		}
		return &ast.ArrayExpression{BaseNode: v.BaseNode, Elements: elems}
	case *ast.ObjectExpression:
		props := make([]*ast.Property, len(v.Properties))
		for i, p := range v.Properties {
			props[i] = p
			if !p.Shorthand {
				props[i] = &ast.Property{BaseNode: p.BaseNode, Key: p.Key, Computed: p.Computed, Shorthand: p.Shorthand, Kind: p.Kind, Value: st.rewriteExpr(p.Value)}
			}
		}
		return &ast.ObjectExpression{BaseNode: v.BaseNode, Properties: props}
	default:
		return e
	}
}

// rewriteLiteral replaces a known numeric literal with one of the two forms
// spec.md §4.E names, picked at random.
func (st *literalState) rewriteLiteral(n int64) ast.Expression {
	idx := st.rng.IntN(len(st.stateVars))
	name := st.stateVars[idx]
	known := int64(st.vec[idx])

	if st.rng.IntN(2) == 0 {
		// stateVar + (literal - stateVarValue)
		return ast.Bin("+", ast.Ident(name), ast.NumberLiteral(n-known))
	}

	// stateVar < const ? correct : incorrect, where const is chosen so the
	// comparison is statically known true against the chunk's snapshot.
	c := known + 1 + int64(st.rng.IntN(50))
	decoy := n + 1 + int64(st.rng.IntN(50))
	return ast.Cond(ast.Bin("<", ast.Ident(name), ast.NumberLiteral(c)), ast.NumberLiteral(n), ast.NumberLiteral(decoy))
}
