package ast

// This file collects the side-effect-free node constructors every pass uses
// to build synthetic AST fragments (new state variables, dispatcher calls,
// goto statements, ...). Grounded on the teacher's habit of small focused
// constructor functions per node kind rather than exported struct literals
// scattered across the passes.

// Ident builds a bare Identifier expression node.
func Ident(name string) *Identifier {
	return &Identifier{Name: name}
}

// ExprStmt wraps an expression as a statement.
func ExprStmt(e Expression) *ExpressionStatement {
	return &ExpressionStatement{Expr: e}
}

// Block builds a BlockStatement from the given statements.
func Block(stmts ...Statement) *BlockStatement {
	return &BlockStatement{Body: stmts}
}

// Assign builds `target op= value`.
func Assign(target Node, op string, value Expression) *AssignmentExpression {
	return &AssignmentExpression{Operator: op, Target: target, Value: value}
}

// Bin builds a binary expression `left op right`.
func Bin(op string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{Operator: op, Left: left, Right: right}
}

// Seq builds a sequence expression from two or more expressions.
func Seq(exprs ...Expression) *SequenceExpression {
	return &SequenceExpression{Expressions: exprs}
}

// Call builds a call expression.
func Call(callee Expression, args ...Expression) *CallExpression {
	return &CallExpression{Callee: callee, Arguments: args}
}

// NewExpr builds a `new callee(args...)` expression.
func NewExpr(callee Expression, args ...Expression) *NewExpression {
	return &NewExpression{Callee: callee, Arguments: args}
}

// Member builds `object.property` (Computed=false) or `object[property]`
// (Computed=true).
func Member(object, property Expression, computed bool) *MemberExpression {
	return &MemberExpression{Object: object, Property: property, Computed: computed}
}

// Goto builds a synthetic GotoStatement targeting label.
func Goto(label string) *GotoStatement {
	return &GotoStatement{Label: label}
}

// VarDecl builds a VariableDeclaration with a single `name = init` binding
// (init may be nil).
func VarDecl(kind, name string, init Expression) *VariableDeclaration {
	return &VariableDeclaration{
		Kind: kind,
		Declarations: []*VariableDeclarator{
			{ID: Ident(name), Init: init},
		},
	}
}

// MultiVarDecl builds a VariableDeclaration with several bindings of the
// same kind, sharing no initializer.
func MultiVarDecl(kind string, names ...string) *VariableDeclaration {
	decls := make([]*VariableDeclarator, len(names))
	for i, n := range names {
		decls[i] = &VariableDeclarator{ID: Ident(n)}
	}
	return &VariableDeclaration{Kind: kind, Declarations: decls}
}

// Labeled wraps a statement with a label.
func Labeled(label string, body Statement) *LabeledStatement {
	return &LabeledStatement{Label: Ident(label), Body: body}
}

// ArrayLit builds an array literal expression.
func ArrayLit(elements ...Expression) *ArrayExpression {
	return &ArrayExpression{Elements: elements}
}

// Cond builds a ternary conditional expression.
func Cond(test, consequent, alternate Expression) *ConditionalExpression {
	return &ConditionalExpression{Test: test, Consequent: consequent, Alternate: alternate}
}

// Await builds `await argument`. This AST has no dedicated AwaitExpression
// node -- async-ness is carried only by the Async bool on function-like
// nodes -- so an await expression is a UnaryExpression with the keyword
// operator "await", the same way "typeof"/"void"/"delete" are represented.
// Flatten and RGF both need this to propagate async-ness into a moved call.
func Await(argument Expression) *UnaryExpression {
	return &UnaryExpression{Operator: "await", Argument: argument, Prefix: true}
}
