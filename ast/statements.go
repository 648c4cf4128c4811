package ast

import "strings"

// BlockStatement represents a `{ ... }` body. Program is the other kind of
// var context / block-like node (see IsBlock/GetBlockBody in blocks.go);
// BlockStatement itself is what every function body, if/loop body and catch
// body is made of.
type BlockStatement struct {
	BaseNode
	Body []Statement
}

func (b *BlockStatement) statementNode() {}
func (b *BlockStatement) String() string {
	return "{\n" + joinStmts(b.Body, "\n") + "\n}"
}

// ExpressionStatement wraps an expression used as a statement.
type ExpressionStatement struct {
	BaseNode
	Expr Expression
}

func (e *ExpressionStatement) statementNode() {}
func (e *ExpressionStatement) String() string { return e.Expr.String() + ";" }

// VariableDeclarator is a single `name = init` (or bare `name`) binding
// within a VariableDeclaration.
type VariableDeclarator struct {
	BaseNode
	ID   Pattern
	Init Expression // nil if uninitialized
}

func (v *VariableDeclarator) String() string {
	if v.Init == nil {
		return v.ID.String()
	}
	return v.ID.String() + " = " + v.Init.String()
}

// VariableDeclaration represents `var`/`let`/`const` declarations. Kind is
// load-bearing: CFF's containsLexicallyBoundVariables eligibility check
// keys off Kind == "let" || Kind == "const".
type VariableDeclaration struct {
	BaseNode
	Kind         string // "var", "let", "const"
	Declarations []*VariableDeclarator
}

func (v *VariableDeclaration) statementNode() {}
func (v *VariableDeclaration) String() string {
	parts := make([]string, len(v.Declarations))
	for i, d := range v.Declarations {
		parts[i] = d.String()
	}
	return v.Kind + " " + strings.Join(parts, ", ") + ";"
}

// ReturnStatement represents `return expr;` or bare `return;`.
type ReturnStatement struct {
	BaseNode
	Argument Expression // nil for a bare return
}

func (r *ReturnStatement) statementNode() {}
func (r *ReturnStatement) String() string {
	if r.Argument == nil {
		return "return;"
	}
	return "return " + r.Argument.String() + ";"
}

// IfStatement represents `if (test) consequent else alternate`. Alternate is
// nil when there is no else clause.
type IfStatement struct {
	BaseNode
	Test       Expression
	Consequent Statement
	Alternate  Statement
}

func (i *IfStatement) statementNode() {}
func (i *IfStatement) String() string {
	s := "if (" + i.Test.String() + ") " + i.Consequent.String()
	if i.Alternate != nil {
		s += " else " + i.Alternate.String()
	}
	return s
}

// LabeledStatement represents `label: statement`, which is how CFF-eligible
// loops and switches are required to be written per spec.md §4.E.
type LabeledStatement struct {
	BaseNode
	Label *Identifier
	Body  Statement
}

func (l *LabeledStatement) statementNode() {}
func (l *LabeledStatement) String() string { return l.Label.Name + ": " + l.Body.String() }

// BreakStatement represents `break;` or `break label;`.
type BreakStatement struct {
	BaseNode
	Label *Identifier // nil for unlabeled break
}

func (b *BreakStatement) statementNode() {}
func (b *BreakStatement) String() string {
	if b.Label == nil {
		return "break;"
	}
	return "break " + b.Label.Name + ";"
}

// ContinueStatement represents `continue;` or `continue label;`.
type ContinueStatement struct {
	BaseNode
	Label *Identifier
}

func (c *ContinueStatement) statementNode() {}
func (c *ContinueStatement) String() string {
	if c.Label == nil {
		return "continue;"
	}
	return "continue " + c.Label.Name + ";"
}

// ThrowStatement represents `throw expr;`.
type ThrowStatement struct {
	BaseNode
	Argument Expression
}

func (t *ThrowStatement) statementNode() {}
func (t *ThrowStatement) String() string { return "throw " + t.Argument.String() + ";" }

// CatchClause is the `catch (param) { body }` part of a TryStatement.
type CatchClause struct {
	BaseNode
	Param *Identifier // nil for parameterless catch
	Body  *BlockStatement
}

func (c *CatchClause) String() string {
	if c.Param == nil {
		return "catch " + c.Body.String()
	}
	return "catch (" + c.Param.Name + ") " + c.Body.String()
}

// TryStatement represents `try { } catch (e) { } finally { }`. Handler
// and/or Finalizer may be nil but not both.
type TryStatement struct {
	BaseNode
	Block     *BlockStatement
	Handler   *CatchClause
	Finalizer *BlockStatement
}

func (t *TryStatement) statementNode() {}
func (t *TryStatement) String() string {
	s := "try " + t.Block.String()
	if t.Handler != nil {
		s += " " + t.Handler.String()
	}
	if t.Finalizer != nil {
		s += " finally " + t.Finalizer.String()
	}
	return s
}
