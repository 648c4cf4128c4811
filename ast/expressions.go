package ast

import "strings"

// BinaryExpression represents a binary operator expression: `a + b`.
type BinaryExpression struct {
	BaseNode
	Operator string
	Left     Expression
	Right    Expression
}

func (b *BinaryExpression) expressionNode() {}
func (b *BinaryExpression) String() string {
	return "(" + b.Left.String() + " " + b.Operator + " " + b.Right.String() + ")"
}

// LogicalExpression represents `&&`, `||` or `??`.
type LogicalExpression struct {
	BaseNode
	Operator string
	Left     Expression
	Right    Expression
}

func (l *LogicalExpression) expressionNode() {}
func (l *LogicalExpression) String() string {
	return "(" + l.Left.String() + " " + l.Operator + " " + l.Right.String() + ")"
}

// UnaryExpression represents a prefix unary operator: `!x`, `typeof x`, `-x`,
// `++x`/`--x` (Prefix=true) as well as postfix `x++`/`x--` (Prefix=false).
type UnaryExpression struct {
	BaseNode
	Operator string
	Argument Expression
	Prefix   bool
}

func (u *UnaryExpression) expressionNode() {}
func (u *UnaryExpression) String() string {
	if !u.Prefix {
		return u.Argument.String() + u.Operator
	}
	sep := ""
	if len(u.Operator) > 1 || u.Operator == "typeof" || u.Operator == "void" || u.Operator == "delete" {
		sep = " "
	}
	return u.Operator + sep + u.Argument.String()
}

// AssignmentExpression represents `x = y`, `x += y`, etc. Target may be an
// Identifier, MemberExpression, or a destructuring Pattern.
type AssignmentExpression struct {
	BaseNode
	Operator string
	Target   Node // Expression or Pattern
	Value    Expression
}

func (a *AssignmentExpression) expressionNode() {}
func (a *AssignmentExpression) String() string {
	return a.Target.String() + " " + a.Operator + " " + a.Value.String()
}

// ConditionalExpression represents `test ? consequent : alternate`.
type ConditionalExpression struct {
	BaseNode
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

func (c *ConditionalExpression) expressionNode() {}
func (c *ConditionalExpression) String() string {
	return "(" + c.Test.String() + " ? " + c.Consequent.String() + " : " + c.Alternate.String() + ")"
}

// SequenceExpression represents a comma expression: `a, b, c`. CFF's
// transition encoding emits these heavily.
type SequenceExpression struct {
	BaseNode
	Expressions []Expression
}

func (s *SequenceExpression) expressionNode() {}
func (s *SequenceExpression) String() string {
	return "(" + joinExprs(s.Expressions, ", ") + ")"
}

// CallExpression represents `callee(args...)`.
type CallExpression struct {
	BaseNode
	Callee    Expression
	Arguments []Expression
}

func (c *CallExpression) expressionNode() {}
func (c *CallExpression) String() string {
	return c.Callee.String() + "(" + joinExprs(c.Arguments, ", ") + ")"
}

// NewExpression represents `new callee(args...)`.
type NewExpression struct {
	BaseNode
	Callee    Expression
	Arguments []Expression
}

func (n *NewExpression) expressionNode() {}
func (n *NewExpression) String() string {
	return "new " + n.Callee.String() + "(" + joinExprs(n.Arguments, ", ") + ")"
}

// MemberExpression represents `obj.prop` (Computed=false) or `obj[expr]`
// (Computed=true).
type MemberExpression struct {
	BaseNode
	Object   Expression
	Property Expression
	Computed bool
}

func (m *MemberExpression) expressionNode() {}
func (m *MemberExpression) patternNode()    {}
func (m *MemberExpression) String() string {
	if m.Computed {
		return m.Object.String() + "[" + m.Property.String() + "]"
	}
	return m.Object.String() + "." + m.Property.String()
}

// ArrayExpression represents an array literal, with nil elements standing
// for elisions (`[1, , 3]`).
type ArrayExpression struct {
	BaseNode
	Elements []Expression
}

func (a *ArrayExpression) expressionNode() {}
func (a *ArrayExpression) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		if e == nil {
			continue
		}
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Property is a single `key: value` (or shorthand/method) entry of an
// ObjectExpression.
type Property struct {
	BaseNode
	Key       Expression
	Value     Expression
	Computed  bool
	Shorthand bool
	Kind      string // "init", "get", "set"
}

func (p *Property) String() string {
	if p.Shorthand {
		return p.Key.String()
	}
	key := p.Key.String()
	if p.Computed {
		key = "[" + key + "]"
	}
	return key + ": " + p.Value.String()
}

// ObjectExpression represents an object literal.
type ObjectExpression struct {
	BaseNode
	Properties []*Property
}

func (o *ObjectExpression) expressionNode() {}
func (o *ObjectExpression) String() string {
	parts := make([]string, len(o.Properties))
	for i, p := range o.Properties {
		parts[i] = p.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// SpreadElement represents `...expr` inside an array/object literal or call
// argument list.
type SpreadElement struct {
	BaseNode
	Argument Expression
}

func (s *SpreadElement) expressionNode() {}
func (s *SpreadElement) String() string  { return "..." + s.Argument.String() }
