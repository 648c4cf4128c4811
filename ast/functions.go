package ast

import "strings"

// RestElement represents a `...name` trailing parameter or destructuring
// rest binding.
type RestElement struct {
	BaseNode
	Argument Pattern
}

func (r *RestElement) expressionNode() {}
func (r *RestElement) patternNode()    {}
func (r *RestElement) String() string  { return "..." + r.Argument.String() }

// ArrayPattern represents a destructuring array pattern, used both for
// `var [a, b] = x;` and, critically for Dispatcher (spec.md §4.F), for
// rewriting a function's original parameter list into reads off `payload`.
// Elements may contain nils for elisions.
type ArrayPattern struct {
	BaseNode
	Elements []Pattern
}

func (a *ArrayPattern) expressionNode() {}
func (a *ArrayPattern) patternNode()    {}
func (a *ArrayPattern) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		if e == nil {
			continue
		}
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ObjectPattern represents a destructuring object pattern `{a, b: c}`.
type ObjectPattern struct {
	BaseNode
	Properties []*Property
}

func (o *ObjectPattern) expressionNode() {}
func (o *ObjectPattern) patternNode()    {}
func (o *ObjectPattern) String() string {
	parts := make([]string, len(o.Properties))
	for i, p := range o.Properties {
		parts[i] = p.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// FunctionDeclaration represents `function name(params) { body }`.
type FunctionDeclaration struct {
	BaseNode
	ID        *Identifier // nil only for default-exported anonymous declarations, not produced by this pipeline
	Params    []Pattern
	Body      *BlockStatement
	Generator bool
	Async     bool
}

func (f *FunctionDeclaration) statementNode() {}
func (f *FunctionDeclaration) String() string {
	return "function " + f.ID.Name + "(" + paramsString(f.Params) + ") " + f.Body.String()
}

// FunctionExpression represents a (possibly anonymous) function used as a
// value: `function(x){...}`, `function named(x){...}`, or the value side of
// a dispatch-table entry after Dispatcher has rewritten a declaration into
// one.
type FunctionExpression struct {
	BaseNode
	ID        *Identifier // nil for anonymous
	Params    []Pattern
	Body      *BlockStatement
	Generator bool
	Async     bool
}

func (f *FunctionExpression) expressionNode() {}
func (f *FunctionExpression) String() string {
	name := ""
	if f.ID != nil {
		name = f.ID.Name
	}
	return "function " + name + "(" + paramsString(f.Params) + ") " + f.Body.String()
}

// ArrowFunctionExpression represents `(params) => body`. Body is either a
// *BlockStatement or a bare Expression (concise body). Flatten and RGF both
// explicitly exclude arrow functions from their candidate sets (no implicit
// `this`/`arguments` rebinding to preserve), per spec.md §4.G/§4.H.
type ArrowFunctionExpression struct {
	BaseNode
	Params []Pattern
	Body   Node // *BlockStatement or Expression
	Async  bool
}

func (a *ArrowFunctionExpression) expressionNode() {}
func (a *ArrowFunctionExpression) String() string {
	return "(" + paramsString(a.Params) + ") => " + a.Body.String()
}

func paramsString(params []Pattern) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// IsFunctionLike reports whether n is any of the function node kinds
// (declaration, expression or arrow). Used throughout the passes wherever
// spec.md says "function-like node".
func IsFunctionLike(n Node) bool {
	switch n.(type) {
	case *FunctionDeclaration, *FunctionExpression, *ArrowFunctionExpression:
		return true
	}
	return false
}

// FunctionBody returns the Node's body if it is function-like; for arrows
// with a concise (expression) body, ok reports that it is not a block.
func FunctionBody(n Node) (body Node, isBlock bool, ok bool) {
	switch f := n.(type) {
	case *FunctionDeclaration:
		return f.Body, true, true
	case *FunctionExpression:
		return f.Body, true, true
	case *ArrowFunctionExpression:
		_, isBlockBody := f.Body.(*BlockStatement)
		return f.Body, isBlockBody, true
	}
	return nil, false, false
}

// FunctionParams returns the Node's parameter list if it is function-like.
func FunctionParams(n Node) ([]Pattern, bool) {
	switch f := n.(type) {
	case *FunctionDeclaration:
		return f.Params, true
	case *FunctionExpression:
		return f.Params, true
	case *ArrowFunctionExpression:
		return f.Params, true
	}
	return nil, false
}

// IsAsync reports whether a function-like node is declared `async`.
func IsAsync(n Node) bool {
	switch f := n.(type) {
	case *FunctionDeclaration:
		return f.Async
	case *FunctionExpression:
		return f.Async
	case *ArrowFunctionExpression:
		return f.Async
	}
	return false
}

// HasPureIdentifierParams reports whether every parameter of a function-like
// node is a plain Identifier (no destructuring, no defaults, no rest) --
// Flatten's candidacy precondition (spec.md §4.G).
func HasPureIdentifierParams(n Node) bool {
	params, ok := FunctionParams(n)
	if !ok {
		return false
	}
	for _, p := range params {
		if _, isIdent := p.(*Identifier); !isIdent {
			return false
		}
	}
	return true
}
