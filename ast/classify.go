package ast

// ReservedKeywords is the fixed set of ECMAScript keywords no generated
// identifier may collide with, per spec.md §3's invariant on identifier
// classification.
var ReservedKeywords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "export": true, "extends": true, "finally": true,
	"for": true, "function": true, "if": true, "import": true, "in": true,
	"instanceof": true, "new": true, "return": true, "super": true,
	"switch": true, "this": true, "throw": true, "try": true, "typeof": true,
	"var": true, "void": true, "while": true, "with": true, "yield": true,
	"let": true, "static": true, "await": true, "async": true, "null": true,
	"true": true, "false": true,
}

// ReservedIdentifiers is the fixed set of host/runtime names the core must
// never emit as a generated identifier, so obfuscated output never
// shadows a global the user didn't declare.
var ReservedIdentifiers = map[string]bool{
	"arguments": true, "undefined": true, "NaN": true, "Infinity": true,
	"globalThis": true, "window": true, "global": true, "self": true,
	"Object": true, "Array": true, "Function": true, "String": true,
	"Number": true, "Boolean": true, "Symbol": true, "Error": true,
	"Math": true, "JSON": true, "Promise": true, "Proxy": true, "Reflect": true,
	"console": true, "require": true, "module": true, "exports": true,
}

// IdentifierUsage classifies how identifiers are used within a subtree, per
// the defined/referenced/modified triad Flatten and RGF both build on
// (spec.md §4.G/§4.H).
type IdentifierUsage struct {
	Defined    map[string]bool // declared by a var/let/const/function/param inside the subtree
	Referenced map[string]bool // read
	Modified   map[string]bool // assigned to, or the target of ++/--/compound-assign
}

func newUsage() *IdentifierUsage {
	return &IdentifierUsage{
		Defined:    map[string]bool{},
		Referenced: map[string]bool{},
		Modified:   map[string]bool{},
	}
}

// ClassifyIdentifiers walks n, including nested function bodies and their
// parameters, and classifies every identifier reference it finds. Because
// it descends into nested functions, their free variables count as
// references/modifications at the outer level too; callers rely on the
// Defined set to subtract out local declarations.
func ClassifyIdentifiers(n Node) *IdentifierUsage {
	u := newUsage()
	classifyNode(n, u)
	return u
}

func classifyNode(n Node, u *IdentifierUsage) {
	if n == nil {
		return
	}
	switch v := n.(type) {
	case *Program:
		for _, s := range v.Body {
			classifyNode(s, u)
		}
	case *Identifier:
		u.Referenced[v.Name] = true
	case *BlockStatement:
		for _, s := range v.Body {
			classifyNode(s, u)
		}
	case *ExpressionStatement:
		classifyNode(v.Expr, u)
	case *VariableDeclaration:
		for _, d := range v.Declarations {
			classifyPatternDefined(d.ID, u)
			if d.Init != nil {
				classifyNode(d.Init, u)
			}
		}
	case *ReturnStatement:
		classifyNode(v.Argument, u)
	case *IfStatement:
		classifyNode(v.Test, u)
		classifyNode(v.Consequent, u)
		classifyNode(v.Alternate, u)
	case *LabeledStatement:
		classifyNode(v.Body, u)
	case *WhileStatement:
		classifyNode(v.Test, u)
		classifyNode(v.Body, u)
	case *DoWhileStatement:
		classifyNode(v.Body, u)
		classifyNode(v.Test, u)
	case *ForStatement:
		classifyNode(v.Init, u)
		classifyNode(v.Test, u)
		classifyNode(v.Update, u)
		classifyNode(v.Body, u)
	case *SwitchStatement:
		classifyNode(v.Discriminant, u)
		for _, c := range v.Cases {
			classifyNode(c.Test, u)
			for _, s := range c.Consequent {
				classifyNode(s, u)
			}
		}
	case *ThrowStatement:
		classifyNode(v.Argument, u)
	case *TryStatement:
		classifyNode(v.Block, u)
		if v.Handler != nil {
			if v.Handler.Param != nil {
				u.Defined[v.Handler.Param.Name] = true
			}
			classifyNode(v.Handler.Body, u)
		}
		classifyNode(v.Finalizer, u)
	case *BreakStatement, *ContinueStatement, *EmptyStatement, *GotoStatement:
		// no identifier references
	case *BinaryExpression:
		classifyNode(v.Left, u)
		classifyNode(v.Right, u)
	case *LogicalExpression:
		classifyNode(v.Left, u)
		classifyNode(v.Right, u)
	case *UnaryExpression:
		if (v.Operator == "++" || v.Operator == "--") {
			classifyTarget(v.Argument, u)
		}
		classifyNode(v.Argument, u)
	case *AssignmentExpression:
		classifyTarget(v.Target, u)
		classifyNode(v.Value, u)
	case *ConditionalExpression:
		classifyNode(v.Test, u)
		classifyNode(v.Consequent, u)
		classifyNode(v.Alternate, u)
	case *SequenceExpression:
		for _, e := range v.Expressions {
			classifyNode(e, u)
		}
	case *CallExpression:
		classifyNode(v.Callee, u)
		for _, a := range v.Arguments {
			classifyNode(a, u)
		}
	case *NewExpression:
		classifyNode(v.Callee, u)
		for _, a := range v.Arguments {
			classifyNode(a, u)
		}
	case *MemberExpression:
		classifyNode(v.Object, u)
		if v.Computed {
			classifyNode(v.Property, u)
		}
	case *ArrayExpression:
		for _, e := range v.Elements {
			classifyNode(e, u)
		}
	case *ObjectExpression:
		for _, p := range v.Properties {
			if p.Computed {
				classifyNode(p.Key, u)
			}
			classifyNode(p.Value, u)
		}
	case *SpreadElement:
		classifyNode(v.Argument, u)
	case *FunctionDeclaration:
		if v.ID != nil {
			u.Defined[v.ID.Name] = true
		}
		classifyParamsAndBody(v.Params, v.Body, u)
	case *FunctionExpression:
		classifyParamsAndBody(v.Params, v.Body, u)
	case *ArrowFunctionExpression:
		classifyParamsAndBody(v.Params, v.Body, u)
	case *ClassDeclaration:
		if v.ID != nil {
			u.Defined[v.ID.Name] = true
		}
		classifyNode(v.SuperClass, u)
	case *ClassExpression:
		classifyNode(v.SuperClass, u)
	case *Literal, *ThisExpression, *Super, *MetaProperty:
		// no identifier references
	}
}

func classifyParamsAndBody(params []Pattern, body Node, u *IdentifierUsage) {
	for _, p := range params {
		classifyPatternDefined(p, u)
	}
	classifyNode(body, u)
}

func classifyPatternDefined(p Pattern, u *IdentifierUsage) {
	switch v := p.(type) {
	case *Identifier:
		u.Defined[v.Name] = true
	case *ArrayPattern:
		for _, e := range v.Elements {
			if e != nil {
				classifyPatternDefined(e, u)
			}
		}
	case *ObjectPattern:
		for _, prop := range v.Properties {
			if id, ok := prop.Value.(Pattern); ok {
				classifyPatternDefined(id, u)
			}
		}
	case *RestElement:
		classifyPatternDefined(v.Argument, u)
	}
}

// classifyTarget records the root identifier of an assignment/update target
// as modified (and, for member expressions, marks the object as referenced).
func classifyTarget(target Node, u *IdentifierUsage) {
	switch v := target.(type) {
	case *Identifier:
		u.Modified[v.Name] = true
	case *MemberExpression:
		classifyNode(v.Object, u)
		if v.Computed {
			classifyNode(v.Property, u)
		}
	case *ArrayPattern:
		for _, e := range v.Elements {
			if e != nil {
				classifyTarget(e, u)
			}
		}
	case *ObjectPattern:
		for _, p := range v.Properties {
			classifyTarget(p.Value, u)
		}
	}
}
