package ast

// Clone produces a deep copy of n. Every pass that moves a subtree into a
// new home (CFF duplicating chunk bodies into case arms, RGF lifting a
// function into a synthetic nested Program) clones first so the original
// tree's node identity is never aliased into two places at once.
//
// Annotations are copied by reference to a new map (shallow per-key copy);
// this mirrors the teacher's struct-copy semantics for value fields and
// is sufficient because annotation values are themselves either immutable
// (bools, strings) or callbacks that are meant to be shared.
func Clone(n Node) Node {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *Program:
		c := &Program{BaseNode: cloneBase(v.BaseNode), Body: cloneStmts(v.Body)}
		return c
	case *Identifier:
		return &Identifier{BaseNode: cloneBase(v.BaseNode), Name: v.Name}
	case *ThisExpression:
		return &ThisExpression{BaseNode: cloneBase(v.BaseNode)}
	case *Super:
		return &Super{BaseNode: cloneBase(v.BaseNode)}
	case *MetaProperty:
		return &MetaProperty{BaseNode: cloneBase(v.BaseNode), Meta: cloneIdent(v.Meta), Property: cloneIdent(v.Property)}
	case *EmptyStatement:
		return &EmptyStatement{BaseNode: cloneBase(v.BaseNode)}
	case *Literal:
		cp := *v
		cp.BaseNode = cloneBase(v.BaseNode)
		return &cp
	case *BinaryExpression:
		return &BinaryExpression{BaseNode: cloneBase(v.BaseNode), Operator: v.Operator, Left: cloneExpr(v.Left), Right: cloneExpr(v.Right)}
	case *LogicalExpression:
		return &LogicalExpression{BaseNode: cloneBase(v.BaseNode), Operator: v.Operator, Left: cloneExpr(v.Left), Right: cloneExpr(v.Right)}
	case *UnaryExpression:
		return &UnaryExpression{BaseNode: cloneBase(v.BaseNode), Operator: v.Operator, Argument: cloneExpr(v.Argument), Prefix: v.Prefix}
	case *AssignmentExpression:
		return &AssignmentExpression{BaseNode: cloneBase(v.BaseNode), Operator: v.Operator, Target: cloneNode(v.Target), Value: cloneExpr(v.Value)}
	case *ConditionalExpression:
		return &ConditionalExpression{BaseNode: cloneBase(v.BaseNode), Test: cloneExpr(v.Test), Consequent: cloneExpr(v.Consequent), Alternate: cloneExpr(v.Alternate)}
	case *SequenceExpression:
		return &SequenceExpression{BaseNode: cloneBase(v.BaseNode), Expressions: cloneExprs(v.Expressions)}
	case *CallExpression:
		return &CallExpression{BaseNode: cloneBase(v.BaseNode), Callee: cloneExpr(v.Callee), Arguments: cloneExprs(v.Arguments)}
	case *NewExpression:
		return &NewExpression{BaseNode: cloneBase(v.BaseNode), Callee: cloneExpr(v.Callee), Arguments: cloneExprs(v.Arguments)}
	case *MemberExpression:
		return &MemberExpression{BaseNode: cloneBase(v.BaseNode), Object: cloneExpr(v.Object), Property: cloneExpr(v.Property), Computed: v.Computed}
	case *ArrayExpression:
		return &ArrayExpression{BaseNode: cloneBase(v.BaseNode), Elements: cloneExprs(v.Elements)}
	case *Property:
		return &Property{BaseNode: cloneBase(v.BaseNode), Key: cloneExpr(v.Key), Value: cloneExpr(v.Value), Computed: v.Computed, Shorthand: v.Shorthand, Kind: v.Kind}
	case *ObjectExpression:
		props := make([]*Property, len(v.Properties))
		for i, p := range v.Properties {
			props[i] = Clone(p).(*Property)
		}
		return &ObjectExpression{BaseNode: cloneBase(v.BaseNode), Properties: props}
	case *SpreadElement:
		return &SpreadElement{BaseNode: cloneBase(v.BaseNode), Argument: cloneExpr(v.Argument)}
	case *BlockStatement:
		return &BlockStatement{BaseNode: cloneBase(v.BaseNode), Body: cloneStmts(v.Body)}
	case *ExpressionStatement:
		return &ExpressionStatement{BaseNode: cloneBase(v.BaseNode), Expr: cloneExpr(v.Expr)}
	case *VariableDeclarator:
		var init Expression
		if v.Init != nil {
			init = cloneExpr(v.Init)
		}
		return &VariableDeclarator{BaseNode: cloneBase(v.BaseNode), ID: clonePattern(v.ID), Init: init}
	case *VariableDeclaration:
		decls := make([]*VariableDeclarator, len(v.Declarations))
		for i, d := range v.Declarations {
			decls[i] = Clone(d).(*VariableDeclarator)
		}
		return &VariableDeclaration{BaseNode: cloneBase(v.BaseNode), Kind: v.Kind, Declarations: decls}
	case *ReturnStatement:
		var arg Expression
		if v.Argument != nil {
			arg = cloneExpr(v.Argument)
		}
		return &ReturnStatement{BaseNode: cloneBase(v.BaseNode), Argument: arg}
	case *IfStatement:
		var alt Statement
		if v.Alternate != nil {
			alt = cloneStmt(v.Alternate)
		}
		return &IfStatement{BaseNode: cloneBase(v.BaseNode), Test: cloneExpr(v.Test), Consequent: cloneStmt(v.Consequent), Alternate: alt}
	case *LabeledStatement:
		return &LabeledStatement{BaseNode: cloneBase(v.BaseNode), Label: cloneIdent(v.Label), Body: cloneStmt(v.Body)}
	case *BreakStatement:
		var l *Identifier
		if v.Label != nil {
			l = cloneIdent(v.Label)
		}
		return &BreakStatement{BaseNode: cloneBase(v.BaseNode), Label: l}
	case *ContinueStatement:
		var l *Identifier
		if v.Label != nil {
			l = cloneIdent(v.Label)
		}
		return &ContinueStatement{BaseNode: cloneBase(v.BaseNode), Label: l}
	case *ThrowStatement:
		return &ThrowStatement{BaseNode: cloneBase(v.BaseNode), Argument: cloneExpr(v.Argument)}
	case *CatchClause:
		var p *Identifier
		if v.Param != nil {
			p = cloneIdent(v.Param)
		}
		return &CatchClause{BaseNode: cloneBase(v.BaseNode), Param: p, Body: Clone(v.Body).(*BlockStatement)}
	case *TryStatement:
		var handler *CatchClause
		if v.Handler != nil {
			handler = Clone(v.Handler).(*CatchClause)
		}
		var fin *BlockStatement
		if v.Finalizer != nil {
			fin = Clone(v.Finalizer).(*BlockStatement)
		}
		return &TryStatement{BaseNode: cloneBase(v.BaseNode), Block: Clone(v.Block).(*BlockStatement), Handler: handler, Finalizer: fin}
	case *WhileStatement:
		return &WhileStatement{BaseNode: cloneBase(v.BaseNode), Test: cloneExpr(v.Test), Body: cloneStmt(v.Body)}
	case *DoWhileStatement:
		return &DoWhileStatement{BaseNode: cloneBase(v.BaseNode), Body: cloneStmt(v.Body), Test: cloneExpr(v.Test)}
	case *ForStatement:
		var init Node
		if v.Init != nil {
			init = cloneNode(v.Init)
		}
		var test, update Expression
		if v.Test != nil {
			test = cloneExpr(v.Test)
		}
		if v.Update != nil {
			update = cloneExpr(v.Update)
		}
		return &ForStatement{BaseNode: cloneBase(v.BaseNode), Init: init, Test: test, Update: update, Body: cloneStmt(v.Body)}
	case *SwitchCase:
		var test Expression
		if v.Test != nil {
			test = cloneExpr(v.Test)
		}
		return &SwitchCase{BaseNode: cloneBase(v.BaseNode), Test: test, Consequent: cloneStmts(v.Consequent)}
	case *SwitchStatement:
		cases := make([]*SwitchCase, len(v.Cases))
		for i, c := range v.Cases {
			cases[i] = Clone(c).(*SwitchCase)
		}
		return &SwitchStatement{BaseNode: cloneBase(v.BaseNode), Discriminant: cloneExpr(v.Discriminant), Cases: cases}
	case *GotoStatement:
		return &GotoStatement{BaseNode: cloneBase(v.BaseNode), Label: v.Label}
	case *RestElement:
		return &RestElement{BaseNode: cloneBase(v.BaseNode), Argument: clonePattern(v.Argument)}
	case *ArrayPattern:
		elems := make([]Pattern, len(v.Elements))
		for i, e := range v.Elements {
			if e != nil {
				elems[i] = clonePattern(e)
			}
		}
		return &ArrayPattern{BaseNode: cloneBase(v.BaseNode), Elements: elems}
	case *ObjectPattern:
		props := make([]*Property, len(v.Properties))
		for i, p := range v.Properties {
			props[i] = Clone(p).(*Property)
		}
		return &ObjectPattern{BaseNode: cloneBase(v.BaseNode), Properties: props}
	case *FunctionDeclaration:
		var id *Identifier
		if v.ID != nil {
			id = cloneIdent(v.ID)
		}
		return &FunctionDeclaration{BaseNode: cloneBase(v.BaseNode), ID: id, Params: clonePatterns(v.Params), Body: Clone(v.Body).(*BlockStatement), Generator: v.Generator, Async: v.Async}
	case *FunctionExpression:
		var id *Identifier
		if v.ID != nil {
			id = cloneIdent(v.ID)
		}
		return &FunctionExpression{BaseNode: cloneBase(v.BaseNode), ID: id, Params: clonePatterns(v.Params), Body: Clone(v.Body).(*BlockStatement), Generator: v.Generator, Async: v.Async}
	case *ArrowFunctionExpression:
		return &ArrowFunctionExpression{BaseNode: cloneBase(v.BaseNode), Params: clonePatterns(v.Params), Body: cloneNode(v.Body), Async: v.Async}
	case *MethodDefinition:
		return &MethodDefinition{BaseNode: cloneBase(v.BaseNode), Key: cloneExpr(v.Key), Value: Clone(v.Value).(*FunctionExpression), Kind: v.Kind, Static: v.Static, Computed: v.Computed}
	case *ClassBody:
		methods := make([]*MethodDefinition, len(v.Body))
		for i, m := range v.Body {
			methods[i] = Clone(m).(*MethodDefinition)
		}
		return &ClassBody{BaseNode: cloneBase(v.BaseNode), Body: methods}
	case *ClassDeclaration:
		var super Expression
		if v.SuperClass != nil {
			super = cloneExpr(v.SuperClass)
		}
		return &ClassDeclaration{BaseNode: cloneBase(v.BaseNode), ID: cloneIdent(v.ID), SuperClass: super, Body: Clone(v.Body).(*ClassBody)}
	case *ClassExpression:
		var id *Identifier
		if v.ID != nil {
			id = cloneIdent(v.ID)
		}
		var super Expression
		if v.SuperClass != nil {
			super = cloneExpr(v.SuperClass)
		}
		return &ClassExpression{BaseNode: cloneBase(v.BaseNode), ID: id, SuperClass: super, Body: Clone(v.Body).(*ClassBody)}
	default:
		panic("ast.Clone: unhandled node kind")
	}
}

func cloneBase(b BaseNode) BaseNode {
	nb := BaseNode{NodePos: b.NodePos}
	if len(b.LeadingComments) > 0 {
		nb.LeadingComments = append([]string(nil), b.LeadingComments...)
	}
	if len(b.Bag) > 0 {
		nb.Bag = make(map[string]any, len(b.Bag))
		for k, v := range b.Bag {
			nb.Bag[k] = v
		}
	}
	return nb
}

func cloneNode(n Node) Node         { return Clone(n) }
func cloneExpr(e Expression) Expression {
	if e == nil {
		return nil
	}
	return Clone(e).(Expression)
}
func cloneStmt(s Statement) Statement { return Clone(s).(Statement) }
func cloneIdent(i *Identifier) *Identifier {
	if i == nil {
		return nil
	}
	return Clone(i).(*Identifier)
}
func clonePattern(p Pattern) Pattern { return Clone(p).(Pattern) }

func cloneStmts(stmts []Statement) []Statement {
	out := make([]Statement, len(stmts))
	for i, s := range stmts {
		out[i] = cloneStmt(s)
	}
	return out
}

func cloneExprs(exprs []Expression) []Expression {
	out := make([]Expression, len(exprs))
	for i, e := range exprs {
		if e != nil {
			out[i] = cloneExpr(e)
		}
	}
	return out
}

func clonePatterns(pats []Pattern) []Pattern {
	out := make([]Pattern, len(pats))
	for i, p := range pats {
		out[i] = clonePattern(p)
	}
	return out
}
