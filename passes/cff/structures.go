package cff

import "github.com/jsobf/jsobf/ast"

// handleIf implements the `if (t) { A } else? { B }` structure rewrite of
// spec.md §4.E. It returns false (leaving the statement for ordinary
// chunking) when either branch isn't a plain block, since the structured
// rewrite only applies to that shape.
func (ck *chunker) handleIf(v *ast.IfStatement) bool {
	cons, ok := v.Consequent.(*ast.BlockStatement)
	if !ok {
		return false
	}
	var altBody []ast.Statement
	if v.Alternate != nil {
		alt, ok := v.Alternate.(*ast.BlockStatement)
		if !ok {
			return false
		}
		altBody = alt.Body
	}

	yes, no, after := ck.ph(), ck.ph(), ck.ph()
	ck.finishCurrent(&ast.IfStatement{
		Test:       v.Test,
		Consequent: ast.Goto(yes),
		Alternate:  ast.Goto(no),
	})
	ck.chunkBranch(yes, cons.Body, after)
	ck.chunkBranch(no, altBody, after)
	ck.openChunk(after)
	return true
}

// handleLabeled dispatches a labeled statement to the loop or switch
// structure handler, per spec.md §4.E's requirement that both forms appear
// as `label: for/while (...)` or `label: switch (...)`.
func (ck *chunker) handleLabeled(v *ast.LabeledStatement) bool {
	switch body := v.Body.(type) {
	case *ast.ForStatement:
		return ck.handleLoop(v.Label.Name, body.Init, body.Test, body.Update, body.Body, false)
	case *ast.WhileStatement:
		return ck.handleLoop(v.Label.Name, nil, body.Test, nil, body.Body, false)
	case *ast.DoWhileStatement:
		return ck.handleLoop(v.Label.Name, nil, body.Test, nil, body.Body, true)
	case *ast.SwitchStatement:
		return ck.handleSwitch(v.Label.Name, body)
	}
	return false
}

// handleLoop implements the labeled for/while/do-while structure rewrite.
// init/update are nil for while loops; postTest selects the do/while form,
// which omits the initial goto to the test chunk.
func (ck *chunker) handleLoop(label string, init ast.Node, test ast.Expression, update ast.Expression, body ast.Statement, postTest bool) bool {
	block, ok := body.(*ast.BlockStatement)
	if !ok {
		return false
	}
	if test == nil {
		return false
	}

	testLabel, updateLabel, bodyLabel, after := ck.ph(), ck.ph(), ck.ph(), ck.ph()
	continueTarget := testLabel
	if update != nil {
		continueTarget = updateLabel
	}

	r := &loopRewriter{label: label, afterLabel: after, continueLabel: continueTarget}
	rewritten := r.rewriteList(block.Body, false, false)
	if r.aborted {
		return false
	}

	if initStmt, ok := init.(ast.Statement); ok && initStmt != nil {
		ck.current.stmts = append(ck.current.stmts, initStmt)
	} else if initExpr, ok := init.(ast.Expression); ok && initExpr != nil {
		ck.current.stmts = append(ck.current.stmts, ast.ExprStmt(initExpr))
	}

	entryLabel := testLabel
	if postTest {
		entryLabel = bodyLabel
	}
	ck.finishCurrent(ast.Goto(entryLabel))

	ck.openChunk(testLabel)
	ck.finishCurrent(&ast.IfStatement{Test: test, Consequent: ast.Goto(bodyLabel), Alternate: ast.Goto(after)})

	ck.chunkBranch(bodyLabel, rewritten, continueTarget)

	if update != nil {
		ck.openChunk(updateLabel)
		ck.current.stmts = append(ck.current.stmts, ast.ExprStmt(update))
		ck.finishCurrent(ast.Goto(testLabel))
	}

	ck.openChunk(after)
	return true
}

// handleSwitch implements the labeled-switch structure rewrite. It accepts
// only a restricted shape: no default arm, every case body non-empty and
// ending with a `break L` or a bare `break`.
func (ck *chunker) handleSwitch(label string, sw *ast.SwitchStatement) bool {
	for _, c := range sw.Cases {
		if c.Test == nil {
			return false
		}
		if len(c.Consequent) == 0 {
			return false
		}
		last, ok := c.Consequent[len(c.Consequent)-1].(*ast.BreakStatement)
		if !ok {
			return false
		}
		if last.Label != nil && last.Label.Name != label {
			return false
		}
	}

	after := ck.ph()
	tmpName := ck.ph()
	ck.current.stmts = append(ck.current.stmts, ast.VarDecl("var", tmpName, sw.Discriminant))

	caseEntries := make([]string, len(sw.Cases))
	for i := range sw.Cases {
		caseEntries[i] = ck.ph()
	}

	// Build the `if (tmp === test) goto caseEntry` chain, else-if per case,
	// falling through to `after` when nothing matches.
	var chain ast.Statement = ast.Goto(after)
	for i := len(sw.Cases) - 1; i >= 0; i-- {
		c := sw.Cases[i]
		test := ast.Bin("===", ast.Ident(tmpName), c.Test)
		chain = &ast.IfStatement{Test: test, Consequent: ast.Goto(caseEntries[i]), Alternate: chain}
	}
	ck.finishCurrent(chain)

	for i, c := range sw.Cases {
		caseBody := c.Consequent[:len(c.Consequent)-1] // drop the trailing break
		ck.chunkBranch(caseEntries[i], caseBody, after)
	}

	ck.openChunk(after)
	return true
}

// loopRewriter rewrites break/continue targeting label into synthetic
// gotos, tracking nested loop/switch depth so an unlabeled break/continue
// belonging to a nested construct is left untouched. It never descends into
// nested function bodies, since break/continue cannot cross a function
// boundary.
type loopRewriter struct {
	label         string
	afterLabel    string
	continueLabel string
	aborted       bool
}

func (r *loopRewriter) rewriteList(stmts []ast.Statement, inLoop, inSwitch bool) []ast.Statement {
	out := make([]ast.Statement, len(stmts))
	for i, s := range stmts {
		out[i] = r.rewriteStmt(s, inLoop, inSwitch)
	}
	return out
}

func (r *loopRewriter) rewriteStmt(s ast.Statement, inLoop, inSwitch bool) ast.Statement {
	if s == nil || r.aborted {
		return s
	}
	switch v := s.(type) {
	case *ast.BreakStatement:
		if v.Label == nil {
			if inLoop || inSwitch {
				return s
			}
			return ast.Goto(r.afterLabel)
		}
		if v.Label.Name == r.label {
			return ast.Goto(r.afterLabel)
		}
		r.aborted = true
		return s
	case *ast.ContinueStatement:
		if v.Label == nil {
			if inLoop {
				return s
			}
			return ast.Goto(r.continueLabel)
		}
		if v.Label.Name == r.label {
			return ast.Goto(r.continueLabel)
		}
		r.aborted = true
		return s
	case *ast.BlockStatement:
		return &ast.BlockStatement{BaseNode: v.BaseNode, Body: r.rewriteList(v.Body, inLoop, inSwitch)}
	case *ast.IfStatement:
		return &ast.IfStatement{
			BaseNode:   v.BaseNode,
			Test:       v.Test,
			Consequent: r.rewriteStmt(v.Consequent, inLoop, inSwitch),
			Alternate:  r.rewriteStmt(v.Alternate, inLoop, inSwitch),
		}
	case *ast.LabeledStatement:
		switch body := v.Body.(type) {
		case *ast.ForStatement:
			return &ast.LabeledStatement{BaseNode: v.BaseNode, Label: v.Label, Body: &ast.ForStatement{
				BaseNode: body.BaseNode, Init: body.Init, Test: body.Test, Update: body.Update,
				Body: r.rewriteStmt(body.Body, true, inSwitch),
			}}
		case *ast.WhileStatement:
			return &ast.LabeledStatement{BaseNode: v.BaseNode, Label: v.Label, Body: &ast.WhileStatement{
				BaseNode: body.BaseNode, Test: body.Test, Body: r.rewriteStmt(body.Body, true, inSwitch),
			}}
		case *ast.DoWhileStatement:
			return &ast.LabeledStatement{BaseNode: v.BaseNode, Label: v.Label, Body: &ast.DoWhileStatement{
				BaseNode: body.BaseNode, Test: body.Test, Body: r.rewriteStmt(body.Body, true, inSwitch),
			}}
		case *ast.SwitchStatement:
			return &ast.LabeledStatement{BaseNode: v.BaseNode, Label: v.Label, Body: r.rewriteSwitch(body, inLoop)}
		default:
			return &ast.LabeledStatement{BaseNode: v.BaseNode, Label: v.Label, Body: r.rewriteStmt(body, inLoop, inSwitch)}
		}
	case *ast.ForStatement:
		return &ast.ForStatement{BaseNode: v.BaseNode, Init: v.Init, Test: v.Test, Update: v.Update, Body: r.rewriteStmt(v.Body, true, inSwitch)}
	case *ast.WhileStatement:
		return &ast.WhileStatement{BaseNode: v.BaseNode, Test: v.Test, Body: r.rewriteStmt(v.Body, true, inSwitch)}
	case *ast.DoWhileStatement:
		return &ast.DoWhileStatement{BaseNode: v.BaseNode, Test: v.Test, Body: r.rewriteStmt(v.Body, true, inSwitch)}
	case *ast.SwitchStatement:
		return r.rewriteSwitch(v, inLoop)
	case *ast.TryStatement:
		out := &ast.TryStatement{BaseNode: v.BaseNode}
		if v.Block != nil {
			out.Block = &ast.BlockStatement{BaseNode: v.Block.BaseNode, Body: r.rewriteList(v.Block.Body, inLoop, inSwitch)}
		}
		if v.Handler != nil {
			out.Handler = &ast.CatchClause{BaseNode: v.Handler.BaseNode, Param: v.Handler.Param}
			if v.Handler.Body != nil {
				out.Handler.Body = &ast.BlockStatement{BaseNode: v.Handler.Body.BaseNode, Body: r.rewriteList(v.Handler.Body.Body, inLoop, inSwitch)}
			}
		}
		if v.Finalizer != nil {
			out.Finalizer = &ast.BlockStatement{BaseNode: v.Finalizer.BaseNode, Body: r.rewriteList(v.Finalizer.Body, inLoop, inSwitch)}
		}
		return out
	default:
		return s
	}
}

func (r *loopRewriter) rewriteSwitch(v *ast.SwitchStatement, inLoop bool) *ast.SwitchStatement {
	cases := make([]*ast.SwitchCase, len(v.Cases))
	for i, c := range v.Cases {
		cases[i] = &ast.SwitchCase{BaseNode: c.BaseNode, Test: c.Test, Consequent: r.rewriteList(c.Consequent, inLoop, true)}
	}
	return &ast.SwitchStatement{BaseNode: v.BaseNode, Discriminant: v.Discriminant, Cases: cases}
}
