package ast

// WhileStatement represents `while (test) body`.
type WhileStatement struct {
	BaseNode
	Test Expression
	Body Statement
}

func (w *WhileStatement) statementNode() {}
func (w *WhileStatement) String() string { return "while (" + w.Test.String() + ") " + w.Body.String() }

// DoWhileStatement represents `do body while (test);`. CFF treats this as
// the post-test loop form (no initial goto to the test chunk).
type DoWhileStatement struct {
	BaseNode
	Body Statement
	Test Expression
}

func (d *DoWhileStatement) statementNode() {}
func (d *DoWhileStatement) String() string {
	return "do " + d.Body.String() + " while (" + d.Test.String() + ");"
}

// ForStatement represents a C-style `for (init; test; update) body`. Any of
// Init/Test/Update may be nil.
type ForStatement struct {
	BaseNode
	Init   Node // VariableDeclaration or Expression, or nil
	Test   Expression
	Update Expression
	Body   Statement
}

func (f *ForStatement) statementNode() {}
func (f *ForStatement) String() string {
	init := ""
	if f.Init != nil {
		init = f.Init.String()
	}
	test := ""
	if f.Test != nil {
		test = f.Test.String()
	}
	update := ""
	if f.Update != nil {
		update = f.Update.String()
	}
	return "for (" + init + "; " + test + "; " + update + ") " + f.Body.String()
}

// SwitchCase is one `case test:`/`default:` arm of a SwitchStatement. Test
// is nil for the default arm; CFF's labeled-switch eligibility (spec.md
// §4.E) requires every case to have a non-nil Test, i.e. no default arm.
type SwitchCase struct {
	BaseNode
	Test       Expression
	Consequent []Statement
}

func (c *SwitchCase) String() string {
	label := "default:"
	if c.Test != nil {
		label = "case " + c.Test.String() + ":"
	}
	return label + " " + joinStmts(c.Consequent, " ")
}

// SwitchStatement represents `switch (discriminant) { cases... }`.
type SwitchStatement struct {
	BaseNode
	Discriminant Expression
	Cases        []*SwitchCase
}

func (s *SwitchStatement) statementNode() {}
func (s *SwitchStatement) String() string {
	out := "switch (" + s.Discriminant.String() + ") {\n"
	for _, c := range s.Cases {
		out += c.String() + "\n"
	}
	return out + "}"
}

// GotoStatement is CFF's internal synthetic IR node. It is never valid
// outside the chunk form CFF builds for a single block; CFF's transform
// must have rewritten every GotoStatement into a dispatcher transition
// before it returns (see the invariant in SPEC_FULL.md/spec.md §3).
type GotoStatement struct {
	BaseNode
	Label string
}

func (g *GotoStatement) statementNode() {}
func (g *GotoStatement) String() string { return "goto " + g.Label + ";" }
