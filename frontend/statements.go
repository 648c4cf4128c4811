package frontend

import "github.com/jsobf/jsobf/ast"

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case SEMICOLON:
		pos := p.pos()
		p.advance()
		return &ast.EmptyStatement{BaseNode: ast.BaseNode{NodePos: pos}}
	case LBRACE:
		return p.parseBlockStatement()
	case VAR, LET, CONST:
		decl := p.parseVariableDeclaration()
		p.consumeSemicolon()
		return decl
	case FUNCTION:
		return p.parseFunctionDeclaration()
	case CLASS:
		return p.parseClassDeclaration()
	case IF:
		return p.parseIfStatement()
	case FOR:
		return p.parseForStatement()
	case WHILE:
		return p.parseWhileStatement()
	case DO:
		return p.parseDoWhileStatement()
	case RETURN:
		return p.parseReturnStatement()
	case BREAK:
		return p.parseBreakStatement()
	case CONTINUE:
		return p.parseContinueStatement()
	case THROW:
		return p.parseThrowStatement()
	case TRY:
		return p.parseTryStatement()
	case SWITCH:
		return p.parseSwitchStatement()
	case IDENT:
		if p.peekAt(COLON) {
			return p.parseLabeledStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	pos := p.pos()
	p.expect(LBRACE)
	var body []ast.Statement
	for !p.at(RBRACE) && !p.at(EOF) {
		body = append(body, p.parseStatement())
	}
	p.expect(RBRACE)
	return &ast.BlockStatement{BaseNode: ast.BaseNode{NodePos: pos}, Body: body}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	pos := p.pos()
	expr := p.parseExpression()
	p.consumeSemicolon()
	return &ast.ExpressionStatement{BaseNode: ast.BaseNode{NodePos: pos}, Expr: expr}
}

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	pos := p.pos()
	kind := p.cur.Literal
	p.advance() // var/let/const

	decl := &ast.VariableDeclaration{BaseNode: ast.BaseNode{NodePos: pos}, Kind: kind}
	for {
		declPos := p.pos()
		target := p.parseBindingTarget()
		var init ast.Expression
		if p.accept(ASSIGN) {
			init = p.parseAssignmentExpression()
		}
		decl.Declarations = append(decl.Declarations, &ast.VariableDeclarator{
			BaseNode: ast.BaseNode{NodePos: declPos},
			ID:       target,
			Init:     init,
		})
		if !p.accept(COMMA) {
			break
		}
	}
	return decl
}

// parseBindingTarget parses an Identifier, ArrayPattern or ObjectPattern
// binding target, as used by variable declarators, parameters and catch
// clauses.
func (p *Parser) parseBindingTarget() ast.Pattern {
	switch p.cur.Type {
	case LBRACKET:
		return p.parseArrayPattern()
	case LBRACE:
		return p.parseObjectPattern()
	default:
		return p.parseIdentifier()
	}
}

// contextualKeywords are lexed as their own TokenType for grammar
// disambiguation (`get`/`set` in object and class bodies, `of` in for
// loops, `static`/`async` as modifiers) but remain valid plain identifier
// names everywhere else, the way `async` is still a legal variable name in
// real JavaScript.
var contextualKeywords = map[TokenType]bool{
	GET: true, SET: true, OF: true, STATIC: true, ASYNC: true,
}

func (p *Parser) parseIdentifier() *ast.Identifier {
	pos := p.pos()
	if !p.at(IDENT) && !contextualKeywords[p.cur.Type] {
		p.expect(IDENT)
		return &ast.Identifier{BaseNode: ast.BaseNode{NodePos: pos}, Name: "<error>"}
	}
	name := p.cur.Literal
	p.advance()
	return &ast.Identifier{BaseNode: ast.BaseNode{NodePos: pos}, Name: name}
}

func (p *Parser) parseArrayPattern() *ast.ArrayPattern {
	pos := p.pos()
	p.expect(LBRACKET)
	var elements []ast.Pattern
	for !p.at(RBRACKET) && !p.at(EOF) {
		if p.accept(COMMA) {
			elements = append(elements, nil)
			continue
		}
		if p.accept(DOTDOTDOT) {
			elements = append(elements, &ast.RestElement{Argument: p.parseBindingTarget()})
		} else {
			elements = append(elements, p.parseBindingTarget())
		}
		if !p.at(RBRACKET) {
			p.accept(COMMA)
		}
	}
	p.expect(RBRACKET)
	return &ast.ArrayPattern{BaseNode: ast.BaseNode{NodePos: pos}, Elements: elements}
}

func (p *Parser) parseObjectPattern() *ast.ObjectPattern {
	pos := p.pos()
	p.expect(LBRACE)
	var props []*ast.Property
	for !p.at(RBRACE) && !p.at(EOF) {
		propPos := p.pos()
		computed := false
		var key ast.Expression
		if p.accept(LBRACKET) {
			computed = true
			key = p.parseAssignmentExpression()
			p.expect(RBRACKET)
		} else {
			key = p.parseIdentifier()
		}
		if p.accept(COLON) {
			value := p.parseBindingTarget().(ast.Expression)
			props = append(props, &ast.Property{
				BaseNode: ast.BaseNode{NodePos: propPos}, Key: key, Value: value,
				Computed: computed, Kind: "init",
			})
		} else {
			props = append(props, &ast.Property{
				BaseNode: ast.BaseNode{NodePos: propPos}, Key: key, Value: key,
				Shorthand: true, Kind: "init",
			})
		}
		if !p.at(RBRACE) {
			p.accept(COMMA)
		}
	}
	p.expect(RBRACE)
	return &ast.ObjectPattern{BaseNode: ast.BaseNode{NodePos: pos}, Properties: props}
}

func (p *Parser) parseIfStatement() ast.Statement {
	pos := p.pos()
	p.expect(IF)
	p.expect(LPAREN)
	test := p.parseExpression()
	p.expect(RPAREN)
	consequent := p.parseStatement()
	var alternate ast.Statement
	if p.accept(ELSE) {
		alternate = p.parseStatement()
	}
	return &ast.IfStatement{BaseNode: ast.BaseNode{NodePos: pos}, Test: test, Consequent: consequent, Alternate: alternate}
}

func (p *Parser) parseWhileStatement() ast.Statement {
	pos := p.pos()
	p.expect(WHILE)
	p.expect(LPAREN)
	test := p.parseExpression()
	p.expect(RPAREN)
	body := p.parseStatement()
	return &ast.WhileStatement{BaseNode: ast.BaseNode{NodePos: pos}, Test: test, Body: body}
}

func (p *Parser) parseDoWhileStatement() ast.Statement {
	pos := p.pos()
	p.expect(DO)
	body := p.parseStatement()
	p.expect(WHILE)
	p.expect(LPAREN)
	test := p.parseExpression()
	p.expect(RPAREN)
	p.consumeSemicolon()
	return &ast.DoWhileStatement{BaseNode: ast.BaseNode{NodePos: pos}, Body: body, Test: test}
}

// parseForStatement only produces the classic C-style for loop; this AST has
// no for-in/for-of node, so those forms are rejected as a syntax error
// rather than silently misparsed.
func (p *Parser) parseForStatement() ast.Statement {
	pos := p.pos()
	p.expect(FOR)
	p.expect(LPAREN)

	var init ast.Node
	switch {
	case p.at(SEMICOLON):
		// no init
	case p.at(VAR) || p.at(LET) || p.at(CONST):
		init = p.parseVariableDeclaration()
	default:
		init = p.parseExpression()
	}

	if p.at(IN) || p.at(OF) {
		p.errorf("for-in/for-of loops are not supported")
		for !p.at(RPAREN) && !p.at(EOF) {
			p.advance()
		}
		p.expect(RPAREN)
		return &ast.ForStatement{BaseNode: ast.BaseNode{NodePos: pos}, Body: p.parseStatement()}
	}

	p.expect(SEMICOLON)
	var test ast.Expression
	if !p.at(SEMICOLON) {
		test = p.parseExpression()
	}
	p.expect(SEMICOLON)
	var update ast.Expression
	if !p.at(RPAREN) {
		update = p.parseExpression()
	}
	p.expect(RPAREN)
	body := p.parseStatement()

	return &ast.ForStatement{BaseNode: ast.BaseNode{NodePos: pos}, Init: init, Test: test, Update: update, Body: body}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	pos := p.pos()
	p.expect(RETURN)
	var arg ast.Expression
	if !p.at(SEMICOLON) && !p.at(RBRACE) && !p.at(EOF) && !p.cur.NewlineBefore {
		arg = p.parseExpression()
	}
	p.consumeSemicolon()
	return &ast.ReturnStatement{BaseNode: ast.BaseNode{NodePos: pos}, Argument: arg}
}

func (p *Parser) parseBreakStatement() ast.Statement {
	pos := p.pos()
	p.expect(BREAK)
	var label *ast.Identifier
	if p.at(IDENT) && !p.cur.NewlineBefore {
		label = p.parseIdentifier()
	}
	p.consumeSemicolon()
	return &ast.BreakStatement{BaseNode: ast.BaseNode{NodePos: pos}, Label: label}
}

func (p *Parser) parseContinueStatement() ast.Statement {
	pos := p.pos()
	p.expect(CONTINUE)
	var label *ast.Identifier
	if p.at(IDENT) && !p.cur.NewlineBefore {
		label = p.parseIdentifier()
	}
	p.consumeSemicolon()
	return &ast.ContinueStatement{BaseNode: ast.BaseNode{NodePos: pos}, Label: label}
}

func (p *Parser) parseThrowStatement() ast.Statement {
	pos := p.pos()
	p.expect(THROW)
	arg := p.parseExpression()
	p.consumeSemicolon()
	return &ast.ThrowStatement{BaseNode: ast.BaseNode{NodePos: pos}, Argument: arg}
}

func (p *Parser) parseTryStatement() ast.Statement {
	pos := p.pos()
	p.expect(TRY)
	block := p.parseBlockStatement()

	var handler *ast.CatchClause
	if p.at(CATCH) {
		catchPos := p.pos()
		p.advance()
		var param *ast.Identifier
		if p.accept(LPAREN) {
			param = p.parseIdentifier()
			p.expect(RPAREN)
		}
		handler = &ast.CatchClause{BaseNode: ast.BaseNode{NodePos: catchPos}, Param: param, Body: p.parseBlockStatement()}
	}

	var finalizer *ast.BlockStatement
	if p.accept(FINALLY) {
		finalizer = p.parseBlockStatement()
	}

	if handler == nil && finalizer == nil {
		p.errorf("try statement requires a catch or finally block")
	}

	return &ast.TryStatement{BaseNode: ast.BaseNode{NodePos: pos}, Block: block, Handler: handler, Finalizer: finalizer}
}

func (p *Parser) parseSwitchStatement() ast.Statement {
	pos := p.pos()
	p.expect(SWITCH)
	p.expect(LPAREN)
	discriminant := p.parseExpression()
	p.expect(RPAREN)
	p.expect(LBRACE)

	var cases []*ast.SwitchCase
	for !p.at(RBRACE) && !p.at(EOF) {
		casePos := p.pos()
		var test ast.Expression
		if p.accept(CASE) {
			test = p.parseExpression()
		} else {
			p.expect(DEFAULT)
		}
		p.expect(COLON)
		var consequent []ast.Statement
		for !p.at(CASE) && !p.at(DEFAULT) && !p.at(RBRACE) && !p.at(EOF) {
			consequent = append(consequent, p.parseStatement())
		}
		cases = append(cases, &ast.SwitchCase{BaseNode: ast.BaseNode{NodePos: casePos}, Test: test, Consequent: consequent})
	}
	p.expect(RBRACE)

	return &ast.SwitchStatement{BaseNode: ast.BaseNode{NodePos: pos}, Discriminant: discriminant, Cases: cases}
}

func (p *Parser) parseLabeledStatement() ast.Statement {
	pos := p.pos()
	label := p.parseIdentifier()
	p.expect(COLON)
	body := p.parseStatement()
	return &ast.LabeledStatement{BaseNode: ast.BaseNode{NodePos: pos}, Label: label, Body: body}
}
