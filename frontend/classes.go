package frontend

import "github.com/jsobf/jsobf/ast"

func (p *Parser) parseClassDeclaration() ast.Statement {
	pos := p.pos()
	p.expect(CLASS)
	name := p.parseIdentifier()
	var super ast.Expression
	if p.accept(EXTENDS) {
		super = p.parseCallMemberExpression(p.parsePrimaryExpression())
	}
	body := p.parseClassBody()
	return &ast.ClassDeclaration{BaseNode: ast.BaseNode{NodePos: pos}, ID: name, SuperClass: super, Body: body}
}

func (p *Parser) parseClassExpression() ast.Expression {
	pos := p.pos()
	p.expect(CLASS)
	var name *ast.Identifier
	if p.at(IDENT) {
		name = p.parseIdentifier()
	}
	var super ast.Expression
	if p.accept(EXTENDS) {
		super = p.parseCallMemberExpression(p.parsePrimaryExpression())
	}
	body := p.parseClassBody()
	return &ast.ClassExpression{BaseNode: ast.BaseNode{NodePos: pos}, ID: name, SuperClass: super, Body: body}
}

func (p *Parser) parseClassBody() *ast.ClassBody {
	pos := p.pos()
	p.expect(LBRACE)
	var members []*ast.MethodDefinition
	for !p.at(RBRACE) && !p.at(EOF) {
		if p.accept(SEMICOLON) {
			continue
		}
		members = append(members, p.parseMethodDefinition())
	}
	p.expect(RBRACE)
	return &ast.ClassBody{BaseNode: ast.BaseNode{NodePos: pos}, Body: members}
}

func (p *Parser) parseMethodDefinition() *ast.MethodDefinition {
	pos := p.pos()

	static := false
	if p.at(STATIC) && !p.peekAt(LPAREN) && !p.peekAt(ASSIGN) {
		static = true
		p.advance()
	}

	async := false
	if p.at(ASYNC) && !p.peekAt(LPAREN) && !p.peekAt(ASSIGN) {
		async = true
		p.advance()
	}

	generator := p.accept(STAR)

	kind := "method"
	if (p.at(GET) || p.at(SET)) && !p.peekAt(LPAREN) && !p.peekAt(ASSIGN) {
		if p.at(GET) {
			kind = "get"
		} else {
			kind = "set"
		}
		p.advance()
	}

	computed := false
	var key ast.Expression
	if p.accept(LBRACKET) {
		computed = true
		key = p.parseAssignmentExpression()
		p.expect(RBRACKET)
	} else {
		key = p.parsePropertyKey()
	}

	if ident, ok := key.(*ast.Identifier); ok && ident.Name == "constructor" && kind == "method" && !static {
		kind = "constructor"
	}

	params := p.parseParamList()
	body := p.parseBlockStatement()
	fn := &ast.FunctionExpression{BaseNode: ast.BaseNode{NodePos: pos}, Params: params, Body: body, Generator: generator, Async: async}

	return &ast.MethodDefinition{
		BaseNode: ast.BaseNode{NodePos: pos}, Key: key, Value: fn, Kind: kind, Static: static, Computed: computed,
	}
}
