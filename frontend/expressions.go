package frontend

import (
	"strconv"
	"strings"

	"github.com/jsobf/jsobf/ast"
)

// parserSnapshot captures enough state to backtrack a tentative parse, used
// for the arrow-function lookahead (`(a, b) => ...` vs a parenthesized
// expression, or a call's argument list).
type parserSnapshot struct {
	lexer  Lexer
	cur    Token
	peek   Token
	errLen int
}

func (p *Parser) snapshot() parserSnapshot {
	return parserSnapshot{lexer: *p.lexer, cur: p.cur, peek: p.peek, errLen: len(p.errors)}
}

func (p *Parser) restore(s parserSnapshot) {
	*p.lexer = s.lexer
	p.cur = s.cur
	p.peek = s.peek
	p.errors = p.errors[:s.errLen]
}

// parseExpression parses a full expression, including top-level comma
// sequences.
func (p *Parser) parseExpression() ast.Expression {
	pos := p.pos()
	expr := p.parseAssignmentExpression()
	if !p.at(COMMA) {
		return expr
	}
	exprs := []ast.Expression{expr}
	for p.accept(COMMA) {
		exprs = append(exprs, p.parseAssignmentExpression())
	}
	return &ast.SequenceExpression{BaseNode: ast.BaseNode{NodePos: pos}, Expressions: exprs}
}

var assignOps = map[TokenType]string{
	ASSIGN: "=", PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", STAR_ASSIGN: "*=",
	SLASH_ASSIGN: "/=", PERCENT_ASSIGN: "%=", STARSTAR_ASSIGN: "**=",
	AND_ASSIGN: "&&=", OR_ASSIGN: "||=", NULLISH_ASSIGN: "??=",
	BITAND_ASSIGN: "&=", BITOR_ASSIGN: "|=", BITXOR_ASSIGN: "^=",
	SHL_ASSIGN: "<<=", SHR_ASSIGN: ">>=",
}

// parseAssignmentExpression handles arrow-function detection (since an arrow
// can only appear where an assignment expression is expected) before falling
// through to the conditional-expression precedence chain, then checks for a
// trailing assignment operator.
func (p *Parser) parseAssignmentExpression() ast.Expression {
	if arrow, ok := p.tryParseArrow(); ok {
		return arrow
	}

	pos := p.pos()
	left := p.parseConditionalExpression()

	if op, ok := assignOps[p.cur.Type]; ok {
		p.advance()
		value := p.parseAssignmentExpression()
		return &ast.AssignmentExpression{BaseNode: ast.BaseNode{NodePos: pos}, Operator: op, Target: left, Value: value}
	}
	return left
}

// tryParseArrow attempts the three arrow-function shapes: `x => body`,
// `(a, b) => body`, and their `async` variants. It reports ok=false and
// leaves the parser untouched if the lookahead doesn't pan out.
func (p *Parser) tryParseArrow() (ast.Expression, bool) {
	async := false
	startSnap := p.snapshot()
	pos := p.pos()

	if p.at(ASYNC) && !p.peek.NewlineBefore && (p.peekAt(LPAREN) || p.peekAt(IDENT)) {
		async = true
		p.advance()
	}

	switch {
	case p.at(IDENT) && p.peekAt(ARROW):
		param := p.parseIdentifier()
		return p.parseArrowFunctionFromParams(pos, []ast.Pattern{param}, async), true

	case p.at(LPAREN):
		snap := p.snapshot()
		errBefore := len(p.errors)
		params := p.parseParamList()
		if len(p.errors) > errBefore || !p.at(ARROW) {
			p.restore(snap)
			if async {
				p.restore(startSnap)
			}
			return nil, false
		}
		return p.parseArrowFunctionFromParams(pos, params, async), true
	}

	if async {
		p.restore(startSnap)
	}
	return nil, false
}

func (p *Parser) parseConditionalExpression() ast.Expression {
	pos := p.pos()
	test := p.parseNullishExpression()
	if !p.accept(QUESTION) {
		return test
	}
	consequent := p.parseAssignmentExpression()
	p.expect(COLON)
	alternate := p.parseAssignmentExpression()
	return &ast.ConditionalExpression{BaseNode: ast.BaseNode{NodePos: pos}, Test: test, Consequent: consequent, Alternate: alternate}
}

func (p *Parser) parseNullishExpression() ast.Expression {
	left := p.parseLogicalOr()
	for p.at(NULLISH) {
		pos := p.pos()
		p.advance()
		right := p.parseLogicalOr()
		left = &ast.LogicalExpression{BaseNode: ast.BaseNode{NodePos: pos}, Operator: "??", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseLogicalOr() ast.Expression {
	left := p.parseLogicalAnd()
	for p.at(OR) {
		pos := p.pos()
		p.advance()
		right := p.parseLogicalAnd()
		left = &ast.LogicalExpression{BaseNode: ast.BaseNode{NodePos: pos}, Operator: "||", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseLogicalAnd() ast.Expression {
	left := p.parseBitwiseOr()
	for p.at(AND) {
		pos := p.pos()
		p.advance()
		right := p.parseBitwiseOr()
		left = &ast.LogicalExpression{BaseNode: ast.BaseNode{NodePos: pos}, Operator: "&&", Left: left, Right: right}
	}
	return left
}

// binaryLevel parses one level of left-associative binary operators given
// the next-tighter-precedence parse function and a token->operator table.
func (p *Parser) binaryLevel(next func() ast.Expression, ops map[TokenType]string) ast.Expression {
	left := next()
	for {
		op, ok := ops[p.cur.Type]
		if !ok {
			return left
		}
		pos := p.pos()
		p.advance()
		right := next()
		left = &ast.BinaryExpression{BaseNode: ast.BaseNode{NodePos: pos}, Operator: op, Left: left, Right: right}
	}
}

func (p *Parser) parseBitwiseOr() ast.Expression {
	return p.binaryLevel(p.parseBitwiseXor, map[TokenType]string{BITOR: "|"})
}

func (p *Parser) parseBitwiseXor() ast.Expression {
	return p.binaryLevel(p.parseBitwiseAnd, map[TokenType]string{BITXOR: "^"})
}

func (p *Parser) parseBitwiseAnd() ast.Expression {
	return p.binaryLevel(p.parseEquality, map[TokenType]string{BITAND: "&"})
}

var equalityOps = map[TokenType]string{EQ: "==", NOTEQ: "!=", EQEQEQ: "===", NOTEQEQ: "!=="}

func (p *Parser) parseEquality() ast.Expression {
	return p.binaryLevel(p.parseRelational, equalityOps)
}

var relationalOps = map[TokenType]string{LT: "<", GT: ">", LTE: "<=", GTE: ">=", INSTANCEOF: "instanceof", IN: "in"}

func (p *Parser) parseRelational() ast.Expression {
	return p.binaryLevel(p.parseShift, relationalOps)
}

var shiftOps = map[TokenType]string{SHL: "<<", SHR: ">>", USHR: ">>>"}

func (p *Parser) parseShift() ast.Expression {
	return p.binaryLevel(p.parseAdditive, shiftOps)
}

var additiveOps = map[TokenType]string{PLUS: "+", MINUS: "-"}

func (p *Parser) parseAdditive() ast.Expression {
	return p.binaryLevel(p.parseMultiplicative, additiveOps)
}

var multiplicativeOps = map[TokenType]string{STAR: "*", SLASH: "/", PERCENT: "%"}

func (p *Parser) parseMultiplicative() ast.Expression {
	return p.binaryLevel(p.parseExponent, multiplicativeOps)
}

// parseExponent is right-associative, per `**`'s grammar.
func (p *Parser) parseExponent() ast.Expression {
	left := p.parseUnary()
	if !p.at(STARSTAR) {
		return left
	}
	pos := p.pos()
	p.advance()
	right := p.parseExponent()
	return &ast.BinaryExpression{BaseNode: ast.BaseNode{NodePos: pos}, Operator: "**", Left: left, Right: right}
}

var unaryOps = map[TokenType]string{
	NOT: "!", BITNOT: "~", PLUS: "+", MINUS: "-",
	TYPEOF: "typeof", VOID: "void", DELETE: "delete",
}

func (p *Parser) parseUnary() ast.Expression {
	if op, ok := unaryOps[p.cur.Type]; ok {
		pos := p.pos()
		p.advance()
		arg := p.parseUnary()
		return &ast.UnaryExpression{BaseNode: ast.BaseNode{NodePos: pos}, Operator: op, Argument: arg, Prefix: true}
	}
	if p.at(INC) || p.at(DEC) {
		op := "++"
		if p.at(DEC) {
			op = "--"
		}
		pos := p.pos()
		p.advance()
		arg := p.parseUnary()
		return &ast.UnaryExpression{BaseNode: ast.BaseNode{NodePos: pos}, Operator: op, Argument: arg, Prefix: true}
	}
	if p.at(AWAIT) {
		pos := p.pos()
		p.advance()
		arg := p.parseUnary()
		return &ast.UnaryExpression{BaseNode: ast.BaseNode{NodePos: pos}, Operator: "await", Argument: arg, Prefix: true}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parseCallMemberExpression(p.parsePrimaryExpression())
	if (p.at(INC) || p.at(DEC)) && !p.cur.NewlineBefore {
		op := "++"
		if p.at(DEC) {
			op = "--"
		}
		pos := p.pos()
		p.advance()
		return &ast.UnaryExpression{BaseNode: ast.BaseNode{NodePos: pos}, Operator: op, Argument: expr, Prefix: false}
	}
	return expr
}

// parseCallMemberExpression consumes any chain of `.prop`, `[expr]` and
// `(args)` suffixes following a primary expression or `new` target.
func (p *Parser) parseCallMemberExpression(expr ast.Expression) ast.Expression {
	for {
		switch {
		case p.at(DOT):
			pos := p.pos()
			p.advance()
			prop := p.parsePropertyName()
			expr = &ast.MemberExpression{BaseNode: ast.BaseNode{NodePos: pos}, Object: expr, Property: prop, Computed: false}
		case p.at(LBRACKET):
			pos := p.pos()
			p.advance()
			prop := p.parseExpression()
			p.expect(RBRACKET)
			expr = &ast.MemberExpression{BaseNode: ast.BaseNode{NodePos: pos}, Object: expr, Property: prop, Computed: true}
		case p.at(LPAREN):
			pos := p.pos()
			args := p.parseArguments()
			expr = &ast.CallExpression{BaseNode: ast.BaseNode{NodePos: pos}, Callee: expr, Arguments: args}
		default:
			return expr
		}
	}
}

func (p *Parser) parseArguments() []ast.Expression {
	p.expect(LPAREN)
	var args []ast.Expression
	for !p.at(RPAREN) && !p.at(EOF) {
		if p.accept(DOTDOTDOT) {
			args = append(args, &ast.SpreadElement{Argument: p.parseAssignmentExpression()})
		} else {
			args = append(args, p.parseAssignmentExpression())
		}
		if !p.at(RPAREN) {
			p.expect(COMMA)
		}
	}
	p.expect(RPAREN)
	return args
}

func (p *Parser) parsePrimaryExpression() ast.Expression {
	pos := p.pos()

	switch p.cur.Type {
	case NEW:
		p.advance()
		if p.at(DOT) {
			p.advance()
			prop := p.parseIdentifier()
			return &ast.MetaProperty{BaseNode: ast.BaseNode{NodePos: pos}, Meta: &ast.Identifier{Name: "new"}, Property: prop}
		}
		callee := p.parseCallMemberExpressionNoCall(p.parsePrimaryExpression())
		var args []ast.Expression
		if p.at(LPAREN) {
			args = p.parseArguments()
		}
		return p.parseCallMemberExpression(&ast.NewExpression{BaseNode: ast.BaseNode{NodePos: pos}, Callee: callee, Arguments: args})

	case THIS:
		p.advance()
		return &ast.ThisExpression{BaseNode: ast.BaseNode{NodePos: pos}}

	case SUPER:
		p.advance()
		return &ast.Super{BaseNode: ast.BaseNode{NodePos: pos}}

	case IDENT:
		return p.parseIdentifier()

	case NUMBER:
		return p.parseNumberLiteral()

	case STRING:
		lit := &ast.Literal{BaseNode: ast.BaseNode{NodePos: pos}, Kind: ast.LiteralString, Value: p.cur.Literal}
		p.advance()
		return lit

	case TEMPLATE:
		lit := &ast.Literal{BaseNode: ast.BaseNode{NodePos: pos}, Kind: ast.LiteralString, Value: stripTemplateDelims(p.cur.Literal), Raw: p.cur.Literal}
		p.advance()
		return lit

	case REGEXP:
		pattern, flags := splitRegexp(p.cur.Literal)
		lit := &ast.Literal{BaseNode: ast.BaseNode{NodePos: pos}, Kind: ast.LiteralRegExp, Pattern: pattern, Flags: flags}
		p.advance()
		return lit

	case TRUE:
		p.advance()
		return &ast.Literal{BaseNode: ast.BaseNode{NodePos: pos}, Kind: ast.LiteralBoolean, Value: true}

	case FALSE:
		p.advance()
		return &ast.Literal{BaseNode: ast.BaseNode{NodePos: pos}, Kind: ast.LiteralBoolean, Value: false}

	case NULL:
		p.advance()
		return &ast.Literal{BaseNode: ast.BaseNode{NodePos: pos}, Kind: ast.LiteralNull}

	case FUNCTION:
		return p.parseFunctionExpression(false)

	case CLASS:
		return p.parseClassExpression()

	case ASYNC:
		p.advance()
		return p.parseFunctionExpression(true)

	case LPAREN:
		p.advance()
		expr := p.parseExpression()
		p.expect(RPAREN)
		return expr

	case LBRACKET:
		return p.parseArrayExpression()

	case LBRACE:
		return p.parseObjectExpression()

	default:
		p.errorf("unexpected token %s (%q)", p.cur.Type, p.cur.Literal)
		p.advance()
		return &ast.Identifier{BaseNode: ast.BaseNode{NodePos: pos}, Name: "<error>"}
	}
}

// parseCallMemberExpressionNoCall consumes only `.prop`/`[expr]` suffixes,
// stopping before a `(` so `new Foo.Bar(args)` attaches the call to the
// NewExpression rather than to `Bar`.
func (p *Parser) parseCallMemberExpressionNoCall(expr ast.Expression) ast.Expression {
	for {
		switch {
		case p.at(DOT):
			pos := p.pos()
			p.advance()
			prop := p.parsePropertyName()
			expr = &ast.MemberExpression{BaseNode: ast.BaseNode{NodePos: pos}, Object: expr, Property: prop, Computed: false}
		case p.at(LBRACKET):
			pos := p.pos()
			p.advance()
			prop := p.parseExpression()
			p.expect(RBRACKET)
			expr = &ast.MemberExpression{BaseNode: ast.BaseNode{NodePos: pos}, Object: expr, Property: prop, Computed: true}
		default:
			return expr
		}
	}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	pos := p.pos()
	raw := p.cur.Literal
	p.advance()
	lit := &ast.Literal{BaseNode: ast.BaseNode{NodePos: pos}, Kind: ast.LiteralNumber, Raw: raw}
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		if v, err := strconv.ParseInt(raw[2:], 16, 64); err == nil {
			lit.Value = v
			return lit
		}
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		lit.Value = v
		return lit
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		lit.Value = v
	}
	return lit
}

func (p *Parser) parseArrayExpression() ast.Expression {
	pos := p.pos()
	p.expect(LBRACKET)
	var elements []ast.Expression
	for !p.at(RBRACKET) && !p.at(EOF) {
		if p.at(COMMA) {
			elements = append(elements, nil)
			p.advance()
			continue
		}
		if p.accept(DOTDOTDOT) {
			elements = append(elements, &ast.SpreadElement{Argument: p.parseAssignmentExpression()})
		} else {
			elements = append(elements, p.parseAssignmentExpression())
		}
		if !p.at(RBRACKET) {
			p.accept(COMMA)
		}
	}
	p.expect(RBRACKET)
	return &ast.ArrayExpression{BaseNode: ast.BaseNode{NodePos: pos}, Elements: elements}
}

func (p *Parser) parseObjectExpression() ast.Expression {
	pos := p.pos()
	p.expect(LBRACE)
	var props []*ast.Property
	for !p.at(RBRACE) && !p.at(EOF) {
		props = append(props, p.parseObjectProperty())
		if !p.at(RBRACE) {
			p.accept(COMMA)
		}
	}
	p.expect(RBRACE)
	return &ast.ObjectExpression{BaseNode: ast.BaseNode{NodePos: pos}, Properties: props}
}

func (p *Parser) parseObjectProperty() *ast.Property {
	pos := p.pos()

	if p.accept(DOTDOTDOT) {
		spread := &ast.SpreadElement{BaseNode: ast.BaseNode{NodePos: pos}, Argument: p.parseAssignmentExpression()}
		return &ast.Property{BaseNode: ast.BaseNode{NodePos: pos}, Key: spread, Value: spread, Shorthand: true, Kind: "spread"}
	}

	kind := "init"
	if (p.at(GET) || p.at(SET)) && !p.peekAt(COLON) && !p.peekAt(COMMA) && !p.peekAt(RBRACE) && !p.peekAt(LPAREN) {
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

	if p.at(LPAREN) {
		// Method shorthand: `foo(params) { body }`.
		params := p.parseParamList()
		body := p.parseBlockStatement()
		fn := &ast.FunctionExpression{BaseNode: ast.BaseNode{NodePos: pos}, Params: params, Body: body}
		return &ast.Property{BaseNode: ast.BaseNode{NodePos: pos}, Key: key, Value: fn, Computed: computed, Kind: kind}
	}

	if p.accept(COLON) {
		value := p.parseAssignmentExpression()
		return &ast.Property{BaseNode: ast.BaseNode{NodePos: pos}, Key: key, Value: value, Computed: computed, Kind: "init"}
	}

	// Shorthand `{ x }`.
	return &ast.Property{BaseNode: ast.BaseNode{NodePos: pos}, Key: key, Value: key, Shorthand: true, Kind: "init"}
}

func (p *Parser) parsePropertyKey() ast.Expression {
	pos := p.pos()
	switch p.cur.Type {
	case STRING:
		lit := &ast.Literal{BaseNode: ast.BaseNode{NodePos: pos}, Kind: ast.LiteralString, Value: p.cur.Literal}
		p.advance()
		return lit
	case NUMBER:
		return p.parseNumberLiteral()
	case IDENT:
		return p.parseIdentifier()
	default:
		// Contextual keywords (get, set, async, of, ...) are valid property
		// names; take the keyword's literal text as the identifier name.
		name := p.cur.Literal
		p.advance()
		return &ast.Identifier{BaseNode: ast.BaseNode{NodePos: pos}, Name: name}
	}
}

// parsePropertyName parses a member-access property name (`obj.name`),
// accepting keyword-shaped tokens too since JS allows reserved words as
// plain property names in this position (`req.delete`, `x.class`).
func (p *Parser) parsePropertyName() *ast.Identifier {
	pos := p.pos()
	if p.at(IDENT) {
		return p.parseIdentifier()
	}
	if p.cur.Type > literalEnd && p.cur.Type < keywordEnd {
		name := p.cur.Literal
		p.advance()
		return &ast.Identifier{BaseNode: ast.BaseNode{NodePos: pos}, Name: name}
	}
	return p.parseIdentifier()
}

func stripTemplateDelims(raw string) string {
	s := strings.TrimPrefix(raw, "`")
	s = strings.TrimSuffix(s, "`")
	return s
}

func splitRegexp(raw string) (pattern, flags string) {
	end := strings.LastIndex(raw, "/")
	if end <= 0 {
		return raw, ""
	}
	return raw[1:end], raw[end+1:]
}
