package frontend

import (
	"fmt"

	"github.com/jsobf/jsobf/ast"
)

// ParseError is a single syntax error encountered while parsing.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Parser is a recursive-descent parser producing an *ast.Program from a
// token stream. It follows the teacher's cursor-based parser shape (current
// token + one token of lookahead, an `expect`/`accept` pair of helpers, and
// per-construct methods split across files by grammar concern) rather than
// building a full parser-combinator or generated-table parser.
type Parser struct {
	lexer  *Lexer
	cur    Token
	peek   Token
	errors []*ParseError
}

// NewParser constructs a Parser over source text.
func NewParser(source string) *Parser {
	p := &Parser{lexer: New(source)}
	p.advance()
	p.advance()
	return p
}

// Parse parses a complete program, returning any syntax errors encountered.
// It reports each syntax error it can recover from and keeps going, so
// callers can see all problems in a file at once instead of only the first.
func Parse(source string) (*ast.Program, []*ParseError) {
	p := NewParser(source)
	prog := p.parseProgram()
	return prog, p.errors
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lexer.Next()
}

func (p *Parser) at(tt TokenType) bool     { return p.cur.Type == tt }
func (p *Parser) peekAt(tt TokenType) bool { return p.peek.Type == tt }

func (p *Parser) pos() ast.Position {
	return ast.Position{Line: p.cur.Line, Column: p.cur.Column}
}

// expect advances past the current token if it matches tt, else records a
// syntax error and advances anyway so parsing can continue.
func (p *Parser) expect(tt TokenType) Token {
	tok := p.cur
	if !p.at(tt) {
		p.errorf("expected %s, got %s (%q)", tt, p.cur.Type, p.cur.Literal)
	}
	p.advance()
	return tok
}

// accept consumes the current token if it matches tt and reports whether it
// did.
func (p *Parser) accept(tt TokenType) bool {
	if p.at(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, &ParseError{
		Message: fmt.Sprintf(format, args...),
		Line:    p.cur.Line,
		Column:  p.cur.Column,
	})
}

// consumeSemicolon implements the (simplified) automatic semicolon insertion
// rule: an explicit `;` is always accepted; otherwise a statement boundary is
// allowed if the next token is preceded by a newline, is `}`, or is EOF.
func (p *Parser) consumeSemicolon() {
	if p.accept(SEMICOLON) {
		return
	}
	if p.at(RBRACE) || p.at(EOF) || p.cur.NewlineBefore {
		return
	}
	p.errorf("expected ';', got %s (%q)", p.cur.Type, p.cur.Literal)
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.at(EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Body = append(prog.Body, stmt)
		}
	}
	return prog
}
