package frontend

import "testing"

func TestLexerPunctuatorsAndKeywords(t *testing.T) {
	l := New(`var x = (a + b) * 2; // comment
/* block */ return x === 1 ? "y" : 'n';`)

	var got []TokenType
	for {
		tok := l.Next()
		got = append(got, tok.Type)
		if tok.Type == EOF {
			break
		}
	}

	want := []TokenType{
		VAR, IDENT, ASSIGN, LPAREN, IDENT, PLUS, IDENT, RPAREN, STAR, NUMBER, SEMICOLON,
		RETURN, IDENT, EQEQEQ, NUMBER, QUESTION, STRING, COLON, STRING, SEMICOLON, EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestLexerDistinguishesDivisionFromRegexp(t *testing.T) {
	l := New(`a / b; var r = /foo/g;`)
	tok := func() Token { return l.Next() }

	if tt := tok().Type; tt != IDENT {
		t.Fatalf("expected IDENT, got %s", tt)
	}
	if tt := tok().Type; tt != SLASH {
		t.Fatalf("expected division SLASH, got %s", tt)
	}
	for {
		tt := tok()
		if tt.Type == ASSIGN {
			break
		}
	}
	regexTok := tok()
	if regexTok.Type != REGEXP {
		t.Fatalf("expected REGEXP, got %s (%q)", regexTok.Type, regexTok.Literal)
	}
	if regexTok.Literal != "/foo/g" {
		t.Fatalf("expected literal /foo/g, got %q", regexTok.Literal)
	}
}

func TestLexerNewlineTrackingForASI(t *testing.T) {
	l := New("a\nb")
	first := l.Next()
	if first.NewlineBefore {
		t.Fatalf("first token should not report a preceding newline")
	}
	second := l.Next()
	if !second.NewlineBefore {
		t.Fatalf("expected second token to report a preceding newline")
	}
}

func TestLexerStringEscapes(t *testing.T) {
	l := New(`"a\nb\tc"`)
	tok := l.Next()
	if tok.Type != STRING {
		t.Fatalf("expected STRING, got %s", tok.Type)
	}
	if tok.Literal != "a\nb\tc" {
		t.Fatalf("expected decoded escapes, got %q", tok.Literal)
	}
}
