package lexer

import (
	"strings"
	"testing"

	"github.com/cwbudde/exprjit/internal/token"
)

func TestLexemesReconstructCleanedInput(t *testing.T) {
	cases := []string{
		"2*x+1",
		"  sin( x )  + cos(x)",
		"5pi",
		"x^2^3",
		"a/b*c",
	}
	for _, src := range cases {
		l := New(src)
		tokens, ok := l.LexAll()
		if !ok {
			t.Fatalf("%q: unexpected lex failure", src)
		}
		var sb strings.Builder
		for _, tok := range tokens {
			if tok.Kind == token.EOF {
				continue
			}
			sb.WriteString(tok.Lexeme)
		}
		if got, want := sb.String(), l.Cleaned(); got != want {
			t.Errorf("%q: concatenated lexemes = %q, want cleaned buffer %q", src, got, want)
		}
	}
}

func TestLexAllParenBalance(t *testing.T) {
	cases := []struct {
		src string
		ok  bool
	}{
		{"(1+2)", true},
		{"((1+2))", true},
		{"(1+2", false},
		{"1+2)", false},
		{")(", true},
		{"1+2", true},
	}
	for _, c := range cases {
		_, ok := New(c.src).LexAll()
		if ok != c.ok {
			t.Errorf("LexAll(%q) ok = %v, want %v", c.src, ok, c.ok)
		}
	}
}

func TestSingleCharacterTokens(t *testing.T) {
	l := New("(+-*/^),")
	want := []token.Type{
		token.LParen, token.Plus, token.Minus, token.Star,
		token.Slash, token.Caret, token.RParen, token.Comma, token.EOF,
	}
	for i, w := range want {
		tok := l.NextToken()
		if tok.Kind != w {
			t.Fatalf("token %d: got %s, want %s", i, tok.Kind, w)
		}
	}
}

func TestNumberTrailingDot(t *testing.T) {
	l := New("5.")
	tok := l.NextToken()
	if tok.Kind != token.Number || tok.Lexeme != "5." {
		t.Fatalf("got %v, want Number(\"5.\")", tok)
	}
}

func TestIllegalBytesProduceErrorTokens(t *testing.T) {
	for _, c := range []string{"@", "#", "$", "%", "!", "?", "_"} {
		tok := New(c).NextToken()
		if tok.Kind != token.Error {
			t.Errorf("%q: got %s, want Error", c, tok.Kind)
		}
	}
}

func TestIdentGreedy(t *testing.T) {
	tok := New("sin2").NextToken()
	if tok.Kind != token.Ident || tok.Lexeme != "sin2" {
		t.Fatalf("got %v, want Ident(\"sin2\")", tok)
	}
}

func TestWhitespaceInsignificant(t *testing.T) {
	a, _ := New("2*x+1").LexAll()
	b, _ := New(" 2 * x\t+\n1 ").LexAll()
	if len(a) != len(b) {
		t.Fatalf("token count differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Lexeme != b[i].Lexeme {
			t.Fatalf("token %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}
