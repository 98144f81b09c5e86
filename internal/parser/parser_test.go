package parser

import (
	"strconv"
	"testing"

	"github.com/cwbudde/exprjit/internal/lexer"
)

func parseSExpr(t *testing.T, src string) (string, bool) {
	t.Helper()
	toks, ok := lexer.New(src).LexAll()
	if !ok {
		t.Fatalf("lexer rejected %q (unbalanced parens)", src)
	}
	tree := New(toks).Parse()
	return tree.SExpr(tree.Root), tree.Errored
}

func TestPrecedenceLadder(t *testing.T) {
	cases := map[string]string{
		"x+2*3": "(+ x (* 2 3))",
		"x*2+3": "(+ (* x 2) 3)",
		"x^2^3": "(^ (^ x 2) 3)",
		"x/2*3": "(/ x (* 2 3))",
		"-x^2":  "(- (^ x 2))",
	}
	for src, want := range cases {
		got, errored := parseSExpr(t, src)
		if errored {
			t.Errorf("parse(%q): unexpected error node", src)
		}
		if got != want {
			t.Errorf("parse(%q) = %q, want %q", src, got, want)
		}
	}
}

func TestImplicitMultiplication(t *testing.T) {
	piLit := strconv.FormatFloat(constPi, 'g', -1, 64)
	cases := map[string]string{
		"5pi":    "(* 5 " + piLit + ")",
		"5x":     "(* 5 x)",
		"2(x+1)": "(* 2 (+ x 1))",
		"(x)(x)": "(* x x)",
	}
	for src, want := range cases {
		got, errored := parseSExpr(t, src)
		if errored {
			t.Errorf("parse(%q): unexpected error node", src)
		}
		if got != want {
			t.Errorf("parse(%q) = %q, want %q", src, got, want)
		}
	}
}

func TestImplicitMultiplicationBindsTighterThanMultDivButNotPow(t *testing.T) {
	// "2x^3" must be "2*(x^3)", not "(2*x)^3": implicit multiplication's
	// right operand is parsed at precMult, so it absorbs '^' (precPower)
	// but stops before a following explicit '*' or '/'.
	got, errored := parseSExpr(t, "2x^3")
	if errored {
		t.Fatal("unexpected error node")
	}
	want := "(* 2 (^ x 3))"
	if got != want {
		t.Fatalf("parse(2x^3) = %q, want %q", got, want)
	}
}

func TestUnknownIdentifierProducesError(t *testing.T) {
	_, errored := parseSExpr(t, "foo")
	if !errored {
		t.Fatal("expected unknown identifier to set the error flag")
	}
}

func TestFunctionCallMissingOpenParenProducesError(t *testing.T) {
	_, errored := parseSExpr(t, "sin")
	if !errored {
		t.Fatal("expected bare function name without '(' to error")
	}
}

func TestFunctionCall(t *testing.T) {
	got, errored := parseSExpr(t, "sin(x)")
	if errored {
		t.Fatal("unexpected error node")
	}
	if want := "(sin x)"; got != want {
		t.Fatalf("parse(sin(x)) = %q, want %q", got, want)
	}
}

func TestUnbalancedParenRejectedBeforeParsing(t *testing.T) {
	toks, ok := lexer.New("(x+1").LexAll()
	if ok {
		t.Fatal("lexer should reject the unbalanced input before it reaches the parser")
	}
	_ = toks
}

func TestParenGroupingOverridesPrecedence(t *testing.T) {
	got, errored := parseSExpr(t, "(x+2)*3")
	if errored {
		t.Fatal("unexpected error node")
	}
	if want := "(* (+ x 2) 3)"; got != want {
		t.Fatalf("parse((x+2)*3) = %q, want %q", got, want)
	}
}

func TestEveryTokenEventuallyConsumed(t *testing.T) {
	toks, ok := lexer.New("a+b*c-d/e^f").LexAll()
	if !ok {
		t.Fatal("lexer rejected balanced input")
	}
	p := New(toks)
	p.Parse()
	if p.pos != len(toks)-1 {
		t.Fatalf("parser stalled at token %d of %d before EOF", p.pos, len(toks)-1)
	}
}
