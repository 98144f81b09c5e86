package codegen

import (
	"math"
	"testing"

	"github.com/cwbudde/exprjit/internal/lexer"
	"github.com/cwbudde/exprjit/internal/parser"
)

func compile(t *testing.T, src string, opts ...Option) *Module {
	t.Helper()
	toks, ok := lexer.New(src).LexAll()
	if !ok {
		t.Fatalf("lexer rejected %q", src)
	}
	tree := parser.New(toks).Parse()
	if tree.Errored {
		t.Fatalf("parser rejected %q", src)
	}
	return Generate(tree, opts...)
}

func TestConstantSubtreeFoldsToSingleInstruction(t *testing.T) {
	m := compile(t, "2+3*4")
	if len(m.Instrs) != 1 || m.Instrs[0].Op != OpConst || m.Instrs[0].Const != 14 {
		t.Fatalf("expected a single folded OpConst(14), got %+v", m.Instrs)
	}
}

func TestVariableExpressionIsNotFolded(t *testing.T) {
	m := compile(t, "x+1")
	for _, ins := range m.Instrs {
		if ins.Op == OpLoadX {
			return
		}
	}
	t.Fatalf("expected OpLoadX to survive in %+v", m.Instrs)
}

func TestPowCombineRewrite(t *testing.T) {
	m := compile(t, "(x^2)^3")
	var pows int
	for _, ins := range m.Instrs {
		if ins.Op == OpPow {
			pows++
		}
	}
	if pows != 1 {
		t.Fatalf("expected pow-combine to leave exactly one OpPow, got %d in %+v", pows, m.Instrs)
	}
	got := EvalDefault(m, 2)
	want := math.Pow(2, 6)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("eval((x^2)^3, x=2) = %v, want %v", got, want)
	}
}

func TestPowCombineDisabled(t *testing.T) {
	m := compile(t, "(x^2)^3", WithPassDisabled(PassPowCombine))
	var pows int
	for _, ins := range m.Instrs {
		if ins.Op == OpPow {
			pows++
		}
	}
	if pows != 2 {
		t.Fatalf("expected two OpPow instructions with the pass disabled, got %d", pows)
	}
}

func TestEvalMatchesExpectedForSampleExpressions(t *testing.T) {
	cases := []struct {
		src  string
		x    float64
		want float64
	}{
		{"x^2+1", 3, 10},
		{"sin(x)", 0, 0},
		{"2x+1", 5, 11},
		{"x/2*4", 8, 1}, // x/(2*4) per the ladder's documented precedence
	}
	for _, c := range cases {
		m := compile(t, c.src)
		got := EvalDefault(m, c.x)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("eval(%q, x=%v) = %v, want %v", c.src, c.x, got, c.want)
		}
	}
}

func TestFunctionCallCollectsExtern(t *testing.T) {
	m := compile(t, "sqrt(x)")
	if len(m.Externs) != 1 || m.Externs[0] != "sqrt" {
		t.Fatalf("expected Externs = [sqrt], got %v", m.Externs)
	}
}
