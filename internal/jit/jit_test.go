//go:build amd64

package jit

import (
	"math"
	"testing"

	"github.com/cwbudde/exprjit/internal/codegen"
	"github.com/cwbudde/exprjit/internal/lexer"
	"github.com/cwbudde/exprjit/internal/parser"
)

func compileModule(t *testing.T, src string) *codegen.Module {
	t.Helper()
	toks, ok := lexer.New(src).LexAll()
	if !ok {
		t.Fatalf("lexer rejected %q", src)
	}
	tree := parser.New(toks).Parse()
	if tree.Errored {
		t.Fatalf("parser rejected %q", src)
	}
	return codegen.Generate(tree)
}

func TestCompileArithmetic(t *testing.T) {
	mod := compileModule(t, "x*2+1")
	cf, err := Compile(mod)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	defer cf.Close()

	for _, x := range []float64{0, 1, -3.5, 100} {
		got := cf.Call(x)
		want := x*2 + 1
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Call(%v) = %v, want %v", x, got, want)
		}
	}
}

func TestCompileWithLibmCall(t *testing.T) {
	mod := compileModule(t, "sqrt(x)")
	cf, err := Compile(mod)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	defer cf.Close()

	got := cf.Call(16)
	if math.Abs(got-4) > 1e-9 {
		t.Errorf("Call(16) = %v, want 4", got)
	}
}

func TestCloseIsIdempotentAndDisablesCall(t *testing.T) {
	mod := compileModule(t, "x")
	cf, err := Compile(mod)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := cf.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := cf.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if got := cf.Call(5); !math.IsNaN(got) {
		t.Fatalf("Call after Close = %v, want NaN", got)
	}
}
