package ast

import "testing"

func TestSExprRendersBinary(t *testing.T) {
	tr := NewTree()
	a := tr.NewVariable()
	b := tr.NewNumber(2)
	c := tr.NewNumber(3)
	bc := tr.NewBinary(Mul, b, c)
	root := tr.NewBinary(Add, a, bc)

	if got, want := tr.SExpr(root), "(+ x (* 2 3))"; got != want {
		t.Fatalf("SExpr = %q, want %q", got, want)
	}
}

func TestContainsErrorPropagatesThroughTree(t *testing.T) {
	tr := NewTree()
	good := tr.NewNumber(1)
	bad := tr.Error()
	root := tr.NewBinary(Add, good, bad)

	if !tr.ContainsError(root) {
		t.Fatal("expected ContainsError to find the Error child")
	}
	if !tr.Errored {
		t.Fatal("expected Tree.Errored to be set by Tree.Error")
	}
}

func TestContainsErrorFalseForCleanTree(t *testing.T) {
	tr := NewTree()
	root := tr.NewBinary(Add, tr.NewNumber(1), tr.NewVariable())
	if tr.ContainsError(root) {
		t.Fatal("did not expect ContainsError on a clean tree")
	}
}
