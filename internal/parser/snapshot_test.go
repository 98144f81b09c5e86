package parser

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cwbudde/exprjit/internal/lexer"
)

// TestParseTreeSnapshots pins the indented ast.Tree.Dump rendering of a
// representative set of expressions, the same way the teacher's
// internal/interp/fixture_test.go pins interpreter output with
// snaps.MatchSnapshot rather than a hand-maintained golden string per case.
func TestParseTreeSnapshots(t *testing.T) {
	exprs := []string{
		"x+2*3",
		"x/2*3",
		"-x^2",
		"2x^3",
		"sin(x)/cos(x)",
		"(x+1)*(x-2)",
	}

	for _, src := range exprs {
		src := src
		t.Run(src, func(t *testing.T) {
			toks, ok := lexer.New(src).LexAll()
			if !ok {
				t.Fatalf("lexer rejected %q", src)
			}
			tree := New(toks).Parse()
			if tree.Errored {
				t.Fatalf("parse(%q): unexpected error node", src)
			}

			var buf bytes.Buffer
			tree.Dump(&buf, tree.Root)
			snaps.MatchSnapshot(t, src, buf.String())
		})
	}
}
