// Package exprjit compiles single-variable real-valued math expressions
// to native machine code for fast repeated evaluation, the way a
// graphing calculator needs to resample f(x) at thousands of points per
// redraw.
package exprjit

import (
	"fmt"

	"github.com/cwbudde/exprjit/internal/ast"
	"github.com/cwbudde/exprjit/internal/codegen"
	"github.com/cwbudde/exprjit/internal/diag"
	"github.com/cwbudde/exprjit/internal/jit"
	"github.com/cwbudde/exprjit/internal/lexer"
	"github.com/cwbudde/exprjit/internal/parser"
	"github.com/cwbudde/exprjit/internal/token"
)

// CompiledFunction evaluates a compiled expression at a given x. It is a
// thin alias over the jit package's handle so callers never need to
// import internal/jit directly.
type CompiledFunction = jit.CompiledFunction

// Pipeline runs the lex -> parse -> codegen -> JIT stages for a series
// of expressions. Reusing one Pipeline across calls keeps its last
// successful result for Recompile to fall back on; the JIT backend's
// libm load happens once per process whether or not a Pipeline is
// reused. A Pipeline is not itself safe for concurrent use, mirroring the
// teacher's non-reentrant VM (each call site should own its own
// Pipeline, or serialize access to a shared one).
type Pipeline struct {
	lastGood *Compiled
}

// Compiled bundles every pipeline stage's output for one source string,
// for callers that want to inspect the tokens, tree or IR (the CLI's
// compile subcommand prints Module) as well as get a callable function.
type Compiled struct {
	Source   string
	Tokens   []token.Token
	Tree     *ast.Tree
	Module   *codegen.Module
	Function *CompiledFunction
}

// NewPipeline creates an empty Pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Compile lexes, parses, and JIT-compiles src in one pass. A lex failure
// (unbalanced parentheses) or a parse failure (any Error node in the
// resulting tree) is reported as a *diag.Error; a JIT failure (symbol
// resolution, unsupported architecture) is returned wrapped with the
// source text.
func Compile(src string) (*Compiled, error) {
	return NewPipeline().Compile(src)
}

// Compile is the Pipeline method form of the package-level Compile,
// letting a caller reuse one Pipeline (and its lastGood fallback) across
// many expressions — as a live-editing REPL or a graphing UI's "apply on
// each keystroke" field does.
func (p *Pipeline) Compile(src string) (*Compiled, error) {
	lx := lexer.New(src)
	toks, ok := lx.LexAll()
	if !ok {
		return nil, diag.NewError(token.Position{Line: 1, Column: 1}, "unbalanced parentheses", lx.Cleaned())
	}

	tree := parser.New(toks).Parse()
	if tree.Errored {
		return nil, diag.NewError(token.Position{Line: 1, Column: 1}, "could not parse expression", lx.Cleaned())
	}

	mod := codegen.Generate(tree)

	fn, err := jit.Compile(mod)
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", src, err)
	}

	result := &Compiled{Source: src, Tokens: toks, Tree: tree, Module: mod, Function: fn}
	p.lastGood = result
	return result, nil
}

// Recompile behaves like Compile, but on failure returns the Pipeline's
// previously successful Compiled result instead of nil, so a caller
// driving a live graph (original_source/'s GUI redraw loop keeps showing
// the last valid curve while the user is mid-edit on a new one) never
// has to handle a nil function mid-session. The error is still returned
// so the caller can, for instance, show a transient error banner.
func (p *Pipeline) Recompile(src string) (*Compiled, error) {
	result, err := p.Compile(src)
	if err != nil {
		if p.lastGood != nil {
			return p.lastGood, err
		}
		return nil, err
	}
	return result, nil
}

// Eval evaluates the compiled function at x.
func (c *Compiled) Eval(x float64) float64 {
	return c.Function.Call(x)
}

// Close releases the native code backing c. Safe to call more than once.
func (c *Compiled) Close() error {
	return c.Function.Close()
}
