package codegen

import (
	"math"

	"github.com/cwbudde/exprjit/internal/arena"
	"github.com/cwbudde/exprjit/internal/ast"
)

// Pass names the individually toggleable lowering behaviors, in the
// style of the teacher's bytecode.OptimizationPass / WithOptimizationPass
// pair (internal/bytecode/optimizer.go).
type Pass string

const (
	// PassConstFold evaluates any subtree with no Variable reference at
	// generation time and emits a single OpConst instead of the
	// subtree's instructions (spec §4.4).
	PassConstFold Pass = "const-fold"
	// PassPowCombine rewrites pow(pow(b, e1), e2) into pow(b, e1*e2)
	// (spec §4.4's named algebraic simplification).
	PassPowCombine Pass = "pow-combine"
)

// Option configures a Generate call.
type Option func(*config)

type config struct {
	disabled map[Pass]bool
}

func newConfig(opts []Option) config {
	cfg := config{}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

func (c config) enabled(p Pass) bool {
	return !c.disabled[p]
}

// WithPassDisabled turns off one lowering pass, for tests that compare
// the output with and without it.
func WithPassDisabled(p Pass) Option {
	return func(c *config) {
		if c.disabled == nil {
			c.disabled = make(map[Pass]bool)
		}
		c.disabled[p] = true
	}
}

// builtinMath maps the parser's recognized function names to the Go
// math function used to evaluate them at constant-fold time. The JIT
// backend resolves the same names against libm independently (spec
// §4.5). This table lists the same names as internal/parser's
// builtinFunctions set but is maintained separately; a Function node
// whose name is missing here is simply not folded.
var builtinMath = map[string]func(float64) float64{
	"sin": math.Sin, "cos": math.Cos, "tan": math.Tan,
	"asin": math.Asin, "acos": math.Acos, "atan": math.Atan,
	"sinh": math.Sinh, "cosh": math.Cosh, "tanh": math.Tanh,
	"log": math.Log, "log10": math.Log10, "sqrt": math.Sqrt,
	"ceil": math.Ceil, "fabs": math.Abs, "floor": math.Floor,
	"round": math.Round,
}

type generator struct {
	tree *ast.Tree
	mod  *Module
	cfg  config
}

// Generate lowers tree into a Module. The caller must have already
// rejected a tree whose Errored flag is set (spec §4.4 assumes a clean
// tree reaches code generation).
func Generate(tree *ast.Tree, opts ...Option) *Module {
	g := &generator{tree: tree, mod: &Module{}, cfg: newConfig(opts)}
	g.gen(tree.Root)
	return g.mod
}

// tryFold attempts to evaluate ref without any Variable reference,
// returning (value, true) on success. It is a pure function of the tree
// and performs no emission, so it is safe to call speculatively before
// deciding how to generate a subtree.
func tryFold(tree *ast.Tree, ref arena.Ref) (float64, bool) {
	if ref == ast.NoRef {
		return 0, false
	}
	n := tree.Get(ref)
	switch n.Kind {
	case ast.KindNumber:
		return n.Num, true
	case ast.KindVariable, ast.KindError:
		return 0, false
	case ast.KindUnary:
		v, ok := tryFold(tree, n.Left)
		if !ok {
			return 0, false
		}
		if n.UnOp == ast.Negative {
			return -v, true
		}
		return v, true
	case ast.KindBinary:
		l, ok := tryFold(tree, n.Left)
		if !ok {
			return 0, false
		}
		r, ok := tryFold(tree, n.Right)
		if !ok {
			return 0, false
		}
		return evalBinary(n.BinOp, l, r), true
	case ast.KindFunction:
		arg, ok := tryFold(tree, n.Left)
		if !ok {
			return 0, false
		}
		fn, known := builtinMath[n.FuncName]
		if !known {
			return 0, false
		}
		return fn(arg), true
	default:
		return 0, false
	}
}

func evalBinary(op ast.BinaryOp, l, r float64) float64 {
	switch op {
	case ast.Add:
		return l + r
	case ast.Sub:
		return l - r
	case ast.Mul:
		return l * r
	case ast.Div:
		return l / r
	case ast.Pow:
		return math.Pow(l, r)
	default:
		return math.NaN()
	}
}

func binaryToOp(op ast.BinaryOp) Op {
	switch op {
	case ast.Add:
		return OpAdd
	case ast.Sub:
		return OpSub
	case ast.Mul:
		return OpMul
	case ast.Div:
		return OpDiv
	case ast.Pow:
		return OpPow
	default:
		return OpConst
	}
}

// gen emits instructions computing ref's value, leaving exactly one
// value on the (conceptual) evaluation stack.
func (g *generator) gen(ref arena.Ref) {
	if ref == ast.NoRef {
		g.mod.emit(Instr{Op: OpConst, Const: math.NaN()})
		return
	}

	if g.cfg.enabled(PassConstFold) {
		if v, ok := tryFold(g.tree, ref); ok {
			g.mod.emit(Instr{Op: OpConst, Const: v})
			return
		}
	}

	n := g.tree.Get(ref)
	switch n.Kind {
	case ast.KindNumber:
		g.mod.emit(Instr{Op: OpConst, Const: n.Num})

	case ast.KindVariable:
		g.mod.emit(Instr{Op: OpLoadX})

	case ast.KindUnary:
		g.gen(n.Left)
		if n.UnOp == ast.Negative {
			g.mod.emit(Instr{Op: OpNeg})
		}
		// Positive is the identity; nothing to emit.

	case ast.KindBinary:
		g.genBinary(n)

	case ast.KindFunction:
		g.gen(n.Left)
		g.mod.emit(Instr{Op: OpCall, Func: n.FuncName})
		g.mod.addExtern(n.FuncName)

	case ast.KindError:
		g.mod.emit(Instr{Op: OpConst, Const: math.NaN()})
	}
}

// genBinary applies the pow-combine rewrite when it fires, otherwise
// lowers the operator directly.
func (g *generator) genBinary(n *ast.Node) {
	if n.BinOp == ast.Pow && g.cfg.enabled(PassPowCombine) {
		inner := g.tree.Get(n.Left)
		if inner.Kind == ast.KindBinary && inner.BinOp == ast.Pow {
			// pow(pow(b, e1), e2) -> pow(b, e1*e2)
			g.gen(inner.Left) // b
			g.gen(inner.Right) // e1
			g.gen(n.Right)      // e2
			g.mod.emit(Instr{Op: OpMul})
			g.mod.emit(Instr{Op: OpPow})
			return
		}
	}

	g.gen(n.Left)
	g.gen(n.Right)
	g.mod.emit(Instr{Op: binaryToOp(n.BinOp)})
}
