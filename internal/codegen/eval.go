package codegen

import "math"

// Eval interprets m against x using a small stack machine, in the shape
// of the teacher's bytecode.VM.Run loop (internal/bytecode/vm_exec.go)
// generalized from its tagged Value stack down to a flat []float64
// stack, since every value in this domain is a real number.
//
// Eval gives the generated IR one execution path that needs no native
// code generation at all; the codegen tests use it as their oracle. The
// CLI does not call it: its commands evaluate through the JIT.
func Eval(m *Module, resolve func(name string) (func(float64) float64, bool), x float64) float64 {
	stack := make([]float64, 0, 8)
	pop := func() float64 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}

	for _, ins := range m.Instrs {
		switch ins.Op {
		case OpConst:
			stack = append(stack, ins.Const)
		case OpLoadX:
			stack = append(stack, x)
		case OpAdd:
			r, l := pop(), pop()
			stack = append(stack, l+r)
		case OpSub:
			r, l := pop(), pop()
			stack = append(stack, l-r)
		case OpMul:
			r, l := pop(), pop()
			stack = append(stack, l*r)
		case OpDiv:
			r, l := pop(), pop()
			stack = append(stack, l/r)
		case OpNeg:
			stack = append(stack, -pop())
		case OpPow:
			e, b := pop(), pop()
			stack = append(stack, math.Pow(b, e))
		case OpCall:
			arg := pop()
			fn, ok := resolve(ins.Func)
			if !ok {
				fn, ok = builtinMath[ins.Func]
			}
			if !ok {
				stack = append(stack, math.NaN())
				continue
			}
			stack = append(stack, fn(arg))
		}
	}

	if len(stack) == 0 {
		return math.NaN()
	}
	return stack[len(stack)-1]
}

// EvalDefault interprets m using only the built-in math-function table,
// for callers with no separate native symbol resolver (the reference
// interpreter path used by tests).
func EvalDefault(m *Module, x float64) float64 {
	return Eval(m, func(string) (func(float64) float64, bool) { return nil, false }, x)
}
