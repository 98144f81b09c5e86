//go:build amd64

// Package jit assembles a codegen.Module directly into amd64/SSE2 machine
// code and hosts it in W^X-protected executable memory, standing in for
// the abstracted "external code generation framework" of spec §4.5. The
// raw-byte-slice emission style here follows
// other_examples/64f2f987_launix-de-memcp__scm-jit_amd64.go.go, a
// production hand-rolled amd64 JIT for a Scheme dialect — the only
// from-scratch native codegen in the retrieved corpus.
package jit

import (
	"fmt"
	"math"

	"github.com/cwbudde/exprjit/internal/codegen"
)

// asmBuf is a tiny x86-64 encoder: just enough instructions to evaluate
// a branch-free stack-machine program (this domain has no control flow —
// every codegen.Module is a straight-line list of arithmetic and libm
// calls) under the System V AMD64 calling convention: one float64
// argument in XMM0, one float64 result in XMM0.
type asmBuf struct {
	buf []byte
}

func (a *asmBuf) emit(bytes ...byte) {
	a.buf = append(a.buf, bytes...)
}

func (a *asmBuf) imm32(v int32) {
	a.buf = append(a.buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func (a *asmBuf) imm64(v uint64) {
	for i := 0; i < 8; i++ {
		a.buf = append(a.buf, byte(v>>(8*i)))
	}
}

// rbpDisp appends a ModRM byte (with reg field set to regBits) plus a
// displacement addressing [rbp+disp], into dst. rbp (register index 5)
// can never use the mod=00 encoding in 64-bit mode (that slot is
// RIP-relative), so this always emits an explicit disp8 or disp32.
func (a *asmBuf) rbpDisp(regBits int, disp int32) {
	if disp >= -128 && disp <= 127 {
		a.emit(byte(0x45 | (regBits << 3)))
		a.emit(byte(int8(disp)))
		return
	}
	a.emit(byte(0x85 | (regBits << 3)))
	a.imm32(disp)
}

const (
	regRAX = 0
	regRCX = 1
	xmm0   = 0
	xmm1   = 1
)

func (a *asmBuf) pushRBP()      { a.emit(0x55) }
func (a *asmBuf) movRBPRSP()    { a.emit(0x48, 0x89, 0xe5) }
func (a *asmBuf) subRSP(n int32) {
	a.emit(0x48, 0x81, 0xec)
	a.imm32(n)
}
func (a *asmBuf) movRSPRBP() { a.emit(0x48, 0x89, 0xec) }
func (a *asmBuf) popRBP()    { a.emit(0x5d) }
func (a *asmBuf) ret()       { a.emit(0xc3) }

// movsd xmm, [rbp+disp]  (load)
func (a *asmBuf) loadSlot(xmm int, disp int32) {
	a.emit(0xf2, 0x0f, 0x10)
	a.rbpDisp(xmm, disp)
}

// movsd [rbp+disp], xmm  (store)
func (a *asmBuf) storeSlot(xmm int, disp int32) {
	a.emit(0xf2, 0x0f, 0x11)
	a.rbpDisp(xmm, disp)
}

// movabs reg, imm64
func (a *asmBuf) movRegImm64(reg int, v uint64) {
	a.emit(0x48, byte(0xb8+reg))
	a.imm64(v)
}

// movq xmm, reg  (66 REX.W 0F 6E /r)
func (a *asmBuf) movqXmmReg(xmm, reg int) {
	a.emit(0x66, 0x48, 0x0f, 0x6e)
	a.emit(byte(0xc0 | (xmm << 3) | reg))
}

func (a *asmBuf) addsd(dst, src int) { a.emit(0xf2, 0x0f, 0x58, byte(0xc0|(dst<<3)|src)) }
func (a *asmBuf) subsd(dst, src int) { a.emit(0xf2, 0x0f, 0x5c, byte(0xc0|(dst<<3)|src)) }
func (a *asmBuf) mulsd(dst, src int) { a.emit(0xf2, 0x0f, 0x59, byte(0xc0|(dst<<3)|src)) }
func (a *asmBuf) divsd(dst, src int) { a.emit(0xf2, 0x0f, 0x5e, byte(0xc0|(dst<<3)|src)) }
func (a *asmBuf) xorpd(dst, src int) { a.emit(0x66, 0x0f, 0x57, byte(0xc0|(dst<<3)|src)) }

// call reg  (FF /2)
func (a *asmBuf) callReg(reg int) {
	a.emit(0xff, byte(0xd0+reg))
}

func align16(n int32) int32 {
	if rem := n % 16; rem != 0 {
		n += 16 - rem
	}
	return n
}

// assemble lowers mod into a machine code buffer. symbols must carry an
// entry for every name in mod.Externs (see host.go's resolveExterns);
// a missing symbol is an assembly-time error rather than a runtime
// crash.
func assemble(mod *codegen.Module, symbols map[string]uintptr) ([]byte, error) {
	maxDepth := simulateDepth(mod)
	if maxDepth < 1 {
		maxDepth = 1
	}

	// Stack slots live at [rbp-8], [rbp-16], ... ; the incoming argument
	// is spilled one slot past the deepest value slot.
	argSlot := -8 * int32(maxDepth+1)
	frameSize := align16(8 * int32(maxDepth+1))

	a := &asmBuf{}
	a.pushRBP()
	a.movRBPRSP()
	a.subRSP(frameSize)
	a.storeSlot(xmm0, argSlot)

	depth := int32(0)
	slot := func(i int32) int32 { return -8 * (i + 1) }

	for _, ins := range mod.Instrs {
		switch ins.Op {
		case codegen.OpConst:
			a.movRegImm64(regRAX, math.Float64bits(ins.Const))
			a.movqXmmReg(xmm0, regRAX)
			a.storeSlot(xmm0, slot(depth))
			depth++

		case codegen.OpLoadX:
			a.loadSlot(xmm0, argSlot)
			a.storeSlot(xmm0, slot(depth))
			depth++

		case codegen.OpAdd, codegen.OpSub, codegen.OpMul, codegen.OpDiv:
			a.loadSlot(xmm0, slot(depth-2))
			a.loadSlot(xmm1, slot(depth-1))
			switch ins.Op {
			case codegen.OpAdd:
				a.addsd(xmm0, xmm1)
			case codegen.OpSub:
				a.subsd(xmm0, xmm1)
			case codegen.OpMul:
				a.mulsd(xmm0, xmm1)
			case codegen.OpDiv:
				a.divsd(xmm0, xmm1)
			}
			depth -= 2
			a.storeSlot(xmm0, slot(depth))
			depth++

		case codegen.OpNeg:
			a.loadSlot(xmm0, slot(depth-1))
			a.movRegImm64(regRCX, 1<<63)
			a.movqXmmReg(xmm1, regRCX)
			a.xorpd(xmm0, xmm1)
			depth--
			a.storeSlot(xmm0, slot(depth))
			depth++

		case codegen.OpPow:
			addr, ok := symbols["pow"]
			if !ok {
				return nil, fmt.Errorf("jit: no resolved symbol for pow")
			}
			a.loadSlot(xmm0, slot(depth-2))
			a.loadSlot(xmm1, slot(depth-1))
			a.movRegImm64(regRAX, uint64(addr))
			a.callReg(regRAX)
			depth -= 2
			a.storeSlot(xmm0, slot(depth))
			depth++

		case codegen.OpCall:
			addr, ok := symbols[ins.Func]
			if !ok {
				return nil, fmt.Errorf("jit: no resolved symbol for %s", ins.Func)
			}
			a.loadSlot(xmm0, slot(depth-1))
			a.movRegImm64(regRAX, uint64(addr))
			a.callReg(regRAX)
			depth--
			a.storeSlot(xmm0, slot(depth))
			depth++
		}
	}

	a.loadSlot(xmm0, slot(depth-1))
	a.movRSPRBP()
	a.popRBP()
	a.ret()

	return a.buf, nil
}

// simulateDepth computes the maximum evaluation-stack depth mod reaches,
// so assemble can size a fixed stack frame up front instead of growing
// rsp dynamically.
func simulateDepth(mod *codegen.Module) int {
	depth, max := 0, 0
	track := func(pops, pushes int) {
		depth -= pops
		depth += pushes
		if depth > max {
			max = depth
		}
	}
	for _, ins := range mod.Instrs {
		switch ins.Op {
		case codegen.OpConst, codegen.OpLoadX:
			track(0, 1)
		case codegen.OpAdd, codegen.OpSub, codegen.OpMul, codegen.OpDiv, codegen.OpPow:
			track(2, 1)
		case codegen.OpNeg, codegen.OpCall:
			track(1, 1)
		}
	}
	return max
}
