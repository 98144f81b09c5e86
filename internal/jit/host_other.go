//go:build !amd64

package jit

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"github.com/cwbudde/exprjit/internal/codegen"
)

// CompiledFunction is the non-amd64 stand-in: spec §4.5 scopes native
// code generation to "the host's primary execution architecture," and
// this module's from-scratch assembler (asm_amd64.go) only targets
// amd64. Compile fails cleanly everywhere else, and exprjit.Compile
// passes that error on to its caller.
type CompiledFunction struct{}

// Compile always fails on non-amd64 builds.
func Compile(mod *codegen.Module) (*CompiledFunction, error) {
	slog.Error("jit: code generation framework failure", "stage", "assemble", "error", "unsupported architecture", "arch", runtime.GOARCH)
	return nil, fmt.Errorf("jit: native code generation is not implemented for this architecture")
}

// Call always returns NaN; present only so callers can share a type
// across build targets without a second build-tagged call site.
func (cf *CompiledFunction) Call(x float64) float64 {
	return math.NaN()
}

// Close is a no-op.
func (cf *CompiledFunction) Close() error { return nil }
