//go:build amd64

package jit

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/unix"

	"github.com/cwbudde/exprjit/internal/codegen"
	"github.com/cwbudde/exprjit/internal/invariant"
)

// libmHandle is resolved once per process: spec §4.6 calls for "a single
// process-wide initialization of the native code generation target and
// the math runtime before the first Compile call." purego's Dlopen gives
// us the C math library's symbols without cgo.
var (
	libmOnce   sync.Once
	libmHandle uintptr
	libmErr    error
)

func loadLibm() (uintptr, error) {
	libmOnce.Do(func() {
		for _, name := range libmCandidates() {
			h, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
			if err == nil {
				libmHandle = h
				return
			}
			libmErr = err
		}
	})
	return libmHandle, libmErr
}

// resolveExterns looks up the process-global address of every libm
// symbol mod.Externs names, plus "pow" unconditionally (OpPow
// instructions, emitted for every '^', never add "pow" to Externs).
func resolveExterns(mod *codegen.Module) (map[string]uintptr, error) {
	handle, err := loadLibm()
	if err != nil {
		slog.Error("jit: code generation framework failure", "stage", "loadLibm", "error", err)
		return nil, fmt.Errorf("jit: loading libm: %w", err)
	}

	names := append([]string{"pow"}, mod.Externs...)
	out := make(map[string]uintptr, len(names))
	for _, name := range names {
		if _, ok := out[name]; ok {
			continue
		}
		addr, err := purego.Dlsym(handle, name)
		if err != nil {
			slog.Error("jit: code generation framework failure", "stage", "resolveExterns", "symbol", name, "error", err)
			return nil, fmt.Errorf("jit: resolving libm symbol %q: %w", name, err)
		}
		out[name] = addr
	}
	return out, nil
}

func libmCandidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"libSystem.B.dylib", "libm.dylib"}
	default:
		return []string{"libm.so.6", "libm.so"}
	}
}

// CompiledFunction owns a block of W^X executable memory holding the
// assembled machine code for one expression, plus a Go-callable
// trampoline onto it. It follows the move-only ownership spec §4.5
// mandates for the C++ source's ExecutableMemory: Go has no move
// constructors, so the memory is released either by an explicit Close
// or, for a CompiledFunction that is never closed (the pipeline's
// Recompile path closes nothing), by the finalizer Compile installs.
type CompiledFunction struct {
	mem  []byte
	call func(float64) float64
	mu   sync.Mutex
	shut bool
}

// Compile assembles mod into native code and maps it executable.
// Compile is safe to call concurrently; each call produces an
// independent CompiledFunction (spec §6's "compiled functions are
// independent once created").
func Compile(mod *codegen.Module) (*CompiledFunction, error) {
	symbols, err := resolveExterns(mod)
	if err != nil {
		return nil, err
	}

	code, err := assemble(mod, symbols)
	if err != nil {
		slog.Error("jit: code generation framework failure", "stage", "assemble", "error", err)
		return nil, err
	}

	mem, err := unix.Mmap(-1, 0, len(code), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		slog.Error("jit: code generation framework failure", "stage", "mmap", "error", err)
		return nil, fmt.Errorf("jit: mmap: %w", err)
	}
	copy(mem, code)

	// W^X: memory is writable only long enough to copy the code in,
	// then flipped read+execute before it is ever called (spec §4.5).
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		_ = unix.Munmap(mem)
		slog.Error("jit: code generation framework failure", "stage", "mprotect", "error", err)
		return nil, fmt.Errorf("jit: mprotect: %w", err)
	}

	cf := &CompiledFunction{mem: mem, call: trampoline(mem)}
	runtime.SetFinalizer(cf, func(cf *CompiledFunction) { cf.Close() })
	return cf, nil
}

// trampoline reinterprets the mapped executable bytes as a Go function
// value of the right shape. This relies on the System V AMD64 calling
// convention matching what Go's closure-call ABI expects for a
// func(float64) float64 with no captured variables: one float64
// argument and one float64 result, both passed in XMM registers.
func trampoline(mem []byte) func(float64) float64 {
	invariant.Check(len(mem) > 0, "jit: empty code buffer")
	// A Go func value points at a word holding the code address, so the
	// code address needs one more level of indirection.
	ptr := uintptr(unsafe.Pointer(&mem[0]))
	fv := &ptr
	return *(*func(float64) float64)(unsafe.Pointer(&fv))
}

// Call evaluates the compiled function at x.
func (cf *CompiledFunction) Call(x float64) float64 {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	if cf.shut {
		return math.NaN()
	}
	return cf.call(x)
}

// Close unmaps the executable memory. Calling it more than once, or
// calling Call afterward, is safe: Call returns NaN once shut down.
func (cf *CompiledFunction) Close() error {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	if cf.shut {
		return nil
	}
	cf.shut = true
	runtime.SetFinalizer(cf, nil)
	return unix.Munmap(cf.mem)
}
