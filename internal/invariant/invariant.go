// Package invariant provides the single assertion primitive used to
// surface internal invariant breaches (spec §7: "a debug build aborts
// with file/line/expression; a release build surfaces the failure to a
// ... log sink and exits"). Go has no build-mode-conditional assert, so
// both cases collapse to a panic carrying the call site. Nothing in this
// module recovers that panic, so it ends the process with the message.
package invariant

import (
	"fmt"
	"runtime"
)

// Check panics with a formatted message and call site if cond is false.
// It is for conditions the pipeline's own invariants guarantee can never
// happen (e.g. a non-Error AST node with a nil child) — never for
// user-input validation, which must produce an ordinary error instead.
func Check(cond bool, format string, args ...any) {
	if cond {
		return
	}
	_, file, line, ok := runtime.Caller(1)
	msg := fmt.Sprintf(format, args...)
	if ok {
		panic(fmt.Sprintf("invariant violated at %s:%d: %s", file, line, msg))
	}
	panic("invariant violated: " + msg)
}
