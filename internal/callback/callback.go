// Package callback provides the type-erased, one-shot invocable that
// base_handle's cancellation slot and completion-continuation slot are
// built from (async_coro's utils/callback_base_ptr.h, utils/callback_fwd.h,
// utils/callback_on_stack.h, and internal/callback_execute_command.h).
//
// The original distinguishes a stack-embedded CRTP storage strategy from a
// heap-allocated one behind a shared executor-function-pointer vtable,
// because C++ callers often want to avoid a heap allocation per awaiter.
// Go closures already allocate on the heap only when they escape, and the
// compiler (not the library) decides that; there is no user-visible
// stack-vs-heap storage choice to expose. What the original vtable's
// "destroy / execute / execute-and-destroy" dispatch is really protecting
// is the *at-most-once* contract, which Callback enforces directly with an
// atomic flag instead of a manually-dispatched command enum.
package callback

import (
	"sync/atomic"

	"github.com/ygrebnov/asynccoro/internal/assertx"
)

// Callback is a one-shot, type-erased nullary invocable. The zero value is
// not usable; construct with New.
type Callback struct {
	fn   func()
	used atomic.Bool
}

// New wraps fn as a one-shot Callback.
func New(fn func()) *Callback {
	assertx.Invariant(fn != nil, "callback.New: fn must not be nil")
	return &Callback{fn: fn}
}

// Fire invokes the wrapped function exactly once. Subsequent calls are
// no-ops, matching the "at most one execute per lifetime" contract.
func (c *Callback) Fire() {
	if c.used.CompareAndSwap(false, true) {
		c.fn()
	}
}

// Discard marks the callback as consumed without invoking it — the
// "destroy" leg of the original's executor vtable, used when a one-shot
// slot is torn down without ever firing (e.g. a suspender destroyed before
// its continuation runs).
func (c *Callback) Discard() {
	c.used.Store(true)
}

// Fired reports whether Fire or Discard has already run.
func (c *Callback) Fired() bool {
	return c.used.Load()
}
