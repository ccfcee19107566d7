package handle

import "sync/atomic"

// Suspender is the N-decrement resume-on-zero bridge described in spec
// §4.7: a coroutine suspends once, but may be awaiting several concurrent
// sub-operations (when_all's children, a callback plus a timeout, ...).
// Each sub-operation holds one reference and calls Decrement when it
// completes; the handle resumes exactly once, when the last reference
// decrements the counter to zero.
//
// Grounded on async_coro's include/async_coro/coroutine_suspender.h and
// src/coroutine_suspender.cpp.
type Suspender struct {
	remaining atomic.Int32
	fired     atomic.Bool
	h         *BaseHandle
	onZero    func()
}

// NewSuspender creates a Suspender that will call onZero exactly once, the
// moment n outstanding references have all called Decrement. h's on-cancel
// slot is cleared right before onZero runs, matching the original's "reset
// our cancel" step on the last decrement.
func NewSuspender(h *BaseHandle, n int32, onZero func()) *Suspender {
	s := &Suspender{h: h, onZero: onZero}
	s.remaining.Store(n)
	return s
}

// Add registers delta additional outstanding references, for awaiters that
// discover extra sub-operations after construction (e.g. a dynamically
// sized when_all). Must not be called once the counter could already have
// reached zero.
func (s *Suspender) Add(delta int32) {
	s.remaining.Add(delta)
}

// Decrement releases one outstanding reference. When this is the reference
// that brings the counter to zero, it clears h's on-cancel slot and calls
// onZero exactly once, and reports true. Every other call reports false.
func (s *Suspender) Decrement() bool {
	n := s.remaining.Add(-1)
	if n > 0 {
		return false
	}
	if !s.fired.CompareAndSwap(false, true) {
		// Only reachable if Decrement is somehow called past zero; treat
		// as already resolved.
		return false
	}
	s.h.ClearOnCancel()
	s.onZero()
	return true
}

// Remaining reports the current outstanding-reference count. Intended for
// diagnostics and tests, not for synchronization decisions.
func (s *Suspender) Remaining() int32 {
	return s.remaining.Load()
}
