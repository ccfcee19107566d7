// Package handle implements BaseHandle, the task/promise state machine
// described in spec §4.6. Every coroutine-backed task and every promise
// awaited from outside a coroutine embeds one BaseHandle; it tracks the
// coroutine's lifecycle state, its owner count, its parent/child link, its
// pending cancellation request, the one-shot "on cancel" and "on complete"
// slots, and which worker last ran it (for same-thread fast paths).
//
// Grounded on async_coro's include/async_coro/base_handle.h and
// src/base_handle.cpp / base_handle_ptr.cpp.
package handle

import (
	"sync/atomic"

	"github.com/ygrebnov/asynccoro/internal/assertx"
	"github.com/ygrebnov/asynccoro/internal/callback"
	"github.com/ygrebnov/asynccoro/internal/queuemark"
)

// State is a coroutine's lifecycle stage, per spec §3 "Data model".
type State int32

const (
	Created State = iota
	Running
	Suspended
	Finished
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Running:
		return "running"
	case Suspended:
		return "suspended"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// BaseHandle is the embeddable state machine shared by every task and
// promise. The zero value is not usable; construct with New.
type BaseHandle struct {
	state atomic.Int32 // State

	// owners counts outstanding references, mirroring base_handle's
	// intrusive refcount. StartTask holds only the reference New creates
	// and releases it when the task body returns; nothing else in this
	// module calls Retain.
	owners atomic.Int32

	// queue is the queuemark.Mark this handle is currently running on, or
	// queued for.
	queue atomic.Uint32

	// runningOn is the worker token (see exec.WorkerIdentity) of whatever
	// worker is currently executing this handle's coroutine body, or 0 if
	// none. Only SetRunningOn writes it; the scheduler does not set it.
	runningOn atomic.Int64

	cancelRequested atomic.Bool

	// onCancel fires (at most once) when cancellation is requested while a
	// callback has been installed by the currently active awaiter.
	onCancel callback.CancelSlot

	// onComplete fires (at most once) when the handle reaches Finished;
	// installed through InstallOnComplete. TaskHandle.ContinueWith does not
	// use it; it keeps its own waiter list.
	onComplete callback.CancelSlot

	parent *BaseHandle
}

// New returns a BaseHandle in the Created state with one owner reference
// already held (the caller's).
func New() *BaseHandle {
	h := &BaseHandle{}
	h.owners.Store(1)
	h.queue.Store(uint32(queuemark.Main))
	return h
}

// State returns the handle's current lifecycle stage.
func (h *BaseHandle) State() State {
	return State(h.state.Load())
}

// SetState transitions the handle to s. Callers are expected to only move
// states forward (Created -> Running -> Suspended/Finished, Suspended ->
// Running -> ...); this is not itself enforced since some transitions
// (Suspended -> Running) happen many times over a coroutine's life.
func (h *BaseHandle) SetState(s State) {
	h.state.Store(int32(s))
}

// IsFinished reports whether the coroutine has run to completion (or
// completed via cancellation).
func (h *BaseHandle) IsFinished() bool {
	return h.State() == Finished
}

// Queue returns the execution queue the handle is currently assigned to.
func (h *BaseHandle) Queue() queuemark.Mark {
	return queuemark.Mark(h.queue.Load())
}

// SetQueue records which execution queue the handle is running on or
// queued for, per spec §4.5 switch_to_queue.
func (h *BaseHandle) SetQueue(q queuemark.Mark) {
	h.queue.Store(uint32(q))
}

// RunningOn returns the worker token of whoever is currently executing
// this handle, or 0 if it is not presently running.
func (h *BaseHandle) RunningOn() int64 {
	return h.runningOn.Load()
}

// SetRunningOn records which worker token is about to execute this
// handle's coroutine body. Pass 0 when the handle stops running.
func (h *BaseHandle) SetRunningOn(token int64) {
	h.runningOn.Store(token)
}

// Retain increments the owner count. Call once per new reference taken to
// the handle (TaskHandle copies, parent links, continuations).
func (h *BaseHandle) Retain() {
	n := h.owners.Add(1)
	assertx.Invariant(n > 1, "handle: Retain on a handle with no prior owners")
}

// Release decrements the owner count and reports whether it reached zero,
// meaning the caller was the last owner and may release any resources the
// handle holds onto (its coroutine frame, promise storage, ...).
func (h *BaseHandle) Release() bool {
	n := h.owners.Add(-1)
	assertx.Invariant(n >= 0, "handle: Release underflowed owner count")
	return n == 0
}

// RequestCancel marks the handle as having a pending cancellation request
// and fires whatever on-cancel callback the active awaiter installed, per
// spec §4.6/§4.7. Returns true the first time it is called; later calls
// are no-ops and return false.
func (h *BaseHandle) RequestCancel() bool {
	if !h.cancelRequested.CompareAndSwap(false, true) {
		return false
	}
	if cb := h.onCancel.Cancel(); cb != nil {
		cb.Fire()
	}
	return true
}

// IsCancelRequested reports whether RequestCancel has been called.
func (h *BaseHandle) IsCancelRequested() bool {
	return h.cancelRequested.Load()
}

// InstallOnCancel registers cb to fire if RequestCancel is (or was already)
// called. It returns false without installing cb when cancellation has
// already been requested, in which case the caller must treat cancellation
// as already in effect (matching CancelSlot.Install's contract).
func (h *BaseHandle) InstallOnCancel(cb *callback.Callback) bool {
	return h.onCancel.Install(cb)
}

// ClearOnCancel removes any installed on-cancel callback without firing
// it, used once a suspension resolves normally and no longer needs
// cancellation notifications.
func (h *BaseHandle) ClearOnCancel() *callback.Callback {
	return h.onCancel.Clear()
}

// InstallOnComplete registers cb to fire once the handle reaches Finished.
// Returns false if the handle already finished, in which case the caller
// must invoke its continuation immediately instead.
func (h *BaseHandle) InstallOnComplete(cb *callback.Callback) bool {
	if h.IsFinished() {
		return false
	}
	return h.onComplete.Install(cb)
}

// FireOnComplete marks the handle as having completed its on-complete
// notification and fires whatever continuation was installed, if any. Safe
// to call even if nothing was installed, and safe to call only once
// (subsequent calls are no-ops).
func (h *BaseHandle) FireOnComplete() {
	if cb := h.onComplete.Cancel(); cb != nil {
		cb.Fire()
	}
}

// Parent returns the handle that launched this one, or nil for a
// top-level task.
func (h *BaseHandle) Parent() *BaseHandle {
	return h.parent
}

// SetParent records the handle that launched this one. Must be called
// before the handle starts running; not safe for concurrent use with
// Parent.
func (h *BaseHandle) SetParent(p *BaseHandle) {
	h.parent = p
}
