package asynccoro

import (
	"sync"

	"github.com/ygrebnov/asynccoro/internal/callback"
	"github.com/ygrebnov/asynccoro/internal/handle"
)

// Awaiter is the advanced awaiter protocol described in spec §4.4: a
// value that a task can suspend on. Ready lets the fast path skip
// suspending entirely when the result is already available; otherwise
// Suspend installs the resumption and the task's goroutine blocks until
// it fires. Cancel asks the awaited operation to resolve as soon as
// possible (with an error) in response to the awaiting task's
// cancellation being requested.
type Awaiter[T any] interface {
	// Ready reports whether Result can be called immediately, without
	// suspending.
	Ready() bool

	// Result returns the already-available result. Only called when Ready
	// returned true.
	Result() (T, error)

	// Suspend arranges for resume to be invoked exactly once, from any
	// goroutine, once the awaited operation completes. Only called when
	// Ready returned false.
	Suspend(resume func(T, error))

	// Cancel requests the awaited operation resolve as soon as possible.
	// Must be safe to call even if Suspend was never called, and safe to
	// call more than once.
	Cancel()
}

// Coro is the handle a running task body uses to suspend itself. It is
// supplied as the first argument to every task body function; task code
// never constructs one directly.
type Coro struct {
	h     *handle.BaseHandle
	sched *Scheduler
}

// Scheduler returns the scheduler running this task, the Go equivalent of
// spec §4.10's get_scheduler built-in awaitable (no suspension is ever
// needed to obtain it).
func (c *Coro) Scheduler() *Scheduler {
	return c.sched
}

// Queue returns the execution queue this task is currently assigned to.
func (c *Coro) Queue() QueueMark {
	return c.h.Queue()
}

// IsCancelRequested reports whether this task's cancellation has been
// requested. Long-running task bodies that await rarely should check this
// between steps to cooperate with cancellation promptly.
func (c *Coro) IsCancelRequested() bool {
	return c.h.IsCancelRequested()
}

// resolver guarantees a built-in awaiter's completion callback runs
// exactly once, even when delivery (e.g. a timer firing) and
// cancellation race to resolve the same awaiter — including a Cancel
// that arrives before Suspend has had a chance to record its resume
// function (Await calls Cancel on an already-cancelled task before it
// calls Suspend). Without tracking that ordering, such a Cancel would
// consume the one-shot delivery before Suspend installed anything to
// deliver it to, and the resume function would never run.
type resolver[T any] struct {
	mu    sync.Mutex
	fn    func(T, error)
	fired bool
	value T
	err   error
}

// set records the resume function Suspend wants invoked once this
// awaiter resolves. If resolve already ran before set was called, fn
// fires immediately with that outcome instead of being silently dropped.
func (r *resolver[T]) set(fn func(T, error)) {
	r.mu.Lock()
	if r.fired {
		v, err := r.value, r.err
		r.mu.Unlock()
		fn(v, err)
		return
	}
	r.fn = fn
	r.mu.Unlock()
}

func (r *resolver[T]) resolve(v T, err error) {
	r.mu.Lock()
	if r.fired {
		r.mu.Unlock()
		return
	}
	r.fired = true
	r.value, r.err = v, err
	fn := r.fn
	r.mu.Unlock()
	if fn != nil {
		fn(v, err)
	}
}

type awaitResult[T any] struct {
	value T
	err   error
}

// Await suspends the current task until a resolves, returning its value
// or error. If the task's cancellation has already been requested, a is
// asked to cancel before it is even given the chance to report Ready.
func Await[T any](c *Coro, a Awaiter[T]) (T, error) {
	if c.h.IsCancelRequested() {
		a.Cancel()
	}
	if a.Ready() {
		return a.Result()
	}

	ch := make(chan awaitResult[T], 1)
	cancelCB := callback.New(func() { a.Cancel() })
	if !c.h.InstallOnCancel(cancelCB) {
		// Cancellation already fired (before Await began, or after the
		// check above), so cancelCB will never run; cancel a ourselves.
		// Cancel is safe to call more than once.
		a.Cancel()
	}

	c.h.SetState(handle.Suspended)
	a.Suspend(func(v T, err error) { ch <- awaitResult[T]{value: v, err: err} })

	res := <-ch
	c.h.ClearOnCancel()
	c.h.SetState(handle.Running)
	return res.value, res.err
}
