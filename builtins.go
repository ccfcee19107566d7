package asynccoro

import (
	"context"
	"time"

	"github.com/ygrebnov/asynccoro/internal/handle"
)

// GetScheduler returns the scheduler running the current task, matching
// spec §4.10's get_scheduler built-in awaitable. No suspension is needed
// since a Coro already knows its scheduler.
func GetScheduler(c *Coro) *Scheduler {
	return c.Scheduler()
}

// Cancel requests cancellation of the currently running task and reports
// ErrCancelled, matching spec §4.10's cancel built-in: a coroutine that
// wants to tear itself down mid-body calls this and propagates the error
// outward.
func Cancel(c *Coro) error {
	c.h.RequestCancel()
	return ErrCancelled
}

// switchAwaiter is SwitchToQueue's Awaiter.
type switchAwaiter struct {
	sched *Scheduler
	h     *handle.BaseHandle
	q     QueueMark
	resolver[struct{}]
}

func (a *switchAwaiter) Ready() bool {
	return a.h.Queue() == a.q
}

func (a *switchAwaiter) Result() (struct{}, error) {
	return struct{}{}, nil
}

func (a *switchAwaiter) Suspend(resume func(struct{}, error)) {
	a.set(resume)
	a.h.SetQueue(a.q)
	a.sched.sys.PlanExecution(func(context.Context) {
		a.resolve(struct{}{}, nil)
	}, a.q)
}

func (a *switchAwaiter) Cancel() {
	a.resolve(struct{}{}, ErrCancelled)
}

// SwitchToQueue suspends the current task and resumes it on queue q,
// matching spec §4.5's switch_to_queue built-in. A no-op (no suspension)
// if the task is already assigned to q.
func SwitchToQueue(c *Coro, q QueueMark) error {
	_, err := Await[struct{}](c, &switchAwaiter{sched: c.sched, h: c.h, q: q})
	return err
}

// sleepAwaiter is Sleep's Awaiter.
type sleepAwaiter struct {
	sched *Scheduler
	h     *handle.BaseHandle
	d     time.Duration
	timer interface{ cancel() bool }
	resolver[struct{}]
}

func (a *sleepAwaiter) Ready() bool {
	return a.d <= 0
}

func (a *sleepAwaiter) Result() (struct{}, error) {
	return struct{}{}, nil
}

func (a *sleepAwaiter) Suspend(resume func(struct{}, error)) {
	a.set(resume)
	id := a.sched.sys.PlanExecutionAfter(func(context.Context) {
		a.resolve(struct{}{}, nil)
	}, a.h.Queue(), a.d)
	a.timer = cancelFunc(func() bool { return a.sched.sys.CancelExecution(id) })
}

func (a *sleepAwaiter) Cancel() {
	if a.timer != nil {
		a.timer.cancel()
	}
	a.resolve(struct{}{}, ErrCancelled)
}

type cancelFunc func() bool

func (f cancelFunc) cancel() bool { return f() }

// Sleep suspends the current task for d, matching spec §4.10's sleep
// built-in. Returns ErrCancelled immediately if cancellation is requested
// before or during the sleep.
func Sleep(c *Coro, d time.Duration) error {
	_, err := Await[struct{}](c, &sleepAwaiter{sched: c.sched, h: c.h, d: d})
	return err
}

// CancelAfterTime arranges for the current task to be cancelled after d
// elapses unless the returned stop function is called first. This is the
// Go-idiomatic rendering of spec §4.10's cancel_after_time: a
// context.WithTimeout-shaped escape hatch rather than a second coroutine.
func CancelAfterTime(c *Coro, d time.Duration) (stop func()) {
	h := c.h
	id := c.sched.sys.PlanExecutionAfter(func(context.Context) {
		h.RequestCancel()
	}, h.Queue(), d)
	return func() { c.sched.sys.CancelExecution(id) }
}

// CancelAfterTimeAwaiter returns the suspending form of cancel_after_time:
// an Awaiter that resolves once d elapses, for composing a timeout into
// WhenAny/TaskHandle.Or against a sibling task — e.g.
// WhenAny(c, task.Awaiter(), CancelAfterTimeAwaiter(c, 20*time.Millisecond))
// races task against the timeout and cancels whichever loses, matching the
// original's `co_await (co_await start_task(...) || cancel_after_time(d))`
// shape. Unlike CancelAfterTime above, it does not request cancellation of
// anything itself; that falls out of losing a WhenAny/Or race.
func CancelAfterTimeAwaiter(c *Coro, d time.Duration) Awaiter[struct{}] {
	return &sleepAwaiter{sched: c.sched, h: c.h, d: d}
}

// ExecuteAfterTime schedules fn to run on queue q after d elapses, from
// outside any task (e.g. arming a background sweep when the scheduler
// starts). Matches spec §4.9's execute_after_time. The returned function
// cancels the pending execution, reporting whether it was still pending.
func (s *Scheduler) ExecuteAfterTime(fn func(), q QueueMark, d time.Duration) (cancel func() bool) {
	id := s.sys.PlanExecutionAfter(func(context.Context) { fn() }, q, d)
	return func() bool { return s.sys.CancelExecution(id) }
}

// callbackAwaiter is AwaitCallback's Awaiter.
type callbackAwaiter[T any] struct {
	register func(resume func(T, error))
	onCancel func()
	resolver[T]
}

func (a *callbackAwaiter[T]) Ready() bool { return false }

func (a *callbackAwaiter[T]) Result() (T, error) {
	var zero T
	return zero, nil
}

func (a *callbackAwaiter[T]) Suspend(resume func(T, error)) {
	a.set(resume)
	a.register(func(v T, err error) { a.resolve(v, err) })
}

func (a *callbackAwaiter[T]) Cancel() {
	if a.onCancel != nil {
		a.onCancel()
	}
	var zero T
	a.resolve(zero, ErrCancelled)
}

// AwaitCallback suspends the current task until register calls the resume
// function it is given, matching spec §4.10's await_callback built-in:
// the bridge from callback-based APIs (timers, I/O completions, external
// event sources) into coroutine code. onCancel, if non-nil, is invoked
// when the task's cancellation fires while still suspended, so the caller
// can cancel whatever underlying operation register started; the awaiter
// resolves with ErrCancelled regardless of what onCancel does.
func AwaitCallback[T any](c *Coro, register func(resume func(T, error)), onCancel func()) (T, error) {
	return Await[T](c, &callbackAwaiter[T]{register: register, onCancel: onCancel})
}
