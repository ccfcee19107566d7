package asynccoro

import (
	"sync"

	"github.com/ygrebnov/asynccoro/internal/handle"
	"github.com/ygrebnov/asynccoro/internal/promiseresult"
)

// Launcher is a task body: the function a task runs, given a Coro to
// suspend through. Matches spec §3's "task/promise" coroutine contract.
type Launcher[R any] func(c *Coro) (R, error)

// TaskHandle observes and controls one launched task: whether it has
// finished, its result once it has, and cancellation. Matches spec §4.6's
// external task-handle surface (done/is_cancelled/request_cancel/get/
// continue_with/detach).
type TaskHandle[R any] struct {
	h *handle.BaseHandle

	mu      sync.Mutex
	done    bool
	result  promiseresult.Result[R]
	waiters []func(R, error)
}

func newTaskHandle[R any](h *handle.BaseHandle) *TaskHandle[R] {
	return &TaskHandle[R]{h: h}
}

// StartTask launches body as a new task on sched, running on queue q, and
// returns a handle to observe it. The task begins running immediately, on
// a dedicated goroutine reserved for its entire lifetime (see doc.go for
// why Go's lack of resumable stacks makes this necessary).
func StartTask[R any](sched *Scheduler, q QueueMark, body Launcher[R]) *TaskHandle[R] {
	h := handle.New()
	h.SetQueue(q)
	c := &Coro{h: h, sched: sched}
	th := newTaskHandle[R](h)

	if sched.Closing() {
		h.SetState(handle.Finished)
		var zero R
		th.complete(zero, ErrSchedulerClosed)
		h.FireOnComplete()
		return th
	}

	sched.inflight.Add(1)
	sched.m.Counter("asynccoro.task.started").Add(1)
	h.SetState(handle.Running)

	go func() {
		defer sched.inflight.Done()

		var v R
		var err error
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = newTaskPanicError(r)
					sched.m.Counter("asynccoro.task.panicked").Add(1)
				}
			}()
			v, err = body(c)
		}()

		h.SetState(handle.Finished)
		if err != nil {
			sched.m.Counter("asynccoro.task.failed").Add(1)
		} else {
			sched.m.Counter("asynccoro.task.finished").Add(1)
		}
		th.complete(v, err)
		h.FireOnComplete()
		h.Release()
	}()

	return th
}

func (t *TaskHandle[R]) complete(v R, err error) {
	t.mu.Lock()
	if err != nil {
		t.result = promiseresult.FromError[R](err)
	} else {
		t.result = promiseresult.FromValue(v)
	}
	t.done = true
	waiters := t.waiters
	t.waiters = nil
	t.mu.Unlock()

	for _, w := range waiters {
		w(v, err)
	}
}

// Done reports whether the task has finished (successfully, with an
// error, by cancellation, or by panic).
func (t *TaskHandle[R]) Done() bool {
	return t.h.IsFinished()
}

// IsCancelRequested reports whether RequestCancel has been called on this
// task, regardless of whether it has actually finished yet.
func (t *TaskHandle[R]) IsCancelRequested() bool {
	return t.h.IsCancelRequested()
}

// RequestCancel asks the task to cancel at its next cooperative check
// point (an Await call, or an explicit IsCancelRequested check inside the
// task body). It does not block waiting for the task to actually stop.
func (t *TaskHandle[R]) RequestCancel() {
	t.h.RequestCancel()
}

// Get blocks the calling goroutine until the task finishes and returns its
// result. Intended for use from outside any task body (e.g. an
// application's main goroutine); call Await from inside a task body
// instead, so the awaiting task suspends rather than blocking a
// goroutine.
func (t *TaskHandle[R]) Get() (R, error) {
	t.mu.Lock()
	if t.done {
		res := t.result
		t.mu.Unlock()
		v, _ := res.Value()
		return v, res.Err()
	}
	ch := make(chan awaitResult[R], 1)
	t.waiters = append(t.waiters, func(v R, err error) { ch <- awaitResult[R]{value: v, err: err} })
	t.mu.Unlock()

	res := <-ch
	return res.value, res.err
}

// ContinueWith registers fn to run, from an unspecified goroutine, as soon
// as the task finishes (immediately, inline, if it already has).
func (t *TaskHandle[R]) ContinueWith(fn func(R, error)) {
	t.mu.Lock()
	if t.done {
		res := t.result
		t.mu.Unlock()
		v, _ := res.Value()
		fn(v, res.Err())
		return
	}
	t.waiters = append(t.waiters, fn)
	t.mu.Unlock()
}

// Detach releases interest in the task's result. Unlike the original's
// intrusive-refcounted handle, Go's garbage collector reclaims the
// underlying state once nothing references this TaskHandle, so Detach
// exists only to make that intent explicit at call sites; it performs no
// action.
func (t *TaskHandle[R]) Detach() {}

// Awaiter returns the Awaiter that suspends until this task finishes, for
// use with Await, WhenAll, WhenAny or the And/Or combinators.
func (t *TaskHandle[R]) Awaiter() Awaiter[R] {
	return &taskAwaiter[R]{t: t}
}

type taskAwaiter[R any] struct {
	t *TaskHandle[R]
}

func (a *taskAwaiter[R]) Ready() bool {
	return a.t.Done()
}

func (a *taskAwaiter[R]) Result() (R, error) {
	return a.t.Get()
}

func (a *taskAwaiter[R]) Suspend(resume func(R, error)) {
	a.t.ContinueWith(resume)
}

func (a *taskAwaiter[R]) Cancel() {
	a.t.RequestCancel()
}
