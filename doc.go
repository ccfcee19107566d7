// Package asynccoro provides cooperative, coroutine-style concurrency on
// top of goroutines: tasks suspend at explicit await points instead of
// blocking a worker, resume on whichever named execution queue they were
// told to switch to, and compose through when_all/when_any and the and/or
// awaiter combinators.
//
// Scheduler
// NewScheduler(opts ...Option) builds the execution system (see package
// exec) that tasks run on. A scheduler owns a configurable pool of worker
// goroutines plus a "main" queue that the caller drains explicitly with
// Scheduler.UpdateFromMain, the way an application's own event loop would.
//
// Tasks
// StartTask launches a task body (a func(*Coro) (R, error)) and returns a
// TaskHandle[R] for observing completion, requesting cancellation, or
// awaiting the result from another task. Await suspends the calling task
// until the given Awaiter resolves; Cancel, Sleep, SwitchToQueue,
// AwaitCallback, WhenAll and WhenAny are the built-in awaitables.
//
// Translating co_await to Go
// The original this package's design is adapted from represents a
// suspended coroutine as a literal stack frame that can be resumed on any
// thread. Go exposes no equivalent primitive, so each task body runs on
// its own dedicated goroutine for its entire lifetime; Await blocks that
// goroutine on a private channel until the awaited operation's result is
// ready. Queue marks and SwitchToQueue govern where the *resumption* is
// dispatched from (which worker goroutine observes the awaited result and
// unblocks the task), not which OS thread literally executes the
// continuation's bytecode - a deliberate, documented simplification
// (DESIGN.md) licensed by the "futures + executor" mapping this design
// permits.
package asynccoro
