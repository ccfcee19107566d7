package asynccoro

import (
	"errors"
	"sync"

	"github.com/ygrebnov/asynccoro/internal/handle"
)

// WhenAll suspends until every awaiter resolves, matching spec §4.8's
// when_all combinator. It always waits for all of them, even if one fails
// early; errors are aggregated with errors.Join, each wrapped in a
// taggedError recording which awaiter it came from.
//
// first is required so that the empty case spec §8 disallows ("Empty
// when_all/when_any: disallowed at compile time") is actually a compile
// error here, not a silent no-op.
//
// Grounded on the Suspender (internal/handle/suspender.go, itself
// grounded on coroutine_suspender.h) for the N-decrement resume-on-zero
// bridge, and on the teacher's error_forwarder.go for the
// cancel-the-rest-on-first-error idea (adapted here: a child resolving
// with ErrCancelled makes WhenAll call Cancel on every child still
// pending, and WhenAll still waits for every child to resolve).
func WhenAll[T any](c *Coro, first Awaiter[T], rest ...Awaiter[T]) ([]T, error) {
	awaiters := append([]Awaiter[T]{first}, rest...)
	n := len(awaiters)

	values := make([]T, n)
	errs := make([]error, n)
	resolved := make([]bool, n)
	var mu sync.Mutex
	var pending int

	for i, a := range awaiters {
		if a.Ready() {
			v, err := a.Result()
			values[i] = v
			errs[i] = err
			resolved[i] = true
			continue
		}
		pending++
	}
	if pending == 0 {
		return values, joinTagged(errs)
	}

	done := make(chan struct{}, 1)
	sus := handle.NewSuspender(c.h, int32(pending), func() { done <- struct{}{} })

	for i, a := range awaiters {
		if resolved[i] {
			continue
		}
		i := i
		a.Suspend(func(v T, err error) {
			mu.Lock()
			values[i] = v
			errs[i] = err
			mu.Unlock()
			if errors.Is(err, ErrCancelled) {
				for j, other := range awaiters {
					if j != i && !resolved[j] {
						other.Cancel()
					}
				}
			}
			sus.Decrement()
		})
	}

	c.h.SetState(handle.Suspended)
	<-done
	c.h.SetState(handle.Running)

	mu.Lock()
	defer mu.Unlock()
	return values, joinTagged(errs)
}

func joinTagged(errs []error) error {
	var tagged []error
	for i, err := range errs {
		if err != nil {
			tagged = append(tagged, &taggedError{err: err, index: i})
		}
	}
	if len(tagged) == 0 {
		return nil
	}
	return errors.Join(tagged...)
}

// WhenAnyResult is the outcome of WhenAny: which awaiter resolved first,
// and its value or error.
type WhenAnyResult[T any] struct {
	Index int
	Value T
	Err   error
}

// WhenAny suspends until the first of awaiters resolves, matching spec
// §4.8's when_any combinator, then requests cancellation of every other
// awaiter (they are not waited on further).
//
// first is required so the empty case spec §8 disallows ("Empty
// when_all/when_any: disallowed at compile time") is a compile error
// rather than a call that blocks forever on latch.Wait with nothing ever
// armed to unblock it.
//
// T is shared by every awaiter, so WhenAny cannot express spec §4.8's
// "any" as a variant over heterogeneous child result types (e.g. one
// child returning int and another string) — Go generics have no
// existential/union type to model that without boxing every result into
// `any` and losing static typing for the common same-type case this
// module's combinators are built around. Callers needing a heterogeneous
// when_any can box manually (Awaiter[any] adapters) before calling in;
// WhenAny itself only guarantees the common, statically-typed case.
func WhenAny[T any](c *Coro, first Awaiter[T], rest ...Awaiter[T]) WhenAnyResult[T] {
	awaiters := append([]Awaiter[T]{first}, rest...)
	for i, a := range awaiters {
		if a.Ready() {
			v, err := a.Result()
			for j, other := range awaiters {
				if j != i {
					other.Cancel()
				}
			}
			return WhenAnyResult[T]{Index: i, Value: v, Err: err}
		}
	}

	type winner struct {
		i   int
		v   T
		err error
	}
	latch := newFirstResultLatch[winner]()
	for i, a := range awaiters {
		i, a := i, a
		a.Suspend(func(v T, err error) { latch.Offer(winner{i: i, v: v, err: err}) })
	}

	c.h.SetState(handle.Suspended)
	w := latch.Wait()
	c.h.SetState(handle.Running)

	for j, other := range awaiters {
		if j != w.i {
			other.Cancel()
		}
	}
	return WhenAnyResult[T]{Index: w.i, Value: w.v, Err: w.err}
}

// And suspends until both t and other have finished, matching the
// teacher-adjacent original's task_handle_operators.h "&&" operator.
// Go has no operator-overloading equivalent, so this is exposed as a
// method instead.
func (t *TaskHandle[R]) And(c *Coro, other *TaskHandle[R]) ([]R, error) {
	return WhenAll[R](c, t.Awaiter(), other.Awaiter())
}

// Or suspends until whichever of t and other finishes first, matching the
// original's task_handle_operators.h "||" operator.
func (t *TaskHandle[R]) Or(c *Coro, other *TaskHandle[R]) WhenAnyResult[R] {
	return WhenAny[R](c, t.Awaiter(), other.Awaiter())
}
