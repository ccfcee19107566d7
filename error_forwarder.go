package asynccoro

import "sync"

// firstResultLatch accepts results from N concurrent sources and delivers
// exactly the first one to arrive; every later arrival is dropped. It
// backs WhenAny's "first awaiter to resolve wins" semantics.
//
// Grounded on the teacher's error_forwarder.go, which forwards exactly
// one error out of many concurrent worker failures and drops the rest;
// adapted here from a cancel-then-forward-one-error shape into a
// forward-one-result shape for awaiter completions.
type firstResultLatch[T any] struct {
	once sync.Once
	out  chan T
}

func newFirstResultLatch[T any]() *firstResultLatch[T] {
	return &firstResultLatch[T]{out: make(chan T, 1)}
}

// Offer delivers v if nothing has been delivered yet; later offers are
// dropped silently.
func (f *firstResultLatch[T]) Offer(v T) {
	f.once.Do(func() { f.out <- v })
}

// Wait blocks until the first Offer, returning its value.
func (f *firstResultLatch[T]) Wait() T {
	return <-f.out
}
