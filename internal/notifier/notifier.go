// Package notifier implements the three-state park/unpark primitive worker
// threads use to sleep when every admitted queue is empty, grounded on
// async_coro's thread_notifier.h. Go has no atomic wait/notify on an
// arbitrary integer (std::atomic<T>::wait/notify_one), so the blocking leg
// is built from a buffered channel used as a single-slot semaphore instead
// of a futex; the state machine (idle/sleeping/signalled) is unchanged.
package notifier

import "sync/atomic"

type state int32

const (
	stateIdle state = iota
	stateSleeping
	stateSignalled
)

// Notifier lets exactly one owning goroutine Sleep while any number of
// other goroutines Notify it, without missed wakeups: a Notify that
// happens-before a Sleep call guarantees that Sleep call does not block.
type Notifier struct {
	state atomic.Int32
	wake  chan struct{}
}

// New constructs an idle Notifier.
func New() *Notifier {
	return &Notifier{wake: make(chan struct{}, 1)}
}

// Notify wakes the owning goroutine if it is sleeping, or arms a pending
// signal so the next Sleep call returns immediately without blocking.
func (n *Notifier) Notify() {
	for {
		switch state(n.state.Load()) {
		case stateSleeping:
			if n.state.CompareAndSwap(int32(stateSleeping), int32(stateSignalled)) {
				select {
				case n.wake <- struct{}{}:
				default:
				}
				return
			}
		case stateIdle:
			if n.state.CompareAndSwap(int32(stateIdle), int32(stateSignalled)) {
				return
			}
		case stateSignalled:
			return
		}
	}
}

// Sleep blocks the calling goroutine until Notify is called, unless a
// Notify already arrived since the last Sleep/reset — in that case it
// consumes the pending signal and returns immediately. Must only be called
// by the owning goroutine.
func (n *Notifier) Sleep() {
	if n.state.CompareAndSwap(int32(stateIdle), int32(stateSleeping)) {
		<-n.wake
		n.state.Store(int32(stateIdle))
		return
	}

	// Already signalled: consume it without blocking.
	if n.state.CompareAndSwap(int32(stateSignalled), int32(stateIdle)) {
		return
	}

	// Any other observed state here means a concurrent caller raced us into
	// stateSleeping, which would violate the single-owner contract.
	panic("notifier: Sleep called concurrently or from an unexpected state")
}

// ResetNotification clears a pending signal without sleeping. Must only be
// called by the owning goroutine, and never while sleeping.
func (n *Notifier) ResetNotification() {
	n.state.Store(int32(stateIdle))
}
