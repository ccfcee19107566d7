package asynccoro

import (
	"sync"
	"sync/atomic"
)

// lifecycleCoordinator encapsulates a Scheduler's shutdown sequence: stop
// admitting new tasks, wait for in-flight task goroutines to finish, then
// close the underlying execution system. Close is safe for concurrent
// calls; the sequence executes exactly once.
//
// Grounded on the teacher's own lifecycle.go, which orchestrates an
// analogous cancel/wait/drain/close sequence for its worker pool via a
// single sync.Once-guarded Close.
type lifecycleCoordinator struct {
	inflight   *sync.WaitGroup
	closeExec  func() error
	stopAdmits func()

	once    sync.Once
	closing atomic.Bool
	closed  chan struct{}
	err     error
}

func newLifecycleCoordinator(inflight *sync.WaitGroup, stopAdmits func(), closeExec func() error) *lifecycleCoordinator {
	return &lifecycleCoordinator{
		inflight:   inflight,
		closeExec:  closeExec,
		stopAdmits: stopAdmits,
		closed:     make(chan struct{}),
	}
}

// Close executes the shutdown sequence exactly once:
//  1. stop admitting new tasks
//  2. wait for every in-flight task goroutine to finish
//  3. close the execution system (stops worker goroutines and the timer)
func (lc *lifecycleCoordinator) Close() error {
	lc.once.Do(func() {
		lc.closing.Store(true)
		if lc.stopAdmits != nil {
			lc.stopAdmits()
		}
		if lc.inflight != nil {
			lc.inflight.Wait()
		}
		if lc.closeExec != nil {
			lc.err = lc.closeExec()
		}
		close(lc.closed)
	})
	<-lc.closed
	return lc.err
}

// Closing reports whether Close has been called, even if the shutdown
// sequence has not finished running yet. New tasks should be rejected as
// soon as this is true.
func (lc *lifecycleCoordinator) Closing() bool {
	return lc.closing.Load()
}
