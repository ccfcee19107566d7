package asynccoro

import (
	"context"
	"sync"

	"github.com/ygrebnov/asynccoro/exec"
	"github.com/ygrebnov/asynccoro/metrics"
)

// Scheduler owns the execution system tasks run on: a pool of worker
// goroutines, a main-thread queue the embedding application drains with
// UpdateFromMain, and the timer set backing Sleep/CancelAfterTime.
//
// Grounded on the teacher's top-level Workers type (workers.go): a
// configurable pool constructed through functional options, with a
// once-guarded Close coordinating graceful shutdown (lifecycle.go).
type Scheduler struct {
	sys      *exec.System
	m        metrics.Provider
	inflight sync.WaitGroup
	lc       *lifecycleCoordinator
}

// NewScheduler builds a Scheduler from the default configuration plus any
// supplied options, and starts its worker goroutines immediately.
func NewScheduler(opts ...Option) (*Scheduler, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.metricsProvider == nil {
		cfg.metricsProvider = metrics.NoopProvider{}
	}

	sys, err := exec.New(cfg.toExecConfig())
	if err != nil {
		return nil, err
	}

	s := &Scheduler{sys: sys, m: cfg.metricsProvider}
	s.lc = newLifecycleCoordinator(&s.inflight, nil, sys.Close)
	return s, nil
}

// UpdateFromMain drains every queue the main thread is admitted to,
// running each planned continuation synchronously on the calling
// goroutine until none remain. Applications with their own event loop
// (UI frame tick, HTTP request loop, ...) call this periodically to pump
// MainQueue-bound continuations. Matches spec §4.1 update_from_main.
func (s *Scheduler) UpdateFromMain(ctx context.Context) int {
	return s.sys.UpdateFromMain(ctx)
}

// NumWorkerThreads returns the number of dedicated worker goroutines.
func (s *Scheduler) NumWorkerThreads() int {
	return s.sys.NumWorkerThreads()
}

// NumWorkersForQueue returns how many workers are admitted to drain q.
func (s *Scheduler) NumWorkersForQueue(q QueueMark) int {
	return s.sys.NumWorkersForQueue(q)
}

// Closing reports whether Close has been called.
func (s *Scheduler) Closing() bool {
	return s.lc.Closing()
}

// Close stops admitting new tasks, waits for every in-flight task to
// finish, then stops the worker pool and timer goroutine. Safe to call
// more than once; later calls return the first call's result.
func (s *Scheduler) Close() error {
	return s.lc.Close()
}

func (s *Scheduler) metricsProvider() metrics.Provider {
	return s.m
}
