// Package exec implements the execution system described in spec §3 and
// §4.1-§4.2: a set of named FIFO execution queues, a fixed-priority-order
// worker pool that drains whichever queues it is admitted to, a pumped
// main-thread queue, and a cancellable delayed-execution timer set.
//
// Grounded on async_coro's include/async_coro/execution_system.h,
// execution_queue_mark.h and internal/execution_queue.h, translated to Go
// idiom per spec §9: goroutines stand in for OS worker threads, and
// "current thread" identity is threaded explicitly through
// context.Context rather than relied upon implicitly, since Go exposes no
// public thread-local storage.
package exec

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ygrebnov/asynccoro/internal/notifier"
	"github.com/ygrebnov/asynccoro/internal/queue"
	"github.com/ygrebnov/asynccoro/internal/queuemark"
	"github.com/ygrebnov/asynccoro/metrics"
)

// Func is a planned unit of execution: one step of a coroutine's
// continuation, a timer firing, or any other callback the scheduler hands
// to the execution system. It receives the context of the worker (or main
// thread) running it, carrying that runner's WorkerIdentity.
type Func func(ctx context.Context)

// ThreadConfig describes one worker thread: its diagnostic name and the
// set of queues it is admitted to drain, in descending priority (lowest
// queuemark.Mark value drained first).
type ThreadConfig struct {
	Name   string
	Queues queuemark.Mask
}

// Config configures a System.
type Config struct {
	// Workers lists the worker threads to start. Order is preserved for
	// diagnostics only.
	Workers []ThreadConfig

	// MainQueues is the set of queues UpdateFromMain drains; the caller's
	// own thread acts as this "main" worker.
	MainQueues queuemark.Mask

	// NumQueues bounds how many named queues exist, including the
	// reserved Main/Worker/Any markers. Values below queuemark.FirstUser
	// are raised to it; a user queue mark q is usable only if NumQueues > q.
	NumQueues int

	// Metrics, if non-nil, receives execution-system instrumentation.
	// A metrics.NoopProvider is used when nil.
	Metrics metrics.Provider
}

type workerIdentityKey struct{}

// WorkerIdentity identifies the goroutine currently running a Func: either
// a dedicated worker thread, or the caller of UpdateFromMain acting as the
// main thread.
type WorkerIdentity struct {
	Token int64
	Name  string
	Mask  queuemark.Mask
}

// CurrentWorker extracts the WorkerIdentity of whoever is running ctx, if
// any. Funcs invoked by a System always carry one.
func CurrentWorker(ctx context.Context) (WorkerIdentity, bool) {
	id, ok := ctx.Value(workerIdentityKey{}).(WorkerIdentity)
	return id, ok
}

func withWorker(ctx context.Context, id WorkerIdentity) context.Context {
	return context.WithValue(ctx, workerIdentityKey{}, id)
}

// System is the running execution system: NumQueues FIFOs, a worker pool
// draining them in fixed-priority order, and a timer set for delayed
// execution.
type System struct {
	cfg        Config
	queues     []*queue.Queue[Func]
	workers    []*worker
	mainQueues queuemark.Mask
	mainOrder  []queuemark.Mark
	mainLocal  *LocalData
	mainToken  int64

	tokenSeq atomic.Int64
	stopping atomic.Bool
	wg       sync.WaitGroup

	timers *timerSet
	m      metrics.Provider
}

// New builds and starts a System from cfg. Workers begin running
// immediately; call Close to stop them.
func New(cfg Config) (*System, error) {
	if cfg.NumQueues < int(queuemark.FirstUser) {
		cfg.NumQueues = int(queuemark.FirstUser)
	}
	if cfg.NumQueues > queuemark.MaxQueues {
		return nil, fmt.Errorf("exec: NumQueues %d exceeds max %d", cfg.NumQueues, queuemark.MaxQueues)
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NoopProvider{}
	}

	s := &System{
		cfg:        cfg,
		queues:     make([]*queue.Queue[Func], cfg.NumQueues),
		mainQueues: cfg.MainQueues,
		mainLocal:  newLocalData(),
		timers:     newTimerSet(),
		m:          cfg.Metrics,
	}
	for i := range s.queues {
		s.queues[i] = queue.New[Func]()
	}
	s.mainToken = s.tokenSeq.Add(1)
	s.mainOrder = priorityOrder(cfg.MainQueues, cfg.NumQueues)

	s.timers.start(func(q queuemark.Mark, fn Func) {
		s.PlanExecution(fn, q)
	})

	for i, wc := range cfg.Workers {
		w := &worker{
			id:       i,
			name:     wc.Name,
			mask:     wc.Queues,
			order:    priorityOrder(wc.Queues, cfg.NumQueues),
			token:    s.tokenSeq.Add(1),
			notifier: notifier.New(),
			local:    newLocalData(),
			sys:      s,
		}
		s.workers = append(s.workers, w)
		s.wg.Add(1)
		go w.run()
	}
	return s, nil
}

func priorityOrder(mask queuemark.Mask, numQueues int) []queuemark.Mark {
	var order []queuemark.Mark
	for q := 0; q < numQueues; q++ {
		if mask.Contains(queuemark.Mark(q)) {
			order = append(order, queuemark.Mark(q))
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	return order
}

func (s *System) queueFor(q queuemark.Mark) *queue.Queue[Func] {
	return s.queues[int(q)]
}

// PlanExecution enqueues fn onto queue q without attempting to run it
// inline, waking any idle worker admitted to q. Matches spec §4.1
// plan_execution.
func (s *System) PlanExecution(fn Func, q queuemark.Mark) {
	s.queueFor(q).Push(fn)
	s.m.Counter("asynccoro.exec.planned").Add(1)
	s.wakeFor(q)
}

// ExecuteOrPlanExecution runs fn synchronously if the calling context is
// already admitted to queue q, otherwise plans it for later execution on
// q. Matches spec §4.1 execute_or_plan_execution.
func (s *System) ExecuteOrPlanExecution(ctx context.Context, fn Func, q queuemark.Mark) {
	if s.IsCurrentThreadFits(ctx, q) {
		fn(ctx)
		return
	}
	s.PlanExecution(fn, q)
}

// IsCurrentThreadFits reports whether ctx's runner is admitted to queue q.
func (s *System) IsCurrentThreadFits(ctx context.Context, q queuemark.Mark) bool {
	id, ok := CurrentWorker(ctx)
	if !ok {
		return false
	}
	return id.Mask.Contains(q)
}

// PlanExecutionAfter schedules fn to run on queue q once d elapses,
// returning a TimerID that CancelExecution can use to cancel it before it
// fires. Matches spec §4.9 execute_after_time / cancel_after_time.
func (s *System) PlanExecutionAfter(fn Func, q queuemark.Mark, d time.Duration) TimerID {
	return s.timers.add(q, fn, d)
}

// CancelExecution cancels a previously scheduled delayed execution,
// reporting whether it was still pending (false if it already fired or
// was already cancelled).
func (s *System) CancelExecution(id TimerID) bool {
	return s.timers.cancel(id)
}

// UpdateFromMain drains every queue the main thread is admitted to,
// running each planned Func synchronously on the calling goroutine, until
// none remain. It does not block waiting for new work; callers typically
// invoke it from their own event loop (spec §4.1 update_from_main).
func (s *System) UpdateFromMain(ctx context.Context) int {
	id := WorkerIdentity{Token: s.mainToken, Name: "main", Mask: s.mainQueues}
	ctx = withWorker(ctx, id)

	n := 0
	for {
		ran := false
		for _, q := range s.mainOrder {
			if fn, ok := s.queueFor(q).TryPop(); ok {
				fn(ctx)
				n++
				ran = true
				break
			}
		}
		if !ran {
			return n
		}
	}
}

// NumWorkerThreads returns the number of dedicated worker goroutines.
func (s *System) NumWorkerThreads() int {
	return len(s.workers)
}

// NumWorkersForQueue returns how many workers are admitted to drain q.
func (s *System) NumWorkersForQueue(q queuemark.Mark) int {
	n := 0
	for _, w := range s.workers {
		if w.mask.Contains(q) {
			n++
		}
	}
	return n
}

// Local returns the exec-local data store for whichever worker ctx
// belongs to, or the main-thread store if ctx carries no worker identity.
func (s *System) Local(ctx context.Context) *LocalData {
	id, ok := CurrentWorker(ctx)
	if !ok || id.Token == s.mainToken {
		return s.mainLocal
	}
	for _, w := range s.workers {
		if w.token == id.Token {
			return w.local
		}
	}
	return s.mainLocal
}

func (s *System) wakeFor(q queuemark.Mark) {
	for _, w := range s.workers {
		if w.mask.Contains(q) {
			w.notifier.Notify()
		}
	}
}

// Close stops all worker threads once their current queues are drained,
// and stops the timer goroutine. Timers still pending at that point never
// fire; they are not marked cancelled, so CancelExecution still reports
// true for them.
func (s *System) Close() error {
	if !s.stopping.CompareAndSwap(false, true) {
		return nil
	}
	for _, w := range s.workers {
		w.notifier.Notify()
	}
	s.wg.Wait()
	s.timers.stop()
	return nil
}
