package asynccoro

import (
	"runtime"

	"github.com/ygrebnov/asynccoro/exec"
	"github.com/ygrebnov/asynccoro/internal/queuemark"
	"github.com/ygrebnov/asynccoro/metrics"
)

// config holds Scheduler configuration, built through defaultConfig and the
// With* options below. Mirrors the teacher's own functional-options
// config/defaults/options split, collapsed into one file since the option
// set is small.
type config struct {
	workerQueues    QueueMask
	numWorkers      int
	mainQueues      QueueMask
	numUserQueues   int
	workerNames     []string
	metricsProvider metrics.Provider
}

// Option mutates a config. Invalid options are reported by NewScheduler at
// construction time rather than when the option is applied.
type Option func(*config) error

// defaultConfig centralizes default values: one worker goroutine per
// available CPU, all admitted to WorkerQueue and AnyQueue, and the main
// thread admitted to MainQueue and AnyQueue.
func defaultConfig() config {
	return config{
		workerQueues: Queues(WorkerQueue, AnyQueue),
		numWorkers:   runtime.GOMAXPROCS(0),
		mainQueues:   Queues(MainQueue, AnyQueue),
	}
}

// WithNumWorkers overrides the number of worker goroutines. n must be >= 0;
// zero means a scheduler with no dedicated workers, where only
// Scheduler.UpdateFromMain drains any queues at all.
func WithNumWorkers(n int) Option {
	return func(c *config) error {
		if n < 0 {
			return ErrInvalidConfig
		}
		c.numWorkers = n
		return nil
	}
}

// WithWorkerQueues overrides which queues worker goroutines are admitted
// to drain.
func WithWorkerQueues(mask QueueMask) Option {
	return func(c *config) error {
		if mask.Empty() {
			return ErrInvalidConfig
		}
		c.workerQueues = mask
		return nil
	}
}

// WithMainQueues overrides which queues Scheduler.UpdateFromMain drains.
func WithMainQueues(mask QueueMask) Option {
	return func(c *config) error {
		c.mainQueues = mask
		return nil
	}
}

// WithUserQueues reserves n additional named queues above the reserved
// Main/Worker/Any markers, for use with SwitchToQueue.
func WithUserQueues(n int) Option {
	return func(c *config) error {
		if n < 0 {
			return ErrInvalidConfig
		}
		c.numUserQueues = n
		return nil
	}
}

// WithWorkerNames assigns diagnostic names to worker goroutines, in
// order. Workers beyond len(names) are named "worker".
func WithWorkerNames(names ...string) Option {
	return func(c *config) error {
		c.workerNames = names
		return nil
	}
}

// WithMetrics attaches a metrics.Provider the scheduler and its execution
// system report instrumentation to. A metrics.NoopProvider is used if this
// option is never applied.
func WithMetrics(p metrics.Provider) Option {
	return func(c *config) error {
		if p == nil {
			return ErrInvalidConfig
		}
		c.metricsProvider = p
		return nil
	}
}

func (c config) toExecConfig() exec.Config {
	workers := make([]exec.ThreadConfig, c.numWorkers)
	for i := range workers {
		name := "worker"
		if i < len(c.workerNames) {
			name = c.workerNames[i]
		}
		workers[i] = exec.ThreadConfig{Name: name, Queues: c.workerQueues}
	}
	return exec.Config{
		Workers:    workers,
		MainQueues: c.mainQueues,
		NumQueues:  int(queuemark.FirstUser) + c.numUserQueues,
		Metrics:    c.metricsProvider,
	}
}
