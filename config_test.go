package asynccoro_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/asynccoro"
	"github.com/ygrebnov/asynccoro/metrics"
)

func TestWithNumWorkers_ConfiguresWorkerCount(t *testing.T) {
	sched, err := asynccoro.NewScheduler(asynccoro.WithNumWorkers(3))
	require.NoError(t, err)
	defer sched.Close()

	require.Equal(t, 3, sched.NumWorkerThreads())
}

func TestWithUserQueues_AdmitsAdditionalMarks(t *testing.T) {
	sched, err := asynccoro.NewScheduler(
		asynccoro.WithUserQueues(2),
		asynccoro.WithWorkerQueues(asynccoro.Queues(asynccoro.WorkerQueue, asynccoro.FirstUserQueue)),
	)
	require.NoError(t, err)
	defer sched.Close()

	require.Greater(t, sched.NumWorkersForQueue(asynccoro.FirstUserQueue), 0)
}

func TestWithMetrics_IsWiredIntoScheduler(t *testing.T) {
	p := metrics.NewBasicProvider()
	sched, err := asynccoro.NewScheduler(asynccoro.WithMetrics(p))
	require.NoError(t, err)
	defer sched.Close()

	h := asynccoro.StartTask(sched, asynccoro.WorkerQueue, func(*asynccoro.Coro) (int, error) { return 1, nil })
	_, _ = h.Get()

	require.Equal(t, int64(1), p.Counter("asynccoro.task.started").(*metrics.BasicCounter).Snapshot())
}
