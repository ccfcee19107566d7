package asynccoro_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/asynccoro"
)

func TestGetScheduler_ReturnsOwningScheduler(t *testing.T) {
	sched := newTestScheduler(t)

	h := asynccoro.StartTask(sched, asynccoro.WorkerQueue, func(c *asynccoro.Coro) (bool, error) {
		return asynccoro.GetScheduler(c) == sched, nil
	})

	same, err := h.Get()
	require.NoError(t, err)
	require.True(t, same)
}

func TestSleep_ResumesAfterDuration(t *testing.T) {
	sched := newTestScheduler(t)

	start := time.Now()
	h := asynccoro.StartTask(sched, asynccoro.WorkerQueue, func(c *asynccoro.Coro) (time.Duration, error) {
		if err := asynccoro.Sleep(c, 10*time.Millisecond); err != nil {
			return 0, err
		}
		return time.Since(start), nil
	})

	elapsed, err := h.Get()
	require.NoError(t, err)
	require.GreaterOrEqual(t, elapsed, 10*time.Millisecond)
}

func TestSwitchToQueue_MovesToTargetQueue(t *testing.T) {
	sched := newTestScheduler(t)

	h := asynccoro.StartTask(sched, asynccoro.MainQueue, func(c *asynccoro.Coro) (asynccoro.QueueMark, error) {
		if err := asynccoro.SwitchToQueue(c, asynccoro.WorkerQueue); err != nil {
			return 0, err
		}
		return c.Queue(), nil
	})

	q, err := h.Get()
	require.NoError(t, err)
	require.Equal(t, asynccoro.WorkerQueue, q)
}

func TestAwaitCallback_DeliversValue(t *testing.T) {
	sched := newTestScheduler(t)

	h := asynccoro.StartTask(sched, asynccoro.WorkerQueue, func(c *asynccoro.Coro) (string, error) {
		return asynccoro.AwaitCallback[string](c, func(resume func(string, error)) {
			go resume("hello", nil)
		}, nil)
	})

	v, err := h.Get()
	require.NoError(t, err)
	require.Equal(t, "hello", v)
}

func TestAwaitCallback_InvokesOnCancel(t *testing.T) {
	sched := newTestScheduler(t)

	started := make(chan struct{})
	var cancelledUnderlying bool
	h := asynccoro.StartTask(sched, asynccoro.WorkerQueue, func(c *asynccoro.Coro) (string, error) {
		return asynccoro.AwaitCallback[string](c, func(resume func(string, error)) {
			close(started)
			// resume is never called; cancellation must still unblock Await.
		}, func() { cancelledUnderlying = true })
	})

	<-started
	h.RequestCancel()

	_, err := h.Get()
	require.ErrorIs(t, err, asynccoro.ErrCancelled)
	require.True(t, cancelledUnderlying)
}

func TestWhenAny_ComposesWithCancelAfterTimeAwaiter(t *testing.T) {
	sched := newTestScheduler(t)

	cancelled := make(chan struct{}, 1)
	infinite := asynccoro.StartTask(sched, asynccoro.WorkerQueue, func(c *asynccoro.Coro) (struct{}, error) {
		for {
			if err := asynccoro.Sleep(c, time.Millisecond); err != nil {
				cancelled <- struct{}{}
				return struct{}{}, err
			}
		}
	})

	h := asynccoro.StartTask(sched, asynccoro.WorkerQueue, func(c *asynccoro.Coro) (int, error) {
		res := asynccoro.WhenAny(c, infinite.Awaiter(), asynccoro.CancelAfterTimeAwaiter(c, 20*time.Millisecond))
		return res.Index, nil
	})

	idx, err := h.Get()
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	select {
	case <-cancelled:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("infinite task was never cancelled by losing the race")
	}
}

func TestScheduler_ExecuteAfterTime_CancelPreventsRun(t *testing.T) {
	sched := newTestScheduler(t)

	ran := make(chan struct{}, 1)
	cancel := sched.ExecuteAfterTime(func() { ran <- struct{}{} }, asynccoro.WorkerQueue, 20*time.Millisecond)
	require.True(t, cancel())

	select {
	case <-ran:
		t.Fatal("fn ran despite being cancelled")
	case <-time.After(40 * time.Millisecond):
	}
}
