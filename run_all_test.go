package asynccoro_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/asynccoro"
)

func TestRunAll_ReturnsInInputOrder(t *testing.T) {
	sched := newTestScheduler(t)

	tasks := []asynccoro.Launcher[int]{
		func(*asynccoro.Coro) (int, error) { return 1, nil },
		func(*asynccoro.Coro) (int, error) { return 2, nil },
		func(*asynccoro.Coro) (int, error) { return 3, nil },
	}

	res, err := asynccoro.RunAll(sched, tasks)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, res)
}

func TestRunAll_Empty(t *testing.T) {
	sched := newTestScheduler(t)
	res, err := asynccoro.RunAll[int](sched, nil)
	require.NoError(t, err)
	require.Nil(t, res)
}

func TestRunAll_TagsFailingIndex(t *testing.T) {
	sched := newTestScheduler(t)
	boom := errors.New("boom")

	tasks := []asynccoro.Launcher[int]{
		func(*asynccoro.Coro) (int, error) { return 1, nil },
		func(*asynccoro.Coro) (int, error) { return 0, boom },
	}

	_, err := asynccoro.RunAll(sched, tasks)
	require.ErrorIs(t, err, boom)
	idx, ok := asynccoro.ExtractAwaiterIndex(err)
	require.True(t, ok)
	require.Equal(t, 1, idx)
}

func TestForEach_AggregatesErrors(t *testing.T) {
	sched := newTestScheduler(t)

	err := asynccoro.ForEach(sched, []int{1, 2, 3}, func(c *asynccoro.Coro, x int) error {
		if x == 2 {
			return errors.New("bad item")
		}
		return nil
	})
	require.Error(t, err)
}

func TestMap_PreservesInputOrder(t *testing.T) {
	sched := newTestScheduler(t)

	res, err := asynccoro.Map(sched, []int{1, 2, 3}, func(c *asynccoro.Coro, x int) (int, error) {
		return x * x, nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{1, 4, 9}, res)
}
