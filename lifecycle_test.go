package asynccoro

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLifecycleCoordinator_RunsSequenceOnce(t *testing.T) {
	var inflight sync.WaitGroup
	var stopped, closed int

	lc := newLifecycleCoordinator(&inflight, func() { stopped++ }, func() error { closed++; return nil })

	require.False(t, lc.Closing())
	require.NoError(t, lc.Close())
	require.NoError(t, lc.Close())

	require.Equal(t, 1, stopped)
	require.Equal(t, 1, closed)
	require.True(t, lc.Closing())
}

func TestLifecycleCoordinator_WaitsForInflight(t *testing.T) {
	var inflight sync.WaitGroup
	inflight.Add(1)

	lc := newLifecycleCoordinator(&inflight, func() {}, func() error { return nil })

	done := make(chan error, 1)
	go func() { done <- lc.Close() }()

	select {
	case <-done:
		t.Fatal("Close returned before inflight.Wait unblocked")
	default:
	}

	inflight.Done()
	require.NoError(t, <-done)
}

func TestLifecycleCoordinator_PropagatesCloseExecError(t *testing.T) {
	var inflight sync.WaitGroup
	boom := errors.New("boom")

	lc := newLifecycleCoordinator(&inflight, func() {}, func() error { return boom })
	require.ErrorIs(t, lc.Close(), boom)
}
