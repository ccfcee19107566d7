package handle

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ygrebnov/asynccoro/internal/callback"
	"github.com/ygrebnov/asynccoro/internal/queuemark"
)

func TestBaseHandle_InitialState(t *testing.T) {
	h := New()
	require.Equal(t, Created, h.State())
	require.False(t, h.IsFinished())
	require.False(t, h.IsCancelRequested())
	require.Equal(t, queuemark.Main, h.Queue())
}

func TestBaseHandle_StateTransitions(t *testing.T) {
	h := New()
	h.SetState(Running)
	require.Equal(t, Running, h.State())
	h.SetState(Suspended)
	require.Equal(t, Suspended, h.State())
	h.SetState(Finished)
	require.True(t, h.IsFinished())
}

func TestBaseHandle_RetainRelease(t *testing.T) {
	h := New()
	h.Retain()
	require.False(t, h.Release())
	require.True(t, h.Release())
}

func TestBaseHandle_RequestCancel_FiresInstalledCallback(t *testing.T) {
	h := New()
	var fired bool
	require.True(t, h.InstallOnCancel(callback.New(func() { fired = true })))

	require.True(t, h.RequestCancel())
	require.True(t, fired)
	require.True(t, h.IsCancelRequested())

	// A second request is a no-op.
	require.False(t, h.RequestCancel())
}

func TestBaseHandle_InstallOnCancel_AfterCancel_Fails(t *testing.T) {
	h := New()
	h.RequestCancel()
	ok := h.InstallOnCancel(callback.New(func() {}))
	require.False(t, ok)
}

func TestBaseHandle_OnComplete_FiresOnce(t *testing.T) {
	h := New()
	var calls int
	require.True(t, h.InstallOnComplete(callback.New(func() { calls++ })))
	h.SetState(Finished)
	h.FireOnComplete()
	h.FireOnComplete()
	require.Equal(t, 1, calls)
}

func TestBaseHandle_InstallOnComplete_AfterFinished_Fails(t *testing.T) {
	h := New()
	h.SetState(Finished)
	ok := h.InstallOnComplete(callback.New(func() {}))
	require.False(t, ok)
}

func TestBaseHandle_ParentLink(t *testing.T) {
	parent := New()
	child := New()
	child.SetParent(parent)
	require.Same(t, parent, child.Parent())
}

func TestBaseHandle_QueueAndRunningOn(t *testing.T) {
	h := New()
	h.SetQueue(queuemark.Worker)
	require.Equal(t, queuemark.Worker, h.Queue())

	h.SetRunningOn(42)
	require.Equal(t, int64(42), h.RunningOn())
	h.SetRunningOn(0)
	require.Equal(t, int64(0), h.RunningOn())
}

func TestBaseHandle_RetainRelease_Concurrent(t *testing.T) {
	h := New()
	const n = 64
	for i := 0; i < n; i++ {
		h.Retain()
	}

	var wg sync.WaitGroup
	var lastOnes int32
	var mu sync.Mutex
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if h.Release() {
				mu.Lock()
				lastOnes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int32(0), lastOnes) // original ref from New() is still outstanding
	require.True(t, h.Release())
}
