package callback

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCallback_FiresExactlyOnce(t *testing.T) {
	var calls int
	c := New(func() { calls++ })

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Fire()
		}()
	}
	wg.Wait()

	require.Equal(t, 1, calls)
	require.True(t, c.Fired())
}

func TestCallback_Discard_PreventsFire(t *testing.T) {
	var called bool
	c := New(func() { called = true })
	c.Discard()
	c.Fire()
	require.False(t, called)
	require.True(t, c.Fired())
}

func TestCancelSlot_InstallThenCancel_FiresInstalled(t *testing.T) {
	var s CancelSlot
	var fired bool
	ok := s.Install(New(func() { fired = true }))
	require.True(t, ok)

	cb := s.Cancel()
	require.NotNil(t, cb)
	cb.Fire()
	require.True(t, fired)
	require.True(t, s.IsCancelled())
}

func TestCancelSlot_InstallAfterCancel_Fails(t *testing.T) {
	var s CancelSlot
	require.Nil(t, s.Cancel()) // nothing installed yet
	ok := s.Install(New(func() {}))
	require.False(t, ok, "install must fail once the slot is cancelled")
}

func TestCancelSlot_CancelTwice_OnlyFirstReturnsCallback(t *testing.T) {
	var s CancelSlot
	_ = s.Install(New(func() {}))
	first := s.Cancel()
	second := s.Cancel()
	require.NotNil(t, first)
	require.Nil(t, second)
}

func TestCancelSlot_Clear_RemovesWithoutCancelling(t *testing.T) {
	var s CancelSlot
	var fired bool
	_ = s.Install(New(func() { fired = true }))
	cb := s.Clear()
	require.NotNil(t, cb)
	require.False(t, s.IsCancelled())

	// Slot is free again; a new install should succeed.
	ok := s.Install(New(func() {}))
	require.True(t, ok)
	require.False(t, fired)
}
