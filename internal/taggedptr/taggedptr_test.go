package taggedptr

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaggedPtr_LoadStore(t *testing.T) {
	var x int = 7
	tp := New[int](&x)

	p := tp.Load()
	require.Equal(t, &x, p.Value)
	require.Equal(t, uint32(0), p.Tag)

	var y int = 9
	tp.Store(Pair[int]{Value: &y, Tag: 3})
	p = tp.Load()
	require.Equal(t, &y, p.Value)
	require.Equal(t, uint32(3), p.Tag)
}

func TestTaggedPtr_CompareAndSwap(t *testing.T) {
	var x, y int
	tp := New[int](&x)

	old := tp.Load()
	ok := tp.CompareAndSwap(old, Pair[int]{Value: &y, Tag: old.Tag + 1})
	require.True(t, ok)
	require.Equal(t, &y, tp.Load().Value)
	require.Equal(t, uint32(1), tp.Load().Tag)

	// Stale expectation must fail.
	ok = tp.CompareAndSwap(old, Pair[int]{Value: &x, Tag: 99})
	require.False(t, ok)
	require.Equal(t, &y, tp.Load().Value)
}

func TestTaggedPtr_ABA_DefeatedByTag(t *testing.T) {
	var x int
	tp := New[int](&x)

	snap := tp.Load()
	// Swap out, then back to the same pointer with a bumped tag (simulating
	// an ABA cycle): a CAS expecting the ORIGINAL tag must fail.
	require.True(t, tp.CompareAndSwap(snap, Pair[int]{Value: nil, Tag: snap.Tag + 1}))
	require.True(t, tp.CompareAndSwap(tp.Load(), Pair[int]{Value: &x, Tag: snap.Tag + 2}))

	require.False(t, tp.CompareAndSwap(snap, Pair[int]{Value: nil, Tag: 0}))
}

func TestTaggedPtr_ConcurrentCAS_ExactlyOneWinner(t *testing.T) {
	var a, b int
	tp := New[int](&a)
	start := tp.Load()

	const n = 64
	var wg sync.WaitGroup
	wins := make([]bool, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			wins[i] = tp.CompareAndSwap(start, Pair[int]{Value: &b, Tag: start.Tag + 1})
		}()
	}
	wg.Wait()

	winners := 0
	for _, w := range wins {
		if w {
			winners++
		}
	}
	require.Equal(t, 1, winners, "exactly one CAS from the same starting pair should win")
	require.Equal(t, &b, tp.Load().Value)
}
