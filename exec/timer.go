package exec

import (
	"container/heap"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ygrebnov/asynccoro/internal/queuemark"
	"github.com/ygrebnov/asynccoro/pool"
)

// TimerID identifies one delayed execution scheduled with
// PlanExecutionAfter, for later cancellation.
type TimerID uint64

type timerItem struct {
	id        TimerID
	deadline  time.Time
	queue     queuemark.Mark
	fn        Func
	cancelled bool
	index     int
}

type timerHeap []*timerItem

func (h timerHeap) Len() int            { return len(h) }
func (h timerHeap) Less(i, j int) bool  { return h[i].deadline.Before(h[j].deadline) }
func (h timerHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *timerHeap) Push(x interface{}) {
	it := x.(*timerItem)
	it.index = len(*h)
	*h = append(*h, it)
}
func (h *timerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// timerSet is the cancellable delayed-execution set backing
// System.PlanExecutionAfter / CancelExecution (spec §4.9). A single
// goroutine sleeps until the next deadline and hands each due item to the
// supplied dispatch function, which re-plans it onto its target queue.
type timerSet struct {
	mu       sync.Mutex
	items    timerHeap
	byID     map[TimerID]*timerItem
	nextID   atomic.Uint64
	wake     chan struct{}
	stopCh   chan struct{}
	dispatch func(queuemark.Mark, Func)
	itemPool pool.Pool
}

func newTimerSet() *timerSet {
	return &timerSet{
		byID:     make(map[TimerID]*timerItem),
		wake:     make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		itemPool: pool.NewDynamic(func() interface{} { return &timerItem{} }),
	}
}

func (t *timerSet) start(dispatch func(queuemark.Mark, Func)) {
	t.dispatch = dispatch
	go t.loop()
}

func (t *timerSet) add(q queuemark.Mark, fn Func, d time.Duration) TimerID {
	id := TimerID(t.nextID.Add(1))
	it := t.itemPool.Get().(*timerItem)
	it.id, it.deadline, it.queue, it.fn, it.cancelled, it.index = id, time.Now().Add(d), q, fn, false, 0

	t.mu.Lock()
	heap.Push(&t.items, it)
	t.byID[id] = it
	t.mu.Unlock()

	t.poke()
	return id
}

func (t *timerSet) cancel(id TimerID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	it, ok := t.byID[id]
	if !ok || it.cancelled {
		return false
	}
	it.cancelled = true
	delete(t.byID, id)
	return true
}

func (t *timerSet) poke() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

func (t *timerSet) stop() {
	close(t.stopCh)
}

func (t *timerSet) loop() {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		t.mu.Lock()
		var wait time.Duration
		if len(t.items) == 0 {
			wait = time.Hour
		} else {
			wait = time.Until(t.items[0].deadline)
			if wait < 0 {
				wait = 0
			}
		}
		t.mu.Unlock()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-t.stopCh:
			return
		case <-t.wake:
			continue
		case <-timer.C:
			t.fireDue()
		}
	}
}

func (t *timerSet) fireDue() {
	now := time.Now()
	var due []*timerItem

	t.mu.Lock()
	for len(t.items) > 0 && !t.items[0].deadline.After(now) {
		it := heap.Pop(&t.items).(*timerItem)
		delete(t.byID, it.id)
		if !it.cancelled {
			due = append(due, it)
		} else {
			t.itemPool.Put(it)
		}
	}
	t.mu.Unlock()

	for _, it := range due {
		t.dispatch(it.queue, it.fn)
		it.fn = nil
		t.itemPool.Put(it)
	}
}
