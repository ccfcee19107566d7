package exec

import (
	"context"

	"github.com/ygrebnov/asynccoro/internal/notifier"
	"github.com/ygrebnov/asynccoro/internal/queuemark"
)

// worker is one dedicated execution-system goroutine. It repeatedly drains
// its admitted queues in fixed-priority order (lowest queuemark.Mark
// first), parking on its notifier whenever all of them are empty.
type worker struct {
	id       int
	name     string
	mask     queuemark.Mask
	order    []queuemark.Mark
	token    int64
	notifier *notifier.Notifier
	local    *LocalData
	sys      *System
}

func (w *worker) run() {
	defer w.sys.wg.Done()

	id := WorkerIdentity{Token: w.token, Name: w.name, Mask: w.mask}
	ctx := withWorker(context.Background(), id)

	for {
		fn, ok := w.pop()
		if ok {
			fn(ctx)
			continue
		}
		if w.sys.stopping.Load() {
			if fn, ok := w.pop(); ok {
				fn(ctx)
				continue
			}
			return
		}
		w.notifier.Sleep()
	}
}

func (w *worker) pop() (Func, bool) {
	for _, q := range w.order {
		if fn, ok := w.sys.queueFor(q).TryPop(); ok {
			return fn, true
		}
	}
	return nil, false
}
