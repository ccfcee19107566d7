package asynccoro

import "sync"

// ForEachStream launches body once per item read from in, as they
// arrive, and returns a channel of per-item failures. The channel closes
// once in is closed and every launched task has finished.
//
// Grounded on the teacher's foreach_stream.go, which forwards items from
// an input channel into wrapped error-only tasks and exposes the
// Workers' errors channel; adapted to launch TaskHandles directly
// instead of going through a Workers instance.
func ForEachStream[T any](sched *Scheduler, in <-chan T, body func(c *Coro, item T) error) <-chan error {
	errs := make(chan error, 64)
	go func() {
		defer close(errs)
		var wg sync.WaitGroup
		for item := range in {
			item := item
			wg.Add(1)
			h := StartTask(sched, WorkerQueue, func(c *Coro) (struct{}, error) {
				return struct{}{}, body(c, item)
			})
			go func() {
				defer wg.Done()
				if _, err := h.Get(); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
	}()
	return errs
}
