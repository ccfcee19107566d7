package asynccoro

import "sync"

// MapStream launches body once per item read from in, as they arrive,
// and returns the results and errors channels. Results are emitted in
// input order via an orderedEmitter, regardless of which task actually
// finishes first; both channels close once in is closed and every
// launched task has finished.
//
// Grounded on the teacher's map_stream.go, which forwards items from an
// input channel into wrapped tasks and exposes the Workers' results and
// errors channels; adapted to launch TaskHandles directly and to always
// preserve input order (the teacher made this optional via
// WithPreserveOrder; a streaming coroutine caller has no other way to
// correlate a result back to its originating item, so this keeps it
// unconditional).
func MapStream[T, R any](sched *Scheduler, in <-chan T, body func(c *Coro, item T) (R, error)) (<-chan R, <-chan error) {
	emitter := newOrderedEmitter[R](64)
	errs := make(chan error, 64)

	go func() {
		defer close(emitter.events)
		defer close(errs)
		var wg sync.WaitGroup
		idx := 0
		for item := range in {
			i := idx
			idx++
			item := item
			wg.Add(1)
			h := StartTask(sched, WorkerQueue, func(c *Coro) (R, error) { return body(c, item) })
			go func() {
				defer wg.Done()
				v, err := h.Get()
				if err != nil {
					errs <- &taggedError{err: err, index: i}
					emitter.events <- completionEvent[R]{idx: i, present: false}
					return
				}
				emitter.events <- completionEvent[R]{idx: i, val: v, present: true}
			}()
		}
		wg.Wait()
	}()
	go emitter.run()

	return emitter.out, errs
}
