package asynccoro

import "sync"

// RunStream launches each body read from in, as they arrive, and
// returns the results and errors channels, results in input order.
// Both channels close once in is closed and every launched task has
// finished.
//
// Grounded on the teacher's run_stream.go, which forwards Task values
// from an input channel into a Workers instance and exposes its results
// and errors channels; adapted to launch TaskHandles directly via
// StartTask and order results with an orderedEmitter.
func RunStream[R any](sched *Scheduler, in <-chan Launcher[R]) (<-chan R, <-chan error) {
	emitter := newOrderedEmitter[R](64)
	errs := make(chan error, 64)

	go func() {
		defer close(emitter.events)
		defer close(errs)
		var wg sync.WaitGroup
		idx := 0
		for body := range in {
			i := idx
			idx++
			body := body
			wg.Add(1)
			h := StartTask(sched, WorkerQueue, body)
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
