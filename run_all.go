package asynccoro

import "sync"

// RunAll launches every body in tasks on sched and blocks the calling
// goroutine until all of them finish, returning their results in the
// same order as tasks (regardless of completion order) and the
// errors.Join of every failure, each tagged with its index via
// AwaiterError.
//
// Intended for use from ordinary application code, outside any task
// body; call WhenAll from inside a task body instead, so the awaiting
// task suspends rather than blocking a goroutine.
//
// Grounded on the teacher's run_all.go, which owns a whole Workers
// instance's lifecycle (start, enqueue, drain, close) to run a batch of
// tasks to completion; adapted here to launch directly on an
// already-running Scheduler and collect through TaskHandle.Get instead
// of a dedicated results/errors channel pair. Unlike the teacher's
// completion-order results, these are returned in input order; Map and
// ForEach delegate here and inherit that ordering.
func RunAll[R any](sched *Scheduler, tasks []Launcher[R]) ([]R, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	handles := make([]*TaskHandle[R], len(tasks))
	for i, body := range tasks {
		handles[i] = StartTask(sched, WorkerQueue, body)
	}

	results := make([]R, len(tasks))
	errs := make([]error, len(tasks))
	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for i, h := range handles {
		i, h := i, h
		go func() {
			defer wg.Done()
			v, err := h.Get()
			results[i] = v
			errs[i] = err
		}()
	}
	wg.Wait()

	return results, joinTagged(errs)
}
