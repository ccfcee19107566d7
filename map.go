package asynccoro

// Map launches body once per item on sched and blocks until every
// invocation finishes, returning results in input order and the
// errors.Join of whichever failed.
//
// Grounded on the teacher's map.go, which wraps each item into a Task
// and delegates to RunAll; adapted to wrap into a Launcher[R] over
// TaskHandle instead.
func Map[T, R any](sched *Scheduler, items []T, body func(c *Coro, item T) (R, error)) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}
	tasks := make([]Launcher[R], len(items))
	for i := range items {
		item := items[i]
		tasks[i] = func(c *Coro) (R, error) { return body(c, item) }
	}
	return RunAll[R](sched, tasks)
}
