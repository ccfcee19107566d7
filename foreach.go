package asynccoro

// ForEach launches body once per item on sched and blocks until every
// invocation finishes, returning the errors.Join of whichever failed.
//
// Grounded on the teacher's foreach.go, which wraps each item into an
// error-only task and delegates to RunAll; adapted to wrap into a
// Launcher[struct{}] over TaskHandle instead.
func ForEach[T any](sched *Scheduler, items []T, body func(c *Coro, item T) error) error {
	if len(items) == 0 {
		return nil
	}
	tasks := make([]Launcher[struct{}], len(items))
	for i := range items {
		item := items[i]
		tasks[i] = func(c *Coro) (struct{}, error) { return struct{}{}, body(c, item) }
	}
	_, err := RunAll[struct{}](sched, tasks)
	return err
}
