// Package queuemark defines the execution-queue identifiers shared by the
// execution system and the task/promise state machine (spec §3 "Named
// execution queues" and §4.5). A queue mark names one FIFO inside the
// execution system; a mask is a set of marks, used to describe which
// queues a worker thread is admitted to drain.
//
// Grounded on async_coro's execution_queue_mark.h, which defines the same
// three reserved markers (main_queue, worker_queue, any_queue) plus
// user-defined marks allocated contiguously above them.
package queuemark

// Mark identifies one named execution queue.
type Mark uint8

// Reserved markers every execution system provides, per spec §3.
const (
	Main Mark = iota
	Worker
	Any

	// FirstUser is the first mark value available for user-defined queues.
	FirstUser
)

// MaxQueues is the largest number of queues a single execution system can
// host: Mask is a 64-bit bitset, one bit per mark.
const MaxQueues = 64

// Mask is a bitset of Marks, used to describe a worker's admitted queues.
type Mask uint64

// Of builds a Mask containing exactly the given marks.
func Of(marks ...Mark) Mask {
	var m Mask
	for _, mk := range marks {
		m |= m.bit(mk)
	}
	return m
}

func (Mask) bit(mk Mark) Mask {
	return 1 << Mask(mk)
}

// Contains reports whether mk is a member of the mask.
func (m Mask) Contains(mk Mark) bool {
	return m&(1<<Mask(mk)) != 0
}

// With returns a copy of m with mk added.
func (m Mask) With(mk Mark) Mask {
	return m | (1 << Mask(mk))
}

// Empty reports whether the mask admits no queues.
func (m Mask) Empty() bool {
	return m == 0
}
