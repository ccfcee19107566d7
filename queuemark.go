package asynccoro

import "github.com/ygrebnov/asynccoro/internal/queuemark"

// QueueMark names one execution queue a task can run on, per spec §3
// "Named execution queues". internal/queuemark.Mark is the canonical
// definition; this alias lets callers outside the module name queues
// without reaching into an internal package.
type QueueMark = queuemark.Mark

// QueueMask is a set of QueueMarks, used to describe which queues a
// worker thread drains.
type QueueMask = queuemark.Mask

// Reserved queue marks every Scheduler provides.
const (
	MainQueue   = queuemark.Main
	WorkerQueue = queuemark.Worker
	AnyQueue    = queuemark.Any

	// FirstUserQueue is the first mark value available for user-defined
	// queues; WithUserQueues reserves them and WithWorkerQueues/
	// WithMainQueues admit them when configuring a Scheduler.
	FirstUserQueue = queuemark.FirstUser
)

// Queues builds a QueueMask containing exactly the given marks.
func Queues(marks ...QueueMark) QueueMask {
	return queuemark.Of(marks...)
}
