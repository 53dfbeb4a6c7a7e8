package input

import "sync/atomic"

// DefaultQueueSize is the command queue capacity used when none is given.
const DefaultQueueSize = 64

// Queue is a bounded multi-producer command queue. Push never blocks:
// commands arriving while the queue is full are dropped and counted.
type Queue struct {
	ch      chan Command
	dropped atomic.Uint64
}

// NewQueue creates a queue holding up to size commands.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan Command, size)}
}

// Push enqueues c, reporting false if the queue was full.
func (q *Queue) Push(c Command) bool {
	select {
	case q.ch <- c:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Drain calls fn for every queued command without waiting for more and
// returns how many were handled.
func (q *Queue) Drain(fn func(Command)) int {
	n := 0
	for {
		select {
		case c := <-q.ch:
			fn(c)
			n++
		default:
			return n
		}
	}
}

// Len returns the number of queued commands.
func (q *Queue) Len() int { return len(q.ch) }

// Dropped returns how many commands were rejected because the queue was full.
func (q *Queue) Dropped() uint64 { return q.dropped.Load() }
