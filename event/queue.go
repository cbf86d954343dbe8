package event

import (
	"errors"
	"sync/atomic"
)

var (
	ErrQueueFull   = errors.New("event queue full")
	ErrQueueClosed = errors.New("event queue closed")
)

// Queue is a bounded FIFO conduit between the simulation components:
// multi-producer, single-consumer. Events come out in the exact order they
// were pushed; that ordering is the only causality guarantee the core makes.
//
// Pop never blocks. In historical replay the driver polls until the queue is
// empty each tick, then advances the feed.
type Queue struct {
	ch     chan Event
	closed atomic.Bool
}

// NewQueue allocates a queue with the given capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 64
	}
	return &Queue{ch: make(chan Event, capacity)}
}

// Push appends an event to the tail without blocking.
func (q *Queue) Push(e Event) error {
	if q.closed.Load() {
		return ErrQueueClosed
	}
	select {
	case q.ch <- e:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pop removes and returns the head event, or ok=false when the queue is
// empty.
func (q *Queue) Pop() (Event, bool) {
	select {
	case e, ok := <-q.ch:
		if !ok {
			return nil, false
		}
		return e, true
	default:
		return nil, false
	}
}

// Len reports the number of queued events.
func (q *Queue) Len() int { return len(q.ch) }

// Close stops the queue from accepting new events. Already-queued events
// remain poppable.
func (q *Queue) Close() {
	if q.closed.CompareAndSwap(false, true) {
		close(q.ch)
	}
}
