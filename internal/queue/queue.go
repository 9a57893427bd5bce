// Package queue carries work items from the producer to the fetch workers.
//
// The queue is a buffered channel whose capacity is the backpressure
// threshold: Put parks the producer while the queue is full instead of
// spinning, and resumes as soon as a worker takes an item.
package queue

import (
	"context"
	"sync/atomic"
)

// Item is either a target to fetch or a shutdown marker. The zero value is
// an empty target, never a marker.
type Item struct {
	target   string
	shutdown bool
}

// Target returns the item's target.
func Target(t string) Item {
	return Item{target: t}
}

// Target returns the target to fetch. It is empty for shutdown markers.
func (i Item) Target() string {
	return i.target
}

// IsShutdown reports whether the item tells a worker to stop.
func (i Item) IsShutdown() bool {
	return i.shutdown
}

// Stats is a point-in-time view of queue activity.
type Stats struct {
	Enqueued int64 `json:"enqueued"`
	Dequeued int64 `json:"dequeued"`
	Markers  int64 `json:"markers"`
	Depth    int   `json:"depth"`
}

// Queue is a bounded FIFO safe for one producer and many consumers.
type Queue struct {
	items    chan Item
	enqueued atomic.Int64
	dequeued atomic.Int64
	markers  atomic.Int64
}

// New creates a queue holding at most capacity items. Capacity below one is
// raised to one.
func New(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{items: make(chan Item, capacity)}
}

// Put enqueues a target, blocking while the queue is full. It returns the
// context error if ctx ends first; the target is then dropped.
func (q *Queue) Put(ctx context.Context, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.items <- Target(target):
		q.enqueued.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown enqueues exactly n shutdown markers, one per worker. It blocks
// until all are queued and cannot be cancelled.
func (q *Queue) Shutdown(n int) {
	for i := 0; i < n; i++ {
		q.items <- Item{shutdown: true}
		q.markers.Add(1)
	}
}

// Get blocks until an item is available and returns it.
func (q *Queue) Get() Item {
	item := <-q.items
	if !item.shutdown {
		q.dequeued.Add(1)
	}
	return item
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	return len(q.items)
}

// Cap returns the backpressure threshold.
func (q *Queue) Cap() int {
	return cap(q.items)
}

// Stats returns the counters observed so far. Dequeued counts targets only.
func (q *Queue) Stats() Stats {
	return Stats{
		Enqueued: q.enqueued.Load(),
		Dequeued: q.dequeued.Load(),
		Markers:  q.markers.Load(),
		Depth:    len(q.items),
	}
}
