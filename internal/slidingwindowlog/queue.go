// Package slidingwindowlog implements the core of the sliding window log
// rate limiting algorithm: a FIFO of request timestamps per tenant and the
// admission engine that evicts aged entries and decides admit/reject.
//
// The types in this package are not safe for concurrent use. The inmemory
// subpackage wraps them with per-tenant locking; single-goroutine callers can
// use Log directly.
package slidingwindowlog

import "github.com/gammazero/deque"

// Queue is a FIFO of request timestamps in milliseconds since the Unix
// epoch. Head is the oldest entry, tail the newest; entries are
// non-decreasing from head to tail because every timestamp is enqueued after
// all prior evictions under single-writer-per-tenant discipline.
//
// The zero value is an empty queue, ready to use. A nil *Queue behaves like
// an empty queue for all read operations, so callers never need to
// distinguish "no queue allocated yet" from "all entries expired".
type Queue struct {
	entries deque.Deque[int64]
}

// Enqueue appends a timestamp at the tail.
func (q *Queue) Enqueue(ts int64) {
	q.entries.PushBack(ts)
}

// Dequeue removes and returns the head timestamp. The second return value is
// false when the queue is nil or empty.
func (q *Queue) Dequeue() (int64, bool) {
	if q == nil || q.entries.Len() == 0 {
		return 0, false
	}
	return q.entries.PopFront(), true
}

// Head returns the oldest timestamp without removing it. The second return
// value is false when the queue is nil or empty.
func (q *Queue) Head() (int64, bool) {
	if q == nil || q.entries.Len() == 0 {
		return 0, false
	}
	return q.entries.Front(), true
}

// Len returns the exact number of entries. O(1).
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return q.entries.Len()
}
