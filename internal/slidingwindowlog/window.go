package slidingwindowlog

import "time"

// Window is the admission engine for one trailing window policy. It carries
// no per-tenant state: the caller supplies the tenant's queue and the current
// timestamp, and Admit mutates the queue to reflect the decision.
type Window struct {
	sizeMillis int64
	limit      int64
}

// NewWindow returns an admission engine for the given trailing window length
// and request ceiling.
func NewWindow(size time.Duration, limit int64) Window {
	return Window{
		sizeMillis: size.Milliseconds(),
		limit:      limit,
	}
}

// Size returns the trailing window length.
func (w Window) Size() time.Duration {
	return time.Duration(w.sizeMillis) * time.Millisecond
}

// Limit returns the request ceiling per window.
func (w Window) Limit() int64 {
	return w.limit
}

// Admit decides whether a request arriving at nowMillis is admitted for the
// tenant owning q, and records it in the queue if so.
//
// Eviction is lazy and interleaved with admission: every entry that has aged
// out of the trailing window (now - head >= window, boundary inclusive) is
// dequeued first, so the cost of a stale burst is charged to the call that
// observes it and idle tenants cost nothing. After eviction the request is
// admitted iff the queue holds fewer than limit entries; admission enqueues
// nowMillis, rejection leaves the queue untouched.
func (w Window) Admit(q *Queue, nowMillis int64) bool {
	w.Evict(q, nowMillis)
	if int64(q.Len()) < w.limit {
		q.Enqueue(nowMillis)
		return true
	}
	return false
}

// Evict removes every entry that is outside the window (nowMillis - size,
// nowMillis] and returns the number removed. An entry aged exactly to the
// window edge is evicted.
func (w Window) Evict(q *Queue, nowMillis int64) int {
	evicted := 0
	for {
		head, ok := q.Head()
		if !ok || nowMillis-head < w.sizeMillis {
			break
		}
		q.Dequeue()
		evicted++
	}
	return evicted
}

// Log is the single-threaded deployment shape: one tenant's queue bound to
// one admission engine. It is not safe for concurrent use.
type Log struct {
	window Window
	queue  Queue
}

// NewLog returns a per-tenant sliding window log for the given policy.
func NewLog(size time.Duration, limit int64) *Log {
	return &Log{window: NewWindow(size, limit)}
}

// Allow runs one admission check at nowMillis.
func (l *Log) Allow(nowMillis int64) bool {
	return l.window.Admit(&l.queue, nowMillis)
}

// Len returns the number of requests currently inside the window as of the
// last Allow call.
func (l *Log) Len() int {
	return l.queue.Len()
}
