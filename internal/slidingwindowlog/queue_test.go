package slidingwindowlog_test

import (
	"testing"

	"tenantlimit/internal/slidingwindowlog"
)

func TestQueueFIFOOrder(t *testing.T) {
	var q slidingwindowlog.Queue

	for _, ts := range []int64{100, 200, 300} {
		q.Enqueue(ts)
	}
	if q.Len() != 3 {
		t.Fatalf("Len = %d, want 3", q.Len())
	}

	for _, want := range []int64{100, 200, 300} {
		head, ok := q.Head()
		if !ok || head != want {
			t.Fatalf("Head = (%d, %v), want (%d, true)", head, ok, want)
		}
		got, ok := q.Dequeue()
		if !ok || got != want {
			t.Fatalf("Dequeue = (%d, %v), want (%d, true)", got, ok, want)
		}
	}

	if q.Len() != 0 {
		t.Fatalf("Len after draining = %d, want 0", q.Len())
	}
}

func TestQueueEmptySentinel(t *testing.T) {
	var q slidingwindowlog.Queue

	if _, ok := q.Dequeue(); ok {
		t.Fatal("Dequeue on empty queue reported an entry")
	}
	if _, ok := q.Head(); ok {
		t.Fatal("Head on empty queue reported an entry")
	}

	// A drained queue behaves the same as a never-used one.
	q.Enqueue(1)
	q.Dequeue()
	if _, ok := q.Dequeue(); ok {
		t.Fatal("Dequeue on drained queue reported an entry")
	}
}

func TestQueueNilBehavesEmpty(t *testing.T) {
	var q *slidingwindowlog.Queue

	if q.Len() != 0 {
		t.Fatalf("nil queue Len = %d, want 0", q.Len())
	}
	if _, ok := q.Dequeue(); ok {
		t.Fatal("Dequeue on nil queue reported an entry")
	}
	if _, ok := q.Head(); ok {
		t.Fatal("Head on nil queue reported an entry")
	}
}
