// Package latency implements the delivery simulator: a FIFO that holds
// every message for a fixed delay before handing it to its consumer. Both
// endpoints run one queue per traffic direction, so the same code injects
// latency into all four legs of a round trip.
//
// Because the server delays its inbound AND outbound leg (and the client
// does the same), the observed round trip for an input is twice the
// configured one-way delay. The client's reconciliation threshold and
// extrapolation cap are tuned against that doubled value; do not halve
// the queue delay to compensate.
package latency

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// envelope pairs a payload with its scheduled delivery time. Every
// envelope in one queue carries the same fixed delay, so enqueue order and
// delivery order coincide and no priority structure is needed.
type envelope[T any] struct {
	payload   T
	deliverAt time.Time
}

// Queue delays payloads by a fixed duration. Producers may enqueue from
// any goroutine; Drain is meant to be polled from the owning endpoint's
// run loop on a short interval.
type Queue[T any] struct {
	mu    sync.Mutex
	clock clockwork.Clock
	delay time.Duration

	entries []envelope[T]
	head    int
}

// NewQueue builds a queue that releases payloads delay after enqueue.
func NewQueue[T any](clock clockwork.Clock, delay time.Duration) *Queue[T] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Queue[T]{clock: clock, delay: delay}
}

// Enqueue stamps the payload with now+delay and appends it. O(1).
func (q *Queue[T]) Enqueue(payload T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, envelope[T]{
		payload:   payload,
		deliverAt: q.clock.Now().Add(q.delay),
	})
}

// Drain delivers every payload that has come due, in FIFO order, and stops
// at the first envelope that has not. Uniform delay makes the due set a
// strict prefix, so no scan past that point is needed.
func (q *Queue[T]) Drain(deliver func(T)) {
	for {
		payload, ok := q.pop()
		if !ok {
			return
		}
		deliver(payload)
	}
}

func (q *Queue[T]) pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if q.head >= len(q.entries) {
		return zero, false
	}
	next := q.entries[q.head]
	if next.deliverAt.After(q.clock.Now()) {
		return zero, false
	}

	q.entries[q.head] = envelope[T]{} // drop the reference for GC
	q.head++
	if q.head == len(q.entries) {
		q.entries = q.entries[:0]
		q.head = 0
	} else if q.head > 64 && q.head*2 > len(q.entries) {
		// Compact once the consumed prefix dominates the backing array.
		remaining := copy(q.entries, q.entries[q.head:])
		q.entries = q.entries[:remaining]
		q.head = 0
	}
	return next.payload, true
}

// Len reports how many payloads are still waiting.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries) - q.head
}

// Clear discards everything still in flight. Used when the server resets
// to the lobby so stale traffic cannot leak into the next match.
func (q *Queue[T]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = q.entries[:0]
	q.head = 0
}
