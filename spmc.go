package channel

import (
	"runtime"
	"sync/atomic"
)

// SPMC is a bounded single-producer multi-consumer queue.
//
// Mirror of MPSC: the single producer advances tail with a plain store,
// while consumers race to claim the next head index via CAS. A consumer
// checks slot occupancy before attempting its CAS, because a competing
// consumer that already claimed the slot may not have cleared it yet.
type SPMC[T any] struct {
	ring[T]
}

// NewSPMC creates a bounded SPMC queue. A capacity of 0 is coerced to 1.
func NewSPMC[T any](capacity int) *SPMC[T] {
	return &SPMC[T]{ring: newRing[T](capacity)}
}

// TryPush inserts an element at the tail.
// Returns false if the queue is full.
// Must be called from a single producer goroutine.
func (q *SPMC[T]) TryPush(v T) bool {
	t := q.tail.Load()
	h := q.head.Load()
	if t-h >= q.capacity {
		return false
	}
	s := q.at(t)
	for s.full.Load() {
		// A consumer won its head CAS for this slot's previous lap but
		// has not copied the value out yet. The wait is a few
		// instructions long unless that consumer was preempted.
		runtime.Gosched()
	}
	s.val = v
	s.full.Store(true)
	q.tail.Store(t + 1)
	return true
}

// TryPop removes the element at the head.
// Returns (zero, false) if the queue is empty.
// Safe to call concurrently from many consumer goroutines.
func (q *SPMC[T]) TryPop() (T, bool) {
	var zero T
	for {
		h := q.head.Load()
		t := q.tail.Load()
		if t == h {
			return zero, false
		}
		s := q.at(h)
		if !s.full.Load() {
			// Counters say an element exists but the slot is bare:
			// another consumer claimed it and head is about to move.
			// Yield and re-sample.
			runtime.Gosched()
			continue
		}
		if q.head.CompareAndSwap(h, h+1) {
			v := s.val
			s.val = zero
			s.full.Store(false)
			return v, true
		}
		// Lost the race for this slot, retry with a fresh head.
	}
}

// SPMCSender is the sending half of an SPMC channel.
//
// Exclusive: must not be used from more than one goroutine at a time.
type SPMCSender[T any] struct {
	q      *SPMC[T]
	closed *atomic.Bool
}

// TrySend sends a value without blocking.
// Returns false if the channel is full.
func (s *SPMCSender[T]) TrySend(v T) bool {
	return s.q.TryPush(v)
}

// Send sends a value, spinning (with yields) until space appears.
// Returns false if the channel is closed before the value was accepted.
func (s *SPMCSender[T]) Send(v T) bool {
	for !s.closed.Load() {
		if s.q.TryPush(v) {
			return true
		}
		runtime.Gosched()
	}
	return false
}

// Close marks the channel closed. Idempotent and irreversible; values
// already buffered remain receivable.
func (s *SPMCSender[T]) Close() {
	s.closed.Store(true)
}

// IsClosed reports whether the channel has been closed.
func (s *SPMCSender[T]) IsClosed() bool {
	return s.closed.Load()
}

// SPMCReceiver is the receiving half of an SPMC channel.
//
// Shared: may be cloned and used concurrently from any number of
// goroutines. Each buffered value is delivered to exactly one receiver.
type SPMCReceiver[T any] struct {
	q      *SPMC[T]
	closed *atomic.Bool
}

// Clone returns a new handle over the same channel. Cheap: no buffered
// data is copied.
func (r *SPMCReceiver[T]) Clone() *SPMCReceiver[T] {
	return &SPMCReceiver[T]{q: r.q, closed: r.closed}
}

// TryRecv receives a value without blocking.
// Returns (zero, false) if the channel is empty.
func (r *SPMCReceiver[T]) TryRecv() (T, bool) {
	return r.q.TryPop()
}

// Recv receives a value, spinning (with yields) until one appears.
// Once the channel is closed it performs one final drain; returns
// (zero, false) only when the channel is closed and empty.
func (r *SPMCReceiver[T]) Recv() (T, bool) {
	for !r.closed.Load() {
		if v, ok := r.q.TryPop(); ok {
			return v, true
		}
		runtime.Gosched()
	}
	return r.q.TryPop()
}

// IsEmpty reports whether the channel currently holds no values.
func (r *SPMCReceiver[T]) IsEmpty() bool {
	return r.q.Empty()
}

// IsFull reports whether the channel is currently at capacity.
func (r *SPMCReceiver[T]) IsFull() bool {
	return r.q.Full()
}

// IsClosed reports whether the channel has been closed.
func (r *SPMCReceiver[T]) IsClosed() bool {
	return r.closed.Load()
}

// SPMCChannel creates a bounded SPMC channel and returns its endpoint pair.
// The sender is exclusive to one producer goroutine; the receiver may be
// cloned across goroutines.
func SPMCChannel[T any](capacity int) (*SPMCSender[T], *SPMCReceiver[T]) {
	q := NewSPMC[T](capacity)
	closed := new(atomic.Bool)
	return &SPMCSender[T]{q: q, closed: closed}, &SPMCReceiver[T]{q: q, closed: closed}
}
