package channel

import (
	"runtime"
	"sync/atomic"
)

// MPMC is a bounded multi-producer multi-consumer queue.
//
// Union of MPSC and SPMC: both counters are advanced by CAS, and each end
// must wait out the other end's reservation/visibility gap via slot
// occupancy. The most expensive variant, and the only one where both ends
// contend.
type MPMC[T any] struct {
	ring[T]
}

// NewMPMC creates a bounded MPMC queue. A capacity of 0 is coerced to 1.
func NewMPMC[T any](capacity int) *MPMC[T] {
	return &MPMC[T]{ring: newRing[T](capacity)}
}

// TryPush inserts an element at the tail.
// Returns false if the queue is full.
// Safe to call concurrently from many producer goroutines.
func (q *MPMC[T]) TryPush(v T) bool {
	for {
		t := q.tail.Load()
		h := q.head.Load()
		if t-h >= q.capacity {
			return false
		}
		if q.tail.CompareAndSwap(t, t+1) {
			s := q.at(t)
			for s.full.Load() {
				// The consumer that claimed this slot on the previous
				// lap has not copied the value out yet.
				runtime.Gosched()
			}
			s.val = v
			s.full.Store(true)
			return true
		}
		// Lost the race, retry with a fresh tail.
	}
}

// TryPop removes the element at the head.
// Returns (zero, false) if the queue is empty.
// Safe to call concurrently from many consumer goroutines.
func (q *MPMC[T]) TryPop() (T, bool) {
	var zero T
	for {
		h := q.head.Load()
		t := q.tail.Load()
		if t == h {
			return zero, false
		}
		s := q.at(h)
		if !s.full.Load() {
			// Either the producer that reserved this slot has not
			// written the value yet, or a competing consumer claimed
			// it and head is about to move. Yield and re-sample.
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

// MPMCSender is the sending half of an MPMC channel.
//
// Shared: may be cloned and used concurrently from any number of
// goroutines.
type MPMCSender[T any] struct {
	q      *MPMC[T]
	closed *atomic.Bool
}

// Clone returns a new handle over the same channel. Cheap: no buffered
// data is copied.
func (s *MPMCSender[T]) Clone() *MPMCSender[T] {
	return &MPMCSender[T]{q: s.q, closed: s.closed}
}

// TrySend sends a value without blocking.
// Returns false if the channel is full.
func (s *MPMCSender[T]) TrySend(v T) bool {
	return s.q.TryPush(v)
}

// Send sends a value, spinning (with yields) until space appears.
// Returns false if the channel is closed before the value was accepted.
func (s *MPMCSender[T]) Send(v T) bool {
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
func (s *MPMCSender[T]) Close() {
	s.closed.Store(true)
}

// IsClosed reports whether the channel has been closed.
func (s *MPMCSender[T]) IsClosed() bool {
	return s.closed.Load()
}

// MPMCReceiver is the receiving half of an MPMC channel.
//
// Shared: may be cloned and used concurrently from any number of
// goroutines. Each buffered value is delivered to exactly one receiver.
type MPMCReceiver[T any] struct {
	q      *MPMC[T]
	closed *atomic.Bool
}

// Clone returns a new handle over the same channel. Cheap: no buffered
// data is copied.
func (r *MPMCReceiver[T]) Clone() *MPMCReceiver[T] {
	return &MPMCReceiver[T]{q: r.q, closed: r.closed}
}

// TryRecv receives a value without blocking.
// Returns (zero, false) if the channel is empty.
func (r *MPMCReceiver[T]) TryRecv() (T, bool) {
	return r.q.TryPop()
}

// Recv receives a value, spinning (with yields) until one appears.
// Once the channel is closed it performs one final drain; returns
// (zero, false) only when the channel is closed and empty.
func (r *MPMCReceiver[T]) Recv() (T, bool) {
	for !r.closed.Load() {
		if v, ok := r.q.TryPop(); ok {
			return v, true
		}
		runtime.Gosched()
	}
	return r.q.TryPop()
}

// IsEmpty reports whether the channel currently holds no values.
func (r *MPMCReceiver[T]) IsEmpty() bool {
	return r.q.Empty()
}

// IsFull reports whether the channel is currently at capacity.
func (r *MPMCReceiver[T]) IsFull() bool {
	return r.q.Full()
}

// IsClosed reports whether the channel has been closed.
func (r *MPMCReceiver[T]) IsClosed() bool {
	return r.closed.Load()
}

// MPMCChannel creates a bounded MPMC channel and returns its endpoint pair.
// Both endpoints may be cloned across goroutines.
func MPMCChannel[T any](capacity int) (*MPMCSender[T], *MPMCReceiver[T]) {
	q := NewMPMC[T](capacity)
	closed := new(atomic.Bool)
	return &MPMCSender[T]{q: q, closed: closed}, &MPMCReceiver[T]{q: q, closed: closed}
}
