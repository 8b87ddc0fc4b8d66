package channel

import (
	"runtime"
	"sync/atomic"
)

// MPSC is a bounded multi-producer single-consumer queue.
//
// Producers race to reserve the next tail index via CAS; the winner then
// writes the value into its slot. Reservation and the value write are two
// separate steps, so the consumer may observe an advanced tail before the
// slot is populated and must wait out that gap (bounded spin, then
// re-sample).
type MPSC[T any] struct {
	ring[T]
}

// NewMPSC creates a bounded MPSC queue. A capacity of 0 is coerced to 1.
func NewMPSC[T any](capacity int) *MPSC[T] {
	return &MPSC[T]{ring: newRing[T](capacity)}
}

// TryPush inserts an element at the tail.
// Returns false if the queue is full.
// Safe to call concurrently from many producer goroutines.
func (q *MPSC[T]) TryPush(v T) bool {
	for {
		t := q.tail.Load()
		h := q.head.Load()
		if t-h >= q.capacity {
			return false
		}
		if q.tail.CompareAndSwap(t, t+1) {
			// We own slot t now. The consumer frees a slot before
			// advancing head, so t-h < capacity means it is vacant.
			s := q.at(t)
			s.val = v
			s.full.Store(true)
			return true
		}
		// Lost the race, retry with a fresh tail.
	}
}

// TryPop removes the element at the head.
// Returns (zero, false) if the queue is empty.
// Must be called from a single consumer goroutine.
func (q *MPSC[T]) TryPop() (T, bool) {
	var zero T
	h := q.head.Load()
	t := q.tail.Load()
	if t == h {
		return zero, false
	}

	// Counters say an element exists, but the producer that reserved this
	// slot may not have finished writing it. Spin briefly, then re-sample
	// in case the gap closed another way.
	s := q.at(h)
	spins := 0
	for !s.full.Load() {
		spins++
		runtime.Gosched()
		if spins > spinLimit {
			spins = 0
			h = q.head.Load()
			t = q.tail.Load()
			if t == h {
				return zero, false
			}
			s = q.at(h)
		}
	}

	v := s.val
	s.val = zero
	s.full.Store(false)
	q.head.Store(h + 1)
	return v, true
}

// MPSCSender is the sending half of an MPSC channel.
//
// Shared: may be cloned and used concurrently from any number of
// goroutines.
type MPSCSender[T any] struct {
	q      *MPSC[T]
	closed *atomic.Bool
}

// Clone returns a new handle over the same channel. Cheap: no buffered
// data is copied.
func (s *MPSCSender[T]) Clone() *MPSCSender[T] {
	return &MPSCSender[T]{q: s.q, closed: s.closed}
}

// TrySend sends a value without blocking.
// Returns false if the channel is full.
func (s *MPSCSender[T]) TrySend(v T) bool {
	return s.q.TryPush(v)
}

// Send sends a value, spinning (with yields) until space appears.
// Returns false if the channel is closed before the value was accepted.
func (s *MPSCSender[T]) Send(v T) bool {
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
func (s *MPSCSender[T]) Close() {
	s.closed.Store(true)
}

// IsClosed reports whether the channel has been closed.
func (s *MPSCSender[T]) IsClosed() bool {
	return s.closed.Load()
}

// MPSCReceiver is the receiving half of an MPSC channel.
//
// Exclusive: must not be used from more than one goroutine at a time.
type MPSCReceiver[T any] struct {
	q      *MPSC[T]
	closed *atomic.Bool
}

// TryRecv receives a value without blocking.
// Returns (zero, false) if the channel is empty.
func (r *MPSCReceiver[T]) TryRecv() (T, bool) {
	return r.q.TryPop()
}

// Recv receives a value, spinning (with yields) until one appears.
// Once the channel is closed it performs one final drain; returns
// (zero, false) only when the channel is closed and empty.
func (r *MPSCReceiver[T]) Recv() (T, bool) {
	for !r.closed.Load() {
		if v, ok := r.q.TryPop(); ok {
			return v, true
		}
		runtime.Gosched()
	}
	return r.q.TryPop()
}

// IsEmpty reports whether the channel currently holds no values.
func (r *MPSCReceiver[T]) IsEmpty() bool {
	return r.q.Empty()
}

// IsFull reports whether the channel is currently at capacity.
func (r *MPSCReceiver[T]) IsFull() bool {
	return r.q.Full()
}

// IsClosed reports whether the channel has been closed.
func (r *MPSCReceiver[T]) IsClosed() bool {
	return r.closed.Load()
}

// MPSCChannel creates a bounded MPSC channel and returns its endpoint pair.
// The sender may be cloned across goroutines; the receiver is exclusive to
// one consumer goroutine.
func MPSCChannel[T any](capacity int) (*MPSCSender[T], *MPSCReceiver[T]) {
	q := NewMPSC[T](capacity)
	closed := new(atomic.Bool)
	return &MPSCSender[T]{q: q, closed: closed}, &MPSCReceiver[T]{q: q, closed: closed}
}
