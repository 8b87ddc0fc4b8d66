package channel

import (
	"runtime"
	"sync/atomic"
)

// SPSC is a bounded single-producer single-consumer queue.
//
// Exactly one goroutine may call TryPush and exactly one (possibly
// different) goroutine may call TryPop. With no contention on either
// counter, both operations are a plain load/store pair with no CAS; this is
// the lowest-latency variant.
type SPSC[T any] struct {
	ring[T]
}

// NewSPSC creates a bounded SPSC queue. A capacity of 0 is coerced to 1.
func NewSPSC[T any](capacity int) *SPSC[T] {
	return &SPSC[T]{ring: newRing[T](capacity)}
}

// TryPush inserts an element at the tail.
// Returns false if the queue is full.
// Must be called from a single producer goroutine.
func (q *SPSC[T]) TryPush(v T) bool {
	t := q.tail.Load()
	h := q.head.Load()
	if t-h >= q.capacity {
		return false
	}
	s := q.at(t)
	s.val = v
	s.full.Store(true)
	q.tail.Store(t + 1)
	return true
}

// TryPop removes the element at the head.
// Returns (zero, false) if the queue is empty.
// Must be called from a single consumer goroutine.
func (q *SPSC[T]) TryPop() (T, bool) {
	var zero T
	h := q.head.Load()
	t := q.tail.Load()
	if t == h {
		return zero, false
	}
	s := q.at(h)
	v := s.val
	s.val = zero
	s.full.Store(false)
	q.head.Store(h + 1)
	return v, true
}

// SPSCSender is the sending half of an SPSC channel.
//
// Exclusive: must not be used from more than one goroutine at a time.
type SPSCSender[T any] struct {
	q      *SPSC[T]
	closed *atomic.Bool
}

// TrySend sends a value without blocking.
// Returns false if the channel is full.
func (s *SPSCSender[T]) TrySend(v T) bool {
	return s.q.TryPush(v)
}

// Send sends a value, spinning (with yields) until space appears.
// Returns false if the channel is closed before the value was accepted.
func (s *SPSCSender[T]) Send(v T) bool {
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
func (s *SPSCSender[T]) Close() {
	s.closed.Store(true)
}

// IsClosed reports whether the channel has been closed.
func (s *SPSCSender[T]) IsClosed() bool {
	return s.closed.Load()
}

// SPSCReceiver is the receiving half of an SPSC channel.
//
// Exclusive: must not be used from more than one goroutine at a time.
type SPSCReceiver[T any] struct {
	q      *SPSC[T]
	closed *atomic.Bool
}

// TryRecv receives a value without blocking.
// Returns (zero, false) if the channel is empty.
func (r *SPSCReceiver[T]) TryRecv() (T, bool) {
	return r.q.TryPop()
}

// Recv receives a value, spinning (with yields) until one appears.
// Once the channel is closed it performs one final drain; returns
// (zero, false) only when the channel is closed and empty.
func (r *SPSCReceiver[T]) Recv() (T, bool) {
	for !r.closed.Load() {
		if v, ok := r.q.TryPop(); ok {
			return v, true
		}
		runtime.Gosched()
	}
	return r.q.TryPop()
}

// IsEmpty reports whether the channel currently holds no values.
func (r *SPSCReceiver[T]) IsEmpty() bool {
	return r.q.Empty()
}

// IsFull reports whether the channel is currently at capacity.
func (r *SPSCReceiver[T]) IsFull() bool {
	return r.q.Full()
}

// IsClosed reports whether the channel has been closed.
func (r *SPSCReceiver[T]) IsClosed() bool {
	return r.closed.Load()
}

// SPSCChannel creates a bounded SPSC channel and returns its endpoint pair.
// Both endpoints are exclusive: one producer goroutine, one consumer
// goroutine.
func SPSCChannel[T any](capacity int) (*SPSCSender[T], *SPSCReceiver[T]) {
	q := NewSPSC[T](capacity)
	closed := new(atomic.Bool)
	return &SPSCSender[T]{q: q, closed: closed}, &SPSCReceiver[T]{q: q, closed: closed}
}
