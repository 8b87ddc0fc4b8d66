package channel

import "sync/atomic"

// spinLimit is the number of occupancy-check iterations a consumer (or a
// contended producer) performs before re-sampling the position counters.
// Untuned; treat as a backoff knob, not a semantic constant.
const spinLimit = 100

// slot holds either nothing or one value. Occupancy is tracked separately
// from the position counters because a CAS winner reserves a slot index
// before the value write lands; the opposite end must not race past that gap.
type slot[T any] struct {
	full atomic.Bool
	val  T
}

// ring is the substrate shared by all four queue variants: a fixed slot
// array addressed by two monotonically increasing 64-bit counters modulo
// capacity. The counters never wrap in practice (64-bit positions); no
// wraparound handling is attempted.
//
// Which counter may be advanced by plain store and which needs CAS is
// decided by the variant layered on top, not here.
type ring[T any] struct {
	// Padding between hot fields to avoid false sharing.
	_        [64]byte
	capacity uint64
	slots    []slot[T]
	_        [64]byte
	tail     atomic.Uint64 // logical enqueue position (producers)
	_        [64]byte
	head     atomic.Uint64 // logical dequeue position (consumers)
	_        [64]byte
}

func newRing[T any](capacity int) ring[T] {
	if capacity < 1 {
		// A channel must hold at least one element.
		capacity = 1
	}
	return ring[T]{
		capacity: uint64(capacity),
		slots:    make([]slot[T], capacity),
	}
}

func (r *ring[T]) at(pos uint64) *slot[T] {
	return &r.slots[pos%r.capacity]
}

// Capacity returns the fixed queue capacity.
func (r *ring[T]) Capacity() int {
	return int(r.capacity)
}

// Size returns the number of buffered elements. Under concurrency this is
// advisory: a true answer only for an instant that may have already passed.
// The raw tail-head difference is clamped to [0, capacity] to tolerate the
// transient window where a CAS winner has advanced one counter but the other
// side has not caught up.
func (r *ring[T]) Size() int {
	h := r.head.Load()
	t := r.tail.Load()
	if t < h {
		return 0
	}
	diff := t - h
	if diff > r.capacity {
		diff = r.capacity
	}
	return int(diff)
}

// Empty reports whether the queue holds no elements (advisory under
// concurrency, like Size).
func (r *ring[T]) Empty() bool {
	h := r.head.Load()
	t := r.tail.Load()
	return t == h
}

// Full reports whether the queue is at capacity (advisory under
// concurrency, like Size).
func (r *ring[T]) Full() bool {
	h := r.head.Load()
	t := r.tail.Load()
	return t-h >= r.capacity
}

// Clear drains all buffered elements and advances head to tail.
// Maintenance-only: must not be called concurrently with producers or
// consumers.
func (r *ring[T]) Clear() {
	var zero T
	h := r.head.Load()
	t := r.tail.Load()
	for ; h != t; h++ {
		s := r.at(h)
		s.val = zero
		s.full.Store(false)
	}
	r.head.Store(t)
}
