// Package blockingq provides a bounded FIFO queue with coarse locking.
//
// Unlike the lock-free channel family, this queue blocks callers on a
// mutex and condition variables. It is the simpler alternative for code
// that prefers real blocking over spin/yield polling.
package blockingq

import "sync"

// Queue is a bounded FIFO queue safe for any number of concurrent
// producers and consumers.
type Queue[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond

	capacity int
	buf      []T
	head     int
	tail     int
	size     int
}

// New creates a queue with the given capacity. A capacity of 0 is coerced
// to 1.
func New[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	q := &Queue[T]{
		capacity: capacity,
		buf:      make([]T, capacity),
	}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Push inserts a value, blocking while the queue is full.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.size >= q.capacity {
		q.notFull.Wait()
	}
	q.pushLocked(v)
}

// TryPush inserts a value without blocking.
// Returns false if the queue is full.
func (q *Queue[T]) TryPush(v T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.size >= q.capacity {
		return false
	}
	q.pushLocked(v)
	return true
}

// ForcePush inserts a value, overwriting the oldest buffered value when
// the queue is full. Reports whether a value was overwritten.
func (q *Queue[T]) ForcePush(v T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	overwrote := q.size >= q.capacity
	if overwrote {
		q.head = (q.head + 1) % q.capacity
	} else {
		q.size++
	}
	q.buf[q.tail] = v
	q.tail = (q.tail + 1) % q.capacity
	q.notEmpty.Signal()
	return overwrote
}

// Pop removes the oldest value, blocking while the queue is empty.
func (q *Queue[T]) Pop() T {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.size == 0 {
		q.notEmpty.Wait()
	}
	return q.popLocked()
}

// TryPop removes the oldest value without blocking.
// Returns (zero, false) if the queue is empty.
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.size == 0 {
		var zero T
		return zero, false
	}
	return q.popLocked(), true
}

// Capacity returns the fixed queue capacity.
func (q *Queue[T]) Capacity() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.capacity
}

// Size returns the number of buffered values.
func (q *Queue[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Empty reports whether the queue holds no values.
func (q *Queue[T]) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size == 0
}

// Full reports whether the queue is at capacity.
func (q *Queue[T]) Full() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size == q.capacity
}

// Clear drops all buffered values and wakes blocked producers.
func (q *Queue[T]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	for i := range q.buf {
		q.buf[i] = zero
	}
	q.head = 0
	q.tail = 0
	q.size = 0
	q.notFull.Broadcast()
}

func (q *Queue[T]) pushLocked(v T) {
	q.buf[q.tail] = v
	q.tail = (q.tail + 1) % q.capacity
	q.size++
	q.notEmpty.Signal()
}

func (q *Queue[T]) popLocked() T {
	var zero T
	v := q.buf[q.head]
	q.buf[q.head] = zero
	q.head = (q.head + 1) % q.capacity
	q.size--
	q.notFull.Signal()
	return v
}
