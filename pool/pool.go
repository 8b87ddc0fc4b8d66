// Package pool provides bounded object pools backed by a lock-free
// free-list ring.
//
// Unlike sync.Pool, nothing here is dropped by the garbage collector
// behind the caller's back: the pool holds at most its fixed capacity and
// simply discards releases beyond that.
package pool

import "github.com/corekit/channel"

// Pool recycles objects of type T through a bounded MPMC free list.
// Safe for concurrent Acquire and Release from any number of goroutines.
type Pool[T any] struct {
	free     *channel.MPMC[*T]
	factory  func() *T
	resetter func(*T)
}

// New creates a pool that keeps at most capacity idle objects.
// factory builds a fresh object when the free list is empty (nil means
// new(T)); resetter, if non-nil, is applied to recycled objects before
// they are handed out again.
func New[T any](capacity int, factory func() *T, resetter func(*T)) *Pool[T] {
	if factory == nil {
		factory = func() *T { return new(T) }
	}
	return &Pool[T]{
		free:     channel.NewMPMC[*T](capacity),
		factory:  factory,
		resetter: resetter,
	}
}

// Acquire returns a pooled object, or a freshly built one when the free
// list is empty.
func (p *Pool[T]) Acquire() *T {
	if obj, ok := p.free.TryPop(); ok {
		if p.resetter != nil {
			p.resetter(obj)
		}
		return obj
	}
	return p.factory()
}

// Release returns an object to the free list. Objects beyond the pool's
// capacity are discarded for the garbage collector to reclaim.
func (p *Pool[T]) Release(obj *T) {
	if obj == nil {
		return
	}
	_ = p.free.TryPush(obj)
}

// Len returns the number of idle objects currently pooled (advisory under
// concurrency).
func (p *Pool[T]) Len() int {
	return p.free.Size()
}

// Cap returns the maximum number of idle objects the pool retains.
func (p *Pool[T]) Cap() int {
	return p.free.Capacity()
}

// BufferPool recycles byte slices of at least a default size.
type BufferPool struct {
	free        *channel.MPMC[[]byte]
	defaultSize int
}

// NewBufferPool creates a buffer pool keeping at most capacity idle
// buffers of defaultSize bytes each.
func NewBufferPool(defaultSize, capacity int) *BufferPool {
	if defaultSize < 1 {
		defaultSize = 4096
	}
	return &BufferPool{
		free:        channel.NewMPMC[[]byte](capacity),
		defaultSize: defaultSize,
	}
}

// Get returns a buffer with len(buf) == size. size 0 means the pool's
// default size. A pooled buffer is reused when its backing array is large
// enough; otherwise a new one is allocated.
func (p *BufferPool) Get(size int) []byte {
	if size == 0 {
		size = p.defaultSize
	}
	if buf, ok := p.free.TryPop(); ok && cap(buf) >= size {
		return buf[:size]
	}
	if size < p.defaultSize {
		return make([]byte, size, p.defaultSize)
	}
	return make([]byte, size)
}

// Put returns a buffer to the pool. Buffers beyond capacity are dropped.
func (p *BufferPool) Put(buf []byte) {
	if buf == nil {
		return
	}
	_ = p.free.TryPush(buf[:0])
}

// Len returns the number of idle buffers currently pooled.
func (p *BufferPool) Len() int {
	return p.free.Size()
}
