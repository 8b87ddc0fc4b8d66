// Package taskq provides a fixed-size worker pool fed by a bounded
// lock-free MPMC channel.
package taskq

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/valyala/fastrand"

	"github.com/corekit/channel"
)

var (
	ErrQueueFull = errors.New("task queue is full")
	ErrStopped   = errors.New("task queue is stopped")
	ErrTimeout   = errors.New("timeout")
)

// Task is a unit of work executed by a pool worker.
type Task func()

// Pool runs submitted tasks on a fixed number of worker goroutines.
// Submission from any number of goroutines is safe.
type Pool struct {
	tx *channel.MPMCSender[Task]
	wg sync.WaitGroup

	submitted atomic.Uint64
	rejected  atomic.Uint64
	completed atomic.Uint64
	timeouts  atomic.Uint64
}

// Stats is a point-in-time snapshot of pool counters.
type Stats struct {
	Submitted uint64
	Rejected  uint64
	Completed uint64
	Timeouts  uint64
}

// New creates a pool with the given worker count and task queue capacity
// and starts its workers. workers < 1 is coerced to 1.
func New(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	tx, rx := channel.MPMCChannel[Task](queueSize)
	p := &Pool{tx: tx}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker(rx.Clone())
	}
	return p
}

func (p *Pool) worker(rx *channel.MPMCReceiver[Task]) {
	defer p.wg.Done()
	for {
		task, ok := rx.Recv()
		if !ok {
			// Closed and drained.
			return
		}
		task()
		p.completed.Add(1)
	}
}

// Submit enqueues a task without blocking.
// Returns ErrQueueFull when the queue is at capacity and ErrStopped after
// Stop.
func (p *Pool) Submit(task Task) error {
	if p.tx.IsClosed() {
		return ErrStopped
	}
	if !p.tx.TrySend(task) {
		p.rejected.Add(1)
		return ErrQueueFull
	}
	p.submitted.Add(1)
	return nil
}

// Dispatch enqueues a task, spinning (with jittered yields) until the
// queue accepts it. Returns false once the pool has been stopped.
func (p *Pool) Dispatch(task Task) bool {
	for !p.tx.IsClosed() {
		if p.tx.TrySend(task) {
			p.submitted.Add(1)
			return true
		}
		// Jitter the yield count so contending submitters fall out of
		// lockstep.
		for n := fastrand.Uint32n(8) + 1; n > 0; n-- {
			runtime.Gosched()
		}
	}
	return false
}

var donePool sync.Pool

// SubmitWait enqueues a task and waits until a worker has executed it or
// ctx expires (ErrTimeout). Queue-full and stopped conditions are reported
// as in Submit.
func (p *Pool) SubmitWait(ctx context.Context, task Task) error {
	chv := donePool.Get()
	if chv == nil {
		chv = make(chan struct{}, 1)
	}
	done := chv.(chan struct{})

	if err := p.Submit(func() {
		task()
		done <- struct{}{}
	}); err != nil {
		donePool.Put(chv)
		return err
	}

	select {
	case <-done:
		donePool.Put(chv)
		return nil
	case <-ctx.Done():
		p.timeouts.Add(1)
		// The worker may still signal the channel later; it is buffered,
		// so nothing blocks, but it cannot be recycled.
		return ErrTimeout
	}
}

// Stats returns the current pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Rejected:  p.rejected.Load(),
		Completed: p.completed.Load(),
		Timeouts:  p.timeouts.Load(),
	}
}

// Stop closes the task queue and waits for the workers to drain buffered
// tasks and exit. Idempotent.
func (p *Pool) Stop() {
	p.tx.Close()
	p.wg.Wait()
}

// Stopped reports whether Stop has been called.
func (p *Pool) Stopped() bool {
	return p.tx.IsClosed()
}
