// Package timer provides an interval-timer service: one clock goroutine
// tracks deadlines and hands expired callbacks to a worker pool, so a slow
// callback never delays the ones behind it.
package timer

import (
	"container/heap"
	"sync"
	"time"

	"github.com/corekit/channel/taskq"
)

// ID identifies a scheduled timer. 0 is never a valid ID.
type ID uint64

type entry struct {
	id        ID
	cb        func()
	when      time.Time
	interval  time.Duration
	repeating bool
	cancelled bool
}

type entryHeap []*entry

func (h entryHeap) Len() int           { return len(h) }
func (h entryHeap) Less(i, j int) bool { return h[i].when.Before(h[j].when) }
func (h entryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)        { *h = append(*h, x.(*entry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Timer schedules one-shot and repeating callbacks. All methods are safe
// for concurrent use.
type Timer struct {
	mu      sync.Mutex
	heap    entryHeap
	entries map[ID]*entry
	nextID  ID
	running bool

	stop chan struct{}
	wake chan struct{}
	done chan struct{}
	pool *taskq.Pool

	workers   int
	queueSize int
}

// New creates a stopped timer service whose callbacks run on a pool of
// the given worker count. workers < 1 is coerced to 1.
func New(workers int) *Timer {
	if workers < 1 {
		workers = 1
	}
	return &Timer{
		entries:   make(map[ID]*entry),
		nextID:    1,
		workers:   workers,
		queueSize: 256,
	}
}

// Start launches the clock goroutine and the callback pool. Returns false
// if the service is already running.
func (t *Timer) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return false
	}
	t.running = true
	t.stop = make(chan struct{})
	t.wake = make(chan struct{}, 1)
	t.done = make(chan struct{})
	t.pool = taskq.New(t.workers, t.queueSize)
	go t.run()
	return true
}

// Stop halts the clock and waits for in-flight callbacks to finish.
// Pending timers survive a Stop/Start cycle unless cancelled. Returns
// false if the service was not running.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return false
	}
	t.running = false
	close(t.stop)
	pool := t.pool
	done := t.done
	t.mu.Unlock()

	<-done
	pool.Stop()
	return true
}

// IsRunning reports whether the clock goroutine is active.
func (t *Timer) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// ScheduleOnce schedules cb to run once after delay.
// Returns 0 if the service is not running.
func (t *Timer) ScheduleOnce(cb func(), delay time.Duration) ID {
	return t.schedule(cb, delay, 0, false)
}

// ScheduleRepeating schedules cb to run every interval, first after
// initialDelay. Returns 0 if the service is not running or interval is
// not positive.
func (t *Timer) ScheduleRepeating(cb func(), interval, initialDelay time.Duration) ID {
	if interval <= 0 {
		return 0
	}
	return t.schedule(cb, initialDelay, interval, true)
}

func (t *Timer) schedule(cb func(), delay, interval time.Duration, repeating bool) ID {
	if cb == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return 0
	}

	e := &entry{
		id:        t.nextID,
		cb:        cb,
		when:      time.Now().Add(delay),
		interval:  interval,
		repeating: repeating,
	}
	t.nextID++
	t.entries[e.id] = e
	heap.Push(&t.heap, e)
	t.kick()
	return e.id
}

// Cancel stops the timer with the given ID. A repeating timer fires no
// further; an in-flight callback is not interrupted. Reports whether the
// ID named an active timer.
func (t *Timer) Cancel(id ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[id]
	if !ok {
		return false
	}
	e.cancelled = true
	delete(t.entries, id)
	return true
}

// CancelAll stops every active timer.
func (t *Timer) CancelAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, e := range t.entries {
		e.cancelled = true
		delete(t.entries, id)
	}
}

// ActiveCount returns the number of scheduled, uncancelled timers.
func (t *Timer) ActiveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// kick nudges the clock goroutine to re-evaluate its next deadline.
// Callers must hold t.mu.
func (t *Timer) kick() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

func (t *Timer) run() {
	defer close(t.done)
	for {
		t.mu.Lock()
		now := time.Now()
		for len(t.heap) > 0 && !t.heap[0].when.After(now) {
			e := heap.Pop(&t.heap).(*entry)
			if e.cancelled {
				continue
			}
			t.pool.Dispatch(e.cb)
			if e.repeating {
				e.when = now.Add(e.interval)
				heap.Push(&t.heap, e)
			} else {
				delete(t.entries, e.id)
			}
		}

		wait := time.Hour
		if len(t.heap) > 0 {
			wait = time.Until(t.heap[0].when)
		}
		t.mu.Unlock()

		select {
		case <-t.stop:
			return
		case <-t.wake:
		case <-time.After(wait):
		}
	}
}
