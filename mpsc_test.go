package channel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

// Basic sanity: sequential push/pop with ints.
func TestMPSCSequential(t *testing.T) {
	const (
		capacity = 1024
		N        = 100_000
	)

	q := NewMPSC[int](capacity)

	for lap := 0; lap < N/capacity; lap++ {
		for i := 0; i < capacity; i++ {
			if !q.TryPush(lap*capacity + i) {
				t.Fatalf("push failed at %d (queue unexpectedly full)", lap*capacity+i)
			}
		}
		for i := 0; i < capacity; i++ {
			v, ok := q.TryPop()
			if !ok {
				t.Fatalf("pop failed at %d (queue unexpectedly empty)", lap*capacity+i)
			}
			if v != lap*capacity+i {
				t.Fatalf("expected %d, got %d (FIFO violated)", lap*capacity+i, v)
			}
		}
	}

	if v, ok := q.TryPop(); ok {
		t.Fatalf("expected empty queue at the end, got value=%v", v)
	}
}

// Capacity is enforced and overflow is reported.
func TestMPSCCapacityOverflow(t *testing.T) {
	const capacity = 8
	q := NewMPSC[int](capacity)

	for i := 0; i < capacity; i++ {
		if !q.TryPush(i) {
			t.Fatalf("push failed at %d (queue unexpectedly full)", i)
		}
	}
	if q.TryPush(999) {
		t.Fatalf("expected overflow (push should return false), but got true")
	}
}

// Concurrent test: many producers, single consumer.
// Checks that all values [0..N) are received exactly once.
func TestMPSCConcurrentProducers(t *testing.T) {
	const (
		capacity    = 1 << 12
		N           = 200_000
		producers   = 8
		perProducer = N / producers
	)

	q := NewMPSC[int](capacity)
	var wg sync.WaitGroup

	// seen[i] == how many times we saw value i
	seen := make([]int32, N)

	// Consumer
	wg.Add(1)
	go func() {
		defer wg.Done()

		received := 0
		for received < N {
			v, ok := q.TryPop()
			if !ok {
				// queue empty at the moment, give producers a chance
				runtime.Gosched()
				continue
			}
			if v < 0 || v >= N {
				t.Errorf("consumer: out-of-range value %d", v)
				continue
			}
			atomic.AddInt32(&seen[v], 1)
			received++
		}
	}()

	// Producers
	var pg sync.WaitGroup
	pg.Add(producers)
	for p := 0; p < producers; p++ {
		start := p * perProducer
		end := start + perProducer

		go func(from, to int) {
			defer pg.Done()
			for i := from; i < to; i++ {
				// Keep retrying on overflow (bounded queue)
				for !q.TryPush(i) {
					runtime.Gosched()
				}
			}
		}(start, end)
	}

	pg.Wait()
	wg.Wait()

	// Verify that each value is seen exactly once
	for i := 0; i < N; i++ {
		if seen[i] != 1 {
			t.Fatalf("value %d seen %d times (expected 1)", i, seen[i])
		}
	}
}

// Per-producer FIFO: the global interleaving is unspecified, but each
// producer's own values must arrive in its submission order.
func TestMPSCPerProducerOrder(t *testing.T) {
	const (
		capacity    = 256
		producers   = 4
		perProducer = 50_000
	)

	tx, rx := MPSCChannel[[2]int](capacity)

	var pg sync.WaitGroup
	pg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(id int, tx *MPSCSender[[2]int]) {
			defer pg.Done()
			for i := 0; i < perProducer; i++ {
				if !tx.Send([2]int{id, i}) {
					t.Errorf("producer %d: channel closed mid-send", id)
					return
				}
			}
		}(p, tx.Clone())
	}

	go func() {
		pg.Wait()
		tx.Close()
	}()

	next := make([]int, producers)
	total := 0
	for {
		v, ok := rx.Recv()
		if !ok {
			break
		}
		id, seq := v[0], v[1]
		if next[id] != seq {
			t.Fatalf("producer %d: expected seq %d, got %d (per-producer FIFO violated)", id, next[id], seq)
		}
		next[id]++
		total++
	}

	if total != producers*perProducer {
		t.Fatalf("received %d values, expected %d", total, producers*perProducer)
	}
}

// Closing with data in flight must not lose buffered values.
func TestMPSCChannelCloseDrain(t *testing.T) {
	tx, rx := MPSCChannel[int](8)

	for i := 0; i < 5; i++ {
		if !tx.TrySend(i) {
			t.Fatalf("send failed at %d", i)
		}
	}
	tx.Close()

	if !rx.IsClosed() {
		t.Fatalf("receiver must observe close")
	}
	for i := 0; i < 5; i++ {
		v, ok := rx.Recv()
		if !ok || v != i {
			t.Fatalf("expected (%d, true) after close, got (%d, %v)", i, v, ok)
		}
	}
	if _, ok := rx.Recv(); ok {
		t.Fatalf("expected empty after drain")
	}
	if tx.Send(99) {
		t.Fatalf("Send after close must fail")
	}
}

// Benchmark: many producers, single consumer.
func BenchmarkMPSC_MP1C(b *testing.B) {
	const (
		capacity  = 1 << 16
		producers = 8
	)

	q := NewMPSC[int](capacity)
	perProducer := b.N / producers

	var wg sync.WaitGroup
	wg.Add(producers + 1) // producers + consumer

	// Consumer
	go func() {
		defer wg.Done()
		total := 0
		for total < perProducer*producers {
			v, ok := q.TryPop()
			if !ok {
				runtime.Gosched()
				continue
			}
			_ = v
			total++
		}
	}()

	// Producers
	for p := 0; p < producers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				for !q.TryPush(i) {
					runtime.Gosched()
				}
			}
		}()
	}

	b.ResetTimer()
	wg.Wait()
	b.StopTimer()
}
