package channel

import (
	"runtime"
	"testing"
	"time"
)

// Basic sanity: sequential push/pop preserves FIFO order.
func TestSPSCSequential(t *testing.T) {
	const (
		capacity = 1024
		N        = 100_000
	)

	q := NewSPSC[int](capacity)

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

// Capacity is enforced and a pop makes room again.
func TestSPSCCapacityOverflow(t *testing.T) {
	const capacity = 3
	q := NewSPSC[int](capacity)

	for i := 1; i <= capacity; i++ {
		if !q.TryPush(i) {
			t.Fatalf("push failed at %d (queue unexpectedly full)", i)
		}
	}
	if q.TryPush(4) {
		t.Fatalf("expected overflow (push should return false), but got true")
	}
	if v, ok := q.TryPop(); !ok || v != 1 {
		t.Fatalf("expected (1, true), got (%d, %v)", v, ok)
	}
	if !q.TryPush(4) {
		t.Fatalf("push after pop must succeed")
	}
}

// One producer goroutine against one consumer goroutine: strict FIFO.
func TestSPSCConcurrentPipe(t *testing.T) {
	const (
		capacity = 64
		N        = 200_000
	)

	q := NewSPSC[int](capacity)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < N; i++ {
			for {
				v, ok := q.TryPop()
				if ok {
					if v != i {
						t.Errorf("expected %d, got %d (FIFO violated)", i, v)
						return
					}
					break
				}
				runtime.Gosched()
			}
		}
	}()

	for i := 0; i < N; i++ {
		for !q.TryPush(i) {
			runtime.Gosched()
		}
	}
	<-done
}

func TestSPSCChannelBasic(t *testing.T) {
	tx, rx := SPSCChannel[int](4)

	for i := 1; i <= 3; i++ {
		if !tx.TrySend(i) {
			t.Fatalf("send %d failed (channel unexpectedly full)", i)
		}
	}
	if v, ok := rx.TryRecv(); !ok || v != 1 {
		t.Fatalf("expected (1, true), got (%d, %v)", v, ok)
	}
	if v, ok := rx.TryRecv(); !ok || v != 2 {
		t.Fatalf("expected (2, true), got (%d, %v)", v, ok)
	}

	// 1 buffered, room for 3 more.
	for i := 4; i <= 6; i++ {
		if !tx.TrySend(i) {
			t.Fatalf("send %d failed (channel unexpectedly full)", i)
		}
	}
	if tx.TrySend(7) {
		t.Fatalf("expected send 7 to fail (channel full)")
	}
	for i := 3; i <= 6; i++ {
		v, ok := rx.TryRecv()
		if !ok || v != i {
			t.Fatalf("expected (%d, true), got (%d, %v)", i, v, ok)
		}
	}
	if _, ok := rx.TryRecv(); ok {
		t.Fatalf("expected empty channel")
	}
}

// Close must stop new sends but never discard buffered values.
func TestSPSCChannelClose(t *testing.T) {
	tx, rx := SPSCChannel[int](4)

	if !tx.TrySend(42) {
		t.Fatalf("send failed")
	}
	tx.Close()
	tx.Close() // idempotent

	if !tx.IsClosed() || !rx.IsClosed() {
		t.Fatalf("both endpoints must observe close")
	}
	if v, ok := rx.Recv(); !ok || v != 42 {
		t.Fatalf("expected buffered (42, true) after close, got (%d, %v)", v, ok)
	}
	if _, ok := rx.Recv(); ok {
		t.Fatalf("expected empty after drain")
	}
	if tx.Send(99) {
		t.Fatalf("Send after close must fail")
	}
}

// Send spins when the channel is full and completes once room appears.
func TestSPSCChannelBlockingSend(t *testing.T) {
	tx, rx := SPSCChannel[int](1)

	if !tx.TrySend(1) {
		t.Fatalf("send failed")
	}

	sent := make(chan bool)
	go func() {
		sent <- tx.Send(2)
	}()

	select {
	case <-sent:
		t.Fatalf("Send must block while the channel is full")
	case <-time.After(20 * time.Millisecond):
	}

	if v, ok := rx.TryRecv(); !ok || v != 1 {
		t.Fatalf("expected (1, true), got (%d, %v)", v, ok)
	}
	if ok := <-sent; !ok {
		t.Fatalf("Send must succeed once room appears")
	}
	if v, ok := rx.TryRecv(); !ok || v != 2 {
		t.Fatalf("expected (2, true), got (%d, %v)", v, ok)
	}
}

// Recv spins on an empty channel and returns once a value arrives.
func TestSPSCChannelBlockingRecv(t *testing.T) {
	tx, rx := SPSCChannel[int](1)

	got := make(chan int)
	go func() {
		v, ok := rx.Recv()
		if !ok {
			t.Error("Recv returned empty on an open channel")
		}
		got <- v
	}()

	time.Sleep(10 * time.Millisecond)
	if !tx.TrySend(7) {
		t.Fatalf("send failed")
	}
	if v := <-got; v != 7 {
		t.Fatalf("expected 7, got %d", v)
	}
}

// Benchmark: single producer, single consumer through the raw queue.
func BenchmarkSPSC_1P1C(b *testing.B) {
	const capacity = 1 << 16
	q := NewSPSC[int](capacity)

	done := make(chan struct{})

	go func() {
		for i := 0; i < b.N; i++ {
			for {
				if _, ok := q.TryPop(); ok {
					break
				}
				runtime.Gosched()
			}
		}
		close(done)
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for !q.TryPush(i) {
			runtime.Gosched()
		}
	}
	<-done
	b.StopTimer()
}
