// Package channel provides a family of fixed-capacity lock-free channels
// for passing values between goroutines, one per producer/consumer
// cardinality: SPSC, MPSC, SPMC and MPMC.
//
// All four variants share one ring substrate: a fixed slot array addressed
// by two monotonically increasing 64-bit counters modulo capacity. They
// differ only in which counter needs CAS-based multi-party advancement.
// There are no blocking primitives anywhere; a caller that would block
// busy-polls with a runtime.Gosched hint between attempts.
//
// Each factory returns a (Sender, Receiver) pair sharing the ring and a
// closed flag:
//
//	tx, rx := channel.MPSCChannel[int](100)
//	tx2 := tx.Clone() // hand to another producer goroutine
//
//	go func() { tx.Send(1); tx.Close() }()
//	for v, ok := rx.Recv(); ok; v, ok = rx.Recv() {
//	    _ = v
//	}
//
// Endpoints on a "single" side (both SPSC ends, the MPSC receiver, the
// SPMC sender) have no Clone method and must only ever be used by one
// goroutine at a time; this precondition is not checked at runtime.
// "Many"-side endpoints may be cloned freely and used concurrently.
//
// Close stops new sends immediately but never discards values already
// accepted: receivers keep draining buffered data after close until the
// ring is empty.
//
// FIFO order is guaranteed per producer. With multiple producers the
// global receive order reflects the order in which producers win their
// tail CAS, not submission order across goroutines.
package channel
