// Package corosync provides cooperative-concurrency primitives for
// goroutines that coordinate across arbitrary host schedulers: a
// pluggable execution-context abstraction, a cooperative yield, an
// asynchronous mutex, and an unbounded multi-producer/multi-consumer
// channel.
//
// Key components:
//
//   - ExecContext: the universal "submit a callable" abstraction that
//     every suspension point resumes through. Immediate runs inline,
//     AdaptedContext wraps an arbitrary submit function, and AnyContext
//     type-erases any of the above.
//
//   - Yield: suspends the calling goroutine and resumes it on a chosen
//     ExecContext, giving other work queued on that context a chance to
//     run first.
//
//   - Mutex: guarded ownership of a value. At most one goroutine holds
//     the Guard at a time; release wakes waiters, who race to reacquire.
//
//   - Channel (NewChannel, Sender, Receiver): an unbounded FIFO queue
//     with lifetime-driven close semantics and a suspending Receive.
package corosync
