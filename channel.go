package corosync

import (
	"context"
	"runtime/trace"
	"sync"
	"sync/atomic"

	"github.com/gammazero/deque"
)

const channelTraceCategory = "corosync-channel"

// chanState is the state shared between a channel's Sender and Receiver
// endpoints (and, transitively, between every clone of either side). It
// is never copied; every endpoint holds a pointer to the same instance.
type chanState[T any] struct {
	noCopy noCopy

	mu        sync.Mutex
	queue     deque.Deque[T]
	receivers []*receiveWaiter[T]

	senderTicket   *ticket
	receiverTicket *ticket
}

// receiveWaiter is the waiter record created when Receive suspends. The
// channel state holds it in its receivers slice until it is woken or
// abandoned; abandoned is the explicit stand-in for "the suspended task
// was dropped before the wake it was promised could run."
type receiveWaiter[T any] struct {
	ctx       ExecContext
	done      chan struct{}
	value     T
	ok        bool
	abandoned atomic.Bool
}

// ReceiveResult is the outcome of a suspending Receive: either a value
// (Closed == false) or the channel-closed signal (Closed == true, Value
// holds the zero value of T).
type ReceiveResult[T any] struct {
	Value  T
	Closed bool
}

// ReceiveOp is the awaitable handle returned by Receiver.Receive. Call
// Wait to block until it resolves, or Cancel to abandon it (the Go
// stand-in for dropping the suspended task before it resumes).
type ReceiveOp[T any] struct {
	w         *receiveWaiter[T]
	immediate *ReceiveResult[T]
}

// Wait blocks until the receive completes and returns its result. Wait
// must not be called more than once on the same ReceiveOp.
func (op *ReceiveOp[T]) Wait() ReceiveResult[T] {
	if op.immediate != nil {
		return *op.immediate
	}
	<-op.w.done
	return ReceiveResult[T]{Value: op.w.value, Closed: !op.w.ok}
}

// Cancel abandons a suspended receive. It is a no-op if the receive had
// already resolved synchronously (no waiter was ever parked) or has
// already been woken. A wake that races with Cancel observes the
// abandoned flag and performs no resumption; the channel is otherwise
// unaffected, and any value that wake would have delivered remains
// buffered for the next receiver.
func (op *ReceiveOp[T]) Cancel() {
	if op.w != nil {
		op.w.abandoned.Store(true)
	}
}

// Sender is the producer side of a channel. A Sender is copyable only
// via Clone; a bare struct copy aliases the same ticket reference
// without incrementing its count, so closing one copy closes the other
// prematurely. Call Close exactly once per Clone (including the Sender
// returned by NewChannel).
type Sender[T any] struct {
	state  *chanState[T]
	ticket *ticket
}

// Receiver is the consumer side of a channel, with the same copy
// discipline as Sender.
type Receiver[T any] struct {
	state  *chanState[T]
	ticket *ticket
}

// NewChannel creates an unbounded FIFO channel and returns its paired
// Sender and Receiver, each with a ticket of live-count one.
func NewChannel[T any]() (Sender[T], Receiver[T]) {
	state := &chanState[T]{
		senderTicket:   newTicket(),
		receiverTicket: newTicket(),
	}
	return Sender[T]{state: state, ticket: state.senderTicket},
		Receiver[T]{state: state, ticket: state.receiverTicket}
}

// Clone returns a new Sender endpoint sharing the same channel, bumping
// the sender ticket's live count.
func (s Sender[T]) Clone() Sender[T] {
	s.ticket.addRef()
	return Sender[T]{state: s.state, ticket: s.ticket}
}

// Close releases this Sender endpoint. If it was the last live sender,
// the channel becomes closed-to-senders: every parked receiver is woken
// to observe either the remaining buffered data or the close signal.
func (s Sender[T]) Close() {
	if !s.ticket.release() {
		return
	}

	s.state.mu.Lock()
	waiters := s.state.receivers
	s.state.receivers = nil
	s.state.mu.Unlock()

	if trace.IsEnabled() {
		trace.Log(context.Background(), channelTraceCategory, "SENDER CLOSE")
	}

	s.state.wakeReceivers(waiters)
}

// TrySend enqueues value without suspending. It fails with ErrSendClosed
// if no receivers remain.
func (s Sender[T]) TrySend(value T) error {
	if !s.state.receiverTicket.alive() {
		return ErrSendClosed
	}

	waiters := s.state.pushAndDrain(value)
	s.state.wakeReceivers(waiters)
	return nil
}

// Send enqueues value and then gives the caller a chance to yield to ctx
// before returning, so a successful send always resumes through a
// context hop. If the channel is closed to receivers, Send reports
// ErrSendClosed immediately without hopping through ctx, since the
// outcome is already known synchronously.
func (s Sender[T]) Send(ctx ExecContext, value T) error {
	if !s.state.receiverTicket.alive() {
		return ErrSendClosed
	}

	waiters := s.state.pushAndDrain(value)
	s.state.wakeReceivers(waiters)

	Yield(ctx)
	return nil
}

// pushAndDrain appends value to the queue and atomically steals the
// current receiver waiter list, under the state lock, so the caller can
// submit wake callables for it outside the lock.
func (st *chanState[T]) pushAndDrain(value T) []*receiveWaiter[T] {
	st.mu.Lock()
	st.queue.PushBack(value)
	waiters := st.receivers
	st.receivers = nil
	st.mu.Unlock()
	return waiters
}

// Clone returns a new Receiver endpoint sharing the same channel,
// bumping the receiver ticket's live count.
func (r Receiver[T]) Clone() Receiver[T] {
	r.ticket.addRef()
	return Receiver[T]{state: r.state, ticket: r.ticket}
}

// Close releases this Receiver endpoint. There is no receiver-waiter
// list to drain on the sender side; subsequent TrySend/Send calls simply
// observe closed-to-receivers once the last Receiver is closed.
func (r Receiver[T]) Close() {
	r.ticket.release()
}

// Available returns a snapshot of the number of values currently
// buffered on the channel. It may be stale by the time the caller acts
// on it.
func (r Receiver[T]) Available() int {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	return r.state.queue.Len()
}

// TryReceive pops the oldest buffered value without suspending. It fails
// with ErrReceiveEmpty if the buffer is empty but senders remain, or
// ErrReceiveClosed if the buffer is empty and no senders remain.
func (r Receiver[T]) TryReceive() (T, error) {
	var zero T

	r.state.mu.Lock()
	if r.state.queue.Len() > 0 {
		v := r.state.queue.PopFront()
		r.state.mu.Unlock()
		return v, nil
	}
	senderAlive := r.state.senderTicket.alive()
	r.state.mu.Unlock()

	if senderAlive {
		return zero, ErrReceiveEmpty
	}
	return zero, ErrReceiveClosed
}

// Receive returns an awaitable ReceiveOp. If a value is already
// buffered, or the channel is already closed to senders, the ReceiveOp
// resolves without suspending anyone; otherwise it parks a waiter on ctx
// until data arrives or the last sender goes away.
func (r Receiver[T]) Receive(ctx ExecContext) *ReceiveOp[T] {
	r.state.mu.Lock()

	if r.state.queue.Len() > 0 {
		v := r.state.queue.PopFront()
		r.state.mu.Unlock()
		res := ReceiveResult[T]{Value: v}
		return &ReceiveOp[T]{immediate: &res}
	}

	if !r.state.senderTicket.alive() {
		r.state.mu.Unlock()
		res := ReceiveResult[T]{Closed: true}
		return &ReceiveOp[T]{immediate: &res}
	}

	w := &receiveWaiter[T]{ctx: ctx, done: make(chan struct{})}
	r.state.receivers = append(r.state.receivers, w)
	r.state.mu.Unlock()

	if trace.IsEnabled() {
		trace.Log(context.Background(), channelTraceCategory, "RECEIVE SUSPEND")
	}

	return &ReceiveOp[T]{w: w}
}

// wakeReceivers implements the "wake all, let stragglers re-enqueue"
// protocol: every non-abandoned waiter from the drained list is handed a
// wake callable on its own ExecContext. The callable re-checks the
// queue and sender liveness under the state lock at the moment it
// actually runs, since both may have changed since the drain. A waiter
// observed abandoned, either at drain time or at wake-execution time,
// is skipped entirely: no resumption is issued, and any value it would
// have consumed is left for the next successful wake.
func (st *chanState[T]) wakeReceivers(waiters []*receiveWaiter[T]) {
	for _, w := range waiters {
		w := w
		if w.abandoned.Load() {
			continue
		}
		w.ctx.Submit(func() {
			if w.abandoned.Load() {
				return
			}

			st.mu.Lock()
			if st.queue.Len() > 0 {
				v := st.queue.PopFront()
				st.mu.Unlock()
				w.value = v
				w.ok = true
				close(w.done)
				return
			}
			if !st.senderTicket.alive() {
				st.mu.Unlock()
				w.ok = false
				close(w.done)
				return
			}
			st.receivers = append(st.receivers, w)
			st.mu.Unlock()
		})
	}
}
