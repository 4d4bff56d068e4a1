package corosync

import (
	"context"
	"runtime/trace"
	"sync"
)

const mutexTraceCategory = "corosync-mutex"

// Mutex guards a value of type T, held in place rather than beside the
// lock. At most one Guard exists at a time; a goroutine that calls Lock
// while the Mutex is held is suspended until the Guard protecting the
// previous holder's access is released.
type Mutex[T any] struct {
	noCopy noCopy

	mu      sync.Mutex
	locked  bool
	value   T
	waiters []*mutexWaiter[T]
}

// mutexWaiter is the waiter record created when Lock suspends. It is
// referenced by the Mutex's waiter list while parked, by the wake
// callable submitted for it on release, and by the Lock call blocked on
// done. It has no abandoned flag: a suspended Lock cannot be cancelled.
type mutexWaiter[T any] struct {
	ctx  ExecContext
	done chan struct{}
}

// NewMutex creates a Mutex guarding the given initial value.
func NewMutex[T any](value T) *Mutex[T] {
	return &Mutex[T]{value: value}
}

// Guard grants exclusive access to a Mutex's value while it exists. The
// Mutex is unlocked, and any waiters woken, when the Guard is released.
// A Guard obtained from TryLock or Lock must be released exactly once;
// Release (and its alias Unlock) are idempotent so a deferred call is
// always safe.
type Guard[T any] struct {
	mu *Mutex[T]
}

// Get returns a pointer to the guarded value. The pointer is only valid
// while the Guard has not been released.
func (g *Guard[T]) Get() *T {
	return &g.mu.value
}

// Release unlocks the Mutex and wakes any waiters. Calling Release on an
// already-released Guard does nothing.
func (g *Guard[T]) Release() {
	if g.mu == nil {
		return
	}

	m := g.mu
	g.mu = nil

	m.mu.Lock()
	m.locked = false
	waiters := m.waiters
	m.waiters = nil
	m.mu.Unlock()

	if trace.IsEnabled() {
		trace.Log(context.Background(), mutexTraceCategory, "UNLOCK")
	}

	m.wakeWaiters(waiters)
}

// Unlock is an alias for Release, matching sync.Mutex naming.
func (g *Guard[T]) Unlock() { g.Release() }

// TryLock attempts to lock the Mutex without suspending the caller. It
// reports whether the lock was acquired.
func (m *Mutex[T]) TryLock() (*Guard[T], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.locked {
		return nil, false
	}
	m.locked = true
	return &Guard[T]{mu: m}, true
}

// Lock acquires the Mutex, suspending the caller on ctx if it is already
// held. If the Mutex is free, Lock returns synchronously without
// suspending.
func (m *Mutex[T]) Lock(ctx ExecContext) *Guard[T] {
	m.mu.Lock()
	if !m.locked {
		m.locked = true
		m.mu.Unlock()
		return &Guard[T]{mu: m}
	}

	w := &mutexWaiter[T]{ctx: ctx, done: make(chan struct{})}
	m.waiters = append(m.waiters, w)
	m.mu.Unlock()

	if trace.IsEnabled() {
		trace.Log(context.Background(), mutexTraceCategory, "LOCK SUSPEND")
	}

	<-w.done
	return &Guard[T]{mu: m}
}

// WaitCount returns a snapshot of the number of goroutines currently
// suspended waiting to acquire the Mutex.
func (m *Mutex[T]) WaitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.waiters)
}

// wakeWaiters implements the poll-on-wake protocol: each waiter races to
// reacquire the Mutex on its own ExecContext. A waiter that loses the
// race is appended back onto the waiter list for the next release to try
// again. wakeWaiters must be called outside m.mu so that an Immediate
// context's reentrant Submit does not deadlock.
func (m *Mutex[T]) wakeWaiters(waiters []*mutexWaiter[T]) {
	for _, w := range waiters {
		w := w
		w.ctx.Submit(func() {
			m.mu.Lock()
			if !m.locked {
				m.locked = true
				m.mu.Unlock()
				close(w.done)
				return
			}
			m.waiters = append(m.waiters, w)
			m.mu.Unlock()
		})
	}
}
