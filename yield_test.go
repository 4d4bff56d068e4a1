package corosync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// manualContext is a minimal ExecContext that queues submissions instead
// of running them, so tests can drive resumption deterministically from
// the main goroutine.
type manualContext struct {
	mu    chan struct{}
	queue []func()
}

func newManualContext() *manualContext {
	return &manualContext{mu: make(chan struct{}, 1)}
}

func (m *manualContext) Submit(fn func()) {
	m.mu <- struct{}{}
	m.queue = append(m.queue, fn)
	<-m.mu
}

func (m *manualContext) pending() int {
	m.mu <- struct{}{}
	n := len(m.queue)
	<-m.mu
	return n
}

// Drain runs every callable queued so far, including ones queued by
// callables run during this Drain call, until the queue is empty.
func (m *manualContext) Drain() {
	for {
		m.mu <- struct{}{}
		if len(m.queue) == 0 {
			<-m.mu
			return
		}
		fn := m.queue[0]
		m.queue = m.queue[1:]
		<-m.mu

		fn()
	}
}

func TestYieldOnImmediateReturns(t *testing.T) {
	r := require.New(t)

	done := make(chan struct{})
	go func() {
		Yield(Immediate{})
		close(done)
	}()

	<-done
	r.True(true)
}

func TestYieldOnManualContextSuspendsUntilDrained(t *testing.T) {
	r := require.New(t)

	ctx := newManualContext()
	resumed := make(chan struct{})

	go func() {
		Yield(ctx)
		close(resumed)
	}()

	r.Eventually(func() bool {
		return ctx.pending() > 0
	}, time.Second, time.Millisecond)

	select {
	case <-resumed:
		t.Fatal("Yield resumed before the context was drained")
	default:
	}

	ctx.Drain()
	<-resumed
}
