package corosync

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImmediateRunsInline(t *testing.T) {
	r := require.New(t)

	ran := false
	Immediate{}.Submit(func() { ran = true })
	r.True(ran)
}

func TestImmediateEquality(t *testing.T) {
	r := require.New(t)

	r.True(Immediate{}.Equal(Immediate{}))
	r.False(Immediate{}.Equal(Adapt(func(func()) {})))
}

func TestAdaptForwardsSubmission(t *testing.T) {
	r := require.New(t)

	var queue []func()
	ctx := Adapt(func(fn func()) {
		queue = append(queue, fn)
	})

	ran := false
	ctx.Submit(func() { ran = true })
	r.False(ran)
	r.Len(queue, 1)

	queue[0]()
	r.True(ran)
}

func TestAdaptedContextNeverEqual(t *testing.T) {
	r := require.New(t)

	a := Adapt(func(func()) {})
	b := a
	r.False(a.Equal(b))
	r.False(a.Equal(a))
}

func TestAnyContextIdentity(t *testing.T) {
	r := require.New(t)

	var queueA, queueB []func()
	a := Erase(Adapt(func(fn func()) { queueA = append(queueA, fn) }))
	b := Erase(Adapt(func(fn func()) { queueB = append(queueB, fn) }))

	r.True(a.Equal(a))
	aCopy := a
	r.True(a.Equal(aCopy))
	r.False(a.Equal(b))

	r.True(Erase(a).Equal(a))
}

func TestAnyContextSubmitsThroughWrapped(t *testing.T) {
	r := require.New(t)

	ran := false
	ctx := Erase(Immediate{})
	ctx.Submit(func() { ran = true })
	r.True(ran)
}
