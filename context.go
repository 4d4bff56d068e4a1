package corosync

// ExecContext is the universal entry point for scheduling a callable onto
// a host scheduler. It hands fn to the backing scheduler for execution;
// no ordering or parallelism guarantees are imposed by the abstraction
// itself, only whatever policy the concrete scheduler enforces.
//
// Submit must not duplicate fn: it is invoked exactly once, at some point
// after Submit returns (or, for Immediate, before it returns).
type ExecContext interface {
	Submit(fn func())
}

// Immediate runs every submitted callable synchronously, before Submit
// returns. Callers that hand Immediate to a suspension point must
// tolerate the resulting reentrancy: a wake callable scheduled on an
// Immediate context runs on the same goroutine, and possibly the same
// call stack, that triggered the wake.
//
// Immediate is comparable; two Immediate values always compare equal.
type Immediate struct{}

// Submit runs fn immediately.
func (Immediate) Submit(fn func()) { fn() }

// Equal reports whether other is also an Immediate context.
func (Immediate) Equal(other ExecContext) bool {
	_, ok := other.(Immediate)
	return ok
}

// AdaptedContext adapts an arbitrary "submit a callable" function into an
// ExecContext. It is the Go analogue of colite's executor::adapt: any
// invocable that accepts a nullary function and arranges for it to run
// later becomes a usable ExecContext.
type AdaptedContext struct {
	submit func(func())
}

// Adapt wraps submit as an ExecContext. submit must eventually invoke
// (exactly once) each function handed to it.
func Adapt(submit func(func())) AdaptedContext {
	if submit == nil {
		panic("corosync: Adapt requires a non-nil submit function")
	}
	return AdaptedContext{submit: submit}
}

// Submit forwards fn to the wrapped submit function.
func (a AdaptedContext) Submit(fn func()) { a.submit(fn) }

// Equal always reports false: two AdaptedContext values are never
// considered equal, since the wrapped func value carries no comparable
// identity.
func (a AdaptedContext) Equal(ExecContext) bool { return false }

// anyBox is the indirection AnyContext compares by pointer identity.
// Keeping it out of AnyContext itself means copies of an AnyContext
// value (assignment, passing by value) keep pointing at the same box and
// therefore stay equal to one another.
type anyBox struct {
	impl ExecContext
}

// AnyContext type-erases an arbitrary ExecContext so that values of
// different concrete context types can be stored side by side, e.g.
// inside a waiter record whose field type is fixed at definition time.
//
// Equality compares the identity of the boxed implementation rather than
// its value: two AnyContext handles are equal iff they were produced
// from the same Erase call (directly, or via copies of its result). This
// is a deliberately stricter comparison than colite's erased-executor
// equality, which treats every copy as distinct; the stricter version
// stays reflexive for Immediate and still distinguishes distinct
// scheduling targets.
type AnyContext struct {
	box *anyBox
}

// Erase type-erases ctx. Erasing an already-erased context returns it
// unchanged rather than double-boxing it.
func Erase(ctx ExecContext) AnyContext {
	if already, ok := ctx.(AnyContext); ok {
		return already
	}
	return AnyContext{box: &anyBox{impl: ctx}}
}

// Submit forwards fn to the wrapped context.
func (a AnyContext) Submit(fn func()) { a.box.impl.Submit(fn) }

// Equal reports whether other is an AnyContext erasing the same
// underlying box as a.
func (a AnyContext) Equal(other ExecContext) bool {
	o, ok := other.(AnyContext)
	return ok && a.box == o.box
}
