package corosync

import (
	"context"
	"runtime/trace"
)

const yieldTraceCategory = "corosync"

// Yield suspends the calling goroutine unconditionally and resubmits its
// resumption onto ctx. Once that submission runs, Yield returns.
//
// A Yield on the same context the caller is already running on gives
// other work already queued on that context a chance to run first. A
// Yield onto a different context is equivalent to a resume-on-other-
// context hop.
func Yield(ctx ExecContext) {
	if trace.IsEnabled() {
		trace.Log(context.Background(), yieldTraceCategory, "YIELD")
	}

	done := make(chan struct{})
	ctx.Submit(func() {
		close(done)
	})
	<-done
}
