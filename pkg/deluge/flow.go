package deluge

import "context"

// Thunk is a single deferred element computation.
//
// Input: context.Context for cancellation of the computation
// Output: the element value and whether the position produced one
// Behavior: LAZY - nothing runs until a terminal driver invokes the thunk
//
// A thunk is created by a Flow's Next and owned by the terminal driver for
// the rest of its life; it is invoked exactly once. Returning ok=false means
// "this position is filtered out": drivers skip the position in their output
// but keep its index, so later positions are not renumbered.
//
// Failure is not modeled here. A computation that can fail should carry the
// failure in its element type (for example a small result struct).
type Thunk[T any] func(ctx context.Context) (T, bool)

// Ready returns a thunk that immediately resolves to v.
//
// Input: the value to wrap
// Output: Thunk[T] resolving to (v, true)
// Behavior: the already-completed computation used by eager sources
func Ready[T any](v T) Thunk[T] {
	return func(context.Context) (T, bool) {
		return v, true
	}
}

// Flow is a lazy sequence of deferred element computations.
//
// Next hands out the next thunk, or reports exhaustion with ok=false.
// Next itself never blocks and never fails; all real work lives inside the
// returned thunks. Positions are assigned 0, 1, 2, ... in the order Next is
// called.
//
// Contract: a Flow is polled by at most one consumer at a time (terminal
// drivers funnel Next calls through a single goroutine), and calling Next
// again after it reported exhaustion is undefined. Every Flow shipped by
// this package keeps returning ok=false, but adapters are only required to
// behave up to the first exhaustion.
//
// Example implementation:
//
//	type ones struct{ n int }
//
//	func (o *ones) Next() (deluge.Thunk[int], bool) {
//		if o.n == 0 {
//			return nil, false
//		}
//		o.n--
//		return deluge.Ready(1), true
//	}
type Flow[T any] interface {
	Next() (Thunk[T], bool)
}

// FlowFunc allows a plain function to be used as a Flow.
//
// Input: function matching the Next signature
// Output: implements Flow
// Behavior: adapter pattern for function-to-interface conversion
//
// Example:
//
//	n := 0
//	naturals := deluge.FlowFunc[int](func() (deluge.Thunk[int], bool) {
//		n++
//		return deluge.Ready(n), true
//	})
type FlowFunc[T any] func() (Thunk[T], bool)

// Next implements the Flow interface for FlowFunc.
func (f FlowFunc[T]) Next() (Thunk[T], bool) {
	return f()
}
