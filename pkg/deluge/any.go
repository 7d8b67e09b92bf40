package deluge

import (
	"context"
	"fmt"
)

// Any reports whether at least one element satisfies the predicate.
//
// Input: context, flow, predicate, options (WithConcurrency)
// Output: true at the first hit in input order, false on exhaustion;
// error only on context cancellation
// Behavior: TERMINAL - symmetric to All; the first true delivered in input
// order resolves the call and the remaining in-flight computations are
// dropped
//
// Example:
//
//	found, err := deluge.Any(ctx, ids, func(ctx context.Context, id int) bool {
//		return id == needle
//	}, deluge.WithConcurrency(1))
func Any[T any](ctx context.Context, flow Flow[T], predicate func(context.Context, T) bool, opts ...Option) (bool, error) {
	cfg := newConfig(opts)
	out, stop, box := drive(ctx, Map(flow, predicate), cfg.concurrency)
	return scanAny(ctx, out, stop, box, "any")
}

// AnyPar is Any on the parallel work-stealing driver.
//
// Input: context, flow, predicate, options (WithWorkers,
// WithWorkerConcurrency)
// Output and short-circuiting as for Any.
func AnyPar[T any](ctx context.Context, flow Flow[T], predicate func(context.Context, T) bool, opts ...Option) (bool, error) {
	cfg := newConfig(opts)
	out, stop, box := drivePar(ctx, Map(flow, predicate), cfg)
	return scanAny(ctx, out, stop, box, "parallel any")
}

func scanAny(ctx context.Context, out <-chan bool, stop func(), box *panicBox, op string) (bool, error) {
	defer stop()
	for v := range out {
		if v {
			LogDebug(ctx, "short-circuiting", "op", op, "result", true)
			stop()
			return true, nil
		}
	}
	box.repanic()
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s interrupted: %w", op, err)
	}
	return false, nil
}
