package deluge

import (
	"context"
	"fmt"
)

// All reports whether every element satisfies the predicate.
//
// Input: context, flow, predicate, options (WithConcurrency)
// Output: true on exhaustion without a miss, false at the first miss in
// input order; error only on context cancellation
// Behavior: TERMINAL - predicates are evaluated concurrently via Map over
// the concurrent driver; the first false delivered in input order resolves
// the call and the remaining in-flight computations are dropped (their
// results are ignored)
//
// Example:
//
//	ok, err := deluge.All(ctx, users, func(ctx context.Context, u User) bool {
//		return u.Verified
//	}, deluge.WithConcurrency(8))
func All[T any](ctx context.Context, flow Flow[T], predicate func(context.Context, T) bool, opts ...Option) (bool, error) {
	cfg := newConfig(opts)
	out, stop, box := drive(ctx, Map(flow, predicate), cfg.concurrency)
	return scanAll(ctx, out, stop, box, "all")
}

// AllPar is All on the parallel work-stealing driver.
//
// Input: context, flow, predicate, options (WithWorkers,
// WithWorkerConcurrency)
// Output and short-circuiting as for All.
func AllPar[T any](ctx context.Context, flow Flow[T], predicate func(context.Context, T) bool, opts ...Option) (bool, error) {
	cfg := newConfig(opts)
	out, stop, box := drivePar(ctx, Map(flow, predicate), cfg)
	return scanAll(ctx, out, stop, box, "parallel all")
}

func scanAll(ctx context.Context, out <-chan bool, stop func(), box *panicBox, op string) (bool, error) {
	defer stop()
	for v := range out {
		if !v {
			LogDebug(ctx, "short-circuiting", "op", op, "result", false)
			stop()
			return false, nil
		}
	}
	box.repanic()
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s interrupted: %w", op, err)
	}
	return true, nil
}
