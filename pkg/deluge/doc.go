// Package deluge provides lazy sequences of deferred computations and
// terminal drivers that evaluate them concurrently or in parallel while
// preserving input order.
//
// A conventional asynchronous sequence evaluates one element at a time, so a
// pipeline of N I/O-bound elements costs O(N * latency) wall time even when
// the individual operations are independent. This package separates
// describing the per-element work (cheap adapter layering: Map, FilterMap,
// Take, Zip, ...) from driving it (Collect, CollectPar, Fold, All, Any),
// where the driver picks a concurrency or parallelism strategy.
//
// The central abstraction is Flow: a source that hands out unevaluated
// Thunks on demand. Nothing runs until a terminal driver pulls thunks and
// schedules them on goroutines.
//
// Basic usage:
//
//	flow := deluge.Map(deluge.Range(0, 100), func(ctx context.Context, i int) int {
//		time.Sleep(100 * time.Millisecond) // stands in for an API call
//		return i * 2
//	})
//
//	// All 100 sleeps overlap; results arrive in input order.
//	results, err := deluge.Collect(ctx, flow)
//
// Bound the number of simultaneously running computations with
// WithConcurrency, or spread the work over a pool of workers with
// CollectPar:
//
//	results, err := deluge.CollectPar(ctx, flow,
//		deluge.WithWorkers(10),
//		deluge.WithWorkerConcurrency(5))
package deluge
