package deluge

import (
	"context"
	"fmt"
)

// Fold evaluates the flow concurrently and reduces the results
// sequentially, in input order.
//
// Input: context, flow, initial accumulator, step function, options
// (WithConcurrency)
// Output: the final accumulator, error only on context cancellation
// Behavior: TERMINAL - element evaluation overlaps up to the concurrency
// bound, but step is applied one result at a time in input order, so the
// reduction sees exactly the sequence Collect would have returned
//
// Example:
//
//	sum, err := deluge.Fold(ctx, flow, 0, func(ctx context.Context, acc, v int) int {
//		return acc + v
//	})
func Fold[T, Acc any](ctx context.Context, flow Flow[T], init Acc, step func(context.Context, Acc, T) Acc, opts ...Option) (Acc, error) {
	cfg := newConfig(opts)
	out, stop, box := drive(ctx, flow, cfg.concurrency)
	defer stop()

	acc := init
	for v := range out {
		acc = step(ctx, acc, v)
	}
	box.repanic()
	if err := ctx.Err(); err != nil {
		return acc, fmt.Errorf("fold interrupted: %w", err)
	}
	return acc, nil
}
