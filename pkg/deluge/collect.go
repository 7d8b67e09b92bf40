package deluge

import (
	"context"
	"fmt"
)

// Extender receives emitted elements one at a time.
//
// The collect family writes into anything that can be extended by one
// element; extension order is emission order, which is input order. The
// zero value of an implementation must be usable.
type Extender[T any] interface {
	Extend(T)
}

// SliceExtender accumulates elements into a slice.
//
// Example:
//
//	var acc deluge.SliceExtender[int]
//	err := deluge.CollectInto(ctx, flow, &acc)
//	fmt.Println(acc.Items)
type SliceExtender[T any] struct {
	Items []T
}

// Extend appends one element.
func (s *SliceExtender[T]) Extend(v T) {
	s.Items = append(s.Items, v)
}

// MapExtender accumulates key/value pairs into a map, later keys winning.
type MapExtender[K comparable, V any] struct {
	Items map[K]V
}

// Extend inserts one pair, allocating the map on first use.
func (m *MapExtender[K, V]) Extend(p Pair[K, V]) {
	if m.Items == nil {
		m.Items = make(map[K]V)
	}
	m.Items[p.First] = p.Second
}

// Collect evaluates the flow concurrently and returns the results in input
// order.
//
// Input: context, flow, options (WithConcurrency)
// Output: ordered results, error only on context cancellation
// Behavior: TERMINAL - up to K computations run at once (unbounded by
// default); filtered positions are omitted from the output; a panic inside
// an element computation is re-raised here
//
// Example:
//
//	doubled := deluge.Map(deluge.FromSlice(in), double)
//	results, err := deluge.Collect(ctx, doubled, deluge.WithConcurrency(5))
func Collect[T any](ctx context.Context, flow Flow[T], opts ...Option) ([]T, error) {
	var acc SliceExtender[T]
	if err := CollectInto(ctx, flow, &acc, opts...); err != nil {
		return nil, err
	}
	return acc.Items, nil
}

// CollectInto evaluates the flow concurrently and extends the given
// accumulator with every result, in input order.
//
// Input: context, flow, accumulator, options (WithConcurrency)
// Output: error only on context cancellation
// Behavior: TERMINAL - like Collect, but routing emission into any Extender
func CollectInto[T any](ctx context.Context, flow Flow[T], into Extender[T], opts ...Option) error {
	cfg := newConfig(opts)
	out, stop, box := drive(ctx, flow, cfg.concurrency)
	defer stop()

	for v := range out {
		into.Extend(v)
	}
	box.repanic()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("collect interrupted: %w", err)
	}
	return nil
}
