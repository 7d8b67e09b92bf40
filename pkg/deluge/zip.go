package deluge

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Pair is one combined element of a zipped flow.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Zip combines two flows position-wise: the i-th output pairs the i-th
// element of each side, regardless of which side resolves first.
//
// Input: the two flows, options (WithConcurrency bounds each side's
// evaluation separately)
// Output: Flow[Pair[A, B]] of length min(len(a), len(b))
// Behavior: both sides are preloaded at construction, so their lengths are
// fixed immediately; evaluation starts lazily when the first combined
// computation runs. Each side is evaluated concurrently through its own
// ordered drive, and positional retrieval goes through an IndexableStream,
// so out-of-order completions never mis-pair. A position filtered out on
// either side shortens that side: pairing is over each side's surviving
// elements.
//
// Example:
//
//	pairs, err := deluge.Collect(ctx, deluge.Zip(users, scores))
func Zip[A, B any](a Flow[A], b Flow[B], opts ...Option) Flow[Pair[A, B]] {
	cfg := newConfig(opts)

	preA := NewPreloaded(a)
	preB := NewPreloaded(b)
	total := min(preA.Len(), preB.Len())

	first := newIndexableStream(func(ctx context.Context) (<-chan A, *panicBox) {
		out, _, box := drive[A](ctx, preA, cfg.concurrency)
		return out, box
	})
	second := newIndexableStream(func(ctx context.Context) (<-chan B, *panicBox) {
		out, _, box := drive[B](ctx, preB, cfg.concurrency)
		return out, box
	})

	return &zipFlow[A, B]{first: first, second: second, total: total}
}

type zipFlow[A, B any] struct {
	first  *IndexableStream[A]
	second *IndexableStream[B]
	total  int

	mu       sync.Mutex
	provided int
}

func (z *zipFlow[A, B]) Next() (Thunk[Pair[A, B]], bool) {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.provided >= z.total {
		return nil, false
	}
	idx := z.provided
	z.provided++

	return func(ctx context.Context) (Pair[A, B], bool) {
		var (
			av  A
			bv  B
			aok bool
			bok bool
		)
		var g errgroup.Group
		g.Go(func() error {
			av, aok = z.first.GetNth(ctx, idx)
			return nil
		})
		g.Go(func() error {
			bv, bok = z.second.GetNth(ctx, idx)
			return nil
		})
		_ = g.Wait()

		if !aok || !bok {
			return Pair[A, B]{}, false
		}
		return Pair[A, B]{First: av, Second: bv}, true
	}, true
}
