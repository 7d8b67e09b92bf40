package deluge

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// pendingWork is the shared pool parallel workers steal from. Entries are
// keyed by input position; the map preserves insertion order, so popping
// the front hands out the smallest outstanding index.
type pendingWork[T any] struct {
	mu sync.Mutex
	m  *orderedmap.OrderedMap[int, Thunk[T]]
}

func newPendingWork[T any]() *pendingWork[T] {
	return &pendingWork[T]{m: orderedmap.New[int, Thunk[T]]()}
}

func (p *pendingWork[T]) put(idx int, thunk Thunk[T]) {
	p.mu.Lock()
	p.m.Set(idx, thunk)
	p.mu.Unlock()
}

func (p *pendingWork[T]) popFront() (int, Thunk[T], bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	head := p.m.Oldest()
	if head == nil {
		return 0, nil, false
	}
	p.m.Delete(head.Key)
	return head.Key, head.Value, true
}

func (p *pendingWork[T]) empty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.m.Len() == 0
}

// localResult travels from a worker's evaluation goroutines back to the
// worker loop. requeued marks work handed back to the shared pool
// unevaluated; discarded marks a computation whose result must not be
// forwarded (it panicked and the drive is unwinding).
type localResult[T any] struct {
	comp      completion[T]
	requeued  bool
	discarded bool
}

// drivePar is the work-stealing evaluator behind CollectPar, AllPar and
// AnyPar.
//
// The flow is drained eagerly into the shared pending pool, then W workers
// run cooperatively: each keeps up to C computations in flight, refilling
// from the front of the pool as slots free up. Completions funnel into a
// channel sized for the whole input, and the same ordered emitter used by
// the concurrent driver restores input order.
//
// When the drive context is cancelled, a computation that has not started
// yet is returned to the pool under its original index, so no position is
// silently lost to a dying worker; results of computations already running
// are discarded.
func drivePar[T any](ctx context.Context, flow Flow[T], cfg config) (<-chan T, func(), *panicBox) {
	ctx, cancel := context.WithCancel(ctx)
	box := &panicBox{}

	pending := newPendingWork[T]()
	total := 0
	for {
		thunk, ok := flow.Next()
		if !ok {
			break
		}
		pending.put(total, thunk)
		total++
	}

	workers := cfg.effectiveWorkers()
	window := cfg.effectiveWorkerConcurrency(total, workers)
	runID := uuid.NewString()
	LogDebug(ctx, "parallel drive starting",
		"run_id", runID, "items", total, "workers", workers, "worker_concurrency", window)

	completions := make(chan completion[T], max(total, 1))
	out := make(chan T)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runWorker(ctx, id, runID, pending, completions, window, box, cancel)
		}(i)
	}
	go func() {
		wg.Wait()
		close(completions)
	}()

	go emitOrdered(ctx, completions, out)

	return out, cancel, box
}

// runWorker is one cooperative worker: steal from the front of the pool
// until the local window is full, wait for a completion, forward it, refill.
// A worker only exits after a final look at the pool confirms no work was
// handed back by another worker.
func runWorker[T any](ctx context.Context, id int, runID string, pending *pendingWork[T], completions chan<- completion[T], window int, box *panicBox, cancel context.CancelFunc) {
	local := make(chan localResult[T], window)
	inflight := 0
	moreWork := true

	for {
		if ctx.Err() != nil {
			// The drive is unwinding; anything still pooled stays pooled.
			return
		}

		for moreWork && inflight < window {
			idx, thunk, ok := pending.popFront()
			if !ok {
				moreWork = false
				break
			}
			inflight++
			go func(idx int, thunk Thunk[T]) {
				select {
				case <-ctx.Done():
					// Not started yet: hand the computation back so it is
					// not lost with this worker.
					pending.put(idx, thunk)
					local <- localResult[T]{comp: completion[T]{idx: idx}, requeued: true}
					return
				default:
				}
				v, present, panicked := runThunk(ctx, thunk, nil, box, cancel)
				if panicked {
					local <- localResult[T]{comp: completion[T]{idx: idx}, discarded: true}
					return
				}
				local <- localResult[T]{comp: completion[T]{idx: idx, value: v, present: present}}
			}(idx, thunk)
		}

		if inflight == 0 {
			// One more look: a cancelled sibling may have returned work.
			if !moreWork && pending.empty() {
				LogDebug(ctx, "worker finished", "run_id", runID, "worker", id)
				return
			}
			moreWork = true
			continue
		}

		select {
		case res := <-local:
			inflight--
			if res.requeued {
				LogDebug(ctx, "work returned to pool", "run_id", runID, "worker", id, "position", res.comp.idx)
				continue
			}
			if res.discarded {
				continue
			}
			select {
			case completions <- res.comp:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			// In-flight computations drain into the buffered local channel
			// on their own; their results are discarded.
			return
		}
	}
}

// CollectPar evaluates the flow on a pool of work-stealing workers and
// returns the results in input order.
//
// Input: context, flow, options (WithWorkers, WithWorkerConcurrency)
// Output: ordered results, error only on context cancellation
// Behavior: TERMINAL - the flow is drained up front; W workers each keep up
// to C computations running, so global concurrency is bounded by W * C.
// Output is identical to Collect with unbounded concurrency.
//
// Example:
//
//	results, err := deluge.CollectPar(ctx, flow,
//		deluge.WithWorkers(10),
//		deluge.WithWorkerConcurrency(5))
func CollectPar[T any](ctx context.Context, flow Flow[T], opts ...Option) ([]T, error) {
	var acc SliceExtender[T]
	if err := CollectParInto(ctx, flow, &acc, opts...); err != nil {
		return nil, err
	}
	return acc.Items, nil
}

// CollectParInto evaluates the flow on the parallel driver and extends the
// given accumulator with every result, in input order.
func CollectParInto[T any](ctx context.Context, flow Flow[T], into Extender[T], opts ...Option) error {
	cfg := newConfig(opts)
	out, stop, box := drivePar(ctx, flow, cfg)
	defer stop()

	for v := range out {
		into.Extend(v)
	}
	box.repanic()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("parallel collect interrupted: %w", err)
	}
	return nil
}
