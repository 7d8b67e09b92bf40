package deluge

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// completion is one evaluated position on its way back to the driver.
// present mirrors the thunk's ok result: false marks a filtered position
// that must advance the output cursor without emitting.
type completion[T any] struct {
	idx     int
	value   T
	present bool
}

// panicBox carries the first panic raised inside an element computation
// back to the goroutine that called the terminal driver.
type panicBox struct {
	mu  sync.Mutex
	val any
	set bool
}

func (b *panicBox) capture(v any) {
	b.mu.Lock()
	if !b.set {
		b.val, b.set = v, true
	}
	b.mu.Unlock()
}

// repanic re-raises a captured panic on the calling goroutine. No-op when
// nothing was captured.
func (b *panicBox) repanic() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.set {
		panic(b.val)
	}
}

// drive is the concurrent evaluator behind Collect, Fold, All, Any and the
// per-side streams of Zip.
//
// One loader goroutine has exclusive access to the flow. It pulls a thunk
// only after securing a concurrency slot, so at most `limit` computations
// run at once and the flow is never over-pulled. Each thunk runs on its own
// goroutine; completions are reassembled into input order by the emitter
// and delivered over the returned channel, which closes when the flow is
// exhausted and every in-flight computation has landed.
//
// stop cancels the internal context: in-flight computations see their
// context done, pending results are discarded, and the output channel
// closes. A panic inside a thunk cancels the same way and is parked in the
// returned box for the terminal to re-raise.
func drive[T any](ctx context.Context, flow Flow[T], limit int) (<-chan T, func(), *panicBox) {
	ctx, cancel := context.WithCancel(ctx)
	box := &panicBox{}

	var sem *semaphore.Weighted
	buffer := limit
	if limit > 0 {
		sem = semaphore.NewWeighted(int64(limit))
	} else {
		buffer = 64
	}

	completions := make(chan completion[T], buffer)
	out := make(chan T)

	go func() {
		var wg sync.WaitGroup
		idx := 0
		for {
			if sem != nil {
				if err := sem.Acquire(ctx, 1); err != nil {
					break
				}
			} else if ctx.Err() != nil {
				break
			}
			thunk, ok := flow.Next()
			if !ok {
				if sem != nil {
					sem.Release(1)
				}
				break
			}
			i := idx
			idx++
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, present, panicked := runThunk(ctx, thunk, sem, box, cancel)
				if panicked {
					return
				}
				select {
				case completions <- completion[T]{idx: i, value: v, present: present}:
				case <-ctx.Done():
				}
			}()
		}
		LogDebug(ctx, "flow exhausted", "positions", idx, "concurrency", limit)
		wg.Wait()
		close(completions)
	}()

	go emitOrdered(ctx, completions, out)

	return out, cancel, box
}

// runThunk evaluates one computation, releasing its concurrency slot the
// moment the computation finishes (delivery must not count against the
// window). A recovered panic cancels the drive.
func runThunk[T any](ctx context.Context, thunk Thunk[T], sem *semaphore.Weighted, box *panicBox, cancel context.CancelFunc) (v T, present, panicked bool) {
	defer func() {
		if sem != nil {
			sem.Release(1)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			box.capture(r)
			cancel()
			panicked = true
		}
	}()
	v, present = thunk(ctx)
	return v, present, false
}

// emitOrdered restores input order: completions arrive in whatever order
// the computations finish, are buffered by position, and flushed from a
// monotonic cursor. Filtered positions advance the cursor silently so later
// results are not blocked behind them.
func emitOrdered[T any](ctx context.Context, completions <-chan completion[T], out chan<- T) {
	defer close(out)
	buffered := make(map[int]completion[T])
	next := 0
	for c := range completions {
		buffered[c.idx] = c
		for {
			head, ok := buffered[next]
			if !ok {
				break
			}
			delete(buffered, next)
			next++
			if !head.present {
				continue
			}
			select {
			case out <- head.value:
			case <-ctx.Done():
				return
			}
		}
	}
}
