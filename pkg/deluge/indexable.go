package deluge

import (
	"context"
	"sync"
)

// IndexableStream multiplexes indexed demand over a single forward-only
// stream: callers await element #i while the stream is only ever consumed
// in order. Elements delivered ahead of their waiter are buffered; waiters
// ahead of the stream are parked and woken when their index lands.
//
// Exactly one caller drives the stream at a time - the parked waiter with
// the smallest index - so consumption stays linear no matter in which order
// indices are requested. Zip relies on this to pair the i-th results of two
// independently evaluated sides.
//
// Example:
//
//	stream := deluge.NewIndexableStream(func(ctx context.Context) <-chan int {
//		out, _, _ := results(ctx) // any ordered channel source
//		return out
//	})
//	v, ok := stream.GetNth(ctx, 3)
type IndexableStream[T any] struct {
	start func(ctx context.Context) (<-chan T, *panicBox)
	once  sync.Once
	ch    <-chan T
	box   *panicBox

	mu        sync.Mutex
	items     map[int]T
	waiters   map[int]int
	wake      chan struct{}
	current   int
	exhausted bool
	driving   bool
}

// NewIndexableStream wraps a lazily started ordered stream.
//
// Input: start function producing the channel of in-order elements; called
// once, with the context of the first GetNth
// Output: an IndexableStream serving positional reads
// Behavior: nothing runs until the first GetNth; the channel closing marks
// exhaustion for every index past the last delivered element
func NewIndexableStream[T any](start func(ctx context.Context) <-chan T) *IndexableStream[T] {
	return newIndexableStream(func(ctx context.Context) (<-chan T, *panicBox) {
		return start(ctx), nil
	})
}

func newIndexableStream[T any](start func(ctx context.Context) (<-chan T, *panicBox)) *IndexableStream[T] {
	return &IndexableStream[T]{
		start:   start,
		items:   make(map[int]T),
		waiters: make(map[int]int),
		wake:    make(chan struct{}),
	}
}

// GetNth returns the idx-th element of the stream, blocking until it has
// been delivered.
//
// Input: context for cancellation, zero-based position
// Output: the element and true, or the zero value and false once the
// stream ends before reaching idx (or the context is cancelled)
// Behavior: concurrent callers are served regardless of call order; each
// element is delivered to exactly one caller
func (s *IndexableStream[T]) GetNth(ctx context.Context, idx int) (T, bool) {
	var zero T
	s.once.Do(func() {
		s.ch, s.box = s.start(ctx)
	})

	s.mu.Lock()
	s.waiters[idx]++
	for {
		if v, ok := s.items[idx]; ok {
			delete(s.items, idx)
			s.unregister(idx)
			s.mu.Unlock()
			return v, true
		}
		if s.exhausted {
			s.unregister(idx)
			s.mu.Unlock()
			if s.box != nil {
				s.box.repanic()
			}
			return zero, false
		}

		if !s.driving && s.minWaiter() == idx {
			s.driving = true
			s.mu.Unlock()

			var v T
			var ok bool
			select {
			case v, ok = <-s.ch:
			case <-ctx.Done():
				s.mu.Lock()
				s.driving = false
				s.unregister(idx)
				s.broadcast()
				s.mu.Unlock()
				return zero, false
			}

			s.mu.Lock()
			s.driving = false
			if !ok {
				s.exhausted = true
			} else {
				s.items[s.current] = v
				s.current++
			}
			s.broadcast()
			continue
		}

		wake := s.wake
		s.mu.Unlock()
		select {
		case <-wake:
		case <-ctx.Done():
			s.mu.Lock()
			s.unregister(idx)
			s.broadcast()
			s.mu.Unlock()
			return zero, false
		}
		s.mu.Lock()
	}
}

// unregister drops one waiter registration for idx. Caller holds mu.
func (s *IndexableStream[T]) unregister(idx int) {
	if n := s.waiters[idx]; n <= 1 {
		delete(s.waiters, idx)
	} else {
		s.waiters[idx] = n - 1
	}
}

// minWaiter returns the smallest registered index. Caller holds mu and has
// registered at least one waiter.
func (s *IndexableStream[T]) minWaiter() int {
	first := true
	minIdx := 0
	for idx := range s.waiters {
		if first || idx < minIdx {
			minIdx = idx
			first = false
		}
	}
	return minIdx
}

// broadcast wakes every parked waiter to re-check the shared state.
// Caller holds mu.
func (s *IndexableStream[T]) broadcast() {
	close(s.wake)
	s.wake = make(chan struct{})
}
