package deluge

import "sync"

// Take returns at most n element computations from the upstream flow.
//
// Input: upstream Flow[T], maximum element count n
// Output: Flow[T] exhausting after n thunks have been handed out
// Behavior: the provided counter is monotonic; once it reaches n, every
// further Next reports exhaustion without touching the upstream
//
// Example:
//
//	firstTen := deluge.Take(results, 10)
func Take[T any](upstream Flow[T], n int) Flow[T] {
	return &takeFlow[T]{upstream: upstream, limit: n}
}

// First returns a flow containing only the first element of the upstream.
//
// Equivalent to Take(upstream, 1).
func First[T any](upstream Flow[T]) Flow[T] {
	return Take(upstream, 1)
}

type takeFlow[T any] struct {
	upstream Flow[T]
	limit    int

	mu       sync.Mutex
	provided int
}

func (t *takeFlow[T]) Next() (Thunk[T], bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.provided >= t.limit {
		return nil, false
	}
	thunk, ok := t.upstream.Next()
	if !ok {
		t.provided = t.limit
		return nil, false
	}
	t.provided++
	return thunk, true
}
