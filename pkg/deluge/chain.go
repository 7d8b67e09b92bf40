package deluge

import "sync"

// Chain concatenates two flows of the same element type.
//
// Input: flows a and b
// Output: Flow[T] yielding all of a's thunks, then all of b's
// Behavior: a single flag records the transition; once a reports
// exhaustion, every further Next goes to b
func Chain[T any](a, b Flow[T]) Flow[T] {
	return &chainFlow[T]{first: a, second: b}
}

type chainFlow[T any] struct {
	first  Flow[T]
	second Flow[T]

	mu             sync.Mutex
	firstExhausted bool
}

func (c *chainFlow[T]) Next() (Thunk[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.firstExhausted {
		if thunk, ok := c.first.Next(); ok {
			return thunk, true
		}
		c.firstExhausted = true
	}
	return c.second.Next()
}
