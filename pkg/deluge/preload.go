package deluge

import (
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Preloaded materialises every remaining computation of a flow into an
// ordered buffer, so the length is known up front and positions are fixed
// at construction time.
//
// Zip needs this: both sides must expose a stable length and stable indices
// before any evaluation starts, and the source flow cannot be re-entered.
// Serving pops the front of the buffer, so traversal order is unchanged.
type Preloaded[T any] struct {
	mu  sync.Mutex
	buf *orderedmap.OrderedMap[int, Thunk[T]]
}

// NewPreloaded drains the upstream synchronously into the buffer.
//
// Input: the flow to materialise
// Output: a Preloaded flow owning every pending computation
// Behavior: EAGER intake (the computations themselves stay unevaluated);
// after construction the upstream is exhausted and must not be used again
func NewPreloaded[T any](upstream Flow[T]) *Preloaded[T] {
	buf := orderedmap.New[int, Thunk[T]]()
	for i := 0; ; i++ {
		thunk, ok := upstream.Next()
		if !ok {
			break
		}
		buf.Set(i, thunk)
	}
	return &Preloaded[T]{buf: buf}
}

// Len reports how many computations remain buffered.
func (p *Preloaded[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buf.Len()
}

// Next pops the head of the buffer.
func (p *Preloaded[T]) Next() (Thunk[T], bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	head := p.buf.Oldest()
	if head == nil {
		return nil, false
	}
	p.buf.Delete(head.Key)
	return head.Value, true
}
