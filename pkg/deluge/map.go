package deluge

import "context"

// Map transforms every element of a flow through fn.
//
// Input: upstream Flow[T], transform fn running one element's async work
// Output: Flow[U] whose thunks await the upstream thunk, then fn
// Behavior: LAZY - layering Map allocates no queue and runs nothing; the
// combined computation executes when a terminal driver invokes the thunk
//
// fn receives the driver's context and may block (API calls, sleeps, ...).
// Positions filtered out upstream stay filtered; fn is not called for them.
//
// Example:
//
//	enriched := deluge.Map(users, func(ctx context.Context, u User) Profile {
//		return fetchProfile(ctx, u.ID)
//	})
func Map[T, U any](upstream Flow[T], fn func(context.Context, T) U) Flow[U] {
	return &mapFlow[T, U]{upstream: upstream, fn: fn}
}

type mapFlow[T, U any] struct {
	upstream Flow[T]
	fn       func(context.Context, T) U
}

func (m *mapFlow[T, U]) Next() (Thunk[U], bool) {
	thunk, ok := m.upstream.Next()
	if !ok {
		return nil, false
	}
	return func(ctx context.Context) (U, bool) {
		v, ok := thunk(ctx)
		if !ok {
			var zero U
			return zero, false
		}
		return m.fn(ctx, v), true
	}, true
}
