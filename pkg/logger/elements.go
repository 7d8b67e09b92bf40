package logger

import (
	"context"
	"sync"
	"time"

	"github.com/mkawalec/deluge/pkg/deluge"
)

// Elements wraps a flow so that every element computation logs its
// lifecycle through the given logger.
//
// Input: logger, level for the entries, a label identifying the flow, the
// flow to wrap
// Output: a Flow identical in semantics to the input
// Behavior: LAZY - each evaluated computation logs one entry with its
// position, duration and whether the position was filtered out. Entries
// are skipped entirely when the level is disabled on the backend.
//
// Example:
//
//	lg := logger.New(logger.NewZerologAdapter(zlog))
//	flow := logger.Elements(lg, logger.DebugLevel, "fetch-pages", pages)
func Elements[T any](lg *Logger, level LogLevel, label string, flow deluge.Flow[T]) deluge.Flow[T] {
	return &loggedFlow[T]{upstream: flow, logger: lg, level: level, label: label}
}

type loggedFlow[T any] struct {
	upstream deluge.Flow[T]
	logger   *Logger
	level    LogLevel
	label    string

	mu  sync.Mutex
	pos int
}

func (f *loggedFlow[T]) Next() (deluge.Thunk[T], bool) {
	thunk, ok := f.upstream.Next()
	if !ok {
		return nil, false
	}
	f.mu.Lock()
	position := f.pos
	f.pos++
	f.mu.Unlock()

	return func(ctx context.Context) (T, bool) {
		start := time.Now()
		v, present := thunk(ctx)
		f.logger.Log(ctx, f.level, "element evaluated",
			Attr("flow", f.label),
			Attr("position", position),
			Attr("filtered", !present),
			Attr("duration", time.Since(start)),
		)
		return v, present
	}, true
}
