package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/mkawalec/deluge/pkg/deluge"
)

// Metric names recorded by Instrument. All carry a "flow" label with the
// instrumented flow's name.
const (
	// MetricElementsTotal counts evaluated element computations.
	MetricElementsTotal = "deluge_elements_total"
	// MetricElementsFiltered counts computations that resolved to no value.
	MetricElementsFiltered = "deluge_elements_filtered_total"
	// MetricElementsInFlight gauges currently running computations.
	MetricElementsInFlight = "deluge_elements_in_flight"
	// MetricElementDuration is the element evaluation latency histogram.
	MetricElementDuration = "deluge_element_duration_seconds"
)

// Instrument wraps a flow so that every element computation is measured and
// traced.
//
// Input: the flow to wrap, a name for labels/spans, a metrics provider and
// an OpenTelemetry tracer (either may be nil to disable that signal)
// Output: a Flow identical in semantics to the input
// Behavior: LAZY - wrapping costs nothing; when a driver evaluates a thunk,
// the wrapper opens a span named "<name>.element" carrying the position,
// bumps the in-flight gauge, and on completion records the duration
// histogram and the total/filtered counters
//
// Example:
//
//	metrics := observe.NewPrometheusProvider()
//	tp, _ := observe.NewOTLPTracerProvider(ctx, "ingest", "localhost:4317")
//
//	flow := observe.Instrument(
//		deluge.Map(urls, fetch),
//		"fetch-pages", metrics, tp.Tracer("ingest"))
//
//	pages, err := deluge.Collect(ctx, flow, deluge.WithConcurrency(16))
func Instrument[T any](flow deluge.Flow[T], name string, metrics MetricsProvider, tracer trace.Tracer) deluge.Flow[T] {
	if metrics == nil {
		metrics = &NoopMetricsProvider{}
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("deluge")
	}
	return &instrumentedFlow[T]{
		upstream: flow,
		name:     name,
		labels:   Labels{"flow": name},
		metrics:  metrics,
		tracer:   tracer,
	}
}

type instrumentedFlow[T any] struct {
	upstream deluge.Flow[T]
	name     string
	labels   Labels
	metrics  MetricsProvider
	tracer   trace.Tracer

	mu  sync.Mutex
	pos int
}

func (f *instrumentedFlow[T]) Next() (deluge.Thunk[T], bool) {
	thunk, ok := f.upstream.Next()
	if !ok {
		return nil, false
	}
	f.mu.Lock()
	position := f.pos
	f.pos++
	f.mu.Unlock()

	return func(ctx context.Context) (T, bool) {
		ctx, span := f.tracer.Start(ctx, f.name+".element", trace.WithAttributes(
			attribute.String("flow", f.name),
			attribute.Int("position", position),
		))

		f.metrics.Gauge(ctx, MetricElementsInFlight, 1, f.labels)
		start := time.Now()

		defer func() {
			f.metrics.Gauge(ctx, MetricElementsInFlight, -1, f.labels)
			f.metrics.RecordDuration(ctx, MetricElementDuration, time.Since(start), f.labels)
			if r := recover(); r != nil {
				span.SetStatus(codes.Error, "panic during evaluation")
				span.End()
				panic(r)
			}
			span.End()
		}()

		v, present := thunk(ctx)

		f.metrics.Counter(ctx, MetricElementsTotal, 1, f.labels)
		if !present {
			f.metrics.Counter(ctx, MetricElementsFiltered, 1, f.labels)
			span.SetAttributes(attribute.Bool("filtered", true))
		}
		span.SetStatus(codes.Ok, "")

		return v, present
	}, true
}
