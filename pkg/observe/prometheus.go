// Package observe implements MetricsProvider for the deluge instrumentation
// set using the Prometheus client library.
//
// Prometheus will scrape /metrics and you'll see data like:
//
//	# HELP deluge_elements_total Element computations evaluated.
//	# TYPE deluge_elements_total counter
//	deluge_elements_total{flow="fetch-profiles"} 1542
//
//	# HELP deluge_element_duration_seconds Element evaluation latency.
//	# TYPE deluge_element_duration_seconds histogram
//	deluge_element_duration_seconds_bucket{flow="fetch-profiles",le="0.1"} 1200
//	deluge_element_duration_seconds_bucket{flow="fetch-profiles",le="+Inf"} 1542
//
// For visualization, connect Prometheus to Grafana and create dashboards.
package observe

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// flowLabels is the label set every instrumentation metric carries.
var flowLabels = []string{"flow"}

// counterHelp, gaugeHelp and histogramHelp fix the exported metric set.
// The provider serves exactly what Instrument records; it is not a general
// metrics registry.
var (
	counterHelp = map[string]string{
		MetricElementsTotal:    "Element computations evaluated.",
		MetricElementsFiltered: "Element computations that resolved to no value.",
	}
	gaugeHelp = map[string]string{
		MetricElementsInFlight: "Element computations currently running.",
	}
	histogramHelp = map[string]string{
		MetricElementDuration: "Element evaluation latency.",
	}
)

// PrometheusProvider implements MetricsProvider for the deluge
// instrumentation set. All vectors are registered at construction and the
// maps are read-only afterwards, so recording needs no locking.
// Observations for metric names outside the set are dropped; labels must
// carry exactly the "flow" key, as Instrument's do.
type PrometheusProvider struct {
	registry   *prometheus.Registry
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// PrometheusOption configures the Prometheus provider
type PrometheusOption func(*prometheusConfig)

type prometheusConfig struct {
	registry *prometheus.Registry
	buckets  []float64
}

// WithDurationBuckets sets custom buckets for the latency histogram
func WithDurationBuckets(buckets []float64) PrometheusOption {
	return func(cfg *prometheusConfig) {
		cfg.buckets = buckets
	}
}

// WithPrometheusRegistry uses a custom Prometheus registry
func WithPrometheusRegistry(registry *prometheus.Registry) PrometheusOption {
	return func(cfg *prometheusConfig) {
		cfg.registry = registry
	}
}

// NewPrometheusProvider creates a Prometheus provider with the deluge
// instrumentation metrics pre-registered.
//
// By default it creates a fresh registry, includes the Go runtime
// collectors (memory usage, goroutine count, etc.), and uses the client
// library's default latency buckets.
//
// Example - Basic usage:
//
//	provider := observe.NewPrometheusProvider()
//
// Example - Custom histogram buckets for slow I/O:
//
//	provider := observe.NewPrometheusProvider(
//	    observe.WithDurationBuckets([]float64{0.05, 0.25, 1, 5, 30}),
//	)
func NewPrometheusProvider(opts ...PrometheusOption) *PrometheusProvider {
	cfg := prometheusConfig{
		registry: prometheus.NewRegistry(),
		buckets:  prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &PrometheusProvider{
		registry:   cfg.registry,
		counters:   make(map[string]*prometheus.CounterVec, len(counterHelp)),
		gauges:     make(map[string]*prometheus.GaugeVec, len(gaugeHelp)),
		histograms: make(map[string]*prometheus.HistogramVec, len(histogramHelp)),
	}

	for name, help := range counterHelp {
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, flowLabels)
		p.registry.MustRegister(vec)
		p.counters[name] = vec
	}
	for name, help := range gaugeHelp {
		vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, flowLabels)
		p.registry.MustRegister(vec)
		p.gauges[name] = vec
	}
	for name, help := range histogramHelp {
		vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: cfg.buckets,
		}, flowLabels)
		p.registry.MustRegister(vec)
		p.histograms[name] = vec
	}

	// Default Go metrics alongside the flow metrics.
	p.registry.MustRegister(collectors.NewGoCollector())
	p.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return p
}

// Counter increments one of the pre-registered counters
func (p *PrometheusProvider) Counter(_ context.Context, name string, value int64, labels map[string]string) {
	if vec, ok := p.counters[name]; ok {
		vec.With(labels).Add(float64(value))
	}
}

// Gauge adds to one of the pre-registered gauges (negative values decrease)
func (p *PrometheusProvider) Gauge(_ context.Context, name string, value float64, labels map[string]string) {
	if vec, ok := p.gauges[name]; ok {
		vec.With(labels).Add(value)
	}
}

// Histogram records a value in one of the pre-registered histograms
func (p *PrometheusProvider) Histogram(_ context.Context, name string, value float64, labels map[string]string) {
	if vec, ok := p.histograms[name]; ok {
		vec.With(labels).Observe(value)
	}
}

// RecordDuration records a duration in one of the pre-registered histograms
func (p *PrometheusProvider) RecordDuration(ctx context.Context, name string, duration time.Duration, labels map[string]string) {
	p.Histogram(ctx, name, duration.Seconds(), labels)
}

// Handler returns an HTTP handler for Prometheus metrics scraping
func (p *PrometheusProvider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the underlying Prometheus registry
func (p *PrometheusProvider) Registry() *prometheus.Registry {
	return p.registry
}
