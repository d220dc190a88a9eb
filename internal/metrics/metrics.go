// Package metrics exposes Prometheus metrics for trip allocation and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Allocation outcomes.
const (
	OutcomeAllocated         = "allocated"
	OutcomeNoDriver          = "no_driver"
	OutcomePassengerNotFound = "passenger_not_found"
	OutcomeError             = "error"
)

const defaultNamespace = "rideshare"

// Option configures a Metrics instance.
type Option func(*options)

type options struct {
	namespace      string
	registry       *prometheus.Registry
	processMetrics bool
}

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithRegistry registers metrics on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithProcessMetrics adds the Go runtime and process collectors.
func WithProcessMetrics() Option {
	return func(o *options) { o.processMetrics = true }
}

// Metrics holds the service collectors.
type Metrics struct {
	registry *prometheus.Registry

	allocations         *prometheus.CounterVec
	allocationDuration  prometheus.Histogram
	allocationRetries   prometheus.Counter
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New creates and registers the collectors.
func New(opts ...Option) *Metrics {
	o := options{namespace: defaultNamespace}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}
	if o.processMetrics {
		o.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	factory := promauto.With(o.registry)
	return &Metrics{
		registry: o.registry,
		allocations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "allocation",
			Name:      "requests_total",
			Help:      "Trip allocation requests by outcome.",
		}, []string{"outcome"}),
		allocationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Subsystem: "allocation",
			Name:      "duration_seconds",
			Help:      "Time spent allocating a driver and creating the trip.",
			Buckets:   prometheus.DefBuckets,
		}),
		allocationRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "allocation",
			Name:      "retries_total",
			Help:      "Allocation attempts retried after losing a driver to a concurrent request.",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ObserveAllocation records one allocation request.
func (m *Metrics) ObserveAllocation(outcome string, d time.Duration) {
	m.allocations.WithLabelValues(outcome).Inc()
	m.allocationDuration.Observe(d.Seconds())
}

// ObserveAllocationRetry records one lost race for a driver.
func (m *Metrics) ObserveAllocationRetry() {
	m.allocationRetries.Inc()
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
