package metrics

import (
	"context"
	"net/http"

	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values for sentiment_requests_total
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeEmpty = "empty"
)

// BackendNone labels requests that never reached a backend
const BackendNone = "none"

// Collector exports classification and process metrics on its own registry
type Collector struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	cpu      prometheus.Gauge
	memory   prometheus.Gauge
}

// NewCollector creates a collector and registers its metrics
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentiment_requests_total",
			Help: "Classification requests by backend and outcome.",
		}, []string{"backend", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sentiment_latency_seconds",
			Help:    "Backend classification latency.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"backend"}),
		cpu: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentiment_cpu_percent",
			Help: "Process CPU usage in percent of one core.",
		}),
		memory: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentiment_memory_mb",
			Help: "Process resident memory in megabytes.",
		}),
	}

	c.registry.MustRegister(
		c.requests,
		c.latency,
		c.cpu,
		c.memory,
		collectors.NewGoCollector(),
	)
	return c
}

// Observe implements core.Observer
func (c *Collector) Observe(ctx context.Context, cl *core.Classification) {
	if cl.Skipped {
		c.requests.WithLabelValues(BackendNone, OutcomeEmpty).Inc()
		return
	}

	backend := cl.Backend.String()
	outcome := OutcomeOK
	if cl.Result.Failed() {
		outcome = OutcomeError
	}
	c.requests.WithLabelValues(backend, outcome).Inc()
	c.latency.WithLabelValues(backend).Observe(cl.Elapsed.Seconds())
}

// SetProcessUsage updates the process gauges
func (c *Collector) SetProcessUsage(cpuPercent, memoryMB float64) {
	c.cpu.Set(cpuPercent)
	c.memory.Set(memoryMB)
}

// Handler returns the scrape handler for the collector's registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
