package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Hanifalm/TG-FileStreamBot/pkg/config"
)

// Collector owns the Prometheus registry and every metric the gateway
// records. One Collector is created at startup and shared by all handlers.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	// Request metrics
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	// Stream metrics
	bytesStreamed *prometheus.CounterVec
	chunksFetched *prometheus.CounterVec
	streamAborts  *prometheus.CounterVec
}

// NewCollector creates a collector with the specified configuration and
// registry. A nil registry gets a fresh private one.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		// Streaming latencies run long: first byte is quick, full bodies
		// can take minutes.
		cfg.RequestDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15, 60, 300}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of gateway requests by route and status code",
			},
			[]string{"route", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "Duration of gateway requests in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"route"},
		),

		bytesStreamed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "bytes_streamed_total",
				Help:      "Total response body bytes streamed, by backend",
			},
			[]string{"backend"},
		),

		chunksFetched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "chunks_fetched_total",
				Help:      "Total chunks fetched from backends, by backend and result",
			},
			[]string{"backend", "result"},
		),

		streamAborts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "stream_aborts_total",
				Help:      "Streams aborted before completion, by reason",
			},
			[]string{"reason"},
		),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.bytesStreamed,
		c.chunksFetched,
		c.streamAborts,
	)

	return c
}

// Registry returns the collector's Prometheus registry so callers can
// register additional collectors (e.g. the pool collector).
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordRequest records a completed request.
func (c *Collector) RecordRequest(route string, status int, duration time.Duration) {
	c.requestsTotal.WithLabelValues(route, statusLabel(status)).Inc()
	c.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordBytesStreamed adds streamed body bytes for a backend.
func (c *Collector) RecordBytesStreamed(backend string, n int64) {
	c.bytesStreamed.WithLabelValues(backend).Add(float64(n))
}

// RecordChunkFetch records one chunk fetch attempt.
func (c *Collector) RecordChunkFetch(backend string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	c.chunksFetched.WithLabelValues(backend, result).Inc()
}

// RecordStreamAbort records a stream aborted before completion.
// Reason is "client_gone" or "backend_error".
func (c *Collector) RecordStreamAbort(reason string) {
	c.streamAborts.WithLabelValues(reason).Inc()
}

func statusLabel(status int) string {
	switch {
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
