// Package metrics exposes Prometheus metrics for the gateway: request
// counts and latencies, streamed byte and chunk counters, and live gauges
// for backend load and session-cache effectiveness.
package metrics
