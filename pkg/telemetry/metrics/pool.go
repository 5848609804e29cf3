package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Hanifalm/TG-FileStreamBot/pkg/config"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/pool"
)

// PoolCollector exports live backend-pool state: the per-backend load
// counters and the session-cache counters. It reads the tracker and cache
// at scrape time rather than mirroring them into gauges on every request.
type PoolCollector struct {
	tracker *pool.LoadTracker
	cache   *pool.SessionCache

	loadDesc   *prometheus.Desc
	hitsDesc   *prometheus.Desc
	missesDesc *prometheus.Desc
	failsDesc  *prometheus.Desc
}

// NewPoolCollector creates a collector over the gateway's load tracker and
// session cache.
func NewPoolCollector(cfg config.MetricsConfig, tracker *pool.LoadTracker, cache *pool.SessionCache) *PoolCollector {
	fqName := func(name string) string {
		return prometheus.BuildFQName(cfg.Namespace, cfg.Subsystem, name)
	}

	return &PoolCollector{
		tracker: tracker,
		cache:   cache,
		loadDesc: prometheus.NewDesc(
			fqName("backend_load"),
			"Current number of in-flight streams per backend",
			[]string{"backend"}, nil,
		),
		hitsDesc: prometheus.NewDesc(
			fqName("session_cache_hits_total"),
			"Session cache lookups served from a cached session",
			nil, nil,
		),
		missesDesc: prometheus.NewDesc(
			fqName("session_cache_misses_total"),
			"Session cache lookups that constructed a new session",
			nil, nil,
		),
		failsDesc: prometheus.NewDesc(
			fqName("session_cache_failures_total"),
			"Session constructions that failed",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.loadDesc
	ch <- c.hitsDesc
	ch <- c.missesDesc
	ch <- c.failsDesc
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	for _, bl := range c.tracker.Snapshot() {
		ch <- prometheus.MustNewConstMetric(
			c.loadDesc, prometheus.GaugeValue, float64(bl.Load), bl.Client.Name(),
		)
	}

	stats := c.cache.Stats()
	ch <- prometheus.MustNewConstMetric(c.hitsDesc, prometheus.CounterValue, float64(stats.Hits))
	ch <- prometheus.MustNewConstMetric(c.missesDesc, prometheus.CounterValue, float64(stats.Misses))
	ch <- prometheus.MustNewConstMetric(c.failsDesc, prometheus.CounterValue, float64(stats.Failures))
}
