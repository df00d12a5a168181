package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type CacheMetricsCollector struct {
	Hits     *prometheus.CounterVec
	Misses   *prometheus.CounterVec
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
	HitRatio *prometheus.GaugeVec
}

var (
	globalCollector *CacheMetricsCollector
	collectorOnce   sync.Once
)

// getCollector registers the Prometheus vectors exactly once per process;
// promauto panics on duplicate registration.
func getCollector() *CacheMetricsCollector {
	collectorOnce.Do(func() {
		globalCollector = &CacheMetricsCollector{
			Hits: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "lookup_cache_hits_total",
					Help: "The total number of cache hits",
				},
				[]string{"cache_kind"},
			),
			Misses: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "lookup_cache_misses_total",
					Help: "The total number of cache misses",
				},
				[]string{"cache_kind"},
			),
			Requests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "lookup_cache_requests_total",
					Help: "The total number of cache requests",
				},
				[]string{"cache_kind"},
			),
			Latency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "lookup_cache_duration_seconds",
					Help:    "Cache operation duration in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"cache_kind", "operation"},
			),
			HitRatio: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "lookup_cache_hit_ratio",
					Help: "Cache hit ratio (hits/total requests)",
				},
				[]string{"cache_kind"},
			),
		}
	})
	return globalCollector
}

// CacheMetrics tracks hit/miss statistics for one cache kind (geocode,
// weather) and mirrors them into the shared Prometheus collector.
type CacheMetrics struct {
	cacheKind string
	hits      int64
	misses    int64
	total     int64
	collector *CacheMetricsCollector
	mu        sync.RWMutex
}

func NewCacheMetrics(cacheKind string) *CacheMetrics {
	return &CacheMetrics{
		cacheKind: cacheKind,
		collector: getCollector(),
	}
}

func (m *CacheMetrics) RecordHit() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hits++
	m.total++
	m.collector.Hits.WithLabelValues(m.cacheKind).Inc()
	m.collector.Requests.WithLabelValues(m.cacheKind).Inc()
	m.updateHitRatio()
}

func (m *CacheMetrics) RecordMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.misses++
	m.total++
	m.collector.Misses.WithLabelValues(m.cacheKind).Inc()
	m.collector.Requests.WithLabelValues(m.cacheKind).Inc()
	m.updateHitRatio()
}

func (m *CacheMetrics) RecordLatency(operation string, seconds float64) {
	m.collector.Latency.WithLabelValues(m.cacheKind, operation).Observe(seconds)
}

// updateHitRatio updates the Prometheus hit ratio gauge.
// Must be called while holding the mutex.
func (m *CacheMetrics) updateHitRatio() {
	if m.total > 0 {
		ratio := float64(m.hits) / float64(m.total)
		m.collector.HitRatio.WithLabelValues(m.cacheKind).Set(ratio)
	}
}

func (m *CacheMetrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var hitRatio float64
	if m.total > 0 {
		hitRatio = float64(m.hits) / float64(m.total)
	}

	return map[string]interface{}{
		"cache_kind": m.cacheKind,
		"hits":       m.hits,
		"misses":     m.misses,
		"total":      m.total,
		"hit_ratio":  hitRatio,
	}
}
