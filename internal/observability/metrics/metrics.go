package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "servicedesk_"

	resultSuccess = "success"
	resultError   = "error"

	lookupHit  = "hit"
	lookupMiss = "miss"
)

var (
	registerOnce sync.Once

	refreshTotal   *prometheus.CounterVec
	refreshLatency *prometheus.HistogramVec

	cacheLookups *prometheus.CounterVec
	cacheAge     *prometheus.GaugeVec

	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec

	servedStale *prometheus.CounterVec
)

// Init registers observability metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		refreshTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "cache_refresh_total",
				Help: "Total cache refresh attempts by category and result",
			},
			[]string{"category", "result"},
		)
		refreshLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "cache_refresh_latency_seconds",
				Help:    "Cache refresh latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"category", "result"},
		)

		cacheLookups = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "cache_lookups_total",
				Help: "Total staleness checks by category and outcome",
			},
			[]string{"category", "outcome"},
		)
		cacheAge = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "cache_age_seconds",
				Help: "Age of the cached payload at the last staleness check",
			},
			[]string{"category"},
		)

		upstreamRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "upstream_requests_total",
				Help: "Total upstream API requests by endpoint and result",
			},
			[]string{"endpoint", "result"},
		)
		upstreamLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "upstream_latency_seconds",
				Help:    "Upstream API latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint", "result"},
		)

		servedStale = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "served_stale_total",
				Help: "Responses served from a stale payload after a failed refresh",
			},
			[]string{"category"},
		)

		prometheus.MustRegister(
			refreshTotal,
			refreshLatency,
			cacheLookups,
			cacheAge,
			upstreamRequests,
			upstreamLatency,
			servedStale,
		)
	})
}

// ObserveRefresh records one refresh attempt.
func ObserveRefresh(category, result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if refreshTotal != nil {
		refreshTotal.WithLabelValues(category, result).Inc()
	}
	if refreshLatency != nil {
		refreshLatency.WithLabelValues(category, result).Observe(duration.Seconds())
	}
}

// IncCacheHit counts a staleness check satisfied from cache.
func IncCacheHit(category string) {
	if cacheLookups != nil {
		cacheLookups.WithLabelValues(category, lookupHit).Inc()
	}
}

// IncCacheMiss counts a staleness check that required a fetch.
func IncCacheMiss(category string) {
	if cacheLookups != nil {
		cacheLookups.WithLabelValues(category, lookupMiss).Inc()
	}
}

// SetCacheAge records payload age at check time.
func SetCacheAge(category string, age time.Duration) {
	if age < 0 {
		age = 0
	}
	if cacheAge != nil {
		cacheAge.WithLabelValues(category).Set(age.Seconds())
	}
}

// ObserveUpstream records one upstream API call.
func ObserveUpstream(endpoint, result string, duration time.Duration) {
	if endpoint == "" {
		endpoint = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if upstreamRequests != nil {
		upstreamRequests.WithLabelValues(endpoint, result).Inc()
	}
	if upstreamLatency != nil {
		upstreamLatency.WithLabelValues(endpoint, result).Observe(duration.Seconds())
	}
}

// IncServedStale counts a response served from last-known-good data.
func IncServedStale(category string) {
	if servedStale != nil {
		servedStale.WithLabelValues(category).Inc()
	}
}

// Exported result constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
