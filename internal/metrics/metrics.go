// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

// Package metrics provides Prometheus instrumentation for LinkDrip:
// redirect and API throughput, DuckDB query performance, GeoIP lookup
// and cache efficiency, and click recording outcomes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Redirect and click metrics
	RedirectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redirects_total",
			Help: "Total number of slug redirect requests",
		},
		[]string{"outcome"}, // "found", "not_found"
	)

	ClicksRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clicks_recorded_total",
			Help: "Total number of clicks persisted successfully",
		},
	)

	ClickRecordFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "click_record_failures_total",
			Help: "Total number of click recording failures (logged, never surfaced)",
		},
	)

	// GeoIP metrics
	GeoIPCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geoip_cache_hits_total",
			Help: "Total number of GeoIP cache hits",
		},
	)

	GeoIPCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geoip_cache_misses_total",
			Help: "Total number of GeoIP cache misses",
		},
	)

	GeoIPCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "geoip_cache_entries",
			Help: "Current number of cached GeoIP results",
		},
	)

	GeoIPLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geoip_lookups_total",
			Help: "Total number of outbound GeoIP lookups",
		},
		[]string{"result"}, // "success", "failure", "skipped"
	)

	GeoIPLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "geoip_lookup_duration_seconds",
			Help:    "Outbound GeoIP lookup duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3},
		},
	)

	// Analytics cache metrics
	AnalyticsCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_cache_hits_total",
			Help: "Total number of analytics response cache hits",
		},
	)

	AnalyticsCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_cache_misses_total",
			Help: "Total number of analytics response cache misses",
		},
	)
)

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRedirect records a redirect resolution outcome.
func RecordRedirect(found bool) {
	if found {
		RedirectsTotal.WithLabelValues("found").Inc()
	} else {
		RedirectsTotal.WithLabelValues("not_found").Inc()
	}
}

// RecordClick records a click persistence outcome.
func RecordClick(err error) {
	if err != nil {
		ClickRecordFailures.Inc()
		return
	}
	ClicksRecorded.Inc()
}

// RecordGeoIPLookup records an outbound GeoIP lookup outcome.
func RecordGeoIPLookup(duration time.Duration, err error) {
	GeoIPLookupDuration.Observe(duration.Seconds())
	if err != nil {
		GeoIPLookups.WithLabelValues("failure").Inc()
		return
	}
	GeoIPLookups.WithLabelValues("success").Inc()
}
