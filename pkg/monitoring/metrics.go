// Package monitoring holds the prometheus instrumentation shared by the
// pipeline stages and the API server.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// External service metrics
	ExternalRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paveroute_external_requests_total",
			Help: "Total number of external service requests",
		},
		[]string{"service", "status"},
	)

	ExternalRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "paveroute_external_request_duration_seconds",
			Help:    "External service request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
		},
		[]string{"service"},
	)

	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paveroute_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paveroute_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Pipeline metrics
	ImagesDownloaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "paveroute_images_downloaded_total",
			Help: "Total number of street view images downloaded",
		},
	)

	ImagesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "paveroute_images_scored_total",
			Help: "Total number of images assigned a proxy PASER score",
		},
	)

	EdgesUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "paveroute_edges_updated_total",
			Help: "Total number of graph edges updated with PASER scores",
		},
	)

	// API metrics
	RouteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paveroute_route_requests_total",
			Help: "Total number of route requests processed",
		},
		[]string{"profile", "status"},
	)

	RouteRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "paveroute_route_request_duration_seconds",
			Help:    "Route request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
	)
)
