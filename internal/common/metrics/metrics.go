// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhookRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Total number of webhook requests by outcome",
		},
		[]string{"outcome"},
	)

	WebhookRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "webhook_request_duration_seconds",
			Help: "Duration of webhook request handling in seconds",
		},
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of each query pipeline stage in seconds",
		},
		[]string{"stage"},
	)

	CatalogFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_fetches_total",
			Help: "Total number of catalog fetches by source and result",
		},
		[]string{"source", "result"},
	)

	CatalogCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Catalog snapshot cache hits and misses",
		},
		[]string{"result"},
	)
)
