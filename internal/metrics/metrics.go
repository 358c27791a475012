package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "consolenav"
)

var (
	ListRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "list_requests_total",
		Help:      "Count of list page requests served.",
	}, []string{"resource", "status"})

	ListRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "list_request_duration_seconds",
		Help:      "Time taken to build a list page.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"resource"})

	PageCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_cache_total",
		Help:      "Page cache lookups by result.",
	}, []string{"resource", "result"})

	WarmRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_warm_runs_total",
		Help:      "Count of cache warm passes.",
	}, []string{"status"})
)
