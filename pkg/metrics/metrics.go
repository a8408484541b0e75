package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueryDuration tracks how long repository operations take
	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dahlia",
		Subsystem: "repository",
		Name:      "query_duration_seconds",
		Help:      "Duration of repository operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"repository", "operation"})

	// RequestDuration tracks how long HTTP requests take
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dahlia",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// SeededRows counts rows inserted by the seeder per entity
	SeededRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dahlia",
		Subsystem: "seeder",
		Name:      "rows_inserted_total",
		Help:      "Rows inserted by the seeder.",
	}, []string{"entity"})

	// SeedLinkBatches counts link insert batches attempted by the seeder
	SeedLinkBatches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dahlia",
		Subsystem: "seeder",
		Name:      "link_batches_total",
		Help:      "Link insert batches attempted by the seeder.",
	})
)

// ObserveQuery records the duration of a repository operation
func ObserveQuery(repository, operation string, start time.Time) {
	QueryDuration.WithLabelValues(repository, operation).Observe(time.Since(start).Seconds())
}
