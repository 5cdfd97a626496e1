package dbrepo

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Statement kinds used as the "kind" label.
const (
	kindExec  = `exec`
	kindQuery = `query`
)

var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: `dbrepo_queries_total`,
		Help: `Total number of executed SQL statements`,
	}, []string{`dialect`, `kind`})

	queryErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: `dbrepo_query_errors_total`,
		Help: `Total number of failed SQL statements`,
	}, []string{`dialect`, `kind`})

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    `dbrepo_query_duration_seconds`,
		Help:    `SQL statement latency in seconds`,
		Buckets: prometheus.DefBuckets,
	}, []string{`dialect`, `kind`})
)

func recordQuery(dialect, kind string, start time.Time, err error) {
	queriesTotal.WithLabelValues(dialect, kind).Inc()
	queryDuration.WithLabelValues(dialect, kind).Observe(time.Since(start).Seconds())
	if err != nil {
		queryErrorsTotal.WithLabelValues(dialect, kind).Inc()
	}
}
