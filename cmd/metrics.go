package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type poolMetrics struct {
	solrDuration   *prometheus.HistogramVec
	rejectedTokens prometheus.Counter
}

// newPoolMetrics registers the service collectors with reg
func newPoolMetrics(reg prometheus.Registerer) *poolMetrics {
	m := poolMetrics{
		solrDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gvi_pnx",
			Name:      "solr_request_duration_seconds",
			Help:      "Duration of solr requests, by operation and outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "outcome"}),

		rejectedTokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gvi_pnx",
			Name:      "rejected_tokens_total",
			Help:      "Requests rejected because of a missing or unknown tenant token.",
		}),
	}

	reg.MustRegister(m.solrDuration, m.rejectedTokens)

	return &m
}

func (m *poolMetrics) observeSolr(operation string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}

	outcome := "ok"
	if status >= 400 {
		outcome = "error"
	}

	m.solrDuration.WithLabelValues(operation, outcome).Observe(elapsed.Seconds())
}

func (m *poolMetrics) rejectToken() {
	if m == nil {
		return
	}

	m.rejectedTokens.Inc()
}
