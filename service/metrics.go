package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeApplied = "applied"
	outcomeSkipped = "skipped"
	outcomeFailed  = "failed"
)

var (
	reconcileOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "budget_reconcile_operations_total",
			Help: "Total number of budget reconciliation operations by outcome",
		},
		[]string{"operation", "outcome"},
	)
	syncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "budget_sync_duration_milliseconds",
			Help:    "Full budget period recompute duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
	alertsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "budget_alerts_total",
			Help: "Over-budget alert emails by result",
		},
		[]string{"result"},
	)
)

func recordOutcome(operation string, applied bool, err error) {
	outcome := outcomeSkipped
	switch {
	case err != nil:
		outcome = outcomeFailed
	case applied:
		outcome = outcomeApplied
	}
	reconcileOperations.WithLabelValues(operation, outcome).Inc()
}
