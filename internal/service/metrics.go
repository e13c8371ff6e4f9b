package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	settlementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlements_total",
			Help: "Settled call/gift events by kind and commission type",
		},
		[]string{"kind", "commission_type"},
	)
	settlementFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_failures_total",
			Help: "Failed settlements by reason",
		},
		[]string{"reason"},
	)
	reconciliationsPending = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "settlement_reconciliations_total",
			Help: "Settlements recorded for manual reconciliation",
		},
	)
)

func init() {
	prometheus.MustRegister(settlementsTotal)
	prometheus.MustRegister(settlementFailures)
	prometheus.MustRegister(reconciliationsPending)
}
