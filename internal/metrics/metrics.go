// Package metrics defines the Prometheus instrumentation for the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DebtWrites counts debt mutations by operation (create, update, delete).
	DebtWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartdebt_debt_writes_total",
		Help: "Number of debt write operations, by operation.",
	}, []string{"operation"})

	// PaymentsRecorded counts recorded payments.
	PaymentsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smartdebt_payments_recorded_total",
		Help: "Number of payments recorded against debts.",
	})

	// StorageFallbacks counts degrades from cloud to local storage,
	// by reason (subscription, write).
	StorageFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartdebt_storage_fallbacks_total",
		Help: "Number of times an operation fell back to local storage, by reason.",
	}, []string{"reason"})

	// AdviceRequests counts advice calls by outcome (ok, error).
	AdviceRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartdebt_advice_requests_total",
		Help: "Number of AI advice requests, by outcome.",
	}, []string{"outcome"})
)
