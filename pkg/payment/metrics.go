package payment

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feeFallbackCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_miner_fee_fallbacks_total",
		Help: "Number of times the fixed fallback miner fee was used.",
	})
	executedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_executions_total",
		Help: "Submitted payments by result.",
	}, []string{"result"})
)
