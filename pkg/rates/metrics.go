package rates

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	errorsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rates_getter_errors_total",
	}, []string{"source"})
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rates_request_duration_seconds",
		Help:    "Duration of BTC/USD price requests per market.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"source"})
)
