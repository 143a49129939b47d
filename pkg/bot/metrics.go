package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_commands_total",
		Help: "Commands handled by result.",
	}, []string{"command", "result"})
	unauthorizedConfirmsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_unauthorized_confirms_total",
		Help: "Attempts to confirm a payment prepared by another user.",
	})
	rateLimitedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_rate_limited_total",
	})
	commandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bot_command_duration_seconds",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"command"})
)
