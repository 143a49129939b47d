package pending

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pendingGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pending_confirmations",
		Help: "Prepared payments waiting for !confirm.",
	})
	expiredCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pending_confirmations_expired_total",
		Help: "Prepared payments removed because nobody confirmed them in time.",
	})
)
