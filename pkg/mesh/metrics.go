package mesh

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mesh_messages_total",
		Help: "Mesh text packets by direction.",
	}, []string{"transport", "direction"})
	reconnectsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mesh_bridge_reconnects_total",
	})
	naksCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mesh_bridge_naks_total",
		Help: "Outbound packets the mesh gateway failed to deliver.",
	})
)
