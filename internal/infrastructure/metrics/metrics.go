package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_active_connections",
		Help: "Number of currently registered chat connections.",
	})

	MessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_total",
		Help: "Total number of chat messages persisted and broadcast.",
	})

	BroadcastDropsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_broadcast_drops_total",
		Help: "Deliveries skipped because a recipient's buffer was full.",
	})

	AuthFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_auth_failures_total",
		Help: "Connections rejected during handshake authentication.",
	})

	StoreFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_store_failures_total",
		Help: "Messages dropped because persistence failed.",
	})
)
