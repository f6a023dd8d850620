package pkg

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nexus",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	CounterMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "counters",
			Name:      "mutations_total",
			Help:      "Edge mutations that adjusted a denormalized counter.",
		},
		[]string{"op"},
	)

	ReconcileFixed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "counters",
			Name:      "reconcile_fixed_total",
			Help:      "Rows whose denormalized counter was repaired by the reconciler.",
		},
		[]string{"counter"},
	)

	OutboxDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "outbox",
			Name:      "delivered_total",
			Help:      "Outbox events handed to the sender.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		HTTPRequests,
		HTTPDuration,
		CounterMutations,
		ReconcileFixed,
		OutboxDelivered,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// MetricsHandler 暴露 /metrics
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
