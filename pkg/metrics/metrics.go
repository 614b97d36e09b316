package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	AccessDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taggate", Name: "access_decisions_total", Help: "Number of persisted access checks by status."},
		[]string{"status"},
	)
	BroadcastSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "taggate", Name: "broadcast_subscribers", Help: "Currently connected real-time subscribers."},
	)
	BroadcastDropped = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "taggate", Name: "broadcast_dropped_total", Help: "Events or subscribers dropped on the broadcast path."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taggate", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taggate", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(AccessDecisions)
	reg.MustRegister(BroadcastSubscribers)
	reg.MustRegister(BroadcastDropped)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
