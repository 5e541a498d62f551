package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SessionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: "xytext", Name: "sessions_active", Help: "Live editing sessions per namespace."},
		[]string{"namespace"},
	)
	BroadcastsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "xytext", Name: "broadcasts_sent_total", Help: "Messages fanned out to sessions, by message kind."},
		[]string{"kind"},
	)
	SessionsEvicted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "xytext", Name: "sessions_evicted_total", Help: "Sessions dropped because an outbound send failed."},
	)
	MessagesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "xytext", Name: "messages_dropped_total", Help: "Inbound messages ignored, by reason (malformed, unauthorized, unknown)."},
		[]string{"reason"},
	)
	StorageErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "xytext", Name: "storage_errors_total", Help: "Document store failures by operation."},
		[]string{"op"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "xytext", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "xytext", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(SessionsActive)
	reg.MustRegister(BroadcastsSent)
	reg.MustRegister(SessionsEvicted)
	reg.MustRegister(MessagesDropped)
	reg.MustRegister(StorageErrors)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
