package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Attempt results as reported by checkout_payment_attempts_total.
const (
	ResultSuccess     = "success"
	ResultDeclined    = "declined"
	ResultUnavailable = "unavailable"
)

type PaymentMetrics struct {
	attempts          *prometheus.CounterVec
	processorDuration *prometheus.HistogramVec
}

// NewPaymentMetrics registers the payment collectors with reg. Tests pass a
// fresh prometheus.NewRegistry() so counts start at zero.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	factory := promauto.With(reg)
	return &PaymentMetrics{
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "checkout_payment_attempts_total",
			Help: "Authorize+capture attempts by provider and result.",
		}, []string{"provider", "result"}),
		processorDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "checkout_processor_duration_seconds",
			Help:    "Time spent waiting for the payment processor.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
	}
}

func (m *PaymentMetrics) ObserveAttempt(provider, result string) {
	m.attempts.WithLabelValues(provider, result).Inc()
}

func (m *PaymentMetrics) ObserveProcessorDuration(provider string, d time.Duration) {
	m.processorDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// Attempts exposes the counter for assertions with prometheus/testutil.
func (m *PaymentMetrics) Attempts() *prometheus.CounterVec {
	return m.attempts
}
