package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics содержит метрики пайплайна оформления заказа.
type CheckoutMetrics struct {
	started        prometheus.Counter
	completed      prometheus.Counter
	failed         *prometheus.CounterVec
	intentFailures prometheus.Counter
	duration       prometheus.Histogram
}

// NewCheckoutMetrics создаёт метрики checkout в default-реестре.
func NewCheckoutMetrics() *CheckoutMetrics {
	return newCheckoutMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newCheckoutMetricsWithRegisterer(registerer prometheus.Registerer) *CheckoutMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CheckoutMetrics{
		started: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_checkout_started_total",
			Help: "Total number of checkout attempts started",
		}),
		completed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_checkout_completed_total",
			Help: "Total number of checkouts that produced a payment redirect",
		}),
		failed: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shop_checkout_failed_total",
			Help: "Total number of failed checkouts grouped by reason",
		}, []string{"reason"}),
		intentFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_payment_intent_failures_total",
			Help: "Total number of payment intent creation failures after the order was persisted",
		}),
		duration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "shop_checkout_duration_seconds",
			Help:    "Duration of checkout processing in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RecordStarted увеличивает счётчик начатых checkout.
func (m *CheckoutMetrics) RecordStarted() {
	m.started.Inc()
}

// RecordCompleted увеличивает счётчик успешных checkout.
func (m *CheckoutMetrics) RecordCompleted() {
	m.completed.Inc()
}

// RecordFailed увеличивает счётчик неудачных checkout по причине.
func (m *CheckoutMetrics) RecordFailed(reason string) {
	m.failed.WithLabelValues(reason).Inc()
}

// RecordIntentFailure фиксирует сбой создания платёжного намерения.
func (m *CheckoutMetrics) RecordIntentFailure() {
	m.intentFailures.Inc()
}

// RecordDuration записывает длительность обработки checkout.
func (m *CheckoutMetrics) RecordDuration(d time.Duration) {
	m.duration.Observe(d.Seconds())
}
