package metrics

import "github.com/prometheus/client_golang/prometheus"

// WebhookMetrics содержит метрики сверки платёжных уведомлений.
type WebhookMetrics struct {
	outcomes    *prometheus.CounterVec
	emailSent   prometheus.Counter
	emailFailed prometheus.Counter
}

// Исходы обработки webhook для метки outcome.
const (
	WebhookOutcomeApproved  = "approved"
	WebhookOutcomeDuplicate = "duplicate"
	WebhookOutcomeIgnored   = "ignored"
	WebhookOutcomeUnknown   = "unknown_reference"
)

// NewWebhookMetrics создаёт метрики webhook в default-реестре.
func NewWebhookMetrics() *WebhookMetrics {
	return newWebhookMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newWebhookMetricsWithRegisterer(registerer prometheus.Registerer) *WebhookMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &WebhookMetrics{
		outcomes: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shop_webhook_processed_total",
			Help: "Total number of processed payment webhooks grouped by outcome",
		}, []string{"outcome"}),
		emailSent: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_confirmation_emails_sent_total",
			Help: "Total number of purchase confirmation emails sent",
		}),
		emailFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_confirmation_emails_failed_total",
			Help: "Total number of purchase confirmation emails that failed to send",
		}),
	}
}

// RecordOutcome увеличивает счётчик обработанных webhook по исходу.
func (m *WebhookMetrics) RecordOutcome(outcome string) {
	m.outcomes.WithLabelValues(outcome).Inc()
}

// RecordEmailSent увеличивает счётчик отправленных писем.
func (m *WebhookMetrics) RecordEmailSent() {
	m.emailSent.Inc()
}

// RecordEmailFailed увеличивает счётчик недоставленных писем.
func (m *WebhookMetrics) RecordEmailFailed() {
	m.emailFailed.Inc()
}
