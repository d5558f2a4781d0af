package metrics

import "github.com/prometheus/client_golang/prometheus"

// ShippingMetrics содержит метрики котировки доставки.
type ShippingMetrics struct {
	quotesRequested prometheus.Counter
	quotesDegraded  prometheus.Counter
	labelsBought    prometheus.Counter
	labelsProvis    prometheus.Counter
}

// NewShippingMetrics создаёт метрики доставки в default-реестре.
func NewShippingMetrics() *ShippingMetrics {
	return newShippingMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newShippingMetricsWithRegisterer(registerer prometheus.Registerer) *ShippingMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ShippingMetrics{
		quotesRequested: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_shipping_quotes_total",
			Help: "Total number of shipping quote requests",
		}),
		quotesDegraded: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_shipping_quotes_degraded_total",
			Help: "Total number of quotes served from the static fallback rate table",
		}),
		labelsBought: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_shipping_labels_total",
			Help: "Total number of shipping labels bought from the carrier",
		}),
		labelsProvis: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_shipping_labels_provisional_total",
			Help: "Total number of provisional tracking numbers issued in degraded mode",
		}),
	}
}

// RecordQuoteRequested увеличивает счётчик запросов котировки.
func (m *ShippingMetrics) RecordQuoteRequested() {
	m.quotesRequested.Inc()
}

// RecordQuoteDegraded увеличивает счётчик деградированных котировок.
func (m *ShippingMetrics) RecordQuoteDegraded() {
	m.quotesDegraded.Inc()
}

// RecordLabelBought увеличивает счётчик купленных этикеток.
func (m *ShippingMetrics) RecordLabelBought() {
	m.labelsBought.Inc()
}

// RecordLabelProvisional увеличивает счётчик предварительных трек-номеров.
func (m *ShippingMetrics) RecordLabelProvisional() {
	m.labelsProvis.Inc()
}
