package shipping

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// Service котирует доставку корзины: разрешает метрики позиций, считает
// оплачиваемый вес, собирает посылку и спрашивает провайдера тарифов.
// Ничего не персистит; безопасно вызывать многократно при правках адреса.
type Service struct {
	catalog  domain.ProductCatalog
	provider domain.CarrierProvider
	origin   domain.Address
	divisor  float64
	logger   *log.Entry
	metrics  *metrics.ShippingMetrics
}

// NewService создаёт сервис котировки доставки.
func NewService(
	catalog domain.ProductCatalog,
	provider domain.CarrierProvider,
	origin domain.Address,
	divisor float64,
	logger *log.Entry,
	m *metrics.ShippingMetrics,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "shipping")
	}
	if divisor <= 0 {
		divisor = DefaultVolumetricDivisor
	}
	return &Service{
		catalog:  catalog,
		provider: provider,
		origin:   origin,
		divisor:  divisor,
		logger:   logger,
		metrics:  m,
	}
}

// Quote возвращает тарифные опции доставки корзины на адрес назначения.
// Метрики каждой позиции разрешаются по убыванию приоритета:
// переопределение из запроса → карточка товара → жёсткие значения по умолчанию.
func (s *Service) Quote(ctx context.Context, items []domain.QuoteItem, destination domain.Address) ([]domain.ShippingOption, error) {
	if s.metrics != nil {
		s.metrics.RecordQuoteRequested()
	}

	lines := make([]Line, 0, len(items))
	for _, item := range items {
		if item.Qty <= 0 {
			continue
		}
		lines = append(lines, Line{
			Metrics: s.resolveMetrics(ctx, item),
			Qty:     item.Qty,
		})
	}

	parcel := ParcelFor(lines, s.divisor)
	result := s.provider.Quote(ctx, s.origin, destination, parcel)
	if result.Degraded {
		// Деградация не ошибка для вызывающего: checkout не должен
		// блокироваться из-за недоступного перевозчика.
		s.logger.WithFields(log.Fields{
			"reason":         result.DegradedReason,
			"billable_grams": parcel.BillableGrams,
		}).Warn("carrier quote degraded, using fallback rates")
		if s.metrics != nil {
			s.metrics.RecordQuoteDegraded()
		}
	}

	return result.Options, nil
}

// resolveMetrics выбирает метрики позиции: override из запроса, затем
// карточка товара, затем значения по умолчанию внутри калькулятора.
func (s *Service) resolveMetrics(ctx context.Context, item domain.QuoteItem) domain.LineMetrics {
	if item.Override != nil {
		return *item.Override
	}

	product, err := s.catalog.Get(ctx, item.ProductID)
	if err != nil {
		// Котировка обязана выжить и без карточки товара.
		s.logger.WithError(err).WithField("product_id", item.ProductID).
			Warn("product lookup failed during quote, using default metrics")
		return domain.LineMetrics{}
	}
	return product.Metrics()
}
