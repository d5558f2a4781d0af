package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// SupportedPaymentMethod — единственный способ оплаты, который принимает витрина.
const SupportedPaymentMethod = "mercadopago"

// CartItem — позиция корзины, какой её присылает клиент. Цены клиента
// здесь нет намеренно: цена всегда берётся из каталога на момент заказа.
type CartItem struct {
	ProductID string
	Qty       int32
}

// Result — итог успешного checkout.
type Result struct {
	OrderID     string
	RedirectURL string
}

// Service оформляет заказ: Validate → Price → Persist → Intent.
type Service struct {
	orders   domain.OrderRepository
	catalog  domain.ProductCatalog
	gateway  domain.PaymentGateway
	outbox   domain.OutboxRepository
	timeline domain.TimelineRepository
	currency string
	logger   *log.Entry
	metrics  *metrics.CheckoutMetrics
}

// NewService создаёт оркестратор checkout.
func NewService(
	orders domain.OrderRepository,
	catalog domain.ProductCatalog,
	gateway domain.PaymentGateway,
	outbox domain.OutboxRepository,
	timeline domain.TimelineRepository,
	currency string,
	logger *log.Entry,
	m *metrics.CheckoutMetrics,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "checkout")
	}
	if currency == "" {
		currency = "ARS"
	}
	return &Service{
		orders:   orders,
		catalog:  catalog,
		gateway:  gateway,
		outbox:   outbox,
		timeline: timeline,
		currency: currency,
		logger:   logger,
		metrics:  m,
	}
}

// CreateOrder проводит корзину через весь пайплайн и возвращает redirect URL
// платёжного шлюза. Ошибки валидации отклоняются до какой-либо записи.
// Если шлюз упал после записи заказа, заказ остаётся pending и его ID
// возвращается вместе с ошибкой: создание намерения можно повторить.
func (s *Service) CreateOrder(ctx context.Context, userID, paymentMethod string, items []CartItem) (Result, error) {
	start := time.Now()
	if s.metrics != nil {
		s.metrics.RecordStarted()
		defer func() {
			s.metrics.RecordDuration(time.Since(start))
		}()
	}

	if err := s.validate(userID, paymentMethod, items); err != nil {
		s.recordFailure("invalid_input")
		return Result{}, err
	}

	order, prefItems, err := s.price(ctx, userID, items)
	if err != nil {
		s.recordFailure("invalid_input")
		return Result{}, err
	}

	if err := s.orders.Create(order); err != nil {
		s.recordFailure("persist")
		return Result{}, fmt.Errorf("create order: %w", err)
	}
	s.recordCreated(order)

	intent, err := s.gateway.CreatePreference(ctx, order.ID, prefItems)
	if err != nil {
		// Заказ уже сохранён; фиксируем ID, чтобы намерение можно было
		// пересоздать позже без повторного оформления.
		s.logger.WithError(err).WithField("order_id", order.ID).Error("payment intent creation failed")
		s.recordFailure("payment_intent")
		if s.metrics != nil {
			s.metrics.RecordIntentFailure()
		}
		return Result{OrderID: order.ID}, fmt.Errorf("%w: order %s: %v", domain.ErrPaymentIntentFailed, order.ID, err)
	}

	s.logger.WithFields(log.Fields{
		"order_id":     order.ID,
		"user_id":      userID,
		"amount_minor": order.AmountMinor,
		"lines_count":  len(order.Lines),
	}).Info("checkout completed")
	if s.metrics != nil {
		s.metrics.RecordCompleted()
	}

	return Result{OrderID: order.ID, RedirectURL: intent.InitPoint}, nil
}

func (s *Service) validate(userID, paymentMethod string, items []CartItem) error {
	if userID == "" {
		return domain.ErrUserRequired
	}
	if paymentMethod != SupportedPaymentMethod {
		return fmt.Errorf("%w: %q", domain.ErrPaymentMethodUnsupported, paymentMethod)
	}
	if len(items) == 0 {
		return domain.ErrCartEmpty
	}
	for _, item := range items {
		if item.ProductID == "" {
			return fmt.Errorf("%w: empty product id", domain.ErrProductNotFound)
		}
		if item.Qty <= 0 {
			return fmt.Errorf("%w: product %s", domain.ErrLineQtyInvalid, item.ProductID)
		}
	}
	return nil
}

// price перечитывает актуальную цену каждой позиции из каталога и
// снимает её на линию заказа. Клиентским ценам доверия нет.
func (s *Service) price(ctx context.Context, userID string, items []CartItem) (domain.Order, []domain.PreferenceItem, error) {
	now := time.Now().UTC()
	orderID := uuid.NewString()

	lines := make([]domain.OrderLine, 0, len(items))
	prefItems := make([]domain.PreferenceItem, 0, len(items))
	for _, item := range items {
		product, err := s.catalog.Get(ctx, item.ProductID)
		if err != nil {
			return domain.Order{}, nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, item.ProductID)
		}
		lines = append(lines, domain.OrderLine{
			ID:         uuid.NewString(),
			OrderID:    orderID,
			ProductID:  product.ID,
			Qty:        item.Qty,
			PriceMinor: product.PriceMinor,
			CreatedAt:  now,
		})
		prefItems = append(prefItems, domain.PreferenceItem{
			ProductID:  product.ID,
			Title:      product.Title,
			Qty:        item.Qty,
			PriceMinor: product.PriceMinor,
		})
	}

	order := domain.Order{
		ID:          orderID,
		UserID:      userID,
		Status:      domain.OrderStatusPending,
		Currency:    s.currency,
		AmountMinor: domain.LinesTotalMinor(lines),
		Lines:       lines,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return order, prefItems, nil
}

// recordCreated эмитит событие order.created в outbox и timeline.
// Сбои здесь не срывают checkout: заказ уже записан.
func (s *Service) recordCreated(order domain.Order) {
	if s.outbox != nil {
		event := kafka.NewOrderEvent(kafka.EventTypeOrderCreated, order.ID, order.UserID, string(order.Status), map[string]any{
			"amount_minor": order.AmountMinor,
			"currency":     order.Currency,
			"lines_count":  len(order.Lines),
		})
		payload, err := json.Marshal(event)
		if err == nil {
			if _, err := s.outbox.Enqueue(domain.OutboxMessage{
				AggregateType: "order",
				AggregateID:   order.ID,
				EventType:     string(kafka.EventTypeOrderCreated),
				Payload:       payload,
			}); err != nil {
				s.logger.WithError(err).WithField("order_id", order.ID).Error("enqueue order.created failed")
			}
		}
	}

	if s.timeline != nil {
		if err := s.timeline.Append(domain.TimelineEvent{
			OrderID:  order.ID,
			Type:     domain.TimelineOrderCreated,
			Occurred: order.CreatedAt,
		}); err != nil {
			s.logger.WithError(err).WithField("order_id", order.ID).Warn("append timeline event failed")
		}
	}
}

func (s *Service) recordFailure(reason string) {
	if s.metrics != nil {
		s.metrics.RecordFailed(reason)
	}
}
