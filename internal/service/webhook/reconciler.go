package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// approvedCollectionStatus — единственное значение статуса шлюза,
// которое переводит заказ в approved. Всё остальное оставляет pending.
const approvedCollectionStatus = "approved"

// Reconciler сводит асинхронные уведомления платёжного шлюза в статус
// заказа. Доставка уведомлений at-least-once: дубликаты ожидаемы и
// обязаны быть no-op.
type Reconciler struct {
	orders   domain.OrderRepository
	users    domain.UserDirectory
	catalog  domain.ProductCatalog
	email    domain.EmailSender
	outbox   domain.OutboxRepository
	timeline domain.TimelineRepository
	logger   *log.Entry
	metrics  *metrics.WebhookMetrics
}

// NewReconciler создаёт обработчик платёжных уведомлений.
func NewReconciler(
	orders domain.OrderRepository,
	users domain.UserDirectory,
	catalog domain.ProductCatalog,
	email domain.EmailSender,
	outbox domain.OutboxRepository,
	timeline domain.TimelineRepository,
	logger *log.Entry,
	m *metrics.WebhookMetrics,
) *Reconciler {
	if logger == nil {
		logger = log.WithField("component", "webhook")
	}
	return &Reconciler{
		orders:   orders,
		users:    users,
		catalog:  catalog,
		email:    email,
		outbox:   outbox,
		timeline: timeline,
		logger:   logger,
		metrics:  m,
	}
}

// MapCollectionStatus переводит свободный статус шлюза во внутренний.
func MapCollectionStatus(collectionStatus string) domain.OrderStatus {
	if collectionStatus == approvedCollectionStatus {
		return domain.OrderStatusApproved
	}
	return domain.OrderStatusPending
}

// Reconcile обрабатывает одно уведомление. Неизвестный external_reference —
// ошибка: шлюз должен ретраить или алертить, молча «успевать» нельзя.
// Уже подтверждённый заказ — успешный no-op. Письмо с подтверждением
// отправляется только при первом переходе pending → approved.
//
// Проверка «первого подтверждения» и запись статуса не защищены общей
// блокировкой: два почти одновременных подтверждения могут оба увидеть
// pending и оба отправить письмо. Это принятая издержка at-least-once
// доставки, а не дефект конкретного вызова.
func (r *Reconciler) Reconcile(ctx context.Context, externalReference, paymentID, collectionStatus string) error {
	entry := r.logger.WithFields(log.Fields{
		"external_reference": externalReference,
		"payment_id":         paymentID,
		"collection_status":  collectionStatus,
	})

	order, err := r.orders.Get(externalReference)
	if err != nil {
		entry.WithError(err).Warn("webhook references unknown order")
		r.recordOutcome(metrics.WebhookOutcomeUnknown)
		return fmt.Errorf("%w: external_reference %s", domain.ErrOrderNotFound, externalReference)
	}

	if order.Approved() {
		entry.Debug("order already approved, duplicate notification ignored")
		r.recordOutcome(metrics.WebhookOutcomeDuplicate)
		return nil
	}

	mapped := MapCollectionStatus(collectionStatus)
	if mapped != domain.OrderStatusApproved {
		// Статус остаётся pending; запись не нужна.
		entry.Debug("collection status does not approve the order")
		r.recordOutcome(metrics.WebhookOutcomeIgnored)
		return nil
	}

	if err := r.orders.UpdateStatus(order.ID, domain.OrderStatusApproved); err != nil {
		return fmt.Errorf("persist approved status for order %s: %w", order.ID, err)
	}
	entry.WithField("order_id", order.ID).Info("order approved")
	r.recordOutcome(metrics.WebhookOutcomeApproved)
	r.recordApproved(order, paymentID)

	// Одноразовый побочный эффект первого подтверждения.
	r.sendConfirmation(ctx, order)

	return nil
}

// sendConfirmation отправляет письмо о покупке. Доставка best-effort:
// деньги уже перешли, сбой письма фиксируется и не откатывает заказ.
func (r *Reconciler) sendConfirmation(ctx context.Context, order domain.Order) {
	user, err := r.users.Get(ctx, order.UserID)
	if err != nil {
		r.logger.WithError(err).WithField("order_id", order.ID).Warn("cannot resolve order owner for confirmation email")
		r.recordEmailFailure(order.ID, err)
		return
	}

	msg := domain.PurchaseEmail{
		RecipientEmail: user.Email,
		RecipientName:  user.Name,
		AmountMinor:    order.AmountMinor,
		Currency:       order.Currency,
		OrderID:        order.ID,
		PurchaseDate:   time.Now().UTC(),
	}
	if len(order.Lines) > 0 {
		product, err := r.catalog.Get(ctx, order.Lines[0].ProductID)
		if err != nil {
			r.logger.WithError(err).WithField("order_id", order.ID).Warn("cannot resolve product for confirmation email")
		} else {
			msg.ProductName = product.Title
			msg.ProductImage = product.ImageURL
		}
	}

	if err := r.email.SendPurchaseConfirmation(ctx, msg); err != nil {
		r.logger.WithError(err).WithFields(log.Fields{
			"order_id":  order.ID,
			"recipient": user.Email,
		}).Error("confirmation email delivery failed")
		r.recordEmailFailure(order.ID, err)
		return
	}

	if r.metrics != nil {
		r.metrics.RecordEmailSent()
	}
	r.appendTimeline(order.ID, domain.TimelineEmailSent, "")
}

// recordApproved эмитит событие order.approved в outbox и timeline.
func (r *Reconciler) recordApproved(order domain.Order, paymentID string) {
	if r.outbox != nil {
		event := kafka.NewOrderEvent(kafka.EventTypeOrderApproved, order.ID, order.UserID, string(domain.OrderStatusApproved), map[string]any{
			"payment_id":   paymentID,
			"amount_minor": order.AmountMinor,
		})
		payload, err := json.Marshal(event)
		if err == nil {
			if _, err := r.outbox.Enqueue(domain.OutboxMessage{
				AggregateType: "order",
				AggregateID:   order.ID,
				EventType:     string(kafka.EventTypeOrderApproved),
				Payload:       payload,
			}); err != nil {
				r.logger.WithError(err).WithField("order_id", order.ID).Error("enqueue order.approved failed")
			}
		}
	}

	r.appendTimeline(order.ID, domain.TimelineOrderApproved, "payment "+paymentID)
}

func (r *Reconciler) appendTimeline(orderID, eventType, detail string) {
	if r.timeline == nil {
		return
	}
	if err := r.timeline.Append(domain.TimelineEvent{
		OrderID:  orderID,
		Type:     eventType,
		Detail:   detail,
		Occurred: time.Now().UTC(),
	}); err != nil {
		r.logger.WithError(err).WithField("order_id", orderID).Warn("append timeline event failed")
	}
}

func (r *Reconciler) recordEmailFailure(orderID string, cause error) {
	if r.metrics != nil {
		r.metrics.RecordEmailFailed()
	}
	r.appendTimeline(orderID, domain.TimelineEmailFailed, cause.Error())
}

func (r *Reconciler) recordOutcome(outcome string) {
	if r.metrics != nil {
		r.metrics.RecordOutcome(outcome)
	}
}
