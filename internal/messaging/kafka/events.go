package kafka

import "time"

// EventType определяет тип события заказа.
type EventType string

const (
	// EventTypeOrderCreated — заказ записан со статусом pending.
	EventTypeOrderCreated EventType = "order.created"
	// EventTypeOrderApproved — шлюз подтвердил оплату заказа.
	EventTypeOrderApproved EventType = "order.approved"
)

// Topics для Kafka.
const (
	TopicOrderEvents     = "shop.order.events"
	TopicDeadLetterQueue = "shop.order.dlq"
)

// OrderEvent — payload событий заказа, которые сервисы кладут в outbox.
// Consumer получает его внутри конверта паблишера.
type OrderEvent struct {
	EventType EventType      `json:"event_type"`
	OrderID   string         `json:"order_id"`
	UserID    string         `json:"user_id,omitempty"`
	Status    string         `json:"status,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewOrderEvent создаёт событие заказа с текущей меткой времени.
func NewOrderEvent(eventType EventType, orderID, userID, status string, metadata map[string]any) *OrderEvent {
	return &OrderEvent{
		EventType: eventType,
		OrderID:   orderID,
		UserID:    userID,
		Status:    status,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}
}
