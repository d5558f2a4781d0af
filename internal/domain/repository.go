package domain

import "time"

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ вместе с позициями. Возвращает
	// ErrOrderExists, если запись с таким ID уже существует.
	Create(order Order) error
	// Get возвращает заказ с позициями или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// ListByUser возвращает заказы покупателя с опциональным ограничением на количество.
	ListByUser(userID string, limit int) ([]Order, error)
	// UpdateStatus записывает новый статус заказа. Возвращает
	// ErrOrderNotFound, если заказа нет. Запись безусловная: проверка
	// текущего статуса — ответственность вызывающего.
	UpdateStatus(id string, status OrderStatus) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// TimelineEvent — одно событие жизненного цикла заказа для операторов.
type TimelineEvent struct {
	OrderID  string
	Type     string
	Detail   string
	Occurred time.Time
}

// Типы событий timeline.
const (
	TimelineOrderCreated  = "OrderCreated"
	TimelineOrderApproved = "OrderApproved"
	TimelineEmailSent     = "ConfirmationEmailSent"
	TimelineEmailFailed   = "ConfirmationEmailFailed"
)

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(event TimelineEvent) error
	List(orderID string) ([]TimelineEvent, error)
}
