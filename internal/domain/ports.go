package domain

import (
	"context"
	"time"
)

// Product — товар каталога в том объёме, который нужен пайплайну checkout.
// Каталог — внешний коллаборатор, здесь он доступен только на чтение.
type Product struct {
	ID          string
	Title       string
	PriceMinor  int64
	WeightGrams int64
	LengthCm    float64
	WidthCm     float64
	HeightCm    float64
	Stock       int32
	ImageURL    string
}

// Metrics возвращает вес и габариты товара как метрики позиции.
func (p Product) Metrics() LineMetrics {
	return LineMetrics{
		WeightGrams: p.WeightGrams,
		LengthCm:    p.LengthCm,
		WidthCm:     p.WidthCm,
		HeightCm:    p.HeightCm,
	}
}

// ProductCatalog описывает доступ к каталогу товаров.
type ProductCatalog interface {
	// Get возвращает товар или ErrProductNotFound, если идентификатор неизвестен.
	Get(ctx context.Context, productID string) (Product, error)
}

// User — покупатель в объёме, нужном для письма с подтверждением.
type User struct {
	ID    string
	Email string
	Name  string
}

// UserDirectory описывает доступ к справочнику пользователей.
type UserDirectory interface {
	// Get возвращает пользователя или ErrUserNotFound.
	Get(ctx context.Context, userID string) (User, error)
}

// CarrierProvider — стратегия получения тарифов и покупки этикеток у перевозчика.
// Оба метода не возвращают ошибок: котировка обязана всегда давать хотя бы
// одну опцию, иначе checkout не сможет продолжиться. Сбои конвертируются в
// деградированный результат и логируются адаптером.
type CarrierProvider interface {
	Quote(ctx context.Context, origin, destination Address, parcel ParcelMetrics) QuoteResult
	BuyLabel(ctx context.Context, orderID string, destination Address, option ShippingOption, parcel ParcelMetrics) BuyLabelResult
}

// PreferenceItem — позиция в запросе на создание платёжного намерения.
type PreferenceItem struct {
	ProductID  string
	Title      string
	Qty        int32
	PriceMinor int64
}

// PaymentIntent — созданное шлюзом платёжное намерение.
// Система записи по намерению — сам шлюз; у нас хранится только заказ,
// на который намерение ссылается через external_reference.
type PaymentIntent struct {
	ID                string
	ExternalReference string
	InitPoint         string
}

// PaymentGateway описывает создание hosted-платёжного намерения.
type PaymentGateway interface {
	// CreatePreference создаёт намерение с external_reference = ID заказа
	// и возвращает redirect URL для покупателя.
	CreatePreference(ctx context.Context, externalReference string, items []PreferenceItem) (PaymentIntent, error)
}

// PurchaseEmail — данные письма с подтверждением покупки.
type PurchaseEmail struct {
	RecipientEmail string
	RecipientName  string
	ProductName    string
	ProductImage   string
	AmountMinor    int64
	Currency       string
	OrderID        string
	PurchaseDate   time.Time
	AccessURL      string
}

// EmailSender отправляет письмо с подтверждением покупки.
// Сбой отправки фиксируется, но не ретраится этим ядром.
type EmailSender interface {
	SendPurchaseConfirmation(ctx context.Context, msg PurchaseEmail) error
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}
