package domain

// ServiceLevel — класс доставки, который возвращает котировщик.
type ServiceLevel string

const (
	ServiceLevelStandard ServiceLevel = "standard"
	ServiceLevelExpress  ServiceLevel = "express"
	ServiceLevelPickup   ServiceLevel = "pickup"
)

// Address описывает адрес отправителя или получателя.
type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

// LineMetrics — вес и габариты одной позиции корзины.
// Нулевые поля означают «не указано» и заполняются консервативными
// значениями по умолчанию при расчёте.
type LineMetrics struct {
	WeightGrams int64
	LengthCm    float64
	WidthCm     float64
	HeightCm    float64
}

// QuoteItem — позиция корзины в запросе котировки доставки.
// Override позволяет запросу переопределить метрики товара из каталога.
type QuoteItem struct {
	ProductID string
	Qty       int32
	Override  *LineMetrics
}

// ParcelMetrics — агрегированная посылка, которую видит перевозчик:
// оплачиваемый вес и габариты «коробки».
type ParcelMetrics struct {
	BillableGrams int64
	LengthCm      float64
	WidthCm       float64
	HeightCm      float64
}

// ShippingOption — одна тарифная опция доставки в публичной форме.
type ShippingOption struct {
	MethodID     string       `json:"method_id"`
	Label        string       `json:"label"`
	Provider     string       `json:"provider"`
	ServiceLevel ServiceLevel `json:"service_level"`
	AmountMinor  int64        `json:"amount"`
	EtaMinDays   int          `json:"eta_min_days"`
	EtaMaxDays   int          `json:"eta_max_days"`
}

// QuoteResult — результат обращения к провайдеру тарифов.
// Провайдер никогда не «падает»: при недоступности или некорректном
// ответе перевозчика он возвращает опции из статической таблицы и
// помечает результат как деградированный с причиной для логов.
type QuoteResult struct {
	Options        []ShippingOption
	Degraded       bool
	DegradedReason string
}

// BuyLabelResult — результат покупки транспортной этикетки.
// В деградированном режиме трек-номер синтетический и помечен как
// предварительный, чтобы операторы видели, что этикетку нужно купить вручную.
type BuyLabelResult struct {
	TrackingNumber string
	LabelURL       string
	Provisional    bool
}
