package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

const defaultTimeout = 5 * time.Second

// Config описывает подключение к HTTP API перевозчика.
// Пустые BaseURL/APIKey — поддерживаемый режим: адаптер работает только
// по статической тарифной таблице.
type Config struct {
	BaseURL    string
	APIKey     string
	ContractID string
	Timeout    time.Duration
}

// Client — адаптер HTTP API перевозчика с деградацией в статическую
// таблицу тарифов. Сетевые ошибки, таймауты и не-2xx ответы не
// пробрасываются наружу: вызов котировки обязан вернуть опции. Это
// осознанный размен доступности на точность; причина деградации
// логируется, «настоящая» цена не угадывается.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *log.Entry
	metrics    *metrics.ShippingMetrics
}

// NewClient создаёт адаптер перевозчика. Таймаут обязателен: вызов стоит
// на синхронном пути checkout и не имеет права висеть.
func NewClient(cfg Config, logger *log.Entry, m *metrics.ShippingMetrics) *Client {
	if logger == nil {
		logger = log.WithField("component", "carrier")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		metrics:    m,
	}
}

// Enabled сообщает, настроены ли учётные данные перевозчика.
func (c *Client) Enabled() bool {
	return c.cfg.BaseURL != "" && c.cfg.APIKey != ""
}

// Внешние формы API перевозчика. Ответ валидируется на границе: неизвестные
// или некорректные поля закрываются в сторону fallback, а не протаскивают
// неопределённые значения дальше.

type rateRequest struct {
	ContractID  string         `json:"contract_id,omitempty"`
	Origin      addressPayload `json:"origin"`
	Destination addressPayload `json:"destination"`
	Parcel      parcelPayload  `json:"parcel"`
}

type shipmentRequest struct {
	ContractID  string         `json:"contract_id,omitempty"`
	OrderID     string         `json:"order_id"`
	MethodID    string         `json:"method_id"`
	Destination addressPayload `json:"destination"`
	Parcel      parcelPayload  `json:"parcel"`
}

type addressPayload struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country,omitempty"`
}

type parcelPayload struct {
	BillableGrams int64   `json:"billable_weight_grams"`
	LengthCm      float64 `json:"length_cm"`
	WidthCm       float64 `json:"width_cm"`
	HeightCm      float64 `json:"height_cm"`
}

type rateResponse struct {
	Rates []struct {
		ServiceType string  `json:"service_type"`
		Price       float64 `json:"price"`
		MinDays     int     `json:"min_days"`
		MaxDays     int     `json:"max_days"`
	} `json:"rates"`
}

type shipmentResponse struct {
	TrackingNumber string `json:"tracking_number"`
	LabelURL       string `json:"label_url"`
}

// Quote запрашивает тарифы у перевозчика. Любой сбой или непригодный
// ответ превращается в деградированный результат со статическими ставками.
func (c *Client) Quote(ctx context.Context, origin, destination domain.Address, parcel domain.ParcelMetrics) domain.QuoteResult {
	if !c.Enabled() {
		return c.degraded(parcel, "carrier is not configured")
	}

	payload := rateRequest{
		ContractID:  c.cfg.ContractID,
		Origin:      toAddressPayload(origin),
		Destination: toAddressPayload(destination),
		Parcel:      toParcelPayload(parcel),
	}

	var resp rateResponse
	if err := c.post(ctx, "/api/v1/rates", payload, &resp); err != nil {
		return c.degraded(parcel, err.Error())
	}

	options := make([]domain.ShippingOption, 0, len(resp.Rates))
	for _, rate := range resp.Rates {
		level, ok := serviceLevelFor(rate.ServiceType)
		if !ok || rate.Price <= 0 || rate.MinDays < 0 || rate.MaxDays < rate.MinDays {
			c.logger.WithFields(log.Fields{
				"service_type": rate.ServiceType,
				"price":        rate.Price,
			}).Warn("skipping malformed carrier rate")
			continue
		}
		options = append(options, domain.ShippingOption{
			MethodID:     fmt.Sprintf("%s_%s", ProviderName, level),
			Label:        labelFor(level),
			Provider:     ProviderName,
			ServiceLevel: level,
			AmountMinor:  domain.MinorFromDecimal(rate.Price),
			EtaMinDays:   rate.MinDays,
			EtaMaxDays:   rate.MaxDays,
		})
	}
	if len(options) == 0 {
		return c.degraded(parcel, "carrier returned no usable rates")
	}

	return domain.QuoteResult{Options: options}
}

// BuyLabel покупает транспортную этикетку. В деградированном режиме заказ
// не падает: возвращается предварительный трек-номер для ручной обработки.
func (c *Client) BuyLabel(ctx context.Context, orderID string, destination domain.Address, option domain.ShippingOption, parcel domain.ParcelMetrics) domain.BuyLabelResult {
	if !c.Enabled() {
		return c.provisional(orderID, "carrier is not configured")
	}

	payload := shipmentRequest{
		ContractID:  c.cfg.ContractID,
		OrderID:     orderID,
		MethodID:    option.MethodID,
		Destination: toAddressPayload(destination),
		Parcel:      toParcelPayload(parcel),
	}

	var resp shipmentResponse
	if err := c.post(ctx, "/api/v1/shipments", payload, &resp); err != nil {
		return c.provisional(orderID, err.Error())
	}
	if resp.TrackingNumber == "" {
		return c.provisional(orderID, "carrier returned empty tracking number")
	}

	if c.metrics != nil {
		c.metrics.RecordLabelBought()
	}
	return domain.BuyLabelResult{
		TrackingNumber: resp.TrackingNumber,
		LabelURL:       resp.LabelURL,
	}
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal carrier request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build carrier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("carrier call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("carrier returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode carrier response: %w", err)
	}
	return nil
}

func (c *Client) degraded(parcel domain.ParcelMetrics, reason string) domain.QuoteResult {
	c.logger.WithField("reason", reason).Warn("carrier quote fell back to static rates")
	return domain.QuoteResult{
		Options:        FallbackOptions(parcel.BillableGrams),
		Degraded:       true,
		DegradedReason: reason,
	}
}

func (c *Client) provisional(orderID, reason string) domain.BuyLabelResult {
	c.logger.WithFields(log.Fields{
		"order_id": orderID,
		"reason":   reason,
	}).Warn("issuing provisional tracking number")
	if c.metrics != nil {
		c.metrics.RecordLabelProvisional()
	}
	return domain.BuyLabelResult{
		TrackingNumber: ProvisionalTracking(orderID),
		Provisional:    true,
	}
}

func serviceLevelFor(serviceType string) (domain.ServiceLevel, bool) {
	switch serviceType {
	case "standard", "estandar":
		return domain.ServiceLevelStandard, true
	case "express", "urgente":
		return domain.ServiceLevelExpress, true
	case "pickup", "sucursal":
		return domain.ServiceLevelPickup, true
	default:
		return "", false
	}
}

func labelFor(level domain.ServiceLevel) string {
	switch level {
	case domain.ServiceLevelExpress:
		return "Andreani Express"
	case domain.ServiceLevelPickup:
		return "Andreani Pickup Point"
	default:
		return "Andreani Standard"
	}
}

func toAddressPayload(a domain.Address) addressPayload {
	return addressPayload{
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func toParcelPayload(p domain.ParcelMetrics) parcelPayload {
	return parcelPayload{
		BillableGrams: p.BillableGrams,
		LengthCm:      p.LengthCm,
		WidthCm:       p.WidthCm,
		HeightCm:      p.HeightCm,
	}
}

var _ domain.CarrierProvider = (*Client)(nil)
