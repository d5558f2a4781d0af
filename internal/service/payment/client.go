package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const (
	defaultBaseURL = "https://api.mercadopago.com"
	defaultTimeout = 10 * time.Second
)

// ErrAccessTokenRequired возвращается при попытке создать клиент без токена.
// Отсутствие токена шлюза фатально для процесса: без него checkout
// невозможен в принципе.
var ErrAccessTokenRequired = errors.New("payment gateway access token is required")

// Config описывает подключение к платёжному шлюзу и redirect URL покупателя.
type Config struct {
	BaseURL         string
	AccessToken     string
	Currency        string
	SuccessURL      string
	FailureURL      string
	PendingURL      string
	NotificationURL string
	Timeout         time.Duration
}

// Client создаёт hosted-платёжные намерения («preference») через HTTP API
// шлюза. Для намерения система записи — сам шлюз; у нас остаётся только
// заказ, связанный через external_reference.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *log.Entry
}

// NewClient создаёт клиент шлюза. Возвращает ошибку без access token.
func NewClient(cfg Config, logger *log.Entry) (*Client, error) {
	if cfg.AccessToken == "" {
		return nil, ErrAccessTokenRequired
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Currency == "" {
		cfg.Currency = "ARS"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = log.WithField("component", "payment-gateway")
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}, nil
}

type preferenceItem struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Quantity  int32   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Currency  string  `json:"currency_id"`
}

type backURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type preferenceRequest struct {
	Items             []preferenceItem `json:"items"`
	BackURLs          backURLs         `json:"back_urls"`
	AutoReturn        string           `json:"auto_return"`
	ExternalReference string           `json:"external_reference"`
	NotificationURL   string           `json:"notification_url,omitempty"`
}

type preferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// CreatePreference создаёт намерение с external_reference = ID заказа и
// возвращает redirect URL. Fallback у этого вызова нет: сбой терминален
// для конкретной попытки checkout и поднимается вызывающему.
func (c *Client) CreatePreference(ctx context.Context, externalReference string, items []domain.PreferenceItem) (domain.PaymentIntent, error) {
	reqItems := make([]preferenceItem, 0, len(items))
	for _, item := range items {
		reqItems = append(reqItems, preferenceItem{
			ID:        item.ProductID,
			Title:     item.Title,
			Quantity:  item.Qty,
			UnitPrice: domain.DecimalFromMinor(item.PriceMinor),
			Currency:  c.cfg.Currency,
		})
	}

	payload := preferenceRequest{
		Items: reqItems,
		BackURLs: backURLs{
			Success: c.cfg.SuccessURL,
			Failure: c.cfg.FailureURL,
			Pending: c.cfg.PendingURL,
		},
		AutoReturn:        "approved",
		ExternalReference: externalReference,
		NotificationURL:   c.cfg.NotificationURL,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("marshal preference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/checkout/preferences", bytes.NewReader(body))
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("build preference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("preference call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.PaymentIntent{}, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var pref preferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&pref); err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("decode preference response: %w", err)
	}
	if pref.InitPoint == "" {
		return domain.PaymentIntent{}, errors.New("gateway returned empty init_point")
	}

	c.logger.WithFields(log.Fields{
		"preference_id":      pref.ID,
		"external_reference": externalReference,
	}).Debug("payment preference created")

	return domain.PaymentIntent{
		ID:                pref.ID,
		ExternalReference: externalReference,
		InitPoint:         pref.InitPoint,
	}, nil
}

var _ domain.PaymentGateway = (*Client)(nil)
