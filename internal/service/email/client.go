package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Config описывает подключение к транзакционному почтовому API.
type Config struct {
	BaseURL   string
	APIKey    string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

// Client отправляет письма с подтверждением покупки через HTTP API
// почтового провайдера. Доставка best-effort: сбой поднимается
// вызывающему, который его логирует и не ретраит.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *log.Entry
}

// NewClient создаёт почтовый клиент.
func NewClient(cfg Config, logger *log.Entry) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = log.WithField("component", "email")
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type mailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailRequest struct {
	From     mailAddress    `json:"from"`
	To       []mailAddress  `json:"to"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Vars     map[string]any `json:"variables"`
}

// SendPurchaseConfirmation отправляет письмо о подтверждённой покупке.
func (c *Client) SendPurchaseConfirmation(ctx context.Context, msg domain.PurchaseEmail) error {
	payload := mailRequest{
		From:     mailAddress{Email: c.cfg.FromEmail, Name: c.cfg.FromName},
		To:       []mailAddress{{Email: msg.RecipientEmail, Name: msg.RecipientName}},
		Subject:  "Confirmación de compra",
		Template: "purchase-confirmation",
		Vars: map[string]any{
			"product_name":  msg.ProductName,
			"product_image": msg.ProductImage,
			"amount":        domain.DecimalFromMinor(msg.AmountMinor),
			"currency":      msg.Currency,
			"order_id":      msg.OrderID,
			"purchase_date": msg.PurchaseDate.Format(time.RFC3339),
			"access_url":    msg.AccessURL,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEmailDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: mail provider returned status %d", domain.ErrEmailDelivery, resp.StatusCode)
	}

	c.logger.WithFields(log.Fields{
		"order_id":  msg.OrderID,
		"recipient": msg.RecipientEmail,
	}).Debug("confirmation email accepted by provider")
	return nil
}

var _ domain.EmailSender = (*Client)(nil)
