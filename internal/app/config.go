package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/carrier"
	"github.com/vladislavdragonenkov/storefront/internal/service/email"
	"github.com/vladislavdragonenkov/storefront/internal/service/payment"
	"github.com/vladislavdragonenkov/storefront/internal/service/shipping"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	// DatabaseURL пустой — работаем на in-memory хранилищах.
	DatabaseURL string
	// KafkaBrokers пустой — события из outbox не публикуются.
	KafkaBrokers string

	Currency string

	Payment payment.Config
	Carrier carrier.Config
	Email   email.Config

	Origin            domain.Address
	VolumetricDivisor float64

	OutboxPollInterval time.Duration
}

// DefaultConfig возвращает базовые адреса и параметры.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":8080",
		MetricsAddr: ":9090",
		Currency:    "ARS",
		Origin: domain.Address{
			City:       "Buenos Aires",
			State:      "CABA",
			PostalCode: "C1000",
			Country:    "AR",
		},
		VolumetricDivisor: shipping.DefaultVolumetricDivisor,
	}
}

// FromEnv собирает конфигурацию из переменных окружения поверх значений
// по умолчанию.
func FromEnv() Config {
	cfg := DefaultConfig()

	setString(&cfg.HTTPAddr, "SHOP_HTTP_ADDR")
	setString(&cfg.MetricsAddr, "SHOP_METRICS_ADDR")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.KafkaBrokers, "KAFKA_BROKERS")
	setString(&cfg.Currency, "SHOP_CURRENCY")

	setString(&cfg.Payment.BaseURL, "MP_BASE_URL")
	setString(&cfg.Payment.AccessToken, "MP_ACCESS_TOKEN")
	setString(&cfg.Payment.SuccessURL, "MP_SUCCESS_URL")
	setString(&cfg.Payment.FailureURL, "MP_FAILURE_URL")
	setString(&cfg.Payment.PendingURL, "MP_PENDING_URL")
	setString(&cfg.Payment.NotificationURL, "MP_NOTIFICATION_URL")
	cfg.Payment.Currency = cfg.Currency

	setString(&cfg.Carrier.BaseURL, "CARRIER_BASE_URL")
	setString(&cfg.Carrier.APIKey, "CARRIER_API_KEY")
	setString(&cfg.Carrier.ContractID, "CARRIER_CONTRACT_ID")

	setString(&cfg.Email.BaseURL, "EMAIL_BASE_URL")
	setString(&cfg.Email.APIKey, "EMAIL_API_KEY")
	setString(&cfg.Email.FromEmail, "EMAIL_FROM")
	setString(&cfg.Email.FromName, "EMAIL_FROM_NAME")

	setString(&cfg.Origin.Street, "SHOP_ORIGIN_STREET")
	setString(&cfg.Origin.City, "SHOP_ORIGIN_CITY")
	setString(&cfg.Origin.State, "SHOP_ORIGIN_STATE")
	setString(&cfg.Origin.PostalCode, "SHOP_ORIGIN_POSTAL_CODE")
	setString(&cfg.Origin.Country, "SHOP_ORIGIN_COUNTRY")

	if v := os.Getenv("SHOP_VOLUMETRIC_DIVISOR"); v != "" {
		if d, err := strconv.ParseFloat(v, 64); err == nil && d > 0 {
			cfg.VolumetricDivisor = d
		}
	}

	if v := os.Getenv("SHOP_OUTBOX_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.OutboxPollInterval = d
		}
	}

	return cfg
}

// Validate проверяет конфигурацию перед запуском. Отсутствие токена
// платёжного шлюза фатально: без него checkout невозможен в принципе.
func (c Config) Validate() error {
	if c.Payment.AccessToken == "" {
		return fmt.Errorf("config: %w (set MP_ACCESS_TOKEN)", payment.ErrAccessTokenRequired)
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("config: http address is required")
	}
	return nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}
