package payment

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// MockGateway — конфигурируемая заглушка PaymentGateway для тестов.
type MockGateway struct {
	mu sync.Mutex

	Intent domain.PaymentIntent
	Err    error

	Calls    int
	LastRef  string
	LastItem []domain.PreferenceItem
}

// NewMockGateway возвращает mock с успешным сценарием по умолчанию.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		Intent: domain.PaymentIntent{
			ID:        "pref-mock",
			InitPoint: "https://gateway.example/init/pref-mock",
		},
	}
}

// CreatePreference возвращает заранее настроенный результат и считает вызовы.
func (m *MockGateway) CreatePreference(_ context.Context, externalReference string, items []domain.PreferenceItem) (domain.PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	m.LastRef = externalReference
	m.LastItem = items
	if m.Err != nil {
		return domain.PaymentIntent{}, m.Err
	}
	intent := m.Intent
	intent.ExternalReference = externalReference
	return intent, nil
}

var _ domain.PaymentGateway = (*MockGateway)(nil)
