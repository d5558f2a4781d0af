package email

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// MockSender — конфигурируемая заглушка EmailSender для тестов.
type MockSender struct {
	mu sync.Mutex

	Err  error
	sent []domain.PurchaseEmail
}

// NewMockSender возвращает mock с успешной доставкой по умолчанию.
func NewMockSender() *MockSender {
	return &MockSender{}
}

// SendPurchaseConfirmation записывает письмо и возвращает настроенную ошибку.
func (m *MockSender) SendPurchaseConfirmation(_ context.Context, msg domain.PurchaseEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// Sent возвращает копию отправленных писем.
func (m *MockSender) Sent() []domain.PurchaseEmail {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]domain.PurchaseEmail, len(m.sent))
	copy(result, m.sent)
	return result
}

var _ domain.EmailSender = (*MockSender)(nil)
