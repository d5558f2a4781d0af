package directory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// MockService — заглушка справочника пользователей. Аутентификация и
// сессии живут во внешней системе; ядро получает пользователя явно по
// идентификатору, без неявного «текущего пользователя» из окружения.
type MockService struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewMockService возвращает пустой mock-справочник.
func NewMockService() *MockService {
	return &MockService{users: make(map[string]domain.User)}
}

// Put добавляет или заменяет пользователя.
func (m *MockService) Put(user domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

// Get возвращает пользователя или ErrUserNotFound.
func (m *MockService) Get(_ context.Context, userID string) (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

var _ domain.UserDirectory = (*MockService)(nil)
