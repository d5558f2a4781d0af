package catalog

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// MockService — конфигурируемая заглушка каталога для тестов и локальной
// разработки. Каталог — внешний коллаборатор; витрина читает его только
// по идентификатору товара.
type MockService struct {
	mu       sync.RWMutex
	products map[string]domain.Product

	GetCalls int
}

// NewMockService возвращает пустой mock-каталог.
func NewMockService() *MockService {
	return &MockService{products: make(map[string]domain.Product)}
}

// Put добавляет или заменяет карточку товара.
func (m *MockService) Put(product domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[product.ID] = product
}

// SetPrice меняет актуальную цену товара. Удобно для проверки того, что
// снимки цен в заказах не зависят от последующих правок каталога.
func (m *MockService) SetPrice(productID string, priceMinor int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product, ok := m.products[productID]; ok {
		product.PriceMinor = priceMinor
		m.products[productID] = product
	}
}

// Get возвращает товар или ErrProductNotFound.
func (m *MockService) Get(_ context.Context, productID string) (domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls++
	product, ok := m.products[productID]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

var _ domain.ProductCatalog = (*MockService)(nil)
