package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func seedOrder(id, userID string, createdAt time.Time) domain.Order {
	return domain.Order{
		ID:          id,
		UserID:      userID,
		Status:      domain.OrderStatusPending,
		Currency:    "ARS",
		AmountMinor: 25000,
		Lines: []domain.OrderLine{
			{ID: id + "-line", OrderID: id, ProductID: "sku-1", Qty: 1, PriceMinor: 25000, CreatedAt: createdAt},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	repo := memory.NewOrderRepository()
	now := time.Now().UTC()

	if err := repo.Create(seedOrder("order-1", "user-1", now)); err != nil {
		t.Fatalf("create: %v", err)
	}

	order, err := repo.Get("order-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(order.Lines) != 1 {
		t.Fatalf("expected lines to be stored with the order, got %d", len(order.Lines))
	}

	// Мутация возвращённого значения не должна трогать хранилище.
	order.Lines[0].PriceMinor = 1
	again, _ := repo.Get("order-1")
	if again.Lines[0].PriceMinor != 25000 {
		t.Fatal("repository must return copies, not shared slices")
	}
}

func TestOrderRepository_DuplicateCreate(t *testing.T) {
	repo := memory.NewOrderRepository()
	now := time.Now().UTC()

	if err := repo.Create(seedOrder("order-1", "user-1", now)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(seedOrder("order-1", "user-1", now)); !errors.Is(err, domain.ErrOrderExists) {
		t.Fatalf("err = %v, want ErrOrderExists", err)
	}
}

func TestOrderRepository_GetMissing(t *testing.T) {
	repo := memory.NewOrderRepository()
	if _, err := repo.Get("ghost"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}
}

func TestOrderRepository_ListByUser(t *testing.T) {
	repo := memory.NewOrderRepository()
	base := time.Now().UTC()

	_ = repo.Create(seedOrder("order-1", "user-1", base.Add(-2*time.Hour)))
	_ = repo.Create(seedOrder("order-2", "user-1", base.Add(-1*time.Hour)))
	_ = repo.Create(seedOrder("order-3", "user-2", base))

	orders, err := repo.ListByUser("user-1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	// Новые первыми.
	if orders[0].ID != "order-2" || orders[1].ID != "order-1" {
		t.Fatalf("unexpected order: %s, %s", orders[0].ID, orders[1].ID)
	}

	limited, _ := repo.ListByUser("user-1", 1)
	if len(limited) != 1 {
		t.Fatalf("limit ignored, got %d orders", len(limited))
	}
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	repo := memory.NewOrderRepository()
	now := time.Now().UTC()
	_ = repo.Create(seedOrder("order-1", "user-1", now))

	if err := repo.UpdateStatus("order-1", domain.OrderStatusApproved); err != nil {
		t.Fatalf("update: %v", err)
	}
	order, _ := repo.Get("order-1")
	if order.Status != domain.OrderStatusApproved {
		t.Fatalf("status = %s, want approved", order.Status)
	}
	if !order.UpdatedAt.After(now.Add(-time.Second)) {
		t.Fatal("UpdatedAt must be refreshed")
	}

	if err := repo.UpdateStatus("ghost", domain.OrderStatusApproved); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}
}
