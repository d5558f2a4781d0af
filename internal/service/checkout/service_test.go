package checkout_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
	"github.com/vladislavdragonenkov/storefront/internal/service/payment"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

type fixture struct {
	svc     *checkout.Service
	orders  domain.OrderRepository
	catalog *catalog.MockService
	gateway *payment.MockGateway
	outbox  interface {
		domain.OutboxRepository
		AllPending() []domain.OutboxMessage
	}
}

func newFixture() *fixture {
	orders := memory.NewOrderRepository()
	outbox := memory.NewOutboxRepository()
	timeline := memory.NewTimelineRepository()
	cat := catalog.NewMockService()
	cat.Put(domain.Product{ID: "sku-1", Title: "Teclado mecánico", PriceMinor: 25000, WeightGrams: 800})
	gateway := payment.NewMockGateway()

	return &fixture{
		svc:     checkout.NewService(orders, cat, gateway, outbox, timeline, "ARS", nil, nil),
		orders:  orders,
		catalog: cat,
		gateway: gateway,
		outbox:  outbox,
	}
}

func TestCreateOrder_Success(t *testing.T) {
	f := newFixture()

	result, err := f.svc.CreateOrder(context.Background(), "user-1", checkout.SupportedPaymentMethod, []checkout.CartItem{
		{ProductID: "sku-1", Qty: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OrderID == "" {
		t.Fatal("expected order id")
	}
	if result.RedirectURL == "" {
		t.Fatal("expected gateway redirect url")
	}

	order, err := f.orders.Get(result.OrderID)
	if err != nil {
		t.Fatalf("order must be persisted: %v", err)
	}
	if order.Status != domain.OrderStatusPending {
		t.Fatalf("status = %s, want pending", order.Status)
	}
	// 2 * 25000 из каталога.
	if order.AmountMinor != 50000 {
		t.Fatalf("amount = %d, want 50000", order.AmountMinor)
	}
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("persisted order violates invariants: %v", errs)
	}

	// Намерение ссылается на заказ через external_reference.
	if f.gateway.LastRef != result.OrderID {
		t.Fatalf("external_reference = %q, want %q", f.gateway.LastRef, result.OrderID)
	}
}

func TestCreateOrder_ValidationErrors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := []struct {
		name    string
		userID  string
		method  string
		items   []checkout.CartItem
		wantErr error
	}{
		{"missing user", "", checkout.SupportedPaymentMethod, []checkout.CartItem{{ProductID: "sku-1", Qty: 1}}, domain.ErrUserRequired},
		{"empty cart", "user-1", checkout.SupportedPaymentMethod, nil, domain.ErrCartEmpty},
		{"unsupported method", "user-1", "paypal", []checkout.CartItem{{ProductID: "sku-1", Qty: 1}}, domain.ErrPaymentMethodUnsupported},
		{"zero qty", "user-1", checkout.SupportedPaymentMethod, []checkout.CartItem{{ProductID: "sku-1", Qty: 0}}, domain.ErrLineQtyInvalid},
		{"unknown product", "user-1", checkout.SupportedPaymentMethod, []checkout.CartItem{{ProductID: "ghost", Qty: 1}}, domain.ErrProductNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateOrder(ctx, tc.userID, tc.method, tc.items)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if !domain.IsCheckoutInputError(err) {
				t.Fatalf("%v must be classified as input error", err)
			}
		})
	}

	// Ни одна невалидная корзина не должна оставить заказов в гейтвее.
	if f.gateway.Calls != 0 {
		t.Fatalf("gateway called %d times for invalid input", f.gateway.Calls)
	}
}

func TestCreateOrder_SnapshotSurvivesCatalogRepricing(t *testing.T) {
	f := newFixture()

	result, err := f.svc.CreateOrder(context.Background(), "user-1", checkout.SupportedPaymentMethod, []checkout.CartItem{
		{ProductID: "sku-1", Qty: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Каталог переоценил товар после оформления.
	f.catalog.SetPrice("sku-1", 99000)

	order, err := f.orders.Get(result.OrderID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Lines[0].PriceMinor != 25000 {
		t.Fatalf("line snapshot = %d, want 25000 regardless of catalog repricing", order.Lines[0].PriceMinor)
	}
	if order.AmountMinor != 25000 {
		t.Fatalf("amount = %d, want 25000", order.AmountMinor)
	}
}

func TestCreateOrder_IntentFailureKeepsPendingOrder(t *testing.T) {
	f := newFixture()
	f.gateway.Err = errors.New("gateway is down")

	result, err := f.svc.CreateOrder(context.Background(), "user-1", checkout.SupportedPaymentMethod, []checkout.CartItem{
		{ProductID: "sku-1", Qty: 1},
	})
	if !errors.Is(err, domain.ErrPaymentIntentFailed) {
		t.Fatalf("err = %v, want ErrPaymentIntentFailed", err)
	}
	if result.OrderID == "" {
		t.Fatal("intent failure must still surface the persisted order id")
	}

	order, getErr := f.orders.Get(result.OrderID)
	if getErr != nil {
		t.Fatalf("order must survive intent failure: %v", getErr)
	}
	if order.Status != domain.OrderStatusPending {
		t.Fatalf("status = %s, want pending", order.Status)
	}
}

func TestCreateOrder_EnqueuesCreatedEvent(t *testing.T) {
	f := newFixture()

	result, err := f.svc.CreateOrder(context.Background(), "user-1", checkout.SupportedPaymentMethod, []checkout.CartItem{
		{ProductID: "sku-1", Qty: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pending := f.outbox.AllPending()
	if len(pending) != 1 {
		t.Fatalf("expected 1 outbox event, got %d", len(pending))
	}
	if pending[0].EventType != string(kafka.EventTypeOrderCreated) {
		t.Fatalf("event type = %s, want order.created", pending[0].EventType)
	}
	if pending[0].AggregateID != result.OrderID {
		t.Fatalf("aggregate id = %s, want %s", pending[0].AggregateID, result.OrderID)
	}

	// Payload — сериализованный OrderEvent.
	var event kafka.OrderEvent
	if err := json.Unmarshal(pending[0].Payload, &event); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if event.EventType != kafka.EventTypeOrderCreated {
		t.Fatalf("payload event type = %s, want order.created", event.EventType)
	}
	if event.OrderID != result.OrderID {
		t.Fatalf("payload order id = %s, want %s", event.OrderID, result.OrderID)
	}
	if event.Status != string(domain.OrderStatusPending) {
		t.Fatalf("payload status = %s, want pending", event.Status)
	}
	if event.Timestamp.IsZero() {
		t.Fatal("payload timestamp must be set")
	}
	if got := event.Metadata["amount_minor"]; got != 25000.0 {
		t.Fatalf("payload amount_minor = %v, want 25000", got)
	}
}
