package webhook_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/service/directory"
	"github.com/vladislavdragonenkov/storefront/internal/service/email"
	"github.com/vladislavdragonenkov/storefront/internal/service/webhook"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

type fixture struct {
	rec    *webhook.Reconciler
	orders domain.OrderRepository
	email  *email.MockSender
	outbox interface {
		domain.OutboxRepository
		AllPending() []domain.OutboxMessage
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	orders := memory.NewOrderRepository()
	now := time.Now().UTC()
	if err := orders.Create(domain.Order{
		ID:          "order-1",
		UserID:      "user-1",
		Status:      domain.OrderStatusPending,
		Currency:    "ARS",
		AmountMinor: 50000,
		Lines: []domain.OrderLine{
			{ID: "line-1", OrderID: "order-1", ProductID: "sku-1", Qty: 2, PriceMinor: 25000, CreatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	users := directory.NewMockService()
	users.Put(domain.User{ID: "user-1", Email: "maria@example.com", Name: "María"})

	cat := catalog.NewMockService()
	cat.Put(domain.Product{ID: "sku-1", Title: "Teclado mecánico", ImageURL: "https://img.example/sku-1.png", PriceMinor: 25000})

	sender := email.NewMockSender()
	outbox := memory.NewOutboxRepository()
	rec := webhook.NewReconciler(orders, users, cat, sender, outbox, memory.NewTimelineRepository(), nil, nil)

	return &fixture{rec: rec, orders: orders, email: sender, outbox: outbox}
}

func TestReconcile_FirstApprovalSendsOneEmail(t *testing.T) {
	f := newFixture(t)

	if err := f.rec.Reconcile(context.Background(), "order-1", "pay-1", "approved"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order, err := f.orders.Get("order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != domain.OrderStatusApproved {
		t.Fatalf("status = %s, want approved", order.Status)
	}

	sent := f.email.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected exactly one confirmation email, got %d", len(sent))
	}
	if sent[0].RecipientEmail != "maria@example.com" {
		t.Fatalf("recipient = %q", sent[0].RecipientEmail)
	}
	if sent[0].ProductName != "Teclado mecánico" {
		t.Fatalf("product name = %q", sent[0].ProductName)
	}
	if sent[0].AmountMinor != 50000 {
		t.Fatalf("amount = %d, want 50000", sent[0].AmountMinor)
	}
}

func TestReconcile_ApprovalEnqueuesApprovedEvent(t *testing.T) {
	f := newFixture(t)

	if err := f.rec.Reconcile(context.Background(), "order-1", "pay-1", "approved"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pending := f.outbox.AllPending()
	if len(pending) != 1 {
		t.Fatalf("expected 1 outbox event, got %d", len(pending))
	}
	if pending[0].EventType != string(kafka.EventTypeOrderApproved) {
		t.Fatalf("event type = %s, want order.approved", pending[0].EventType)
	}

	var event kafka.OrderEvent
	if err := json.Unmarshal(pending[0].Payload, &event); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if event.OrderID != "order-1" {
		t.Fatalf("payload order id = %s", event.OrderID)
	}
	if event.Status != string(domain.OrderStatusApproved) {
		t.Fatalf("payload status = %s, want approved", event.Status)
	}
	if got := event.Metadata["payment_id"]; got != "pay-1" {
		t.Fatalf("payload payment_id = %v, want pay-1", got)
	}
}

func TestReconcile_DuplicateApprovalIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.rec.Reconcile(ctx, "order-1", "pay-1", "approved"); err != nil {
		t.Fatalf("first notification: %v", err)
	}
	if err := f.rec.Reconcile(ctx, "order-1", "pay-1", "approved"); err != nil {
		t.Fatalf("duplicate notification must succeed: %v", err)
	}

	order, _ := f.orders.Get("order-1")
	if order.Status != domain.OrderStatusApproved {
		t.Fatalf("status = %s, want approved", order.Status)
	}
	if sent := f.email.Sent(); len(sent) != 1 {
		t.Fatalf("duplicate must not resend email, got %d emails", len(sent))
	}
}

func TestReconcile_UnknownReferenceIsAnError(t *testing.T) {
	f := newFixture(t)

	err := f.rec.Reconcile(context.Background(), "ghost-order", "pay-9", "approved")
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}

	// Существующий заказ не затронут.
	order, _ := f.orders.Get("order-1")
	if order.Status != domain.OrderStatusPending {
		t.Fatalf("status = %s, want pending", order.Status)
	}
	if len(f.email.Sent()) != 0 {
		t.Fatal("unknown reference must not trigger email")
	}
}

func TestReconcile_NonApprovingStatusLeavesPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, status := range []string{"pending", "in_process", "rejected", "cancelled", ""} {
		if err := f.rec.Reconcile(ctx, "order-1", "pay-1", status); err != nil {
			t.Fatalf("status %q: unexpected error %v", status, err)
		}
	}

	order, _ := f.orders.Get("order-1")
	if order.Status != domain.OrderStatusPending {
		t.Fatalf("status = %s, want pending", order.Status)
	}
	if len(f.email.Sent()) != 0 {
		t.Fatal("non-approving statuses must not trigger email")
	}
}

func TestReconcile_EmailFailureDoesNotFailApproval(t *testing.T) {
	f := newFixture(t)
	f.email.Err = errors.New("smtp relay down")

	if err := f.rec.Reconcile(context.Background(), "order-1", "pay-1", "approved"); err != nil {
		t.Fatalf("email failure must not fail reconciliation: %v", err)
	}

	order, _ := f.orders.Get("order-1")
	if order.Status != domain.OrderStatusApproved {
		t.Fatalf("status = %s, want approved despite email failure", order.Status)
	}
}

func TestMapCollectionStatus(t *testing.T) {
	if got := webhook.MapCollectionStatus("approved"); got != domain.OrderStatusApproved {
		t.Fatalf("approved maps to %s", got)
	}
	for _, status := range []string{"pending", "rejected", "APPROVED", "anything"} {
		if got := webhook.MapCollectionStatus(status); got != domain.OrderStatusPending {
			t.Fatalf("%q maps to %s, want pending", status, got)
		}
	}
}
