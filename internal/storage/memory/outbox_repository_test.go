package memory_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func TestOutboxRepository_EnqueueAssignsID(t *testing.T) {
	repo := memory.NewOutboxRepository()

	msg, err := repo.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   "order-1",
		EventType:     "order.created",
		Payload:       []byte(`{}`),
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if msg.ID == "" {
		t.Fatal("enqueue must assign an id")
	}

	pending, err := repo.PullPending(10)
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending message, got %d", len(pending))
	}
}

func TestOutboxRepository_MarkSentRemovesFromPending(t *testing.T) {
	repo := memory.NewOutboxRepository()
	msg, _ := repo.Enqueue(domain.OutboxMessage{AggregateID: "order-1", EventType: "order.created"})

	if err := repo.MarkSent(msg.ID); err != nil {
		t.Fatalf("mark sent: %v", err)
	}

	pending, _ := repo.PullPending(10)
	if len(pending) != 0 {
		t.Fatalf("sent message still pending, got %d", len(pending))
	}

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.PendingCount != 0 {
		t.Fatalf("pending count = %d, want 0", stats.PendingCount)
	}
}

func TestOutboxRepository_Stats(t *testing.T) {
	repo := memory.NewOutboxRepository()
	_, _ = repo.Enqueue(domain.OutboxMessage{AggregateID: "order-1", EventType: "order.created"})
	_, _ = repo.Enqueue(domain.OutboxMessage{AggregateID: "order-2", EventType: "order.created"})

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.PendingCount != 2 {
		t.Fatalf("pending count = %d, want 2", stats.PendingCount)
	}
	if stats.OldestPendingAt.IsZero() {
		t.Fatal("oldest pending timestamp must be set")
	}
}

func TestOutboxRepository_MarkUnknownID(t *testing.T) {
	repo := memory.NewOutboxRepository()
	if err := repo.MarkSent("ghost"); !errors.Is(err, domain.ErrOutboxNotFound) {
		t.Fatalf("MarkSent err = %v, want ErrOutboxNotFound", err)
	}
	if err := repo.MarkFailed("ghost"); !errors.Is(err, domain.ErrOutboxNotFound) {
		t.Fatalf("MarkFailed err = %v, want ErrOutboxNotFound", err)
	}
}

func TestTimelineRepository_AppendAndList(t *testing.T) {
	repo := memory.NewTimelineRepository()

	_ = repo.Append(domain.TimelineEvent{OrderID: "order-1", Type: domain.TimelineOrderCreated})
	_ = repo.Append(domain.TimelineEvent{OrderID: "order-1", Type: domain.TimelineOrderApproved, Detail: "payment pay-1"})
	_ = repo.Append(domain.TimelineEvent{OrderID: "order-2", Type: domain.TimelineOrderCreated})

	events, err := repo.List("order-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != domain.TimelineOrderCreated || events[1].Type != domain.TimelineOrderApproved {
		t.Fatalf("events out of order: %s, %s", events[0].Type, events[1].Type)
	}

	empty, _ := repo.List("ghost")
	if len(empty) != 0 {
		t.Fatalf("expected no events for unknown order, got %d", len(empty))
	}
}
