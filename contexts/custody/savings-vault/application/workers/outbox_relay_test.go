package workers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"goalvault/contexts/custody/savings-vault/adapters/memory"
	"goalvault/contexts/custody/savings-vault/application/workers"
	"goalvault/contexts/custody/savings-vault/ports"
)

type capturingPublisher struct {
	published []ports.EventEnvelope
	topics    []string
	fail      bool
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.fail {
		return errors.New("broker unreachable")
	}
	p.topics = append(p.topics, topic)
	p.published = append(p.published, event)
	return nil
}

func TestOutboxRelayPublishesPendingInOrder(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, eventID := range []string{"event-1", "event-2"} {
		err := store.AppendOutbox(context.Background(), ports.EventEnvelope{
			EventID:      eventID,
			EventType:    "vault.deposited",
			OccurredAt:   base.Add(time.Duration(i) * time.Second),
			PartitionKey: "record-1",
		})
		if err != nil {
			t.Fatalf("append outbox failed: %v", err)
		}
	}

	publisher := &capturingPublisher{}
	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Topic:     "vault.events",
	}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(publisher.published))
	}
	if publisher.published[0].EventID != "event-1" || publisher.published[1].EventID != "event-2" {
		t.Fatalf("expected publish in creation order, got %s then %s",
			publisher.published[0].EventID, publisher.published[1].EventID)
	}
	if publisher.topics[0] != "vault.events" {
		t.Fatalf("expected topic vault.events, got %s", publisher.topics[0])
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty outbox after relay, got %d pending", len(pending))
	}
}

func TestOutboxRelayKeepsMessagesPendingOnPublishFailure(t *testing.T) {
	store := memory.NewStore()
	err := store.AppendOutbox(context.Background(), ports.EventEnvelope{
		EventID:    "event-1",
		EventType:  "vault.locked",
		OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}

	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: &capturingPublisher{fail: true},
		Topic:     "vault.events",
	}
	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected relay error when publisher fails")
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected message to stay pending, got %d", len(pending))
	}
}
