package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"goalvault/contexts/custody/savings-vault/adapters/memory"
	"goalvault/contexts/custody/savings-vault/domain/entities"
	domainerrors "goalvault/contexts/custody/savings-vault/domain/errors"
	"goalvault/contexts/custody/savings-vault/ports"
)

func TestStoreRejectsDuplicateOwnerAssetPair(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	record := entities.VaultRecord{
		RecordID:          "record-1",
		Owner:             "user-1",
		Asset:             "USDC",
		TargetAmount:      1000,
		CustodyAccountRef: "custody-1",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := store.CreateVault(ctx, record); err != nil {
		t.Fatalf("create vault failed: %v", err)
	}

	duplicate := record
	duplicate.RecordID = "record-2"
	if err := store.CreateVault(ctx, duplicate); !errors.Is(err, domainerrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists for duplicate pair, got %v", err)
	}

	byPair, err := store.GetVaultByOwnerAsset(ctx, "user-1", "USDC")
	if err != nil {
		t.Fatalf("get by owner asset failed: %v", err)
	}
	if byPair.RecordID != "record-1" {
		t.Fatalf("expected record-1, got %s", byPair.RecordID)
	}
}

func TestStoreUpdateLock(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	record := entities.VaultRecord{
		RecordID:          "record-1",
		Owner:             "user-1",
		Asset:             "USDC",
		CustodyAccountRef: "custody-1",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := store.CreateVault(ctx, record); err != nil {
		t.Fatalf("create vault failed: %v", err)
	}

	lockedUntil := now.Unix() + 3600
	updated := now.Add(time.Minute)
	if err := store.UpdateLock(ctx, "record-1", lockedUntil, updated); err != nil {
		t.Fatalf("update lock failed: %v", err)
	}

	stored, err := store.GetVault(ctx, "record-1")
	if err != nil {
		t.Fatalf("get vault failed: %v", err)
	}
	if stored.LockedUntil == nil || *stored.LockedUntil != lockedUntil {
		t.Fatalf("expected locked until %d, got %v", lockedUntil, stored.LockedUntil)
	}
	if !stored.UpdatedAt.Equal(updated) {
		t.Fatalf("expected updated at %v, got %v", updated, stored.UpdatedAt)
	}

	if err := store.UpdateLock(ctx, "missing", lockedUntil, updated); !errors.Is(err, domainerrors.ErrVaultNotFound) {
		t.Fatalf("expected vault not found, got %v", err)
	}
}

func TestStoreOutboxLifecycle(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, eventID := range []string{"event-1", "event-2"} {
		err := store.AppendOutbox(ctx, ports.EventEnvelope{
			EventID:      eventID,
			EventType:    "vault.deposited",
			OccurredAt:   base.Add(time.Duration(i) * time.Second),
			PartitionKey: "record-1",
		})
		if err != nil {
			t.Fatalf("append outbox failed: %v", err)
		}
	}
	// Replays with the same event id are absorbed.
	if err := store.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:    "event-1",
		EventType:  "vault.deposited",
		OccurredAt: base,
	}); err != nil {
		t.Fatalf("replayed append failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending messages, got %d", len(pending))
	}
	if pending[0].OutboxID != "event-1" || pending[1].OutboxID != "event-2" {
		t.Fatalf("expected creation order, got %s then %s", pending[0].OutboxID, pending[1].OutboxID)
	}

	if err := store.MarkOutboxPublished(ctx, "event-1", base.Add(time.Minute)); err != nil {
		t.Fatalf("mark published failed: %v", err)
	}
	pending, err = store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].OutboxID != "event-2" {
		t.Fatalf("expected only event-2 pending, got %v", pending)
	}
}
