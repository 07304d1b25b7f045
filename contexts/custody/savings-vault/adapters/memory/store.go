package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"goalvault/contexts/custody/savings-vault/domain/entities"
	domainerrors "goalvault/contexts/custody/savings-vault/domain/errors"
	"goalvault/contexts/custody/savings-vault/ports"
	"goalvault/internal/shared/outbox"

	"github.com/google/uuid"
)

// Store is the in-memory repository used by tests and local runs. It mirrors
// the postgres adapter's contract, including duplicate rejection per
// (owner, asset).
type Store struct {
	mu sync.RWMutex

	vaults       map[string]entities.VaultRecord
	byOwnerAsset map[string]string
	outbox       map[string]outboxRecord
}

type outboxRecord struct {
	Message     ports.OutboxMessage
	Status      string
	PublishedAt *time.Time
}

func NewStore() *Store {
	return &Store{
		vaults:       make(map[string]entities.VaultRecord),
		byOwnerAsset: make(map[string]string),
		outbox:       make(map[string]outboxRecord),
	}
}

func (s *Store) CreateVault(_ context.Context, record entities.VaultRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(record.RecordID)
	if id == "" {
		return domainerrors.ErrInvalidInput
	}
	key := ownerAssetKey(record.Owner, record.Asset)
	if _, exists := s.vaults[id]; exists {
		return domainerrors.ErrAlreadyExists
	}
	if _, exists := s.byOwnerAsset[key]; exists {
		return domainerrors.ErrAlreadyExists
	}
	s.vaults[id] = record
	s.byOwnerAsset[key] = id
	return nil
}

func (s *Store) GetVault(_ context.Context, recordID string) (entities.VaultRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.vaults[strings.TrimSpace(recordID)]
	if !ok {
		return entities.VaultRecord{}, domainerrors.ErrVaultNotFound
	}
	return record, nil
}

func (s *Store) GetVaultByOwnerAsset(_ context.Context, owner entities.Identity, asset string) (entities.VaultRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byOwnerAsset[ownerAssetKey(owner, asset)]
	if !ok {
		return entities.VaultRecord{}, domainerrors.ErrVaultNotFound
	}
	return s.vaults[id], nil
}

func (s *Store) UpdateLock(_ context.Context, recordID string, lockedUntil int64, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(recordID)
	record, ok := s.vaults[id]
	if !ok {
		return domainerrors.ErrVaultNotFound
	}
	record.LockedUntil = &lockedUntil
	record.UpdatedAt = updatedAt.UTC()
	s.vaults[id] = record
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		return domainerrors.ErrInvalidInput
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	if _, exists := s.outbox[outboxID]; exists {
		return nil
	}
	s.outbox[outboxID] = outboxRecord{
		Message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
		Status: outbox.StatusPending,
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.Status == outbox.StatusPending {
			items = append(items, row.Message)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrVaultNotFound
	}
	ts := publishedAt.UTC()
	row.Status = outbox.StatusPublished
	row.PublishedAt = &ts
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func ownerAssetKey(owner entities.Identity, asset string) string {
	return string(owner) + "/" + asset
}
