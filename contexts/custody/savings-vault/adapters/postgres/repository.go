package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"goalvault/contexts/custody/savings-vault/domain/entities"
	domainerrors "goalvault/contexts/custody/savings-vault/domain/errors"
	"goalvault/contexts/custody/savings-vault/ports"
	"goalvault/internal/shared/outbox"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateVault(ctx context.Context, record entities.VaultRecord) error {
	row := vaultModelFromEntity(record)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repository) GetVault(ctx context.Context, recordID string) (entities.VaultRecord, error) {
	var row vaultModel
	err := r.db.WithContext(ctx).
		Where("record_id = ?", strings.TrimSpace(recordID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VaultRecord{}, domainerrors.ErrVaultNotFound
		}
		return entities.VaultRecord{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetVaultByOwnerAsset(ctx context.Context, owner entities.Identity, asset string) (entities.VaultRecord, error) {
	var row vaultModel
	err := r.db.WithContext(ctx).
		Where("owner = ? AND asset = ?", string(owner), strings.TrimSpace(asset)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VaultRecord{}, domainerrors.ErrVaultNotFound
		}
		return entities.VaultRecord{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateLock(ctx context.Context, recordID string, lockedUntil int64, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&vaultModel{}).
		Where("record_id = ?", strings.TrimSpace(recordID)).
		Updates(map[string]any{
			"locked_until": lockedUntil,
			"updated_at":   updatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrVaultNotFound
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		return domainerrors.ErrInvalidInput
	}
	row := outboxModel{
		OutboxID:     outboxID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outbox.StatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	ts := publishedAt.UTC()
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outbox.StatusPublished,
			"published_at": &ts,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrVaultNotFound
	}
	return nil
}

type vaultModel struct {
	RecordID          string    `gorm:"column:record_id;primaryKey"`
	Owner             string    `gorm:"column:owner;uniqueIndex:uq_vault_owner_asset"`
	Asset             string    `gorm:"column:asset;uniqueIndex:uq_vault_owner_asset"`
	TargetAmount      uint64    `gorm:"column:target_amount"`
	CustodyAccountRef string    `gorm:"column:custody_account_ref"`
	LockedUntil       *int64    `gorm:"column:locked_until"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (vaultModel) TableName() string {
	return "savings_vaults"
}

func vaultModelFromEntity(record entities.VaultRecord) vaultModel {
	return vaultModel{
		RecordID:          record.RecordID,
		Owner:             string(record.Owner),
		Asset:             record.Asset,
		TargetAmount:      record.TargetAmount,
		CustodyAccountRef: record.CustodyAccountRef,
		LockedUntil:       record.LockedUntil,
		CreatedAt:         record.CreatedAt.UTC(),
		UpdatedAt:         record.UpdatedAt.UTC(),
	}
}

func (m vaultModel) toEntity() entities.VaultRecord {
	return entities.VaultRecord{
		RecordID:          m.RecordID,
		Owner:             entities.Identity(m.Owner),
		Asset:             m.Asset,
		TargetAmount:      m.TargetAmount,
		CustodyAccountRef: m.CustodyAccountRef,
		LockedUntil:       m.LockedUntil,
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "savings_vault_outbox"
}

func (m outboxModel) toPort() ports.OutboxMessage {
	return ports.OutboxMessage{
		OutboxID:     m.OutboxID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      append([]byte(nil), m.Payload...),
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// SystemClock satisfies ports.Clock with wall time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator satisfies ports.IDGenerator.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
