package ports

import (
	"context"
	"time"

	contractsv1 "goalvault/contracts/gen/events/v1"
	"goalvault/contexts/custody/savings-vault/domain/entities"
)

// Repository persists vault records. CreateVault must reject a second record
// for the same (owner, asset) pair with domainerrors.ErrAlreadyExists.
type Repository interface {
	CreateVault(ctx context.Context, record entities.VaultRecord) error
	GetVault(ctx context.Context, recordID string) (entities.VaultRecord, error)
	GetVaultByOwnerAsset(ctx context.Context, owner entities.Identity, asset string) (entities.VaultRecord, error)
	UpdateLock(ctx context.Context, recordID string, lockedUntil int64, updatedAt time.Time) error
}

// AssetTransferService is the external service that moves fungible units
// between holding accounts. The core never mutates balances directly.
type AssetTransferService interface {
	OpenAccount(ctx context.Context, ref string, owner entities.Identity, asset string) error
	Account(ctx context.Context, ref string) (entities.HoldingAccount, error)
	Transfer(ctx context.Context, from string, to string, amount uint64, authority entities.Identity) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = contractsv1.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type InitializeInput struct {
	TargetAmount uint64
	Asset        string
}

type DepositInput struct {
	VaultID          string
	SourceAccountRef string
	// CustodyAccountRef is optional; when supplied it must match the
	// record's custody account.
	CustodyAccountRef string
	Amount            uint64
}

type DepositResult struct {
	Record         entities.VaultRecord
	NewBalance     uint64
	Released       bool
	ReleasedAmount uint64
}

type WithdrawInput struct {
	VaultID               string
	DestinationAccountRef string
	CustodyAccountRef     string
	Amount                uint64
}

type WithdrawResult struct {
	Record     entities.VaultRecord
	NewBalance uint64
}

type VaultView struct {
	Record         entities.VaultRecord
	CustodyBalance uint64
}
