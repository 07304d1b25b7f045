package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"goalvault/contexts/custody/savings-vault/domain/authority"
	"goalvault/contexts/custody/savings-vault/domain/entities"
	domainerrors "goalvault/contexts/custody/savings-vault/domain/errors"
	"goalvault/contexts/custody/savings-vault/ports"
)

const sourceService = "savings-vault"

type Service struct {
	Repo                      ports.Repository
	Transfers                 ports.AssetTransferService
	Clock                     ports.Clock
	IDGen                     ports.IDGenerator
	Outbox                    ports.OutboxWriter
	DisableVaultEventEmission bool
	Logger                    *slog.Logger
}

// Initialize creates the vault record and its bound custody account. The
// record identity, custody reference and delegated authority are all derived
// from the (owner, asset) pair; a second call for the same pair fails with
// ErrAlreadyExists and leaves the first record untouched.
func (s Service) Initialize(ctx context.Context, caller entities.Identity, input ports.InitializeInput) (entities.VaultRecord, error) {
	owner := entities.Identity(strings.TrimSpace(string(caller)))
	asset := strings.TrimSpace(input.Asset)
	if owner == "" || asset == "" {
		return entities.VaultRecord{}, domainerrors.ErrInvalidInput
	}
	// A zero target is legal; it is trivially met by the first deposit.

	recordID := authority.RecordID(owner, asset)
	if _, err := s.Repo.GetVault(ctx, recordID); err == nil {
		return entities.VaultRecord{}, domainerrors.ErrAlreadyExists
	} else if !errors.Is(err, domainerrors.ErrVaultNotFound) {
		return entities.VaultRecord{}, err
	}

	now := s.now()
	record := entities.VaultRecord{
		RecordID:          recordID,
		Owner:             owner,
		Asset:             asset,
		TargetAmount:      input.TargetAmount,
		CustodyAccountRef: authority.CustodyAccountRef(recordID),
		LockedUntil:       nil,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	// Open the custody account under the derived authority before the record
	// becomes visible. The open is idempotent, so a crash between the two
	// steps is repaired by retrying initialize.
	if err := s.Transfers.OpenAccount(ctx, record.CustodyAccountRef, authority.VaultAuthority(recordID), asset); err != nil {
		return entities.VaultRecord{}, dependencyFailure(err)
	}
	if err := s.Repo.CreateVault(ctx, record); err != nil {
		return entities.VaultRecord{}, err
	}

	s.appendVaultEvent(ctx, "vault.initialized", record, map[string]any{
		"record_id":           record.RecordID,
		"owner":               string(record.Owner),
		"asset":               record.Asset,
		"target_amount":       record.TargetAmount,
		"custody_account_ref": record.CustodyAccountRef,
	})
	resolveLogger(s.Logger).Info("vault initialized",
		"event", "vault_initialized",
		"module", "custody/savings-vault",
		"layer", "application",
		"record_id", record.RecordID,
		"asset", record.Asset,
		"target_amount", record.TargetAmount,
	)
	return record, nil
}

// Deposit moves amount from the caller's holding account into custody under
// the caller's own signature, then applies the auto-release rule: if the
// post-deposit custody balance meets the target, the entire balance read at
// that moment is returned to the caller's account under the delegated
// authority. A failed release leg leaves the funds safely custodied; the
// deposit is never rolled back.
func (s Service) Deposit(ctx context.Context, caller entities.Identity, input ports.DepositInput) (ports.DepositResult, error) {
	record, err := s.loadVault(ctx, input.VaultID)
	if err != nil {
		return ports.DepositResult{}, err
	}
	if err := verifyOwner(record, caller); err != nil {
		return ports.DepositResult{}, err
	}
	if err := verifyCustodyBinding(record, input.CustodyAccountRef); err != nil {
		return ports.DepositResult{}, err
	}

	source, err := s.Transfers.Account(ctx, strings.TrimSpace(input.SourceAccountRef))
	if err != nil {
		return ports.DepositResult{}, dependencyFailure(err)
	}
	if err := verifyHoldingAccount(source, record.Owner, record.Asset); err != nil {
		return ports.DepositResult{}, err
	}

	// All checks passed; first effect. Deposits are never lock-gated.
	if err := s.Transfers.Transfer(ctx, source.Ref, record.CustodyAccountRef, input.Amount, caller); err != nil {
		return ports.DepositResult{}, dependencyFailure(err)
	}

	custody, err := s.Transfers.Account(ctx, record.CustodyAccountRef)
	if err != nil {
		// The deposit leg committed; surface the read failure without
		// attempting the release.
		return ports.DepositResult{}, dependencyFailure(err)
	}

	result := ports.DepositResult{Record: record, NewBalance: custody.Balance}
	s.appendVaultEvent(ctx, "vault.deposited", record, map[string]any{
		"record_id": record.RecordID,
		"amount":    input.Amount,
		"balance":   custody.Balance,
	})

	if custody.Balance >= record.TargetAmount {
		// Release the balance read after this deposit, not the deposit
		// amount, so earlier accumulated funds are collected as well.
		releaseAmount := custody.Balance
		authorityID, err := delegatedAuthority(record).Consume()
		if err != nil {
			return result, err
		}
		if err := s.Transfers.Transfer(ctx, record.CustodyAccountRef, source.Ref, releaseAmount, authorityID); err != nil {
			resolveLogger(s.Logger).Warn("vault release leg failed, funds remain custodied",
				"event", "vault_release_failed",
				"module", "custody/savings-vault",
				"layer", "application",
				"record_id", record.RecordID,
				"balance", releaseAmount,
				"error", err.Error(),
			)
			return result, dependencyFailure(err)
		}
		result.Released = true
		result.ReleasedAmount = releaseAmount
		result.NewBalance = 0
		s.appendVaultEvent(ctx, "vault.released", record, map[string]any{
			"record_id": record.RecordID,
			"amount":    releaseAmount,
		})
	}

	resolveLogger(s.Logger).Info("vault deposit applied",
		"event", "vault_deposited",
		"module", "custody/savings-vault",
		"layer", "application",
		"record_id", record.RecordID,
		"amount", input.Amount,
		"balance", result.NewBalance,
		"released", result.Released,
	)
	return result, nil
}

// Withdraw moves amount from custody to the caller's holding account under
// the delegated authority. No target logic applies; a withdrawal may bring
// the balance below target without changing it.
func (s Service) Withdraw(ctx context.Context, caller entities.Identity, input ports.WithdrawInput) (ports.WithdrawResult, error) {
	record, err := s.loadVault(ctx, input.VaultID)
	if err != nil {
		return ports.WithdrawResult{}, err
	}
	if err := verifyOwner(record, caller); err != nil {
		return ports.WithdrawResult{}, err
	}
	if err := verifyCustodyBinding(record, input.CustodyAccountRef); err != nil {
		return ports.WithdrawResult{}, err
	}

	destination, err := s.Transfers.Account(ctx, strings.TrimSpace(input.DestinationAccountRef))
	if err != nil {
		return ports.WithdrawResult{}, dependencyFailure(err)
	}
	if err := verifyHoldingAccount(destination, record.Owner, record.Asset); err != nil {
		return ports.WithdrawResult{}, err
	}
	if err := verifyUnlocked(record, s.now().Unix()); err != nil {
		return ports.WithdrawResult{}, err
	}

	authorityID, err := delegatedAuthority(record).Consume()
	if err != nil {
		return ports.WithdrawResult{}, err
	}
	if err := s.Transfers.Transfer(ctx, record.CustodyAccountRef, destination.Ref, input.Amount, authorityID); err != nil {
		return ports.WithdrawResult{}, dependencyFailure(err)
	}

	custody, err := s.Transfers.Account(ctx, record.CustodyAccountRef)
	if err != nil {
		return ports.WithdrawResult{}, dependencyFailure(err)
	}

	s.appendVaultEvent(ctx, "vault.withdrawn", record, map[string]any{
		"record_id": record.RecordID,
		"amount":    input.Amount,
		"balance":   custody.Balance,
	})
	resolveLogger(s.Logger).Info("vault withdrawal applied",
		"event", "vault_withdrawn",
		"module", "custody/savings-vault",
		"layer", "application",
		"record_id", record.RecordID,
		"amount", input.Amount,
		"balance", custody.Balance,
	)
	return ports.WithdrawResult{Record: record, NewBalance: custody.Balance}, nil
}

// Lock sets locked_until = now + duration. Re-locking replaces the expiry
// unconditionally, which can shorten an existing lock; negative durations
// and expiries past the representable range are rejected.
func (s Service) Lock(ctx context.Context, caller entities.Identity, vaultID string, durationSeconds int64) (entities.VaultRecord, error) {
	record, err := s.loadVault(ctx, vaultID)
	if err != nil {
		return entities.VaultRecord{}, err
	}
	if err := verifyOwner(record, caller); err != nil {
		return entities.VaultRecord{}, err
	}

	now := s.now()
	nowUnix := now.Unix()
	if durationSeconds < 0 || durationSeconds > math.MaxInt64-nowUnix {
		return entities.VaultRecord{}, domainerrors.ErrInvalidLockDuration
	}
	lockedUntil := nowUnix + durationSeconds

	if err := s.Repo.UpdateLock(ctx, record.RecordID, lockedUntil, now); err != nil {
		return entities.VaultRecord{}, err
	}
	record.LockedUntil = &lockedUntil
	record.UpdatedAt = now

	s.appendVaultEvent(ctx, "vault.locked", record, map[string]any{
		"record_id":    record.RecordID,
		"locked_until": lockedUntil,
	})
	resolveLogger(s.Logger).Info("vault locked",
		"event", "vault_locked",
		"module", "custody/savings-vault",
		"layer", "application",
		"record_id", record.RecordID,
		"locked_until", lockedUntil,
	)
	return record, nil
}

// GetVault returns the record plus the live custody balance.
func (s Service) GetVault(ctx context.Context, vaultID string) (ports.VaultView, error) {
	record, err := s.loadVault(ctx, vaultID)
	if err != nil {
		return ports.VaultView{}, err
	}
	custody, err := s.Transfers.Account(ctx, record.CustodyAccountRef)
	if err != nil {
		return ports.VaultView{}, dependencyFailure(err)
	}
	return ports.VaultView{Record: record, CustodyBalance: custody.Balance}, nil
}

func (s Service) loadVault(ctx context.Context, vaultID string) (entities.VaultRecord, error) {
	id := strings.TrimSpace(vaultID)
	if id == "" {
		return entities.VaultRecord{}, domainerrors.ErrInvalidInput
	}
	return s.Repo.GetVault(ctx, id)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) appendVaultEvent(ctx context.Context, eventType string, record entities.VaultRecord, payload map[string]any) {
	if s.Outbox == nil || s.DisableVaultEventEmission {
		return
	}
	eventID := ""
	if s.IDGen != nil {
		id, err := s.IDGen.NewID(ctx)
		if err != nil {
			resolveLogger(s.Logger).Warn("vault event id generation failed",
				"event", "vault_event_id_failed",
				"module", "custody/savings-vault",
				"layer", "application",
				"event_type", eventType,
				"error", err.Error(),
			)
			return
		}
		eventID = strings.TrimSpace(id)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       s.now(),
		SourceService:    sourceService,
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "record_id",
		PartitionKey:     record.RecordID,
		Data:             data,
	}); err != nil {
		resolveLogger(s.Logger).Warn("vault event append failed",
			"event", "vault_event_append_failed",
			"module", "custody/savings-vault",
			"layer", "application",
			"event_type", eventType,
			"record_id", record.RecordID,
			"error", err.Error(),
		)
	}
}

// dependencyFailure keeps typed business rejections from the transfer
// service intact and reports everything else as ServiceUnavailable.
func dependencyFailure(err error) error {
	switch {
	case errors.Is(err, domainerrors.ErrInsufficientFunds),
		errors.Is(err, domainerrors.ErrAccountNotFound),
		errors.Is(err, domainerrors.ErrWrongAsset),
		errors.Is(err, domainerrors.ErrNotOwner),
		errors.Is(err, domainerrors.ErrServiceUnavailable):
		return err
	default:
		return fmt.Errorf("%w: %v", domainerrors.ErrServiceUnavailable, err)
	}
}
