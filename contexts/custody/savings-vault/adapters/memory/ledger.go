package memory

import (
	"context"
	"strings"
	"sync"

	"goalvault/contexts/custody/savings-vault/domain/entities"
	domainerrors "goalvault/contexts/custody/savings-vault/domain/errors"
)

// Ledger is the in-memory asset transfer service. It enforces the same
// contract the external service would: accounts are typed by asset, and a
// transfer out of an account requires the account owner's authority.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[string]ledgerAccount
}

type ledgerAccount struct {
	owner   entities.Identity
	asset   string
	balance uint64
}

func NewLedger() *Ledger {
	return &Ledger{accounts: make(map[string]ledgerAccount)}
}

// OpenAccount is idempotent: reopening an account with the same owner and
// asset succeeds, any other conflict is rejected.
func (l *Ledger) OpenAccount(_ context.Context, ref string, owner entities.Identity, asset string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := strings.TrimSpace(ref)
	if key == "" || strings.TrimSpace(string(owner)) == "" || strings.TrimSpace(asset) == "" {
		return domainerrors.ErrInvalidInput
	}
	if existing, ok := l.accounts[key]; ok {
		if existing.owner != owner || existing.asset != asset {
			return domainerrors.ErrInvalidInput
		}
		return nil
	}
	l.accounts[key] = ledgerAccount{owner: owner, asset: asset}
	return nil
}

func (l *Ledger) Account(_ context.Context, ref string) (entities.HoldingAccount, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	key := strings.TrimSpace(ref)
	account, ok := l.accounts[key]
	if !ok {
		return entities.HoldingAccount{}, domainerrors.ErrAccountNotFound
	}
	return entities.HoldingAccount{
		Ref:     key,
		Owner:   account.owner,
		Asset:   account.asset,
		Balance: account.balance,
	}, nil
}

func (l *Ledger) Transfer(_ context.Context, from string, to string, amount uint64, authority entities.Identity) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	source, ok := l.accounts[strings.TrimSpace(from)]
	if !ok {
		return domainerrors.ErrAccountNotFound
	}
	destination, ok := l.accounts[strings.TrimSpace(to)]
	if !ok {
		return domainerrors.ErrAccountNotFound
	}
	if source.asset != destination.asset {
		return domainerrors.ErrWrongAsset
	}
	if source.owner != authority {
		return domainerrors.ErrNotOwner
	}
	if source.balance < amount {
		return domainerrors.ErrInsufficientFunds
	}

	source.balance -= amount
	destination.balance += amount
	l.accounts[strings.TrimSpace(from)] = source
	l.accounts[strings.TrimSpace(to)] = destination
	return nil
}

// Credit mints units into an account. Seeding helper for tests and local
// runs; not part of the AssetTransferService port.
func (l *Ledger) Credit(ref string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accounts[strings.TrimSpace(ref)]
	if !ok {
		return domainerrors.ErrAccountNotFound
	}
	account.balance += amount
	l.accounts[strings.TrimSpace(ref)] = account
	return nil
}
