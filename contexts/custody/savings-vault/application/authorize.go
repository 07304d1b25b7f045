package application

import (
	"strings"

	"goalvault/contexts/custody/savings-vault/domain/authority"
	"goalvault/contexts/custody/savings-vault/domain/entities"
	domainerrors "goalvault/contexts/custody/savings-vault/domain/errors"
)

// Authorization checks. Each check is pure and side-effect free; the service
// runs every required check before issuing any transfer, so a rejected
// operation never mutates state.

func verifyOwner(record entities.VaultRecord, caller entities.Identity) error {
	if strings.TrimSpace(string(caller)) == "" || caller != record.Owner {
		return domainerrors.ErrNotOwner
	}
	return nil
}

// verifyCustodyBinding rejects callers trying to redirect an operation to an
// unrelated holding account. An empty supplied ref defaults to the record's.
func verifyCustodyBinding(record entities.VaultRecord, suppliedRef string) error {
	ref := strings.TrimSpace(suppliedRef)
	if ref != "" && ref != record.CustodyAccountRef {
		return domainerrors.ErrWrongCustodyAccount
	}
	return nil
}

// verifyHoldingAccount proves the caller controls the holding account on
// their side of a transfer and that the account carries the vault's asset.
func verifyHoldingAccount(account entities.HoldingAccount, owner entities.Identity, asset string) error {
	if account.Owner != owner {
		return domainerrors.ErrNotOwner
	}
	if account.Asset != asset {
		return domainerrors.ErrWrongAsset
	}
	return nil
}

func verifyUnlocked(record entities.VaultRecord, nowUnix int64) error {
	if !record.Unlocked(nowUnix) {
		return domainerrors.ErrTokensLocked
	}
	return nil
}

// delegatedAuthority recomputes the single-use capability controlling the
// custody account from the record identity. Never caller-supplied.
func delegatedAuthority(record entities.VaultRecord) *authority.Capability {
	return authority.NewCapability(record.RecordID)
}
