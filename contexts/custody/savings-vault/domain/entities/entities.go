package entities

import "time"

// Identity names a principal. Caller identities come from the host
// authentication layer and are treated as already verified; derived
// identities come from the authority scheme. Both are opaque strings.
type Identity string

// VaultRecord is the durable per-owner state of one savings vault.
// The record never carries a balance: the custody account is the sole
// source of truth for how much is saved.
type VaultRecord struct {
	RecordID          string
	Owner             Identity
	Asset             string
	TargetAmount      uint64
	CustodyAccountRef string
	LockedUntil       *int64 // unix seconds, nil means unlocked
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Unlocked reports whether withdrawals are permitted at the given time.
// A lock whose expiry has passed behaves as no lock without requiring an
// explicit state transition.
func (v VaultRecord) Unlocked(nowUnix int64) bool {
	return v.LockedUntil == nil || nowUnix >= *v.LockedUntil
}

// HoldingAccount is the read model the asset transfer service exposes for
// one holding account.
type HoldingAccount struct {
	Ref     string
	Owner   Identity
	Asset   string
	Balance uint64
}
