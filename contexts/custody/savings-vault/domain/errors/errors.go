package errors

import "errors"

// Authorization failures. Every check runs before any transfer, so a
// rejected operation never mutates state.
var (
	ErrNotOwner            = errors.New("caller is not the vault owner")
	ErrWrongCustodyAccount = errors.New("custody account does not belong to this vault")
	ErrWrongAsset          = errors.New("holding account asset does not match the vault asset")
)

// State failures.
var (
	ErrAlreadyExists = errors.New("vault already exists for this owner and asset")
	ErrVaultNotFound = errors.New("vault not found")
	ErrTokensLocked  = errors.New("tokens are currently locked and cannot be withdrawn")
)

// Arithmetic failures.
var ErrInvalidLockDuration = errors.New("invalid lock duration")

// Dependency failures. ErrServiceUnavailable may surface mid-operation;
// the deposit leg is never rolled back when the release leg fails.
var (
	ErrServiceUnavailable = errors.New("asset transfer service unavailable")
	ErrInsufficientFunds  = errors.New("holding account balance is insufficient")
	ErrAccountNotFound    = errors.New("holding account not found")
)

var (
	ErrAuthorityConsumed = errors.New("delegated authority capability already consumed")
	ErrInvalidInput      = errors.New("vault input is invalid")
)
