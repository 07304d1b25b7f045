package memory_test

import (
	"context"
	"testing"

	"goalvault/contexts/custody/savings-vault/adapters/memory"
	"goalvault/contexts/custody/savings-vault/domain/entities"
	domainerrors "goalvault/contexts/custody/savings-vault/domain/errors"

	"github.com/stretchr/testify/require"
)

func TestLedgerOpenAccountIsIdempotent(t *testing.T) {
	ledger := memory.NewLedger()
	ctx := context.Background()

	require.NoError(t, ledger.OpenAccount(ctx, "acct-1", "user-1", "USDC"))
	require.NoError(t, ledger.OpenAccount(ctx, "acct-1", "user-1", "USDC"))

	err := ledger.OpenAccount(ctx, "acct-1", "user-2", "USDC")
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	err = ledger.OpenAccount(ctx, "acct-1", "user-1", "SOL")
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestLedgerTransferChecksAuthorityAssetAndBalance(t *testing.T) {
	ledger := memory.NewLedger()
	ctx := context.Background()

	require.NoError(t, ledger.OpenAccount(ctx, "acct-1", "user-1", "USDC"))
	require.NoError(t, ledger.OpenAccount(ctx, "acct-2", "user-2", "USDC"))
	require.NoError(t, ledger.OpenAccount(ctx, "acct-3", "user-1", "SOL"))
	require.NoError(t, ledger.Credit("acct-1", 100))

	err := ledger.Transfer(ctx, "acct-1", "acct-2", 50, entities.Identity("user-2"))
	require.ErrorIs(t, err, domainerrors.ErrNotOwner)

	err = ledger.Transfer(ctx, "acct-1", "acct-3", 50, entities.Identity("user-1"))
	require.ErrorIs(t, err, domainerrors.ErrWrongAsset)

	err = ledger.Transfer(ctx, "acct-1", "acct-2", 500, entities.Identity("user-1"))
	require.ErrorIs(t, err, domainerrors.ErrInsufficientFunds)

	err = ledger.Transfer(ctx, "acct-1", "missing", 10, entities.Identity("user-1"))
	require.ErrorIs(t, err, domainerrors.ErrAccountNotFound)

	require.NoError(t, ledger.Transfer(ctx, "acct-1", "acct-2", 60, entities.Identity("user-1")))

	source, err := ledger.Account(ctx, "acct-1")
	require.NoError(t, err)
	require.Equal(t, uint64(40), source.Balance)

	destination, err := ledger.Account(ctx, "acct-2")
	require.NoError(t, err)
	require.Equal(t, uint64(60), destination.Balance)
}

func TestLedgerAccountNotFound(t *testing.T) {
	ledger := memory.NewLedger()

	_, err := ledger.Account(context.Background(), "missing")
	require.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
	require.ErrorIs(t, ledger.Credit("missing", 1), domainerrors.ErrAccountNotFound)
}
