package authority_test

import (
	"testing"

	"goalvault/contexts/custody/savings-vault/domain/authority"
	domainerrors "goalvault/contexts/custody/savings-vault/domain/errors"
	"goalvault/contexts/custody/savings-vault/domain/entities"

	"github.com/stretchr/testify/require"
)

func TestDeriveIsDeterministic(t *testing.T) {
	first, ns := authority.Derive(authority.NamespaceState, "user-1/USDC")
	second, _ := authority.Derive(authority.NamespaceState, "user-1/USDC")

	require.Equal(t, authority.NamespaceState, ns)
	require.Equal(t, first, second)
	require.NotEmpty(t, first)
}

func TestDeriveSeparatesNamespaces(t *testing.T) {
	stateID, _ := authority.Derive(authority.NamespaceState, "user-1/USDC")
	vaultID, _ := authority.Derive(authority.NamespaceVault, "user-1/USDC")

	require.NotEqual(t, stateID, vaultID)
}

func TestDerivedIdentifiersAreDistinctPerVault(t *testing.T) {
	recordID := authority.RecordID(entities.Identity("user-1"), "USDC")
	otherID := authority.RecordID(entities.Identity("user-2"), "USDC")
	require.NotEqual(t, recordID, otherID)

	custodyRef := authority.CustodyAccountRef(recordID)
	vaultAuthority := authority.VaultAuthority(recordID)
	require.NotEqual(t, recordID, custodyRef)
	require.NotEqual(t, custodyRef, string(vaultAuthority))
	require.NotEqual(t, recordID, string(vaultAuthority))
}

func TestCapabilityConsumesExactlyOnce(t *testing.T) {
	recordID := authority.RecordID(entities.Identity("user-1"), "USDC")
	capability := authority.NewCapability(recordID)

	identity, err := capability.Consume()
	require.NoError(t, err)
	require.Equal(t, authority.VaultAuthority(recordID), identity)

	_, err = capability.Consume()
	require.ErrorIs(t, err, domainerrors.ErrAuthorityConsumed)
}
