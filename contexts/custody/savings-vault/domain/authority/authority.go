package authority

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"goalvault/contexts/custody/savings-vault/domain/entities"
	domainerrors "goalvault/contexts/custody/savings-vault/domain/errors"
)

// Derivation namespaces. A derived identity is a pure function of
// (namespace, parent identifier), so callers can recompute every identifier
// without a lookup table and no caller-supplied value is ever trusted.
const (
	NamespaceState = "state"
	NamespaceVault = "vault"
)

const authoritySuffix = "/authority"

// Derive maps (namespace, parent) to an identity via a keyed hash. The
// derivation needs no bump search: derived identities carry a namespace
// prefix and cannot collide with caller key space.
func Derive(namespace string, parent string) (entities.Identity, string) {
	mac := hmac.New(sha256.New, []byte(namespace))
	mac.Write([]byte(parent))
	digest := hex.EncodeToString(mac.Sum(nil))
	return entities.Identity(namespace + ":" + digest), namespace
}

// RecordID derives the vault record identifier for an owner/asset pair.
func RecordID(owner entities.Identity, asset string) string {
	id, _ := Derive(NamespaceState, string(owner)+"/"+asset)
	return string(id)
}

// CustodyAccountRef derives the holding-account reference bound to a record.
func CustodyAccountRef(recordID string) string {
	id, _ := Derive(NamespaceVault, recordID)
	return string(id)
}

// VaultAuthority derives the delegated-authority identity that controls the
// custody account. It is always recomputed from the record identity, never
// stored and never accepted from a caller.
func VaultAuthority(recordID string) entities.Identity {
	id, _ := Derive(NamespaceVault, recordID+authoritySuffix)
	return id
}

// Capability proves control of the delegated authority for exactly one
// transfer out of the custody account. Produced by the authorization engine,
// consumed immediately by the transfer orchestrator, never serialized.
type Capability struct {
	mu       sync.Mutex
	identity entities.Identity
	consumed bool
}

func NewCapability(recordID string) *Capability {
	return &Capability{identity: VaultAuthority(recordID)}
}

// Consume yields the authority identity exactly once.
func (c *Capability) Consume() (entities.Identity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.consumed {
		return "", domainerrors.ErrAuthorityConsumed
	}
	c.consumed = true
	return c.identity, nil
}
