package outbox

// Outbox row lifecycle shared by every persistence adapter. A row is written
// pending in the same transaction as the state change and flipped to
// published by the worker relay.
const (
	StatusPending   = "pending"
	StatusPublished = "published"
)
