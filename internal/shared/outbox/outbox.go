package outbox

// Status values for outbox rows persisted inside the same DB transaction as
// state changes. Worker relays read pending rows, publish them to the message
// bus, and mark them published.
const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusFailed    = "failed"
)
