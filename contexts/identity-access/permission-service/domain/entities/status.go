package entities

// PermissionStatus is the lifecycle state of a permission.
type PermissionStatus string

const (
	StatusActive          PermissionStatus = "active"
	StatusInactive        PermissionStatus = "inactive"
	StatusSuspended       PermissionStatus = "suspended"
	StatusDeleted         PermissionStatus = "deleted"
	StatusExpired         PermissionStatus = "expired"
	StatusPendingApproval PermissionStatus = "pending_approval"
	StatusRejected        PermissionStatus = "rejected"
)

// IsSupportedStatus reports whether the value names a lifecycle state.
func IsSupportedStatus(status PermissionStatus) bool {
	switch status {
	case StatusActive, StatusInactive, StatusSuspended, StatusDeleted,
		StatusExpired, StatusPendingApproval, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports states with no outgoing transitions.
func (s PermissionStatus) IsTerminal() bool {
	return s == StatusDeleted || s == StatusExpired
}

// CanTransitionTo is the pure transition predicate for the status machine.
// Deleted and expired are terminal.
func (s PermissionStatus) CanTransitionTo(to PermissionStatus) bool {
	switch s {
	case StatusActive:
		switch to {
		case StatusInactive, StatusSuspended, StatusDeleted, StatusExpired:
			return true
		}
	case StatusInactive:
		switch to {
		case StatusActive, StatusDeleted, StatusExpired:
			return true
		}
	case StatusSuspended:
		switch to {
		case StatusActive, StatusInactive, StatusDeleted, StatusExpired:
			return true
		}
	case StatusPendingApproval:
		switch to {
		case StatusActive, StatusRejected, StatusDeleted:
			return true
		}
	case StatusRejected:
		switch to {
		case StatusPendingApproval, StatusDeleted:
			return true
		}
	case StatusDeleted, StatusExpired:
	}
	return false
}
