package events

import (
	"time"

	"atlas/contexts/identity-access/permission-service/domain/entities"
)

// Event type names emitted by the permission aggregate.
const (
	TypePermissionCreated       = "permission.created"
	TypePermissionUpdated       = "permission.updated"
	TypePermissionStatusChanged = "permission.status_changed"
	TypePermissionDeleted       = "permission.deleted"
	TypePermissionRestored      = "permission.restored"
)

// DomainEvent is implemented by every permission lifecycle event. Events are
// flat, serializable records; the event struct itself is the JSON payload.
type DomainEvent interface {
	EventID() string
	EventType() string
	AggregateID() string
	EventVersion() int
	OccurredOn() time.Time
}

// Base carries the common event metadata.
type Base struct {
	ID         string    `json:"event_id"`
	Type       string    `json:"event_type"`
	Aggregate  string    `json:"aggregate_id"`
	Version    int       `json:"event_version"`
	OccurredAt time.Time `json:"occurred_on"`
}

func (b Base) EventID() string       { return b.ID }
func (b Base) EventType() string     { return b.Type }
func (b Base) AggregateID() string   { return b.Aggregate }
func (b Base) EventVersion() int     { return b.Version }
func (b Base) OccurredOn() time.Time { return b.OccurredAt }

func newBase(eventID, eventType, aggregateID string, version int, occurredAt time.Time) Base {
	return Base{
		ID:         eventID,
		Type:       eventType,
		Aggregate:  aggregateID,
		Version:    version,
		OccurredAt: occurredAt.UTC(),
	}
}

// PermissionCreated announces a new permission with its full definition.
type PermissionCreated struct {
	Base
	Snapshot entities.Snapshot `json:"permission"`
}

func NewPermissionCreated(eventID string, permission *entities.Permission, occurredAt time.Time) PermissionCreated {
	return PermissionCreated{
		Base:     newBase(eventID, TypePermissionCreated, permission.PermissionID, 1, occurredAt),
		Snapshot: permission.ToSnapshot(),
	}
}

// PermissionUpdated carries both the previous and the new definition.
type PermissionUpdated struct {
	Base
	Previous entities.Snapshot `json:"previous"`
	Current  entities.Snapshot `json:"current"`
}

func NewPermissionUpdated(eventID string, previous entities.Snapshot, permission *entities.Permission, occurredAt time.Time) PermissionUpdated {
	return PermissionUpdated{
		Base:     newBase(eventID, TypePermissionUpdated, permission.PermissionID, 1, occurredAt),
		Previous: previous,
		Current:  permission.ToSnapshot(),
	}
}

// PermissionStatusChanged records one FSM transition.
type PermissionStatusChanged struct {
	Base
	TenantID  string `json:"tenant_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ChangedBy string `json:"changed_by,omitempty"`
}

func NewPermissionStatusChanged(
	eventID string,
	permission *entities.Permission,
	oldStatus entities.PermissionStatus,
	changedBy string,
	occurredAt time.Time,
) PermissionStatusChanged {
	return PermissionStatusChanged{
		Base:      newBase(eventID, TypePermissionStatusChanged, permission.PermissionID, 1, occurredAt),
		TenantID:  permission.TenantID,
		OldStatus: string(oldStatus),
		NewStatus: string(permission.Status),
		ChangedBy: changedBy,
	}
}

// PermissionDeleted marks a soft delete.
type PermissionDeleted struct {
	Base
	TenantID  string `json:"tenant_id"`
	Resource  string `json:"resource"`
	Action    string `json:"action"`
	DeletedBy string `json:"deleted_by,omitempty"`
}

func NewPermissionDeleted(eventID string, permission *entities.Permission, deletedBy string, occurredAt time.Time) PermissionDeleted {
	return PermissionDeleted{
		Base:      newBase(eventID, TypePermissionDeleted, permission.PermissionID, 1, occurredAt),
		TenantID:  permission.TenantID,
		Resource:  permission.Resource.Value(),
		Action:    permission.Action.Value(),
		DeletedBy: deletedBy,
	}
}

// PermissionRestored marks a suspended or inactive permission returning to
// active service.
type PermissionRestored struct {
	Base
	TenantID   string `json:"tenant_id"`
	RestoredBy string `json:"restored_by,omitempty"`
}

func NewPermissionRestored(eventID string, permission *entities.Permission, restoredBy string, occurredAt time.Time) PermissionRestored {
	return PermissionRestored{
		Base:       newBase(eventID, TypePermissionRestored, permission.PermissionID, 1, occurredAt),
		TenantID:   permission.TenantID,
		RestoredBy: restoredBy,
	}
}
