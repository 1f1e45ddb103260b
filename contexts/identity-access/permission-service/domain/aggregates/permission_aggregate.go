package aggregates

import (
	"time"

	"atlas/contexts/identity-access/permission-service/domain/entities"
	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
	"atlas/contexts/identity-access/permission-service/domain/events"
	"atlas/contexts/identity-access/permission-service/domain/valueobjects"
)

// PermissionAggregate is the command façade over one permission entity.
// Every successful mutation records a domain event; any invariant violation
// leaves the entity untouched and surfaces the domain error unchanged.
// Identifiers and timestamps come from the caller so the aggregate stays
// deterministic and free of infrastructure.
type PermissionAggregate struct {
	permission  *entities.Permission
	uncommitted []events.DomainEvent
}

// CreateParams is the full input for creating a permission.
type CreateParams struct {
	PermissionID string
	TenantID     string
	Resource     valueobjects.Resource
	Action       valueobjects.Action
	Conditions   []valueobjects.Condition
	Scope        valueobjects.Scope
	Type         valueobjects.PermissionType
	Settings     valueobjects.Settings
	Description  string
	CreatedBy    string
}

// Create validates the composite through the entity constructor and records
// the created event.
func Create(params CreateParams, eventID string, now time.Time) (*PermissionAggregate, error) {
	permission, err := entities.NewPermission(
		params.PermissionID,
		params.TenantID,
		params.Resource,
		params.Action,
		params.Conditions,
		params.Scope,
		params.Type,
		params.Settings,
		params.CreatedBy,
		now,
	)
	if err != nil {
		return nil, err
	}
	permission.Description = params.Description

	aggregate := &PermissionAggregate{permission: permission}
	aggregate.record(events.NewPermissionCreated(eventID, permission, now))
	return aggregate, nil
}

// Load wraps an existing entity, typically rebuilt from a snapshot.
func Load(permission *entities.Permission) *PermissionAggregate {
	return &PermissionAggregate{permission: permission}
}

// FromSnapshot rebuilds the aggregate from persisted state.
func FromSnapshot(snapshot entities.Snapshot) (*PermissionAggregate, error) {
	permission, err := entities.PermissionFromSnapshot(snapshot)
	if err != nil {
		return nil, err
	}
	return Load(permission), nil
}

// Permission exposes the underlying entity for reads and persistence.
func (a *PermissionAggregate) Permission() *entities.Permission {
	return a.permission
}

// UncommittedEvents returns the events recorded since the last clear.
func (a *PermissionAggregate) UncommittedEvents() []events.DomainEvent {
	return append([]events.DomainEvent(nil), a.uncommitted...)
}

func (a *PermissionAggregate) ClearEvents() {
	a.uncommitted = nil
}

func (a *PermissionAggregate) record(event events.DomainEvent) {
	a.uncommitted = append(a.uncommitted, event)
}

// Update re-validates and replaces the permission definition, emitting an
// event carrying the previous and new values.
func (a *PermissionAggregate) Update(
	resource valueobjects.Resource,
	action valueobjects.Action,
	conditions []valueobjects.Condition,
	scope valueobjects.Scope,
	eventID string,
	now time.Time,
) error {
	previous := a.permission.ToSnapshot()
	if err := a.permission.UpdateDefinition(resource, action, conditions, scope); err != nil {
		return err
	}
	a.permission.Touch(now)
	a.record(events.NewPermissionUpdated(eventID, previous, a.permission, now))
	return nil
}

// StatusAction names one FSM operation on the aggregate.
type StatusAction string

const (
	StatusActionActivate   StatusAction = "activate"
	StatusActionDeactivate StatusAction = "deactivate"
	StatusActionSuspend    StatusAction = "suspend"
	StatusActionRestore    StatusAction = "restore"
	StatusActionApprove    StatusAction = "approve"
	StatusActionReject     StatusAction = "reject"
	StatusActionResubmit   StatusAction = "resubmit"
	StatusActionExpire     StatusAction = "expire"
)

// ChangeStatus runs one guarded FSM operation and records the status-changed
// event (restore records its own event type).
func (a *PermissionAggregate) ChangeStatus(action StatusAction, actorID string, eventID string, now time.Time) error {
	oldStatus := a.permission.Status

	var err error
	switch action {
	case StatusActionActivate:
		err = a.permission.Activate()
	case StatusActionDeactivate:
		err = a.permission.Deactivate()
	case StatusActionSuspend:
		err = a.permission.Suspend()
	case StatusActionRestore:
		err = a.permission.Restore()
	case StatusActionApprove:
		err = a.permission.Approve()
	case StatusActionReject:
		err = a.permission.Reject()
	case StatusActionResubmit:
		err = a.permission.Resubmit()
	case StatusActionExpire:
		err = a.permission.Expire()
	default:
		err = domainerrors.ErrInvalidStateTransition
	}
	if err != nil {
		return err
	}

	a.permission.Touch(now)
	if action == StatusActionRestore {
		a.record(events.NewPermissionRestored(eventID, a.permission, actorID, now))
		return nil
	}
	a.record(events.NewPermissionStatusChanged(eventID, a.permission, oldStatus, actorID, now))
	return nil
}

// Delete soft-deletes and records the deleted event.
func (a *PermissionAggregate) Delete(actorID string, eventID string, now time.Time) error {
	if err := a.permission.MarkDeleted(); err != nil {
		return err
	}
	a.permission.Touch(now)
	a.record(events.NewPermissionDeleted(eventID, a.permission, actorID, now))
	return nil
}

// AddCondition appends one condition under the entity invariants.
func (a *PermissionAggregate) AddCondition(condition valueobjects.Condition, eventID string, now time.Time) error {
	previous := a.permission.ToSnapshot()
	if !a.permission.CanBeModified() {
		return domainerrors.ErrNotModifiable
	}
	if err := a.permission.AddCondition(condition); err != nil {
		return err
	}
	a.permission.Touch(now)
	a.record(events.NewPermissionUpdated(eventID, previous, a.permission, now))
	return nil
}

// RemoveCondition drops one condition under the entity invariants.
func (a *PermissionAggregate) RemoveCondition(condition valueobjects.Condition, eventID string, now time.Time) error {
	previous := a.permission.ToSnapshot()
	if !a.permission.CanBeModified() {
		return domainerrors.ErrNotModifiable
	}
	if err := a.permission.RemoveCondition(condition); err != nil {
		return err
	}
	a.permission.Touch(now)
	a.record(events.NewPermissionUpdated(eventID, previous, a.permission, now))
	return nil
}
