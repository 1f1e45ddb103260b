package entities

import (
	"time"

	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
	"atlas/contexts/identity-access/permission-service/domain/valueobjects"
)

// MaxConditions caps the condition list on a single permission.
const MaxConditions = 10

// Permission grants one action on one resource within one scope, narrowed by
// conditions and constrained by settings. Status changes go through the
// guarded transition methods only; the record is soft-deleted, never removed.
type Permission struct {
	PermissionID string
	TenantID     string
	Resource     valueobjects.Resource
	Action       valueobjects.Action
	Conditions   []valueobjects.Condition
	Scope        valueobjects.Scope
	Type         valueobjects.PermissionType
	Settings     valueobjects.Settings
	Status       PermissionStatus
	Description  string

	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
	Version   int
}

// NewPermission validates the full composite: all sub-objects present and
// well-formed, scope level matching the type's required level, condition list
// within cap and free of duplicates. Initial status is active, or pending
// approval when the settings demand it.
func NewPermission(
	permissionID string,
	tenantID string,
	resource valueobjects.Resource,
	action valueobjects.Action,
	conditions []valueobjects.Condition,
	scope valueobjects.Scope,
	permissionType valueobjects.PermissionType,
	settings valueobjects.Settings,
	createdBy string,
	now time.Time,
) (*Permission, error) {
	if permissionID == "" {
		return nil, domainerrors.ErrInvalidPermission
	}
	if tenantID == "" {
		return nil, domainerrors.ErrInvalidTenantID
	}
	if err := validateComposite(resource, action, conditions, scope, permissionType); err != nil {
		return nil, err
	}

	status := StatusActive
	if settings.RequiresApproval {
		status = StatusPendingApproval
	}

	return &Permission{
		PermissionID: permissionID,
		TenantID:     tenantID,
		Resource:     resource,
		Action:       action,
		Conditions:   append([]valueobjects.Condition(nil), conditions...),
		Scope:        scope,
		Type:         permissionType,
		Settings:     settings,
		Status:       status,
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
		CreatedBy:    createdBy,
		Version:      1,
	}, nil
}

func validateComposite(
	resource valueobjects.Resource,
	action valueobjects.Action,
	conditions []valueobjects.Condition,
	scope valueobjects.Scope,
	permissionType valueobjects.PermissionType,
) error {
	if resource.Value() == "" || action.Value() == "" {
		return domainerrors.ErrInvalidPermission
	}
	if !valueobjects.IsSupportedScopeLevel(scope.Level) {
		return domainerrors.ErrInvalidScope
	}
	if !valueobjects.IsSupportedPermissionType(permissionType) {
		return domainerrors.ErrInvalidPermission
	}
	if scope.Level != permissionType.RequiredScopeLevel() {
		return domainerrors.ErrInvalidPermission
	}
	if len(conditions) > MaxConditions {
		return domainerrors.ErrInvalidPermission
	}
	for i, condition := range conditions {
		for _, earlier := range conditions[:i] {
			if condition.Equals(earlier) {
				return domainerrors.ErrInvalidPermission
			}
		}
	}
	return nil
}

// Matches is the authorization decision primitive: exact resource and action,
// and the permission's scope contains the requested one.
func (p *Permission) Matches(
	resource valueobjects.Resource,
	action valueobjects.Action,
	scope valueobjects.Scope,
) bool {
	return p.Resource.Equals(resource) &&
		p.Action.Equals(action) &&
		p.Scope.Includes(scope)
}

// EvaluateConditions ANDs every condition against the runtime context,
// vacuously true with no conditions.
func (p *Permission) EvaluateConditions(context map[string]any) bool {
	for _, condition := range p.Conditions {
		if !condition.Evaluate(context) {
			return false
		}
	}
	return true
}

// AddCondition appends while preserving the uniqueness and cap invariants.
func (p *Permission) AddCondition(condition valueobjects.Condition) error {
	if len(p.Conditions) >= MaxConditions {
		return domainerrors.ErrInvalidPermission
	}
	for _, existing := range p.Conditions {
		if existing.Equals(condition) {
			return domainerrors.ErrInvalidPermission
		}
	}
	p.Conditions = append(p.Conditions, condition)
	return nil
}

// RemoveCondition drops the matching condition; order-insensitive identity.
func (p *Permission) RemoveCondition(condition valueobjects.Condition) error {
	for i, existing := range p.Conditions {
		if existing.Equals(condition) {
			p.Conditions = append(p.Conditions[:i], p.Conditions[i+1:]...)
			return nil
		}
	}
	return domainerrors.ErrInvalidPermission
}

// UpdateDefinition replaces resource/action/conditions/scope as one validated
// unit; the entity is untouched when validation fails.
func (p *Permission) UpdateDefinition(
	resource valueobjects.Resource,
	action valueobjects.Action,
	conditions []valueobjects.Condition,
	scope valueobjects.Scope,
) error {
	if !p.CanBeModified() {
		return domainerrors.ErrNotModifiable
	}
	if err := validateComposite(resource, action, conditions, scope, p.Type); err != nil {
		return err
	}
	p.Resource = resource
	p.Action = action
	p.Conditions = append([]valueobjects.Condition(nil), conditions...)
	p.Scope = scope
	return nil
}

// CanBeDeleted requires a legal transition and deletable settings.
func (p *Permission) CanBeDeleted() bool {
	return p.Status.CanTransitionTo(StatusDeleted) && p.Settings.CanBeDeleted
}

// CanBeModified requires a live record and modifiable settings.
func (p *Permission) CanBeModified() bool {
	return !p.Status.IsTerminal() && p.Settings.CanBeModified
}

func (p *Permission) IsActive() bool {
	return p.Status == StatusActive
}

func (p *Permission) transition(to PermissionStatus) error {
	if !p.Status.CanTransitionTo(to) {
		return domainerrors.ErrInvalidStateTransition
	}
	p.Status = to
	return nil
}

func (p *Permission) Activate() error {
	return p.transition(StatusActive)
}

func (p *Permission) Deactivate() error {
	return p.transition(StatusInactive)
}

func (p *Permission) Suspend() error {
	return p.transition(StatusSuspended)
}

// Restore reactivates a suspended or inactive permission.
func (p *Permission) Restore() error {
	if p.Status != StatusSuspended && p.Status != StatusInactive {
		return domainerrors.ErrInvalidStateTransition
	}
	return p.transition(StatusActive)
}

func (p *Permission) Approve() error {
	if p.Status != StatusPendingApproval {
		return domainerrors.ErrInvalidStateTransition
	}
	return p.transition(StatusActive)
}

func (p *Permission) Reject() error {
	if p.Status != StatusPendingApproval {
		return domainerrors.ErrInvalidStateTransition
	}
	return p.transition(StatusRejected)
}

// Resubmit sends a rejected permission back for approval.
func (p *Permission) Resubmit() error {
	if p.Status != StatusRejected {
		return domainerrors.ErrInvalidStateTransition
	}
	return p.transition(StatusPendingApproval)
}

func (p *Permission) Expire() error {
	return p.transition(StatusExpired)
}

// MarkDeleted soft-deletes; settings may veto even a legal transition.
func (p *Permission) MarkDeleted() error {
	if !p.Settings.CanBeDeleted {
		return domainerrors.ErrNotDeletable
	}
	return p.transition(StatusDeleted)
}

// Touch advances audit metadata after a successful mutation.
func (p *Permission) Touch(now time.Time) {
	p.UpdatedAt = now.UTC()
	p.Version++
}
