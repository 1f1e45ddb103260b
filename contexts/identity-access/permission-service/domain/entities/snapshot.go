package entities

import (
	"time"

	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
	"atlas/contexts/identity-access/permission-service/domain/valueobjects"
)

// ConditionSnapshot is the persisted form of one condition.
type ConditionSnapshot struct {
	Field       string `json:"field"`
	Operator    string `json:"operator"`
	Value       any    `json:"value"`
	Description string `json:"description,omitempty"`
}

// Snapshot round-trips the entire permission state, status and audit fields
// included, for persistence outside the domain core.
type Snapshot struct {
	PermissionID string                `json:"permission_id"`
	TenantID     string                `json:"tenant_id"`
	Resource     string                `json:"resource"`
	Action       string                `json:"action"`
	Conditions   []ConditionSnapshot   `json:"conditions"`
	Scope        valueobjects.Scope    `json:"scope"`
	Type         string                `json:"type"`
	Settings     valueobjects.Settings `json:"settings"`
	Status       string                `json:"status"`
	Description  string                `json:"description,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	CreatedBy    string                `json:"created_by"`
	Version      int                   `json:"version"`
}

// ToSnapshot captures the full entity state.
func (p *Permission) ToSnapshot() Snapshot {
	conditions := make([]ConditionSnapshot, 0, len(p.Conditions))
	for _, condition := range p.Conditions {
		conditions = append(conditions, ConditionSnapshot{
			Field:       condition.Field,
			Operator:    string(condition.Operator),
			Value:       condition.Value,
			Description: condition.Description,
		})
	}
	return Snapshot{
		PermissionID: p.PermissionID,
		TenantID:     p.TenantID,
		Resource:     p.Resource.Value(),
		Action:       p.Action.Value(),
		Conditions:   conditions,
		Scope:        p.Scope,
		Type:         string(p.Type),
		Settings:     p.Settings,
		Status:       string(p.Status),
		Description:  p.Description,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		CreatedBy:    p.CreatedBy,
		Version:      p.Version,
	}
}

// PermissionFromSnapshot rebuilds the entity, re-validating every sub-object
// so a corrupted snapshot cannot smuggle in an invalid permission.
func PermissionFromSnapshot(snapshot Snapshot) (*Permission, error) {
	resource, err := valueobjects.NewResource(snapshot.Resource)
	if err != nil {
		return nil, err
	}
	action, err := valueobjects.NewAction(snapshot.Action)
	if err != nil {
		return nil, err
	}
	conditions := make([]valueobjects.Condition, 0, len(snapshot.Conditions))
	for _, row := range snapshot.Conditions {
		condition, err := valueobjects.NewCondition(
			row.Field,
			valueobjects.ConditionOperator(row.Operator),
			row.Value,
			row.Description,
		)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, condition)
	}
	scope, err := valueobjects.NewScope(
		snapshot.Scope.Level,
		snapshot.Scope.TenantID,
		snapshot.Scope.OrganizationID,
		snapshot.Scope.DepartmentID,
		snapshot.Scope.UserID,
	)
	if err != nil {
		return nil, err
	}

	permissionType := valueobjects.PermissionType(snapshot.Type)
	status := PermissionStatus(snapshot.Status)
	if !IsSupportedStatus(status) {
		return nil, domainerrors.ErrInvalidPermission
	}
	if err := validateComposite(resource, action, conditions, scope, permissionType); err != nil {
		return nil, err
	}
	if snapshot.PermissionID == "" {
		return nil, domainerrors.ErrInvalidPermission
	}
	if snapshot.TenantID == "" {
		return nil, domainerrors.ErrInvalidTenantID
	}

	return &Permission{
		PermissionID: snapshot.PermissionID,
		TenantID:     snapshot.TenantID,
		Resource:     resource,
		Action:       action,
		Conditions:   conditions,
		Scope:        scope,
		Type:         permissionType,
		Settings:     snapshot.Settings,
		Status:       status,
		Description:  snapshot.Description,
		CreatedAt:    snapshot.CreatedAt.UTC(),
		UpdatedAt:    snapshot.UpdatedAt.UTC(),
		CreatedBy:    snapshot.CreatedBy,
		Version:      snapshot.Version,
	}, nil
}
