package commands

import (
	"time"

	"atlas/contexts/identity-access/permission-service/domain/valueobjects"
)

// ConditionInput is the transport-agnostic condition shape.
type ConditionInput struct {
	Field       string `json:"field"`
	Operator    string `json:"operator"`
	Value       any    `json:"value"`
	Description string `json:"description,omitempty"`
}

// ScopeInput is the transport-agnostic scope shape.
type ScopeInput struct {
	Level          string `json:"level"`
	TenantID       string `json:"tenant_id,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	DepartmentID   string `json:"department_id,omitempty"`
	UserID         string `json:"user_id,omitempty"`
}

// SettingsInput is the transport-agnostic settings shape.
type SettingsInput struct {
	IsSystemPermission  bool       `json:"is_system_permission"`
	IsDefaultPermission bool       `json:"is_default_permission"`
	CanBeDeleted        bool       `json:"can_be_deleted"`
	CanBeModified       bool       `json:"can_be_modified"`
	RequiresApproval    bool       `json:"requires_approval"`
	IsSensitive         bool       `json:"is_sensitive"`
	MaxUsageCount       *int       `json:"max_usage_count,omitempty"`
	ExpiresAt           *time.Time `json:"expires_at,omitempty"`
	EffectiveFrom       *time.Time `json:"effective_from,omitempty"`
	EffectiveTo         *time.Time `json:"effective_to,omitempty"`
}

func buildConditions(inputs []ConditionInput) ([]valueobjects.Condition, error) {
	conditions := make([]valueobjects.Condition, 0, len(inputs))
	for _, input := range inputs {
		condition, err := valueobjects.NewCondition(
			input.Field,
			valueobjects.ConditionOperator(input.Operator),
			input.Value,
			input.Description,
		)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, condition)
	}
	return conditions, nil
}

func buildScope(input ScopeInput) (valueobjects.Scope, error) {
	return valueobjects.NewScope(
		valueobjects.ScopeLevel(input.Level),
		input.TenantID,
		input.OrganizationID,
		input.DepartmentID,
		input.UserID,
	)
}

func buildSettings(input SettingsInput, now time.Time) (valueobjects.Settings, error) {
	return valueobjects.NewSettings(valueobjects.Settings{
		IsSystemPermission:  input.IsSystemPermission,
		IsDefaultPermission: input.IsDefaultPermission,
		CanBeDeleted:        input.CanBeDeleted,
		CanBeModified:       input.CanBeModified,
		RequiresApproval:    input.RequiresApproval,
		IsSensitive:         input.IsSensitive,
		MaxUsageCount:       input.MaxUsageCount,
		ExpiresAt:           input.ExpiresAt,
		EffectiveFrom:       input.EffectiveFrom,
		EffectiveTo:         input.EffectiveTo,
	}, now)
}
