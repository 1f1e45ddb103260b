package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ConditionDTO struct {
	Field       string `json:"field"`
	Operator    string `json:"operator"`
	Value       any    `json:"value"`
	Description string `json:"description,omitempty"`
}

type ScopeDTO struct {
	Level          string `json:"level"`
	TenantID       string `json:"tenant_id,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	DepartmentID   string `json:"department_id,omitempty"`
	UserID         string `json:"user_id,omitempty"`
}

type SettingsDTO struct {
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

type PermissionDTO struct {
	PermissionID string         `json:"permission_id"`
	TenantID     string         `json:"tenant_id"`
	Resource     string         `json:"resource"`
	Action       string         `json:"action"`
	Conditions   []ConditionDTO `json:"conditions"`
	Scope        ScopeDTO       `json:"scope"`
	Type         string         `json:"type"`
	Settings     SettingsDTO    `json:"settings"`
	Status       string         `json:"status"`
	Description  string         `json:"description,omitempty"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
	CreatedBy    string         `json:"created_by"`
	Version      int            `json:"version"`
}

type CreatePermissionRequest struct {
	Resource    string         `json:"resource"`
	Action      string         `json:"action"`
	Conditions  []ConditionDTO `json:"conditions,omitempty"`
	Scope       ScopeDTO       `json:"scope"`
	Type        string         `json:"type"`
	Settings    *SettingsDTO   `json:"settings,omitempty"`
	Description string         `json:"description,omitempty"`
}

type CreatePermissionResponse struct {
	Permission PermissionDTO `json:"permission"`
	Replayed   bool          `json:"replayed"`
}

type UpdatePermissionRequest struct {
	Resource   string         `json:"resource"`
	Action     string         `json:"action"`
	Conditions []ConditionDTO `json:"conditions,omitempty"`
	Scope      ScopeDTO       `json:"scope"`
}

type StatusActionRequest struct {
	Reason string `json:"reason,omitempty"`
}

type DeletePermissionRequest struct {
	Reason string `json:"reason,omitempty"`
}

type ConditionRequest struct {
	Condition ConditionDTO `json:"condition"`
}

type PermissionResponse struct {
	Permission PermissionDTO `json:"permission"`
}

type ListPermissionsResponse struct {
	Items []PermissionDTO `json:"items"`
	Total int             `json:"total"`
}

type CheckAccessRequest struct {
	Resource string         `json:"resource"`
	Action   string         `json:"action"`
	Scope    ScopeDTO       `json:"scope"`
	Context  map[string]any `json:"context,omitempty"`
}

type CheckAccessResponse struct {
	Allowed      bool   `json:"allowed"`
	Reason       string `json:"reason"`
	PermissionID string `json:"permission_id,omitempty"`
	CheckedAt    string `json:"checked_at"`
	CacheHit     bool   `json:"cache_hit"`
}
