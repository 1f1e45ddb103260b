package entities

import "time"

// AccessDecision is returned by access check APIs.
type AccessDecision struct {
	TenantID     string    `json:"tenant_id"`
	Resource     string    `json:"resource"`
	Action       string    `json:"action"`
	Allowed      bool      `json:"allowed"`
	Reason       string    `json:"reason"`
	PermissionID string    `json:"permission_id,omitempty"`
	CheckedAt    time.Time `json:"checked_at"`
	CacheHit     bool      `json:"cache_hit"`
}
