package valueobjects

import (
	"time"

	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
)

// Settings carries temporal, usage and approval constraints on a permission.
// Immutable; derive a changed copy through the With* helpers.
type Settings struct {
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

// NewSettings validates cross-flag and temporal invariants:
// system permissions are never deletable but stay modifiable, default
// permissions are never deletable, effective window must be ordered, expiry
// must lie in the future at construction, usage cap is non-negative.
func NewSettings(s Settings, now time.Time) (Settings, error) {
	if s.IsSystemPermission && (s.CanBeDeleted || !s.CanBeModified) {
		return Settings{}, domainerrors.ErrInvalidSettings
	}
	if s.IsDefaultPermission && s.CanBeDeleted {
		return Settings{}, domainerrors.ErrInvalidSettings
	}
	if s.EffectiveFrom != nil && s.EffectiveTo != nil && !s.EffectiveFrom.Before(*s.EffectiveTo) {
		return Settings{}, domainerrors.ErrInvalidSettings
	}
	if s.ExpiresAt != nil && !s.ExpiresAt.After(now) {
		return Settings{}, domainerrors.ErrInvalidSettings
	}
	if s.MaxUsageCount != nil && *s.MaxUsageCount < 0 {
		return Settings{}, domainerrors.ErrInvalidSettings
	}
	return s, nil
}

// DefaultSettings is the baseline for directly-created permissions.
func DefaultSettings() Settings {
	return Settings{
		CanBeDeleted:  true,
		CanBeModified: true,
	}
}

// IsExpired reports whether the permission expired; unset expiry never
// expires.
func (s Settings) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

// IsEffective reports whether now lies within the effective window;
// open-ended bounds are unconstrained.
func (s Settings) IsEffective(now time.Time) bool {
	if s.EffectiveFrom != nil && now.Before(*s.EffectiveFrom) {
		return false
	}
	if s.EffectiveTo != nil && now.After(*s.EffectiveTo) {
		return false
	}
	return true
}

// IsRestricted reports whether any constraint applies beyond the plain grant.
func (s Settings) IsRestricted() bool {
	return s.MaxUsageCount != nil ||
		s.ExpiresAt != nil ||
		s.EffectiveFrom != nil ||
		s.EffectiveTo != nil ||
		s.RequiresApproval ||
		s.IsSensitive
}

func (s Settings) Equals(other Settings) bool {
	return s.IsSystemPermission == other.IsSystemPermission &&
		s.IsDefaultPermission == other.IsDefaultPermission &&
		s.CanBeDeleted == other.CanBeDeleted &&
		s.CanBeModified == other.CanBeModified &&
		s.RequiresApproval == other.RequiresApproval &&
		s.IsSensitive == other.IsSensitive &&
		equalIntPtr(s.MaxUsageCount, other.MaxUsageCount) &&
		equalTimePtr(s.ExpiresAt, other.ExpiresAt) &&
		equalTimePtr(s.EffectiveFrom, other.EffectiveFrom) &&
		equalTimePtr(s.EffectiveTo, other.EffectiveTo)
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
