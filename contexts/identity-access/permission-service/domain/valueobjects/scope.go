package valueobjects

import (
	"strings"

	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
)

// ScopeLevel places a permission in the platform hierarchy.
type ScopeLevel string

const (
	ScopeLevelPlatform     ScopeLevel = "platform"
	ScopeLevelTenant       ScopeLevel = "tenant"
	ScopeLevelOrganization ScopeLevel = "organization"
	ScopeLevelDepartment   ScopeLevel = "department"
	ScopeLevelUser         ScopeLevel = "user"
)

// IsSupportedScopeLevel reports whether the level names a hierarchy tier.
func IsSupportedScopeLevel(level ScopeLevel) bool {
	switch level {
	case ScopeLevelPlatform, ScopeLevelTenant, ScopeLevelOrganization, ScopeLevelDepartment, ScopeLevelUser:
		return true
	default:
		return false
	}
}

// Scope is the hierarchical placement of a permission. Each level requires
// its ancestor identifiers; the constructor enforces that and the value is
// treated as immutable afterwards.
type Scope struct {
	Level          ScopeLevel `json:"level"`
	TenantID       string     `json:"tenant_id,omitempty"`
	OrganizationID string     `json:"organization_id,omitempty"`
	DepartmentID   string     `json:"department_id,omitempty"`
	UserID         string     `json:"user_id,omitempty"`
}

// NewScope validates identifier presence per level:
// tenant needs tenant id; organization needs tenant+organization;
// department needs tenant+organization+department; user needs tenant+user.
func NewScope(level ScopeLevel, tenantID, organizationID, departmentID, userID string) (Scope, error) {
	tenantID = strings.TrimSpace(tenantID)
	organizationID = strings.TrimSpace(organizationID)
	departmentID = strings.TrimSpace(departmentID)
	userID = strings.TrimSpace(userID)

	switch level {
	case ScopeLevelPlatform:
	case ScopeLevelTenant:
		if tenantID == "" {
			return Scope{}, domainerrors.ErrInvalidScope
		}
	case ScopeLevelOrganization:
		if tenantID == "" || organizationID == "" {
			return Scope{}, domainerrors.ErrInvalidScope
		}
	case ScopeLevelDepartment:
		if tenantID == "" || organizationID == "" || departmentID == "" {
			return Scope{}, domainerrors.ErrInvalidScope
		}
	case ScopeLevelUser:
		if tenantID == "" || userID == "" {
			return Scope{}, domainerrors.ErrInvalidScope
		}
	default:
		return Scope{}, domainerrors.ErrInvalidScope
	}

	return Scope{
		Level:          level,
		TenantID:       tenantID,
		OrganizationID: organizationID,
		DepartmentID:   departmentID,
		UserID:         userID,
	}, nil
}

// PlatformScope is the root scope containing every other scope.
func PlatformScope() Scope {
	return Scope{Level: ScopeLevelPlatform}
}

// LevelPriority returns 5 for platform down to 1 for user.
func (s Scope) LevelPriority() int {
	switch s.Level {
	case ScopeLevelPlatform:
		return 5
	case ScopeLevelTenant:
		return 4
	case ScopeLevelOrganization:
		return 3
	case ScopeLevelDepartment:
		return 2
	case ScopeLevelUser:
		return 1
	default:
		return 0
	}
}

// Includes implements one-directional hierarchical containment: a scope
// includes another when the other sits at or below it with matching ancestor
// identifiers. It is reflexive for identical scopes.
func (s Scope) Includes(other Scope) bool {
	switch s.Level {
	case ScopeLevelPlatform:
		return true
	case ScopeLevelTenant:
		switch other.Level {
		case ScopeLevelTenant, ScopeLevelOrganization, ScopeLevelDepartment, ScopeLevelUser:
			return s.TenantID == other.TenantID
		default:
			return false
		}
	case ScopeLevelOrganization:
		switch other.Level {
		case ScopeLevelOrganization, ScopeLevelDepartment, ScopeLevelUser:
			return s.TenantID == other.TenantID && s.OrganizationID == other.OrganizationID
		default:
			return false
		}
	case ScopeLevelDepartment:
		switch other.Level {
		case ScopeLevelDepartment, ScopeLevelUser:
			return s.TenantID == other.TenantID &&
				s.OrganizationID == other.OrganizationID &&
				s.DepartmentID == other.DepartmentID
		default:
			return false
		}
	case ScopeLevelUser:
		return other.Level == ScopeLevelUser &&
			s.TenantID == other.TenantID &&
			s.UserID == other.UserID
	default:
		return false
	}
}

// Intersects reports whether either scope contains the other.
func (s Scope) Intersects(other Scope) bool {
	return s.Includes(other) || other.Includes(s)
}

func (s Scope) Equals(other Scope) bool {
	return s == other
}
