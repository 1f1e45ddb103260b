package valueobjects

import (
	"regexp"
	"strings"

	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
)

// Resource identifies a protected object type, optionally namespaced with
// dots ("user", "tenant.settings"). The value is normalized at construction
// and never changes afterwards.
type Resource struct {
	value string
}

const (
	resourceMinLength = 1
	resourceMaxLength = 100
)

var resourcePattern = regexp.MustCompile(`^[a-z][a-z0-9._-]*$`)

func isReservedResource(value string) bool {
	switch value {
	case "system", "admin", "root", "api", "internal":
		return true
	default:
		return false
	}
}

// NewResource normalizes and validates a resource identifier.
func NewResource(raw string) (Resource, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if len(value) < resourceMinLength || len(value) > resourceMaxLength {
		return Resource{}, domainerrors.ErrInvalidResource
	}
	if !resourcePattern.MatchString(value) {
		return Resource{}, domainerrors.ErrInvalidResource
	}
	if isReservedResource(value) {
		return Resource{}, domainerrors.ErrInvalidResource
	}
	return Resource{value: value}, nil
}

func (r Resource) Value() string {
	return r.value
}

func (r Resource) String() string {
	return r.value
}

func (r Resource) Equals(other Resource) bool {
	return r.value == other.value
}

// Namespace returns the segment before the first dot, or the whole value for
// un-namespaced resources.
func (r Resource) Namespace() string {
	if idx := strings.Index(r.value, "."); idx >= 0 {
		return r.value[:idx]
	}
	return r.value
}

// IsSubResource reports whether the identifier is dotted ("tenant.settings").
func (r Resource) IsSubResource() bool {
	return strings.Contains(r.value, ".")
}

// IsTenantResource reports resources owned by the tenant namespace.
func (r Resource) IsTenantResource() bool {
	return r.Namespace() == "tenant"
}

// IsOrganizationResource reports resources owned by the organization namespace.
func (r Resource) IsOrganizationResource() bool {
	return r.Namespace() == "organization"
}

// IsUserResource reports resources owned by the user namespace.
func (r Resource) IsUserResource() bool {
	return r.Namespace() == "user"
}
