package valueobjects

// PermissionType classifies a permission by the authority tier that owns it.
// The tier fixes the scope level the permission must be placed at and who may
// manage it.
type PermissionType string

const (
	PermissionTypePlatform     PermissionType = "platform"
	PermissionTypeTenant       PermissionType = "tenant"
	PermissionTypeOrganization PermissionType = "organization"
	PermissionTypeDepartment   PermissionType = "department"
	PermissionTypeUser         PermissionType = "user"
	PermissionTypeSystem       PermissionType = "system"
	PermissionTypeCustom       PermissionType = "custom"
)

// IsSupportedPermissionType reports whether the value names a known tier.
func IsSupportedPermissionType(t PermissionType) bool {
	switch t {
	case PermissionTypePlatform, PermissionTypeTenant, PermissionTypeOrganization,
		PermissionTypeDepartment, PermissionTypeUser, PermissionTypeSystem, PermissionTypeCustom:
		return true
	default:
		return false
	}
}

// Level orders types by authority: system above platform above the tenant
// hierarchy, custom at the bottom.
func (t PermissionType) Level() int {
	switch t {
	case PermissionTypeSystem:
		return 6
	case PermissionTypePlatform:
		return 5
	case PermissionTypeTenant:
		return 4
	case PermissionTypeOrganization:
		return 3
	case PermissionTypeDepartment:
		return 2
	case PermissionTypeUser:
		return 1
	default:
		return 0
	}
}

// IsHierarchical reports membership in the tenant hierarchy chain.
func (t PermissionType) IsHierarchical() bool {
	switch t {
	case PermissionTypeTenant, PermissionTypeOrganization, PermissionTypeDepartment, PermissionTypeUser:
		return true
	default:
		return false
	}
}

// RequiredScopeLevel is the scope level every permission of this type must
// be placed at.
func (t PermissionType) RequiredScopeLevel() ScopeLevel {
	switch t {
	case PermissionTypePlatform, PermissionTypeSystem:
		return ScopeLevelPlatform
	case PermissionTypeTenant, PermissionTypeCustom:
		return ScopeLevelTenant
	case PermissionTypeOrganization:
		return ScopeLevelOrganization
	case PermissionTypeDepartment:
		return ScopeLevelDepartment
	case PermissionTypeUser:
		return ScopeLevelUser
	default:
		return ScopeLevelTenant
	}
}

// CanManage decides whether a manager of this type may administer
// permissions of the target type. System manages everything, platform
// everything but system, hierarchical types manage downwards, custom only
// custom; the hierarchical/non-hierarchical cross combinations are refused.
func (t PermissionType) CanManage(target PermissionType) bool {
	if t == PermissionTypeSystem {
		return true
	}
	if t == PermissionTypePlatform {
		return target != PermissionTypeSystem
	}
	if t.IsHierarchical() && target.IsHierarchical() {
		return t.Level() >= target.Level()
	}
	if t == PermissionTypeCustom {
		return target == PermissionTypeCustom
	}
	return false
}

// InheritanceChain lists the hierarchical types at or above this type's
// level, highest first. Non-hierarchical types have no chain.
func (t PermissionType) InheritanceChain() []PermissionType {
	if !t.IsHierarchical() {
		return nil
	}
	ordered := []PermissionType{
		PermissionTypeTenant,
		PermissionTypeOrganization,
		PermissionTypeDepartment,
		PermissionTypeUser,
	}
	chain := make([]PermissionType, 0, len(ordered))
	for _, candidate := range ordered {
		if candidate.Level() >= t.Level() {
			chain = append(chain, candidate)
		}
	}
	return chain
}
