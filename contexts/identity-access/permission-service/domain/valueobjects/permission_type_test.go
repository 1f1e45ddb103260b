package valueobjects

import (
	"reflect"
	"testing"
)

func TestPermissionTypeLevelOrdering(t *testing.T) {
	ordered := []PermissionType{
		PermissionTypeSystem,
		PermissionTypePlatform,
		PermissionTypeTenant,
		PermissionTypeOrganization,
		PermissionTypeDepartment,
		PermissionTypeUser,
	}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Level() <= ordered[i].Level() {
			t.Fatalf("expected strictly decreasing level at index %d", i)
		}
	}
	if PermissionTypeCustom.Level() != 0 {
		t.Fatalf("expected custom at level 0, got %d", PermissionTypeCustom.Level())
	}
	if PermissionType("bogus").Level() != 0 {
		t.Fatalf("expected unknown type at level 0")
	}
}

func TestPermissionTypeRequiredScopeLevel(t *testing.T) {
	cases := map[PermissionType]ScopeLevel{
		PermissionTypeSystem:       ScopeLevelPlatform,
		PermissionTypePlatform:     ScopeLevelPlatform,
		PermissionTypeTenant:       ScopeLevelTenant,
		PermissionTypeCustom:       ScopeLevelTenant,
		PermissionTypeOrganization: ScopeLevelOrganization,
		PermissionTypeDepartment:   ScopeLevelDepartment,
		PermissionTypeUser:         ScopeLevelUser,
	}
	for permType, want := range cases {
		if got := permType.RequiredScopeLevel(); got != want {
			t.Fatalf("expected %s to require %s scope, got %s", permType, want, got)
		}
	}
}

func TestPermissionTypeCanManage(t *testing.T) {
	cases := []struct {
		manager, target PermissionType
		expect          bool
	}{
		{PermissionTypeSystem, PermissionTypeSystem, true},
		{PermissionTypeSystem, PermissionTypeUser, true},
		{PermissionTypePlatform, PermissionTypeSystem, false},
		{PermissionTypePlatform, PermissionTypeTenant, true},
		{PermissionTypePlatform, PermissionTypeCustom, true},
		{PermissionTypeTenant, PermissionTypeTenant, true},
		{PermissionTypeTenant, PermissionTypeUser, true},
		{PermissionTypeUser, PermissionTypeTenant, false},
		{PermissionTypeOrganization, PermissionTypeDepartment, true},
		{PermissionTypeDepartment, PermissionTypeOrganization, false},
		{PermissionTypeTenant, PermissionTypeCustom, false},
		{PermissionTypeCustom, PermissionTypeCustom, true},
		{PermissionTypeCustom, PermissionTypeUser, false},
	}
	for _, tc := range cases {
		if got := tc.manager.CanManage(tc.target); got != tc.expect {
			t.Fatalf("expected %s CanManage %s = %v, got %v", tc.manager, tc.target, tc.expect, got)
		}
	}
}

func TestPermissionTypeInheritanceChain(t *testing.T) {
	if chain := PermissionTypeSystem.InheritanceChain(); chain != nil {
		t.Fatalf("expected no chain for non-hierarchical type, got %v", chain)
	}
	if chain := PermissionTypeCustom.InheritanceChain(); chain != nil {
		t.Fatalf("expected no chain for custom type, got %v", chain)
	}

	want := []PermissionType{
		PermissionTypeTenant,
		PermissionTypeOrganization,
		PermissionTypeDepartment,
	}
	if got := PermissionTypeDepartment.InheritanceChain(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected chain %v, got %v", want, got)
	}
	if got := PermissionTypeTenant.InheritanceChain(); !reflect.DeepEqual(got, []PermissionType{PermissionTypeTenant}) {
		t.Fatalf("expected single-element chain for tenant, got %v", got)
	}
}
