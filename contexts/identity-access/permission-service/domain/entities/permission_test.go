package entities

import (
	"errors"
	"fmt"
	"testing"
	"time"

	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
	"atlas/contexts/identity-access/permission-service/domain/valueobjects"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestPermission(t *testing.T, settings valueobjects.Settings) *Permission {
	t.Helper()
	resource, _ := valueobjects.NewResource("report")
	action, _ := valueobjects.NewAction("read")
	scope, err := valueobjects.NewScope(valueobjects.ScopeLevelTenant, "t1", "", "", "")
	if err != nil {
		t.Fatalf("scope: %v", err)
	}
	permission, err := NewPermission(
		"perm-1", "t1", resource, action, nil, scope,
		valueobjects.PermissionTypeTenant, settings, "admin-1", testNow,
	)
	if err != nil {
		t.Fatalf("NewPermission: %v", err)
	}
	return permission
}

func TestNewPermissionInitialState(t *testing.T) {
	permission := newTestPermission(t, valueobjects.DefaultSettings())
	if permission.Status != StatusActive {
		t.Fatalf("expected active initial status, got %s", permission.Status)
	}
	if permission.Version != 1 {
		t.Fatalf("expected version 1, got %d", permission.Version)
	}
	if !permission.CreatedAt.Equal(testNow) || !permission.UpdatedAt.Equal(testNow) {
		t.Fatalf("expected audit timestamps set to construction time")
	}

	approval := valueobjects.DefaultSettings()
	approval.RequiresApproval = true
	pending := newTestPermission(t, approval)
	if pending.Status != StatusPendingApproval {
		t.Fatalf("expected approval-gated permission to start pending, got %s", pending.Status)
	}
}

func TestNewPermissionValidatesComposite(t *testing.T) {
	resource, _ := valueobjects.NewResource("report")
	action, _ := valueobjects.NewAction("read")
	tenantScope, _ := valueobjects.NewScope(valueobjects.ScopeLevelTenant, "t1", "", "", "")
	orgScope, _ := valueobjects.NewScope(valueobjects.ScopeLevelOrganization, "t1", "o1", "", "")
	settings := valueobjects.DefaultSettings()

	if _, err := NewPermission("", "t1", resource, action, nil, tenantScope, valueobjects.PermissionTypeTenant, settings, "admin-1", testNow); !errors.Is(err, domainerrors.ErrInvalidPermission) {
		t.Fatalf("expected missing id rejection, got %v", err)
	}
	if _, err := NewPermission("perm-1", "", resource, action, nil, tenantScope, valueobjects.PermissionTypeTenant, settings, "admin-1", testNow); !errors.Is(err, domainerrors.ErrInvalidTenantID) {
		t.Fatalf("expected missing tenant rejection, got %v", err)
	}
	if _, err := NewPermission("perm-1", "t1", valueobjects.Resource{}, action, nil, tenantScope, valueobjects.PermissionTypeTenant, settings, "admin-1", testNow); !errors.Is(err, domainerrors.ErrInvalidPermission) {
		t.Fatalf("expected zero resource rejection, got %v", err)
	}
	if _, err := NewPermission("perm-1", "t1", resource, action, nil, orgScope, valueobjects.PermissionTypeTenant, settings, "admin-1", testNow); !errors.Is(err, domainerrors.ErrInvalidPermission) {
		t.Fatalf("expected scope level / type mismatch rejection, got %v", err)
	}
	if _, err := NewPermission("perm-1", "t1", resource, action, nil, tenantScope, valueobjects.PermissionType("bogus"), settings, "admin-1", testNow); !errors.Is(err, domainerrors.ErrInvalidPermission) {
		t.Fatalf("expected unknown type rejection, got %v", err)
	}

	duplicate, _ := valueobjects.NewCondition("role", valueobjects.OperatorEquals, "admin", "")
	if _, err := NewPermission("perm-1", "t1", resource, action, []valueobjects.Condition{duplicate, duplicate}, tenantScope, valueobjects.PermissionTypeTenant, settings, "admin-1", testNow); !errors.Is(err, domainerrors.ErrInvalidPermission) {
		t.Fatalf("expected duplicate condition rejection, got %v", err)
	}

	tooMany := make([]valueobjects.Condition, 0, MaxConditions+1)
	for i := 0; i <= MaxConditions; i++ {
		condition, _ := valueobjects.NewCondition(fmt.Sprintf("field_%d", i), valueobjects.OperatorIsNotNull, nil, "")
		tooMany = append(tooMany, condition)
	}
	if _, err := NewPermission("perm-1", "t1", resource, action, tooMany, tenantScope, valueobjects.PermissionTypeTenant, settings, "admin-1", testNow); !errors.Is(err, domainerrors.ErrInvalidPermission) {
		t.Fatalf("expected condition cap rejection, got %v", err)
	}
}

func TestPermissionMatches(t *testing.T) {
	permission := newTestPermission(t, valueobjects.DefaultSettings())

	sameResource, _ := valueobjects.NewResource("report")
	otherResource, _ := valueobjects.NewResource("invoice")
	sameAction, _ := valueobjects.NewAction("read")
	otherAction, _ := valueobjects.NewAction("delete")
	userScope, _ := valueobjects.NewScope(valueobjects.ScopeLevelUser, "t1", "", "", "u1")
	otherTenantScope, _ := valueobjects.NewScope(valueobjects.ScopeLevelTenant, "t2", "", "", "")

	if !permission.Matches(sameResource, sameAction, userScope) {
		t.Fatalf("expected tenant grant to cover a user-scoped request")
	}
	if permission.Matches(otherResource, sameAction, userScope) {
		t.Fatalf("expected resource mismatch to refuse")
	}
	if permission.Matches(sameResource, otherAction, userScope) {
		t.Fatalf("expected action mismatch to refuse")
	}
	if permission.Matches(sameResource, sameAction, otherTenantScope) {
		t.Fatalf("expected cross-tenant scope to refuse")
	}
}

func TestPermissionConditionManagement(t *testing.T) {
	permission := newTestPermission(t, valueobjects.DefaultSettings())

	role, _ := valueobjects.NewCondition("role", valueobjects.OperatorEquals, "admin", "")
	if err := permission.AddCondition(role); err != nil {
		t.Fatalf("AddCondition: %v", err)
	}
	if err := permission.AddCondition(role); !errors.Is(err, domainerrors.ErrInvalidPermission) {
		t.Fatalf("expected duplicate add rejection, got %v", err)
	}

	if !permission.EvaluateConditions(map[string]any{"role": "admin"}) {
		t.Fatalf("expected matching context to satisfy conditions")
	}
	if permission.EvaluateConditions(map[string]any{"role": "viewer"}) {
		t.Fatalf("expected non-matching context to fail conditions")
	}

	if err := permission.RemoveCondition(role); err != nil {
		t.Fatalf("RemoveCondition: %v", err)
	}
	if err := permission.RemoveCondition(role); !errors.Is(err, domainerrors.ErrInvalidPermission) {
		t.Fatalf("expected removal of absent condition to fail, got %v", err)
	}
	if !permission.EvaluateConditions(nil) {
		t.Fatalf("expected empty condition list to be vacuously true")
	}

	for i := 0; i < MaxConditions; i++ {
		condition, _ := valueobjects.NewCondition(fmt.Sprintf("field_%d", i), valueobjects.OperatorIsNotNull, nil, "")
		if err := permission.AddCondition(condition); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	overflow, _ := valueobjects.NewCondition("overflow", valueobjects.OperatorIsNotNull, nil, "")
	if err := permission.AddCondition(overflow); !errors.Is(err, domainerrors.ErrInvalidPermission) {
		t.Fatalf("expected cap enforcement on add, got %v", err)
	}
}

func TestPermissionLifecycleGuards(t *testing.T) {
	permission := newTestPermission(t, valueobjects.DefaultSettings())

	if err := permission.Approve(); !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected approve on active to fail, got %v", err)
	}
	if err := permission.Suspend(); err != nil {
		t.Fatalf("Suspend: %v", err)
	}
	if err := permission.Restore(); err != nil {
		t.Fatalf("Restore from suspended: %v", err)
	}
	if err := permission.Deactivate(); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if err := permission.Restore(); err != nil {
		t.Fatalf("Restore from inactive: %v", err)
	}
	if err := permission.Restore(); !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected restore on active to fail, got %v", err)
	}
	if err := permission.Expire(); err != nil {
		t.Fatalf("Expire: %v", err)
	}
	if err := permission.Activate(); !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected activation of expired permission to fail, got %v", err)
	}
}

func TestPermissionApprovalFlow(t *testing.T) {
	settings := valueobjects.DefaultSettings()
	settings.RequiresApproval = true
	permission := newTestPermission(t, settings)

	if err := permission.Reject(); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if err := permission.Reject(); !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected double reject to fail, got %v", err)
	}
	if err := permission.Resubmit(); err != nil {
		t.Fatalf("Resubmit: %v", err)
	}
	if err := permission.Approve(); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if !permission.IsActive() {
		t.Fatalf("expected approved permission to be active")
	}
}

func TestPermissionSettingsVeto(t *testing.T) {
	locked := valueobjects.Settings{CanBeDeleted: false, CanBeModified: false}
	permission := newTestPermission(t, locked)

	if permission.CanBeDeleted() {
		t.Fatalf("expected settings to veto deletion")
	}
	if err := permission.MarkDeleted(); !errors.Is(err, domainerrors.ErrNotDeletable) {
		t.Fatalf("expected ErrNotDeletable, got %v", err)
	}

	resource, _ := valueobjects.NewResource("invoice")
	action, _ := valueobjects.NewAction("read")
	scope, _ := valueobjects.NewScope(valueobjects.ScopeLevelTenant, "t1", "", "", "")
	if err := permission.UpdateDefinition(resource, action, nil, scope); !errors.Is(err, domainerrors.ErrNotModifiable) {
		t.Fatalf("expected ErrNotModifiable, got %v", err)
	}

	open := newTestPermission(t, valueobjects.DefaultSettings())
	if err := open.MarkDeleted(); err != nil {
		t.Fatalf("MarkDeleted: %v", err)
	}
	if open.CanBeModified() {
		t.Fatalf("expected terminal permission to be immutable")
	}
}

func TestPermissionUpdateDefinitionAtomic(t *testing.T) {
	permission := newTestPermission(t, valueobjects.DefaultSettings())

	resource, _ := valueobjects.NewResource("invoice")
	action, _ := valueobjects.NewAction("export")
	orgScope, _ := valueobjects.NewScope(valueobjects.ScopeLevelOrganization, "t1", "o1", "", "")

	// Scope level no longer matches the tenant type; nothing changes.
	if err := permission.UpdateDefinition(resource, action, nil, orgScope); !errors.Is(err, domainerrors.ErrInvalidPermission) {
		t.Fatalf("expected composite validation failure, got %v", err)
	}
	if permission.Resource.Value() != "report" || permission.Action.Value() != "read" {
		t.Fatalf("expected entity untouched after failed update")
	}

	tenantScope, _ := valueobjects.NewScope(valueobjects.ScopeLevelTenant, "t1", "", "", "")
	if err := permission.UpdateDefinition(resource, action, nil, tenantScope); err != nil {
		t.Fatalf("UpdateDefinition: %v", err)
	}
	if permission.Resource.Value() != "invoice" || permission.Action.Value() != "export" {
		t.Fatalf("expected definition replaced")
	}
}

func TestPermissionTouch(t *testing.T) {
	permission := newTestPermission(t, valueobjects.DefaultSettings())
	later := testNow.Add(time.Hour)
	permission.Touch(later)
	if !permission.UpdatedAt.Equal(later) {
		t.Fatalf("expected updated_at advanced, got %v", permission.UpdatedAt)
	}
	if permission.Version != 2 {
		t.Fatalf("expected version bump, got %d", permission.Version)
	}
	if !permission.CreatedAt.Equal(testNow) {
		t.Fatalf("expected created_at untouched")
	}
}
