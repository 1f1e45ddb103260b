package entities

import (
	"errors"
	"testing"
	"time"

	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
	"atlas/contexts/identity-access/permission-service/domain/valueobjects"
)

func TestSnapshotRoundTrip(t *testing.T) {
	permission := newTestPermission(t, valueobjects.DefaultSettings())
	condition, _ := valueobjects.NewCondition("role", valueobjects.OperatorIn, []any{"admin", "owner"}, "grant scope")
	if err := permission.AddCondition(condition); err != nil {
		t.Fatalf("AddCondition: %v", err)
	}
	permission.Description = "tenant reporting access"
	if err := permission.Suspend(); err != nil {
		t.Fatalf("Suspend: %v", err)
	}
	permission.Touch(testNow.Add(time.Minute))

	restored, err := PermissionFromSnapshot(permission.ToSnapshot())
	if err != nil {
		t.Fatalf("PermissionFromSnapshot: %v", err)
	}
	if restored.PermissionID != permission.PermissionID || restored.TenantID != permission.TenantID {
		t.Fatalf("expected identity preserved")
	}
	if restored.Status != StatusSuspended {
		t.Fatalf("expected status preserved, got %s", restored.Status)
	}
	if restored.Version != permission.Version || !restored.UpdatedAt.Equal(permission.UpdatedAt) {
		t.Fatalf("expected audit fields preserved")
	}
	if len(restored.Conditions) != 1 || !restored.Conditions[0].Equals(condition) {
		t.Fatalf("expected conditions preserved")
	}
	if restored.Description != permission.Description {
		t.Fatalf("expected description preserved")
	}
	if !restored.Scope.Equals(permission.Scope) || !restored.Settings.Equals(permission.Settings) {
		t.Fatalf("expected scope and settings preserved")
	}
}

func TestPermissionFromSnapshotRejectsCorruption(t *testing.T) {
	base := newTestPermission(t, valueobjects.DefaultSettings()).ToSnapshot()

	corrupt := base
	corrupt.Status = "archived"
	if _, err := PermissionFromSnapshot(corrupt); !errors.Is(err, domainerrors.ErrInvalidPermission) {
		t.Fatalf("expected unknown status rejection, got %v", err)
	}

	corrupt = base
	corrupt.Resource = "Admin!"
	if _, err := PermissionFromSnapshot(corrupt); !errors.Is(err, domainerrors.ErrInvalidResource) {
		t.Fatalf("expected invalid resource rejection, got %v", err)
	}

	corrupt = base
	corrupt.Scope = valueobjects.Scope{Level: valueobjects.ScopeLevelTenant}
	if _, err := PermissionFromSnapshot(corrupt); !errors.Is(err, domainerrors.ErrInvalidScope) {
		t.Fatalf("expected invalid scope rejection, got %v", err)
	}

	corrupt = base
	corrupt.Conditions = []ConditionSnapshot{{Field: "role", Operator: "like", Value: "x"}}
	if _, err := PermissionFromSnapshot(corrupt); !errors.Is(err, domainerrors.ErrInvalidCondition) {
		t.Fatalf("expected invalid condition rejection, got %v", err)
	}

	corrupt = base
	corrupt.TenantID = ""
	if _, err := PermissionFromSnapshot(corrupt); !errors.Is(err, domainerrors.ErrInvalidTenantID) {
		t.Fatalf("expected missing tenant rejection, got %v", err)
	}
}
