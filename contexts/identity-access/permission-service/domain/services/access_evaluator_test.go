package services

import (
	"testing"
	"time"

	"atlas/contexts/identity-access/permission-service/domain/entities"
	"atlas/contexts/identity-access/permission-service/domain/valueobjects"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func buildPermission(t *testing.T, id string, settings valueobjects.Settings, conditions ...valueobjects.Condition) *entities.Permission {
	t.Helper()
	resource, _ := valueobjects.NewResource("report")
	action, _ := valueobjects.NewAction("read")
	scope, err := valueobjects.NewScope(valueobjects.ScopeLevelTenant, "t1", "", "", "")
	if err != nil {
		t.Fatalf("scope: %v", err)
	}
	permission, err := entities.NewPermission(
		id, "t1", resource, action, conditions, scope,
		valueobjects.PermissionTypeTenant, settings, "admin-1", testNow,
	)
	if err != nil {
		t.Fatalf("NewPermission: %v", err)
	}
	return permission
}

func request(t *testing.T) (valueobjects.Resource, valueobjects.Action, valueobjects.Scope) {
	t.Helper()
	resource, _ := valueobjects.NewResource("report")
	action, _ := valueobjects.NewAction("read")
	scope, err := valueobjects.NewScope(valueobjects.ScopeLevelUser, "t1", "", "", "u1")
	if err != nil {
		t.Fatalf("scope: %v", err)
	}
	return resource, action, scope
}

func TestEvaluateAccessGrants(t *testing.T) {
	permission := buildPermission(t, "perm-1", valueobjects.DefaultSettings())
	resource, action, scope := request(t)

	allowed, permissionID, reason := EvaluateAccess([]*entities.Permission{permission}, resource, action, scope, nil, testNow)
	if !allowed || permissionID != "perm-1" || reason != ReasonGranted {
		t.Fatalf("expected grant by perm-1, got %v/%q/%q", allowed, permissionID, reason)
	}
}

func TestEvaluateAccessNoMatch(t *testing.T) {
	permission := buildPermission(t, "perm-1", valueobjects.DefaultSettings())
	resource, _, scope := request(t)
	otherAction, _ := valueobjects.NewAction("delete")

	allowed, permissionID, reason := EvaluateAccess([]*entities.Permission{permission}, resource, otherAction, scope, nil, testNow)
	if allowed || permissionID != "" || reason != ReasonNoMatch {
		t.Fatalf("expected no-match denial, got %v/%q/%q", allowed, permissionID, reason)
	}

	allowed, _, reason = EvaluateAccess(nil, resource, otherAction, scope, nil, testNow)
	if allowed || reason != ReasonNoMatch {
		t.Fatalf("expected denial with no candidates, got %v/%q", allowed, reason)
	}
}

func TestEvaluateAccessConditionsUnmet(t *testing.T) {
	condition, _ := valueobjects.NewCondition("role", valueobjects.OperatorEquals, "admin", "")
	permission := buildPermission(t, "perm-1", valueobjects.DefaultSettings(), condition)
	resource, action, scope := request(t)

	allowed, permissionID, reason := EvaluateAccess(
		[]*entities.Permission{permission}, resource, action, scope,
		map[string]any{"role": "viewer"}, testNow,
	)
	if allowed || permissionID != "" || reason != ReasonConditionsUnmet {
		t.Fatalf("expected conditions-unmet denial, got %v/%q/%q", allowed, permissionID, reason)
	}

	allowed, permissionID, reason = EvaluateAccess(
		[]*entities.Permission{permission}, resource, action, scope,
		map[string]any{"role": "admin"}, testNow,
	)
	if !allowed || permissionID != "perm-1" || reason != ReasonGranted {
		t.Fatalf("expected grant with satisfied conditions, got %v/%q/%q", allowed, permissionID, reason)
	}
}

func TestEvaluateAccessSkipsIneligibleCandidates(t *testing.T) {
	resource, action, scope := request(t)

	inactive := buildPermission(t, "perm-inactive", valueobjects.DefaultSettings())
	if err := inactive.Deactivate(); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	expiresAt := testNow.Add(time.Hour)
	expired := buildPermission(t, "perm-expired", valueobjects.Settings{
		CanBeDeleted:  true,
		CanBeModified: true,
		ExpiresAt:     &expiresAt,
	})

	from := testNow.Add(3 * time.Hour)
	notYetEffective := buildPermission(t, "perm-later", valueobjects.Settings{
		CanBeDeleted:  true,
		CanBeModified: true,
		EffectiveFrom: &from,
	})

	candidates := []*entities.Permission{inactive, expired, notYetEffective}

	// Past the expiry, before the effective window: every candidate skipped.
	allowed, _, reason := EvaluateAccess(candidates, resource, action, scope, nil, testNow.Add(2*time.Hour).Add(-time.Minute))
	if allowed || reason != ReasonNoMatch {
		t.Fatalf("expected all candidates skipped, got %v/%q", allowed, reason)
	}

	// Inside both windows the restricted grant applies.
	allowed, permissionID, reason := EvaluateAccess(candidates, resource, action, scope, nil, testNow.Add(30*time.Minute))
	if !allowed || permissionID != "perm-expired" || reason != ReasonGranted {
		t.Fatalf("expected unexpired grant, got %v/%q/%q", allowed, permissionID, reason)
	}
}

func TestEvaluateAccessFirstGrantWins(t *testing.T) {
	resource, action, scope := request(t)

	condition, _ := valueobjects.NewCondition("role", valueobjects.OperatorEquals, "admin", "")
	guarded := buildPermission(t, "perm-guarded", valueobjects.DefaultSettings(), condition)
	open := buildPermission(t, "perm-open", valueobjects.DefaultSettings())

	allowed, permissionID, reason := EvaluateAccess(
		[]*entities.Permission{guarded, open}, resource, action, scope, nil, testNow,
	)
	if !allowed || permissionID != "perm-open" || reason != ReasonGranted {
		t.Fatalf("expected fallthrough to the open grant, got %v/%q/%q", allowed, permissionID, reason)
	}
}
