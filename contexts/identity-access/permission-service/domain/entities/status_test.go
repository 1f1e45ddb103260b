package entities

import "testing"

func TestStatusTransitionTable(t *testing.T) {
	all := []PermissionStatus{
		StatusActive, StatusInactive, StatusSuspended, StatusDeleted,
		StatusExpired, StatusPendingApproval, StatusRejected,
	}

	allowed := map[PermissionStatus][]PermissionStatus{
		StatusActive:          {StatusInactive, StatusSuspended, StatusDeleted, StatusExpired},
		StatusInactive:        {StatusActive, StatusDeleted, StatusExpired},
		StatusSuspended:       {StatusActive, StatusInactive, StatusDeleted, StatusExpired},
		StatusPendingApproval: {StatusActive, StatusRejected, StatusDeleted},
		StatusRejected:        {StatusPendingApproval, StatusDeleted},
		StatusDeleted:         {},
		StatusExpired:         {},
	}

	for _, from := range all {
		allowedSet := map[PermissionStatus]bool{}
		for _, to := range allowed[from] {
			allowedSet[to] = true
		}
		for _, to := range all {
			if got := from.CanTransitionTo(to); got != allowedSet[to] {
				t.Fatalf("transition %s -> %s: expected %v, got %v", from, to, allowedSet[to], got)
			}
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	if !StatusDeleted.IsTerminal() || !StatusExpired.IsTerminal() {
		t.Fatalf("expected deleted and expired to be terminal")
	}
	for _, status := range []PermissionStatus{StatusActive, StatusInactive, StatusSuspended, StatusPendingApproval, StatusRejected} {
		if status.IsTerminal() {
			t.Fatalf("expected %s to be non-terminal", status)
		}
	}
}

func TestIsSupportedStatus(t *testing.T) {
	if !IsSupportedStatus(StatusPendingApproval) {
		t.Fatalf("expected pending_approval to be supported")
	}
	if IsSupportedStatus("archived") {
		t.Fatalf("expected unknown status to be unsupported")
	}
}
