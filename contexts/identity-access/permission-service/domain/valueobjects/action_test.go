package valueobjects

import (
	"errors"
	"strings"
	"testing"

	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
)

func TestNewActionNormalizes(t *testing.T) {
	action, err := NewAction("  Settings.Update ")
	if err != nil {
		t.Fatalf("expected valid action, got %v", err)
	}
	if action.Value() != "settings.update" {
		t.Fatalf("expected normalized value, got %q", action.Value())
	}
}

func TestNewActionRejectsInvalidIdentifiers(t *testing.T) {
	cases := []string{"", "  ", "1shot", "do it", "do!", strings.Repeat("a", 51)}
	for _, raw := range cases {
		if _, err := NewAction(raw); !errors.Is(err, domainerrors.ErrInvalidAction) {
			t.Fatalf("expected ErrInvalidAction for %q, got %v", raw, err)
		}
	}
}

func TestActionCategoryUsesLastSegment(t *testing.T) {
	cases := []struct {
		raw      string
		category ActionCategory
	}{
		{"read", ActionCategoryRead},
		{"export", ActionCategoryRead},
		{"settings.list", ActionCategoryRead},
		{"create", ActionCategoryWrite},
		{"settings.update", ActionCategoryWrite},
		{"upload", ActionCategoryWrite},
		{"delete", ActionCategoryAdmin},
		{"billing.approve", ActionCategoryAdmin},
		{"configure", ActionCategoryAdmin},
		{"execute", ActionCategoryCustom},
	}
	for _, tc := range cases {
		action, err := NewAction(tc.raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.raw, err)
		}
		if action.Category() != tc.category {
			t.Fatalf("expected %q to classify as %s, got %s", tc.raw, tc.category, action.Category())
		}
	}
}

func TestActionDestructiveAndPriority(t *testing.T) {
	for _, raw := range []string{"delete", "revoke", "suspend", "members.reject"} {
		action, _ := NewAction(raw)
		if !action.IsDestructive() {
			t.Fatalf("expected %q to be destructive", raw)
		}
	}
	restore, _ := NewAction("restore")
	if restore.IsDestructive() {
		t.Fatalf("restore reactivates, expected non-destructive")
	}

	admin, _ := NewAction("manage")
	write, _ := NewAction("update")
	read, _ := NewAction("view")
	custom, _ := NewAction("execute")
	if !(admin.Priority() > write.Priority() && write.Priority() > read.Priority() && read.Priority() > custom.Priority()) {
		t.Fatalf("expected admin > write > read > custom priority ordering")
	}
}
