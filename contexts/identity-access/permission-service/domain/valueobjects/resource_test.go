package valueobjects

import (
	"errors"
	"strings"
	"testing"

	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
)

func TestNewResourceNormalizes(t *testing.T) {
	resource, err := NewResource("  Tenant.Settings ")
	if err != nil {
		t.Fatalf("expected valid resource, got %v", err)
	}
	if resource.Value() != "tenant.settings" {
		t.Fatalf("expected normalized value, got %q", resource.Value())
	}
	if !resource.IsSubResource() {
		t.Fatalf("expected dotted resource to be a sub-resource")
	}
	if resource.Namespace() != "tenant" {
		t.Fatalf("expected namespace tenant, got %q", resource.Namespace())
	}
	if !resource.IsTenantResource() {
		t.Fatalf("expected tenant namespace resource")
	}
}

func TestNewResourceRejectsInvalidIdentifiers(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"9report",
		"_report",
		"report!",
		"with space",
		strings.Repeat("a", 101),
	}
	for _, raw := range cases {
		if _, err := NewResource(raw); !errors.Is(err, domainerrors.ErrInvalidResource) {
			t.Fatalf("expected ErrInvalidResource for %q, got %v", raw, err)
		}
	}
}

func TestNewResourceRejectsReservedWords(t *testing.T) {
	for _, raw := range []string{"system", "admin", "root", "api", "internal", "ADMIN"} {
		if _, err := NewResource(raw); !errors.Is(err, domainerrors.ErrInvalidResource) {
			t.Fatalf("expected reserved word %q to be rejected, got %v", raw, err)
		}
	}
	// Reserved words only block the exact identifier, not a namespace.
	if _, err := NewResource("admin.reports"); err != nil {
		t.Fatalf("expected namespaced identifier to pass, got %v", err)
	}
}

func TestResourceNamespaceHelpers(t *testing.T) {
	plain, _ := NewResource("report")
	if plain.IsSubResource() {
		t.Fatalf("expected un-namespaced resource")
	}
	if plain.Namespace() != "report" {
		t.Fatalf("expected whole value as namespace, got %q", plain.Namespace())
	}

	org, _ := NewResource("organization.members")
	if !org.IsOrganizationResource() {
		t.Fatalf("expected organization namespace resource")
	}
	user, _ := NewResource("user.profile")
	if !user.IsUserResource() {
		t.Fatalf("expected user namespace resource")
	}
}
