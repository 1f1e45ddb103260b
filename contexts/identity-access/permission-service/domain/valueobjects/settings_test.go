package valueobjects

import (
	"errors"
	"testing"
	"time"

	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
)

func timePtr(t time.Time) *time.Time { return &t }

func intPtr(n int) *int { return &n }

func TestNewSettingsInvariants(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		settings Settings
		valid    bool
	}{
		{"defaults pass", DefaultSettings(), true},
		{"system permission deletable", Settings{IsSystemPermission: true, CanBeDeleted: true, CanBeModified: true}, false},
		{"system permission not modifiable", Settings{IsSystemPermission: true, CanBeModified: false}, false},
		{"system permission locked down", Settings{IsSystemPermission: true, CanBeModified: true}, true},
		{"default permission deletable", Settings{IsDefaultPermission: true, CanBeDeleted: true}, false},
		{"default permission kept", Settings{IsDefaultPermission: true, CanBeModified: true}, true},
		{"inverted effective window", Settings{CanBeDeleted: true, CanBeModified: true, EffectiveFrom: timePtr(now.Add(time.Hour)), EffectiveTo: timePtr(now)}, false},
		{"zero-width effective window", Settings{CanBeDeleted: true, CanBeModified: true, EffectiveFrom: timePtr(now), EffectiveTo: timePtr(now)}, false},
		{"expiry in the past", Settings{CanBeDeleted: true, CanBeModified: true, ExpiresAt: timePtr(now.Add(-time.Minute))}, false},
		{"expiry in the future", Settings{CanBeDeleted: true, CanBeModified: true, ExpiresAt: timePtr(now.Add(time.Minute))}, true},
		{"negative usage cap", Settings{CanBeDeleted: true, CanBeModified: true, MaxUsageCount: intPtr(-1)}, false},
		{"zero usage cap", Settings{CanBeDeleted: true, CanBeModified: true, MaxUsageCount: intPtr(0)}, true},
	}

	for _, tc := range cases {
		_, err := NewSettings(tc.settings, now)
		if tc.valid && err != nil {
			t.Fatalf("%s: expected valid settings, got %v", tc.name, err)
		}
		if !tc.valid && !errors.Is(err, domainerrors.ErrInvalidSettings) {
			t.Fatalf("%s: expected ErrInvalidSettings, got %v", tc.name, err)
		}
	}
}

func TestSettingsTemporalHelpers(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	open := DefaultSettings()
	if open.IsExpired(now) {
		t.Fatalf("unset expiry never expires")
	}
	if !open.IsEffective(now) {
		t.Fatalf("open-ended window is always effective")
	}
	if open.IsRestricted() {
		t.Fatalf("defaults carry no restriction")
	}

	expiring := Settings{CanBeDeleted: true, CanBeModified: true, ExpiresAt: timePtr(now)}
	if expiring.IsExpired(now) {
		t.Fatalf("expiry boundary is inclusive of the instant itself")
	}
	if !expiring.IsExpired(now.Add(time.Second)) {
		t.Fatalf("expected expiry after the deadline")
	}

	windowed := Settings{
		CanBeDeleted:  true,
		CanBeModified: true,
		EffectiveFrom: timePtr(now),
		EffectiveTo:   timePtr(now.Add(time.Hour)),
	}
	if windowed.IsEffective(now.Add(-time.Second)) {
		t.Fatalf("expected not yet effective before the window")
	}
	if !windowed.IsEffective(now) || !windowed.IsEffective(now.Add(time.Hour)) {
		t.Fatalf("expected window bounds to be inclusive")
	}
	if windowed.IsEffective(now.Add(time.Hour + time.Second)) {
		t.Fatalf("expected not effective after the window")
	}
	if !windowed.IsRestricted() {
		t.Fatalf("expected effective window to count as a restriction")
	}
}

func TestSettingsEquals(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a := Settings{CanBeDeleted: true, CanBeModified: true, MaxUsageCount: intPtr(3), ExpiresAt: timePtr(now)}
	b := Settings{CanBeDeleted: true, CanBeModified: true, MaxUsageCount: intPtr(3), ExpiresAt: timePtr(now)}
	if !a.Equals(b) {
		t.Fatalf("expected pointer fields to compare by value")
	}
	b.MaxUsageCount = intPtr(4)
	if a.Equals(b) {
		t.Fatalf("expected different usage caps to differ")
	}
	b.MaxUsageCount = nil
	if a.Equals(b) {
		t.Fatalf("expected nil and set pointers to differ")
	}
}
