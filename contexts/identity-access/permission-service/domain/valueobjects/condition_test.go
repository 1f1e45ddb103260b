package valueobjects

import (
	"errors"
	"testing"

	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
)

func mustCondition(t *testing.T, field string, operator ConditionOperator, value any) Condition {
	t.Helper()
	condition, err := NewCondition(field, operator, value, "")
	if err != nil {
		t.Fatalf("unexpected condition error: %v", err)
	}
	return condition
}

func TestNewConditionValidatesOperatorValuePairing(t *testing.T) {
	if _, err := NewCondition("", OperatorEquals, "x", ""); !errors.Is(err, domainerrors.ErrInvalidCondition) {
		t.Fatalf("expected empty field rejection, got %v", err)
	}
	if _, err := NewCondition("role", "like", "x", ""); !errors.Is(err, domainerrors.ErrInvalidCondition) {
		t.Fatalf("expected unknown operator rejection, got %v", err)
	}
	if _, err := NewCondition("role", OperatorEquals, nil, ""); !errors.Is(err, domainerrors.ErrInvalidCondition) {
		t.Fatalf("expected nil value rejection for equals, got %v", err)
	}
	if _, err := NewCondition("role", OperatorIsNull, "x", ""); !errors.Is(err, domainerrors.ErrInvalidCondition) {
		t.Fatalf("expected non-nil value rejection for is_null, got %v", err)
	}
	if _, err := NewCondition("role", OperatorIsNotNull, nil, ""); err != nil {
		t.Fatalf("expected is_not_null with nil value to pass, got %v", err)
	}
}

func TestConditionEqualsIgnoresDescription(t *testing.T) {
	a, _ := NewCondition("role", OperatorEquals, "admin", "first")
	b, _ := NewCondition("role", OperatorEquals, "admin", "second")
	if !a.Equals(b) {
		t.Fatalf("expected identity to ignore description")
	}
	c, _ := NewCondition("role", OperatorEquals, "viewer", "")
	if a.Equals(c) {
		t.Fatalf("expected different values to differ")
	}
	// Numeric identity is value-based across Go numeric types.
	d, _ := NewCondition("limit", OperatorEquals, 5, "")
	e, _ := NewCondition("limit", OperatorEquals, float64(5), "")
	if !d.Equals(e) {
		t.Fatalf("expected int and float with equal value to match")
	}
}

func TestConditionEvaluateOperators(t *testing.T) {
	context := map[string]any{
		"role":   "admin",
		"region": "eu-west",
		"email":  "ops@example.com",
		"count":  float64(7),
		"note":   nil,
	}

	cases := []struct {
		name      string
		condition Condition
		expect    bool
	}{
		{"equals match", mustCondition(t, "role", OperatorEquals, "admin"), true},
		{"equals mismatch", mustCondition(t, "role", OperatorEquals, "viewer"), false},
		{"equals missing field", mustCondition(t, "team", OperatorEquals, "core"), false},
		{"not_equals", mustCondition(t, "role", OperatorNotEquals, "viewer"), true},
		{"not_equals missing field", mustCondition(t, "team", OperatorNotEquals, "core"), false},
		{"in", mustCondition(t, "role", OperatorIn, []any{"admin", "owner"}), true},
		{"in string slice", mustCondition(t, "role", OperatorIn, []string{"admin", "owner"}), true},
		{"in absent", mustCondition(t, "role", OperatorIn, []any{"viewer"}), false},
		{"not_in", mustCondition(t, "role", OperatorNotIn, []any{"viewer"}), true},
		{"contains", mustCondition(t, "region", OperatorContains, "west"), true},
		{"not_contains", mustCondition(t, "region", OperatorNotContains, "east"), true},
		{"starts_with", mustCondition(t, "region", OperatorStartsWith, "eu-"), true},
		{"ends_with", mustCondition(t, "email", OperatorEndsWith, "@example.com"), true},
		{"greater_than", mustCondition(t, "count", OperatorGreaterThan, 5), true},
		{"greater_than_or_equal boundary", mustCondition(t, "count", OperatorGreaterThanOrEqual, 7), true},
		{"less_than", mustCondition(t, "count", OperatorLessThan, 10), true},
		{"less_than false", mustCondition(t, "count", OperatorLessThan, 7), false},
		{"less_than_or_equal boundary", mustCondition(t, "count", OperatorLessThanOrEqual, 7), true},
		{"numeric against string", mustCondition(t, "region", OperatorGreaterThan, 5), false},
		{"is_null on nil value", mustCondition(t, "note", OperatorIsNull, nil), true},
		{"is_null on missing field", mustCondition(t, "missing", OperatorIsNull, nil), true},
		{"is_null on present value", mustCondition(t, "role", OperatorIsNull, nil), false},
		{"is_not_null", mustCondition(t, "role", OperatorIsNotNull, nil), true},
		{"is_not_null on nil value", mustCondition(t, "note", OperatorIsNotNull, nil), false},
		{"regex match", mustCondition(t, "email", OperatorRegex, `^[a-z]+@example\.com$`), true},
		{"regex invalid pattern", mustCondition(t, "email", OperatorRegex, `([`), false},
		{"custom always refuses", mustCondition(t, "role", OperatorCustom, "anything"), false},
	}

	for _, tc := range cases {
		if got := tc.condition.Evaluate(context); got != tc.expect {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.expect, got)
		}
	}
}

func TestConditionEvaluateToleratesMistypedContext(t *testing.T) {
	condition := mustCondition(t, "region", OperatorStartsWith, "eu-")
	if condition.Evaluate(map[string]any{"region": 42}) {
		t.Fatalf("expected mistyped context value to evaluate false")
	}
}
