package valueobjects

import (
	"encoding/json"
	"reflect"
	"regexp"
	"strings"

	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
)

// ConditionOperator enumerates the predicate operators a condition may use.
type ConditionOperator string

const (
	OperatorEquals             ConditionOperator = "equals"
	OperatorNotEquals          ConditionOperator = "not_equals"
	OperatorIn                 ConditionOperator = "in"
	OperatorNotIn              ConditionOperator = "not_in"
	OperatorContains           ConditionOperator = "contains"
	OperatorNotContains        ConditionOperator = "not_contains"
	OperatorStartsWith         ConditionOperator = "starts_with"
	OperatorEndsWith           ConditionOperator = "ends_with"
	OperatorGreaterThan        ConditionOperator = "greater_than"
	OperatorGreaterThanOrEqual ConditionOperator = "greater_than_or_equal"
	OperatorLessThan           ConditionOperator = "less_than"
	OperatorLessThanOrEqual    ConditionOperator = "less_than_or_equal"
	OperatorIsNull             ConditionOperator = "is_null"
	OperatorIsNotNull          ConditionOperator = "is_not_null"
	OperatorRegex              ConditionOperator = "regex"
	OperatorCustom             ConditionOperator = "custom"
)

// IsSupportedOperator reports whether the operator is one of the enumerated
// predicate kinds.
func IsSupportedOperator(op ConditionOperator) bool {
	switch op {
	case OperatorEquals, OperatorNotEquals,
		OperatorIn, OperatorNotIn,
		OperatorContains, OperatorNotContains,
		OperatorStartsWith, OperatorEndsWith,
		OperatorGreaterThan, OperatorGreaterThanOrEqual,
		OperatorLessThan, OperatorLessThanOrEqual,
		OperatorIsNull, OperatorIsNotNull,
		OperatorRegex, OperatorCustom:
		return true
	default:
		return false
	}
}

// Condition is a single predicate narrowing when a permission grant applies,
// evaluated against a runtime context. Treated as immutable once built.
type Condition struct {
	Field       string            `json:"field"`
	Operator    ConditionOperator `json:"operator"`
	Value       any               `json:"value"`
	Description string            `json:"description,omitempty"`
}

// NewCondition validates field, operator, and the operator/value pairing:
// null-check operators require a nil value, every other operator requires a
// non-nil one.
func NewCondition(field string, operator ConditionOperator, value any, description string) (Condition, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return Condition{}, domainerrors.ErrInvalidCondition
	}
	if !IsSupportedOperator(operator) {
		return Condition{}, domainerrors.ErrInvalidCondition
	}
	switch operator {
	case OperatorIsNull, OperatorIsNotNull:
		if value != nil {
			return Condition{}, domainerrors.ErrInvalidCondition
		}
	default:
		if value == nil {
			return Condition{}, domainerrors.ErrInvalidCondition
		}
	}
	return Condition{
		Field:       field,
		Operator:    operator,
		Value:       value,
		Description: strings.TrimSpace(description),
	}, nil
}

// Equals compares field, operator and value; description is informational
// and does not participate in identity.
func (c Condition) Equals(other Condition) bool {
	return c.Field == other.Field &&
		c.Operator == other.Operator &&
		looseEqual(c.Value, other.Value)
}

// Evaluate applies the predicate to the runtime context. It is pure and never
// fails: a mistyped or missing context value makes the predicate false.
func (c Condition) Evaluate(context map[string]any) bool {
	actual, present := context[c.Field]

	switch c.Operator {
	case OperatorEquals:
		return present && looseEqual(actual, c.Value)
	case OperatorNotEquals:
		return present && !looseEqual(actual, c.Value)
	case OperatorIn:
		return present && valueInList(actual, c.Value)
	case OperatorNotIn:
		return present && !valueInList(actual, c.Value)
	case OperatorContains:
		haystack, needle, ok := stringPair(actual, c.Value)
		return ok && strings.Contains(haystack, needle)
	case OperatorNotContains:
		haystack, needle, ok := stringPair(actual, c.Value)
		return ok && !strings.Contains(haystack, needle)
	case OperatorStartsWith:
		haystack, prefix, ok := stringPair(actual, c.Value)
		return ok && strings.HasPrefix(haystack, prefix)
	case OperatorEndsWith:
		haystack, suffix, ok := stringPair(actual, c.Value)
		return ok && strings.HasSuffix(haystack, suffix)
	case OperatorGreaterThan:
		left, right, ok := numericPair(actual, c.Value)
		return ok && left > right
	case OperatorGreaterThanOrEqual:
		left, right, ok := numericPair(actual, c.Value)
		return ok && left >= right
	case OperatorLessThan:
		left, right, ok := numericPair(actual, c.Value)
		return ok && left < right
	case OperatorLessThanOrEqual:
		left, right, ok := numericPair(actual, c.Value)
		return ok && left <= right
	case OperatorIsNull:
		return !present || actual == nil
	case OperatorIsNotNull:
		return present && actual != nil
	case OperatorRegex:
		haystack, pattern, ok := stringPair(actual, c.Value)
		if !ok {
			return false
		}
		matched, err := regexp.MatchString(pattern, haystack)
		return err == nil && matched
	case OperatorCustom:
		// Extension point without defined semantics yet; rejects until the
		// product decides what a custom evaluator receives.
		return false
	default:
		return false
	}
}

func stringPair(actual any, expected any) (string, string, bool) {
	left, leftOK := actual.(string)
	right, rightOK := expected.(string)
	return left, right, leftOK && rightOK
}

func numericPair(actual any, expected any) (float64, float64, bool) {
	left, leftOK := asNumber(actual)
	right, rightOK := asNumber(expected)
	return left, right, leftOK && rightOK
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func looseEqual(a any, b any) bool {
	if left, right, ok := numericPair(a, b); ok {
		return left == right
	}
	return reflect.DeepEqual(a, b)
}

func valueInList(actual any, list any) bool {
	switch items := list.(type) {
	case []any:
		for _, item := range items {
			if looseEqual(actual, item) {
				return true
			}
		}
	case []string:
		for _, item := range items {
			if looseEqual(actual, item) {
				return true
			}
		}
	}
	return false
}
