package services

import (
	"time"

	"atlas/contexts/identity-access/permission-service/domain/entities"
	"atlas/contexts/identity-access/permission-service/domain/valueobjects"
)

// Decision reasons surfaced by the access evaluator.
const (
	ReasonGranted         = "permission_granted"
	ReasonNoMatch         = "no_matching_permission"
	ReasonConditionsUnmet = "conditions_not_met"
)

// EvaluateAccess decides an access request over candidate permissions.
// A candidate grants access when it is active, effective, not expired,
// matches resource/action, its scope contains the requested scope, and all
// its conditions hold against the runtime context. First grant wins;
// candidates are expected highest scope first.
func EvaluateAccess(
	candidates []*entities.Permission,
	resource valueobjects.Resource,
	action valueobjects.Action,
	scope valueobjects.Scope,
	context map[string]any,
	now time.Time,
) (allowed bool, permissionID string, reason string) {
	matched := false
	for _, permission := range candidates {
		if !permission.IsActive() {
			continue
		}
		if permission.Settings.IsExpired(now) || !permission.Settings.IsEffective(now) {
			continue
		}
		if !permission.Matches(resource, action, scope) {
			continue
		}
		matched = true
		if permission.EvaluateConditions(context) {
			return true, permission.PermissionID, ReasonGranted
		}
	}
	if matched {
		return false, "", ReasonConditionsUnmet
	}
	return false, "", ReasonNoMatch
}
