package queries

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "atlas/contexts/identity-access/permission-service/application"
	"atlas/contexts/identity-access/permission-service/domain/aggregates"
	"atlas/contexts/identity-access/permission-service/domain/entities"
	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
	"atlas/contexts/identity-access/permission-service/domain/services"
	"atlas/contexts/identity-access/permission-service/domain/valueobjects"
	"atlas/contexts/identity-access/permission-service/ports"
)

// CheckAccessQuery is the request model for one authorization decision.
type CheckAccessQuery struct {
	TenantID string
	Resource string
	Action   string
	Scope    ScopeInput
	Context  map[string]any
}

// ScopeInput is the transport-agnostic scope shape for queries.
type ScopeInput struct {
	Level          string `json:"level"`
	TenantID       string `json:"tenant_id,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	DepartmentID   string `json:"department_id,omitempty"`
	UserID         string `json:"user_id,omitempty"`
}

// CheckAccessUseCase orchestrates cache-first access evaluation.
type CheckAccessUseCase struct {
	Repository       ports.Repository
	DecisionCache    ports.DecisionCache
	Clock            ports.Clock
	DecisionCacheTTL time.Duration
	Logger           *slog.Logger
}

// Execute evaluates the request and returns deny-by-default on lookup
// failures: an unavailable policy store never grants access.
func (u CheckAccessUseCase) Execute(ctx context.Context, query CheckAccessQuery) (entities.AccessDecision, error) {
	if strings.TrimSpace(query.TenantID) == "" {
		return entities.AccessDecision{}, domainerrors.ErrInvalidTenantID
	}

	logger := application.ResolveLogger(u.Logger)
	now := u.now()

	resource, err := valueobjects.NewResource(query.Resource)
	if err != nil {
		return entities.AccessDecision{}, err
	}
	action, err := valueobjects.NewAction(query.Action)
	if err != nil {
		return entities.AccessDecision{}, err
	}
	scope, err := valueobjects.NewScope(
		valueobjects.ScopeLevel(query.Scope.Level),
		query.Scope.TenantID,
		query.Scope.OrganizationID,
		query.Scope.DepartmentID,
		query.Scope.UserID,
	)
	if err != nil {
		return entities.AccessDecision{}, err
	}

	logger.Debug("access check started",
		"event", "permission_check_started",
		"module", "identity-access/permission-service",
		"layer", "application",
		"tenant_id", query.TenantID,
		"resource", resource.Value(),
		"action", action.Value(),
		"scope_level", string(scope.Level),
	)

	cacheKey, err := decisionCacheKey(query.TenantID, resource.Value(), action.Value(), scope, query.Context)
	if err != nil {
		return entities.AccessDecision{}, err
	}
	if u.DecisionCache != nil {
		cached, hit, err := u.DecisionCache.Get(ctx, cacheKey, now)
		if err == nil && hit {
			cached.CacheHit = true
			return cached, nil
		}
		if err != nil {
			logger.Warn("decision cache read failed",
				"event", "permission_cache_read_failed",
				"module", "identity-access/permission-service",
				"layer", "application",
				"tenant_id", query.TenantID,
				"error", err.Error(),
			)
		}
	}

	snapshots, err := u.Repository.ListMatchCandidates(ctx, query.TenantID, resource.Value(), action.Value())
	if err != nil {
		logger.Error("permission lookup failed, deny by default",
			"event", "permission_lookup_failed",
			"module", "identity-access/permission-service",
			"layer", "application",
			"tenant_id", query.TenantID,
			"resource", resource.Value(),
			"action", action.Value(),
			"error", err.Error(),
		)
		return entities.AccessDecision{
			TenantID:  query.TenantID,
			Resource:  resource.Value(),
			Action:    action.Value(),
			Allowed:   false,
			Reason:    "deny_by_default",
			CheckedAt: now,
		}, nil
	}

	candidates := make([]*entities.Permission, 0, len(snapshots))
	for _, snapshot := range snapshots {
		aggregate, err := aggregates.FromSnapshot(snapshot)
		if err != nil {
			logger.Warn("skipping unreadable permission snapshot",
				"event", "permission_snapshot_invalid",
				"module", "identity-access/permission-service",
				"layer", "application",
				"tenant_id", query.TenantID,
				"permission_id", snapshot.PermissionID,
				"error", err.Error(),
			)
			continue
		}
		candidates = append(candidates, aggregate.Permission())
	}

	allowed, permissionID, reason := services.EvaluateAccess(candidates, resource, action, scope, query.Context, now)
	decision := entities.AccessDecision{
		TenantID:     query.TenantID,
		Resource:     resource.Value(),
		Action:       action.Value(),
		Allowed:      allowed,
		Reason:       reason,
		PermissionID: permissionID,
		CheckedAt:    now,
	}

	if u.DecisionCache != nil {
		if err := u.DecisionCache.Set(ctx, cacheKey, decision, now.Add(u.cacheTTL())); err != nil {
			logger.Warn("decision cache write failed",
				"event", "permission_cache_write_failed",
				"module", "identity-access/permission-service",
				"layer", "application",
				"tenant_id", query.TenantID,
				"error", err.Error(),
			)
		}
	}

	if allowed {
		logger.Debug("access check allowed",
			"event", "permission_check_allowed",
			"module", "identity-access/permission-service",
			"layer", "application",
			"tenant_id", query.TenantID,
			"resource", resource.Value(),
			"action", action.Value(),
			"permission_id", permissionID,
		)
	} else {
		logger.Warn("access check denied",
			"event", "permission_check_denied",
			"module", "identity-access/permission-service",
			"layer", "application",
			"tenant_id", query.TenantID,
			"resource", resource.Value(),
			"action", action.Value(),
			"reason", reason,
		)
	}
	return decision, nil
}

func (u CheckAccessUseCase) cacheTTL() time.Duration {
	if u.DecisionCacheTTL <= 0 {
		return 5 * time.Minute
	}
	return u.DecisionCacheTTL
}

func (u CheckAccessUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

// decisionCacheKey embeds the tenant prefix used by tenant-wide
// invalidation, then hashes the full request including the runtime context.
func decisionCacheKey(tenantID, resource, action string, scope valueobjects.Scope, context map[string]any) (string, error) {
	body, err := json.Marshal(struct {
		Resource string             `json:"resource"`
		Action   string             `json:"action"`
		Scope    valueobjects.Scope `json:"scope"`
		Context  map[string]any     `json:"context,omitempty"`
	}{
		Resource: resource,
		Action:   action,
		Scope:    scope,
		Context:  context,
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(body)
	return "permission_decision:" + tenantID + ":" + hex.EncodeToString(sum[:]), nil
}
