package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "atlas/contexts/identity-access/permission-service/application"
	"atlas/contexts/identity-access/permission-service/domain/aggregates"
	"atlas/contexts/identity-access/permission-service/domain/entities"
	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
	"atlas/contexts/identity-access/permission-service/domain/valueobjects"
	"atlas/contexts/identity-access/permission-service/ports"
)

// CreatePermissionCommand contains transport-agnostic input for permission
// creation.
type CreatePermissionCommand struct {
	IdempotencyKey string
	TenantID       string
	ActorID        string
	Resource       string
	Action         string
	Conditions     []ConditionInput
	Scope          ScopeInput
	Type           string
	Settings       SettingsInput
	Description    string
}

// CreatePermissionResult captures the created permission and replay status.
type CreatePermissionResult struct {
	Permission entities.Snapshot `json:"permission"`
	Replayed   bool              `json:"replayed"`
}

// CreatePermissionUseCase coordinates idempotent permission creation.
type CreatePermissionUseCase struct {
	Repository     ports.Repository
	Idempotency    ports.IdempotencyStore
	DecisionCache  ports.DecisionCache
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

// Execute validates the composite input, enforces idempotency, persists the
// new permission with its outbox rows, and stores the replay payload.
func (u CreatePermissionUseCase) Execute(ctx context.Context, cmd CreatePermissionCommand) (CreatePermissionResult, error) {
	logger := application.ResolveLogger(u.Logger)
	logger.Info("create permission started",
		"event", "permission_create_started",
		"module", "identity-access/permission-service",
		"layer", "application",
		"tenant_id", cmd.TenantID,
		"actor_id", cmd.ActorID,
		"resource", cmd.Resource,
		"action", cmd.Action,
	)

	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return CreatePermissionResult{}, domainerrors.ErrIdempotencyKeyRequired
	}
	if strings.TrimSpace(cmd.TenantID) == "" {
		return CreatePermissionResult{}, domainerrors.ErrInvalidTenantID
	}
	if strings.TrimSpace(cmd.ActorID) == "" {
		return CreatePermissionResult{}, domainerrors.ErrInvalidActorID
	}

	requestHash, err := hashRequest(cmd)
	if err != nil {
		return CreatePermissionResult{}, err
	}

	idempotencyKey := "permission_idempotency:" + cmd.IdempotencyKey
	now := u.now()

	existing, found, err := u.Idempotency.GetRecord(ctx, idempotencyKey, now)
	if err != nil {
		return CreatePermissionResult{}, err
	}
	if found {
		if existing.RequestHash != requestHash {
			return CreatePermissionResult{}, domainerrors.ErrIdempotencyConflict
		}
		var replay CreatePermissionResult
		if err := json.Unmarshal(existing.ResponsePayload, &replay); err != nil {
			return CreatePermissionResult{}, err
		}
		replay.Replayed = true
		logger.Info("create permission replayed",
			"event", "permission_create_replayed",
			"module", "identity-access/permission-service",
			"layer", "application",
			"tenant_id", cmd.TenantID,
			"permission_id", replay.Permission.PermissionID,
		)
		return replay, nil
	}

	resource, err := valueobjects.NewResource(cmd.Resource)
	if err != nil {
		return CreatePermissionResult{}, err
	}
	action, err := valueobjects.NewAction(cmd.Action)
	if err != nil {
		return CreatePermissionResult{}, err
	}
	conditions, err := buildConditions(cmd.Conditions)
	if err != nil {
		return CreatePermissionResult{}, err
	}
	scope, err := buildScope(cmd.Scope)
	if err != nil {
		return CreatePermissionResult{}, err
	}
	settings, err := buildSettings(cmd.Settings, now)
	if err != nil {
		return CreatePermissionResult{}, err
	}

	permissionID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CreatePermissionResult{}, err
	}
	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CreatePermissionResult{}, err
	}

	aggregate, err := aggregates.Create(aggregates.CreateParams{
		PermissionID: permissionID,
		TenantID:     strings.TrimSpace(cmd.TenantID),
		Resource:     resource,
		Action:       action,
		Conditions:   conditions,
		Scope:        scope,
		Type:         valueobjects.PermissionType(cmd.Type),
		Settings:     settings,
		Description:  strings.TrimSpace(cmd.Description),
		CreatedBy:    strings.TrimSpace(cmd.ActorID),
	}, eventID, now)
	if err != nil {
		logger.Warn("create permission rejected",
			"event", "permission_create_rejected",
			"module", "identity-access/permission-service",
			"layer", "application",
			"tenant_id", cmd.TenantID,
			"resource", cmd.Resource,
			"action", cmd.Action,
			"error", err.Error(),
		)
		return CreatePermissionResult{}, err
	}

	outbox, err := outboxMessages(ctx, u.IDGenerator, aggregate.UncommittedEvents(), now)
	if err != nil {
		return CreatePermissionResult{}, err
	}
	if err := u.Repository.CreatePermission(ctx, ports.SaveInput{
		Snapshot: aggregate.Permission().ToSnapshot(),
		Outbox:   outbox,
	}); err != nil {
		logger.Error("create permission write failed",
			"event", "permission_create_write_failed",
			"module", "identity-access/permission-service",
			"layer", "application",
			"tenant_id", cmd.TenantID,
			"permission_id", permissionID,
			"error", err.Error(),
		)
		return CreatePermissionResult{}, err
	}
	aggregate.ClearEvents()

	if u.DecisionCache != nil {
		if err := u.DecisionCache.InvalidateTenant(ctx, cmd.TenantID); err != nil {
			logger.Warn("decision cache invalidate failed after create",
				"event", "permission_cache_invalidation_failed",
				"module", "identity-access/permission-service",
				"layer", "application",
				"tenant_id", cmd.TenantID,
				"error", err.Error(),
			)
		}
	}

	result := CreatePermissionResult{Permission: aggregate.Permission().ToSnapshot()}
	responsePayload, err := json.Marshal(result)
	if err != nil {
		return CreatePermissionResult{}, err
	}
	if err := u.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             idempotencyKey,
		Operation:       "create_permission",
		RequestHash:     requestHash,
		ResponsePayload: responsePayload,
		ExpiresAt:       now.Add(u.idempotencyTTL()),
	}); err != nil {
		return CreatePermissionResult{}, err
	}

	logger.Info("create permission completed",
		"event", "permission_create_completed",
		"module", "identity-access/permission-service",
		"layer", "application",
		"tenant_id", cmd.TenantID,
		"permission_id", permissionID,
		"status", string(aggregate.Permission().Status),
	)
	return result, nil
}

func (u CreatePermissionUseCase) idempotencyTTL() time.Duration {
	if u.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return u.IdempotencyTTL
}

func (u CreatePermissionUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
