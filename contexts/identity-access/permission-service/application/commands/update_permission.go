package commands

import (
	"context"
	"log/slog"
	"strings"

	application "atlas/contexts/identity-access/permission-service/application"
	"atlas/contexts/identity-access/permission-service/domain/entities"
	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
	"atlas/contexts/identity-access/permission-service/domain/valueobjects"
	"atlas/contexts/identity-access/permission-service/ports"
)

// UpdatePermissionCommand replaces the permission definition as one unit.
type UpdatePermissionCommand struct {
	TenantID     string
	PermissionID string
	ActorID      string
	Resource     string
	Action       string
	Conditions   []ConditionInput
	Scope        ScopeInput
}

// UpdatePermissionUseCase re-validates and persists a changed definition.
type UpdatePermissionUseCase struct {
	Repository    ports.Repository
	DecisionCache ports.DecisionCache
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Logger        *slog.Logger
}

func (u UpdatePermissionUseCase) Execute(ctx context.Context, cmd UpdatePermissionCommand) (entities.Snapshot, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.TenantID) == "" {
		return entities.Snapshot{}, domainerrors.ErrInvalidTenantID
	}
	if strings.TrimSpace(cmd.ActorID) == "" {
		return entities.Snapshot{}, domainerrors.ErrInvalidActorID
	}

	aggregate, err := loadAggregate(ctx, u.Repository, cmd.TenantID, cmd.PermissionID)
	if err != nil {
		return entities.Snapshot{}, err
	}

	resource, err := valueobjects.NewResource(cmd.Resource)
	if err != nil {
		return entities.Snapshot{}, err
	}
	action, err := valueobjects.NewAction(cmd.Action)
	if err != nil {
		return entities.Snapshot{}, err
	}
	conditions, err := buildConditions(cmd.Conditions)
	if err != nil {
		return entities.Snapshot{}, err
	}
	scope, err := buildScope(cmd.Scope)
	if err != nil {
		return entities.Snapshot{}, err
	}

	now := u.Clock.Now().UTC()
	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Snapshot{}, err
	}

	if err := aggregate.Update(resource, action, conditions, scope, eventID, now); err != nil {
		logger.Warn("update permission rejected",
			"event", "permission_update_rejected",
			"module", "identity-access/permission-service",
			"layer", "application",
			"tenant_id", cmd.TenantID,
			"permission_id", cmd.PermissionID,
			"error", err.Error(),
		)
		return entities.Snapshot{}, err
	}

	outbox, err := outboxMessages(ctx, u.IDGenerator, aggregate.UncommittedEvents(), now)
	if err != nil {
		return entities.Snapshot{}, err
	}
	if err := u.Repository.UpdatePermission(ctx, ports.SaveInput{
		Snapshot: aggregate.Permission().ToSnapshot(),
		Outbox:   outbox,
	}); err != nil {
		return entities.Snapshot{}, err
	}
	aggregate.ClearEvents()

	if u.DecisionCache != nil {
		if err := u.DecisionCache.InvalidateTenant(ctx, cmd.TenantID); err != nil {
			logger.Warn("decision cache invalidate failed after update",
				"event", "permission_cache_invalidation_failed",
				"module", "identity-access/permission-service",
				"layer", "application",
				"tenant_id", cmd.TenantID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("permission updated",
		"event", "permission_updated",
		"module", "identity-access/permission-service",
		"layer", "application",
		"tenant_id", cmd.TenantID,
		"permission_id", cmd.PermissionID,
	)
	return aggregate.Permission().ToSnapshot(), nil
}
