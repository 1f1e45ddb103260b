package commands

import (
	"context"
	"log/slog"
	"strings"

	application "atlas/contexts/identity-access/permission-service/application"
	"atlas/contexts/identity-access/permission-service/domain/entities"
	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
	"atlas/contexts/identity-access/permission-service/ports"
)

// DeletePermissionCommand soft-deletes one permission.
type DeletePermissionCommand struct {
	TenantID     string
	PermissionID string
	ActorID      string
	Reason       string
}

// DeletePermissionUseCase applies the soft delete with its event.
type DeletePermissionUseCase struct {
	Repository    ports.Repository
	DecisionCache ports.DecisionCache
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Logger        *slog.Logger
}

func (u DeletePermissionUseCase) Execute(ctx context.Context, cmd DeletePermissionCommand) (entities.Snapshot, error) {
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

	now := u.Clock.Now().UTC()
	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Snapshot{}, err
	}

	if err := aggregate.Delete(strings.TrimSpace(cmd.ActorID), eventID, now); err != nil {
		logger.Warn("permission delete rejected",
			"event", "permission_delete_rejected",
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
			logger.Warn("decision cache invalidate failed after delete",
				"event", "permission_cache_invalidation_failed",
				"module", "identity-access/permission-service",
				"layer", "application",
				"tenant_id", cmd.TenantID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("permission deleted",
		"event", "permission_deleted",
		"module", "identity-access/permission-service",
		"layer", "application",
		"tenant_id", cmd.TenantID,
		"permission_id", cmd.PermissionID,
	)
	return aggregate.Permission().ToSnapshot(), nil
}
