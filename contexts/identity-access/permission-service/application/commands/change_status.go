package commands

import (
	"context"
	"log/slog"
	"strings"

	application "atlas/contexts/identity-access/permission-service/application"
	"atlas/contexts/identity-access/permission-service/domain/aggregates"
	"atlas/contexts/identity-access/permission-service/domain/entities"
	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
	"atlas/contexts/identity-access/permission-service/ports"
)

// ChangeStatusCommand runs one lifecycle operation against a permission.
type ChangeStatusCommand struct {
	TenantID     string
	PermissionID string
	ActorID      string
	Action       aggregates.StatusAction
	Reason       string
}

// ChangeStatusUseCase guards FSM transitions and persists the outcome.
type ChangeStatusUseCase struct {
	Repository    ports.Repository
	DecisionCache ports.DecisionCache
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Logger        *slog.Logger
}

func (u ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) (entities.Snapshot, error) {
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

	from := aggregate.Permission().Status
	if err := aggregate.ChangeStatus(cmd.Action, strings.TrimSpace(cmd.ActorID), eventID, now); err != nil {
		logger.Warn("permission status change rejected",
			"event", "permission_status_change_rejected",
			"module", "identity-access/permission-service",
			"layer", "application",
			"tenant_id", cmd.TenantID,
			"permission_id", cmd.PermissionID,
			"action", string(cmd.Action),
			"from_status", string(from),
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
			logger.Warn("decision cache invalidate failed after status change",
				"event", "permission_cache_invalidation_failed",
				"module", "identity-access/permission-service",
				"layer", "application",
				"tenant_id", cmd.TenantID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("permission status changed",
		"event", "permission_status_changed",
		"module", "identity-access/permission-service",
		"layer", "application",
		"tenant_id", cmd.TenantID,
		"permission_id", cmd.PermissionID,
		"from_status", string(from),
		"to_status", string(aggregate.Permission().Status),
	)
	return aggregate.Permission().ToSnapshot(), nil
}
