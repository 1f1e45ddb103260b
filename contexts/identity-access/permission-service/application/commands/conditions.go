package commands

import (
	"context"
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

// ConditionCommand adds or removes one condition on a permission.
type ConditionCommand struct {
	TenantID     string
	PermissionID string
	ActorID      string
	Condition    ConditionInput
}

// AddConditionUseCase appends a condition under the entity invariants.
type AddConditionUseCase struct {
	Repository    ports.Repository
	DecisionCache ports.DecisionCache
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Logger        *slog.Logger
}

func (u AddConditionUseCase) Execute(ctx context.Context, cmd ConditionCommand) (entities.Snapshot, error) {
	return executeConditionChange(ctx, conditionChange{
		repository:    u.Repository,
		decisionCache: u.DecisionCache,
		clock:         u.Clock,
		idGenerator:   u.IDGenerator,
		logger:        application.ResolveLogger(u.Logger),
		command:       cmd,
		apply: func(aggregate *aggregates.PermissionAggregate, condition valueobjects.Condition, eventID string, now time.Time) error {
			return aggregate.AddCondition(condition, eventID, now)
		},
		logEvent: "permission_condition_added",
	})
}

// RemoveConditionUseCase drops a condition under the entity invariants.
type RemoveConditionUseCase struct {
	Repository    ports.Repository
	DecisionCache ports.DecisionCache
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Logger        *slog.Logger
}

func (u RemoveConditionUseCase) Execute(ctx context.Context, cmd ConditionCommand) (entities.Snapshot, error) {
	return executeConditionChange(ctx, conditionChange{
		repository:    u.Repository,
		decisionCache: u.DecisionCache,
		clock:         u.Clock,
		idGenerator:   u.IDGenerator,
		logger:        application.ResolveLogger(u.Logger),
		command:       cmd,
		apply: func(aggregate *aggregates.PermissionAggregate, condition valueobjects.Condition, eventID string, now time.Time) error {
			return aggregate.RemoveCondition(condition, eventID, now)
		},
		logEvent: "permission_condition_removed",
	})
}

type conditionChange struct {
	repository    ports.Repository
	decisionCache ports.DecisionCache
	clock         ports.Clock
	idGenerator   ports.IDGenerator
	logger        *slog.Logger
	command       ConditionCommand
	apply         func(*aggregates.PermissionAggregate, valueobjects.Condition, string, time.Time) error
	logEvent      string
}

func executeConditionChange(ctx context.Context, change conditionChange) (entities.Snapshot, error) {
	cmd := change.command
	if strings.TrimSpace(cmd.TenantID) == "" {
		return entities.Snapshot{}, domainerrors.ErrInvalidTenantID
	}
	if strings.TrimSpace(cmd.ActorID) == "" {
		return entities.Snapshot{}, domainerrors.ErrInvalidActorID
	}

	condition, err := valueobjects.NewCondition(
		cmd.Condition.Field,
		valueobjects.ConditionOperator(cmd.Condition.Operator),
		cmd.Condition.Value,
		cmd.Condition.Description,
	)
	if err != nil {
		return entities.Snapshot{}, err
	}

	aggregate, err := loadAggregate(ctx, change.repository, cmd.TenantID, cmd.PermissionID)
	if err != nil {
		return entities.Snapshot{}, err
	}

	now := change.clock.Now().UTC()
	eventID, err := change.idGenerator.NewID(ctx)
	if err != nil {
		return entities.Snapshot{}, err
	}

	if err := change.apply(aggregate, condition, eventID, now); err != nil {
		return entities.Snapshot{}, err
	}

	outbox, err := outboxMessages(ctx, change.idGenerator, aggregate.UncommittedEvents(), now)
	if err != nil {
		return entities.Snapshot{}, err
	}
	if err := change.repository.UpdatePermission(ctx, ports.SaveInput{
		Snapshot: aggregate.Permission().ToSnapshot(),
		Outbox:   outbox,
	}); err != nil {
		return entities.Snapshot{}, err
	}
	aggregate.ClearEvents()

	if change.decisionCache != nil {
		if err := change.decisionCache.InvalidateTenant(ctx, cmd.TenantID); err != nil {
			change.logger.Warn("decision cache invalidate failed after condition change",
				"event", "permission_cache_invalidation_failed",
				"module", "identity-access/permission-service",
				"layer", "application",
				"tenant_id", cmd.TenantID,
				"error", err.Error(),
			)
		}
	}

	change.logger.Info("permission conditions changed",
		"event", change.logEvent,
		"module", "identity-access/permission-service",
		"layer", "application",
		"tenant_id", cmd.TenantID,
		"permission_id", cmd.PermissionID,
		"condition_field", condition.Field,
	)
	return aggregate.Permission().ToSnapshot(), nil
}
