package permission

import (
	"log/slog"
	"time"

	httpadapter "atlas/contexts/identity-access/permission-service/adapters/http"
	"atlas/contexts/identity-access/permission-service/adapters/memory"
	"atlas/contexts/identity-access/permission-service/application/commands"
	"atlas/contexts/identity-access/permission-service/application/queries"
	"atlas/contexts/identity-access/permission-service/application/workers"
	"atlas/contexts/identity-access/permission-service/ports"
)

// Module is the permission-service composition root exposed to runtime wiring.
type Module struct {
	Handler     httpadapter.Handler
	OutboxRelay workers.OutboxRelay
	Store       *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository      ports.Repository
	Idempotency     ports.IdempotencyStore
	DecisionCache   ports.DecisionCache
	Outbox          ports.OutboxRepository
	Publisher       ports.EventPublisher
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	IdempotencyTTL  time.Duration
	DecisionTTL     time.Duration
	OutboxBatchSize int
	Logger          *slog.Logger
}

// NewModule wires permission use-cases and transport handler using explicit
// ports.
func NewModule(deps Dependencies) Module {
	createPermission := commands.CreatePermissionUseCase{
		Repository:     deps.Repository,
		Idempotency:    deps.Idempotency,
		DecisionCache:  deps.DecisionCache,
		Clock:          deps.Clock,
		IDGenerator:    deps.IDGenerator,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	updatePermission := commands.UpdatePermissionUseCase{
		Repository:    deps.Repository,
		DecisionCache: deps.DecisionCache,
		Clock:         deps.Clock,
		IDGenerator:   deps.IDGenerator,
		Logger:        deps.Logger,
	}
	changeStatus := commands.ChangeStatusUseCase{
		Repository:    deps.Repository,
		DecisionCache: deps.DecisionCache,
		Clock:         deps.Clock,
		IDGenerator:   deps.IDGenerator,
		Logger:        deps.Logger,
	}
	deletePermission := commands.DeletePermissionUseCase{
		Repository:    deps.Repository,
		DecisionCache: deps.DecisionCache,
		Clock:         deps.Clock,
		IDGenerator:   deps.IDGenerator,
		Logger:        deps.Logger,
	}
	addCondition := commands.AddConditionUseCase{
		Repository:    deps.Repository,
		DecisionCache: deps.DecisionCache,
		Clock:         deps.Clock,
		IDGenerator:   deps.IDGenerator,
		Logger:        deps.Logger,
	}
	removeCondition := commands.RemoveConditionUseCase{
		Repository:    deps.Repository,
		DecisionCache: deps.DecisionCache,
		Clock:         deps.Clock,
		IDGenerator:   deps.IDGenerator,
		Logger:        deps.Logger,
	}
	checkAccess := queries.CheckAccessUseCase{
		Repository:       deps.Repository,
		DecisionCache:    deps.DecisionCache,
		Clock:            deps.Clock,
		DecisionCacheTTL: deps.DecisionTTL,
		Logger:           deps.Logger,
	}
	getPermission := queries.GetPermissionUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}
	listPermissions := queries.ListPermissionsUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}

	handler := httpadapter.Handler{
		CreatePermission: createPermission,
		UpdatePermission: updatePermission,
		ChangeStatus:     changeStatus,
		DeletePermission: deletePermission,
		AddCondition:     addCondition,
		RemoveCondition:  removeCondition,
		CheckAccess:      checkAccess,
		GetPermission:    getPermission,
		ListPermissions:  listPermissions,
		Logger:           deps.Logger,
	}

	relay := workers.OutboxRelay{
		Outbox:    deps.Outbox,
		Publisher: deps.Publisher,
		Clock:     deps.Clock,
		BatchSize: deps.OutboxBatchSize,
		Logger:    deps.Logger,
	}

	return Module{
		Handler:     handler,
		OutboxRelay: relay,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore(nil)
	module := NewModule(Dependencies{
		Repository:      store,
		Idempotency:     store,
		DecisionCache:   store,
		Outbox:          store,
		Publisher:       store,
		Clock:           store,
		IDGenerator:     store,
		IdempotencyTTL:  7 * 24 * time.Hour,
		DecisionTTL:     5 * time.Minute,
		OutboxBatchSize: 100,
		Logger:          logger,
	})
	module.Store = store
	return module
}
