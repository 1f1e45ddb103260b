package ports

import (
	"context"
	"time"

	"atlas/contexts/identity-access/permission-service/domain/entities"
	contractsv1 "atlas/contracts/gen/events/v1"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for entities, events and outbox rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// IdempotencyRecord stores request hash and previous response payload.
type IdempotencyRecord struct {
	Key             string
	Operation       string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

// IdempotencyStore guarantees replay/conflict behavior for mutating
// operations.
type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

// ListFilter narrows permission listings.
type ListFilter struct {
	TenantID string
	Resource string
	Action   string
	Status   string
	Limit    int
	Offset   int
}

// SaveInput persists a permission snapshot atomically with the outbox rows
// produced by the same command.
type SaveInput struct {
	Snapshot entities.Snapshot
	Outbox   []OutboxMessage
}

// Repository is the write/read boundary for permission state.
type Repository interface {
	GetPermission(ctx context.Context, tenantID string, permissionID string) (entities.Snapshot, error)
	ListPermissions(ctx context.Context, filter ListFilter) ([]entities.Snapshot, int, error)
	ListMatchCandidates(ctx context.Context, tenantID string, resource string, action string) ([]entities.Snapshot, error)
	CreatePermission(ctx context.Context, input SaveInput) error
	UpdatePermission(ctx context.Context, input SaveInput) error
}

// DecisionCache stores access decisions with TTL semantics. Keys embed the
// tenant so a tenant-wide invalidation can drop every cached decision after
// a policy change.
type DecisionCache interface {
	Get(ctx context.Context, key string, now time.Time) (entities.AccessDecision, bool, error)
	Set(ctx context.Context, key string, decision entities.AccessDecision, expiresAt time.Time) error
	InvalidateTenant(ctx context.Context, tenantID string) error
}

// OutboxMessage represents a pending relay message.
type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxRepository supports worker relay polling and acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// EventPublisher emits permission events to the event bus adapter.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
