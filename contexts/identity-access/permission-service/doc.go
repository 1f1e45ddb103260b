// Package permission implements the Permission Service inside Atlas.
//
// Layering:
// - domain: value objects, entities, aggregates, events, invariants, errors
// - application: commands/queries/workers using explicit ports
// - ports: stable boundaries for persistence/cache/outbox/events
// - adapters: concrete HTTP, memory, postgres, redis, and event publisher implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Keep this module self-contained under identity-access context.
// - Do not import other context adapters into domain/application.
// - Access checks never fail open: a broken policy store denies by default.
package permission
