package memory

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"atlas/contexts/identity-access/permission-service/domain/entities"
	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
	"atlas/contexts/identity-access/permission-service/ports"

	"github.com/google/uuid"
)

type cachedDecision struct {
	decision  entities.AccessDecision
	expiresAt time.Time
}

type publishedEvent struct {
	Topic string
	Event ports.EventEnvelope
}

// Store backs every permission-service port for tests and local runs.
type Store struct {
	mu sync.RWMutex

	permissions map[string]entities.Snapshot
	outbox      []ports.OutboxMessage
	decisions   map[string]cachedDecision
	idempotency map[string]ports.IdempotencyRecord
	published   []publishedEvent
}

func NewStore(seed []entities.Snapshot) *Store {
	permissions := make(map[string]entities.Snapshot, len(seed))
	for _, item := range seed {
		permissions[item.PermissionID] = item
	}
	return &Store{
		permissions: permissions,
		outbox:      make([]ports.OutboxMessage, 0),
		decisions:   make(map[string]cachedDecision),
		idempotency: make(map[string]ports.IdempotencyRecord),
		published:   make([]publishedEvent, 0),
	}
}

func (s *Store) GetPermission(_ context.Context, tenantID string, permissionID string) (entities.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.permissions[strings.TrimSpace(permissionID)]
	if !exists || item.TenantID != strings.TrimSpace(tenantID) {
		return entities.Snapshot{}, domainerrors.ErrPermissionNotFound
	}
	return item, nil
}

func (s *Store) ListPermissions(_ context.Context, filter ports.ListFilter) ([]entities.Snapshot, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]entities.Snapshot, 0, len(s.permissions))
	for _, item := range s.permissions {
		if item.TenantID != filter.TenantID {
			continue
		}
		if filter.Resource != "" && item.Resource != filter.Resource {
			continue
		}
		if filter.Action != "" && item.Action != filter.Action {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		matched = append(matched, item)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].PermissionID < matched[j].PermissionID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	offset := filter.Offset
	if offset > total {
		offset = total
	}
	end := total
	if filter.Limit > 0 && offset+filter.Limit < end {
		end = offset + filter.Limit
	}
	return matched[offset:end], total, nil
}

func (s *Store) ListMatchCandidates(_ context.Context, tenantID string, resource string, action string) ([]entities.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Snapshot, 0)
	for _, item := range s.permissions {
		if item.TenantID != strings.TrimSpace(tenantID) {
			continue
		}
		if item.Status != string(entities.StatusActive) {
			continue
		}
		if !resourceMatches(item.Resource, resource) {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].PermissionID < items[j].PermissionID
	})
	return items, nil
}

// resourceMatches keeps candidate selection coarse: the domain matcher has
// the final say, the store only trims obvious non-matches.
func resourceMatches(stored string, requested string) bool {
	if stored == requested {
		return true
	}
	return strings.HasPrefix(requested, stored+".")
}

func (s *Store) CreatePermission(_ context.Context, input ports.SaveInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.permissions[input.Snapshot.PermissionID]; exists {
		return domainerrors.ErrInvalidPermission
	}
	s.permissions[input.Snapshot.PermissionID] = input.Snapshot
	s.outbox = append(s.outbox, input.Outbox...)
	return nil
}

func (s *Store) UpdatePermission(_ context.Context, input ports.SaveInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.permissions[input.Snapshot.PermissionID]; !exists {
		return domainerrors.ErrPermissionNotFound
	}
	s.permissions[input.Snapshot.PermissionID] = input.Snapshot
	s.outbox = append(s.outbox, input.Outbox...)
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.outbox) {
		limit = len(s.outbox)
	}
	items := make([]ports.OutboxMessage, limit)
	copy(items, s.outbox[:limit])
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, row := range s.outbox {
		if row.OutboxID == outboxID {
			s.outbox = append(s.outbox[:i], s.outbox[i+1:]...)
			return nil
		}
	}
	return domainerrors.ErrPermissionNotFound
}

func (s *Store) Get(_ context.Context, key string, now time.Time) (entities.AccessDecision, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cached, exists := s.decisions[key]
	if !exists {
		return entities.AccessDecision{}, false, nil
	}
	if !cached.expiresAt.After(now) {
		delete(s.decisions, key)
		return entities.AccessDecision{}, false, nil
	}
	return cached.decision, true, nil
}

func (s *Store) Set(_ context.Context, key string, decision entities.AccessDecision, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.decisions[key] = cachedDecision{decision: decision, expiresAt: expiresAt}
	return nil
}

func (s *Store) InvalidateTenant(_ context.Context, tenantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := "permission_decision:" + strings.TrimSpace(tenantID) + ":"
	for key := range s.decisions {
		if strings.HasPrefix(key, prefix) {
			delete(s.decisions, key)
		}
	}
	return nil
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.idempotency[key]
	if !exists {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.After(now) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.idempotency[record.Key]
	if exists {
		if existing.RequestHash != record.RequestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		if !bytes.Equal(existing.ResponsePayload, record.ResponsePayload) {
			return domainerrors.ErrIdempotencyConflict
		}
	}
	s.idempotency[record.Key] = record
	return nil
}

func (s *Store) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.published = append(s.published, publishedEvent{Topic: topic, Event: event})
	return nil
}

// PublishedEvents exposes everything relayed so far, oldest first.
func (s *Store) PublishedEvents() []ports.EventEnvelope {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.EventEnvelope, 0, len(s.published))
	for _, row := range s.published {
		items = append(items, row.Event)
	}
	return items
}

// PendingOutboxCount reports rows the relay has not published yet.
func (s *Store) PendingOutboxCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.outbox)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
