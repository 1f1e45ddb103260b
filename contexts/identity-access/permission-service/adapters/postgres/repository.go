package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"atlas/contexts/identity-access/permission-service/domain/entities"
	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
	"atlas/contexts/identity-access/permission-service/domain/valueobjects"
	"atlas/contexts/identity-access/permission-service/ports"
	"atlas/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) GetPermission(ctx context.Context, tenantID string, permissionID string) (entities.Snapshot, error) {
	var row permissionModel
	err := r.db.WithContext(ctx).
		Where("permission_id = ? AND tenant_id = ?", strings.TrimSpace(permissionID), strings.TrimSpace(tenantID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Snapshot{}, domainerrors.ErrPermissionNotFound
		}
		return entities.Snapshot{}, err
	}
	return row.toSnapshot()
}

func (r *Repository) ListPermissions(ctx context.Context, filter ports.ListFilter) ([]entities.Snapshot, int, error) {
	tx := r.db.WithContext(ctx).Model(&permissionModel{}).
		Where("tenant_id = ?", strings.TrimSpace(filter.TenantID))
	if strings.TrimSpace(filter.Resource) != "" {
		tx = tx.Where("resource = ?", strings.TrimSpace(filter.Resource))
	}
	if strings.TrimSpace(filter.Action) != "" {
		tx = tx.Where("action = ?", strings.TrimSpace(filter.Action))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var rows []permissionModel
	if err := tx.Order("created_at DESC, permission_id ASC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	items := make([]entities.Snapshot, 0, len(rows))
	for _, row := range rows {
		snapshot, err := row.toSnapshot()
		if err != nil {
			return nil, 0, err
		}
		items = append(items, snapshot)
	}
	return items, int(total), nil
}

func (r *Repository) ListMatchCandidates(ctx context.Context, tenantID string, resource string, action string) ([]entities.Snapshot, error) {
	// Coarse candidate selection only; the domain matcher applies the
	// sub-resource and action semantics.
	var rows []permissionModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", strings.TrimSpace(tenantID), string(entities.StatusActive)).
		Where("resource = ? OR ? LIKE resource || '.%'", strings.TrimSpace(resource), strings.TrimSpace(resource)).
		Order("permission_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.Snapshot, 0, len(rows))
	for _, row := range rows {
		snapshot, err := row.toSnapshot()
		if err != nil {
			return nil, err
		}
		items = append(items, snapshot)
	}
	return items, nil
}

func (r *Repository) CreatePermission(ctx context.Context, input ports.SaveInput) error {
	row, err := permissionModelFromSnapshot(input.Snapshot)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrInvalidPermission
			}
			return err
		}
		return insertOutboxRowsTx(tx, input.Outbox)
	})
}

func (r *Repository) UpdatePermission(ctx context.Context, input ports.SaveInput) error {
	row, err := permissionModelFromSnapshot(input.Snapshot)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&permissionModel{}).
			Where("permission_id = ? AND tenant_id = ?", row.PermissionID, row.TenantID).
			Updates(permissionUpdates(row))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrPermissionNotFound
		}
		return insertOutboxRowsTx(tx, input.Outbox)
	})
}

func (r *Repository) GetRecord(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}

	if !row.ExpiresAt.IsZero() && now.UTC().After(row.ExpiresAt.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("key = ?", strings.TrimSpace(key)).
			Delete(&idempotencyModel{}).
			Error; err != nil {
			return ports.IdempotencyRecord{}, false, err
		}
		return ports.IdempotencyRecord{}, false, nil
	}

	return ports.IdempotencyRecord{
		Key:             row.Key,
		Operation:       row.Operation,
		RequestHash:     row.RequestHash,
		ResponsePayload: append([]byte(nil), row.ResponsePayload...),
		ExpiresAt:       row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) PutRecord(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:             strings.TrimSpace(record.Key),
		Operation:       strings.TrimSpace(record.Operation),
		RequestHash:     record.RequestHash,
		ResponsePayload: append([]byte(nil), record.ResponsePayload...),
		ExpiresAt:       record.ExpiresAt.UTC(),
	}
	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing idempotencyModel
	if err := r.db.WithContext(ctx).
		Where("key = ?", row.Key).
		First(&existing).
		Error; err != nil {
		return err
	}
	if existing.RequestHash != row.RequestHash || !bytes.Equal(existing.ResponsePayload, row.ResponsePayload) {
		return domainerrors.ErrIdempotencyConflict
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   append([]byte(nil), row.Payload...),
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outbox.StatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrPermissionNotFound
	}
	return nil
}

func insertOutboxRowsTx(tx *gorm.DB, messages []ports.OutboxMessage) error {
	for _, message := range messages {
		row := outboxModel{
			OutboxID:  strings.TrimSpace(message.OutboxID),
			EventType: strings.TrimSpace(message.EventType),
			Payload:   append([]byte(nil), message.Payload...),
			Status:    outbox.StatusPending,
			CreatedAt: message.CreatedAt.UTC(),
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = time.Now().UTC()
		}
		createResult := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).Create(&row)
		if createResult.Error != nil {
			return createResult.Error
		}
		if createResult.RowsAffected == 0 {
			var existing outboxModel
			if err := tx.Select("payload").Where("outbox_id = ?", row.OutboxID).First(&existing).Error; err != nil {
				return err
			}
			if !bytes.Equal(existing.Payload, row.Payload) {
				return domainerrors.ErrIdempotencyConflict
			}
		}
	}
	return nil
}

type permissionModel struct {
	PermissionID        string     `gorm:"column:permission_id;primaryKey"`
	TenantID            string     `gorm:"column:tenant_id"`
	Resource            string     `gorm:"column:resource"`
	Action              string     `gorm:"column:action"`
	Conditions          []byte     `gorm:"column:conditions;type:jsonb"`
	ScopeLevel          string     `gorm:"column:scope_level"`
	ScopeTenantID       string     `gorm:"column:scope_tenant_id"`
	ScopeOrganizationID string     `gorm:"column:scope_organization_id"`
	ScopeDepartmentID   string     `gorm:"column:scope_department_id"`
	ScopeUserID         string     `gorm:"column:scope_user_id"`
	PermissionType      string     `gorm:"column:permission_type"`
	IsSystemPermission  bool       `gorm:"column:is_system_permission"`
	IsDefaultPermission bool       `gorm:"column:is_default_permission"`
	CanBeDeleted        bool       `gorm:"column:can_be_deleted"`
	CanBeModified       bool       `gorm:"column:can_be_modified"`
	RequiresApproval    bool       `gorm:"column:requires_approval"`
	IsSensitive         bool       `gorm:"column:is_sensitive"`
	MaxUsageCount       *int       `gorm:"column:max_usage_count"`
	ExpiresAt           *time.Time `gorm:"column:expires_at"`
	EffectiveFrom       *time.Time `gorm:"column:effective_from"`
	EffectiveTo         *time.Time `gorm:"column:effective_to"`
	Status              string     `gorm:"column:status"`
	Description         string     `gorm:"column:description"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
	CreatedBy           string     `gorm:"column:created_by"`
	Version             int        `gorm:"column:version"`
}

func (permissionModel) TableName() string {
	return "permissions"
}

func permissionModelFromSnapshot(snapshot entities.Snapshot) (permissionModel, error) {
	conditions, err := json.Marshal(snapshot.Conditions)
	if err != nil {
		return permissionModel{}, err
	}
	return permissionModel{
		PermissionID:        strings.TrimSpace(snapshot.PermissionID),
		TenantID:            strings.TrimSpace(snapshot.TenantID),
		Resource:            snapshot.Resource,
		Action:              snapshot.Action,
		Conditions:          conditions,
		ScopeLevel:          string(snapshot.Scope.Level),
		ScopeTenantID:       snapshot.Scope.TenantID,
		ScopeOrganizationID: snapshot.Scope.OrganizationID,
		ScopeDepartmentID:   snapshot.Scope.DepartmentID,
		ScopeUserID:         snapshot.Scope.UserID,
		PermissionType:      snapshot.Type,
		IsSystemPermission:  snapshot.Settings.IsSystemPermission,
		IsDefaultPermission: snapshot.Settings.IsDefaultPermission,
		CanBeDeleted:        snapshot.Settings.CanBeDeleted,
		CanBeModified:       snapshot.Settings.CanBeModified,
		RequiresApproval:    snapshot.Settings.RequiresApproval,
		IsSensitive:         snapshot.Settings.IsSensitive,
		MaxUsageCount:       copyOptionalInt(snapshot.Settings.MaxUsageCount),
		ExpiresAt:           normalizeOptionalTime(snapshot.Settings.ExpiresAt),
		EffectiveFrom:       normalizeOptionalTime(snapshot.Settings.EffectiveFrom),
		EffectiveTo:         normalizeOptionalTime(snapshot.Settings.EffectiveTo),
		Status:              snapshot.Status,
		Description:         snapshot.Description,
		CreatedAt:           snapshot.CreatedAt.UTC(),
		UpdatedAt:           snapshot.UpdatedAt.UTC(),
		CreatedBy:           strings.TrimSpace(snapshot.CreatedBy),
		Version:             snapshot.Version,
	}, nil
}

func permissionUpdates(row permissionModel) map[string]any {
	return map[string]any{
		"resource":              row.Resource,
		"action":                row.Action,
		"conditions":            row.Conditions,
		"scope_level":           row.ScopeLevel,
		"scope_tenant_id":       row.ScopeTenantID,
		"scope_organization_id": row.ScopeOrganizationID,
		"scope_department_id":   row.ScopeDepartmentID,
		"scope_user_id":         row.ScopeUserID,
		"permission_type":       row.PermissionType,
		"is_system_permission":  row.IsSystemPermission,
		"is_default_permission": row.IsDefaultPermission,
		"can_be_deleted":        row.CanBeDeleted,
		"can_be_modified":       row.CanBeModified,
		"requires_approval":     row.RequiresApproval,
		"is_sensitive":          row.IsSensitive,
		"max_usage_count":       row.MaxUsageCount,
		"expires_at":            row.ExpiresAt,
		"effective_from":        row.EffectiveFrom,
		"effective_to":          row.EffectiveTo,
		"status":                row.Status,
		"description":           row.Description,
		"updated_at":            row.UpdatedAt,
		"version":               row.Version,
	}
}

func (m permissionModel) toSnapshot() (entities.Snapshot, error) {
	var conditions []entities.ConditionSnapshot
	if len(m.Conditions) > 0 {
		if err := json.Unmarshal(m.Conditions, &conditions); err != nil {
			return entities.Snapshot{}, err
		}
	}
	return entities.Snapshot{
		PermissionID: m.PermissionID,
		TenantID:     m.TenantID,
		Resource:     m.Resource,
		Action:       m.Action,
		Conditions:   conditions,
		Scope: valueobjects.Scope{
			Level:          valueobjects.ScopeLevel(m.ScopeLevel),
			TenantID:       m.ScopeTenantID,
			OrganizationID: m.ScopeOrganizationID,
			DepartmentID:   m.ScopeDepartmentID,
			UserID:         m.ScopeUserID,
		},
		Type: m.PermissionType,
		Settings: valueobjects.Settings{
			IsSystemPermission:  m.IsSystemPermission,
			IsDefaultPermission: m.IsDefaultPermission,
			CanBeDeleted:        m.CanBeDeleted,
			CanBeModified:       m.CanBeModified,
			RequiresApproval:    m.RequiresApproval,
			IsSensitive:         m.IsSensitive,
			MaxUsageCount:       copyOptionalInt(m.MaxUsageCount),
			ExpiresAt:           normalizeOptionalTime(m.ExpiresAt),
			EffectiveFrom:       normalizeOptionalTime(m.EffectiveFrom),
			EffectiveTo:         normalizeOptionalTime(m.EffectiveTo),
		},
		Status:      m.Status,
		Description: m.Description,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
		CreatedBy:   m.CreatedBy,
		Version:     m.Version,
	}, nil
}

type idempotencyModel struct {
	Key             string    `gorm:"column:key;primaryKey"`
	Operation       string    `gorm:"column:operation"`
	RequestHash     string    `gorm:"column:request_hash"`
	ResponsePayload []byte    `gorm:"column:response_payload"`
	ExpiresAt       time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "permission_idempotency"
}

type outboxModel struct {
	OutboxID    string     `gorm:"column:outbox_id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "permission_outbox"
}

func copyOptionalInt(value *int) *int {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
