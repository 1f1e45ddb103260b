package queries

import (
	"context"
	"log/slog"
	"strings"

	"atlas/contexts/identity-access/permission-service/domain/entities"
	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
	"atlas/contexts/identity-access/permission-service/ports"
)

// GetPermissionQuery fetches one permission by identity.
type GetPermissionQuery struct {
	TenantID     string
	PermissionID string
}

type GetPermissionUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (u GetPermissionUseCase) Execute(ctx context.Context, query GetPermissionQuery) (entities.Snapshot, error) {
	if strings.TrimSpace(query.TenantID) == "" {
		return entities.Snapshot{}, domainerrors.ErrInvalidTenantID
	}
	if strings.TrimSpace(query.PermissionID) == "" {
		return entities.Snapshot{}, domainerrors.ErrPermissionNotFound
	}
	return u.Repository.GetPermission(ctx, query.TenantID, query.PermissionID)
}
