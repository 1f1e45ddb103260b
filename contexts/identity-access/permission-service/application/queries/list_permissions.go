package queries

import (
	"context"
	"log/slog"
	"strings"

	"atlas/contexts/identity-access/permission-service/domain/entities"
	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
	"atlas/contexts/identity-access/permission-service/ports"
)

// ListPermissionsQuery pages through a tenant's permissions.
type ListPermissionsQuery struct {
	TenantID string
	Resource string
	Action   string
	Status   string
	Limit    int
	Offset   int
}

// ListPermissionsResult carries one page and the unfiltered total.
type ListPermissionsResult struct {
	Items []entities.Snapshot
	Total int
}

type ListPermissionsUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (u ListPermissionsUseCase) Execute(ctx context.Context, query ListPermissionsQuery) (ListPermissionsResult, error) {
	if strings.TrimSpace(query.TenantID) == "" {
		return ListPermissionsResult{}, domainerrors.ErrInvalidTenantID
	}

	limit := query.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	items, total, err := u.Repository.ListPermissions(ctx, ports.ListFilter{
		TenantID: strings.TrimSpace(query.TenantID),
		Resource: strings.TrimSpace(query.Resource),
		Action:   strings.TrimSpace(query.Action),
		Status:   strings.TrimSpace(query.Status),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return ListPermissionsResult{}, err
	}
	return ListPermissionsResult{Items: items, Total: total}, nil
}
