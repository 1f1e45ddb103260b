package commands

import (
	"context"

	"atlas/contexts/identity-access/permission-service/domain/aggregates"
	"atlas/contexts/identity-access/permission-service/ports"
)

func loadAggregate(
	ctx context.Context,
	repository ports.Repository,
	tenantID string,
	permissionID string,
) (*aggregates.PermissionAggregate, error) {
	snapshot, err := repository.GetPermission(ctx, tenantID, permissionID)
	if err != nil {
		return nil, err
	}
	permission, err := aggregates.FromSnapshot(snapshot)
	if err != nil {
		return nil, err
	}
	return permission, nil
}
