package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"atlas/contexts/identity-access/permission-service/application/commands"
	"atlas/contexts/identity-access/permission-service/application/queries"
	"atlas/contexts/identity-access/permission-service/domain/aggregates"
	"atlas/contexts/identity-access/permission-service/domain/entities"
	httptransport "atlas/contexts/identity-access/permission-service/transport/http"
)

type Handler struct {
	CreatePermission commands.CreatePermissionUseCase
	UpdatePermission commands.UpdatePermissionUseCase
	ChangeStatus     commands.ChangeStatusUseCase
	DeletePermission commands.DeletePermissionUseCase
	AddCondition     commands.AddConditionUseCase
	RemoveCondition  commands.RemoveConditionUseCase
	CheckAccess      queries.CheckAccessUseCase
	GetPermission    queries.GetPermissionUseCase
	ListPermissions  queries.ListPermissionsUseCase
	Logger           *slog.Logger
}

func (h Handler) CreatePermissionHandler(
	ctx context.Context,
	tenantID string,
	actorID string,
	idempotencyKey string,
	req httptransport.CreatePermissionRequest,
) (httptransport.CreatePermissionResponse, error) {
	settings := commands.SettingsInput{CanBeDeleted: true, CanBeModified: true}
	if req.Settings != nil {
		settings = settingsInputFromDTO(*req.Settings)
	}
	result, err := h.CreatePermission.Execute(ctx, commands.CreatePermissionCommand{
		IdempotencyKey: idempotencyKey,
		TenantID:       tenantID,
		ActorID:        actorID,
		Resource:       req.Resource,
		Action:         req.Action,
		Conditions:     conditionInputsFromDTO(req.Conditions),
		Scope:          scopeInputFromDTO(req.Scope),
		Type:           req.Type,
		Settings:       settings,
		Description:    req.Description,
	})
	if err != nil {
		return httptransport.CreatePermissionResponse{}, err
	}
	return httptransport.CreatePermissionResponse{
		Permission: mapPermission(result.Permission),
		Replayed:   result.Replayed,
	}, nil
}

func (h Handler) UpdatePermissionHandler(
	ctx context.Context,
	tenantID string,
	actorID string,
	permissionID string,
	req httptransport.UpdatePermissionRequest,
) (httptransport.PermissionResponse, error) {
	snapshot, err := h.UpdatePermission.Execute(ctx, commands.UpdatePermissionCommand{
		TenantID:     tenantID,
		PermissionID: permissionID,
		ActorID:      actorID,
		Resource:     req.Resource,
		Action:       req.Action,
		Conditions:   conditionInputsFromDTO(req.Conditions),
		Scope:        scopeInputFromDTO(req.Scope),
	})
	if err != nil {
		return httptransport.PermissionResponse{}, err
	}
	return httptransport.PermissionResponse{Permission: mapPermission(snapshot)}, nil
}

func (h Handler) ChangeStatusHandler(
	ctx context.Context,
	tenantID string,
	actorID string,
	permissionID string,
	action string,
	req httptransport.StatusActionRequest,
) (httptransport.PermissionResponse, error) {
	snapshot, err := h.ChangeStatus.Execute(ctx, commands.ChangeStatusCommand{
		TenantID:     tenantID,
		PermissionID: permissionID,
		ActorID:      actorID,
		Action:       aggregates.StatusAction(action),
		Reason:       req.Reason,
	})
	if err != nil {
		return httptransport.PermissionResponse{}, err
	}
	return httptransport.PermissionResponse{Permission: mapPermission(snapshot)}, nil
}

func (h Handler) DeletePermissionHandler(
	ctx context.Context,
	tenantID string,
	actorID string,
	permissionID string,
	req httptransport.DeletePermissionRequest,
) (httptransport.PermissionResponse, error) {
	snapshot, err := h.DeletePermission.Execute(ctx, commands.DeletePermissionCommand{
		TenantID:     tenantID,
		PermissionID: permissionID,
		ActorID:      actorID,
		Reason:       req.Reason,
	})
	if err != nil {
		return httptransport.PermissionResponse{}, err
	}
	return httptransport.PermissionResponse{Permission: mapPermission(snapshot)}, nil
}

func (h Handler) AddConditionHandler(
	ctx context.Context,
	tenantID string,
	actorID string,
	permissionID string,
	req httptransport.ConditionRequest,
) (httptransport.PermissionResponse, error) {
	snapshot, err := h.AddCondition.Execute(ctx, commands.ConditionCommand{
		TenantID:     tenantID,
		PermissionID: permissionID,
		ActorID:      actorID,
		Condition:    conditionInputFromDTO(req.Condition),
	})
	if err != nil {
		return httptransport.PermissionResponse{}, err
	}
	return httptransport.PermissionResponse{Permission: mapPermission(snapshot)}, nil
}

func (h Handler) RemoveConditionHandler(
	ctx context.Context,
	tenantID string,
	actorID string,
	permissionID string,
	req httptransport.ConditionRequest,
) (httptransport.PermissionResponse, error) {
	snapshot, err := h.RemoveCondition.Execute(ctx, commands.ConditionCommand{
		TenantID:     tenantID,
		PermissionID: permissionID,
		ActorID:      actorID,
		Condition:    conditionInputFromDTO(req.Condition),
	})
	if err != nil {
		return httptransport.PermissionResponse{}, err
	}
	return httptransport.PermissionResponse{Permission: mapPermission(snapshot)}, nil
}

func (h Handler) CheckAccessHandler(
	ctx context.Context,
	tenantID string,
	req httptransport.CheckAccessRequest,
) (httptransport.CheckAccessResponse, error) {
	decision, err := h.CheckAccess.Execute(ctx, queries.CheckAccessQuery{
		TenantID: tenantID,
		Resource: req.Resource,
		Action:   req.Action,
		Scope: queries.ScopeInput{
			Level:          req.Scope.Level,
			TenantID:       req.Scope.TenantID,
			OrganizationID: req.Scope.OrganizationID,
			DepartmentID:   req.Scope.DepartmentID,
			UserID:         req.Scope.UserID,
		},
		Context: req.Context,
	})
	if err != nil {
		return httptransport.CheckAccessResponse{}, err
	}
	return httptransport.CheckAccessResponse{
		Allowed:      decision.Allowed,
		Reason:       decision.Reason,
		PermissionID: decision.PermissionID,
		CheckedAt:    decision.CheckedAt.Format(time.RFC3339),
		CacheHit:     decision.CacheHit,
	}, nil
}

func (h Handler) GetPermissionHandler(
	ctx context.Context,
	tenantID string,
	permissionID string,
) (httptransport.PermissionResponse, error) {
	snapshot, err := h.GetPermission.Execute(ctx, queries.GetPermissionQuery{
		TenantID:     tenantID,
		PermissionID: permissionID,
	})
	if err != nil {
		return httptransport.PermissionResponse{}, err
	}
	return httptransport.PermissionResponse{Permission: mapPermission(snapshot)}, nil
}

func (h Handler) ListPermissionsHandler(
	ctx context.Context,
	tenantID string,
	resource string,
	action string,
	status string,
	limit int,
	offset int,
) (httptransport.ListPermissionsResponse, error) {
	result, err := h.ListPermissions.Execute(ctx, queries.ListPermissionsQuery{
		TenantID: tenantID,
		Resource: resource,
		Action:   action,
		Status:   status,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return httptransport.ListPermissionsResponse{}, err
	}
	items := make([]httptransport.PermissionDTO, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, mapPermission(item))
	}
	return httptransport.ListPermissionsResponse{Items: items, Total: result.Total}, nil
}

func mapPermission(snapshot entities.Snapshot) httptransport.PermissionDTO {
	conditions := make([]httptransport.ConditionDTO, 0, len(snapshot.Conditions))
	for _, condition := range snapshot.Conditions {
		conditions = append(conditions, httptransport.ConditionDTO{
			Field:       condition.Field,
			Operator:    condition.Operator,
			Value:       condition.Value,
			Description: condition.Description,
		})
	}
	return httptransport.PermissionDTO{
		PermissionID: snapshot.PermissionID,
		TenantID:     snapshot.TenantID,
		Resource:     snapshot.Resource,
		Action:       snapshot.Action,
		Conditions:   conditions,
		Scope: httptransport.ScopeDTO{
			Level:          string(snapshot.Scope.Level),
			TenantID:       snapshot.Scope.TenantID,
			OrganizationID: snapshot.Scope.OrganizationID,
			DepartmentID:   snapshot.Scope.DepartmentID,
			UserID:         snapshot.Scope.UserID,
		},
		Type: snapshot.Type,
		Settings: httptransport.SettingsDTO{
			IsSystemPermission:  snapshot.Settings.IsSystemPermission,
			IsDefaultPermission: snapshot.Settings.IsDefaultPermission,
			CanBeDeleted:        snapshot.Settings.CanBeDeleted,
			CanBeModified:       snapshot.Settings.CanBeModified,
			RequiresApproval:    snapshot.Settings.RequiresApproval,
			IsSensitive:         snapshot.Settings.IsSensitive,
			MaxUsageCount:       snapshot.Settings.MaxUsageCount,
			ExpiresAt:           snapshot.Settings.ExpiresAt,
			EffectiveFrom:       snapshot.Settings.EffectiveFrom,
			EffectiveTo:         snapshot.Settings.EffectiveTo,
		},
		Status:      snapshot.Status,
		Description: snapshot.Description,
		CreatedAt:   snapshot.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   snapshot.UpdatedAt.Format(time.RFC3339),
		CreatedBy:   snapshot.CreatedBy,
		Version:     snapshot.Version,
	}
}

func conditionInputFromDTO(dto httptransport.ConditionDTO) commands.ConditionInput {
	return commands.ConditionInput{
		Field:       dto.Field,
		Operator:    dto.Operator,
		Value:       dto.Value,
		Description: dto.Description,
	}
}

func conditionInputsFromDTO(dtos []httptransport.ConditionDTO) []commands.ConditionInput {
	inputs := make([]commands.ConditionInput, 0, len(dtos))
	for _, dto := range dtos {
		inputs = append(inputs, conditionInputFromDTO(dto))
	}
	return inputs
}

func scopeInputFromDTO(dto httptransport.ScopeDTO) commands.ScopeInput {
	return commands.ScopeInput{
		Level:          dto.Level,
		TenantID:       dto.TenantID,
		OrganizationID: dto.OrganizationID,
		DepartmentID:   dto.DepartmentID,
		UserID:         dto.UserID,
	}
}

func settingsInputFromDTO(dto httptransport.SettingsDTO) commands.SettingsInput {
	return commands.SettingsInput{
		IsSystemPermission:  dto.IsSystemPermission,
		IsDefaultPermission: dto.IsDefaultPermission,
		CanBeDeleted:        dto.CanBeDeleted,
		CanBeModified:       dto.CanBeModified,
		RequiresApproval:    dto.RequiresApproval,
		IsSensitive:         dto.IsSensitive,
		MaxUsageCount:       dto.MaxUsageCount,
		ExpiresAt:           dto.ExpiresAt,
		EffectiveFrom:       dto.EffectiveFrom,
		EffectiveTo:         dto.EffectiveTo,
	}
}
