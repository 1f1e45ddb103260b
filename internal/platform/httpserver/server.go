package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	permission "atlas/contexts/identity-access/permission-service"
	permissionerrors "atlas/contexts/identity-access/permission-service/domain/errors"
	permissionhttp "atlas/contexts/identity-access/permission-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "atlas/internal/platform/httpserver/docs"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	permission permission.Module
}

func New(
	permissionModule permission.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		permission: permissionModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/permissions/v1/tenants/{tenant_id}/permissions", s.handleCreatePermission)
	s.mux.HandleFunc("GET /api/permissions/v1/tenants/{tenant_id}/permissions", s.handleListPermissions)
	s.mux.HandleFunc("GET /api/permissions/v1/tenants/{tenant_id}/permissions/{permission_id}", s.handleGetPermission)
	s.mux.HandleFunc("PUT /api/permissions/v1/tenants/{tenant_id}/permissions/{permission_id}", s.handleUpdatePermission)
	s.mux.HandleFunc("DELETE /api/permissions/v1/tenants/{tenant_id}/permissions/{permission_id}", s.handleDeletePermission)
	s.mux.HandleFunc("POST /api/permissions/v1/tenants/{tenant_id}/permissions/{permission_id}/status/{action}", s.handleChangeStatus)
	s.mux.HandleFunc("POST /api/permissions/v1/tenants/{tenant_id}/permissions/{permission_id}/conditions", s.handleAddCondition)
	s.mux.HandleFunc("DELETE /api/permissions/v1/tenants/{tenant_id}/permissions/{permission_id}/conditions", s.handleRemoveCondition)
	s.mux.HandleFunc("POST /api/permissions/v1/tenants/{tenant_id}/check", s.handleCheckAccess)
}

func (s *Server) handleCreatePermission(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writePermissionError(w, http.StatusUnauthorized, "missing_actor", "X-User-Id header is required")
		return
	}

	var req permissionhttp.CreatePermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePermissionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.permission.Handler.CreatePermissionHandler(
		r.Context(),
		r.PathValue("tenant_id"),
		actorID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writePermissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListPermissions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			writePermissionError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = value
	}
	offset := 0
	if raw := query.Get("offset"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			writePermissionError(w, http.StatusBadRequest, "invalid_offset", "offset must be an integer")
			return
		}
		offset = value
	}

	resp, err := s.permission.Handler.ListPermissionsHandler(
		r.Context(),
		r.PathValue("tenant_id"),
		query.Get("resource"),
		query.Get("action"),
		query.Get("status"),
		limit,
		offset,
	)
	if err != nil {
		writePermissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPermission(w http.ResponseWriter, r *http.Request) {
	resp, err := s.permission.Handler.GetPermissionHandler(
		r.Context(),
		r.PathValue("tenant_id"),
		r.PathValue("permission_id"),
	)
	if err != nil {
		writePermissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdatePermission(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writePermissionError(w, http.StatusUnauthorized, "missing_actor", "X-User-Id header is required")
		return
	}

	var req permissionhttp.UpdatePermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePermissionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.permission.Handler.UpdatePermissionHandler(
		r.Context(),
		r.PathValue("tenant_id"),
		actorID,
		r.PathValue("permission_id"),
		req,
	)
	if err != nil {
		writePermissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeletePermission(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writePermissionError(w, http.StatusUnauthorized, "missing_actor", "X-User-Id header is required")
		return
	}

	req := permissionhttp.DeletePermissionRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writePermissionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}

	resp, err := s.permission.Handler.DeletePermissionHandler(
		r.Context(),
		r.PathValue("tenant_id"),
		actorID,
		r.PathValue("permission_id"),
		req,
	)
	if err != nil {
		writePermissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writePermissionError(w, http.StatusUnauthorized, "missing_actor", "X-User-Id header is required")
		return
	}

	req := permissionhttp.StatusActionRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writePermissionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}

	resp, err := s.permission.Handler.ChangeStatusHandler(
		r.Context(),
		r.PathValue("tenant_id"),
		actorID,
		r.PathValue("permission_id"),
		r.PathValue("action"),
		req,
	)
	if err != nil {
		writePermissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddCondition(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writePermissionError(w, http.StatusUnauthorized, "missing_actor", "X-User-Id header is required")
		return
	}

	var req permissionhttp.ConditionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePermissionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.permission.Handler.AddConditionHandler(
		r.Context(),
		r.PathValue("tenant_id"),
		actorID,
		r.PathValue("permission_id"),
		req,
	)
	if err != nil {
		writePermissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRemoveCondition(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writePermissionError(w, http.StatusUnauthorized, "missing_actor", "X-User-Id header is required")
		return
	}

	var req permissionhttp.ConditionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePermissionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.permission.Handler.RemoveConditionHandler(
		r.Context(),
		r.PathValue("tenant_id"),
		actorID,
		r.PathValue("permission_id"),
		req,
	)
	if err != nil {
		writePermissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckAccess(w http.ResponseWriter, r *http.Request) {
	var req permissionhttp.CheckAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePermissionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.permission.Handler.CheckAccessHandler(
		r.Context(),
		r.PathValue("tenant_id"),
		req,
	)
	if err != nil {
		writePermissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writePermissionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, permissionerrors.ErrPermissionNotFound):
		writePermissionError(w, http.StatusNotFound, "permission_not_found", err.Error())
	case errors.Is(err, permissionerrors.ErrInvalidResource),
		errors.Is(err, permissionerrors.ErrInvalidAction),
		errors.Is(err, permissionerrors.ErrInvalidCondition),
		errors.Is(err, permissionerrors.ErrInvalidScope),
		errors.Is(err, permissionerrors.ErrInvalidSettings),
		errors.Is(err, permissionerrors.ErrInvalidTenantID),
		errors.Is(err, permissionerrors.ErrInvalidActorID):
		writePermissionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, permissionerrors.ErrInvalidPermission):
		writePermissionError(w, http.StatusUnprocessableEntity, "invalid_permission", err.Error())
	case errors.Is(err, permissionerrors.ErrInvalidStateTransition):
		writePermissionError(w, http.StatusConflict, "invalid_state_transition", err.Error())
	case errors.Is(err, permissionerrors.ErrNotDeletable):
		writePermissionError(w, http.StatusConflict, "not_deletable", err.Error())
	case errors.Is(err, permissionerrors.ErrNotModifiable):
		writePermissionError(w, http.StatusConflict, "not_modifiable", err.Error())
	case errors.Is(err, permissionerrors.ErrIdempotencyConflict):
		writePermissionError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, permissionerrors.ErrIdempotencyKeyRequired):
		writePermissionError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, permissionerrors.ErrForbidden):
		writePermissionError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writePermissionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writePermissionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, permissionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func resolveActorID(r *http.Request) string {
	if actorID := strings.TrimSpace(r.Header.Get("X-User-Id")); actorID != "" {
		return actorID
	}
	return strings.TrimSpace(r.Header.Get("X-Admin-Id"))
}
