package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"collection-crm/internal/api/handler/dto"
	"collection-crm/internal/domain/permission"
	"collection-crm/internal/pkg/apperrors"
)

type PermissionHandler struct {
	service permission.PermissionService
	logger  *slog.Logger
}

func NewPermissionHandler(s permission.PermissionService, l *slog.Logger) *PermissionHandler {
	if s == nil {
		panic("permission service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &PermissionHandler{
		service: s,
		logger:  l.With("component", "PermissionHandler"),
	}
}

// GetPermissions handles GET /permissions
// @Summary Feature permission table
// @Description Returns the full per-role feature flag table the clients use to decide which controls to render.
// @Tags Permissions
// @Produce json
// @Success 200 {object} permission.Table "Feature permission table keyed by feature"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /permissions [get]
// @Security BearerAuth
func (h *PermissionHandler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	if _, ok := principalOrFail(w, r); !ok {
		return
	}

	table, err := h.service.GetTable(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to load permission table", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, table)
}

// UpdatePermission handles PUT /permissions
// @Summary Upsert a feature permission row
// @Description Admin only. Writes one feature key's per-role flags and invalidates the cached table.
// @Tags Permissions
// @Accept json
// @Produce json
// @Param request body dto.UpdatePermissionRequest true "Feature permission row"
// @Success 204 "Permission updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 403 {object} dto.ErrorResponse "Caller is not an admin"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /permissions [put]
// @Security BearerAuth
func (h *PermissionHandler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrFail(w, r)
	if !ok {
		return
	}

	var req dto.UpdatePermissionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if err := h.service.UpdatePermission(r.Context(), principal, req.ToDomain()); err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrForbidden) && !errors.Is(err, apperrors.ErrValidation) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to update permission", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Permission updated", slog.String("featureKey", req.FeatureKey))
	respondJSON(w, http.StatusNoContent, nil)
}
