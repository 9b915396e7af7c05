package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"collection-crm/internal/api/handler/dto"
	"collection-crm/internal/domain/user"
	"collection-crm/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type UserHandler struct {
	service user.UserService
	logger  *slog.Logger
}

func NewUserHandler(s user.UserService, l *slog.Logger) *UserHandler {
	if s == nil {
		panic("user service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &UserHandler{
		service: s,
		logger:  l.With("component", "UserHandler"),
	}
}

func getUserIDFromURL(r *http.Request) (uuid.UUID, error) {
	idStr := chi.URLParam(r, "userID")
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%w: userID not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid userID format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

// CreateUser handles POST /users
// @Summary Create a staff profile
// @Description Creates an admin, manager or agent profile. Managers may only create agents reporting to themselves.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "User creation request"
// @Success 201 {object} dto.UserResponse "User successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or weak password"
// @Failure 403 {object} dto.ErrorResponse "Caller may not create this role"
// @Failure 409 {object} dto.ErrorResponse "Mobile number already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users [post]
// @Security BearerAuth
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrFail(w, r)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	input, err := req.ToInput()
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	profile, err := h.service.CreateUser(r.Context(), principal, input)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrForbidden) && !errors.Is(err, apperrors.ErrAlreadyExists) &&
			!errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrWeakPassword) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to create user", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "User created successfully", slog.String("userID", profile.ID.String()))
	respondJSON(w, http.StatusCreated, dto.NewUserResponse(profile))
}

// ListUsers handles GET /users
// @Summary List visible staff profiles
// @Description Lists the profiles the caller may see: everyone for admins, self plus reports for managers, self for agents.
// @Tags Users
// @Produce json
// @Success 200 {array} dto.UserResponse "List of profiles"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users [get]
// @Security BearerAuth
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrFail(w, r)
	if !ok {
		return
	}

	profiles, err := h.service.ListVisibleProfiles(r.Context(), principal)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list profiles", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.UserResponse, len(profiles))
	for i, p := range profiles {
		resp[i] = dto.NewUserResponse(p)
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetUser handles GET /users/{userID}
// @Summary Retrieve a staff profile
// @Tags Users
// @Produce json
// @Param userID path string true "User ID (UUID)"
// @Success 200 {object} dto.UserResponse "Profile retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID format"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{userID} [get]
// @Security BearerAuth
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := principalOrFail(w, r); !ok {
		return
	}

	userID, err := getUserIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get profile", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewUserResponse(profile))
}

// ResetPassword handles POST /users/{userID}/reset-password
// @Summary Reset a user's password
// @Description Admin only. Rate limited per admin; every reset is written to the audit trail.
// @Tags Users
// @Accept json
// @Produce json
// @Param userID path string true "Target user ID (UUID)"
// @Param request body dto.ResetPasswordRequest true "New password"
// @Success 204 "Password successfully reset"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or weak password"
// @Failure 403 {object} dto.ErrorResponse "Caller is not an admin"
// @Failure 404 {object} dto.ErrorResponse "Target profile not found"
// @Failure 429 {object} dto.ErrorResponse "Reset rate limit exceeded"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{userID}/reset-password [post]
// @Security BearerAuth
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrFail(w, r)
	if !ok {
		return
	}

	userID, err := getUserIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if err := h.service.ResetPassword(r.Context(), principal, userID, req.NewPassword); err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrForbidden) && !errors.Is(err, apperrors.ErrNotFound) &&
			!errors.Is(err, apperrors.ErrRateLimited) && !errors.Is(err, apperrors.ErrWeakPassword) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to reset password", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Password reset completed", slog.String("targetID", userID.String()))
	respondJSON(w, http.StatusNoContent, nil)
}

// DeactivateUser handles DELETE /users/{userID}
// @Summary Deactivate a staff profile
// @Description Marks the profile inactive; a deactivated user can no longer log in.
// @Tags Users
// @Produce json
// @Param userID path string true "User ID (UUID)"
// @Success 204 "User successfully deactivated"
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID format"
// @Failure 403 {object} dto.ErrorResponse "Caller may not deactivate users"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{userID} [delete]
// @Security BearerAuth
func (h *UserHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrFail(w, r)
	if !ok {
		return
	}

	userID, err := getUserIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeactivateUser(r.Context(), principal, userID); err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrForbidden) && !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to deactivate user", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "User deactivated successfully")
	respondJSON(w, http.StatusNoContent, nil)
}
