package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"collection-crm/internal/api/handler/dto"
	"collection-crm/internal/config"
	"collection-crm/internal/domain/user"
	"collection-crm/internal/pkg/apperrors"

	"github.com/golang-jwt/jwt/v5"
)

type AuthHandler struct {
	service user.UserService
	cfg     config.AuthConfig
	logger  *slog.Logger
}

func NewAuthHandler(service user.UserService, cfg config.AuthConfig, l *slog.Logger) *AuthHandler {
	if service == nil {
		panic("user service cannot be nil")
	}
	return &AuthHandler{
		service: service,
		cfg:     cfg,
		logger:  l.With("component", "AuthHandler"),
	}
}

// Login handles POST /auth/login
//
// @Summary Log in with mobile and password
// @Description Verifies the credentials and returns a bearer token carrying the caller's id and role.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse "Token successfully generated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unknown mobile, wrong password or deactivated account"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "Received login request")

	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode login request", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	profile, err := h.service.Login(r.Context(), req.Mobile, req.Password)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Login rejected", slog.Any("error", err))
		respondError(w, err)
		return
	}

	token, err := h.issueToken(profile)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to sign token", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: failed to issue token", apperrors.ErrInternalServer))
		return
	}

	h.logger.InfoContext(r.Context(), "Login succeeded", slog.String("userID", profile.ID.String()))
	respondJSON(w, http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  dto.NewUserResponse(profile),
	})
}

func (h *AuthHandler) issueToken(profile *user.Profile) (string, error) {
	expiry := h.cfg.TokenExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	claims := jwt.MapClaims{
		"uid":  profile.ID.String(),
		"role": string(profile.Role),
		"exp":  time.Now().Add(expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}
