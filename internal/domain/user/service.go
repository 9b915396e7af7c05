package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"collection-crm/internal/pkg/apperrors"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const resetsPerHour = 10

type CreateUserInput struct {
	Name        string
	Mobile      string
	Password    string
	Role        Role
	ReportingTo *uuid.UUID
}

type UserService interface {
	// Login verifies the mobile/password pair and returns the profile. The
	// caller (auth handler) turns it into a bearer token.
	Login(ctx context.Context, mobile, password string) (*Profile, error)

	// CreateUser is the privileged create-user procedure: admins may create
	// any role, managers only agents reporting to themselves.
	CreateUser(ctx context.Context, principal Principal, input CreateUserInput) (*Profile, error)

	// ResetPassword is the privileged reset-password procedure: admin only,
	// rate limited to 10 resets per hour per admin, audited.
	ResetPassword(ctx context.Context, principal Principal, targetID uuid.UUID, newPassword string) error

	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)

	// ListVisibleProfiles returns the profiles the caller may see: all for
	// admins, self plus direct reports for managers, self for agents.
	ListVisibleProfiles(ctx context.Context, principal Principal) ([]*Profile, error)

	DeactivateUser(ctx context.Context, principal Principal, targetID uuid.UUID) error
}

var _ UserService = (*userService)(nil)

type userService struct {
	repo          Repository
	logger        *slog.Logger
	resetLimiters sync.Map
}

func NewUserService(repo Repository, logger *slog.Logger) UserService {
	if repo == nil {
		panic("user repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewUserService, using default stderr handler")
	}
	return &userService{
		repo:   repo,
		logger: logger.With(slog.String("component", "userService")),
	}
}

func (s *userService) Login(ctx context.Context, mobile, password string) (*Profile, error) {
	s.logger.InfoContext(ctx, "Attempting login", slog.String("mobile", mobile))

	mobile = strings.TrimSpace(mobile)
	if mobile == "" || password == "" {
		return nil, fmt.Errorf("%w: mobile and password are required", apperrors.ErrInvalidArgument)
	}

	profile, err := s.repo.FindByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "Login failed: unknown mobile")
			return nil, apperrors.ErrUnauthorized
		}
		s.logger.ErrorContext(ctx, "Repository error during login", slog.Any("error", err))
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	if !profile.Active {
		s.logger.WarnContext(ctx, "Login rejected: profile is deactivated")
		return nil, apperrors.ErrUnauthorized
	}
	if !CheckPasswordHash(password, profile.PasswordHash) {
		s.logger.WarnContext(ctx, "Login failed: bad password")
		return nil, apperrors.ErrUnauthorized
	}

	s.logger.InfoContext(ctx, "Login succeeded", slog.String("userID", profile.ID.String()), slog.String("role", string(profile.Role)))
	return profile, nil
}

func (s *userService) CreateUser(ctx context.Context, principal Principal, input CreateUserInput) (*Profile, error) {
	s.logger.InfoContext(ctx, "Attempting to create user", slog.String("caller_role", string(principal.Role)))

	switch principal.Role {
	case RoleAdmin:
	case RoleManager:
		if input.Role != RoleAgent {
			s.logger.WarnContext(ctx, "Manager attempted to create a non-agent profile", slog.String("requested_role", string(input.Role)))
			return nil, apperrors.ErrForbidden
		}
	default:
		s.logger.WarnContext(ctx, "Caller is not permitted to create users")
		return nil, apperrors.ErrForbidden
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Mobile = strings.TrimSpace(input.Mobile)
	if input.Name == "" {
		return nil, apperrors.NewValidationError("name", "name cannot be empty")
	}
	if input.Mobile == "" {
		return nil, apperrors.NewValidationError("mobile", "mobile cannot be empty")
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("role", "role must be admin, manager or agent")
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	reportingTo := input.ReportingTo
	if principal.Role == RoleManager {
		// Agents created by a manager always report to that manager.
		managerID := principal.UserID
		reportingTo = &managerID
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to process password", apperrors.ErrInternalServer)
	}

	profile := &Profile{
		ID:           uuid.New(),
		Name:         input.Name,
		Mobile:       input.Mobile,
		Role:         input.Role,
		Active:       true,
		ReportingTo:  reportingTo,
		PasswordHash: hash,
	}

	if err := s.repo.Save(ctx, profile); err != nil {
		if errors.Is(err, ErrMobileTaken) {
			s.logger.WarnContext(ctx, "Mobile number already registered")
			return nil, fmt.Errorf("%w: mobile already registered", apperrors.ErrAlreadyExists)
		}
		s.logger.ErrorContext(ctx, "Repository failed to save new profile", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new profile: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully created user", slog.String("userID", profile.ID.String()), slog.String("role", string(profile.Role)))
	return profile, nil
}

func (s *userService) resetLimiter(adminID uuid.UUID) *rate.Limiter {
	limiter, ok := s.resetLimiters.Load(adminID)
	if !ok {
		limiter, _ = s.resetLimiters.LoadOrStore(adminID, rate.NewLimiter(rate.Limit(resetsPerHour)/rate.Limit(time.Hour.Seconds()), resetsPerHour))
	}
	return limiter.(*rate.Limiter)
}

func (s *userService) ResetPassword(ctx context.Context, principal Principal, targetID uuid.UUID, newPassword string) error {
	s.logger.InfoContext(ctx, "Attempting password reset", slog.String("targetID", targetID.String()))

	if principal.Role != RoleAdmin {
		s.logger.WarnContext(ctx, "Non-admin attempted password reset", slog.String("caller_role", string(principal.Role)))
		return apperrors.ErrForbidden
	}

	if !s.resetLimiter(principal.UserID).Allow() {
		s.logger.WarnContext(ctx, "Password reset rate limit hit", slog.String("adminID", principal.UserID.String()))
		return fmt.Errorf("%w: at most %d password resets per hour", apperrors.ErrRateLimited, resetsPerHour)
	}

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	if _, err := s.repo.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "Password reset target not found")
			return apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error finding reset target", slog.Any("error", err))
		return fmt.Errorf("failed to find profile %s: %w", targetID, err)
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to hash new password", slog.Any("error", err))
		return fmt.Errorf("%w: failed to process password", apperrors.ErrInternalServer)
	}

	if err := s.repo.UpdatePasswordHash(ctx, targetID, hash); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to update password hash", slog.Any("error", err))
		return fmt.Errorf("failed to update password for %s: %w", targetID, err)
	}

	audit := &PasswordResetAudit{
		AdminID:    principal.UserID,
		TargetID:   targetID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.repo.RecordPasswordReset(ctx, audit); err != nil {
		// The reset already happened; an unwritten audit row is an operator
		// problem, not a user-facing failure.
		s.logger.ErrorContext(ctx, "Password reset succeeded but audit record failed", slog.Any("error", err))
	}

	s.logger.InfoContext(ctx, "Password reset completed", slog.String("adminID", principal.UserID.String()))
	return nil
}

func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	s.logger.InfoContext(ctx, "Fetching profile", slog.String("userID", id.String()))

	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error fetching profile", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get profile %s: %w", id, err)
	}
	return profile, nil
}

func (s *userService) ListVisibleProfiles(ctx context.Context, principal Principal) ([]*Profile, error) {
	s.logger.InfoContext(ctx, "Listing visible profiles", slog.String("caller_role", string(principal.Role)))

	switch principal.Role {
	case RoleAdmin:
		profiles, err := s.repo.FindAll(ctx, false)
		if err != nil {
			s.logger.ErrorContext(ctx, "Repository error listing profiles", slog.Any("error", err))
			return nil, fmt.Errorf("failed to list profiles: %w", err)
		}
		return profiles, nil
	case RoleManager:
		self, err := s.GetProfile(ctx, principal.UserID)
		if err != nil {
			return nil, err
		}
		reportIDs, err := s.repo.FindIDsReportingTo(ctx, principal.UserID)
		if err != nil {
			s.logger.ErrorContext(ctx, "Repository error listing reports", slog.Any("error", err))
			return nil, fmt.Errorf("failed to list reports of %s: %w", principal.UserID, err)
		}
		profiles := []*Profile{self}
		for _, id := range reportIDs {
			report, err := s.repo.FindByID(ctx, id)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return nil, fmt.Errorf("failed to load report %s: %w", id, err)
			}
			profiles = append(profiles, report)
		}
		return profiles, nil
	default:
		self, err := s.GetProfile(ctx, principal.UserID)
		if err != nil {
			return nil, err
		}
		return []*Profile{self}, nil
	}
}

func (s *userService) DeactivateUser(ctx context.Context, principal Principal, targetID uuid.UUID) error {
	s.logger.InfoContext(ctx, "Attempting to deactivate user", slog.String("targetID", targetID.String()))

	if principal.Role != RoleAdmin && principal.Role != RoleManager {
		return apperrors.ErrForbidden
	}

	err := s.repo.SetActiveStatus(ctx, targetID, false)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error deactivating user", slog.Any("error", err))
		return fmt.Errorf("failed to deactivate user %s: %w", targetID, err)
	}

	s.logger.InfoContext(ctx, "Successfully deactivated user")
	return nil
}
