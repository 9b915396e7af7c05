package permission

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"collection-crm/internal/domain/user"
	"collection-crm/internal/pkg/apperrors"
)

type PermissionService interface {
	GetTable(ctx context.Context) (Table, error)

	HasFeature(ctx context.Context, role user.Role, featureKey string) (bool, error)

	// UpdatePermission upserts one row and invalidates the cache. Admin only.
	UpdatePermission(ctx context.Context, principal user.Principal, fp FeaturePermission) error
}

var _ PermissionService = (*permissionService)(nil)

type permissionService struct {
	repo   Repository
	cache  Cache
	logger *slog.Logger
}

func NewPermissionService(repo Repository, cache Cache, logger *slog.Logger) PermissionService {
	if repo == nil {
		panic("permission repository cannot be nil")
	}
	if cache == nil {
		panic("permission cache cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewPermissionService, using default stderr handler")
	}
	return &permissionService{
		repo:   repo,
		cache:  cache,
		logger: logger.With(slog.String("component", "permissionService")),
	}
}

func (s *permissionService) GetTable(ctx context.Context) (Table, error) {
	table, hit, err := s.cache.Get(ctx)
	if err != nil {
		// A broken cache degrades to the database, it never fails the read.
		s.logger.WarnContext(ctx, "Permission cache read failed, falling back to repository", slog.Any("error", err))
	} else if hit {
		return table, nil
	}

	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error loading permission table", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load permission table: %w", err)
	}

	table = make(Table, len(rows))
	for _, row := range rows {
		table[row.FeatureKey] = row
	}

	if err := s.cache.Set(ctx, table); err != nil {
		s.logger.WarnContext(ctx, "Failed to populate permission cache", slog.Any("error", err))
	}
	return table, nil
}

func (s *permissionService) HasFeature(ctx context.Context, role user.Role, featureKey string) (bool, error) {
	table, err := s.GetTable(ctx)
	if err != nil {
		return false, err
	}
	return HasPermission(role, featureKey, table), nil
}

func (s *permissionService) UpdatePermission(ctx context.Context, principal user.Principal, fp FeaturePermission) error {
	s.logger.InfoContext(ctx, "Attempting to update feature permission", slog.String("featureKey", fp.FeatureKey))

	if principal.Role != user.RoleAdmin {
		s.logger.WarnContext(ctx, "Non-admin attempted to update permissions", slog.String("role", string(principal.Role)))
		return apperrors.ErrForbidden
	}
	fp.FeatureKey = strings.TrimSpace(fp.FeatureKey)
	if fp.FeatureKey == "" {
		return apperrors.NewValidationError("featureKey", "feature key cannot be empty")
	}

	if err := s.repo.Upsert(ctx, fp); err != nil {
		s.logger.ErrorContext(ctx, "Repository error upserting feature permission", slog.Any("error", err))
		return fmt.Errorf("failed to update permission %q: %w", fp.FeatureKey, err)
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "Failed to invalidate permission cache", slog.Any("error", err))
	}

	s.logger.InfoContext(ctx, "Feature permission updated")
	return nil
}
