package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"collection-crm/internal/domain/permission"
	"collection-crm/internal/pkg/apperrors"
)

type PermissionRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ permission.Repository = (*PermissionRepository)(nil)

func NewPermissionRepository(db DBPool, logger *slog.Logger) *PermissionRepository {
	if db == nil {
		panic("DBPool cannot be nil for PermissionRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewPermissionRepository, using default stderr handler")
	}
	return &PermissionRepository{
		db:     db,
		logger: logger.With("component", "PermissionRepository"),
	}
}

func (r *PermissionRepository) FindAll(ctx context.Context) ([]permission.FeaturePermission, error) {
	r.logger.InfoContext(ctx, "Attempting to load feature permission table")

	query := `SELECT feature_key, admin_access, manager_access, agent_access FROM feature_permissions ORDER BY feature_key`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query feature permissions", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query feature permissions: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	permissions := make([]permission.FeaturePermission, 0)
	for rows.Next() {
		var fp permission.FeaturePermission
		if err := rows.Scan(&fp.FeatureKey, &fp.AdminAccess, &fp.ManagerAccess, &fp.AgentAccess); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan feature permission row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed scanning feature permission: %w", apperrors.ErrDatabase, err)
		}
		permissions = append(permissions, fp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: feature permission rows iteration: %w", apperrors.ErrDatabase, err)
	}
	return permissions, nil
}

func (r *PermissionRepository) Upsert(ctx context.Context, fp permission.FeaturePermission) error {
	r.logger.InfoContext(ctx, "Attempting to upsert feature permission", slog.String("featureKey", fp.FeatureKey))

	query := `
        INSERT INTO feature_permissions (feature_key, admin_access, manager_access, agent_access)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (feature_key) DO UPDATE
        SET admin_access = EXCLUDED.admin_access,
            manager_access = EXCLUDED.manager_access,
            agent_access = EXCLUDED.agent_access`

	_, err := r.db.Exec(ctx, query, fp.FeatureKey, fp.AdminAccess, fp.ManagerAccess, fp.AgentAccess)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to upsert feature permission", slog.Any("error", err))
		return fmt.Errorf("%w: failed to upsert feature permission: %w", apperrors.ErrDatabase, err)
	}
	return nil
}
