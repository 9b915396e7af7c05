package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"collection-crm/internal/domain/user"
	"collection-crm/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(db DBPool, logger *slog.Logger) *UserRepository {
	if db == nil {
		panic("DBPool cannot be nil for UserRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewUserRepository, using default stderr handler")
	}
	return &UserRepository{
		db:     db,
		logger: logger.With("component", "UserRepository"),
	}
}

const profileColumns = `id, name, mobile, role, active, reporting_to, password_hash, created_at, updated_at`

func scanProfile(row pgx.Row) (*user.Profile, error) {
	var p user.Profile
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Mobile,
		&p.Role,
		&p.Active,
		&p.ReportingTo,
		&p.PasswordHash,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *UserRepository) Save(ctx context.Context, profile *user.Profile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile cannot be nil", apperrors.ErrInvalidArgument)
	}
	if profile.ID == uuid.Nil {
		return r.createProfile(ctx, profile)
	}
	return r.updateProfile(ctx, profile)
}

func (r *UserRepository) createProfile(ctx context.Context, profile *user.Profile) error {
	logCtx := r.logger.With(slog.String("mobile", profile.Mobile))
	logCtx.InfoContext(ctx, "Attempting to insert new profile")

	query := `
        INSERT INTO profiles (id, name, mobile, role, active, reporting_to, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        RETURNING created_at, updated_at`

	profile.ID = uuid.New()
	err := r.db.QueryRow(ctx, query,
		profile.ID,
		profile.Name,
		profile.Mobile,
		profile.Role,
		profile.Active,
		profile.ReportingTo,
		profile.PasswordHash,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			logCtx.WarnContext(ctx, "Mobile number already registered")
			return user.ErrMobileTaken
		}
		logCtx.ErrorContext(ctx, "Failed to insert profile", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert profile: %w", apperrors.ErrDatabase, err)
	}

	logCtx.InfoContext(ctx, "Profile inserted successfully", slog.String("userID", profile.ID.String()))
	return nil
}

func (r *UserRepository) updateProfile(ctx context.Context, profile *user.Profile) error {
	logCtx := r.logger.With(slog.String("userID", profile.ID.String()))
	logCtx.InfoContext(ctx, "Attempting to update profile")

	query := `
        UPDATE profiles
        SET name = $1, mobile = $2, role = $3, active = $4, reporting_to = $5, updated_at = NOW()
        WHERE id = $6`

	cmdTag, err := r.db.Exec(ctx, query,
		profile.Name,
		profile.Mobile,
		profile.Role,
		profile.Active,
		profile.ReportingTo,
		profile.ID,
	)
	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			return user.ErrMobileTaken
		}
		logCtx.ErrorContext(ctx, "Failed to update profile", slog.Any("error", err))
		return fmt.Errorf("%w: failed to update profile: %w", apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		logCtx.WarnContext(ctx, "Update affected zero rows, profile likely not found")
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.Profile, error) {
	r.logger.InfoContext(ctx, "Attempting to find profile by ID", slog.String("userID", id.String()))

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	p, err := scanProfile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Profile not found")
			return nil, user.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to find profile by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to find profile: %w", apperrors.ErrDatabase, err)
	}
	return p, nil
}

func (r *UserRepository) FindByMobile(ctx context.Context, mobile string) (*user.Profile, error) {
	r.logger.InfoContext(ctx, "Attempting to find profile by mobile")

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE mobile = $1`

	p, err := scanProfile(r.db.QueryRow(ctx, query, mobile))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to find profile by mobile", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to find profile: %w", apperrors.ErrDatabase, err)
	}
	return p, nil
}

func (r *UserRepository) FindAll(ctx context.Context, activeOnly bool) ([]*user.Profile, error) {
	r.logger.InfoContext(ctx, "Attempting to list profiles", slog.Bool("activeOnly", activeOnly))

	query := `SELECT ` + profileColumns + ` FROM profiles`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query profiles", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query profiles: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	profiles := make([]*user.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan profile row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed scanning profile: %w", apperrors.ErrDatabase, err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: profile rows iteration: %w", apperrors.ErrDatabase, err)
	}
	return profiles, nil
}

func (r *UserRepository) FindIDsReportingTo(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error) {
	r.logger.InfoContext(ctx, "Attempting to list reports for manager", slog.String("managerID", managerID.String()))

	query := `SELECT id FROM profiles WHERE reporting_to = $1 AND active = TRUE`

	rows, err := r.db.Query(ctx, query, managerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query reports", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query reports: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: failed scanning report id: %w", apperrors.ErrDatabase, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: report rows iteration: %w", apperrors.ErrDatabase, err)
	}
	return ids, nil
}

func (r *UserRepository) SetActiveStatus(ctx context.Context, id uuid.UUID, active bool) error {
	r.logger.InfoContext(ctx, "Attempting to set profile active status", slog.String("userID", id.String()), slog.Bool("active", active))

	query := `UPDATE profiles SET active = $1, updated_at = NOW() WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, query, active, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to set active status", slog.Any("error", err))
		return fmt.Errorf("%w: failed to set active status: %w", apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Active status update affected zero rows, profile likely not found")
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	r.logger.InfoContext(ctx, "Attempting to update password hash", slog.String("userID", id.String()))

	query := `UPDATE profiles SET password_hash = $1, updated_at = NOW() WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, query, hash, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update password hash", slog.Any("error", err))
		return fmt.Errorf("%w: failed to update password hash: %w", apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Password update affected zero rows, profile likely not found")
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) RecordPasswordReset(ctx context.Context, audit *user.PasswordResetAudit) error {
	if audit == nil {
		return fmt.Errorf("%w: audit cannot be nil", apperrors.ErrInvalidArgument)
	}
	r.logger.InfoContext(ctx, "Recording password reset audit entry",
		slog.String("adminID", audit.AdminID.String()),
		slog.String("targetID", audit.TargetID.String()))

	query := `
        INSERT INTO password_reset_audit (admin_id, target_id, occurred_at)
        VALUES ($1, $2, NOW())
        RETURNING id, occurred_at`

	err := r.db.QueryRow(ctx, query, audit.AdminID, audit.TargetID).Scan(&audit.ID, &audit.OccurredAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to record password reset audit", slog.Any("error", err))
		return fmt.Errorf("%w: failed to record password reset: %w", apperrors.ErrDatabase, err)
	}
	return nil
}
