package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"collection-crm/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserRepo(t *testing.T) (context.Context, *UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewUserRepository(mockPool, logger)

	return ctx, repo, mockPool
}

func profileRowColumns() []string {
	return []string{"id", "name", "mobile", "role", "active", "reporting_to", "password_hash", "created_at", "updated_at"}
}

const insertProfileQuery = `
        INSERT INTO profiles (id, name, mobile, role, active, reporting_to, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        RETURNING created_at, updated_at`

func TestSaveNewProfile(t *testing.T) {
	ctx, repo, mockPool := setupUserRepo(t)
	defer mockPool.Close()

	now := time.Now()
	profile := &user.Profile{
		Name:         "Asha",
		Mobile:       "9876543210",
		Role:         user.RoleAgent,
		Active:       true,
		PasswordHash: "$2a$10$hash",
	}

	mockPool.ExpectQuery(regexp.QuoteMeta(insertProfileQuery)).WithArgs(
		pgxmock.AnyArg(),
		profile.Name,
		profile.Mobile,
		profile.Role,
		profile.Active,
		profile.ReportingTo,
		profile.PasswordHash,
	).WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	err := repo.Save(ctx, profile)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, profile.ID, "a fresh id is assigned on insert")
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveNewProfileWhenMobileTaken(t *testing.T) {
	ctx, repo, mockPool := setupUserRepo(t)
	defer mockPool.Close()

	profile := &user.Profile{Name: "Asha", Mobile: "9876543210", Role: user.RoleAgent, Active: true}

	mockPool.ExpectQuery(regexp.QuoteMeta(insertProfileQuery)).WithArgs(
		pgxmock.AnyArg(),
		profile.Name,
		profile.Mobile,
		profile.Role,
		profile.Active,
		profile.ReportingTo,
		profile.PasswordHash,
	).WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "profiles_mobile_key"})

	err := repo.Save(ctx, profile)

	assert.ErrorIs(t, err, user.ErrMobileTaken)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveExistingProfile(t *testing.T) {
	ctx, repo, mockPool := setupUserRepo(t)
	defer mockPool.Close()

	profile := &user.Profile{ID: uuid.New(), Name: "Asha", Mobile: "9876543210", Role: user.RoleManager, Active: true}

	query := `
        UPDATE profiles
        SET name = $1, mobile = $2, role = $3, active = $4, reporting_to = $5, updated_at = NOW()
        WHERE id = $6`

	mockPool.ExpectExec(regexp.QuoteMeta(query)).WithArgs(
		profile.Name,
		profile.Mobile,
		profile.Role,
		profile.Active,
		profile.ReportingTo,
		profile.ID,
	).WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Save(ctx, profile)

	require.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindProfileByMobile(t *testing.T) {
	ctx, repo, mockPool := setupUserRepo(t)
	defer mockPool.Close()

	id := uuid.New()
	now := time.Now()
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE mobile = $1`

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs("9876543210").
		WillReturnRows(pgxmock.NewRows(profileRowColumns()).
			AddRow(id, "Asha", "9876543210", user.RoleAgent, true, (*uuid.UUID)(nil), "$2a$10$hash", now, now))

	profile, err := repo.FindByMobile(ctx, "9876543210")

	require.NoError(t, err)
	assert.Equal(t, id, profile.ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindProfileByMobileWhenNotFound(t *testing.T) {
	ctx, repo, mockPool := setupUserRepo(t)
	defer mockPool.Close()

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE mobile = $1`
	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs("0000000000").
		WillReturnRows(pgxmock.NewRows(profileRowColumns()))

	_, err := repo.FindByMobile(ctx, "0000000000")

	assert.ErrorIs(t, err, user.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindAllProfilesActiveOnly(t *testing.T) {
	ctx, repo, mockPool := setupUserRepo(t)
	defer mockPool.Close()

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE active = TRUE ORDER BY name`
	mockPool.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(pgxmock.NewRows(profileRowColumns()))

	profiles, err := repo.FindAll(ctx, true)

	require.NoError(t, err)
	assert.Empty(t, profiles)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindIDsReportingTo(t *testing.T) {
	ctx, repo, mockPool := setupUserRepo(t)
	defer mockPool.Close()

	managerID := uuid.New()
	reportA, reportB := uuid.New(), uuid.New()
	query := `SELECT id FROM profiles WHERE reporting_to = $1 AND active = TRUE`

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(managerID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(reportA).AddRow(reportB))

	ids, err := repo.FindIDsReportingTo(ctx, managerID)

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{reportA, reportB}, ids)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestUpdatePasswordHash(t *testing.T) {
	ctx, repo, mockPool := setupUserRepo(t)
	defer mockPool.Close()

	id := uuid.New()
	query := `UPDATE profiles SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	mockPool.ExpectExec(regexp.QuoteMeta(query)).WithArgs("$2a$10$newhash", id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdatePasswordHash(ctx, id, "$2a$10$newhash")

	require.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestUpdatePasswordHashWhenNotFound(t *testing.T) {
	ctx, repo, mockPool := setupUserRepo(t)
	defer mockPool.Close()

	id := uuid.New()
	query := `UPDATE profiles SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	mockPool.ExpectExec(regexp.QuoteMeta(query)).WithArgs("$2a$10$newhash", id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdatePasswordHash(ctx, id, "$2a$10$newhash")

	assert.ErrorIs(t, err, user.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestRecordPasswordReset(t *testing.T) {
	ctx, repo, mockPool := setupUserRepo(t)
	defer mockPool.Close()

	audit := &user.PasswordResetAudit{AdminID: uuid.New(), TargetID: uuid.New()}
	now := time.Now()

	query := `
        INSERT INTO password_reset_audit (admin_id, target_id, occurred_at)
        VALUES ($1, $2, NOW())
        RETURNING id, occurred_at`

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(audit.AdminID, audit.TargetID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "occurred_at"}).AddRow(int64(5), now))

	err := repo.RecordPasswordReset(ctx, audit)

	require.NoError(t, err)
	assert.Equal(t, int64(5), audit.ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}
