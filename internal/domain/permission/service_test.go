package permission_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"collection-crm/internal/domain/permission"
	"collection-crm/internal/domain/user"
	"collection-crm/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPermissionRepository struct {
	mock.Mock
}

var _ permission.Repository = (*mockPermissionRepository)(nil)

func (m *mockPermissionRepository) FindAll(ctx context.Context) ([]permission.FeaturePermission, error) {
	args := m.Called(ctx)
	var rows []permission.FeaturePermission
	if args.Get(0) != nil {
		rows = args.Get(0).([]permission.FeaturePermission)
	}
	return rows, args.Error(1)
}

func (m *mockPermissionRepository) Upsert(ctx context.Context, fp permission.FeaturePermission) error {
	return m.Called(ctx, fp).Error(0)
}

// fakeCache is a scriptable in-process Cache.
type fakeCache struct {
	table       permission.Table
	hit         bool
	getErr      error
	setErr      error
	sets        int
	invalidated int
}

var _ permission.Cache = (*fakeCache)(nil)

func (c *fakeCache) Get(ctx context.Context) (permission.Table, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.table, c.hit, nil
}

func (c *fakeCache) Set(ctx context.Context, table permission.Table) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.table = table
	c.hit = true
	c.sets++
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context) error {
	c.table = nil
	c.hit = false
	c.invalidated++
	return nil
}

func setupTest(cache *fakeCache) (*mockPermissionRepository, permission.PermissionService) {
	mockRepo := new(mockPermissionRepository)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return mockRepo, permission.NewPermissionService(mockRepo, cache, logger)
}

func sampleRows() []permission.FeaturePermission {
	return []permission.FeaturePermission{
		{FeatureKey: "fund_ledger", AdminAccess: true, ManagerAccess: true},
		{FeatureKey: "reports", AdminAccess: true},
	}
}

func TestGetTable(t *testing.T) {
	ctx := context.Background()

	t.Run("a cache hit skips the repository", func(t *testing.T) {
		cache := &fakeCache{table: permission.Table{"fund_ledger": {FeatureKey: "fund_ledger", AdminAccess: true}}, hit: true}
		mockRepo, service := setupTest(cache)

		table, err := service.GetTable(ctx)

		require.NoError(t, err)
		assert.Contains(t, table, "fund_ledger")
		mockRepo.AssertNotCalled(t, "FindAll", mock.Anything)
	})

	t.Run("a miss loads the repository and populates the cache", func(t *testing.T) {
		cache := &fakeCache{}
		mockRepo, service := setupTest(cache)
		mockRepo.On("FindAll", ctx).Return(sampleRows(), nil).Once()

		table, err := service.GetTable(ctx)

		require.NoError(t, err)
		assert.Len(t, table, 2)
		assert.Equal(t, 1, cache.sets)
		mockRepo.AssertExpectations(t)
	})

	t.Run("a broken cache degrades to the repository", func(t *testing.T) {
		cache := &fakeCache{getErr: assert.AnError, setErr: assert.AnError}
		mockRepo, service := setupTest(cache)
		mockRepo.On("FindAll", ctx).Return(sampleRows(), nil).Once()

		table, err := service.GetTable(ctx)

		require.NoError(t, err, "cache failures must never fail a read")
		assert.Len(t, table, 2)
	})
}

func TestHasFeature(t *testing.T) {
	ctx := context.Background()
	cache := &fakeCache{table: permission.Table{
		"fund_ledger": {FeatureKey: "fund_ledger", AdminAccess: true, ManagerAccess: true},
	}, hit: true}
	_, service := setupTest(cache)

	allowed, err := service.HasFeature(ctx, user.RoleManager, "fund_ledger")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = service.HasFeature(ctx, user.RoleAgent, "fund_ledger")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = service.HasFeature(ctx, user.RoleAdmin, "unknown_feature")
	require.NoError(t, err)
	assert.False(t, allowed, "unknown keys fail closed")
}

func TestUpdatePermission(t *testing.T) {
	ctx := context.Background()

	t.Run("only admins may change the table", func(t *testing.T) {
		mockRepo, service := setupTest(&fakeCache{})

		err := service.UpdatePermission(ctx, user.Principal{UserID: uuid.New(), Role: user.RoleManager},
			permission.FeaturePermission{FeatureKey: "fund_ledger"})

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("rejects an empty feature key", func(t *testing.T) {
		_, service := setupTest(&fakeCache{})

		err := service.UpdatePermission(ctx, user.Principal{UserID: uuid.New(), Role: user.RoleAdmin},
			permission.FeaturePermission{FeatureKey: "   "})

		var valErr *apperrors.ValidationError
		assert.ErrorAs(t, err, &valErr)
	})

	t.Run("upserts and invalidates the cache", func(t *testing.T) {
		cache := &fakeCache{hit: true, table: permission.Table{}}
		mockRepo, service := setupTest(cache)
		fp := permission.FeaturePermission{FeatureKey: "fund_ledger", AdminAccess: true, AgentAccess: true}
		mockRepo.On("Upsert", ctx, fp).Return(nil).Once()

		err := service.UpdatePermission(ctx, user.Principal{UserID: uuid.New(), Role: user.RoleAdmin}, fp)

		require.NoError(t, err)
		assert.Equal(t, 1, cache.invalidated)
		mockRepo.AssertExpectations(t)
	})
}
