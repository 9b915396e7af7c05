package scope_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"collection-crm/internal/domain/scope"
	"collection-crm/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserRepository struct {
	mock.Mock
}

var _ user.Repository = (*mockUserRepository)(nil)

func (m *mockUserRepository) Save(ctx context.Context, profile *user.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.Profile, error) {
	args := m.Called(ctx, id)
	var profile *user.Profile
	if args.Get(0) != nil {
		profile = args.Get(0).(*user.Profile)
	}
	return profile, args.Error(1)
}

func (m *mockUserRepository) FindByMobile(ctx context.Context, mobile string) (*user.Profile, error) {
	args := m.Called(ctx, mobile)
	var profile *user.Profile
	if args.Get(0) != nil {
		profile = args.Get(0).(*user.Profile)
	}
	return profile, args.Error(1)
}

func (m *mockUserRepository) FindAll(ctx context.Context, activeOnly bool) ([]*user.Profile, error) {
	args := m.Called(ctx, activeOnly)
	var profiles []*user.Profile
	if args.Get(0) != nil {
		profiles = args.Get(0).([]*user.Profile)
	}
	return profiles, args.Error(1)
}

func (m *mockUserRepository) FindIDsReportingTo(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, managerID)
	var ids []uuid.UUID
	if args.Get(0) != nil {
		ids = args.Get(0).([]uuid.UUID)
	}
	return ids, args.Error(1)
}

func (m *mockUserRepository) SetActiveStatus(ctx context.Context, id uuid.UUID, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *mockUserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *mockUserRepository) RecordPasswordReset(ctx context.Context, audit *user.PasswordResetAudit) error {
	return m.Called(ctx, audit).Error(0)
}

func setupResolver() (*mockUserRepository, scope.Resolver) {
	mockRepo := new(mockUserRepository)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return mockRepo, scope.NewResolver(mockRepo, logger)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("admins see everything", func(t *testing.T) {
		mockRepo, resolver := setupResolver()

		visible, err := resolver.Resolve(ctx, user.Principal{UserID: uuid.New(), Role: user.RoleAdmin})

		require.NoError(t, err)
		assert.True(t, visible.All)
		mockRepo.AssertNotCalled(t, "FindIDsReportingTo", mock.Anything, mock.Anything)
	})

	t.Run("managers see themselves plus direct reports", func(t *testing.T) {
		mockRepo, resolver := setupResolver()
		managerID := uuid.New()
		reports := []uuid.UUID{uuid.New(), uuid.New()}
		mockRepo.On("FindIDsReportingTo", ctx, managerID).Return(reports, nil).Once()

		visible, err := resolver.Resolve(ctx, user.Principal{UserID: managerID, Role: user.RoleManager})

		require.NoError(t, err)
		assert.False(t, visible.All)
		assert.Equal(t, append([]uuid.UUID{managerID}, reports...), visible.AgentIDs)
		mockRepo.AssertExpectations(t)
	})

	t.Run("a manager with no reports still sees their own records", func(t *testing.T) {
		mockRepo, resolver := setupResolver()
		managerID := uuid.New()
		mockRepo.On("FindIDsReportingTo", ctx, managerID).Return([]uuid.UUID{}, nil).Once()

		visible, err := resolver.Resolve(ctx, user.Principal{UserID: managerID, Role: user.RoleManager})

		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{managerID}, visible.AgentIDs)
	})

	t.Run("agents see only themselves", func(t *testing.T) {
		_, resolver := setupResolver()
		agentID := uuid.New()

		visible, err := resolver.Resolve(ctx, user.Principal{UserID: agentID, Role: user.RoleAgent})

		require.NoError(t, err)
		assert.False(t, visible.All)
		assert.Equal(t, []uuid.UUID{agentID}, visible.AgentIDs)
	})

	t.Run("a repository failure is surfaced", func(t *testing.T) {
		mockRepo, resolver := setupResolver()
		managerID := uuid.New()
		mockRepo.On("FindIDsReportingTo", ctx, managerID).Return(nil, assert.AnError).Once()

		_, err := resolver.Resolve(ctx, user.Principal{UserID: managerID, Role: user.RoleManager})

		assert.Error(t, err)
	})
}

func TestScopeContains(t *testing.T) {
	agentID := uuid.New()

	assert.True(t, scope.Scope{All: true}.Contains(uuid.New()))
	assert.True(t, scope.Scope{AgentIDs: []uuid.UUID{agentID}}.Contains(agentID))
	assert.False(t, scope.Scope{AgentIDs: []uuid.UUID{agentID}}.Contains(uuid.New()))
	assert.False(t, scope.Scope{}.Contains(agentID))
}
