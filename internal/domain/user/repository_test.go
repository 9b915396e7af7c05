package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

var _ Repository = (*MockUserRepository)(nil)

func (m *MockUserRepository) Save(ctx context.Context, profile *Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	args := m.Called(ctx, id)
	var profile *Profile
	if args.Get(0) != nil {
		profile = args.Get(0).(*Profile)
	}
	return profile, args.Error(1)
}

func (m *MockUserRepository) FindByMobile(ctx context.Context, mobile string) (*Profile, error) {
	args := m.Called(ctx, mobile)
	var profile *Profile
	if args.Get(0) != nil {
		profile = args.Get(0).(*Profile)
	}
	return profile, args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, activeOnly bool) ([]*Profile, error) {
	args := m.Called(ctx, activeOnly)
	var profiles []*Profile
	if args.Get(0) != nil {
		profiles = args.Get(0).([]*Profile)
	}
	return profiles, args.Error(1)
}

func (m *MockUserRepository) FindIDsReportingTo(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, managerID)
	var ids []uuid.UUID
	if args.Get(0) != nil {
		ids = args.Get(0).([]uuid.UUID)
	}
	return ids, args.Error(1)
}

func (m *MockUserRepository) SetActiveStatus(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockUserRepository) RecordPasswordReset(ctx context.Context, audit *PasswordResetAudit) error {
	args := m.Called(ctx, audit)
	return args.Error(0)
}
