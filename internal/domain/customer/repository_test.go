package customer

import (
	"context"

	"collection-crm/internal/domain/scope"
	"collection-crm/internal/domain/user"

	"github.com/stretchr/testify/mock"
)

// MockCustomerRepository is a testify mock for Repository, shared by the
// service tests in this directory.
type MockCustomerRepository struct {
	mock.Mock
}

var _ Repository = (*MockCustomerRepository)(nil)

func (m *MockCustomerRepository) Save(ctx context.Context, customer *Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, customerID int64) (*Customer, error) {
	args := m.Called(ctx, customerID)
	var cust *Customer
	if args.Get(0) != nil {
		cust = args.Get(0).(*Customer)
	}
	return cust, args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter AgentFilter, activeOnly bool) ([]*Customer, error) {
	args := m.Called(ctx, filter, activeOnly)
	var customers []*Customer
	if args.Get(0) != nil {
		customers = args.Get(0).([]*Customer)
	}
	return customers, args.Error(1)
}

func (m *MockCustomerRepository) SetStatus(ctx context.Context, customerID int64, status Status) error {
	args := m.Called(ctx, customerID, status)
	return args.Error(0)
}

type MockScopeResolver struct {
	mock.Mock
}

var _ scope.Resolver = (*MockScopeResolver)(nil)

func (m *MockScopeResolver) Resolve(ctx context.Context, principal user.Principal) (scope.Scope, error) {
	args := m.Called(ctx, principal)
	return args.Get(0).(scope.Scope), args.Error(1)
}

type MockBalanceChecker struct {
	mock.Mock
}

var _ LoanBalanceChecker = (*MockBalanceChecker)(nil)

func (m *MockBalanceChecker) HasUncollectedBalance(ctx context.Context, customerID int64) (bool, error) {
	args := m.Called(ctx, customerID)
	return args.Bool(0), args.Error(1)
}
