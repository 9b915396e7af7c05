package payment

import (
	"context"
	"time"

	"collection-crm/internal/domain/customer"
	"collection-crm/internal/domain/scope"
	"collection-crm/internal/domain/user"

	"github.com/stretchr/testify/mock"
)

type MockPaymentRepository struct {
	mock.Mock
}

var _ Repository = (*MockPaymentRepository)(nil)

func (m *MockPaymentRepository) Create(ctx context.Context, payment *Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, paymentID int64) (*Payment, error) {
	args := m.Called(ctx, paymentID)
	var p *Payment
	if args.Get(0) != nil {
		p = args.Get(0).(*Payment)
	}
	return p, args.Error(1)
}

func (m *MockPaymentRepository) FindByDateRange(ctx context.Context, filter AgentFilter, from, to time.Time) ([]*Payment, error) {
	args := m.Called(ctx, filter, from, to)
	var payments []*Payment
	if args.Get(0) != nil {
		payments = args.Get(0).([]*Payment)
	}
	return payments, args.Error(1)
}

func (m *MockPaymentRepository) FindByCustomerID(ctx context.Context, customerID int64) ([]*Payment, error) {
	args := m.Called(ctx, customerID)
	var payments []*Payment
	if args.Get(0) != nil {
		payments = args.Get(0).([]*Payment)
	}
	return payments, args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter AgentFilter) ([]*Payment, error) {
	args := m.Called(ctx, filter)
	var payments []*Payment
	if args.Get(0) != nil {
		payments = args.Get(0).([]*Payment)
	}
	return payments, args.Error(1)
}

type MockCustomerService struct {
	mock.Mock
}

var _ customer.CustomerService = (*MockCustomerService)(nil)

func (m *MockCustomerService) CreateCustomer(ctx context.Context, principal user.Principal, input customer.CreateCustomerInput) (*customer.Customer, error) {
	args := m.Called(ctx, principal, input)
	var cust *customer.Customer
	if args.Get(0) != nil {
		cust = args.Get(0).(*customer.Customer)
	}
	return cust, args.Error(1)
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, principal user.Principal, customerID int64) (*customer.Customer, error) {
	args := m.Called(ctx, principal, customerID)
	var cust *customer.Customer
	if args.Get(0) != nil {
		cust = args.Get(0).(*customer.Customer)
	}
	return cust, args.Error(1)
}

func (m *MockCustomerService) ListCustomers(ctx context.Context, principal user.Principal, activeOnly bool) ([]*customer.Customer, error) {
	args := m.Called(ctx, principal, activeOnly)
	var customers []*customer.Customer
	if args.Get(0) != nil {
		customers = args.Get(0).([]*customer.Customer)
	}
	return customers, args.Error(1)
}

func (m *MockCustomerService) UpdateCustomer(ctx context.Context, principal user.Principal, customerID int64, input customer.UpdateCustomerInput) (*customer.Customer, error) {
	args := m.Called(ctx, principal, customerID, input)
	var cust *customer.Customer
	if args.Get(0) != nil {
		cust = args.Get(0).(*customer.Customer)
	}
	return cust, args.Error(1)
}

func (m *MockCustomerService) UpdateStatus(ctx context.Context, principal user.Principal, customerID int64, status customer.Status) error {
	return m.Called(ctx, principal, customerID, status).Error(0)
}

type MockScopeResolver struct {
	mock.Mock
}

var _ scope.Resolver = (*MockScopeResolver)(nil)

func (m *MockScopeResolver) Resolve(ctx context.Context, principal user.Principal) (scope.Scope, error) {
	args := m.Called(ctx, principal)
	return args.Get(0).(scope.Scope), args.Error(1)
}
