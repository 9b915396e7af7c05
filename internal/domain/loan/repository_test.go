package loan

import (
	"context"

	"collection-crm/internal/domain/customer"
	"collection-crm/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockLoanRepository struct {
	mock.Mock
}

var _ Repository = (*MockLoanRepository)(nil)

func (m *MockLoanRepository) CreateLoan(ctx context.Context, loan *Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) FindByID(ctx context.Context, loanID int64) (*Loan, error) {
	args := m.Called(ctx, loanID)
	var l *Loan
	if args.Get(0) != nil {
		l = args.Get(0).(*Loan)
	}
	return l, args.Error(1)
}

func (m *MockLoanRepository) FindByCustomerID(ctx context.Context, customerID int64) ([]*Loan, error) {
	args := m.Called(ctx, customerID)
	var loans []*Loan
	if args.Get(0) != nil {
		loans = args.Get(0).([]*Loan)
	}
	return loans, args.Error(1)
}

func (m *MockLoanRepository) FindOpenByCustomerID(ctx context.Context, customerID int64) (*Loan, error) {
	args := m.Called(ctx, customerID)
	var l *Loan
	if args.Get(0) != nil {
		l = args.Get(0).(*Loan)
	}
	return l, args.Error(1)
}

func (m *MockLoanRepository) SetStatus(ctx context.Context, loanID int64, status Status) error {
	args := m.Called(ctx, loanID, status)
	return args.Error(0)
}

func (m *MockLoanRepository) Close(ctx context.Context, loanID int64) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}

func (m *MockLoanRepository) CollectedAmount(ctx context.Context, loanID int64) (float64, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(float64), args.Error(1)
}

type MockFundLink struct {
	mock.Mock
}

var _ FundLink = (*MockFundLink)(nil)

func (m *MockFundLink) Balance(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockFundLink) RecordDisbursement(ctx context.Context, loanID int64, amount float64, createdBy uuid.UUID) error {
	args := m.Called(ctx, loanID, amount, createdBy)
	return args.Error(0)
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
	args := m.Called(ctx, principal, customerID, status)
	return args.Error(0)
}
