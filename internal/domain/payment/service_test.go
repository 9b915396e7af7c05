package payment_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"collection-crm/internal/domain/customer"
	"collection-crm/internal/domain/payment"
	"collection-crm/internal/domain/scope"
	"collection-crm/internal/domain/user"
	"collection-crm/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTest() (*payment.MockPaymentRepository, *payment.MockCustomerService, *payment.MockScopeResolver, payment.PaymentService) {
	mockRepo := new(payment.MockPaymentRepository)
	mockCustomers := new(payment.MockCustomerService)
	mockScopes := new(payment.MockScopeResolver)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := payment.NewPaymentService(mockRepo, mockCustomers, mockScopes, nil, logger)
	return mockRepo, mockCustomers, mockScopes, service
}

func agent() user.Principal {
	return user.Principal{UserID: uuid.New(), Role: user.RoleAgent}
}

func paidInput() payment.RecordPaymentInput {
	return payment.RecordPaymentInput{
		CustomerID: 7,
		LoanID:     11,
		Date:       time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC),
		Amount:     200,
		Mode:       payment.ModeCash,
		Status:     payment.StatusPaid,
	}
}

func TestRecordPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an unknown status", func(t *testing.T) {
		_, _, _, service := setupTest()
		input := paidInput()
		input.Status = payment.Status("partial")

		_, err := service.RecordPayment(ctx, agent(), input)

		var valErr *apperrors.ValidationError
		assert.ErrorAs(t, err, &valErr)
	})

	t.Run("a paid entry needs a positive amount", func(t *testing.T) {
		_, _, _, service := setupTest()
		input := paidInput()
		input.Amount = 0

		_, err := service.RecordPayment(ctx, agent(), input)

		assert.ErrorIs(t, err, apperrors.ErrInvalidPaymentAmount)
	})

	t.Run("a promised date only belongs on a not_paid entry", func(t *testing.T) {
		_, _, _, service := setupTest()
		input := paidInput()
		promised := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
		input.PromisedDate = &promised

		_, err := service.RecordPayment(ctx, agent(), input)

		var valErr *apperrors.ValidationError
		assert.ErrorAs(t, err, &valErr)
	})

	t.Run("an out-of-scope customer blocks the entry", func(t *testing.T) {
		mockRepo, mockCustomers, _, service := setupTest()
		principal := agent()
		mockCustomers.On("GetCustomer", ctx, principal, int64(7)).Return(nil, apperrors.ErrForbidden).Once()

		_, err := service.RecordPayment(ctx, principal, paidInput())

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("stamps the authenticated collector as the agent", func(t *testing.T) {
		mockRepo, mockCustomers, _, service := setupTest()
		principal := agent()
		mockCustomers.On("GetCustomer", ctx, principal, int64(7)).
			Return(&customer.Customer{ID: 7, Status: customer.StatusActive}, nil).Once()
		mockRepo.On("Create", ctx, mock.MatchedBy(func(p *payment.Payment) bool {
			return p.AgentID == principal.UserID && p.Amount == 200
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*payment.Payment).ID = 31
		}).Return(nil).Once()

		recorded, err := service.RecordPayment(ctx, principal, paidInput())

		require.NoError(t, err)
		assert.Equal(t, int64(31), recorded.ID)
		assert.Equal(t, principal.UserID, recorded.AgentID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("a zero date defaults to today", func(t *testing.T) {
		mockRepo, mockCustomers, _, service := setupTest()
		principal := agent()
		input := paidInput()
		input.Date = time.Time{}
		mockCustomers.On("GetCustomer", ctx, principal, int64(7)).
			Return(&customer.Customer{ID: 7, Status: customer.StatusActive}, nil).Once()
		mockRepo.On("Create", ctx, mock.MatchedBy(func(p *payment.Payment) bool {
			return !p.Date.IsZero()
		})).Return(nil).Once()

		_, err := service.RecordPayment(ctx, principal, input)

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("records a not_paid entry with a promise", func(t *testing.T) {
		mockRepo, mockCustomers, _, service := setupTest()
		principal := agent()
		promised := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
		input := payment.RecordPaymentInput{
			CustomerID:   7,
			Date:         time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC),
			Mode:         payment.ModeCash,
			Status:       payment.StatusNotPaid,
			Remarks:      "will pay saturday",
			PromisedDate: &promised,
		}
		mockCustomers.On("GetCustomer", ctx, principal, int64(7)).
			Return(&customer.Customer{ID: 7, Status: customer.StatusActive}, nil).Once()
		mockRepo.On("Create", ctx, mock.MatchedBy(func(p *payment.Payment) bool {
			return p.Status == payment.StatusNotPaid && p.PromisedDate != nil && p.PromisedDate.Equal(promised)
		})).Return(nil).Once()

		_, err := service.RecordPayment(ctx, principal, input)

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestListPayments(t *testing.T) {
	ctx := context.Background()

	t.Run("passes the resolved scope and range to the repository", func(t *testing.T) {
		mockRepo, _, mockScopes, service := setupTest()
		principal := agent()
		from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
		expectedFilter := payment.AgentFilter{AgentIDs: []uuid.UUID{principal.UserID}}

		mockScopes.On("Resolve", ctx, principal).Return(scope.Scope{AgentIDs: []uuid.UUID{principal.UserID}}, nil).Once()
		mockRepo.On("FindByDateRange", ctx, expectedFilter, from, to).Return([]*payment.Payment{{ID: 1}}, nil).Once()

		payments, err := service.ListPayments(ctx, principal, from, to)

		require.NoError(t, err)
		assert.Len(t, payments, 1)
		mockRepo.AssertExpectations(t)
	})
}

func TestListCustomerPayments(t *testing.T) {
	ctx := context.Background()

	t.Run("a customer with no entries lists empty, not an error", func(t *testing.T) {
		mockRepo, mockCustomers, _, service := setupTest()
		principal := agent()
		mockCustomers.On("GetCustomer", ctx, principal, int64(7)).
			Return(&customer.Customer{ID: 7}, nil).Once()
		mockRepo.On("FindByCustomerID", ctx, int64(7)).Return(nil, payment.ErrNotFound).Once()

		payments, err := service.ListCustomerPayments(ctx, principal, 7)

		require.NoError(t, err)
		assert.Empty(t, payments)
	})

	t.Run("scope rides on the customer lookup", func(t *testing.T) {
		mockRepo, mockCustomers, _, service := setupTest()
		principal := agent()
		mockCustomers.On("GetCustomer", ctx, principal, int64(7)).Return(nil, apperrors.ErrForbidden).Once()

		_, err := service.ListCustomerPayments(ctx, principal, 7)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockRepo.AssertNotCalled(t, "FindByCustomerID", mock.Anything, mock.Anything)
	})
}
