package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"collection-crm/internal/domain/customer"
	"collection-crm/internal/domain/scope"
	"collection-crm/internal/domain/user"
	"collection-crm/internal/event"
	"collection-crm/internal/pkg/apperrors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var paymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "payments_recorded_total",
	Help: "Total number of collection entries recorded.",
}, []string{"status", "mode"})

type RecordPaymentInput struct {
	CustomerID   int64
	LoanID       int64
	Date         time.Time
	Amount       float64
	Mode         Mode
	Status       Status
	Remarks      string
	PromisedDate *time.Time
}

type PaymentService interface {
	// RecordPayment inserts one collection entry. The agent id is always
	// the authenticated principal, regardless of the request body.
	RecordPayment(ctx context.Context, principal user.Principal, input RecordPaymentInput) (*Payment, error)

	ListPayments(ctx context.Context, principal user.Principal, from, to time.Time) ([]*Payment, error)

	ListCustomerPayments(ctx context.Context, principal user.Principal, customerID int64) ([]*Payment, error)
}

var _ PaymentService = (*paymentService)(nil)

type paymentService struct {
	repo            Repository
	customerService customer.CustomerService
	scopes          scope.Resolver
	pub             event.EventPublisher
	logger          *slog.Logger
}

func NewPaymentService(repo Repository, customerService customer.CustomerService, scopes scope.Resolver, pub event.EventPublisher, logger *slog.Logger) PaymentService {
	if repo == nil {
		panic("payment repository cannot be nil")
	}
	if customerService == nil {
		panic("customer service cannot be nil")
	}
	if scopes == nil {
		panic("scope resolver cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewPaymentService, using default stderr handler")
	}
	if pub == nil {
		pub = event.NewNoopPublisher()
	}
	return &paymentService{
		repo:            repo,
		customerService: customerService,
		scopes:          scopes,
		pub:             pub,
		logger:          logger.With(slog.String("component", "paymentService")),
	}
}

func (s *paymentService) RecordPayment(ctx context.Context, principal user.Principal, input RecordPaymentInput) (*Payment, error) {
	s.logger.InfoContext(ctx, "Attempting to record payment", slog.Int64("customerID", input.CustomerID))

	if !input.Status.Valid() {
		return nil, apperrors.NewValidationError("status", "status must be paid or not_paid")
	}
	if !input.Mode.Valid() {
		return nil, apperrors.NewValidationError("mode", "mode must be cash or online")
	}
	if input.Status == StatusPaid && input.Amount <= 0 {
		s.logger.WarnContext(ctx, "Validation failed: paid entry with non-positive amount")
		return nil, fmt.Errorf("%w: amount must be greater than zero for a paid entry", apperrors.ErrInvalidPaymentAmount)
	}
	if input.PromisedDate != nil && input.Status != StatusNotPaid {
		return nil, apperrors.NewValidationError("promisedDate", "a promised date is only valid on a not_paid entry")
	}

	// Scope check rides on the customer lookup.
	if _, err := s.customerService.GetCustomer(ctx, principal, input.CustomerID); err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now().Truncate(24 * time.Hour)
	}

	p := &Payment{
		CustomerID:   input.CustomerID,
		LoanID:       input.LoanID,
		AgentID:      principal.UserID,
		Date:         date,
		Amount:       input.Amount,
		Mode:         input.Mode,
		Status:       input.Status,
		Remarks:      input.Remarks,
		PromisedDate: input.PromisedDate,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save payment", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	paymentsRecorded.WithLabelValues(string(p.Status), string(p.Mode)).Inc()

	if pubErr := s.pub.PublishPaymentRecorded(ctx, event.PaymentRecordedEvent{
		Timestamp:  time.Now(),
		PaymentID:  p.ID,
		CustomerID: p.CustomerID,
		LoanID:     p.LoanID,
		AgentID:    p.AgentID,
		Date:       p.Date,
		Amount:     p.Amount,
		Status:     string(p.Status),
		Promised:   p.PromisedDate,
	}); pubErr != nil {
		s.logger.ErrorContext(ctx, "Payment recorded, but FAILED to publish event", slog.Any("error", pubErr))
	}

	s.logger.InfoContext(ctx, "Payment recorded successfully", slog.Int64("paymentID", p.ID))
	return p, nil
}

func (s *paymentService) ListPayments(ctx context.Context, principal user.Principal, from, to time.Time) ([]*Payment, error) {
	s.logger.InfoContext(ctx, "Listing payments by date range")

	visible, err := s.scopes.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}

	payments, err := s.repo.FindByDateRange(ctx, AgentFilter{All: visible.All, AgentIDs: visible.AgentIDs}, from, to)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing payments", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (s *paymentService) ListCustomerPayments(ctx context.Context, principal user.Principal, customerID int64) ([]*Payment, error) {
	s.logger.InfoContext(ctx, "Listing payments for customer", slog.Int64("customerID", customerID))

	if _, err := s.customerService.GetCustomer(ctx, principal, customerID); err != nil {
		return nil, err
	}

	payments, err := s.repo.FindByCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []*Payment{}, nil
		}
		s.logger.ErrorContext(ctx, "Repository error listing customer payments", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list payments for customer %d: %w", customerID, err)
	}
	return payments, nil
}
