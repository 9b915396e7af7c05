package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"collection-crm/internal/domain/customer"
	"collection-crm/internal/domain/user"
	"collection-crm/internal/event"
	"collection-crm/internal/pkg/apperrors"

	"github.com/google/uuid"
)

type CreateLoanInput struct {
	CustomerID                  int64
	LoanAmount                  float64
	InterestRate                float64
	ProcessingFeeRate           float64
	OtherDeductions             float64
	IncludeChargesInOutstanding bool
	StartDate                   time.Time
	EndDate                     *time.Time
	DailyAmount                 float64
}

// CreateLoanResult carries the created loan plus a warning when the fund
// disbursement write failed after the loan row was created. The loan then
// stays pending_fund_link until ResolvePendingLoan retries the link.
type CreateLoanResult struct {
	Loan    *Loan
	Warning string
}

// FundLink is the slice of the fund service the loan service needs for the
// two-phase create. Defined here to keep the dependency one-directional.
type FundLink interface {
	Balance(ctx context.Context) (float64, error)
	RecordDisbursement(ctx context.Context, loanID int64, amount float64, createdBy uuid.UUID) error
}

type LoanService interface {
	CreateLoan(ctx context.Context, principal user.Principal, input CreateLoanInput) (*CreateLoanResult, error)

	GetLoan(ctx context.Context, principal user.Principal, loanID int64) (*Loan, error)

	ListCustomerLoans(ctx context.Context, principal user.Principal, customerID int64) ([]*Loan, error)

	// ResolvePendingLoan retries the fund disbursement write for a loan
	// stuck in pending_fund_link and activates it on success.
	ResolvePendingLoan(ctx context.Context, principal user.Principal, loanID int64) (*Loan, error)

	CloseLoan(ctx context.Context, principal user.Principal, loanID int64) error

	// HasUncollectedBalance implements customer.LoanBalanceChecker.
	HasUncollectedBalance(ctx context.Context, customerID int64) (bool, error)
}

var _ LoanService = (*loanService)(nil)
var _ customer.LoanBalanceChecker = (LoanService)(nil)

type loanService struct {
	repo            Repository
	customerService customer.CustomerService
	funds           FundLink
	pub             event.EventPublisher
	logger          *slog.Logger
}

func NewLoanService(repo Repository, customerService customer.CustomerService, funds FundLink, pub event.EventPublisher, logger *slog.Logger) LoanService {
	if repo == nil {
		panic("loan repository cannot be nil")
	}
	if customerService == nil {
		panic("customer service cannot be nil")
	}
	if funds == nil {
		panic("fund link cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewLoanService, using default stderr handler")
	}
	if pub == nil {
		pub = event.NewNoopPublisher()
	}
	return &loanService{
		repo:            repo,
		customerService: customerService,
		funds:           funds,
		pub:             pub,
		logger:          logger.With(slog.String("component", "loanService")),
	}
}

func (s *loanService) CreateLoan(ctx context.Context, principal user.Principal, input CreateLoanInput) (*CreateLoanResult, error) {
	s.logger.InfoContext(ctx, "Creating new loan", slog.Int64("customerID", input.CustomerID))

	if principal.Role != user.RoleAdmin && principal.Role != user.RoleManager {
		s.logger.WarnContext(ctx, "Caller is not permitted to create loans", slog.String("role", string(principal.Role)))
		return nil, apperrors.ErrForbidden
	}
	if input.LoanAmount <= 0 {
		return nil, apperrors.NewValidationError("loanAmount", "loan amount must be greater than zero")
	}
	if input.InterestRate < 0 || input.ProcessingFeeRate < 0 || input.OtherDeductions < 0 {
		return nil, apperrors.NewValidationError("rates", "rates and deductions cannot be negative")
	}

	cust, err := s.customerService.GetCustomer(ctx, principal, input.CustomerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: customer %d not found", apperrors.ErrValidation, input.CustomerID)
		}
		s.logger.ErrorContext(ctx, "Failed to get customer details", slog.Any("error", err))
		return nil, fmt.Errorf("failed to verify customer status: %w", err)
	}
	if cust.Status != customer.StatusActive {
		s.logger.WarnContext(ctx, "Attempted to create loan for non-active customer", slog.String("status", string(cust.Status)))
		return nil, fmt.Errorf("%w: customer %d is not active", apperrors.ErrValidation, input.CustomerID)
	}

	if existing, err := s.repo.FindOpenByCustomerID(ctx, input.CustomerID); err == nil {
		s.logger.WarnContext(ctx, "Customer already has an open loan", slog.Int64("existingLoanID", existing.ID))
		return nil, fmt.Errorf("%w (loanID: %d)", apperrors.ErrLoanAlreadyActive, existing.ID)
	} else if !errors.Is(err, ErrNotFound) {
		s.logger.ErrorContext(ctx, "Failed to check for an open loan", slog.Any("error", err))
		return nil, fmt.Errorf("failed to check existing loans: %w", err)
	}

	newLoan := NewLoan(input.CustomerID, input.LoanAmount, input.InterestRate, input.ProcessingFeeRate,
		input.OtherDeductions, input.IncludeChargesInOutstanding, input.StartDate, input.EndDate, input.DailyAmount)

	balance, err := s.funds.Balance(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read fund balance", slog.Any("error", err))
		return nil, fmt.Errorf("failed to read fund balance: %w", err)
	}
	if balance < newLoan.DisbursalAmount {
		s.logger.WarnContext(ctx, "Fund balance insufficient for disbursal",
			slog.Float64("balance", balance), slog.Float64("disbursal", newLoan.DisbursalAmount))
		return nil, fmt.Errorf("%w: balance %.2f, disbursal %.2f", apperrors.ErrInsufficientFunds, balance, newLoan.DisbursalAmount)
	}

	// Phase one: persist the loan in pending_fund_link.
	if err := s.repo.CreateLoan(ctx, newLoan); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save loan", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to save loan: %v", apperrors.ErrInternalServer, err)
	}

	// Phase two: the fund disbursement write. A failure here leaves the loan
	// pending and is surfaced as a warning, never rolled back silently.
	result := &CreateLoanResult{Loan: newLoan}
	if err := s.funds.RecordDisbursement(ctx, newLoan.ID, newLoan.DisbursalAmount, principal.UserID); err != nil {
		s.logger.ErrorContext(ctx, "Loan created but fund disbursement write failed", slog.Int64("loanID", newLoan.ID), slog.Any("error", err))
		result.Warning = "loan created but fund ledger entry failed; the loan stays pending until the link is resolved"
		return result, nil
	}

	if err := s.repo.SetStatus(ctx, newLoan.ID, StatusActive); err != nil {
		s.logger.ErrorContext(ctx, "Failed to activate loan after fund link", slog.Int64("loanID", newLoan.ID), slog.Any("error", err))
		result.Warning = "fund ledger entry recorded but loan activation failed; resolve the pending loan"
		return result, nil
	}
	newLoan.Status = StatusActive

	if pubErr := s.pub.PublishLoanActivated(ctx, event.LoanActivatedEvent{
		Timestamp:       time.Now(),
		LoanID:          newLoan.ID,
		CustomerID:      newLoan.CustomerID,
		DisbursalAmount: newLoan.DisbursalAmount,
	}); pubErr != nil {
		s.logger.ErrorContext(ctx, "Loan activated, but FAILED to publish activation event", slog.Any("error", pubErr))
	}

	s.logger.InfoContext(ctx, "Loan created successfully", slog.Int64("loanID", newLoan.ID), slog.Int64("customerID", newLoan.CustomerID))
	return result, nil
}

func (s *loanService) GetLoan(ctx context.Context, principal user.Principal, loanID int64) (*Loan, error) {
	s.logger.InfoContext(ctx, "Getting loan", slog.Int64("loanID", loanID))

	found, err := s.repo.FindByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: loan with ID %d not found", apperrors.ErrNotFound, loanID)
		}
		s.logger.ErrorContext(ctx, "Repository error finding loan", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get loan %d: %w", loanID, err)
	}

	// Visibility follows the owning customer.
	if _, err := s.customerService.GetCustomer(ctx, principal, found.CustomerID); err != nil {
		return nil, err
	}
	return found, nil
}

func (s *loanService) ListCustomerLoans(ctx context.Context, principal user.Principal, customerID int64) ([]*Loan, error) {
	s.logger.InfoContext(ctx, "Listing loans for customer", slog.Int64("customerID", customerID))

	if _, err := s.customerService.GetCustomer(ctx, principal, customerID); err != nil {
		return nil, err
	}

	loans, err := s.repo.FindByCustomerID(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing loans", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list loans for customer %d: %w", customerID, err)
	}
	return loans, nil
}

func (s *loanService) ResolvePendingLoan(ctx context.Context, principal user.Principal, loanID int64) (*Loan, error) {
	s.logger.InfoContext(ctx, "Resolving pending loan", slog.Int64("loanID", loanID))

	if principal.Role != user.RoleAdmin && principal.Role != user.RoleManager {
		return nil, apperrors.ErrForbidden
	}

	found, err := s.GetLoan(ctx, principal, loanID)
	if err != nil {
		return nil, err
	}
	if found.Status != StatusPendingFundLink {
		return nil, fmt.Errorf("%w: loan %d is not pending a fund link", apperrors.ErrConflict, loanID)
	}

	if err := s.funds.RecordDisbursement(ctx, found.ID, found.DisbursalAmount, principal.UserID); err != nil {
		s.logger.ErrorContext(ctx, "Fund disbursement retry failed", slog.Any("error", err))
		return nil, fmt.Errorf("failed to record fund disbursement for loan %d: %w", loanID, err)
	}
	if err := s.repo.SetStatus(ctx, found.ID, StatusActive); err != nil {
		s.logger.ErrorContext(ctx, "Failed to activate loan after fund link retry", slog.Any("error", err))
		return nil, fmt.Errorf("failed to activate loan %d: %w", loanID, err)
	}
	found.Status = StatusActive

	s.logger.InfoContext(ctx, "Pending loan resolved", slog.Int64("loanID", loanID))
	return found, nil
}

func (s *loanService) CloseLoan(ctx context.Context, principal user.Principal, loanID int64) error {
	s.logger.InfoContext(ctx, "Attempting to close loan", slog.Int64("loanID", loanID))

	if principal.Role != user.RoleAdmin && principal.Role != user.RoleManager {
		s.logger.WarnContext(ctx, "Caller is not permitted to close loans", slog.String("role", string(principal.Role)))
		return apperrors.ErrForbidden
	}

	found, err := s.GetLoan(ctx, principal, loanID)
	if err != nil {
		return err
	}
	if found.Status == StatusClosed {
		s.logger.InfoContext(ctx, "Loan already closed, no action needed")
		return nil
	}

	collected, err := s.repo.CollectedAmount(ctx, loanID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to sum collected amount", slog.Any("error", err))
		return fmt.Errorf("failed to sum collections for loan %d: %w", loanID, err)
	}
	if collected < found.OutstandingAmount {
		s.logger.WarnContext(ctx, "Business rule failed: outstanding balance remains",
			slog.Float64("collected", collected), slog.Float64("outstanding", found.OutstandingAmount))
		return fmt.Errorf("%w: collected %.2f of %.2f", apperrors.ErrOutstandingRemaining, collected, found.OutstandingAmount)
	}

	if err := s.repo.Close(ctx, loanID); err != nil {
		s.logger.ErrorContext(ctx, "Repository error closing loan", slog.Any("error", err))
		return fmt.Errorf("failed to close loan %d: %w", loanID, err)
	}

	s.logger.InfoContext(ctx, "Loan closed successfully")
	return nil
}

func (s *loanService) HasUncollectedBalance(ctx context.Context, customerID int64) (bool, error) {
	open, err := s.repo.FindOpenByCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check open loan for customer %d: %w", customerID, err)
	}

	collected, err := s.repo.CollectedAmount(ctx, open.ID)
	if err != nil {
		return false, fmt.Errorf("failed to sum collections for loan %d: %w", open.ID, err)
	}
	return collected < open.OutstandingAmount, nil
}
