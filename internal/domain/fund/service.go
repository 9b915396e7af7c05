package fund

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"collection-crm/internal/domain/user"
	"collection-crm/internal/pkg/apperrors"

	"github.com/google/uuid"
)

type RecordTransactionInput struct {
	Type        TransactionType
	Amount      float64
	Description string
}

type FundService interface {
	// RecordTransaction inserts a manual ledger entry (credit or debit).
	// Loan disbursements and repayments are written by the loan flow, not
	// through this operation.
	RecordTransaction(ctx context.Context, principal user.Principal, input RecordTransactionInput) (*Transaction, error)

	ListTransactions(ctx context.Context, principal user.Principal) ([]*Transaction, error)

	// Balance implements loan.FundLink.
	Balance(ctx context.Context) (float64, error)

	// RecordDisbursement implements loan.FundLink.
	RecordDisbursement(ctx context.Context, loanID int64, amount float64, createdBy uuid.UUID) error
}

var _ FundService = (*fundService)(nil)

type fundService struct {
	repo   Repository
	logger *slog.Logger
}

func NewFundService(repo Repository, logger *slog.Logger) FundService {
	if repo == nil {
		panic("fund repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewFundService, using default stderr handler")
	}
	return &fundService{
		repo:   repo,
		logger: logger.With(slog.String("component", "fundService")),
	}
}

func (s *fundService) RecordTransaction(ctx context.Context, principal user.Principal, input RecordTransactionInput) (*Transaction, error) {
	s.logger.InfoContext(ctx, "Attempting to record fund transaction", slog.String("type", string(input.Type)))

	if principal.Role != user.RoleAdmin && principal.Role != user.RoleManager {
		s.logger.WarnContext(ctx, "Caller is not permitted to record fund transactions", slog.String("role", string(principal.Role)))
		return nil, apperrors.ErrForbidden
	}
	if input.Type != TypeCredit && input.Type != TypeDebit {
		return nil, apperrors.NewValidationError("type", "manual entries must be credit or debit")
	}
	if input.Amount <= 0 {
		return nil, apperrors.NewValidationError("amount", "amount must be greater than zero")
	}

	tx := &Transaction{
		Type:        input.Type,
		Amount:      input.Amount,
		Description: strings.TrimSpace(input.Description),
		CreatedBy:   principal.UserID,
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save fund transaction", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save fund transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Fund transaction recorded", slog.Int64("transactionID", tx.ID))
	return tx, nil
}

func (s *fundService) ListTransactions(ctx context.Context, principal user.Principal) ([]*Transaction, error) {
	s.logger.InfoContext(ctx, "Listing fund transactions")

	if principal.Role != user.RoleAdmin && principal.Role != user.RoleManager {
		return nil, apperrors.ErrForbidden
	}

	transactions, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing fund transactions", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list fund transactions: %w", err)
	}
	return transactions, nil
}

func (s *fundService) Balance(ctx context.Context) (float64, error) {
	transactions, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error computing fund balance", slog.Any("error", err))
		return 0, fmt.Errorf("failed to load fund transactions: %w", err)
	}
	return Balance(transactions), nil
}

func (s *fundService) RecordDisbursement(ctx context.Context, loanID int64, amount float64, createdBy uuid.UUID) error {
	s.logger.InfoContext(ctx, "Recording loan disbursement", slog.Int64("loanID", loanID), slog.Float64("amount", amount))

	tx := &Transaction{
		Type:        TypeLoanDisbursement,
		Amount:      amount,
		Description: fmt.Sprintf("disbursement for loan %d", loanID),
		LoanID:      &loanID,
		CreatedBy:   createdBy,
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save disbursement", slog.Any("error", err))
		return fmt.Errorf("failed to save disbursement for loan %d: %w", loanID, err)
	}
	return nil
}
