package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"collection-crm/internal/domain/loan"
	"collection-crm/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	if db == nil {
		panic("DBPool cannot be nil for LoanRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewLoanRepository, using default stderr handler")
	}
	return &LoanRepository{
		db:     db,
		logger: logger.With("component", "LoanRepository"),
	}
}

const loanColumns = `id, customer_id, loan_amount, interest_rate, processing_fee_rate, other_deductions, include_charges_in_outstanding, disbursal_amount, outstanding_amount, daily_amount, start_date, end_date, status, created_at, updated_at`

func scanLoan(row pgx.Row) (*loan.Loan, error) {
	var l loan.Loan
	err := row.Scan(
		&l.ID,
		&l.CustomerID,
		&l.LoanAmount,
		&l.InterestRate,
		&l.ProcessingFeeRate,
		&l.OtherDeductions,
		&l.IncludeChargesInOutstanding,
		&l.DisbursalAmount,
		&l.OutstandingAmount,
		&l.DailyAmount,
		&l.StartDate,
		&l.EndDate,
		&l.Status,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LoanRepository) CreateLoan(ctx context.Context, l *loan.Loan) error {
	if l == nil {
		return fmt.Errorf("%w: loan cannot be nil", apperrors.ErrInvalidArgument)
	}
	logCtx := r.logger.With(slog.Int64("customerID", l.CustomerID))
	logCtx.InfoContext(ctx, "Attempting to insert new loan")

	query := `
        INSERT INTO loans (customer_id, loan_amount, interest_rate, processing_fee_rate, other_deductions, include_charges_in_outstanding, disbursal_amount, outstanding_amount, daily_amount, start_date, end_date, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		l.CustomerID,
		l.LoanAmount,
		l.InterestRate,
		l.ProcessingFeeRate,
		l.OtherDeductions,
		l.IncludeChargesInOutstanding,
		l.DisbursalAmount,
		l.OutstandingAmount,
		l.DailyAmount,
		l.StartDate,
		l.EndDate,
		l.Status,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			logCtx.WarnContext(ctx, "Failed to insert loan due to unique constraint violation")
			return translatedErr
		}
		logCtx.ErrorContext(ctx, "Failed to insert loan", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert loan: %w", apperrors.ErrDatabase, err)
	}

	logCtx.InfoContext(ctx, "Loan inserted successfully", slog.Int64("loanID", l.ID))
	return nil
}

func (r *LoanRepository) FindByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	r.logger.InfoContext(ctx, "Attempting to find loan by ID", slog.Int64("loanID", loanID))

	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	l, err := scanLoan(r.db.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found")
			return nil, loan.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to find loan by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to find loan: %w", apperrors.ErrDatabase, err)
	}
	return l, nil
}

func (r *LoanRepository) FindByCustomerID(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	r.logger.InfoContext(ctx, "Attempting to list loans for customer", slog.Int64("customerID", customerID))

	query := `SELECT ` + loanColumns + ` FROM loans WHERE customer_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query loans", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query loans: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans := make([]*loan.Loan, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan loan row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed scanning loan: %w", apperrors.ErrDatabase, err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loan rows iteration: %w", apperrors.ErrDatabase, err)
	}
	return loans, nil
}

func (r *LoanRepository) FindOpenByCustomerID(ctx context.Context, customerID int64) (*loan.Loan, error) {
	r.logger.InfoContext(ctx, "Attempting to find open loan for customer", slog.Int64("customerID", customerID))

	query := `SELECT ` + loanColumns + ` FROM loans WHERE customer_id = $1 AND status IN ($2, $3) ORDER BY id DESC LIMIT 1`

	l, err := scanLoan(r.db.QueryRow(ctx, query, customerID, loan.StatusPendingFundLink, loan.StatusActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, loan.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to find open loan", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to find open loan: %w", apperrors.ErrDatabase, err)
	}
	return l, nil
}

func (r *LoanRepository) SetStatus(ctx context.Context, loanID int64, status loan.Status) error {
	r.logger.InfoContext(ctx, "Attempting to set loan status", slog.Int64("loanID", loanID), slog.String("status", string(status)))

	query := `UPDATE loans SET status = $1, updated_at = NOW() WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, query, status, loanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to set loan status", slog.Any("error", err))
		return fmt.Errorf("%w: failed to set loan status: %w", apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Status update affected zero rows, loan likely not found")
		return loan.ErrNotFound
	}
	return nil
}

func (r *LoanRepository) Close(ctx context.Context, loanID int64) error {
	r.logger.InfoContext(ctx, "Attempting to close loan", slog.Int64("loanID", loanID))

	query := `UPDATE loans SET status = $1, end_date = COALESCE(end_date, NOW()), updated_at = NOW() WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, query, loan.StatusClosed, loanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to close loan", slog.Any("error", err))
		return fmt.Errorf("%w: failed to close loan: %w", apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Close affected zero rows, loan likely not found")
		return loan.ErrNotFound
	}
	return nil
}

func (r *LoanRepository) CollectedAmount(ctx context.Context, loanID int64) (float64, error) {
	r.logger.InfoContext(ctx, "Summing collected amount for loan", slog.Int64("loanID", loanID))

	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE loan_id = $1 AND status = $2`

	var collected float64
	err := r.db.QueryRow(ctx, query, loanID, "paid").Scan(&collected)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.logger.ErrorContext(ctx, "Failed to sum collected amount", slog.Any("error", err))
			return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
	}
	return collected, nil
}
