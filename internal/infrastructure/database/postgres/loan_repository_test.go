package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"collection-crm/internal/domain/loan"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLoanRepo(t *testing.T) (context.Context, *LoanRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewLoanRepository(mockPool, logger)

	return ctx, repo, mockPool
}

func loanRowColumns() []string {
	return []string{"id", "customer_id", "loan_amount", "interest_rate", "processing_fee_rate", "other_deductions", "include_charges_in_outstanding", "disbursal_amount", "outstanding_amount", "daily_amount", "start_date", "end_date", "status", "created_at", "updated_at"}
}

func TestCreateLoan(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	now := time.Now()
	l := &loan.Loan{
		CustomerID:        7,
		LoanAmount:        10000,
		InterestRate:      12,
		ProcessingFeeRate: 2,
		DisbursalAmount:   8600,
		OutstandingAmount: 10000,
		DailyAmount:       200,
		StartDate:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:            loan.StatusPendingFundLink,
	}

	query := `
        INSERT INTO loans (customer_id, loan_amount, interest_rate, processing_fee_rate, other_deductions, include_charges_in_outstanding, disbursal_amount, outstanding_amount, daily_amount, start_date, end_date, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(
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
	).WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

	err := repo.CreateLoan(ctx, l)

	require.NoError(t, err)
	assert.Equal(t, int64(11), l.ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindOpenLoanByCustomerID(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	now := time.Now()
	query := `SELECT ` + loanColumns + ` FROM loans WHERE customer_id = $1 AND status IN ($2, $3) ORDER BY id DESC LIMIT 1`

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(int64(7), loan.StatusPendingFundLink, loan.StatusActive).
		WillReturnRows(pgxmock.NewRows(loanRowColumns()).
			AddRow(int64(11), int64(7), 10000.0, 12.0, 2.0, 0.0, false, 8600.0, 10000.0, 200.0, now, (*time.Time)(nil), loan.StatusActive, now, now))

	l, err := repo.FindOpenByCustomerID(ctx, 7)

	require.NoError(t, err)
	assert.Equal(t, int64(11), l.ID)
	assert.Equal(t, loan.StatusActive, l.Status)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindOpenLoanByCustomerIDWhenNone(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	query := `SELECT ` + loanColumns + ` FROM loans WHERE customer_id = $1 AND status IN ($2, $3) ORDER BY id DESC LIMIT 1`
	mockPool.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(int64(7), loan.StatusPendingFundLink, loan.StatusActive).
		WillReturnRows(pgxmock.NewRows(loanRowColumns()))

	_, err := repo.FindOpenByCustomerID(ctx, 7)

	assert.ErrorIs(t, err, loan.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSetLoanStatus(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	query := `UPDATE loans SET status = $1, updated_at = NOW() WHERE id = $2`
	mockPool.ExpectExec(regexp.QuoteMeta(query)).WithArgs(loan.StatusActive, int64(11)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.SetStatus(ctx, 11, loan.StatusActive)

	require.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCloseLoan(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	query := `UPDATE loans SET status = $1, end_date = COALESCE(end_date, NOW()), updated_at = NOW() WHERE id = $2`
	mockPool.ExpectExec(regexp.QuoteMeta(query)).WithArgs(loan.StatusClosed, int64(11)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Close(ctx, 11)

	require.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCloseLoanWhenNotFound(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	query := `UPDATE loans SET status = $1, end_date = COALESCE(end_date, NOW()), updated_at = NOW() WHERE id = $2`
	mockPool.ExpectExec(regexp.QuoteMeta(query)).WithArgs(loan.StatusClosed, int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Close(ctx, 99)

	assert.ErrorIs(t, err, loan.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCollectedAmount(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE loan_id = $1 AND status = $2`
	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(int64(11), "paid").
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(4200.0))

	collected, err := repo.CollectedAmount(ctx, 11)

	require.NoError(t, err)
	assert.Equal(t, 4200.0, collected)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}
