package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"collection-crm/internal/domain/fund"
	"collection-crm/internal/pkg/apperrors"
)

type FundRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ fund.Repository = (*FundRepository)(nil)

func NewFundRepository(db DBPool, logger *slog.Logger) *FundRepository {
	if db == nil {
		panic("DBPool cannot be nil for FundRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewFundRepository, using default stderr handler")
	}
	return &FundRepository{
		db:     db,
		logger: logger.With("component", "FundRepository"),
	}
}

func (r *FundRepository) Create(ctx context.Context, tx *fund.Transaction) error {
	if tx == nil {
		return fmt.Errorf("%w: transaction cannot be nil", apperrors.ErrInvalidArgument)
	}
	logCtx := r.logger.With(slog.String("type", string(tx.Type)))
	logCtx.InfoContext(ctx, "Attempting to insert fund transaction")

	query := `
        INSERT INTO fund_transactions (type, amount, description, loan_id, created_by, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		tx.Type,
		tx.Amount,
		tx.Description,
		tx.LoanID,
		tx.CreatedBy,
	).Scan(&tx.ID, &tx.CreatedAt)

	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to insert fund transaction", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert fund transaction: %w", apperrors.ErrDatabase, err)
	}

	logCtx.InfoContext(ctx, "Fund transaction inserted successfully", slog.Int64("transactionID", tx.ID))
	return nil
}

func (r *FundRepository) FindAll(ctx context.Context) ([]*fund.Transaction, error) {
	r.logger.InfoContext(ctx, "Attempting to list fund transactions")

	query := `SELECT id, type, amount, description, loan_id, created_by, created_at FROM fund_transactions ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query fund transactions", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query fund transactions: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	transactions := make([]*fund.Transaction, 0)
	for rows.Next() {
		var tx fund.Transaction
		err := rows.Scan(&tx.ID, &tx.Type, &tx.Amount, &tx.Description, &tx.LoanID, &tx.CreatedBy, &tx.CreatedAt)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan fund transaction row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed scanning fund transaction: %w", apperrors.ErrDatabase, err)
		}
		transactions = append(transactions, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: fund transaction rows iteration: %w", apperrors.ErrDatabase, err)
	}
	return transactions, nil
}
