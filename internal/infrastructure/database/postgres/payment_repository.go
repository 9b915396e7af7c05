package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"collection-crm/internal/domain/payment"
	"collection-crm/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

type PaymentRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ payment.Repository = (*PaymentRepository)(nil)

func NewPaymentRepository(db DBPool, logger *slog.Logger) *PaymentRepository {
	if db == nil {
		panic("DBPool cannot be nil for PaymentRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewPaymentRepository, using default stderr handler")
	}
	return &PaymentRepository{
		db:     db,
		logger: logger.With("component", "PaymentRepository"),
	}
}

const paymentColumns = `id, customer_id, loan_id, agent_id, date, amount, mode, status, remarks, promised_date, created_at`

func scanPayment(row pgx.Row) (*payment.Payment, error) {
	var p payment.Payment
	err := row.Scan(
		&p.ID,
		&p.CustomerID,
		&p.LoanID,
		&p.AgentID,
		&p.Date,
		&p.Amount,
		&p.Mode,
		&p.Status,
		&p.Remarks,
		&p.PromisedDate,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return fmt.Errorf("%w: payment cannot be nil", apperrors.ErrInvalidArgument)
	}
	logCtx := r.logger.With(slog.Int64("customerID", p.CustomerID))
	logCtx.InfoContext(ctx, "Attempting to insert payment entry", slog.String("status", string(p.Status)))

	query := `
        INSERT INTO payments (customer_id, loan_id, agent_id, date, amount, mode, status, remarks, promised_date, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
        RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		p.CustomerID,
		p.LoanID,
		p.AgentID,
		p.Date,
		p.Amount,
		p.Mode,
		p.Status,
		p.Remarks,
		p.PromisedDate,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to insert payment", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert payment: %w", apperrors.ErrDatabase, err)
	}

	logCtx.InfoContext(ctx, "Payment inserted successfully", slog.Int64("paymentID", p.ID))
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, paymentID int64) (*payment.Payment, error) {
	r.logger.InfoContext(ctx, "Attempting to find payment by ID", slog.Int64("paymentID", paymentID))

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	p, err := scanPayment(r.db.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payment.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to find payment by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to find payment: %w", apperrors.ErrDatabase, err)
	}
	return p, nil
}

func (r *PaymentRepository) queryPayments(ctx context.Context, query string, args ...any) ([]*payment.Payment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query payments", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query payments: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	payments := make([]*payment.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan payment row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed scanning payment: %w", apperrors.ErrDatabase, err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: payment rows iteration: %w", apperrors.ErrDatabase, err)
	}
	return payments, nil
}

func (r *PaymentRepository) FindByDateRange(ctx context.Context, filter payment.AgentFilter, from, to time.Time) ([]*payment.Payment, error) {
	r.logger.InfoContext(ctx, "Attempting to list payments by date range",
		slog.Time("from", from), slog.Time("to", to), slog.Bool("allAgents", filter.All))

	conditions := []string{"date >= $1"}
	args := []any{from}
	if !to.IsZero() {
		args = append(args, to)
		conditions = append(conditions, fmt.Sprintf("date < $%d::date + 1", len(args)))
	}
	if !filter.All {
		args = append(args, filter.AgentIDs)
		conditions = append(conditions, fmt.Sprintf("agent_id = ANY($%d)", len(args)))
	}

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY date, id`
	return r.queryPayments(ctx, query, args...)
}

func (r *PaymentRepository) FindByCustomerID(ctx context.Context, customerID int64) ([]*payment.Payment, error) {
	r.logger.InfoContext(ctx, "Attempting to list payments for customer", slog.Int64("customerID", customerID))

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE customer_id = $1 ORDER BY date, id`
	return r.queryPayments(ctx, query, customerID)
}

func (r *PaymentRepository) FindAll(ctx context.Context, filter payment.AgentFilter) ([]*payment.Payment, error) {
	r.logger.InfoContext(ctx, "Attempting to list all visible payments", slog.Bool("allAgents", filter.All))

	if filter.All {
		query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY date, id`
		return r.queryPayments(ctx, query)
	}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE agent_id = ANY($1) ORDER BY date, id`
	return r.queryPayments(ctx, query, filter.AgentIDs)
}
