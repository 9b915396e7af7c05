package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"collection-crm/internal/domain/customer"
	"collection-crm/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.Repository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	if cust.ID == 0 {
		return r.createCustomer(ctx, cust)
	}
	return r.updateCustomer(ctx, cust)
}

func (r *CustomerRepository) createCustomer(ctx context.Context, cust *customer.Customer) error {
	r.logger.InfoContext(ctx, "Attempting to insert new customer", slog.String("name", cust.Name))

	query := `
        INSERT INTO customers (name, mobile, area, loan_amount, daily_amount, start_date, status, assigned_agent_id, id_proof_path, photo_path, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		cust.Name,
		cust.Mobile,
		cust.Area,
		cust.LoanAmount,
		cust.DailyAmount,
		cust.StartDate,
		cust.Status,
		cust.AssignedAgentID,
		cust.IDProofPath,
		cust.PhotoPath,
	).Scan(
		&cust.ID,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Failed to insert customer due to unique constraint violation")
			return translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert customer: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", cust.ID))
	return nil
}

func (r *CustomerRepository) updateCustomer(ctx context.Context, cust *customer.Customer) error {
	r.logger.InfoContext(ctx, "Attempting to update customer", slog.Int64("customerID", cust.ID))

	query := `
        UPDATE customers
        SET name = $1,
            mobile = $2,
            area = $3,
            loan_amount = $4,
            daily_amount = $5,
            start_date = $6,
            status = $7,
            assigned_agent_id = $8,
            id_proof_path = $9,
            photo_path = $10,
            updated_at = NOW()
        WHERE id = $11`

	cmdTag, err := r.db.Exec(ctx, query,
		cust.Name,
		cust.Mobile,
		cust.Area,
		cust.LoanAmount,
		cust.DailyAmount,
		cust.StartDate,
		cust.Status,
		cust.AssignedAgentID,
		cust.IDProofPath,
		cust.PhotoPath,
		cust.ID,
	)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to update customer: %w", apperrors.ErrDatabase, err)
	}

	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Update affected zero rows, customer likely not found")
		return customer.ErrNotFound
	}

	r.logger.InfoContext(ctx, "Customer updated successfully")
	return nil
}

const customerColumns = `id, name, mobile, area, loan_amount, daily_amount, start_date, status, assigned_agent_id, id_proof_path, photo_path, created_at, updated_at`

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var cust customer.Customer
	err := row.Scan(
		&cust.ID,
		&cust.Name,
		&cust.Mobile,
		&cust.Area,
		&cust.LoanAmount,
		&cust.DailyAmount,
		&cust.StartDate,
		&cust.Status,
		&cust.AssignedAgentID,
		&cust.IDProofPath,
		&cust.PhotoPath,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cust, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	r.logger.InfoContext(ctx, "Attempting to find customer by ID", slog.Int64("customerID", customerID))

	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	cust, err := scanCustomer(r.db.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Customer not found")
			return nil, customer.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to find customer by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to find customer: %w", apperrors.ErrDatabase, err)
	}

	return cust, nil
}

func (r *CustomerRepository) FindAll(ctx context.Context, filter customer.AgentFilter, activeOnly bool) ([]*customer.Customer, error) {
	r.logger.InfoContext(ctx, "Attempting to list customers", slog.Bool("activeOnly", activeOnly), slog.Bool("allAgents", filter.All))

	query := `SELECT ` + customerColumns + ` FROM customers`
	args := []any{}
	where := ""

	if !filter.All {
		args = append(args, filter.AgentIDs)
		where = ` WHERE assigned_agent_id = ANY($1)`
	}
	if activeOnly {
		args = append(args, customer.StatusActive)
		if where == "" {
			where = fmt.Sprintf(` WHERE status = $%d`, len(args))
		} else {
			where += fmt.Sprintf(` AND status = $%d`, len(args))
		}
	}
	query += where + ` ORDER BY id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query customers: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0)
	for rows.Next() {
		cust, err := scanCustomer(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed scanning customer: %w", apperrors.ErrDatabase, err)
		}
		customers = append(customers, cust)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: customer rows iteration: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Customers listed successfully", slog.Int("count", len(customers)))
	return customers, nil
}

func (r *CustomerRepository) SetStatus(ctx context.Context, customerID int64, status customer.Status) error {
	r.logger.InfoContext(ctx, "Attempting to set customer status", slog.Int64("customerID", customerID), slog.String("status", string(status)))

	query := `UPDATE customers SET status = $1, updated_at = NOW() WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, query, status, customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to set customer status", slog.Any("error", err))
		return fmt.Errorf("%w: failed to set customer status: %w", apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Status update affected zero rows, customer likely not found")
		return customer.ErrNotFound
	}

	r.logger.InfoContext(ctx, "Customer status updated successfully")
	return nil
}
