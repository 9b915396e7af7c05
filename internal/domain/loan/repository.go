package loan

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("loan not found")

type Repository interface {
	CreateLoan(ctx context.Context, loan *Loan) error

	FindByID(ctx context.Context, loanID int64) (*Loan, error)

	FindByCustomerID(ctx context.Context, customerID int64) ([]*Loan, error)

	// FindOpenByCustomerID returns the customer's pending or active loan,
	// ErrNotFound when there is none. At most one open loan may exist.
	FindOpenByCustomerID(ctx context.Context, customerID int64) (*Loan, error)

	SetStatus(ctx context.Context, loanID int64, status Status) error

	Close(ctx context.Context, loanID int64) error

	// CollectedAmount sums the paid payments recorded against the loan.
	CollectedAmount(ctx context.Context, loanID int64) (float64, error)
}
