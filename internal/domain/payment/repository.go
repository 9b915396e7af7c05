package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("payment not found")

// AgentFilter mirrors the role-scope: All=true applies no agent predicate.
type AgentFilter struct {
	All      bool
	AgentIDs []uuid.UUID
}

type Repository interface {
	Create(ctx context.Context, payment *Payment) error

	FindByID(ctx context.Context, paymentID int64) (*Payment, error)

	// FindByDateRange returns payments with date in [from, to] for the
	// visible agents, ordered by date. A zero `to` means no upper bound.
	FindByDateRange(ctx context.Context, filter AgentFilter, from, to time.Time) ([]*Payment, error)

	FindByCustomerID(ctx context.Context, customerID int64) ([]*Payment, error)

	// FindAll returns every payment for the visible agents; the lifetime
	// pending-balance figure needs the full back-book.
	FindAll(ctx context.Context, filter AgentFilter) ([]*Payment, error)
}
