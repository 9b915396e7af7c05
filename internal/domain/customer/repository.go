package customer

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("customer not found")

	ErrUpdateConflict = errors.New("update conflict detected")
)

// AgentFilter narrows list queries to the caller's visible agents. All=true
// (admin) applies no filter; unassigned customers are only visible then.
type AgentFilter struct {
	All      bool
	AgentIDs []uuid.UUID
}

type Repository interface {
	Save(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	FindAll(ctx context.Context, filter AgentFilter, activeOnly bool) ([]*Customer, error)

	SetStatus(ctx context.Context, customerID int64, status Status) error
}
