package fund

import "context"

type Repository interface {
	Create(ctx context.Context, tx *Transaction) error

	FindAll(ctx context.Context) ([]*Transaction, error)
}
