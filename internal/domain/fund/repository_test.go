package fund

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockFundRepository struct {
	mock.Mock
}

var _ Repository = (*MockFundRepository)(nil)

func (m *MockFundRepository) Create(ctx context.Context, tx *Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockFundRepository) FindAll(ctx context.Context) ([]*Transaction, error) {
	args := m.Called(ctx)
	var transactions []*Transaction
	if args.Get(0) != nil {
		transactions = args.Get(0).([]*Transaction)
	}
	return transactions, args.Error(1)
}
