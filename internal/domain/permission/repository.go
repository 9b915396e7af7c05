package permission

import "context"

type Repository interface {
	FindAll(ctx context.Context) ([]FeaturePermission, error)

	Upsert(ctx context.Context, fp FeaturePermission) error
}

// Cache holds the permission table between mutations. No TTL: entries live
// until Invalidate is called after an update.
type Cache interface {
	Get(ctx context.Context) (Table, bool, error)

	Set(ctx context.Context, table Table) error

	Invalidate(ctx context.Context) error
}
