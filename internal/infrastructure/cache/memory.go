package cache

import (
	"context"
	"sync"

	"collection-crm/internal/domain/permission"
)

// MemoryPermissionCache is the in-process fallback used when Redis is
// disabled. Single-node only: invalidation does not propagate.
type MemoryPermissionCache struct {
	mu    sync.RWMutex
	table permission.Table
	valid bool
}

var _ permission.Cache = (*MemoryPermissionCache)(nil)

func NewMemoryPermissionCache() *MemoryPermissionCache {
	return &MemoryPermissionCache{}
}

func (c *MemoryPermissionCache) Get(_ context.Context) (permission.Table, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.valid {
		return nil, false, nil
	}
	copied := make(permission.Table, len(c.table))
	for k, v := range c.table {
		copied[k] = v
	}
	return copied, true, nil
}

func (c *MemoryPermissionCache) Set(_ context.Context, table permission.Table) error {
	copied := make(permission.Table, len(table))
	for k, v := range table {
		copied[k] = v
	}
	c.mu.Lock()
	c.table = copied
	c.valid = true
	c.mu.Unlock()
	return nil
}

func (c *MemoryPermissionCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	c.table = nil
	c.valid = false
	c.mu.Unlock()
	return nil
}
