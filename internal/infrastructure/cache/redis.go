package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"collection-crm/internal/domain/permission"

	"github.com/redis/go-redis/v9"
)

const permissionTableKey = "collection-crm:permissions"

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RedisPermissionCache stores the whole feature-permission table under one
// key with no TTL; writes to the table invalidate it explicitly.
type RedisPermissionCache struct {
	client *redis.Client
	logger *slog.Logger
}

var _ permission.Cache = (*RedisPermissionCache)(nil)

func NewRedisPermissionCache(client *redis.Client, logger *slog.Logger) *RedisPermissionCache {
	if client == nil {
		panic("redis client cannot be nil for RedisPermissionCache")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return &RedisPermissionCache{
		client: client,
		logger: logger.With("component", "RedisPermissionCache"),
	}
}

func (c *RedisPermissionCache) Get(ctx context.Context) (permission.Table, bool, error) {
	raw, err := c.client.Get(ctx, permissionTableKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", permissionTableKey, err)
	}

	var table permission.Table
	if err := json.Unmarshal(raw, &table); err != nil {
		// A corrupt entry behaves like a miss so the next Set repairs it.
		c.logger.WarnContext(ctx, "Discarding unreadable cached permission table", slog.Any("error", err))
		return nil, false, nil
	}
	return table, true, nil
}

func (c *RedisPermissionCache) Set(ctx context.Context, table permission.Table) error {
	raw, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("marshal permission table: %w", err)
	}
	if err := c.client.Set(ctx, permissionTableKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", permissionTableKey, err)
	}
	return nil
}

func (c *RedisPermissionCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, permissionTableKey).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", permissionTableKey, err)
	}
	return nil
}
