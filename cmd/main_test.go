package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"collection-crm/internal/config"
	"collection-crm/internal/infrastructure/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubBalanceChecker struct {
	owing bool
}

func (s *stubBalanceChecker) HasUncollectedBalance(ctx context.Context, customerID int64) (bool, error) {
	return s.owing, nil
}

func TestLazyBalanceChecker(t *testing.T) {
	ctx := context.Background()

	t.Run("reports nothing owing before wiring completes", func(t *testing.T) {
		checker := &lazyBalanceChecker{}

		owing, err := checker.HasUncollectedBalance(ctx, 7)

		require.NoError(t, err)
		assert.False(t, owing)
	})

	t.Run("delegates once the implementation is set", func(t *testing.T) {
		checker := &lazyBalanceChecker{impl: &stubBalanceChecker{owing: true}}

		owing, err := checker.HasUncollectedBalance(ctx, 7)

		require.NoError(t, err)
		assert.True(t, owing)
	})
}

func TestInitializePermissionCache(t *testing.T) {
	cfg := &config.Config{}
	cfg.Redis.Enabled = false

	permCache := initializePermissionCache(cfg, testLogger)

	_, ok := permCache.(*cache.MemoryPermissionCache)
	assert.True(t, ok, "redis disabled must fall back to the in-process cache")
}

func TestStartServerAndShutdown(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Port = 0 // let the OS pick a free port

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv, serverErrors, _ := startServer(cfg, handler, testLogger)
	require.NotNil(t, srv)
	assert.Equal(t, ":0", srv.Addr)

	// Give the listener a moment, then close and confirm a clean exit.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, srv.Close())

	select {
	case err := <-serverErrors:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server goroutine to exit")
	}
}
