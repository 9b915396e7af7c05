package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "collection-crm/docs"
	"collection-crm/internal/api"
	"collection-crm/internal/config"
	"collection-crm/internal/domain/customer"
	"collection-crm/internal/domain/fund"
	"collection-crm/internal/domain/loan"
	"collection-crm/internal/domain/payment"
	"collection-crm/internal/domain/permission"
	"collection-crm/internal/domain/report"
	"collection-crm/internal/domain/scope"
	"collection-crm/internal/domain/user"
	"collection-crm/internal/event"
	"collection-crm/internal/infrastructure/cache"
	"collection-crm/internal/infrastructure/database/postgres"
	"collection-crm/internal/infrastructure/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/viper"
)

// @title Collection CRM API
// @version 1.0
// @description API for the daily-collection micro-finance CRM: staff, customers, loans, collections, fund ledger and reporting.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, logger := initializeApp()

	dbPool := initializeDatabase(cfg, logger)
	defer closeDatabase(dbPool, logger)

	publisher, amqpConn := initializePublisher(cfg, logger)
	if amqpConn != nil {
		defer amqpConn.Close()
	}

	services := initializeServices(cfg, dbPool, publisher, logger)
	router := api.SetupRouter(services, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	slog.SetDefault(logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed())

	return cfg, logger
}

func initializeDatabase(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	return dbPool
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

// initializePublisher connects to RabbitMQ when configured; without a broker
// the services run with a no-op publisher.
func initializePublisher(cfg *config.Config, logger *slog.Logger) (event.EventPublisher, *amqp.Connection) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("RabbitMQ disabled, events will not be published")
		return event.NewNoopPublisher(), nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ, continuing without events", "error", err)
		return event.NewNoopPublisher(), nil
	}

	publisher, err := event.NewRabbitMQEventPublisher(conn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		logger.Error("Failed to set up RabbitMQ publisher, continuing without events", "error", err)
		conn.Close()
		return event.NewNoopPublisher(), nil
	}
	logger.Info("RabbitMQ event publisher ready", "exchange", cfg.RabbitMQ.ExchangeName)
	return publisher, conn
}

func initializePermissionCache(cfg *config.Config, logger *slog.Logger) permission.Cache {
	if !cfg.Redis.Enabled {
		logger.Info("Redis disabled, using in-process permission cache")
		return cache.NewMemoryPermissionCache()
	}
	client := cache.NewRedisClient(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	logger.Info("Redis permission cache ready", "addr", cfg.Redis.Addr)
	return cache.NewRedisPermissionCache(client, logger)
}

func initializeServices(cfg *config.Config, dbPool *pgxpool.Pool, publisher event.EventPublisher, logger *slog.Logger) api.Services {
	logger.Info("Initializing application components...")

	userRepo := postgres.NewUserRepository(dbPool, logger)
	customerRepo := postgres.NewCustomerRepository(dbPool, logger)
	loanRepo := postgres.NewLoanRepository(dbPool, logger)
	paymentRepo := postgres.NewPaymentRepository(dbPool, logger)
	fundRepo := postgres.NewFundRepository(dbPool, logger)
	permissionRepo := postgres.NewPermissionRepository(dbPool, logger)

	userService := user.NewUserService(userRepo, logger)
	scopeResolver := scope.NewResolver(userRepo, logger)
	fundService := fund.NewFundService(fundRepo, logger)

	// The customer service needs the loan service for the close-with-balance
	// rule, and the loan service needs the customer service for visibility.
	// The balance checker is injected after both exist.
	balanceCheck := &lazyBalanceChecker{}
	customerService := customer.NewCustomerService(customerRepo, scopeResolver, balanceCheck, publisher, logger)
	loanService := loan.NewLoanService(loanRepo, customerService, fundService, publisher, logger)
	balanceCheck.impl = loanService

	paymentService := payment.NewPaymentService(paymentRepo, customerService, scopeResolver, publisher, logger)
	reportService := report.NewReportService(customerRepo, paymentRepo, loanRepo, userRepo, customerService, scopeResolver, logger)
	permissionService := permission.NewPermissionService(permissionRepo, initializePermissionCache(cfg, logger), logger)

	return api.Services{
		Users:       userService,
		Customers:   customerService,
		Loans:       loanService,
		Payments:    paymentService,
		Funds:       fundService,
		Reports:     reportService,
		Permissions: permissionService,
	}
}

type lazyBalanceChecker struct {
	impl customer.LoanBalanceChecker
}

func (l *lazyBalanceChecker) HasUncollectedBalance(ctx context.Context, customerID int64) (bool, error) {
	if l.impl == nil {
		return false, nil
	}
	return l.impl.HasUncollectedBalance(ctx, customerID)
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	var triggerReason string
	select {
	case sig := <-shutdownChan:
		triggerReason = "signal: " + sig.String()
		logger.Info("Shutdown signal received.", "signal", sig.String())
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		triggerReason = "server exited"
		logger.Info("Server goroutine finished before signal.", "error", err)
	}

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server graceful shutdown failed", "error", err)
		} else {
			logger.Info("HTTP server shutdown initiated.")
		}
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}
	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}

	logger.Info("Application shutdown process complete.")
}
