package api

import (
	"log/slog"
	"net/http"
	"time"

	"collection-crm/internal/api/handler"
	mw "collection-crm/internal/api/middleware"
	"collection-crm/internal/config"
	"collection-crm/internal/domain/fund"
	"collection-crm/internal/domain/loan"
	"collection-crm/internal/domain/payment"
	"collection-crm/internal/domain/permission"
	"collection-crm/internal/domain/report"
	"collection-crm/internal/domain/user"

	customerdomain "collection-crm/internal/domain/customer"

	_ "collection-crm/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Users       user.UserService
	Customers   customerdomain.CustomerService
	Loans       loan.LoanService
	Payments    payment.PaymentService
	Funds       fund.FundService
	Reports     report.ReportService
	Permissions permission.PermissionService
}

func SetupRouter(svc Services, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)

	authHandler := handler.NewAuthHandler(svc.Users, cfg.Server.Auth, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
	})

	setupUserRoutes(router, cfg, svc.Users, logger)
	setupCustomerRoutes(router, cfg, svc.Customers, svc.Payments, logger)
	setupLoanRoutes(router, cfg, svc.Loans, logger)
	setupPaymentRoutes(router, cfg, svc.Payments, logger)
	setupFundRoutes(router, cfg, svc.Funds, logger)
	setupReportRoutes(router, cfg, svc.Reports, logger)
	setupPermissionRoutes(router, cfg, svc.Permissions, logger)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupUserRoutes(router *chi.Mux, cfg *config.Config, svc user.UserService, logger *slog.Logger) {
	h := handler.NewUserHandler(svc, logger)

	router.Route("/users", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/", h.ListUsers)
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRoles(logger, user.RoleAdmin, user.RoleManager))
			r.Post("/", h.CreateUser)
			r.Delete("/{userID}", h.DeactivateUser)
		})
		r.Get("/{userID}", h.GetUser)
		r.With(mw.RequireRoles(logger, user.RoleAdmin)).
			Post("/{userID}/reset-password", h.ResetPassword)
	})
}

func setupCustomerRoutes(router *chi.Mux, cfg *config.Config, svc customerdomain.CustomerService, paymentSvc payment.PaymentService, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, logger)
	paymentHandler := handler.NewPaymentHandler(paymentSvc, logger)

	router.Route("/customers", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreateCustomer)
		r.Get("/", h.ListCustomers)
		r.Route("/{customerID}", func(r chi.Router) {
			r.Get("/", h.GetCustomer)
			r.Put("/", h.UpdateCustomer)
			r.Put("/status", h.UpdateCustomerStatus)
			r.Get("/payments", paymentHandler.ListCustomerPayments)
		})
	})
}

func setupLoanRoutes(router *chi.Mux, cfg *config.Config, svc loan.LoanService, logger *slog.Logger) {
	h := handler.NewLoanHandler(svc, logger)

	router.Route("/loans", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/{loanID}", h.GetLoan)
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRoles(logger, user.RoleAdmin, user.RoleManager))
			r.Post("/", h.CreateLoan)
			r.Post("/{loanID}/resolve", h.ResolvePendingLoan)
			r.Post("/{loanID}/close", h.CloseLoan)
		})
	})
}

func setupPaymentRoutes(router *chi.Mux, cfg *config.Config, svc payment.PaymentService, logger *slog.Logger) {
	h := handler.NewPaymentHandler(svc, logger)

	router.Route("/payments", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.RecordPayment)
		r.Get("/", h.ListPayments)
	})
}

func setupFundRoutes(router *chi.Mux, cfg *config.Config, svc fund.FundService, logger *slog.Logger) {
	h := handler.NewFundHandler(svc, logger)

	router.Route("/funds", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Use(mw.RequireRoles(logger, user.RoleAdmin, user.RoleManager))
		r.Post("/", h.RecordTransaction)
		r.Get("/", h.ListTransactions)
		r.Get("/balance", h.GetBalance)
	})
}

func setupReportRoutes(router *chi.Mux, cfg *config.Config, svc report.ReportService, logger *slog.Logger) {
	h := handler.NewReportHandler(svc, logger)

	router.Route("/reports", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/dashboard", h.Dashboard)
		r.Get("/daily-collections", h.DailyCollections)
		r.Get("/agent-performance", h.AgentPerformance)
		r.Get("/customers/{customerID}/ledger", h.CustomerLedger)
	})
}

func setupPermissionRoutes(router *chi.Mux, cfg *config.Config, svc permission.PermissionService, logger *slog.Logger) {
	h := handler.NewPermissionHandler(svc, logger)

	router.Route("/permissions", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/", h.GetPermissions)
		r.With(mw.RequireRoles(logger, user.RoleAdmin)).
			Put("/", h.UpdatePermission)
	})
}
