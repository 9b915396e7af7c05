package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"collection-crm/internal/domain/customer"
	"collection-crm/internal/domain/loan"
	"collection-crm/internal/domain/payment"
	"collection-crm/internal/domain/scope"
	"collection-crm/internal/domain/user"

	"github.com/google/uuid"
)

const (
	DefaultTrendDays  = 7
	DefaultPeriodDays = 30
	maxRangeDays      = 366
)

type ReportService interface {
	Dashboard(ctx context.Context, principal user.Principal) (DashboardStats, error)

	DailyCollections(ctx context.Context, principal user.Principal, days int) ([]DailyPoint, error)

	AgentPerformance(ctx context.Context, principal user.Principal, periodDays int) ([]AgentSummary, error)

	CustomerLedger(ctx context.Context, principal user.Principal, customerID int64) ([]LedgerDay, error)
}

var _ ReportService = (*reportService)(nil)

type reportService struct {
	customers       customer.Repository
	payments        payment.Repository
	loans           loan.Repository
	users           user.Repository
	customerService customer.CustomerService
	scopes          scope.Resolver
	logger          *slog.Logger
	now             func() time.Time
}

func NewReportService(customers customer.Repository, payments payment.Repository, loans loan.Repository, users user.Repository, customerService customer.CustomerService, scopes scope.Resolver, logger *slog.Logger) ReportService {
	if customers == nil || payments == nil || loans == nil || users == nil {
		panic("report service repositories cannot be nil")
	}
	if customerService == nil {
		panic("customer service cannot be nil")
	}
	if scopes == nil {
		panic("scope resolver cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewReportService, using default stderr handler")
	}
	return &reportService{
		customers:       customers,
		payments:        payments,
		loans:           loans,
		users:           users,
		customerService: customerService,
		scopes:          scopes,
		logger:          logger.With(slog.String("component", "reportService")),
		now:             time.Now,
	}
}

func (s *reportService) resolveFilters(ctx context.Context, principal user.Principal) (customer.AgentFilter, payment.AgentFilter, scope.Scope, error) {
	visible, err := s.scopes.Resolve(ctx, principal)
	if err != nil {
		return customer.AgentFilter{}, payment.AgentFilter{}, scope.Scope{}, err
	}
	custFilter := customer.AgentFilter{All: visible.All, AgentIDs: visible.AgentIDs}
	payFilter := payment.AgentFilter{All: visible.All, AgentIDs: visible.AgentIDs}
	return custFilter, payFilter, visible, nil
}

func (s *reportService) Dashboard(ctx context.Context, principal user.Principal) (DashboardStats, error) {
	s.logger.InfoContext(ctx, "Computing dashboard stats", slog.String("role", string(principal.Role)))

	custFilter, payFilter, _, err := s.resolveFilters(ctx, principal)
	if err != nil {
		return DashboardStats{}, err
	}

	customers, err := s.customers.FindAll(ctx, custFilter, false)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load customers for dashboard", slog.Any("error", err))
		return DashboardStats{}, fmt.Errorf("failed to load customers: %w", err)
	}

	// The pending-balance figure needs the whole back-book, so this is an
	// unbounded fetch on purpose.
	payments, err := s.payments.FindAll(ctx, payFilter)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load payments for dashboard", slog.Any("error", err))
		return DashboardStats{}, fmt.Errorf("failed to load payments: %w", err)
	}

	return ComputeDashboardStats(customers, payments, s.now()), nil
}

func (s *reportService) DailyCollections(ctx context.Context, principal user.Principal, days int) ([]DailyPoint, error) {
	s.logger.InfoContext(ctx, "Computing daily collection trend", slog.Int("days", days))

	if days <= 0 {
		days = DefaultTrendDays
	}
	if days > maxRangeDays {
		days = maxRangeDays
	}

	_, payFilter, _, err := s.resolveFilters(ctx, principal)
	if err != nil {
		return nil, err
	}

	series := LastNDays(s.now(), days)
	payments, err := s.payments.FindByDateRange(ctx, payFilter, series[0], series[len(series)-1])
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load payments for trend", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	return ComputeDailyCollections(payments, series), nil
}

func (s *reportService) AgentPerformance(ctx context.Context, principal user.Principal, periodDays int) ([]AgentSummary, error) {
	s.logger.InfoContext(ctx, "Computing agent performance", slog.Int("periodDays", periodDays))

	if periodDays <= 0 {
		periodDays = DefaultPeriodDays
	}
	if periodDays > maxRangeDays {
		periodDays = maxRangeDays
	}

	custFilter, payFilter, visible, err := s.resolveFilters(ctx, principal)
	if err != nil {
		return nil, err
	}

	agentIDs, err := s.visibleAgentIDs(ctx, visible)
	if err != nil {
		return nil, err
	}

	period := LastNDays(s.now(), periodDays)
	periodStart, periodEnd := period[0], period[len(period)-1]

	customers, err := s.customers.FindAll(ctx, custFilter, true)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load customers for performance", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}
	payments, err := s.payments.FindByDateRange(ctx, payFilter, periodStart, periodEnd)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load payments for performance", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	return ComputeAgentPerformance(agentIDs, customers, payments, periodDays, periodStart, periodEnd), nil
}

// visibleAgentIDs expands the admin sentinel into the full agent list; for
// managers and agents the scope already carries the ids.
func (s *reportService) visibleAgentIDs(ctx context.Context, visible scope.Scope) ([]uuid.UUID, error) {
	if !visible.All {
		return visible.AgentIDs, nil
	}
	profiles, err := s.users.FindAll(ctx, true)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list agent profiles", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(profiles))
	for _, p := range profiles {
		if p.Role == user.RoleAgent {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func (s *reportService) CustomerLedger(ctx context.Context, principal user.Principal, customerID int64) ([]LedgerDay, error) {
	s.logger.InfoContext(ctx, "Computing customer ledger", slog.Int64("customerID", customerID))

	cust, err := s.customerService.GetCustomer(ctx, principal, customerID)
	if err != nil {
		return nil, err
	}

	startDate := cust.StartDate
	var endDate *time.Time
	if open, err := s.loans.FindOpenByCustomerID(ctx, customerID); err == nil {
		startDate = open.StartDate
		endDate = open.EndDate
	} else if !errors.Is(err, loan.ErrNotFound) {
		s.logger.ErrorContext(ctx, "Failed to look up open loan for ledger", slog.Any("error", err))
		return nil, fmt.Errorf("failed to look up loan for customer %d: %w", customerID, err)
	}

	payments, err := s.payments.FindByCustomerID(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load payments for ledger", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load payments for customer %d: %w", customerID, err)
	}

	return ComputeCustomerLedger(startDate, endDate, payments, s.now()), nil
}
