package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"collection-crm/internal/api/handler/dto"
	"collection-crm/internal/domain/report"
	"collection-crm/internal/pkg/apperrors"
)

type ReportHandler struct {
	service report.ReportService
	logger  *slog.Logger
}

func NewReportHandler(s report.ReportService, l *slog.Logger) *ReportHandler {
	if s == nil {
		panic("report service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &ReportHandler{
		service: s,
		logger:  l.With("component", "ReportHandler"),
	}
}

func positiveIntQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", apperrors.ErrInvalidArgument, name)
	}
	return n, nil
}

// Dashboard handles GET /reports/dashboard
// @Summary Dashboard card figures
// @Description Returns active customer count, today's collection, this month's collection and the lifetime pending balance, scoped to the caller's visible agents.
// @Tags Reports
// @Produce json
// @Success 200 {object} report.DashboardStats "Dashboard figures"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reports/dashboard [get]
// @Security BearerAuth
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrFail(w, r)
	if !ok {
		return
	}

	stats, err := h.service.Dashboard(r.Context(), principal)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to compute dashboard", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// DailyCollections handles GET /reports/daily-collections
// @Summary Daily collection trend
// @Description Dense per-day collection totals for the last N days (default 7); days without collections appear with amount 0.
// @Tags Reports
// @Produce json
// @Param days query int false "Number of days (default 7, max 366)" Example(7)
// @Success 200 {array} report.DailyPoint "Daily totals, oldest first"
// @Failure 400 {object} dto.ErrorResponse "Invalid days parameter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reports/daily-collections [get]
// @Security BearerAuth
func (h *ReportHandler) DailyCollections(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrFail(w, r)
	if !ok {
		return
	}

	days, err := positiveIntQuery(r, "days")
	if err != nil {
		respondError(w, err)
		return
	}

	points, err := h.service.DailyCollections(r.Context(), principal, days)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to compute daily collections", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, points)
}

// AgentPerformance handles GET /reports/agent-performance
// @Summary Per-agent performance summaries
// @Description Collected totals, targets and paid/not-paid/promised counts per visible agent over the period (default 30 days).
// @Tags Reports
// @Produce json
// @Param periodDays query int false "Collection period in days (default 30, max 366)" Example(30)
// @Success 200 {array} report.AgentSummary "Per-agent summaries"
// @Failure 400 {object} dto.ErrorResponse "Invalid periodDays parameter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reports/agent-performance [get]
// @Security BearerAuth
func (h *ReportHandler) AgentPerformance(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrFail(w, r)
	if !ok {
		return
	}

	periodDays, err := positiveIntQuery(r, "periodDays")
	if err != nil {
		respondError(w, err)
		return
	}

	summaries, err := h.service.AgentPerformance(r.Context(), principal, periodDays)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to compute agent performance", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summaries)
}

// CustomerLedger handles GET /reports/customers/{customerID}/ledger
// @Summary Day-by-day customer ledger
// @Description One row per calendar day over the loan window with status paid, promised, not_paid, pending or upcoming.
// @Tags Reports
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {array} dto.LedgerDayResponse "Ledger rows, oldest first"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 403 {object} dto.ErrorResponse "Customer outside caller scope"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reports/customers/{customerID}/ledger [get]
// @Security BearerAuth
func (h *ReportHandler) CustomerLedger(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrFail(w, r)
	if !ok {
		return
	}

	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	ledger, err := h.service.CustomerLedger(r.Context(), principal, customerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrForbidden) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to compute customer ledger", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLedgerResponse(ledger))
}
