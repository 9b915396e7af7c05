package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"collection-crm/internal/api/handler/dto"
	"collection-crm/internal/domain/payment"
	"collection-crm/internal/pkg/apperrors"
)

type PaymentHandler struct {
	service payment.PaymentService
	logger  *slog.Logger
}

func NewPaymentHandler(s payment.PaymentService, l *slog.Logger) *PaymentHandler {
	if s == nil {
		panic("payment service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &PaymentHandler{
		service: s,
		logger:  l.With("component", "PaymentHandler"),
	}
}

// RecordPayment handles POST /payments
// @Summary Record a daily collection entry
// @Description Records a paid or not_paid entry for a customer. The agent is always the authenticated caller; a promised date is only valid on a not_paid entry.
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body dto.RecordPaymentRequest true "Collection entry"
// @Success 201 {object} dto.PaymentResponse "Entry recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 403 {object} dto.ErrorResponse "Customer outside caller scope"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /payments [post]
// @Security BearerAuth
func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrFail(w, r)
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Payment request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	input, err := req.ToInput()
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	recorded, err := h.service.RecordPayment(r.Context(), principal, input)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrForbidden) &&
			!errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrInvalidPaymentAmount) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to record payment", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewPaymentResponse(recorded)
	h.logger.InfoContext(r.Context(), "Payment recorded successfully", slog.Int64("paymentID", resp.ID))
	respondJSON(w, http.StatusCreated, resp)
}

// ListPayments handles GET /payments
// @Summary List collection entries
// @Description Lists entries for the caller's visible agents, optionally bounded by from/to dates (YYYY-MM-DD).
// @Tags Payments
// @Produce json
// @Param from query string false "Start date (inclusive)" Example(2026-01-01)
// @Param to query string false "End date (inclusive)" Example(2026-01-31)
// @Success 200 {array} dto.PaymentResponse "List of entries"
// @Failure 400 {object} dto.ErrorResponse "Invalid date parameter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /payments [get]
// @Security BearerAuth
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrFail(w, r)
	if !ok {
		return
	}

	var from, to time.Time
	var err error
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err = time.Parse("2006-01-02", fromStr)
		if err != nil {
			respondError(w, fmt.Errorf("%w: invalid from date format (use YYYY-MM-DD)", apperrors.ErrInvalidArgument))
			return
		}
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err = time.Parse("2006-01-02", toStr)
		if err != nil {
			respondError(w, fmt.Errorf("%w: invalid to date format (use YYYY-MM-DD)", apperrors.ErrInvalidArgument))
			return
		}
	}

	payments, err := h.service.ListPayments(r.Context(), principal, from, to)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list payments", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.PaymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = dto.NewPaymentResponse(p)
	}
	respondJSON(w, http.StatusOK, resp)
}

// ListCustomerPayments handles GET /customers/{customerID}/payments
// @Summary List a customer's collection entries
// @Tags Payments
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {array} dto.PaymentResponse "List of entries"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 403 {object} dto.ErrorResponse "Customer outside caller scope"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID}/payments [get]
// @Security BearerAuth
func (h *PaymentHandler) ListCustomerPayments(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrFail(w, r)
	if !ok {
		return
	}

	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	payments, err := h.service.ListCustomerPayments(r.Context(), principal, customerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrForbidden) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to list customer payments", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.PaymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = dto.NewPaymentResponse(p)
	}
	respondJSON(w, http.StatusOK, resp)
}
