package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"collection-crm/internal/api/handler/dto"
	"collection-crm/internal/domain/fund"
	"collection-crm/internal/pkg/apperrors"
)

type FundHandler struct {
	service fund.FundService
	logger  *slog.Logger
}

func NewFundHandler(s fund.FundService, l *slog.Logger) *FundHandler {
	if s == nil {
		panic("fund service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &FundHandler{
		service: s,
		logger:  l.With("component", "FundHandler"),
	}
}

// RecordTransaction handles POST /funds
// @Summary Record a manual fund ledger entry
// @Description Inserts a credit or debit into the fund ledger. Disbursements and repayments are written by the loan flow, not through this endpoint.
// @Tags Funds
// @Accept json
// @Produce json
// @Param request body dto.RecordFundTransactionRequest true "Ledger entry"
// @Success 201 {object} dto.FundTransactionResponse "Entry recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 403 {object} dto.ErrorResponse "Agents may not touch the fund ledger"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /funds [post]
// @Security BearerAuth
func (h *FundHandler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrFail(w, r)
	if !ok {
		return
	}

	var req dto.RecordFundTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	tx, err := h.service.RecordTransaction(r.Context(), principal, req.ToInput())
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrForbidden) && !errors.Is(err, apperrors.ErrValidation) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to record fund transaction", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewFundTransactionResponse(tx)
	h.logger.InfoContext(r.Context(), "Fund transaction recorded", slog.Int64("transactionID", resp.ID))
	respondJSON(w, http.StatusCreated, resp)
}

// ListTransactions handles GET /funds
// @Summary List fund ledger entries
// @Tags Funds
// @Produce json
// @Success 200 {array} dto.FundTransactionResponse "Ledger entries"
// @Failure 403 {object} dto.ErrorResponse "Agents may not read the fund ledger"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /funds [get]
// @Security BearerAuth
func (h *FundHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrFail(w, r)
	if !ok {
		return
	}

	transactions, err := h.service.ListTransactions(r.Context(), principal)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrForbidden) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to list fund transactions", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.FundTransactionResponse, len(transactions))
	for i, tx := range transactions {
		resp[i] = dto.NewFundTransactionResponse(tx)
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetBalance handles GET /funds/balance
// @Summary Current fund balance
// @Description Folds the whole ledger: credits and repayments add, debits and disbursements subtract. The balance can go negative.
// @Tags Funds
// @Produce json
// @Success 200 {object} dto.FundBalanceResponse "Current balance"
// @Failure 403 {object} dto.ErrorResponse "Agents may not read the fund ledger"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /funds/balance [get]
// @Security BearerAuth
func (h *FundHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if _, ok := principalOrFail(w, r); !ok {
		return
	}

	balance, err := h.service.Balance(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to compute fund balance", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.FundBalanceResponse{Balance: balance})
}
