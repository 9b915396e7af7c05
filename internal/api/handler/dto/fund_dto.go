package dto

import (
	"fmt"
	"time"

	"collection-crm/internal/domain/fund"
)

type RecordFundTransactionRequest struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

func (r *RecordFundTransactionRequest) Validate() error {
	if r.Type != string(fund.TypeCredit) && r.Type != string(fund.TypeDebit) {
		return fmt.Errorf("type must be credit or debit")
	}
	if r.Amount <= 0 {
		return fmt.Errorf("amount must be greater than zero")
	}
	return nil
}

func (r *RecordFundTransactionRequest) ToInput() fund.RecordTransactionInput {
	return fund.RecordTransactionInput{
		Type:        fund.TransactionType(r.Type),
		Amount:      r.Amount,
		Description: r.Description,
	}
}

type FundTransactionResponse struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	LoanID      *int64    `json:"loanId,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewFundTransactionResponse(tx *fund.Transaction) FundTransactionResponse {
	if tx == nil {
		return FundTransactionResponse{}
	}
	return FundTransactionResponse{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Amount:      tx.Amount,
		Description: tx.Description,
		LoanID:      tx.LoanID,
		CreatedBy:   tx.CreatedBy.String(),
		CreatedAt:   tx.CreatedAt,
	}
}

type FundBalanceResponse struct {
	Balance float64 `json:"balance"`
}
