package dto

import (
	"fmt"
	"time"

	"collection-crm/internal/domain/payment"
)

type RecordPaymentRequest struct {
	CustomerID   int64   `json:"customerId"`
	LoanID       int64   `json:"loanId"`
	Date         string  `json:"date,omitempty"`
	Amount       float64 `json:"amount"`
	Mode         string  `json:"mode"`
	Status       string  `json:"status"`
	Remarks      string  `json:"remarks,omitempty"`
	PromisedDate string  `json:"promisedDate,omitempty"`
}

func (r *RecordPaymentRequest) Validate() error {
	if r.CustomerID <= 0 {
		return fmt.Errorf("customerId must be positive")
	}
	if !payment.Status(r.Status).Valid() {
		return fmt.Errorf("status must be paid or not_paid")
	}
	if !payment.Mode(r.Mode).Valid() {
		return fmt.Errorf("mode must be cash or online")
	}
	if r.Date != "" {
		if _, err := time.Parse(dateLayout, r.Date); err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}
	}
	if r.PromisedDate != "" {
		if _, err := time.Parse(dateLayout, r.PromisedDate); err != nil {
			return fmt.Errorf("invalid promisedDate format (use YYYY-MM-DD): %w", err)
		}
	}
	return nil
}

func (r *RecordPaymentRequest) ToInput() (payment.RecordPaymentInput, error) {
	input := payment.RecordPaymentInput{
		CustomerID: r.CustomerID,
		LoanID:     r.LoanID,
		Amount:     r.Amount,
		Mode:       payment.Mode(r.Mode),
		Status:     payment.Status(r.Status),
		Remarks:    r.Remarks,
	}
	if r.Date != "" {
		date, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return payment.RecordPaymentInput{}, fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}
		input.Date = date
	}
	if r.PromisedDate != "" {
		promised, err := time.Parse(dateLayout, r.PromisedDate)
		if err != nil {
			return payment.RecordPaymentInput{}, fmt.Errorf("invalid promisedDate format (use YYYY-MM-DD): %w", err)
		}
		input.PromisedDate = &promised
	}
	return input, nil
}

type PaymentResponse struct {
	ID           int64   `json:"id"`
	CustomerID   int64   `json:"customerId"`
	LoanID       int64   `json:"loanId"`
	AgentID      string  `json:"agentId"`
	Date         string  `json:"date"`
	Amount       float64 `json:"amount"`
	Mode         string  `json:"mode"`
	Status       string  `json:"status"`
	Remarks      string  `json:"remarks,omitempty"`
	PromisedDate *string `json:"promisedDate,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewPaymentResponse(p *payment.Payment) PaymentResponse {
	if p == nil {
		return PaymentResponse{}
	}
	resp := PaymentResponse{
		ID:         p.ID,
		CustomerID: p.CustomerID,
		LoanID:     p.LoanID,
		AgentID:    p.AgentID.String(),
		Date:       p.Date.Format(dateLayout),
		Amount:     p.Amount,
		Mode:       string(p.Mode),
		Status:     string(p.Status),
		Remarks:    p.Remarks,
		CreatedAt:  p.CreatedAt,
	}
	if p.PromisedDate != nil {
		s := p.PromisedDate.Format(dateLayout)
		resp.PromisedDate = &s
	}
	return resp
}
