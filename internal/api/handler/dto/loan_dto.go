package dto

import (
	"fmt"
	"time"

	"collection-crm/internal/domain/loan"
)

type CreateLoanRequest struct {
	CustomerID                  int64   `json:"customerId"`
	LoanAmount                  float64 `json:"loanAmount"`
	InterestRate                float64 `json:"interestRate"`
	ProcessingFeeRate           float64 `json:"processingFeeRate"`
	OtherDeductions             float64 `json:"otherDeductions"`
	IncludeChargesInOutstanding bool    `json:"includeChargesInOutstanding"`
	StartDate                   string  `json:"startDate,omitempty"`
	EndDate                     string  `json:"endDate,omitempty"`
	DailyAmount                 float64 `json:"dailyAmount,omitempty"`
}

func (r *CreateLoanRequest) Validate() error {
	if r.CustomerID <= 0 {
		return fmt.Errorf("customerId must be positive")
	}
	if r.LoanAmount <= 0 {
		return fmt.Errorf("loanAmount must be greater than zero")
	}
	if r.InterestRate < 0 || r.ProcessingFeeRate < 0 || r.OtherDeductions < 0 {
		return fmt.Errorf("rates and deductions cannot be negative")
	}
	if r.StartDate != "" {
		if _, err := time.Parse(dateLayout, r.StartDate); err != nil {
			return fmt.Errorf("invalid startDate format (use YYYY-MM-DD): %w", err)
		}
	}
	if r.EndDate != "" {
		if _, err := time.Parse(dateLayout, r.EndDate); err != nil {
			return fmt.Errorf("invalid endDate format (use YYYY-MM-DD): %w", err)
		}
	}
	return nil
}

func (r *CreateLoanRequest) ToInput() (loan.CreateLoanInput, error) {
	input := loan.CreateLoanInput{
		CustomerID:                  r.CustomerID,
		LoanAmount:                  r.LoanAmount,
		InterestRate:                r.InterestRate,
		ProcessingFeeRate:           r.ProcessingFeeRate,
		OtherDeductions:             r.OtherDeductions,
		IncludeChargesInOutstanding: r.IncludeChargesInOutstanding,
		DailyAmount:                 r.DailyAmount,
	}
	if r.StartDate != "" {
		startDate, err := time.Parse(dateLayout, r.StartDate)
		if err != nil {
			return loan.CreateLoanInput{}, fmt.Errorf("invalid startDate format (use YYYY-MM-DD): %w", err)
		}
		input.StartDate = startDate
	}
	if r.EndDate != "" {
		endDate, err := time.Parse(dateLayout, r.EndDate)
		if err != nil {
			return loan.CreateLoanInput{}, fmt.Errorf("invalid endDate format (use YYYY-MM-DD): %w", err)
		}
		input.EndDate = &endDate
	}
	return input, nil
}

type LoanResponse struct {
	ID                          int64   `json:"id"`
	CustomerID                  int64   `json:"customerId"`
	LoanAmount                  float64 `json:"loanAmount"`
	InterestRate                float64 `json:"interestRate"`
	ProcessingFeeRate           float64 `json:"processingFeeRate"`
	OtherDeductions             float64 `json:"otherDeductions"`
	IncludeChargesInOutstanding bool    `json:"includeChargesInOutstanding"`
	DisbursalAmount             float64 `json:"disbursalAmount"`
	OutstandingAmount           float64 `json:"outstandingAmount"`
	DailyAmount                 float64 `json:"dailyAmount"`
	StartDate                   string  `json:"startDate"`
	EndDate                     *string `json:"endDate,omitempty"`
	Status                      string  `json:"status"`
	Warning                     string  `json:"warning,omitempty"`
}

func NewLoanResponse(l *loan.Loan, warning string) LoanResponse {
	if l == nil {
		return LoanResponse{}
	}
	resp := LoanResponse{
		ID:                          l.ID,
		CustomerID:                  l.CustomerID,
		LoanAmount:                  l.LoanAmount,
		InterestRate:                l.InterestRate,
		ProcessingFeeRate:           l.ProcessingFeeRate,
		OtherDeductions:             l.OtherDeductions,
		IncludeChargesInOutstanding: l.IncludeChargesInOutstanding,
		DisbursalAmount:             l.DisbursalAmount,
		OutstandingAmount:           l.OutstandingAmount,
		DailyAmount:                 l.DailyAmount,
		StartDate:                   l.StartDate.Format(dateLayout),
		Status:                      string(l.Status),
		Warning:                     warning,
	}
	if l.EndDate != nil {
		s := l.EndDate.Format(dateLayout)
		resp.EndDate = &s
	}
	return resp
}
