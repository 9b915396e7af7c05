package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	// StatusPendingFundLink marks a loan whose record exists but whose fund
	// disbursement write has not confirmed yet. The two writes are not
	// atomic; this state makes the gap detectable instead of silent.
	StatusPendingFundLink Status = "pending_fund_link"
	StatusActive          Status = "active"
	StatusClosed          Status = "closed"
)

type Loan struct {
	ID                          int64      `json:"id"`
	CustomerID                  int64      `json:"customerId"`
	LoanAmount                  float64    `json:"loanAmount"`
	InterestRate                float64    `json:"interestRate"`
	ProcessingFeeRate           float64    `json:"processingFeeRate"`
	OtherDeductions             float64    `json:"otherDeductions"`
	IncludeChargesInOutstanding bool       `json:"includeChargesInOutstanding"`
	DisbursalAmount             float64    `json:"disbursalAmount"`
	OutstandingAmount           float64    `json:"outstandingAmount"`
	DailyAmount                 float64    `json:"dailyAmount"`
	StartDate                   time.Time  `json:"startDate"`
	EndDate                     *time.Time `json:"endDate,omitempty"`
	Status                      Status     `json:"status"`
	CreatedAt                   time.Time  `json:"createdAt"`
	UpdatedAt                   time.Time  `json:"updatedAt"`
}

type ChargeBreakdown struct {
	InterestAmount    float64 `json:"interestAmount"`
	ProcessingAmount  float64 `json:"processingAmount"`
	TotalCharges      float64 `json:"totalCharges"`
	DisbursalAmount   float64 `json:"disbursalAmount"`
	OutstandingAmount float64 `json:"outstandingAmount"`
}

// ComputeCharges turns the gross amount and rates into the stored figures.
// Interest and processing fee round half-up to whole currency units. With
// includeInOutstanding the customer receives the gross and owes gross plus
// charges; without it the charges are deducted up front and the customer
// owes exactly the gross.
func ComputeCharges(grossAmount, interestRatePct, processingFeeRatePct, otherDeductions float64, includeInOutstanding bool) ChargeBreakdown {
	gross := decimal.NewFromFloat(grossAmount)
	hundred := decimal.NewFromInt(100)

	interest := gross.Mul(decimal.NewFromFloat(interestRatePct)).Div(hundred).Round(0)
	processing := gross.Mul(decimal.NewFromFloat(processingFeeRatePct)).Div(hundred).Round(0)
	total := interest.Add(processing).Add(decimal.NewFromFloat(otherDeductions))

	var disbursal, outstanding decimal.Decimal
	if includeInOutstanding {
		disbursal = gross
		outstanding = gross.Add(total)
	} else {
		disbursal = gross.Sub(total)
		outstanding = gross
	}

	return ChargeBreakdown{
		InterestAmount:    interest.InexactFloat64(),
		ProcessingAmount:  processing.InexactFloat64(),
		TotalCharges:      total.InexactFloat64(),
		DisbursalAmount:   disbursal.InexactFloat64(),
		OutstandingAmount: outstanding.InexactFloat64(),
	}
}

// TenureDays counts calendar days inclusive of both endpoints.
func TenureDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// DailyInstallment derives the per-day collection figure from the
// outstanding amount and the tenure window, rounded to two decimals. A
// non-positive tenure returns ok=false and the caller keeps the prior
// daily amount.
func DailyInstallment(outstandingAmount float64, start, end time.Time) (float64, bool) {
	days := TenureDays(start, end)
	if days <= 0 {
		return 0, false
	}
	installment := decimal.NewFromFloat(outstandingAmount).
		Div(decimal.NewFromInt(int64(days))).
		Round(2)
	return installment.InexactFloat64(), true
}

func NewLoan(customerID int64, grossAmount, interestRatePct, processingFeeRatePct, otherDeductions float64, includeInOutstanding bool, startDate time.Time, endDate *time.Time, dailyAmount float64) *Loan {
	if startDate.IsZero() {
		startDate = time.Now().Truncate(24 * time.Hour)
	}

	charges := ComputeCharges(grossAmount, interestRatePct, processingFeeRatePct, otherDeductions, includeInOutstanding)

	if endDate != nil {
		if auto, ok := DailyInstallment(charges.OutstandingAmount, startDate, *endDate); ok {
			dailyAmount = auto
		}
	}

	return &Loan{
		CustomerID:                  customerID,
		LoanAmount:                  grossAmount,
		InterestRate:                interestRatePct,
		ProcessingFeeRate:           processingFeeRatePct,
		OtherDeductions:             otherDeductions,
		IncludeChargesInOutstanding: includeInOutstanding,
		DisbursalAmount:             charges.DisbursalAmount,
		OutstandingAmount:           charges.OutstandingAmount,
		DailyAmount:                 dailyAmount,
		StartDate:                   startDate,
		EndDate:                     endDate,
		Status:                      StatusPendingFundLink,
	}
}
