package fund

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeCredit           TransactionType = "credit"
	TypeDebit            TransactionType = "debit"
	TypeLoanDisbursement TransactionType = "loan_disbursement"
	TypeLoanRepayment    TransactionType = "loan_repayment"
	TypeCollection       TransactionType = "collection"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TypeCredit, TypeDebit, TypeLoanDisbursement, TypeLoanRepayment, TypeCollection:
		return true
	}
	return false
}

type Transaction struct {
	ID          int64           `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      float64         `json:"amount"`
	Description string          `json:"description,omitempty"`
	LoanID      *int64          `json:"loanId,omitempty"`
	CreatedBy   uuid.UUID       `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Balance folds the ledger: credits and loan repayments add, debits and loan
// disbursements subtract. Any other type is ignored, not rejected — newer
// type values must not break older readers. The balance may go negative.
func Balance(transactions []*Transaction) float64 {
	total := decimal.Zero
	for _, tx := range transactions {
		amount := decimal.NewFromFloat(tx.Amount)
		switch tx.Type {
		case TypeCredit, TypeLoanRepayment:
			total = total.Add(amount)
		case TypeDebit, TypeLoanDisbursement:
			total = total.Sub(amount)
		}
	}
	return total.InexactFloat64()
}
