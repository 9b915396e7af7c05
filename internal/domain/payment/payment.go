package payment

import (
	"time"

	"github.com/google/uuid"
)

type Mode string

const (
	ModeCash   Mode = "cash"
	ModeOnline Mode = "online"
)

func (m Mode) Valid() bool {
	return m == ModeCash || m == ModeOnline
}

type Status string

const (
	StatusPaid    Status = "paid"
	StatusNotPaid Status = "not_paid"
)

func (s Status) Valid() bool {
	return s == StatusPaid || s == StatusNotPaid
}

// Payment is one collection entry. AgentID is set once from the
// authenticated collector and never changed afterwards. PromisedDate is the
// follow-up date for a promise-to-pay and only makes sense on not_paid rows.
type Payment struct {
	ID           int64      `json:"id"`
	CustomerID   int64      `json:"customerId"`
	LoanID       int64      `json:"loanId"`
	AgentID      uuid.UUID  `json:"agentId"`
	Date         time.Time  `json:"date"`
	Amount       float64    `json:"amount"`
	Mode         Mode       `json:"mode"`
	Status       Status     `json:"status"`
	Remarks      string     `json:"remarks,omitempty"`
	PromisedDate *time.Time `json:"promisedDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}
