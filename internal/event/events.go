package event

import (
	"time"

	"github.com/google/uuid"
)

type CustomerEventPayload struct {
	CustomerID      int64      `json:"customerId"`
	Name            string     `json:"name"`
	Mobile          string     `json:"mobile"`
	Area            string     `json:"area"`
	Status          string     `json:"status"`
	AssignedAgentID *uuid.UUID `json:"assignedAgentId,omitempty"`
	DailyAmount     float64    `json:"dailyAmount"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type CustomerCreatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type CustomerUpdatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type PaymentRecordedEvent struct {
	Timestamp  time.Time  `json:"timestamp"`
	PaymentID  int64      `json:"paymentId"`
	CustomerID int64      `json:"customerId"`
	LoanID     int64      `json:"loanId"`
	AgentID    uuid.UUID  `json:"agentId"`
	Date       time.Time  `json:"date"`
	Amount     float64    `json:"amount"`
	Status     string     `json:"status"`
	Promised   *time.Time `json:"promisedDate,omitempty"`
}

type LoanActivatedEvent struct {
	Timestamp       time.Time `json:"timestamp"`
	LoanID          int64     `json:"loanId"`
	CustomerID      int64     `json:"customerId"`
	DisbursalAmount float64   `json:"disbursalAmount"`
}
