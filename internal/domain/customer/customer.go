package customer

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusClosed    Status = "closed"
	StatusDefaulted Status = "defaulted"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusClosed, StatusDefaulted:
		return true
	}
	return false
}

// Customer is a borrower on the daily-collection book. KYC fields are
// pointers: a nil path means the document was never uploaded, which the
// clients treat differently from an empty value.
type Customer struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Mobile          string     `json:"mobile"`
	Area            string     `json:"area"`
	LoanAmount      float64    `json:"loanAmount"`
	DailyAmount     float64    `json:"dailyAmount"`
	StartDate       time.Time  `json:"startDate"`
	Status          Status     `json:"status"`
	AssignedAgentID *uuid.UUID `json:"assignedAgentId,omitempty"`
	IDProofPath     *string    `json:"idProofPath,omitempty"`
	PhotoPath       *string    `json:"photoPath,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
