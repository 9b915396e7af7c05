package dto

import (
	"fmt"
	"strings"
	"time"

	"collection-crm/internal/domain/customer"

	"github.com/google/uuid"
)

type CreateCustomerRequest struct {
	Name            string  `json:"name"`
	Mobile          string  `json:"mobile"`
	Area            string  `json:"area"`
	LoanAmount      float64 `json:"loanAmount"`
	DailyAmount     float64 `json:"dailyAmount"`
	StartDate       string  `json:"startDate,omitempty"`
	AssignedAgentID *string `json:"assignedAgentId,omitempty"`
	IDProofPath     *string `json:"idProofPath,omitempty"`
	PhotoPath       *string `json:"photoPath,omitempty"`
}

func (r *CreateCustomerRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.TrimSpace(r.Mobile) == "" {
		return fmt.Errorf("mobile cannot be empty")
	}
	if r.DailyAmount <= 0 {
		return fmt.Errorf("dailyAmount must be greater than zero")
	}
	if r.LoanAmount < 0 {
		return fmt.Errorf("loanAmount cannot be negative")
	}
	if r.StartDate != "" {
		if _, err := time.Parse(dateLayout, r.StartDate); err != nil {
			return fmt.Errorf("invalid startDate format (use YYYY-MM-DD): %w", err)
		}
	}
	if r.AssignedAgentID != nil {
		if _, err := uuid.Parse(*r.AssignedAgentID); err != nil {
			return fmt.Errorf("assignedAgentId must be a valid user id")
		}
	}
	return nil
}

func (r *CreateCustomerRequest) ToInput() (customer.CreateCustomerInput, error) {
	input := customer.CreateCustomerInput{
		Name:        r.Name,
		Mobile:      r.Mobile,
		Area:        r.Area,
		LoanAmount:  r.LoanAmount,
		DailyAmount: r.DailyAmount,
		IDProofPath: r.IDProofPath,
		PhotoPath:   r.PhotoPath,
	}
	if r.StartDate != "" {
		startDate, err := time.Parse(dateLayout, r.StartDate)
		if err != nil {
			return customer.CreateCustomerInput{}, fmt.Errorf("invalid startDate format (use YYYY-MM-DD): %w", err)
		}
		input.StartDate = startDate
	}
	if r.AssignedAgentID != nil {
		id, err := uuid.Parse(*r.AssignedAgentID)
		if err != nil {
			return customer.CreateCustomerInput{}, fmt.Errorf("assignedAgentId must be a valid user id")
		}
		input.AssignedAgentID = &id
	}
	return input, nil
}

type UpdateCustomerRequest struct {
	Name            *string  `json:"name,omitempty"`
	Mobile          *string  `json:"mobile,omitempty"`
	Area            *string  `json:"area,omitempty"`
	DailyAmount     *float64 `json:"dailyAmount,omitempty"`
	AssignedAgentID *string  `json:"assignedAgentId,omitempty"`
	IDProofPath     *string  `json:"idProofPath,omitempty"`
	PhotoPath       *string  `json:"photoPath,omitempty"`
}

func (r *UpdateCustomerRequest) ToInput() (customer.UpdateCustomerInput, error) {
	input := customer.UpdateCustomerInput{
		Name:        r.Name,
		Mobile:      r.Mobile,
		Area:        r.Area,
		DailyAmount: r.DailyAmount,
		IDProofPath: r.IDProofPath,
		PhotoPath:   r.PhotoPath,
	}
	if r.AssignedAgentID != nil {
		id, err := uuid.Parse(*r.AssignedAgentID)
		if err != nil {
			return customer.UpdateCustomerInput{}, fmt.Errorf("assignedAgentId must be a valid user id")
		}
		input.AssignedAgentID = &id
	}
	return input, nil
}

type UpdateCustomerStatusRequest struct {
	Status string `json:"status"`
}

func (r *UpdateCustomerStatusRequest) Validate() error {
	if !customer.Status(r.Status).Valid() {
		return fmt.Errorf("status must be active, closed or defaulted")
	}
	return nil
}

type CustomerResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Mobile          string    `json:"mobile"`
	Area            string    `json:"area"`
	LoanAmount      float64   `json:"loanAmount"`
	DailyAmount     float64   `json:"dailyAmount"`
	StartDate       string    `json:"startDate"`
	Status          string    `json:"status"`
	AssignedAgentID *string   `json:"assignedAgentId,omitempty"`
	IDProofPath     *string   `json:"idProofPath,omitempty"`
	PhotoPath       *string   `json:"photoPath,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func NewCustomerResponse(c *customer.Customer) CustomerResponse {
	if c == nil {
		return CustomerResponse{}
	}
	resp := CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		Mobile:      c.Mobile,
		Area:        c.Area,
		LoanAmount:  c.LoanAmount,
		DailyAmount: c.DailyAmount,
		StartDate:   c.StartDate.Format(dateLayout),
		Status:      string(c.Status),
		IDProofPath: c.IDProofPath,
		PhotoPath:   c.PhotoPath,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.AssignedAgentID != nil {
		s := c.AssignedAgentID.String()
		resp.AssignedAgentID = &s
	}
	return resp
}
