package dto

import (
	"fmt"
	"strings"
	"time"

	"collection-crm/internal/domain/user"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Mobile) == "" {
		return fmt.Errorf("mobile cannot be empty")
	}
	if r.Password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	return nil
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  UserResponse `json:"user"`
}

type CreateUserRequest struct {
	Name        string  `json:"name"`
	Mobile      string  `json:"mobile"`
	Password    string  `json:"password"`
	Role        string  `json:"role"`
	ReportingTo *string `json:"reportingTo,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.TrimSpace(r.Mobile) == "" {
		return fmt.Errorf("mobile cannot be empty")
	}
	if !user.Role(r.Role).Valid() {
		return fmt.Errorf("role must be admin, manager or agent")
	}
	if r.ReportingTo != nil {
		if _, err := uuid.Parse(*r.ReportingTo); err != nil {
			return fmt.Errorf("reportingTo must be a valid user id")
		}
	}
	return nil
}

func (r *CreateUserRequest) ToInput() (user.CreateUserInput, error) {
	input := user.CreateUserInput{
		Name:     r.Name,
		Mobile:   r.Mobile,
		Password: r.Password,
		Role:     user.Role(r.Role),
	}
	if r.ReportingTo != nil {
		id, err := uuid.Parse(*r.ReportingTo)
		if err != nil {
			return user.CreateUserInput{}, fmt.Errorf("reportingTo must be a valid user id")
		}
		input.ReportingTo = &id
	}
	return input, nil
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (r *ResetPasswordRequest) Validate() error {
	if r.NewPassword == "" {
		return fmt.Errorf("newPassword cannot be empty")
	}
	return nil
}

type UserResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Mobile      string  `json:"mobile"`
	Role        string  `json:"role"`
	Active      bool    `json:"active"`
	ReportingTo *string `json:"reportingTo,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewUserResponse(p *user.Profile) UserResponse {
	if p == nil {
		return UserResponse{}
	}
	resp := UserResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Mobile:    p.Mobile,
		Role:      string(p.Role),
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.ReportingTo != nil {
		s := p.ReportingTo.String()
		resp.ReportingTo = &s
	}
	return resp
}
