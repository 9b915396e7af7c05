package user

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleAgent   Role = "agent"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleAgent:
		return true
	}
	return false
}

// Principal is the authenticated caller, resolved once from the bearer token
// and passed explicitly to every service call. There is no ambient session
// state anywhere below the HTTP layer.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

type Profile struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Mobile       string     `json:"mobile"`
	Role         Role       `json:"role"`
	Active       bool       `json:"active"`
	ReportingTo  *uuid.UUID `json:"reportingTo,omitempty"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
