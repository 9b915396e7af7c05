package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("profile not found")

	ErrMobileTaken = errors.New("mobile number already registered")
)

type PasswordResetAudit struct {
	ID         int64
	AdminID    uuid.UUID
	TargetID   uuid.UUID
	OccurredAt time.Time
}

type Repository interface {
	Save(ctx context.Context, profile *Profile) error

	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)

	FindByMobile(ctx context.Context, mobile string) (*Profile, error)

	FindAll(ctx context.Context, activeOnly bool) ([]*Profile, error)

	FindIDsReportingTo(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error)

	SetActiveStatus(ctx context.Context, id uuid.UUID, active bool) error

	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error

	RecordPasswordReset(ctx context.Context, audit *PasswordResetAudit) error
}
