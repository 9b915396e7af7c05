package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"collection-crm/internal/domain/scope"
	"collection-crm/internal/domain/user"
	"collection-crm/internal/event"
	"collection-crm/internal/pkg/apperrors"

	"github.com/google/uuid"
)

const (
	inputValidationPassed = "Input validation passed"
	customerNotFound      = "Customer not found by repository"
)

type CreateCustomerInput struct {
	Name            string
	Mobile          string
	Area            string
	LoanAmount      float64
	DailyAmount     float64
	StartDate       time.Time
	AssignedAgentID *uuid.UUID
	IDProofPath     *string
	PhotoPath       *string
}

type UpdateCustomerInput struct {
	Name            *string
	Mobile          *string
	Area            *string
	DailyAmount     *float64
	AssignedAgentID *uuid.UUID
	IDProofPath     *string
	PhotoPath       *string
}

// LoanBalanceChecker reports whether a customer still owes on an open loan.
// Implemented by the loan service; kept as a local interface so the customer
// package does not depend on the loan package.
type LoanBalanceChecker interface {
	HasUncollectedBalance(ctx context.Context, customerID int64) (bool, error)
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, principal user.Principal, input CreateCustomerInput) (*Customer, error)

	GetCustomer(ctx context.Context, principal user.Principal, customerID int64) (*Customer, error)

	// ListCustomers returns customers assigned to the caller's visible
	// agents: everyone for admins, reports for managers, self for agents.
	ListCustomers(ctx context.Context, principal user.Principal, activeOnly bool) ([]*Customer, error)

	UpdateCustomer(ctx context.Context, principal user.Principal, customerID int64, input UpdateCustomerInput) (*Customer, error)

	// UpdateStatus enforces the lifecycle rule: active -> closed is only
	// allowed once the outstanding balance is fully collected.
	UpdateStatus(ctx context.Context, principal user.Principal, customerID int64, status Status) error
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo     Repository
	scopes   scope.Resolver
	balances LoanBalanceChecker
	pub      event.EventPublisher
	logger   *slog.Logger
}

func NewCustomerService(repo Repository, scopes scope.Resolver, balances LoanBalanceChecker, pub event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if scopes == nil {
		panic("scope resolver cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}
	if pub == nil {
		pub = event.NewNoopPublisher()
	}
	return &customerService{
		repo:     repo,
		scopes:   scopes,
		balances: balances,
		pub:      pub,
		logger:   logger.With(slog.String("component", "customerService")),
	}
}

func newCustomerEventPayload(cust *Customer) event.CustomerEventPayload {
	if cust == nil {
		return event.CustomerEventPayload{}
	}
	return event.CustomerEventPayload{
		CustomerID:      cust.ID,
		Name:            cust.Name,
		Mobile:          cust.Mobile,
		Area:            cust.Area,
		Status:          string(cust.Status),
		AssignedAgentID: cust.AssignedAgentID,
		DailyAmount:     cust.DailyAmount,
		CreatedAt:       cust.CreatedAt,
		UpdatedAt:       cust.UpdatedAt,
	}
}

func (s *customerService) publishUpdateEvent(ctx context.Context, cust *Customer) {
	evt := event.CustomerUpdatedEvent{
		Timestamp: time.Now(),
		Payload:   newCustomerEventPayload(cust),
	}
	if err := s.pub.PublishCustomerUpdated(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish customer update event", slog.Any("error", err))
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, principal user.Principal, input CreateCustomerInput) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to create new customer")

	input.Name = strings.TrimSpace(input.Name)
	input.Mobile = strings.TrimSpace(input.Mobile)
	if input.Name == "" {
		s.logger.WarnContext(ctx, "Validation failed: name is empty")
		return nil, apperrors.NewValidationError("name", "customer name cannot be empty")
	}
	if input.Mobile == "" {
		s.logger.WarnContext(ctx, "Validation failed: mobile is empty", slog.String("name", input.Name))
		return nil, apperrors.NewValidationError("mobile", "customer mobile cannot be empty")
	}
	if input.DailyAmount <= 0 {
		s.logger.WarnContext(ctx, "Validation failed: daily amount must be positive")
		return nil, apperrors.NewValidationError("dailyAmount", "daily amount must be greater than zero")
	}
	if input.LoanAmount < 0 {
		return nil, apperrors.NewValidationError("loanAmount", "loan amount cannot be negative")
	}
	s.logger.InfoContext(ctx, inputValidationPassed)

	assignedAgentID := input.AssignedAgentID
	if principal.Role == user.RoleAgent {
		// Agents always create customers under themselves.
		agentID := principal.UserID
		assignedAgentID = &agentID
	}

	startDate := input.StartDate
	if startDate.IsZero() {
		startDate = time.Now().Truncate(24 * time.Hour)
	}

	cust := &Customer{
		Name:            input.Name,
		Mobile:          input.Mobile,
		Area:            input.Area,
		LoanAmount:      input.LoanAmount,
		DailyAmount:     input.DailyAmount,
		StartDate:       startDate,
		Status:          StatusActive,
		AssignedAgentID: assignedAgentID,
		IDProofPath:     input.IDProofPath,
		PhotoPath:       input.PhotoPath,
	}

	s.logger.InfoContext(ctx, "Calling repository Save")
	if err := s.repo.Save(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	createdEvent := event.CustomerCreatedEvent{
		Timestamp: time.Now(),
		Payload:   newCustomerEventPayload(cust),
	}
	if pubErr := s.pub.PublishCustomerCreated(ctx, createdEvent); pubErr != nil {
		s.logger.ErrorContext(ctx, "Customer created, but FAILED to publish creation event", slog.Any("error", pubErr))
	}

	s.logger.InfoContext(ctx, "Successfully created new customer", slog.Int64("customerID", cust.ID))
	return cust, nil
}

func (s *customerService) GetCustomer(ctx context.Context, principal user.Principal, customerID int64) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to get customer by ID", slog.Int64("customerID", customerID))

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound)
			return nil, apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	visible, err := s.scopes.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}
	if !visible.All && (cust.AssignedAgentID == nil || !visible.Contains(*cust.AssignedAgentID)) {
		s.logger.WarnContext(ctx, "Customer outside caller scope", slog.Int64("customerID", customerID))
		return nil, apperrors.ErrForbidden
	}

	return cust, nil
}

func (s *customerService) ListCustomers(ctx context.Context, principal user.Principal, activeOnly bool) ([]*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to list customers", slog.Bool("activeOnly", activeOnly))

	visible, err := s.scopes.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}

	customers, err := s.repo.FindAll(ctx, AgentFilter{All: visible.All, AgentIDs: visible.AgentIDs}, activeOnly)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, principal user.Principal, customerID int64, input UpdateCustomerInput) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to update customer", slog.Int64("customerID", customerID))

	cust, err := s.GetCustomer(ctx, principal, customerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name", "customer name cannot be empty")
		}
		cust.Name = name
	}
	if input.Mobile != nil {
		mobile := strings.TrimSpace(*input.Mobile)
		if mobile == "" {
			return nil, apperrors.NewValidationError("mobile", "customer mobile cannot be empty")
		}
		cust.Mobile = mobile
	}
	if input.Area != nil {
		cust.Area = *input.Area
	}
	if input.DailyAmount != nil {
		if *input.DailyAmount <= 0 && cust.Status == StatusActive {
			return nil, apperrors.NewValidationError("dailyAmount", "daily amount must be greater than zero for an active customer")
		}
		cust.DailyAmount = *input.DailyAmount
	}
	if input.AssignedAgentID != nil {
		if principal.Role == user.RoleAgent {
			s.logger.WarnContext(ctx, "Agent attempted to reassign a customer")
			return nil, apperrors.ErrForbidden
		}
		cust.AssignedAgentID = input.AssignedAgentID
	}
	if input.IDProofPath != nil {
		cust.IDProofPath = input.IDProofPath
	}
	if input.PhotoPath != nil {
		cust.PhotoPath = input.PhotoPath
	}

	if err := s.repo.Save(ctx, cust); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository failed to save updated customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save customer %d: %w", customerID, err)
	}

	s.publishUpdateEvent(ctx, cust)
	s.logger.InfoContext(ctx, "Successfully updated customer")
	return cust, nil
}

func (s *customerService) UpdateStatus(ctx context.Context, principal user.Principal, customerID int64, status Status) error {
	s.logger.InfoContext(ctx, "Attempting to update customer status", slog.Int64("customerID", customerID), slog.String("status", string(status)))

	if !status.Valid() {
		return apperrors.NewValidationError("status", "status must be active, closed or defaulted")
	}
	if principal.Role == user.RoleAgent && status != StatusActive {
		s.logger.WarnContext(ctx, "Agent attempted a status transition")
		return apperrors.ErrForbidden
	}

	cust, err := s.GetCustomer(ctx, principal, customerID)
	if err != nil {
		return err
	}
	if cust.Status == status {
		s.logger.InfoContext(ctx, "No status change needed, skipping save")
		return nil
	}

	if status == StatusClosed && s.balances != nil {
		owing, err := s.balances.HasUncollectedBalance(ctx, customerID)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to check outstanding balance", slog.Any("error", err))
			return fmt.Errorf("failed to check balance for customer %d: %w", customerID, err)
		}
		if owing {
			s.logger.WarnContext(ctx, "Business rule failed: cannot close customer with outstanding balance")
			return apperrors.ErrOutstandingRemaining
		}
	}

	if err := s.repo.SetStatus(ctx, customerID, status); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error updating customer status", slog.Any("error", err))
		return fmt.Errorf("failed to update status for customer %d: %w", customerID, err)
	}

	cust.Status = status
	s.publishUpdateEvent(ctx, cust)
	s.logger.InfoContext(ctx, "Successfully updated customer status")
	return nil
}
