package scope

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"collection-crm/internal/domain/user"

	"github.com/google/uuid"
)

// Scope is the set of agent ids a caller may see. All=true is the admin
// sentinel: no agent filter is applied downstream.
type Scope struct {
	All      bool
	AgentIDs []uuid.UUID
}

func (s Scope) Contains(agentID uuid.UUID) bool {
	if s.All {
		return true
	}
	for _, id := range s.AgentIDs {
		if id == agentID {
			return true
		}
	}
	return false
}

type Resolver interface {
	// Resolve must be called before every role-scoped read. It shapes query
	// filters; the database-side authorization remains the real boundary.
	Resolve(ctx context.Context, principal user.Principal) (Scope, error)
}

var _ Resolver = (*resolver)(nil)

type resolver struct {
	users  user.Repository
	logger *slog.Logger
}

func NewResolver(users user.Repository, logger *slog.Logger) Resolver {
	if users == nil {
		panic("user repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewResolver, using default stderr handler")
	}
	return &resolver{
		users:  users,
		logger: logger.With(slog.String("component", "scopeResolver")),
	}
}

func (r *resolver) Resolve(ctx context.Context, principal user.Principal) (Scope, error) {
	switch principal.Role {
	case user.RoleAdmin:
		return Scope{All: true}, nil
	case user.RoleManager:
		reportIDs, err := r.users.FindIDsReportingTo(ctx, principal.UserID)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to resolve manager reports", slog.Any("error", err))
			return Scope{}, fmt.Errorf("failed to resolve reports of %s: %w", principal.UserID, err)
		}
		// A manager with no reports still sees their own records.
		return Scope{AgentIDs: append([]uuid.UUID{principal.UserID}, reportIDs...)}, nil
	default:
		return Scope{AgentIDs: []uuid.UUID{principal.UserID}}, nil
	}
}
