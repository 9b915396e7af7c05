package permission

import "collection-crm/internal/domain/user"

// FeaturePermission gates one UI feature per role. Advisory only: handlers
// enforce roles themselves, this table just keeps controls the backend would
// reject from being shown at all.
type FeaturePermission struct {
	FeatureKey    string `json:"featureKey"`
	AdminAccess   bool   `json:"adminAccess"`
	ManagerAccess bool   `json:"managerAccess"`
	AgentAccess   bool   `json:"agentAccess"`
}

type Table map[string]FeaturePermission

// HasPermission fails closed: an unknown feature key or an unknown role is
// always false.
func HasPermission(role user.Role, featureKey string, table Table) bool {
	entry, ok := table[featureKey]
	if !ok {
		return false
	}
	switch role {
	case user.RoleAdmin:
		return entry.AdminAccess
	case user.RoleManager:
		return entry.ManagerAccess
	case user.RoleAgent:
		return entry.AgentAccess
	}
	return false
}
