package dto

import (
	"fmt"
	"strings"

	"collection-crm/internal/domain/permission"
)

type UpdatePermissionRequest struct {
	FeatureKey    string `json:"featureKey"`
	AdminAccess   bool   `json:"adminAccess"`
	ManagerAccess bool   `json:"managerAccess"`
	AgentAccess   bool   `json:"agentAccess"`
}

func (r *UpdatePermissionRequest) Validate() error {
	if strings.TrimSpace(r.FeatureKey) == "" {
		return fmt.Errorf("featureKey cannot be empty")
	}
	return nil
}

func (r *UpdatePermissionRequest) ToDomain() permission.FeaturePermission {
	return permission.FeaturePermission{
		FeatureKey:    r.FeatureKey,
		AdminAccess:   r.AdminAccess,
		ManagerAccess: r.ManagerAccess,
		AgentAccess:   r.AgentAccess,
	}
}
