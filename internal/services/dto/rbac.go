package dto

// RolePermissions is one entry of the static role -> permissions
// catalog returned by GET /config/permissions.
type RolePermissions struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// AssignRoleRequest grants a role to a user, optionally scoped to a
// resource. A nil resource is the global assignment.
type AssignRoleRequest struct {
	RoleID     string  `json:"role_id" binding:"required"`
	ResourceID *string `json:"resource_id,omitempty"`
}

// RevokeRoleRequest removes the assignment keyed on (user, resource).
type RevokeRoleRequest struct {
	ResourceID *string `json:"resource_id,omitempty"`
}
