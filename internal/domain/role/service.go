package role

import "context"

type RoleService interface {
	List(ctx context.Context) ([]RoleResponse, error)
	// UpdatePermission edits one module of one role. The admin role is locked.
	UpdatePermission(ctx context.Context, req UpdateRolePermissionRequest) (RoleResponse, error)
	// Defaults returns the stored permission map of a role, seeding the
	// built-in defaults when the role has no record yet.
	Defaults(ctx context.Context, name Name) (PermissionMap, error)
}
