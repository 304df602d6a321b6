package user

import (
	"context"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/role"
)

type UserService interface {
	List(ctx context.Context) ([]UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	Update(ctx context.Context, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, id string) error
	// SetPermissions replaces the override map of a user.
	SetPermissions(ctx context.Context, req SetPermissionsRequest) (UserResponse, error)
	// ResetPermissions drops every override so the role defaults apply.
	ResetPermissions(ctx context.Context, id string) (UserResponse, error)
}

// PermissionResolver answers GetPermission with the role defaults loaded
// from storage.
type PermissionResolver interface {
	GetPermission(ctx context.Context, u User, module role.Module, access role.Access) (bool, error)
	Matrix(ctx context.Context, u User) (map[role.Module]role.ModuleAccess, error)
}
