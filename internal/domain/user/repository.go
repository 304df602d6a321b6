package user

import (
	"context"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/role"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, newUser User) (User, error)
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id string) error
	// SetPermissions replaces the override map; nil clears it.
	SetPermissions(ctx context.Context, id string, perms role.PermissionMap) error
	// IncrementTokenVersion invalidates every issued session of the user.
	IncrementTokenVersion(ctx context.Context, id string) (int, error)
}
