package role

import "context"

type RoleRepository interface {
	GetByName(ctx context.Context, name Name) (Role, error)
	List(ctx context.Context) ([]Role, error)
	// Upsert writes the whole permission map of a role.
	Upsert(ctx context.Context, r Role) error
}
