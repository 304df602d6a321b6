package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type roleRepositoryImpl struct {
	db *database.DB
}

func NewRoleRepository(db *database.DB) role.RoleRepository {
	return &roleRepositoryImpl{db: db}
}

func scanRole(row pgx.Row) (role.Role, error) {
	var (
		r        role.Role
		name     string
		permsRaw []byte
	)
	if err := row.Scan(&name, &permsRaw, &r.UpdatedAt); err != nil {
		return role.Role{}, err
	}
	r.Name = role.Name(name)
	r.Permissions = role.PermissionMap{}
	if len(permsRaw) > 0 {
		if err := json.Unmarshal(permsRaw, &r.Permissions); err != nil {
			return role.Role{}, fmt.Errorf("decode permissions of role %s: %w", name, err)
		}
	}
	return r, nil
}

// GetByName implements role.RoleRepository.
func (r *roleRepositoryImpl) GetByName(ctx context.Context, name role.Name) (role.Role, error) {
	q := GetQuerier(ctx, r.db)

	result, err := scanRole(q.QueryRow(ctx, `SELECT name, permissions, updated_at FROM roles WHERE name = $1`, string(name)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return role.Role{}, role.ErrRoleNotFound
		}
		return role.Role{}, fmt.Errorf("failed to get role: %w", err)
	}

	return result, nil
}

// List implements role.RoleRepository.
func (r *roleRepositoryImpl) List(ctx context.Context) ([]role.Role, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT name, permissions, updated_at FROM roles ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	roles := []role.Role{}
	for rows.Next() {
		result, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, result)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return roles, nil
}

// Upsert implements role.RoleRepository.
func (r *roleRepositoryImpl) Upsert(ctx context.Context, rl role.Role) error {
	q := GetQuerier(ctx, r.db)

	perms := rl.Permissions
	if perms == nil {
		perms = role.PermissionMap{}
	}
	raw, err := json.Marshal(perms)
	if err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}

	query := `
		INSERT INTO roles (name, permissions, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET permissions = EXCLUDED.permissions, updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, string(rl.Name), raw); err != nil {
		return fmt.Errorf("failed to upsert role: %w", err)
	}

	return nil
}
