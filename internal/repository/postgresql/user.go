package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, first_name, last_name, password_hash, role, all_branches, branch_ids,
	permissions, token_version, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var (
		u           user.User
		roleName    string
		allBranches bool
		branchIDs   []string
		permsRaw    []byte
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &roleName,
		&allBranches, &branchIDs, &permsRaw, &u.TokenVersion, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return user.User{}, err
	}
	u.Role = role.Name(roleName)
	if allBranches {
		u.Branches = user.AllBranches
	} else {
		u.Branches = user.Assigned(branchIDs...)
	}
	if len(permsRaw) > 0 {
		if err := json.Unmarshal(permsRaw, &u.Permissions); err != nil {
			return user.User{}, fmt.Errorf("decode permissions of user %s: %w", u.ID, err)
		}
	}
	return u, nil
}

// marshalPermissions maps a nil override map to SQL NULL.
func marshalPermissions(perms role.PermissionMap) ([]byte, error) {
	if perms == nil {
		return nil, nil
	}
	return json.Marshal(perms)
}

func (r *userRepositoryImpl) getOne(ctx context.Context, where string, arg interface{}) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "LOWER(email) = LOWER($1)", email)
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY email ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return users, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	perms, err := marshalPermissions(newUser.Permissions)
	if err != nil {
		return user.User{}, fmt.Errorf("encode permissions: %w", err)
	}

	query := `
		INSERT INTO users (
			id, email, first_name, last_name, password_hash, role, all_branches, branch_ids,
			permissions, token_version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, NOW(), NOW())
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.ID, newUser.Email, newUser.FirstName, newUser.LastName, newUser.PasswordHash,
		string(newUser.Role), newUser.Branches.IsAll(), branchIDsOrEmpty(newUser.Branches.IDs()), perms,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// Update implements user.UserRepository. Permissions and token version
// have their own writers.
func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, password_hash = $4, role = $5,
			all_branches = $6, branch_ids = $7, updated_at = NOW()
		WHERE id = $8
	`

	commandTag, err := q.Exec(ctx, query,
		u.Email, u.FirstName, u.LastName, u.PasswordHash, string(u.Role),
		u.Branches.IsAll(), branchIDsOrEmpty(u.Branches.IDs()), u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrUserEmailExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// Delete implements user.UserRepository.
func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// SetPermissions implements user.UserRepository.
func (r *userRepositoryImpl) SetPermissions(ctx context.Context, id string, perms role.PermissionMap) error {
	q := GetQuerier(ctx, r.db)

	raw, err := marshalPermissions(perms)
	if err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}

	commandTag, err := q.Exec(ctx, `UPDATE users SET permissions = $1, updated_at = NOW() WHERE id = $2`, raw, id)
	if err != nil {
		return fmt.Errorf("failed to set user permissions: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// IncrementTokenVersion implements user.UserRepository.
func (r *userRepositoryImpl) IncrementTokenVersion(ctx context.Context, id string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var version int
	err := q.QueryRow(ctx, `
		UPDATE users SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING token_version
	`, id).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, user.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to increment token version: %w", err)
	}

	return version, nil
}
