// Package fixtures seeds the data a fresh database needs before anyone can log in.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultRoles returns every system role with its built-in permissions.
func DefaultRoles() []role.Role {
	roles := make([]role.Role, 0, len(role.Names))
	for _, name := range role.Names {
		roles = append(roles, role.Role{Name: name, Permissions: role.DefaultPermissions(name)})
	}
	return roles
}

// SeedRoles writes the default roles that have no record yet. Existing
// roles keep their edited permissions. It returns how many were created.
func SeedRoles(ctx context.Context, repo role.RoleRepository) (int, error) {
	created := 0
	for _, r := range DefaultRoles() {
		_, err := repo.GetByName(ctx, r.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, role.ErrRoleNotFound) {
			return created, fmt.Errorf("get role %s: %w", r.Name, err)
		}
		if err := repo.Upsert(ctx, r); err != nil {
			return created, fmt.Errorf("seed role %s: %w", r.Name, err)
		}
		created++
	}
	return created, nil
}

// Admin is the bootstrap account created when the email is not registered.
type Admin struct {
	Email     string
	Password  string
	FirstName string
}

// SeedAdmin creates the bootstrap admin with access to every branch. It does
// nothing when Email is empty or the account already exists.
func SeedAdmin(ctx context.Context, repo user.UserRepository, admin Admin, hashCost int) (bool, error) {
	if admin.Email == "" {
		return false, nil
	}
	email := strings.ToLower(strings.TrimSpace(admin.Email))

	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return false, fmt.Errorf("get bootstrap admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), hashCost)
	if err != nil {
		return false, fmt.Errorf("hash bootstrap admin password: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return false, fmt.Errorf("generate user id: %w", err)
	}

	firstName := admin.FirstName
	if firstName == "" {
		firstName = "Admin"
	}
	if _, err := repo.Create(ctx, user.User{
		ID:           id.String(),
		Email:        email,
		FirstName:    firstName,
		PasswordHash: string(hash),
		Role:         role.Admin,
		Branches:     user.AllBranches,
	}); err != nil {
		return false, fmt.Errorf("create bootstrap admin: %w", err)
	}
	return true, nil
}

// Seed runs every seeder and logs what it created.
func Seed(ctx context.Context, roles role.RoleRepository, users user.UserRepository, admin Admin, logger *slog.Logger) error {
	n, err := SeedRoles(ctx, roles)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info("Seeded default roles", "count", n)
	}

	created, err := SeedAdmin(ctx, users, admin, bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if created {
		logger.Info("Created bootstrap admin", "email", admin.Email)
	}
	return nil
}
