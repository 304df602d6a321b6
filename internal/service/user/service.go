package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type userServiceImpl struct {
	userRepo   user.UserRepository
	branchRepo branch.BranchRepository
	tx         postgresql.Transactor
	hashCost   int
}

func NewUserService(userRepo user.UserRepository, branchRepo branch.BranchRepository, tx postgresql.Transactor) user.UserService {
	return &userServiceImpl{
		userRepo:   userRepo,
		branchRepo: branchRepo,
		tx:         tx,
		hashCost:   bcrypt.DefaultCost,
	}
}

func (s *userServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// List implements user.UserService.
func (s *userServiceImpl) List(ctx context.Context) ([]user.UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.NewUserResponse(u))
	}
	return responses, nil
}

// GetByID implements user.UserService.
func (s *userServiceImpl) GetByID(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(u), nil
}

// Create implements user.UserService. Only admins create admins.
func (s *userServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	actor, err := user.Actor(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	if req.Role == role.Admin && !actor.IsAdmin() {
		return user.UserResponse{}, user.ErrAdminPrivilegeRequired
	}

	access := req.Access()
	if err := grantable(actor, access); err != nil {
		return user.UserResponse{}, err
	}
	if err := s.checkBranches(ctx, access); err != nil {
		return user.UserResponse{}, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to generate user id: %w", err)
	}

	created, err := s.userRepo.Create(ctx, user.User{
		ID:           id.String(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: hash,
		Role:         req.Role,
		Branches:     access,
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	return user.NewUserResponse(created), nil
}

// Update implements user.UserService. A role or password change revokes
// the user's sessions.
func (s *userServiceImpl) Update(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	actor, err := user.Actor(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	var updated user.User
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		u, err := s.userRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && (u.IsAdmin() || (req.Role != nil && *req.Role == role.Admin)) {
			return user.ErrAdminPrivilegeRequired
		}

		revoke := req.Apply(&u)
		if req.AllBranches != nil || req.BranchIDs != nil {
			if err := grantable(actor, u.Branches); err != nil {
				return err
			}
		}
		if err := s.checkBranches(ctx, u.Branches); err != nil {
			return err
		}
		if req.Password != nil {
			if u.PasswordHash, err = s.hashPassword(*req.Password); err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
		}

		if err := s.userRepo.Update(ctx, u); err != nil {
			return err
		}
		if revoke {
			if u.TokenVersion, err = s.userRepo.IncrementTokenVersion(ctx, u.ID); err != nil {
				return err
			}
		}
		updated = u
		return nil
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	return user.NewUserResponse(updated), nil
}

// Delete implements user.UserService.
func (s *userServiceImpl) Delete(ctx context.Context, id string) error {
	actor, err := user.Actor(ctx)
	if err != nil {
		return err
	}
	if actor.ID == id {
		return user.ErrCannotDeleteSelf
	}

	target, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if target.IsAdmin() && !actor.IsAdmin() {
		return user.ErrAdminPrivilegeRequired
	}

	return s.userRepo.Delete(ctx, id)
}

// SetPermissions implements user.UserService.
func (s *userServiceImpl) SetPermissions(ctx context.Context, req user.SetPermissionsRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	perms := req.Permissions
	if perms == nil {
		perms = role.PermissionMap{}
	}
	return s.writePermissions(ctx, req.UserID, perms)
}

// ResetPermissions implements user.UserService.
func (s *userServiceImpl) ResetPermissions(ctx context.Context, id string) (user.UserResponse, error) {
	return s.writePermissions(ctx, id, nil)
}

// writePermissions replaces the override map of user id. Admin overrides are
// only written by admins.
func (s *userServiceImpl) writePermissions(ctx context.Context, id string, perms role.PermissionMap) (user.UserResponse, error) {
	actor, err := user.Actor(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}

	var updated user.User
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		target, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if target.IsAdmin() && !actor.IsAdmin() {
			return user.ErrAdminPrivilegeRequired
		}
		if err := s.userRepo.SetPermissions(ctx, id, perms); err != nil {
			return err
		}
		if updated, err = s.userRepo.GetByID(ctx, id); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	return user.NewUserResponse(updated), nil
}

// grantable rejects access wider than the actor's own: every branch needs
// an actor with every branch, and each listed id must be in the actor's scope.
func grantable(actor user.User, access user.BranchAccess) error {
	if access.IsAll() {
		if !actor.Branches.IsAll() {
			return branch.ErrBranchOutOfScope
		}
		return nil
	}
	for _, id := range access.IDs() {
		if !actor.Branches.Allows(id) {
			return branch.ErrBranchOutOfScope
		}
	}
	return nil
}

func (s *userServiceImpl) checkBranches(ctx context.Context, access user.BranchAccess) error {
	ids := access.IDs()
	if len(ids) == 0 {
		return nil
	}
	found, err := s.branchRepo.ListByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to check branches: %w", err)
	}
	unique := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if len(found) != len(unique) {
		return branch.ErrBranchNotFound
	}
	return nil
}
