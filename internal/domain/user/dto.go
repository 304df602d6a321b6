package user

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID           string             `json:"id"`
	Email        string             `json:"email"`
	FirstName    string             `json:"first_name"`
	LastName     string             `json:"last_name"`
	Role         role.Name          `json:"role"`
	AllBranches  bool               `json:"all_branches"`
	BranchIDs    []string           `json:"branch_ids"`
	Permissions  role.PermissionMap `json:"permissions"`
	TokenVersion int                `json:"token_version"`
	CreatedAt    string             `json:"created_at"`
	UpdatedAt    string             `json:"updated_at"`
}

func NewUserResponse(u User) UserResponse {
	ids := u.Branches.IDs()
	if ids == nil {
		ids = []string{}
	}
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         u.Role,
		AllBranches:  u.Branches.IsAll(),
		BranchIDs:    ids,
		Permissions:  u.Permissions,
		TokenVersion: u.TokenVersion,
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    u.UpdatedAt.Format(time.RFC3339),
	}
}

// MeResponse is the acting user plus the resolved permission matrix.
type MeResponse struct {
	User        UserResponse                      `json:"user"`
	Permissions map[role.Module]role.ModuleAccess `json:"permissions"`
}

// CreateUserRequest represents request to create a new user
type CreateUserRequest struct {
	Email       string    `json:"email"`
	Password    string    `json:"password"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Role        role.Name `json:"role"`
	AllBranches bool      `json:"all_branches"`
	BranchIDs   []string  `json:"branch_ids"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}
	if len(r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters")
	}
	if validator.IsEmpty(r.FirstName) {
		errs.Add("first_name", "first_name is required")
	}
	if !r.Role.Valid() {
		errs.Add("role", "role must be admin, manager or owner")
	}
	if r.AllBranches && len(r.BranchIDs) > 0 {
		errs.Add("branch_ids", "branch_ids must be empty when all_branches is set")
	}

	return errs.Err()
}

func (r *CreateUserRequest) Access() BranchAccess {
	if r.AllBranches {
		return AllBranches
	}
	return Assigned(r.BranchIDs...)
}

// UpdateUserRequest only touches the fields that are set.
type UpdateUserRequest struct {
	ID          string     `json:"-"`
	FirstName   *string    `json:"first_name,omitempty"`
	LastName    *string    `json:"last_name,omitempty"`
	Password    *string    `json:"password,omitempty"`
	Role        *role.Name `json:"role,omitempty"`
	AllBranches *bool      `json:"all_branches,omitempty"`
	BranchIDs   []string   `json:"branch_ids,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs.Add("first_name", "first_name must not be empty")
	}
	if r.Password != nil && len(*r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters")
	}
	if r.Role != nil && !r.Role.Valid() {
		errs.Add("role", "role must be admin, manager or owner")
	}
	if r.AllBranches != nil && *r.AllBranches && len(r.BranchIDs) > 0 {
		errs.Add("branch_ids", "branch_ids must be empty when all_branches is set")
	}

	return errs.Err()
}

// Apply copies the set profile and access fields onto u and reports whether
// the change must revoke existing sessions. Passwords are hashed by the caller.
func (r *UpdateUserRequest) Apply(u *User) (revoke bool) {
	if r.FirstName != nil {
		u.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		u.LastName = *r.LastName
	}
	if r.Role != nil && *r.Role != u.Role {
		u.Role = *r.Role
		revoke = true
	}
	switch {
	case r.AllBranches != nil && *r.AllBranches:
		u.Branches = AllBranches
	case r.AllBranches != nil || r.BranchIDs != nil:
		u.Branches = Assigned(r.BranchIDs...)
	}
	return revoke || r.Password != nil
}

// SetPermissionsRequest replaces a user's override map.
type SetPermissionsRequest struct {
	UserID      string             `json:"-"`
	Permissions role.PermissionMap `json:"permissions"`
}

func (r *SetPermissionsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs.Add("id", "id is required")
	}
	for m := range r.Permissions {
		if !m.Valid() {
			errs.Add("permissions."+string(m), role.ErrUnknownModule.Error())
		}
	}

	return errs.Err()
}
