package user

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         role.Name
	Branches     BranchAccess
	// Permissions overrides the role defaults per module. Nil means none.
	Permissions  role.PermissionMap
	TokenVersion int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == role.Admin
}

// BranchAccess is either every branch or an explicit list. An explicit
// list with no ids grants no branch.
type BranchAccess struct {
	all bool
	ids []string
}

// AllBranches grants every branch, current and future.
var AllBranches = BranchAccess{all: true}

func Assigned(ids ...string) BranchAccess {
	return BranchAccess{ids: ids}
}

func (a BranchAccess) IsAll() bool {
	return a.all
}

// IDs is nil for AllBranches.
func (a BranchAccess) IDs() []string {
	if a.all {
		return nil
	}
	if a.ids == nil {
		return []string{}
	}
	return a.ids
}

func (a BranchAccess) Allows(branchID string) bool {
	return a.all || validator.IsInSlice(branchID, a.ids)
}

// GetPermission resolves whether u may access module. User overrides are
// consulted first, then the role defaults; anything unresolved is denied.
func GetPermission(u User, roleDefaults role.PermissionMap, module role.Module, access role.Access) bool {
	if allowed, ok := u.Permissions.Lookup(module, access); ok {
		return allowed
	}
	if allowed, ok := roleDefaults.Lookup(module, access); ok {
		return allowed
	}
	return false
}

// Matrix resolves every module for u.
func Matrix(u User, roleDefaults role.PermissionMap) map[role.Module]role.ModuleAccess {
	out := make(map[role.Module]role.ModuleAccess, len(role.Modules))
	for _, m := range role.Modules {
		out[m] = role.ModuleAccess{
			View: GetPermission(u, roleDefaults, m, role.AccessView),
			Edit: GetPermission(u, roleDefaults, m, role.AccessEdit),
		}
	}
	return out
}
