package user

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var (
	admin   = user.User{ID: "admin", Email: "admin@example.com", Role: role.Admin, Branches: user.AllBranches}
	manager = user.User{ID: "manager", Email: "manager@example.com", Role: role.Manager, Branches: user.Assigned("north-branch")}
	owner   = user.User{ID: "owner", Email: "owner@example.com", Role: role.Owner, Branches: user.AllBranches}
)

func setupUserService() (*userServiceImpl, *servicetest.UserRepo) {
	users := servicetest.NewUserRepo(admin, manager)
	branches := servicetest.NewBranchRepo(branch.Branch{ID: "north-branch", Name: "North"})
	svc := NewUserService(users, branches, servicetest.Transactor{}).(*userServiceImpl)
	svc.hashCost = bcrypt.MinCost
	return svc, users
}

func as(u user.User) context.Context {
	return user.NewContext(context.Background(), u)
}

func TestCreate_HashesPassword(t *testing.T) {
	svc, users := setupUserService()

	resp, err := svc.Create(as(admin), user.CreateUserRequest{
		Email:     "New@Example.com",
		Password:  "password123",
		FirstName: "New",
		Role:      role.Manager,
		BranchIDs: []string{"north-branch", "north-branch"},
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", resp.Email)
	assert.False(t, resp.AllBranches)

	stored := users.Rows[resp.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestCreate_Rules(t *testing.T) {
	svc, _ := setupUserService()

	_, err := svc.Create(as(owner), user.CreateUserRequest{
		Email: "x@example.com", Password: "password123", FirstName: "X", Role: role.Admin, AllBranches: true,
	})
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)

	_, err = svc.Create(as(admin), user.CreateUserRequest{
		Email: "y@example.com", Password: "password123", FirstName: "Y", Role: role.Manager, BranchIDs: []string{"ghost-branch"},
	})
	assert.ErrorIs(t, err, branch.ErrBranchNotFound)

	_, err = svc.Create(as(admin), user.CreateUserRequest{
		Email: "manager@example.com", Password: "password123", FirstName: "Z", Role: role.Owner, AllBranches: true,
	})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}

func TestUpdate_RoleChangeRevokesSessions(t *testing.T) {
	svc, users := setupUserService()
	newRole := role.Owner
	all := true

	resp, err := svc.Update(as(admin), user.UpdateUserRequest{ID: "manager", Role: &newRole, AllBranches: &all})
	require.NoError(t, err)
	assert.Equal(t, role.Owner, resp.Role)
	assert.True(t, resp.AllBranches)
	assert.Equal(t, 1, users.Rows["manager"].TokenVersion)
}

func TestUpdate_NameChangeKeepsSessions(t *testing.T) {
	svc, users := setupUserService()
	name := "Renamed"

	_, err := svc.Update(as(admin), user.UpdateUserRequest{ID: "manager", FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", users.Rows["manager"].FirstName)
	assert.Equal(t, 0, users.Rows["manager"].TokenVersion)
}

func TestUpdate_NonAdminCannotTouchAdmin(t *testing.T) {
	svc, _ := setupUserService()
	name := "Hacker"

	_, err := svc.Update(as(owner), user.UpdateUserRequest{ID: "admin", FirstName: &name})
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)
}

func TestCreate_CannotGrantWiderBranchAccess(t *testing.T) {
	svc, users := setupUserService()

	_, err := svc.Create(as(manager), user.CreateUserRequest{
		Email: "wide@example.com", Password: "password123", FirstName: "W", Role: role.Manager, AllBranches: true,
	})
	assert.ErrorIs(t, err, branch.ErrBranchOutOfScope)

	_, err = svc.Create(as(manager), user.CreateUserRequest{
		Email: "south@example.com", Password: "password123", FirstName: "S", Role: role.Manager, BranchIDs: []string{"south-branch"},
	})
	assert.ErrorIs(t, err, branch.ErrBranchOutOfScope)
	assert.Len(t, users.Rows, 2)

	resp, err := svc.Create(as(manager), user.CreateUserRequest{
		Email: "north@example.com", Password: "password123", FirstName: "N", Role: role.Manager, BranchIDs: []string{"north-branch"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"north-branch"}, resp.BranchIDs)
}

func TestUpdate_CannotWidenOwnBranchAccess(t *testing.T) {
	svc, users := setupUserService()
	all := true

	_, err := svc.Update(as(manager), user.UpdateUserRequest{ID: "manager", AllBranches: &all})
	assert.ErrorIs(t, err, branch.ErrBranchOutOfScope)
	assert.False(t, users.Rows["manager"].Branches.IsAll())

	_, err = svc.Update(as(manager), user.UpdateUserRequest{ID: "manager", BranchIDs: []string{"north-branch", "south-branch"}})
	assert.ErrorIs(t, err, branch.ErrBranchOutOfScope)

	name := "Renamed"
	_, err = svc.Update(as(manager), user.UpdateUserRequest{ID: "manager", FirstName: &name})
	assert.NoError(t, err)
}

func TestSetPermissions_NonAdminCannotTouchAdmin(t *testing.T) {
	svc, users := setupUserService()
	locked := role.PermissionMap{role.ModuleRoles: role.Detailed(false, false)}

	_, err := svc.SetPermissions(as(manager), user.SetPermissionsRequest{UserID: "admin", Permissions: locked})
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)
	_, err = svc.ResetPermissions(as(owner), "admin")
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)
	assert.Nil(t, users.Rows["admin"].Permissions)

	_, err = svc.SetPermissions(as(admin), user.SetPermissionsRequest{UserID: "admin", Permissions: locked})
	assert.NoError(t, err)
}

func TestDelete(t *testing.T) {
	svc, users := setupUserService()

	assert.ErrorIs(t, svc.Delete(as(admin), "admin"), user.ErrCannotDeleteSelf)
	assert.ErrorIs(t, svc.Delete(as(owner), "admin"), user.ErrAdminPrivilegeRequired)
	require.NoError(t, svc.Delete(as(admin), "manager"))
	assert.NotContains(t, users.Rows, "manager")
}

func TestSetAndResetPermissions(t *testing.T) {
	svc, _ := setupUserService()

	resp, err := svc.SetPermissions(as(admin), user.SetPermissionsRequest{
		UserID:      "manager",
		Permissions: role.PermissionMap{role.ModuleBranches: role.Detailed(true, false)},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Permissions)
	assert.True(t, resp.Permissions[role.ModuleBranches].IsSet())

	resp, err = svc.ResetPermissions(as(admin), "manager")
	require.NoError(t, err)
	assert.Nil(t, resp.Permissions)

	_, err = svc.SetPermissions(as(admin), user.SetPermissionsRequest{
		UserID:      "manager",
		Permissions: role.PermissionMap{role.Module("reports"): role.LegacyView(true)},
	})
	assert.Error(t, err)
}
