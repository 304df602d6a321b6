package user

import (
	"encoding/json"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/role"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPermission_DefaultDeny(t *testing.T) {
	u := User{Role: role.Manager}

	assert.False(t, GetPermission(u, nil, role.ModulePayroll, role.AccessEdit))
	assert.False(t, GetPermission(u, role.PermissionMap{}, role.ModulePayroll, role.AccessView))
	assert.False(t, GetPermission(u, role.DefaultPermissions(role.Manager), role.Module("reports"), role.AccessView))
}

func TestGetPermission_UserOverrideWins(t *testing.T) {
	defaults := role.PermissionMap{role.ModulePayroll: role.Detailed(true, true)}
	u := User{
		Role:        role.Manager,
		Permissions: role.PermissionMap{role.ModulePayroll: role.Detailed(true, false)},
	}

	assert.False(t, GetPermission(u, defaults, role.ModulePayroll, role.AccessEdit))
	assert.True(t, GetPermission(u, defaults, role.ModulePayroll, role.AccessView))
}

func TestGetPermission_LegacyOverride(t *testing.T) {
	defaults := role.PermissionMap{role.ModuleStaff: role.Detailed(true, true)}

	granted := User{Permissions: role.PermissionMap{role.ModuleStaff: role.LegacyView(true)}}
	assert.True(t, GetPermission(granted, defaults, role.ModuleStaff, role.AccessView))
	assert.False(t, GetPermission(granted, defaults, role.ModuleStaff, role.AccessEdit), "legacy shape never grants edit")

	denied := User{Permissions: role.PermissionMap{role.ModuleStaff: role.LegacyView(false)}}
	assert.False(t, GetPermission(denied, defaults, role.ModuleStaff, role.AccessView))
}

func TestGetPermission_FallsBackToRole(t *testing.T) {
	defaults := role.PermissionMap{
		role.ModuleDashboard: role.LegacyView(true),
		role.ModuleBranches:  role.Detailed(false, true),
	}
	u := User{Permissions: role.PermissionMap{role.ModulePayroll: role.Detailed(true, true)}}

	assert.True(t, GetPermission(u, defaults, role.ModuleDashboard, role.AccessView))
	assert.False(t, GetPermission(u, defaults, role.ModuleDashboard, role.AccessEdit))
	assert.True(t, GetPermission(u, defaults, role.ModuleBranches, role.AccessEdit))
}

func TestGetPermission_ResetOverridesRestoresRole(t *testing.T) {
	defaults := role.DefaultPermissions(role.Manager)
	u := User{Role: role.Manager, Permissions: role.PermissionMap{role.ModuleStaff: role.Detailed(false, false)}}
	assert.False(t, GetPermission(u, defaults, role.ModuleStaff, role.AccessView))

	u.Permissions = nil
	assert.True(t, GetPermission(u, defaults, role.ModuleStaff, role.AccessEdit))
}

func TestPermissionMap_JSONShapes(t *testing.T) {
	raw := `{"payroll":{"view":true,"edit":false},"staff":true,"users":null}`

	var perms role.PermissionMap
	require.NoError(t, json.Unmarshal([]byte(raw), &perms))

	assert.False(t, perms[role.ModulePayroll].IsLegacy())
	assert.True(t, perms[role.ModuleStaff].IsLegacy())
	assert.False(t, perms[role.ModuleUsers].IsSet())

	u := User{Permissions: perms}
	defaults := role.PermissionMap{role.ModuleUsers: role.Detailed(true, true)}
	assert.True(t, GetPermission(u, defaults, role.ModuleUsers, role.AccessEdit), "null entry falls through")

	out, err := json.Marshal(role.PermissionMap{role.ModulePayroll: role.Detailed(true, false), role.ModuleStaff: role.LegacyView(true)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"payroll":{"view":true,"edit":false},"staff":true}`, string(out))

	var bad role.PermissionMap
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"payroll":"yes"}`), &bad), role.ErrInvalidPermission)
}

func TestMatrix(t *testing.T) {
	m := Matrix(User{Role: role.Owner}, role.DefaultPermissions(role.Owner))

	assert.Len(t, m, len(role.Modules))
	assert.True(t, m[role.ModuleRoles].View)
	assert.False(t, m[role.ModuleRoles].Edit)
}

func TestBranchAccess(t *testing.T) {
	assert.True(t, AllBranches.Allows("anything"))
	assert.Nil(t, AllBranches.IDs())

	none := Assigned()
	assert.False(t, none.IsAll())
	assert.False(t, none.Allows("a-branch"))
	assert.NotNil(t, none.IDs())
	assert.Empty(t, none.IDs())

	some := Assigned("a-branch")
	assert.True(t, some.Allows("a-branch"))
}

func TestUpdateUserRequest_Apply(t *testing.T) {
	u := User{Role: role.Manager, Branches: Assigned("a-branch")}

	all := true
	req := UpdateUserRequest{ID: "u1", AllBranches: &all}
	require.NoError(t, req.Validate())
	assert.False(t, req.Apply(&u))
	assert.True(t, u.Branches.IsAll())

	owner := role.Owner
	req = UpdateUserRequest{ID: "u1", Role: &owner}
	assert.True(t, req.Apply(&u), "role change revokes sessions")
	assert.Equal(t, role.Owner, u.Role)
}
