package branch

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminCtx() context.Context {
	return user.NewContext(context.Background(), user.User{ID: "admin", Role: role.Admin, Branches: user.AllBranches})
}

func managerCtx(ids ...string) context.Context {
	return user.NewContext(context.Background(), user.User{ID: "manager", Role: role.Manager, Branches: user.Assigned(ids...)})
}

func seededRepo() *servicetest.BranchRepo {
	return servicetest.NewBranchRepo(
		branch.Branch{ID: "north-branch", Name: "North"},
		branch.Branch{ID: "south-branch", Name: "South"},
	)
}

func TestCreate_DerivesSlugID(t *testing.T) {
	repo := servicetest.NewBranchRepo()
	svc := NewBranchService(repo)

	resp, err := svc.Create(adminCtx(), branch.CreateBranchRequest{
		Name:   "  Down Town ",
		Shifts: []branch.Shift{{Name: "night", StartTime: "22:00", EndTime: "06:00"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "down-town-branch", resp.ID)
	assert.Equal(t, "Down Town", resp.Name)

	_, err = svc.Create(adminCtx(), branch.CreateBranchRequest{Name: "down town"})
	assert.ErrorIs(t, err, branch.ErrBranchNameExists)
}

func TestCreate_InvalidShift(t *testing.T) {
	svc := NewBranchService(servicetest.NewBranchRepo())

	_, err := svc.Create(adminCtx(), branch.CreateBranchRequest{
		Name:   "East",
		Shifts: []branch.Shift{{Name: "late", StartTime: "25:00", EndTime: "06:00"}},
	})
	require.Error(t, err)
}

func TestList_ScopedByActor(t *testing.T) {
	svc := NewBranchService(seededRepo())

	all, err := svc.List(adminCtx())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.List(managerCtx("south-branch"))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "south-branch", mine[0].ID)

	none, err := svc.List(managerCtx())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetByID_OutOfScope(t *testing.T) {
	svc := NewBranchService(seededRepo())

	_, err := svc.GetByID(managerCtx("south-branch"), "north-branch")
	assert.ErrorIs(t, err, branch.ErrBranchOutOfScope)

	_, err = svc.GetByID(adminCtx(), "west-branch")
	assert.ErrorIs(t, err, branch.ErrBranchNotFound)
}

func TestUpdate_KeepsID(t *testing.T) {
	repo := seededRepo()
	svc := NewBranchService(repo)
	name := "North Side"

	resp, err := svc.Update(adminCtx(), branch.UpdateBranchRequest{
		ID:         "north-branch",
		Name:       &name,
		StaffRoles: map[string]int{"cashier": 3},
	})
	require.NoError(t, err)
	assert.Equal(t, "north-branch", resp.ID)
	assert.Equal(t, "North Side", repo.Rows["north-branch"].Name)
	assert.Equal(t, 3, repo.Rows["north-branch"].StaffRoles["cashier"])
}

func TestDelete(t *testing.T) {
	repo := seededRepo()
	svc := NewBranchService(repo)

	require.NoError(t, svc.Delete(adminCtx(), "north-branch"))
	assert.NotContains(t, repo.Rows, "north-branch")

	err := svc.Delete(managerCtx("north-branch"), "south-branch")
	assert.ErrorIs(t, err, branch.ErrBranchOutOfScope)
}

func TestUnauthenticated(t *testing.T) {
	svc := NewBranchService(seededRepo())

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, user.ErrUnauthenticated)
}
