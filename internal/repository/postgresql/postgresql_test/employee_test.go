package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmployee(t *testing.T, branchIDs ...string) employee.Employee {
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return employee.Employee{
		ID:                id.String(),
		FirstName:         "Ana",
		LastName:          "Lopez",
		Phone:             "5551234567",
		Role:              "cook",
		StartDate:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		BaseSalary:        decimal.NewFromInt(3000),
		AllowedAbsentDays: decimal.NewFromInt(4),
		BranchIDs:         branchIDs,
		Status:            employee.StatusApproved,
		IsActive:          true,
	}
}

func TestEmployeeRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(db)

	e := newTestEmployee(t, "main-branch")
	created, err := repo.Create(ctx, e)
	require.NoError(t, err)
	assert.Equal(t, e.ID, created.ID)
	assert.True(t, created.BaseSalary.Equal(e.BaseSalary))
	assert.Equal(t, []string{"main-branch"}, created.BranchIDs)
	assert.Empty(t, created.Attendance)

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, employee.StatusApproved, got.Status)
	assert.True(t, got.IsActive)
	assert.Nil(t, got.PayrollEndMonth)
}

func TestEmployeeRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewEmployeeRepository(db)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeRepository_UpdateLedger_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(db)

	e, err := repo.Create(ctx, newTestEmployee(t, "main-branch"))
	require.NoError(t, err)

	key := attendance.NewMonthKey(2025, 6)
	e.Attendance = attendance.Sheet{}
	e.Attendance.Set("main-branch", key, 1, decimal.NewFromInt(1))
	e.Attendance.Set("main-branch", key, 2, decimal.RequireFromString("0.5"))
	e.BonusDays = attendance.Adjustments{}
	e.BonusDays.Add("main-branch", key, decimal.NewFromInt(2))
	require.NoError(t, repo.UpdateLedger(ctx, e))

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "1.5", got.Attendance.Total("main-branch", key).String())
	assert.Equal(t, "2", got.BonusDays.Get("main-branch", key).String())
	assert.True(t, got.PenaltyDays.Get("main-branch", key).IsZero())
}

func TestEmployeeRepository_UpdateStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(db)

	e, err := repo.Create(ctx, newTestEmployee(t, "main-branch"))
	require.NoError(t, err)

	require.NoError(t, e.Deactivate(time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, repo.UpdateStatus(ctx, e))

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.PayrollEndMonth)
	assert.Equal(t, 7, *got.PayrollEndMonth)
	assert.Equal(t, 2025, *got.PayrollEndYear)
}

func TestEmployeeRepository_List_Filters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(db)

	a := newTestEmployee(t, "north-branch")
	b := newTestEmployee(t, "south-branch")
	b.FirstName = "Ben"
	b.Status = employee.StatusPending
	_, err := repo.Create(ctx, a)
	require.NoError(t, err)
	_, err = repo.Create(ctx, b)
	require.NoError(t, err)

	all, err := repo.List(ctx, employee.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	north, err := repo.List(ctx, employee.ListFilter{BranchIDs: []string{"north-branch"}})
	require.NoError(t, err)
	require.Len(t, north, 1)
	assert.Equal(t, a.ID, north[0].ID)

	none, err := repo.List(ctx, employee.ListFilter{BranchIDs: []string{}})
	require.NoError(t, err)
	assert.Empty(t, none)

	pending := employee.StatusPending
	onlyPending, err := repo.List(ctx, employee.ListFilter{Status: &pending})
	require.NoError(t, err)
	require.Len(t, onlyPending, 1)
	assert.Equal(t, b.ID, onlyPending[0].ID)
}

func TestEmployeeRepository_PruneLedger(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(db)

	e := newTestEmployee(t, "main-branch")
	old, kept := attendance.NewMonthKey(2025, 5), attendance.NewMonthKey(2025, 6)
	e.Attendance = attendance.Sheet{}
	e.Attendance.Set("main-branch", old, 3, decimal.NewFromInt(1))
	e.Attendance.Set("main-branch", kept, 3, decimal.NewFromInt(1))
	_, err := repo.Create(ctx, e)
	require.NoError(t, err)

	untouched := newTestEmployee(t, "main-branch")
	_, err = repo.Create(ctx, untouched)
	require.NoError(t, err)

	changed, err := repo.PruneLedger(ctx, kept)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.Attendance.Total("main-branch", old).IsZero())
	assert.Equal(t, "1", got.Attendance.Total("main-branch", kept).String())
}
