package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/service/servicetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var july = attendance.NewMonthKey(2025, 7)

func staffMember(id, first, role string, days map[string]int, branchIDs ...string) employee.Employee {
	e := employee.Employee{
		ID:                id,
		FirstName:         first,
		LastName:          "Doe",
		Role:              role,
		StartDate:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		BaseSalary:        decimal.NewFromInt(3000),
		AllowedAbsentDays: decimal.NewFromInt(4),
		Attendance:        attendance.Sheet{},
		BranchIDs:         branchIDs,
		Status:            employee.StatusApproved,
		IsActive:          true,
	}
	for branchID, n := range days {
		for d := 1; d <= n; d++ {
			e.Attendance.Set(branchID, july, d, decimal.NewFromInt(1))
		}
	}
	return e
}

func setupDashboard() dashboard.DashboardService {
	ana := staffMember("e1", "Ana", "cook", map[string]int{"north-branch": 31}, "north-branch", "south-branch")
	ben := staffMember("e2", "Ben", "cashier", map[string]int{"north-branch": 20}, "north-branch")
	cal := staffMember("e3", "Cal", "cook", nil, "north-branch")
	cal.Status = employee.StatusPending

	return NewDashboardService(
		servicetest.NewEmployeeRepo(ana, ben, cal),
		servicetest.NewBranchRepo(
			branch.Branch{ID: "north-branch", Name: "North"},
			branch.Branch{ID: "south-branch", Name: "South"},
		),
	)
}

func adminCtx() context.Context {
	return user.NewContext(context.Background(), user.User{ID: "admin", Role: role.Admin, Branches: user.AllBranches})
}

func TestGetDashboard_BranchScope(t *testing.T) {
	svc := setupDashboard()

	resp, err := svc.GetDashboard(adminCtx(), payroll.ReportQuery{Branch: "north-branch", Month: "2025-07"})
	require.NoError(t, err)

	assert.Equal(t, "north-branch", resp.Branch)
	assert.Equal(t, 3, resp.TotalEmployees)
	assert.Equal(t, 2, resp.ApprovedEmployees)
	assert.Equal(t, 1, resp.PendingEmployees)
	assert.Equal(t, "5900", resp.TotalPayroll.String())
	assert.Equal(t, "5900", resp.DisplayTotalPayroll.String())
	assert.Equal(t, "82.26", resp.AttendanceRate.String())

	assert.Equal(t, []dashboard.CountItem{{Name: "cook", Count: 2}, {Name: "cashier", Count: 1}}, resp.RoleDistribution)
	assert.Equal(t, []dashboard.CountItem{{Name: "North", Count: 3}}, resp.BranchDistribution)

	require.Len(t, resp.LowAttendance, 1)
	assert.Equal(t, "e2", resp.LowAttendance[0].EmployeeID)
	assert.Equal(t, "64.52", resp.LowAttendance[0].Rate.String())
}

func TestGetDashboard_AllScope(t *testing.T) {
	svc := setupDashboard()

	resp, err := svc.GetDashboard(adminCtx(), payroll.ReportQuery{Branch: "all", Month: "2025-07"})
	require.NoError(t, err)

	assert.Equal(t, "all", resp.Branch)
	assert.Equal(t, "6300", resp.TotalPayroll.String())
	assert.Equal(t, "54.84", resp.AttendanceRate.String())
	assert.Equal(t, []dashboard.CountItem{{Name: "North", Count: 3}, {Name: "South", Count: 1}}, resp.BranchDistribution)

	require.Len(t, resp.LowAttendance, 2)
	assert.Equal(t, "e1", resp.LowAttendance[0].EmployeeID)
	assert.Equal(t, "50", resp.LowAttendance[0].Rate.String())
	assert.Equal(t, "e2", resp.LowAttendance[1].EmployeeID)

	require.Len(t, resp.AttendanceByRole, 2)
	assert.Equal(t, "cashier", resp.AttendanceByRole[0].Name)
}

func TestGetDashboard_OutOfScope(t *testing.T) {
	svc := setupDashboard()
	ctx := user.NewContext(context.Background(), user.User{ID: "m", Role: role.Manager, Branches: user.Assigned("south-branch")})

	_, err := svc.GetDashboard(ctx, payroll.ReportQuery{Branch: "north-branch", Month: "2025-07"})
	assert.ErrorIs(t, err, branch.ErrBranchOutOfScope)

	_, err = svc.GetDashboard(adminCtx(), payroll.ReportQuery{Month: "July"})
	assert.Error(t, err)
}
