package payroll

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/payroll-backend-go/internal/service/servicetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var july = attendance.NewMonthKey(2025, 7)

func adminCtx() context.Context {
	return user.NewContext(context.Background(), user.User{ID: "admin", Role: role.Admin, Branches: user.AllBranches})
}

func managerCtx(ids ...string) context.Context {
	return user.NewContext(context.Background(), user.User{ID: "manager", Role: role.Manager, Branches: user.Assigned(ids...)})
}

func markDays(e *employee.Employee, branchID string, days int) {
	for d := 1; d <= days; d++ {
		e.Attendance.Set(branchID, july, d, decimal.NewFromInt(1))
	}
}

func newEmployee(id, first string, branchIDs ...string) employee.Employee {
	return employee.Employee{
		ID:                id,
		FirstName:         first,
		LastName:          "Doe",
		Phone:             "0551234567",
		Role:              "cook",
		StartDate:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		BaseSalary:        decimal.NewFromInt(3000),
		AllowedAbsentDays: decimal.NewFromInt(4),
		Attendance:        attendance.Sheet{},
		BonusDays:         attendance.Adjustments{},
		PenaltyDays:       attendance.Adjustments{},
		BranchIDs:         branchIDs,
		Status:            employee.StatusApproved,
		IsActive:          true,
	}
}

func setupService(t *testing.T) payroll.PayrollService {
	t.Helper()

	// 25 days + 1 bonus in north: 3000 * 30 / 30 = 3000
	// 10 days in south: 3000 * 14 / 30 = 1400
	multi := newEmployee("e1", "Ana", "north-branch", "south-branch")
	markDays(&multi, "north-branch", 25)
	markDays(&multi, "south-branch", 10)
	multi.BonusDays.Add("north-branch", july, decimal.NewFromInt(1))

	// 26 days in north: 3000
	single := newEmployee("e2", "Ben", "north-branch")
	markDays(&single, "north-branch", 26)

	pending := newEmployee("e3", "Cal", "north-branch")
	pending.Status = employee.StatusPending

	late := newEmployee("e4", "Dee", "north-branch")
	late.StartDate = time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	gone := newEmployee("e5", "Eve", "north-branch")
	require.NoError(t, gone.Deactivate(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)))

	return NewPayrollService(
		servicetest.NewEmployeeRepo(multi, single, pending, late, gone),
		servicetest.NewBranchRepo(
			branch.Branch{ID: "north-branch", Name: "North"},
			branch.Branch{ID: "south-branch", Name: "South"},
		),
		export.PDFOptions{},
	)
}

func TestReport_BranchScope(t *testing.T) {
	svc := setupService(t)

	report, err := svc.Report(adminCtx(), payroll.ReportQuery{Branch: "north-branch", Month: "2025-07"})
	require.NoError(t, err)
	assert.Equal(t, "North", report.BranchName)
	require.Len(t, report.Lines, 2)
	assert.Equal(t, "3000.00", report.Lines[0].Amount)
	assert.Equal(t, "3000.00", report.Lines[1].Amount)
	assert.Equal(t, "6000", report.DisplayTotal.String())
}

func TestReport_AllScopeSumsBranches(t *testing.T) {
	svc := setupService(t)

	report, err := svc.Report(adminCtx(), payroll.ReportQuery{Branch: "all", Month: "2025-07"})
	require.NoError(t, err)
	assert.Equal(t, "all", report.Branch)
	require.Len(t, report.Lines, 2)
	assert.Equal(t, "e1", report.Lines[0].EmployeeID)
	assert.Equal(t, "4400.00", report.Lines[0].Amount)
	assert.Len(t, report.Lines[0].Branches, 2)
	assert.Equal(t, "7400", report.DisplayTotal.String())
}

func TestReport_DeactivatedEmployeeStaysUntilPayrollEnd(t *testing.T) {
	svc := setupService(t)

	june, err := svc.Report(adminCtx(), payroll.ReportQuery{Branch: "north-branch", Month: "2025-06"})
	require.NoError(t, err)
	ids := []string{}
	for _, l := range june.Lines {
		ids = append(ids, l.EmployeeID)
	}
	assert.Contains(t, ids, "e5")
	assert.NotContains(t, ids, "e3")
	assert.NotContains(t, ids, "e4")
}

func TestReport_RestrictedActor(t *testing.T) {
	svc := setupService(t)

	report, err := svc.Report(managerCtx("south-branch"), payroll.ReportQuery{Month: "2025-07"})
	require.NoError(t, err)
	require.Len(t, report.Lines, 1)
	assert.Equal(t, "1400.00", report.Lines[0].Amount)

	_, err = svc.Report(managerCtx("south-branch"), payroll.ReportQuery{Branch: "north-branch", Month: "2025-07"})
	assert.ErrorIs(t, err, branch.ErrBranchOutOfScope)
}

func TestReport_InvalidMonth(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Report(adminCtx(), payroll.ReportQuery{Month: "2025-7"})
	assert.Error(t, err)
}

func TestExportCSV(t *testing.T) {
	svc := setupService(t)

	file, err := svc.ExportCSV(adminCtx(), payroll.ReportQuery{Branch: "north-branch", Month: "2025-07"})
	require.NoError(t, err)
	assert.Equal(t, "payroll-North-7-2025.csv", file.Name)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	rows, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"First Name", "Last Name", "Phone", "Amount"}, rows[0])
	assert.Equal(t, []string{"Ana", "Doe", "'0551234567'", "3000.00"}, rows[1])
}

func TestExportPDF(t *testing.T) {
	svc := setupService(t)

	file, err := svc.ExportPDF(adminCtx(), payroll.ReportQuery{Branch: "all", Month: "2025-07"})
	require.NoError(t, err)
	assert.Equal(t, "payroll-all-7-2025.pdf", file.Name)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}
