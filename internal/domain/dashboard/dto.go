package dashboard

import (
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// LowAttendanceThreshold is the rate below which an employee is flagged.
var LowAttendanceThreshold = decimal.NewFromInt(80)

// LowAttendanceLimit caps the flagged list.
const LowAttendanceLimit = 5

// DashboardResponse is the monthly overview for a branch scope
type DashboardResponse struct {
	Branch              string              `json:"branch"`
	Month               attendance.MonthKey `json:"month"`
	TotalEmployees      int                 `json:"total_employees"`
	ApprovedEmployees   int                 `json:"approved_employees"`
	PendingEmployees    int                 `json:"pending_employees"`
	TotalPayroll        decimal.Decimal     `json:"total_payroll"`
	DisplayTotalPayroll decimal.Decimal     `json:"display_total_payroll"`
	AttendanceRate      decimal.Decimal     `json:"attendance_rate"`
	RoleDistribution    []CountItem         `json:"role_distribution"`
	BranchDistribution  []CountItem         `json:"branch_distribution"`
	AttendanceByRole    []RateItem          `json:"attendance_by_role"`
	LowAttendance       []LowAttendanceItem `json:"low_attendance"`
}

// CountItem is one bar of a distribution chart
type CountItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RateItem is an attendance percentage for a group
type RateItem struct {
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}

// LowAttendanceItem flags an employee under the threshold
type LowAttendanceItem struct {
	EmployeeID   string          `json:"employee_id"`
	Name         string          `json:"name"`
	Role         string          `json:"role"`
	AttendedDays decimal.Decimal `json:"attended_days"`
	Rate         decimal.Decimal `json:"rate"`
}
