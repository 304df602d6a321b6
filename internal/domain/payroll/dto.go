package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ReportQuery selects a branch scope ("all" or a branch id) and a month.
type ReportQuery struct {
	Branch string
	Month  string
}

func (q *ReportQuery) Validate() error {
	var errs validator.ValidationErrors

	if _, err := attendance.ParseMonthKey(q.Month); err != nil {
		errs.Add("month", err.Error())
	}

	return errs.Err()
}

func (q ReportQuery) Scope() branch.Scope {
	return branch.ParseScope(q.Branch)
}

// MonthKey assumes Validate passed.
func (q ReportQuery) MonthKey() attendance.MonthKey {
	return attendance.MonthKey(q.Month)
}

// Line is one employee's row in a payroll report.
type Line struct {
	EmployeeID   string          `json:"employee_id"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	Phone        string          `json:"phone"`
	Role         string          `json:"role"`
	BaseSalary   decimal.Decimal `json:"base_salary"`
	AttendedDays decimal.Decimal `json:"attended_days"`
	BonusDays    decimal.Decimal `json:"bonus_days"`
	PenaltyDays  decimal.Decimal `json:"penalty_days"`
	AdjustedDays decimal.Decimal `json:"adjusted_days"`
	Salary       decimal.Decimal `json:"salary"`
	Amount       string          `json:"amount"`
	Branches     []Breakdown     `json:"branches"`
}

// NewLine folds per-branch breakdowns into one line.
func NewLine(id, firstName, lastName, phone, role string, base decimal.Decimal, parts []Breakdown) Line {
	line := Line{
		EmployeeID:   id,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
		Role:         role,
		BaseSalary:   base,
		AttendedDays: decimal.Zero,
		BonusDays:    decimal.Zero,
		PenaltyDays:  decimal.Zero,
		AdjustedDays: decimal.Zero,
		Salary:       decimal.Zero,
		Branches:     parts,
	}
	for _, p := range parts {
		line.AttendedDays = line.AttendedDays.Add(p.AttendedDays)
		line.BonusDays = line.BonusDays.Add(p.BonusDays)
		line.PenaltyDays = line.PenaltyDays.Add(p.PenaltyDays)
		line.AdjustedDays = line.AdjustedDays.Add(p.AdjustedDays)
		line.Salary = line.Salary.Add(p.Salary)
	}
	line.Amount = FormatAmount(line.Salary)
	return line
}

// Report is the payroll of a scope for one month.
type Report struct {
	Branch       string              `json:"branch"`
	BranchName   string              `json:"branch_name"`
	Month        attendance.MonthKey `json:"month"`
	Lines        []Line              `json:"lines"`
	Total        decimal.Decimal     `json:"total"`
	DisplayTotal decimal.Decimal     `json:"display_total"`
}

// NewReport totals the lines and applies display rounding to the sum.
func NewReport(scope branch.Scope, branchName string, key attendance.MonthKey, lines []Line) Report {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Salary)
	}
	if lines == nil {
		lines = []Line{}
	}
	return Report{
		Branch:       scope.String(),
		BranchName:   branchName,
		Month:        key,
		Lines:        lines,
		Total:        total,
		DisplayTotal: RoundDisplayTotal(total),
	}
}

// ExportFileName is payroll-<branch name or "all">-<month>-<year>.<ext>.
func ExportFileName(branchName string, key attendance.MonthKey, ext string) string {
	if branchName == "" {
		branchName = branch.AllKeyword
	}
	return fmt.Sprintf("payroll-%s-%d-%d.%s", branchName, key.Month(), key.Year(), ext)
}

// ExportFile is a rendered report ready to be sent as an attachment.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}
