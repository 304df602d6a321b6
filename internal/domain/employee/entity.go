package employee

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// DefaultAllowedAbsentDays applies when a new employee does not set one.
var DefaultAllowedAbsentDays = decimal.NewFromInt(4)

type Employee struct {
	ID                string
	FirstName         string
	LastName          string
	Phone             string
	Role              string
	StartDate         time.Time
	BaseSalary        decimal.Decimal
	AllowedAbsentDays decimal.Decimal
	Attendance        attendance.Sheet
	BonusDays         attendance.Adjustments
	PenaltyDays       attendance.Adjustments
	BranchIDs         []string
	Status            Status
	IsActive          bool
	PayrollEndMonth   *int
	PayrollEndYear    *int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

// Approve moves a pending employee to approved. It reports whether the
// status changed; approving an approved employee is a no-op.
func (e *Employee) Approve() bool {
	if e.Status == StatusApproved {
		return false
	}
	e.Status = StatusApproved
	return true
}

// Deactivate soft-deletes the employee and stamps the month of now as the
// last payroll month. There is no way back.
func (e *Employee) Deactivate(now time.Time) error {
	if !e.IsActive {
		return ErrEmployeeAlreadyInactive
	}
	month, year := int(now.Month()), now.Year()
	e.IsActive = false
	e.PayrollEndMonth = &month
	e.PayrollEndYear = &year
	return nil
}

// PayrollEnd returns the last payroll month of a deactivated employee.
func (e Employee) PayrollEnd() (attendance.MonthKey, bool) {
	if e.PayrollEndMonth == nil || e.PayrollEndYear == nil {
		return "", false
	}
	return attendance.NewMonthKey(*e.PayrollEndYear, *e.PayrollEndMonth), true
}

// InPayroll reports whether the employee is paid for the given month:
// approved, started by the end of the month, and active or still within
// the payroll end month.
func (e Employee) InPayroll(key attendance.MonthKey) bool {
	if e.Status != StatusApproved {
		return false
	}
	if e.StartDate.After(key.LastDay()) {
		return false
	}
	if e.IsActive {
		return true
	}
	end, ok := e.PayrollEnd()
	return ok && !end.Before(key)
}

// StartedBy reports whether the employee had started on the given date.
func (e Employee) StartedBy(date time.Time) bool {
	return !e.StartDate.After(date)
}

func (e Employee) InBranch(branchID string) bool {
	for _, id := range e.BranchIDs {
		if id == branchID {
			return true
		}
	}
	return false
}

// SharesBranch reports whether any of ids is one of the employee's branches.
func (e Employee) SharesBranch(ids []string) bool {
	for _, id := range ids {
		if e.InBranch(id) {
			return true
		}
	}
	return false
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
