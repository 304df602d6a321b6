package attendance

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// SetDayRequest records one day of attendance for one branch.
type SetDayRequest struct {
	EmployeeID string          `json:"-"`
	BranchID   string          `json:"branch_id"`
	Month      string          `json:"month"`
	Day        int             `json:"day"`
	Value      decimal.Decimal `json:"value"`
}

func (r *SetDayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.BranchID) {
		errs.Add("branch_id", "branch_id is required")
	}
	key, err := ParseMonthKey(r.Month)
	if err != nil {
		errs.Add("month", err.Error())
	} else if r.Day < 1 || r.Day > key.DaysInMonth() {
		errs.Add("day", ErrDayOutOfRange.Error())
	}
	if !ValidDayValue(r.Value) {
		errs.Add("value", ErrInvalidDayValue.Error())
	}

	return errs.Err()
}

// AdjustRequest changes bonus or penalty days by a signed amount.
type AdjustRequest struct {
	EmployeeID string          `json:"-"`
	BranchID   string          `json:"branch_id"`
	Month      string          `json:"month"`
	Amount     decimal.Decimal `json:"amount"`
}

func (r *AdjustRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.BranchID) {
		errs.Add("branch_id", "branch_id is required")
	}
	if _, err := ParseMonthKey(r.Month); err != nil {
		errs.Add("month", err.Error())
	}
	if r.Amount.IsZero() {
		errs.Add("amount", ErrZeroAdjustmentAmount.Error())
	}

	return errs.Err()
}

// BulkTarget selects the day a bulk mark applies to.
type BulkTarget string

const (
	BulkToday     BulkTarget = "today"
	BulkYesterday BulkTarget = "yesterday"
)

// Date resolves the target relative to now, truncated to midnight UTC.
func (t BulkTarget) Date(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if t == BulkYesterday {
		return day.AddDate(0, 0, -1)
	}
	return day
}

// BulkMarkRequest marks several employees present for one day in one branch.
type BulkMarkRequest struct {
	BranchID    string     `json:"branch_id"`
	Target      BulkTarget `json:"target"`
	EmployeeIDs []string   `json:"employee_ids"`
}

func (r *BulkMarkRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.BranchID) {
		errs.Add("branch_id", "branch_id is required")
	}
	if r.Target != BulkToday && r.Target != BulkYesterday {
		errs.Add("target", ErrInvalidBulkDate.Error())
	}
	if len(r.EmployeeIDs) == 0 {
		errs.Add("employee_ids", ErrNoEmployeesSelected.Error())
	}

	return errs.Err()
}

// BulkMarkResponse reports which employees were marked and which were skipped.
type BulkMarkResponse struct {
	Date    string   `json:"date"`
	Marked  []string `json:"marked"`
	Skipped []string `json:"skipped"`
}

// DayRecordResponse is the attendance of one employee for one branch and month.
type DayRecordResponse struct {
	EmployeeID   string          `json:"employee_id"`
	BranchID     string          `json:"branch_id"`
	Month        MonthKey        `json:"month"`
	Days         DayValues       `json:"days"`
	AttendedDays decimal.Decimal `json:"attended_days"`
	AbsentDays   decimal.Decimal `json:"absent_days"`
	BonusDays    decimal.Decimal `json:"bonus_days"`
	PenaltyDays  decimal.Decimal `json:"penalty_days"`
}
