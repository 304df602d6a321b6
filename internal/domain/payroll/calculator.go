package payroll

import (
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// MonthDivisor is the fixed number of days a base salary covers.
var MonthDivisor = decimal.NewFromInt(30)

var roundingStep = decimal.NewFromInt(5)

// AttendedDays is the attendance total for the employee in scope.
func AttendedDays(e employee.Employee, scope branch.Scope, key attendance.MonthKey) decimal.Decimal {
	return attendance.AttendedDays(e.Attendance, scope, key)
}

// Breakdown holds the intermediate figures of one branch salary.
type Breakdown struct {
	BranchID     string          `json:"branch_id"`
	AttendedDays decimal.Decimal `json:"attended_days"`
	BonusDays    decimal.Decimal `json:"bonus_days"`
	PenaltyDays  decimal.Decimal `json:"penalty_days"`
	AdjustedDays decimal.Decimal `json:"adjusted_days"`
	Salary       decimal.Decimal `json:"salary"`
}

// BranchBreakdown computes the salary of one employee for one branch.
// Adjusted days may go negative and the salary with them.
func BranchBreakdown(e employee.Employee, branchID string, key attendance.MonthKey) Breakdown {
	attended := AttendedDays(e, branch.Only(branchID), key)
	bonus := e.BonusDays.Get(branchID, key)
	penalty := e.PenaltyDays.Get(branchID, key)
	adjusted := attended.Add(bonus).Sub(penalty)

	return Breakdown{
		BranchID:     branchID,
		AttendedDays: attended,
		BonusDays:    bonus,
		PenaltyDays:  penalty,
		AdjustedDays: adjusted,
		Salary:       salaryFor(e, adjusted),
	}
}

// BranchSalary is the salary for one branch.
func BranchSalary(e employee.Employee, branchID string, key attendance.MonthKey) decimal.Decimal {
	return BranchBreakdown(e, branchID, key).Salary
}

// FinalSalary is the salary for a single branch, or for branch.All the sum
// of independent per-branch salaries over the employee's assigned branches.
// Each branch adds the full allowed absent days.
func FinalSalary(e employee.Employee, scope branch.Scope, key attendance.MonthKey) decimal.Decimal {
	if !scope.IsAll() {
		return BranchSalary(e, scope.ID(), key)
	}
	total := decimal.Zero
	for _, id := range e.BranchIDs {
		total = total.Add(BranchSalary(e, id, key))
	}
	return total
}

// Breakdowns lists the per-branch figures that FinalSalary adds up.
func Breakdowns(e employee.Employee, scope branch.Scope, key attendance.MonthKey) []Breakdown {
	if !scope.IsAll() {
		return []Breakdown{BranchBreakdown(e, scope.ID(), key)}
	}
	out := make([]Breakdown, 0, len(e.BranchIDs))
	for _, id := range e.BranchIDs {
		out = append(out, BranchBreakdown(e, id, key))
	}
	return out
}

// RoundDisplayTotal rounds an aggregate up to the next multiple of 5.
// Never apply it to a single employee's salary.
func RoundDisplayTotal(total decimal.Decimal) decimal.Decimal {
	return total.Div(roundingStep).Ceil().Mul(roundingStep)
}

// FormatAmount renders a line item at two decimals.
func FormatAmount(v decimal.Decimal) string {
	return v.StringFixed(2)
}

// salaryFor computes base/30 * (adjusted + allowed).
func salaryFor(e employee.Employee, adjusted decimal.Decimal) decimal.Decimal {
	return e.BaseSalary.Mul(adjusted.Add(e.AllowedAbsentDays)).Div(MonthDivisor)
}
