package attendance

import (
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/branch"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// AttendedDays sums day values for one branch, or across every branch
// present in the sheet when scope is branch.All. A nil sheet yields zero.
func AttendedDays(s Sheet, scope branch.Scope, key MonthKey) decimal.Decimal {
	if !scope.IsAll() {
		return s.Total(scope.ID(), key)
	}
	total := decimal.Zero
	for branchID := range s {
		total = total.Add(s.Total(branchID, key))
	}
	return total
}

// MonthDenominator is the rate denominator for a single branch view.
func MonthDenominator(key MonthKey) decimal.Decimal {
	return decimal.NewFromInt(int64(key.DaysInMonth()))
}

// BranchMonthDenominator is the rate denominator when attendance is summed
// across all branches an employee is assigned to.
func BranchMonthDenominator(key MonthKey, branchCount int) decimal.Decimal {
	return decimal.NewFromInt(int64(key.DaysInMonth() * branchCount))
}

// Rate is attended/denominator as a percentage, zero for a zero denominator.
func Rate(attended, denominator decimal.Decimal) decimal.Decimal {
	if denominator.IsZero() {
		return decimal.Zero
	}
	return attended.Div(denominator).Mul(hundred)
}

// AbsentDays is the days of the month not covered by attendance.
func AbsentDays(attended decimal.Decimal, key MonthKey) decimal.Decimal {
	return MonthDenominator(key).Sub(attended)
}

var quarter = decimal.RequireFromString("0.25")

// ValidDayValue accepts 0 to 1 in steps of 0.25.
func ValidDayValue(v decimal.Decimal) bool {
	if v.IsNegative() || v.GreaterThan(decimal.NewFromInt(1)) {
		return false
	}
	return v.Mod(quarter).IsZero()
}
