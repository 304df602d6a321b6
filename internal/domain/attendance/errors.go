package attendance

import "errors"

// Attendance domain errors
var (
	ErrInvalidMonthKey      = errors.New("month must be formatted as YYYY-MM")
	ErrDayOutOfRange        = errors.New("day is outside the month")
	ErrInvalidDayValue      = errors.New("attendance value must be between 0 and 1 in steps of 0.25")
	ErrInvalidBulkDate      = errors.New("bulk attendance can only target today or yesterday")
	ErrBranchNotAssigned    = errors.New("employee is not assigned to this branch")
	ErrNoEmployeesSelected  = errors.New("at least one employee is required")
	ErrZeroAdjustmentAmount = errors.New("adjustment amount must not be zero")
)
