package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	FirstName         string           `json:"first_name"`
	LastName          string           `json:"last_name"`
	Phone             string           `json:"phone"`
	Role              string           `json:"role"`
	StartDate         string           `json:"start_date"`
	BaseSalary        decimal.Decimal  `json:"base_salary"`
	AllowedAbsentDays *decimal.Decimal `json:"allowed_absent_days,omitempty"`
	BranchIDs         []string         `json:"branch_ids"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FirstName) {
		errs.Add("first_name", "first_name is required")
	}
	if validator.IsEmpty(r.LastName) {
		errs.Add("last_name", "last_name is required")
	}
	if !validator.IsValidPhoneNumber(r.Phone) {
		errs.Add("phone", "phone must be 7-15 digits")
	}
	if validator.IsEmpty(r.Role) {
		errs.Add("role", "role is required")
	}
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs.Add("start_date", "start_date must be YYYY-MM-DD")
	}
	if r.BaseSalary.IsNegative() {
		errs.Add("base_salary", "base_salary must not be negative")
	}
	if r.AllowedAbsentDays != nil && r.AllowedAbsentDays.IsNegative() {
		errs.Add("allowed_absent_days", "allowed_absent_days must not be negative")
	}

	return errs.Err()
}

// UpdateEmployeeRequest only touches the fields that are set.
type UpdateEmployeeRequest struct {
	ID                string           `json:"-"`
	FirstName         *string          `json:"first_name,omitempty"`
	LastName          *string          `json:"last_name,omitempty"`
	Phone             *string          `json:"phone,omitempty"`
	Role              *string          `json:"role,omitempty"`
	StartDate         *string          `json:"start_date,omitempty"`
	BaseSalary        *decimal.Decimal `json:"base_salary,omitempty"`
	AllowedAbsentDays *decimal.Decimal `json:"allowed_absent_days,omitempty"`
	BranchIDs         []string         `json:"branch_ids,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs.Add("first_name", "first_name must not be empty")
	}
	if r.LastName != nil && validator.IsEmpty(*r.LastName) {
		errs.Add("last_name", "last_name must not be empty")
	}
	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone must be 7-15 digits")
	}
	if r.Role != nil && validator.IsEmpty(*r.Role) {
		errs.Add("role", "role must not be empty")
	}
	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs.Add("start_date", "start_date must be YYYY-MM-DD")
		}
	}
	if r.BaseSalary != nil && r.BaseSalary.IsNegative() {
		errs.Add("base_salary", "base_salary must not be negative")
	}
	if r.AllowedAbsentDays != nil && r.AllowedAbsentDays.IsNegative() {
		errs.Add("allowed_absent_days", "allowed_absent_days must not be negative")
	}

	return errs.Err()
}

// Apply copies the set fields onto e, trimming text the same way Create
// does. Call Validate first.
func (r *UpdateEmployeeRequest) Apply(e *Employee) {
	if r.FirstName != nil {
		e.FirstName = strings.TrimSpace(*r.FirstName)
	}
	if r.LastName != nil {
		e.LastName = strings.TrimSpace(*r.LastName)
	}
	if r.Phone != nil {
		e.Phone = strings.TrimSpace(*r.Phone)
	}
	if r.Role != nil {
		e.Role = strings.TrimSpace(*r.Role)
	}
	if r.StartDate != nil {
		e.StartDate, _ = validator.IsValidDate(*r.StartDate)
	}
	if r.BaseSalary != nil {
		e.BaseSalary = *r.BaseSalary
	}
	if r.AllowedAbsentDays != nil {
		e.AllowedAbsentDays = *r.AllowedAbsentDays
	}
	if r.BranchIDs != nil {
		e.BranchIDs = r.BranchIDs
	}
}

// ListEmployeeQuery is read from query parameters.
type ListEmployeeQuery struct {
	BranchID   string
	Status     string
	ActiveOnly bool
}

func (q *ListEmployeeQuery) Validate() error {
	var errs validator.ValidationErrors

	if q.Status != "" && Status(q.Status) != StatusPending && Status(q.Status) != StatusApproved {
		errs.Add("status", "status must be pending or approved")
	}

	return errs.Err()
}

type EmployeeResponse struct {
	ID                string                 `json:"id"`
	FirstName         string                 `json:"first_name"`
	LastName          string                 `json:"last_name"`
	Phone             string                 `json:"phone"`
	Role              string                 `json:"role"`
	StartDate         string                 `json:"start_date"`
	BaseSalary        decimal.Decimal        `json:"base_salary"`
	AllowedAbsentDays decimal.Decimal        `json:"allowed_absent_days"`
	BranchIDs         []string               `json:"branch_ids"`
	Status            Status                 `json:"status"`
	IsActive          bool                   `json:"is_active"`
	PayrollEndMonth   *int                   `json:"payroll_end_month,omitempty"`
	PayrollEndYear    *int                   `json:"payroll_end_year,omitempty"`
	Attendance        attendance.Sheet       `json:"attendance,omitempty"`
	BonusDays         attendance.Adjustments `json:"bonus_days,omitempty"`
	PenaltyDays       attendance.Adjustments `json:"penalty_days,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	branchIDs := e.BranchIDs
	if branchIDs == nil {
		branchIDs = []string{}
	}
	return EmployeeResponse{
		ID:                e.ID,
		FirstName:         e.FirstName,
		LastName:          e.LastName,
		Phone:             e.Phone,
		Role:              e.Role,
		StartDate:         e.StartDate.Format("2006-01-02"),
		BaseSalary:        e.BaseSalary,
		AllowedAbsentDays: e.AllowedAbsentDays,
		BranchIDs:         branchIDs,
		Status:            e.Status,
		IsActive:          e.IsActive,
		PayrollEndMonth:   e.PayrollEndMonth,
		PayrollEndYear:    e.PayrollEndYear,
		Attendance:        e.Attendance,
		BonusDays:         e.BonusDays,
		PenaltyDays:       e.PenaltyDays,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}
