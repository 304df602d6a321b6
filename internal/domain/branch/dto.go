package branch

import (
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

// BranchResponse represents the response structure for a branch.
type BranchResponse struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	StaffRoles map[string]int `json:"staff_roles,omitempty"`
	Shifts     []Shift        `json:"shifts,omitempty"`
}

func NewBranchResponse(b Branch) BranchResponse {
	return BranchResponse{
		ID:         b.ID,
		Name:       b.Name,
		StaffRoles: b.StaffRoles,
		Shifts:     b.Shifts,
	}
}

// CreateBranchRequest represents the request structure for creating a branch.
type CreateBranchRequest struct {
	Name       string         `json:"name"`
	StaffRoles map[string]int `json:"staff_roles,omitempty"`
	Shifts     []Shift        `json:"shifts,omitempty"`
}

func (r *CreateBranchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if len(r.Name) > 100 {
		errs.Add("name", "name must not exceed 100 characters")
	}
	validateStaffing(&errs, r.StaffRoles, r.Shifts)

	return errs.Err()
}

// UpdateBranchRequest represents the request structure for updating a branch.
// The id is fixed at creation and does not follow later renames.
type UpdateBranchRequest struct {
	ID         string         `json:"-"`
	Name       *string        `json:"name,omitempty"`
	StaffRoles map[string]int `json:"staff_roles,omitempty"`
	Shifts     []Shift        `json:"shifts,omitempty"`
}

func (r *UpdateBranchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs.Add("name", "name must not be empty")
		}
		if len(*r.Name) > 100 {
			errs.Add("name", "name must not exceed 100 characters")
		}
	}
	validateStaffing(&errs, r.StaffRoles, r.Shifts)

	return errs.Err()
}

func validateStaffing(errs *validator.ValidationErrors, staffRoles map[string]int, shifts []Shift) {
	for role, count := range staffRoles {
		if validator.IsEmpty(role) {
			errs.Add("staff_roles", "role name must not be empty")
		}
		if count < 0 {
			errs.Add("staff_roles."+role, "headcount must not be negative")
		}
	}
	for i, s := range shifts {
		field := fmt.Sprintf("shifts[%d]", i)
		if validator.IsEmpty(s.Name) {
			errs.Add(field+".name", "shift name is required")
		}
		if !validator.IsValidClock(s.StartTime) {
			errs.Add(field+".start_time", "start_time must be HH:MM")
		}
		if !validator.IsValidClock(s.EndTime) {
			errs.Add(field+".end_time", "end_time must be HH:MM")
		}
	}
}
