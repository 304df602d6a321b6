package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrSessionRevoked),
		errors.Is(err, user.ErrUnauthenticated):
		Unauthorized(w, err.Error())

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound), errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired),
		errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrCannotDeleteSelf):
		Forbidden(w, err.Error())

	// Role domain errors
	case errors.Is(err, role.ErrRoleNotFound):
		NotFound(w, "Role not found")
	case errors.Is(err, role.ErrRoleLocked), errors.Is(err, role.ErrPermissionDenied):
		Forbidden(w, err.Error())
	case errors.Is(err, role.ErrUnknownModule), errors.Is(err, role.ErrInvalidPermission):
		BadRequest(w, err.Error(), nil)

	// Branch domain errors
	case errors.Is(err, branch.ErrBranchNotFound):
		NotFound(w, "Branch not found")
	case errors.Is(err, branch.ErrBranchNameExists):
		Conflict(w, "Branch name already exists")
	case errors.Is(err, branch.ErrBranchOutOfScope):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeAlreadyInactive):
		Conflict(w, "Employee is already inactive")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Conflict(w, err.Error())
	case errors.Is(err, employee.ErrEmployeeOutOfScope):
		Forbidden(w, err.Error())
	case errors.Is(err, employee.ErrUnknownBranch):
		BadRequest(w, err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrBranchNotAssigned):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrInvalidMonthKey),
		errors.Is(err, attendance.ErrDayOutOfRange),
		errors.Is(err, attendance.ErrInvalidDayValue),
		errors.Is(err, attendance.ErrInvalidBulkDate),
		errors.Is(err, attendance.ErrNoEmployeesSelected),
		errors.Is(err, attendance.ErrZeroAdjustmentAmount):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
