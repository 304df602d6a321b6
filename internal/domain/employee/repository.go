package employee

import (
	"context"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
)

type EmployeeRepository interface {
	Create(ctx context.Context, e Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	// GetByIDForUpdate locks the row inside a transaction.
	GetByIDForUpdate(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context, filter ListFilter) ([]Employee, error)
	Update(ctx context.Context, e Employee) error
	// UpdateLedger persists attendance, bonus and penalty maps only.
	UpdateLedger(ctx context.Context, e Employee) error
	UpdateStatus(ctx context.Context, e Employee) error
	// PruneLedger removes month keys before cutoff from every employee and
	// returns the number of employees changed.
	PruneLedger(ctx context.Context, cutoff attendance.MonthKey) (int, error)
}

// ListFilter narrows List. A nil BranchIDs means every branch; an empty
// non-nil slice matches nothing.
type ListFilter struct {
	BranchIDs  []string
	Status     *Status
	ActiveOnly bool
}
