package employee

import (
	"context"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
)

// EmployeeService is scoped by the acting user's branch access.
type EmployeeService interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	List(ctx context.Context, query ListEmployeeQuery) ([]EmployeeResponse, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Approve(ctx context.Context, id string) (EmployeeResponse, error)
	Deactivate(ctx context.Context, id string) (EmployeeResponse, error)

	SetAttendanceDay(ctx context.Context, req attendance.SetDayRequest) (attendance.DayRecordResponse, error)
	AdjustBonus(ctx context.Context, req attendance.AdjustRequest) (attendance.DayRecordResponse, error)
	AdjustPenalty(ctx context.Context, req attendance.AdjustRequest) (attendance.DayRecordResponse, error)
	BulkMark(ctx context.Context, req attendance.BulkMarkRequest) (attendance.BulkMarkResponse, error)
}
