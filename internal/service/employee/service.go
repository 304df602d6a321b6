package employee

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	branchRepo   branch.BranchRepository
	tx           postgresql.Transactor
	now          func() time.Time
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	branchRepo branch.BranchRepository,
	tx postgresql.Transactor,
) *EmployeeServiceImpl {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		branchRepo:   branchRepo,
		tx:           tx,
		now:          time.Now,
	}
}

var _ employee.EmployeeService = (*EmployeeServiceImpl)(nil)

// WithClock replaces the time source used for deactivation and bulk marks.
func (s *EmployeeServiceImpl) WithClock(now func() time.Time) *EmployeeServiceImpl {
	s.now = now
	return s
}

// Create implements employee.EmployeeService. Employees created by an admin
// are approved right away; everyone else's wait for approval.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	actor, err := user.Actor(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	branchIDs := uniqueIDs(req.BranchIDs)
	if err := s.checkBranches(ctx, actor, branchIDs); err != nil {
		return employee.EmployeeResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to generate employee id: %w", err)
	}
	startDate, _ := validator.IsValidDate(req.StartDate)

	allowed := employee.DefaultAllowedAbsentDays
	if req.AllowedAbsentDays != nil {
		allowed = *req.AllowedAbsentDays
	}

	status := employee.StatusPending
	if actor.IsAdmin() {
		status = employee.StatusApproved
	}

	entity := employee.Employee{
		ID:                id.String(),
		FirstName:         strings.TrimSpace(req.FirstName),
		LastName:          strings.TrimSpace(req.LastName),
		Phone:             strings.TrimSpace(req.Phone),
		Role:              strings.TrimSpace(req.Role),
		StartDate:         startDate,
		BaseSalary:        req.BaseSalary,
		AllowedAbsentDays: allowed,
		Attendance:        attendance.Sheet{},
		BonusDays:         attendance.Adjustments{},
		PenaltyDays:       attendance.Adjustments{},
		BranchIDs:         branchIDs,
		Status:            status,
		IsActive:          true,
	}

	created, err := s.employeeRepo.Create(ctx, entity)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return employee.NewEmployeeResponse(created), nil
}

// GetByID implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	actor, err := user.Actor(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !visibleTo(actor, e) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeOutOfScope
	}

	return employee.NewEmployeeResponse(e), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, query employee.ListEmployeeQuery) ([]employee.EmployeeResponse, error) {
	actor, err := user.Actor(ctx)
	if err != nil {
		return nil, err
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	filter := employee.ListFilter{
		BranchIDs:  actor.Branches.IDs(),
		ActiveOnly: query.ActiveOnly,
	}
	if query.BranchID != "" && query.BranchID != branch.AllKeyword {
		if !actor.Branches.Allows(query.BranchID) {
			return nil, branch.ErrBranchOutOfScope
		}
		filter.BranchIDs = []string{query.BranchID}
	}
	if query.Status != "" {
		status := employee.Status(query.Status)
		filter.Status = &status
	}

	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.NewEmployeeResponse(e))
	}
	return responses, nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	actor, err := user.Actor(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var updated employee.Employee
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		e, err := s.scopedForUpdate(ctx, actor, req.ID)
		if err != nil {
			return err
		}

		if req.BranchIDs != nil {
			req.BranchIDs = uniqueIDs(req.BranchIDs)
			if err := s.checkBranches(ctx, actor, req.BranchIDs); err != nil {
				return err
			}
		}
		req.Apply(&e)

		if err := s.employeeRepo.Update(ctx, e); err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.NewEmployeeResponse(updated), nil
}

// Approve implements employee.EmployeeService. Only admins approve, and
// approving an approved employee succeeds without a write.
func (s *EmployeeServiceImpl) Approve(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	actor, err := user.Actor(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !actor.IsAdmin() {
		return employee.EmployeeResponse{}, user.ErrAdminPrivilegeRequired
	}

	var result employee.Employee
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		e, err := s.scopedForUpdate(ctx, actor, id)
		if err != nil {
			return err
		}
		if e.Approve() {
			if err := s.employeeRepo.UpdateStatus(ctx, e); err != nil {
				return err
			}
		}
		result = e
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.NewEmployeeResponse(result), nil
}

// Deactivate implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Deactivate(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	actor, err := user.Actor(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	var result employee.Employee
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		e, err := s.scopedForUpdate(ctx, actor, id)
		if err != nil {
			return err
		}
		if err := e.Deactivate(s.now()); err != nil {
			return err
		}
		if err := s.employeeRepo.UpdateStatus(ctx, e); err != nil {
			return err
		}
		result = e
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.NewEmployeeResponse(result), nil
}

// SetAttendanceDay implements employee.EmployeeService.
func (s *EmployeeServiceImpl) SetAttendanceDay(ctx context.Context, req attendance.SetDayRequest) (attendance.DayRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayRecordResponse{}, err
	}
	key := attendance.MonthKey(req.Month)

	return s.editLedger(ctx, req.EmployeeID, req.BranchID, key, func(e *employee.Employee) {
		if e.Attendance == nil {
			e.Attendance = attendance.Sheet{}
		}
		e.Attendance.Set(req.BranchID, key, req.Day, req.Value)
	})
}

// AdjustBonus implements employee.EmployeeService.
func (s *EmployeeServiceImpl) AdjustBonus(ctx context.Context, req attendance.AdjustRequest) (attendance.DayRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayRecordResponse{}, err
	}
	key := attendance.MonthKey(req.Month)

	return s.editLedger(ctx, req.EmployeeID, req.BranchID, key, func(e *employee.Employee) {
		if e.BonusDays == nil {
			e.BonusDays = attendance.Adjustments{}
		}
		e.BonusDays.Add(req.BranchID, key, req.Amount)
	})
}

// AdjustPenalty implements employee.EmployeeService.
func (s *EmployeeServiceImpl) AdjustPenalty(ctx context.Context, req attendance.AdjustRequest) (attendance.DayRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayRecordResponse{}, err
	}
	key := attendance.MonthKey(req.Month)

	return s.editLedger(ctx, req.EmployeeID, req.BranchID, key, func(e *employee.Employee) {
		if e.PenaltyDays == nil {
			e.PenaltyDays = attendance.Adjustments{}
		}
		e.PenaltyDays.Add(req.BranchID, key, req.Amount)
	})
}

// editLedger locks the employee, applies edit to its ledger for one branch
// and month, and stores it. Months after a deactivated employee's last
// payroll month cannot be edited.
func (s *EmployeeServiceImpl) editLedger(ctx context.Context, employeeID, branchID string, key attendance.MonthKey, edit func(e *employee.Employee)) (attendance.DayRecordResponse, error) {
	actor, err := user.Actor(ctx)
	if err != nil {
		return attendance.DayRecordResponse{}, err
	}
	if !actor.Branches.Allows(branchID) {
		return attendance.DayRecordResponse{}, branch.ErrBranchOutOfScope
	}

	var result employee.Employee
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		e, err := s.employeeRepo.GetByIDForUpdate(ctx, employeeID)
		if err != nil {
			return err
		}
		if !e.InBranch(branchID) {
			return attendance.ErrBranchNotAssigned
		}
		if !e.IsActive {
			if end, ok := e.PayrollEnd(); !ok || end.Before(key) {
				return employee.ErrEmployeeInactive
			}
		}

		edit(&e)
		if err := s.employeeRepo.UpdateLedger(ctx, e); err != nil {
			return err
		}
		result = e
		return nil
	})
	if err != nil {
		return attendance.DayRecordResponse{}, err
	}

	return dayRecord(result, branchID, key), nil
}

// BulkMark implements employee.EmployeeService. Every listed employee is
// marked present for the target day in one branch, except those who are
// inactive, not assigned to the branch, or had not started yet.
func (s *EmployeeServiceImpl) BulkMark(ctx context.Context, req attendance.BulkMarkRequest) (attendance.BulkMarkResponse, error) {
	actor, err := user.Actor(ctx)
	if err != nil {
		return attendance.BulkMarkResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.BulkMarkResponse{}, err
	}
	if !actor.Branches.Allows(req.BranchID) {
		return attendance.BulkMarkResponse{}, branch.ErrBranchOutOfScope
	}

	date := req.Target.Date(s.now())
	key := attendance.MonthKeyOf(date)
	present := decimal.NewFromInt(1)

	resp := attendance.BulkMarkResponse{
		Date:    date.Format("2006-01-02"),
		Marked:  []string{},
		Skipped: []string{},
	}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, id := range uniqueIDs(req.EmployeeIDs) {
			e, err := s.employeeRepo.GetByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if !e.IsActive || !e.InBranch(req.BranchID) || !e.StartedBy(date) {
				resp.Skipped = append(resp.Skipped, id)
				continue
			}

			if e.Attendance == nil {
				e.Attendance = attendance.Sheet{}
			}
			e.Attendance.Set(req.BranchID, key, date.Day(), present)
			if err := s.employeeRepo.UpdateLedger(ctx, e); err != nil {
				return err
			}
			resp.Marked = append(resp.Marked, id)
		}
		return nil
	})
	if err != nil {
		return attendance.BulkMarkResponse{}, err
	}

	return resp, nil
}

func (s *EmployeeServiceImpl) scopedForUpdate(ctx context.Context, actor user.User, id string) (employee.Employee, error) {
	e, err := s.employeeRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		return employee.Employee{}, err
	}
	if !visibleTo(actor, e) {
		return employee.Employee{}, employee.ErrEmployeeOutOfScope
	}
	return e, nil
}

// checkBranches rejects ids that do not exist or that the actor cannot assign.
func (s *EmployeeServiceImpl) checkBranches(ctx context.Context, actor user.User, ids []string) error {
	for _, id := range ids {
		if !actor.Branches.Allows(id) {
			return branch.ErrBranchOutOfScope
		}
	}
	if len(ids) == 0 {
		return nil
	}

	found, err := s.branchRepo.ListByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to check branches: %w", err)
	}
	if len(found) != len(ids) {
		return employee.ErrUnknownBranch
	}
	return nil
}

func visibleTo(actor user.User, e employee.Employee) bool {
	return actor.Branches.IsAll() || e.SharesBranch(actor.Branches.IDs())
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func dayRecord(e employee.Employee, branchID string, key attendance.MonthKey) attendance.DayRecordResponse {
	attended := e.Attendance.Total(branchID, key)
	return attendance.DayRecordResponse{
		EmployeeID:   e.ID,
		BranchID:     branchID,
		Month:        key,
		Days:         e.Attendance.Days(branchID, key),
		AttendedDays: attended,
		AbsentDays:   attendance.AbsentDays(attended, key),
		BonusDays:    e.BonusDays.Get(branchID, key),
		PenaltyDays:  e.PenaltyDays.Get(branchID, key),
	}
}
