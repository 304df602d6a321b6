package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, first_name, last_name, phone, role, start_date, base_salary, allowed_absent_days,
	attendance, bonus_days, penalty_days, branch_ids, status, is_active,
	payroll_end_month, payroll_end_year, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		e                                   employee.Employee
		attendanceRaw, bonusRaw, penaltyRaw []byte
		status                              string
	)
	err := row.Scan(
		&e.ID, &e.FirstName, &e.LastName, &e.Phone, &e.Role, &e.StartDate,
		&e.BaseSalary, &e.AllowedAbsentDays,
		&attendanceRaw, &bonusRaw, &penaltyRaw, &e.BranchIDs, &status, &e.IsActive,
		&e.PayrollEndMonth, &e.PayrollEndYear, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	e.Status = employee.Status(status)

	if err := unmarshalLedger(attendanceRaw, &e.Attendance); err != nil {
		return employee.Employee{}, fmt.Errorf("decode attendance of employee %s: %w", e.ID, err)
	}
	if err := unmarshalLedger(bonusRaw, &e.BonusDays); err != nil {
		return employee.Employee{}, fmt.Errorf("decode bonus days of employee %s: %w", e.ID, err)
	}
	if err := unmarshalLedger(penaltyRaw, &e.PenaltyDays); err != nil {
		return employee.Employee{}, fmt.Errorf("decode penalty days of employee %s: %w", e.ID, err)
	}
	return e, nil
}

func unmarshalLedger(raw []byte, dst interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// marshalLedger encodes nil maps as an empty object.
func marshalLedger(e employee.Employee) (att, bonus, penalty []byte, err error) {
	if e.Attendance == nil {
		e.Attendance = attendance.Sheet{}
	}
	if e.BonusDays == nil {
		e.BonusDays = attendance.Adjustments{}
	}
	if e.PenaltyDays == nil {
		e.PenaltyDays = attendance.Adjustments{}
	}
	if att, err = json.Marshal(e.Attendance); err != nil {
		return nil, nil, nil, err
	}
	if bonus, err = json.Marshal(e.BonusDays); err != nil {
		return nil, nil, nil, err
	}
	if penalty, err = json.Marshal(e.PenaltyDays); err != nil {
		return nil, nil, nil, err
	}
	return att, bonus, penalty, nil
}

func branchIDsOrEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	att, bonus, penalty, err := marshalLedger(e)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("encode ledger: %w", err)
	}

	query := `
		INSERT INTO employees (
			id, first_name, last_name, phone, role, start_date, base_salary, allowed_absent_days,
			attendance, bonus_days, penalty_days, branch_ids, status, is_active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		e.ID, e.FirstName, e.LastName, e.Phone, e.Role, e.StartDate, e.BaseSalary, e.AllowedAbsentDays,
		att, bonus, penalty, branchIDsOrEmpty(e.BranchIDs), string(e.Status), e.IsActive,
	))
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (employee.Employee, error) {
	return r.getByID(ctx, id, true)
}

func (r *employeeRepositoryImpl) getByID(ctx context.Context, id string, lock bool) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.ListFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	var (
		conditions []string
		args       []interface{}
	)
	if filter.BranchIDs != nil {
		args = append(args, filter.BranchIDs)
		conditions = append(conditions, fmt.Sprintf("branch_ids && $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active")
	}

	query := `SELECT ` + employeeColumns + ` FROM employees`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY first_name ASC, last_name ASC, id ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return employees, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET first_name = $1, last_name = $2, phone = $3, role = $4, start_date = $5,
			base_salary = $6, allowed_absent_days = $7, branch_ids = $8, updated_at = NOW()
		WHERE id = $9
	`

	commandTag, err := q.Exec(ctx, query,
		e.FirstName, e.LastName, e.Phone, e.Role, e.StartDate,
		e.BaseSalary, e.AllowedAbsentDays, branchIDsOrEmpty(e.BranchIDs), e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// UpdateLedger implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateLedger(ctx context.Context, e employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	att, bonus, penalty, err := marshalLedger(e)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	query := `
		UPDATE employees
		SET attendance = $1, bonus_days = $2, penalty_days = $3, updated_at = NOW()
		WHERE id = $4
	`

	commandTag, err := q.Exec(ctx, query, att, bonus, penalty, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// UpdateStatus implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateStatus(ctx context.Context, e employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET status = $1, is_active = $2, payroll_end_month = $3, payroll_end_year = $4, updated_at = NOW()
		WHERE id = $5
	`

	commandTag, err := q.Exec(ctx, query, string(e.Status), e.IsActive, e.PayrollEndMonth, e.PayrollEndYear, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update employee status: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// PruneLedger implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) PruneLedger(ctx context.Context, cutoff attendance.MonthKey) (int, error) {
	changed := 0
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		rows, err := q.Query(ctx, `SELECT `+employeeColumns+` FROM employees FOR UPDATE`)
		if err != nil {
			return fmt.Errorf("failed to load employees: %w", err)
		}
		var stale []employee.Employee
		for rows.Next() {
			e, err := scanEmployee(rows)
			if err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan employee: %w", err)
			}
			removed := e.Attendance.Prune(cutoff) + e.BonusDays.Prune(cutoff) + e.PenaltyDays.Prune(cutoff)
			if removed > 0 {
				stale = append(stale, e)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("rows iteration error: %w", err)
		}

		for _, e := range stale {
			if err := r.UpdateLedger(ctx, e); err != nil {
				return err
			}
		}
		changed = len(stale)
		return nil
	})
	return changed, err
}
