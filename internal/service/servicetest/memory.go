// Package servicetest provides in-memory repositories for service tests.
package servicetest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
)

// Transactor runs fn directly.
type Transactor struct{}

func (Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type EmployeeRepo struct {
	mu   sync.Mutex
	Rows map[string]employee.Employee
}

func NewEmployeeRepo(rows ...employee.Employee) *EmployeeRepo {
	r := &EmployeeRepo{Rows: map[string]employee.Employee{}}
	for _, e := range rows {
		r.Rows[e.ID] = e
	}
	return r
}

func (r *EmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Rows[e.ID] = e
	return e, nil
}

func (r *EmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.Rows[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *EmployeeRepo) GetByIDForUpdate(ctx context.Context, id string) (employee.Employee, error) {
	return r.GetByID(ctx, id)
}

func (r *EmployeeRepo) List(_ context.Context, filter employee.ListFilter) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []employee.Employee{}
	for _, e := range r.Rows {
		if filter.BranchIDs != nil && !e.SharesBranch(filter.BranchIDs) {
			continue
		}
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		if filter.ActiveOnly && !e.IsActive {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FirstName != out[j].FirstName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *EmployeeRepo) save(e employee.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Rows[e.ID]; !ok {
		return employee.ErrEmployeeNotFound
	}
	r.Rows[e.ID] = e
	return nil
}

func (r *EmployeeRepo) Update(_ context.Context, e employee.Employee) error {
	return r.save(e)
}

func (r *EmployeeRepo) UpdateLedger(_ context.Context, e employee.Employee) error {
	return r.save(e)
}

func (r *EmployeeRepo) UpdateStatus(_ context.Context, e employee.Employee) error {
	return r.save(e)
}

func (r *EmployeeRepo) PruneLedger(_ context.Context, cutoff attendance.MonthKey) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	changed := 0
	for id, e := range r.Rows {
		if e.Attendance.Prune(cutoff)+e.BonusDays.Prune(cutoff)+e.PenaltyDays.Prune(cutoff) > 0 {
			r.Rows[id] = e
			changed++
		}
	}
	return changed, nil
}

type BranchRepo struct {
	mu   sync.Mutex
	Rows map[string]branch.Branch
}

func NewBranchRepo(rows ...branch.Branch) *BranchRepo {
	r := &BranchRepo{Rows: map[string]branch.Branch{}}
	for _, b := range rows {
		r.Rows[b.ID] = b
	}
	return r
}

func (r *BranchRepo) Create(_ context.Context, b branch.Branch) (branch.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.Rows {
		if existing.ID == b.ID || strings.EqualFold(existing.Name, b.Name) {
			return branch.Branch{}, branch.ErrBranchNameExists
		}
	}
	r.Rows[b.ID] = b
	return b, nil
}

func (r *BranchRepo) GetByID(_ context.Context, id string) (branch.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.Rows[id]
	if !ok {
		return branch.Branch{}, branch.ErrBranchNotFound
	}
	return b, nil
}

func (r *BranchRepo) List(_ context.Context) ([]branch.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []branch.Branch{}
	for _, b := range r.Rows {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *BranchRepo) ListByIDs(ctx context.Context, ids []string) ([]branch.Branch, error) {
	all, _ := r.List(ctx)
	out := []branch.Branch{}
	for _, b := range all {
		for _, id := range ids {
			if b.ID == id {
				out = append(out, b)
				break
			}
		}
	}
	return out, nil
}

func (r *BranchRepo) Update(_ context.Context, b branch.Branch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Rows[b.ID]; !ok {
		return branch.ErrBranchNotFound
	}
	r.Rows[b.ID] = b
	return nil
}

func (r *BranchRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Rows[id]; !ok {
		return branch.ErrBranchNotFound
	}
	delete(r.Rows, id)
	return nil
}

type UserRepo struct {
	mu   sync.Mutex
	Rows map[string]user.User
}

func NewUserRepo(rows ...user.User) *UserRepo {
	r := &UserRepo{Rows: map[string]user.User{}}
	for _, u := range rows {
		r.Rows[u.ID] = u
	}
	return r
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.Rows {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *UserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Rows[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepo) List(_ context.Context) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []user.User{}
	for _, u := range r.Rows {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *UserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.Rows {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	r.Rows[u.ID] = u
	return u, nil
}

func (r *UserRepo) Update(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.Rows[u.ID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Permissions = current.Permissions
	u.TokenVersion = current.TokenVersion
	r.Rows[u.ID] = u
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Rows[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.Rows, id)
	return nil
}

func (r *UserRepo) SetPermissions(_ context.Context, id string, perms role.PermissionMap) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Rows[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Permissions = perms.Clone()
	r.Rows[id] = u
	return nil
}

func (r *UserRepo) IncrementTokenVersion(_ context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Rows[id]
	if !ok {
		return 0, user.ErrUserNotFound
	}
	u.TokenVersion++
	r.Rows[id] = u
	return u.TokenVersion, nil
}

// Resolver answers permissions from the built-in role defaults.
type Resolver struct{}

func (Resolver) GetPermission(_ context.Context, u user.User, module role.Module, access role.Access) (bool, error) {
	return user.GetPermission(u, role.DefaultPermissions(u.Role), module, access), nil
}

func (Resolver) Matrix(_ context.Context, u user.User) (map[role.Module]role.ModuleAccess, error) {
	return user.Matrix(u, role.DefaultPermissions(u.Role)), nil
}

type RoleRepo struct {
	mu      sync.Mutex
	Rows    map[role.Name]role.Role
	Lookups int
}

func NewRoleRepo(rows ...role.Role) *RoleRepo {
	r := &RoleRepo{Rows: map[role.Name]role.Role{}}
	for _, row := range rows {
		r.Rows[row.Name] = row
	}
	return r
}

func (r *RoleRepo) GetByName(_ context.Context, name role.Name) (role.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Lookups++
	row, ok := r.Rows[name]
	if !ok {
		return role.Role{}, role.ErrRoleNotFound
	}
	row.Permissions = row.Permissions.Clone()
	return row, nil
}

func (r *RoleRepo) List(_ context.Context) ([]role.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]role.Role, 0, len(r.Rows))
	for _, row := range r.Rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *RoleRepo) Upsert(_ context.Context, row role.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row.Permissions = row.Permissions.Clone()
	r.Rows[row.Name] = row
	return nil
}
