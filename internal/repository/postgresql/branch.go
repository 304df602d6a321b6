package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const branchColumns = `id, name, staff_roles, shifts, created_at, updated_at`

type branchRepositoryImpl struct {
	db *database.DB
}

func NewBranchRepository(db *database.DB) branch.BranchRepository {
	return &branchRepositoryImpl{db: db}
}

func scanBranch(row pgx.Row) (branch.Branch, error) {
	var (
		b                branch.Branch
		rolesRaw, shifts []byte
	)
	if err := row.Scan(&b.ID, &b.Name, &rolesRaw, &shifts, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return branch.Branch{}, err
	}
	b.StaffRoles = map[string]int{}
	if len(rolesRaw) > 0 {
		if err := json.Unmarshal(rolesRaw, &b.StaffRoles); err != nil {
			return branch.Branch{}, fmt.Errorf("decode staff roles of branch %s: %w", b.ID, err)
		}
	}
	b.Shifts = []branch.Shift{}
	if len(shifts) > 0 {
		if err := json.Unmarshal(shifts, &b.Shifts); err != nil {
			return branch.Branch{}, fmt.Errorf("decode shifts of branch %s: %w", b.ID, err)
		}
	}
	return b, nil
}

func marshalBranchConfig(b branch.Branch) (roles, shifts []byte, err error) {
	if b.StaffRoles == nil {
		b.StaffRoles = map[string]int{}
	}
	if b.Shifts == nil {
		b.Shifts = []branch.Shift{}
	}
	if roles, err = json.Marshal(b.StaffRoles); err != nil {
		return nil, nil, err
	}
	if shifts, err = json.Marshal(b.Shifts); err != nil {
		return nil, nil, err
	}
	return roles, shifts, nil
}

// Create implements branch.BranchRepository.
func (r *branchRepositoryImpl) Create(ctx context.Context, b branch.Branch) (branch.Branch, error) {
	q := GetQuerier(ctx, r.db)

	roles, shifts, err := marshalBranchConfig(b)
	if err != nil {
		return branch.Branch{}, fmt.Errorf("encode branch config: %w", err)
	}

	query := `
		INSERT INTO branches (id, name, staff_roles, shifts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + branchColumns

	created, err := scanBranch(q.QueryRow(ctx, query, b.ID, b.Name, roles, shifts))
	if err != nil {
		if isUniqueViolation(err) {
			return branch.Branch{}, branch.ErrBranchNameExists
		}
		return branch.Branch{}, fmt.Errorf("failed to create branch: %w", err)
	}

	return created, nil
}

// GetByID implements branch.BranchRepository.
func (r *branchRepositoryImpl) GetByID(ctx context.Context, id string) (branch.Branch, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + branchColumns + ` FROM branches WHERE id = $1`

	b, err := scanBranch(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return branch.Branch{}, branch.ErrBranchNotFound
		}
		return branch.Branch{}, fmt.Errorf("failed to get branch: %w", err)
	}

	return b, nil
}

// List implements branch.BranchRepository.
func (r *branchRepositoryImpl) List(ctx context.Context) ([]branch.Branch, error) {
	return r.list(ctx, `SELECT `+branchColumns+` FROM branches ORDER BY name ASC`)
}

// ListByIDs implements branch.BranchRepository.
func (r *branchRepositoryImpl) ListByIDs(ctx context.Context, ids []string) ([]branch.Branch, error) {
	if len(ids) == 0 {
		return []branch.Branch{}, nil
	}
	return r.list(ctx, `SELECT `+branchColumns+` FROM branches WHERE id = ANY($1) ORDER BY name ASC`, ids)
}

func (r *branchRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]branch.Branch, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query branches: %w", err)
	}
	defer rows.Close()

	branches := []branch.Branch{}
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		branches = append(branches, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return branches, nil
}

// Update implements branch.BranchRepository.
func (r *branchRepositoryImpl) Update(ctx context.Context, b branch.Branch) error {
	q := GetQuerier(ctx, r.db)

	roles, shifts, err := marshalBranchConfig(b)
	if err != nil {
		return fmt.Errorf("encode branch config: %w", err)
	}

	query := `
		UPDATE branches
		SET name = $1, staff_roles = $2, shifts = $3, updated_at = NOW()
		WHERE id = $4
	`

	commandTag, err := q.Exec(ctx, query, b.Name, roles, shifts, b.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return branch.ErrBranchNameExists
		}
		return fmt.Errorf("failed to update branch: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return branch.ErrBranchNotFound
	}

	return nil
}

// Delete implements branch.BranchRepository.
func (r *branchRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete branch: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return branch.ErrBranchNotFound
	}

	return nil
}
