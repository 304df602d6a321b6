package branch

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
)

type branchServiceImpl struct {
	branchRepo branch.BranchRepository
}

func NewBranchService(branchRepo branch.BranchRepository) branch.BranchService {
	return &branchServiceImpl{branchRepo: branchRepo}
}

// Create implements branch.BranchService.
func (s *branchServiceImpl) Create(ctx context.Context, req branch.CreateBranchRequest) (branch.BranchResponse, error) {
	if err := req.Validate(); err != nil {
		return branch.BranchResponse{}, err
	}

	name := strings.TrimSpace(req.Name)
	entity := branch.Branch{
		ID:         branch.IDFromName(name),
		Name:       name,
		StaffRoles: req.StaffRoles,
		Shifts:     req.Shifts,
	}

	created, err := s.branchRepo.Create(ctx, entity)
	if err != nil {
		return branch.BranchResponse{}, err
	}

	return branch.NewBranchResponse(created), nil
}

// GetByID implements branch.BranchService.
func (s *branchServiceImpl) GetByID(ctx context.Context, id string) (branch.BranchResponse, error) {
	entity, err := s.scoped(ctx, id)
	if err != nil {
		return branch.BranchResponse{}, err
	}
	return branch.NewBranchResponse(entity), nil
}

// List implements branch.BranchService.
func (s *branchServiceImpl) List(ctx context.Context) ([]branch.BranchResponse, error) {
	actor, err := user.Actor(ctx)
	if err != nil {
		return nil, err
	}

	var entities []branch.Branch
	if actor.Branches.IsAll() {
		entities, err = s.branchRepo.List(ctx)
	} else {
		entities, err = s.branchRepo.ListByIDs(ctx, actor.Branches.IDs())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	responses := make([]branch.BranchResponse, 0, len(entities))
	for _, b := range entities {
		responses = append(responses, branch.NewBranchResponse(b))
	}
	return responses, nil
}

// Update implements branch.BranchService.
func (s *branchServiceImpl) Update(ctx context.Context, req branch.UpdateBranchRequest) (branch.BranchResponse, error) {
	if err := req.Validate(); err != nil {
		return branch.BranchResponse{}, err
	}

	entity, err := s.scoped(ctx, req.ID)
	if err != nil {
		return branch.BranchResponse{}, err
	}

	if req.Name != nil {
		entity.Name = strings.TrimSpace(*req.Name)
	}
	if req.StaffRoles != nil {
		entity.StaffRoles = req.StaffRoles
	}
	if req.Shifts != nil {
		entity.Shifts = req.Shifts
	}

	if err := s.branchRepo.Update(ctx, entity); err != nil {
		return branch.BranchResponse{}, err
	}

	return branch.NewBranchResponse(entity), nil
}

// Delete implements branch.BranchService. Employees keep the id in their
// branch list and their attendance under it.
func (s *branchServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.scoped(ctx, id); err != nil {
		return err
	}
	return s.branchRepo.Delete(ctx, id)
}

// scoped loads a branch the acting user may access.
func (s *branchServiceImpl) scoped(ctx context.Context, id string) (branch.Branch, error) {
	actor, err := user.Actor(ctx)
	if err != nil {
		return branch.Branch{}, err
	}
	if !actor.Branches.Allows(id) {
		return branch.Branch{}, branch.ErrBranchOutOfScope
	}
	return s.branchRepo.GetByID(ctx, id)
}
