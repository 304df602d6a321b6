package branch

import "context"

type BranchService interface {
	Create(ctx context.Context, req CreateBranchRequest) (BranchResponse, error)
	GetByID(ctx context.Context, id string) (BranchResponse, error)
	// List returns the branches visible to the acting user.
	List(ctx context.Context) ([]BranchResponse, error)
	Update(ctx context.Context, req UpdateBranchRequest) (BranchResponse, error)
	Delete(ctx context.Context, id string) error
}
