package branch

import "errors"

var (
	ErrBranchNotFound   = errors.New("branch not found")
	ErrBranchNameExists = errors.New("branch name already exists")
	ErrBranchOutOfScope = errors.New("branch is outside your assigned branches")
)
