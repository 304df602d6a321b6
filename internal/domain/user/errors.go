package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrAdminPrivilegeRequired  = errors.New("admin privilege required")
	ErrCannotDeleteSelf        = errors.New("cannot delete your own account")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrUnauthenticated         = errors.New("authentication required")
)
