package role

import "errors"

var (
	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleLocked        = errors.New("the admin role cannot be modified")
	ErrInvalidPermission = errors.New("permission must be a boolean or an object with view and edit")
	ErrUnknownModule     = errors.New("unknown module")
	ErrPermissionDenied  = errors.New("insufficient permissions")
)
