package role

import (
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

// ModuleAccess is the resolved view/edit pair for one module.
type ModuleAccess struct {
	View bool `json:"view"`
	Edit bool `json:"edit"`
}

type RoleResponse struct {
	Name        Name                    `json:"name"`
	Locked      bool                    `json:"locked"`
	Permissions map[Module]ModuleAccess `json:"permissions"`
}

func NewRoleResponse(r Role) RoleResponse {
	perms := make(map[Module]ModuleAccess, len(Modules))
	for _, m := range Modules {
		view, edit := r.Permissions[m].Flags()
		perms[m] = ModuleAccess{View: view, Edit: edit}
	}
	return RoleResponse{Name: r.Name, Locked: r.Locked(), Permissions: perms}
}

// UpdateRolePermissionRequest sets view and/or edit of one module.
type UpdateRolePermissionRequest struct {
	Role   Name   `json:"-"`
	Module Module `json:"-"`
	View   *bool  `json:"view,omitempty"`
	Edit   *bool  `json:"edit,omitempty"`
}

func (r *UpdateRolePermissionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Role.Valid() {
		errs.Add("role", "role must be admin, manager or owner")
	}
	if !r.Module.Valid() {
		errs.Add("module", ErrUnknownModule.Error())
	}
	if r.View == nil && r.Edit == nil {
		errs.Add("permission", "view or edit is required")
	}

	return errs.Err()
}
