package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type RoleHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	UpdatePermission(w http.ResponseWriter, r *http.Request)
}

type roleHandlerImpl struct {
	roleService role.RoleService
}

func NewRoleHandler(roleService role.RoleService) RoleHandler {
	return &roleHandlerImpl{roleService: roleService}
}

func (h *roleHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.roleService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, result)
}

// UpdatePermission handles PUT /roles/{name}/permissions/{module}.
func (h *roleHandlerImpl) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	var req role.UpdateRolePermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.Role = role.Name(chi.URLParam(r, "name"))
	req.Module = role.Module(chi.URLParam(r, "module"))

	result, err := h.roleService.UpdatePermission(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Role permission updated", result)
}
