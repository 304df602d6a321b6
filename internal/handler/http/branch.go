package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type BranchHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type branchHandlerImpl struct {
	branchService branch.BranchService
}

func NewBranchHandler(branchService branch.BranchService) BranchHandler {
	return &branchHandlerImpl{branchService: branchService}
}

func (h *branchHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.branchService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, result)
}

func (h *branchHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.branchService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *branchHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req branch.CreateBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.branchService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Branch created successfully", result)
}

func (h *branchHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req branch.UpdateBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.branchService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Branch updated successfully", result)
}

func (h *branchHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.branchService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Branch deleted successfully", nil)
}
