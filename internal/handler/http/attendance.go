package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	SetDay(w http.ResponseWriter, r *http.Request)
	AdjustBonus(w http.ResponseWriter, r *http.Request)
	AdjustPenalty(w http.ResponseWriter, r *http.Request)
	BulkMark(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewAttendanceHandler(employeeService employee.EmployeeService) AttendanceHandler {
	return &attendanceHandlerImpl{employeeService: employeeService}
}

// SetDay records one day value for /employees/{id}/attendance.
func (h *attendanceHandlerImpl) SetDay(w http.ResponseWriter, r *http.Request) {
	var req attendance.SetDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")

	result, err := h.employeeService.SetAttendanceDay(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *attendanceHandlerImpl) AdjustBonus(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.employeeService.AdjustBonus)
}

func (h *attendanceHandlerImpl) AdjustPenalty(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.employeeService.AdjustPenalty)
}

func (h *attendanceHandlerImpl) adjust(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, req attendance.AdjustRequest) (attendance.DayRecordResponse, error),
) {
	var req attendance.AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")

	result, err := apply(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// BulkMark marks the listed employees present for today or yesterday.
func (h *attendanceHandlerImpl) BulkMark(w http.ResponseWriter, r *http.Request) {
	var req attendance.BulkMarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.employeeService.BulkMark(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
