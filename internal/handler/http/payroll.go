package http

import (
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	GetReport(w http.ResponseWriter, r *http.Request)
	ExportCSV(w http.ResponseWriter, r *http.Request)
	ExportPDF(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// reportQuery reads ?branch=&month=; a missing branch means every branch.
func reportQuery(r *http.Request) payroll.ReportQuery {
	return payroll.ReportQuery{
		Branch: r.URL.Query().Get("branch"),
		Month:  r.URL.Query().Get("month"),
	}
}

func (h *payrollHandlerImpl) GetReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.Report(r.Context(), reportQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	file, err := h.payrollService.ExportCSV(r.Context(), reportQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	writeAttachment(w, file)
}

func (h *payrollHandlerImpl) ExportPDF(w http.ResponseWriter, r *http.Request) {
	file, err := h.payrollService.ExportPDF(r.Context(), reportQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	writeAttachment(w, file)
}

func writeAttachment(w http.ResponseWriter, file payroll.ExportFile) {
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", contentDisposition(file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		slog.Error("Failed to write export", "file", file.Name, "error", err)
	}
}

// contentDisposition marks name as an attachment. Non-ASCII names are
// written in the RFC 2231 extended form.
func contentDisposition(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}
