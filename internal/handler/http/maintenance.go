package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
)

type MaintenanceHandler interface {
	RunRetention(w http.ResponseWriter, r *http.Request)
}

type maintenanceHandlerImpl struct {
	prune func(ctx context.Context) error
}

// NewMaintenanceHandler takes the retention job so admins can run it on demand.
func NewMaintenanceHandler(prune func(ctx context.Context) error) MaintenanceHandler {
	return &maintenanceHandlerImpl{prune: prune}
}

func (h *maintenanceHandlerImpl) RunRetention(w http.ResponseWriter, r *http.Request) {
	if err := h.prune(r.Context()); err != nil {
		slog.Error("Manual retention run failed", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Old payroll data pruned", nil)
}
