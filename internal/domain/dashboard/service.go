package dashboard

import (
	"context"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
)

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard returns the overview of the acting user's scope for a month
	GetDashboard(ctx context.Context, query payroll.ReportQuery) (DashboardResponse, error)
}
