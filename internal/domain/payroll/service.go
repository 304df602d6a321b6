package payroll

import "context"

type PayrollService interface {
	Report(ctx context.Context, query ReportQuery) (Report, error)
	ExportCSV(ctx context.Context, query ReportQuery) (ExportFile, error)
	ExportPDF(ctx context.Context, query ReportQuery) (ExportFile, error)
}
