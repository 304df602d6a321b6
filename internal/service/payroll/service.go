package payroll

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/export"
)

const (
	contentTypeCSV = "text/csv; charset=utf-8"
	contentTypePDF = "application/pdf"
)

type payrollServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	branchRepo   branch.BranchRepository
	pdf          export.PDFOptions
}

func NewPayrollService(employeeRepo employee.EmployeeRepository, branchRepo branch.BranchRepository, pdf export.PDFOptions) payroll.PayrollService {
	return &payrollServiceImpl{
		employeeRepo: employeeRepo,
		branchRepo:   branchRepo,
		pdf:          pdf,
	}
}

// Report implements payroll.PayrollService.
func (s *payrollServiceImpl) Report(ctx context.Context, query payroll.ReportQuery) (payroll.Report, error) {
	actor, err := user.Actor(ctx)
	if err != nil {
		return payroll.Report{}, err
	}
	if err := query.Validate(); err != nil {
		return payroll.Report{}, err
	}
	return Build(ctx, s.employeeRepo, s.branchRepo, actor, query.Scope(), query.MonthKey())
}

// ExportCSV implements payroll.PayrollService.
func (s *payrollServiceImpl) ExportCSV(ctx context.Context, query payroll.ReportQuery) (payroll.ExportFile, error) {
	report, err := s.Report(ctx, query)
	if err != nil {
		return payroll.ExportFile{}, err
	}

	var buf bytes.Buffer
	if err := export.WritePayrollCSV(&buf, report.Lines); err != nil {
		return payroll.ExportFile{}, fmt.Errorf("failed to render csv: %w", err)
	}

	return payroll.ExportFile{
		Name:        payroll.ExportFileName(report.BranchName, report.Month, "csv"),
		ContentType: contentTypeCSV,
		Data:        buf.Bytes(),
	}, nil
}

// ExportPDF implements payroll.PayrollService.
func (s *payrollServiceImpl) ExportPDF(ctx context.Context, query payroll.ReportQuery) (payroll.ExportFile, error) {
	report, err := s.Report(ctx, query)
	if err != nil {
		return payroll.ExportFile{}, err
	}

	var buf bytes.Buffer
	if err := export.WritePayrollPDF(&buf, report, s.pdf); err != nil {
		return payroll.ExportFile{}, fmt.Errorf("failed to render pdf: %w", err)
	}

	return payroll.ExportFile{
		Name:        payroll.ExportFileName(report.BranchName, report.Month, "pdf"),
		ContentType: contentTypePDF,
		Data:        buf.Bytes(),
	}, nil
}

// Build assembles the payroll report of a scope as seen by actor. An actor
// limited to some branches who asks for every branch gets the employees and
// branch salaries of their own branches only.
func Build(
	ctx context.Context,
	employeeRepo employee.EmployeeRepository,
	branchRepo branch.BranchRepository,
	actor user.User,
	scope branch.Scope,
	key attendance.MonthKey,
) (payroll.Report, error) {
	employees, branchName, err := PayrollEmployees(ctx, employeeRepo, branchRepo, actor, scope, key)
	if err != nil {
		return payroll.Report{}, err
	}
	return ReportFor(actor, scope, key, branchName, employees), nil
}

// ReportFor turns employees already selected by PayrollEmployees into a report.
func ReportFor(actor user.User, scope branch.Scope, key attendance.MonthKey, branchName string, employees []employee.Employee) payroll.Report {
	lines := make([]payroll.Line, 0, len(employees))
	for _, e := range employees {
		lines = append(lines, payroll.NewLine(
			e.ID, e.FirstName, e.LastName, e.Phone, e.Role, e.BaseSalary,
			visibleBreakdowns(actor, e, scope, key),
		))
	}
	return payroll.NewReport(scope, branchName, key, lines)
}

// PayrollEmployees lists the employees paid for key within scope and the
// display name of the scope's branch (empty for every branch).
func PayrollEmployees(
	ctx context.Context,
	employeeRepo employee.EmployeeRepository,
	branchRepo branch.BranchRepository,
	actor user.User,
	scope branch.Scope,
	key attendance.MonthKey,
) ([]employee.Employee, string, error) {
	approved := employee.StatusApproved
	filter := employee.ListFilter{BranchIDs: actor.Branches.IDs(), Status: &approved}

	var branchName string
	if !scope.IsAll() {
		if !actor.Branches.Allows(scope.ID()) {
			return nil, "", branch.ErrBranchOutOfScope
		}
		b, err := branchRepo.GetByID(ctx, scope.ID())
		if err != nil {
			return nil, "", err
		}
		branchName = b.Name
		filter.BranchIDs = []string{scope.ID()}
	}

	listed, err := employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list employees: %w", err)
	}

	employees := make([]employee.Employee, 0, len(listed))
	for _, e := range listed {
		if e.InPayroll(key) {
			employees = append(employees, e)
		}
	}
	return employees, branchName, nil
}

func visibleBreakdowns(actor user.User, e employee.Employee, scope branch.Scope, key attendance.MonthKey) []payroll.Breakdown {
	parts := payroll.Breakdowns(e, scope, key)
	if !scope.IsAll() || actor.Branches.IsAll() {
		return parts
	}
	out := make([]payroll.Breakdown, 0, len(parts))
	for _, p := range parts {
		if actor.Branches.Allows(p.BranchID) {
			out = append(out, p)
		}
	}
	return out
}
