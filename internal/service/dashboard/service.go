package dashboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	payrollservice "github.com/cmlabs-hris/payroll-backend-go/internal/service/payroll"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	branchRepo   branch.BranchRepository
}

func NewDashboardService(employeeRepo employee.EmployeeRepository, branchRepo branch.BranchRepository) dashboard.DashboardService {
	return &DashboardServiceImpl{
		employeeRepo: employeeRepo,
		branchRepo:   branchRepo,
	}
}

// GetDashboard loads the staff list, the payroll report and the branch
// names in parallel and derives every statistic from them.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, query payroll.ReportQuery) (dashboard.DashboardResponse, error) {
	actor, err := user.Actor(ctx)
	if err != nil {
		return dashboard.DashboardResponse{}, err
	}
	if err := query.Validate(); err != nil {
		return dashboard.DashboardResponse{}, err
	}
	scope, key := query.Scope(), query.MonthKey()
	if !scope.IsAll() && !actor.Branches.Allows(scope.ID()) {
		return dashboard.DashboardResponse{}, branch.ErrBranchOutOfScope
	}

	var (
		staff       []employee.Employee
		paid        []employee.Employee
		report      payroll.Report
		branchNames map[string]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		filter := employee.ListFilter{BranchIDs: actor.Branches.IDs(), ActiveOnly: true}
		if !scope.IsAll() {
			filter.BranchIDs = []string{scope.ID()}
		}
		list, err := s.employeeRepo.List(gctx, filter)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		staff = list
		return nil
	})
	g.Go(func() error {
		list, branchName, err := payrollservice.PayrollEmployees(gctx, s.employeeRepo, s.branchRepo, actor, scope, key)
		if err != nil {
			return err
		}
		paid = list
		report = payrollservice.ReportFor(actor, scope, key, branchName, list)
		return nil
	})
	g.Go(func() error {
		var (
			branches []branch.Branch
			err      error
		)
		if actor.Branches.IsAll() {
			branches, err = s.branchRepo.List(gctx)
		} else {
			branches, err = s.branchRepo.ListByIDs(gctx, actor.Branches.IDs())
		}
		if err != nil {
			return fmt.Errorf("failed to list branches: %w", err)
		}
		branchNames = make(map[string]string, len(branches))
		for _, b := range branches {
			branchNames[b.ID] = b.Name
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return dashboard.DashboardResponse{}, err
	}

	resp := dashboard.DashboardResponse{
		Branch:              scope.String(),
		Month:               key,
		TotalEmployees:      len(staff),
		TotalPayroll:        report.Total,
		DisplayTotalPayroll: report.DisplayTotal,
	}
	for _, e := range staff {
		if e.Status == employee.StatusApproved {
			resp.ApprovedEmployees++
		} else {
			resp.PendingEmployees++
		}
	}
	resp.RoleDistribution = roleDistribution(staff)
	resp.BranchDistribution = branchDistribution(staff, scope, actor, branchNames)

	stats := attendanceStats(paid, scope, actor, key)
	resp.AttendanceRate = overallRate(stats)
	resp.AttendanceByRole = rateByRole(stats)
	resp.LowAttendance = lowAttendance(stats)

	return resp, nil
}

type employeeAttendance struct {
	employee    employee.Employee
	attended    decimal.Decimal
	denominator decimal.Decimal
	rate        decimal.Decimal
}

// attendanceStats measures each employee against the days they could
// have worked: the month for one branch, or the month times the number of
// visible branches.
func attendanceStats(employees []employee.Employee, scope branch.Scope, actor user.User, key attendance.MonthKey) []employeeAttendance {
	out := make([]employeeAttendance, 0, len(employees))
	for _, e := range employees {
		var attended, denominator decimal.Decimal
		if scope.IsAll() {
			attended = decimal.Zero
			count := 0
			for _, id := range e.BranchIDs {
				if !actor.Branches.Allows(id) {
					continue
				}
				attended = attended.Add(e.Attendance.Total(id, key))
				count++
			}
			denominator = attendance.BranchMonthDenominator(key, count)
		} else {
			attended = attendance.AttendedDays(e.Attendance, scope, key)
			denominator = attendance.MonthDenominator(key)
		}
		out = append(out, employeeAttendance{
			employee:    e,
			attended:    attended,
			denominator: denominator,
			rate:        attendance.Rate(attended, denominator),
		})
	}
	return out
}

func overallRate(stats []employeeAttendance) decimal.Decimal {
	attended, denominator := decimal.Zero, decimal.Zero
	for _, s := range stats {
		attended = attended.Add(s.attended)
		denominator = denominator.Add(s.denominator)
	}
	return attendance.Rate(attended, denominator).Round(2)
}

func rateByRole(stats []employeeAttendance) []dashboard.RateItem {
	type sums struct{ attended, denominator decimal.Decimal }
	byRole := map[string]*sums{}
	for _, s := range stats {
		r, ok := byRole[s.employee.Role]
		if !ok {
			r = &sums{attended: decimal.Zero, denominator: decimal.Zero}
			byRole[s.employee.Role] = r
		}
		r.attended = r.attended.Add(s.attended)
		r.denominator = r.denominator.Add(s.denominator)
	}

	out := make([]dashboard.RateItem, 0, len(byRole))
	for name, r := range byRole {
		out = append(out, dashboard.RateItem{Name: name, Rate: attendance.Rate(r.attended, r.denominator).Round(2)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func lowAttendance(stats []employeeAttendance) []dashboard.LowAttendanceItem {
	flagged := make([]employeeAttendance, 0)
	for _, s := range stats {
		if s.rate.LessThan(dashboard.LowAttendanceThreshold) {
			flagged = append(flagged, s)
		}
	}
	sort.SliceStable(flagged, func(i, j int) bool { return flagged[i].rate.LessThan(flagged[j].rate) })
	if len(flagged) > dashboard.LowAttendanceLimit {
		flagged = flagged[:dashboard.LowAttendanceLimit]
	}

	out := make([]dashboard.LowAttendanceItem, 0, len(flagged))
	for _, s := range flagged {
		out = append(out, dashboard.LowAttendanceItem{
			EmployeeID:   s.employee.ID,
			Name:         s.employee.FullName(),
			Role:         s.employee.Role,
			AttendedDays: s.attended,
			Rate:         s.rate.Round(2),
		})
	}
	return out
}

func roleDistribution(staff []employee.Employee) []dashboard.CountItem {
	counts := map[string]int{}
	for _, e := range staff {
		counts[e.Role]++
	}
	return sortedCounts(counts)
}

// branchDistribution counts employees per visible branch by branch name.
// Ids without a branch record are reported as-is.
func branchDistribution(staff []employee.Employee, scope branch.Scope, actor user.User, names map[string]string) []dashboard.CountItem {
	counts := map[string]int{}
	for _, e := range staff {
		for _, id := range e.BranchIDs {
			if !scope.IsAll() && id != scope.ID() {
				continue
			}
			if !actor.Branches.Allows(id) {
				continue
			}
			name, ok := names[id]
			if !ok {
				name = id
			}
			counts[name]++
		}
	}
	return sortedCounts(counts)
}

func sortedCounts(counts map[string]int) []dashboard.CountItem {
	out := make([]dashboard.CountItem, 0, len(counts))
	for name, n := range counts {
		out = append(out, dashboard.CountItem{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
