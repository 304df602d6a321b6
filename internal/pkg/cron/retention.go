package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
)

const retentionJobName = "payroll_data_retention"

// RetentionJobs prunes attendance, bonus and penalty months older than a cutoff.
type RetentionJobs struct {
	employeeRepo employee.EmployeeRepository
	cutoff       attendance.MonthKey
	logger       *slog.Logger
}

func NewRetentionJobs(employeeRepo employee.EmployeeRepository, cutoff attendance.MonthKey, logger *slog.Logger) *RetentionJobs {
	return &RetentionJobs{employeeRepo: employeeRepo, cutoff: cutoff, logger: logger}
}

func (j *RetentionJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(retentionJobName, interval, j.PruneOldPayrollData)
}

func (j *RetentionJobs) PruneOldPayrollData(ctx context.Context) error {
	changed, err := j.employeeRepo.PruneLedger(ctx, j.cutoff)
	if err != nil {
		return fmt.Errorf("prune payroll data before %s: %w", j.cutoff, err)
	}
	j.logger.Info("Cron: pruned old payroll data", "cutoff", j.cutoff, "employees_changed", changed)
	return nil
}
