package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gajihub/payroll-backend-go/internal/config"
	"github.com/gajihub/payroll-backend-go/internal/domain/employee"
	"github.com/gajihub/payroll-backend-go/internal/domain/payroll"
	"github.com/google/uuid"
)

type PayrollJobs struct {
	payrollService payroll.Service
	employeeRepo   employee.Repository
	cfg            config.PayrollConfig
	now            func() time.Time
}

func NewPayrollJobs(payrollService payroll.Service, employeeRepo employee.Repository, cfg config.PayrollConfig) *PayrollJobs {
	return &PayrollJobs{
		payrollService: payrollService,
		employeeRepo:   employeeRepo,
		cfg:            cfg,
		now:            time.Now,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	if !j.cfg.AutoProcess {
		slog.Info("Cron: payroll auto-process disabled")
		return
	}
	scheduler.AddJob("auto_process_payroll", j.cfg.AutoProcessInterval, j.AutoProcessPreviousMonth)
}

// AutoProcessPreviousMonth runs the calculator for the previous calendar month
// across every company with active employees. Processing is idempotent, so
// repeated runs within the same month only fill in records that are missing.
func (j *PayrollJobs) AutoProcessPreviousMonth(ctx context.Context) error {
	runID := uuid.NewString()
	now := j.now()
	// Anchor to the first of the month so late-month dates don't normalize
	// into the wrong period.
	period := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0).Format("2006-01")

	slog.Info("Cron: starting payroll auto-process", "run_id", runID, "period", period)

	companyIDs, err := j.employeeRepo.CompanyIDsWithActiveEmployees(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	for _, companyID := range companyIDs {
		result, err := j.payrollService.ProcessForCompany(ctx, companyID, payroll.ProcessPayrollRequest{Period: period})
		if err != nil {
			slog.Error("Cron: payroll auto-process failed for company",
				"run_id", runID, "company_id", companyID, "error", err)
			continue
		}

		slog.Info("Cron: payroll auto-process completed for company",
			"run_id", runID, "company_id", companyID,
			"processed", len(result.Processed), "failures", len(result.Failures))
	}

	return nil
}
