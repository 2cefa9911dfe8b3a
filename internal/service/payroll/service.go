package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gajihub/payroll-backend-go/internal/domain/attendance"
	"github.com/gajihub/payroll-backend-go/internal/domain/auth"
	"github.com/gajihub/payroll-backend-go/internal/domain/employee"
	"github.com/gajihub/payroll-backend-go/internal/domain/payroll"
	"github.com/gajihub/payroll-backend-go/internal/pkg/database"
	"github.com/gajihub/payroll-backend-go/internal/pkg/validator"
	"github.com/gajihub/payroll-backend-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	db             *database.DB
	payrollRepo    payroll.Repository
	employeeRepo   employee.Repository
	attendanceRepo attendance.Repository
	tariff         Tariff
	now            func() time.Time
	inTx           func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.Repository,
	employeeRepo employee.Repository,
	attendanceRepo attendance.Repository,
) payroll.Service {
	return &PayrollServiceImpl{
		db:             db,
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		tariff:         DefaultTariff(),
		now:            time.Now,
		inTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, func(tx pgx.Tx) error {
				return fn(context.WithValue(ctx, "tx", tx))
			})
		},
	}
}

// Helper to get company_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", auth.ErrCompanyScopeMissed
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

// ========== COMPONENTS ==========

func (s *PayrollServiceImpl) CreateComponent(ctx context.Context, req payroll.CreateSalaryComponentRequest) (payroll.SalaryComponentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryComponentResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.SalaryComponentResponse{}, err
	}

	defaultAmount := decimal.Zero
	if req.DefaultAmount != nil {
		defaultAmount = *req.DefaultAmount
	}

	component := payroll.SalaryComponent{
		CompanyID:     companyID,
		Code:          req.Code,
		Name:          req.Name,
		Type:          payroll.ComponentType(req.Type),
		Description:   req.Description,
		DefaultAmount: defaultAmount,
		IsActive:      true,
	}

	created, err := s.payrollRepo.CreateComponent(ctx, component)
	if err != nil {
		return payroll.SalaryComponentResponse{}, err
	}

	return mapToComponentResponse(created), nil
}

func (s *PayrollServiceImpl) GetComponent(ctx context.Context, id string) (payroll.SalaryComponentResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.SalaryComponentResponse{}, err
	}

	component, err := s.payrollRepo.GetComponentByID(ctx, id, companyID)
	if err != nil {
		return payroll.SalaryComponentResponse{}, err
	}

	return mapToComponentResponse(component), nil
}

func (s *PayrollServiceImpl) ListComponents(ctx context.Context, activeOnly bool) ([]payroll.SalaryComponentResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	components, err := s.payrollRepo.GetComponentsByCompanyID(ctx, companyID, activeOnly)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.SalaryComponentResponse, 0, len(components))
	for _, c := range components {
		result = append(result, mapToComponentResponse(c))
	}

	return result, nil
}

func (s *PayrollServiceImpl) UpdateComponent(ctx context.Context, req payroll.UpdateSalaryComponentRequest) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	return s.payrollRepo.UpdateComponent(ctx, companyID, req)
}

func (s *PayrollServiceImpl) DeactivateComponent(ctx context.Context, id string) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	return s.payrollRepo.DeactivateComponent(ctx, id, companyID)
}

// ========== EMPLOYEE COMPONENTS ==========

func (s *PayrollServiceImpl) AssignComponent(ctx context.Context, req payroll.AssignComponentRequest) (payroll.EmployeeComponentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.EmployeeComponentResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.EmployeeComponentResponse{}, err
	}

	// Component lookup and upsert run in one transaction so a concurrent
	// deactivation cannot slip between them.
	var created payroll.EmployeeSalaryComponent
	err = s.inTx(ctx, func(ctx context.Context) error {
		component, err := s.payrollRepo.GetComponentByID(ctx, req.ComponentID, companyID)
		if err != nil {
			return err
		}

		amount := component.DefaultAmount
		if req.Amount != nil {
			amount = *req.Amount
		}

		assignment := payroll.EmployeeSalaryComponent{
			EmployeeID:  req.EmployeeID,
			ComponentID: req.ComponentID,
			Amount:      amount,
			IsActive:    true,
		}

		created, err = s.payrollRepo.UpsertEmployeeComponent(ctx, assignment, companyID)
		return err
	})
	if err != nil {
		return payroll.EmployeeComponentResponse{}, err
	}

	return mapToEmployeeComponentResponse(created), nil
}

func (s *PayrollServiceImpl) GetEmployeeComponents(ctx context.Context, employeeID string) ([]payroll.EmployeeComponentResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	assignments, err := s.payrollRepo.GetEmployeeComponents(ctx, employeeID, companyID, false)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.EmployeeComponentResponse, 0, len(assignments))
	for _, a := range assignments {
		result = append(result, mapToEmployeeComponentResponse(a))
	}

	return result, nil
}

func (s *PayrollServiceImpl) RemoveEmployeeComponent(ctx context.Context, id string) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	// Soft delete: the assignment row is kept for historical payrolls.
	return s.payrollRepo.DeactivateEmployeeComponent(ctx, id, companyID)
}

// ========== PROCESSING ==========

func (s *PayrollServiceImpl) ProcessPayroll(ctx context.Context, req payroll.ProcessPayrollRequest) (payroll.ProcessPayrollResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ProcessPayrollResponse{}, err
	}

	return s.ProcessForCompany(ctx, companyID, req)
}

func (s *PayrollServiceImpl) ProcessForCompany(ctx context.Context, companyID string, req payroll.ProcessPayrollRequest) (payroll.ProcessPayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ProcessPayrollResponse{}, err
	}

	periodStart, periodEnd, err := validator.PeriodBounds(req.Period)
	if err != nil {
		return payroll.ProcessPayrollResponse{}, payroll.ErrInvalidPeriod
	}

	resp := payroll.ProcessPayrollResponse{
		Period:    req.Period,
		Processed: []payroll.PayrollRecordResponse{},
	}

	employees, err := s.resolveEmployees(ctx, companyID, req.EmployeeID)
	if err != nil {
		if req.EmployeeID != nil && errors.Is(err, employee.ErrEmployeeNotFound) {
			// A missing employee fails that employee, not the request.
			resp.Failures = append(resp.Failures, payroll.ProcessFailure{
				EmployeeID: *req.EmployeeID,
				Error:      err.Error(),
			})
			resp.Summary = payroll.BuildSummary(0, 1)
			return resp, nil
		}
		return payroll.ProcessPayrollResponse{}, err
	}

	// Sequential per-employee loop, no transaction spanning it: records
	// written before a failure stay written.
	for i, emp := range employees {
		record, err := s.processEmployee(ctx, companyID, emp, req.Period, periodStart, periodEnd)
		if err != nil {
			resp.Failures = append(resp.Failures, payroll.ProcessFailure{
				EmployeeID: emp.ID,
				Error:      err.Error(),
			})
			if isInfrastructureError(err) {
				// The store is gone; mark the rest explicitly instead of
				// silently dropping them.
				for _, remaining := range employees[i+1:] {
					resp.Failures = append(resp.Failures, payroll.ProcessFailure{
						EmployeeID: remaining.ID,
						Error:      "aborted after database error",
					})
				}
				break
			}
			continue
		}
		resp.Processed = append(resp.Processed, mapToRecordResponse(record))
	}

	resp.Summary = payroll.BuildSummary(len(resp.Processed), len(employees))
	return resp, nil
}

func (s *PayrollServiceImpl) resolveEmployees(ctx context.Context, companyID string, employeeID *string) ([]employee.Employee, error) {
	if employeeID != nil {
		emp, err := s.employeeRepo.GetByID(ctx, *employeeID, companyID)
		if err != nil {
			return nil, err
		}
		return []employee.Employee{emp}, nil
	}
	return s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
}

func (s *PayrollServiceImpl) processEmployee(
	ctx context.Context,
	companyID string,
	emp employee.Employee,
	period string,
	periodStart, periodEnd time.Time,
) (payroll.PayrollRecord, error) {
	// Idempotency: an existing record for (employee, period) is returned
	// unchanged, never recomputed.
	existing, err := s.payrollRepo.GetRecordByEmployeePeriod(ctx, emp.ID, period, companyID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, payroll.ErrPayrollRecordNotFound) {
		return payroll.PayrollRecord{}, fmt.Errorf("check existing payroll record: %w", err)
	}

	components, err := s.payrollRepo.GetEmployeeComponents(ctx, emp.ID, companyID, true)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("load salary components: %w", err)
	}

	allowances := make(map[string]decimal.Decimal)
	componentDeductions := make(map[string]decimal.Decimal)
	for _, comp := range components {
		if comp.ComponentCode == nil || comp.ComponentType == nil {
			continue
		}
		if *comp.ComponentType == payroll.ComponentTypeAllowance {
			allowances[*comp.ComponentCode] = comp.Amount
		} else {
			componentDeductions[*comp.ComponentCode] = comp.Amount
		}
	}

	overtimeHours, err := s.attendanceRepo.SumOvertimeHours(ctx, emp.ID, companyID, periodStart, periodEnd)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("sum overtime hours: %w", err)
	}

	calc := Calculate(s.tariff, emp.BasicSalary, allowances, componentDeductions, overtimeHours)

	if calc.NetSalary.IsNegative() {
		slog.Warn("negative net salary computed",
			"employee_id", emp.ID,
			"period", period,
			"net_salary", calc.NetSalary.String(),
		)
	}

	processedAt := s.now()
	record := payroll.PayrollRecord{
		EmployeeID:     emp.ID,
		CompanyID:      companyID,
		Period:         period,
		BasicSalary:    calc.BasicSalary,
		OvertimePay:    calc.OvertimePay,
		Allowances:     calc.Allowances,
		Deductions:     calc.Deductions,
		GrossSalary:    calc.GrossSalary,
		BPJSHealth:     calc.BPJSHealth,
		BPJSEmployment: calc.BPJSEmployment,
		PPh21:          calc.PPh21,
		NetSalary:      calc.NetSalary,
		Status:         payroll.PayrollStatusDraft,
		ProcessedAt:    &processedAt,
	}

	created, err := s.payrollRepo.CreateRecord(ctx, record)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollRecordAlreadyExists) {
			// Lost a check-then-insert race against a concurrent run; the
			// unique constraint picked the winner, return its record.
			return s.payrollRepo.GetRecordByEmployeePeriod(ctx, emp.ID, period, companyID)
		}
		return payroll.PayrollRecord{}, fmt.Errorf("create payroll record: %w", err)
	}

	return created, nil
}

// isInfrastructureError separates store failures, which abort the batch, from
// per-employee domain errors, which do not.
func isInfrastructureError(err error) bool {
	switch {
	case errors.Is(err, payroll.ErrEmployeeNotFound),
		errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, payroll.ErrPayrollRecordAlreadyExists):
		return false
	}
	var verrs validator.ValidationErrors
	return !errors.As(err, &verrs)
}

// ========== RECORDS ==========

func (s *PayrollServiceImpl) GetRecord(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	record, err := s.payrollRepo.GetRecordByID(ctx, id, companyID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return mapToRecordResponse(record), nil
}

func (s *PayrollServiceImpl) ListRecords(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	records, totalCount, err := s.payrollRepo.ListRecords(ctx, companyID, filter)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	return payroll.ListPayrollRecordResponse{
		Data:       mapToRecordResponses(records),
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) UpdateStatus(ctx context.Context, req payroll.UpdatePayrollStatusRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	// Read-then-update in one transaction so two callers cannot both pass
	// the transition check.
	var updated payroll.PayrollRecord
	err = s.inTx(ctx, func(ctx context.Context) error {
		current, err := s.payrollRepo.GetRecordByID(ctx, req.ID, companyID)
		if err != nil {
			return err
		}

		next := payroll.PayrollStatus(req.Status)
		if !current.Status.CanTransitionTo(next) {
			return payroll.ErrInvalidStatusTransition
		}

		updated, err = s.payrollRepo.UpdateRecordStatus(ctx, req.ID, companyID, next)
		return err
	})
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return mapToRecordResponse(updated), nil
}

func (s *PayrollServiceImpl) GetSummary(ctx context.Context, period string) (payroll.PayrollSummaryResponse, error) {
	if !validator.IsValidPeriod(period) {
		return payroll.PayrollSummaryResponse{}, payroll.ErrInvalidPeriod
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, err
	}

	return s.payrollRepo.GetSummary(ctx, companyID, period)
}

// ========== HELPERS ==========

func mapToComponentResponse(c payroll.SalaryComponent) payroll.SalaryComponentResponse {
	return payroll.SalaryComponentResponse{
		ID:            c.ID,
		CompanyID:     c.CompanyID,
		Code:          c.Code,
		Name:          c.Name,
		Type:          string(c.Type),
		Description:   c.Description,
		DefaultAmount: c.DefaultAmount,
		IsActive:      c.IsActive,
	}
}

func mapToEmployeeComponentResponse(a payroll.EmployeeSalaryComponent) payroll.EmployeeComponentResponse {
	code := ""
	name := ""
	componentType := ""
	if a.ComponentCode != nil {
		code = *a.ComponentCode
	}
	if a.ComponentName != nil {
		name = *a.ComponentName
	}
	if a.ComponentType != nil {
		componentType = string(*a.ComponentType)
	}

	return payroll.EmployeeComponentResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		ComponentID:   a.ComponentID,
		ComponentCode: code,
		ComponentName: name,
		ComponentType: componentType,
		Amount:        a.Amount,
		IsActive:      a.IsActive,
	}
}

func mapToRecordResponse(r payroll.PayrollRecord) payroll.PayrollRecordResponse {
	var processedAtStr, paidAtStr *string
	if r.ProcessedAt != nil {
		str := r.ProcessedAt.Format(time.RFC3339)
		processedAtStr = &str
	}
	if r.PaidAt != nil {
		str := r.PaidAt.Format(time.RFC3339)
		paidAtStr = &str
	}

	return payroll.PayrollRecordResponse{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		EmployeeName:   r.EmployeeName,
		EmployeeCode:   r.EmployeeCode,
		Position:       r.Position,
		Department:     r.Department,
		Period:         r.Period,
		BasicSalary:    r.BasicSalary,
		Allowances:     r.Allowances,
		OvertimePay:    r.OvertimePay,
		GrossSalary:    r.GrossSalary,
		BPJSHealth:     r.BPJSHealth,
		BPJSEmployment: r.BPJSEmployment,
		PPh21:          r.PPh21,
		Deductions:     r.Deductions,
		NetSalary:      r.NetSalary,
		Status:         string(r.Status),
		ProcessedAt:    processedAtStr,
		PaidAt:         paidAtStr,
		SlipGenerated:  r.SlipGenerated,
	}
}

func mapToRecordResponses(records []payroll.PayrollRecord) []payroll.PayrollRecordResponse {
	result := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, mapToRecordResponse(r))
	}
	return result
}
