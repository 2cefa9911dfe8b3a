package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gajihub/payroll-backend-go/internal/domain/payroll"
	"github.com/gajihub/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.Repository {
	return &payrollRepository{db: db}
}

// ========== COMPONENTS ==========

func (r *payrollRepository) CreateComponent(ctx context.Context, component payroll.SalaryComponent) (payroll.SalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_components (company_id, code, name, type, description, default_amount, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, company_id, code, name, type, description, default_amount, is_active, created_at, updated_at
	`

	var c payroll.SalaryComponent
	err := q.QueryRow(ctx, query,
		component.CompanyID, component.Code, component.Name, component.Type, component.Description, component.DefaultAmount, component.IsActive,
	).Scan(
		&c.ID, &c.CompanyID, &c.Code, &c.Name, &c.Type, &c.Description, &c.DefaultAmount, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_salary_component_code") {
			return payroll.SalaryComponent{}, payroll.ErrComponentCodeExists
		}
		return payroll.SalaryComponent{}, fmt.Errorf("failed to create salary component: %w", err)
	}

	return c, nil
}

func (r *payrollRepository) GetComponentByID(ctx context.Context, id string, companyID string) (payroll.SalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, code, name, type, description, default_amount, is_active, created_at, updated_at
		FROM salary_components
		WHERE id = $1 AND company_id = $2
	`

	var c payroll.SalaryComponent
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&c.ID, &c.CompanyID, &c.Code, &c.Name, &c.Type, &c.Description, &c.DefaultAmount, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.SalaryComponent{}, payroll.ErrComponentNotFound
		}
		return payroll.SalaryComponent{}, fmt.Errorf("failed to get salary component: %w", err)
	}

	return c, nil
}

func (r *payrollRepository) GetComponentsByCompanyID(ctx context.Context, companyID string, activeOnly bool) ([]payroll.SalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, code, name, type, description, default_amount, is_active, created_at, updated_at
		FROM salary_components
		WHERE company_id = $1
	`
	if activeOnly {
		query += " AND is_active = true"
	}
	query += " ORDER BY type, code"

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary components: %w", err)
	}
	defer rows.Close()

	var components []payroll.SalaryComponent
	for rows.Next() {
		var c payroll.SalaryComponent
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.Code, &c.Name, &c.Type, &c.Description, &c.DefaultAmount, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan salary component: %w", err)
		}
		components = append(components, c)
	}

	return components, nil
}

func (r *payrollRepository) UpdateComponent(ctx context.Context, companyID string, req payroll.UpdateSalaryComponentRequest) error {
	q := GetQuerier(ctx, r.db)

	setParts := []string{"updated_at = NOW()"}
	args := []interface{}{req.ID, companyID}
	argIdx := 3

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *req.Name)
		argIdx++
	}
	if req.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *req.Description)
		argIdx++
	}
	if req.DefaultAmount != nil {
		setParts = append(setParts, fmt.Sprintf("default_amount = $%d", argIdx))
		args = append(args, *req.DefaultAmount)
		argIdx++
	}
	if req.IsActive != nil {
		setParts = append(setParts, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *req.IsActive)
		argIdx++
	}

	query := fmt.Sprintf(`
		UPDATE salary_components
		SET %s
		WHERE id = $1 AND company_id = $2
		RETURNING id
	`, strings.Join(setParts, ", "))

	var updatedID string
	err := q.QueryRow(ctx, query, args...).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrComponentNotFound
		}
		return fmt.Errorf("failed to update salary component: %w", err)
	}

	return nil
}

func (r *payrollRepository) DeactivateComponent(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_components
		SET is_active = false, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, id, companyID).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrComponentNotFound
		}
		return fmt.Errorf("failed to deactivate salary component: %w", err)
	}

	return nil
}

// ========== EMPLOYEE COMPONENTS ==========

func (r *payrollRepository) UpsertEmployeeComponent(ctx context.Context, assignment payroll.EmployeeSalaryComponent, companyID string) (payroll.EmployeeSalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	// Verify employee belongs to company
	var empExists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1 AND company_id = $2)`, assignment.EmployeeID, companyID).Scan(&empExists)
	if err != nil || !empExists {
		return payroll.EmployeeSalaryComponent{}, payroll.ErrEmployeeNotFound
	}

	// Verify component belongs to company
	var compExists bool
	err = q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM salary_components WHERE id = $1 AND company_id = $2)`, assignment.ComponentID, companyID).Scan(&compExists)
	if err != nil || !compExists {
		return payroll.EmployeeSalaryComponent{}, payroll.ErrComponentNotFound
	}

	query := `
		INSERT INTO employee_salary_components (employee_id, component_id, amount, is_active)
		VALUES ($1, $2, $3, true)
		ON CONFLICT (employee_id, component_id) DO UPDATE SET
			amount = EXCLUDED.amount,
			is_active = true,
			updated_at = NOW()
		RETURNING id, employee_id, component_id, amount, is_active, created_at, updated_at
	`

	var a payroll.EmployeeSalaryComponent
	err = q.QueryRow(ctx, query,
		assignment.EmployeeID, assignment.ComponentID, assignment.Amount,
	).Scan(
		&a.ID, &a.EmployeeID, &a.ComponentID, &a.Amount, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return payroll.EmployeeSalaryComponent{}, fmt.Errorf("failed to assign salary component: %w", err)
	}

	return a, nil
}

func (r *payrollRepository) GetEmployeeComponents(ctx context.Context, employeeID string, companyID string, activeOnly bool) ([]payroll.EmployeeSalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT esc.id, esc.employee_id, esc.component_id, esc.amount, esc.is_active,
			   esc.created_at, esc.updated_at,
			   sc.code as component_code, sc.name as component_name, sc.type as component_type
		FROM employee_salary_components esc
		JOIN salary_components sc ON esc.component_id = sc.id
		JOIN employees e ON esc.employee_id = e.id
		WHERE esc.employee_id = $1 AND e.company_id = $2
	`
	if activeOnly {
		query += " AND esc.is_active = true AND sc.is_active = true"
	}
	query += " ORDER BY sc.type, sc.code"

	rows, err := q.Query(ctx, query, employeeID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee components: %w", err)
	}
	defer rows.Close()

	var assignments []payroll.EmployeeSalaryComponent
	for rows.Next() {
		var a payroll.EmployeeSalaryComponent
		if err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.ComponentID, &a.Amount, &a.IsActive,
			&a.CreatedAt, &a.UpdatedAt,
			&a.ComponentCode, &a.ComponentName, &a.ComponentType,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee component: %w", err)
		}
		assignments = append(assignments, a)
	}

	return assignments, nil
}

func (r *payrollRepository) DeactivateEmployeeComponent(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employee_salary_components esc
		SET is_active = false, updated_at = NOW()
		FROM employees e
		WHERE esc.id = $1 AND esc.employee_id = e.id AND e.company_id = $2
		RETURNING esc.id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, id, companyID).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrEmployeeComponentNotFound
		}
		return fmt.Errorf("failed to remove employee component: %w", err)
	}

	return nil
}

// ========== PAYROLL RECORDS ==========

const payrollRecordColumns = `pr.id, pr.employee_id, pr.company_id, pr.period, pr.basic_salary,
			   pr.overtime_pay, pr.allowances, pr.deductions, pr.gross_salary,
			   pr.bpjs_health, pr.bpjs_employment, pr.pph21, pr.net_salary,
			   pr.status, pr.processed_at, pr.paid_at, pr.slip_generated, pr.created_at, pr.updated_at`

func (r *payrollRepository) CreateRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	allowancesJSON, _ := json.Marshal(record.Allowances)
	deductionsJSON, _ := json.Marshal(record.Deductions)

	query := `
		INSERT INTO payroll_records (
			employee_id, company_id, period, basic_salary, overtime_pay,
			allowances, deductions, gross_salary, bpjs_health, bpjs_employment,
			pph21, net_salary, status, processed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, employee_id, company_id, period, basic_salary, overtime_pay,
			allowances, deductions, gross_salary, bpjs_health, bpjs_employment,
			pph21, net_salary, status, processed_at, paid_at, slip_generated, created_at, updated_at
	`

	var rec payroll.PayrollRecord
	var allowancesBytes, deductionsBytes []byte
	err := q.QueryRow(ctx, query,
		record.EmployeeID, record.CompanyID, record.Period, record.BasicSalary, record.OvertimePay,
		allowancesJSON, deductionsJSON, record.GrossSalary, record.BPJSHealth, record.BPJSEmployment,
		record.PPh21, record.NetSalary, record.Status, record.ProcessedAt,
	).Scan(
		&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.Period, &rec.BasicSalary, &rec.OvertimePay,
		&allowancesBytes, &deductionsBytes, &rec.GrossSalary, &rec.BPJSHealth, &rec.BPJSEmployment,
		&rec.PPh21, &rec.NetSalary, &rec.Status, &rec.ProcessedAt, &rec.PaidAt, &rec.SlipGenerated, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_employee_period") {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	_ = json.Unmarshal(allowancesBytes, &rec.Allowances)
	_ = json.Unmarshal(deductionsBytes, &rec.Deductions)

	return rec, nil
}

func (r *payrollRepository) GetRecordByID(ctx context.Context, id string, companyID string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s,
			   e.full_name as employee_name, e.employee_code, e.position, e.department,
			   e.bank_name, e.bank_account
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.id = $1 AND pr.company_id = $2
	`, payrollRecordColumns)

	var rec payroll.PayrollRecord
	var allowancesBytes, deductionsBytes []byte
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.Period, &rec.BasicSalary,
		&rec.OvertimePay, &allowancesBytes, &deductionsBytes, &rec.GrossSalary,
		&rec.BPJSHealth, &rec.BPJSEmployment, &rec.PPh21, &rec.NetSalary,
		&rec.Status, &rec.ProcessedAt, &rec.PaidAt, &rec.SlipGenerated, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.EmployeeCode, &rec.Position, &rec.Department,
		&rec.BankName, &rec.BankAccount,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	_ = json.Unmarshal(allowancesBytes, &rec.Allowances)
	_ = json.Unmarshal(deductionsBytes, &rec.Deductions)

	return rec, nil
}

func (r *payrollRepository) GetRecordByEmployeePeriod(ctx context.Context, employeeID string, period string, companyID string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM payroll_records pr
		WHERE pr.employee_id = $1 AND pr.period = $2 AND pr.company_id = $3
	`, payrollRecordColumns)

	var rec payroll.PayrollRecord
	var allowancesBytes, deductionsBytes []byte
	err := q.QueryRow(ctx, query, employeeID, period, companyID).Scan(
		&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.Period, &rec.BasicSalary,
		&rec.OvertimePay, &allowancesBytes, &deductionsBytes, &rec.GrossSalary,
		&rec.BPJSHealth, &rec.BPJSEmployment, &rec.PPh21, &rec.NetSalary,
		&rec.Status, &rec.ProcessedAt, &rec.PaidAt, &rec.SlipGenerated, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	_ = json.Unmarshal(allowancesBytes, &rec.Allowances)
	_ = json.Unmarshal(deductionsBytes, &rec.Deductions)

	return rec, nil
}

func (r *payrollRepository) ListRecords(ctx context.Context, companyID string, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.company_id = $1
	`
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Period != nil {
		baseQuery += fmt.Sprintf(" AND pr.period = $%d", argIdx)
		args = append(args, *filter.Period)
		argIdx++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND pr.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND pr.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	var totalCount int64
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`
		SELECT %s,
			   e.full_name as employee_name, e.employee_code, e.position, e.department,
			   e.bank_name, e.bank_account
		%s
		ORDER BY pr.period DESC, e.full_name ASC
		LIMIT $%d OFFSET $%d
	`, payrollRecordColumns, baseQuery, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		var rec payroll.PayrollRecord
		var allowancesBytes, deductionsBytes []byte
		if err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.Period, &rec.BasicSalary,
			&rec.OvertimePay, &allowancesBytes, &deductionsBytes, &rec.GrossSalary,
			&rec.BPJSHealth, &rec.BPJSEmployment, &rec.PPh21, &rec.NetSalary,
			&rec.Status, &rec.ProcessedAt, &rec.PaidAt, &rec.SlipGenerated, &rec.CreatedAt, &rec.UpdatedAt,
			&rec.EmployeeName, &rec.EmployeeCode, &rec.Position, &rec.Department,
			&rec.BankName, &rec.BankAccount,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		_ = json.Unmarshal(allowancesBytes, &rec.Allowances)
		_ = json.Unmarshal(deductionsBytes, &rec.Deductions)
		records = append(records, rec)
	}

	return records, totalCount, nil
}

func (r *payrollRepository) UpdateRecordStatus(ctx context.Context, id string, companyID string, status payroll.PayrollStatus) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET status = $3,
			paid_at = CASE WHEN $3 = 'paid' THEN NOW() ELSE paid_at END,
			updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING id, employee_id, company_id, period, basic_salary, overtime_pay,
			allowances, deductions, gross_salary, bpjs_health, bpjs_employment,
			pph21, net_salary, status, processed_at, paid_at, slip_generated, created_at, updated_at
	`

	var rec payroll.PayrollRecord
	var allowancesBytes, deductionsBytes []byte
	err := q.QueryRow(ctx, query, id, companyID, status).Scan(
		&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.Period, &rec.BasicSalary, &rec.OvertimePay,
		&allowancesBytes, &deductionsBytes, &rec.GrossSalary, &rec.BPJSHealth, &rec.BPJSEmployment,
		&rec.PPh21, &rec.NetSalary, &rec.Status, &rec.ProcessedAt, &rec.PaidAt, &rec.SlipGenerated, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to update payroll record status: %w", err)
	}

	_ = json.Unmarshal(allowancesBytes, &rec.Allowances)
	_ = json.Unmarshal(deductionsBytes, &rec.Deductions)

	return rec, nil
}

func (r *payrollRepository) MarkSlipGenerated(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET slip_generated = true, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, id, companyID).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrPayrollRecordNotFound
		}
		return fmt.Errorf("failed to mark slip generated: %w", err)
	}

	return nil
}

// ========== AGGREGATIONS ==========

func (r *payrollRepository) GetSummary(ctx context.Context, companyID string, period string) (payroll.PayrollSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) as total_employees,
			COALESCE(SUM(basic_salary), 0) as total_basic_salary,
			COALESCE(SUM(overtime_pay), 0) as total_overtime,
			COALESCE(SUM(gross_salary), 0) as total_gross_salary,
			COALESCE(SUM(bpjs_health), 0) as total_bpjs_health,
			COALESCE(SUM(bpjs_employment), 0) as total_bpjs_employment,
			COALESCE(SUM(pph21), 0) as total_pph21,
			COALESCE(SUM(net_salary), 0) as total_net_salary,
			COUNT(*) FILTER (WHERE status = 'draft') as draft_count,
			COUNT(*) FILTER (WHERE status = 'processed') as processed_count,
			COUNT(*) FILTER (WHERE status = 'paid') as paid_count
		FROM payroll_records
		WHERE company_id = $1 AND period = $2
	`

	var summary payroll.PayrollSummaryResponse
	err := q.QueryRow(ctx, query, companyID, period).Scan(
		&summary.TotalEmployees, &summary.TotalBasicSalary, &summary.TotalOvertime,
		&summary.TotalGrossSalary, &summary.TotalBPJSHealth, &summary.TotalBPJSEmp,
		&summary.TotalPPh21, &summary.TotalNetSalary,
		&summary.DraftCount, &summary.ProcessedCount, &summary.PaidCount,
	)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	summary.Period = period

	return summary, nil
}
