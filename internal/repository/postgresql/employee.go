package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/gajihub/payroll-backend-go/internal/domain/employee"
	"github.com/gajihub/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, user_id, company_id, employee_code, full_name, work_email,
			   position, department, hire_date, status, bank_name, bank_account,
			   basic_salary, created_at, updated_at`

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO employees (
			user_id, company_id, employee_code, full_name, work_email,
			position, department, hire_date, status, bank_name, bank_account, basic_salary
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING %s
	`, employeeColumns)

	var e employee.Employee
	err := q.QueryRow(ctx, query,
		newEmployee.UserID, newEmployee.CompanyID, newEmployee.EmployeeCode, newEmployee.FullName, newEmployee.WorkEmail,
		newEmployee.Position, newEmployee.Department, newEmployee.HireDate, newEmployee.Status,
		newEmployee.BankName, newEmployee.BankAccount, newEmployee.BasicSalary,
	).Scan(
		&e.ID, &e.UserID, &e.CompanyID, &e.EmployeeCode, &e.FullName, &e.WorkEmail,
		&e.Position, &e.Department, &e.HireDate, &e.Status, &e.BankName, &e.BankAccount,
		&e.BasicSalary, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_employee_code") {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		if strings.Contains(err.Error(), "uk_employee_work_email") {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return e, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees
		WHERE id = $1 AND company_id = $2
	`, employeeColumns)

	var e employee.Employee
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&e.ID, &e.UserID, &e.CompanyID, &e.EmployeeCode, &e.FullName, &e.WorkEmail,
		&e.Position, &e.Department, &e.HireDate, &e.Status, &e.BankName, &e.BankAccount,
		&e.BasicSalary, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

func (r *employeeRepository) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees
		WHERE company_id = $1 AND status = 'active'
		ORDER BY full_name ASC
	`, employeeColumns)

	return r.scanEmployees(ctx, q, query, companyID)
}

func (r *employeeRepository) List(ctx context.Context, companyID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees
		WHERE company_id = $1
		ORDER BY full_name ASC
	`, employeeColumns)

	return r.scanEmployees(ctx, q, query, companyID)
}

func (r *employeeRepository) CompanyIDsWithActiveEmployees(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT DISTINCT company_id FROM employees WHERE status = 'active'`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies with active employees: %w", err)
	}
	defer rows.Close()

	var companyIDs []string
	for rows.Next() {
		var companyID string
		if err := rows.Scan(&companyID); err != nil {
			return nil, fmt.Errorf("failed to scan company id: %w", err)
		}
		companyIDs = append(companyIDs, companyID)
	}

	return companyIDs, nil
}

func (r *employeeRepository) scanEmployees(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]employee.Employee, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.CompanyID, &e.EmployeeCode, &e.FullName, &e.WorkEmail,
			&e.Position, &e.Department, &e.HireDate, &e.Status, &e.BankName, &e.BankAccount,
			&e.BasicSalary, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	return employees, nil
}
