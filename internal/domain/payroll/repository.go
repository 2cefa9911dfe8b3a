package payroll

import "context"

// Repository defines data access methods for salary components and payroll
// records. All methods include companyID to prevent cross-company data access.
type Repository interface {
	// Components
	CreateComponent(ctx context.Context, component SalaryComponent) (SalaryComponent, error)
	GetComponentByID(ctx context.Context, id string, companyID string) (SalaryComponent, error)
	GetComponentsByCompanyID(ctx context.Context, companyID string, activeOnly bool) ([]SalaryComponent, error)
	UpdateComponent(ctx context.Context, companyID string, req UpdateSalaryComponentRequest) error
	DeactivateComponent(ctx context.Context, id string, companyID string) error

	// Employee components
	UpsertEmployeeComponent(ctx context.Context, assignment EmployeeSalaryComponent, companyID string) (EmployeeSalaryComponent, error)
	GetEmployeeComponents(ctx context.Context, employeeID string, companyID string, activeOnly bool) ([]EmployeeSalaryComponent, error)
	DeactivateEmployeeComponent(ctx context.Context, id string, companyID string) error

	// Payroll records
	CreateRecord(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	GetRecordByID(ctx context.Context, id string, companyID string) (PayrollRecord, error)
	GetRecordByEmployeePeriod(ctx context.Context, employeeID string, period string, companyID string) (PayrollRecord, error)
	ListRecords(ctx context.Context, companyID string, filter PayrollFilter) ([]PayrollRecord, int64, error)
	UpdateRecordStatus(ctx context.Context, id string, companyID string, status PayrollStatus) (PayrollRecord, error)
	MarkSlipGenerated(ctx context.Context, id string, companyID string) error

	// Aggregations
	GetSummary(ctx context.Context, companyID string, period string) (PayrollSummaryResponse, error)
}
