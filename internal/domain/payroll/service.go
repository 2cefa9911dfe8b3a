package payroll

import "context"

// Service is the payroll business surface: component management, the
// calculator, record access and the payslip renderer.
type Service interface {
	// Components
	CreateComponent(ctx context.Context, req CreateSalaryComponentRequest) (SalaryComponentResponse, error)
	GetComponent(ctx context.Context, id string) (SalaryComponentResponse, error)
	ListComponents(ctx context.Context, activeOnly bool) ([]SalaryComponentResponse, error)
	UpdateComponent(ctx context.Context, req UpdateSalaryComponentRequest) error
	DeactivateComponent(ctx context.Context, id string) error

	// Employee components
	AssignComponent(ctx context.Context, req AssignComponentRequest) (EmployeeComponentResponse, error)
	GetEmployeeComponents(ctx context.Context, employeeID string) ([]EmployeeComponentResponse, error)
	RemoveEmployeeComponent(ctx context.Context, id string) error

	// Processing
	ProcessPayroll(ctx context.Context, req ProcessPayrollRequest) (ProcessPayrollResponse, error)
	// ProcessForCompany is the claims-free entry point used by the
	// background job.
	ProcessForCompany(ctx context.Context, companyID string, req ProcessPayrollRequest) (ProcessPayrollResponse, error)

	// Records
	GetRecord(ctx context.Context, id string) (PayrollRecordResponse, error)
	ListRecords(ctx context.Context, filter PayrollFilter) (ListPayrollRecordResponse, error)
	UpdateStatus(ctx context.Context, req UpdatePayrollStatusRequest) (PayrollRecordResponse, error)
	GetSummary(ctx context.Context, period string) (PayrollSummaryResponse, error)

	// Payslip
	RenderPayslip(ctx context.Context, recordID string) ([]byte, error)
}
