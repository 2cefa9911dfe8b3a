package employee

import "context"

type Repository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
	List(ctx context.Context, companyID string) ([]Employee, error)

	// CompanyIDsWithActiveEmployees feeds the background payroll job.
	CompanyIDsWithActiveEmployees(ctx context.Context) ([]string, error)
}
