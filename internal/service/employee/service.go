package employee

import (
	"context"
	"fmt"

	"github.com/gajihub/payroll-backend-go/internal/domain/auth"
	"github.com/gajihub/payroll-backend-go/internal/domain/employee"
	"github.com/gajihub/payroll-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.Repository
}

func NewEmployeeService(employeeRepo employee.Repository) employee.EmployeeService {
	return &EmployeeServiceImpl{employeeRepo: employeeRepo}
}

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

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	hireDate, _ := validator.IsValidDate(req.HireDate)

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		CompanyID:    companyID,
		EmployeeCode: req.EmployeeCode,
		FullName:     req.FullName,
		WorkEmail:    req.WorkEmail,
		Position:     req.Position,
		Department:   req.Department,
		HireDate:     hireDate,
		Status:       employee.StatusActive,
		BankName:     req.BankName,
		BankAccount:  req.BankAccount,
		BasicSalary:  req.BasicSalary,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return mapToResponse(created), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	found, err := s.employeeRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return mapToResponse(found), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context) ([]employee.EmployeeResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, mapToResponse(e))
	}

	return responses, nil
}

func mapToResponse(e employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:           e.ID,
		CompanyID:    e.CompanyID,
		EmployeeCode: e.EmployeeCode,
		FullName:     e.FullName,
		WorkEmail:    e.WorkEmail,
		Position:     e.Position,
		Department:   e.Department,
		HireDate:     e.HireDate.Format("2006-01-02"),
		Status:       string(e.Status),
		BankName:     e.BankName,
		BankAccount:  e.BankAccount,
		BasicSalary:  e.BasicSalary,
	}
}
