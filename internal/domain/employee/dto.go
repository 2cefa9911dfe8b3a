package employee

import (
	"github.com/gajihub/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	EmployeeCode string           `json:"employee_code"`
	FullName     string           `json:"full_name"`
	WorkEmail    string           `json:"work_email"`
	Position     string           `json:"position"`
	Department   *string          `json:"department,omitempty"`
	HireDate     string           `json:"hire_date"` // "YYYY-MM-DD"
	BankName     *string          `json:"bank_name,omitempty"`
	BankAccount  *string          `json:"bank_account,omitempty"`
	BasicSalary  *decimal.Decimal `json:"basic_salary,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "is required"})
	}
	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "is required"})
	}
	if !validator.IsValidEmail(r.WorkEmail) {
		errs = append(errs, validator.ValidationError{Field: "work_email", Message: "must be a valid email"})
	}
	if validator.IsEmpty(r.Position) {
		errs = append(errs, validator.ValidationError{Field: "position", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "hire_date", Message: "must be in YYYY-MM-DD format"})
	}
	if r.BasicSalary != nil && r.BasicSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "basic_salary", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID           string           `json:"id"`
	CompanyID    string           `json:"company_id"`
	EmployeeCode string           `json:"employee_code"`
	FullName     string           `json:"full_name"`
	WorkEmail    string           `json:"work_email"`
	Position     string           `json:"position"`
	Department   *string          `json:"department,omitempty"`
	HireDate     string           `json:"hire_date"`
	Status       string           `json:"status"`
	BankName     *string          `json:"bank_name,omitempty"`
	BankAccount  *string          `json:"bank_account,omitempty"`
	BasicSalary  *decimal.Decimal `json:"basic_salary,omitempty"`
}
