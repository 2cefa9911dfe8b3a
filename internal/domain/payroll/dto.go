package payroll

import (
	"fmt"

	"github.com/gajihub/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== COMPONENT DTOs ==========

type CreateSalaryComponentRequest struct {
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	Type          string           `json:"type"` // "allowance" or "deduction"
	Description   *string          `json:"description,omitempty"`
	DefaultAmount *decimal.Decimal `json:"default_amount,omitempty"`
}

func (r *CreateSalaryComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidComponentCode(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "must be 2-32 uppercase letters, digits or underscores"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if r.Type != string(ComponentTypeAllowance) && r.Type != string(ComponentTypeDeduction) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'allowance' or 'deduction'"})
	}
	if r.DefaultAmount != nil && r.DefaultAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "default_amount", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateSalaryComponentRequest struct {
	ID            string
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	DefaultAmount *decimal.Decimal `json:"default_amount,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
}

type SalaryComponentResponse struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Description   *string         `json:"description,omitempty"`
	DefaultAmount decimal.Decimal `json:"default_amount"`
	IsActive      bool            `json:"is_active"`
}

// ========== EMPLOYEE COMPONENT DTOs ==========

type AssignComponentRequest struct {
	EmployeeID  string           `json:"-"`
	ComponentID string           `json:"component_id"`
	Amount      *decimal.Decimal `json:"amount,omitempty"` // nil = component default
}

func (r *AssignComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ComponentID) {
		errs = append(errs, validator.ValidationError{Field: "component_id", Message: "is required"})
	}
	if r.Amount != nil && r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeComponentResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	ComponentID   string          `json:"component_id"`
	ComponentCode string          `json:"component_code"`
	ComponentName string          `json:"component_name"`
	ComponentType string          `json:"component_type"`
	Amount        decimal.Decimal `json:"amount"`
	IsActive      bool            `json:"is_active"`
}

// ========== PROCESSING DTOs ==========

type ProcessPayrollRequest struct {
	Period     string  `json:"period"`                // "YYYY-MM"
	EmployeeID *string `json:"employee_id,omitempty"` // nil = all active employees
}

func (r *ProcessPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidPeriod(r.Period) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "must be in YYYY-MM format"})
	}
	if r.EmployeeID != nil && validator.IsEmpty(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must not be empty when provided"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ProcessFailure records one employee the calculator could not process.
type ProcessFailure struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

// ProcessPayrollResponse is the batch report for one calculator run. Records
// already present for the period are returned unchanged next to freshly
// computed ones; failures never roll back records written before them.
type ProcessPayrollResponse struct {
	Period    string                  `json:"period"`
	Processed []PayrollRecordResponse `json:"processed"`
	Failures  []ProcessFailure        `json:"failures,omitempty"`
	Summary   string                  `json:"summary"`
}

// BuildSummary renders the "N of M" line shown to the caller.
func BuildSummary(processed, requested int) string {
	return fmt.Sprintf("payroll processed for %d of %d employees", processed, requested)
}

// ========== RECORD DTOs ==========

type PayrollRecordResponse struct {
	ID             string                     `json:"id"`
	EmployeeID     string                     `json:"employee_id"`
	EmployeeName   *string                    `json:"employee_name,omitempty"`
	EmployeeCode   *string                    `json:"employee_code,omitempty"`
	Position       *string                    `json:"position,omitempty"`
	Department     *string                    `json:"department,omitempty"`
	Period         string                     `json:"period"`
	BasicSalary    decimal.Decimal            `json:"basic_salary"`
	Allowances     map[string]decimal.Decimal `json:"allowances"`
	OvertimePay    decimal.Decimal            `json:"overtime_pay"`
	GrossSalary    decimal.Decimal            `json:"gross_salary"`
	BPJSHealth     decimal.Decimal            `json:"bpjs_health"`
	BPJSEmployment decimal.Decimal            `json:"bpjs_employment"`
	PPh21          decimal.Decimal            `json:"pph21"`
	Deductions     map[string]decimal.Decimal `json:"deductions"`
	NetSalary      decimal.Decimal            `json:"net_salary"`
	Status         string                     `json:"status"`
	ProcessedAt    *string                    `json:"processed_at,omitempty"`
	PaidAt         *string                    `json:"paid_at,omitempty"`
	SlipGenerated  bool                       `json:"slip_generated"`
}

type UpdatePayrollStatusRequest struct {
	ID     string
	Status string `json:"status"`
}

func (r *UpdatePayrollStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	switch PayrollStatus(r.Status) {
	case PayrollStatusProcessed, PayrollStatusPaid:
	default:
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be 'processed' or 'paid'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollFilter struct {
	Period     *string
	Status     *string
	EmployeeID *string
	Page       int
	Limit      int
}

type ListPayrollRecordResponse struct {
	Data       []PayrollRecordResponse `json:"data"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
}

type PayrollSummaryResponse struct {
	Period           string          `json:"period"`
	TotalEmployees   int             `json:"total_employees"`
	TotalBasicSalary decimal.Decimal `json:"total_basic_salary"`
	TotalOvertime    decimal.Decimal `json:"total_overtime"`
	TotalGrossSalary decimal.Decimal `json:"total_gross_salary"`
	TotalBPJSHealth  decimal.Decimal `json:"total_bpjs_health"`
	TotalBPJSEmp     decimal.Decimal `json:"total_bpjs_employment"`
	TotalPPh21       decimal.Decimal `json:"total_pph21"`
	TotalNetSalary   decimal.Decimal `json:"total_net_salary"`
	DraftCount       int             `json:"draft_count"`
	ProcessedCount   int             `json:"processed_count"`
	PaidCount        int             `json:"paid_count"`
}
