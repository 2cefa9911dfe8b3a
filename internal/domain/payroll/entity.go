package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComponentType enum
type ComponentType string

const (
	ComponentTypeAllowance ComponentType = "allowance"
	ComponentTypeDeduction ComponentType = "deduction"
)

// SalaryComponent - company-scoped pay component definition
type SalaryComponent struct {
	ID            string
	CompanyID     string
	Code          string
	Name          string
	Type          ComponentType
	Description   *string
	DefaultAmount decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EmployeeSalaryComponent - per-employee override of a company component.
// Removal flips IsActive instead of deleting the row, history stays intact.
type EmployeeSalaryComponent struct {
	ID          string
	EmployeeID  string
	ComponentID string
	Amount      decimal.Decimal
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	ComponentCode *string
	ComponentName *string
	ComponentType *ComponentType
}

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusDraft     PayrollStatus = "draft"
	PayrollStatusProcessed PayrollStatus = "processed"
	PayrollStatusPaid      PayrollStatus = "paid"
)

// Statutory deduction codes used in the deductions detail map alongside
// component codes.
const (
	DeductionCodeBPJSHealth     = "bpjs_health"
	DeductionCodeBPJSEmployment = "bpjs_employment"
	DeductionCodePPh21          = "pph21"
)

// PayrollRecord - computed payroll for one employee and one period.
// At most one row exists per (employee_id, period); the calculator treats an
// existing row as immutable and returns it unchanged.
type PayrollRecord struct {
	ID             string
	EmployeeID     string
	CompanyID      string
	Period         string // "YYYY-MM"
	BasicSalary    decimal.Decimal
	OvertimePay    decimal.Decimal
	Allowances     map[string]decimal.Decimal // component code -> amount
	Deductions     map[string]decimal.Decimal // component codes + statutory codes
	GrossSalary    decimal.Decimal
	BPJSHealth     decimal.Decimal
	BPJSEmployment decimal.Decimal
	PPh21          decimal.Decimal
	NetSalary      decimal.Decimal
	Status         PayrollStatus
	ProcessedAt    *time.Time
	PaidAt         *time.Time
	SlipGenerated  bool
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
	Position     *string
	Department   *string
	BankName     *string
	BankAccount  *string
}

// TotalAllowances sums the component allowance breakdown.
func (r PayrollRecord) TotalAllowances() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range r.Allowances {
		total = total.Add(amount)
	}
	return total
}

// TotalDeductions sums the deduction breakdown, statutory figures included.
func (r PayrollRecord) TotalDeductions() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range r.Deductions {
		total = total.Add(amount)
	}
	return total
}

// CanTransitionTo reports whether a status change is a legal forward step.
// The calculator only ever creates drafts; transitions happen through the
// status update path.
func (s PayrollStatus) CanTransitionTo(next PayrollStatus) bool {
	switch s {
	case PayrollStatusDraft:
		return next == PayrollStatusProcessed
	case PayrollStatusProcessed:
		return next == PayrollStatusPaid
	default:
		return false
	}
}
