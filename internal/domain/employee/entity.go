package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           string
	UserID       *string
	CompanyID    string
	EmployeeCode string
	FullName     string
	WorkEmail    string
	Position     string
	Department   *string
	HireDate     time.Time
	Status       Status
	BankName     *string
	BankAccount  *string
	// BasicSalary stays nullable: payroll substitutes the company default
	// for employees hired before salary data entry.
	BasicSalary *decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Status string

const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusTerminated Status = "terminated"
)
