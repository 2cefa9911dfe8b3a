package attendance

import (
	"github.com/gajihub/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateAttendanceRequest struct {
	EmployeeID    string           `json:"employee_id"`
	Date          string           `json:"date"` // "YYYY-MM-DD"
	CheckIn       *string          `json:"check_in,omitempty"`
	CheckOut      *string          `json:"check_out,omitempty"`
	OvertimeHours *decimal.Decimal `json:"overtime_hours,omitempty"`
	Status        *string          `json:"status,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

func (r *CreateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be in YYYY-MM-DD format"})
	}
	if r.OvertimeHours != nil && r.OvertimeHours.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "overtime_hours", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetOvertimeRequest struct {
	ID            string
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
}

func (r *SetOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.OvertimeHours.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "overtime_hours", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	ID            string           `json:"id"`
	EmployeeID    string           `json:"employee_id"`
	Date          string           `json:"date"`
	CheckIn       *string          `json:"check_in,omitempty"`
	CheckOut      *string          `json:"check_out,omitempty"`
	WorkingHours  *decimal.Decimal `json:"working_hours,omitempty"`
	OvertimeHours decimal.Decimal  `json:"overtime_hours"`
	Status        string           `json:"status"`
	Notes         *string          `json:"notes,omitempty"`
}
