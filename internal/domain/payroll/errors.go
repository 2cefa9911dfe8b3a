package payroll

import "errors"

var (
	ErrComponentNotFound          = errors.New("salary component not found")
	ErrComponentCodeExists        = errors.New("salary component code already exists")
	ErrEmployeeComponentNotFound  = errors.New("employee component assignment not found")
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrInvalidPeriod              = errors.New("period must be in YYYY-MM format")
	ErrInvalidComponentType       = errors.New("component type must be allowance or deduction")
	ErrInvalidStatusTransition    = errors.New("invalid payroll status transition")
	ErrEmployeeNotFound           = errors.New("employee not found")
)
