package attendance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository defines data access methods for attendance records.
// All methods include companyID to prevent cross-company data access.
type Repository interface {
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string, companyID string) (Attendance, error)

	// ListByEmployeeDateRange returns records whose date falls within [from, to].
	ListByEmployeeDateRange(ctx context.Context, employeeID string, companyID string, from, to time.Time) ([]Attendance, error)

	// SumOvertimeHours aggregates overtime_hours over [from, to] for one
	// employee. Months without records sum to zero.
	SumOvertimeHours(ctx context.Context, employeeID string, companyID string, from, to time.Time) (decimal.Decimal, error)

	// SetOvertimeHours replaces the overtime figure on one record.
	SetOvertimeHours(ctx context.Context, id string, companyID string, hours decimal.Decimal) (Attendance, error)
}
