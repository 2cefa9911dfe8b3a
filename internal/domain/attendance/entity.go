package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Attendance struct {
	ID            string
	EmployeeID    string
	CompanyID     string
	Date          time.Time
	CheckIn       *time.Time
	CheckOut      *time.Time
	WorkingHours  *decimal.Decimal
	OvertimeHours decimal.Decimal
	Status        string
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const (
	StatusPresent    = "present"
	StatusAbsent     = "absent"
	StatusLate       = "late"
	StatusEarlyLeave = "early_leave"
)
