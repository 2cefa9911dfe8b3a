package user

import "time"

type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
)

// CanManagePayroll gates payroll processing, component management and status
// transitions.
func (r Role) CanManagePayroll() bool {
	return r == RoleAdmin || r == RoleHR
}
