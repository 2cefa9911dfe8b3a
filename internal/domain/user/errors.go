package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrPayrollRoleNeeded = errors.New("admin or hr role required")
)
