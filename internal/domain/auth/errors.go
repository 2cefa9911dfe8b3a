package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or missing token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("refresh token revoked")
	ErrCompanyScopeMissed = errors.New("company_id claim is missing or invalid")
)
