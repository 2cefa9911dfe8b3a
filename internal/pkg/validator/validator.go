package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Component codes: uppercase snake, e.g. "MEAL", "TRANSPORT", "BPJS_EXTRA".
var componentCodeRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]{1,31}$`)

func IsValidComponentCode(code string) bool {
	return componentCodeRegex.MatchString(code)
}

// Payroll periods are calendar months written as "YYYY-MM". A zero-padded
// month is required; "2024-1" is rejected.
var periodRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

func IsValidPeriod(period string) bool {
	return periodRegex.MatchString(period)
}

// PeriodBounds returns the first and last calendar day of a "YYYY-MM" period.
func PeriodBounds(period string) (time.Time, time.Time, error) {
	if !IsValidPeriod(period) {
		return time.Time{}, time.Time{}, &PeriodError{Period: period}
	}
	first, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, time.Time{}, &PeriodError{Period: period}
	}
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}

// PeriodError reports a malformed payroll period.
type PeriodError struct {
	Period string
}

func (e *PeriodError) Error() string {
	return "invalid period " + e.Period + ": expected YYYY-MM"
}

// IsValidDate checks "YYYY-MM-DD" date strings.
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
