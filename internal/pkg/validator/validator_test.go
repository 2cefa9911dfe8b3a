package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidPeriod(t *testing.T) {
	valid := []string{"2024-01", "2024-12", "1999-06", "2026-09"}
	for _, period := range valid {
		assert.True(t, IsValidPeriod(period), "period %q must be accepted", period)
	}

	invalid := []string{"", "2024-1", "2024-13", "2024-00", "24-01", "2024/01", "2024-01-01", "abc", "January 2024"}
	for _, period := range invalid {
		assert.False(t, IsValidPeriod(period), "period %q must be rejected", period)
	}
}

func TestPeriodBounds(t *testing.T) {
	first, last, err := PeriodBounds("2024-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), last, "2024 is a leap year")

	first, last, err = PeriodBounds("2023-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), last)

	_, _, err = PeriodBounds("2024-1")
	require.Error(t, err)

	var perr *PeriodError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "2024-1", perr.Period)
}

func TestIsValidComponentCode(t *testing.T) {
	valid := []string{"MEAL", "TRANSPORT", "BPJS_EXTRA", "LOAN2", "AB"}
	for _, code := range valid {
		assert.True(t, IsValidComponentCode(code), "code %q must be accepted", code)
	}

	invalid := []string{"", "A", "meal", "Meal", "1MEAL", "_MEAL", "MEAL ALLOWANCE", "MEAL-ALLOWANCE"}
	for _, code := range invalid {
		assert.False(t, IsValidComponentCode(code), "code %q must be rejected", code)
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("budi@example.com"))
	assert.True(t, IsValidEmail("hr.admin+test@company.co.id"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("missing@tld"))
	assert.False(t, IsValidEmail(""))
}

func TestIsValidDate(t *testing.T) {
	date, ok := IsValidDate("2024-06-15")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), date)

	_, ok = IsValidDate("2024-02-30")
	assert.False(t, ok)
	_, ok = IsValidDate("15-06-2024")
	assert.False(t, ok)
}

func TestValidationErrorsError(t *testing.T) {
	errs := ValidationErrors{
		{Field: "period", Message: "must be in YYYY-MM format"},
		{Field: "employee_id", Message: "is required"},
	}
	assert.Equal(t, "period: must be in YYYY-MM format; employee_id: is required", errs.Error())
	assert.Equal(t, map[string]string{
		"period":      "must be in YYYY-MM format",
		"employee_id": "is required",
	}, errs.ToMap())
}
