package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gajihub/payroll-backend-go/internal/domain/auth"
	"github.com/gajihub/payroll-backend-go/internal/domain/employee"
	"github.com/gajihub/payroll-backend-go/internal/domain/payroll"
	"github.com/gajihub/payroll-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"company scope missing", auth.ErrCompanyScopeMissed, http.StatusUnauthorized},
		{"employee email exists", employee.ErrEmailExists, http.StatusConflict},
		{"employee not found", employee.ErrEmployeeNotFound, http.StatusNotFound},
		{"payroll period taken", payroll.ErrPayrollRecordAlreadyExists, http.StatusConflict},
		{"bad transition", payroll.ErrInvalidStatusTransition, http.StatusConflict},
		{"invalid period", payroll.ErrInvalidPeriod, http.StatusBadRequest},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tc.err)
			assert.Equal(t, tc.status, rec.Code)

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
		})
	}
}

func TestHandleErrorValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{
		{Field: "period", Message: "must be in YYYY-MM format"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "must be in YYYY-MM format", body.Error.Details["period"])
}
