package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/gajihub/payroll-backend-go/internal/domain/attendance"
	"github.com/gajihub/payroll-backend-go/internal/domain/auth"
	"github.com/gajihub/payroll-backend-go/internal/domain/employee"
	"github.com/gajihub/payroll-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.Repository
	employeeRepo   employee.Repository
}

func NewAttendanceService(attendanceRepo attendance.Repository, employeeRepo employee.Repository) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
	}
}

func getClaimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", auth.ErrCompanyScopeMissed
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

// CreateAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CreateAttendance(ctx context.Context, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	// Reject attendance for employees outside the caller's company.
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)

	overtimeHours := decimal.Zero
	if req.OvertimeHours != nil {
		overtimeHours = *req.OvertimeHours
	}

	status := attendance.StatusPresent
	if req.Status != nil {
		status = *req.Status
	}

	att := attendance.Attendance{
		EmployeeID:    req.EmployeeID,
		CompanyID:     companyID,
		Date:          date,
		OvertimeHours: overtimeHours,
		Status:        status,
		Notes:         req.Notes,
	}

	if req.CheckIn != nil {
		checkIn, err := time.Parse(time.RFC3339, *req.CheckIn)
		if err != nil {
			return attendance.AttendanceResponse{}, validator.ValidationErrors{{Field: "check_in", Message: "must be an RFC3339 timestamp"}}
		}
		att.CheckIn = &checkIn
	}
	if req.CheckOut != nil {
		checkOut, err := time.Parse(time.RFC3339, *req.CheckOut)
		if err != nil {
			return attendance.AttendanceResponse{}, validator.ValidationErrors{{Field: "check_out", Message: "must be an RFC3339 timestamp"}}
		}
		att.CheckOut = &checkOut
	}

	if att.CheckIn != nil && att.CheckOut != nil {
		worked := decimal.NewFromFloat(att.CheckOut.Sub(*att.CheckIn).Hours()).Round(2)
		att.WorkingHours = &worked
	}

	created, err := s.attendanceRepo.Create(ctx, att)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapToResponse(created), nil
}

// ListAttendances implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendances(ctx context.Context, employeeID string, from, to string) ([]attendance.AttendanceResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	fromDate, ok := validator.IsValidDate(from)
	if !ok {
		return nil, validator.ValidationErrors{{Field: "from", Message: "must be in YYYY-MM-DD format"}}
	}
	toDate, ok := validator.IsValidDate(to)
	if !ok {
		return nil, validator.ValidationErrors{{Field: "to", Message: "must be in YYYY-MM-DD format"}}
	}

	attendances, err := s.attendanceRepo.ListByEmployeeDateRange(ctx, employeeID, companyID, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, a := range attendances {
		responses = append(responses, mapToResponse(a))
	}

	return responses, nil
}

// SetOvertime implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SetOvertime(ctx context.Context, req attendance.SetOvertimeRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := s.attendanceRepo.SetOvertimeHours(ctx, req.ID, companyID, req.OvertimeHours)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapToResponse(updated), nil
}

func mapToResponse(a attendance.Attendance) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		Date:          a.Date.Format("2006-01-02"),
		WorkingHours:  a.WorkingHours,
		OvertimeHours: a.OvertimeHours,
		Status:        a.Status,
		Notes:         a.Notes,
	}
	if a.CheckIn != nil {
		checkIn := a.CheckIn.Format(time.RFC3339)
		resp.CheckIn = &checkIn
	}
	if a.CheckOut != nil {
		checkOut := a.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &checkOut
	}
	return resp
}
