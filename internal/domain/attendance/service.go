package attendance

import "context"

type AttendanceService interface {
	CreateAttendance(ctx context.Context, req CreateAttendanceRequest) (AttendanceResponse, error)
	ListAttendances(ctx context.Context, employeeID string, from, to string) ([]AttendanceResponse, error)
	SetOvertime(ctx context.Context, req SetOvertimeRequest) (AttendanceResponse, error)
}
