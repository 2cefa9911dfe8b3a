package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrDuplicateDate      = errors.New("attendance already recorded for this date")
)
