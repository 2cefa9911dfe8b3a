package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gajihub/payroll-backend-go/internal/domain/attendance"
	"github.com/gajihub/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `id, employee_id, company_id, date, check_in, check_out,
			   working_hours, overtime_hours, status, notes, created_at, updated_at`

func (r *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO attendances (
			employee_id, company_id, date, check_in, check_out,
			working_hours, overtime_hours, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`, attendanceColumns)

	var a attendance.Attendance
	err := q.QueryRow(ctx, query,
		att.EmployeeID, att.CompanyID, att.Date, att.CheckIn, att.CheckOut,
		att.WorkingHours, att.OvertimeHours, att.Status, att.Notes,
	).Scan(
		&a.ID, &a.EmployeeID, &a.CompanyID, &a.Date, &a.CheckIn, &a.CheckOut,
		&a.WorkingHours, &a.OvertimeHours, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_attendance_employee_date") {
			return attendance.Attendance{}, attendance.ErrDuplicateDate
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return a, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances
		WHERE id = $1 AND company_id = $2
	`, attendanceColumns)

	var a attendance.Attendance
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&a.ID, &a.EmployeeID, &a.CompanyID, &a.Date, &a.CheckIn, &a.CheckOut,
		&a.WorkingHours, &a.OvertimeHours, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return a, nil
}

func (r *attendanceRepository) ListByEmployeeDateRange(ctx context.Context, employeeID string, companyID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances
		WHERE employee_id = $1 AND company_id = $2 AND date BETWEEN $3 AND $4
		ORDER BY date ASC
	`, attendanceColumns)

	rows, err := q.Query(ctx, query, employeeID, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		var a attendance.Attendance
		if err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.CompanyID, &a.Date, &a.CheckIn, &a.CheckOut,
			&a.WorkingHours, &a.OvertimeHours, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, a)
	}

	return attendances, nil
}

func (r *attendanceRepository) SumOvertimeHours(ctx context.Context, employeeID string, companyID string, from, to time.Time) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(overtime_hours), 0)
		FROM attendances
		WHERE employee_id = $1 AND company_id = $2 AND date BETWEEN $3 AND $4
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, companyID, from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum overtime hours: %w", err)
	}

	return total, nil
}

func (r *attendanceRepository) SetOvertimeHours(ctx context.Context, id string, companyID string, hours decimal.Decimal) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE attendances
		SET overtime_hours = $3, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING %s
	`, attendanceColumns)

	var a attendance.Attendance
	err := q.QueryRow(ctx, query, id, companyID, hours).Scan(
		&a.ID, &a.EmployeeID, &a.CompanyID, &a.Date, &a.CheckIn, &a.CheckOut,
		&a.WorkingHours, &a.OvertimeHours, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update overtime hours: %w", err)
	}

	return a, nil
}
