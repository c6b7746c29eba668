package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kargo-erp/hr-backend-go/internal/domain/attendance"
	"github.com/kargo-erp/hr-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// Create implements attendance.AttendanceRepository. The unique key on
// (employee_id, date) turns a concurrent double check-in into
// ErrAlreadyCheckedIn instead of a second row.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			id, employee_id, company_id, date, check_in, check_out,
			check_in_latitude, check_in_longitude, device_info,
			status, work_hours, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.EmployeeID, a.CompanyID, a.Date, a.CheckIn, a.CheckOut,
		a.CheckInLatitude, a.CheckInLongitude, a.DeviceInfo,
		a.Status, a.WorkHours,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return a, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.employee_id, a.company_id, a.date, a.check_in, a.check_out,
			a.check_in_latitude, a.check_in_longitude,
			a.check_out_latitude, a.check_out_longitude, a.device_info,
			a.status, a.work_hours, a.created_at, a.updated_at,
			e.full_name
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1 AND a.company_id = $2
	`

	var a attendance.Attendance
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&a.ID, &a.EmployeeID, &a.CompanyID, &a.Date, &a.CheckIn, &a.CheckOut,
		&a.CheckInLatitude, &a.CheckInLongitude,
		&a.CheckOutLatitude, &a.CheckOutLongitude, &a.DeviceInfo,
		&a.Status, &a.WorkHours, &a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return a, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, date, check_in, check_out,
			check_in_latitude, check_in_longitude,
			check_out_latitude, check_out_longitude, device_info,
			status, work_hours, created_at, updated_at
		FROM attendances
		WHERE employee_id = $1 AND date = $2::date AND company_id = $3
	`

	var a attendance.Attendance
	err := q.QueryRow(ctx, query, employeeID, date, companyID).Scan(
		&a.ID, &a.EmployeeID, &a.CompanyID, &a.Date, &a.CheckIn, &a.CheckOut,
		&a.CheckInLatitude, &a.CheckInLongitude,
		&a.CheckOutLatitude, &a.CheckOutLongitude, &a.DeviceInfo,
		&a.Status, &a.WorkHours, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &a, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, a attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE attendances SET
			check_in = $3, check_out = $4,
			check_out_latitude = $5, check_out_longitude = $6,
			status = $7, work_hours = $8, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
	`, a.ID, a.CompanyID,
		a.CheckIn, a.CheckOut,
		a.CheckOutLatitude, a.CheckOutLongitude,
		a.Status, a.WorkHours,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter, companyID string) ([]attendance.Attendance, int64, error) {
	args := []any{companyID}
	cond := "a.company_id = $1"
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		cond += fmt.Sprintf(" AND a.employee_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		cond += fmt.Sprintf(" AND a.status = $%d", len(args))
	}
	return r.list(ctx, cond, args, filter.DateFrom, filter.DateTo, filter.Page, filter.Limit)
}

// GetMyAttendance implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter, companyID string) ([]attendance.Attendance, int64, error) {
	args := []any{companyID, employeeID}
	cond := "a.company_id = $1 AND a.employee_id = $2"
	return r.list(ctx, cond, args, filter.DateFrom, filter.DateTo, filter.Page, filter.Limit)
}

func (r *attendanceRepositoryImpl) list(ctx context.Context, cond string, args []any, dateFrom, dateTo string, page, limit int) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	if dateFrom != "" {
		args = append(args, dateFrom)
		cond += fmt.Sprintf(" AND a.date >= $%d::date", len(args))
	}
	if dateTo != "" {
		args = append(args, dateTo)
		cond += fmt.Sprintf(" AND a.date <= $%d::date", len(args))
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + cond
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	offset := (page - 1) * limit
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT a.id, a.employee_id, a.company_id, a.date, a.check_in, a.check_out,
			a.check_in_latitude, a.check_in_longitude,
			a.check_out_latitude, a.check_out_longitude, a.device_info,
			a.status, a.work_hours, a.created_at, a.updated_at,
			e.full_name
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.date DESC, a.check_in DESC
		LIMIT $%d OFFSET $%d
	`, cond, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		var a attendance.Attendance
		err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.CompanyID, &a.Date, &a.CheckIn, &a.CheckOut,
			&a.CheckInLatitude, &a.CheckInLongitude,
			&a.CheckOutLatitude, &a.CheckOutLongitude, &a.DeviceInfo,
			&a.Status, &a.WorkHours, &a.CreatedAt, &a.UpdatedAt,
			&a.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return attendances, total, nil
}
