package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kargo-erp/hr-backend-go/internal/domain/schedule"
	"github.com/kargo-erp/hr-backend-go/internal/pkg/database"
)

type scheduleAssignmentRepositoryImpl struct {
	db *database.DB
}

func NewScheduleAssignmentRepository(db *database.DB) schedule.ScheduleAssignmentRepository {
	return &scheduleAssignmentRepositoryImpl{db: db}
}

const assignmentColumns = `
	id, employee_id, company_id, work_schedule_id, shift_name,
	effective_date, expiry_date, created_at, updated_at
`

// Create implements schedule.ScheduleAssignmentRepository.
func (r *scheduleAssignmentRepositoryImpl) Create(ctx context.Context, assignment schedule.ScheduleAssignment) (schedule.ScheduleAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO schedule_assignments (
			id, employee_id, company_id, work_schedule_id, shift_name,
			effective_date, expiry_date, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4,
			$5, $6, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		assignment.EmployeeID, assignment.CompanyID, assignment.WorkScheduleID, assignment.ShiftName,
		assignment.EffectiveDate, assignment.ExpiryDate,
	).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt)
	if err != nil {
		return schedule.ScheduleAssignment{}, fmt.Errorf("failed to create schedule assignment: %w", err)
	}

	return assignment, nil
}

// GetByID implements schedule.ScheduleAssignmentRepository.
func (r *scheduleAssignmentRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (schedule.ScheduleAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + assignmentColumns + `
		FROM schedule_assignments
		WHERE id = $1 AND company_id = $2
	`

	var a schedule.ScheduleAssignment
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&a.ID, &a.EmployeeID, &a.CompanyID, &a.WorkScheduleID, &a.ShiftName,
		&a.EffectiveDate, &a.ExpiryDate, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.ScheduleAssignment{}, schedule.ErrAssignmentNotFound
		}
		return schedule.ScheduleAssignment{}, fmt.Errorf("failed to get schedule assignment: %w", err)
	}

	return a, nil
}

// GetByEmployeeID implements schedule.ScheduleAssignmentRepository.
func (r *scheduleAssignmentRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string, companyID string) ([]schedule.ScheduleAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + assignmentColumns + `
		FROM schedule_assignments
		WHERE employee_id = $1 AND company_id = $2
		ORDER BY effective_date DESC
	`

	rows, err := q.Query(ctx, query, employeeID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule assignments: %w", err)
	}
	defer rows.Close()

	return scanAssignments(rows)
}

// ListCovering implements schedule.ScheduleAssignmentRepository.
func (r *scheduleAssignmentRepositoryImpl) ListCovering(ctx context.Context, employeeID string, date time.Time, companyID string) ([]schedule.ScheduleAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + assignmentColumns + `
		FROM schedule_assignments
		WHERE employee_id = $1 AND company_id = $3
			AND effective_date <= $2::date
			AND (expiry_date IS NULL OR expiry_date >= $2::date)
		ORDER BY effective_date DESC
	`

	rows, err := q.Query(ctx, query, employeeID, date, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list covering schedule assignments: %w", err)
	}
	defer rows.Close()

	return scanAssignments(rows)
}

// UpdateExpiry implements schedule.ScheduleAssignmentRepository.
func (r *scheduleAssignmentRepositoryImpl) UpdateExpiry(ctx context.Context, id string, expiryDate time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE schedule_assignments
		SET expiry_date = $2, updated_at = NOW()
		WHERE id = $1
	`, id, expiryDate)
	if err != nil {
		return fmt.Errorf("failed to update schedule assignment expiry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrAssignmentNotFound
	}
	return nil
}

// Delete implements schedule.ScheduleAssignmentRepository.
func (r *scheduleAssignmentRepositoryImpl) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM schedule_assignments WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrAssignmentNotFound
	}
	return nil
}

func scanAssignments(rows pgx.Rows) ([]schedule.ScheduleAssignment, error) {
	var assignments []schedule.ScheduleAssignment
	for rows.Next() {
		var a schedule.ScheduleAssignment
		err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.CompanyID, &a.WorkScheduleID, &a.ShiftName,
			&a.EffectiveDate, &a.ExpiryDate, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
