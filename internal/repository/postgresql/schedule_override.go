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

type scheduleOverrideRepositoryImpl struct {
	db *database.DB
}

func NewScheduleOverrideRepository(db *database.DB) schedule.ScheduleOverrideRepository {
	return &scheduleOverrideRepositoryImpl{db: db}
}

// GetByEmployeeAndDate implements schedule.ScheduleOverrideRepository.
func (r *scheduleOverrideRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*schedule.ScheduleOverride, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, date, work_schedule_id, reason, created_by, created_at
		FROM schedule_overrides
		WHERE employee_id = $1 AND date = $2::date AND company_id = $3
	`

	var o schedule.ScheduleOverride
	err := q.QueryRow(ctx, query, employeeID, date, companyID).Scan(
		&o.ID, &o.EmployeeID, &o.CompanyID, &o.Date, &o.WorkScheduleID,
		&o.Reason, &o.CreatedBy, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get schedule override: %w", err)
	}

	return &o, nil
}

// Upsert implements schedule.ScheduleOverrideRepository. The unique key on
// (employee_id, date) makes a repeated add for the same date a replacement.
func (r *scheduleOverrideRepositoryImpl) Upsert(ctx context.Context, override schedule.ScheduleOverride) (schedule.ScheduleOverride, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO schedule_overrides (
			id, employee_id, company_id, date, work_schedule_id, reason, created_by, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, NOW()
		)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			work_schedule_id = EXCLUDED.work_schedule_id,
			reason = EXCLUDED.reason,
			created_by = EXCLUDED.created_by,
			created_at = NOW()
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		override.EmployeeID, override.CompanyID, override.Date,
		override.WorkScheduleID, override.Reason, override.CreatedBy,
	).Scan(&override.ID, &override.CreatedAt)
	if err != nil {
		return schedule.ScheduleOverride{}, fmt.Errorf("failed to upsert schedule override: %w", err)
	}

	return override, nil
}

// DeleteByEmployeeAndDate implements schedule.ScheduleOverrideRepository.
func (r *scheduleOverrideRepositoryImpl) DeleteByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		DELETE FROM schedule_overrides
		WHERE employee_id = $1 AND date = $2::date AND company_id = $3
	`, employeeID, date, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule override: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrOverrideNotFound
	}
	return nil
}

// ListByEmployee implements schedule.ScheduleOverrideRepository.
func (r *scheduleOverrideRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, companyID string) ([]schedule.ScheduleOverride, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, date, work_schedule_id, reason, created_by, created_at
		FROM schedule_overrides
		WHERE employee_id = $1 AND company_id = $2
		ORDER BY date DESC
	`

	rows, err := q.Query(ctx, query, employeeID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule overrides: %w", err)
	}
	defer rows.Close()

	var overrides []schedule.ScheduleOverride
	for rows.Next() {
		var o schedule.ScheduleOverride
		err := rows.Scan(
			&o.ID, &o.EmployeeID, &o.CompanyID, &o.Date, &o.WorkScheduleID,
			&o.Reason, &o.CreatedBy, &o.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule override: %w", err)
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}
