package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kargo-erp/hr-backend-go/internal/domain/schedule"
	"github.com/kargo-erp/hr-backend-go/internal/pkg/database"
)

type workScheduleRepositoryImpl struct {
	db *database.DB
}

func NewWorkScheduleRepository(db *database.DB) schedule.WorkScheduleRepository {
	return &workScheduleRepositoryImpl{db: db}
}

// Create implements schedule.WorkScheduleRepository.
func (w *workScheduleRepositoryImpl) Create(ctx context.Context, ws schedule.WorkSchedule) (schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, w.db)

	query := `
		INSERT INTO work_schedules (
			id, company_id, name, kind, work_days,
			start_time, end_time, break_minutes,
			core_start_time, core_end_time, min_work_hours,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		ws.CompanyID, ws.Name, ws.Kind, ws.WorkDays,
		ws.StartTime, ws.EndTime, ws.BreakMinutes,
		ws.CoreStartTime, ws.CoreEndTime, ws.MinWorkHours,
	).Scan(&ws.ID, &ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNameExists
		}
		return schedule.WorkSchedule{}, fmt.Errorf("failed to create work schedule: %w", err)
	}

	for i := range ws.Shifts {
		shiftQuery := `
			INSERT INTO work_schedule_shifts (
				id, work_schedule_id, position, name, start_time, end_time, break_minutes
			) VALUES (
				uuidv7(), $1, $2, $3, $4, $5, $6
			) RETURNING id
		`
		s := &ws.Shifts[i]
		s.WorkScheduleID = ws.ID
		s.Position = i
		err := q.QueryRow(ctx, shiftQuery,
			ws.ID, s.Position, s.Name, s.StartTime, s.EndTime, s.BreakMinutes,
		).Scan(&s.ID)
		if err != nil {
			return schedule.WorkSchedule{}, fmt.Errorf("failed to create work schedule shift: %w", err)
		}
	}

	return ws, nil
}

// GetByID implements schedule.WorkScheduleRepository.
func (w *workScheduleRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (schedule.WorkSchedule, error) {
	return w.getOne(ctx, "ws.id = $1", id, companyID)
}

// GetByName implements schedule.WorkScheduleRepository.
func (w *workScheduleRepositoryImpl) GetByName(ctx context.Context, name string, companyID string) (schedule.WorkSchedule, error) {
	return w.getOne(ctx, "ws.name = $1", name, companyID)
}

func (w *workScheduleRepositoryImpl) getOne(ctx context.Context, cond string, key string, companyID string) (schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, w.db)

	query := fmt.Sprintf(`
		SELECT ws.id, ws.company_id, ws.name, ws.kind, ws.work_days,
			ws.start_time, ws.end_time, ws.break_minutes,
			ws.core_start_time, ws.core_end_time, ws.min_work_hours,
			ws.created_at, ws.updated_at
		FROM work_schedules ws
		WHERE %s AND ws.company_id = $2
	`, cond)

	var ws schedule.WorkSchedule
	err := q.QueryRow(ctx, query, key, companyID).Scan(
		&ws.ID, &ws.CompanyID, &ws.Name, &ws.Kind, &ws.WorkDays,
		&ws.StartTime, &ws.EndTime, &ws.BreakMinutes,
		&ws.CoreStartTime, &ws.CoreEndTime, &ws.MinWorkHours,
		&ws.CreatedAt, &ws.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNotFound
		}
		return schedule.WorkSchedule{}, fmt.Errorf("failed to get work schedule: %w", err)
	}

	shifts, err := w.listShifts(ctx, ws.ID)
	if err != nil {
		return schedule.WorkSchedule{}, err
	}
	ws.Shifts = shifts

	return ws, nil
}

func (w *workScheduleRepositoryImpl) listShifts(ctx context.Context, workScheduleID string) ([]schedule.Shift, error) {
	q := GetQuerier(ctx, w.db)

	query := `
		SELECT id, work_schedule_id, position, name, start_time, end_time, break_minutes
		FROM work_schedule_shifts
		WHERE work_schedule_id = $1
		ORDER BY position ASC
	`

	rows, err := q.Query(ctx, query, workScheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list work schedule shifts: %w", err)
	}
	defer rows.Close()

	var shifts []schedule.Shift
	for rows.Next() {
		var s schedule.Shift
		if err := rows.Scan(&s.ID, &s.WorkScheduleID, &s.Position, &s.Name, &s.StartTime, &s.EndTime, &s.BreakMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan work schedule shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// List implements schedule.WorkScheduleRepository.
func (w *workScheduleRepositoryImpl) List(ctx context.Context, companyID string, filter schedule.WorkScheduleFilter) ([]schedule.WorkSchedule, int64, error) {
	q := GetQuerier(ctx, w.db)

	args := []any{companyID}
	cond := "company_id = $1"
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		cond += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		cond += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM work_schedules WHERE " + cond
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count work schedules: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)
	query := fmt.Sprintf(`
		SELECT id, company_id, name, kind, work_days,
			start_time, end_time, break_minutes,
			core_start_time, core_end_time, min_work_hours,
			created_at, updated_at
		FROM work_schedules
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, cond, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list work schedules: %w", err)
	}
	defer rows.Close()

	var schedules []schedule.WorkSchedule
	for rows.Next() {
		var ws schedule.WorkSchedule
		err := rows.Scan(
			&ws.ID, &ws.CompanyID, &ws.Name, &ws.Kind, &ws.WorkDays,
			&ws.StartTime, &ws.EndTime, &ws.BreakMinutes,
			&ws.CoreStartTime, &ws.CoreEndTime, &ws.MinWorkHours,
			&ws.CreatedAt, &ws.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan work schedule: %w", err)
		}
		schedules = append(schedules, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range schedules {
		if schedules[i].Kind != schedule.KindShift {
			continue
		}
		shifts, err := w.listShifts(ctx, schedules[i].ID)
		if err != nil {
			return nil, 0, err
		}
		schedules[i].Shifts = shifts
	}

	return schedules, total, nil
}

// Delete implements schedule.WorkScheduleRepository.
func (w *workScheduleRepositoryImpl) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, w.db)

	tag, err := q.Exec(ctx, `DELETE FROM work_schedules WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete work schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrWorkScheduleNotFound
	}
	return nil
}
