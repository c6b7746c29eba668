package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kargo-erp/hr-backend-go/internal/domain/holiday"
	"github.com/kargo-erp/hr-backend-go/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

const holidayColumns = `
	id, company_id, name, date, end_date, type, description, is_recurring,
	recur_month, recur_day, recur_nth, recur_day_of_week,
	branch_ids, created_at, updated_at
`

// Create implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO holidays (
			id, company_id, name, date, end_date, type, description, is_recurring,
			recur_month, recur_day, recur_nth, recur_day_of_week,
			branch_ids, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11,
			$12, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	recurMonth, recurDay, recurNth, recurDOW := patternColumns(h.Pattern)
	err := q.QueryRow(ctx, query,
		h.CompanyID, h.Name, h.Date, h.EndDate, h.Type, h.Description, h.IsRecurring,
		recurMonth, recurDay, recurNth, recurDOW,
		h.BranchIDs,
	).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	return h, nil
}

// GetByID implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + holidayColumns + `
		FROM holidays
		WHERE id = $1 AND company_id = $2
	`

	h, err := scanHoliday(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.Holiday{}, holiday.ErrHolidayNotFound
		}
		return holiday.Holiday{}, fmt.Errorf("failed to get holiday: %w", err)
	}

	return h, nil
}

// List implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) List(ctx context.Context, companyID string, filter holiday.HolidayFilter) ([]holiday.Holiday, int64, error) {
	q := GetQuerier(ctx, r.db)

	args := []any{companyID}
	cond := "company_id = $1"
	if filter.Year != 0 {
		args = append(args, filter.Year)
		cond += fmt.Sprintf(" AND (is_recurring OR EXTRACT(YEAR FROM date)::int = $%d)", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		cond += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.BranchID != "" {
		args = append(args, filter.BranchID)
		cond += fmt.Sprintf(" AND (branch_ids = '{}' OR $%d = ANY(branch_ids))", len(args))
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM holidays WHERE " + cond
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count holidays: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM holidays
		WHERE %s
		ORDER BY date ASC
		LIMIT $%d OFFSET $%d
	`, holidayColumns, cond, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	holidays, err := scanHolidays(rows)
	if err != nil {
		return nil, 0, err
	}
	return holidays, total, nil
}

// Update implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Update(ctx context.Context, h holiday.Holiday) error {
	q := GetQuerier(ctx, r.db)

	recurMonth, recurDay, recurNth, recurDOW := patternColumns(h.Pattern)
	tag, err := q.Exec(ctx, `
		UPDATE holidays SET
			name = $3, date = $4, end_date = $5, type = $6, description = $7,
			is_recurring = $8, recur_month = $9, recur_day = $10, recur_nth = $11,
			recur_day_of_week = $12, branch_ids = $13, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
	`, h.ID, h.CompanyID,
		h.Name, h.Date, h.EndDate, h.Type, h.Description,
		h.IsRecurring, recurMonth, recurDay, recurNth,
		recurDOW, h.BranchIDs,
	)
	if err != nil {
		return fmt.Errorf("failed to update holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}

// Delete implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM holidays WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}

// ListRecurring implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) ListRecurring(ctx context.Context, companyID string) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + holidayColumns + `
		FROM holidays
		WHERE company_id = $1 AND is_recurring
		ORDER BY recur_month ASC, date ASC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring holidays: %w", err)
	}
	defer rows.Close()

	return scanHolidays(rows)
}

// ExistsByNameInRange implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) ExistsByNameInRange(ctx context.Context, companyID, name string, from, to time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM holidays
			WHERE company_id = $1 AND name = $2 AND NOT is_recurring
				AND date BETWEEN $3::date AND $4::date
		)
	`, companyID, name, from, to).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check holiday existence: %w", err)
	}
	return exists, nil
}

// ListCovering implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) ListCovering(ctx context.Context, companyID string, date time.Time) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + holidayColumns + `
		FROM holidays
		WHERE company_id = $1 AND NOT is_recurring
			AND date <= $2::date
			AND COALESCE(end_date, date) >= $2::date
	`

	rows, err := q.Query(ctx, query, companyID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays covering date: %w", err)
	}
	defer rows.Close()

	return scanHolidays(rows)
}

func patternColumns(p *holiday.RecurringPattern) (month, day, nth, dayOfWeek *int) {
	if p == nil {
		return nil, nil, nil, nil
	}
	m := int(p.Month)
	month = &m
	day = p.Day
	nth = p.Nth
	if p.DayOfWeek != nil {
		d := int(*p.DayOfWeek)
		dayOfWeek = &d
	}
	return month, day, nth, dayOfWeek
}

func scanHoliday(row pgx.Row) (holiday.Holiday, error) {
	var h holiday.Holiday
	var recurMonth, recurDay, recurNth, recurDOW *int
	err := row.Scan(
		&h.ID, &h.CompanyID, &h.Name, &h.Date, &h.EndDate, &h.Type, &h.Description, &h.IsRecurring,
		&recurMonth, &recurDay, &recurNth, &recurDOW,
		&h.BranchIDs, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return holiday.Holiday{}, err
	}
	if h.IsRecurring && recurMonth != nil {
		pattern := &holiday.RecurringPattern{
			Month: time.Month(*recurMonth),
			Day:   recurDay,
			Nth:   recurNth,
		}
		if recurDOW != nil {
			dow := time.Weekday(*recurDOW)
			pattern.DayOfWeek = &dow
		}
		h.Pattern = pattern
	}
	return h, nil
}

func scanHolidays(rows pgx.Rows) ([]holiday.Holiday, error) {
	var holidays []holiday.Holiday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}
