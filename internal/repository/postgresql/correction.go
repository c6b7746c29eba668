package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kargo-erp/hr-backend-go/internal/domain/correction"
	"github.com/kargo-erp/hr-backend-go/internal/pkg/database"
)

type correctionRepositoryImpl struct {
	db *database.DB
}

func NewCorrectionRepository(db *database.DB) correction.CorrectionRepository {
	return &correctionRepositoryImpl{db: db}
}

const correctionColumns = `
	id, attendance_id, employee_id, company_id, request_type,
	old_check_in, old_check_out, old_status,
	new_check_in, new_check_out, new_status,
	reason, status, approval_history, created_at, updated_at
`

// Create implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) Create(ctx context.Context, req correction.CorrectionRequest) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	history, err := json.Marshal(req.History)
	if err != nil {
		return correction.CorrectionRequest{}, fmt.Errorf("failed to marshal approval history: %w", err)
	}

	query := `
		INSERT INTO correction_requests (
			id, attendance_id, employee_id, company_id, request_type,
			old_check_in, old_check_out, old_status,
			new_check_in, new_check_out, new_status,
			reason, status, approval_history, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10,
			$11, $12, $13, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		req.AttendanceID, req.EmployeeID, req.CompanyID, req.RequestType,
		req.OldCheckIn, req.OldCheckOut, req.OldStatus,
		req.NewCheckIn, req.NewCheckOut, req.NewStatus,
		req.Reason, req.Status, history,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return correction.CorrectionRequest{}, fmt.Errorf("failed to create correction request: %w", err)
	}

	return req, nil
}

// GetByID implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + correctionColumns + `
		FROM correction_requests
		WHERE id = $1 AND company_id = $2
	`

	req, err := scanCorrection(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return correction.CorrectionRequest{}, correction.ErrCorrectionNotFound
		}
		return correction.CorrectionRequest{}, fmt.Errorf("failed to get correction request: %w", err)
	}

	return req, nil
}

// List implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) List(ctx context.Context, filter correction.CorrectionFilter, companyID string) ([]correction.CorrectionRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	args := []any{companyID}
	cond := "company_id = $1"
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		cond += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		cond += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM correction_requests WHERE " + cond
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count correction requests: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM correction_requests
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, correctionColumns, cond, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list correction requests: %w", err)
	}
	defer rows.Close()

	var requests []correction.CorrectionRequest
	for rows.Next() {
		req, err := scanCorrection(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan correction request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// Update implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) Update(ctx context.Context, req correction.CorrectionRequest) error {
	q := GetQuerier(ctx, r.db)

	history, err := json.Marshal(req.History)
	if err != nil {
		return fmt.Errorf("failed to marshal approval history: %w", err)
	}

	tag, err := q.Exec(ctx, `
		UPDATE correction_requests SET
			status = $3, approval_history = $4, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
	`, req.ID, req.CompanyID, req.Status, history)
	if err != nil {
		return fmt.Errorf("failed to update correction request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return correction.ErrCorrectionNotFound
	}
	return nil
}

func scanCorrection(row pgx.Row) (correction.CorrectionRequest, error) {
	var req correction.CorrectionRequest
	var history []byte
	err := row.Scan(
		&req.ID, &req.AttendanceID, &req.EmployeeID, &req.CompanyID, &req.RequestType,
		&req.OldCheckIn, &req.OldCheckOut, &req.OldStatus,
		&req.NewCheckIn, &req.NewCheckOut, &req.NewStatus,
		&req.Reason, &req.Status, &history, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return correction.CorrectionRequest{}, err
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &req.History); err != nil {
			return correction.CorrectionRequest{}, fmt.Errorf("failed to unmarshal approval history: %w", err)
		}
	}
	return req, nil
}
