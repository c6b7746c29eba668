package correction

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/kargo-erp/hr-backend-go/internal/domain/attendance"
	"github.com/kargo-erp/hr-backend-go/internal/domain/correction"
	"github.com/kargo-erp/hr-backend-go/internal/pkg/database"
	"github.com/kargo-erp/hr-backend-go/internal/pkg/validator"
	"github.com/kargo-erp/hr-backend-go/internal/repository/postgresql"
)

type correctionServiceImpl struct {
	db             *database.DB
	correctionRepo correction.CorrectionRepository
	attendanceRepo attendance.AttendanceRepository

	// now and inTx are swappable in tests.
	now  func() time.Time
	inTx func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewCorrectionService(
	db *database.DB,
	correctionRepo correction.CorrectionRepository,
	attendanceRepo attendance.AttendanceRepository,
) correction.CorrectionService {
	s := &correctionServiceImpl{
		db:             db,
		correctionRepo: correctionRepo,
		attendanceRepo: attendanceRepo,
		now:            time.Now,
	}
	s.inTx = s.runInTx
	return s
}

// runInTx runs fn inside a database transaction, handing it a context the
// repositories resolve the transaction from.
func (s *correctionServiceImpl) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, "tx", tx))
	})
}

// Submit implements correction.CorrectionService.
func (s *correctionServiceImpl) Submit(ctx context.Context, req correction.SubmitRequest) (correction.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return correction.CorrectionResponse{}, err
	}

	companyID, err := claimString(ctx, "company_id")
	if err != nil {
		return correction.CorrectionResponse{}, err
	}
	employeeID, err := claimString(ctx, "employee_id")
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	record, err := s.attendanceRepo.GetByID(ctx, req.AttendanceID, companyID)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	oldStatus := string(record.Status)
	cr := correction.CorrectionRequest{
		AttendanceID: record.ID,
		EmployeeID:   employeeID,
		CompanyID:    companyID,
		RequestType:  correction.RequestType(req.RequestType),
		OldCheckIn:   record.CheckIn,
		OldCheckOut:  record.CheckOut,
		OldStatus:    &oldStatus,
		NewCheckIn:   parseDateTimePtr(req.NewCheckIn),
		NewCheckOut:  parseDateTimePtr(req.NewCheckOut),
		NewStatus:    req.NewStatus,
		Reason:       req.Reason,
		Status:       correction.StatusPending,
		History: []correction.ApprovalEntry{{
			Status:    correction.StatusPending,
			ActorID:   employeeID,
			Timestamp: s.now(),
		}},
	}

	created, err := s.correctionRepo.Create(ctx, cr)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	return toCorrectionResponse(created), nil
}

// Approve implements correction.CorrectionService. The status flip, the
// history append, and the attendance edit commit atomically.
func (s *correctionServiceImpl) Approve(ctx context.Context, req correction.DecisionRequest) (correction.CorrectionResponse, error) {
	return s.decide(ctx, req, correction.StatusApproved)
}

// Reject implements correction.CorrectionService.
func (s *correctionServiceImpl) Reject(ctx context.Context, req correction.DecisionRequest) (correction.CorrectionResponse, error) {
	return s.decide(ctx, req, correction.StatusRejected)
}

func (s *correctionServiceImpl) decide(ctx context.Context, req correction.DecisionRequest, decision correction.Status) (correction.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return correction.CorrectionResponse{}, err
	}

	companyID, err := claimString(ctx, "company_id")
	if err != nil {
		return correction.CorrectionResponse{}, err
	}
	actorID, err := claimString(ctx, "user_id")
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	var cr correction.CorrectionRequest
	err = s.inTx(ctx, func(txCtx context.Context) error {
		cr, err = s.correctionRepo.GetByID(txCtx, req.ID, companyID)
		if err != nil {
			return err
		}
		if cr.Status.IsTerminal() {
			return correction.ErrAlreadyProcessed
		}

		cr.Status = decision
		cr.History = append(cr.History, correction.ApprovalEntry{
			Status:    decision,
			ActorID:   actorID,
			Timestamp: s.now(),
			Comments:  req.Comments,
		})

		if err := s.correctionRepo.Update(txCtx, cr); err != nil {
			return err
		}

		if decision == correction.StatusApproved {
			if err := s.applyCorrection(txCtx, cr, companyID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	return toCorrectionResponse(cr), nil
}

// applyCorrection writes exactly the fields implied by the request type
// onto the attendance record. A status-only correction never touches the
// timestamps, and vice versa.
func (s *correctionServiceImpl) applyCorrection(ctx context.Context, cr correction.CorrectionRequest, companyID string) error {
	record, err := s.attendanceRepo.GetByID(ctx, cr.AttendanceID, companyID)
	if err != nil {
		return err
	}

	switch cr.RequestType {
	case correction.TypeCheckIn:
		record.CheckIn = cr.NewCheckIn
	case correction.TypeCheckOut:
		record.CheckOut = cr.NewCheckOut
	case correction.TypeBoth:
		record.CheckIn = cr.NewCheckIn
		record.CheckOut = cr.NewCheckOut
	case correction.TypeStatus:
		if cr.NewStatus != nil {
			record.Status = attendance.Status(*cr.NewStatus)
		}
	default:
		return correction.ErrInvalidRequestType
	}

	// Corrected timestamps change the elapsed hours too.
	if cr.RequestType != correction.TypeStatus && record.CheckIn != nil && record.CheckOut != nil {
		workHours := record.CheckOut.Sub(*record.CheckIn).Hours()
		record.WorkHours = &workHours
	}

	return s.attendanceRepo.Update(ctx, record)
}

// Get implements correction.CorrectionService.
func (s *correctionServiceImpl) Get(ctx context.Context, id string) (correction.CorrectionResponse, error) {
	companyID, err := claimString(ctx, "company_id")
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	cr, err := s.correctionRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	return toCorrectionResponse(cr), nil
}

// List implements correction.CorrectionService.
func (s *correctionServiceImpl) List(ctx context.Context, filter correction.CorrectionFilter) (correction.ListCorrectionResponse, error) {
	companyID, err := claimString(ctx, "company_id")
	if err != nil {
		return correction.ListCorrectionResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	requests, total, err := s.correctionRepo.List(ctx, filter, companyID)
	if err != nil {
		return correction.ListCorrectionResponse{}, err
	}

	resp := correction.ListCorrectionResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		Corrections: make([]correction.CorrectionResponse, 0, len(requests)),
	}
	for _, cr := range requests {
		resp.Corrections = append(resp.Corrections, toCorrectionResponse(cr))
	}
	return resp, nil
}

func claimString(ctx context.Context, key string) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}
	v, ok := claims[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%s claim is missing or invalid", key)
	}
	return v, nil
}

func parseDateTimePtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, ok := validator.IsValidDateTime(*s)
	if !ok {
		return nil
	}
	return &t
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	f := t.Format(time.RFC3339)
	return &f
}

func toCorrectionResponse(cr correction.CorrectionRequest) correction.CorrectionResponse {
	resp := correction.CorrectionResponse{
		ID:           cr.ID,
		AttendanceID: cr.AttendanceID,
		EmployeeID:   cr.EmployeeID,
		RequestType:  string(cr.RequestType),
		OldCheckIn:   formatTimePtr(cr.OldCheckIn),
		OldCheckOut:  formatTimePtr(cr.OldCheckOut),
		OldStatus:    cr.OldStatus,
		NewCheckIn:   formatTimePtr(cr.NewCheckIn),
		NewCheckOut:  formatTimePtr(cr.NewCheckOut),
		NewStatus:    cr.NewStatus,
		Reason:       cr.Reason,
		Status:       string(cr.Status),
		History:      make([]correction.ApprovalEntryResponse, 0, len(cr.History)),
		CreatedAt:    cr.CreatedAt.Format(time.RFC3339),
	}
	for _, e := range cr.History {
		resp.History = append(resp.History, correction.ApprovalEntryResponse{
			Status:    string(e.Status),
			ActorID:   e.ActorID,
			Timestamp: e.Timestamp.Format(time.RFC3339),
			Comments:  e.Comments,
		})
	}
	return resp
}
