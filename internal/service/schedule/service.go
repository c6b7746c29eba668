package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/kargo-erp/hr-backend-go/internal/domain/employee"
	"github.com/kargo-erp/hr-backend-go/internal/domain/schedule"
	"github.com/kargo-erp/hr-backend-go/internal/pkg/database"
	"github.com/kargo-erp/hr-backend-go/internal/repository/postgresql"
)

// openEndedHorizon substitutes for a nil expiry date when comparing
// assignment intervals, far enough out to outlive any real schedule.
var openEndedHorizon = time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)

type scheduleServiceImpl struct {
	db           *database.DB
	scheduleRepo schedule.WorkScheduleRepository
	assignRepo   schedule.ScheduleAssignmentRepository
	overrideRepo schedule.ScheduleOverrideRepository
	employeeRepo employee.EmployeeRepository
}

func NewScheduleService(
	db *database.DB,
	scheduleRepo schedule.WorkScheduleRepository,
	assignRepo schedule.ScheduleAssignmentRepository,
	overrideRepo schedule.ScheduleOverrideRepository,
	employeeRepo employee.EmployeeRepository,
) schedule.ScheduleService {
	return &scheduleServiceImpl{
		db:           db,
		scheduleRepo: scheduleRepo,
		assignRepo:   assignRepo,
		overrideRepo: overrideRepo,
		employeeRepo: employeeRepo,
	}
}

// CreateWorkSchedule implements schedule.ScheduleService.
func (s *scheduleServiceImpl) CreateWorkSchedule(ctx context.Context, req schedule.CreateWorkScheduleRequest) (schedule.WorkScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	companyID, err := companyIDFromClaims(ctx)
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	_, err = s.scheduleRepo.GetByName(ctx, req.Name, companyID)
	if err == nil {
		return schedule.WorkScheduleResponse{}, schedule.ErrWorkScheduleNameExists
	}
	if !errors.Is(err, schedule.ErrWorkScheduleNotFound) {
		return schedule.WorkScheduleResponse{}, err
	}

	ws := schedule.WorkSchedule{
		CompanyID: companyID,
		Name:      req.Name,
		Kind:      schedule.ScheduleKind(req.Kind),
		WorkDays:  req.WorkDays,
	}
	switch ws.Kind {
	case schedule.KindFixed:
		ws.StartTime = parseTimeOfDayPtr(req.StartTime)
		ws.EndTime = parseTimeOfDayPtr(req.EndTime)
		ws.BreakMinutes = req.BreakMinutes
	case schedule.KindFlexible:
		ws.CoreStartTime = parseTimeOfDayPtr(req.CoreStartTime)
		ws.CoreEndTime = parseTimeOfDayPtr(req.CoreEndTime)
		ws.MinWorkHours = req.MinWorkHours
	case schedule.KindShift:
		for i, sh := range req.Shifts {
			ws.Shifts = append(ws.Shifts, schedule.Shift{
				Position:     i,
				Name:         sh.Name,
				StartTime:    parseTimeOfDay(sh.StartTime),
				EndTime:      parseTimeOfDay(sh.EndTime),
				BreakMinutes: sh.BreakMinutes,
			})
		}
	}

	created, err := s.scheduleRepo.Create(ctx, ws)
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	return toWorkScheduleResponse(created), nil
}

// GetWorkSchedule implements schedule.ScheduleService.
func (s *scheduleServiceImpl) GetWorkSchedule(ctx context.Context, id string) (schedule.WorkScheduleResponse, error) {
	companyID, err := companyIDFromClaims(ctx)
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	ws, err := s.scheduleRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	return toWorkScheduleResponse(ws), nil
}

// ListWorkSchedules implements schedule.ScheduleService.
func (s *scheduleServiceImpl) ListWorkSchedules(ctx context.Context, filter schedule.WorkScheduleFilter) (schedule.ListWorkScheduleResponse, error) {
	companyID, err := companyIDFromClaims(ctx)
	if err != nil {
		return schedule.ListWorkScheduleResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	schedules, total, err := s.scheduleRepo.List(ctx, companyID, filter)
	if err != nil {
		return schedule.ListWorkScheduleResponse{}, err
	}

	resp := schedule.ListWorkScheduleResponse{
		TotalCount:    total,
		Page:          filter.Page,
		Limit:         filter.Limit,
		WorkSchedules: make([]schedule.WorkScheduleResponse, 0, len(schedules)),
	}
	for _, ws := range schedules {
		resp.WorkSchedules = append(resp.WorkSchedules, toWorkScheduleResponse(ws))
	}
	return resp, nil
}

// DeleteWorkSchedule implements schedule.ScheduleService.
func (s *scheduleServiceImpl) DeleteWorkSchedule(ctx context.Context, id string) error {
	companyID, err := companyIDFromClaims(ctx)
	if err != nil {
		return err
	}
	return s.scheduleRepo.Delete(ctx, id, companyID)
}

// Assign implements schedule.ScheduleService. The new assignment and the
// truncation of overlapping ones commit atomically.
func (s *scheduleServiceImpl) Assign(ctx context.Context, req schedule.AssignScheduleRequest) (schedule.ScheduleAssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleAssignmentResponse{}, err
	}

	companyID, err := companyIDFromClaims(ctx)
	if err != nil {
		return schedule.ScheduleAssignmentResponse{}, err
	}

	ws, err := s.scheduleRepo.GetByID(ctx, req.WorkScheduleID, companyID)
	if err != nil {
		return schedule.ScheduleAssignmentResponse{}, err
	}
	if ws.Kind == schedule.KindShift && req.ShiftName != nil {
		if pickShiftByName(ws.Shifts, *req.ShiftName) == nil {
			return schedule.ScheduleAssignmentResponse{}, schedule.ErrShiftRequired
		}
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID); err != nil {
		return schedule.ScheduleAssignmentResponse{}, err
	}

	effectiveDate, _ := time.Parse("2006-01-02", req.EffectiveDate)
	var expiryDate *time.Time
	if req.ExpiryDate != nil {
		d, _ := time.Parse("2006-01-02", *req.ExpiryDate)
		expiryDate = &d
	}

	var created schedule.ScheduleAssignment
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		existing, err := s.assignRepo.GetByEmployeeID(txCtx, req.EmployeeID, companyID)
		if err != nil {
			return err
		}
		truncatedExpiry := effectiveDate.AddDate(0, 0, -1)
		for _, a := range existing {
			if !overlapsNewInterval(a, effectiveDate, expiryDate) {
				continue
			}
			if err := s.assignRepo.UpdateExpiry(txCtx, a.ID, truncatedExpiry); err != nil {
				return fmt.Errorf("failed to truncate overlapping assignment: %w", err)
			}
		}

		created, err = s.assignRepo.Create(txCtx, schedule.ScheduleAssignment{
			EmployeeID:     req.EmployeeID,
			CompanyID:      companyID,
			WorkScheduleID: req.WorkScheduleID,
			ShiftName:      req.ShiftName,
			EffectiveDate:  effectiveDate,
			ExpiryDate:     expiryDate,
		})
		return err
	})
	if err != nil {
		return schedule.ScheduleAssignmentResponse{}, err
	}

	return toAssignmentResponse(created), nil
}

// overlapsNewInterval reports whether the existing assignment's interval
// contains either endpoint of the new one. Open-ended expiries compare
// against a far-future horizon.
func overlapsNewInterval(a schedule.ScheduleAssignment, effectiveDate time.Time, expiryDate *time.Time) bool {
	start := a.EffectiveDate
	end := openEndedHorizon
	if a.ExpiryDate != nil {
		end = *a.ExpiryDate
	}
	newEnd := openEndedHorizon
	if expiryDate != nil {
		newEnd = *expiryDate
	}
	contains := func(d time.Time) bool {
		return !d.Before(start) && !d.After(end)
	}
	return contains(effectiveDate) || contains(newEnd)
}

// ListAssignments implements schedule.ScheduleService.
func (s *scheduleServiceImpl) ListAssignments(ctx context.Context, employeeID string) ([]schedule.ScheduleAssignmentResponse, error) {
	companyID, err := companyIDFromClaims(ctx)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignRepo.GetByEmployeeID(ctx, employeeID, companyID)
	if err != nil {
		return nil, err
	}

	responses := make([]schedule.ScheduleAssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, toAssignmentResponse(a))
	}
	return responses, nil
}

// AddOverride implements schedule.ScheduleService.
func (s *scheduleServiceImpl) AddOverride(ctx context.Context, req schedule.AddOverrideRequest) (schedule.ScheduleOverrideResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleOverrideResponse{}, err
	}

	companyID, err := companyIDFromClaims(ctx)
	if err != nil {
		return schedule.ScheduleOverrideResponse{}, err
	}
	actorID, _ := claimString(ctx, "user_id")

	if _, err := s.scheduleRepo.GetByID(ctx, req.WorkScheduleID, companyID); err != nil {
		return schedule.ScheduleOverrideResponse{}, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID); err != nil {
		return schedule.ScheduleOverrideResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	// An override deviates from an assignment in force; a date nobody is
	// scheduled for has nothing to override.
	covering, err := s.assignRepo.ListCovering(ctx, req.EmployeeID, date, companyID)
	if err != nil {
		return schedule.ScheduleOverrideResponse{}, err
	}
	if len(covering) == 0 {
		return schedule.ScheduleOverrideResponse{}, schedule.ErrNoActiveSchedule
	}

	created, err := s.overrideRepo.Upsert(ctx, schedule.ScheduleOverride{
		EmployeeID:     req.EmployeeID,
		CompanyID:      companyID,
		Date:           date,
		WorkScheduleID: req.WorkScheduleID,
		Reason:         req.Reason,
		CreatedBy:      actorID,
	})
	if err != nil {
		return schedule.ScheduleOverrideResponse{}, err
	}

	return toOverrideResponse(created), nil
}

// RemoveOverride implements schedule.ScheduleService. Only an override with
// the exact date is removed; resolution for that date falls back to the
// assignment in force.
func (s *scheduleServiceImpl) RemoveOverride(ctx context.Context, req schedule.RemoveOverrideRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	companyID, err := companyIDFromClaims(ctx)
	if err != nil {
		return err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	return s.overrideRepo.DeleteByEmployeeAndDate(ctx, req.EmployeeID, date, companyID)
}

// ListOverrides implements schedule.ScheduleService.
func (s *scheduleServiceImpl) ListOverrides(ctx context.Context, employeeID string) ([]schedule.ScheduleOverrideResponse, error) {
	companyID, err := companyIDFromClaims(ctx)
	if err != nil {
		return nil, err
	}

	overrides, err := s.overrideRepo.ListByEmployee(ctx, employeeID, companyID)
	if err != nil {
		return nil, err
	}

	responses := make([]schedule.ScheduleOverrideResponse, 0, len(overrides))
	for _, o := range overrides {
		responses = append(responses, toOverrideResponse(o))
	}
	return responses, nil
}

// Resolve implements schedule.ScheduleService.
func (s *scheduleServiceImpl) Resolve(ctx context.Context, employeeID string, date time.Time) (schedule.ResolvedSchedule, error) {
	companyID, err := companyIDFromClaims(ctx)
	if err != nil {
		return schedule.ResolvedSchedule{}, err
	}
	return s.resolve(ctx, employeeID, companyID, date)
}

func (s *scheduleServiceImpl) resolve(ctx context.Context, employeeID, companyID string, date time.Time) (schedule.ResolvedSchedule, error) {
	override, err := s.overrideRepo.GetByEmployeeAndDate(ctx, employeeID, date, companyID)
	if err != nil {
		return schedule.ResolvedSchedule{}, err
	}
	if override != nil {
		ws, err := s.scheduleRepo.GetByID(ctx, override.WorkScheduleID, companyID)
		if err != nil {
			return schedule.ResolvedSchedule{}, err
		}
		return schedule.ResolvedSchedule{Schedule: ws, Source: "override"}, nil
	}

	covering, err := s.assignRepo.ListCovering(ctx, employeeID, date, companyID)
	if err != nil {
		return schedule.ResolvedSchedule{}, err
	}
	if len(covering) == 0 {
		return schedule.ResolvedSchedule{}, schedule.ErrNoActiveSchedule
	}

	best := covering[0]
	for _, a := range covering[1:] {
		if assignmentLess(best, a) {
			best = a
		}
	}

	ws, err := s.scheduleRepo.GetByID(ctx, best.WorkScheduleID, companyID)
	if err != nil {
		return schedule.ResolvedSchedule{}, err
	}
	return schedule.ResolvedSchedule{Schedule: ws, ShiftName: best.ShiftName, Source: "assignment"}, nil
}

// assignmentLess orders candidates for resolution: later effective date
// wins, then later expiry (open-ended counted as the horizon).
func assignmentLess(a, b schedule.ScheduleAssignment) bool {
	if !a.EffectiveDate.Equal(b.EffectiveDate) {
		return a.EffectiveDate.Before(b.EffectiveDate)
	}
	aEnd, bEnd := openEndedHorizon, openEndedHorizon
	if a.ExpiryDate != nil {
		aEnd = *a.ExpiryDate
	}
	if b.ExpiryDate != nil {
		bEnd = *b.ExpiryDate
	}
	return aEnd.Before(bEnd)
}

// GetDayHours implements schedule.ScheduleService.
func (s *scheduleServiceImpl) GetDayHours(ctx context.Context, employeeID string, date time.Time) (schedule.DayHours, error) {
	resolved, err := s.Resolve(ctx, employeeID, date)
	if err != nil {
		return schedule.DayHours{}, err
	}

	shiftName := ""
	if resolved.ShiftName != nil {
		shiftName = *resolved.ShiftName
	}
	return schedule.ComputeDayHours(resolved.Schedule, shiftName, date), nil
}

func companyIDFromClaims(ctx context.Context) (string, error) {
	return claimString(ctx, "company_id")
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

func pickShiftByName(shifts []schedule.Shift, name string) *schedule.Shift {
	for i := range shifts {
		if shifts[i].Name == name {
			return &shifts[i]
		}
	}
	return nil
}

func parseTimeOfDay(s string) time.Time {
	t, _ := time.Parse("15:04", s)
	return t
}

func parseTimeOfDayPtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t := parseTimeOfDay(*s)
	return &t
}

func formatTimeOfDayPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	f := t.Format("15:04")
	return &f
}

func toWorkScheduleResponse(ws schedule.WorkSchedule) schedule.WorkScheduleResponse {
	resp := schedule.WorkScheduleResponse{
		ID:           ws.ID,
		Name:         ws.Name,
		Kind:         string(ws.Kind),
		WorkDays:     ws.WorkDays,
		StartTime:    formatTimeOfDayPtr(ws.StartTime),
		EndTime:      formatTimeOfDayPtr(ws.EndTime),
		BreakMinutes: ws.BreakMinutes,
		CoreStart:    formatTimeOfDayPtr(ws.CoreStartTime),
		CoreEnd:      formatTimeOfDayPtr(ws.CoreEndTime),
		MinWorkHours: ws.MinWorkHours,
		CreatedAt:    ws.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    ws.UpdatedAt.Format(time.RFC3339),
	}
	for _, sh := range ws.Shifts {
		resp.Shifts = append(resp.Shifts, schedule.ShiftResponse{
			Name:         sh.Name,
			StartTime:    sh.StartTime.Format("15:04"),
			EndTime:      sh.EndTime.Format("15:04"),
			BreakMinutes: sh.BreakMinutes,
		})
	}
	return resp
}

func toAssignmentResponse(a schedule.ScheduleAssignment) schedule.ScheduleAssignmentResponse {
	resp := schedule.ScheduleAssignmentResponse{
		ID:             a.ID,
		EmployeeID:     a.EmployeeID,
		WorkScheduleID: a.WorkScheduleID,
		ShiftName:      a.ShiftName,
		EffectiveDate:  a.EffectiveDate.Format("2006-01-02"),
	}
	if a.ExpiryDate != nil {
		expiry := a.ExpiryDate.Format("2006-01-02")
		resp.ExpiryDate = &expiry
	}
	return resp
}

func toOverrideResponse(o schedule.ScheduleOverride) schedule.ScheduleOverrideResponse {
	return schedule.ScheduleOverrideResponse{
		ID:             o.ID,
		EmployeeID:     o.EmployeeID,
		Date:           o.Date.Format("2006-01-02"),
		WorkScheduleID: o.WorkScheduleID,
		Reason:         o.Reason,
		CreatedBy:      o.CreatedBy,
		CreatedAt:      o.CreatedAt.Format(time.RFC3339),
	}
}
