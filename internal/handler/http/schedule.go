package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kargo-erp/hr-backend-go/internal/domain/schedule"
	"github.com/kargo-erp/hr-backend-go/internal/handler/http/response"
)

type ScheduleHandler interface {
	CreateWorkSchedule(w http.ResponseWriter, r *http.Request)
	GetWorkSchedule(w http.ResponseWriter, r *http.Request)
	ListWorkSchedules(w http.ResponseWriter, r *http.Request)
	DeleteWorkSchedule(w http.ResponseWriter, r *http.Request)

	AssignSchedule(w http.ResponseWriter, r *http.Request)
	ListAssignments(w http.ResponseWriter, r *http.Request)

	AddOverride(w http.ResponseWriter, r *http.Request)
	RemoveOverride(w http.ResponseWriter, r *http.Request)
	ListOverrides(w http.ResponseWriter, r *http.Request)

	ResolveSchedule(w http.ResponseWriter, r *http.Request)
	GetDayHours(w http.ResponseWriter, r *http.Request)
}

type scheduleHandlerImpl struct {
	scheduleService schedule.ScheduleService
}

func NewScheduleHandler(scheduleService schedule.ScheduleService) ScheduleHandler {
	return &scheduleHandlerImpl{scheduleService: scheduleService}
}

// CreateWorkSchedule implements ScheduleHandler.
func (h *scheduleHandlerImpl) CreateWorkSchedule(w http.ResponseWriter, r *http.Request) {
	var req schedule.CreateWorkScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.scheduleService.CreateWorkSchedule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Work schedule created", result)
}

// GetWorkSchedule implements ScheduleHandler.
func (h *scheduleHandlerImpl) GetWorkSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "scheduleID")

	result, err := h.scheduleService.GetWorkSchedule(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListWorkSchedules implements ScheduleHandler.
func (h *scheduleHandlerImpl) ListWorkSchedules(w http.ResponseWriter, r *http.Request) {
	filter := schedule.WorkScheduleFilter{
		Name: r.URL.Query().Get("name"),
		Kind: r.URL.Query().Get("kind"),
	}
	filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.scheduleService.ListWorkSchedules(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DeleteWorkSchedule implements ScheduleHandler.
func (h *scheduleHandlerImpl) DeleteWorkSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "scheduleID")

	if err := h.scheduleService.DeleteWorkSchedule(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Work schedule deleted", nil)
}

// AssignSchedule implements ScheduleHandler.
func (h *scheduleHandlerImpl) AssignSchedule(w http.ResponseWriter, r *http.Request) {
	var req schedule.AssignScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "employeeID")

	result, err := h.scheduleService.Assign(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Schedule assigned", result)
}

// ListAssignments implements ScheduleHandler.
func (h *scheduleHandlerImpl) ListAssignments(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	result, err := h.scheduleService.ListAssignments(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AddOverride implements ScheduleHandler.
func (h *scheduleHandlerImpl) AddOverride(w http.ResponseWriter, r *http.Request) {
	var req schedule.AddOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "employeeID")

	result, err := h.scheduleService.AddOverride(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Override added", result)
}

// RemoveOverride implements ScheduleHandler.
func (h *scheduleHandlerImpl) RemoveOverride(w http.ResponseWriter, r *http.Request) {
	req := schedule.RemoveOverrideRequest{
		EmployeeID: chi.URLParam(r, "employeeID"),
		Date:       chi.URLParam(r, "date"),
	}

	if err := h.scheduleService.RemoveOverride(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Override removed", nil)
}

// ListOverrides implements ScheduleHandler.
func (h *scheduleHandlerImpl) ListOverrides(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	result, err := h.scheduleService.ListOverrides(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ResolveSchedule implements ScheduleHandler.
func (h *scheduleHandlerImpl) ResolveSchedule(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	date, ok := parseDateParam(r)
	if !ok {
		response.HandleError(w, schedule.ErrInvalidDateFormat)
		return
	}

	resolved, err := h.scheduleService.Resolve(r.Context(), employeeID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toResolvedResponse(resolved))
}

// GetDayHours implements ScheduleHandler.
func (h *scheduleHandlerImpl) GetDayHours(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	date, ok := parseDateParam(r)
	if !ok {
		response.HandleError(w, schedule.ErrInvalidDateFormat)
		return
	}

	dayHours, err := h.scheduleService.GetDayHours(r.Context(), employeeID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := schedule.DayHoursResponse{
		Date:         date.Format("2006-01-02"),
		IsWorkDay:    dayHours.IsWorkDay,
		WorkHours:    dayHours.WorkHours,
		BreakMinutes: dayHours.BreakMinutes,
	}
	if dayHours.StartTime != nil {
		start := dayHours.StartTime.Format("15:04")
		resp.StartTime = &start
	}
	if dayHours.EndTime != nil {
		end := dayHours.EndTime.Format("15:04")
		resp.EndTime = &end
	}

	response.Success(w, resp)
}

func parseDateParam(r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Time{}, false
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

func toResolvedResponse(resolved schedule.ResolvedSchedule) schedule.ResolvedScheduleResponse {
	ws := resolved.Schedule
	resp := schedule.ResolvedScheduleResponse{
		ShiftName: resolved.ShiftName,
		Source:    resolved.Source,
	}
	resp.Schedule = schedule.WorkScheduleResponse{
		ID:           ws.ID,
		Name:         ws.Name,
		Kind:         string(ws.Kind),
		WorkDays:     ws.WorkDays,
		BreakMinutes: ws.BreakMinutes,
		MinWorkHours: ws.MinWorkHours,
		CreatedAt:    ws.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    ws.UpdatedAt.Format(time.RFC3339),
	}
	if ws.StartTime != nil {
		start := ws.StartTime.Format("15:04")
		resp.Schedule.StartTime = &start
	}
	if ws.EndTime != nil {
		end := ws.EndTime.Format("15:04")
		resp.Schedule.EndTime = &end
	}
	if ws.CoreStartTime != nil {
		core := ws.CoreStartTime.Format("15:04")
		resp.Schedule.CoreStart = &core
	}
	if ws.CoreEndTime != nil {
		core := ws.CoreEndTime.Format("15:04")
		resp.Schedule.CoreEnd = &core
	}
	for _, sh := range ws.Shifts {
		resp.Schedule.Shifts = append(resp.Schedule.Shifts, schedule.ShiftResponse{
			Name:         sh.Name,
			StartTime:    sh.StartTime.Format("15:04"),
			EndTime:      sh.EndTime.Format("15:04"),
			BreakMinutes: sh.BreakMinutes,
		})
	}
	return resp
}
