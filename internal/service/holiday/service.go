package holiday

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kargo-erp/hr-backend-go/internal/domain/holiday"
)

type holidayServiceImpl struct {
	holidayRepo holiday.HolidayRepository
}

func NewHolidayService(holidayRepo holiday.HolidayRepository) holiday.HolidayService {
	return &holidayServiceImpl{holidayRepo: holidayRepo}
}

// Create implements holiday.HolidayService.
func (s *holidayServiceImpl) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	companyID, err := companyIDFromClaims(ctx)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	h := holiday.Holiday{
		CompanyID:   companyID,
		Name:        req.Name,
		Date:        date,
		Type:        holiday.HolidayType(req.Type),
		Description: req.Description,
		IsRecurring: req.IsRecurring,
		BranchIDs:   req.BranchIDs,
	}
	if req.EndDate != nil {
		endDate, _ := time.Parse("2006-01-02", *req.EndDate)
		h.EndDate = &endDate
	}
	if req.Pattern != nil {
		pattern := &holiday.RecurringPattern{
			Month: time.Month(req.Pattern.Month),
			Day:   req.Pattern.Day,
			Nth:   req.Pattern.Nth,
		}
		if req.Pattern.DayOfWeek != nil {
			dow := time.Weekday(*req.Pattern.DayOfWeek)
			pattern.DayOfWeek = &dow
		}
		h.Pattern = pattern
	}

	created, err := s.holidayRepo.Create(ctx, h)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	return toHolidayResponse(created), nil
}

// Get implements holiday.HolidayService.
func (s *holidayServiceImpl) Get(ctx context.Context, id string) (holiday.HolidayResponse, error) {
	companyID, err := companyIDFromClaims(ctx)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	h, err := s.holidayRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	return toHolidayResponse(h), nil
}

// List implements holiday.HolidayService.
func (s *holidayServiceImpl) List(ctx context.Context, filter holiday.HolidayFilter) (holiday.ListHolidayResponse, error) {
	companyID, err := companyIDFromClaims(ctx)
	if err != nil {
		return holiday.ListHolidayResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	holidays, total, err := s.holidayRepo.List(ctx, companyID, filter)
	if err != nil {
		return holiday.ListHolidayResponse{}, err
	}

	resp := holiday.ListHolidayResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Holidays:   make([]holiday.HolidayResponse, 0, len(holidays)),
	}
	for _, h := range holidays {
		resp.Holidays = append(resp.Holidays, toHolidayResponse(h))
	}
	return resp, nil
}

// Delete implements holiday.HolidayService.
func (s *holidayServiceImpl) Delete(ctx context.Context, id string) error {
	companyID, err := companyIDFromClaims(ctx)
	if err != nil {
		return err
	}
	return s.holidayRepo.Delete(ctx, id, companyID)
}

// Generate implements holiday.HolidayService.
func (s *holidayServiceImpl) Generate(ctx context.Context, year int) (holiday.GenerateResponse, error) {
	companyID, err := companyIDFromClaims(ctx)
	if err != nil {
		return holiday.GenerateResponse{}, err
	}
	return s.GenerateForCompany(ctx, companyID, year)
}

// GenerateForCompany implements holiday.HolidayService. Each template is
// materialized independently: one bad pattern yields an error result without
// aborting the run, and a rerun reports already_exists for everything
// created before.
func (s *holidayServiceImpl) GenerateForCompany(ctx context.Context, companyID string, year int) (holiday.GenerateResponse, error) {
	templates, err := s.holidayRepo.ListRecurring(ctx, companyID)
	if err != nil {
		return holiday.GenerateResponse{}, fmt.Errorf("failed to load recurring holiday templates: %w", err)
	}

	resp := holiday.GenerateResponse{Year: year}
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	for _, tmpl := range templates {
		result := holiday.GenerationResult{Name: tmpl.Name}

		if tmpl.Pattern == nil {
			result.Status = holiday.StatusError
			result.Message = holiday.ErrInvalidPattern.Error()
			resp.Results = append(resp.Results, result)
			continue
		}

		date, err := tmpl.Pattern.DateForYear(year)
		if err != nil {
			result.Status = holiday.StatusError
			result.Message = err.Error()
			resp.Results = append(resp.Results, result)
			continue
		}
		formatted := date.Format("2006-01-02")
		result.Date = &formatted

		exists, err := s.holidayRepo.ExistsByNameInRange(ctx, companyID, tmpl.Name, yearStart, yearEnd)
		if err != nil {
			result.Status = holiday.StatusError
			result.Message = err.Error()
			resp.Results = append(resp.Results, result)
			continue
		}
		if exists {
			result.Status = holiday.StatusAlreadyExists
			resp.Results = append(resp.Results, result)
			continue
		}

		instance := holiday.Holiday{
			CompanyID:   companyID,
			Name:        tmpl.Name,
			Date:        date,
			Type:        tmpl.Type,
			Description: tmpl.Description,
			IsRecurring: false,
			BranchIDs:   tmpl.BranchIDs,
		}
		// Multi-day templates keep their span length.
		if tmpl.EndDate != nil {
			spanDays := int(tmpl.EndDate.Sub(tmpl.Date).Hours() / 24)
			endDate := date.AddDate(0, 0, spanDays)
			instance.EndDate = &endDate
		}

		if _, err := s.holidayRepo.Create(ctx, instance); err != nil {
			result.Status = holiday.StatusError
			result.Message = err.Error()
			slog.Error("failed to materialize recurring holiday",
				"holiday", tmpl.Name, "year", year, "error", err)
		} else {
			result.Status = holiday.StatusGenerated
		}
		resp.Results = append(resp.Results, result)
	}

	return resp, nil
}

// DayStatusFor implements holiday.HolidayService.
func (s *holidayServiceImpl) DayStatusFor(ctx context.Context, companyID, branchID string, date time.Time) (holiday.DayStatus, error) {
	covering, err := s.holidayRepo.ListCovering(ctx, companyID, date)
	if err != nil {
		return holiday.DayStatus{}, err
	}

	for i := range covering {
		if covering[i].AppliesToBranch(branchID) {
			return holiday.DayStatus{IsHoliday: true, Holiday: &covering[i]}, nil
		}
	}
	return holiday.DayStatus{}, nil
}

func companyIDFromClaims(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}
	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}
	return companyID, nil
}

func toHolidayResponse(h holiday.Holiday) holiday.HolidayResponse {
	resp := holiday.HolidayResponse{
		ID:          h.ID,
		Name:        h.Name,
		Date:        h.Date.Format("2006-01-02"),
		Type:        string(h.Type),
		Description: h.Description,
		IsRecurring: h.IsRecurring,
		BranchIDs:   h.BranchIDs,
	}
	if h.EndDate != nil {
		endDate := h.EndDate.Format("2006-01-02")
		resp.EndDate = &endDate
	}
	if h.Pattern != nil {
		pattern := &holiday.RecurringPatternResponse{
			Month: int(h.Pattern.Month),
			Day:   h.Pattern.Day,
			Nth:   h.Pattern.Nth,
		}
		if h.Pattern.DayOfWeek != nil {
			dow := int(*h.Pattern.DayOfWeek)
			pattern.DayOfWeek = &dow
		}
		resp.Pattern = pattern
	}
	return resp
}
