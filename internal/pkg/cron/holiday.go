package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kargo-erp/hr-backend-go/internal/domain/company"
	"github.com/kargo-erp/hr-backend-go/internal/domain/holiday"
)

type HolidayJobs struct {
	holidayService holiday.HolidayService
	companyRepo    company.CompanyRepository
}

func NewHolidayJobs(holidayService holiday.HolidayService, companyRepo company.CompanyRepository) *HolidayJobs {
	return &HolidayJobs{
		holidayService: holidayService,
		companyRepo:    companyRepo,
	}
}

func (j *HolidayJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("generate_recurring_holidays", 24*time.Hour, j.GenerateRecurringHolidays)
}

// GenerateRecurringHolidays materializes recurring holiday templates into
// concrete instances for the current year, for every company. Generation is
// idempotent, so running daily only creates instances that are missing.
func (j *HolidayJobs) GenerateRecurringHolidays(ctx context.Context) error {
	year := time.Now().UTC().Year()

	companies, err := j.companyRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	for _, c := range companies {
		result, err := j.holidayService.GenerateForCompany(ctx, c.ID, year)
		if err != nil {
			slog.Error("Cron: holiday generation failed", "company_id", c.ID, "year", year, "error", err)
			continue
		}

		generated := 0
		failed := 0
		for _, r := range result.Results {
			switch r.Status {
			case holiday.StatusGenerated:
				generated++
			case holiday.StatusError:
				failed++
			}
		}
		if generated > 0 || failed > 0 {
			slog.Info("Cron: holiday generation completed",
				"company_id", c.ID, "year", year, "generated", generated, "failed", failed)
		}
	}

	return nil
}
