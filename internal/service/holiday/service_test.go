package holiday

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kargo-erp/hr-backend-go/internal/domain/holiday"
)

const testCompanyID = "company-1"

type fakeHolidayRepo struct {
	holidays []holiday.Holiday
	nextID   int
}

func (f *fakeHolidayRepo) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	f.nextID++
	h.ID = "holiday-" + strconv.Itoa(f.nextID)
	f.holidays = append(f.holidays, h)
	return h, nil
}

func (f *fakeHolidayRepo) GetByID(ctx context.Context, id, companyID string) (holiday.Holiday, error) {
	for _, h := range f.holidays {
		if h.ID == id {
			return h, nil
		}
	}
	return holiday.Holiday{}, holiday.ErrHolidayNotFound
}

func (f *fakeHolidayRepo) List(ctx context.Context, companyID string, filter holiday.HolidayFilter) ([]holiday.Holiday, int64, error) {
	return f.holidays, int64(len(f.holidays)), nil
}

func (f *fakeHolidayRepo) Update(ctx context.Context, h holiday.Holiday) error {
	return nil
}

func (f *fakeHolidayRepo) Delete(ctx context.Context, id, companyID string) error {
	return nil
}

func (f *fakeHolidayRepo) ListRecurring(ctx context.Context, companyID string) ([]holiday.Holiday, error) {
	var recurring []holiday.Holiday
	for _, h := range f.holidays {
		if h.IsRecurring {
			recurring = append(recurring, h)
		}
	}
	return recurring, nil
}

func (f *fakeHolidayRepo) ExistsByNameInRange(ctx context.Context, companyID, name string, from, to time.Time) (bool, error) {
	for _, h := range f.holidays {
		if h.IsRecurring || h.Name != name {
			continue
		}
		if !h.Date.Before(from) && !h.Date.After(to) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeHolidayRepo) ListCovering(ctx context.Context, companyID string, date time.Time) ([]holiday.Holiday, error) {
	var covering []holiday.Holiday
	for _, h := range f.holidays {
		if !h.IsRecurring && h.Covers(date) {
			covering = append(covering, h)
		}
	}
	return covering, nil
}

func fixedDayTemplate(name string, month time.Month, day int) holiday.Holiday {
	d := day
	return holiday.Holiday{
		Name:        name,
		CompanyID:   testCompanyID,
		Date:        time.Date(2020, month, day, 0, 0, 0, 0, time.UTC),
		Type:        holiday.TypeNational,
		IsRecurring: true,
		Pattern:     &holiday.RecurringPattern{Month: month, Day: &d},
	}
}

func resultsByName(resp holiday.GenerateResponse) map[string]holiday.GenerationResult {
	m := make(map[string]holiday.GenerationResult, len(resp.Results))
	for _, r := range resp.Results {
		m[r.Name] = r
	}
	return m
}

func TestGenerateForCompany(t *testing.T) {
	repo := &fakeHolidayRepo{}
	repo.holidays = append(repo.holidays, fixedDayTemplate("Independence Day", time.August, 17))

	nth, dow := 3, time.Monday
	repo.holidays = append(repo.holidays, holiday.Holiday{
		Name:        "Fleet Maintenance Day",
		CompanyID:   testCompanyID,
		Date:        time.Date(2020, time.March, 16, 0, 0, 0, 0, time.UTC),
		Type:        holiday.TypeCompany,
		IsRecurring: true,
		Pattern:     &holiday.RecurringPattern{Month: time.March, Nth: &nth, DayOfWeek: &dow},
	})

	svc := NewHolidayService(repo)

	resp, err := svc.GenerateForCompany(context.Background(), testCompanyID, 2027)
	require.NoError(t, err)
	assert.Equal(t, 2027, resp.Year)
	require.Len(t, resp.Results, 2)

	results := resultsByName(resp)
	independence := results["Independence Day"]
	assert.Equal(t, holiday.StatusGenerated, independence.Status)
	require.NotNil(t, independence.Date)
	assert.Equal(t, "2027-08-17", *independence.Date)

	maintenance := results["Fleet Maintenance Day"]
	assert.Equal(t, holiday.StatusGenerated, maintenance.Status)
	require.NotNil(t, maintenance.Date)
	assert.Equal(t, "2027-03-15", *maintenance.Date)
}

func TestGenerateForCompany_Idempotent(t *testing.T) {
	repo := &fakeHolidayRepo{}
	repo.holidays = append(repo.holidays, fixedDayTemplate("Independence Day", time.August, 17))
	svc := NewHolidayService(repo)
	ctx := context.Background()

	first, err := svc.GenerateForCompany(ctx, testCompanyID, 2027)
	require.NoError(t, err)
	require.Len(t, first.Results, 1)
	assert.Equal(t, holiday.StatusGenerated, first.Results[0].Status)

	second, err := svc.GenerateForCompany(ctx, testCompanyID, 2027)
	require.NoError(t, err)
	require.Len(t, second.Results, 1)
	assert.Equal(t, holiday.StatusAlreadyExists, second.Results[0].Status)

	// Only one concrete instance exists next to the template.
	var instances int
	for _, h := range repo.holidays {
		if !h.IsRecurring {
			instances++
		}
	}
	assert.Equal(t, 1, instances)
}

func TestGenerateForCompany_BadTemplateDoesNotAbortRun(t *testing.T) {
	repo := &fakeHolidayRepo{}
	repo.holidays = append(repo.holidays,
		holiday.Holiday{Name: "Broken", CompanyID: testCompanyID, IsRecurring: true},
		fixedDayTemplate("Independence Day", time.August, 17),
	)
	svc := NewHolidayService(repo)

	resp, err := svc.GenerateForCompany(context.Background(), testCompanyID, 2027)
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)

	results := resultsByName(resp)
	assert.Equal(t, holiday.StatusError, results["Broken"].Status)
	assert.Equal(t, holiday.StatusGenerated, results["Independence Day"].Status)
}

func TestGenerateForCompany_PreservesSpan(t *testing.T) {
	tmpl := fixedDayTemplate("Eid Holidays", time.April, 10)
	end := tmpl.Date.AddDate(0, 0, 2)
	tmpl.EndDate = &end

	repo := &fakeHolidayRepo{holidays: []holiday.Holiday{tmpl}}
	svc := NewHolidayService(repo)

	_, err := svc.GenerateForCompany(context.Background(), testCompanyID, 2027)
	require.NoError(t, err)

	var instance *holiday.Holiday
	for i := range repo.holidays {
		if !repo.holidays[i].IsRecurring {
			instance = &repo.holidays[i]
		}
	}
	require.NotNil(t, instance)
	assert.Equal(t, "2027-04-10", instance.Date.Format("2006-01-02"))
	require.NotNil(t, instance.EndDate)
	assert.Equal(t, "2027-04-12", instance.EndDate.Format("2006-01-02"))
}

func TestDayStatusFor(t *testing.T) {
	repo := &fakeHolidayRepo{holidays: []holiday.Holiday{
		{
			Name:      "Branch Anniversary",
			CompanyID: testCompanyID,
			Date:      time.Date(2027, 5, 3, 0, 0, 0, 0, time.UTC),
			Type:      holiday.TypeCompany,
			BranchIDs: []string{"branch-1"},
		},
	}}
	svc := NewHolidayService(repo)
	ctx := context.Background()
	day := time.Date(2027, 5, 3, 0, 0, 0, 0, time.UTC)

	status, err := svc.DayStatusFor(ctx, testCompanyID, "branch-1", day)
	require.NoError(t, err)
	assert.True(t, status.IsHoliday)
	require.NotNil(t, status.Holiday)
	assert.Equal(t, "Branch Anniversary", status.Holiday.Name)

	// Another branch is not covered by a branch-scoped holiday.
	status, err = svc.DayStatusFor(ctx, testCompanyID, "branch-2", day)
	require.NoError(t, err)
	assert.False(t, status.IsHoliday)

	// Neither is a different date.
	status, err = svc.DayStatusFor(ctx, testCompanyID, "branch-1", day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, status.IsHoliday)
}
