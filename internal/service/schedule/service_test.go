package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kargo-erp/hr-backend-go/internal/domain/employee"
	"github.com/kargo-erp/hr-backend-go/internal/domain/schedule"
)

const (
	testCompanyID  = "company-1"
	testEmployeeID = "employee-1"
)

func claimsContext(t *testing.T) context.Context {
	t.Helper()
	ta := jwtauth.New("HS256", []byte("test-secret-key"), nil)
	token, _, err := ta.Encode(map[string]any{
		"company_id": testCompanyID,
		"user_id":    "user-1",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// fakeScheduleRepo serves GetByID from a map; the other methods are unused by
// the resolution paths under test.
type fakeScheduleRepo struct {
	schedules map[string]schedule.WorkSchedule
}

func (f *fakeScheduleRepo) Create(ctx context.Context, ws schedule.WorkSchedule) (schedule.WorkSchedule, error) {
	f.schedules[ws.Name] = ws
	return ws, nil
}

func (f *fakeScheduleRepo) GetByID(ctx context.Context, id, companyID string) (schedule.WorkSchedule, error) {
	ws, ok := f.schedules[id]
	if !ok {
		return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNotFound
	}
	return ws, nil
}

func (f *fakeScheduleRepo) GetByName(ctx context.Context, name, companyID string) (schedule.WorkSchedule, error) {
	return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNotFound
}

func (f *fakeScheduleRepo) List(ctx context.Context, companyID string, filter schedule.WorkScheduleFilter) ([]schedule.WorkSchedule, int64, error) {
	return nil, 0, nil
}

func (f *fakeScheduleRepo) Delete(ctx context.Context, id, companyID string) error {
	return nil
}

type fakeAssignRepo struct {
	assignments []schedule.ScheduleAssignment
}

func (f *fakeAssignRepo) Create(ctx context.Context, a schedule.ScheduleAssignment) (schedule.ScheduleAssignment, error) {
	f.assignments = append(f.assignments, a)
	return a, nil
}

func (f *fakeAssignRepo) GetByID(ctx context.Context, id, companyID string) (schedule.ScheduleAssignment, error) {
	return schedule.ScheduleAssignment{}, schedule.ErrAssignmentNotFound
}

func (f *fakeAssignRepo) GetByEmployeeID(ctx context.Context, employeeID, companyID string) ([]schedule.ScheduleAssignment, error) {
	return f.assignments, nil
}

func (f *fakeAssignRepo) ListCovering(ctx context.Context, employeeID string, date time.Time, companyID string) ([]schedule.ScheduleAssignment, error) {
	var covering []schedule.ScheduleAssignment
	for _, a := range f.assignments {
		if date.Before(a.EffectiveDate) {
			continue
		}
		if a.ExpiryDate != nil && date.After(*a.ExpiryDate) {
			continue
		}
		covering = append(covering, a)
	}
	return covering, nil
}

func (f *fakeAssignRepo) UpdateExpiry(ctx context.Context, id string, expiryDate time.Time) error {
	for i := range f.assignments {
		if f.assignments[i].ID == id {
			d := expiryDate
			f.assignments[i].ExpiryDate = &d
		}
	}
	return nil
}

func (f *fakeAssignRepo) Delete(ctx context.Context, id, companyID string) error {
	return nil
}

type fakeOverrideRepo struct {
	overrides map[string]schedule.ScheduleOverride // keyed by date "2006-01-02"
}

func (f *fakeOverrideRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*schedule.ScheduleOverride, error) {
	o, ok := f.overrides[date.Format("2006-01-02")]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (f *fakeOverrideRepo) Upsert(ctx context.Context, o schedule.ScheduleOverride) (schedule.ScheduleOverride, error) {
	f.overrides[o.Date.Format("2006-01-02")] = o
	return o, nil
}

func (f *fakeOverrideRepo) DeleteByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) error {
	delete(f.overrides, date.Format("2006-01-02"))
	return nil
}

func (f *fakeOverrideRepo) ListByEmployee(ctx context.Context, employeeID, companyID string) ([]schedule.ScheduleOverride, error) {
	return nil, nil
}

type fakeEmployeeRepo struct{}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id, companyID string) (employee.Employee, error) {
	return employee.Employee{ID: id, CompanyID: companyID, EmploymentStatus: employee.EmploymentStatusActive}, nil
}

func (f *fakeEmployeeRepo) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	return e, nil
}

func (f *fakeEmployeeRepo) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return nil, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func newTestService(schedules *fakeScheduleRepo, assigns *fakeAssignRepo, overrides *fakeOverrideRepo) schedule.ScheduleService {
	return NewScheduleService(nil, schedules, assigns, overrides, &fakeEmployeeRepo{})
}

func TestResolve_OverrideWins(t *testing.T) {
	ctx := claimsContext(t)
	day := date(2026, 3, 20)

	schedules := &fakeScheduleRepo{schedules: map[string]schedule.WorkSchedule{
		"ws-regular": {ID: "ws-regular", Name: "Regular"},
		"ws-special": {ID: "ws-special", Name: "Inventory Day"},
	}}
	assigns := &fakeAssignRepo{assignments: []schedule.ScheduleAssignment{
		{ID: "a1", EmployeeID: testEmployeeID, WorkScheduleID: "ws-regular", EffectiveDate: date(2026, 1, 1)},
	}}
	overrides := &fakeOverrideRepo{overrides: map[string]schedule.ScheduleOverride{
		"2026-03-20": {EmployeeID: testEmployeeID, Date: day, WorkScheduleID: "ws-special"},
	}}

	svc := newTestService(schedules, assigns, overrides)

	resolved, err := svc.Resolve(ctx, testEmployeeID, day)
	require.NoError(t, err)
	assert.Equal(t, "override", resolved.Source)
	assert.Equal(t, "ws-special", resolved.Schedule.ID)

	// The day before has no override and falls back to the assignment.
	resolved, err = svc.Resolve(ctx, testEmployeeID, day.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Equal(t, "assignment", resolved.Source)
	assert.Equal(t, "ws-regular", resolved.Schedule.ID)
}

func TestResolve_LatestEffectiveDateWins(t *testing.T) {
	ctx := claimsContext(t)

	schedules := &fakeScheduleRepo{schedules: map[string]schedule.WorkSchedule{
		"ws-old": {ID: "ws-old"},
		"ws-new": {ID: "ws-new"},
	}}
	assigns := &fakeAssignRepo{assignments: []schedule.ScheduleAssignment{
		{ID: "a1", WorkScheduleID: "ws-old", EffectiveDate: date(2025, 1, 1)},
		{ID: "a2", WorkScheduleID: "ws-new", EffectiveDate: date(2026, 1, 1)},
	}}
	overrides := &fakeOverrideRepo{overrides: map[string]schedule.ScheduleOverride{}}

	svc := newTestService(schedules, assigns, overrides)

	resolved, err := svc.Resolve(ctx, testEmployeeID, date(2026, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, "ws-new", resolved.Schedule.ID)

	// Before the newer assignment takes effect, the older one is in force.
	resolved, err = svc.Resolve(ctx, testEmployeeID, date(2025, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, "ws-old", resolved.Schedule.ID)
}

func TestResolve_NoActiveSchedule(t *testing.T) {
	ctx := claimsContext(t)

	schedules := &fakeScheduleRepo{schedules: map[string]schedule.WorkSchedule{}}
	assigns := &fakeAssignRepo{assignments: []schedule.ScheduleAssignment{
		{ID: "a1", WorkScheduleID: "ws-1", EffectiveDate: date(2026, 1, 1), ExpiryDate: datePtr(2026, 1, 31)},
	}}
	overrides := &fakeOverrideRepo{overrides: map[string]schedule.ScheduleOverride{}}

	svc := newTestService(schedules, assigns, overrides)

	_, err := svc.Resolve(ctx, testEmployeeID, date(2026, 2, 15))
	assert.ErrorIs(t, err, schedule.ErrNoActiveSchedule)
}

func TestResolve_CarriesShiftName(t *testing.T) {
	ctx := claimsContext(t)
	night := "night"

	schedules := &fakeScheduleRepo{schedules: map[string]schedule.WorkSchedule{
		"ws-shift": {ID: "ws-shift", Kind: schedule.KindShift},
	}}
	assigns := &fakeAssignRepo{assignments: []schedule.ScheduleAssignment{
		{ID: "a1", WorkScheduleID: "ws-shift", ShiftName: &night, EffectiveDate: date(2026, 1, 1)},
	}}
	overrides := &fakeOverrideRepo{overrides: map[string]schedule.ScheduleOverride{}}

	svc := newTestService(schedules, assigns, overrides)

	resolved, err := svc.Resolve(ctx, testEmployeeID, date(2026, 2, 1))
	require.NoError(t, err)
	require.NotNil(t, resolved.ShiftName)
	assert.Equal(t, "night", *resolved.ShiftName)
}

func TestAddOverride_RequiresActiveAssignment(t *testing.T) {
	ctx := claimsContext(t)

	schedules := &fakeScheduleRepo{schedules: map[string]schedule.WorkSchedule{
		"ws-1": {ID: "ws-1", Name: "Regular"},
	}}
	assigns := &fakeAssignRepo{assignments: []schedule.ScheduleAssignment{
		{ID: "a1", EmployeeID: testEmployeeID, WorkScheduleID: "ws-1", EffectiveDate: date(2026, 1, 1), ExpiryDate: datePtr(2026, 1, 31)},
	}}
	overrides := &fakeOverrideRepo{overrides: map[string]schedule.ScheduleOverride{}}

	svc := newTestService(schedules, assigns, overrides)

	// No assignment covers March; there is nothing to override.
	_, err := svc.AddOverride(ctx, schedule.AddOverrideRequest{
		EmployeeID:     testEmployeeID,
		Date:           "2026-03-20",
		WorkScheduleID: "ws-1",
		Reason:         "inventory day",
	})
	assert.ErrorIs(t, err, schedule.ErrNoActiveSchedule)
	assert.Empty(t, overrides.overrides)

	// Inside the assignment interval the override lands.
	created, err := svc.AddOverride(ctx, schedule.AddOverrideRequest{
		EmployeeID:     testEmployeeID,
		Date:           "2026-01-15",
		WorkScheduleID: "ws-1",
		Reason:         "inventory day",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-01-15", created.Date)
}

func TestGetDayHours(t *testing.T) {
	ctx := claimsContext(t)
	start := time.Date(2000, 1, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2000, 1, 1, 17, 0, 0, 0, time.UTC)
	breakMins := 60

	schedules := &fakeScheduleRepo{schedules: map[string]schedule.WorkSchedule{
		"ws-fixed": {
			ID:           "ws-fixed",
			Kind:         schedule.KindFixed,
			WorkDays:     []int{1, 2, 3, 4, 5},
			StartTime:    &start,
			EndTime:      &end,
			BreakMinutes: &breakMins,
		},
	}}
	assigns := &fakeAssignRepo{assignments: []schedule.ScheduleAssignment{
		{ID: "a1", WorkScheduleID: "ws-fixed", EffectiveDate: date(2026, 1, 1)},
	}}
	overrides := &fakeOverrideRepo{overrides: map[string]schedule.ScheduleOverride{}}

	svc := newTestService(schedules, assigns, overrides)

	// 2026-03-16 is a Monday.
	hours, err := svc.GetDayHours(ctx, testEmployeeID, date(2026, 3, 16))
	require.NoError(t, err)
	assert.True(t, hours.IsWorkDay)
	assert.Equal(t, 7.0, hours.WorkHours)

	// 2026-03-15 is a Sunday.
	hours, err = svc.GetDayHours(ctx, testEmployeeID, date(2026, 3, 15))
	require.NoError(t, err)
	assert.False(t, hours.IsWorkDay)
}

func TestOverlapsNewInterval(t *testing.T) {
	openEnded := schedule.ScheduleAssignment{EffectiveDate: date(2026, 1, 1)}
	bounded := schedule.ScheduleAssignment{
		EffectiveDate: date(2026, 1, 1),
		ExpiryDate:    datePtr(2026, 6, 30),
	}

	assert.True(t, overlapsNewInterval(openEnded, date(2026, 3, 1), nil),
		"open-ended assignment overlaps any later start")
	assert.True(t, overlapsNewInterval(bounded, date(2026, 6, 1), nil),
		"new interval starting inside the bounded one overlaps")
	assert.False(t, overlapsNewInterval(bounded, date(2026, 7, 1), nil),
		"new interval starting after expiry does not overlap")
	assert.True(t, overlapsNewInterval(bounded, date(2025, 12, 1), datePtr(2026, 1, 15)),
		"new interval ending inside the bounded one overlaps")
}

func TestAssignmentLess(t *testing.T) {
	older := schedule.ScheduleAssignment{EffectiveDate: date(2025, 1, 1)}
	newer := schedule.ScheduleAssignment{EffectiveDate: date(2026, 1, 1)}
	assert.True(t, assignmentLess(older, newer))
	assert.False(t, assignmentLess(newer, older))

	// Same effective date: the open-ended one outranks the bounded one.
	bounded := schedule.ScheduleAssignment{EffectiveDate: date(2026, 1, 1), ExpiryDate: datePtr(2026, 6, 30)}
	assert.True(t, assignmentLess(bounded, newer))
	assert.False(t, assignmentLess(newer, bounded))
}
