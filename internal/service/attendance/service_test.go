package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kargo-erp/hr-backend-go/internal/config"
	"github.com/kargo-erp/hr-backend-go/internal/domain/attendance"
	"github.com/kargo-erp/hr-backend-go/internal/domain/employee"
	"github.com/kargo-erp/hr-backend-go/internal/domain/holiday"
	"github.com/kargo-erp/hr-backend-go/internal/domain/master/branch"
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
		"company_id":  testCompanyID,
		"employee_id": testEmployeeID,
		"user_id":     "user-1",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

type fakeAttendanceRepo struct {
	records map[string]attendance.Attendance // keyed by employeeID|date
	nextID  int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: map[string]attendance.Attendance{}}
}

func recordKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	key := recordKey(a.EmployeeID, a.Date)
	if _, exists := f.records[key]; exists {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}
	f.nextID++
	a.ID = recordKey(a.EmployeeID, a.Date)
	f.records[key] = a
	return a, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id, companyID string) (attendance.Attendance, error) {
	for _, a := range f.records {
		if a.ID == id {
			return a, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*attendance.Attendance, error) {
	a, ok := f.records[recordKey(employeeID, date)]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, a attendance.Attendance) error {
	f.records[recordKey(a.EmployeeID, a.Date)] = a
	return nil
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter, companyID string) ([]attendance.Attendance, int64, error) {
	return nil, 0, nil
}

func (f *fakeAttendanceRepo) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter, companyID string) ([]attendance.Attendance, int64, error) {
	return nil, 0, nil
}

type fakeEmployeeRepo struct {
	status employee.EmploymentStatus
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id, companyID string) (employee.Employee, error) {
	status := f.status
	if status == "" {
		status = employee.EmploymentStatusActive
	}
	return employee.Employee{
		ID:               id,
		CompanyID:        companyID,
		BranchID:         "branch-1",
		FullName:         "Test Employee",
		EmploymentStatus: status,
	}, nil
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

type fakeBranchRepo struct {
	timezone string
}

func (f *fakeBranchRepo) Create(ctx context.Context, b branch.Branch) (branch.Branch, error) {
	return b, nil
}

func (f *fakeBranchRepo) GetByID(ctx context.Context, id, companyID string) (branch.Branch, error) {
	return branch.Branch{}, branch.ErrBranchNotFound
}

func (f *fakeBranchRepo) GetByCompanyID(ctx context.Context, companyID string) ([]branch.Branch, error) {
	return nil, nil
}

func (f *fakeBranchRepo) GetTimezoneByEmployeeID(ctx context.Context, employeeID, companyID string) (string, error) {
	return f.timezone, nil
}

// fakeScheduleService returns a fixed DayHours; the schedule CRUD methods are
// not reached by the attendance paths.
type fakeScheduleService struct {
	dayHours schedule.DayHours
	err      error
}

func (f *fakeScheduleService) CreateWorkSchedule(ctx context.Context, req schedule.CreateWorkScheduleRequest) (schedule.WorkScheduleResponse, error) {
	return schedule.WorkScheduleResponse{}, nil
}

func (f *fakeScheduleService) GetWorkSchedule(ctx context.Context, id string) (schedule.WorkScheduleResponse, error) {
	return schedule.WorkScheduleResponse{}, nil
}

func (f *fakeScheduleService) ListWorkSchedules(ctx context.Context, filter schedule.WorkScheduleFilter) (schedule.ListWorkScheduleResponse, error) {
	return schedule.ListWorkScheduleResponse{}, nil
}

func (f *fakeScheduleService) DeleteWorkSchedule(ctx context.Context, id string) error {
	return nil
}

func (f *fakeScheduleService) Assign(ctx context.Context, req schedule.AssignScheduleRequest) (schedule.ScheduleAssignmentResponse, error) {
	return schedule.ScheduleAssignmentResponse{}, nil
}

func (f *fakeScheduleService) ListAssignments(ctx context.Context, employeeID string) ([]schedule.ScheduleAssignmentResponse, error) {
	return nil, nil
}

func (f *fakeScheduleService) AddOverride(ctx context.Context, req schedule.AddOverrideRequest) (schedule.ScheduleOverrideResponse, error) {
	return schedule.ScheduleOverrideResponse{}, nil
}

func (f *fakeScheduleService) RemoveOverride(ctx context.Context, req schedule.RemoveOverrideRequest) error {
	return nil
}

func (f *fakeScheduleService) ListOverrides(ctx context.Context, employeeID string) ([]schedule.ScheduleOverrideResponse, error) {
	return nil, nil
}

func (f *fakeScheduleService) Resolve(ctx context.Context, employeeID string, date time.Time) (schedule.ResolvedSchedule, error) {
	return schedule.ResolvedSchedule{}, nil
}

func (f *fakeScheduleService) GetDayHours(ctx context.Context, employeeID string, date time.Time) (schedule.DayHours, error) {
	return f.dayHours, f.err
}

type fakeHolidayService struct {
	dayStatus holiday.DayStatus
}

func (f *fakeHolidayService) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	return holiday.HolidayResponse{}, nil
}

func (f *fakeHolidayService) Get(ctx context.Context, id string) (holiday.HolidayResponse, error) {
	return holiday.HolidayResponse{}, nil
}

func (f *fakeHolidayService) List(ctx context.Context, filter holiday.HolidayFilter) (holiday.ListHolidayResponse, error) {
	return holiday.ListHolidayResponse{}, nil
}

func (f *fakeHolidayService) Delete(ctx context.Context, id string) error {
	return nil
}

func (f *fakeHolidayService) Generate(ctx context.Context, year int) (holiday.GenerateResponse, error) {
	return holiday.GenerateResponse{}, nil
}

func (f *fakeHolidayService) GenerateForCompany(ctx context.Context, companyID string, year int) (holiday.GenerateResponse, error) {
	return holiday.GenerateResponse{}, nil
}

func (f *fakeHolidayService) DayStatusFor(ctx context.Context, companyID, branchID string, date time.Time) (holiday.DayStatus, error) {
	return f.dayStatus, nil
}

// workDayHours is a 09:00-17:00 fixed day in local wall-clock terms.
func workDayHours() schedule.DayHours {
	start := time.Date(2000, 1, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2000, 1, 1, 17, 0, 0, 0, time.UTC)
	return schedule.DayHours{IsWorkDay: true, WorkHours: 8, StartTime: &start, EndTime: &end}
}

type serviceOpts struct {
	repo     *fakeAttendanceRepo
	employee *fakeEmployeeRepo
	schedule *fakeScheduleService
	holiday  *fakeHolidayService
	now      time.Time
}

func newTestService(opts serviceOpts) *attendanceServiceImpl {
	if opts.repo == nil {
		opts.repo = newFakeAttendanceRepo()
	}
	if opts.employee == nil {
		opts.employee = &fakeEmployeeRepo{}
	}
	if opts.schedule == nil {
		opts.schedule = &fakeScheduleService{dayHours: workDayHours()}
	}
	if opts.holiday == nil {
		opts.holiday = &fakeHolidayService{}
	}
	return &attendanceServiceImpl{
		attendanceRepo:  opts.repo,
		employeeRepo:    opts.employee,
		branchRepo:      &fakeBranchRepo{timezone: "Asia/Jakarta"},
		scheduleService: opts.schedule,
		holidayService:  opts.holiday,
		cfg:             config.AttendanceConfig{GracePeriodMinutes: 15, HalfDayHours: 4},
		now:             func() time.Time { return opts.now },
	}
}

// jakarta converts a local Jakarta wall-clock time on 2026-03-16 to the UTC
// instant the clock would report.
func jakartaInstant(hour, minute int) time.Time {
	return time.Date(2026, 3, 16, hour-7, minute, 0, 0, time.UTC)
}

func checkInReq() attendance.CheckInRequest {
	return attendance.CheckInRequest{EmployeeID: testEmployeeID, Latitude: -6.2, Longitude: 106.8}
}

func TestCheckIn_WithinGracePresent(t *testing.T) {
	svc := newTestService(serviceOpts{now: jakartaInstant(9, 10)})

	resp, err := svc.CheckIn(claimsContext(t), checkInReq())
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusPresent), resp.Status)
	assert.Equal(t, "2026-03-16", resp.Date)
}

func TestCheckIn_PastGraceLate(t *testing.T) {
	svc := newTestService(serviceOpts{now: jakartaInstant(9, 20)})

	resp, err := svc.CheckIn(claimsContext(t), checkInReq())
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusLate), resp.Status)
}

func TestCheckIn_HolidayBeatsLateness(t *testing.T) {
	svc := newTestService(serviceOpts{
		now:     jakartaInstant(11, 0),
		holiday: &fakeHolidayService{dayStatus: holiday.DayStatus{IsHoliday: true}},
	})

	resp, err := svc.CheckIn(claimsContext(t), checkInReq())
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusHoliday), resp.Status)
}

func TestCheckIn_OffDayPresent(t *testing.T) {
	svc := newTestService(serviceOpts{
		now:      jakartaInstant(13, 0),
		schedule: &fakeScheduleService{dayHours: schedule.DayHours{IsWorkDay: false}},
	})

	resp, err := svc.CheckIn(claimsContext(t), checkInReq())
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusPresent), resp.Status)
}

func TestCheckIn_FlexibleScheduleNeverLate(t *testing.T) {
	svc := newTestService(serviceOpts{
		now:      jakartaInstant(14, 30),
		schedule: &fakeScheduleService{dayHours: schedule.DayHours{IsWorkDay: true, WorkHours: 6}},
	})

	resp, err := svc.CheckIn(claimsContext(t), checkInReq())
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusPresent), resp.Status)
}

func TestCheckIn_Duplicate(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(serviceOpts{repo: repo, now: jakartaInstant(9, 0)})
	ctx := claimsContext(t)

	_, err := svc.CheckIn(ctx, checkInReq())
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, checkInReq())
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_InactiveEmployee(t *testing.T) {
	svc := newTestService(serviceOpts{
		now:      jakartaInstant(9, 0),
		employee: &fakeEmployeeRepo{status: employee.EmploymentStatusResigned},
	})

	_, err := svc.CheckIn(claimsContext(t), checkInReq())
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestCheckOut_FullDayKeepsStatus(t *testing.T) {
	repo := newFakeAttendanceRepo()
	ctx := claimsContext(t)

	svc := newTestService(serviceOpts{repo: repo, now: jakartaInstant(9, 0)})
	_, err := svc.CheckIn(ctx, checkInReq())
	require.NoError(t, err)

	svc.now = func() time.Time { return jakartaInstant(17, 0) }
	resp, err := svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: testEmployeeID, Latitude: -6.2, Longitude: 106.8})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusPresent), resp.Status)
	require.NotNil(t, resp.WorkHours)
	assert.Equal(t, 8.0, *resp.WorkHours)
}

func TestCheckOut_EarlyLeaveHalfDay(t *testing.T) {
	repo := newFakeAttendanceRepo()
	ctx := claimsContext(t)

	svc := newTestService(serviceOpts{repo: repo, now: jakartaInstant(9, 0)})
	_, err := svc.CheckIn(ctx, checkInReq())
	require.NoError(t, err)

	svc.now = func() time.Time { return jakartaInstant(12, 30) }
	resp, err := svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: testEmployeeID, Latitude: -6.2, Longitude: 106.8})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusHalfDay), resp.Status)
	require.NotNil(t, resp.WorkHours)
	assert.Equal(t, 3.5, *resp.WorkHours)
}

func TestCheckOut_EarlyLeaveOverwritesHoliday(t *testing.T) {
	repo := newFakeAttendanceRepo()
	ctx := claimsContext(t)

	svc := newTestService(serviceOpts{
		repo:    repo,
		now:     jakartaInstant(9, 0),
		holiday: &fakeHolidayService{dayStatus: holiday.DayStatus{IsHoliday: true}},
	})
	_, err := svc.CheckIn(ctx, checkInReq())
	require.NoError(t, err)

	// The downgrade is unconditional; working under the threshold on a
	// holiday ends as half_day like any other day.
	svc.now = func() time.Time { return jakartaInstant(12, 30) }
	resp, err := svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: testEmployeeID, Latitude: -6.2, Longitude: 106.8})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusHalfDay), resp.Status)
	require.NotNil(t, resp.WorkHours)
	assert.Equal(t, 3.5, *resp.WorkHours)
}

func TestCheckOut_FullDayKeepsHoliday(t *testing.T) {
	repo := newFakeAttendanceRepo()
	ctx := claimsContext(t)

	svc := newTestService(serviceOpts{
		repo:    repo,
		now:     jakartaInstant(9, 0),
		holiday: &fakeHolidayService{dayStatus: holiday.DayStatus{IsHoliday: true}},
	})
	_, err := svc.CheckIn(ctx, checkInReq())
	require.NoError(t, err)

	svc.now = func() time.Time { return jakartaInstant(17, 0) }
	resp, err := svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: testEmployeeID, Latitude: -6.2, Longitude: 106.8})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusHoliday), resp.Status)
}

func TestCheckOut_NotCheckedIn(t *testing.T) {
	svc := newTestService(serviceOpts{now: jakartaInstant(17, 0)})

	_, err := svc.CheckOut(claimsContext(t), attendance.CheckOutRequest{EmployeeID: testEmployeeID, Latitude: -6.2, Longitude: 106.8})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestCheckOut_Twice(t *testing.T) {
	repo := newFakeAttendanceRepo()
	ctx := claimsContext(t)

	svc := newTestService(serviceOpts{repo: repo, now: jakartaInstant(9, 0)})
	_, err := svc.CheckIn(ctx, checkInReq())
	require.NoError(t, err)

	svc.now = func() time.Time { return jakartaInstant(17, 0) }
	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: testEmployeeID, Latitude: -6.2, Longitude: 106.8})
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: testEmployeeID, Latitude: -6.2, Longitude: 106.8})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestCheckOut_RoundsToTwoDecimals(t *testing.T) {
	repo := newFakeAttendanceRepo()
	ctx := claimsContext(t)

	svc := newTestService(serviceOpts{repo: repo, now: jakartaInstant(9, 0)})
	_, err := svc.CheckIn(ctx, checkInReq())
	require.NoError(t, err)

	// 7h50m elapsed is 7.8333... hours.
	svc.now = func() time.Time { return jakartaInstant(16, 50) }
	resp, err := svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: testEmployeeID, Latitude: -6.2, Longitude: 106.8})
	require.NoError(t, err)
	require.NotNil(t, resp.WorkHours)
	assert.Equal(t, 7.83, *resp.WorkHours)
}
