package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kargo-erp/hr-backend-go/internal/config"
	"github.com/kargo-erp/hr-backend-go/internal/domain/attendance"
	"github.com/kargo-erp/hr-backend-go/internal/domain/employee"
	"github.com/kargo-erp/hr-backend-go/internal/domain/holiday"
	"github.com/kargo-erp/hr-backend-go/internal/domain/master/branch"
	"github.com/kargo-erp/hr-backend-go/internal/domain/schedule"
)

type attendanceServiceImpl struct {
	attendanceRepo  attendance.AttendanceRepository
	employeeRepo    employee.EmployeeRepository
	branchRepo      branch.BranchRepository
	scheduleService schedule.ScheduleService
	holidayService  holiday.HolidayService
	cfg             config.AttendanceConfig

	// now is swappable in tests.
	now func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	branchRepo branch.BranchRepository,
	scheduleService schedule.ScheduleService,
	holidayService holiday.HolidayService,
	cfg config.AttendanceConfig,
) attendance.AttendanceService {
	return &attendanceServiceImpl{
		attendanceRepo:  attendanceRepo,
		employeeRepo:    employeeRepo,
		branchRepo:      branchRepo,
		scheduleService: scheduleService,
		holidayService:  holidayService,
		cfg:             cfg,
		now:             time.Now,
	}
}

// CheckIn implements attendance.AttendanceService.
func (s *attendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	companyID, err := companyIDFromClaims(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if emp.EmploymentStatus != employee.EmploymentStatusActive {
		return attendance.AttendanceResponse{}, employee.ErrEmployeeInactive
	}

	now, workDay := s.localWorkDay(ctx, req.EmployeeID, companyID)

	existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, workDay, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	status, err := s.classifyCheckIn(ctx, emp, companyID, now, workDay)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record := attendance.Attendance{
		EmployeeID:       req.EmployeeID,
		CompanyID:        companyID,
		Date:             workDay,
		CheckIn:          &now,
		CheckInLatitude:  &req.Latitude,
		CheckInLongitude: &req.Longitude,
		DeviceInfo:       req.DeviceInfo,
		Status:           status,
	}

	created, err := s.attendanceRepo.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	created.EmployeeName = &emp.FullName

	return toAttendanceResponse(created), nil
}

// classifyCheckIn determines the initial status for the work day: holiday
// beats the schedule, a non-working day is a plain present, and a working
// day compares the arrival against the scheduled start plus the grace
// period.
func (s *attendanceServiceImpl) classifyCheckIn(ctx context.Context, emp employee.Employee, companyID string, now, workDay time.Time) (attendance.Status, error) {
	dayStatus, err := s.holidayService.DayStatusFor(ctx, companyID, emp.BranchID, workDay)
	if err != nil {
		return "", err
	}
	if dayStatus.IsHoliday {
		return attendance.StatusHoliday, nil
	}

	dayHours, err := s.scheduleService.GetDayHours(ctx, emp.ID, workDay)
	if err != nil {
		return "", err
	}
	if !dayHours.IsWorkDay || dayHours.StartTime == nil {
		// Off-day or flexible schedule: no scheduled start to be late against.
		return attendance.StatusPresent, nil
	}

	scheduledStart := time.Date(
		workDay.Year(), workDay.Month(), workDay.Day(),
		dayHours.StartTime.Hour(), dayHours.StartTime.Minute(), 0, 0, now.Location(),
	)
	grace := time.Duration(s.cfg.GracePeriodMinutes) * time.Minute
	if now.After(scheduledStart.Add(grace)) {
		return attendance.StatusLate, nil
	}
	return attendance.StatusPresent, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *attendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	companyID, err := companyIDFromClaims(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now, workDay := s.localWorkDay(ctx, req.EmployeeID, companyID)

	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, workDay, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if record == nil || record.CheckIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if record.CheckOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	elapsed := now.Sub(*record.CheckIn).Hours()
	workHours := math.Round(elapsed*100) / 100

	record.CheckOut = &now
	record.CheckOutLatitude = &req.Latitude
	record.CheckOutLongitude = &req.Longitude
	record.WorkHours = &workHours

	// An early leave overwrites whatever check-in decided.
	if workHours < s.cfg.HalfDayHours {
		record.Status = attendance.StatusHalfDay
	}

	if err := s.attendanceRepo.Update(ctx, *record); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toAttendanceResponse(*record), nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *attendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	companyID, err := companyIDFromClaims(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	employeeID, err := claimString(ctx, "employee_id")
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	records, total, err := s.attendanceRepo.GetMyAttendance(ctx, employeeID, filter, companyID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return toListResponse(records, total, filter.Page, filter.Limit), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *attendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	companyID, err := companyIDFromClaims(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	records, total, err := s.attendanceRepo.List(ctx, filter, companyID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return toListResponse(records, total, filter.Page, filter.Limit), nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *attendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	companyID, err := companyIDFromClaims(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.attendanceRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toAttendanceResponse(record), nil
}

// localWorkDay returns the current instant in the employee's branch
// timezone and the corresponding calendar day. A night-shift worker in
// Jakarta and one in Jayapura can check in at the same instant and land on
// different work days.
func (s *attendanceServiceImpl) localWorkDay(ctx context.Context, employeeID, companyID string) (time.Time, time.Time) {
	loc := time.UTC
	if tz, err := s.branchRepo.GetTimezoneByEmployeeID(ctx, employeeID, companyID); err == nil {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	now := s.now().In(loc)
	workDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	return now, workDay
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

func toAttendanceResponse(a attendance.Attendance) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:                a.ID,
		EmployeeID:        a.EmployeeID,
		EmployeeName:      a.EmployeeName,
		Date:              a.Date.Format("2006-01-02"),
		CheckInLatitude:   a.CheckInLatitude,
		CheckInLongitude:  a.CheckInLongitude,
		CheckOutLatitude:  a.CheckOutLatitude,
		CheckOutLongitude: a.CheckOutLongitude,
		DeviceInfo:        a.DeviceInfo,
		Status:            string(a.Status),
		WorkHours:         a.WorkHours,
	}
	if a.CheckIn != nil {
		checkIn := a.CheckIn.Format(time.RFC3339)
		resp.CheckInTime = &checkIn
	}
	if a.CheckOut != nil {
		checkOut := a.CheckOut.Format(time.RFC3339)
		resp.CheckOutTime = &checkOut
	}
	return resp
}

func toListResponse(records []attendance.Attendance, total int64, page, limit int) attendance.ListAttendanceResponse {
	resp := attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        page,
		Limit:       limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		Attendances: make([]attendance.AttendanceResponse, 0, len(records)),
	}
	for _, r := range records {
		resp.Attendances = append(resp.Attendances, toAttendanceResponse(r))
	}
	return resp
}
