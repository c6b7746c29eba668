package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/kargo-erp/hr-backend-go/internal/config"
	appHTTP "github.com/kargo-erp/hr-backend-go/internal/handler/http"
	"github.com/kargo-erp/hr-backend-go/internal/pkg/cron"
	"github.com/kargo-erp/hr-backend-go/internal/pkg/database"
	"github.com/kargo-erp/hr-backend-go/internal/pkg/jwt"
	"github.com/kargo-erp/hr-backend-go/internal/pkg/oauth"
	"github.com/kargo-erp/hr-backend-go/internal/repository/postgresql"
	attendanceService "github.com/kargo-erp/hr-backend-go/internal/service/attendance"
	authService "github.com/kargo-erp/hr-backend-go/internal/service/auth"
	correctionService "github.com/kargo-erp/hr-backend-go/internal/service/correction"
	holidayService "github.com/kargo-erp/hr-backend-go/internal/service/holiday"
	scheduleService "github.com/kargo-erp/hr-backend-go/internal/service/schedule"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	jwtRepo := postgresql.NewJWTRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	branchRepo := postgresql.NewBranchRepository(db)
	workScheduleRepo := postgresql.NewWorkScheduleRepository(db)
	assignmentRepo := postgresql.NewScheduleAssignmentRepository(db)
	overrideRepo := postgresql.NewScheduleOverrideRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	correctionRepo := postgresql.NewCorrectionRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	googleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)

	authSvc := authService.NewAuthService(db, userRepo, companyRepo, jwtRepo, jwtService)
	scheduleSvc := scheduleService.NewScheduleService(db, workScheduleRepo, assignmentRepo, overrideRepo, employeeRepo)
	holidaySvc := holidayService.NewHolidayService(holidayRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, branchRepo, scheduleSvc, holidaySvc, cfg.Attendance)
	correctionSvc := correctionService.NewCorrectionService(db, correctionRepo, attendanceRepo)

	authHandler := appHTTP.NewAuthHandler(jwtService, authSvc, googleService, cfg.App.FrontendURL)
	scheduleHandler := appHTTP.NewScheduleHandler(scheduleSvc)
	holidayHandler := appHTTP.NewHolidayHandler(holidaySvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	correctionHandler := appHTTP.NewCorrectionHandler(correctionSvc)

	scheduler := cron.NewScheduler()
	cron.NewHolidayJobs(holidaySvc, companyRepo).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		jwtService,
		authHandler,
		scheduleHandler,
		holidayHandler,
		attendanceHandler,
		correctionHandler,
		cfg.App.FrontendURL,
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	log.Println("Server listening on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server error: ", err)
	}
}
