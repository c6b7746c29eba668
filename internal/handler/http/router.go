package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/kargo-erp/hr-backend-go/internal/handler/http/middleware"
	"github.com/kargo-erp/hr-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	authHandler AuthHandler,
	scheduleHandler ScheduleHandler,
	holidayHandler HolidayHandler,
	attendanceHandler AttendanceHandler,
	correctionHandler CorrectionHandler,
	frontendURL string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "kargo-hr"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			r.Route("/login", func(r chi.Router) {
				r.Post("/", authHandler.Login)
				r.Route("/oauth", func(r chi.Router) {
					r.Get("/google", authHandler.LoginWithGoogle)
				})
			})
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", authHandler.OAuthCallbackGoogle)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/schedules", func(r chi.Router) {
				r.Get("/", scheduleHandler.ListWorkSchedules)
				r.Get("/{scheduleID}", scheduleHandler.GetWorkSchedule)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", scheduleHandler.CreateWorkSchedule)
					r.Delete("/{scheduleID}", scheduleHandler.DeleteWorkSchedule)
				})
			})

			r.Route("/employees/{employeeID}/schedule", func(r chi.Router) {
				r.Get("/", scheduleHandler.ResolveSchedule)
				r.Get("/hours", scheduleHandler.GetDayHours)
				r.Get("/assignments", scheduleHandler.ListAssignments)
				r.Get("/overrides", scheduleHandler.ListOverrides)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/assignments", scheduleHandler.AssignSchedule)
					r.Post("/overrides", scheduleHandler.AddOverride)
					r.Delete("/overrides/{date}", scheduleHandler.RemoveOverride)
				})
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", holidayHandler.List)
				r.Get("/{holidayID}", holidayHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", holidayHandler.Create)
					r.Delete("/{holidayID}", holidayHandler.Delete)
					r.Post("/generate/{year}", holidayHandler.Generate)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Get("/my", attendanceHandler.GetMyAttendance)
				r.Get("/{attendanceID}", attendanceHandler.GetAttendance)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", attendanceHandler.ListAttendance)
				})
			})

			r.Route("/corrections", func(r chi.Router) {
				r.Post("/", correctionHandler.Submit)
				r.Get("/", correctionHandler.List)
				r.Get("/{correctionID}", correctionHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/{correctionID}/approve", correctionHandler.Approve)
					r.Post("/{correctionID}/reject", correctionHandler.Reject)
				})
			})
		})
	})
	return r
}
