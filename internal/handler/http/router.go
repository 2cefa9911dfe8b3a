package http

import (
	"log/slog"
	"os"

	"github.com/gajihub/payroll-backend-go/internal/config"
	"github.com/gajihub/payroll-backend-go/internal/handler/http/middleware"
	"github.com/gajihub/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	authHandler AuthHandler,
	employeeHandler EmployeeHandler,
	attendanceHandler AttendanceHandler,
	payrollHandler PayrollHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
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
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", employeeHandler.List)
				r.Get("/{id}", employeeHandler.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePayrollManager)
					r.Post("/", employeeHandler.Create)
				})

				r.Route("/{employeeId}/salary-components", func(r chi.Router) {
					r.Use(middleware.RequirePayrollManager)
					r.Get("/", payrollHandler.GetEmployeeComponents)
					r.Post("/", payrollHandler.AssignComponent)
				})

				r.Get("/{employeeId}/attendances", attendanceHandler.ListByEmployee)
			})

			r.Route("/attendances", func(r chi.Router) {
				r.Post("/", attendanceHandler.Create)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePayrollManager)
					r.Put("/{id}/overtime", attendanceHandler.SetOvertime)
				})
			})

			r.Route("/salary-components", func(r chi.Router) {
				r.Use(middleware.RequirePayrollManager)
				r.Post("/", payrollHandler.CreateComponent)
				r.Get("/", payrollHandler.ListComponents)
				r.Get("/{id}", payrollHandler.GetComponent)
				r.Put("/{id}", payrollHandler.UpdateComponent)
				r.Delete("/{id}", payrollHandler.DeactivateComponent)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/records/{id}/payslip", payrollHandler.GetPayslip)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePayrollManager)
					r.Post("/process", payrollHandler.ProcessPayroll)
					r.Get("/records", payrollHandler.ListPayrollRecords)
					r.Get("/records/{id}", payrollHandler.GetPayrollRecord)
					r.Put("/records/{id}/status", payrollHandler.UpdatePayrollStatus)
					r.Delete("/employee-components/{id}", payrollHandler.RemoveEmployeeComponent)
					r.Get("/summary", payrollHandler.GetPayrollSummary)
				})
			})
		})
	})
	return r
}
