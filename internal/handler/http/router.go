package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth        AuthHandler
	Dashboard   DashboardHandler
	Branch      BranchHandler
	Employee    EmployeeHandler
	Attendance  AttendanceHandler
	Payroll     PayrollHandler
	User        UserHandler
	Role        RoleHandler
	Maintenance MaintenanceHandler
}

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	JWTService     jwt.Service
	AuthService    auth.AuthService
	Resolver       user.PermissionResolver
}

func NewRouter(cfg RouterConfig, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(middleware.Metrics)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Handle("/metrics", promhttp.Handler())

	view := func(module role.Module) func(http.Handler) http.Handler {
		return middleware.RequirePermission(cfg.Resolver, module, role.AccessView)
	}
	edit := func(module role.Module) func(http.Handler) http.Handler {
		return middleware.RequirePermission(cfg.Resolver, module, role.AccessEdit)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(cfg.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(cfg.AuthService))

			r.Route("/auth", func(r chi.Router) {
				r.Post("/logout-all", h.Auth.LogoutAll)
				r.Get("/me", h.Auth.Me)
			})

			r.With(view(role.ModuleDashboard)).Get("/dashboard", h.Dashboard.GetDashboard)

			r.Route("/branches", func(r chi.Router) {
				r.With(view(role.ModuleBranches)).Get("/", h.Branch.List)
				r.With(view(role.ModuleBranches)).Get("/{id}", h.Branch.Get)
				r.With(edit(role.ModuleBranches)).Post("/", h.Branch.Create)
				r.With(edit(role.ModuleBranches)).Put("/{id}", h.Branch.Update)
				r.With(edit(role.ModuleBranches)).Delete("/{id}", h.Branch.Delete)
			})

			r.Route("/employees", func(r chi.Router) {
				r.With(view(role.ModuleStaff)).Get("/", h.Employee.ListEmployees)
				r.With(view(role.ModuleStaff)).Get("/{id}", h.Employee.GetEmployee)
				r.With(edit(role.ModuleStaff)).Post("/", h.Employee.CreateEmployee)
				r.With(edit(role.ModuleStaff)).Put("/{id}", h.Employee.UpdateEmployee)
				r.With(edit(role.ModuleStaff)).Post("/{id}/approve", h.Employee.ApproveEmployee)
				r.With(edit(role.ModuleStaff)).Post("/{id}/deactivate", h.Employee.DeactivateEmployee)

				r.With(edit(role.ModulePayroll)).Put("/{id}/attendance", h.Attendance.SetDay)
				r.With(edit(role.ModulePayroll)).Post("/{id}/bonus", h.Attendance.AdjustBonus)
				r.With(edit(role.ModulePayroll)).Post("/{id}/penalty", h.Attendance.AdjustPenalty)
			})

			r.With(edit(role.ModulePayroll)).Post("/attendance/bulk", h.Attendance.BulkMark)

			r.Route("/payroll", func(r chi.Router) {
				r.Use(view(role.ModulePayroll))
				r.Get("/", h.Payroll.GetReport)
				r.Get("/export.csv", h.Payroll.ExportCSV)
				r.Get("/export.pdf", h.Payroll.ExportPDF)
			})

			r.Route("/users", func(r chi.Router) {
				r.With(view(role.ModuleUsers)).Get("/", h.User.List)
				r.With(view(role.ModuleUsers)).Get("/{id}", h.User.Get)
				r.With(edit(role.ModuleUsers)).Post("/", h.User.Create)
				r.With(edit(role.ModuleUsers)).Put("/{id}", h.User.Update)
				r.With(edit(role.ModuleUsers)).Delete("/{id}", h.User.Delete)
				r.With(edit(role.ModuleRoles)).Put("/{id}/permissions", h.User.SetPermissions)
				r.With(edit(role.ModuleRoles)).Delete("/{id}/permissions", h.User.ResetPermissions)
			})

			r.Route("/roles", func(r chi.Router) {
				r.With(view(role.ModuleRoles)).Get("/", h.Role.List)
				r.With(edit(role.ModuleRoles)).Put("/{name}/permissions/{module}", h.Role.UpdatePermission)
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/maintenance/retention", h.Maintenance.RunRetention)
			})
		})
	})
	return r
}
