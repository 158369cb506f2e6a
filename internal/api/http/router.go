package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/maintenance-report-service/internal/api/http/handlers"
	"github.com/spec-kit/maintenance-report-service/internal/auth"
	"github.com/spec-kit/maintenance-report-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Reports        *handlers.ReportsHandler
	AdminReports   *handlers.AdminReportsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	reports := app.Group("/reports", cfg.AuthMiddleware.Handle, auth.RequireRole())
	reports.Post("/", cfg.Reports.Create)
	reports.Get("/", cfg.Reports.ListOwn)
	reports.Get("/:id", cfg.Reports.Get)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle)

	triage := admin.Group("/reports", auth.RequireRole(domain.RoleTechnician, domain.RoleAdmin))
	triage.Get("/", cfg.AdminReports.ListVisible)
	triage.Get("/assigned", cfg.AdminReports.ListAssigned)
	triage.Get("/stats", cfg.AdminReports.Stats)
	triage.Patch("/:id/status", cfg.AdminReports.SetStatus)
	triage.Post("/:id/assign", auth.RequireRole(domain.RoleAdmin), cfg.AdminReports.Assign)
	triage.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.AdminReports.Hide)

	users := admin.Group("/users", auth.RequireRole(domain.RoleAdmin))
	users.Get("/", cfg.Users.List)
	users.Get("/technicians", cfg.Users.ListTechnicians)
	users.Patch("/:id/role", cfg.Users.ChangeRole)
}
