package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	AdminAuth      *handlers.AdminAuthHandler
	AdminTickets   *handlers.AdminTicketsHandler
	Dropdowns      *handlers.DropdownsHandler
	Analytics      *handlers.AnalyticsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// Public surface: the submission form and status page.
	app.Post("/tickets", cfg.Tickets.SubmitTicket)
	app.Get("/tickets/:ticketID", cfg.Tickets.GetStatus)
	app.Get("/dropdowns/:type", cfg.Dropdowns.ListByType)

	admin := app.Group("/admin")
	admin.Post("/login", cfg.AdminAuth.Login)

	protected := admin.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/tickets", cfg.AdminTickets.ListTickets)
	protected.Post("/tickets/reassign-inactive", cfg.AdminTickets.ReassignInactive)
	protected.Get("/tickets/:id", cfg.AdminTickets.GetTicket)
	protected.Patch("/tickets/:id/disposition", cfg.AdminTickets.UpdateDisposition)
	protected.Patch("/tickets/:id/issue-type", cfg.AdminTickets.UpdateIssueType)
	protected.Patch("/tickets/:id/priority", cfg.AdminTickets.UpdatePriority)
	protected.Patch("/tickets/:id/remarks", cfg.AdminTickets.UpdateRemarks)
	protected.Patch("/tickets/:id/ext-remarks", cfg.AdminTickets.UpdateExtRemarks)
	protected.Patch("/tickets/:id/description", cfg.AdminTickets.UpdateDescription)
	protected.Patch("/tickets/:id/panel", cfg.AdminTickets.UpdatePanel)
	protected.Patch("/tickets/:id/submitter", cfg.AdminTickets.UpdateSubmitter)
	protected.Patch("/tickets/:id/resolution-estimate", cfg.AdminTickets.UpdateResolutionEstimate)
	protected.Post("/tickets/:id/assign", cfg.AdminTickets.Assign)

	protected.Get("/dropdowns", cfg.Dropdowns.ListGrouped)
	protected.Post("/dropdowns", cfg.Dropdowns.Create)
	protected.Put("/dropdowns/:id", cfg.Dropdowns.Update)
	protected.Delete("/dropdowns/:id", cfg.Dropdowns.Deactivate)

	protected.Get("/analytics/summary", cfg.Analytics.Summary)
	protected.Get("/analytics/assignments", cfg.Analytics.AssignmentStatistics)
}
