package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdeskhq/helpdesk-service/internal/api/http/handlers"
	"github.com/helpdeskhq/helpdesk-service/internal/auth"
	"github.com/helpdeskhq/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Per-ticket authorization happens in
// the services; route-level guards only fence the assignment paths.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/register", cfg.Auth.Register)
	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	protected.Get("/categories", cfg.Tickets.ListCategories)
	protected.Get("/priorities", cfg.Tickets.ListPriorities)

	tickets := protected.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.EditTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/status", cfg.Tickets.ChangeStatus)
	tickets.Post("/:id/priority", cfg.Tickets.ChangePriority)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Post("/:id/assign", auth.RequireAnyRole(domain.RoleAdmin), cfg.Tickets.Assign)
	tickets.Post("/:id/take", auth.RequireAnyRole(domain.RoleSupport), cfg.Tickets.Take)

	notifications := protected.Group("/notifications")
	notifications.Get("", cfg.Notifications.List)
	notifications.Get("/unread-count", cfg.Notifications.UnreadCount)
	notifications.Post("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)
}
