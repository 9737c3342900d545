package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/qdn-tickets/ticket-service/internal/api/http/handlers"
	"github.com/qdn-tickets/ticket-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Settings       *handlers.SettingsHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Get("/tickets/:name/:identifier", cfg.Tickets.GetTicket)

	app.Post("/auth/login", cfg.Auth.Login)

	settings := app.Group("/settings")
	settings.Get("", cfg.Settings.GetSettings)
	settings.Put("", cfg.AuthMiddleware.Handle, auth.RequireRole(auth.RoleOperator), cfg.Settings.UpdateSettings)
}
