package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/escalation-service/internal/api/http/handlers"
	"github.com/spec-kit/escalation-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Escalations    *handlers.EscalationsHandler
	Metrics        *handlers.MetricsHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Reads are open; everything that creates
// or mutates cases sits behind the operator token check.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	escalations := app.Group("/escalations")
	escalations.Get("/", cfg.Escalations.List)
	escalations.Get("/export", cfg.Escalations.Export)
	escalations.Get("/:id", cfg.Escalations.Get)

	protected := escalations.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/", cfg.Escalations.Create)
	protected.Post("/bulk", cfg.Escalations.CreateBulk)
	protected.Patch("/:id/status", cfg.Escalations.UpdateStatus)

	metrics := app.Group("/metrics")
	metrics.Get("/summary", cfg.Metrics.Summary)
	metrics.Get("/ingest", cfg.Metrics.Ingest)
}
