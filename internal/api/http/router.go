package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-directory/internal/api/http/handlers"
	"github.com/spec-kit/staff-directory/internal/auth"
	apperrors "github.com/spec-kit/staff-directory/pkg/util/errorutil"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	Staff        *handlers.StaffHandler
	Guard        *auth.AccessGuard
	MaxBodyBytes int
}

// RegisterRoutes wires HTTP routes at the root and again under /api.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	registerDirectory(app, cfg)
	registerDirectory(app.Group("/api"), cfg)

	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("route", nil)
	})
}

func registerDirectory(r fiber.Router, cfg RouteConfig) {
	body := handlers.RequireJSONBody(cfg.MaxBodyBytes)

	r.Get("/health", cfg.Health.Live)
	r.Get("/health/ready", cfg.Health.Ready)

	r.Post("/admin/login", body, cfg.Auth.Login)

	r.Get("/staff", cfg.Staff.List)
	r.Get("/staff/:id", cfg.Staff.Get)
	r.Post("/staff", cfg.Guard.Handle, body, cfg.Staff.Create)
	r.Put("/staff/:id", cfg.Guard.Handle, body, cfg.Staff.Update)
	r.Delete("/staff/:id", cfg.Guard.Handle, cfg.Staff.Delete)
}
