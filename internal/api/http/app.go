package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-directory/internal/config"
	"github.com/spec-kit/staff-directory/internal/observability"
)

// minBodyLimit keeps the transport limit above the JSON body cap so the
// body guard, not the transport, decides when a body is too large.
const minBodyLimit = 4 * 1024 * 1024

// NewApp builds the fiber application with global middleware installed.
// Routes are added separately by RegisterRoutes.
func NewApp(cfg config.AppConfig, logger *zap.Logger, metrics *observability.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.Name,
		BodyLimit:             max(minBodyLimit, cfg.MaxBodyBytes*2),
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger, metrics),
	})
	RegisterMiddlewares(app, cfg, logger, metrics)
	return app
}
