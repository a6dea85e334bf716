package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"masjidku_dashboard/internals/middlewares/logger"
)

// SetupMiddlewares: urutan recover → logger → CORS → rate limit global.
func SetupMiddlewares(app *fiber.App, corsOrigins string) {
	app.Use(RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware(corsOrigins))
	app.Use(GlobalRateLimiter())
}
