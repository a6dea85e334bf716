package routes

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	database "masjidku_dashboard/internals/databases"
)

func BaseRoutes(app *fiber.App, deps Deps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Masjidku dashboard BFF berjalan 🚀")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "disabled"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		if database.DB != nil {
			dbStatus = "Connected"
			if err := database.Ping(); err != nil {
				dbStatus = "Database connection error"
				serverStatus = "DEGRADED"
				httpStatus = fiber.StatusServiceUnavailable
			}
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":           serverStatus,
			"database":         dbStatus,
			"upstream":         deps.Kit.Client.BaseURL,
			"use_dummy":        deps.Kit.Dummy,
			"inflight_uploads": deps.Kit.Client.InflightUploads(),
			"server_time":      time.Now().Format(time.RFC3339),
			"uptime_seconds":   int(time.Since(startTime).Seconds()),
			"environment":      os.Getenv("RAILWAY_ENVIRONMENT"),
		})
	})
}
