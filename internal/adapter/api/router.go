package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func SetupRouter(app *fiber.App, handler *GenerationHandler, env, version string) {
	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"version": version,
			"env":     env,
		})
	})

	// API Versioning
	v1 := app.Group("/v1")
	v1.Post("/generate/:useCase", handler.HandleGenerate)
	v1.Post("/transcribe", handler.HandleTranscribe)
}
