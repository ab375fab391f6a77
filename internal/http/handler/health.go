package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck reports service identity and which optional components were
// built at startup. It does not contact the dependencies.
func HealthCheck(info ServiceInfo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":      "healthy",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": info.Environment,
			"version":     info.Version,
			"database":    info.Database,
			"storage":     info.Storage,
			"monitoring":  info.Monitoring,
		})
	}
}

// LivenessProbe answers 200 with an empty body.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// Root describes the service and its capabilities.
func Root(info ServiceInfo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":     info.Name,
			"version":     info.Version,
			"environment": info.Environment,
			"description": "Task list and file upload API with optional relational storage, blob storage and telemetry",
			"features": fiber.Map{
				"inMemoryTasks": true,
				"database":      info.Database,
				"storage":       info.Storage,
				"monitoring":    info.Monitoring,
			},
			"endpoints": []string{
				"GET /api/health",
				"GET /api/tasks",
				"GET /api/tasks/:id",
				"GET /api/db/tasks",
				"GET /api/db/tasks/:id",
				"POST /api/db/tasks",
				"PUT /api/db/tasks/:id",
				"DELETE /api/db/tasks/:id",
				"POST /api/upload",
				"GET /api/files",
			},
		})
	}
}
