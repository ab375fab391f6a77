package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"taskapi/internal/repository/memory"
	"taskapi/internal/telemetry"
)

// ListTasks serves the fixed in-memory list truncated to limit.
func ListTasks(store *memory.TaskStore, limit int, sink telemetry.Sink) fiber.Handler {
	if limit <= 0 {
		limit = memory.DefaultLimit
	}
	return func(c *fiber.Ctx) error {
		tasks := store.List(limit)
		sink.RecordEvent(c.UserContext(), "TasksListed", map[string]string{
			"count":  strconv.Itoa(len(tasks)),
			"source": "memory",
		})
		return c.JSON(fiber.Map{
			"success": true,
			"tasks":   tasks,
			"count":   len(tasks),
			"limit":   limit,
		})
	}
}

// GetTask returns the in-memory task for id; unknown ids are synthesized.
func GetTask(store *memory.TaskStore, sink telemetry.Sink) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "Invalid task id", "id must be an integer")
		}
		task := store.Get(id)
		sink.RecordEvent(c.UserContext(), "TaskViewed", map[string]string{
			"taskId": strconv.FormatInt(id, 10),
			"source": "memory",
		})
		return c.JSON(fiber.Map{"success": true, "task": task})
	}
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
