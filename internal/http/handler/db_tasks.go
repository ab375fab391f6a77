package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"taskapi/internal/model"
	"taskapi/internal/service"
	"taskapi/internal/telemetry"
)

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "Invalid task id", "id must be an integer")
}

// failTask records and logs a task operation failure, then writes the mapped response.
// A lookup that found no row is reported as a TaskNotFound event.
func failTask(c *fiber.Ctx, sink telemetry.Sink, log zerolog.Logger, op string, err error, errText string) error {
	if errors.Is(err, service.ErrNotFound) {
		sink.RecordEvent(c.UserContext(), "TaskNotFound", map[string]string{
			"operation": op,
			"taskId":    c.Params("id"),
		})
	}
	if isBackingFailure(err) {
		sink.RecordException(c.UserContext(), err, map[string]string{"operation": op})
		log.Error().Err(err).Str("component", "handler").Str("operation", op).Msg("task operation failed")
	}
	return writeTaskError(c, err, errText)
}

// ListDBTasks returns every persisted task, newest first.
func ListDBTasks(svc service.TaskService, sink telemetry.Sink, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tasks, err := svc.List(c.UserContext())
		if err != nil {
			return failTask(c, sink, log, "list", err, "Failed to fetch tasks")
		}
		sink.RecordEvent(c.UserContext(), "DbTasksListed", map[string]string{"count": strconv.Itoa(len(tasks))})
		return c.JSON(fiber.Map{"success": true, "tasks": tasks, "count": len(tasks)})
	}
}

// GetDBTask returns one persisted task.
func GetDBTask(svc service.TaskService, sink telemetry.Sink, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return invalidID(c)
		}
		task, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return failTask(c, sink, log, "get", err, "Failed to fetch task")
		}
		sink.RecordEvent(c.UserContext(), "DbTaskViewed", map[string]string{"taskId": strconv.FormatInt(id, 10)})
		return c.JSON(fiber.Map{"success": true, "task": task})
	}
}

// CreateDBTask inserts a task from a JSON body with a required title.
func CreateDBTask(svc service.TaskService, sink telemetry.Sink, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.TaskInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body", err.Error())
		}
		task, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return failTask(c, sink, log, "create", err, "Failed to create task")
		}
		sink.RecordEvent(c.UserContext(), "TaskCreated", map[string]string{
			"taskId": strconv.FormatInt(task.ID, 10),
			"title":  task.Title,
		})
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "task": task})
	}
}

// UpdateDBTask replaces title, description and completed of an existing task.
func UpdateDBTask(svc service.TaskService, sink telemetry.Sink, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return invalidID(c)
		}
		var in model.TaskInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body", err.Error())
		}
		task, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return failTask(c, sink, log, "update", err, "Failed to update task")
		}
		sink.RecordEvent(c.UserContext(), "TaskUpdated", map[string]string{
			"taskId":    strconv.FormatInt(id, 10),
			"completed": strconv.FormatBool(task.Completed),
		})
		return c.JSON(fiber.Map{"success": true, "task": task})
	}
}

// DeleteDBTask removes a task and echoes the deleted record.
func DeleteDBTask(svc service.TaskService, sink telemetry.Sink, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return invalidID(c)
		}
		task, err := svc.Delete(c.UserContext(), id)
		if err != nil {
			return failTask(c, sink, log, "delete", err, "Failed to delete task")
		}
		sink.RecordEvent(c.UserContext(), "TaskDeleted", map[string]string{"taskId": strconv.FormatInt(id, 10)})
		return c.JSON(fiber.Map{"success": true, "message": "Task deleted", "task": task})
	}
}
