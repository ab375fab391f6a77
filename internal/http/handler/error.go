package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"taskapi/internal/http/middleware"
	"taskapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Code      string `json:"code"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a standardized JSON error response.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - errText: short human-readable summary
// - message: optional detail; for backing-service failures this is the underlying error message
func writeError(c *fiber.Ctx, status int, code, errText, message string) error {
	return c.Status(status).JSON(errorPayload{
		Success:   false,
		Error:     errText,
		Code:      code,
		Message:   message,
		RequestID: middleware.RequestIDFromCtx(c),
	})
}

// notConfigured answers 503 for a subsystem whose credentials were absent at startup.
func notConfigured(c *fiber.Ctx, subsystem, hint string) error {
	return writeError(c, fiber.StatusServiceUnavailable, "NOT_CONFIGURED", subsystem+" not configured", hint)
}

const (
	databaseHint = "Set DATABASE_URL to enable persistent task storage"
	storageHint  = "Set AZURE_STORAGE_CONNECTION_STRING or MINIO_* to enable file uploads"
)

// writeTaskError maps service errors from the task use cases to responses.
func writeTaskError(c *fiber.Ctx, err error, errText string) error {
	switch {
	case errors.Is(err, service.ErrNotConfigured):
		return notConfigured(c, "Database", databaseHint)
	case errors.Is(err, service.ErrValidation):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "Title is required", err.Error())
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Task not found", "")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", errText, err.Error())
	}
}

// writeFileError maps service errors from the file use cases to responses.
func writeFileError(c *fiber.Ctx, err error, errText string) error {
	switch {
	case errors.Is(err, service.ErrNotConfigured):
		return notConfigured(c, "Storage", storageHint)
	case errors.Is(err, service.ErrFileRequired):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "No file uploaded", "")
	case errors.Is(err, service.ErrUnsupportedType):
		return writeError(c, fiber.StatusBadRequest, "INVALID_FILE_TYPE", "Invalid file type",
			"Allowed types: image/jpeg, image/png, image/gif, application/pdf, text/plain")
	case errors.Is(err, service.ErrFileTooLarge):
		return writeError(c, fiber.StatusBadRequest, "FILE_TOO_LARGE", "File too large", "Maximum size is 10 MiB")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", errText, err.Error())
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request", "")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found", "")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed", "")
		case fiber.StatusRequestEntityTooLarge:
			// The server rejects bodies past BodyLimit before routing; on the
			// upload route that is still an oversized file.
			if c.Path() == uploadPath {
				return writeFileError(c, service.ErrFileTooLarge, "")
			}
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large", "")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error", "")
		}
	}
}

// isBackingFailure reports whether err came from a backing store rather than
// from input checks or missing configuration.
func isBackingFailure(err error) bool {
	return !errors.Is(err, service.ErrNotConfigured) &&
		!errors.Is(err, service.ErrValidation) &&
		!errors.Is(err, service.ErrNotFound)
}
