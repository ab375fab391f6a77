package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"taskapi/internal/service"
	"taskapi/internal/telemetry"
)

func failFile(c *fiber.Ctx, sink telemetry.Sink, log zerolog.Logger, op string, err error, errText string) error {
	if isBackingFailure(err) {
		sink.RecordException(c.UserContext(), err, map[string]string{"operation": op})
		log.Error().Err(err).Str("component", "handler").Str("operation", op).Msg("file operation failed")
	}
	return writeFileError(c, err, errText)
}

// UploadFile accepts a multipart form with the payload in field "file".
func UploadFile(svc service.FileService, sink telemetry.Sink, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeFileError(c, service.ErrFileRequired, "")
		}

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "Cannot open uploaded file", "")
		}
		defer f.Close()

		up, err := svc.Upload(c.UserContext(), service.FileUpload{
			Reader:       f,
			OriginalName: fh.Filename,
			ContentType:  ct,
			Size:         fh.Size,
		})
		if err != nil {
			return failFile(c, sink, log, "upload", err, "Failed to upload file")
		}

		sink.RecordEvent(c.UserContext(), "FileUploaded", map[string]string{
			"fileName":    up.FileName,
			"contentType": up.ContentType,
			"size":        strconv.FormatInt(up.Size, 10),
		})
		sink.RecordMetric(c.UserContext(), "FileUploadSize", float64(up.Size))

		return c.JSON(fiber.Map{"success": true, "message": "File uploaded successfully", "file": up})
	}
}

// ListFiles returns every object in the upload container.
func ListFiles(svc service.FileService, sink telemetry.Sink, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		files, err := svc.List(c.UserContext())
		if err != nil {
			return failFile(c, sink, log, "list", err, "Failed to list files")
		}
		sink.RecordEvent(c.UserContext(), "FilesListed", map[string]string{"count": strconv.Itoa(len(files))})
		return c.JSON(fiber.Map{"success": true, "files": files, "count": len(files)})
	}
}
