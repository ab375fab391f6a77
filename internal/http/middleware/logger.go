package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Logger is a middleware that writes one structured access-log entry per request
// with request_id, method, path, status and latency (milliseconds, float).
func Logger(log zerolog.Logger) fiber.Handler {
	return accessLog(log, nil)
}

// LoggerWithWriter is Logger writing bare JSON lines to w, stamping each entry
// with a "ts" field in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	if loc == nil {
		loc = time.UTC
	}
	return accessLog(zerolog.New(w), loc)
}

func accessLog(log zerolog.Logger, loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := responseStatus(c, err)

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		if loc != nil {
			ev = ev.Str("ts", time.Now().In(loc).Format(time.RFC3339Nano))
		}

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		ev.Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000).
			Send()

		return err
	}
}
