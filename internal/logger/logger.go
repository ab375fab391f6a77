// Package logger builds the application's zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"taskapi/internal/config"
)

// New returns a JSON logger writing to stdout. In development the output is
// switched to a human-readable console writer.
func New(cfg *config.AppConfig) zerolog.Logger {
	return NewWithWriter(cfg, nil)
}

// NewWithWriter is New with an explicit destination. A nil writer selects
// stdout and the environment-dependent format.
func NewWithWriter(cfg *config.AppConfig, w io.Writer) zerolog.Logger {
	zerolog.TimestampFieldName = "ts"
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
		zerolog.TimestampFunc = func() time.Time { return time.Now().In(loc) }
	}

	if w == nil {
		w = os.Stdout
		if !cfg.IsProduction() && strings.EqualFold(cfg.Environment, "development") {
			cw := zerolog.NewConsoleWriter()
			cw.TimeFormat = time.DateTime
			cw.Out = os.Stdout
			w = cw
		}
	}

	return zerolog.New(w).
		Level(parseLevel(cfg.LogLevel)).
		With().
		Timestamp().
		Str("service", "taskapi").
		Str("env", cfg.Environment).
		Logger()
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
