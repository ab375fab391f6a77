package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"taskapi/docs"
	"taskapi/internal/config"
	"taskapi/internal/database"
	"taskapi/internal/database/migration"
	handlers "taskapi/internal/http/handler"
	"taskapi/internal/http/middleware"
	"taskapi/internal/logger"
	"taskapi/internal/otel"
	"taskapi/internal/repository"
	"taskapi/internal/repository/memory"
	"taskapi/internal/repository/postgres"
	"taskapi/internal/service"
	"taskapi/internal/storage"
	"taskapi/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

// @title Task API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.New(cfg)

	ctx := context.Background()

	tp, err := otel.Init(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Warn().Err(err).Msg("tracing disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	sink := newSink(cfg, tp, reg, log)

	// Optional relational store. An unreachable server is retried per request.
	db, taskRepo := openDatabase(ctx, cfg.Database, log)

	// Optional blob store; Azure wins over MinIO when both are set.
	objStore := openStorage(ctx, cfg.Storage, log)

	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register http metrics")
	}

	app := handlers.NewApp()

	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(promMW.Handler())
	app.Use(middleware.Logger(log))

	handlers.RegisterRoutes(app, handlers.Dependencies{
		Info: handlers.ServiceInfo{
			Name:        "taskapi",
			Version:     cfg.Version,
			Environment: cfg.Environment,
			Capabilities: handlers.Capabilities{
				Database:   taskRepo != nil,
				Storage:    objStore != nil,
				Monitoring: cfg.Telemetry.Configured(),
			},
		},
		MaxTasks:  cfg.MaxTasks,
		Tasks:     memory.NewTaskStore(),
		DBTasks:   service.NewTaskService(taskRepo),
		Files:     service.NewFileService(objStore),
		Telemetry: sink,
		Metrics:   reg,
		Log:       log,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("environment", cfg.Environment).Str("version", cfg.Version).Msg("server starting")
		if err := app.Listen(addr); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown")
	}
	if db != nil {
		_ = db.Close()
	}
}

// openDatabase builds the persistent task repository. It returns a nil
// repository only when the settings are absent or invalid; a server that is
// down at startup is logged and the schema is created on first use.
func openDatabase(ctx context.Context, c config.DatabaseConfig, log zerolog.Logger) (*sql.DB, repository.TaskRepository) {
	db, err := database.Open(c)
	if errors.Is(err, database.ErrNotConfigured) {
		log.Info().Str("component", "database").Msg("database not configured")
		return nil, nil
	}
	if err != nil {
		log.Error().Err(err).Str("component", "database").Msg("invalid database settings")
		return nil, nil
	}

	migrator := migration.NewMigrator(db, log)
	if err := database.Ping(ctx, db, log); err == nil {
		if err := migrator.Ensure(ctx); err != nil {
			log.Warn().Err(err).Str("component", "database").Msg("schema not ready, retrying on first use")
		}
	}
	return db, postgres.NewTaskPostgres(db).WithSchema(migrator.Ensure)
}

// openStorage builds the blob backend. It returns nil only when the settings
// are absent or invalid; an unreachable service is retried per request.
func openStorage(ctx context.Context, c config.StorageConfig, log zerolog.Logger) storage.Storage {
	log = log.With().Str("component", "storage").Logger()

	s, backend, err := storage.Open(c)
	if errors.Is(err, storage.ErrNotConfigured) {
		log.Info().Msg("storage not configured")
		return nil
	}
	if err != nil {
		log.Error().Err(err).Str("backend", backend).Msg("invalid storage settings")
		return nil
	}

	if err := s.EnsureContainer(ctx); err != nil {
		log.Warn().Err(err).Str("backend", backend).Msg("storage not reachable yet, retrying on first use")
	} else {
		log.Info().Str("backend", backend).Str("container", c.Container).Msg("storage ready")
	}
	return s
}

func newSink(cfg *config.AppConfig, tp otel.Provider, reg prometheus.Registerer, log zerolog.Logger) telemetry.Sink {
	if !cfg.Telemetry.Configured() {
		return telemetry.Noop{}
	}
	s, err := telemetry.NewOTel(tp.Tracer("taskapi"), reg, log)
	if err != nil {
		log.Error().Err(err).Str("component", "telemetry").Msg("telemetry disabled")
		return telemetry.Noop{}
	}
	return s
}
