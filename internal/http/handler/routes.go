package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"taskapi/internal/repository/memory"
	"taskapi/internal/service"
	"taskapi/internal/telemetry"
)

// multipartOverhead leaves room for form boundaries and headers on top of the
// largest accepted file, so oversized files reach the handler's own check.
const multipartOverhead = 1 << 20

const uploadPath = "/api/upload"

// ServiceInfo is the static description reported by / and /api/health.
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
	Capabilities
}

// Capabilities records which optional subsystems were built at startup. A
// built subsystem stays enabled while its backend is unreachable.
type Capabilities struct {
	Database   bool
	Storage    bool
	Monitoring bool
}

// Dependencies are the services the routes are composed from. They are built
// once at startup and shared by every request.
type Dependencies struct {
	Info      ServiceInfo
	MaxTasks  int
	Tasks     *memory.TaskStore
	DBTasks   service.TaskService
	Files     service.FileService
	Telemetry telemetry.Sink
	Metrics   prometheus.Gatherer
	Log       zerolog.Logger
}

// NewApp returns a Fiber app with the standardized error handler and a body
// limit sized for the largest accepted upload.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "taskapi",
		ErrorHandler: ErrorHandler(),
		BodyLimit:    int(service.MaxUploadSize) + multipartOverhead,
	})
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Dependencies) {
	if d.Telemetry == nil {
		d.Telemetry = telemetry.Noop{}
	}
	if d.Tasks == nil {
		d.Tasks = memory.NewTaskStore()
	}
	if d.DBTasks == nil {
		d.DBTasks = service.NewTaskService(nil)
	}
	if d.Files == nil {
		d.Files = service.NewFileService(nil)
	}

	app.Get("/", Root(d.Info))
	app.Get("/healthz", LivenessProbe())
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	api.Get("/health", HealthCheck(d.Info))

	api.Get("/tasks", ListTasks(d.Tasks, d.MaxTasks, d.Telemetry))
	api.Get("/tasks/:id", GetTask(d.Tasks, d.Telemetry))

	db := api.Group("/db", requireConfigured(d.DBTasks.Configured, "Database", databaseHint))
	db.Get("/tasks", ListDBTasks(d.DBTasks, d.Telemetry, d.Log))
	db.Get("/tasks/:id", GetDBTask(d.DBTasks, d.Telemetry, d.Log))
	db.Post("/tasks", CreateDBTask(d.DBTasks, d.Telemetry, d.Log))
	db.Put("/tasks/:id", UpdateDBTask(d.DBTasks, d.Telemetry, d.Log))
	db.Delete("/tasks/:id", DeleteDBTask(d.DBTasks, d.Telemetry, d.Log))

	app.Post(uploadPath, UploadFile(d.Files, d.Telemetry, d.Log))
	api.Get("/files", ListFiles(d.Files, d.Telemetry, d.Log))
}

// requireConfigured short-circuits a route group with 503 when its backing
// service has no credentials.
func requireConfigured(configured func() bool, subsystem, hint string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !configured() {
			return notConfigured(c, subsystem, hint)
		}
		return c.Next()
	}
}
