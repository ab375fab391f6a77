package config

import (
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds PostgreSQL database connection settings.
// URL takes precedence over the individual components when set.
type DatabaseConfig struct {
	URL                string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// Configured reports whether enough settings are present to attempt a connection.
func (c DatabaseConfig) Configured() bool {
	return c.URL != "" || (c.Host != "" && c.User != "" && c.Name != "")
}

// MinIOConfig holds object storage settings for an S3-compatible endpoint.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Configured reports whether the endpoint and both credentials are present.
func (c MinIOConfig) Configured() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != ""
}

// StorageConfig selects the blob storage backend. An Azure connection string
// wins over MinIO settings; with neither present uploads are disabled.
type StorageConfig struct {
	AzureConnectionString string
	Container             string
	MinIO                 MinIOConfig
}

// Configured reports whether any blob backend can be constructed.
func (c StorageConfig) Configured() bool {
	return c.AzureConnectionString != "" || c.MinIO.Configured()
}

// TelemetryConfig holds the OTLP export settings.
type TelemetryConfig struct {
	ConnectionString string
	Protocol         string
	ServiceName      string
}

// Configured reports whether telemetry export is enabled.
func (c TelemetryConfig) Configured() bool {
	return c.ConnectionString != ""
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port        string
	Version     string
	Environment string
	Timezone    string
	LogLevel    string
	MaxTasks    int
	Database    DatabaseConfig
	Storage     StorageConfig
	Telemetry   TelemetryConfig
}

// IsProduction reports whether the service runs in a production environment.
func (c *AppConfig) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "production" || env == "prod"
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:        getEnv("PORT", "3000"),
		Version:     getEnv("API_VERSION", "1.0.0"),
		Environment: getEnv("APP_ENV", "development"),
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		MaxTasks:    getEnvInt("MAX_TASKS", 10),
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Storage: StorageConfig{
			AzureConnectionString: getEnv("AZURE_STORAGE_CONNECTION_STRING", ""),
			Container:             getEnv("STORAGE_CONTAINER", "uploads"),
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
		},
		Telemetry: TelemetryConfig{
			ConnectionString: getEnv("TELEMETRY_CONNECTION_STRING", ""),
			Protocol:         getEnv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
			ServiceName:      getEnv("OTEL_SERVICE_NAME", "taskapi"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
