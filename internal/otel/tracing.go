package otel

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	oteltrace "go.opentelemetry.io/otel/trace"

	"taskapi/internal/config"
)

// Provider is the result of Init. TracerProvider is nil when export is disabled.
type Provider struct {
	TracerProvider *trace.TracerProvider
	Shutdown       func(context.Context) error
}

// Enabled reports whether spans are exported.
func (p Provider) Enabled() bool {
	return p.TracerProvider != nil
}

// Tracer returns a tracer from the exporting provider, or the global one
// (a no-op unless something else installed a provider).
func (p Provider) Tracer(name string) oteltrace.Tracer {
	if p.TracerProvider != nil {
		return p.TracerProvider.Tracer(name)
	}
	return otel.Tracer(name)
}

func disabled() Provider {
	return Provider{Shutdown: func(context.Context) error { return nil }}
}

// Init installs the OpenTelemetry tracer provider with an OTLP exporter pointed
// at cfg.ConnectionString. With no connection string, or when the exporter
// cannot be built, it degrades to a disabled provider and never fails startup.
func Init(ctx context.Context, cfg config.TelemetryConfig, log zerolog.Logger) (Provider, error) {
	log = log.With().Str("component", "tracing").Logger()
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	if !cfg.Configured() || os.Getenv("OTEL_SDK_DISABLED") == "true" {
		log.Info().Bool("tracing_enabled", false).Msg("tracing_configured")
		return disabled(), nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
		),
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
	)
	if err != nil {
		return disabled(), fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("tracing_init_failed")
		return disabled(), nil
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(getSampler()),
	)
	otel.SetTracerProvider(tp)

	log.Info().
		Bool("tracing_enabled", true).
		Str("otlp_protocol", cfg.Protocol).
		Str("otlp_endpoint", redactEndpoint(cfg.ConnectionString)).
		Str("sampler", getEnv("OTEL_TRACES_SAMPLER", "parentbased_traceidratio")).
		Str("sampler_arg", getEnv("OTEL_TRACES_SAMPLER_ARG", "1.0")).
		Msg("tracing_configured")

	return Provider{TracerProvider: tp, Shutdown: tp.Shutdown}, nil
}

// newExporter accepts either a full URL (http://collector:4318) or a bare
// host:port, which is treated as an insecure endpoint.
func newExporter(ctx context.Context, cfg config.TelemetryConfig) (*otlptrace.Exporter, error) {
	endpoint := cfg.ConnectionString
	hasScheme := false
	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" && u.Host != "" {
		hasScheme = true
	}

	switch cfg.Protocol {
	case "", "grpc":
		if hasScheme {
			return otlptracegrpc.New(ctx, otlptracegrpc.WithEndpointURL(endpoint))
		}
		return otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(endpoint), otlptracegrpc.WithInsecure())
	case "http/protobuf":
		if hasScheme {
			return otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
		}
		return otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol: %s", cfg.Protocol)
	}
}

// redactEndpoint drops user info and query parameters, which may carry keys.
func redactEndpoint(s string) string {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s
	}
	u.User = nil
	u.RawQuery = ""
	return u.String()
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSampler() trace.Sampler {
	sampler := os.Getenv("OTEL_TRACES_SAMPLER")
	ratio := 1.0
	if v, err := strconv.ParseFloat(os.Getenv("OTEL_TRACES_SAMPLER_ARG"), 64); err == nil {
		ratio = v
	}

	switch sampler {
	case "always_on":
		return trace.AlwaysSample()
	case "always_off":
		return trace.NeverSample()
	case "traceidratio":
		return trace.TraceIDRatioBased(ratio)
	case "parentbased_always_on":
		return trace.ParentBased(trace.AlwaysSample())
	case "parentbased_always_off":
		return trace.ParentBased(trace.NeverSample())
	case "parentbased_traceidratio":
		return trace.ParentBased(trace.TraceIDRatioBased(ratio))
	default:
		return trace.ParentBased(trace.AlwaysSample())
	}
}
