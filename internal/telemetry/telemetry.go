// Package telemetry is the best-effort event, metric and exception sink used by
// the HTTP handlers. Nothing in it returns an error or blocks the caller.
package telemetry

import (
	"context"
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Sink receives observability signals.
type Sink interface {
	RecordEvent(ctx context.Context, name string, props map[string]string)
	RecordMetric(ctx context.Context, name string, value float64)
	RecordException(ctx context.Context, err error, props map[string]string)
}

// Noop discards everything. It is the sink used when telemetry is not configured.
type Noop struct{}

func (Noop) RecordEvent(context.Context, string, map[string]string)    {}
func (Noop) RecordMetric(context.Context, string, float64)              {}
func (Noop) RecordException(context.Context, error, map[string]string) {}

// OTel exports events and exceptions as short spans through the tracer and
// mirrors them into Prometheus series. Span export is batched by the tracer
// provider, so recording returns immediately.
type OTel struct {
	tracer     trace.Tracer
	log        zerolog.Logger
	events     *prometheus.CounterVec
	metrics    *prometheus.GaugeVec
	exceptions prometheus.Counter
}

// NewOTel registers the telemetry series on reg and returns a sink using tracer.
func NewOTel(tracer trace.Tracer, reg prometheus.Registerer, log zerolog.Logger) (*OTel, error) {
	s := &OTel{
		tracer: tracer,
		log:    log.With().Str("component", "telemetry").Logger(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "app_events_total",
			Help: "Telemetry events recorded, by event name.",
		}, []string{"event"}),
		metrics: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "app_custom_metric",
			Help: "Last value recorded for each custom metric.",
		}, []string{"metric"}),
		exceptions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "app_exceptions_total",
			Help: "Exceptions reported by request handlers.",
		}),
	}
	for _, c := range []prometheus.Collector{s.events, s.metrics, s.exceptions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *OTel) RecordEvent(ctx context.Context, name string, props map[string]string) {
	defer s.swallow("event")

	s.events.WithLabelValues(name).Inc()
	_, span := s.tracer.Start(ctx, "event."+name, trace.WithAttributes(attributes(props)...))
	span.End()
}

func (s *OTel) RecordMetric(ctx context.Context, name string, value float64) {
	defer s.swallow("metric")

	s.metrics.WithLabelValues(name).Set(value)
	trace.SpanFromContext(ctx).AddEvent("metric", trace.WithAttributes(
		attribute.String("metric.name", name),
		attribute.Float64("metric.value", value),
	))
}

func (s *OTel) RecordException(ctx context.Context, err error, props map[string]string) {
	if err == nil {
		return
	}
	defer s.swallow("exception")

	s.exceptions.Inc()
	_, span := s.tracer.Start(ctx, "exception", trace.WithAttributes(attributes(props)...))
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()
}

// swallow keeps a misbehaving exporter or collector from reaching the handler.
func (s *OTel) swallow(kind string) {
	if r := recover(); r != nil {
		s.log.Warn().Str("kind", kind).Str("panic", fmt.Sprint(r)).Msg("telemetry_dropped")
	}
}

func attributes(props map[string]string) []attribute.KeyValue {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]attribute.KeyValue, 0, len(keys))
	for _, k := range keys {
		out = append(out, attribute.String(k, props[k]))
	}
	return out
}
