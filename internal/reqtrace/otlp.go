package reqtrace

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Exporter ships request events to an OTLP endpoint.
type Exporter struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
	enabled  bool
}

// NewExporter creates an OTLP exporter if OTEL_EXPORTER_OTLP_ENDPOINT is set.
// Returns nil when the endpoint is not configured.
func NewExporter(ctx context.Context) (*Exporter, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return nil, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(), // For local dev; make configurable
	)
	if err != nil {
		return nil, err
	}

	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "prism"
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	return &Exporter{
		provider: provider,
		tracer:   provider.Tracer("prism/api"),
		enabled:  true,
	}, nil
}

// Export converts one request event into a span. The trace ID is derived
// from the X-Request-ID so backend spans and client spans line up in the
// collector.
func (e *Exporter) Export(ctx context.Context, event Event) error {
	if e == nil || !e.enabled {
		return nil
	}

	spanCtx := oteltrace.SpanContextConfig{TraceFlags: oteltrace.FlagsSampled}
	if traceID, err := requestTraceID(event.RequestID); err == nil {
		spanCtx.TraceID = traceID
	}
	parentCtx := oteltrace.ContextWithSpanContext(ctx, oteltrace.NewSpanContext(spanCtx))

	_, span := e.tracer.Start(
		parentCtx,
		event.Method+" "+event.Path,
		oteltrace.WithTimestamp(event.Start),
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
	)

	attrs := []attribute.KeyValue{
		attribute.String("http.method", event.Method),
		attribute.String("http.target", event.Path),
		attribute.String("prism.request.id", event.RequestID),
	}
	if event.Status != 0 {
		attrs = append(attrs, attribute.Int("http.status_code", event.Status))
	}
	span.SetAttributes(attrs...)

	if event.Failed() {
		span.SetStatus(codes.Error, event.Err)
	}

	span.End(oteltrace.WithTimestamp(event.Start.Add(event.Duration)))
	return nil
}

// requestTraceID maps a dashed UUID onto a 16-byte trace ID.
func requestTraceID(requestID string) (oteltrace.TraceID, error) {
	raw := strings.ReplaceAll(requestID, "-", "")
	bytes, err := hex.DecodeString(raw)
	if err != nil {
		return oteltrace.TraceID{}, err
	}
	var traceID oteltrace.TraceID
	if len(bytes) != len(traceID) {
		return oteltrace.TraceID{}, fmt.Errorf("request id %q is not 16 bytes", requestID)
	}
	copy(traceID[:], bytes)
	return traceID, nil
}

// Shutdown flushes and closes the exporter.
func (e *Exporter) Shutdown(ctx context.Context) error {
	if e == nil {
		return nil
	}
	return e.provider.Shutdown(ctx)
}
