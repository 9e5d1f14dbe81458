package telemetry

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// OTLP/HTTP signal paths appended to OTEL_EXPORTER_OTLP_ENDPOINT.
const (
	tracesPath  = "/v1/traces"
	metricsPath = "/v1/metrics"
)

// otlpEndpoint is where one signal is sent. A signal-specific variable
// (OTEL_EXPORTER_OTLP_TRACES_ENDPOINT) is used as-is; the generic
// OTEL_EXPORTER_OTLP_ENDPOINT is a base URL that gets the signal path.
type otlpEndpoint struct {
	value   string
	generic bool
}

func resolveEndpoint(specific, generic string) (otlpEndpoint, bool) {
	if specific != "" {
		return otlpEndpoint{value: specific}, true
	}
	if generic != "" {
		return otlpEndpoint{value: generic, generic: true}, true
	}
	return otlpEndpoint{}, false
}

// url returns the full URL for a URL-style endpoint, and false for a bare
// host:port, which is sent over plain HTTP on the default path.
func (e otlpEndpoint) url(signalPath string) (string, bool) {
	if !strings.Contains(e.value, "://") {
		return "", false
	}
	if e.generic {
		return strings.TrimSuffix(e.value, "/") + signalPath, true
	}
	return e.value, true
}

func buildOTLPMetricExporter(ctx context.Context, ep otlpEndpoint) (sdkmetric.Exporter, error) {
	if u, ok := ep.url(metricsPath); ok {
		return otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpointURL(u))
	}
	return otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(ep.value),
		otlpmetrichttp.WithInsecure(),
	)
}

func buildOTLPTraceExporter(ctx context.Context, ep otlpEndpoint) (sdktrace.SpanExporter, error) {
	if u, ok := ep.url(tracesPath); ok {
		return otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(u))
	}
	return otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(ep.value),
		otlptracehttp.WithInsecure(),
	)
}
