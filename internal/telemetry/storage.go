package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/abrt/abrt-cli/internal/storage"
	"github.com/abrt/abrt-cli/internal/types"
)

const storageScopeName = "github.com/abrt/abrt-cli/storage"

// InstrumentedStorage wraps storage.Storage with OTel tracing and metrics.
// Every method gets a span and is counted in abrt.storage.* metrics.
// Use WrapStorage to create one; it returns the original store unchanged when
// telemetry is disabled.
type InstrumentedStorage struct {
	inner        storage.Storage
	tracer       trace.Tracer
	ops          metric.Int64Counter
	dur          metric.Float64Histogram
	errs         metric.Int64Counter
	problemGauge metric.Int64Gauge
}

var _ storage.Storage = (*InstrumentedStorage)(nil)

// WrapStorage returns s decorated with OTel instrumentation.
// When telemetry is disabled, s is returned as-is with zero overhead.
func WrapStorage(s storage.Storage) storage.Storage {
	if !Enabled() {
		return s
	}
	return newInstrumentedStorage(s, Meter(storageScopeName), Tracer(storageScopeName))
}

func newInstrumentedStorage(s storage.Storage, m metric.Meter, tracer trace.Tracer) *InstrumentedStorage {
	ops, _ := m.Int64Counter("abrt.storage.operations",
		metric.WithDescription("Total storage operations executed"),
	)
	dur, _ := m.Float64Histogram("abrt.storage.operation.duration",
		metric.WithDescription("Storage operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("abrt.storage.errors",
		metric.WithDescription("Total storage operation errors"),
	)
	problemGauge, _ := m.Int64Gauge("abrt.problem.count",
		metric.WithDescription("Number of problems returned by the last listing"),
	)
	return &InstrumentedStorage{
		inner:        s,
		tracer:       tracer,
		ops:          ops,
		dur:          dur,
		errs:         errs,
		problemGauge: problemGauge,
	}
}

// Unwrap returns the decorated store.
func (s *InstrumentedStorage) Unwrap() storage.Storage {
	return s.inner
}

// op starts a span and records a metric for the named storage operation.
func (s *InstrumentedStorage) op(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	all := append([]attribute.KeyValue{attribute.String("abrt.storage.operation", name)}, attrs...)
	ctx, span := s.tracer.Start(ctx, "storage."+name,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	s.ops.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, span, time.Now()
}

// done ends the span, records duration and optional error.
func (s *InstrumentedStorage) done(ctx context.Context, span trace.Span, start time.Time, err error, attrs ...attribute.KeyValue) {
	ms := float64(time.Since(start).Milliseconds())
	s.dur.Record(ctx, ms, metric.WithAttributes(attrs...))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	span.End()
}

func (s *InstrumentedStorage) ListProblems(ctx context.Context, auth bool) ([]*types.Problem, error) {
	attrs := []attribute.KeyValue{attribute.Bool("abrt.auth", auth)}
	ctx, span, t := s.op(ctx, "ListProblems", attrs...)
	v, err := s.inner.ListProblems(ctx, auth)
	if err == nil {
		span.SetAttributes(attribute.Int("abrt.problem.count", len(v)))
		s.problemGauge.Record(ctx, int64(len(v)), metric.WithAttributes(attrs...))
	}
	s.done(ctx, span, t, err, attrs...)
	return v, err
}

func (s *InstrumentedStorage) DeleteProblem(ctx context.Context, p *types.Problem) error {
	attrs := []attribute.KeyValue{
		attribute.String("abrt.problem.short_id", p.ShortID),
		attribute.String("abrt.problem.type", string(p.Kind)),
	}
	ctx, span, t := s.op(ctx, "DeleteProblem", attrs...)
	err := s.inner.DeleteProblem(ctx, p)
	s.done(ctx, span, t, err, attrs...)
	return err
}

// Close is not instrumented.
func (s *InstrumentedStorage) Close() error {
	return s.inner.Close()
}

// WatchPath forwards to the inner store when it can be watched.
func (s *InstrumentedStorage) WatchPath() string {
	if w, ok := s.inner.(storage.Watcher); ok {
		return w.WatchPath()
	}
	return ""
}
