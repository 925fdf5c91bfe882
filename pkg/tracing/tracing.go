// Package tracing exports finished spans to the zap logger, so a debug run
// shows where a scan spends its time without a collector.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// LogExporter is a sdktrace.SpanExporter writing one log entry per span.
// Failed spans are logged at warn level, others at debug level.
type LogExporter struct {
	log *zap.Logger
}

var _ sdktrace.SpanExporter = (*LogExporter)(nil)

// NewLogExporter returns an exporter writing to l.
func NewLogExporter(l *zap.Logger) *LogExporter {
	return &LogExporter{log: l}
}

// ExportSpans implements sdktrace.SpanExporter.
func (e *LogExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		fields := []zap.Field{
			zap.String("span", s.Name()),
			zap.String("trace_id", s.SpanContext().TraceID().String()),
			zap.Duration("duration", s.EndTime().Sub(s.StartTime())),
		}
		for _, kv := range s.Attributes() {
			fields = append(fields, zap.String(string(kv.Key), kv.Value.Emit()))
		}

		if s.Status().Code == codes.Error {
			e.log.Warn("span failed", append(fields, zap.String("error", s.Status().Description))...)

			continue
		}
		e.log.Debug("span finished", fields...)
	}

	return nil
}

// Shutdown implements sdktrace.SpanExporter.
func (e *LogExporter) Shutdown(context.Context) error {
	return nil
}

// NewProvider returns a tracer provider exporting synchronously to l.
func NewProvider(l *zap.Logger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSyncer(NewLogExporter(l)))
}
