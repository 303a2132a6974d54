package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

var _ MetricsRecorder = NoopMetrics{}

func (NoopMetrics) RecordIngested(_ context.Context, _ int) {}
func (NoopMetrics) RecordDropped(_ context.Context, _ string, _ int) {}
func (NoopMetrics) RecordForwarded(_ context.Context, _ string, _ int, _ time.Duration, _ error) {}
func (NoopMetrics) RecordReconfiguration(_ context.Context, _ bool) {}
func (NoopMetrics) RecordTeardownError(_ context.Context, _ string) {}

// NoopSpanManager is a SpanManager that does nothing.
type NoopSpanManager struct{}

var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartReconfigureSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartReconfigureSpan(ctx context.Context, _, _ int) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartForwardSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartForwardSpan(ctx context.Context, _ int) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
