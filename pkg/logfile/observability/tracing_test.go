package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// setupTracingTest installs a tracer provider backed by an in-memory exporter.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	tracer = otel.Tracer("logfile")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		tracer = otel.Tracer("logfile")
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}

	return exporter, cleanup
}

func intAttr(attrs []attribute.KeyValue, key attribute.Key) int64 {
	for _, a := range attrs {
		if a.Key == key {
			return a.Value.AsInt64()
		}
	}
	return -1
}

func TestStartReconfigureSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()
	ctx, span := sm.StartReconfigureSpan(context.Background(), 2, 3)
	require.NotNil(t, span)
	assert.True(t, trace.SpanFromContext(ctx).SpanContext().IsValid())

	sm.EndSpanWithError(span, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "logfile.reconfigure", spans[0].Name)
	assert.Equal(t, int64(2), intAttr(spans[0].Attributes, "config.sinks"))
	assert.Equal(t, int64(3), intAttr(spans[0].Attributes, "config.preprocessors"))
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
}

func TestStartForwardSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()
	ctx, span := sm.StartForwardSpan(context.Background(), 10)
	sm.AddSpanEvent(ctx, "sink.failed", attribute.String("sink", "file"))
	sm.EndSpanWithError(span, errors.New("disk full"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	s := spans[0]
	assert.Equal(t, "logfile.forward", s.Name)
	assert.Equal(t, int64(10), intAttr(s.Attributes, "batch.size"))
	assert.Equal(t, codes.Error, s.Status.Code)
	assert.Equal(t, "disk full", s.Status.Description)

	var names []string
	for _, e := range s.Events {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "sink.failed")
	assert.Contains(t, names, "exception")
}

func TestEndSpanWithErrorNilSpan(t *testing.T) {
	sm := NewSpanManager()
	assert.NotPanics(t, func() {
		sm.EndSpanWithError(nil, errors.New("ignored"))
	})
}

func TestNoopSpanManager(t *testing.T) {
	var sm SpanManager = NoopSpanManager{}
	ctx := context.Background()

	newCtx, span := sm.StartReconfigureSpan(ctx, 1, 1)
	assert.Equal(t, ctx, newCtx)
	assert.False(t, span.IsRecording())

	newCtx, span = sm.StartForwardSpan(ctx, 1)
	assert.Equal(t, ctx, newCtx)

	assert.NotPanics(t, func() {
		sm.AddSpanEvent(ctx, "e")
		sm.EndSpanWithError(span, errors.New("x"))
	})
}
