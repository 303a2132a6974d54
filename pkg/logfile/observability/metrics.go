package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Drop reasons reported with RecordDropped.
const (
	DropDeveloper = "developer"
	DropFiltered  = "filtered"
	DropOverflow  = "overflow"
	DropClosed    = "closed"

	// DropUnconfigured marks items ingested while no configuration is
	// installed.
	DropUnconfigured = "unconfigured"
)

// MetricsRecorder records logfile metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordIngested records events accepted by the hub.
	RecordIngested(ctx context.Context, n int)

	// RecordDropped records events discarded before reaching a sink.
	RecordDropped(ctx context.Context, reason string, n int)

	// RecordForwarded records a batch handed to a sink.
	RecordForwarded(ctx context.Context, sink string, n int, duration time.Duration, err error)

	// RecordReconfiguration records a configuration swap.
	RecordReconfiguration(ctx context.Context, success bool)

	// RecordTeardownError records a sink or preprocessor failing to close.
	RecordTeardownError(ctx context.Context, component string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	ingested         metric.Int64Counter
	dropped          metric.Int64Counter
	forwarded        metric.Int64Counter
	forwardLatency   metric.Float64Histogram
	forwardErrors    metric.Int64Counter
	reconfigurations metric.Int64Counter
	teardownErrors   metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the shared OTel instruments.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("logfile")

	ingested, err := meter.Int64Counter("logfile.events.ingested",
		metric.WithDescription("Number of events accepted by the hub"),
	)
	if err != nil {
		return nil, err
	}

	dropped, err := meter.Int64Counter("logfile.events.dropped",
		metric.WithDescription("Number of events discarded before forwarding"),
	)
	if err != nil {
		return nil, err
	}

	forwarded, err := meter.Int64Counter("logfile.events.forwarded",
		metric.WithDescription("Number of events handed to sinks"),
	)
	if err != nil {
		return nil, err
	}

	forwardLatency, err := meter.Float64Histogram("logfile.forward.latency_ms",
		metric.WithDescription("Sink forwarding latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	forwardErrors, err := meter.Int64Counter("logfile.forward.errors",
		metric.WithDescription("Number of failed sink forwards"),
	)
	if err != nil {
		return nil, err
	}

	reconfigurations, err := meter.Int64Counter("logfile.reconfigurations",
		metric.WithDescription("Number of configuration swaps"),
	)
	if err != nil {
		return nil, err
	}

	teardownErrors, err := meter.Int64Counter("logfile.teardown.errors",
		metric.WithDescription("Number of sinks or preprocessors that failed to close"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		ingested:         ingested,
		dropped:          dropped,
		forwarded:        forwarded,
		forwardLatency:   forwardLatency,
		forwardErrors:    forwardErrors,
		reconfigurations: reconfigurations,
		teardownErrors:   teardownErrors,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordIngested(ctx context.Context, n int) {
	m.ingested.Add(ctx, int64(n))
}

func (m *otelMetrics) RecordDropped(ctx context.Context, reason string, n int) {
	m.dropped.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *otelMetrics) RecordForwarded(ctx context.Context, sink string, n int, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("sink", sink))

	m.forwardLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		m.forwardErrors.Add(ctx, 1, attrs)
		return
	}
	m.forwarded.Add(ctx, int64(n), attrs)
}

func (m *otelMetrics) RecordReconfiguration(ctx context.Context, success bool) {
	m.reconfigurations.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

func (m *otelMetrics) RecordTeardownError(ctx context.Context, component string) {
	m.teardownErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("component", component)))
}
