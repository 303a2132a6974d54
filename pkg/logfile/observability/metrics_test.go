package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest installs a test meter provider and returns its reader.
func setupMetricsTest(t *testing.T) (*sdkmetric.ManualReader, func()) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	originalProvider := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)

	cleanup := func() {
		otel.SetMeterProvider(originalProvider)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	}

	return reader, cleanup
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumFor returns the counter value for the datapoint carrying attr, or the
// total across datapoints when attr is empty.
func sumFor(t *testing.T, rm *metricdata.ResourceMetrics, name string, attr attribute.KeyValue) int64 {
	t.Helper()
	m := findMetric(rm, name)
	require.NotNil(t, m, "metric %s not found", name)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "Expected Sum type")

	var total int64
	for _, dp := range sum.DataPoints {
		if attr.Key == "" {
			total += dp.Value
			continue
		}
		if v, ok := dp.Attributes.Value(attr.Key); ok && v == attr.Value {
			total += dp.Value
		}
	}
	return total
}

func TestNewMetricsRecorder(t *testing.T) {
	_, cleanup := setupMetricsTest(t)
	defer cleanup()

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)

	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "Expected real metrics recorder, got noop")
}

func TestRecordEventCounts(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordIngested(ctx, 3)
	m.RecordIngested(ctx, 2)
	m.RecordDropped(ctx, DropDeveloper, 1)
	m.RecordDropped(ctx, DropOverflow, 4)

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(5), sumFor(t, rm, "logfile.events.ingested", attribute.KeyValue{}))
	assert.Equal(t, int64(1), sumFor(t, rm, "logfile.events.dropped", attribute.String("reason", DropDeveloper)))
	assert.Equal(t, int64(4), sumFor(t, rm, "logfile.events.dropped", attribute.String("reason", DropOverflow)))
}

func TestRecordForwarded(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("successful batch counts events", func(t *testing.T) {
		m.RecordForwarded(ctx, "console", 7, 5*time.Millisecond, nil)

		rm := collectMetrics(t, reader)
		assert.Equal(t, int64(7), sumFor(t, rm, "logfile.events.forwarded", attribute.String("sink", "console")))

		hist := findMetric(rm, "logfile.forward.latency_ms")
		require.NotNil(t, hist)
		_, ok := hist.Data.(metricdata.Histogram[float64])
		assert.True(t, ok, "Expected Histogram type")
	})

	t.Run("failed batch counts an error", func(t *testing.T) {
		m.RecordForwarded(ctx, "remote", 3, time.Millisecond, errors.New("unreachable"))

		rm := collectMetrics(t, reader)
		assert.Equal(t, int64(1), sumFor(t, rm, "logfile.forward.errors", attribute.String("sink", "remote")))
		assert.Equal(t, int64(0), sumFor(t, rm, "logfile.events.forwarded", attribute.String("sink", "remote")))
	})
}

func TestRecordReconfigurationAndTeardown(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordReconfiguration(ctx, true)
	m.RecordReconfiguration(ctx, false)
	m.RecordTeardownError(ctx, "sink")

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(1), sumFor(t, rm, "logfile.reconfigurations", attribute.Bool("success", true)))
	assert.Equal(t, int64(1), sumFor(t, rm, "logfile.reconfigurations", attribute.Bool("success", false)))
	assert.Equal(t, int64(1), sumFor(t, rm, "logfile.teardown.errors", attribute.String("component", "sink")))
}

func TestNoopMetrics(t *testing.T) {
	var m MetricsRecorder = NoopMetrics{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordIngested(ctx, 1)
		m.RecordDropped(ctx, DropFiltered, 1)
		m.RecordForwarded(ctx, "s", 1, time.Second, errors.New("x"))
		m.RecordReconfiguration(ctx, true)
		m.RecordTeardownError(ctx, "preprocessor")
	})
}
