// Package observability provides the logging, metrics, and tracing used by
// the logfile hub and its routing engine.
//
// Features:
//   - Structured diagnostics via slog
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"fmt"
	"log/slog"
	"time"
)

// EnrichLogger tags a logger with the component name.
func EnrichLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("component", component))
}

// LogReconfigure logs installation of a new configuration.
// A stopped hub is logged with stopped=true.
func LogReconfigure(logger *slog.Logger, sinks, preprocessors int, stopped bool) {
	if logger == nil {
		return
	}
	logger.Info("logfile reconfigured",
		slog.Int("sinks", sinks),
		slog.Int("preprocessors", preprocessors),
		slog.Bool("stopped", stopped),
	)
}

// LogTeardownError logs a failure to close a sink or preprocessor of a
// replaced configuration. The failure is otherwise suppressed.
func LogTeardownError(logger *slog.Logger, component string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("teardown failed",
		slog.String("component", component),
		slog.String("error", err.Error()),
	)
}

// LogDeliveryPanic logs a panic recovered while delivering events.
func LogDeliveryPanic(logger *slog.Logger, recovered any) {
	if logger == nil {
		return
	}
	logger.Error("event delivery panicked",
		slog.String("panic", fmt.Sprint(recovered)),
	)
}

// LogForwardError logs a sink failing to accept a batch.
func LogForwardError(logger *slog.Logger, sink string, batchSize int, err error) {
	if logger == nil {
		return
	}
	logger.Warn("forwarding failed",
		slog.String("sink", sink),
		slog.Int("batch_size", batchSize),
		slog.String("error", err.Error()),
	)
}

// LogQueueOverflow logs events dropped because the queue was full.
func LogQueueOverflow(logger *slog.Logger, dropped, capacity int) {
	if logger == nil {
		return
	}
	logger.Warn("queue full, events dropped",
		slog.Int("dropped", dropped),
		slog.Int("capacity", capacity),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time.
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
