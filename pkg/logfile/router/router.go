// Package router is the in-process routing engine behind a logfile hub.
//
// Items handed to Ingest pass through the enqueue-time preprocessors, wait
// in a bounded queue, and are forwarded in batches by a background
// goroutine. Each batch passes through the forwarding-time preprocessors
// and is then handed to every sink concurrently.
//
// The engine is generic over the routed item type so it has no dependency
// on the logfile event model.
package router

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrOutOfRange is wrapped by RangeError.
	ErrOutOfRange = errors.New("router: value out of range")

	// ErrClosed is returned when configuring a closed engine.
	ErrClosed = errors.New("router: engine closed")

	// ErrNilSink is returned when a configuration contains a nil sink.
	ErrNilSink = errors.New("router: nil sink")

	// ErrNilPreprocessor is returned when a configuration contains a nil
	// preprocessor.
	ErrNilPreprocessor = errors.New("router: nil preprocessor")
)

// Sink receives forwarded batches. A sink implementing io.Closer is closed
// by the owner of its configuration when the configuration is replaced.
type Sink[R any] interface {
	// Forward delivers an ordered, already-filtered batch.
	Forward(ctx context.Context, batch []R) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc[R any] func(ctx context.Context, batch []R) error

// Forward calls f.
func (f SinkFunc[R]) Forward(ctx context.Context, batch []R) error {
	return f(ctx, batch)
}

// Preprocessor rewrites items before they reach the sinks.
type Preprocessor[R any] interface {
	// Process returns nil to keep item unchanged, an empty non-nil slice to
	// drop it, or the items that replace it.
	Process(item R) []R

	// OnEnqueue reports whether Process runs when items are ingested (true)
	// or when batches are forwarded (false).
	OnEnqueue() bool
}

// Named is implemented by sinks that report a name for logs and metrics.
type Named interface {
	Name() string
}

// Configuration is the engine's routing setup.
// The zero Configuration detaches the engine: queued and newly ingested
// items are discarded.
type Configuration[R any] struct {
	Sinks         []Sink[R]
	Preprocessors []Preprocessor[R]

	// MaxQueueLength bounds the number of queued items. Must be positive.
	MaxQueueLength int

	// MaxForwardingBatch bounds the size of a forwarded batch. Must be
	// positive.
	MaxForwardingBatch int

	// ForwardingDelay is the pause between forwarding rounds. Must not be
	// negative.
	ForwardingDelay time.Duration
}

// RangeError reports a configuration value outside its permitted range.
type RangeError struct {
	Field string
	Value any
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("router: %s out of range: %v", e.Field, e.Value)
}

// Unwrap returns ErrOutOfRange.
func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// IsZero reports whether c is the zero Configuration.
func (c Configuration[R]) IsZero() bool {
	return len(c.Sinks) == 0 && len(c.Preprocessors) == 0 &&
		c.MaxQueueLength == 0 && c.MaxForwardingBatch == 0 && c.ForwardingDelay == 0
}

// Validate checks limits and rejects nil components. The zero
// Configuration is valid.
func (c Configuration[R]) Validate() error {
	if c.IsZero() {
		return nil
	}
	if c.MaxQueueLength <= 0 {
		return &RangeError{Field: "MaxQueueLength", Value: c.MaxQueueLength}
	}
	if c.MaxForwardingBatch <= 0 {
		return &RangeError{Field: "MaxForwardingBatch", Value: c.MaxForwardingBatch}
	}
	if c.ForwardingDelay < 0 {
		return &RangeError{Field: "ForwardingDelay", Value: c.ForwardingDelay}
	}
	for i, s := range c.Sinks {
		if s == nil {
			return fmt.Errorf("%w at index %d", ErrNilSink, i)
		}
	}
	for i, p := range c.Preprocessors {
		if p == nil {
			return fmt.Errorf("%w at index %d", ErrNilPreprocessor, i)
		}
	}
	return nil
}

// sinkName returns a display name for s.
func sinkName(s any) string {
	if n, ok := s.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}
