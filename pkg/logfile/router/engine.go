package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/logfile/pkg/logfile/observability"
)

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// WithLogger sets the logger used for engine diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) { o.logger = logger }
}

// WithMetrics sets the metrics recorder. Default: observability.NoopMetrics.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *engineOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithSpans sets the span manager. Default: observability.NoopSpanManager.
func WithSpans(s observability.SpanManager) Option {
	return func(o *engineOptions) {
		if s != nil {
			o.spans = s
		}
	}
}

// Engine queues ingested items and forwards them to the configured sinks
// from a background goroutine. It starts detached; items ingested before
// the first ApplyConfiguration are discarded.
//
// When the queue is full, newly ingested items are dropped. Sinks receive
// the same batch slice concurrently and must not modify it.
type Engine[R any] struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager

	cfg atomic.Pointer[Configuration[R]]

	mu    sync.Mutex
	queue []R

	// forwardMu serializes forwarding rounds so batches keep queue order.
	forwardMu sync.Mutex

	wake chan struct{}
	full chan struct{}
	stop chan struct{}
	done chan struct{}

	closed    atomic.Bool
	closeOnce sync.Once
}

// New creates an engine and starts its forwarding goroutine. Close stops it.
func New[R any](opts ...Option) *Engine[R] {
	o := engineOptions{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine[R]{
		logger:  observability.EnrichLogger(o.logger, "router"),
		metrics: o.metrics,
		spans:   o.spans,
		wake:    make(chan struct{}, 1),
		full:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go e.run()
	return e
}

// ApplyConfiguration installs cfg. Queued items are kept and forwarded
// using cfg, unless cfg is the zero Configuration, which detaches the
// engine and discards them.
func (e *Engine[R]) ApplyConfiguration(ctx context.Context, cfg Configuration[R]) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.closed.Load() {
		return ErrClosed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.IsZero() {
		e.cfg.Store(nil)
		e.mu.Lock()
		n := len(e.queue)
		e.queue = nil
		e.mu.Unlock()
		if n > 0 {
			e.metrics.RecordDropped(ctx, observability.DropUnconfigured, n)
		}
		return nil
	}

	c := cfg
	c.Sinks = slices.Clone(cfg.Sinks)
	c.Preprocessors = slices.Clone(cfg.Preprocessors)
	e.cfg.Store(&c)
	signal(e.wake)
	return nil
}

// Ingest runs the enqueue-time preprocessors and queues the surviving items.
// It never blocks on forwarding.
func (e *Engine[R]) Ingest(items []R) {
	if len(items) == 0 {
		return
	}
	ctx := context.Background()

	if e.closed.Load() {
		e.metrics.RecordDropped(ctx, observability.DropClosed, len(items))
		return
	}
	cfg := e.cfg.Load()
	if cfg == nil {
		e.metrics.RecordDropped(ctx, observability.DropUnconfigured, len(items))
		return
	}

	items, filtered := e.preprocess(cfg.Preprocessors, true, items)
	if filtered > 0 {
		e.metrics.RecordDropped(ctx, observability.DropFiltered, filtered)
	}
	if len(items) == 0 {
		return
	}

	e.mu.Lock()
	free := max(cfg.MaxQueueLength-len(e.queue), 0)
	overflow := 0
	if len(items) > free {
		overflow = len(items) - free
		items = items[:free]
	}
	e.queue = append(e.queue, items...)
	ready := len(e.queue) >= cfg.MaxForwardingBatch
	e.mu.Unlock()

	if overflow > 0 {
		observability.LogQueueOverflow(e.logger, overflow, cfg.MaxQueueLength)
		e.metrics.RecordDropped(ctx, observability.DropOverflow, overflow)
	}
	if len(items) == 0 {
		return
	}
	signal(e.wake)
	if ready {
		signal(e.full)
	}
}

// Len returns the number of queued items.
func (e *Engine[R]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Flush forwards every queued item now and returns the joined sink errors.
func (e *Engine[R]) Flush(ctx context.Context) error {
	return e.forwardPending(ctx)
}

// Close stops the forwarding goroutine and forwards what is still queued.
// If ctx expires first, Close returns ctx.Err() and queued items are lost.
func (e *Engine[R]) Close(ctx context.Context) error {
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		close(e.stop)
	})

	select {
	case <-e.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return e.forwardPending(ctx)
}

// run waits for queued items, holds them for the forwarding delay unless a
// full batch is ready, and forwards them.
func (e *Engine[R]) run() {
	defer close(e.done)

	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case <-e.stop:
			return
		case <-e.wake:
		}

		if d := e.delay(); d > 0 && !e.batchReady() {
			timer.Reset(d)
			select {
			case <-e.stop:
				timer.Stop()
				return
			case <-e.full:
				timer.Stop()
			case <-timer.C:
			}
		}

		// Forwarding errors are logged and counted per sink.
		_ = e.forwardPending(context.Background())
	}
}

func (e *Engine[R]) delay() time.Duration {
	if cfg := e.cfg.Load(); cfg != nil {
		return cfg.ForwardingDelay
	}
	return 0
}

func (e *Engine[R]) batchReady() bool {
	cfg := e.cfg.Load()
	if cfg == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue) >= cfg.MaxForwardingBatch
}

// forwardPending drains the queue batch by batch.
func (e *Engine[R]) forwardPending(ctx context.Context) error {
	e.forwardMu.Lock()
	defer e.forwardMu.Unlock()

	var errs []error
	for {
		cfg := e.cfg.Load()
		if cfg == nil {
			break
		}

		e.mu.Lock()
		n := min(len(e.queue), cfg.MaxForwardingBatch)
		if n == 0 {
			e.mu.Unlock()
			break
		}
		batch := make([]R, n)
		copy(batch, e.queue[:n])
		clear(e.queue[:n])
		e.queue = e.queue[n:]
		if len(e.queue) == 0 {
			e.queue = nil
		}
		e.mu.Unlock()

		if err := e.forward(ctx, cfg, batch); err != nil {
			errs = append(errs, err)
		}
	}
	// Drain the full signal so the next round waits for a new batch.
	select {
	case <-e.full:
	default:
	}
	return errors.Join(errs...)
}

// forward runs the forwarding-time preprocessors and fans the batch out to
// every sink.
func (e *Engine[R]) forward(ctx context.Context, cfg *Configuration[R], batch []R) error {
	batch, filtered := e.preprocess(cfg.Preprocessors, false, batch)
	if filtered > 0 {
		e.metrics.RecordDropped(ctx, observability.DropFiltered, filtered)
	}
	if len(batch) == 0 || len(cfg.Sinks) == 0 {
		return nil
	}

	ctx, span := e.spans.StartForwardSpan(ctx, len(batch))

	var g errgroup.Group
	for _, s := range cfg.Sinks {
		g.Go(func() error {
			return e.forwardTo(ctx, s, batch)
		})
	}
	err := g.Wait()

	e.spans.EndSpanWithError(span, err)
	return err
}

func (e *Engine[R]) forwardTo(ctx context.Context, s Sink[R], batch []R) (err error) {
	name := sinkName(s)
	done := observability.TimedOperation()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("router: sink %s panicked: %v", name, r)
		}
		if err != nil {
			observability.LogForwardError(e.logger, name, len(batch), err)
			e.spans.AddSpanEvent(ctx, "sink.failed",
				attribute.String("sink", name),
				attribute.String("error", err.Error()),
			)
		}
		e.metrics.RecordForwarded(ctx, name, len(batch), done(), err)
	}()

	return s.Forward(ctx, batch)
}

// preprocess applies the preprocessors matching onEnqueue in order. It
// returns the surviving items and the number of items dropped.
func (e *Engine[R]) preprocess(pps []Preprocessor[R], onEnqueue bool, items []R) ([]R, int) {
	filtered := 0
	for _, p := range pps {
		if p.OnEnqueue() != onEnqueue {
			continue
		}
		next := make([]R, 0, len(items))
		for _, item := range items {
			out, ok := e.process(p, item)
			switch {
			case !ok || out == nil:
				next = append(next, item)
			case len(out) == 0:
				filtered++
			default:
				next = append(next, out...)
			}
		}
		items = next
	}
	return items, filtered
}

// process calls p, reporting ok=false if it panicked. A panicking
// preprocessor leaves the item unchanged.
func (e *Engine[R]) process(p Preprocessor[R], item R) (out []R, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			observability.LogDeliveryPanic(e.logger, r)
			out, ok = nil, false
		}
	}()
	return p.Process(item), true
}

// signal performs a non-blocking send on a one-slot channel.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
