package logfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/randalmurphal/logfile/pkg/logfile/eventid"
	"github.com/randalmurphal/logfile/pkg/logfile/observability"
	"github.com/randalmurphal/logfile/pkg/logfile/router"
)

// Engine routes delivered events to sinks. *router.Engine[*Event[L]]
// implements it.
type Engine[L Loglevel] interface {
	Ingest(events []*Event[L])
	ApplyConfiguration(ctx context.Context, cfg router.Configuration[*Event[L]]) error
	Close(ctx context.Context) error
}

// Option configures a Logfile.
type Option func(*hubOptions)

type hubOptions struct {
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager
	registry *eventid.Registry
	engine   any
}

// WithLogger sets the logger for hub diagnostics such as suppressed
// teardown failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *hubOptions) { o.logger = logger }
}

// WithMetrics sets the metrics recorder. Default: observability.NoopMetrics.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *hubOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithSpans sets the span manager. Default: observability.NoopSpanManager.
func WithSpans(s observability.SpanManager) Option {
	return func(o *hubOptions) {
		if s != nil {
			o.spans = s
		}
	}
}

// WithRegistry sets the catalog registry used by Event.Event.
// Default: eventid.DefaultRegistry.
func WithRegistry(r *eventid.Registry) Option {
	return func(o *hubOptions) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithEngine replaces the default router engine. The loglevel type of e
// must match the Logfile's.
func WithEngine[L Loglevel](e Engine[L]) Option {
	return func(o *hubOptions) {
		if e != nil {
			o.engine = e
		}
	}
}

// Logfile is the root of a logging hierarchy. It owns the current
// configuration, gates developer events and hands events to its engine.
//
// A new Logfile is unconfigured: events are passed to the engine, which
// discards them until Reconfigure installs a configuration.
type Logfile[L Loglevel] struct {
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager
	registry *eventid.Registry
	engine   Engine[L]

	cfg    atomic.Pointer[Configuration[L]]
	closed atomic.Bool

	// sem serializes Reconfigure.
	sem chan struct{}
}

// NewLogfile creates an unconfigured Logfile. Without WithEngine it starts a
// router.Engine, which Close stops.
//
// NewLogfile panics if WithEngine was given an engine for another loglevel
// type.
func NewLogfile[L Loglevel](opts ...Option) *Logfile[L] {
	o := hubOptions{
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
		registry: eventid.DefaultRegistry,
	}
	for _, opt := range opts {
		opt(&o)
	}

	l := &Logfile[L]{
		logger:   observability.EnrichLogger(o.logger, "logfile"),
		metrics:  o.metrics,
		spans:    o.spans,
		registry: o.registry,
		sem:      make(chan struct{}, 1),
	}

	switch e := o.engine.(type) {
	case nil:
		l.engine = router.New[*Event[L]](
			router.WithLogger(o.logger),
			router.WithMetrics(o.metrics),
			router.WithSpans(o.spans),
		)
	case Engine[L]:
		l.engine = e
	default:
		panic(fmt.Sprintf("logfile: engine %T does not route *Event[%T]", o.engine, *new(L)))
	}
	return l
}

// Reconfigure tears down the current configuration and installs cfg. A nil
// cfg stops delivery. Each io.Closer among the replaced preprocessors and
// sinks is closed once; close failures and panics are logged and otherwise
// ignored.
//
// If the engine rejects cfg, the hub is left stopped: Configuration returns
// nil and cfg's sinks and preprocessors remain the caller's to close. After
// Close, Reconfigure returns ErrClosed.
//
// If ctx is canceled during reconfiguration the hub state is undefined and
// Reconfigure must be called again before the hub is relied on.
func (l *Logfile[L]) Reconfigure(ctx context.Context, cfg *Configuration[L]) error {
	return l.reconfigure(ctx, cfg, true)
}

// reconfigure swaps the configuration. The engine is only informed when
// apply is set.
func (l *Logfile[L]) reconfigure(ctx context.Context, cfg *Configuration[L], apply bool) (err error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-l.sem }()

	if apply && l.closed.Load() {
		return ErrClosed
	}

	sinks, preprocessors := 0, 0
	if cfg != nil {
		sinks, preprocessors = len(cfg.sinks), len(cfg.preprocessors)
	}
	ctx, span := l.spans.StartReconfigureSpan(ctx, sinks, preprocessors)
	defer func() {
		l.spans.EndSpanWithError(span, err)
		l.metrics.RecordReconfiguration(ctx, err == nil)
	}()

	if old := l.cfg.Load(); old != nil {
		l.teardown(ctx, old)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	l.cfg.Store(cfg)

	if apply {
		var rc router.Configuration[*Event[L]]
		if cfg != nil {
			rc = cfg.routerConfiguration()
		}
		if err := l.engine.ApplyConfiguration(ctx, rc); err != nil {
			l.cfg.Store(nil)
			if cfg != nil {
				_ = l.engine.ApplyConfiguration(ctx, router.Configuration[*Event[L]]{})
			}
			return fmt.Errorf("apply configuration: %w", err)
		}
	}

	observability.LogReconfigure(l.logger, sinks, preprocessors, cfg == nil)
	return nil
}

func (l *Logfile[L]) teardown(ctx context.Context, cfg *Configuration[L]) {
	for _, p := range cfg.preprocessors {
		if c, ok := p.(io.Closer); ok {
			l.closeQuietly(ctx, "preprocessor", c)
		}
	}
	for _, s := range cfg.sinks {
		if c, ok := s.(io.Closer); ok {
			l.closeQuietly(ctx, "sink", c)
		}
	}
}

func (l *Logfile[L]) closeQuietly(ctx context.Context, component string, c io.Closer) {
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("close panicked: %v", r)
		}
		if err != nil {
			observability.LogTeardownError(l.logger, component, err)
			l.metrics.RecordTeardownError(ctx, component)
		}
	}()
	err = c.Close()
}

// Configuration returns the installed configuration, or nil.
func (l *Logfile[L]) Configuration() *Configuration[L] {
	return l.cfg.Load()
}

// New creates an event that is delivered to l when logged.
func (l *Logfile[L]) New(level L) *Event[L] {
	return newEvent(level, l.registry, l.Deliver)
}

// Deliver hands events to the engine. Unless developer mode is enabled,
// developer events that are not forced are dropped. Nil events are
// ignored. Deliver never panics.
func (l *Logfile[L]) Deliver(events ...*Event[L]) {
	if len(events) == 0 {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			observability.LogDeliveryPanic(l.logger, r)
		}
	}()

	cfg := l.cfg.Load()
	gate := cfg != nil && !cfg.developerMode

	kept := make([]*Event[L], 0, len(events))
	developer := 0
	for _, e := range events {
		if e == nil {
			continue
		}
		if gate && e.IsDeveloper && !e.IsForced {
			developer++
			continue
		}
		kept = append(kept, e)
	}

	ctx := context.Background()
	if developer > 0 {
		l.metrics.RecordDropped(ctx, observability.DropDeveloper, developer)
	}
	if len(kept) == 0 {
		return
	}
	l.metrics.RecordIngested(ctx, len(kept))
	l.engine.Ingest(kept)
}

// ApplyConfiguration rejects direct engine reconfiguration; use Reconfigure.
func (l *Logfile[L]) ApplyConfiguration(context.Context, router.Configuration[*Event[L]]) error {
	return ErrDirectReconfigure
}

// Clone returns a proxy delivering to l. The first name, if given, starts
// the proxy's hierarchy.
func (l *Logfile[L]) Clone(name ...string) *Proxy[L] {
	return newProxy(nil, name, l.registry, l.logger, l.Deliver)
}

// Hierarchy returns the empty root hierarchy.
func (l *Logfile[L]) Hierarchy() []string {
	return []string{}
}

// Close closes the engine, which forwards what is still queued, and then
// tears down the configuration like Reconfigure(ctx, nil).
func (l *Logfile[L]) Close(ctx context.Context) error {
	l.closed.Store(true)
	engineErr := l.engine.Close(ctx)
	return errors.Join(engineErr, l.reconfigure(ctx, nil, false))
}

var _ Emitter[StandardLoglevel] = (*Logfile[StandardLoglevel])(nil)
