package logfile

import (
	"fmt"
	"slices"
	"time"

	"github.com/randalmurphal/logfile/pkg/logfile/router"
)

// Sink receives batches of delivered events.
type Sink[L Loglevel] = router.Sink[*Event[L]]

// Preprocessor rewrites events before they reach the sinks.
type Preprocessor[L Loglevel] = router.Preprocessor[*Event[L]]

// Default builder limits.
const (
	DefaultMaxQueueLength     = 100
	DefaultMaxForwardingBatch = 100
	DefaultForwardingDelay    = 100 * time.Millisecond
)

// Configuration is an immutable logfile setup created by a Builder.
type Configuration[L Loglevel] struct {
	sinks              []Sink[L]
	preprocessors      []Preprocessor[L]
	maxQueueLength     int
	maxForwardingBatch int
	forwardingDelay    time.Duration
	developerMode      bool
}

// Sinks returns a copy of the configured sinks.
func (c *Configuration[L]) Sinks() []Sink[L] { return slices.Clone(c.sinks) }

// Preprocessors returns a copy of the configured preprocessors, including
// those added by the builder.
func (c *Configuration[L]) Preprocessors() []Preprocessor[L] { return slices.Clone(c.preprocessors) }

func (c *Configuration[L]) MaxQueueLength() int            { return c.maxQueueLength }
func (c *Configuration[L]) MaxForwardingBatch() int        { return c.maxForwardingBatch }
func (c *Configuration[L]) ForwardingDelay() time.Duration { return c.forwardingDelay }

// DeveloperMode reports whether developer events are delivered.
func (c *Configuration[L]) DeveloperMode() bool { return c.developerMode }

func (c *Configuration[L]) routerConfiguration() router.Configuration[*Event[L]] {
	return router.Configuration[*Event[L]]{
		Sinks:              slices.Clone(c.sinks),
		Preprocessors:      slices.Clone(c.preprocessors),
		MaxQueueLength:     c.maxQueueLength,
		MaxForwardingBatch: c.maxForwardingBatch,
		ForwardingDelay:    c.forwardingDelay,
	}
}

// Builder assembles a Configuration. Methods record the first error, which
// Build returns.
type Builder[L Loglevel] struct {
	sinks              []Sink[L]
	preprocessors      []Preprocessor[L]
	maxQueueLength     int
	maxForwardingBatch int
	forwardingDelay    time.Duration
	developerMode      bool
	eventsFromErrors   bool
	allow              []LoglevelRange[L]
	block              []LoglevelRange[L]
	err                error
}

// NewBuilder returns a builder with the default limits.
func NewBuilder[L Loglevel]() *Builder[L] {
	return &Builder[L]{
		maxQueueLength:     DefaultMaxQueueLength,
		maxForwardingBatch: DefaultMaxForwardingBatch,
		forwardingDelay:    DefaultForwardingDelay,
	}
}

func (b *Builder[L]) fail(err error) *Builder[L] {
	if b.err == nil {
		b.err = err
	}
	return b
}

// AddSink appends a sink.
func (b *Builder[L]) AddSink(s Sink[L]) *Builder[L] {
	if s == nil {
		return b.fail(fmt.Errorf("add sink: %w", ErrNilArgument))
	}
	b.sinks = append(b.sinks, s)
	return b
}

// AddPreprocessor appends a preprocessor. Preprocessors run in the order
// added, before the loglevel filter.
func (b *Builder[L]) AddPreprocessor(p Preprocessor[L]) *Builder[L] {
	if p == nil {
		return b.fail(fmt.Errorf("add preprocessor: %w", ErrNilArgument))
	}
	b.preprocessors = append(b.preprocessors, p)
	return b
}

func (b *Builder[L]) SetMaxQueueLength(n int) *Builder[L] {
	b.maxQueueLength = n
	return b
}

func (b *Builder[L]) SetMaxForwardingBatch(n int) *Builder[L] {
	b.maxForwardingBatch = n
	return b
}

func (b *Builder[L]) SetForwardingDelay(d time.Duration) *Builder[L] {
	b.forwardingDelay = d
	return b
}

// AllowLoglevel adds level to the allow list. Once the allow list is
// non-empty, events with other loglevels are dropped unless forced.
func (b *Builder[L]) AllowLoglevel(level L) *Builder[L] {
	return b.AllowLoglevels(level, level)
}

// AllowLoglevels adds the inclusive range between from and to, in either
// order, to the allow list.
func (b *Builder[L]) AllowLoglevels(from, to L) *Builder[L] {
	b.allow = addRange(b.allow, NewLoglevelRange(from, to))
	return b
}

// BlockLoglevel adds level to the block list.
func (b *Builder[L]) BlockLoglevel(level L) *Builder[L] {
	return b.BlockLoglevels(level, level)
}

// BlockLoglevels adds the inclusive range between from and to, in either
// order, to the block list.
func (b *Builder[L]) BlockLoglevels(from, to L) *Builder[L] {
	b.block = addRange(b.block, NewLoglevelRange(from, to))
	return b
}

// EnableDeveloperMode delivers developer events that are not forced.
func (b *Builder[L]) EnableDeveloperMode() *Builder[L] {
	b.developerMode = true
	return b
}

// UseEventsFromErrors adds an ErrorEventExtractor so events attached to
// logged errors are delivered too.
func (b *Builder[L]) UseEventsFromErrors() *Builder[L] {
	b.eventsFromErrors = true
	return b
}

// Build validates the limits and returns the configuration.
func (b *Builder[L]) Build() (*Configuration[L], error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.maxQueueLength <= 0 {
		return nil, &router.RangeError{Field: "MaxQueueLength", Value: b.maxQueueLength}
	}
	if b.maxForwardingBatch <= 0 {
		return nil, &router.RangeError{Field: "MaxForwardingBatch", Value: b.maxForwardingBatch}
	}
	if b.forwardingDelay < 0 {
		return nil, &router.RangeError{Field: "ForwardingDelay", Value: b.forwardingDelay}
	}

	preprocessors := slices.Clone(b.preprocessors)
	if b.eventsFromErrors {
		preprocessors = append(preprocessors, ErrorEventExtractor[L]{})
	}
	if len(b.allow) > 0 || len(b.block) > 0 {
		preprocessors = append(preprocessors, NewLoglevelFilter(b.allow, b.block))
	}

	return &Configuration[L]{
		sinks:              slices.Clone(b.sinks),
		preprocessors:      preprocessors,
		maxQueueLength:     b.maxQueueLength,
		maxForwardingBatch: b.maxForwardingBatch,
		forwardingDelay:    b.forwardingDelay,
		developerMode:      b.developerMode,
	}, nil
}

func addRange[L Loglevel](ranges []LoglevelRange[L], r LoglevelRange[L]) []LoglevelRange[L] {
	if slices.Contains(ranges, r) {
		return ranges
	}
	return append(ranges, r)
}
