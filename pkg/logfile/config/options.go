package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Keys recognized by Options.
const (
	KeyMaxQueueLength     = "max_queue_length"
	KeyMaxForwardingBatch = "max_forwarding_batch"
	KeyForwardingDelay    = "forwarding_delay"
	KeyDeveloperMode      = "developer_mode"
	KeyEventsFromErrors   = "events_from_errors"
	KeyAllow              = "allow"
	KeyBlock              = "block"
)

// Defaults applied when a key is absent.
const (
	DefaultMaxQueueLength     = 100
	DefaultMaxForwardingBatch = 100
	DefaultForwardingDelay    = 100 * time.Millisecond
)

// ErrLevelSpec is returned for malformed allow or block entries.
var ErrLevelSpec = errors.New("config: invalid loglevel entry")

// LevelSpec is one allow or block entry. From equals To for a single level.
type LevelSpec struct {
	From string
	To   string
}

// IsRange reports whether the entry names more than one level.
func (s LevelSpec) IsRange() bool {
	return s.From != s.To
}

// ParseLevelSpec parses "Name" or "From..To".
func ParseLevelSpec(s string) (LevelSpec, error) {
	from, to, isRange := strings.Cut(s, "..")
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if !isRange {
		to = from
	}
	if from == "" || to == "" {
		return LevelSpec{}, fmt.Errorf("%w: %q", ErrLevelSpec, s)
	}
	return LevelSpec{From: from, To: to}, nil
}

// Options are the hub settings read from a file.
type Options struct {
	MaxQueueLength     int
	MaxForwardingBatch int
	ForwardingDelay    time.Duration
	DeveloperMode      bool
	EventsFromErrors   bool
	Allow              []LevelSpec
	Block              []LevelSpec
}

// DefaultOptions returns Options with every default applied.
func DefaultOptions() Options {
	return Options{
		MaxQueueLength:     DefaultMaxQueueLength,
		MaxForwardingBatch: DefaultMaxForwardingBatch,
		ForwardingDelay:    DefaultForwardingDelay,
	}
}

// Options extracts hub settings. Range checks are left to the hub builder.
func (c Config) Options() (Options, error) {
	opts := Options{
		MaxQueueLength:     c.Int(KeyMaxQueueLength, DefaultMaxQueueLength),
		MaxForwardingBatch: c.Int(KeyMaxForwardingBatch, DefaultMaxForwardingBatch),
		ForwardingDelay:    c.Duration(KeyForwardingDelay, DefaultForwardingDelay),
		DeveloperMode:      c.Bool(KeyDeveloperMode, false),
		EventsFromErrors:   c.Bool(KeyEventsFromErrors, false),
	}

	var err error
	if opts.Allow, err = c.levelSpecs(KeyAllow); err != nil {
		return Options{}, err
	}
	if opts.Block, err = c.levelSpecs(KeyBlock); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func (c Config) levelSpecs(key string) ([]LevelSpec, error) {
	if !c.Has(key) {
		return nil, nil
	}
	raw := c.StringSlice(key, nil)
	if raw == nil {
		return nil, fmt.Errorf("%w: %s must be a list of strings", ErrLevelSpec, key)
	}
	specs := make([]LevelSpec, 0, len(raw))
	for _, s := range raw {
		spec, err := ParseLevelSpec(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
