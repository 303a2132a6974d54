package logfile

import (
	"fmt"

	"github.com/randalmurphal/logfile/pkg/logfile/config"
)

// ApplyOptions copies file settings onto b. parse resolves loglevel names
// used in the allow and block lists, e.g. ParseStandardLoglevel.
func ApplyOptions[L Loglevel](b *Builder[L], opts config.Options, parse func(string) (L, error)) error {
	if b == nil || parse == nil {
		return ErrNilArgument
	}

	b.SetMaxQueueLength(opts.MaxQueueLength).
		SetMaxForwardingBatch(opts.MaxForwardingBatch).
		SetForwardingDelay(opts.ForwardingDelay)
	if opts.DeveloperMode {
		b.EnableDeveloperMode()
	}
	if opts.EventsFromErrors {
		b.UseEventsFromErrors()
	}

	for _, spec := range opts.Allow {
		from, to, err := parseSpec(spec, parse)
		if err != nil {
			return fmt.Errorf("allow: %w", err)
		}
		b.AllowLoglevels(from, to)
	}
	for _, spec := range opts.Block {
		from, to, err := parseSpec(spec, parse)
		if err != nil {
			return fmt.Errorf("block: %w", err)
		}
		b.BlockLoglevels(from, to)
	}
	return nil
}

func parseSpec[L Loglevel](spec config.LevelSpec, parse func(string) (L, error)) (from, to L, err error) {
	if from, err = parse(spec.From); err != nil {
		return from, to, err
	}
	if to, err = parse(spec.To); err != nil {
		return from, to, err
	}
	return from, to, nil
}
