package logfile

import "slices"

// LoglevelFilter drops events by loglevel. Forced events always pass.
// It runs when events are enqueued.
type LoglevelFilter[L Loglevel] struct {
	allow []LoglevelRange[L]
	block []LoglevelRange[L]
}

// NewLoglevelFilter creates a filter. An empty allow list allows every
// loglevel that is not blocked.
func NewLoglevelFilter[L Loglevel](allow, block []LoglevelRange[L]) *LoglevelFilter[L] {
	return &LoglevelFilter[L]{
		allow: slices.Clone(allow),
		block: slices.Clone(block),
	}
}

// Process returns nil to pass e or an empty slice to drop it.
func (f *LoglevelFilter[L]) Process(e *Event[L]) []*Event[L] {
	if e.IsForced {
		return nil
	}
	if coveredByAny(f.block, e.Loglevel) {
		return []*Event[L]{}
	}
	if len(f.allow) > 0 && !coveredByAny(f.allow, e.Loglevel) {
		return []*Event[L]{}
	}
	return nil
}

// OnEnqueue returns true.
func (f *LoglevelFilter[L]) OnEnqueue() bool { return true }
