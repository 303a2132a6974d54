package logfile_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/randalmurphal/logfile/pkg/logfile"
	"github.com/randalmurphal/logfile/pkg/logfile/router"
)

type (
	level    = logfile.StandardLoglevel
	stdEvent = logfile.Event[logfile.StandardLoglevel]
)

// fakeEngine records what the hub hands it.
type fakeEngine struct {
	mu       sync.Mutex
	ingested [][]*stdEvent
	applied  []router.Configuration[*stdEvent]
	closed   int
	applyErr error
}

func (f *fakeEngine) Ingest(events []*stdEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ingested = append(f.ingested, events)
}

func (f *fakeEngine) ApplyConfiguration(_ context.Context, cfg router.Configuration[*stdEvent]) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, cfg)
	return f.applyErr
}

func (f *fakeEngine) Close(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeEngine) events() []*stdEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*stdEvent
	for _, batch := range f.ingested {
		out = append(out, batch...)
	}
	return out
}

func (f *fakeEngine) ingestCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ingested)
}

func newTestHub() (*logfile.Logfile[level], *fakeEngine) {
	engine := &fakeEngine{}
	return logfile.NewLogfile[level](logfile.WithEngine[level](engine)), engine
}

// collectingSink stores every forwarded event.
type collectingSink struct {
	mu     sync.Mutex
	events []*stdEvent
}

func (s *collectingSink) Forward(_ context.Context, batch []*stdEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, batch...)
	return nil
}

func (s *collectingSink) all() []*stdEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*stdEvent(nil), s.events...)
}

// closingSink counts Close calls and can fail them.
type closingSink struct {
	closes atomic.Int32
	fail   bool
	panics bool
}

func (s *closingSink) Forward(context.Context, []*stdEvent) error { return nil }

func (s *closingSink) Close() error {
	s.closes.Add(1)
	if s.panics {
		panic("close exploded")
	}
	if s.fail {
		return errors.New("close failed")
	}
	return nil
}

// closingPreprocessor counts Close calls and can fail them.
type closingPreprocessor struct {
	closes atomic.Int32
	panics bool
}

func (p *closingPreprocessor) Process(*stdEvent) []*stdEvent { return nil }
func (p *closingPreprocessor) OnEnqueue() bool               { return true }

func (p *closingPreprocessor) Close() error {
	p.closes.Add(1)
	if p.panics {
		panic("close exploded")
	}
	return nil
}

// panickingEngine panics on every ingest.
type panickingEngine struct{}

func (panickingEngine) Ingest([]*stdEvent) { panic("engine exploded") }

func (panickingEngine) ApplyConfiguration(context.Context, router.Configuration[*stdEvent]) error {
	return nil
}

func (panickingEngine) Close(context.Context) error { return nil }
