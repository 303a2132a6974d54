package logfile

import (
	"log/slog"
	"slices"

	"github.com/randalmurphal/logfile/pkg/logfile/details"
	"github.com/randalmurphal/logfile/pkg/logfile/eventid"
	"github.com/randalmurphal/logfile/pkg/logfile/observability"
)

// Proxy is a named view of a Logfile. Events delivered through a proxy
// carry a *details.Hierarchy detail naming the clones they passed through.
type Proxy[L Loglevel] struct {
	hierarchy []string
	registry  *eventid.Registry
	logger    *slog.Logger
	upstream  func(events ...*Event[L])
}

func newProxy[L Loglevel](parent, name []string, registry *eventid.Registry, logger *slog.Logger, upstream func(...*Event[L])) *Proxy[L] {
	h := slices.Clone(parent)
	if len(name) > 0 {
		h = append(h, name[0])
	}
	return &Proxy[L]{hierarchy: h, registry: registry, logger: logger, upstream: upstream}
}

// Clone returns a proxy delivering to p. The first name, if given, extends
// the hierarchy; without a name the clone shares p's hierarchy.
func (p *Proxy[L]) Clone(name ...string) *Proxy[L] {
	return newProxy(p.hierarchy, name, p.registry, p.logger, p.Deliver)
}

// Hierarchy returns a copy of the proxy's hierarchy.
func (p *Proxy[L]) Hierarchy() []string {
	return slices.Clone(p.hierarchy)
}

// New creates an event that is delivered to p when logged.
func (p *Proxy[L]) New(level L) *Event[L] {
	return newEvent(level, p.registry, p.Deliver)
}

// Deliver stamps the hierarchy on events that have none and passes them
// upstream. Deliver never panics.
func (p *Proxy[L]) Deliver(events ...*Event[L]) {
	if len(events) == 0 {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			observability.LogDeliveryPanic(p.logger, r)
		}
	}()

	for _, e := range events {
		if e == nil || hasHierarchy(e) {
			continue
		}
		e.Details = slices.Insert(e.Details, 0, any(details.NewHierarchy(p.hierarchy)))
	}
	p.upstream(events...)
}

func hasHierarchy[L Loglevel](e *Event[L]) bool {
	for _, d := range e.Details {
		if _, ok := d.(*details.Hierarchy); ok {
			return true
		}
	}
	return false
}

var _ Emitter[StandardLoglevel] = (*Proxy[StandardLoglevel])(nil)
