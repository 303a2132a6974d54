package logfile

import (
	"github.com/randalmurphal/logfile/pkg/logfile/details"
)

// EventsError carries events that should be delivered when the error is
// logged. Use AttachEvents or AttachEvent to create one.
type EventsError[L Loglevel] struct {
	Err    error
	Events []*Event[L]
}

func (e *EventsError[L]) Error() string {
	if e.Err == nil {
		return "logfile: error with attached events"
	}
	return e.Err.Error()
}

func (e *EventsError[L]) Unwrap() error {
	return e.Err
}

// AttachEvents returns err carrying events. If err already is an
// *EventsError of the same loglevel type the events are appended to it.
// A nil err yields nil.
func AttachEvents[L Loglevel](err error, events ...*Event[L]) error {
	if err == nil {
		return nil
	}
	if ee, ok := err.(*EventsError[L]); ok {
		ee.Events = append(ee.Events, events...)
		return ee
	}
	return &EventsError[L]{Err: err, Events: events}
}

// AttachEvent creates an unbound event and attaches it to err. The event is
// returned for decoration along with the carrying error:
//
//	ev, err := logfile.AttachEvent(err, logfile.Warning)
//	ev.Msg("retrying")
//	return err
//
// A nil err yields a nil error; the event is still returned.
func AttachEvent[L Loglevel](err error, level L) (*Event[L], error) {
	e := NewEvent(level)
	return e, AttachEvents(err, e)
}

// ErrorEventExtractor delivers the events attached to errors logged with
// Event.Err. Errors are searched through their whole Unwrap chain, and
// extracted events are searched in turn. It runs when events are forwarded.
type ErrorEventExtractor[L Loglevel] struct{}

// Process returns e followed by every event found, depth-first in discovery
// order.
func (ErrorEventExtractor[L]) Process(e *Event[L]) []*Event[L] {
	out := []*Event[L]{e}
	seen := make(map[*EventsError[L]]struct{})
	return appendAttached(out, e, seen)
}

// OnEnqueue returns false.
func (ErrorEventExtractor[L]) OnEnqueue() bool { return false }

func appendAttached[L Loglevel](out []*Event[L], e *Event[L], seen map[*EventsError[L]]struct{}) []*Event[L] {
	for _, d := range e.Details {
		if ed, ok := d.(*details.Error); ok && ed != nil {
			out = walkError(out, ed.Err, seen)
		}
	}
	return out
}

func walkError[L Loglevel](out []*Event[L], err error, seen map[*EventsError[L]]struct{}) []*Event[L] {
	for err != nil {
		if ee, ok := err.(*EventsError[L]); ok {
			if _, dup := seen[ee]; dup {
				return out
			}
			seen[ee] = struct{}{}
			for _, attached := range ee.Events {
				if attached == nil {
					continue
				}
				out = append(out, attached)
				out = appendAttached(out, attached, seen)
			}
		}

		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				out = walkError(out, inner, seen)
			}
			return out
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		default:
			return out
		}
	}
	return out
}
