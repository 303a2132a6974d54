package logfile

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/logfile/pkg/logfile/details"
	"github.com/randalmurphal/logfile/pkg/logfile/eventid"
)

// Event is one log occurrence. An event is built by a single goroutine and
// must not be modified after Log is called.
type Event[L Loglevel] struct {
	ID          string
	Loglevel    L
	Time        time.Time
	IsForced    bool
	IsDeveloper bool

	// Caller information, recorded by Log.
	CallerFile string
	CallerFunc string
	CallerLine int

	// Details holds the attached detail values in order, e.g. *details.Message
	// or *eventid.Identifier.
	Details []any

	registry *eventid.Registry
	deliver  func(events ...*Event[L])
}

// NewEvent creates an event that is not bound to a logfile. Calling Log on
// it does nothing; such events are meant to be attached to errors with
// AttachEvents.
func NewEvent[L Loglevel](level L) *Event[L] {
	return newEvent(level, nil, nil)
}

func newEvent[L Loglevel](level L, registry *eventid.Registry, deliver func(...*Event[L])) *Event[L] {
	if registry == nil {
		registry = eventid.DefaultRegistry
	}
	return &Event[L]{
		ID:       uuid.NewString(),
		Loglevel: level,
		Time:     time.Now(),
		registry: registry,
		deliver:  deliver,
	}
}

// Force makes the event bypass loglevel filters and developer mode.
func (e *Event[L]) Force() *Event[L] {
	e.IsForced = true
	return e
}

// Developer marks the event as not intended for a public audience.
func (e *Event[L]) Developer() *Event[L] {
	e.IsDeveloper = true
	return e
}

// Detail appends an arbitrary detail value.
func (e *Event[L]) Detail(d any) *Event[L] {
	e.Details = append(e.Details, d)
	return e
}

// Msg appends a message. Args are applied printf-style when rendered.
func (e *Event[L]) Msg(text string, args ...any) *Event[L] {
	return e.Detail(details.NewMessage(text, args...))
}

// Args appends unnamed arguments.
func (e *Event[L]) Args(values ...any) *Event[L] {
	return e.Detail(details.NewArguments(values...))
}

// NamedArgs appends named arguments.
func (e *Event[L]) NamedArgs(values ...details.NamedValue) *Event[L] {
	return e.Detail(&details.Arguments{Values: values})
}

// Props appends the exported fields of obj as named arguments. Values are
// converted to strings immediately.
func (e *Event[L]) Props(obj any) *Event[L] {
	return e.Detail(&details.Arguments{Values: details.Props(obj, true)})
}

// Err appends an error.
func (e *Event[L]) Err(err error) *Event[L] {
	return e.Detail(&details.Error{Err: err})
}

// Binary appends raw data.
func (e *Event[L]) Binary(data []byte) *Event[L] {
	return e.Detail(&details.Binary{Data: data})
}

// Sensitive starts a sensitive section, optionally naming the sink-side
// setup that protects it.
func (e *Event[L]) Sensitive(setupName ...string) *Event[L] {
	var setup *string
	if len(setupName) > 0 {
		setup = &setupName[0]
	}
	s, err := details.NewSensitive(true, setup)
	if err != nil {
		return e
	}
	return e.Detail(s)
}

// Insensitive ends a sensitive section.
func (e *Event[L]) Insensitive() *Event[L] {
	s, err := details.NewSensitive(false, nil)
	if err != nil {
		return e
	}
	return e.Detail(s)
}

// Event appends the identifier of a catalog member. The member's catalog
// must be registered with the logfile's registry; if the member cannot be
// resolved the event is left unchanged.
func (e *Event[L]) Event(member any, args ...any) *Event[L] {
	if id := e.identify(member, args); id != nil {
		e.Details = append(e.Details, id)
	}
	return e
}

func (e *Event[L]) identify(member any, args []any) (id *eventid.Identifier) {
	defer func() {
		if recover() != nil {
			id = nil
		}
	}()
	id, err := e.registry.Identify(member, args...)
	if err != nil {
		return nil
	}
	return id
}

// Log records the caller and delivers the event. Delivery failures are
// never reported to the caller.
func (e *Event[L]) Log() {
	if pc, file, line, ok := runtime.Caller(1); ok {
		e.CallerFile = file
		e.CallerLine = line
		if fn := runtime.FuncForPC(pc); fn != nil {
			e.CallerFunc = fn.Name()
		}
	}

	defer func() { _ = recover() }()
	if e.deliver != nil {
		e.deliver(e)
	}
}

// String renders the time, loglevel and details of the event.
func (e *Event[L]) String() string {
	var sb strings.Builder
	sb.WriteString(e.Time.Format(time.RFC3339Nano))
	sb.WriteByte(' ')
	fmt.Fprint(&sb, e.Loglevel)
	for _, d := range e.Details {
		sb.WriteByte(' ')
		sb.WriteString(renderDetail(d))
	}
	return sb.String()
}

func renderDetail(d any) (s string) {
	defer func() {
		if recover() != nil {
			s = fmt.Sprintf("%T", d)
		}
	}()
	return fmt.Sprint(d)
}
