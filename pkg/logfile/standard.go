package logfile

import (
	"fmt"
	"strings"
)

// StandardLoglevel is the default loglevel set.
type StandardLoglevel int

const (
	Trace StandardLoglevel = iota
	Debug
	Information
	Warning
	Error
	Critical
)

var standardLoglevelNames = [...]string{
	Trace:       "Trace",
	Debug:       "Debug",
	Information: "Information",
	Warning:     "Warning",
	Error:       "Error",
	Critical:    "Critical",
}

func (l StandardLoglevel) String() string {
	if l >= 0 && int(l) < len(standardLoglevelNames) {
		return standardLoglevelNames[l]
	}
	return fmt.Sprintf("StandardLoglevel(%d)", int(l))
}

// ParseStandardLoglevel parses a loglevel name case-insensitively. "Info"
// is accepted for Information.
func ParseStandardLoglevel(s string) (StandardLoglevel, error) {
	name := strings.TrimSpace(s)
	if strings.EqualFold(name, "info") {
		return Information, nil
	}
	for i, n := range standardLoglevelNames {
		if strings.EqualFold(name, n) {
			return StandardLoglevel(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLoglevel, s)
}

// Emitter creates and delivers events. Logfile and Proxy implement it.
type Emitter[L Loglevel] interface {
	New(level L) *Event[L]
	Deliver(events ...*Event[L])
	Clone(name ...string) *Proxy[L]
	Hierarchy() []string
}

// StandardLogfile adds per-level shortcuts to an Emitter of standard
// loglevels.
//
//	log := logfile.NewStandardLogfile(hub)
//	log.Info().Msg("started").Log()
type StandardLogfile struct {
	Emitter[StandardLoglevel]
}

// NewStandardLogfile wraps e.
func NewStandardLogfile(e Emitter[StandardLoglevel]) StandardLogfile {
	return StandardLogfile{Emitter: e}
}

// Clone returns a StandardLogfile for a named clone of the wrapped emitter.
func (s StandardLogfile) Clone(name ...string) StandardLogfile {
	return StandardLogfile{Emitter: s.Emitter.Clone(name...)}
}

func (s StandardLogfile) Trace() *Event[StandardLoglevel]    { return s.New(Trace) }
func (s StandardLogfile) Debug() *Event[StandardLoglevel]    { return s.New(Debug) }
func (s StandardLogfile) Info() *Event[StandardLoglevel]     { return s.New(Information) }
func (s StandardLogfile) Warning() *Event[StandardLoglevel]  { return s.New(Warning) }
func (s StandardLogfile) Error() *Event[StandardLoglevel]    { return s.New(Error) }
func (s StandardLogfile) Critical() *Event[StandardLoglevel] { return s.New(Critical) }
