package logfile

import (
	"errors"
	"fmt"
)

var (
	// ErrNilArgument is returned when a required argument is nil.
	ErrNilArgument = errors.New("logfile: argument is nil")

	// ErrDirectReconfigure is returned by Logfile.ApplyConfiguration. Routing
	// changes must go through Reconfigure so replaced sinks and
	// preprocessors are torn down.
	ErrDirectReconfigure = fmt.Errorf("logfile: reconfigure the engine through Logfile.Reconfigure: %w", errors.ErrUnsupported)

	// ErrClosed is returned by Reconfigure once the Logfile is closed.
	ErrClosed = errors.New("logfile: closed")

	// ErrUnknownLoglevel is returned when parsing an unknown loglevel name.
	ErrUnknownLoglevel = errors.New("logfile: unknown loglevel")
)
