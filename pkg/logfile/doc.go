/*
Package logfile is a structured logging core with typed event catalogs.

# Overview

A Logfile is the root of a logging hierarchy. Code creates events with
New, decorates them and calls Log. Delivered events pass the developer gate
and are handed to a routing engine (router.Engine by default), which queues
them, runs preprocessors and forwards batches to sinks.

	hub := logfile.NewLogfile[logfile.StandardLoglevel]()
	defer hub.Close(context.Background())

	cfg, err := logfile.NewBuilder[logfile.StandardLoglevel]().
	    AddSink(consoleSink).
	    AllowLoglevels(logfile.Information, logfile.Critical).
	    Build()
	if err != nil {
	    return err
	}
	if err := hub.Reconfigure(ctx, cfg); err != nil {
	    return err
	}

	log := logfile.NewStandardLogfile(hub.Clone("api"))
	log.Warning().Event(DiskFull, "/dev/sda", "98%").Msg("disk almost full").Log()

# Reconfiguration

Reconfigure replaces the whole configuration. Sinks and preprocessors of
the replaced configuration that implement io.Closer are closed. Only one
reconfiguration runs at a time; Deliver never waits for it.

# Events From Errors

Events can be attached to an error and are delivered when that error is
logged, provided the configuration was built with UseEventsFromErrors:

	ev, err := logfile.AttachEvent(err, logfile.Debug)
	ev.Msg("attempt %d failed", n)
	return err

# Failure Semantics

Log, Deliver and the decoration methods never panic and never report
errors to the caller. Failures are reported to the logger given with
WithLogger and counted by the metrics recorder.
*/
package logfile
