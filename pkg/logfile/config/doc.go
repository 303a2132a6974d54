/*
Package config loads hub settings from YAML or JSON.

# Overview

Config wraps a map[string]any and provides typed accessors that return a
default when a key is missing or holds the wrong type. Options converts a
Config into the typed settings a logfile hub is built from.

# Basic Usage

	cfg, err := config.FromFile("logfile.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	opts, err := cfg.Options()
	if err != nil {
	    log.Fatal(err)
	}

A file looks like:

	max_queue_length: 500
	max_forwarding_batch: 50
	forwarding_delay: 250ms
	developer_mode: false
	events_from_errors: true
	allow: [Information..Critical]
	block: [Warning]

The settings may instead be nested under a logfile section, in which case
the other root keys are ignored. Within the settings, any key Options does
not read is rejected with ErrUnknownKey.

LoadOptions combines FromFile and Options.

# Type Coercion

Duration handles multiple input types:
  - string: parsed with time.ParseDuration ("30s", "1h30m")
  - int/float64: interpreted as seconds
  - time.Duration: used directly

Int accepts float64 only when it has no fractional part, which is how JSON
numbers decode.

# Loglevel Lists

Entries of allow and block are either a single loglevel name or an
inclusive range written "From..To". Names are not interpreted here; the
hub's loglevel parser resolves them.

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
