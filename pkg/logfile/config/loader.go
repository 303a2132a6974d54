package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Section is the optional root key hub settings may be nested under, so
// they can share a file with other settings.
const Section = "logfile"

// ErrUnknownKey is returned when a settings document holds a key Options
// does not read.
var ErrUnknownKey = errors.New("config: unknown key")

// knownKeys lists the keys Options reads.
var knownKeys = []string{
	KeyMaxQueueLength,
	KeyMaxForwardingBatch,
	KeyForwardingDelay,
	KeyDeveloperMode,
	KeyEventsFromErrors,
	KeyAllow,
	KeyBlock,
}

// LoadOptions reads hub settings from a file and converts them to Options.
func LoadOptions(path string) (Options, error) {
	cfg, err := FromFile(path)
	if err != nil {
		return Options{}, err
	}
	return cfg.Options()
}

// FromFile loads hub settings from a .yaml, .yml or .json file.
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses a YAML settings document.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return fromDocument(m)
}

// FromJSON parses a JSON settings document.
func FromJSON(data []byte) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return fromDocument(m)
}

// fromDocument unwraps the logfile section when present and rejects keys
// Options would silently ignore.
func fromDocument(m map[string]any) (Config, error) {
	if raw, ok := m[Section]; ok {
		section, ok := raw.(map[string]any)
		if !ok && raw != nil {
			return Config{}, fmt.Errorf("config: %s section must be a mapping, got %T", Section, raw)
		}
		m = section
	}

	var unknown []string
	for k := range m {
		if !slices.Contains(knownKeys, k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Config{}, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(unknown, ", "))
	}
	return New(m), nil
}
