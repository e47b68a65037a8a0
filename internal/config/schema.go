// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for vitana-context.
package config

import "gopkg.in/yaml.v3"

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	// Log configures the process-wide structured logger.
	Log LogConfig `yaml:"log,omitempty"`

	// Tracing configures OTLP trace export. Disabled when the endpoint
	// is empty.
	Tracing TracingConfig `yaml:"tracing,omitempty"`

	// Modules maps module IDs to their raw YAML configuration.
	// Keys must match registered module IDs (e.g. "engine.selection").
	Modules map[string]yaml.Node `yaml:"modules"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `yaml:"level,omitempty"`

	// Format is "text" or "json". Defaults to text.
	Format string `yaml:"format,omitempty"`
}

// TracingConfig controls OTLP/HTTP trace export.
type TracingConfig struct {
	// Endpoint is the collector address as host:port. Empty disables export.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure disables TLS toward the collector.
	Insecure bool `yaml:"insecure,omitempty"`

	// SampleRatio is the fraction of traces to record. Zero or one
	// records everything.
	SampleRatio float64 `yaml:"sample_ratio,omitempty"`
}
