package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Config is the merged agentgate configuration.
type Config struct {
	Version   string          `yaml:"version" json:"version" toml:"version" jsonschema:"description=Configuration version (e.g. '1.0')"`
	Telemetry TelemetryConfig `yaml:"telemetry" json:"telemetry" toml:"telemetry" jsonschema:"description=Telemetry queue behaviour"`
	Workflow  WorkflowConfig  `yaml:"workflow" json:"workflow" toml:"workflow" jsonschema:"description=Admission policy for write and publish actions"`

	// Extensions holds top-level sections owned by other packages (e.g. "logging").
	Extensions map[string]interface{} `yaml:"-" json:"extensions,omitempty" toml:"-" jsonschema:"-"`
}

// TelemetryConfig controls what the hooks append to the event queue.
type TelemetryConfig struct {
	// Enabled gates every telemetry side effect. Defaults to true.
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty" toml:"enabled,omitempty" jsonschema:"description=Record telemetry events (default: true)"`
	// QueueStartEvents also queues a "start" event on every admitted pre-tool-use.
	QueueStartEvents bool `yaml:"queue_start_events" json:"queue_start_events" toml:"queue_start_events" jsonschema:"description=Queue a start event alongside the correlation record"`
	// FinalizeHint is the command shown in the session-end summary.
	FinalizeHint string `yaml:"finalize_hint,omitempty" json:"finalize_hint,omitempty" toml:"finalize_hint,omitempty" jsonschema:"description=Command that flushes the queue to the telemetry backend"`
}

// WorkflowConfig overrides the admission policy's classification tables.
// Empty lists fall back to the built-in defaults.
type WorkflowConfig struct {
	WriteTools      []string `yaml:"write_tools,omitempty" json:"write_tools,omitempty" toml:"write_tools,omitempty" jsonschema:"description=Tool names treated as file writes (case-insensitive)"`
	ShellTools      []string `yaml:"shell_tools,omitempty" json:"shell_tools,omitempty" toml:"shell_tools,omitempty" jsonschema:"description=Tool names treated as shell commands (case-insensitive)"`
	AllowedStates   []string `yaml:"allowed_states,omitempty" json:"allowed_states,omitempty" toml:"allowed_states,omitempty" jsonschema:"description=Workflow states in which writes are admitted"`
	PublishPatterns []string `yaml:"publish_patterns,omitempty" json:"publish_patterns,omitempty" toml:"publish_patterns,omitempty" jsonschema:"description=Command prefixes that publish work and require a completed review"`
}

// DefaultFinalizeHint is shown when telemetry.finalize_hint is unset.
const DefaultFinalizeHint = "agentgate session finalize"

// knownSections are the top-level keys decoded into Config itself.
var knownSections = map[string]bool{
	"version":   true,
	"telemetry": true,
	"workflow":  true,
}

// SetDefaults fills zero-valued fields.
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Telemetry.Enabled == nil {
		enabled := true
		c.Telemetry.Enabled = &enabled
	}
	if c.Telemetry.FinalizeHint == "" {
		c.Telemetry.FinalizeHint = DefaultFinalizeHint
	}
}

// TelemetryEnabled reports whether telemetry side effects should run.
func (c *Config) TelemetryEnabled() bool {
	return c.Telemetry.Enabled == nil || *c.Telemetry.Enabled
}

// UnmarshalExtension decodes a specific extension's configuration into the
// provided target struct. The target must be a pointer. A missing key leaves
// the target zero-valued.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}

// decodeRaw turns a merged generic document into a Config, collecting
// unknown top-level sections as extensions.
func decodeRaw(raw map[string]interface{}) (*Config, error) {
	var cfg Config

	known := make(map[string]interface{}, len(raw))
	for key, value := range raw {
		if knownSections[key] {
			known[key] = value
			continue
		}
		if cfg.Extensions == nil {
			cfg.Extensions = make(map[string]interface{})
		}
		cfg.Extensions[key] = value
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		TagName:          "yaml",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}
	if err := decoder.Decode(known); err != nil {
		return nil, err
	}

	return &cfg, nil
}
