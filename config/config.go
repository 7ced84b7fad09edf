package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/agentgate/errors"
	"github.com/grovetools/agentgate/pkg/paths"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// configNames are probed in order inside each configuration directory.
var configNames = []string{
	"agentgate.yml",
	"agentgate.yaml",
	"agentgate.toml",
	"config.yml",
	"config.yaml",
	"config.toml",
}

// Load reads and parses a single configuration file, with defaults applied.
func Load(path string) (*Config, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, err
	}

	cfg, err := decodeRaw(raw)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to decode configuration").
			WithDetail("path", path)
	}
	cfg.SetDefaults()
	return cfg, nil
}

// LoadDefault loads configuration for the current working directory.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}
	return LoadFrom(cwd)
}

// LoadFrom loads configuration with hierarchical merging for a project:
// 1. Global config (<ConfigDir>/agentgate.{yml,toml}) - base layer
// 2. Project config (<project>/.agentgate/config.{yml,toml}) - overrides global
//
// Both layers are optional. A missing configuration yields the defaults.
func LoadFrom(project string) (*Config, error) {
	return LoadFromWithLogger(project, logrus.New())
}

// LoadFromWithLogger loads configuration with hierarchical merging and logging.
// Unreadable or unparseable layers are skipped with a warning so a broken
// config file never blocks a hook.
func LoadFromWithLogger(project string, logger *logrus.Logger) (*Config, error) {
	merged := make(map[string]interface{})

	for _, dir := range []string{paths.ConfigDir(), paths.ProjectStateDir(project)} {
		if dir == "" {
			continue
		}
		path := findInDir(dir)
		if path == "" {
			continue
		}

		logger.WithField("path", path).Debug("Loading configuration layer")
		raw, err := readRaw(path)
		if err != nil {
			logger.WithError(err).WithField("path", path).Warn("Failed to load configuration layer, continuing without it")
			continue
		}
		merged = mergeMaps(merged, raw)
	}

	cfg, err := decodeRaw(merged)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to decode merged configuration")
	}
	cfg.SetDefaults()

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		if data, err := yaml.Marshal(cfg); err == nil {
			logger.Debugf("Merged configuration:\n%s", string(data))
		}
	}

	return cfg, nil
}

// LoadFromBytes parses configuration from a YAML document.
func LoadFromBytes(data []byte) (*Config, error) {
	raw, err := parseRaw(data, ".yml")
	if err != nil {
		return nil, err
	}
	cfg, err := decodeRaw(raw)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to decode configuration")
	}
	cfg.SetDefaults()
	return cfg, nil
}

// FindConfigFile returns the configuration file that applies to a project,
// preferring the project layer over the global one.
func FindConfigFile(project string) (string, error) {
	if path := findInDir(paths.ProjectStateDir(project)); path != "" {
		return path, nil
	}
	if dir := paths.ConfigDir(); dir != "" {
		if path := findInDir(dir); path != "" {
			return path, nil
		}
	}
	return "", errors.ConfigNotFound(project).WithDetail("searchPath", project)
}

func findInDir(dir string) string {
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func readRaw(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	raw, err := parseRaw(data, filepath.Ext(path))
	if err != nil {
		if agErr, ok := err.(*errors.AgentgateError); ok {
			agErr.WithDetail("path", path)
		}
		return nil, err
	}
	return raw, nil
}

// parseRaw decodes YAML or TOML (selected by extension) into a generic map.
func parseRaw(data []byte, ext string) (map[string]interface{}, error) {
	expanded := []byte(expandEnvVars(string(data)))
	raw := make(map[string]interface{})

	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(expanded, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
	default:
		if err := yaml.Unmarshal(expanded, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
		}
	}

	if raw == nil {
		raw = make(map[string]interface{})
	}
	return raw, nil
}

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		// Handle default values: ${VAR:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}

// LoadRaw reads a configuration file into a generic document, with
// environment variables expanded. Used for schema validation.
func LoadRaw(path string) (map[string]interface{}, error) {
	return readRaw(path)
}
