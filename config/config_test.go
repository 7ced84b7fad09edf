package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/agentgate/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadFromDefaults(t *testing.T) {
	t.Setenv("AGENTGATE_HOME", t.TempDir())

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "1.0", cfg.Version)
	assert.True(t, cfg.TelemetryEnabled())
	assert.False(t, cfg.Telemetry.QueueStartEvents)
	assert.Equal(t, DefaultFinalizeHint, cfg.Telemetry.FinalizeHint)
	assert.Empty(t, cfg.Workflow.WriteTools)
}

func TestLoadFromLayers(t *testing.T) {
	home := t.TempDir()
	t.Setenv("AGENTGATE_HOME", home)
	project := t.TempDir()

	writeFile(t, filepath.Join(home, "config", "agentgate.yml"), `
telemetry:
  queue_start_events: true
  finalize_hint: "global-finalize"
workflow:
  write_tools: [edit, create]
logging:
  level: debug
`)
	writeFile(t, filepath.Join(project, ".agentgate", "config.toml"), `
[telemetry]
finalize_hint = "project-finalize"

[workflow]
publish_patterns = ["git push", "gh pr create", "glab mr create"]
`)

	cfg, err := LoadFrom(project)
	require.NoError(t, err)

	assert.True(t, cfg.Telemetry.QueueStartEvents, "global value survives the merge")
	assert.Equal(t, "project-finalize", cfg.Telemetry.FinalizeHint)
	assert.Equal(t, []string{"edit", "create"}, cfg.Workflow.WriteTools)
	assert.Equal(t, []string{"git push", "gh pr create", "glab mr create"}, cfg.Workflow.PublishPatterns)

	type logCfg struct {
		Level string `yaml:"level"`
	}
	var lc logCfg
	require.NoError(t, cfg.UnmarshalExtension("logging", &lc))
	assert.Equal(t, "debug", lc.Level)
}

func TestLoadFromSkipsBrokenLayer(t *testing.T) {
	t.Setenv("AGENTGATE_HOME", t.TempDir())
	project := t.TempDir()
	writeFile(t, filepath.Join(project, ".agentgate", "config.yml"), "telemetry: [unclosed")

	cfg, err := LoadFrom(project)
	require.NoError(t, err)
	assert.True(t, cfg.TelemetryEnabled())
}

func TestLoadFromBytesEnvExpansion(t *testing.T) {
	t.Setenv("AG_HINT", "make flush")

	cfg, err := LoadFromBytes([]byte(`
telemetry:
  enabled: false
  finalize_hint: "${AG_HINT}"
workflow:
  allowed_states: ["${AG_MISSING:-implementing}"]
`))
	require.NoError(t, err)

	assert.False(t, cfg.TelemetryEnabled())
	assert.Equal(t, "make flush", cfg.Telemetry.FinalizeHint)
	assert.Equal(t, []string{"implementing"}, cfg.Workflow.AllowedStates)
}

func TestLoadFromBytesRejectsUnknownField(t *testing.T) {
	_, err := LoadFromBytes([]byte(`
workflow:
  write_toolz: [edit]
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestFindConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("AGENTGATE_HOME", home)
	project := t.TempDir()

	_, err := FindConfigFile(project)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))

	global := filepath.Join(home, "config", "agentgate.toml")
	writeFile(t, global, "version = \"1.0\"\n")
	path, err := FindConfigFile(project)
	require.NoError(t, err)
	assert.Equal(t, global, path)

	local := filepath.Join(project, ".agentgate", "config.yml")
	writeFile(t, local, "version: \"1.0\"\n")
	path, err = FindConfigFile(project)
	require.NoError(t, err)
	assert.Equal(t, local, path)
}
