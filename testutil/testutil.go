package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/agentgate/pkg/paths"
	"github.com/grovetools/agentgate/pkg/queue"
	"github.com/grovetools/agentgate/pkg/sessions"
	"github.com/stretchr/testify/require"
)

// IsolateHome points AGENTGATE_HOME at a fresh temp directory and clears
// environment that would leak into log output.
func IsolateHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("AGENTGATE_HOME", home)
	t.Setenv("AGENTGATE_LOG_LEVEL", "")
	t.Setenv("NO_COLOR", "1")
	return home
}

// NewProject creates a temp project root with an initialized state directory
// and returns it as ResolveProject sees it.
func NewProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, paths.StateDirName), 0755))
	return sessions.ResolveProject(dir)
}

// ReadQueue returns every decodable event queued for project. The test fails
// if any line is corrupt.
func ReadQueue(t *testing.T, project string) []queue.Record {
	t.Helper()

	records, skipped, err := queue.New(paths.QueueFile(project), nil).Read()
	require.NoError(t, err)
	require.Zero(t, skipped, "corrupt queue lines")
	return records
}
