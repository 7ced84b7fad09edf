package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/agentgate/errors"
	"github.com/grovetools/agentgate/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflowLifecycle(t *testing.T) {
	project := t.TempDir()

	t.Run("Load absent record", func(t *testing.T) {
		wf, err := Load(project)
		require.NoError(t, err)
		assert.Nil(t, wf)
		assert.Equal(t, Uninitialized, StateOf(wf))
	})

	t.Run("Start creates reviewing record", func(t *testing.T) {
		wf, err := Start(project, "T1", "sess-1")
		require.NoError(t, err)
		assert.Equal(t, Reviewing, wf.CurrentState)

		loaded, err := Load(project)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, "T1", loaded.TicketID)
		assert.Equal(t, "sess-1", loaded.SessionID)
		assert.Equal(t, Reviewing, loaded.CurrentState)
	})

	t.Run("Transition to implementing", func(t *testing.T) {
		wf, err := Transition(project, Implementing)
		require.NoError(t, err)
		assert.Equal(t, Implementing, wf.CurrentState)

		loaded, err := Load(project)
		require.NoError(t, err)
		assert.Equal(t, Implementing, StateOf(loaded))
	})

	t.Run("Transition rejects malformed state", func(t *testing.T) {
		_, err := Transition(project, "Not A State")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidTransition))
	})

	t.Run("Clear removes record", func(t *testing.T) {
		require.NoError(t, Clear(project))
		require.NoError(t, Clear(project))
		wf, err := Load(project)
		require.NoError(t, err)
		assert.Nil(t, wf)
	})
}

func TestTransitionWithoutRecord(t *testing.T) {
	_, err := Transition(t.TempDir(), Implementing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidTransition))
}

func TestStartRequiresTicket(t *testing.T) {
	_, err := Start(t.TempDir(), "  ", "s")
	assert.True(t, errors.Is(err, errors.ErrCodeTicketRequired))
}

func TestLoadExternallyWrittenRecord(t *testing.T) {
	project := t.TempDir()
	path := paths.WorkflowFile(project)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`{"ticketId":"T9","sessionId":"s","currentState":" testing "}`), 0644))

	wf, err := Load(project)
	require.NoError(t, err)
	assert.Equal(t, Testing, wf.CurrentState)
	assert.True(t, wf.UpdatedAt.IsZero())
}

func TestLoadCorruptRecord(t *testing.T) {
	project := t.TempDir()
	path := paths.WorkflowFile(project)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`{"ticketId":`), 0644))

	_, err := Load(project)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeStateCorrupt))
}

func TestStateOfEmpty(t *testing.T) {
	assert.Equal(t, "unknown", StateOf(&Workflow{}))
}
