package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/grovetools/agentgate/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateWatcherNotifiesOnSessionWrite(t *testing.T) {
	t.Setenv("AGENTGATE_HOME", t.TempDir())
	project := t.TempDir()

	changed := make(chan string, 10)
	w, err := NewStateWatcher(project, 20*time.Millisecond, func(path string) {
		changed <- path
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.NoError(t, os.WriteFile(paths.SessionFile(project), []byte(`{"sessionId":"s"}`), 0644))

	select {
	case path := <-changed:
		assert.Equal(t, paths.ProjectStateDir(project), filepath.Dir(path))
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}

func TestStateWatcherDebouncesBursts(t *testing.T) {
	t.Setenv("AGENTGATE_HOME", t.TempDir())
	project := t.TempDir()

	var calls int32
	w, err := NewStateWatcher(project, 200*time.Millisecond, func(string) {
		atomic.AddInt32(&calls, 1)
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(paths.ReviewMarker(project), []byte("x"), 0644))
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 1 }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
