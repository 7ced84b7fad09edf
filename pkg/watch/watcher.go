// Package watch notifies when a project's agentgate state changes on disk:
// the session descriptor, workflow record, review marker, correlation
// records, the telemetry queue or the home-scoped ticket pointer.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/agentgate/pkg/paths"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce collapses bursts of writes, such as an atomic
// temp-file-and-rename, into one notification.
const DefaultDebounce = 100 * time.Millisecond

// StateWatcher watches the state directories of one project.
type StateWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(path string)
	logger   *logrus.Entry
	mu       sync.Mutex
	pending  *time.Timer
}

// NewStateWatcher watches project state and calls onChange after each
// debounced burst of changes. Directories that do not exist yet are created
// so that the first session start is observed.
func NewStateWatcher(project string, debounce time.Duration, onChange func(path string), logger *logrus.Entry) (*StateWatcher, error) {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dirs := []string{
		paths.ProjectStateDir(project),
		paths.CorrelationDir(project),
		filepath.Dir(paths.QueueFile(project)),
		filepath.Dir(paths.TicketPointerPath()),
	}
	watched := 0
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.WithError(err).WithField("dir", dir).Debug("Cannot create directory to watch")
			continue
		}
		if err := watcher.Add(dir); err != nil {
			logger.WithError(err).WithField("dir", dir).Warn("Failed to watch directory")
			continue
		}
		watched++
	}
	if watched == 0 {
		watcher.Close()
		return nil, os.ErrNotExist
	}

	return &StateWatcher{
		watcher:  watcher,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
	}, nil
}

// Start processes events until ctx is cancelled.
func (w *StateWatcher) Start(ctx context.Context) {
	defer w.watcher.Close()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.handleChange(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			w.mu.Lock()
			if w.pending != nil {
				w.pending.Stop()
			}
			w.mu.Unlock()
			return
		}
	}
}

// handleChange schedules onChange for the trailing edge of a burst.
func (w *StateWatcher) handleChange(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounce, func() {
		if w.onChange != nil {
			w.onChange(path)
		}
	})
}
