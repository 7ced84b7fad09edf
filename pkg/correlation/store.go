// Package correlation pairs a tool's pre-use and post-use hook invocations.
//
// Records are keyed by sanitized tool name, not by invocation: two
// overlapping calls of the same tool share one slot and the latest Begin
// wins. End consumes the record exactly once.
package correlation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/grovetools/agentgate/pkg/fsutil"
	"github.com/grovetools/agentgate/util/sanitize"
	"github.com/sirupsen/logrus"
)

// Record links a tool's start and end events.
type Record struct {
	CorrelationID   string `json:"correlationId"`
	StartTimeMillis int64  `json:"startTimeMillis"`
}

// Store persists one Record per tool name under dir.
type Store struct {
	dir    string
	now    func() time.Time
	newID  func() string
	logger *logrus.Entry
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the correlation id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger sets the logger used for degraded paths.
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir:   dir,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logrus.NewEntry(logrus.New())
	}
	return s
}

// Path returns the record file for a tool name.
func (s *Store) Path(toolName string) string {
	return filepath.Join(s.dir, sanitize.ForStorageKey(toolName)+".json")
}

// Begin generates a correlation id for toolName, records the start time and
// returns the id. Any unconsumed record for the same tool is overwritten.
// A persistence failure still returns the id; the matching End will then
// degrade to an empty id.
func (s *Store) Begin(toolName string) (string, error) {
	rec := Record{
		CorrelationID:   s.newID(),
		StartTimeMillis: s.now().UnixMilli(),
	}
	if err := fsutil.WriteJSONAtomic(s.Path(toolName), rec); err != nil {
		return rec.CorrelationID, err
	}
	return rec.CorrelationID, nil
}

// End consumes the record for toolName and returns its correlation id and
// the elapsed milliseconds. Without a usable record it returns an empty id
// and a duration measured from the epoch.
func (s *Store) End(toolName string) (string, int64) {
	nowMs := s.now().UnixMilli()
	path := s.Path(toolName)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithError(err).WithField("tool", toolName).Warn("Correlation record unreadable")
		} else {
			s.logger.WithField("tool", toolName).Debug("No correlation record for tool end")
		}
		return "", nowMs
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.WithError(err).WithField("tool", toolName).Warn("Failed to remove correlation record")
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.WithError(err).WithField("tool", toolName).Warn("Correlation record corrupt")
		return "", nowMs
	}

	return rec.CorrelationID, nowMs - rec.StartTimeMillis
}

// Pending reports whether toolName has an unconsumed record.
func (s *Store) Pending(toolName string) bool {
	_, err := os.Stat(s.Path(toolName))
	return err == nil
}
