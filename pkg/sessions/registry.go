package sessions

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grovetools/agentgate/errors"
	"github.com/grovetools/agentgate/pkg/fsutil"
	"github.com/grovetools/agentgate/pkg/paths"
	"github.com/grovetools/agentgate/state"
	"github.com/grovetools/agentgate/util/pathutil"
	"github.com/sirupsen/logrus"
)

// Registry resolves the session and ticket that apply to a project.
// Resolution never fails: absent or unreadable records mean "inactive".
type Registry interface {
	ResolveSession(project string) *Session
	ResolveActiveTicket(project string) string
	ReviewCompleted(project string) bool
}

// FileSystemRegistry implements Registry using project-local files under
// .agentgate/ and the ticket pointer in the home-scoped state directory.
type FileSystemRegistry struct {
	pointerPath string
	logger      *logrus.Entry
}

// Ensure it implements the interface
var _ Registry = (*FileSystemRegistry)(nil)

// NewFileSystemRegistry creates a registry that reads the ticket pointer from
// the default state directory.
func NewFileSystemRegistry(logger *logrus.Entry) *FileSystemRegistry {
	return NewFileSystemRegistryAt(paths.TicketPointerPath(), logger)
}

// NewFileSystemRegistryAt creates a registry with an explicit ticket pointer path.
func NewFileSystemRegistryAt(pointerPath string, logger *logrus.Entry) *FileSystemRegistry {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	return &FileSystemRegistry{pointerPath: pointerPath, logger: logger}
}

// ResolveProject maps a working directory to its project root: the nearest
// ancestor holding a .agentgate directory, or the directory itself.
func ResolveProject(dir string) string {
	if dir == "" {
		if cwd, err := os.Getwd(); err == nil {
			dir = cwd
		}
	}
	abs, err := pathutil.NormalizeForLookup(dir)
	if err != nil {
		return dir
	}

	for current := abs; ; {
		if info, err := os.Stat(paths.ProjectStateDir(current)); err == nil && info.IsDir() {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return abs
}

// ResolveSession returns the active session of a project, or nil when the
// descriptor is missing, unreadable, malformed, or has no session id.
func (r *FileSystemRegistry) ResolveSession(project string) *Session {
	path := paths.SessionFile(project)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.WithError(err).WithField("path", path).Debug("Session descriptor unreadable, treating as inactive")
		}
		return nil
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		r.logger.WithError(err).WithField("path", path).Debug("Session descriptor malformed, treating as inactive")
		return nil
	}
	if strings.TrimSpace(s.SessionID) == "" {
		return nil
	}
	return &s
}

// ResolveActiveTicket returns the ticket in scope for a project, or "".
// Sources, first non-empty wins: the workflow state record, the session
// descriptor, and the home-scoped pointer when its project path contains
// this project.
func (r *FileSystemRegistry) ResolveActiveTicket(project string) string {
	wf, err := state.Load(project)
	if err != nil {
		r.logger.WithError(err).Warn("Workflow state unreadable while resolving ticket")
	}
	if wf != nil && strings.TrimSpace(wf.TicketID) != "" {
		return strings.TrimSpace(wf.TicketID)
	}

	if s := r.ResolveSession(project); s != nil && strings.TrimSpace(s.TicketID) != "" {
		return strings.TrimSpace(s.TicketID)
	}

	ptr := r.loadPointer()
	if ptr == nil || strings.TrimSpace(ptr.TicketID) == "" {
		return ""
	}
	if !pathutil.IsWithin(ptr.ProjectPath, project) {
		r.logger.WithFields(logrus.Fields{
			"pointer_project": ptr.ProjectPath,
			"project":         project,
		}).Debug("Ticket pointer belongs to another project, ignoring")
		return ""
	}
	return strings.TrimSpace(ptr.TicketID)
}

// ReviewCompleted reports whether the review-completed marker exists.
func (r *FileSystemRegistry) ReviewCompleted(project string) bool {
	return fsutil.Exists(paths.ReviewMarker(project))
}

// TicketPointer returns the current home-scoped pointer, or nil.
func (r *FileSystemRegistry) TicketPointer() *TicketPointer {
	return r.loadPointer()
}

func (r *FileSystemRegistry) loadPointer() *TicketPointer {
	if r.pointerPath == "" {
		return nil
	}
	data, err := os.ReadFile(r.pointerPath)
	if err != nil {
		return nil
	}
	var ptr TicketPointer
	if err := json.Unmarshal(data, &ptr); err != nil {
		r.logger.WithError(err).Debug("Ticket pointer malformed, ignoring")
		return nil
	}
	return &ptr
}

// StartSession writes a fresh session descriptor for a project. An empty
// sessionID generates one.
func (r *FileSystemRegistry) StartSession(project, sessionID, ticketID string, redactPrompts bool) (*Session, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	s := &Session{
		SessionID:     sessionID,
		RedactPrompts: redactPrompts,
		TicketID:      ticketID,
		StartedAt:     time.Now().UTC(),
	}
	if err := fsutil.WriteJSONAtomic(paths.SessionFile(project), s); err != nil {
		return nil, fmt.Errorf("write session descriptor: %w", err)
	}
	return s, nil
}

// EndSession removes the session descriptor. Telemetry hooks become no-ops.
func (r *FileSystemRegistry) EndSession(project string) error {
	if r.ResolveSession(project) == nil {
		return errors.SessionNotFound(project)
	}
	if err := os.Remove(paths.SessionFile(project)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session descriptor: %w", err)
	}
	return nil
}

// SetTicketPointer records ticketID as current for project and everything below it.
func (r *FileSystemRegistry) SetTicketPointer(project, ticketID string) (*TicketPointer, error) {
	if strings.TrimSpace(ticketID) == "" {
		return nil, errors.TicketRequired()
	}
	ptr := &TicketPointer{
		ProjectPath: project,
		TicketID:    ticketID,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := fsutil.WriteJSONAtomic(r.pointerPath, ptr); err != nil {
		return nil, fmt.Errorf("write ticket pointer: %w", err)
	}
	return ptr, nil
}

// ClearTicketPointer removes the home-scoped pointer.
func (r *FileSystemRegistry) ClearTicketPointer() error {
	if err := os.Remove(r.pointerPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove ticket pointer: %w", err)
	}
	return nil
}

// MarkReviewCompleted creates the review-completed marker for a project.
func (r *FileSystemRegistry) MarkReviewCompleted(project string) error {
	stamp := []byte(time.Now().UTC().Format(time.RFC3339) + "\n")
	if err := fsutil.WriteFileAtomic(paths.ReviewMarker(project), stamp, 0644); err != nil {
		return fmt.Errorf("write review marker: %w", err)
	}
	return nil
}

// ClearReviewCompleted removes the review-completed marker.
func (r *FileSystemRegistry) ClearReviewCompleted(project string) error {
	if err := os.Remove(paths.ReviewMarker(project)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove review marker: %w", err)
	}
	return nil
}
