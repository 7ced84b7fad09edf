// Package state persists the per-project ticket workflow record that the
// admission policy reads. The record is normally written by session
// management tooling; hooks only read it.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/grovetools/agentgate/errors"
	"github.com/grovetools/agentgate/pkg/fsutil"
	"github.com/grovetools/agentgate/pkg/paths"
)

// Well-known workflow states. Any other non-empty state name is accepted
// and treated as not write-permitted.
const (
	Reviewing    = "reviewing"
	Implementing = "implementing"
	Testing      = "testing"
	Committing   = "committing"
)

// Uninitialized is the implicit state of a project with no workflow record.
const Uninitialized = "uninitialized"

var stateNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Workflow is the persisted workflow state of one ticket.
type Workflow struct {
	TicketID     string    `json:"ticketId"`
	SessionID    string    `json:"sessionId"`
	CurrentState string    `json:"currentState"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Load reads the workflow record of a project.
// Returns nil and no error if the file doesn't exist.
func Load(project string) (*Workflow, error) {
	path := paths.WorkflowFile(project)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read workflow state: %w", err)
	}

	var wf Workflow
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, errors.StateCorrupt(path, err)
	}
	wf.CurrentState = strings.TrimSpace(wf.CurrentState)

	return &wf, nil
}

// Save writes the workflow record with an atomic replace.
func Save(project string, wf *Workflow) error {
	if wf.UpdatedAt.IsZero() {
		wf.UpdatedAt = time.Now().UTC()
	}
	if err := fsutil.WriteJSONAtomic(paths.WorkflowFile(project), wf); err != nil {
		return fmt.Errorf("write workflow state: %w", err)
	}
	return nil
}

// Start creates a workflow record for a ticket in the reviewing state,
// replacing any previous record.
func Start(project, ticketID, sessionID string) (*Workflow, error) {
	if strings.TrimSpace(ticketID) == "" {
		return nil, errors.TicketRequired()
	}

	wf := &Workflow{
		TicketID:     ticketID,
		SessionID:    sessionID,
		CurrentState: Reviewing,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := Save(project, wf); err != nil {
		return nil, err
	}
	return wf, nil
}

// Transition moves an existing workflow record to a new state.
func Transition(project, to string) (*Workflow, error) {
	wf, err := Load(project)
	if err != nil {
		return nil, err
	}
	if wf == nil {
		return nil, errors.InvalidTransition(Uninitialized, to).
			WithDetail("hint", "start a workflow for the ticket first")
	}
	if !stateNameRegex.MatchString(to) {
		return nil, errors.InvalidTransition(wf.CurrentState, to)
	}

	wf.CurrentState = to
	wf.UpdatedAt = time.Now().UTC()
	if err := Save(project, wf); err != nil {
		return nil, err
	}
	return wf, nil
}

// Clear removes the workflow record. A missing record is not an error.
func Clear(project string) error {
	if err := os.Remove(paths.WorkflowFile(project)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove workflow state: %w", err)
	}
	return nil
}

// StateOf returns the current state name, or Uninitialized for a nil record.
func StateOf(wf *Workflow) string {
	if wf == nil {
		return Uninitialized
	}
	if wf.CurrentState == "" {
		return "unknown"
	}
	return wf.CurrentState
}
