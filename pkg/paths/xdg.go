// Package paths provides XDG-compliant path resolution for agentgate.
//
// Resolution order:
// 1. AGENTGATE_HOME (portable root) → $AGENTGATE_HOME/{config,state}
// 2. XDG env vars → $XDG_*_HOME/agentgate
// 3. Platform defaults → ~/.config/agentgate, ~/.local/state/agentgate
//
// Project-scoped records (session descriptor, workflow state, correlation
// records, event queue) live under the project's StateDirName directory.
package paths

import (
	"os"
	"path/filepath"
)

// StateDirName is the per-project directory holding session and workflow records.
const StateDirName = ".agentgate"

const appName = "agentgate"

func getConfigHome() string {
	if home := os.Getenv("AGENTGATE_HOME"); home != "" {
		return filepath.Join(home, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config")
	}
	return ""
}

func getStateHome() string {
	if home := os.Getenv("AGENTGATE_HOME"); home != "" {
		return filepath.Join(home, "state")
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state")
	}
	return ""
}

// ConfigDir returns the global configuration directory (agentgate.yml).
func ConfigDir() string {
	base := getConfigHome()
	if base == "" {
		return ""
	}
	if os.Getenv("AGENTGATE_HOME") != "" {
		return base
	}
	return filepath.Join(base, appName)
}

// StateDir returns the home-scoped state directory.
// Used for the cross-project ticket pointer and logs.
func StateDir() string {
	base := getStateHome()
	if base == "" {
		return ""
	}
	if os.Getenv("AGENTGATE_HOME") != "" {
		return base
	}
	return filepath.Join(base, appName)
}

// LogsDir returns the directory for human-readable debug logs.
func LogsDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}

// TicketPointerPath returns the path of the home-scoped "current ticket" pointer.
func TicketPointerPath() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "current-ticket.json")
}

// ProjectStateDir returns the state directory of a project.
func ProjectStateDir(project string) string {
	return filepath.Join(project, StateDirName)
}

// SessionFile returns the session descriptor path of a project.
func SessionFile(project string) string {
	return filepath.Join(ProjectStateDir(project), "session.json")
}

// WorkflowFile returns the workflow state path of a project.
func WorkflowFile(project string) string {
	return filepath.Join(ProjectStateDir(project), "workflow.json")
}

// ReviewMarker returns the review-completed marker path of a project.
func ReviewMarker(project string) string {
	return filepath.Join(ProjectStateDir(project), "review-completed")
}

// CorrelationDir returns the directory of per-tool correlation records.
func CorrelationDir(project string) string {
	return filepath.Join(ProjectStateDir(project), "correlation")
}

// QueueFile returns the path of the newline-delimited event queue.
func QueueFile(project string) string {
	return filepath.Join(ProjectStateDir(project), "telemetry", "queue.jsonl")
}

// EnsureDirs creates the home-scoped directories if they don't exist.
func EnsureDirs() error {
	for _, dir := range []string{ConfigDir(), StateDir(), LogsDir()} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
