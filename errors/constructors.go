package errors

import "fmt"

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *AgentgateError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *AgentgateError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// SessionNotFound reports that no telemetry session is active for a project.
func SessionNotFound(project string) *AgentgateError {
	return New(ErrCodeSessionNotFound, fmt.Sprintf("no active session for %s", project)).
		WithDetail("project", project)
}

// StateCorrupt reports a persisted record that exists but cannot be parsed.
func StateCorrupt(path string, err error) *AgentgateError {
	return Wrap(err, ErrCodeStateCorrupt, fmt.Sprintf("cannot parse %s", path)).
		WithDetail("path", path)
}

// InvalidTransition reports a rejected workflow state change.
func InvalidTransition(from, to string) *AgentgateError {
	return New(ErrCodeInvalidTransition, fmt.Sprintf("cannot transition from '%s' to '%s'", from, to)).
		WithDetail("from", from).
		WithDetail("to", to)
}

// TicketRequired reports a workflow command run with no ticket in scope.
func TicketRequired() *AgentgateError {
	return New(ErrCodeTicketRequired, "no ticket in scope")
}

// QueueWrite wraps a failed append to the telemetry queue.
func QueueWrite(path string, err error) *AgentgateError {
	return Wrap(err, ErrCodeQueueWrite, "failed to append telemetry event").
		WithDetail("path", path)
}

// InvalidInput creates an invalid input error
func InvalidInput(reason string) *AgentgateError {
	return New(ErrCodeInvalidInput, reason)
}
