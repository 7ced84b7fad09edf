package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/agentgate/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints a remediation message for err and returns it unchanged
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	out := h.Out
	if out == nil {
		out = os.Stderr
	}

	agErr := errors.Find(err)

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(out, "❌ Configuration not found. Create .agentgate/agentgate.yml or pass --config.\n")

	case errors.ErrCodeConfigInvalid:
		fmt.Fprintf(out, "❌ Configuration is invalid: %v\n", err)
		fmt.Fprintf(out, "Run 'agentgate config validate' to see every problem.\n")

	case errors.ErrCodeSessionNotFound:
		fmt.Fprintf(out, "❌ No active session for %v\n", detail(agErr, "project"))
		fmt.Fprintf(out, "Run 'agentgate session start' first.\n")

	case errors.ErrCodeTicketRequired:
		fmt.Fprintf(out, "❌ A ticket id is required.\n")

	case errors.ErrCodeInvalidTransition:
		fmt.Fprintf(out, "❌ Cannot move workflow from '%v' to '%v'\n", detail(agErr, "from"), detail(agErr, "to"))
		if hint := detail(agErr, "hint"); hint != "" {
			fmt.Fprintf(out, "Hint: %v\n", hint)
		}

	case errors.ErrCodeStateCorrupt:
		fmt.Fprintf(out, "❌ State file %v is corrupt. Remove it or restart the workflow.\n", detail(agErr, "path"))

	case errors.ErrCodeQueueWrite, errors.ErrCodeQueueRead:
		fmt.Fprintf(out, "❌ Telemetry queue %v is not accessible: %v\n", detail(agErr, "path"), agErr.Cause)

	default:
		fmt.Fprintf(out, "❌ Error: %v\n", err)
	}

	if h.Verbose && agErr != nil {
		fmt.Fprintf(out, "\nError details:\n%s\n", agErr.ToJSON())
	}
	return err
}

func detail(err *errors.AgentgateError, key string) interface{} {
	if err == nil || err.Details == nil {
		return ""
	}
	if v, ok := err.Details[key]; ok {
		return v
	}
	return ""
}
