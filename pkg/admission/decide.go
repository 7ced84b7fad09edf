package admission

import (
	"fmt"
	"strings"

	"github.com/grovetools/agentgate/state"
)

// Action is a proposed tool invocation.
type Action struct {
	ToolName string
	Command  string
	Path     string
}

// Context is the workflow state the action is judged against.
type Context struct {
	// ActiveTicket is empty when no ticket is in scope.
	ActiveTicket string
	// Workflow is nil when no workflow record exists.
	Workflow        *state.Workflow
	ReviewCompleted bool
}

// Decision is the admission verdict. Reason is set only on deny.
type Decision struct {
	Allow  bool
	Reason string
}

// Allowed is the default-permit decision.
var Allowed = Decision{Allow: true}

// Deny builds a denying decision.
func Deny(reason string) Decision {
	return Decision{Allow: false, Reason: reason}
}

// Decide evaluates action with the default policy.
func Decide(action Action, ctx Context) Decision {
	return DefaultPolicy().Decide(action, ctx)
}

// Decide evaluates action against ctx. Only write actions and publish
// commands on a tracked ticket can be denied.
func (p *Policy) Decide(action Action, ctx Context) Decision {
	ticket := strings.TrimSpace(ctx.ActiveTicket)

	switch {
	case p.IsWriteTool(action.ToolName):
		if ticket == "" {
			return Allowed
		}
		if ctx.Workflow == nil {
			return Deny(noWorkflowReason(ticket))
		}
		if p.AllowsWrites(ctx.Workflow.CurrentState) {
			return Allowed
		}
		return Deny(wrongStateReason(ticket, state.StateOf(ctx.Workflow)))

	case p.runsShell(action) && p.IsPublishCommand(action.Command):
		if ticket == "" || ctx.ReviewCompleted {
			return Allowed
		}
		return Deny(reviewRequiredReason(ticket))
	}

	return Allowed
}

// runsShell reports whether action executes a shell command. Hosts name their
// shell tools differently, so any action carrying command text counts.
func (p *Policy) runsShell(action Action) bool {
	return p.IsShellTool(action.ToolName) || strings.TrimSpace(action.Command) != ""
}

func noWorkflowReason(ticket string) string {
	return fmt.Sprintf(
		"Ticket %s has no workflow session, so file writes are blocked. "+
			"Run `agentgate workflow start %s`, then `agentgate workflow transition %s`, and retry.",
		ticket, ticket, state.Implementing)
}

func wrongStateReason(ticket, current string) string {
	return fmt.Sprintf(
		"Ticket %s is in workflow state %q, which does not permit file writes. "+
			"Run `agentgate workflow transition %s` and retry.",
		ticket, current, state.Implementing)
}

func reviewRequiredReason(ticket string) string {
	return fmt.Sprintf(
		"REVIEW REQUIRED: ticket %s has not completed review, so push and pull request commands are blocked. "+
			"Run the review step, then `agentgate review complete`, and retry.",
		ticket)
}
