package cmd

import (
	"fmt"
	"strings"

	"github.com/grovetools/agentgate/pkg/paths"
	"github.com/grovetools/agentgate/pkg/queue"
	"github.com/grovetools/agentgate/pkg/sessions"
	"github.com/grovetools/agentgate/state"
	"github.com/grovetools/agentgate/tui/theme"
	"github.com/sirupsen/logrus"
)

// StatusOutput is the state of agentgate for one project.
type StatusOutput struct {
	Project         string `json:"project"`
	SessionID       string `json:"sessionId,omitempty"`
	RedactPrompts   bool   `json:"redactPrompts"`
	ActiveTicket    string `json:"activeTicket,omitempty"`
	WorkflowState   string `json:"workflowState"`
	ReviewCompleted bool   `json:"reviewCompleted"`
	QueuedEvents    int    `json:"queuedEvents"`
	QueuePath       string `json:"queuePath"`
}

func collectStatus(project string, reg *sessions.FileSystemRegistry, logger *logrus.Entry) StatusOutput {
	out := StatusOutput{
		Project:         project,
		ActiveTicket:    reg.ResolveActiveTicket(project),
		ReviewCompleted: reg.ReviewCompleted(project),
		QueuePath:       paths.QueueFile(project),
	}
	if s := reg.ResolveSession(project); s != nil {
		out.SessionID = s.SessionID
		out.RedactPrompts = s.RedactPrompts
	}

	wf, err := state.Load(project)
	if err != nil {
		logger.WithError(err).Warn("Workflow state unreadable")
		out.WorkflowState = "corrupt"
	} else {
		out.WorkflowState = state.StateOf(wf)
	}

	out.QueuedEvents = queue.New(out.QueuePath, logger).Count()
	return out
}

func renderStatus(s StatusOutput) string {
	t := theme.DefaultTheme
	row := func(label, value string) string {
		return fmt.Sprintf("%s %s", t.Muted.Render(fmt.Sprintf("%-10s", label+":")), value)
	}
	or := func(v, fallback string) string {
		if v == "" {
			return t.Muted.Render(fallback)
		}
		return v
	}

	session := theme.RenderStatus("warning", "inactive")
	if s.SessionID != "" {
		session = theme.RenderStatus("success", s.SessionID)
		if s.RedactPrompts {
			session += t.Muted.Render(" (prompts redacted)")
		}
	}

	review := theme.RenderStatus("warning", "pending")
	if s.ReviewCompleted {
		review = theme.RenderStatus("success", "completed")
	}

	lines := []string{
		t.Header.Render("agentgate status"),
		row("Project", s.Project),
		row("Session", session),
		row("Ticket", or(s.ActiveTicket, "none")),
		row("Workflow", t.Accent.Render(s.WorkflowState)),
		row("Review", review),
		row("Queue", fmt.Sprintf("%d event(s) %s", s.QueuedEvents, t.Muted.Render(s.QueuePath))),
	}
	return theme.RenderBox(strings.Join(lines, "\n"))
}
