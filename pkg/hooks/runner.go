// Package hooks runs one host lifecycle hook: it resolves the project's
// session and ticket, keeps the correlation store and event queue current,
// and renders the admission decision for pre-tool-use.
//
// Nothing here returns an error to the host. Failures on the telemetry path
// are logged and swallowed; denials are the only user-visible block.
package hooks

import (
	"fmt"
	"strings"
	"time"

	"github.com/grovetools/agentgate/config"
	"github.com/grovetools/agentgate/pkg/admission"
	"github.com/grovetools/agentgate/pkg/correlation"
	"github.com/grovetools/agentgate/pkg/hookio"
	"github.com/grovetools/agentgate/pkg/paths"
	"github.com/grovetools/agentgate/pkg/queue"
	"github.com/grovetools/agentgate/pkg/sessions"
	"github.com/grovetools/agentgate/state"
	"github.com/grovetools/agentgate/tui/theme"
	"github.com/sirupsen/logrus"
)

// Runner executes hook phases.
type Runner struct {
	registry sessions.Registry
	cfg      *config.Config
	now      func() time.Time
	newID    func() string
	logger   *logrus.Entry
}

// Option configures a Runner.
type Option func(*Runner)

// WithRegistry overrides the session registry.
func WithRegistry(reg sessions.Registry) Option {
	return func(r *Runner) { r.registry = reg }
}

// WithConfig pins the configuration instead of loading it per project.
func WithConfig(cfg *config.Config) Option {
	return func(r *Runner) { r.cfg = cfg }
}

// WithClock overrides the time source for events and durations.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithIDGenerator overrides correlation id generation.
func WithIDGenerator(gen func() string) Option {
	return func(r *Runner) { r.newID = gen }
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner creates a runner backed by the filesystem registry.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logrus.NewEntry(logrus.New())
	}
	if r.registry == nil {
		r.registry = sessions.NewFileSystemRegistry(r.logger)
	}
	return r
}

// invocation is the resolved context shared by every phase.
type invocation struct {
	project string
	cfg     *config.Config
	session *sessions.Session
	logger  *logrus.Entry
}

func (r *Runner) resolve(in hookio.Input) invocation {
	project := sessions.ResolveProject(in.Cwd)
	inv := invocation{
		project: project,
		cfg:     r.configFor(project),
		session: r.registry.ResolveSession(project),
	}
	fields := logrus.Fields{"project": project, "tool": in.ToolName}
	if inv.session != nil {
		fields["session_id"] = inv.session.SessionID
	}
	inv.logger = r.logger.WithFields(fields)
	return inv
}

func (r *Runner) configFor(project string) *config.Config {
	if r.cfg != nil {
		return r.cfg
	}
	cfg, err := config.LoadFromWithLogger(project, r.logger.Logger)
	if err != nil {
		r.logger.WithError(err).Warn("Configuration unusable, using defaults")
		cfg = &config.Config{}
		cfg.SetDefaults()
	}
	return cfg
}

func (inv invocation) telemetry() bool {
	return inv.session != nil && inv.cfg.TelemetryEnabled()
}

func (r *Runner) queueFor(inv invocation) *queue.Queue {
	return queue.New(paths.QueueFile(inv.project), inv.logger)
}

func (r *Runner) correlationFor(inv invocation) *correlation.Store {
	opts := []correlation.Option{correlation.WithClock(r.now), correlation.WithLogger(inv.logger)}
	if r.newID != nil {
		opts = append(opts, correlation.WithIDGenerator(r.newID))
	}
	return correlation.NewStore(paths.CorrelationDir(inv.project), opts...)
}

// PreToolUse renders the admission decision for a proposed tool call. It
// returns nil, meaning no output, when neither a session nor a ticket is in
// scope.
func (r *Runner) PreToolUse(in hookio.Input) *hookio.PermissionOutput {
	inv := r.resolve(in)
	ticket := r.registry.ResolveActiveTicket(inv.project)
	if inv.session == nil && ticket == "" {
		inv.logger.Debug("No session or ticket in scope, skipping")
		return nil
	}

	wf, err := state.Load(inv.project)
	if err != nil {
		inv.logger.WithError(err).Warn("Workflow state unreadable, treating as absent")
		wf = nil
	}

	action := admission.Action{ToolName: in.ToolName, Command: in.Command(), Path: in.Path()}
	decision := admission.NewPolicy(inv.cfg.Workflow).Decide(action, admission.Context{
		ActiveTicket:    ticket,
		Workflow:        wf,
		ReviewCompleted: r.registry.ReviewCompleted(inv.project),
	})

	logger := inv.logger.WithFields(logrus.Fields{
		"ticket":   ticket,
		"state":    state.StateOf(wf),
		"decision": decisionName(decision),
	})
	if decision.Allow {
		logger.Debug("Tool admitted")
	} else {
		logger.Info("Tool denied")
	}

	if inv.telemetry() {
		q := r.queueFor(inv)
		at := r.now()
		if decision.Allow {
			id, err := r.correlationFor(inv).Begin(in.ToolName)
			if err != nil {
				inv.logger.WithError(err).Warn("Failed to persist correlation record")
			}
			if inv.cfg.Telemetry.QueueStartEvents {
				q.Enqueue(queue.NewStartEvent(inv.session.SessionID, in.ToolName, id, at))
			}
		} else {
			q.Enqueue(queue.NewDenyEvent(inv.session.SessionID, in.ToolName, decision.Reason, at))
		}
	}

	return hookio.FromDecision(decision)
}

// PostToolUse records the end of a tool call. failed marks the
// post-tool-use-failure hook point.
func (r *Runner) PostToolUse(in hookio.Input, failed bool) {
	inv := r.resolve(in)
	if !inv.telemetry() {
		return
	}

	id, duration := r.correlationFor(inv).End(in.ToolName)

	errText := ""
	if failed {
		errText = strings.TrimSpace(in.Error)
		if errText == "" {
			errText = "tool reported failure"
		}
	}

	r.queueFor(inv).Enqueue(queue.NewEndEvent(inv.session.SessionID, in.ToolName, id, duration, errText, r.now()))
	inv.logger.WithFields(logrus.Fields{
		"correlation_id": id,
		"duration_ms":    duration,
		"success":        !failed,
	}).Debug("Tool end recorded")
}

// UserPromptSubmit records a submitted prompt, digested when the session
// asks for redaction. The prompt text is never logged.
func (r *Runner) UserPromptSubmit(in hookio.Input) {
	inv := r.resolve(in)
	if !inv.telemetry() {
		return
	}

	ev := queue.NewPromptEvent(inv.session.SessionID, in.Prompt, inv.session.RedactPrompts, r.now())
	r.queueFor(inv).Enqueue(ev)
	inv.logger.WithFields(logrus.Fields{
		"prompt_length": ev.PromptLength,
		"redacted":      ev.Redacted,
	}).Debug("Prompt recorded")
}

// SessionEnd marks the end of the session and returns the notification
// summary, or "" when no session is active.
func (r *Runner) SessionEnd(in hookio.Input) string {
	inv := r.resolve(in)
	if inv.session == nil {
		return ""
	}

	q := r.queueFor(inv)
	if inv.cfg.TelemetryEnabled() {
		q.Enqueue(queue.NewSessionEndEvent(inv.session.SessionID, q.Count(), r.now()))
	}
	count := q.Count()

	inv.logger.WithField("queued_events", count).Info("Session ended")
	return Summary(inv.session.SessionID, count, inv.cfg.Telemetry.FinalizeHint)
}

// Summary renders the session-end notification.
func Summary(sessionID string, queued int, finalizeHint string) string {
	if finalizeHint == "" {
		finalizeHint = config.DefaultFinalizeHint
	}
	t := theme.DefaultTheme
	lines := []string{
		t.Header.Render("agentgate session ended"),
		fmt.Sprintf("%s %s", t.Muted.Render("Session:"), sessionID),
		fmt.Sprintf("%s %d not yet flushed", t.Muted.Render("Queued events:"), queued),
		fmt.Sprintf("Run %s to upload them.", t.Accent.Render("`"+finalizeHint+"`")),
	}
	return theme.RenderBox(strings.Join(lines, "\n"))
}

func decisionName(d admission.Decision) string {
	if d.Allow {
		return hookio.DecisionAllow
	}
	return hookio.DecisionDeny
}
