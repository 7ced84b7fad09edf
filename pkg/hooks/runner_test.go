package hooks

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/grovetools/agentgate/config"
	"github.com/grovetools/agentgate/pkg/correlation"
	"github.com/grovetools/agentgate/pkg/hookio"
	"github.com/grovetools/agentgate/pkg/paths"
	"github.com/grovetools/agentgate/pkg/queue"
	"github.com/grovetools/agentgate/pkg/sessions"
	"github.com/grovetools/agentgate/state"
	"github.com/grovetools/agentgate/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	project  string
	registry *sessions.FileSystemRegistry
	cfg      *config.Config
	runner   *Runner
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	testutil.IsolateHome(t)

	f := &fixture{
		project:  testutil.NewProject(t),
		registry: sessions.NewFileSystemRegistryAt(filepath.Join(t.TempDir(), "current-ticket.json"), nil),
		cfg:      &config.Config{},
		now:      time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC),
	}
	f.cfg.SetDefaults()
	f.runner = NewRunner(
		WithRegistry(f.registry),
		WithConfig(f.cfg),
		WithClock(func() time.Time { return f.now }),
		WithIDGenerator(func() string { return "corr-1" }),
	)
	return f
}

func (f *fixture) input(tool string, args map[string]interface{}) hookio.Input {
	return hookio.Input{ToolName: tool, ToolArgs: args, Cwd: f.project}
}

func (f *fixture) startSession(t *testing.T, ticket string, redact bool) {
	t.Helper()
	_, err := f.registry.StartSession(f.project, "sess-1", ticket, redact)
	require.NoError(t, err)
}

func (f *fixture) records(t *testing.T) []queue.Record {
	t.Helper()
	return testutil.ReadQueue(t, f.project)
}

func (f *fixture) pending(tool string) bool {
	return correlation.NewStore(paths.CorrelationDir(f.project)).Pending(tool)
}

func TestNoSessionNoTicketIsSilent(t *testing.T) {
	f := newFixture(t)
	edit := f.input("edit", map[string]interface{}{"path": "a.go"})

	assert.Nil(t, f.runner.PreToolUse(edit))
	f.runner.PostToolUse(edit, false)
	f.runner.PostToolUse(edit, true)
	f.runner.UserPromptSubmit(hookio.Input{Cwd: f.project, Prompt: "hello"})
	assert.Empty(t, f.runner.SessionEnd(hookio.Input{Cwd: f.project}))

	assert.NoFileExists(t, paths.QueueFile(f.project))
	assert.False(t, f.pending("edit"))
}

func TestToolRoundTripCorrelates(t *testing.T) {
	f := newFixture(t)
	f.startSession(t, "", false)
	bash := f.input("bash", map[string]interface{}{"command": "go test ./..."})

	out := f.runner.PreToolUse(bash)
	require.NotNil(t, out)
	assert.Equal(t, hookio.DecisionAllow, out.PermissionDecision)
	assert.True(t, f.pending("bash"))
	assert.NoFileExists(t, paths.QueueFile(f.project), "start events are not queued by default")

	f.now = f.now.Add(1500 * time.Millisecond)
	f.runner.PostToolUse(bash, false)

	records := f.records(t)
	require.Len(t, records, 1)
	assert.Equal(t, "sess-1", records[0]["sessionId"])
	assert.Equal(t, "end", records[0]["event"])
	assert.Equal(t, "corr-1", records[0]["correlationId"])
	assert.Equal(t, float64(1500), records[0]["durationMs"])
	assert.Equal(t, true, records[0]["success"])
	assert.False(t, f.pending("bash"), "end consumes the record")
}

func TestPostToolUseWithoutStartDegrades(t *testing.T) {
	f := newFixture(t)
	f.startSession(t, "", false)

	f.runner.PostToolUse(f.input("edit", nil), false)

	records := f.records(t)
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0]["correlationId"])
	assert.Equal(t, float64(f.now.UnixMilli()), records[0]["durationMs"])
}

func TestPostToolUseFailureTruncatesError(t *testing.T) {
	f := newFixture(t)
	f.startSession(t, "", false)

	in := f.input("bash", nil)
	in.Error = strings.Repeat("e", 501)
	f.runner.PostToolUse(in, true)

	in.Error = ""
	f.runner.PostToolUse(in, true)

	records := f.records(t)
	require.Len(t, records, 2)
	assert.Equal(t, false, records[0]["success"])
	assert.Len(t, records[0]["error"], 500)
	assert.Equal(t, false, records[1]["success"])
	assert.NotEmpty(t, records[1]["error"])
}

func TestWriteDeniedWithoutWorkflow(t *testing.T) {
	f := newFixture(t)
	f.startSession(t, "T-1", false)

	out := f.runner.PreToolUse(f.input("Edit", map[string]interface{}{"file_path": "main.go"}))
	require.NotNil(t, out)
	assert.Equal(t, hookio.DecisionDeny, out.PermissionDecision)
	assert.Contains(t, out.Reason, "T-1")
	assert.Contains(t, out.Reason, "implementing")
	assert.False(t, f.pending("Edit"), "denied tools get no correlation record")

	records := f.records(t)
	require.Len(t, records, 1)
	assert.Equal(t, "deny", records[0]["event"])
	assert.Equal(t, out.Reason, records[0]["reason"])
}

func TestWriteFollowsWorkflowState(t *testing.T) {
	f := newFixture(t)
	f.startSession(t, "T-1", false)
	edit := f.input("write", map[string]interface{}{"path": "a.txt"})

	_, err := state.Start(f.project, "T-1", "sess-1")
	require.NoError(t, err)

	out := f.runner.PreToolUse(edit)
	assert.True(t, out.Denied())
	assert.Contains(t, out.Reason, `"reviewing"`)

	_, err = state.Transition(f.project, state.Implementing)
	require.NoError(t, err)

	out = f.runner.PreToolUse(edit)
	assert.False(t, out.Denied())
	assert.True(t, f.pending("write"))
}

func TestPublishRequiresReview(t *testing.T) {
	f := newFixture(t)
	f.startSession(t, "T-1", false)
	_, err := state.Start(f.project, "T-1", "sess-1")
	require.NoError(t, err)
	_, err = state.Transition(f.project, state.Committing)
	require.NoError(t, err)

	push := f.input("bash", map[string]interface{}{"command": "git push origin main"})

	out := f.runner.PreToolUse(push)
	require.True(t, out.Denied())
	assert.True(t, strings.HasPrefix(out.Reason, "REVIEW REQUIRED"))

	require.NoError(t, f.registry.MarkReviewCompleted(f.project))
	out = f.runner.PreToolUse(push)
	assert.False(t, out.Denied())
}

func TestTicketPointerGatesWithoutSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.registry.SetTicketPointer(f.project, "T-9")
	require.NoError(t, err)

	out := f.runner.PreToolUse(f.input("edit", nil))
	require.NotNil(t, out)
	assert.True(t, out.Denied())
	assert.Contains(t, out.Reason, "T-9")
	assert.NoFileExists(t, paths.QueueFile(f.project), "no session means no telemetry")
}

func TestTicketPointerForOtherProjectIgnored(t *testing.T) {
	f := newFixture(t)
	_, err := f.registry.SetTicketPointer(f.project+"-other", "T-9")
	require.NoError(t, err)

	assert.Nil(t, f.runner.PreToolUse(f.input("edit", nil)))
}

func TestPromptRedaction(t *testing.T) {
	f := newFixture(t)
	f.startSession(t, "", true)

	f.runner.UserPromptSubmit(hookio.Input{Cwd: f.project, Prompt: "deploy the secret thing"})

	records := f.records(t)
	require.Len(t, records, 1)
	assert.Equal(t, queue.Digest("deploy the secret thing"), records[0]["prompt"])
	assert.Equal(t, true, records[0]["redacted"])
	assert.Equal(t, float64(len("deploy the secret thing")), records[0]["promptLength"])

	data, err := os.ReadFile(paths.QueueFile(f.project))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret thing")
}

func TestPromptPlain(t *testing.T) {
	f := newFixture(t)
	f.startSession(t, "", false)

	f.runner.UserPromptSubmit(hookio.Input{Cwd: f.project, Prompt: "hello"})

	records := f.records(t)
	require.Len(t, records, 1)
	assert.Equal(t, "hello", records[0]["prompt"])
	assert.Equal(t, float64(5), records[0]["promptLength"])
	assert.Equal(t, false, records[0]["redacted"])
}

func TestSessionEndSummary(t *testing.T) {
	f := newFixture(t)
	f.startSession(t, "", false)
	f.runner.UserPromptSubmit(hookio.Input{Cwd: f.project, Prompt: "one"})
	f.runner.UserPromptSubmit(hookio.Input{Cwd: f.project, Prompt: "two"})

	summary := f.runner.SessionEnd(hookio.Input{Cwd: f.project})
	assert.Contains(t, summary, "sess-1")
	assert.Contains(t, summary, "3 not yet flushed")
	assert.Contains(t, summary, config.DefaultFinalizeHint)

	records := f.records(t)
	require.Len(t, records, 3)
	assert.Equal(t, "sessionEnd", records[2]["event"])
	assert.Equal(t, float64(2), records[2]["queuedEvents"])
}

func TestQueueStartEvents(t *testing.T) {
	f := newFixture(t)
	f.cfg.Telemetry.QueueStartEvents = true
	f.startSession(t, "", false)

	f.runner.PreToolUse(f.input("bash", map[string]interface{}{"command": "ls"}))

	records := f.records(t)
	require.Len(t, records, 1)
	assert.Equal(t, "start", records[0]["event"])
	assert.Equal(t, "corr-1", records[0]["correlationId"])
}

func TestTelemetryDisabled(t *testing.T) {
	f := newFixture(t)
	disabled := false
	f.cfg.Telemetry.Enabled = &disabled
	f.startSession(t, "T-1", false)

	out := f.runner.PreToolUse(f.input("edit", nil))
	assert.True(t, out.Denied(), "admission still applies")
	f.runner.UserPromptSubmit(hookio.Input{Cwd: f.project, Prompt: "x"})

	assert.NoFileExists(t, paths.QueueFile(f.project))
}

func TestHandleWritesDecision(t *testing.T) {
	f := newFixture(t)
	f.startSession(t, "T-1", false)

	var buf bytes.Buffer
	f.runner.Handle(PhasePreToolUse, f.input("edit", nil), &buf)

	var out hookio.PermissionOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, hookio.DecisionDeny, out.PermissionDecision)
	assert.NotEmpty(t, out.Reason)

	buf.Reset()
	f.runner.Handle(PhasePostToolUse, f.input("edit", nil), &buf)
	assert.Empty(t, buf.String())

	buf.Reset()
	f.runner.Handle(PhaseSessionEnd, hookio.Input{Cwd: f.project}, &buf)
	assert.Contains(t, buf.String(), "sess-1")
}
