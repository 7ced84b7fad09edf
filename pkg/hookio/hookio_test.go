package hookio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grovetools/agentgate/pkg/admission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInputAliases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Input
	}{
		{
			name:  "camel case",
			input: `{"toolName":"bash","toolArgs":{"command":"git push"},"sessionId":"s-1","cwd":"/repo"}`,
			want: Input{ToolName: "bash", ToolArgs: map[string]interface{}{"command": "git push"},
				SessionID: "s-1", Cwd: "/repo"},
		},
		{
			name:  "snake case",
			input: `{"tool_name":"Edit","tool_input":{"file_path":"a.go"},"session_id":"s-2","hook_event_name":"PreToolUse"}`,
			want: Input{ToolName: "Edit", ToolArgs: map[string]interface{}{"file_path": "a.go"},
				SessionID: "s-2", HookEventName: "PreToolUse"},
		},
		{
			name:  "project dir",
			input: `{"projectDir":"/work","prompt":"hello"}`,
			want:  Input{Cwd: "/work", Prompt: "hello"},
		},
		{
			name:  "args as json string",
			input: `{"toolName":"bash","toolArgs":"{\"command\":\"ls\"}"}`,
			want:  Input{ToolName: "bash", ToolArgs: map[string]interface{}{"command": "ls"}},
		},
		{
			name:  "error object",
			input: `{"toolName":"bash","error":{"message":"exit status 1","code":1}}`,
			want:  Input{ToolName: "bash", Error: "exit status 1"},
		},
		{
			name:  "error string",
			input: `{"error":"boom"}`,
			want:  Input{Error: "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInput(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInputEmptyAndMalformed(t *testing.T) {
	got, err := ParseInput(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Input{}, got)

	got, err = ParseInput(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Equal(t, Input{}, got)

	got, err = ParseInput(strings.NewReader("{not json"))
	assert.Error(t, err)
	assert.Equal(t, Input{}, got)

	got, err = ParseInput(strings.NewReader(`["array"]`))
	assert.Error(t, err)
	assert.Equal(t, Input{}, got)
}

func TestParseInputTooLarge(t *testing.T) {
	big := `{"prompt":"` + strings.Repeat("a", MaxInputBytes) + `"}`
	got, err := ParseInput(strings.NewReader(big))
	assert.Error(t, err)
	assert.Equal(t, Input{}, got)
}

func TestParseInputMistypedFields(t *testing.T) {
	got, err := ParseInput(strings.NewReader(`{"toolName":"edit","sessionId":42,"prompt":["x"],"toolArgs":7}`))
	require.NoError(t, err)
	assert.Equal(t, "edit", got.ToolName)
	assert.Equal(t, "42", got.SessionID)
	assert.Empty(t, got.Prompt)
	assert.Nil(t, got.ToolArgs)
}

func TestCommandAndPath(t *testing.T) {
	in := Input{ToolArgs: map[string]interface{}{"command": "git push", "filePath": "/a/b.go"}}
	assert.Equal(t, "git push", in.Command())
	assert.Equal(t, "/a/b.go", in.Path())

	in = Input{ToolArgs: map[string]interface{}{"path": "x.txt", "command": 3}}
	assert.Equal(t, "x.txt", in.Path())
	assert.Empty(t, in.Command())

	assert.Empty(t, Input{}.Command())
}

func TestPermissionOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FromDecision(admission.Allowed).Write(&buf))
	assert.JSONEq(t, `{"permissionDecision":"allow"}`, buf.String())

	buf.Reset()
	out := FromDecision(admission.Deny("REVIEW REQUIRED: run review"))
	assert.True(t, out.Denied())
	require.NoError(t, out.Write(&buf))
	assert.JSONEq(t, `{"permissionDecision":"deny","reason":"REVIEW REQUIRED: run review"}`, buf.String())

	buf.Reset()
	var none *PermissionOutput
	require.NoError(t, none.Write(&buf))
	assert.Empty(t, buf.String())
	assert.False(t, none.Denied())
}
